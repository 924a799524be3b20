package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrInvitationNotFound = errors.New("invitation not found")
	// ErrInvitationUnavailable means the invitation was no longer PENDING when
	// the conditional update ran: already claimed, already used, or raced.
	ErrInvitationUnavailable = errors.New("invitation no longer available")
)

type Invitation struct {
	ID uint `gorm:"primaryKey"`

	Email    string `gorm:"index;not null"`
	EventID  *uint  `gorm:"index"`
	Status   string `gorm:"not null;default:PENDING"`
	IssuedBy string `gorm:"not null"`

	ExpiresAt *time.Time
	ClaimedAt *time.Time
	UsedAt    *time.Time

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type InvitationDAO struct {
	db *gorm.DB
}

func NewInvitationDAO(db *gorm.DB) *InvitationDAO {
	return &InvitationDAO{
		db: db,
	}
}

func (d *InvitationDAO) Insert(ctx context.Context, invitation Invitation) (Invitation, error) {
	result := d.db.WithContext(ctx).Create(&invitation)
	if result.Error != nil {
		return Invitation{}, result.Error
	}

	return invitation, nil
}

func (d *InvitationDAO) FindByID(ctx context.Context, id uint) (Invitation, error) {
	var invitation Invitation

	result := d.db.WithContext(ctx).First(&invitation, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Invitation{}, ErrInvitationNotFound
		}

		return Invitation{}, result.Error
	}

	return invitation, nil
}

func (d *InvitationDAO) FindPendingByEmail(ctx context.Context, email string) ([]Invitation, error) {
	var invitations []Invitation

	result := d.db.WithContext(ctx).
		Where("email = ? AND status = ?", email, "PENDING").
		Find(&invitations)
	if result.Error != nil {
		return nil, result.Error
	}

	return invitations, nil
}

// FindOpenByEmailAndEvent returns any invitation for the (email, event) pair
// that is not yet consumed, used by issuance to keep duplicate admin clicks
// idempotent. A nil eventID matches general-access invitations.
func (d *InvitationDAO) FindOpenByEmailAndEvent(ctx context.Context, email string, eventID *uint) (Invitation, error) {
	var invitation Invitation

	query := d.db.WithContext(ctx).
		Where("email = ? AND status IN ?", email, []string{"PENDING", "CLAIMED"})
	if eventID != nil {
		query = query.Where("event_id = ?", *eventID)
	} else {
		query = query.Where("event_id IS NULL")
	}

	result := query.First(&invitation)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Invitation{}, ErrInvitationNotFound
		}

		return Invitation{}, result.Error
	}

	return invitation, nil
}

// MarkClaimed flips a PENDING invitation to CLAIMED. The status guard keeps
// two concurrent logins from converting the same invitation twice.
func (d *InvitationDAO) MarkClaimed(ctx context.Context, id uint, at time.Time) error {
	result := d.db.WithContext(ctx).Model(&Invitation{}).
		Where("id = ? AND status = ?", id, "PENDING").
		Updates(map[string]interface{}{
			"status":     "CLAIMED",
			"claimed_at": at,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInvitationUnavailable
	}

	return nil
}

// Claim consumes a PENDING invitation directly at the door. The single
// conditional UPDATE is the exactly-once guard: the loser of a race observes
// zero affected rows and gets ErrInvitationUnavailable.
func (d *InvitationDAO) Claim(ctx context.Context, id uint, at time.Time) error {
	result := d.db.WithContext(ctx).Model(&Invitation{}).
		Where("id = ? AND status = ?", id, "PENDING").
		Updates(map[string]interface{}{
			"status":  "USED",
			"used_at": at,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInvitationUnavailable
	}

	return nil
}
