package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrTicketNotFound = errors.New("ticket not found")
	// ErrTicketUnavailable means the ticket was no longer PENDING when the
	// conditional update ran.
	ErrTicketUnavailable = errors.New("ticket no longer available")
)

type Ticket struct {
	ID uint `gorm:"primaryKey"`

	MemberID     uint   `gorm:"index;not null"`
	EventID      *uint  `gorm:"index"`
	Status       string `gorm:"not null;default:PENDING"`
	InvitationID *uint

	ExpiresAt *time.Time
	UsedAt    *time.Time

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type TicketDAO struct {
	db *gorm.DB
}

func NewTicketDAO(db *gorm.DB) *TicketDAO {
	return &TicketDAO{
		db: db,
	}
}

func (d *TicketDAO) Insert(ctx context.Context, ticket Ticket) (Ticket, error) {
	result := d.db.WithContext(ctx).Create(&ticket)
	if result.Error != nil {
		return Ticket{}, result.Error
	}

	return ticket, nil
}

func (d *TicketDAO) FindByID(ctx context.Context, id uint) (Ticket, error) {
	var ticket Ticket

	result := d.db.WithContext(ctx).First(&ticket, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Ticket{}, ErrTicketNotFound
		}

		return Ticket{}, result.Error
	}

	return ticket, nil
}

// FindRedeemableByMember returns the member's tickets that are still PENDING
// and not past expiry, newest first.
func (d *TicketDAO) FindRedeemableByMember(ctx context.Context, memberID uint, now time.Time) ([]Ticket, error) {
	var tickets []Ticket

	result := d.db.WithContext(ctx).
		Where("member_id = ? AND status = ? AND (expires_at IS NULL OR expires_at > ?)",
			memberID, "PENDING", now).
		Order("created_at DESC").
		Find(&tickets)
	if result.Error != nil {
		return nil, result.Error
	}

	return tickets, nil
}

// Claim burns a PENDING ticket. The single conditional UPDATE is the
// exactly-once redemption guard: a concurrent second claim affects zero rows
// and gets ErrTicketUnavailable instead of double-crediting attendance.
func (d *TicketDAO) Claim(ctx context.Context, id uint, at time.Time) error {
	result := d.db.WithContext(ctx).Model(&Ticket{}).
		Where("id = ? AND status = ?", id, "PENDING").
		Updates(map[string]interface{}{
			"status":  "USED",
			"used_at": at,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTicketUnavailable
	}

	return nil
}
