package dao

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrMemberNotFound     = errors.New("member not found")
	ErrMemberWalletExists = errors.New("member wallet already registered")
	ErrMemberEmailExists  = errors.New("member email already registered")
)

type Member struct {
	ID uint `gorm:"primaryKey"`

	WalletAddress string  `gorm:"unique;not null"`
	Email         *string `gorm:"unique"`

	Tier             int `gorm:"not null;default:0"`
	AttendanceCount  int `gorm:"not null;default:0"`
	LastAttendanceAt *time.Time
	CredentialRef    *string
	ReferrerID       *uint
	VibePoints       int `gorm:"not null;default:0"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type MemberDAO struct {
	db *gorm.DB
}

func NewMemberDAO(db *gorm.DB) *MemberDAO {
	return &MemberDAO{
		db: db,
	}
}

func (d *MemberDAO) Insert(ctx context.Context, member Member) (Member, error) {
	result := d.db.WithContext(ctx).Create(&member)
	if result.Error != nil {
		var err *pgconn.PgError
		if errors.As(result.Error, &err) && err.Code == pgerrcode.UniqueViolation {
			if strings.Contains(err.Message, "wallet_address") {
				return Member{}, ErrMemberWalletExists
			}

			return Member{}, ErrMemberEmailExists
		}

		return Member{}, result.Error
	}

	return member, nil
}

func (d *MemberDAO) FindByID(ctx context.Context, id uint) (Member, error) {
	var member Member

	result := d.db.WithContext(ctx).First(&member, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Member{}, ErrMemberNotFound
		}

		return Member{}, result.Error
	}

	return member, nil
}

func (d *MemberDAO) FindByWallet(ctx context.Context, walletAddress string) (Member, error) {
	var member Member

	result := d.db.WithContext(ctx).First(&member, "wallet_address = ?", walletAddress)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Member{}, ErrMemberNotFound
		}

		return Member{}, result.Error
	}

	return member, nil
}

// BackfillEmail stores an email for a member that has none yet. The guard in
// the WHERE clause makes the backfill at-most-once: an existing email is
// never overwritten by this path.
func (d *MemberDAO) BackfillEmail(ctx context.Context, id uint, email string) error {
	result := d.db.WithContext(ctx).Model(&Member{}).
		Where("id = ? AND email IS NULL", id).
		Update("email", email)
	if result.Error != nil {
		var err *pgconn.PgError
		if errors.As(result.Error, &err) && err.Code == pgerrcode.UniqueViolation {
			return ErrMemberEmailExists
		}

		return result.Error
	}

	return nil
}

func (d *MemberDAO) RecordTransmutation(ctx context.Context, id uint, at time.Time) error {
	return d.db.WithContext(ctx).Model(&Member{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"tier":               1,
			"attendance_count":   1,
			"last_attendance_at": at,
		}).Error
}

func (d *MemberDAO) IncrementAttendance(ctx context.Context, id uint, at time.Time) error {
	return d.db.WithContext(ctx).Model(&Member{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"attendance_count":   gorm.Expr("attendance_count + 1"),
			"last_attendance_at": at,
		}).Error
}

func (d *MemberDAO) UpdateTier(ctx context.Context, id uint, tier int) error {
	return d.db.WithContext(ctx).Model(&Member{}).
		Where("id = ?", id).
		Update("tier", tier).Error
}

func (d *MemberDAO) SetCredentialRef(ctx context.Context, id uint, ref string) error {
	return d.db.WithContext(ctx).Model(&Member{}).
		Where("id = ?", id).
		Update("credential_ref", ref).Error
}

func (d *MemberDAO) AddVibePoints(ctx context.Context, id uint, amount int) error {
	return d.db.WithContext(ctx).Model(&Member{}).
		Where("id = ?", id).
		Update("vibe_points", gorm.Expr("vibe_points + ?", amount)).Error
}
