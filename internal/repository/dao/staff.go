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
	ErrStaffEmailExists = errors.New("staff user already exists")
	ErrStaffNotFound    = errors.New("staff user not found")
)

type StaffUser struct {
	ID uint `gorm:"primaryKey"`

	Email    string `gorm:"unique;not null"`
	Password string `gorm:"not null"`
	Name     string `gorm:"not null"`
	Role     string `gorm:"not null"` // "staff" or "admin"

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type StaffDAO struct {
	db *gorm.DB
}

func NewStaffDAO(db *gorm.DB) *StaffDAO {
	return &StaffDAO{
		db: db,
	}
}

func (d *StaffDAO) Insert(ctx context.Context, staff StaffUser) (StaffUser, error) {
	result := d.db.WithContext(ctx).Create(&staff)
	if result.Error != nil {
		var err *pgconn.PgError
		if errors.As(result.Error, &err) &&
			err.Code == pgerrcode.UniqueViolation &&
			strings.Contains(err.Message, "email") {
			return StaffUser{}, ErrStaffEmailExists
		}

		return StaffUser{}, result.Error
	}

	return staff, nil
}

func (d *StaffDAO) FindByID(ctx context.Context, id uint) (StaffUser, error) {
	var staff StaffUser

	result := d.db.WithContext(ctx).First(&staff, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return StaffUser{}, ErrStaffNotFound
		}

		return StaffUser{}, result.Error
	}

	return staff, nil
}

func (d *StaffDAO) FindByEmail(ctx context.Context, email string) (StaffUser, error) {
	var staff StaffUser

	result := d.db.WithContext(ctx).First(&staff, "email = ?", email)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return StaffUser{}, ErrStaffNotFound
		}

		return StaffUser{}, result.Error
	}

	return staff, nil
}
