package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrEventAttendanceNotFound = errors.New("event attendance not found")

// AttendanceRecord rows are append-only: inserted at check-in, never updated.
type AttendanceRecord struct {
	ID uint `gorm:"primaryKey"`

	MemberID    uint      `gorm:"index;not null"`
	EventID     *uint     `gorm:"index"`
	CheckedInAt time.Time `gorm:"not null"`
}

type EventAttendance struct {
	ID uint `gorm:"primaryKey"`

	MemberID      uint `gorm:"not null;uniqueIndex:idx_event_attendances_member_event"`
	EventID       uint `gorm:"not null;uniqueIndex:idx_event_attendances_member_event"`
	CredentialRef *string

	CreatedAt time.Time `gorm:"not null"`
}

type AttendanceDAO struct {
	db *gorm.DB
}

func NewAttendanceDAO(db *gorm.DB) *AttendanceDAO {
	return &AttendanceDAO{
		db: db,
	}
}

func (d *AttendanceDAO) InsertRecord(ctx context.Context, record AttendanceRecord) (AttendanceRecord, error) {
	result := d.db.WithContext(ctx).Create(&record)
	if result.Error != nil {
		return AttendanceRecord{}, result.Error
	}

	return record, nil
}

func (d *AttendanceDAO) FindRecordsByMember(ctx context.Context, memberID uint) ([]AttendanceRecord, error) {
	var records []AttendanceRecord

	result := d.db.WithContext(ctx).
		Where("member_id = ?", memberID).
		Order("checked_in_at DESC").
		Find(&records)
	if result.Error != nil {
		return nil, result.Error
	}

	return records, nil
}

// UpsertEventAttendance inserts the per-(member, event) row if it does not
// exist yet. Re-running for the same pair is a no-op thanks to the unique
// index and ON CONFLICT DO NOTHING; the surviving row is returned either way.
func (d *AttendanceDAO) UpsertEventAttendance(ctx context.Context, attendance EventAttendance) (EventAttendance, error) {
	result := d.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "member_id"}, {Name: "event_id"}},
			DoNothing: true,
		}).
		Create(&attendance)
	if result.Error != nil {
		return EventAttendance{}, result.Error
	}

	var existing EventAttendance
	found := d.db.WithContext(ctx).
		Where("member_id = ? AND event_id = ?", attendance.MemberID, attendance.EventID).
		First(&existing)
	if found.Error != nil {
		if errors.Is(found.Error, gorm.ErrRecordNotFound) {
			return EventAttendance{}, ErrEventAttendanceNotFound
		}

		return EventAttendance{}, found.Error
	}

	return existing, nil
}

func (d *AttendanceDAO) SetEventCredential(ctx context.Context, id uint, ref string) error {
	return d.db.WithContext(ctx).Model(&EventAttendance{}).
		Where("id = ?", id).
		Update("credential_ref", ref).Error
}
