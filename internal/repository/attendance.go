package repository

import (
	"context"
	"fmt"

	"github.com/garomon/garo-vibe-api/internal/domain"
	"github.com/garomon/garo-vibe-api/internal/repository/dao"
)

var ErrEventAttendanceNotFound = dao.ErrEventAttendanceNotFound

type AttendanceDAO interface {
	InsertRecord(ctx context.Context, record dao.AttendanceRecord) (dao.AttendanceRecord, error)
	FindRecordsByMember(ctx context.Context, memberID uint) ([]dao.AttendanceRecord, error)
	UpsertEventAttendance(ctx context.Context, attendance dao.EventAttendance) (dao.EventAttendance, error)
	SetEventCredential(ctx context.Context, id uint, ref string) error
}

type AttendanceRepository struct {
	dao AttendanceDAO
}

func NewAttendanceRepository(dao AttendanceDAO) *AttendanceRepository {
	return &AttendanceRepository{
		dao: dao,
	}
}

func (r *AttendanceRepository) AppendRecord(ctx context.Context, record domain.AttendanceRecord) (domain.AttendanceRecord, error) {
	created, err := r.dao.InsertRecord(ctx, dao.AttendanceRecord{
		MemberID:    record.MemberID,
		EventID:     record.EventID,
		CheckedInAt: record.CheckedInAt,
	})
	if err != nil {
		return domain.AttendanceRecord{}, fmt.Errorf("r.dao.InsertRecord -> %w", err)
	}

	return r.recordDaoToDomain(created), nil
}

func (r *AttendanceRepository) FindRecordsByMember(ctx context.Context, memberID uint) ([]domain.AttendanceRecord, error) {
	found, err := r.dao.FindRecordsByMember(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindRecordsByMember -> %w", err)
	}

	records := make([]domain.AttendanceRecord, len(found))
	for i, rec := range found {
		records[i] = r.recordDaoToDomain(rec)
	}

	return records, nil
}

func (r *AttendanceRepository) UpsertEventAttendance(ctx context.Context, memberID, eventID uint) (domain.EventAttendance, error) {
	upserted, err := r.dao.UpsertEventAttendance(ctx, dao.EventAttendance{
		MemberID: memberID,
		EventID:  eventID,
	})
	if err != nil {
		return domain.EventAttendance{}, fmt.Errorf("r.dao.UpsertEventAttendance -> %w", err)
	}

	return domain.EventAttendance{
		ID:            upserted.ID,
		MemberID:      upserted.MemberID,
		EventID:       upserted.EventID,
		CredentialRef: upserted.CredentialRef,
		CreatedAt:     upserted.CreatedAt,
	}, nil
}

func (r *AttendanceRepository) SetEventCredential(ctx context.Context, id uint, ref string) error {
	if err := r.dao.SetEventCredential(ctx, id, ref); err != nil {
		return fmt.Errorf("r.dao.SetEventCredential -> %w", err)
	}

	return nil
}

func (r *AttendanceRepository) recordDaoToDomain(rec dao.AttendanceRecord) domain.AttendanceRecord {
	return domain.AttendanceRecord{
		ID:          rec.ID,
		MemberID:    rec.MemberID,
		EventID:     rec.EventID,
		CheckedInAt: rec.CheckedInAt,
	}
}
