package service

import (
	"context"
	"fmt"

	"github.com/garomon/garo-vibe-api/internal/domain"
)

type MemberQueryRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Member, error)
	FindByWallet(ctx context.Context, walletAddress string) (domain.Member, error)
}

type AttendanceQueryRepository interface {
	FindRecordsByMember(ctx context.Context, memberID uint) ([]domain.AttendanceRecord, error)
}

type MemberService struct {
	members    MemberQueryRepository
	attendance AttendanceQueryRepository
}

func NewMemberService(members MemberQueryRepository, attendance AttendanceQueryRepository) *MemberService {
	return &MemberService{
		members:    members,
		attendance: attendance,
	}
}

func (s *MemberService) GetMember(ctx context.Context, id uint) (domain.Member, error) {
	member, err := s.members.FindByID(ctx, id)
	if err != nil {
		return domain.Member{}, fmt.Errorf("s.members.FindByID -> %w", err)
	}

	return member, nil
}

func (s *MemberService) GetMemberByWallet(ctx context.Context, walletAddress string) (domain.Member, error) {
	member, err := s.members.FindByWallet(ctx, walletAddress)
	if err != nil {
		return domain.Member{}, fmt.Errorf("s.members.FindByWallet -> %w", err)
	}

	return member, nil
}

func (s *MemberService) GetAttendanceHistory(ctx context.Context, memberID uint) ([]domain.AttendanceRecord, error) {
	records, err := s.attendance.FindRecordsByMember(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("s.attendance.FindRecordsByMember -> %w", err)
	}

	return records, nil
}
