package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/garomon/garo-vibe-api/internal/domain"
	"github.com/garomon/garo-vibe-api/internal/repository/dao"
)

var (
	ErrMemberNotFound     = dao.ErrMemberNotFound
	ErrMemberWalletExists = dao.ErrMemberWalletExists
	ErrMemberEmailExists  = dao.ErrMemberEmailExists
)

type MemberDAO interface {
	Insert(ctx context.Context, member dao.Member) (dao.Member, error)
	FindByID(ctx context.Context, id uint) (dao.Member, error)
	FindByWallet(ctx context.Context, walletAddress string) (dao.Member, error)
	BackfillEmail(ctx context.Context, id uint, email string) error
	RecordTransmutation(ctx context.Context, id uint, at time.Time) error
	IncrementAttendance(ctx context.Context, id uint, at time.Time) error
	UpdateTier(ctx context.Context, id uint, tier int) error
	SetCredentialRef(ctx context.Context, id uint, ref string) error
	AddVibePoints(ctx context.Context, id uint, amount int) error
}

type MemberRepository struct {
	dao MemberDAO
}

func NewMemberRepository(dao MemberDAO) *MemberRepository {
	return &MemberRepository{
		dao: dao,
	}
}

func (r *MemberRepository) Create(ctx context.Context, member domain.Member) (domain.Member, error) {
	var email *string
	if member.Email != "" {
		e := member.Email
		email = &e
	}

	created, err := r.dao.Insert(ctx, dao.Member{
		WalletAddress: member.WalletAddress,
		Email:         email,
		Tier:          member.Tier,
		ReferrerID:    member.ReferrerID,
	})
	if err != nil {
		return domain.Member{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *MemberRepository) FindByID(ctx context.Context, id uint) (domain.Member, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Member{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *MemberRepository) FindByWallet(ctx context.Context, walletAddress string) (domain.Member, error) {
	found, err := r.dao.FindByWallet(ctx, walletAddress)
	if err != nil {
		return domain.Member{}, fmt.Errorf("r.dao.FindByWallet -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *MemberRepository) BackfillEmail(ctx context.Context, id uint, email string) error {
	if err := r.dao.BackfillEmail(ctx, id, email); err != nil {
		return fmt.Errorf("r.dao.BackfillEmail -> %w", err)
	}

	return nil
}

func (r *MemberRepository) RecordTransmutation(ctx context.Context, id uint, at time.Time) error {
	if err := r.dao.RecordTransmutation(ctx, id, at); err != nil {
		return fmt.Errorf("r.dao.RecordTransmutation -> %w", err)
	}

	return nil
}

func (r *MemberRepository) IncrementAttendance(ctx context.Context, id uint, at time.Time) error {
	if err := r.dao.IncrementAttendance(ctx, id, at); err != nil {
		return fmt.Errorf("r.dao.IncrementAttendance -> %w", err)
	}

	return nil
}

func (r *MemberRepository) UpdateTier(ctx context.Context, id uint, tier int) error {
	if err := r.dao.UpdateTier(ctx, id, tier); err != nil {
		return fmt.Errorf("r.dao.UpdateTier -> %w", err)
	}

	return nil
}

func (r *MemberRepository) SetCredentialRef(ctx context.Context, id uint, ref string) error {
	if err := r.dao.SetCredentialRef(ctx, id, ref); err != nil {
		return fmt.Errorf("r.dao.SetCredentialRef -> %w", err)
	}

	return nil
}

func (r *MemberRepository) AddVibePoints(ctx context.Context, id uint, amount int) error {
	if err := r.dao.AddVibePoints(ctx, id, amount); err != nil {
		return fmt.Errorf("r.dao.AddVibePoints -> %w", err)
	}

	return nil
}

func (r *MemberRepository) daoToDomain(m dao.Member) domain.Member {
	var email string
	if m.Email != nil {
		email = *m.Email
	}

	return domain.Member{
		ID:               m.ID,
		WalletAddress:    m.WalletAddress,
		Email:            email,
		Tier:             m.Tier,
		AttendanceCount:  m.AttendanceCount,
		LastAttendanceAt: m.LastAttendanceAt,
		CredentialRef:    m.CredentialRef,
		ReferrerID:       m.ReferrerID,
		VibePoints:       m.VibePoints,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}
