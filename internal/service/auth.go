package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/garomon/garo-vibe-api/internal/domain"
	"github.com/garomon/garo-vibe-api/internal/repository"
)

var (
	ErrStaffEmailExists = repository.ErrStaffEmailExists
	ErrStaffNotFound    = repository.ErrStaffNotFound
	ErrWrongPassword    = errors.New("wrong password")
)

type AuthStaffRepository interface {
	Create(ctx context.Context, staff domain.StaffUser) (domain.StaffUser, error)
	FindByID(ctx context.Context, id uint) (domain.StaffUser, error)
	FindByEmail(ctx context.Context, email string) (domain.StaffUser, error)
}

type AuthService struct {
	repo AuthStaffRepository
}

func NewAuthService(repo AuthStaffRepository) *AuthService {
	return &AuthService{
		repo: repo,
	}
}

func (s *AuthService) Signup(ctx context.Context, staff domain.StaffUser) (domain.StaffUser, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(staff.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.StaffUser{}, err
	}
	staff.Password = string(hash)
	staff.Email = NormalizeEmail(staff.Email)

	created, err := s.repo.Create(ctx, staff)
	if err != nil {
		return domain.StaffUser{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *AuthService) GetStaff(ctx context.Context, id uint) (domain.StaffUser, error) {
	staff, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.StaffUser{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return staff, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (domain.StaffUser, error) {
	staff, err := s.repo.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrStaffNotFound) {
			return domain.StaffUser{}, ErrStaffNotFound
		}

		return domain.StaffUser{}, fmt.Errorf("s.repo.FindByEmail -> %w", err)
	}

	if err = bcrypt.CompareHashAndPassword([]byte(staff.Password), []byte(password)); err != nil {
		return domain.StaffUser{}, ErrWrongPassword
	}

	return staff, nil
}
