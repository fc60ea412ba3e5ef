package user

import (
	"context"
	"fmt"
	"strings"

	"github.com/frahmantamala/onboarding-portal/internal"
	userDatamodel "github.com/frahmantamala/onboarding-portal/internal/core/datamodel/user"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
	}
}

func (s *Service) GetByID(ctx context.Context, userID int64) (*User, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	if u == nil {
		return nil, internal.ErrAccountNotFound
	}
	return FromDataModel(u), nil
}

// GetByEmail returns nil without error when no account uses the address.
func (s *Service) GetByEmail(ctx context.Context, email string) (*userDatamodel.User, error) {
	return s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
}

// CreateAccount stores an active account; the email must be unused.
func (s *Service) CreateAccount(ctx context.Context, email, fullName, passwordHash string, role internal.Role) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	existing, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing account: %w", err)
	}
	if existing != nil {
		return nil, internal.ErrAccountExists
	}

	record := &userDatamodel.User{
		Email:        email,
		FullName:     fullName,
		PasswordHash: passwordHash,
		Role:         string(role),
		IsActive:     true,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	return FromDataModel(record), nil
}
