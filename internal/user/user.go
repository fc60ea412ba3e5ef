package user

import (
	"context"
	"time"

	"github.com/frahmantamala/onboarding-portal/internal"
	userDatamodel "github.com/frahmantamala/onboarding-portal/internal/core/datamodel/user"
)

type User struct {
	ID           int64         `json:"id"`
	Email        string        `json:"email"`
	FullName     string        `json:"fullName"`
	PasswordHash string        `json:"-"`
	Role         internal.Role `json:"role"`
	EmployeeID   *string       `json:"employeeId,omitempty"`
	IsActive     bool          `json:"isActive"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

func (u *User) IsHR() bool {
	return u.Role == internal.RoleHR
}

// Principal is the identity stored in the request context.
func (u *User) Principal() *internal.User {
	return &internal.User{
		ID:       u.ID,
		Email:    u.Email,
		FullName: u.FullName,
		Role:     u.Role,
	}
}

type Repository interface {
	GetByID(ctx context.Context, id int64) (*userDatamodel.User, error)
	GetByEmail(ctx context.Context, email string) (*userDatamodel.User, error)
	Create(ctx context.Context, u *userDatamodel.User) error
}

func ToDataModel(u *User) *userDatamodel.User {
	return &userDatamodel.User{
		ID:           u.ID,
		Email:        u.Email,
		FullName:     u.FullName,
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
		EmployeeID:   u.EmployeeID,
		IsActive:     u.IsActive,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func FromDataModel(u *userDatamodel.User) *User {
	return &User{
		ID:           u.ID,
		Email:        u.Email,
		FullName:     u.FullName,
		PasswordHash: u.PasswordHash,
		Role:         internal.ParseRole(u.Role),
		EmployeeID:   u.EmployeeID,
		IsActive:     u.IsActive,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}
