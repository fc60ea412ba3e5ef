package auth

import (
	"context"
	"database/sql"
	"errors"

	"github.com/frahmantamala/onboarding-portal/internal"
	"github.com/frahmantamala/onboarding-portal/internal/auth"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db: db,
	}
}

var _ auth.CredentialRepository = (*Repository)(nil)

func (r *Repository) GetCredentials(ctx context.Context, email string) (*auth.Credentials, error) {
	var creds auth.Credentials
	query := `SELECT id, password_hash, is_active FROM users WHERE LOWER(email) = LOWER(?)`

	row := r.db.WithContext(ctx).Raw(query, email).Row()
	if err := row.Scan(&creds.UserID, &creds.PasswordHash, &creds.IsActive); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &creds, nil
}

func (r *Repository) GetActiveUser(ctx context.Context, userID int64) (*internal.User, error) {
	var (
		user internal.User
		role string
	)
	query := `SELECT id, email, full_name, role FROM users WHERE id = ? AND is_active = ?`

	row := r.db.WithContext(ctx).Raw(query, userID, true).Row()
	if err := row.Scan(&user.ID, &user.Email, &user.FullName, &role); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	user.Role = internal.ParseRole(role)
	return &user, nil
}
