package auth

import (
	"context"
	"time"

	"github.com/frahmantamala/onboarding-portal/internal"
	"github.com/golang-jwt/jwt/v5"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// Credentials is the minimal account view needed to check a login.
type Credentials struct {
	UserID       int64
	PasswordHash string
	IsActive     bool
}

// CredentialRepository reads accounts for authentication.
type CredentialRepository interface {
	GetCredentials(ctx context.Context, email string) (*Credentials, error)
	// GetActiveUser returns nil when the account is missing or inactive.
	GetActiveUser(ctx context.Context, userID int64) (*internal.User, error)
}

// TokenGenerator creates and verifies signed tokens.
type TokenGenerator interface {
	GenerateAccessToken(user *internal.User) (string, error)
	GenerateRefreshToken(user *internal.User) (string, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	ValidateRefreshToken(tokenString string) (*Claims, error)
}

type AuthTokens struct {
	AccessToken  string         `json:"accessToken"`
	RefreshToken string         `json:"refreshToken"`
	User         *internal.User `json:"user"`
}

// Claims represents JWT token claims
type Claims struct {
	UserID    int64  `json:"user_id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

type JWTTokenGenerator struct {
	AccessTokenSecret  []byte
	RefreshTokenSecret []byte
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
}
