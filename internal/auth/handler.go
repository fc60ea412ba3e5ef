package auth

import (
	"context"
	"net/http"

	"github.com/frahmantamala/onboarding-portal/internal"
	"github.com/frahmantamala/onboarding-portal/internal/transport"
	"github.com/frahmantamala/onboarding-portal/pkg/logger"
)

type ServiceAPI interface {
	Authenticate(ctx context.Context, dto LoginDTO) (*AuthTokens, error)
	RefreshTokens(ctx context.Context, refreshToken string) (*AuthTokens, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	Principal(ctx context.Context, claims *Claims) (*internal.User, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, svc ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     svc,
	}
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	tokens, err := h.Service.Authenticate(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "Login successful", map[string]interface{}{
		"accessToken":  tokens.AccessToken,
		"refreshToken": tokens.RefreshToken,
		"user":         tokens.User,
	})
}

func (h *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var dto RefreshTokenDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	if err := dto.Validate(); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	tokens, err := h.Service.RefreshTokens(r.Context(), dto.RefreshToken)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "", map[string]interface{}{
		"accessToken":  tokens.AccessToken,
		"refreshToken": tokens.RefreshToken,
		"user":         tokens.User,
	})
}

// Logout is stateless; clients discard their tokens.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	token := h.ExtractTokenFromHeader(r)
	if token == "" {
		h.HandleServiceError(w, internal.ErrInvalidToken)
		return
	}

	if _, err := h.Service.ValidateAccessToken(token); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AuthMiddleware requires a valid access token and puts the principal in the context.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := h.authenticate(r)
		if err != nil {
			h.HandleServiceError(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(withPrincipal(r.Context(), user)))
	})
}

// OptionalAuth attaches the principal when a valid token is sent and lets anonymous requests through.
func (h *Handler) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.ExtractTokenFromHeader(r) == "" {
			next.ServeHTTP(w, r)
			return
		}
		user, err := h.authenticate(r)
		if err != nil {
			h.Logger.Debug("optional auth: ignoring token", "error", err)
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(withPrincipal(r.Context(), user)))
	})
}

func (h *Handler) authenticate(r *http.Request) (*internal.User, error) {
	token := h.ExtractTokenFromHeader(r)
	if token == "" {
		return nil, internal.ErrInvalidToken
	}

	claims, err := h.Service.ValidateAccessToken(token)
	if err != nil {
		return nil, err
	}

	return h.Service.Principal(r.Context(), claims)
}

func withPrincipal(ctx context.Context, user *internal.User) context.Context {
	ctx = internal.ContextWithUser(ctx, user)
	return logger.With(ctx, "user_id", user.ID, "role", user.Role)
}
