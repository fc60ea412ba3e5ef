package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/frahmantamala/onboarding-portal/internal"
	"github.com/frahmantamala/onboarding-portal/pkg/logger"
)

// RequireRole lets the request through only when the principal holds one of roles.
func RequireRole(roles ...internal.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := internal.UserFromContext(r.Context())
			if !ok {
				writeAppError(w, internal.ErrInvalidToken)
				return
			}

			if !user.HasRole(roles...) {
				logger.From(r.Context()).Warn("access denied: role not allowed",
					"user_id", user.ID,
					"role", user.Role,
					"required_roles", roles,
					"path", r.URL.Path)
				writeAppError(w, internal.ErrForbiddenRole)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func writeAppError(w http.ResponseWriter, appErr *internal.AppError) {
	status, body := appErr.ToHTTPResponse()
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
