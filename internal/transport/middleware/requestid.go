package middleware

import (
	"net/http"

	"github.com/frahmantamala/onboarding-portal/pkg/logger"
	"github.com/go-chi/chi/middleware"
	"github.com/google/uuid"
)

const traceHeader = "X-Trace-ID"

// RequestID reuses the caller's trace id or mints one, and echoes it back.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(traceHeader)
		if traceID == "" {
			traceID = middleware.GetReqID(r.Context())
		}
		if traceID == "" {
			traceID = uuid.NewString()
		}

		ctx := logger.With(r.Context(), "traceID", traceID)

		w.Header().Set(traceHeader, traceID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
