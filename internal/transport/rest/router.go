package rest

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/onboarding-portal/internal"
	"github.com/frahmantamala/onboarding-portal/internal/auth"
	"github.com/frahmantamala/onboarding-portal/internal/candidate"
	"github.com/frahmantamala/onboarding-portal/internal/chatbot"
	"github.com/frahmantamala/onboarding-portal/internal/dashboard"
	"github.com/frahmantamala/onboarding-portal/internal/employee"
	"github.com/frahmantamala/onboarding-portal/internal/onboarding"
	"github.com/frahmantamala/onboarding-portal/internal/transport/middleware"
	"github.com/frahmantamala/onboarding-portal/internal/transport/swagger"
	"github.com/frahmantamala/onboarding-portal/internal/user"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

// Handlers groups the HTTP handlers mounted under /api/v1. Nil handlers are skipped.
type Handlers struct {
	Health     *HealthHandler
	Auth       *auth.Handler
	User       *user.Handler
	Candidate  *candidate.Handler
	Onboarding *onboarding.Handler
	Employee   *employee.Handler
	Dashboard  *dashboard.Handler
	Chatbot    *chatbot.Handler
}

type RouterConfig struct {
	AllowedOrigins string
	OpenAPISpec    []byte
	Limiter        middleware.Limiter
	RateLimit      internal.RateLimitConfig
}

func RegisterAllRoutes(router *chi.Mux, h Handlers, cfg RouterConfig, logger *slog.Logger) {
	hrOnly := middleware.RequireRole(internal.RoleHR)
	public := middleware.RateLimit(cfg.Limiter, "public", middleware.ClientIP, cfg.RateLimit.PublicRequests, cfg.RateLimit.PublicWindow)
	chat := middleware.RateLimit(cfg.Limiter, "chat", middleware.ClientIP, cfg.RateLimit.ChatRequests, cfg.RateLimit.ChatWindow)

	// Apply global middleware
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get(swagger.DocumentPath, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(cfg.OpenAPISpec)
	})
	// Swagger UI route at root
	router.Handle("/swagger/*", swagger.Handler())

	// Mount API under /api/v1 to match OpenAPI basePath
	router.Route("/api/v1", func(r chi.Router) {
		if h.Health != nil {
			r.Get("/health", h.Health.healthCheckHandler)
			r.Get("/ping", h.Health.pingHandler)
		}

		if h.Auth == nil {
			return
		}

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/login", h.Auth.Login)
			sr.Post("/refresh", h.Auth.RefreshToken)
			sr.Post("/logout", h.Auth.Logout)
		})

		// Token-gated public routes
		r.Group(func(pr chi.Router) {
			pr.Use(public)
			if h.Candidate != nil {
				pr.Post("/candidates/accept-offer/{token}", h.Candidate.AcceptOffer)
			}
			if h.Onboarding != nil {
				pr.Get("/admin/onboarding-pass-details/{token}", h.Onboarding.PassDetails)
				pr.Post("/admin/accept-onboarding-pass/{token}", h.Onboarding.AcceptPass)
			}
		})

		if h.Chatbot != nil {
			r.Route("/chatbot", func(cr chi.Router) {
				cr.Get("/health", h.Chatbot.Health)
				cr.With(chat, h.Auth.OptionalAuth, middleware.UserContext).Post("/message", h.Chatbot.SendMessage)
			})
		}

		// Protected routes that require authentication
		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)
			pr.Use(middleware.UserContext)

			if h.User != nil {
				pr.Get("/users/me", h.User.GetCurrentUser)
			}

			if h.Onboarding != nil {
				pr.Post("/onboarding/submit", h.Onboarding.Submit)
				pr.Get("/onboarding/my-submission", h.Onboarding.GetMySubmission)
			}

			// HR routes
			pr.Group(func(hr chi.Router) {
				hr.Use(hrOnly)

				if h.Candidate != nil {
					hr.Post("/candidates", h.Candidate.CreateCandidate)
					hr.Get("/candidates", h.Candidate.ListCandidates)
					hr.Post("/candidates/{id}/trigger-joining", h.Candidate.TriggerJoining)
				}

				if h.Onboarding != nil {
					hr.Route("/admin/submissions", func(sr chi.Router) {
						sr.Get("/", h.Onboarding.ListSubmissions)
						sr.Get("/{id}", h.Onboarding.GetSubmission)
						sr.Post("/{id}/approve", h.Onboarding.Approve)
						sr.Post("/{id}/reject", h.Onboarding.Reject)
					})
				}

				if h.Dashboard != nil {
					hr.Get("/admin/dashboard/stats", h.Dashboard.GetStats)
				}

				if h.Employee != nil {
					hr.Get("/employees", h.Employee.ListEmployees)
					hr.Get("/employees/active", h.Employee.ListActiveEmployees)
				}
			})
		})
	})
}
