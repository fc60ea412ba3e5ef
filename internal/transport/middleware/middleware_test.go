package middleware_test

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/frahmantamala/onboarding-portal/internal"
	"github.com/frahmantamala/onboarding-portal/internal/transport/middleware"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/redis/go-redis/v9"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

var ok = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func withUser(user *internal.User, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(internal.ContextWithUser(r.Context(), user)))
	})
}

var _ = Describe("RequireRole", func() {
	serve := func(h http.Handler) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/submissions", nil))
		return w
	}

	It("lets HR through", func() {
		h := withUser(&internal.User{ID: 1, Role: internal.RoleHR}, middleware.RequireRole(internal.RoleHR)(ok))
		Expect(serve(h).Code).To(Equal(http.StatusOK))
	})

	It("forbids other roles with the JSON envelope", func() {
		h := withUser(&internal.User{ID: 2, Role: internal.RoleEmployee}, middleware.RequireRole(internal.RoleHR)(ok))
		w := serve(h)

		Expect(w.Code).To(Equal(http.StatusForbidden))
		Expect(w.Body.String()).To(ContainSubstring(`"success":false`))
	})

	It("answers 401 without a principal", func() {
		Expect(serve(middleware.RequireRole(internal.RoleHR)(ok)).Code).To(Equal(http.StatusUnauthorized))
	})
})

var _ = Describe("RateLimit", func() {
	hit := func(h http.Handler, ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/candidates/accept-offer/x", nil)
		req.RemoteAddr = ip + ":5555"
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w.Code
	}

	It("allows the budget per client then answers 429", func() {
		h := middleware.RateLimit(middleware.NewRateLimiter(), "public", middleware.ClientIP, 2, time.Minute)(ok)

		Expect(hit(h, "10.0.0.1")).To(Equal(http.StatusOK))
		Expect(hit(h, "10.0.0.1")).To(Equal(http.StatusOK))
		Expect(hit(h, "10.0.0.1")).To(Equal(http.StatusTooManyRequests))
		Expect(hit(h, "10.0.0.2")).To(Equal(http.StatusOK))
	})

	It("opens a new window once the old one expires", func() {
		limiter := middleware.NewRateLimiter()
		Expect(limiter.Allow("k", 1, 20*time.Millisecond)).To(BeTrue())
		Expect(limiter.Allow("k", 1, 20*time.Millisecond)).To(BeFalse())
		Eventually(func() bool { return limiter.Allow("k", 1, 20*time.Millisecond) }).Should(BeTrue())
	})

	It("falls back to memory when redis is unreachable", func() {
		client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond, MaxRetries: -1})
		defer client.Close()
		limiter := middleware.NewRedisLimiter(client, nil, discard)

		Expect(limiter.Allow("k", 1, time.Minute)).To(BeTrue())
		Expect(limiter.Allow("k", 1, time.Minute)).To(BeFalse())
	})

	It("takes the first forwarded hop as the client", func() {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
		Expect(middleware.ClientIP(req)).To(Equal("203.0.113.9"))
	})
})

var _ = Describe("CORS", func() {
	It("answers preflight for allowed origins", func() {
		req := httptest.NewRequest(http.MethodOptions, "/api/v1/auth/login", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		req.Header.Set("Access-Control-Request-Method", "POST")
		w := httptest.NewRecorder()

		middleware.CORS("http://localhost:3000, https://portal.example.com")(ok).ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusNoContent))
		Expect(w.Header().Get("Access-Control-Allow-Origin")).To(Equal("http://localhost:3000"))
	})

	It("does not echo unknown origins", func() {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		w := httptest.NewRecorder()

		middleware.CORS("https://portal.example.com")(ok).ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Header().Get("Access-Control-Allow-Origin")).To(BeEmpty())
	})
})

var _ = Describe("RecoveryMiddleware", func() {
	It("turns panics into a generic 500 envelope", func() {
		boom := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { panic("db password leaked") })
		w := httptest.NewRecorder()

		middleware.RecoveryMiddleware(discard)(boom).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		Expect(w.Code).To(Equal(http.StatusInternalServerError))
		Expect(w.Body.String()).To(ContainSubstring("Internal server error"))
		Expect(w.Body.String()).NotTo(ContainSubstring("password"))
	})
})

var _ = Describe("LoggingMiddleware", func() {
	It("redacts credentials and identity numbers", func() {
		var buf bytes.Buffer
		logger := slog.New(slog.NewJSONHandler(&buf, nil))
		body := `{"email":"neha@example.com","password":"secret1","aadhaarNumber":"123412341234"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewBufferString(body))

		var seen []byte
		echo := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen, _ = io.ReadAll(r.Body)
			w.WriteHeader(http.StatusOK)
		})
		middleware.LoggingMiddleware(logger)(echo).ServeHTTP(httptest.NewRecorder(), req)

		Expect(string(seen)).To(Equal(body))
		Expect(buf.String()).To(ContainSubstring("neha@example.com"))
		Expect(buf.String()).NotTo(ContainSubstring("secret1"))
		Expect(buf.String()).NotTo(ContainSubstring("123412341234"))
	})
})

var _ = Describe("LoggingMiddleware responses", func() {
	It("masks tokens in responses and keeps the status", func() {
		var buf bytes.Buffer
		logger := slog.New(slog.NewJSONHandler(&buf, nil))
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", nil)

		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"success":true,"accessToken":"eyJ.secret.sig","user":{"email":"hr@example.com"}}`))
		})
		w := httptest.NewRecorder()
		middleware.LoggingMiddleware(logger)(handler).ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusCreated))
		Expect(w.Body.String()).To(ContainSubstring("eyJ.secret.sig"))
		Expect(buf.String()).NotTo(ContainSubstring("eyJ.secret.sig"))
		Expect(buf.String()).To(ContainSubstring(`"status_code":201`))
		Expect(buf.String()).To(ContainSubstring("hr@example.com"))
	})

	It("does not buffer multipart uploads", func() {
		var buf bytes.Buffer
		logger := slog.New(slog.NewJSONHandler(&buf, nil))
		req := httptest.NewRequest(http.MethodPost, "/api/v1/onboarding/submit", bytes.NewBufferString("--x\r\nraw-document-bytes"))
		req.Header.Set("Content-Type", "multipart/form-data; boundary=x")

		middleware.LoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})).
			ServeHTTP(httptest.NewRecorder(), req)

		Expect(buf.String()).To(ContainSubstring("[multipart omitted]"))
		Expect(buf.String()).NotTo(ContainSubstring("raw-document-bytes"))
	})
})
