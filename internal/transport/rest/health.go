package rest

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"time"
)

type HealthStatus string

const (
	HealthHealthy   HealthStatus = "healthy"
	HealthUnhealthy HealthStatus = "unhealthy"
	HealthDegraded  HealthStatus = "degraded"
)

type HealthResponse struct {
	Status     HealthStatus          `json:"status"`
	CheckedAt  time.Time             `json:"checked_at"`
	Components map[string]CheckEntry `json:"components"`
}

type CheckEntry struct {
	Status     HealthStatus `json:"status"`
	Message    string       `json:"message,omitempty"`
	Critical   bool         `json:"critical"`
	CheckedAt  time.Time    `json:"checked_at"`
	DurationMs int64        `json:"duration_ms"`
}

type check struct {
	name     string
	critical bool
	probe    func(ctx context.Context) error
}

type HealthHandler struct {
	checks []check
}

// NewHealthHandler probes the database; further components can be added with WithCheck.
func NewHealthHandler(db *sql.DB) *HealthHandler {
	h := &HealthHandler{}
	if db != nil {
		h.checks = append(h.checks, check{name: "postgres", critical: true, probe: db.PingContext})
	}
	return h
}

// WithCheck adds a component. Non-critical failures degrade but do not fail readiness.
func (h *HealthHandler) WithCheck(name string, critical bool, probe func(ctx context.Context) error) *HealthHandler {
	h.checks = append(h.checks, check{name: name, critical: critical, probe: probe})
	return h
}

// pingHandler → just says service is up
func (h *HealthHandler) pingHandler(w http.ResponseWriter, r *http.Request) {
	writeHealthJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}

// healthCheckHandler → checks every registered component
func (h *HealthHandler) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := HealthResponse{
		Status:     HealthHealthy,
		Components: make(map[string]CheckEntry, len(h.checks)),
	}

	for _, c := range h.checks {
		start := time.Now()
		err := c.probe(ctx)

		entry := CheckEntry{
			Status:     HealthHealthy,
			Critical:   c.critical,
			CheckedAt:  time.Now(),
			DurationMs: time.Since(start).Milliseconds(),
		}
		if err != nil {
			entry.Status = HealthUnhealthy
			entry.Message = err.Error()
			if c.critical {
				resp.Status = HealthUnhealthy
			} else if resp.Status == HealthHealthy {
				resp.Status = HealthDegraded
			}
		}
		resp.Components[c.name] = entry
	}
	resp.CheckedAt = time.Now()

	statusCode := http.StatusOK
	if resp.Status == HealthUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}
	writeHealthJSON(w, statusCode, resp)
}

func writeHealthJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
