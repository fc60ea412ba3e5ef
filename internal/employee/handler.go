package employee

import (
	"context"
	"net/http"

	"github.com/frahmantamala/onboarding-portal/internal/transport"
)

type ServiceAPI interface {
	ListEmployees(ctx context.Context, activeOnly bool) ([]EmployeeResponse, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

// ListEmployees handles GET /employees, filtered by ?active=true.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, r.URL.Query().Get("active") == "true")
}

func (h *Handler) ListActiveEmployees(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, true)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, activeOnly bool) {
	employees, err := h.Service.ListEmployees(r.Context(), activeOnly)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "", map[string]interface{}{
		"employees": employees,
		"count":     len(employees),
	})
}
