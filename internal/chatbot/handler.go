package chatbot

import (
	"context"
	"net/http"
	"time"

	"github.com/frahmantamala/onboarding-portal/internal"
	"github.com/frahmantamala/onboarding-portal/internal/transport"
)

type DispatcherAPI interface {
	Handle(ctx context.Context, req Request) (*Reply, error)
}

type HealthReporter interface {
	Health() Health
}

type Handler struct {
	*transport.BaseHandler
	Dispatcher DispatcherAPI
	Assistant  HealthReporter
}

func NewHandler(baseHandler *transport.BaseHandler, dispatcher DispatcherAPI, assistant HealthReporter) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Dispatcher:  dispatcher,
		Assistant:   assistant,
	}
}

func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req MessageRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}

	role := effectiveRole(r.Context(), req.UserRole)

	reply, err := h.Dispatcher.Handle(r.Context(), Request{
		Message: req.Message,
		Role:    role,
		History: req.ConversationHistory,
	})
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, MessageResponse{
		Success:   true,
		Message:   req.Message,
		UserRole:  string(role),
		Response:  reply.Text,
		Source:    reply.Source,
		Timestamp: time.Now().UTC(),
	})
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, HealthResponse{Success: true, Health: h.Assistant.Health()})
}

// effectiveRole never grants more than the authenticated principal holds.
func effectiveRole(ctx context.Context, claimed string) internal.Role {
	role := internal.ParseRole(claimed)
	if role != internal.RoleHR {
		return role
	}
	if user, ok := internal.UserFromContext(ctx); ok && user.IsHR() {
		return internal.RoleHR
	}
	return internal.RoleEmployee
}
