package notification

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/onboarding-portal/internal"
	"github.com/frahmantamala/onboarding-portal/internal/core/events"
	"github.com/frahmantamala/onboarding-portal/internal/employee"
)

// Directory lists the colleagues a new joiner is announced to.
type Directory interface {
	Colleagues(ctx context.Context, newJoinerID int64) ([]employee.Contact, error)
}

type EventHandler struct {
	queue     Enqueuer
	directory Directory
	config    internal.OnboardingConfig
	logger    *slog.Logger
	now       func() time.Time
}

func NewEventHandler(queue Enqueuer, directory Directory, config internal.OnboardingConfig, logger *slog.Logger) *EventHandler {
	return &EventHandler{
		queue:     queue,
		directory: directory,
		config:    config,
		logger:    logger,
		now:       time.Now,
	}
}

func (h *EventHandler) WithClock(now func() time.Time) *EventHandler {
	h.now = now
	return h
}

func (h *EventHandler) HandleOfferCreated(ctx context.Context, event events.Event) error {
	e, ok := event.(*events.OfferCreatedEvent)
	if !ok {
		return fmt.Errorf("expected OfferCreatedEvent, got %T", event)
	}
	return h.queue.Enqueue(ctx, offerMessage(e, h.config.PortalURL), h.now())
}

func (h *EventHandler) HandleJoiningTriggered(ctx context.Context, event events.Event) error {
	e, ok := event.(*events.JoiningTriggeredEvent)
	if !ok {
		return fmt.Errorf("expected JoiningTriggeredEvent, got %T", event)
	}
	return h.queue.Enqueue(ctx, credentialsMessage(e, h.config.PortalURL), h.now())
}

func (h *EventHandler) HandlePassIssued(ctx context.Context, event events.Event) error {
	e, ok := event.(*events.PassIssuedEvent)
	if !ok {
		return fmt.Errorf("expected PassIssuedEvent, got %T", event)
	}
	return h.queue.Enqueue(ctx, passMessage(e, h.config.PortalURL), h.now())
}

// HandlePassAccepted announces the new joiner to every other active employee now
// and schedules the welcome series after the configured delay.
func (h *EventHandler) HandlePassAccepted(ctx context.Context, event events.Event) error {
	e, ok := event.(*events.PassAcceptedEvent)
	if !ok {
		return fmt.Errorf("expected PassAcceptedEvent, got %T", event)
	}

	now := h.now()
	at := dueAt(now, h.config.WelcomeDelay)
	for _, msg := range welcomeSeries(e, h.config.PortalURL) {
		if err := h.queue.Enqueue(ctx, msg, at); err != nil {
			h.logger.Error("failed to schedule welcome message",
				"employee_id", e.EmployeeID,
				"kind", msg.Kind,
				"error", err)
		}
	}

	colleagues, err := h.directory.Colleagues(ctx, e.EmployeeRecordID)
	if err != nil {
		return fmt.Errorf("failed to load colleagues for %s: %w", e.EmployeeID, err)
	}
	for _, colleague := range colleagues {
		if err := h.queue.Enqueue(ctx, newJoinerMessage(e, colleague), now); err != nil {
			h.logger.Error("failed to queue new joiner announcement",
				"employee_id", e.EmployeeID,
				"colleague_id", colleague.ID,
				"error", err)
		}
	}

	h.logger.Info("new joiner notifications queued",
		"employee_id", e.EmployeeID,
		"colleagues", len(colleagues),
		"welcome_at", at)
	return nil
}

func (h *EventHandler) RegisterEventHandlers(eventBus *events.EventBus) {
	eventBus.Subscribe(events.OfferCreatedEventType, h.HandleOfferCreated)
	eventBus.Subscribe(events.JoiningTriggeredEventType, h.HandleJoiningTriggered)
	eventBus.Subscribe(events.PassIssuedEventType, h.HandlePassIssued)
	eventBus.Subscribe(events.PassAcceptedEventType, h.HandlePassAccepted)

	h.logger.Info("notification event handlers registered",
		"handlers", []string{
			events.OfferCreatedEventType,
			events.JoiningTriggeredEventType,
			events.PassIssuedEventType,
			events.PassAcceptedEventType,
		})
}
