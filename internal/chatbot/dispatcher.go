package chatbot

import (
	"context"
	"log/slog"
	"strings"

	"github.com/frahmantamala/onboarding-portal/internal"
)

type Source string

const (
	SourceDatabase  Source = "database"
	SourceAssistant Source = "assistant"
)

type Request struct {
	Message string
	Role    internal.Role
	History []Message
}

type Reply struct {
	Text   string
	Source Source
}

// Dispatcher routes HR questions through the local query path first and
// everything else to the assistant.
type Dispatcher struct {
	runner       QueryRunner
	assistant    Assistant
	historyLimit int
	logger       *slog.Logger
}

func NewDispatcher(runner QueryRunner, assistant Assistant, historyLimit int, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		runner:       runner,
		assistant:    assistant,
		historyLimit: historyLimit,
		logger:       logger,
	}
}

func (d *Dispatcher) Handle(ctx context.Context, req Request) (*Reply, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, internal.NewValidationError("Message cannot be empty", internal.ErrCodeValidationFailed)
	}

	history := req.History
	if d.historyLimit > 0 && len(history) > d.historyLimit {
		history = history[len(history)-d.historyLimit:]
	}

	var local string
	if req.Role == internal.RoleHR {
		if intent := ParseIntent(message); intent != nil {
			result, err := d.runner.Run(ctx, *intent)
			switch {
			case err != nil:
				d.logger.Warn("hr query failed, falling back to assistant",
					"type", intent.Type, "collection", intent.Collection, "error", err)
			case result.Type == QueryFind && result.Count == 0:
				local = Format(result)
				d.logger.Info("hr query returned no rows, falling back to assistant",
					"collection", intent.Collection)
			default:
				d.logger.Info("hr query answered locally", "type", intent.Type, "collection", intent.Collection)
				return &Reply{Text: Format(result), Source: SourceDatabase}, nil
			}
		}
	}

	if !d.assistant.Configured() {
		if local != "" {
			return &Reply{Text: local, Source: SourceDatabase}, nil
		}
		return nil, internal.ErrAssistantNotConfigured
	}

	text, err := d.assistant.Complete(ctx, req.Role, message, history)
	if err != nil {
		d.logger.Error("assistant call failed", "role", req.Role, "error", err)
		return nil, internal.ErrAssistantFailed.WithCause(err)
	}

	return &Reply{Text: text, Source: SourceAssistant}, nil
}
