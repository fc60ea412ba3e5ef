package chatbot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/frahmantamala/onboarding-portal/internal"
)

// Message is one turn of conversation history as sent by the client.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Assistant answers free-text questions with a role-specific system prompt.
type Assistant interface {
	Configured() bool
	Complete(ctx context.Context, role internal.Role, message string, history []Message) (string, error)
}

var errEmptyCompletion = errors.New("assistant returned no choices")

type completionRequest struct {
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
	TopP        float64   `json:"top_p"`
}

type completionResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

// AzureAssistant calls an Azure OpenAI chat-completions deployment over REST.
type AzureAssistant struct {
	config  internal.AssistantConfig
	prompts SystemPrompts
	client  *http.Client
	logger  *slog.Logger
}

func NewAzureAssistant(config internal.AssistantConfig, prompts SystemPrompts, logger *slog.Logger) *AzureAssistant {
	return &AzureAssistant{
		config:  config,
		prompts: prompts,
		client:  &http.Client{Timeout: config.Timeout},
		logger:  logger,
	}
}

func (a *AzureAssistant) Configured() bool {
	return a.config.Configured()
}

func (a *AzureAssistant) Complete(ctx context.Context, role internal.Role, message string, history []Message) (string, error) {
	if !a.Configured() {
		return "", internal.ErrAssistantNotConfigured
	}

	messages := make([]Message, 0, len(history)+2)
	messages = append(messages, Message{Role: "system", Content: a.prompts.For(role)})
	for _, m := range history {
		if m.Role != "user" && m.Role != "assistant" {
			continue
		}
		messages = append(messages, m)
	}
	messages = append(messages, Message{Role: "user", Content: message})

	body, err := json.Marshal(completionRequest{
		Messages:    messages,
		MaxTokens:   a.config.MaxTokens,
		Temperature: a.config.Temperature,
		TopP:        a.config.TopP,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.completionsURL(), bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", a.config.APIKey)

	a.logger.Debug("calling assistant", "role", role, "deployment", a.config.Deployment, "history", len(history))

	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("assistant request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", fmt.Errorf("assistant returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	var completion completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return "", fmt.Errorf("failed to decode assistant response: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", errEmptyCompletion
	}

	return completion.Choices[0].Message.Content, nil
}

func (a *AzureAssistant) completionsURL() string {
	return fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
		strings.TrimRight(a.config.Endpoint, "/"),
		url.PathEscape(a.config.Deployment),
		url.QueryEscape(a.config.APIVersion),
	)
}

// Health is the public view of the assistant configuration; the api key is never exposed.
type Health struct {
	Status     string `json:"status"`
	Configured bool   `json:"configured"`
	Endpoint   string `json:"endpoint,omitempty"`
	Deployment string `json:"deployment,omitempty"`
	APIVersion string `json:"apiVersion,omitempty"`
}

func (a *AzureAssistant) Health() Health {
	if !a.Configured() {
		return Health{Status: "not-configured", Configured: false, Deployment: a.config.Deployment, APIVersion: a.config.APIVersion}
	}
	return Health{
		Status:     "available",
		Configured: true,
		Endpoint:   a.config.Endpoint,
		Deployment: a.config.Deployment,
		APIVersion: a.config.APIVersion,
	}
}
