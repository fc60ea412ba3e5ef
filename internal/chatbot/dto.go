package chatbot

import "time"

type MessageRequest struct {
	Message             string    `json:"message"`
	UserRole            string    `json:"userRole"`
	ConversationHistory []Message `json:"conversationHistory"`
}

type MessageResponse struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	UserRole  string    `json:"userRole"`
	Response  string    `json:"response"`
	Source    Source    `json:"source"`
	Timestamp time.Time `json:"timestamp"`
}

type HealthResponse struct {
	Success bool `json:"success"`
	Health
}
