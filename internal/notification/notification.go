package notification

import (
	"context"
	"time"
)

const (
	KindOffer            = "offer"
	KindCredentials      = "credentials"
	KindOnboardingPass   = "onboarding_pass"
	KindNewJoiner        = "new_joiner"
	KindWelcome          = "welcome"
	KindFirstDay         = "first_day"
	KindPolicies         = "policies"
	KindITSetup          = "it_setup"
	KindTeamIntroduction = "team_introduction"
)

// Message is one plain-text email.
type Message struct {
	ID      string   `json:"id"`
	Kind    string   `json:"kind"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Body    string   `json:"text"`
}

// Sender delivers a message. Implementations do not retry.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Enqueuer accepts messages for delivery at or after a given time.
type Enqueuer interface {
	Enqueue(ctx context.Context, msg Message, at time.Time) error
}
