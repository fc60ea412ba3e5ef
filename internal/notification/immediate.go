package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ImmediateQueue sends every message synchronously, ignoring its due time.
// The notify CLI uses it to preview whole sequences without waiting.
type ImmediateQueue struct {
	sender Sender
}

func NewImmediateQueue(sender Sender) *ImmediateQueue {
	return &ImmediateQueue{sender: sender}
}

func (q *ImmediateQueue) Enqueue(ctx context.Context, msg Message, _ time.Time) error {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	return q.sender.Send(ctx, msg)
}
