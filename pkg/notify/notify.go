// Package notify is the push side of the matching lifecycle: a
// connection registry with register/unregister/publish semantics.
// Delivery is fire-and-forget: a user with no open channel, or a
// channel whose buffer is full, simply misses the event. Unread counts
// are recomputed from storage on reconnect, never replayed here.
package notify

import (
	"context"
	"time"

	"movingmatch/pkg/models"
)

type Event struct {
	ID        string                  `json:"id"`
	UserID    int64                   `json:"user_id"`
	Type      models.NotificationType `json:"type"`
	Payload   string                  `json:"payload"`
	CreatedAt time.Time               `json:"created_at"`
}

type Fanout interface {
	Register(userID int64) chan Event
	Unregister(userID int64, ch chan Event)
	// Publish never returns an error: push failures must not fail the
	// mutation that produced the event.
	Publish(ctx context.Context, ev Event)
}
