package models

import "time"

type Notification struct {
	Seq       int64            `json:"seq"` // insertion order, used as the list cursor
	ID        string           `json:"id"`  // uuid
	UserID    int64            `json:"user_id"`
	Type      NotificationType `json:"type"`
	Payload   string           `json:"payload"` // json blob, shape depends on Type
	Read      bool             `json:"read"`
	CreatedAt time.Time        `json:"created_at"`
}
