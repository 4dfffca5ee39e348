package domain

import "time"

// ModerationEntry records a single moderation transition for the audit trail.
type ModerationEntry struct {
	ProductID  string          `json:"product_id"`
	Event      ModerationEvent `json:"event"`
	FromStatus ProductStatus   `json:"from_status"`
	ToStatus   ProductStatus   `json:"to_status"`
	ActorID    string          `json:"actor_id"`
	ActorRole  string          `json:"actor_role"`
	Reason     string          `json:"reason,omitempty"`
	Timestamp  time.Time       `json:"timestamp"`
}
