// Package queue carries activity events over RabbitMQ: the publisher used by
// the API and the consumer that appends them to the activity log.
package queue

import (
	"time"

	"github.com/google/uuid"
)

// Event types.
const (
	ShowtimeScheduled = "showtime.scheduled"
	ShowtimeUpdated   = "showtime.updated"
	ShowtimeDeleted   = "showtime.deleted"
	ReviewSubmitted   = "review.submitted"
	ReviewDeleted     = "review.deleted"
)

// ActivityEvent is published after a successful write.  It carries enough
// information for the activity log to be readable without querying the
// database.  Fields that do not apply to an event type are omitted.
type ActivityEvent struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	OccurredAt string `json:"occurred_at"`
	Actor      string `json:"actor,omitempty"`
	MovieID    uint64 `json:"movie_id,omitempty"`
	MovieTitle string `json:"movie_title,omitempty"`
	ShowtimeID uint64 `json:"showtime_id,omitempty"`
	StartsAt   string `json:"starts_at,omitempty"`
	Price      string `json:"price,omitempty"`
	ReviewID   uint64 `json:"review_id,omitempty"`
	UserEmail  string `json:"user_email,omitempty"`
	Score      int    `json:"score,omitempty"`
}

// NewEvent stamps a fresh event of the given type with an id and the
// current UTC time.
func NewEvent(eventType, actor string) ActivityEvent {
	return ActivityEvent{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
		Actor:      actor,
	}
}
