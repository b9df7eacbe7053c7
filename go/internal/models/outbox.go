package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// OutboxEvent is a domain event written in the same unit as the mutation it describes.
type OutboxEvent struct {
	ID          uuid.UUID         `json:"id"`
	AggregateID uuid.UUID         `json:"aggregate_id"`
	SeasonID    uuid.UUID         `json:"season_id"`
	EventType   string            `json:"event_type"`
	Payload     json.RawMessage   `json:"payload"`
	Headers     map[string]string `json:"headers,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	SentAt      *time.Time        `json:"sent_at,omitempty"`
}
