package outbox

import (
	"context"

	"github.com/mcdev12/draftleague/go/internal/models"
)

// Writer is the part of a unit of work that stores outbox rows.
type Writer interface {
	InsertOutboxEvent(ctx context.Context, e *models.OutboxEvent) error
}

// Publisher delivers an outbox event to the broker.
type Publisher interface {
	Publish(ctx context.Context, event models.OutboxEvent) error
}
