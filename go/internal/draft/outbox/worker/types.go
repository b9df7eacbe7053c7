package worker

import (
	"context"

	"github.com/mcdev12/draftleague/go/internal/models"
)

// EventPublisher delivers outbox events to a broker.
type EventPublisher interface {
	Publish(ctx context.Context, event models.OutboxEvent) error
	Close() error
}
