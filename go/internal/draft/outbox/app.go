package outbox

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/draftleague/go/internal/draft/events"
	"github.com/mcdev12/draftleague/go/internal/models"
	"github.com/rs/zerolog/log"
)

// InsertEvent writes an event through w, which must be the unit of work that
// performs the mutation the event describes.
func InsertEvent(ctx context.Context, w Writer, eventType string, aggregateID, seasonID uuid.UUID, payload any, at time.Time, headers ...string) error {
	event, err := events.New(eventType, aggregateID, seasonID, payload, at)
	if err != nil {
		return err
	}
	if len(headers)%2 != 0 {
		return fmt.Errorf("headers must be key/value pairs")
	}
	if len(headers) > 0 {
		event.Headers = make(map[string]string, len(headers)/2)
		for i := 0; i < len(headers); i += 2 {
			event.Headers[headers[i]] = headers[i+1]
		}
	}

	if err := w.InsertOutboxEvent(ctx, event); err != nil {
		return fmt.Errorf("failed to insert %s event: %w", eventType, err)
	}

	log.Debug().
		Str("aggregate_id", aggregateID.String()).
		Str("event_type", eventType).
		Msg("outbox event inserted")

	return nil
}

// Repository defines what the relay needs from the outbox table
type Repository interface {
	FetchUnsentOutbox(ctx context.Context, limit int) ([]models.OutboxEvent, error)
	FetchOutboxByID(ctx context.Context, id uuid.UUID) (*models.OutboxEvent, error)
	MarkOutboxSent(ctx context.Context, id uuid.UUID) error
	CountUnsentOutbox(ctx context.Context) (int, error)
}

// App handles the relay side of the outbox
type App struct {
	repo Repository
}

// NewApp creates a new outbox App
func NewApp(repo Repository) *App {
	return &App{
		repo: repo,
	}
}

// FetchUnsentEvents fetches unsent outbox events
func (a *App) FetchUnsentEvents(ctx context.Context, limit int) ([]models.OutboxEvent, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be greater than 0")
	}

	events, err := a.repo.FetchUnsentOutbox(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch unsent events: %w", err)
	}

	if len(events) > 0 {
		log.Debug().
			Int("count", len(events)).
			Msg("fetched unsent outbox events")
	}

	return events, nil
}

// MarkEventSent marks an outbox event as sent
func (a *App) MarkEventSent(ctx context.Context, eventID uuid.UUID) error {
	if err := a.repo.MarkOutboxSent(ctx, eventID); err != nil {
		return fmt.Errorf("failed to mark event as sent: %w", err)
	}

	log.Debug().
		Str("event_id", eventID.String()).
		Msg("marked outbox event as sent")

	return nil
}

// GetEventByID fetches a specific outbox event by ID
func (a *App) GetEventByID(ctx context.Context, eventID uuid.UUID) (*models.OutboxEvent, error) {
	event, err := a.repo.FetchOutboxByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch event by ID: %w", err)
	}

	return event, nil
}

// CountPending returns the number of events not yet relayed
func (a *App) CountPending(ctx context.Context) (int, error) {
	n, err := a.repo.CountUnsentOutbox(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count pending events: %w", err)
	}
	return n, nil
}

// ProcessUnsentEvents runs processor on one batch of unsent events and marks
// each one sent after it succeeds.
func (a *App) ProcessUnsentEvents(ctx context.Context, batchSize int, processor func(event models.OutboxEvent) error) (int, error) {
	events, err := a.FetchUnsentEvents(ctx, batchSize)
	if err != nil {
		return 0, err
	}

	processedCount := 0
	errorCount := 0

	for _, event := range events {
		if err := processor(event); err != nil {
			log.Error().
				Err(err).
				Str("event_id", event.ID.String()).
				Str("event_type", event.EventType).
				Msg("failed to process event")
			errorCount++
			continue
		}

		if err := a.MarkEventSent(ctx, event.ID); err != nil {
			log.Error().
				Err(err).
				Str("event_id", event.ID.String()).
				Msg("failed to mark event as sent after processing")
			errorCount++
			continue
		}

		processedCount++
	}

	if processedCount > 0 || errorCount > 0 {
		log.Info().
			Int("processed", processedCount).
			Int("errors", errorCount).
			Int("total", len(events)).
			Msg("processed unsent events batch")
	}

	return processedCount, nil
}
