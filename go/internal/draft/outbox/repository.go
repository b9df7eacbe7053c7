package outbox

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/draftleague/go/internal/models"
	"github.com/mcdev12/draftleague/go/internal/sqlutil"
	"github.com/sqlc-dev/pqtype"
)

const (
	fetchUnsentOutbox = `
SELECT id, aggregate_id, season_id, event_type, payload, headers, created_at, sent_at
FROM draft_outbox
WHERE sent_at IS NULL
ORDER BY created_at
LIMIT $1`

	fetchOutboxByID = `
SELECT id, aggregate_id, season_id, event_type, payload, headers, created_at, sent_at
FROM draft_outbox
WHERE id = $1 AND sent_at IS NULL`

	markOutboxSent = `UPDATE draft_outbox SET sent_at = now() WHERE id = $1`

	countUnsentOutbox = `SELECT COUNT(*) FROM draft_outbox WHERE sent_at IS NULL`
)

// SQLRepository reads the outbox table for the relay.
type SQLRepository struct {
	db *sql.DB
}

var _ Repository = (*SQLRepository)(nil)

func NewRepository(db *sql.DB) *SQLRepository {
	return &SQLRepository{
		db: db,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOutboxEvent(row rowScanner) (*models.OutboxEvent, error) {
	var (
		event   models.OutboxEvent
		payload []byte
		headers pqtype.NullRawMessage
		sentAt  sql.NullTime
		created time.Time
	)
	if err := row.Scan(&event.ID, &event.AggregateID, &event.SeasonID, &event.EventType, &payload, &headers, &created, &sentAt); err != nil {
		return nil, err
	}
	event.Payload = payload
	event.CreatedAt = created
	event.SentAt = sqlutil.FromSqlTime(sentAt)

	if headers.Valid && len(headers.RawMessage) > 0 {
		if err := json.Unmarshal(headers.RawMessage, &event.Headers); err != nil {
			return nil, fmt.Errorf("failed to decode headers of event %s: %w", event.ID, err)
		}
	}
	return &event, nil
}

func (r *SQLRepository) FetchUnsentOutbox(ctx context.Context, limit int) ([]models.OutboxEvent, error) {
	rows, err := r.db.QueryContext(ctx, fetchUnsentOutbox, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch unsent outbox events: %w", err)
	}
	defer rows.Close()

	var events []models.OutboxEvent
	for rows.Next() {
		event, err := scanOutboxEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan outbox event: %w", err)
		}
		events = append(events, *event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate outbox events: %w", err)
	}
	return events, nil
}

func (r *SQLRepository) FetchOutboxByID(ctx context.Context, id uuid.UUID) (*models.OutboxEvent, error) {
	event, err := scanOutboxEvent(r.db.QueryRowContext(ctx, fetchOutboxByID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("outbox event not found or already sent")
		}
		return nil, fmt.Errorf("failed to fetch outbox event by ID: %w", err)
	}
	return event, nil
}

func (r *SQLRepository) MarkOutboxSent(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, markOutboxSent, id); err != nil {
		return fmt.Errorf("failed to mark outbox event as sent: %w", err)
	}
	return nil
}

func (r *SQLRepository) CountUnsentOutbox(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, countUnsentOutbox).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count unsent outbox events: %w", err)
	}
	return n, nil
}
