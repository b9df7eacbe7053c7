package outbox

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/mcdev12/draftleague/go/internal/models"
	"github.com/rs/zerolog/log"
)

type ListenerConfig struct {
	DatabaseURL      string        // Postgres DSN for LISTEN/NOTIFY
	NotifyChannel    string        // Channel name to LISTEN on
	FallbackInterval time.Duration // How often to poll for missed events
	MaxRetries       int
	RetryDelay       time.Duration
	PingInterval     time.Duration
	BatchSize        int // Max events to fetch per batch
}

func DefaultListenerConfig() ListenerConfig {
	return ListenerConfig{
		DatabaseURL:      "",
		NotifyChannel:    "draft_outbox_events",
		FallbackInterval: 30 * time.Second,
		MaxRetries:       5,
		RetryDelay:       200 * time.Millisecond,
		PingInterval:     90 * time.Second,
		BatchSize:        100,
	}
}

// notifier is the part of pq.Listener the relay loop uses.
type notifier interface {
	NotificationChannel() <-chan *pq.Notification
	Ping() error
	Close() error
}

type Listener struct {
	app       *App
	listener  notifier
	publisher Publisher
	cfg       ListenerConfig

	mu        sync.Mutex
	running   bool
	processed uint64
	lastEvent time.Time
}

// NewListener subscribes to the outbox notification channel.
func NewListener(app *App, publisher Publisher, cfg ListenerConfig) (*Listener, error) {
	l := pq.NewListener(
		cfg.DatabaseURL,
		10*time.Second,
		time.Minute,
		func(ev pq.ListenerEventType, err error) {
			if err != nil {
				log.Error().Err(err).Msg("listener event")
			}
		},
	)
	if err := l.Listen(cfg.NotifyChannel); err != nil {
		return nil, fmt.Errorf("failed to listen to channel: %w", err)
	}

	log.Info().
		Str("channel", cfg.NotifyChannel).
		Msg("listening for notifications")

	return newListener(app, l, publisher, cfg), nil
}

func newListener(app *App, n notifier, publisher Publisher, cfg ListenerConfig) *Listener {
	return &Listener{
		app:       app,
		listener:  n,
		publisher: publisher,
		cfg:       cfg,
	}
}

func (l *Listener) Start(ctx context.Context) error {
	log.Info().
		Str("channel", l.cfg.NotifyChannel).
		Dur("ping_interval", l.cfg.PingInterval).
		Dur("fallback_interval", l.cfg.FallbackInterval).
		Msg("listener started")

	l.setRunning(true)
	defer l.setRunning(false)

	pingTicker := time.NewTicker(l.cfg.PingInterval)
	fallbackTicker := time.NewTicker(l.cfg.FallbackInterval)
	defer pingTicker.Stop()
	defer fallbackTicker.Stop()

	// catch up on anything written while we were down
	if err := l.processUnsent(ctx); err != nil {
		log.Error().Err(err).Msg("failed to process unsent events on startup")
	}

	notifications := l.listener.NotificationChannel()
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("listener shutting down")
			return l.Stop()
		case note := <-notifications:
			if note == nil {
				// connection was re-established, notifications may have been missed
				if err := l.processUnsent(ctx); err != nil {
					log.Error().Err(err).Msg("failed to process unsent events after reconnect")
				}
				continue
			}
			if err := l.handleNotification(ctx, note.Extra); err != nil {
				log.Error().Err(err).Msg("failed to handle notification")
			}
		case <-fallbackTicker.C:
			if err := l.processUnsent(ctx); err != nil {
				log.Error().Err(err).Msg("failed to process unsent events")
			}
		case <-pingTicker.C:
			if err := l.listener.Ping(); err != nil {
				log.Error().Err(err).Msg("failed to ping listener")
			}
		}
	}
}

func (l *Listener) Stop() error {
	return l.listener.Close()
}

// Stats returns how many events were relayed and when the last one was.
func (l *Listener) Stats() (uint64, time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.processed, l.lastEvent
}

// Running reports whether the relay loop is active.
func (l *Listener) Running() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.running
}

func (l *Listener) setRunning(v bool) {
	l.mu.Lock()
	l.running = v
	l.mu.Unlock()
}

func (l *Listener) recordSent() {
	l.mu.Lock()
	l.processed++
	l.lastEvent = time.Now()
	l.mu.Unlock()
}

// handleNotification handles a pg listen notification. Extra is the event id.
func (l *Listener) handleNotification(ctx context.Context, extra string) error {
	id, err := uuid.Parse(extra)
	if err != nil {
		return fmt.Errorf("invalid event ID in notification: %w", err)
	}

	event, err := l.app.GetEventByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to fetch outbox event: %w", err)
	}

	if err := l.publishWithRetry(ctx, *event); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	if err := l.app.MarkEventSent(ctx, id); err != nil {
		return err
	}
	l.recordSent()

	log.Info().Str("event_id", id.String()).Msg("published and marked event as sent")
	return nil
}

// processUnsent relays one batch of events that were never marked sent.
func (l *Listener) processUnsent(ctx context.Context) error {
	n, err := l.app.ProcessUnsentEvents(ctx, l.cfg.BatchSize, func(event models.OutboxEvent) error {
		return l.publishWithRetry(ctx, event)
	})
	for i := 0; i < n; i++ {
		l.recordSent()
	}
	return err
}

// publishWithRetry attempts to publish an outbox event with a linear backoff.
func (l *Listener) publishWithRetry(ctx context.Context, event models.OutboxEvent) error {
	var lastErr error

	for attempt := 0; attempt <= l.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := l.cfg.RetryDelay * time.Duration(attempt)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		if err := l.publisher.Publish(ctx, event); err != nil {
			lastErr = err
			log.Error().
				Err(err).
				Int("attempt", attempt+1).
				Str("event_id", event.ID.String()).
				Msg("failed to publish, retrying")
			continue
		}

		if attempt > 0 {
			log.Info().
				Int("attempt", attempt+1).
				Str("event_id", event.ID.String()).
				Msg("publish succeeded after retry")
		}
		return nil
	}

	return fmt.Errorf("publish failed after %d attempts: %w", l.cfg.MaxRetries+1, lastErr)
}
