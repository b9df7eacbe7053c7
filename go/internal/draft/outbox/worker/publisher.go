package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/mcdev12/draftleague/go/internal/models"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/rs/zerolog/log"
)

// JetStreamConfig describes the broker connection and the stream that holds
// relayed draft and free-agency events.
type JetStreamConfig struct {
	URL           string
	ClientName    string
	Stream        string
	SubjectPrefix string

	// retention
	MaxAge          time.Duration
	Replicas        int
	DuplicateWindow time.Duration
}

// DefaultJetStreamConfig keeps a week of events on a single replica.
func DefaultJetStreamConfig() JetStreamConfig {
	return JetStreamConfig{
		URL:             nats.DefaultURL,
		ClientName:      "draftleague-outbox-relay",
		Stream:          "DRAFTLEAGUE_EVENTS",
		SubjectPrefix:   "draftleague.events",
		MaxAge:          7 * 24 * time.Hour,
		Replicas:        1,
		DuplicateWindow: 2 * time.Hour,
	}
}

// JetStreamConfigFromEnv overlays NATS_* variables on the defaults.
func JetStreamConfigFromEnv() JetStreamConfig {
	cfg := DefaultJetStreamConfig()
	if v := os.Getenv("NATS_URL"); v != "" {
		cfg.URL = v
	}
	if v := os.Getenv("NATS_STREAM"); v != "" {
		cfg.Stream = v
	}
	if v := os.Getenv("NATS_SUBJECT_PREFIX"); v != "" {
		cfg.SubjectPrefix = v
	}
	if v := os.Getenv("NATS_MAX_AGE"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.MaxAge = d
		}
	}
	if v := os.Getenv("NATS_REPLICAS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Replicas = n
		}
	}
	return cfg
}

func (c JetStreamConfig) streamConfig() jetstream.StreamConfig {
	return jetstream.StreamConfig{
		Name:        c.Stream,
		Description: "Draft and free-agency events relayed from the outbox",
		Subjects:    []string{c.SubjectPrefix + ".>"},
		Retention:   jetstream.LimitsPolicy,
		Storage:     jetstream.FileStorage,
		MaxAge:      c.MaxAge,
		Replicas:    c.Replicas,
		Duplicates:  c.DuplicateWindow,
	}
}

// JetStreamPublisher publishes outbox rows to JetStream. The outbox id is the
// message id, so a row relayed twice inside the duplicate window is stored once.
type JetStreamPublisher struct {
	nc  *nats.Conn
	js  jetstream.JetStream
	cfg JetStreamConfig
}

var _ EventPublisher = (*JetStreamPublisher)(nil)

// NewJetStreamPublisher connects and creates or updates the event stream.
func NewJetStreamPublisher(ctx context.Context, cfg JetStreamConfig) (*JetStreamPublisher, error) {
	nc, err := nats.Connect(cfg.URL, connectOptions(cfg)...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS at %s: %w", cfg.URL, err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to open JetStream: %w", err)
	}

	stream, err := js.CreateOrUpdateStream(ctx, cfg.streamConfig())
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to set up stream %s: %w", cfg.Stream, err)
	}
	log.Info().
		Str("stream", stream.CachedInfo().Config.Name).
		Str("subjects", cfg.SubjectPrefix+".>").
		Dur("max_age", cfg.MaxAge).
		Msg("event stream ready")

	return &JetStreamPublisher{nc: nc, js: js, cfg: cfg}, nil
}

func connectOptions(cfg JetStreamConfig) []nats.Option {
	return []nats.Option{
		nats.Name(cfg.ClientName),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Warn().Err(err).Msg("NATS connection lost")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS connection restored")
		}),
		nats.ErrorHandler(func(_ *nats.Conn, _ *nats.Subscription, err error) {
			log.Error().Err(err).Msg("NATS async error")
		}),
	}
}

// Publish sends event and waits for the stream's ack.
func (p *JetStreamPublisher) Publish(ctx context.Context, event models.OutboxEvent) error {
	msg, err := Message(p.cfg.SubjectPrefix, event)
	if err != nil {
		return err
	}

	ack, err := p.js.PublishMsg(ctx, msg,
		jetstream.WithMsgID(event.ID.String()),
		jetstream.WithExpectStream(p.cfg.Stream),
	)
	if err != nil {
		return fmt.Errorf("failed to publish %s %s: %w", event.EventType, event.ID, err)
	}

	log.Debug().
		Str("subject", msg.Subject).
		Str("event_id", event.ID.String()).
		Str("season_id", event.SeasonID.String()).
		Uint64("sequence", ack.Sequence).
		Bool("duplicate", ack.Duplicate).
		Msg("event published")
	return nil
}

// IsConnected reports whether the NATS connection is up.
func (p *JetStreamPublisher) IsConnected() bool {
	return p.nc != nil && p.nc.IsConnected()
}

func (p *JetStreamPublisher) Close() error {
	if p.nc == nil {
		return nil
	}
	return p.nc.Drain()
}

type envelope struct {
	EventID     string          `json:"eventId"`
	EventType   string          `json:"eventType"`
	AggregateID string          `json:"aggregateId"`
	SeasonID    string          `json:"seasonId"`
	Timestamp   time.Time       `json:"timestamp"`
	Payload     json.RawMessage `json:"payload"`
}

// Message builds the NATS message for an outbox row.
func Message(prefix string, event models.OutboxEvent) (*nats.Msg, error) {
	data, err := json.Marshal(envelope{
		EventID:     event.ID.String(),
		EventType:   event.EventType,
		AggregateID: event.AggregateID.String(),
		SeasonID:    event.SeasonID.String(),
		Timestamp:   event.CreatedAt.UTC(),
		Payload:     event.Payload,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode event %s: %w", event.ID, err)
	}
	return &nats.Msg{
		Subject: Subject(prefix, event),
		Data:    data,
		Header:  Headers(event),
	}, nil
}

// Subject is the NATS subject an event is published on.
func Subject(prefix string, event models.OutboxEvent) string {
	return prefix + "." + event.EventType
}

// Headers builds the NATS headers for an event, including any headers stored
// with the outbox row.
func Headers(event models.OutboxEvent) nats.Header {
	h := nats.Header{}
	h.Set("Event-Type", event.EventType)
	h.Set("Event-ID", event.ID.String())
	h.Set("Season-ID", event.SeasonID.String())
	for k, v := range event.Headers {
		h.Set(k, v)
	}
	return h
}
