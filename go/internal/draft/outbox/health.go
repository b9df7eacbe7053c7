package outbox

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

type HealthStatus struct {
	Healthy           bool      `json:"healthy"`
	LastEventTime     time.Time `json:"last_event_time"`
	EventsProcessed   uint64    `json:"events_processed"`
	PendingEvents     int       `json:"pending_events"`
	DatabaseConnected bool      `json:"database_connected"`
	BrokerConnected   bool      `json:"broker_connected"`
	ListenerActive    bool      `json:"listener_active"`
	Errors            []string  `json:"errors"`
}

// BrokerStatus reports broker connectivity.
type BrokerStatus interface {
	IsConnected() bool
}

// HealthChecker reports on the relay's database, broker and loop.
type HealthChecker struct {
	listener     *Listener
	app          *App
	db           *sql.DB
	broker       BrokerStatus
	threshold    time.Duration // how long pending events may wait before unhealthy
	pendingAlert int
}

func NewHealthChecker(listener *Listener, app *App, db *sql.DB, broker BrokerStatus, threshold time.Duration) *HealthChecker {
	return &HealthChecker{
		listener:     listener,
		app:          app,
		db:           db,
		broker:       broker,
		threshold:    threshold,
		pendingAlert: 1000,
	}
}

func (h *HealthChecker) Check(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Healthy: true,
		Errors:  []string{},
	}

	status.EventsProcessed, status.LastEventTime = h.listener.Stats()

	if err := h.db.PingContext(ctx); err != nil {
		status.Healthy = false
		status.Errors = append(status.Errors, fmt.Sprintf("database ping failed: %v", err))
	} else {
		status.DatabaseConnected = true
	}

	if h.broker != nil {
		status.BrokerConnected = h.broker.IsConnected()
		if !status.BrokerConnected {
			status.Healthy = false
			status.Errors = append(status.Errors, "broker disconnected")
		}
	}

	status.ListenerActive = h.listener.Running()
	if !status.ListenerActive {
		status.Healthy = false
		status.Errors = append(status.Errors, "listener not active")
	}

	if status.DatabaseConnected {
		pending, err := h.app.CountPending(ctx)
		if err != nil {
			status.Errors = append(status.Errors, err.Error())
		} else {
			status.PendingEvents = pending
			if pending > h.pendingAlert {
				status.Errors = append(status.Errors, fmt.Sprintf("high pending event count: %d", pending))
			}
		}
	}

	if status.PendingEvents > 0 && !status.LastEventTime.IsZero() {
		since := time.Since(status.LastEventTime)
		if since > h.threshold {
			status.Healthy = false
			status.Errors = append(status.Errors, fmt.Sprintf("no events processed for %s", since))
		}
	}

	return status
}

func (h *HealthChecker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := h.Check(ctx)

	w.Header().Set("Content-Type", "application/json")
	if !status.Healthy {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	if err := json.NewEncoder(w).Encode(status); err != nil {
		log.Error().Err(err).Msg("failed to write health response")
	}
}
