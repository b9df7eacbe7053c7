package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/draftleague/go/internal/models"
)

// Event types written to the outbox
const (
	TypeSessionCreated       = "SessionCreated"
	TypePickMade             = "PickMade"
	TypeDraftCompleted       = "DraftCompleted"
	TypeDraftCancelled       = "DraftCancelled"
	TypeTransactionProcessed = "TransactionProcessed"
)

// SessionCreatedPayload is the payload for a SessionCreated event
type SessionCreatedPayload struct {
	SessionID   string    `json:"session_id"`
	SeasonID    string    `json:"season_id"`
	DraftType   string    `json:"draft_type"`
	TurnOrder   []string  `json:"turn_order"`
	TotalRounds int       `json:"total_rounds"`
	TotalPicks  int       `json:"total_picks"`
	StartedAt   time.Time `json:"started_at"`
}

// PickMadePayload is the payload for a PickMade event
type PickMadePayload struct {
	PickID          string    `json:"pick_id"`
	SessionID       string    `json:"session_id"`
	TeamID          string    `json:"team_id"`
	CandidateID     string    `json:"candidate_id"`
	CandidateName   string    `json:"candidate_name"`
	Round           int       `json:"round"`
	PickNumber      int       `json:"pick_number"`
	PointsCharged   int       `json:"points_charged"`
	BudgetRemaining int       `json:"budget_remaining"`
	NextTeamID      string    `json:"next_team_id,omitempty"`
	MadeAt          time.Time `json:"made_at"`
}

// DraftCompletedPayload is the payload for a DraftCompleted event
type DraftCompletedPayload struct {
	SessionID   string    `json:"session_id"`
	CompletedAt time.Time `json:"completed_at"`
	Duration    string    `json:"duration"`
	TotalPicks  int       `json:"total_picks"`
}

// DraftCancelledPayload is the payload for a DraftCancelled event
type DraftCancelledPayload struct {
	SessionID   string    `json:"session_id"`
	CancelledAt time.Time `json:"cancelled_at"`
	Reason      string    `json:"reason"`
}

// TransactionProcessedPayload is the payload for a TransactionProcessed event
type TransactionProcessedPayload struct {
	TransactionID   string    `json:"transaction_id"`
	TeamID          string    `json:"team_id"`
	Type            string    `json:"transaction_type"`
	AddCandidateID  string    `json:"add_candidate_id,omitempty"`
	DropCandidateID string    `json:"drop_candidate_id,omitempty"`
	PointsUsed      int       `json:"points_used"`
	BudgetRemaining int       `json:"budget_remaining"`
	ProcessedAt     time.Time `json:"processed_at"`
}

// New builds an outbox row for payload.
func New(eventType string, aggregateID, seasonID uuid.UUID, payload any, at time.Time) (*models.OutboxEvent, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
	}
	return &models.OutboxEvent{
		ID:          uuid.New(),
		AggregateID: aggregateID,
		SeasonID:    seasonID,
		EventType:   eventType,
		Payload:     data,
		CreatedAt:   at,
	}, nil
}
