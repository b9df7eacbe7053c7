package models

import (
	"time"

	"github.com/google/uuid"
)

// DraftType defines how the turn order repeats between rounds.
type DraftType string

const (
	DraftTypeSnake  DraftType = "snake"
	DraftTypeLinear DraftType = "linear"
)

// Valid reports whether the draft type is supported by the engine.
func (t DraftType) Valid() bool {
	return t == DraftTypeSnake || t == DraftTypeLinear
}

// SessionStatus defines the status of a draft session.
type SessionStatus string

const (
	SessionStatusActive    SessionStatus = "active"
	SessionStatusCompleted SessionStatus = "completed"
	SessionStatusCancelled SessionStatus = "cancelled"
)

// Terminal reports whether no further transition is allowed from the status.
func (s SessionStatus) Terminal() bool {
	return s == SessionStatusCompleted || s == SessionStatusCancelled
}

// DraftWindow bounds the wall-clock interval in which picks are accepted.
type DraftWindow struct {
	OpensAt  time.Time `json:"opens_at"`
	ClosesAt time.Time `json:"closes_at"`
}

// Contains reports whether t falls inside the window, inclusive of both ends.
func (w DraftWindow) Contains(t time.Time) bool {
	return !t.Before(w.OpensAt) && !t.After(w.ClosesAt)
}

// DraftSession is one season's draft run.
type DraftSession struct {
	ID                uuid.UUID     `json:"id"`
	SeasonID          uuid.UUID     `json:"season_id"`
	Status            SessionStatus `json:"status"`
	DraftType         DraftType     `json:"draft_type"`
	TurnOrder         []uuid.UUID   `json:"turn_order"`
	OrderShuffled     bool          `json:"order_shuffled"`
	TotalRounds       int           `json:"total_rounds"`
	CurrentRound      int           `json:"current_round"`
	CurrentPickNumber int           `json:"current_pick_number"`
	CurrentTeamID     uuid.UUID     `json:"current_team_id"`
	PickTimeLimitSec  int           `json:"pick_time_limit_sec"`
	AutoDraftEnabled  bool          `json:"auto_draft_enabled"`
	DraftWindow       *DraftWindow  `json:"draft_window,omitempty"`
	StartedAt         time.Time     `json:"started_at"`
	CompletedAt       *time.Time    `json:"completed_at,omitempty"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`
}

// TotalPicks is the number of picks the session allows before it completes.
func (s *DraftSession) TotalPicks() int {
	return s.TotalRounds * len(s.TurnOrder)
}

// Clone returns a deep copy of the session.
func (s *DraftSession) Clone() *DraftSession {
	if s == nil {
		return nil
	}
	c := *s
	c.TurnOrder = append([]uuid.UUID(nil), s.TurnOrder...)
	if s.DraftWindow != nil {
		w := *s.DraftWindow
		c.DraftWindow = &w
	}
	if s.CompletedAt != nil {
		t := *s.CompletedAt
		c.CompletedAt = &t
	}
	return &c
}

// SessionAdvance is the counter state written after a successful pick.
type SessionAdvance struct {
	CurrentRound      int
	CurrentPickNumber int
	CurrentTeamID     uuid.UUID
	UpdatedAt         time.Time
}
