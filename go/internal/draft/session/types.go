package session

import (
	"github.com/google/uuid"
	"github.com/mcdev12/draftleague/go/internal/draft/turnorder"
	"github.com/mcdev12/draftleague/go/internal/models"
)

// CreateSessionRequest represents a request to start a draft for a season.
// Zero-valued optional fields fall back to the league rules.
type CreateSessionRequest struct {
	SeasonID         uuid.UUID           `json:"season_id"`
	TeamIDs          []uuid.UUID         `json:"team_ids"`
	DraftType        models.DraftType    `json:"draft_type"`
	PickTimeLimitSec *int                `json:"pick_time_limit_sec"`
	TotalRounds      *int                `json:"total_rounds"`
	TotalPoints      *int                `json:"total_points"`
	AutoDraftEnabled bool                `json:"auto_draft_enabled"`
	DraftWindow      *models.DraftWindow `json:"draft_window"`
}

// CreateSessionResult is the session for the season and whether this call created it.
type CreateSessionResult struct {
	Session *models.DraftSession `json:"session"`
	Created bool                 `json:"created"`
}

// Status is a session together with the turn it is waiting on.
type Status struct {
	Session     *models.DraftSession `json:"session"`
	CurrentTurn *turnorder.Turn      `json:"current_turn,omitempty"`
	NextTurn    *turnorder.Turn      `json:"next_turn,omitempty"`
}
