// Package draftv1 holds the request and response messages of the draft RPC services.
package draftv1

import (
	"github.com/google/uuid"
	"github.com/mcdev12/draftleague/go/internal/models"
)

// Turn is the team on the clock for one pick.
type Turn struct {
	PickNumber int       `json:"pick_number"`
	Round      int       `json:"round"`
	TeamID     uuid.UUID `json:"team_id"`
}

type CreateSessionRequest struct {
	SeasonID         uuid.UUID           `json:"season_id"`
	TeamIDs          []uuid.UUID         `json:"team_ids"`
	DraftType        string              `json:"draft_type,omitempty"`
	PickTimeLimitSec *int                `json:"pick_time_limit_sec,omitempty"`
	TotalRounds      *int                `json:"total_rounds,omitempty"`
	TotalPoints      *int                `json:"total_points,omitempty"`
	AutoDraftEnabled bool                `json:"auto_draft_enabled,omitempty"`
	DraftWindow      *models.DraftWindow `json:"draft_window,omitempty"`
}

type CreateSessionResponse struct {
	Session *models.DraftSession `json:"session"`
	Created bool                 `json:"created"`
}

type GetSessionRequest struct {
	SessionID uuid.UUID `json:"session_id"`
}

type GetSessionResponse struct {
	Session *models.DraftSession `json:"session"`
}

type GetDraftStatusRequest struct {
	SeasonID uuid.UUID `json:"season_id"`
}

type GetDraftStatusResponse struct {
	Session     *models.DraftSession `json:"session"`
	CurrentTurn *Turn                `json:"current_turn,omitempty"`
	NextTurn    *Turn                `json:"next_turn,omitempty"`
}

type CompleteSessionRequest struct {
	SessionID uuid.UUID `json:"session_id"`
}

type CompleteSessionResponse struct {
	Session *models.DraftSession `json:"session"`
}

type CancelSessionRequest struct {
	SessionID uuid.UUID `json:"session_id"`
	Reason    string    `json:"reason,omitempty"`
}

type CancelSessionResponse struct {
	Session *models.DraftSession `json:"session"`
}

type MakePickRequest struct {
	SessionID     uuid.UUID  `json:"session_id"`
	TeamID        uuid.UUID  `json:"team_id"`
	CandidateID   *uuid.UUID `json:"candidate_id,omitempty"`
	CandidateName string     `json:"candidate_name,omitempty"`
}

type MakePickResponse struct {
	Pick    *models.DraftPick    `json:"pick"`
	Budget  models.TeamBudget    `json:"budget"`
	Session *models.DraftSession `json:"session"`
}

type ListPicksRequest struct {
	SessionID uuid.UUID `json:"session_id"`
}

type ListPicksResponse struct {
	Picks []models.DraftPick `json:"picks"`
}

type ListAvailableCandidatesRequest struct {
	SeasonID   uuid.UUID `json:"season_id"`
	MinPoints  *int      `json:"min_points,omitempty"`
	MaxPoints  *int      `json:"max_points,omitempty"`
	Generation *int      `json:"generation,omitempty"`
	Search     string    `json:"search,omitempty"`
	Limit      int       `json:"limit,omitempty"`
}

type ListAvailableCandidatesResponse struct {
	Candidates []models.Candidate `json:"candidates"`
}

type GetTeamDraftStatusRequest struct {
	TeamID   uuid.UUID `json:"team_id"`
	SeasonID uuid.UUID `json:"season_id"`
}

type GetTeamDraftStatusResponse struct {
	Budget models.TeamBudget    `json:"budget"`
	Roster []models.RosterEntry `json:"roster"`
	Picks  []models.DraftPick   `json:"picks"`
}
