package pick

import (
	"github.com/google/uuid"
	"github.com/mcdev12/draftleague/go/internal/models"
)

// MakePickRequest represents a request to make a draft pick. The candidate is
// identified by ID, or by name when no ID is given.
type MakePickRequest struct {
	SessionID     uuid.UUID  `json:"session_id"`
	TeamID        uuid.UUID  `json:"team_id"`
	CandidateID   *uuid.UUID `json:"candidate_id,omitempty"`
	CandidateName string     `json:"candidate_name,omitempty"`
}

// MakePickResult is a committed pick with the team's budget after it.
type MakePickResult struct {
	Pick    *models.DraftPick    `json:"pick"`
	Budget  models.TeamBudget    `json:"budget"`
	Session *models.DraftSession `json:"session"`
}

// TeamStatus is a team's draft budget, roster and pick history for a season.
type TeamStatus struct {
	Budget models.TeamBudget    `json:"budget"`
	Roster []models.RosterEntry `json:"roster"`
	Picks  []models.DraftPick   `json:"picks"`
}
