package freeagency

import (
	"github.com/google/uuid"
	"github.com/mcdev12/draftleague/go/internal/models"
)

// SubmitRequest represents a request to queue a roster edit for approval.
type SubmitRequest struct {
	TeamID          uuid.UUID              `json:"team_id"`
	SeasonID        uuid.UUID              `json:"season_id"`
	Type            models.TransactionType `json:"transaction_type"`
	AddCandidateID  *uuid.UUID             `json:"add_candidate_id,omitempty"`
	DropCandidateID *uuid.UUID             `json:"drop_candidate_id,omitempty"`
	Notes           string                 `json:"notes,omitempty"`
	CreatedBy       string                 `json:"created_by,omitempty"`
}

// CommitRequest represents a direct drop/add applied in one unit of work.
type CommitRequest struct {
	SeasonID        uuid.UUID  `json:"season_id"`
	TeamID          uuid.UUID  `json:"team_id"`
	DropCandidateID *uuid.UUID `json:"drop_candidate_id,omitempty"`
	AddCandidateID  *uuid.UUID `json:"add_candidate_id,omitempty"`
	Notes           string     `json:"notes,omitempty"`
	CreatedBy       string     `json:"created_by,omitempty"`
}

// CommitResult describes a committed transaction. DroppedPickID is the pick
// under which the dropped candidate was acquired, when one exists.
type CommitResult struct {
	TransactionID uuid.UUID         `json:"transaction_id"`
	DroppedPickID *uuid.UUID        `json:"dropped_pick_id,omitempty"`
	AddedPickID   *uuid.UUID        `json:"added_pick_id,omitempty"`
	Budget        models.TeamBudget `json:"budget"`
}

// TeamStatus is a team's free-agency standing for a season.
type TeamStatus struct {
	Roster                []models.RosterEntry `json:"roster"`
	Budget                models.TeamBudget    `json:"budget"`
	TransactionCount      int                  `json:"transaction_count"`
	RemainingTransactions int                  `json:"remaining_transactions"`
}

// commitInput is the normalized form of a commit, whether direct or from a
// queued transaction.
type commitInput struct {
	seasonID uuid.UUID
	teamID   uuid.UUID
	drop     *uuid.UUID
	add      *uuid.UUID
	notes    string
	// existing is set when processing a queued transaction
	existing  *models.FreeAgencyTransaction
	createdBy string
}

func (in commitInput) transactionType() models.TransactionType {
	switch {
	case in.add != nil && in.drop != nil:
		return models.TransactionTypeReplacement
	case in.add != nil:
		return models.TransactionTypeAddition
	default:
		return models.TransactionTypeDropOnly
	}
}
