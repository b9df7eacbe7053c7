// Package freeagencyv1 holds the request and response messages of the free-agency RPC service.
package freeagencyv1

import (
	"github.com/google/uuid"
	"github.com/mcdev12/draftleague/go/internal/models"
)

type SubmitTransactionRequest struct {
	TeamID          uuid.UUID  `json:"team_id"`
	SeasonID        uuid.UUID  `json:"season_id"`
	Type            string     `json:"transaction_type"`
	AddCandidateID  *uuid.UUID `json:"add_candidate_id,omitempty"`
	DropCandidateID *uuid.UUID `json:"drop_candidate_id,omitempty"`
	Notes           string     `json:"notes,omitempty"`
}

type SubmitTransactionResponse struct {
	Transaction *models.FreeAgencyTransaction `json:"transaction"`
}

type ApproveTransactionRequest struct {
	TransactionID uuid.UUID `json:"transaction_id"`
}

type ApproveTransactionResponse struct {
	Transaction *models.FreeAgencyTransaction `json:"transaction"`
}

type RejectTransactionRequest struct {
	TransactionID uuid.UUID `json:"transaction_id"`
	Notes         string    `json:"notes,omitempty"`
}

type RejectTransactionResponse struct {
	Transaction *models.FreeAgencyTransaction `json:"transaction"`
}

type ProcessTransactionRequest struct {
	TransactionID uuid.UUID `json:"transaction_id"`
}

// CommitResult is shared by ProcessTransaction and CommitTransaction.
type CommitResult struct {
	TransactionID uuid.UUID         `json:"transaction_id"`
	DroppedPickID *uuid.UUID        `json:"dropped_pick_id,omitempty"`
	AddedPickID   *uuid.UUID        `json:"added_pick_id,omitempty"`
	Budget        models.TeamBudget `json:"budget"`
}

type ProcessTransactionResponse struct {
	Result CommitResult `json:"result"`
}

type CommitTransactionRequest struct {
	SeasonID        uuid.UUID  `json:"season_id"`
	TeamID          uuid.UUID  `json:"team_id"`
	DropCandidateID *uuid.UUID `json:"drop_candidate_id,omitempty"`
	AddCandidateID  *uuid.UUID `json:"add_candidate_id,omitempty"`
	Notes           string     `json:"notes,omitempty"`
}

type CommitTransactionResponse struct {
	Result CommitResult `json:"result"`
}

type GetTransactionRequest struct {
	TransactionID uuid.UUID `json:"transaction_id"`
}

type GetTransactionResponse struct {
	Transaction *models.FreeAgencyTransaction `json:"transaction"`
}

type ListTransactionsRequest struct {
	TeamID   *uuid.UUID `json:"team_id,omitempty"`
	SeasonID *uuid.UUID `json:"season_id,omitempty"`
	Status   string     `json:"status,omitempty"`
	Limit    int        `json:"limit,omitempty"`
}

type ListTransactionsResponse struct {
	Transactions []models.FreeAgencyTransaction `json:"transactions"`
}

type GetTeamStatusRequest struct {
	TeamID   uuid.UUID `json:"team_id"`
	SeasonID uuid.UUID `json:"season_id"`
}

type GetTeamStatusResponse struct {
	Roster                []models.RosterEntry `json:"roster"`
	Budget                models.TeamBudget    `json:"budget"`
	TransactionCount      int                  `json:"transaction_count"`
	RemainingTransactions int                  `json:"remaining_transactions"`
}
