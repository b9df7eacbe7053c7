package models

import (
	"time"

	"github.com/google/uuid"
)

// TransactionType is the shape of a free-agency roster edit.
type TransactionType string

const (
	TransactionTypeAddition    TransactionType = "addition"
	TransactionTypeDropOnly    TransactionType = "drop_only"
	TransactionTypeReplacement TransactionType = "replacement"
)

// TransactionStatus is the lifecycle state of a free-agency transaction.
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusApproved  TransactionStatus = "approved"
	TransactionStatusRejected  TransactionStatus = "rejected"
	TransactionStatusProcessed TransactionStatus = "processed"
)

// Processable reports whether a transaction in this status may still be committed.
func (s TransactionStatus) Processable() bool {
	return s == TransactionStatusPending || s == TransactionStatusApproved
}

// FreeAgencyTransaction is a requested or applied roster edit outside the draft.
type FreeAgencyTransaction struct {
	ID               uuid.UUID         `json:"id"`
	TeamID           uuid.UUID         `json:"team_id"`
	SeasonID         uuid.UUID         `json:"season_id"`
	Type             TransactionType   `json:"transaction_type"`
	AddCandidateID   *uuid.UUID        `json:"add_candidate_id,omitempty"`
	DropCandidateID  *uuid.UUID        `json:"drop_candidate_id,omitempty"`
	AddedPoints      int               `json:"added_points"`
	DroppedPoints    int               `json:"dropped_points"`
	Status           TransactionStatus `json:"status"`
	Notes            string            `json:"notes,omitempty"`
	RosterSizeBefore int               `json:"roster_size_before"`
	SpentBefore      int               `json:"spent_before"`
	CreatedBy        string            `json:"created_by,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
	ProcessedAt      *time.Time        `json:"processed_at,omitempty"`
}

// Clone returns a deep copy of the transaction.
func (t *FreeAgencyTransaction) Clone() *FreeAgencyTransaction {
	if t == nil {
		return nil
	}
	c := *t
	if t.AddCandidateID != nil {
		id := *t.AddCandidateID
		c.AddCandidateID = &id
	}
	if t.DropCandidateID != nil {
		id := *t.DropCandidateID
		c.DropCandidateID = &id
	}
	if t.ProcessedAt != nil {
		p := *t.ProcessedAt
		c.ProcessedAt = &p
	}
	return &c
}

// BudgetSnapshot captures a team's ledger and roster at a point in time.
type BudgetSnapshot struct {
	SpentPoints       int         `json:"spent_points"`
	TotalPoints       int         `json:"total_points"`
	RosterSize        int         `json:"roster_size"`
	OwnedCandidateIDs []uuid.UUID `json:"owned_candidate_ids"`
}

// TransactionAudit is an append-only before/after record of a committed roster edit.
type TransactionAudit struct {
	ID            uuid.UUID      `json:"id"`
	TransactionID uuid.UUID      `json:"transaction_id"`
	TeamID        uuid.UUID      `json:"team_id"`
	SeasonID      uuid.UUID      `json:"season_id"`
	Before        BudgetSnapshot `json:"before"`
	After         BudgetSnapshot `json:"after"`
	Notes         string         `json:"notes,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
}
