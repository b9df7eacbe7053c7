// Package store defines the persistence port used by the draft and free-agency
// engines. Every mutation of ownership, ledgers, sessions, picks and
// transactions happens inside WithLedgerTransaction, which gives the callback
// an isolated, all-or-nothing view of one season.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/draftleague/go/internal/models"
)

var (
	// ErrNotFound is returned by single-row lookups that match nothing.
	ErrNotFound = errors.New("not found")
	// ErrActiveSessionExists is returned by InsertSession when the season already has an active session.
	ErrActiveSessionExists = errors.New("season already has an active session")
	// ErrOutOfScope is returned when a unit touches a season other than the one it was opened for.
	ErrOutOfScope = errors.New("record belongs to another season")
)

// CandidateFilter narrows the available pool listing.
type CandidateFilter struct {
	MinPoints  *int
	MaxPoints  *int
	Generation *int
	Search     string
	Limit      int
}

// TransactionFilter narrows free-agency transaction listings.
type TransactionFilter struct {
	TeamID   *uuid.UUID
	SeasonID *uuid.UUID
	Status   *models.TransactionStatus
	Limit    int
}

// Reader holds the lookups available both inside and outside a unit.
// Inside a unit the session and ledger reads lock the rows they return.
type Reader interface {
	GetSession(ctx context.Context, id uuid.UUID) (*models.DraftSession, error)
	GetActiveSession(ctx context.Context, seasonID uuid.UUID) (*models.DraftSession, error)

	GetLedger(ctx context.Context, teamID, seasonID uuid.UUID) (*models.BudgetLedger, error)

	GetCandidate(ctx context.Context, seasonID, candidateID uuid.UUID) (*models.Candidate, error)
	FindCandidateByName(ctx context.Context, seasonID uuid.UUID, name string) (*models.Candidate, error)
	ListOwnedCandidates(ctx context.Context, seasonID, teamID uuid.UUID) ([]models.Candidate, error)
	ListAvailableCandidates(ctx context.Context, seasonID uuid.UUID, filter CandidateFilter) ([]models.Candidate, error)

	ListPicksBySession(ctx context.Context, sessionID uuid.UUID) ([]models.DraftPick, error)
	ListPicksByTeam(ctx context.Context, seasonID, teamID uuid.UUID) ([]models.DraftPick, error)

	GetTransaction(ctx context.Context, id uuid.UUID) (*models.FreeAgencyTransaction, error)
	ListTransactions(ctx context.Context, filter TransactionFilter) ([]models.FreeAgencyTransaction, error)
	CountTransactions(ctx context.Context, seasonID, teamID uuid.UUID, status models.TransactionStatus) (int, error)
}

// SessionRepository holds the conditional session writes.
type SessionRepository interface {
	InsertSession(ctx context.Context, s *models.DraftSession) error
	// AdvanceSession moves the counters only if the session is active and
	// still at expectedPick.
	AdvanceSession(ctx context.Context, id uuid.UUID, expectedPick int, next models.SessionAdvance) (bool, error)
	// TransitionSession flips status only if it currently equals from.
	TransitionSession(ctx context.Context, id uuid.UUID, from, to models.SessionStatus, at time.Time) (bool, error)
}

// LedgerRepository holds the ledger writes.
type LedgerRepository interface {
	// EnsureLedger inserts a zero-spend row if absent and returns the current row.
	EnsureLedger(ctx context.Context, teamID, seasonID uuid.UUID, totalPoints int) (*models.BudgetLedger, error)
	// ApplySpendDelta adds delta to spent_points only if the result stays
	// within [0, total_points]. ok is false when the condition failed.
	ApplySpendDelta(ctx context.Context, teamID, seasonID uuid.UUID, delta int) (ledger *models.BudgetLedger, ok bool, err error)
}

// OwnershipRepository holds the ownership compare-and-set.
type OwnershipRepository interface {
	// ClaimIfStatus sets the candidate's ownership to next only if it is
	// currently expected.
	ClaimIfStatus(ctx context.Context, seasonID, candidateID uuid.UUID, expected, next models.Ownership) (bool, error)
}

// HistoryRepository holds the append-only records.
type HistoryRepository interface {
	InsertPick(ctx context.Context, p *models.DraftPick) error
	InsertTransaction(ctx context.Context, t *models.FreeAgencyTransaction) error
	// TransitionTransaction sets status (and processed_at, notes when non-empty)
	// only if the current status is one of from.
	TransitionTransaction(ctx context.Context, id uuid.UUID, from []models.TransactionStatus, to models.TransactionStatus, at *time.Time, notes string) (bool, error)
	InsertAudit(ctx context.Context, a *models.TransactionAudit) error
	InsertOutboxEvent(ctx context.Context, e *models.OutboxEvent) error
}

// Tx is the view handed to a unit of work.
type Tx interface {
	Reader
	SessionRepository
	LedgerRepository
	OwnershipRepository
	HistoryRepository
}

// Store is the transaction port.
type Store interface {
	Reader
	// WithLedgerTransaction runs fn atomically and in isolation for seasonID.
	// If fn returns an error nothing it wrote is kept.
	WithLedgerTransaction(ctx context.Context, seasonID uuid.UUID, fn func(tx Tx) error) error
}
