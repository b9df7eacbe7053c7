// Package freeagency applies roster edits outside the draft. Each commit
// releases the dropped candidate, claims the added one, and moves the team's
// budget in a single unit of work, or changes nothing.
package freeagency

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/draftleague/go/internal/draft/events"
	"github.com/mcdev12/draftleague/go/internal/draft/outbox"
	"github.com/mcdev12/draftleague/go/internal/drafterr"
	"github.com/mcdev12/draftleague/go/internal/ledger"
	"github.com/mcdev12/draftleague/go/internal/models"
	"github.com/mcdev12/draftleague/go/internal/ownership"
	"github.com/mcdev12/draftleague/go/internal/rules"
	"github.com/mcdev12/draftleague/go/internal/store"
	"github.com/rs/zerolog/log"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// App handles free-agency business logic
type App struct {
	store store.Store
	clock clockwork.Clock
	rules rules.Rules
}

// NewApp creates a new free-agency App
func NewApp(st store.Store, clock clockwork.Clock, r rules.Rules) *App {
	return &App{
		store: st,
		clock: clock,
		rules: r,
	}
}

// SubmitTransaction records a pending transaction. Nothing is owned or
// charged until it is processed.
func (a *App) SubmitTransaction(ctx context.Context, req SubmitRequest) (*models.FreeAgencyTransaction, error) {
	if err := validateSubmitRequest(req); err != nil {
		return nil, err
	}

	var txn *models.FreeAgencyTransaction
	err := a.store.WithLedgerTransaction(ctx, req.SeasonID, func(tx store.Tx) error {
		row, err := teamLedger(ctx, tx, req.TeamID, req.SeasonID)
		if err != nil {
			return err
		}
		if err := a.checkTransactionLimit(ctx, tx, req.SeasonID, req.TeamID); err != nil {
			return err
		}
		owned, err := tx.ListOwnedCandidates(ctx, req.SeasonID, req.TeamID)
		if err != nil {
			return fmt.Errorf("failed to list roster: %w", err)
		}

		txn = &models.FreeAgencyTransaction{
			ID:               uuid.New(),
			TeamID:           req.TeamID,
			SeasonID:         req.SeasonID,
			Type:             req.Type,
			AddCandidateID:   req.AddCandidateID,
			DropCandidateID:  req.DropCandidateID,
			Status:           models.TransactionStatusPending,
			Notes:            req.Notes,
			RosterSizeBefore: len(owned),
			SpentBefore:      row.SpentPoints,
			CreatedBy:        req.CreatedBy,
			CreatedAt:        a.clock.Now(),
		}
		if req.AddCandidateID != nil {
			if txn.AddedPoints, err = currentPoints(ctx, tx, req.SeasonID, *req.AddCandidateID); err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return drafterr.New(drafterr.CodeAddNotInPool, "candidate %s is not in the pool", *req.AddCandidateID)
				}
				return err
			}
		}
		if req.DropCandidateID != nil {
			if txn.DroppedPoints, err = currentPoints(ctx, tx, req.SeasonID, *req.DropCandidateID); err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return drafterr.New(drafterr.CodeDropNotOwned, "candidate %s is not on the roster", *req.DropCandidateID)
				}
				return err
			}
		}

		if err := tx.InsertTransaction(ctx, txn); err != nil {
			return fmt.Errorf("failed to insert transaction: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("transaction_id", txn.ID.String()).
		Str("team_id", req.TeamID.String()).
		Str("type", string(req.Type)).
		Msg("free agency transaction submitted")
	return txn, nil
}

// ApproveTransaction moves a pending transaction to approved.
func (a *App) ApproveTransaction(ctx context.Context, id uuid.UUID) (*models.FreeAgencyTransaction, error) {
	return a.transition(ctx, id, []models.TransactionStatus{models.TransactionStatusPending}, models.TransactionStatusApproved, "")
}

// RejectTransaction closes a pending or approved transaction without applying it.
func (a *App) RejectTransaction(ctx context.Context, id uuid.UUID, notes string) (*models.FreeAgencyTransaction, error) {
	return a.transition(ctx, id, []models.TransactionStatus{models.TransactionStatusPending, models.TransactionStatusApproved}, models.TransactionStatusRejected, notes)
}

func (a *App) transition(ctx context.Context, id uuid.UUID, from []models.TransactionStatus, to models.TransactionStatus, notes string) (*models.FreeAgencyTransaction, error) {
	txn, err := a.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}

	var updated *models.FreeAgencyTransaction
	err = a.store.WithLedgerTransaction(ctx, txn.SeasonID, func(tx store.Tx) error {
		ok, err := tx.TransitionTransaction(ctx, id, from, to, nil, notes)
		if err != nil {
			return fmt.Errorf("failed to update transaction: %w", err)
		}
		if !ok {
			return drafterr.New(drafterr.CodeTransactionNotPending, "transaction %s can no longer move to %s", id, to)
		}
		updated, err = tx.GetTransaction(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to reload transaction: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("transaction_id", id.String()).
		Str("status", string(to)).
		Msg("free agency transaction updated")
	return updated, nil
}

// GetTransaction retrieves a transaction by ID
func (a *App) GetTransaction(ctx context.Context, id uuid.UUID) (*models.FreeAgencyTransaction, error) {
	txn, err := a.store.GetTransaction(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, drafterr.New(drafterr.CodeTransactionNotFound, "transaction %s not found", id)
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return txn, nil
}

// ProcessTransaction commits a pending or approved transaction.
func (a *App) ProcessTransaction(ctx context.Context, id uuid.UUID) (*CommitResult, error) {
	txn, err := a.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}

	var result *CommitResult
	err = a.store.WithLedgerTransaction(ctx, txn.SeasonID, func(tx store.Tx) error {
		current, err := tx.GetTransaction(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to lock transaction: %w", err)
		}
		if !current.Status.Processable() {
			return drafterr.New(drafterr.CodeTransactionNotPending, "transaction %s is %s", id, current.Status)
		}
		result, err = a.commit(ctx, tx, commitInput{
			seasonID: current.SeasonID,
			teamID:   current.TeamID,
			drop:     current.DropCandidateID,
			add:      current.AddCandidateID,
			notes:    current.Notes,
			existing: current,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Commit validates and applies a drop/add immediately.
func (a *App) Commit(ctx context.Context, req CommitRequest) (*CommitResult, error) {
	if err := validateCommitRequest(req); err != nil {
		return nil, err
	}

	var result *CommitResult
	err := a.store.WithLedgerTransaction(ctx, req.SeasonID, func(tx store.Tx) error {
		var err error
		result, err = a.commit(ctx, tx, commitInput{
			seasonID:  req.SeasonID,
			teamID:    req.TeamID,
			drop:      req.DropCandidateID,
			add:       req.AddCandidateID,
			notes:     req.Notes,
			createdBy: req.CreatedBy,
		})
		return err
	})
	if err != nil {
		log.Debug().
			Err(err).
			Str("team_id", req.TeamID.String()).
			Str("season_id", req.SeasonID.String()).
			Msg("free agency commit rejected")
		return nil, err
	}
	return result, nil
}

func (a *App) commit(ctx context.Context, tx store.Tx, in commitInput) (*CommitResult, error) {
	// the ledger row is read first so that it is the first lock taken
	before, err := teamLedger(ctx, tx, in.teamID, in.seasonID)
	if err != nil {
		return nil, err
	}
	owned, err := tx.ListOwnedCandidates(ctx, in.seasonID, in.teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list roster: %w", err)
	}

	registry := ownership.New(tx)

	var dropped *models.Candidate
	dropPoints := 0
	if in.drop != nil {
		dropped, err = registry.RequireOwnedBy(ctx, in.seasonID, *in.drop, in.teamID)
		if err != nil {
			return nil, dropError(err, *in.drop)
		}
		if dropped.PointValue != nil {
			dropPoints = *dropped.PointValue
		}
	}

	var added *models.Candidate
	addPoints := 0
	if in.add != nil {
		added, err = registry.RequireAvailable(ctx, in.seasonID, *in.add)
		if err != nil {
			return nil, addError(err, *in.add)
		}
		addPoints = *added.PointValue
	}

	newSpent := ledger.NextSpent(before.SpentPoints, addPoints, dropPoints)
	if newSpent > before.TotalPoints {
		return nil, drafterr.New(drafterr.CodeBudgetExceeded,
			"transaction needs %d points, %d available", addPoints, before.TotalPoints-before.SpentPoints+dropPoints)
	}

	newSlots := len(owned)
	if in.drop != nil {
		newSlots--
	}
	if in.add != nil {
		newSlots++
	}
	if newSlots < a.rules.Roster.MinSlots || newSlots > a.rules.Roster.MaxSlots {
		return nil, drafterr.New(drafterr.CodeRosterFull,
			"roster would have %d slots, allowed %d to %d", newSlots, a.rules.Roster.MinSlots, a.rules.Roster.MaxSlots)
	}

	if err := a.checkTransactionLimit(ctx, tx, in.seasonID, in.teamID); err != nil {
		return nil, err
	}

	now := a.clock.Now()
	result := &CommitResult{}

	if dropped != nil {
		if result.DroppedPickID, err = acquisitionPick(ctx, tx, in.seasonID, in.teamID, dropped.ID); err != nil {
			return nil, err
		}
		if err := registry.Release(ctx, in.seasonID, dropped.ID, in.teamID); err != nil {
			return nil, dropError(err, dropped.ID)
		}
	}
	if added != nil {
		if err := registry.Claim(ctx, in.seasonID, added.ID, in.teamID); err != nil {
			return nil, addError(err, added.ID)
		}
		pick := &models.DraftPick{
			ID:              uuid.New(),
			SeasonID:        in.seasonID,
			TeamID:          in.teamID,
			CandidateID:     added.ID,
			CandidateName:   added.Name,
			Round:           models.FreeAgencyRound,
			PointsCharged:   addPoints,
			AcquisitionType: models.AcquisitionTypeFreeAgent,
			PickedAt:        now,
		}
		if err := tx.InsertPick(ctx, pick); err != nil {
			return nil, fmt.Errorf("failed to record acquisition: %w", err)
		}
		result.AddedPickID = &pick.ID
	}

	after, err := ledger.New(tx).Apply(ctx, in.teamID, in.seasonID, addPoints, dropPoints)
	if err != nil {
		return nil, err
	}

	txnID, err := a.recordTransaction(ctx, tx, in, before, len(owned), addPoints, dropPoints, now)
	if err != nil {
		return nil, err
	}
	result.TransactionID = txnID

	audit := &models.TransactionAudit{
		ID:            uuid.New(),
		TransactionID: txnID,
		TeamID:        in.teamID,
		SeasonID:      in.seasonID,
		Before:        snapshot(before, owned, nil, nil),
		After:         snapshot(after, owned, dropped, added),
		Notes:         in.notes,
		CreatedAt:     now,
	}
	if err := tx.InsertAudit(ctx, audit); err != nil {
		return nil, fmt.Errorf("failed to insert audit: %w", err)
	}

	result.Budget = models.NewTeamBudget(after, newSlots, a.rules.Roster.MaxSlots)

	payload := events.TransactionProcessedPayload{
		TransactionID:   txnID.String(),
		TeamID:          in.teamID.String(),
		Type:            string(in.transactionType()),
		PointsUsed:      after.SpentPoints,
		BudgetRemaining: after.RemainingPoints(),
		ProcessedAt:     now,
	}
	if in.add != nil {
		payload.AddCandidateID = in.add.String()
	}
	if in.drop != nil {
		payload.DropCandidateID = in.drop.String()
	}
	if err := outbox.InsertEvent(ctx, tx, events.TypeTransactionProcessed, txnID, in.seasonID, payload, now, "Team-ID", in.teamID.String()); err != nil {
		return nil, err
	}

	log.Info().
		Str("transaction_id", txnID.String()).
		Str("team_id", in.teamID.String()).
		Int("points_used", after.SpentPoints).
		Int("slots_used", newSlots).
		Msg("free agency transaction processed")
	return result, nil
}

// recordTransaction marks a queued transaction processed, or inserts the
// processed record of a direct commit.
func (a *App) recordTransaction(ctx context.Context, tx store.Tx, in commitInput, before *models.BudgetLedger, rosterSize, addPoints, dropPoints int, now time.Time) (uuid.UUID, error) {
	if in.existing != nil {
		ok, err := tx.TransitionTransaction(ctx, in.existing.ID,
			[]models.TransactionStatus{models.TransactionStatusPending, models.TransactionStatusApproved},
			models.TransactionStatusProcessed, &now, "")
		if err != nil {
			return uuid.Nil, fmt.Errorf("failed to update transaction: %w", err)
		}
		if !ok {
			return uuid.Nil, drafterr.New(drafterr.CodeTransactionNotPending, "transaction %s is no longer pending", in.existing.ID)
		}
		return in.existing.ID, nil
	}

	txn := &models.FreeAgencyTransaction{
		ID:               uuid.New(),
		TeamID:           in.teamID,
		SeasonID:         in.seasonID,
		Type:             in.transactionType(),
		AddCandidateID:   in.add,
		DropCandidateID:  in.drop,
		AddedPoints:      addPoints,
		DroppedPoints:    dropPoints,
		Status:           models.TransactionStatusProcessed,
		Notes:            in.notes,
		RosterSizeBefore: rosterSize,
		SpentBefore:      before.SpentPoints,
		CreatedBy:        in.createdBy,
		CreatedAt:        now,
		ProcessedAt:      &now,
	}
	if err := tx.InsertTransaction(ctx, txn); err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert transaction: %w", err)
	}
	return txn.ID, nil
}

// ListTransactions returns transactions newest first
func (a *App) ListTransactions(ctx context.Context, filter store.TransactionFilter) ([]models.FreeAgencyTransaction, error) {
	if filter.Status != nil {
		switch *filter.Status {
		case models.TransactionStatusPending, models.TransactionStatusApproved,
			models.TransactionStatusRejected, models.TransactionStatusProcessed:
		default:
			return nil, drafterr.New(drafterr.CodeInvalidArgument, "unknown transaction status: %s", *filter.Status)
		}
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	if filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}

	txns, err := a.store.ListTransactions(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txns, nil
}

// GetTeamStatus returns a team's roster, budget and remaining moves
func (a *App) GetTeamStatus(ctx context.Context, teamID, seasonID uuid.UUID) (*TeamStatus, error) {
	row, err := teamLedger(ctx, a.store, teamID, seasonID)
	if err != nil {
		return nil, err
	}
	owned, err := a.store.ListOwnedCandidates(ctx, seasonID, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list roster: %w", err)
	}
	count, err := a.store.CountTransactions(ctx, seasonID, teamID, models.TransactionStatusProcessed)
	if err != nil {
		return nil, fmt.Errorf("failed to count transactions: %w", err)
	}

	remaining := a.rules.FreeAgency.TransactionLimit - count
	if remaining < 0 {
		remaining = 0
	}
	return &TeamStatus{
		Roster:                models.RosterFromCandidates(owned),
		Budget:                models.NewTeamBudget(row, len(owned), a.rules.Roster.MaxSlots),
		TransactionCount:      count,
		RemainingTransactions: remaining,
	}, nil
}

func (a *App) checkTransactionLimit(ctx context.Context, r store.Reader, seasonID, teamID uuid.UUID) error {
	limit := a.rules.FreeAgency.TransactionLimit
	if limit <= 0 {
		return nil
	}
	count, err := r.CountTransactions(ctx, seasonID, teamID, models.TransactionStatusProcessed)
	if err != nil {
		return fmt.Errorf("failed to count transactions: %w", err)
	}
	if count >= limit {
		return drafterr.New(drafterr.CodeTransactionLimitReached, "team has used %d of %d transactions", count, limit)
	}
	return nil
}

// teamLedger loads the team's ledger. A team without one is not part of the season.
func teamLedger(ctx context.Context, r store.Reader, teamID, seasonID uuid.UUID) (*models.BudgetLedger, error) {
	row, err := r.GetLedger(ctx, teamID, seasonID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, drafterr.New(drafterr.CodeTeamNotInSeason, "team %s is not in season %s", teamID, seasonID)
		}
		return nil, fmt.Errorf("failed to get ledger: %w", err)
	}
	return row, nil
}

func currentPoints(ctx context.Context, r store.Reader, seasonID, candidateID uuid.UUID) (int, error) {
	c, err := r.GetCandidate(ctx, seasonID, candidateID)
	if err != nil {
		return 0, err
	}
	if c.PointValue == nil {
		return 0, nil
	}
	return *c.PointValue, nil
}

// acquisitionPick finds the most recent pick through which team acquired candidate.
func acquisitionPick(ctx context.Context, r store.Reader, seasonID, teamID, candidateID uuid.UUID) (*uuid.UUID, error) {
	picks, err := r.ListPicksByTeam(ctx, seasonID, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list picks: %w", err)
	}
	var found *uuid.UUID
	for i := range picks {
		if picks[i].CandidateID == candidateID {
			id := picks[i].ID
			found = &id
		}
	}
	return found, nil
}

func snapshot(l *models.BudgetLedger, owned []models.Candidate, dropped, added *models.Candidate) models.BudgetSnapshot {
	ids := make([]uuid.UUID, 0, len(owned)+1)
	for _, c := range owned {
		if dropped != nil && c.ID == dropped.ID {
			continue
		}
		ids = append(ids, c.ID)
	}
	if added != nil {
		ids = append(ids, added.ID)
	}
	return models.BudgetSnapshot{
		SpentPoints:       l.SpentPoints,
		TotalPoints:       l.TotalPoints,
		RosterSize:        len(ids),
		OwnedCandidateIDs: ids,
	}
}

func dropError(err error, id uuid.UUID) error {
	if errors.Is(err, ownership.ErrNotOwned) || errors.Is(err, ownership.ErrNotInPool) {
		return drafterr.New(drafterr.CodeDropNotOwned, "candidate %s is not on the roster", id)
	}
	return err
}

func addError(err error, id uuid.UUID) error {
	switch {
	case errors.Is(err, ownership.ErrNotInPool):
		return drafterr.New(drafterr.CodeAddNotInPool, "candidate %s is not in the pool", id)
	case errors.Is(err, ownership.ErrOwned), errors.Is(err, ownership.ErrBanned), errors.Is(err, ownership.ErrClaimLost):
		return drafterr.New(drafterr.CodeAddNotAvailable, "candidate %s is not available", id)
	case errors.Is(err, ownership.ErrUnpriced):
		return drafterr.New(drafterr.CodeAddPointsMissing, "candidate %s has no point value", id)
	}
	return err
}

func validateSubmitRequest(req SubmitRequest) error {
	if req.TeamID == uuid.Nil || req.SeasonID == uuid.Nil {
		return drafterr.New(drafterr.CodeInvalidArgument, "team_id and season_id are required")
	}
	hasAdd, hasDrop := req.AddCandidateID != nil, req.DropCandidateID != nil
	switch req.Type {
	case models.TransactionTypeAddition:
		if !hasAdd || hasDrop {
			return drafterr.New(drafterr.CodeInvalidTransaction, "addition takes add_candidate_id only")
		}
	case models.TransactionTypeDropOnly:
		if hasAdd || !hasDrop {
			return drafterr.New(drafterr.CodeInvalidTransaction, "drop_only takes drop_candidate_id only")
		}
	case models.TransactionTypeReplacement:
		if !hasAdd || !hasDrop {
			return drafterr.New(drafterr.CodeInvalidTransaction, "replacement takes both add_candidate_id and drop_candidate_id")
		}
		if *req.AddCandidateID == *req.DropCandidateID {
			return drafterr.New(drafterr.CodeInvalidTransaction, "cannot add and drop the same candidate")
		}
	default:
		return drafterr.New(drafterr.CodeInvalidTransaction, "unknown transaction type: %s", req.Type)
	}
	return nil
}

func validateCommitRequest(req CommitRequest) error {
	if req.TeamID == uuid.Nil || req.SeasonID == uuid.Nil {
		return drafterr.New(drafterr.CodeInvalidArgument, "team_id and season_id are required")
	}
	if req.AddCandidateID == nil && req.DropCandidateID == nil {
		return drafterr.New(drafterr.CodeInvalidTransaction, "a transaction needs an add, a drop, or both")
	}
	if req.AddCandidateID != nil && req.DropCandidateID != nil && *req.AddCandidateID == *req.DropCandidateID {
		return drafterr.New(drafterr.CodeInvalidTransaction, "cannot add and drop the same candidate")
	}
	return nil
}
