// Package ledger enforces the per-team points budget: 0 <= spent <= total.
// A Ledger wraps the repository of the unit of work it is called from, so
// its writes commit or roll back together with the ownership change.
package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mcdev12/draftleague/go/internal/drafterr"
	"github.com/mcdev12/draftleague/go/internal/models"
	"github.com/mcdev12/draftleague/go/internal/store"
	"github.com/rs/zerolog/log"
)

// Repository is what the ledger needs from a unit of work.
type Repository interface {
	GetLedger(ctx context.Context, teamID, seasonID uuid.UUID) (*models.BudgetLedger, error)
	EnsureLedger(ctx context.Context, teamID, seasonID uuid.UUID, totalPoints int) (*models.BudgetLedger, error)
	ApplySpendDelta(ctx context.Context, teamID, seasonID uuid.UUID, delta int) (*models.BudgetLedger, bool, error)
}

// Ledger applies budget rules over a Repository.
type Ledger struct {
	repo Repository
}

// New creates a Ledger bound to repo.
func New(repo Repository) *Ledger {
	return &Ledger{repo: repo}
}

// Initialize creates a zero-spend row for every team that has none. Existing
// rows are left untouched, including their spent points.
func (l *Ledger) Initialize(ctx context.Context, seasonID uuid.UUID, teams []uuid.UUID, totalPoints int) error {
	if totalPoints <= 0 {
		return drafterr.New(drafterr.CodeInvalidArgument, "total points must be positive, got %d", totalPoints)
	}
	for _, team := range teams {
		if _, err := l.repo.EnsureLedger(ctx, team, seasonID, totalPoints); err != nil {
			return fmt.Errorf("failed to initialize ledger for team %s: %w", team, err)
		}
	}
	return nil
}

// Get returns the team's ledger row.
func (l *Ledger) Get(ctx context.Context, teamID, seasonID uuid.UUID) (*models.BudgetLedger, error) {
	row, err := l.repo.GetLedger(ctx, teamID, seasonID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, drafterr.New(drafterr.CodeLedgerNotFound, "no budget for team %s in season %s", teamID, seasonID)
		}
		return nil, fmt.Errorf("failed to get ledger: %w", err)
	}
	return row, nil
}

// Debit charges amount against the team's remaining points.
func (l *Ledger) Debit(ctx context.Context, teamID, seasonID uuid.UUID, amount int) (*models.BudgetLedger, error) {
	return l.Apply(ctx, teamID, seasonID, amount, 0)
}

// Credit refunds amount. A refund larger than what was spent clamps spent
// points at zero and is logged as a bookkeeping violation.
func (l *Ledger) Credit(ctx context.Context, teamID, seasonID uuid.UUID, amount int) (*models.BudgetLedger, error) {
	return l.Apply(ctx, teamID, seasonID, 0, amount)
}

// Apply writes spent + debit - credit as a single update. The debit side must
// fit in the remaining budget after the credit is applied.
func (l *Ledger) Apply(ctx context.Context, teamID, seasonID uuid.UUID, debit, credit int) (*models.BudgetLedger, error) {
	if debit < 0 || credit < 0 {
		return nil, drafterr.New(drafterr.CodeInvalidArgument, "debit and credit must be non-negative")
	}

	current, err := l.Get(ctx, teamID, seasonID)
	if err != nil {
		return nil, err
	}

	if current.SpentPoints+debit-credit < 0 {
		log.Warn().
			Str("team_id", teamID.String()).
			Str("season_id", seasonID.String()).
			Int("spent_points", current.SpentPoints).
			Int("credit", credit).
			Bool("bookkeeping_violation", true).
			Msg("credit exceeds spent points, clamping to zero")
	}

	next := NextSpent(current.SpentPoints, debit, credit)
	if next > current.TotalPoints {
		return nil, budgetExceeded(current, debit, credit)
	}

	delta := next - current.SpentPoints

	if delta == 0 {
		return current, nil
	}

	updated, ok, err := l.repo.ApplySpendDelta(ctx, teamID, seasonID, delta)
	if err != nil {
		return nil, fmt.Errorf("failed to update spent points: %w", err)
	}
	if !ok {
		return nil, budgetExceeded(updated, debit, credit)
	}
	return updated, nil
}

// NextSpent returns spent + debit - credit, clamped at zero.
func NextSpent(spent, debit, credit int) int {
	if next := spent + debit - credit; next > 0 {
		return next
	}
	return 0
}

func budgetExceeded(row *models.BudgetLedger, debit, credit int) error {
	if row == nil {
		return drafterr.New(drafterr.CodeBudgetExceeded, "insufficient budget for %d points", debit)
	}
	return drafterr.New(drafterr.CodeBudgetExceeded,
		"need %d points, have %d remaining", debit, row.RemainingPoints()+credit)
}
