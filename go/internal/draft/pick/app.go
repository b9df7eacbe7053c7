package pick

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/draftleague/go/internal/draft/events"
	"github.com/mcdev12/draftleague/go/internal/draft/outbox"
	"github.com/mcdev12/draftleague/go/internal/draft/session"
	"github.com/mcdev12/draftleague/go/internal/draft/turnorder"
	"github.com/mcdev12/draftleague/go/internal/drafterr"
	"github.com/mcdev12/draftleague/go/internal/ledger"
	"github.com/mcdev12/draftleague/go/internal/models"
	"github.com/mcdev12/draftleague/go/internal/ownership"
	"github.com/mcdev12/draftleague/go/internal/rules"
	"github.com/mcdev12/draftleague/go/internal/store"
	"github.com/rs/zerolog/log"
)

// App handles pick business logic
type App struct {
	store store.Store
	clock clockwork.Clock
	rules rules.Rules
}

// NewApp creates a new pick App
func NewApp(st store.Store, clock clockwork.Clock, r rules.Rules) *App {
	return &App{
		store: st,
		clock: clock,
		rules: r,
	}
}

// MakePick allocates a candidate to the team on the clock, charges its point
// value and advances the session, all in one unit of work. A rejected pick
// leaves the session, ledger and pool untouched.
func (a *App) MakePick(ctx context.Context, req MakePickRequest) (*MakePickResult, error) {
	if err := a.validateMakePickRequest(req); err != nil {
		return nil, err
	}

	sess, err := a.store.GetSession(ctx, req.SessionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, drafterr.New(drafterr.CodeSessionNotFound, "session %s not found", req.SessionID)
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var result *MakePickResult
	err = a.store.WithLedgerTransaction(ctx, sess.SeasonID, func(tx store.Tx) error {
		var err error
		result, err = a.makePick(ctx, tx, req)
		return err
	})
	if err != nil {
		log.Debug().
			Err(err).
			Str("session_id", req.SessionID.String()).
			Str("team_id", req.TeamID.String()).
			Msg("pick rejected")
		return nil, err
	}

	log.Info().
		Str("session_id", req.SessionID.String()).
		Str("team_id", req.TeamID.String()).
		Str("candidate", result.Pick.CandidateName).
		Int("pick_number", result.Pick.PickNumber).
		Int("points", result.Pick.PointsCharged).
		Int("budget_remaining", result.Budget.BudgetRemaining).
		Msg("pick made")
	return result, nil
}

func (a *App) makePick(ctx context.Context, tx store.Tx, req MakePickRequest) (*MakePickResult, error) {
	sess, err := tx.GetSession(ctx, req.SessionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, drafterr.New(drafterr.CodeSessionNotFound, "session %s not found", req.SessionID)
		}
		return nil, fmt.Errorf("failed to lock session: %w", err)
	}
	if sess.Status != models.SessionStatusActive {
		return nil, drafterr.New(drafterr.CodeSessionNotActive, "session %s is %s", sess.ID, sess.Status)
	}

	now := a.clock.Now()
	if err := a.checkDraftWindow(sess, now); err != nil {
		return nil, err
	}

	turn, err := turnorder.Current(sess)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve current turn: %w", err)
	}
	if turn.TeamID != req.TeamID {
		return nil, drafterr.New(drafterr.CodeNotYourTurn, "pick %d belongs to team %s", turn.PickNumber, turn.TeamID)
	}

	registry := ownership.New(tx)
	candidateID, err := a.resolveCandidate(ctx, tx, sess.SeasonID, req)
	if err != nil {
		return nil, err
	}
	candidate, err := registry.RequireAvailable(ctx, sess.SeasonID, candidateID)
	if err != nil {
		return nil, candidateError(err, candidate)
	}
	cost := *candidate.PointValue

	budget := ledger.New(tx)
	current, err := budget.Get(ctx, req.TeamID, sess.SeasonID)
	if err != nil {
		return nil, err
	}
	if current.RemainingPoints() < cost {
		return nil, drafterr.New(drafterr.CodeBudgetExceeded,
			"%s costs %d points, %d remaining", candidate.Name, cost, current.RemainingPoints())
	}

	owned, err := tx.ListOwnedCandidates(ctx, sess.SeasonID, req.TeamID)
	if err != nil {
		return nil, fmt.Errorf("failed to load roster: %w", err)
	}

	if err := registry.Claim(ctx, sess.SeasonID, candidate.ID, req.TeamID); err != nil {
		return nil, candidateError(err, candidate)
	}

	sessionID := sess.ID
	pick := &models.DraftPick{
		ID:              uuid.New(),
		SessionID:       &sessionID,
		SeasonID:        sess.SeasonID,
		TeamID:          req.TeamID,
		CandidateID:     candidate.ID,
		CandidateName:   candidate.Name,
		Round:           turn.Round,
		PickNumber:      turn.PickNumber,
		PointsCharged:   cost,
		AcquisitionType: models.AcquisitionTypeDraft,
		PickedAt:        now,
	}
	if err := tx.InsertPick(ctx, pick); err != nil {
		return nil, fmt.Errorf("failed to record pick: %w", err)
	}

	updatedLedger, err := budget.Debit(ctx, req.TeamID, sess.SeasonID, cost)
	if err != nil {
		return nil, err
	}

	updatedSession, next, err := a.advance(ctx, tx, sess, now)
	if err != nil {
		return nil, err
	}

	payload := events.PickMadePayload{
		PickID:          pick.ID.String(),
		SessionID:       sess.ID.String(),
		TeamID:          req.TeamID.String(),
		CandidateID:     candidate.ID.String(),
		CandidateName:   candidate.Name,
		Round:           pick.Round,
		PickNumber:      pick.PickNumber,
		PointsCharged:   cost,
		BudgetRemaining: updatedLedger.RemainingPoints(),
		MadeAt:          now,
	}
	if next != nil {
		payload.NextTeamID = next.TeamID.String()
	}
	if err := outbox.InsertEvent(ctx, tx, events.TypePickMade, sess.ID, sess.SeasonID, payload, now, "Team-ID", req.TeamID.String()); err != nil {
		return nil, err
	}
	if updatedSession.Status == models.SessionStatusCompleted {
		if err := session.EmitDraftCompleted(ctx, tx, updatedSession, now); err != nil {
			return nil, err
		}
	}

	return &MakePickResult{
		Pick:    pick,
		Budget:  models.NewTeamBudget(updatedLedger, len(owned)+1, a.rules.Roster.MaxSlots),
		Session: updatedSession,
	}, nil
}

// advance moves the session to the following pick, completing it after the
// last one. It returns the next turn, or nil when the draft is over.
func (a *App) advance(ctx context.Context, tx store.Tx, sess *models.DraftSession, now time.Time) (*models.DraftSession, *turnorder.Turn, error) {
	next, hasNext, err := turnorder.Next(sess)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve next turn: %w", err)
	}

	adv := models.SessionAdvance{
		CurrentRound:      sess.CurrentRound,
		CurrentPickNumber: sess.CurrentPickNumber + 1,
		CurrentTeamID:     sess.CurrentTeamID,
		UpdatedAt:         now,
	}
	if hasNext {
		adv.CurrentRound = next.Round
		adv.CurrentTeamID = next.TeamID
	}

	ok, err := tx.AdvanceSession(ctx, sess.ID, sess.CurrentPickNumber, adv)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to advance session: %w", err)
	}
	if !ok {
		return nil, nil, drafterr.New(drafterr.CodeNotYourTurn, "pick %d was already made", sess.CurrentPickNumber)
	}

	if !hasNext {
		ok, err := tx.TransitionSession(ctx, sess.ID, models.SessionStatusActive, models.SessionStatusCompleted, now)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to complete session: %w", err)
		}
		if !ok {
			return nil, nil, drafterr.New(drafterr.CodeSessionNotActive, "session %s is no longer active", sess.ID)
		}
	}

	updated, err := tx.GetSession(ctx, sess.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to reload session: %w", err)
	}
	if !hasNext {
		return updated, nil, nil
	}
	return updated, &next, nil
}

func (a *App) checkDraftWindow(sess *models.DraftSession, now time.Time) error {
	if sess.DraftWindow == nil {
		if a.rules.Draft.RequireDraftWindow {
			return drafterr.New(drafterr.CodeDraftWindowNotConfigured, "session %s has no draft window", sess.ID)
		}
		return nil
	}
	if !sess.DraftWindow.Contains(now) {
		return drafterr.New(drafterr.CodeDraftWindowClosed, "picks are accepted between %s and %s",
			sess.DraftWindow.OpensAt.Format(time.RFC3339), sess.DraftWindow.ClosesAt.Format(time.RFC3339))
	}
	return nil
}

func (a *App) resolveCandidate(ctx context.Context, tx store.Tx, seasonID uuid.UUID, req MakePickRequest) (uuid.UUID, error) {
	if req.CandidateID != nil {
		return *req.CandidateID, nil
	}
	c, err := tx.FindCandidateByName(ctx, seasonID, strings.TrimSpace(req.CandidateName))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return uuid.Nil, drafterr.New(drafterr.CodePokemonNotInPool, "%q is not in the draft pool", req.CandidateName)
		}
		return uuid.Nil, fmt.Errorf("failed to find candidate: %w", err)
	}
	return c.ID, nil
}

func candidateError(err error, c *models.Candidate) error {
	name := "candidate"
	if c != nil {
		name = c.Name
	}
	switch {
	case errors.Is(err, ownership.ErrNotInPool), errors.Is(err, ownership.ErrBanned):
		return drafterr.New(drafterr.CodePokemonNotInPool, "%s is not in the draft pool", name)
	case errors.Is(err, ownership.ErrOwned), errors.Is(err, ownership.ErrClaimLost):
		return drafterr.New(drafterr.CodePokemonAlreadyOwned, "%s is already owned", name)
	case errors.Is(err, ownership.ErrUnpriced):
		return drafterr.New(drafterr.CodePokemonPointsMissing, "%s has no point value", name)
	}
	return err
}

// ListPicks returns a session's picks in pick order
func (a *App) ListPicks(ctx context.Context, sessionID uuid.UUID) ([]models.DraftPick, error) {
	picks, err := a.store.ListPicksBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list picks: %w", err)
	}
	return picks, nil
}

// ListAvailableCandidates returns unowned, priced candidates ordered by point value then name
func (a *App) ListAvailableCandidates(ctx context.Context, seasonID uuid.UUID, filter store.CandidateFilter) ([]models.Candidate, error) {
	if seasonID == uuid.Nil {
		return nil, drafterr.New(drafterr.CodeInvalidArgument, "season_id is required")
	}
	if filter.MinPoints != nil && filter.MaxPoints != nil && *filter.MinPoints > *filter.MaxPoints {
		return nil, drafterr.New(drafterr.CodeInvalidArgument, "min_points cannot exceed max_points")
	}
	candidates, err := a.store.ListAvailableCandidates(ctx, seasonID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list available candidates: %w", err)
	}
	return candidates, nil
}

// GetTeamStatus returns a team's budget, roster and picks for a season
func (a *App) GetTeamStatus(ctx context.Context, teamID, seasonID uuid.UUID) (*TeamStatus, error) {
	row, err := a.store.GetLedger(ctx, teamID, seasonID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, drafterr.New(drafterr.CodeLedgerNotFound, "no budget for team %s in season %s", teamID, seasonID)
		}
		return nil, fmt.Errorf("failed to get ledger: %w", err)
	}
	owned, err := a.store.ListOwnedCandidates(ctx, seasonID, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list roster: %w", err)
	}
	picks, err := a.store.ListPicksByTeam(ctx, seasonID, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list picks: %w", err)
	}
	return &TeamStatus{
		Budget: models.NewTeamBudget(row, len(owned), a.rules.Roster.MaxSlots),
		Roster: models.RosterFromCandidates(owned),
		Picks:  picks,
	}, nil
}

// validateMakePickRequest validates a make pick request
func (a *App) validateMakePickRequest(req MakePickRequest) error {
	if req.SessionID == uuid.Nil {
		return drafterr.New(drafterr.CodeInvalidArgument, "session_id is required")
	}
	if req.TeamID == uuid.Nil {
		return drafterr.New(drafterr.CodeInvalidArgument, "team_id is required")
	}
	if req.CandidateID == nil && strings.TrimSpace(req.CandidateName) == "" {
		return drafterr.New(drafterr.CodeInvalidArgument, "candidate_id or candidate_name is required")
	}
	return nil
}
