package session

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/draftleague/go/internal/draft/events"
	"github.com/mcdev12/draftleague/go/internal/draft/outbox"
	"github.com/mcdev12/draftleague/go/internal/draft/turnorder"
	"github.com/mcdev12/draftleague/go/internal/drafterr"
	"github.com/mcdev12/draftleague/go/internal/ledger"
	"github.com/mcdev12/draftleague/go/internal/models"
	"github.com/mcdev12/draftleague/go/internal/rules"
	"github.com/mcdev12/draftleague/go/internal/store"
	"github.com/rs/zerolog/log"
)

// App handles draft session lifecycle
type App struct {
	store   store.Store
	clock   clockwork.Clock
	rules   rules.Rules
	shuffle func(n int, swap func(i, j int))
}

// NewApp creates a new session App
func NewApp(st store.Store, clock clockwork.Clock, r rules.Rules) *App {
	return &App{
		store:   st,
		clock:   clock,
		rules:   r,
		shuffle: rand.Shuffle,
	}
}

// CreateSession starts a draft for a season, or returns the season's active
// session unchanged if one already exists.
func (a *App) CreateSession(ctx context.Context, req CreateSessionRequest) (*CreateSessionResult, error) {
	if err := a.validateCreateSessionRequest(req); err != nil {
		return nil, err
	}

	var result *CreateSessionResult
	err := a.store.WithLedgerTransaction(ctx, req.SeasonID, func(tx store.Tx) error {
		existing, err := tx.GetActiveSession(ctx, req.SeasonID)
		if err == nil {
			result = &CreateSessionResult{Session: existing, Created: false}
			return nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("failed to check active session: %w", err)
		}

		sess, err := a.newSession(req)
		if err != nil {
			return err
		}
		if err := tx.InsertSession(ctx, sess); err != nil {
			return err
		}

		total := a.rules.Draft.TotalPoints
		if req.TotalPoints != nil {
			total = *req.TotalPoints
		}
		if err := ledger.New(tx).Initialize(ctx, req.SeasonID, sess.TurnOrder, total); err != nil {
			return err
		}

		if err := a.emitSessionCreated(ctx, tx, sess); err != nil {
			return err
		}

		result = &CreateSessionResult{Session: sess, Created: true}
		return nil
	})
	if errors.Is(err, store.ErrActiveSessionExists) {
		// another writer created the session between our check and insert
		existing, gerr := a.store.GetActiveSession(ctx, req.SeasonID)
		if gerr != nil {
			return nil, fmt.Errorf("failed to load concurrently created session: %w", gerr)
		}
		return &CreateSessionResult{Session: existing, Created: false}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	if result.Created {
		log.Info().
			Str("session_id", result.Session.ID.String()).
			Str("season_id", req.SeasonID.String()).
			Int("teams", len(result.Session.TurnOrder)).
			Int("rounds", result.Session.TotalRounds).
			Bool("order_shuffled", result.Session.OrderShuffled).
			Msg("draft session created")
	}
	return result, nil
}

// GetSession retrieves a session by ID
func (a *App) GetSession(ctx context.Context, id uuid.UUID) (*models.DraftSession, error) {
	sess, err := a.store.GetSession(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, drafterr.New(drafterr.CodeSessionNotFound, "session %s not found", id)
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return sess, nil
}

// GetActiveSession returns the season's active session
func (a *App) GetActiveSession(ctx context.Context, seasonID uuid.UUID) (*models.DraftSession, error) {
	sess, err := a.store.GetActiveSession(ctx, seasonID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, drafterr.New(drafterr.CodeSessionNotFound, "no active draft session for season %s", seasonID)
		}
		return nil, fmt.Errorf("failed to get active session: %w", err)
	}
	return sess, nil
}

// GetCurrentTurn re-derives the turn a session is waiting on.
func (a *App) GetCurrentTurn(sess *models.DraftSession) (turnorder.Turn, error) {
	return turnorder.Current(sess)
}

// GetStatus returns the season's active session with its current and next turn.
func (a *App) GetStatus(ctx context.Context, seasonID uuid.UUID) (*Status, error) {
	sess, err := a.GetActiveSession(ctx, seasonID)
	if err != nil {
		return nil, err
	}
	return statusOf(sess)
}

// CompleteSession ends an active session.
func (a *App) CompleteSession(ctx context.Context, id uuid.UUID) (*models.DraftSession, error) {
	return a.finish(ctx, id, models.SessionStatusCompleted, "")
}

// CancelSession aborts an active session. Picks already made stay in place.
func (a *App) CancelSession(ctx context.Context, id uuid.UUID, reason string) (*models.DraftSession, error) {
	return a.finish(ctx, id, models.SessionStatusCancelled, reason)
}

func (a *App) finish(ctx context.Context, id uuid.UUID, to models.SessionStatus, reason string) (*models.DraftSession, error) {
	sess, err := a.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}

	var updated *models.DraftSession
	err = a.store.WithLedgerTransaction(ctx, sess.SeasonID, func(tx store.Tx) error {
		now := a.clock.Now()
		ok, err := tx.TransitionSession(ctx, id, models.SessionStatusActive, to, now)
		if err != nil {
			return fmt.Errorf("failed to update session status: %w", err)
		}
		if !ok {
			return drafterr.New(drafterr.CodeSessionNotActive, "session %s is not active", id)
		}

		updated, err = tx.GetSession(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to reload session: %w", err)
		}

		switch to {
		case models.SessionStatusCompleted:
			return EmitDraftCompleted(ctx, tx, updated, now)
		case models.SessionStatusCancelled:
			return a.emitDraftCancelled(ctx, tx, updated, now, reason)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("session_id", id.String()).
		Str("status", string(to)).
		Str("reason", reason).
		Msg("draft session finished")
	return updated, nil
}

func (a *App) newSession(req CreateSessionRequest) (*models.DraftSession, error) {
	order := append([]uuid.UUID(nil), req.TeamIDs...)
	if a.rules.Draft.ShuffleTurnOrder {
		a.shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
	}

	draftType := req.DraftType
	if draftType == "" {
		draftType = a.rules.Draft.DraftType
	}
	rounds := a.rules.Draft.TotalRounds
	if req.TotalRounds != nil {
		rounds = *req.TotalRounds
	}
	pickLimit := a.rules.Draft.PickTimeLimitSec
	if req.PickTimeLimitSec != nil {
		pickLimit = *req.PickTimeLimitSec
	}

	now := a.clock.Now()
	sess := &models.DraftSession{
		ID:                uuid.New(),
		SeasonID:          req.SeasonID,
		Status:            models.SessionStatusActive,
		DraftType:         draftType,
		TurnOrder:         order,
		OrderShuffled:     a.rules.Draft.ShuffleTurnOrder,
		TotalRounds:       rounds,
		CurrentPickNumber: 1,
		PickTimeLimitSec:  pickLimit,
		AutoDraftEnabled:  req.AutoDraftEnabled,
		DraftWindow:       req.DraftWindow,
		StartedAt:         now,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	first, err := turnorder.Current(sess)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve first turn: %w", err)
	}
	sess.CurrentRound = first.Round
	sess.CurrentTeamID = first.TeamID
	return sess, nil
}

func (a *App) emitSessionCreated(ctx context.Context, tx store.Tx, sess *models.DraftSession) error {
	order := make([]string, len(sess.TurnOrder))
	for i, id := range sess.TurnOrder {
		order[i] = id.String()
	}
	return outbox.InsertEvent(ctx, tx, events.TypeSessionCreated, sess.ID, sess.SeasonID, events.SessionCreatedPayload{
		SessionID:   sess.ID.String(),
		SeasonID:    sess.SeasonID.String(),
		DraftType:   string(sess.DraftType),
		TurnOrder:   order,
		TotalRounds: sess.TotalRounds,
		TotalPicks:  sess.TotalPicks(),
		StartedAt:   sess.StartedAt,
	}, sess.CreatedAt)
}

func (a *App) emitDraftCancelled(ctx context.Context, tx store.Tx, sess *models.DraftSession, at time.Time, reason string) error {
	return outbox.InsertEvent(ctx, tx, events.TypeDraftCancelled, sess.ID, sess.SeasonID, events.DraftCancelledPayload{
		SessionID:   sess.ID.String(),
		CancelledAt: at,
		Reason:      reason,
	}, at)
}

// EmitDraftCompleted writes the DraftCompleted event for sess inside tx. The
// pick allocator calls it when the last pick completes the session.
func EmitDraftCompleted(ctx context.Context, tx store.Tx, sess *models.DraftSession, at time.Time) error {
	return outbox.InsertEvent(ctx, tx, events.TypeDraftCompleted, sess.ID, sess.SeasonID, events.DraftCompletedPayload{
		SessionID:   sess.ID.String(),
		CompletedAt: at,
		Duration:    at.Sub(sess.StartedAt).String(),
		TotalPicks:  sess.TotalPicks(),
	}, at)
}

func statusOf(sess *models.DraftSession) (*Status, error) {
	status := &Status{Session: sess}
	if sess.Status != models.SessionStatusActive {
		return status, nil
	}

	current, err := turnorder.Current(sess)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve current turn: %w", err)
	}
	status.CurrentTurn = &current

	next, ok, err := turnorder.Next(sess)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve next turn: %w", err)
	}
	if ok {
		status.NextTurn = &next
	}
	return status, nil
}

// validateCreateSessionRequest validates a create session request
func (a *App) validateCreateSessionRequest(req CreateSessionRequest) error {
	if req.SeasonID == uuid.Nil {
		return drafterr.New(drafterr.CodeInvalidArgument, "season_id is required")
	}
	if len(req.TeamIDs) < 2 {
		return drafterr.New(drafterr.CodeInvalidTeamCount, "need at least 2 teams, got %d", len(req.TeamIDs))
	}
	seen := make(map[uuid.UUID]struct{}, len(req.TeamIDs))
	for _, id := range req.TeamIDs {
		if id == uuid.Nil {
			return drafterr.New(drafterr.CodeInvalidArgument, "team ids cannot be empty")
		}
		if _, dup := seen[id]; dup {
			return drafterr.New(drafterr.CodeInvalidTeamCount, "team %s appears more than once", id)
		}
		seen[id] = struct{}{}
	}
	if req.DraftType != "" && !req.DraftType.Valid() {
		return drafterr.New(drafterr.CodeInvalidArgument, "unsupported draft type: %s", req.DraftType)
	}
	if req.TotalRounds != nil && *req.TotalRounds < 1 {
		return drafterr.New(drafterr.CodeInvalidArgument, "total_rounds must be at least 1")
	}
	if req.PickTimeLimitSec != nil && *req.PickTimeLimitSec < 0 {
		return drafterr.New(drafterr.CodeInvalidArgument, "pick_time_limit_sec cannot be negative")
	}
	if req.TotalPoints != nil && *req.TotalPoints < 1 {
		return drafterr.New(drafterr.CodeInvalidArgument, "total_points must be at least 1")
	}
	if w := req.DraftWindow; w != nil && !w.ClosesAt.After(w.OpensAt) {
		return drafterr.New(drafterr.CodeInvalidArgument, "draft window must close after it opens")
	}
	return nil
}
