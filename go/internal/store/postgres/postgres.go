// Package postgres implements the store port on Postgres through pgx. A unit
// of work is one READ COMMITTED transaction that first takes a per-season
// advisory lock; session, ledger and transaction rows it reads are locked
// FOR UPDATE and every state change is a conditional UPDATE.
package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mcdev12/draftleague/go/internal/models"
	"github.com/mcdev12/draftleague/go/internal/sqlutil"
	"github.com/mcdev12/draftleague/go/internal/store"
)

//go:embed schema.sql
var schema string

const (
	uniqueViolation     = "23505"
	activeSessionIndex  = "draft_sessions_one_active"
	sessionColumns      = `id, season_id, status, draft_type, turn_order, order_shuffled, total_rounds, current_round, current_pick_number, current_team_id, pick_time_limit_sec, auto_draft_enabled, window_opens_at, window_closes_at, started_at, completed_at, created_at, updated_at`
	candidateColumns    = `id, season_id, name, point_value, generation, status, owner_team_id`
	pickColumns         = `id, session_id, season_id, team_id, candidate_id, candidate_name, round, pick_number, points_charged, acquisition_type, picked_at`
	transactionColumns  = `id, team_id, season_id, transaction_type, add_candidate_id, drop_candidate_id, added_points, dropped_points, status, notes, roster_size_before, spent_before, created_by, created_at, processed_at`
	ledgerColumns       = `team_id, season_id, total_points, spent_points`
	seasonLockNamespace = 4242
)

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store is the Postgres backend.
type Store struct {
	reader
	pool *pgxpool.Pool
}

var _ store.Store = (*Store)(nil)

// New creates a Store over pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{
		reader: reader{q: pool},
		pool:   pool,
	}
}

// Migrate applies the embedded schema. It is idempotent.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// WithLedgerTransaction runs fn in one transaction scoped to seasonID.
func (s *Store) WithLedgerTransaction(ctx context.Context, seasonID uuid.UUID, fn func(tx store.Tx) error) error {
	opts := pgx.TxOptions{IsoLevel: pgx.ReadCommitted}
	newUnit := func(tx pgx.Tx) *unit {
		return &unit{reader: reader{q: tx, lock: true}, seasonID: seasonID}
	}
	return sqlutil.Run(ctx, s.pool, opts, newUnit, func(u *unit) error {
		if _, err := u.q.Exec(ctx, `SELECT pg_advisory_xact_lock($1, hashtext($2))`, seasonLockNamespace, seasonID.String()); err != nil {
			return fmt.Errorf("failed to lock season %s: %w", seasonID, err)
		}
		return fn(u)
	})
}

// AddCandidates upserts pool entries. Ownership of existing rows is kept.
func (s *Store) AddCandidates(ctx context.Context, candidates ...models.Candidate) error {
	batch := &pgx.Batch{}
	for _, c := range candidates {
		status := c.Status
		if status == "" {
			status = models.CandidateStatusAvailable
		}
		batch.Queue(`
INSERT INTO candidates (id, season_id, name, point_value, generation, status, owner_team_id)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, point_value = EXCLUDED.point_value, generation = EXCLUDED.generation`,
			c.ID, c.SeasonID, c.Name, sqlutil.ToSqlInt32(c.PointValue), sqlutil.ToSqlInt32(c.Generation), string(status), sqlutil.ToNullUUID(c.OwnerTeamID))
	}
	if err := s.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to add candidates: %w", err)
	}
	return nil
}

// reader implements store.Reader. When lock is set, row reads that a unit
// later updates are taken FOR UPDATE.
type reader struct {
	q    querier
	lock bool
}

func (r reader) forUpdate() string {
	if r.lock {
		return " FOR UPDATE"
	}
	return ""
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*models.DraftSession, error) {
	var (
		s         models.DraftSession
		status    string
		draftType string
		order     []string
		opensAt   sql.NullTime
		closesAt  sql.NullTime
		completed sql.NullTime
	)
	err := row.Scan(&s.ID, &s.SeasonID, &status, &draftType, &order, &s.OrderShuffled, &s.TotalRounds,
		&s.CurrentRound, &s.CurrentPickNumber, &s.CurrentTeamID, &s.PickTimeLimitSec, &s.AutoDraftEnabled,
		&opensAt, &closesAt, &s.StartedAt, &completed, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	s.Status = models.SessionStatus(status)
	s.DraftType = models.DraftType(draftType)
	s.TurnOrder = make([]uuid.UUID, len(order))
	for i, raw := range order {
		if s.TurnOrder[i], err = uuid.Parse(raw); err != nil {
			return nil, fmt.Errorf("invalid team id in turn order of session %s: %w", s.ID, err)
		}
	}
	if opensAt.Valid && closesAt.Valid {
		s.DraftWindow = &models.DraftWindow{OpensAt: opensAt.Time, ClosesAt: closesAt.Time}
	}
	s.CompletedAt = sqlutil.FromSqlTime(completed)
	return &s, nil
}

func scanCandidate(row rowScanner) (*models.Candidate, error) {
	var (
		c          models.Candidate
		points     sql.NullInt32
		generation sql.NullInt32
		status     string
		owner      uuid.NullUUID
	)
	if err := row.Scan(&c.ID, &c.SeasonID, &c.Name, &points, &generation, &status, &owner); err != nil {
		return nil, err
	}
	c.PointValue = sqlutil.FromSqlInt32(points)
	c.Generation = sqlutil.FromSqlInt32(generation)
	c.Status = models.CandidateStatus(status)
	c.OwnerTeamID = sqlutil.FromNullUUID(owner)
	return &c, nil
}

func scanPick(row rowScanner) (*models.DraftPick, error) {
	var (
		p         models.DraftPick
		sessionID uuid.NullUUID
		acq       string
	)
	if err := row.Scan(&p.ID, &sessionID, &p.SeasonID, &p.TeamID, &p.CandidateID, &p.CandidateName,
		&p.Round, &p.PickNumber, &p.PointsCharged, &acq, &p.PickedAt); err != nil {
		return nil, err
	}
	p.SessionID = sqlutil.FromNullUUID(sessionID)
	p.AcquisitionType = models.AcquisitionType(acq)
	return &p, nil
}

func scanTransaction(row rowScanner) (*models.FreeAgencyTransaction, error) {
	var (
		t         models.FreeAgencyTransaction
		txType    string
		status    string
		add       uuid.NullUUID
		drop      uuid.NullUUID
		processed sql.NullTime
	)
	if err := row.Scan(&t.ID, &t.TeamID, &t.SeasonID, &txType, &add, &drop, &t.AddedPoints, &t.DroppedPoints,
		&status, &t.Notes, &t.RosterSizeBefore, &t.SpentBefore, &t.CreatedBy, &t.CreatedAt, &processed); err != nil {
		return nil, err
	}
	t.Type = models.TransactionType(txType)
	t.Status = models.TransactionStatus(status)
	t.AddCandidateID = sqlutil.FromNullUUID(add)
	t.DropCandidateID = sqlutil.FromNullUUID(drop)
	t.ProcessedAt = sqlutil.FromSqlTime(processed)
	return &t, nil
}

func scanLedger(row rowScanner) (*models.BudgetLedger, error) {
	var l models.BudgetLedger
	if err := row.Scan(&l.TeamID, &l.SeasonID, &l.TotalPoints, &l.SpentPoints); err != nil {
		return nil, err
	}
	return &l, nil
}

// one maps pgx.ErrNoRows to store.ErrNotFound.
func one[T any](v *T, err error) (*T, error) {
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

func collect[T any](rows pgx.Rows, scan func(rowScanner) (*T, error)) ([]T, error) {
	defer rows.Close()
	var out []T
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, rows.Err()
}

func (r reader) GetSession(ctx context.Context, id uuid.UUID) (*models.DraftSession, error) {
	return one[models.DraftSession](scanSession(r.q.QueryRow(ctx, `SELECT `+sessionColumns+` FROM draft_sessions WHERE id = $1`+r.forUpdate(), id)))
}

func (r reader) GetActiveSession(ctx context.Context, seasonID uuid.UUID) (*models.DraftSession, error) {
	return one[models.DraftSession](scanSession(r.q.QueryRow(ctx,
		`SELECT `+sessionColumns+` FROM draft_sessions WHERE season_id = $1 AND status = 'active'`+r.forUpdate(), seasonID)))
}

func (r reader) GetLedger(ctx context.Context, teamID, seasonID uuid.UUID) (*models.BudgetLedger, error) {
	return one[models.BudgetLedger](scanLedger(r.q.QueryRow(ctx,
		`SELECT `+ledgerColumns+` FROM budget_ledgers WHERE team_id = $1 AND season_id = $2`+r.forUpdate(), teamID, seasonID)))
}

func (r reader) GetCandidate(ctx context.Context, seasonID, candidateID uuid.UUID) (*models.Candidate, error) {
	return one[models.Candidate](scanCandidate(r.q.QueryRow(ctx,
		`SELECT `+candidateColumns+` FROM candidates WHERE id = $1 AND season_id = $2`, candidateID, seasonID)))
}

func (r reader) FindCandidateByName(ctx context.Context, seasonID uuid.UUID, name string) (*models.Candidate, error) {
	return one[models.Candidate](scanCandidate(r.q.QueryRow(ctx,
		`SELECT `+candidateColumns+` FROM candidates WHERE season_id = $1 AND lower(name) = lower($2)`, seasonID, name)))
}

func (r reader) ListOwnedCandidates(ctx context.Context, seasonID, teamID uuid.UUID) ([]models.Candidate, error) {
	rows, err := r.q.Query(ctx, `
SELECT `+candidateColumns+` FROM candidates
WHERE season_id = $1 AND status = 'owned' AND owner_team_id = $2
ORDER BY name`, seasonID, teamID)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanCandidate)
}

func (r reader) ListAvailableCandidates(ctx context.Context, seasonID uuid.UUID, f store.CandidateFilter) ([]models.Candidate, error) {
	rows, err := r.q.Query(ctx, `
SELECT `+candidateColumns+` FROM candidates
WHERE season_id = $1
  AND status = 'available'
  AND point_value IS NOT NULL
  AND ($2::int IS NULL OR point_value >= $2::int)
  AND ($3::int IS NULL OR point_value <= $3::int)
  AND ($4::int IS NULL OR generation = $4::int)
  AND ($5::text = '' OR name ILIKE '%' || $5::text || '%')
ORDER BY point_value DESC, name
LIMIT NULLIF($6::int, 0)`,
		seasonID, sqlutil.ToSqlInt32(f.MinPoints), sqlutil.ToSqlInt32(f.MaxPoints), sqlutil.ToSqlInt32(f.Generation), f.Search, f.Limit)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanCandidate)
}

func (r reader) ListPicksBySession(ctx context.Context, sessionID uuid.UUID) ([]models.DraftPick, error) {
	rows, err := r.q.Query(ctx, `SELECT `+pickColumns+` FROM draft_picks WHERE session_id = $1 ORDER BY pick_number`, sessionID)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanPick)
}

func (r reader) ListPicksByTeam(ctx context.Context, seasonID, teamID uuid.UUID) ([]models.DraftPick, error) {
	rows, err := r.q.Query(ctx, `
SELECT `+pickColumns+` FROM draft_picks
WHERE season_id = $1 AND team_id = $2
ORDER BY picked_at, pick_number`, seasonID, teamID)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanPick)
}

func (r reader) GetTransaction(ctx context.Context, id uuid.UUID) (*models.FreeAgencyTransaction, error) {
	return one[models.FreeAgencyTransaction](scanTransaction(r.q.QueryRow(ctx,
		`SELECT `+transactionColumns+` FROM free_agency_transactions WHERE id = $1`+r.forUpdate(), id)))
}

func (r reader) ListTransactions(ctx context.Context, f store.TransactionFilter) ([]models.FreeAgencyTransaction, error) {
	var status sql.NullString
	if f.Status != nil {
		status = sql.NullString{String: string(*f.Status), Valid: true}
	}
	rows, err := r.q.Query(ctx, `
SELECT `+transactionColumns+` FROM free_agency_transactions
WHERE ($1::uuid IS NULL OR team_id = $1::uuid)
  AND ($2::uuid IS NULL OR season_id = $2::uuid)
  AND ($3::text IS NULL OR status = $3::text)
ORDER BY created_at DESC
LIMIT NULLIF($4::int, 0)`,
		sqlutil.ToNullUUID(f.TeamID), sqlutil.ToNullUUID(f.SeasonID), status, f.Limit)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanTransaction)
}

func (r reader) CountTransactions(ctx context.Context, seasonID, teamID uuid.UUID, status models.TransactionStatus) (int, error) {
	var n int
	err := r.q.QueryRow(ctx, `
SELECT COUNT(*) FROM free_agency_transactions
WHERE season_id = $1 AND team_id = $2 AND status = $3`, seasonID, teamID, string(status)).Scan(&n)
	return n, err
}

// unit implements store.Tx for one season.
type unit struct {
	reader
	seasonID uuid.UUID
}

var _ store.Tx = (*unit)(nil)

func (u *unit) scope(seasonID uuid.UUID) error {
	if seasonID != u.seasonID {
		return fmt.Errorf("season %s in unit for %s: %w", seasonID, u.seasonID, store.ErrOutOfScope)
	}
	return nil
}

func (u *unit) GetSession(ctx context.Context, id uuid.UUID) (*models.DraftSession, error) {
	sess, err := u.reader.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.SeasonID != u.seasonID {
		return nil, store.ErrNotFound
	}
	return sess, nil
}

func (u *unit) GetActiveSession(ctx context.Context, seasonID uuid.UUID) (*models.DraftSession, error) {
	if err := u.scope(seasonID); err != nil {
		return nil, err
	}
	return u.reader.GetActiveSession(ctx, seasonID)
}

func (u *unit) InsertSession(ctx context.Context, s *models.DraftSession) error {
	if err := u.scope(s.SeasonID); err != nil {
		return err
	}
	order := make([]string, len(s.TurnOrder))
	for i, id := range s.TurnOrder {
		order[i] = id.String()
	}
	var opensAt, closesAt *time.Time
	if s.DraftWindow != nil {
		opensAt, closesAt = &s.DraftWindow.OpensAt, &s.DraftWindow.ClosesAt
	}
	_, err := u.q.Exec(ctx, `
INSERT INTO draft_sessions (`+sessionColumns+`)
VALUES ($1, $2, $3, $4, $5::uuid[], $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
		s.ID, s.SeasonID, string(s.Status), string(s.DraftType), order, s.OrderShuffled, s.TotalRounds,
		s.CurrentRound, s.CurrentPickNumber, s.CurrentTeamID, s.PickTimeLimitSec, s.AutoDraftEnabled,
		sqlutil.ToSqlTime(opensAt), sqlutil.ToSqlTime(closesAt), s.StartedAt, sqlutil.ToSqlTime(s.CompletedAt),
		s.CreatedAt, s.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation && pgErr.ConstraintName == activeSessionIndex {
			return store.ErrActiveSessionExists
		}
		return fmt.Errorf("failed to insert session: %w", err)
	}
	return nil
}

func (u *unit) AdvanceSession(ctx context.Context, id uuid.UUID, expectedPick int, next models.SessionAdvance) (bool, error) {
	tag, err := u.q.Exec(ctx, `
UPDATE draft_sessions
SET current_round = $3, current_pick_number = $4, current_team_id = $5, updated_at = $6
WHERE id = $1 AND season_id = $7 AND status = 'active' AND current_pick_number = $2`,
		id, expectedPick, next.CurrentRound, next.CurrentPickNumber, next.CurrentTeamID, next.UpdatedAt, u.seasonID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (u *unit) TransitionSession(ctx context.Context, id uuid.UUID, from, to models.SessionStatus, at time.Time) (bool, error) {
	var completedAt sql.NullTime
	if to.Terminal() {
		completedAt = sql.NullTime{Time: at, Valid: true}
	}
	tag, err := u.q.Exec(ctx, `
UPDATE draft_sessions
SET status = $3, updated_at = $4, completed_at = COALESCE($5, completed_at)
WHERE id = $1 AND season_id = $6 AND status = $2`,
		id, string(from), string(to), at, completedAt, u.seasonID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (u *unit) EnsureLedger(ctx context.Context, teamID, seasonID uuid.UUID, totalPoints int) (*models.BudgetLedger, error) {
	if err := u.scope(seasonID); err != nil {
		return nil, err
	}
	if _, err := u.q.Exec(ctx, `
INSERT INTO budget_ledgers (team_id, season_id, total_points, spent_points)
VALUES ($1, $2, $3, 0)
ON CONFLICT (team_id, season_id) DO NOTHING`, teamID, seasonID, totalPoints); err != nil {
		return nil, fmt.Errorf("failed to ensure ledger: %w", err)
	}
	return u.GetLedger(ctx, teamID, seasonID)
}

func (u *unit) ApplySpendDelta(ctx context.Context, teamID, seasonID uuid.UUID, delta int) (*models.BudgetLedger, bool, error) {
	if err := u.scope(seasonID); err != nil {
		return nil, false, err
	}
	l, err := scanLedger(u.q.QueryRow(ctx, `
UPDATE budget_ledgers
SET spent_points = spent_points + $3, updated_at = now()
WHERE team_id = $1 AND season_id = $2 AND spent_points + $3 BETWEEN 0 AND total_points
RETURNING `+ledgerColumns, teamID, seasonID, delta))
	if err == nil {
		return l, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, err
	}
	// condition failed or the row is missing
	current, err := u.GetLedger(ctx, teamID, seasonID)
	if err != nil {
		return nil, false, err
	}
	return current, false, nil
}

func (u *unit) ClaimIfStatus(ctx context.Context, seasonID, candidateID uuid.UUID, expected, next models.Ownership) (bool, error) {
	if err := u.scope(seasonID); err != nil {
		return false, err
	}
	tag, err := u.q.Exec(ctx, `
UPDATE candidates
SET status = $5, owner_team_id = $6
WHERE id = $1 AND season_id = $2 AND status = $3 AND owner_team_id IS NOT DISTINCT FROM $4`,
		candidateID, seasonID, string(expected.Status), sqlutil.ToNullUUID(expected.TeamID),
		string(next.Status), sqlutil.ToNullUUID(next.TeamID))
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() == 1 {
		return true, nil
	}
	if _, err := u.GetCandidate(ctx, seasonID, candidateID); err != nil {
		return false, err
	}
	return false, nil
}

func (u *unit) InsertPick(ctx context.Context, p *models.DraftPick) error {
	if err := u.scope(p.SeasonID); err != nil {
		return err
	}
	_, err := u.q.Exec(ctx, `
INSERT INTO draft_picks (`+pickColumns+`)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		p.ID, sqlutil.ToNullUUID(p.SessionID), p.SeasonID, p.TeamID, p.CandidateID, p.CandidateName,
		p.Round, p.PickNumber, p.PointsCharged, string(p.AcquisitionType), p.PickedAt)
	if err != nil {
		return fmt.Errorf("failed to insert pick: %w", err)
	}
	return nil
}

func (u *unit) InsertTransaction(ctx context.Context, t *models.FreeAgencyTransaction) error {
	if err := u.scope(t.SeasonID); err != nil {
		return err
	}
	_, err := u.q.Exec(ctx, `
INSERT INTO free_agency_transactions (`+transactionColumns+`)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		t.ID, t.TeamID, t.SeasonID, string(t.Type), sqlutil.ToNullUUID(t.AddCandidateID), sqlutil.ToNullUUID(t.DropCandidateID),
		t.AddedPoints, t.DroppedPoints, string(t.Status), t.Notes, t.RosterSizeBefore, t.SpentBefore, t.CreatedBy,
		t.CreatedAt, sqlutil.ToSqlTime(t.ProcessedAt))
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}

func (u *unit) TransitionTransaction(ctx context.Context, id uuid.UUID, from []models.TransactionStatus, to models.TransactionStatus, at *time.Time, notes string) (bool, error) {
	allowed := make([]string, len(from))
	for i, s := range from {
		allowed[i] = string(s)
	}
	tag, err := u.q.Exec(ctx, `
UPDATE free_agency_transactions
SET status = $2,
    processed_at = COALESCE($3, processed_at),
    notes = CASE WHEN $4::text = '' THEN notes ELSE $4::text END
WHERE id = $1 AND season_id = $6 AND status = ANY($5::text[])`,
		id, string(to), sqlutil.ToSqlTime(at), notes, allowed, u.seasonID)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() == 1 {
		return true, nil
	}
	if _, err := u.GetTransaction(ctx, id); err != nil {
		return false, err
	}
	return false, nil
}

func (u *unit) InsertAudit(ctx context.Context, a *models.TransactionAudit) error {
	if err := u.scope(a.SeasonID); err != nil {
		return err
	}
	before, err := json.Marshal(a.Before)
	if err != nil {
		return fmt.Errorf("failed to encode audit snapshot: %w", err)
	}
	after, err := json.Marshal(a.After)
	if err != nil {
		return fmt.Errorf("failed to encode audit snapshot: %w", err)
	}
	_, err = u.q.Exec(ctx, `
INSERT INTO transaction_audit (id, transaction_id, team_id, season_id, before, after, notes, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		a.ID, a.TransactionID, a.TeamID, a.SeasonID, before, after, a.Notes, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert audit: %w", err)
	}
	return nil
}

func (u *unit) InsertOutboxEvent(ctx context.Context, e *models.OutboxEvent) error {
	if err := u.scope(e.SeasonID); err != nil {
		return err
	}
	var headers []byte
	if len(e.Headers) > 0 {
		var err error
		if headers, err = json.Marshal(e.Headers); err != nil {
			return fmt.Errorf("failed to encode headers: %w", err)
		}
	}
	_, err := u.q.Exec(ctx, `
INSERT INTO draft_outbox (id, aggregate_id, season_id, event_type, payload, headers, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		e.ID, e.AggregateID, e.SeasonID, e.EventType, []byte(e.Payload), headers, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert outbox event: %w", err)
	}
	return nil
}
