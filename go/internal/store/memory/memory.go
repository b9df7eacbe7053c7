// Package memory is an in-process store backend. Units of work for a season
// are serialized by a per-season mutex and run against a copy of the season's
// state that replaces the committed state only when the unit succeeds.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/draftleague/go/internal/models"
	"github.com/mcdev12/draftleague/go/internal/store"
)

type ledgerKey struct {
	team   uuid.UUID
	season uuid.UUID
}

type season struct {
	sessions     map[uuid.UUID]*models.DraftSession
	ledgers      map[ledgerKey]*models.BudgetLedger
	candidates   map[uuid.UUID]*models.Candidate
	picks        []models.DraftPick
	transactions map[uuid.UUID]*models.FreeAgencyTransaction
	audits       []models.TransactionAudit
	outbox       []models.OutboxEvent
}

func newSeason() *season {
	return &season{
		sessions:     make(map[uuid.UUID]*models.DraftSession),
		ledgers:      make(map[ledgerKey]*models.BudgetLedger),
		candidates:   make(map[uuid.UUID]*models.Candidate),
		transactions: make(map[uuid.UUID]*models.FreeAgencyTransaction),
	}
}

func (s *season) clone() *season {
	c := newSeason()
	for id, sess := range s.sessions {
		c.sessions[id] = sess.Clone()
	}
	for k, l := range s.ledgers {
		cp := *l
		c.ledgers[k] = &cp
	}
	for id, cand := range s.candidates {
		c.candidates[id] = cand.Clone()
	}
	for id, t := range s.transactions {
		c.transactions[id] = t.Clone()
	}
	c.picks = append([]models.DraftPick(nil), s.picks...)
	c.audits = append([]models.TransactionAudit(nil), s.audits...)
	c.outbox = append([]models.OutboxEvent(nil), s.outbox...)
	return c
}

// Store keeps all state in memory.
type Store struct {
	mu      sync.RWMutex
	seasons map[uuid.UUID]*season

	locksMu sync.Mutex
	locks   map[uuid.UUID]*sync.Mutex
}

var _ store.Store = (*Store)(nil)

// New creates an empty store.
func New() *Store {
	return &Store{
		seasons: make(map[uuid.UUID]*season),
		locks:   make(map[uuid.UUID]*sync.Mutex),
	}
}

func (s *Store) seasonLock(id uuid.UUID) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	return l
}

// WithLedgerTransaction implements store.Store.
func (s *Store) WithLedgerTransaction(ctx context.Context, seasonID uuid.UUID, fn func(tx store.Tx) error) error {
	lock := s.seasonLock(seasonID)
	lock.Lock()
	defer lock.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.RLock()
	committed, ok := s.seasons[seasonID]
	var working *season
	if ok {
		working = committed.clone()
	} else {
		working = newSeason()
	}
	s.mu.RUnlock()

	tx := &unit{seasonID: seasonID, st: working, parent: s}
	if err := fn(tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	s.seasons[seasonID] = working
	s.mu.Unlock()
	return nil
}

// AddCandidates loads pool entries. Existing entries with the same id are replaced.
func (s *Store) AddCandidates(candidates ...models.Candidate) {
	for _, c := range candidates {
		if c.Status == "" {
			c.Status = models.CandidateStatusAvailable
		}
		lock := s.seasonLock(c.SeasonID)
		lock.Lock()
		s.mu.Lock()
		s.seasonLocked(c.SeasonID).candidates[c.ID] = c.Clone()
		s.mu.Unlock()
		lock.Unlock()
	}
}

// OutboxEvents returns the committed outbox rows for a season.
func (s *Store) OutboxEvents(seasonID uuid.UUID) []models.OutboxEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.seasons[seasonID]
	if !ok {
		return nil
	}
	return append([]models.OutboxEvent(nil), st.outbox...)
}

// Audits returns the committed audit rows for a season.
func (s *Store) Audits(seasonID uuid.UUID) []models.TransactionAudit {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.seasons[seasonID]
	if !ok {
		return nil
	}
	return append([]models.TransactionAudit(nil), st.audits...)
}

func (s *Store) seasonLocked(id uuid.UUID) *season {
	st, ok := s.seasons[id]
	if !ok {
		st = newSeason()
		s.seasons[id] = st
	}
	return st
}

// view runs fn against the committed state of every season under the read lock.
func (s *Store) view(fn func(seasons map[uuid.UUID]*season) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.seasons)
}

func (s *Store) GetSession(ctx context.Context, id uuid.UUID) (*models.DraftSession, error) {
	var out *models.DraftSession
	err := s.view(func(seasons map[uuid.UUID]*season) error {
		for _, st := range seasons {
			if sess, ok := st.sessions[id]; ok {
				out = sess.Clone()
				return nil
			}
		}
		return store.ErrNotFound
	})
	return out, err
}

func (s *Store) GetActiveSession(ctx context.Context, seasonID uuid.UUID) (*models.DraftSession, error) {
	var out *models.DraftSession
	err := s.view(func(seasons map[uuid.UUID]*season) error {
		st, ok := seasons[seasonID]
		if !ok {
			return store.ErrNotFound
		}
		out = activeSession(st)
		if out == nil {
			return store.ErrNotFound
		}
		return nil
	})
	return out, err
}

func (s *Store) GetLedger(ctx context.Context, teamID, seasonID uuid.UUID) (*models.BudgetLedger, error) {
	var out *models.BudgetLedger
	err := s.view(func(seasons map[uuid.UUID]*season) error {
		st, ok := seasons[seasonID]
		if !ok {
			return store.ErrNotFound
		}
		var err error
		out, err = getLedger(st, teamID, seasonID)
		return err
	})
	return out, err
}

func (s *Store) GetCandidate(ctx context.Context, seasonID, candidateID uuid.UUID) (*models.Candidate, error) {
	var out *models.Candidate
	err := s.view(func(seasons map[uuid.UUID]*season) error {
		st, ok := seasons[seasonID]
		if !ok {
			return store.ErrNotFound
		}
		var err error
		out, err = getCandidate(st, candidateID)
		return err
	})
	return out, err
}

func (s *Store) FindCandidateByName(ctx context.Context, seasonID uuid.UUID, name string) (*models.Candidate, error) {
	var out *models.Candidate
	err := s.view(func(seasons map[uuid.UUID]*season) error {
		st, ok := seasons[seasonID]
		if !ok {
			return store.ErrNotFound
		}
		var err error
		out, err = findCandidateByName(st, name)
		return err
	})
	return out, err
}

func (s *Store) ListOwnedCandidates(ctx context.Context, seasonID, teamID uuid.UUID) ([]models.Candidate, error) {
	var out []models.Candidate
	err := s.view(func(seasons map[uuid.UUID]*season) error {
		if st, ok := seasons[seasonID]; ok {
			out = ownedCandidates(st, teamID)
		}
		return nil
	})
	return out, err
}

func (s *Store) ListAvailableCandidates(ctx context.Context, seasonID uuid.UUID, filter store.CandidateFilter) ([]models.Candidate, error) {
	var out []models.Candidate
	err := s.view(func(seasons map[uuid.UUID]*season) error {
		if st, ok := seasons[seasonID]; ok {
			out = availableCandidates(st, filter)
		}
		return nil
	})
	return out, err
}

func (s *Store) ListPicksBySession(ctx context.Context, sessionID uuid.UUID) ([]models.DraftPick, error) {
	var out []models.DraftPick
	err := s.view(func(seasons map[uuid.UUID]*season) error {
		for _, st := range seasons {
			out = append(out, picksBySession(st, sessionID)...)
		}
		return nil
	})
	sortPicks(out)
	return out, err
}

func (s *Store) ListPicksByTeam(ctx context.Context, seasonID, teamID uuid.UUID) ([]models.DraftPick, error) {
	var out []models.DraftPick
	err := s.view(func(seasons map[uuid.UUID]*season) error {
		if st, ok := seasons[seasonID]; ok {
			out = picksByTeam(st, teamID)
		}
		return nil
	})
	return out, err
}

func (s *Store) GetTransaction(ctx context.Context, id uuid.UUID) (*models.FreeAgencyTransaction, error) {
	var out *models.FreeAgencyTransaction
	err := s.view(func(seasons map[uuid.UUID]*season) error {
		for _, st := range seasons {
			if t, ok := st.transactions[id]; ok {
				out = t.Clone()
				return nil
			}
		}
		return store.ErrNotFound
	})
	return out, err
}

func (s *Store) ListTransactions(ctx context.Context, filter store.TransactionFilter) ([]models.FreeAgencyTransaction, error) {
	var out []models.FreeAgencyTransaction
	err := s.view(func(seasons map[uuid.UUID]*season) error {
		for id, st := range seasons {
			if filter.SeasonID != nil && *filter.SeasonID != id {
				continue
			}
			out = append(out, filterTransactions(st, filter)...)
		}
		return nil
	})
	sortTransactions(out)
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, err
}

func (s *Store) CountTransactions(ctx context.Context, seasonID, teamID uuid.UUID, status models.TransactionStatus) (int, error) {
	var n int
	err := s.view(func(seasons map[uuid.UUID]*season) error {
		if st, ok := seasons[seasonID]; ok {
			n = countTransactions(st, teamID, status)
		}
		return nil
	})
	return n, err
}

// shared lookups over a single season's state

func activeSession(st *season) *models.DraftSession {
	for _, sess := range st.sessions {
		if sess.Status == models.SessionStatusActive {
			return sess.Clone()
		}
	}
	return nil
}

func getLedger(st *season, teamID, seasonID uuid.UUID) (*models.BudgetLedger, error) {
	l, ok := st.ledgers[ledgerKey{team: teamID, season: seasonID}]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *l
	return &cp, nil
}

func getCandidate(st *season, id uuid.UUID) (*models.Candidate, error) {
	c, ok := st.candidates[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return c.Clone(), nil
}

func findCandidateByName(st *season, name string) (*models.Candidate, error) {
	for _, c := range st.candidates {
		if strings.EqualFold(c.Name, name) {
			return c.Clone(), nil
		}
	}
	return nil, store.ErrNotFound
}

func ownedCandidates(st *season, teamID uuid.UUID) []models.Candidate {
	var out []models.Candidate
	for _, c := range st.candidates {
		if c.OwnedBy(teamID) {
			out = append(out, *c.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func availableCandidates(st *season, f store.CandidateFilter) []models.Candidate {
	search := strings.ToLower(f.Search)
	var out []models.Candidate
	for _, c := range st.candidates {
		if c.Status != models.CandidateStatusAvailable || c.PointValue == nil {
			continue
		}
		if f.MinPoints != nil && *c.PointValue < *f.MinPoints {
			continue
		}
		if f.MaxPoints != nil && *c.PointValue > *f.MaxPoints {
			continue
		}
		if f.Generation != nil && (c.Generation == nil || *c.Generation != *f.Generation) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(c.Name), search) {
			continue
		}
		out = append(out, *c.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if *out[i].PointValue != *out[j].PointValue {
			return *out[i].PointValue > *out[j].PointValue
		}
		return out[i].Name < out[j].Name
	})
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out
}

func picksBySession(st *season, sessionID uuid.UUID) []models.DraftPick {
	var out []models.DraftPick
	for _, p := range st.picks {
		if p.SessionID != nil && *p.SessionID == sessionID {
			out = append(out, p)
		}
	}
	return out
}

func picksByTeam(st *season, teamID uuid.UUID) []models.DraftPick {
	var out []models.DraftPick
	for _, p := range st.picks {
		if p.TeamID == teamID {
			out = append(out, p)
		}
	}
	return out
}

func sortPicks(picks []models.DraftPick) {
	sort.SliceStable(picks, func(i, j int) bool { return picks[i].PickNumber < picks[j].PickNumber })
}

func filterTransactions(st *season, f store.TransactionFilter) []models.FreeAgencyTransaction {
	var out []models.FreeAgencyTransaction
	for _, t := range st.transactions {
		if f.TeamID != nil && t.TeamID != *f.TeamID {
			continue
		}
		if f.Status != nil && t.Status != *f.Status {
			continue
		}
		out = append(out, *t.Clone())
	}
	return out
}

func sortTransactions(ts []models.FreeAgencyTransaction) {
	sort.SliceStable(ts, func(i, j int) bool { return ts[i].CreatedAt.After(ts[j].CreatedAt) })
}

func countTransactions(st *season, teamID uuid.UUID, status models.TransactionStatus) int {
	n := 0
	for _, t := range st.transactions {
		if t.TeamID == teamID && t.Status == status {
			n++
		}
	}
	return n
}

// unit is the store.Tx handed to WithLedgerTransaction callbacks.
type unit struct {
	seasonID uuid.UUID
	st       *season
	parent   *Store
}

var _ store.Tx = (*unit)(nil)

func (u *unit) scope(seasonID uuid.UUID) error {
	if seasonID != u.seasonID {
		return fmt.Errorf("season %s in unit for %s: %w", seasonID, u.seasonID, store.ErrOutOfScope)
	}
	return nil
}

func (u *unit) GetSession(ctx context.Context, id uuid.UUID) (*models.DraftSession, error) {
	if sess, ok := u.st.sessions[id]; ok {
		return sess.Clone(), nil
	}
	return nil, store.ErrNotFound
}

func (u *unit) GetActiveSession(ctx context.Context, seasonID uuid.UUID) (*models.DraftSession, error) {
	if err := u.scope(seasonID); err != nil {
		return nil, err
	}
	if sess := activeSession(u.st); sess != nil {
		return sess, nil
	}
	return nil, store.ErrNotFound
}

func (u *unit) GetLedger(ctx context.Context, teamID, seasonID uuid.UUID) (*models.BudgetLedger, error) {
	if err := u.scope(seasonID); err != nil {
		return nil, err
	}
	return getLedger(u.st, teamID, seasonID)
}

func (u *unit) GetCandidate(ctx context.Context, seasonID, candidateID uuid.UUID) (*models.Candidate, error) {
	if err := u.scope(seasonID); err != nil {
		return nil, err
	}
	return getCandidate(u.st, candidateID)
}

func (u *unit) FindCandidateByName(ctx context.Context, seasonID uuid.UUID, name string) (*models.Candidate, error) {
	if err := u.scope(seasonID); err != nil {
		return nil, err
	}
	return findCandidateByName(u.st, name)
}

func (u *unit) ListOwnedCandidates(ctx context.Context, seasonID, teamID uuid.UUID) ([]models.Candidate, error) {
	if err := u.scope(seasonID); err != nil {
		return nil, err
	}
	return ownedCandidates(u.st, teamID), nil
}

func (u *unit) ListAvailableCandidates(ctx context.Context, seasonID uuid.UUID, filter store.CandidateFilter) ([]models.Candidate, error) {
	if err := u.scope(seasonID); err != nil {
		return nil, err
	}
	return availableCandidates(u.st, filter), nil
}

func (u *unit) ListPicksBySession(ctx context.Context, sessionID uuid.UUID) ([]models.DraftPick, error) {
	out := picksBySession(u.st, sessionID)
	sortPicks(out)
	return out, nil
}

func (u *unit) ListPicksByTeam(ctx context.Context, seasonID, teamID uuid.UUID) ([]models.DraftPick, error) {
	if err := u.scope(seasonID); err != nil {
		return nil, err
	}
	return picksByTeam(u.st, teamID), nil
}

func (u *unit) GetTransaction(ctx context.Context, id uuid.UUID) (*models.FreeAgencyTransaction, error) {
	if t, ok := u.st.transactions[id]; ok {
		return t.Clone(), nil
	}
	return nil, store.ErrNotFound
}

func (u *unit) ListTransactions(ctx context.Context, filter store.TransactionFilter) ([]models.FreeAgencyTransaction, error) {
	if filter.SeasonID != nil && *filter.SeasonID != u.seasonID {
		return nil, nil
	}
	out := filterTransactions(u.st, filter)
	sortTransactions(out)
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (u *unit) CountTransactions(ctx context.Context, seasonID, teamID uuid.UUID, status models.TransactionStatus) (int, error) {
	if err := u.scope(seasonID); err != nil {
		return 0, err
	}
	return countTransactions(u.st, teamID, status), nil
}

func (u *unit) InsertSession(ctx context.Context, s *models.DraftSession) error {
	if err := u.scope(s.SeasonID); err != nil {
		return err
	}
	if s.Status == models.SessionStatusActive && activeSession(u.st) != nil {
		return store.ErrActiveSessionExists
	}
	u.st.sessions[s.ID] = s.Clone()
	return nil
}

func (u *unit) AdvanceSession(ctx context.Context, id uuid.UUID, expectedPick int, next models.SessionAdvance) (bool, error) {
	sess, ok := u.st.sessions[id]
	if !ok {
		return false, store.ErrNotFound
	}
	if sess.Status != models.SessionStatusActive || sess.CurrentPickNumber != expectedPick {
		return false, nil
	}
	sess.CurrentRound = next.CurrentRound
	sess.CurrentPickNumber = next.CurrentPickNumber
	sess.CurrentTeamID = next.CurrentTeamID
	sess.UpdatedAt = next.UpdatedAt
	return true, nil
}

func (u *unit) TransitionSession(ctx context.Context, id uuid.UUID, from, to models.SessionStatus, at time.Time) (bool, error) {
	sess, ok := u.st.sessions[id]
	if !ok {
		return false, store.ErrNotFound
	}
	if sess.Status != from {
		return false, nil
	}
	sess.Status = to
	sess.UpdatedAt = at
	if to.Terminal() {
		t := at
		sess.CompletedAt = &t
	}
	return true, nil
}

func (u *unit) EnsureLedger(ctx context.Context, teamID, seasonID uuid.UUID, totalPoints int) (*models.BudgetLedger, error) {
	if err := u.scope(seasonID); err != nil {
		return nil, err
	}
	key := ledgerKey{team: teamID, season: seasonID}
	if _, ok := u.st.ledgers[key]; !ok {
		u.st.ledgers[key] = &models.BudgetLedger{TeamID: teamID, SeasonID: seasonID, TotalPoints: totalPoints}
	}
	return getLedger(u.st, teamID, seasonID)
}

func (u *unit) ApplySpendDelta(ctx context.Context, teamID, seasonID uuid.UUID, delta int) (*models.BudgetLedger, bool, error) {
	if err := u.scope(seasonID); err != nil {
		return nil, false, err
	}
	l, ok := u.st.ledgers[ledgerKey{team: teamID, season: seasonID}]
	if !ok {
		return nil, false, store.ErrNotFound
	}
	spent := l.SpentPoints + delta
	if spent < 0 || spent > l.TotalPoints {
		cp := *l
		return &cp, false, nil
	}
	l.SpentPoints = spent
	cp := *l
	return &cp, true, nil
}

func (u *unit) ClaimIfStatus(ctx context.Context, seasonID, candidateID uuid.UUID, expected, next models.Ownership) (bool, error) {
	if err := u.scope(seasonID); err != nil {
		return false, err
	}
	c, ok := u.st.candidates[candidateID]
	if !ok {
		return false, store.ErrNotFound
	}
	if !c.Ownership().Equal(expected) {
		return false, nil
	}
	c.Status = next.Status
	c.OwnerTeamID = nil
	if next.TeamID != nil {
		id := *next.TeamID
		c.OwnerTeamID = &id
	}
	return true, nil
}

func (u *unit) InsertPick(ctx context.Context, p *models.DraftPick) error {
	if err := u.scope(p.SeasonID); err != nil {
		return err
	}
	for _, existing := range u.st.picks {
		if p.SessionID != nil && existing.SessionID != nil && *existing.SessionID == *p.SessionID && existing.PickNumber == p.PickNumber {
			return fmt.Errorf("pick number %d already recorded for session %s", p.PickNumber, *p.SessionID)
		}
	}
	u.st.picks = append(u.st.picks, *p)
	return nil
}

func (u *unit) InsertTransaction(ctx context.Context, t *models.FreeAgencyTransaction) error {
	if err := u.scope(t.SeasonID); err != nil {
		return err
	}
	u.st.transactions[t.ID] = t.Clone()
	return nil
}

func (u *unit) TransitionTransaction(ctx context.Context, id uuid.UUID, from []models.TransactionStatus, to models.TransactionStatus, at *time.Time, notes string) (bool, error) {
	t, ok := u.st.transactions[id]
	if !ok {
		return false, store.ErrNotFound
	}
	allowed := false
	for _, f := range from {
		if t.Status == f {
			allowed = true
			break
		}
	}
	if !allowed {
		return false, nil
	}
	t.Status = to
	if at != nil {
		p := *at
		t.ProcessedAt = &p
	}
	if notes != "" {
		t.Notes = notes
	}
	return true, nil
}

func (u *unit) InsertAudit(ctx context.Context, a *models.TransactionAudit) error {
	if err := u.scope(a.SeasonID); err != nil {
		return err
	}
	u.st.audits = append(u.st.audits, *a)
	return nil
}

func (u *unit) InsertOutboxEvent(ctx context.Context, e *models.OutboxEvent) error {
	if err := u.scope(e.SeasonID); err != nil {
		return err
	}
	u.st.outbox = append(u.st.outbox, *e)
	return nil
}
