package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/draftleague/go/internal/models"
	"github.com/mcdev12/draftleague/go/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func points(v int) *int { return &v }

func TestWithLedgerTransactionRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := New()
	season, team := uuid.New(), uuid.New()
	cand := models.Candidate{ID: uuid.New(), SeasonID: season, Name: "Pikachu", PointValue: points(10)}
	s.AddCandidates(cand)

	err := s.WithLedgerTransaction(ctx, season, func(tx store.Tx) error {
		_, err := tx.EnsureLedger(ctx, team, season, 120)
		require.NoError(t, err)
		return nil
	})
	require.NoError(t, err)

	boom := errors.New("boom")
	err = s.WithLedgerTransaction(ctx, season, func(tx store.Tx) error {
		ok, err := tx.ClaimIfStatus(ctx, season, cand.ID, models.Available(), models.OwnedByTeam(team))
		require.NoError(t, err)
		require.True(t, ok)
		_, ok, err = tx.ApplySpendDelta(ctx, team, season, 10)
		require.NoError(t, err)
		require.True(t, ok)
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := s.GetCandidate(ctx, season, cand.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CandidateStatusAvailable, got.Status)
	assert.Nil(t, got.OwnerTeamID)

	ledger, err := s.GetLedger(ctx, team, season)
	require.NoError(t, err)
	assert.Equal(t, 0, ledger.SpentPoints)
}

func TestClaimIfStatus(t *testing.T) {
	ctx := context.Background()
	s := New()
	season, a, b := uuid.New(), uuid.New(), uuid.New()
	cand := models.Candidate{ID: uuid.New(), SeasonID: season, Name: "Eevee", PointValue: points(5)}
	s.AddCandidates(cand)

	err := s.WithLedgerTransaction(ctx, season, func(tx store.Tx) error {
		ok, err := tx.ClaimIfStatus(ctx, season, cand.ID, models.Available(), models.OwnedByTeam(a))
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = tx.ClaimIfStatus(ctx, season, cand.ID, models.Available(), models.OwnedByTeam(b))
		require.NoError(t, err)
		assert.False(t, ok, "second claim must fail")

		ok, err = tx.ClaimIfStatus(ctx, season, cand.ID, models.OwnedByTeam(b), models.Available())
		require.NoError(t, err)
		assert.False(t, ok, "release by non-owner must fail")

		ok, err = tx.ClaimIfStatus(ctx, season, cand.ID, models.OwnedByTeam(a), models.Available())
		require.NoError(t, err)
		assert.True(t, ok)
		return nil
	})
	require.NoError(t, err)
}

func TestApplySpendDeltaBounds(t *testing.T) {
	ctx := context.Background()
	s := New()
	season, team := uuid.New(), uuid.New()

	err := s.WithLedgerTransaction(ctx, season, func(tx store.Tx) error {
		_, err := tx.EnsureLedger(ctx, team, season, 20)
		require.NoError(t, err)

		l, ok, err := tx.ApplySpendDelta(ctx, team, season, 20)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 0, l.RemainingPoints())

		l, ok, err = tx.ApplySpendDelta(ctx, team, season, 1)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, 20, l.SpentPoints)

		_, ok, err = tx.ApplySpendDelta(ctx, team, season, -21)
		require.NoError(t, err)
		assert.False(t, ok)
		return nil
	})
	require.NoError(t, err)
}

func TestEnsureLedgerDoesNotReset(t *testing.T) {
	ctx := context.Background()
	s := New()
	season, team := uuid.New(), uuid.New()

	require.NoError(t, s.WithLedgerTransaction(ctx, season, func(tx store.Tx) error {
		if _, err := tx.EnsureLedger(ctx, team, season, 120); err != nil {
			return err
		}
		_, _, err := tx.ApplySpendDelta(ctx, team, season, 30)
		return err
	}))
	require.NoError(t, s.WithLedgerTransaction(ctx, season, func(tx store.Tx) error {
		l, err := tx.EnsureLedger(ctx, team, season, 200)
		require.NoError(t, err)
		assert.Equal(t, 30, l.SpentPoints)
		assert.Equal(t, 120, l.TotalPoints)
		return nil
	}))
}

func TestInsertSessionSingleActive(t *testing.T) {
	ctx := context.Background()
	s := New()
	season := uuid.New()
	now := time.Now()

	first := &models.DraftSession{ID: uuid.New(), SeasonID: season, Status: models.SessionStatusActive, CreatedAt: now}
	second := &models.DraftSession{ID: uuid.New(), SeasonID: season, Status: models.SessionStatusActive, CreatedAt: now}

	require.NoError(t, s.WithLedgerTransaction(ctx, season, func(tx store.Tx) error {
		return tx.InsertSession(ctx, first)
	}))
	err := s.WithLedgerTransaction(ctx, season, func(tx store.Tx) error {
		return tx.InsertSession(ctx, second)
	})
	assert.ErrorIs(t, err, store.ErrActiveSessionExists)

	active, err := s.GetActiveSession(ctx, season)
	require.NoError(t, err)
	assert.Equal(t, first.ID, active.ID)
}

func TestUnitRejectsOtherSeason(t *testing.T) {
	ctx := context.Background()
	s := New()

	err := s.WithLedgerTransaction(ctx, uuid.New(), func(tx store.Tx) error {
		_, err := tx.EnsureLedger(ctx, uuid.New(), uuid.New(), 120)
		return err
	})
	assert.ErrorIs(t, err, store.ErrOutOfScope)
}

func TestConcurrentClaimsHaveOneWinner(t *testing.T) {
	ctx := context.Background()
	s := New()
	season := uuid.New()
	cand := models.Candidate{ID: uuid.New(), SeasonID: season, Name: "Mew", PointValue: points(20)}
	s.AddCandidates(cand)

	const workers = 16
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			team := uuid.New()
			_ = s.WithLedgerTransaction(ctx, season, func(tx store.Tx) error {
				ok, err := tx.ClaimIfStatus(ctx, season, cand.ID, models.Available(), models.OwnedByTeam(team))
				if err != nil {
					return err
				}
				if ok {
					mu.Lock()
					wins++
					mu.Unlock()
				}
				return nil
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
}

func TestListAvailableCandidatesOrdering(t *testing.T) {
	ctx := context.Background()
	s := New()
	season := uuid.New()
	gen1 := 1
	s.AddCandidates(
		models.Candidate{ID: uuid.New(), SeasonID: season, Name: "Bulbasaur", PointValue: points(8), Generation: &gen1},
		models.Candidate{ID: uuid.New(), SeasonID: season, Name: "Abra", PointValue: points(8)},
		models.Candidate{ID: uuid.New(), SeasonID: season, Name: "Dragonite", PointValue: points(18)},
		models.Candidate{ID: uuid.New(), SeasonID: season, Name: "Missingno"},
		models.Candidate{ID: uuid.New(), SeasonID: season, Name: "Mewtwo", PointValue: points(20), Status: models.CandidateStatusBanned},
	)

	all, err := s.ListAvailableCandidates(ctx, season, store.CandidateFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Dragonite", all[0].Name)
	assert.Equal(t, "Abra", all[1].Name)
	assert.Equal(t, "Bulbasaur", all[2].Name)

	cheap, err := s.ListAvailableCandidates(ctx, season, store.CandidateFilter{MaxPoints: points(10), Search: "bulb"})
	require.NoError(t, err)
	require.Len(t, cheap, 1)
	assert.Equal(t, "Bulbasaur", cheap[0].Name)

	byGen, err := s.ListAvailableCandidates(ctx, season, store.CandidateFilter{Generation: &gen1})
	require.NoError(t, err)
	assert.Len(t, byGen, 1)
}
