package freeagency

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/draftleague/go/internal/draft/events"
	"github.com/mcdev12/draftleague/go/internal/drafterr"
	"github.com/mcdev12/draftleague/go/internal/models"
	"github.com/mcdev12/draftleague/go/internal/rules"
	"github.com/mcdev12/draftleague/go/internal/store"
	"github.com/mcdev12/draftleague/go/internal/store/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

type fixture struct {
	store  *memory.Store
	clock  *clockwork.FakeClock
	app    *App
	season uuid.UUID
	teamA  uuid.UUID
	teamB  uuid.UUID
	ids    map[string]uuid.UUID
	picks  map[string]uuid.UUID
}

// newFixture builds a season where team A owns X (10) and W (40) for 50
// spent points and team B owns V (20). Y, Z and Big are free.
func newFixture(t *testing.T, mutate func(*rules.Rules)) *fixture {
	t.Helper()
	ctx := context.Background()

	r := rules.Default()
	r.Roster.MinSlots = 1
	r.Roster.MaxSlots = 3
	if mutate != nil {
		mutate(&r)
	}

	f := &fixture{
		store:  memory.New(),
		clock:  clockwork.NewFakeClockAt(time.Date(2026, 4, 10, 12, 0, 0, 0, time.UTC)),
		season: uuid.New(),
		teamA:  uuid.New(),
		teamB:  uuid.New(),
		ids:    map[string]uuid.UUID{},
		picks:  map[string]uuid.UUID{},
	}

	pool := []models.Candidate{
		{Name: "X", PointValue: intPtr(10)},
		{Name: "W", PointValue: intPtr(40)},
		{Name: "V", PointValue: intPtr(20)},
		{Name: "Y", PointValue: intPtr(15)},
		{Name: "Z", PointValue: intPtr(5)},
		{Name: "Big", PointValue: intPtr(80)},
		{Name: "Banned", PointValue: intPtr(1), Status: models.CandidateStatusBanned},
		{Name: "Unpriced"},
	}
	for i := range pool {
		pool[i].ID = uuid.New()
		pool[i].SeasonID = f.season
		f.ids[pool[i].Name] = pool[i].ID
	}
	f.store.AddCandidates(pool...)

	owners := []struct {
		team   uuid.UUID
		name   string
		points int
	}{
		{f.teamA, "X", 10},
		{f.teamA, "W", 40},
		{f.teamB, "V", 20},
	}
	err := f.store.WithLedgerTransaction(ctx, f.season, func(tx store.Tx) error {
		for _, team := range []uuid.UUID{f.teamA, f.teamB} {
			if _, err := tx.EnsureLedger(ctx, team, f.season, 120); err != nil {
				return err
			}
		}
		for i, o := range owners {
			ok, err := tx.ClaimIfStatus(ctx, f.season, f.ids[o.name], models.Available(), models.OwnedByTeam(o.team))
			require.NoError(t, err)
			require.True(t, ok)
			_, ok, err = tx.ApplySpendDelta(ctx, o.team, f.season, o.points)
			require.NoError(t, err)
			require.True(t, ok)

			pick := &models.DraftPick{
				ID:              uuid.New(),
				SeasonID:        f.season,
				TeamID:          o.team,
				CandidateID:     f.ids[o.name],
				CandidateName:   o.name,
				Round:           1,
				PickNumber:      i + 1,
				PointsCharged:   o.points,
				AcquisitionType: models.AcquisitionTypeDraft,
				PickedAt:        f.clock.Now(),
			}
			if err := tx.InsertPick(ctx, pick); err != nil {
				return err
			}
			f.picks[o.name] = pick.ID
		}
		return nil
	})
	require.NoError(t, err)

	f.app = NewApp(f.store, f.clock, r)
	return f
}

func (f *fixture) id(name string) *uuid.UUID {
	id, ok := f.ids[name]
	if !ok {
		id = uuid.New()
	}
	return &id
}

func (f *fixture) spent(t *testing.T, team uuid.UUID) int {
	t.Helper()
	l, err := f.store.GetLedger(context.Background(), team, f.season)
	require.NoError(t, err)
	return l.SpentPoints
}

func (f *fixture) owner(t *testing.T, name string) *uuid.UUID {
	t.Helper()
	c, err := f.store.GetCandidate(context.Background(), f.season, f.ids[name])
	require.NoError(t, err)
	return c.OwnerTeamID
}

func TestCommitReplacement(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	res, err := f.app.Commit(ctx, CommitRequest{
		SeasonID:        f.season,
		TeamID:          f.teamA,
		DropCandidateID: f.id("X"),
		AddCandidateID:  f.id("Y"),
		Notes:           "injury swap",
	})
	require.NoError(t, err)

	assert.Equal(t, 55, res.Budget.PointsUsed)
	assert.Equal(t, 65, res.Budget.BudgetRemaining)
	assert.Equal(t, 2, res.Budget.SlotsUsed)
	require.NotNil(t, res.DroppedPickID)
	assert.Equal(t, f.picks["X"], *res.DroppedPickID)
	require.NotNil(t, res.AddedPickID)

	assert.Nil(t, f.owner(t, "X"))
	require.NotNil(t, f.owner(t, "Y"))
	assert.Equal(t, f.teamA, *f.owner(t, "Y"))

	picks, err := f.store.ListPicksByTeam(ctx, f.season, f.teamA)
	require.NoError(t, err)
	var added *models.DraftPick
	for i := range picks {
		if picks[i].ID == *res.AddedPickID {
			added = &picks[i]
		}
	}
	require.NotNil(t, added)
	assert.Equal(t, models.FreeAgencyRound, added.Round)
	assert.Equal(t, models.AcquisitionTypeFreeAgent, added.AcquisitionType)
	assert.Nil(t, added.SessionID)

	txn, err := f.app.GetTransaction(ctx, res.TransactionID)
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusProcessed, txn.Status)
	assert.Equal(t, models.TransactionTypeReplacement, txn.Type)
	assert.Equal(t, 15, txn.AddedPoints)
	assert.Equal(t, 10, txn.DroppedPoints)
	assert.Equal(t, 50, txn.SpentBefore)
	assert.Equal(t, 2, txn.RosterSizeBefore)

	audits := f.store.Audits(f.season)
	require.Len(t, audits, 1)
	assert.Equal(t, 50, audits[0].Before.SpentPoints)
	assert.Equal(t, 55, audits[0].After.SpentPoints)
	assert.ElementsMatch(t, []uuid.UUID{f.ids["W"], f.ids["Y"]}, audits[0].After.OwnedCandidateIDs)

	evts := f.store.OutboxEvents(f.season)
	require.Len(t, evts, 1)
	assert.Equal(t, events.TypeTransactionProcessed, evts[0].EventType)
	assert.Equal(t, f.teamA.String(), evts[0].Headers["Team-ID"])
	var payload events.TransactionProcessedPayload
	require.NoError(t, json.Unmarshal(evts[0].Payload, &payload))
	assert.Equal(t, 55, payload.PointsUsed)
}

func TestCommitRejections(t *testing.T) {
	tests := []struct {
		name  string
		rules func(*rules.Rules)
		setup func(t *testing.T, f *fixture)
		team  func(f *fixture) uuid.UUID
		drop  string
		add   string
		want  drafterr.Code
	}{
		{name: "drop owned by other team", drop: "V", add: "Y", want: drafterr.CodeDropNotOwned},
		{name: "drop unowned", drop: "Z", want: drafterr.CodeDropNotOwned},
		{name: "add unknown", add: "Agumon", want: drafterr.CodeAddNotInPool},
		{name: "add owned", add: "V", want: drafterr.CodeAddNotAvailable},
		{name: "add banned", add: "Banned", want: drafterr.CodeAddNotAvailable},
		{name: "add unpriced", add: "Unpriced", want: drafterr.CodeAddPointsMissing},
		{name: "over budget", add: "Big", want: drafterr.CodeBudgetExceeded},
		{name: "roster above max", add: "Y", rules: func(r *rules.Rules) { r.Roster.MaxSlots = 2 }, want: drafterr.CodeRosterFull},
		{name: "roster below min", drop: "X", rules: func(r *rules.Rules) { r.Roster.MinSlots = 2 }, want: drafterr.CodeRosterFull},
		{
			name:  "limit reached",
			rules: func(r *rules.Rules) { r.FreeAgency.TransactionLimit = 1 },
			setup: func(t *testing.T, f *fixture) {
				_, err := f.app.Commit(context.Background(), CommitRequest{SeasonID: f.season, TeamID: f.teamA, AddCandidateID: f.id("Z")})
				require.NoError(t, err)
			},
			drop: "X", add: "Y",
			want: drafterr.CodeTransactionLimitReached,
		},
		{
			name: "team not in season",
			team: func(f *fixture) uuid.UUID { return uuid.New() },
			add:  "Y",
			want: drafterr.CodeTeamNotInSeason,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.rules)
			ctx := context.Background()
			if tt.setup != nil {
				tt.setup(t, f)
			}
			team := f.teamA
			if tt.team != nil {
				team = tt.team(f)
			}

			spentBefore := f.spent(t, f.teamA)
			eventsBefore := len(f.store.OutboxEvents(f.season))
			req := CommitRequest{SeasonID: f.season, TeamID: team}
			if tt.drop != "" {
				req.DropCandidateID = f.id(tt.drop)
			}
			if tt.add != "" {
				req.AddCandidateID = f.id(tt.add)
			}

			_, err := f.app.Commit(ctx, req)
			require.Error(t, err)
			assert.Equal(t, tt.want, drafterr.CodeOf(err))

			assert.Equal(t, spentBefore, f.spent(t, f.teamA))
			assert.Equal(t, f.teamA, *f.owner(t, "X"))
			assert.Nil(t, f.owner(t, "Y"))
			assert.Len(t, f.store.OutboxEvents(f.season), eventsBefore)
		})
	}
}

func TestCommitDropRefundsPoints(t *testing.T) {
	f := newFixture(t, nil)

	res, err := f.app.Commit(context.Background(), CommitRequest{SeasonID: f.season, TeamID: f.teamA, DropCandidateID: f.id("W")})
	require.NoError(t, err)
	assert.Nil(t, res.AddedPickID)
	assert.Equal(t, 10, res.Budget.PointsUsed)
	assert.Equal(t, 1, res.Budget.SlotsUsed)
	assert.Equal(t, 2, res.Budget.SlotsRemaining)
}

func TestCommitBudgetCheckMatchesLedgerWrite(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	// team A owns 50 points of candidates but its ledger has drifted to 5
	err := f.store.WithLedgerTransaction(ctx, f.season, func(tx store.Tx) error {
		_, ok, err := tx.ApplySpendDelta(ctx, f.teamA, f.season, -45)
		require.True(t, ok)
		return err
	})
	require.NoError(t, err)

	huge := models.Candidate{ID: uuid.New(), SeasonID: f.season, Name: "Huge", PointValue: intPtr(150)}
	f.store.AddCandidates(huge)

	res, err := f.app.Commit(ctx, CommitRequest{SeasonID: f.season, TeamID: f.teamA, DropCandidateID: f.id("W"), AddCandidateID: &huge.ID})
	require.NoError(t, err)
	assert.Equal(t, 115, res.Budget.PointsUsed)
	assert.Equal(t, 115, f.spent(t, f.teamA))
}

func TestCommitRaceForSameCandidate(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	teamsIn := []uuid.UUID{f.teamA, f.teamB}
	errs := make([]error, len(teamsIn))
	var wg sync.WaitGroup
	for i, team := range teamsIn {
		wg.Add(1)
		go func(i int, team uuid.UUID) {
			defer wg.Done()
			_, errs[i] = f.app.Commit(ctx, CommitRequest{SeasonID: f.season, TeamID: team, AddCandidateID: f.id("Z")})
		}(i, team)
	}
	wg.Wait()

	var winner, loser uuid.UUID
	switch {
	case errs[0] == nil && errs[1] != nil:
		winner, loser = f.teamA, f.teamB
		assert.Equal(t, drafterr.CodeAddNotAvailable, drafterr.CodeOf(errs[1]))
	case errs[1] == nil && errs[0] != nil:
		winner, loser = f.teamB, f.teamA
		assert.Equal(t, drafterr.CodeAddNotAvailable, drafterr.CodeOf(errs[0]))
	default:
		t.Fatalf("expected exactly one winner, got %v and %v", errs[0], errs[1])
	}

	assert.Equal(t, winner, *f.owner(t, "Z"))
	if loser == f.teamA {
		assert.Equal(t, 50, f.spent(t, f.teamA))
	} else {
		assert.Equal(t, 20, f.spent(t, f.teamB))
	}

	processed := models.TransactionStatusProcessed
	txns, err := f.app.ListTransactions(ctx, store.TransactionFilter{SeasonID: &f.season, Status: &processed})
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, winner, txns[0].TeamID)
}

func TestSubmitApproveProcess(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	txn, err := f.app.SubmitTransaction(ctx, SubmitRequest{
		TeamID:          f.teamA,
		SeasonID:        f.season,
		Type:            models.TransactionTypeReplacement,
		AddCandidateID:  f.id("Y"),
		DropCandidateID: f.id("X"),
		CreatedBy:       "coach",
	})
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusPending, txn.Status)
	assert.Equal(t, 15, txn.AddedPoints)
	assert.Equal(t, 10, txn.DroppedPoints)
	assert.Equal(t, 50, f.spent(t, f.teamA), "submission must not charge")
	assert.Nil(t, f.owner(t, "Y"))

	approved, err := f.app.ApproveTransaction(ctx, txn.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusApproved, approved.Status)

	f.clock.Advance(time.Minute)
	res, err := f.app.ProcessTransaction(ctx, txn.ID)
	require.NoError(t, err)
	assert.Equal(t, txn.ID, res.TransactionID)
	assert.Equal(t, 55, res.Budget.PointsUsed)

	processed, err := f.app.GetTransaction(ctx, txn.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusProcessed, processed.Status)
	require.NotNil(t, processed.ProcessedAt)
	assert.Equal(t, f.clock.Now(), *processed.ProcessedAt)

	_, err = f.app.ProcessTransaction(ctx, txn.ID)
	assert.Equal(t, drafterr.CodeTransactionNotPending, drafterr.CodeOf(err))
	_, err = f.app.RejectTransaction(ctx, txn.ID, "too late")
	assert.Equal(t, drafterr.CodeTransactionNotPending, drafterr.CodeOf(err))
}

func TestProcessFailureKeepsTransactionPending(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	txn, err := f.app.SubmitTransaction(ctx, SubmitRequest{
		TeamID:         f.teamA,
		SeasonID:       f.season,
		Type:           models.TransactionTypeAddition,
		AddCandidateID: f.id("Z"),
	})
	require.NoError(t, err)

	_, err = f.app.Commit(ctx, CommitRequest{SeasonID: f.season, TeamID: f.teamB, AddCandidateID: f.id("Z")})
	require.NoError(t, err)

	_, err = f.app.ProcessTransaction(ctx, txn.ID)
	assert.Equal(t, drafterr.CodeAddNotAvailable, drafterr.CodeOf(err))

	current, err := f.app.GetTransaction(ctx, txn.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusPending, current.Status)

	rejected, err := f.app.RejectTransaction(ctx, txn.ID, "Z was taken")
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusRejected, rejected.Status)
	assert.Equal(t, "Z was taken", rejected.Notes)
}

func TestSubmitValidation(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	tests := []struct {
		name string
		req  SubmitRequest
		want drafterr.Code
	}{
		{"addition without add", SubmitRequest{Type: models.TransactionTypeAddition, DropCandidateID: f.id("X")}, drafterr.CodeInvalidTransaction},
		{"drop only with add", SubmitRequest{Type: models.TransactionTypeDropOnly, AddCandidateID: f.id("Y"), DropCandidateID: f.id("X")}, drafterr.CodeInvalidTransaction},
		{"replacement missing drop", SubmitRequest{Type: models.TransactionTypeReplacement, AddCandidateID: f.id("Y")}, drafterr.CodeInvalidTransaction},
		{"replacement same candidate", SubmitRequest{Type: models.TransactionTypeReplacement, AddCandidateID: f.id("X"), DropCandidateID: f.id("X")}, drafterr.CodeInvalidTransaction},
		{"unknown type", SubmitRequest{Type: "trade", AddCandidateID: f.id("Y")}, drafterr.CodeInvalidTransaction},
		{"add not in pool", SubmitRequest{Type: models.TransactionTypeAddition, AddCandidateID: f.id("Agumon")}, drafterr.CodeAddNotInPool},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.req.TeamID = f.teamA
			tt.req.SeasonID = f.season
			_, err := f.app.SubmitTransaction(ctx, tt.req)
			require.Error(t, err)
			assert.Equal(t, tt.want, drafterr.CodeOf(err))
		})
	}

	_, err := f.app.Commit(ctx, CommitRequest{SeasonID: f.season, TeamID: f.teamA})
	assert.Equal(t, drafterr.CodeInvalidTransaction, drafterr.CodeOf(err))
}

func TestListTransactionsAndTeamStatus(t *testing.T) {
	f := newFixture(t, func(r *rules.Rules) { r.FreeAgency.TransactionLimit = 5 })
	ctx := context.Background()

	first, err := f.app.Commit(ctx, CommitRequest{SeasonID: f.season, TeamID: f.teamA, AddCandidateID: f.id("Z")})
	require.NoError(t, err)
	f.clock.Advance(time.Hour)
	second, err := f.app.Commit(ctx, CommitRequest{SeasonID: f.season, TeamID: f.teamA, DropCandidateID: f.id("X"), AddCandidateID: f.id("Y")})
	require.NoError(t, err)
	f.clock.Advance(time.Hour)
	_, err = f.app.SubmitTransaction(ctx, SubmitRequest{TeamID: f.teamB, SeasonID: f.season, Type: models.TransactionTypeDropOnly, DropCandidateID: f.id("V")})
	require.NoError(t, err)

	mine, err := f.app.ListTransactions(ctx, store.TransactionFilter{TeamID: &f.teamA})
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, second.TransactionID, mine[0].ID)
	assert.Equal(t, first.TransactionID, mine[1].ID)

	pending := models.TransactionStatusPending
	open, err := f.app.ListTransactions(ctx, store.TransactionFilter{SeasonID: &f.season, Status: &pending})
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, f.teamB, open[0].TeamID)

	bogus := models.TransactionStatus("lost")
	_, err = f.app.ListTransactions(ctx, store.TransactionFilter{Status: &bogus})
	assert.Equal(t, drafterr.CodeInvalidArgument, drafterr.CodeOf(err))

	status, err := f.app.GetTeamStatus(ctx, f.teamA, f.season)
	require.NoError(t, err)
	assert.Equal(t, 2, status.TransactionCount)
	assert.Equal(t, 3, status.RemainingTransactions)
	assert.Equal(t, 60, status.Budget.PointsUsed)
	assert.Len(t, status.Roster, 3)
}
