package session

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
	"github.com/mcdev12/draftleague/go/internal/store/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func newTestApp(t *testing.T, r rules.Rules) (*App, *memory.Store, *clockwork.FakeClock) {
	t.Helper()
	st := memory.New()
	clock := clockwork.NewFakeClockAt(time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC))
	return NewApp(st, clock, r), st, clock
}

func teams(n int) []uuid.UUID {
	out := make([]uuid.UUID, n)
	for i := range out {
		out[i] = uuid.New()
	}
	return out
}

func TestCreateSessionDefaults(t *testing.T) {
	ctx := context.Background()
	app, st, clock := newTestApp(t, rules.Default())
	season, ids := uuid.New(), teams(4)

	res, err := app.CreateSession(ctx, CreateSessionRequest{SeasonID: season, TeamIDs: ids})
	require.NoError(t, err)
	require.True(t, res.Created)

	sess := res.Session
	assert.Equal(t, models.SessionStatusActive, sess.Status)
	assert.Equal(t, models.DraftTypeSnake, sess.DraftType)
	assert.Equal(t, ids, sess.TurnOrder)
	assert.False(t, sess.OrderShuffled)
	assert.Equal(t, 11, sess.TotalRounds)
	assert.Equal(t, 44, sess.TotalPicks())
	assert.Equal(t, 45, sess.PickTimeLimitSec)
	assert.Equal(t, 1, sess.CurrentPickNumber)
	assert.Equal(t, 1, sess.CurrentRound)
	assert.Equal(t, ids[0], sess.CurrentTeamID)
	assert.Equal(t, clock.Now(), sess.StartedAt)

	for _, id := range ids {
		l, err := st.GetLedger(ctx, id, season)
		require.NoError(t, err)
		assert.Equal(t, 120, l.TotalPoints)
		assert.Equal(t, 0, l.SpentPoints)
	}

	evts := st.OutboxEvents(season)
	require.Len(t, evts, 1)
	assert.Equal(t, events.TypeSessionCreated, evts[0].EventType)

	var payload events.SessionCreatedPayload
	require.NoError(t, json.Unmarshal(evts[0].Payload, &payload))
	assert.Equal(t, 44, payload.TotalPicks)
}

func TestCreateSessionIsIdempotent(t *testing.T) {
	ctx := context.Background()
	app, st, _ := newTestApp(t, rules.Default())
	season, ids := uuid.New(), teams(3)

	first, err := app.CreateSession(ctx, CreateSessionRequest{SeasonID: season, TeamIDs: ids})
	require.NoError(t, err)

	second, err := app.CreateSession(ctx, CreateSessionRequest{SeasonID: season, TeamIDs: teams(5), TotalRounds: intPtr(3)})
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.Equal(t, first.Session.ID, second.Session.ID)
	assert.Equal(t, ids, second.Session.TurnOrder)
	assert.Len(t, st.OutboxEvents(season), 1)
}

func TestCreateSessionConcurrent(t *testing.T) {
	ctx := context.Background()
	app, _, _ := newTestApp(t, rules.Default())
	season, ids := uuid.New(), teams(2)

	const callers = 8
	var wg sync.WaitGroup
	results := make([]*CreateSessionResult, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := app.CreateSession(ctx, CreateSessionRequest{SeasonID: season, TeamIDs: ids})
			assert.NoError(t, err)
			results[i] = res
		}(i)
	}
	wg.Wait()

	created := 0
	for _, res := range results {
		require.NotNil(t, res)
		assert.Equal(t, results[0].Session.ID, res.Session.ID)
		if res.Created {
			created++
		}
	}
	assert.Equal(t, 1, created)
}

func TestCreateSessionShufflesOrder(t *testing.T) {
	r := rules.Default()
	r.Draft.ShuffleTurnOrder = true
	app, _, _ := newTestApp(t, r)
	app.shuffle = func(n int, swap func(i, j int)) {
		for i := 0; i < n/2; i++ {
			swap(i, n-1-i)
		}
	}
	ids := teams(3)
	given := append([]uuid.UUID(nil), ids...)

	res, err := app.CreateSession(context.Background(), CreateSessionRequest{SeasonID: uuid.New(), TeamIDs: ids})
	require.NoError(t, err)
	assert.True(t, res.Session.OrderShuffled)
	assert.Equal(t, []uuid.UUID{ids[2], ids[1], ids[0]}, res.Session.TurnOrder)
	assert.Equal(t, ids[2], res.Session.CurrentTeamID)
	assert.Equal(t, given, ids)
}

func TestCreateSessionValidation(t *testing.T) {
	dup := uuid.New()
	tests := []struct {
		name string
		req  CreateSessionRequest
		want drafterr.Code
	}{
		{"missing season", CreateSessionRequest{TeamIDs: teams(2)}, drafterr.CodeInvalidArgument},
		{"one team", CreateSessionRequest{SeasonID: uuid.New(), TeamIDs: teams(1)}, drafterr.CodeInvalidTeamCount},
		{"duplicate team", CreateSessionRequest{SeasonID: uuid.New(), TeamIDs: []uuid.UUID{dup, dup}}, drafterr.CodeInvalidTeamCount},
		{"bad draft type", CreateSessionRequest{SeasonID: uuid.New(), TeamIDs: teams(2), DraftType: "auction"}, drafterr.CodeInvalidArgument},
		{"zero rounds", CreateSessionRequest{SeasonID: uuid.New(), TeamIDs: teams(2), TotalRounds: intPtr(0)}, drafterr.CodeInvalidArgument},
		{"inverted window", CreateSessionRequest{
			SeasonID: uuid.New(),
			TeamIDs:  teams(2),
			DraftWindow: &models.DraftWindow{
				OpensAt:  time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
				ClosesAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
			},
		}, drafterr.CodeInvalidArgument},
	}

	app, _, _ := newTestApp(t, rules.Default())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := app.CreateSession(context.Background(), tt.req)
			require.Error(t, err)
			assert.Equal(t, tt.want, drafterr.CodeOf(err))
		})
	}
}

func TestGetStatus(t *testing.T) {
	ctx := context.Background()
	app, _, _ := newTestApp(t, rules.Default())
	season, ids := uuid.New(), teams(2)

	_, err := app.GetStatus(ctx, season)
	assert.Equal(t, drafterr.CodeSessionNotFound, drafterr.CodeOf(err))

	_, err = app.CreateSession(ctx, CreateSessionRequest{SeasonID: season, TeamIDs: ids, TotalRounds: intPtr(1)})
	require.NoError(t, err)

	status, err := app.GetStatus(ctx, season)
	require.NoError(t, err)
	require.NotNil(t, status.CurrentTurn)
	require.NotNil(t, status.NextTurn)
	assert.Equal(t, ids[0], status.CurrentTurn.TeamID)
	assert.Equal(t, ids[1], status.NextTurn.TeamID)
}

func TestFinishSession(t *testing.T) {
	ctx := context.Background()
	app, st, clock := newTestApp(t, rules.Default())
	season := uuid.New()

	res, err := app.CreateSession(ctx, CreateSessionRequest{SeasonID: season, TeamIDs: teams(2)})
	require.NoError(t, err)

	clock.Advance(time.Hour)
	sess, err := app.CancelSession(ctx, res.Session.ID, "rescheduled")
	require.NoError(t, err)
	assert.Equal(t, models.SessionStatusCancelled, sess.Status)
	require.NotNil(t, sess.CompletedAt)
	assert.Equal(t, clock.Now(), *sess.CompletedAt)

	_, err = app.CompleteSession(ctx, res.Session.ID)
	assert.Equal(t, drafterr.CodeSessionNotActive, drafterr.CodeOf(err))

	_, err = app.CancelSession(ctx, uuid.New(), "")
	assert.Equal(t, drafterr.CodeSessionNotFound, drafterr.CodeOf(err))

	evts := st.OutboxEvents(season)
	require.Len(t, evts, 2)
	assert.Equal(t, events.TypeDraftCancelled, evts[1].EventType)

	// a new draft may start once the previous one is over
	again, err := app.CreateSession(ctx, CreateSessionRequest{SeasonID: season, TeamIDs: teams(2)})
	require.NoError(t, err)
	assert.True(t, again.Created)
}
