package freeagency

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/draftleague/go/internal/draft/pick"
	"github.com/mcdev12/draftleague/go/internal/draft/session"
	"github.com/mcdev12/draftleague/go/internal/models"
	"github.com/mcdev12/draftleague/go/internal/rules"
	"github.com/mcdev12/draftleague/go/internal/store/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// requireSpentMatchesRoster checks that each team's spent points equal the
// sum of point values it currently owns.
func requireSpentMatchesRoster(t *testing.T, st *memory.Store, season uuid.UUID, teams ...uuid.UUID) {
	t.Helper()
	ctx := context.Background()
	for _, team := range teams {
		owned, err := st.ListOwnedCandidates(ctx, season, team)
		require.NoError(t, err)
		sum := 0
		for _, c := range owned {
			sum += *c.PointValue
		}
		l, err := st.GetLedger(ctx, team, season)
		require.NoError(t, err)
		assert.Equal(t, sum, l.SpentPoints, "team %s", team)
	}
}

func TestSpentPointsTrackOwnedCandidates(t *testing.T) {
	ctx := context.Background()
	r := rules.Default()
	r.Roster.MinSlots = 1
	r.Roster.MaxSlots = 4

	st := memory.New()
	clock := clockwork.NewFakeClockAt(time.Date(2026, 5, 2, 9, 0, 0, 0, time.UTC))
	season := uuid.New()
	teamA, teamB := uuid.New(), uuid.New()

	ids := map[string]uuid.UUID{}
	var pool []models.Candidate
	for name, points := range map[string]int{"Garchomp": 20, "Dragonite": 18, "Gengar": 15, "Pikachu": 10, "Eevee": 5, "Lucario": 12} {
		c := models.Candidate{ID: uuid.New(), SeasonID: season, Name: name, PointValue: intPtr(points)}
		ids[name] = c.ID
		pool = append(pool, c)
	}
	st.AddCandidates(pool...)

	created, err := session.NewApp(st, clock, r).CreateSession(ctx, session.CreateSessionRequest{
		SeasonID:    season,
		TeamIDs:     []uuid.UUID{teamA, teamB},
		TotalRounds: intPtr(2),
	})
	require.NoError(t, err)

	picks := pick.NewApp(st, clock, r)
	for _, p := range []struct {
		team uuid.UUID
		name string
	}{
		{teamA, "Garchomp"},
		{teamB, "Dragonite"},
		{teamB, "Gengar"},
		{teamA, "Pikachu"},
	} {
		id := ids[p.name]
		_, err := picks.MakePick(ctx, pick.MakePickRequest{SessionID: created.Session.ID, TeamID: p.team, CandidateID: &id})
		require.NoError(t, err, p.name)
		requireSpentMatchesRoster(t, st, season, teamA, teamB)
	}

	id := func(name string) *uuid.UUID {
		v := ids[name]
		return &v
	}
	app := NewApp(st, clock, r)
	for _, req := range []CommitRequest{
		{SeasonID: season, TeamID: teamA, DropCandidateID: id("Pikachu"), AddCandidateID: id("Lucario")},
		{SeasonID: season, TeamID: teamB, DropCandidateID: id("Gengar")},
		{SeasonID: season, TeamID: teamA, AddCandidateID: id("Eevee")},
		{SeasonID: season, TeamID: teamB, AddCandidateID: id("Pikachu")},
	} {
		_, err := app.Commit(ctx, req)
		require.NoError(t, err)
		requireSpentMatchesRoster(t, st, season, teamA, teamB)
	}

	// rejected commits leave the balance intact
	_, err = app.Commit(ctx, CommitRequest{SeasonID: season, TeamID: teamA, AddCandidateID: id("Dragonite")})
	require.Error(t, err)
	requireSpentMatchesRoster(t, st, season, teamA, teamB)

	l, err := st.GetLedger(ctx, teamA, season)
	require.NoError(t, err)
	assert.Equal(t, 37, l.SpentPoints)
}
