package turnorder

import (
	"testing"

	"github.com/google/uuid"
	"github.com/mcdev12/draftleague/go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fourTeams() (a, b, c, d uuid.UUID, order []uuid.UUID) {
	a, b, c, d = uuid.New(), uuid.New(), uuid.New(), uuid.New()
	return a, b, c, d, []uuid.UUID{a, b, c, d}
}

func TestResolveSnake(t *testing.T) {
	a, b, c, d, order := fourTeams()

	tests := []struct {
		pick      int
		wantRound int
		wantTeam  uuid.UUID
	}{
		{1, 1, a},
		{2, 1, b},
		{3, 1, c},
		{4, 1, d},
		{5, 2, d},
		{6, 2, c},
		{7, 2, b},
		{8, 2, a},
		{9, 3, a},
		{12, 3, d},
		{13, 4, d},
	}

	for _, tt := range tests {
		turn, err := Resolve(order, tt.pick, models.DraftTypeSnake)
		require.NoError(t, err)
		assert.Equal(t, tt.wantRound, turn.Round, "pick %d round", tt.pick)
		assert.Equal(t, tt.wantTeam, turn.TeamID, "pick %d team", tt.pick)
		assert.Equal(t, tt.pick, turn.PickNumber)
	}
}

func TestResolveLinear(t *testing.T) {
	a, _, _, d, order := fourTeams()

	turn, err := Resolve(order, 5, models.DraftTypeLinear)
	require.NoError(t, err)
	assert.Equal(t, 2, turn.Round)
	assert.Equal(t, a, turn.TeamID)

	turn, err = Resolve(order, 8, models.DraftTypeLinear)
	require.NoError(t, err)
	assert.Equal(t, d, turn.TeamID)
}

func TestResolveErrors(t *testing.T) {
	_, _, _, _, order := fourTeams()

	t.Run("empty order", func(t *testing.T) {
		_, err := Resolve(nil, 1, models.DraftTypeSnake)
		assert.Error(t, err)
	})
	t.Run("pick zero", func(t *testing.T) {
		_, err := Resolve(order, 0, models.DraftTypeSnake)
		assert.Error(t, err)
	})
	t.Run("unknown draft type", func(t *testing.T) {
		_, err := Resolve(order, 1, models.DraftType("auction"))
		assert.Error(t, err)
	})
}

func TestSequenceGivesEachTeamOnePickPerRound(t *testing.T) {
	_, _, _, _, order := fourTeams()

	turns, err := Sequence(order, 11, models.DraftTypeSnake)
	require.NoError(t, err)
	require.Len(t, turns, 44)

	perRound := map[int]map[uuid.UUID]int{}
	for i, turn := range turns {
		assert.Equal(t, i+1, turn.PickNumber)
		if perRound[turn.Round] == nil {
			perRound[turn.Round] = map[uuid.UUID]int{}
		}
		perRound[turn.Round][turn.TeamID]++
	}
	for round, counts := range perRound {
		assert.Len(t, counts, 4, "round %d", round)
		for _, n := range counts {
			assert.Equal(t, 1, n)
		}
	}
}

func TestNext(t *testing.T) {
	_, b, _, _, order := fourTeams()
	s := &models.DraftSession{
		TurnOrder:         order,
		DraftType:         models.DraftTypeSnake,
		TotalRounds:       2,
		CurrentPickNumber: 6,
	}

	turn, ok, err := Next(s)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, b, turn.TeamID)

	s.CurrentPickNumber = 8
	_, ok, err = Next(s)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTotalPicks(t *testing.T) {
	assert.Equal(t, 44, TotalPicks(11, 4))
	assert.Equal(t, 0, TotalPicks(0, 4))
	assert.Equal(t, 0, TotalPicks(3, 0))
}
