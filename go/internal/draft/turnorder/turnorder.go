// Package turnorder derives whose turn it is from a pick number.
//
// The resolver is pure: the session only stores the pick counter and the
// ordered team list, and every turn is recomputed from them.
package turnorder

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/mcdev12/draftleague/go/internal/models"
)

// Turn identifies the team on the clock for one overall pick.
type Turn struct {
	PickNumber   int       `json:"pick_number"`
	Round        int       `json:"round"`
	IndexInRound int       `json:"index_in_round"`
	TeamID       uuid.UUID `json:"team_id"`
}

// Resolve returns the turn for pickNumber (1-based) given the round-1 order.
// Snake drafts reverse the order on even rounds, linear drafts never do.
func Resolve(order []uuid.UUID, pickNumber int, draftType models.DraftType) (Turn, error) {
	n := len(order)
	if n == 0 {
		return Turn{}, fmt.Errorf("turn order is empty")
	}
	if pickNumber < 1 {
		return Turn{}, fmt.Errorf("pick number must be at least 1, got %d", pickNumber)
	}

	round := (pickNumber + n - 1) / n
	idx := (pickNumber - 1) % n

	teamIdx := idx
	switch draftType {
	case models.DraftTypeSnake:
		if round%2 == 0 {
			teamIdx = n - 1 - idx
		}
	case models.DraftTypeLinear:
	default:
		return Turn{}, fmt.Errorf("unsupported draft type: %s", draftType)
	}

	return Turn{
		PickNumber:   pickNumber,
		Round:        round,
		IndexInRound: idx,
		TeamID:       order[teamIdx],
	}, nil
}

// Current resolves the turn a session is waiting on.
func Current(s *models.DraftSession) (Turn, error) {
	return Resolve(s.TurnOrder, s.CurrentPickNumber, s.DraftType)
}

// Next resolves the turn after s's current one. ok is false when the current
// pick is the last one of the draft.
func Next(s *models.DraftSession) (turn Turn, ok bool, err error) {
	next := s.CurrentPickNumber + 1
	if next > TotalPicks(s.TotalRounds, len(s.TurnOrder)) {
		return Turn{}, false, nil
	}
	turn, err = Resolve(s.TurnOrder, next, s.DraftType)
	if err != nil {
		return Turn{}, false, err
	}
	return turn, true, nil
}

// TotalPicks is rounds × teams.
func TotalPicks(rounds, teams int) int {
	if rounds <= 0 || teams <= 0 {
		return 0
	}
	return rounds * teams
}

// Sequence lists every turn of a draft in pick order.
func Sequence(order []uuid.UUID, rounds int, draftType models.DraftType) ([]Turn, error) {
	total := TotalPicks(rounds, len(order))
	turns := make([]Turn, 0, total)
	for p := 1; p <= total; p++ {
		t, err := Resolve(order, p, draftType)
		if err != nil {
			return nil, err
		}
		turns = append(turns, t)
	}
	return turns, nil
}
