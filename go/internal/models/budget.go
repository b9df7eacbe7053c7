package models

import (
	"github.com/google/uuid"
)

// DefaultTotalPoints is the per-team season budget used when none is configured.
const DefaultTotalPoints = 120

// BudgetLedger tracks one team's points spending for a season.
type BudgetLedger struct {
	TeamID      uuid.UUID `json:"team_id"`
	SeasonID    uuid.UUID `json:"season_id"`
	TotalPoints int       `json:"total_points"`
	SpentPoints int       `json:"spent_points"`
}

// RemainingPoints is total minus spent.
func (l *BudgetLedger) RemainingPoints() int {
	return l.TotalPoints - l.SpentPoints
}

// TeamBudget is the budget summary returned to callers after a mutation.
type TeamBudget struct {
	PointsUsed      int `json:"points_used"`
	BudgetRemaining int `json:"budget_remaining"`
	SlotsUsed       int `json:"slots_used"`
	SlotsRemaining  int `json:"slots_remaining"`
}

// NewTeamBudget builds the summary from a ledger row and the team's roster size.
func NewTeamBudget(l *BudgetLedger, slotsUsed, maxSlots int) TeamBudget {
	remainingSlots := maxSlots - slotsUsed
	if remainingSlots < 0 {
		remainingSlots = 0
	}
	return TeamBudget{
		PointsUsed:      l.SpentPoints,
		BudgetRemaining: l.RemainingPoints(),
		SlotsUsed:       slotsUsed,
		SlotsRemaining:  remainingSlots,
	}
}
