// Package rules loads the league rules that parameterize drafts and free agency.
package rules

import (
	"errors"
	"fmt"
	"os"

	"github.com/mcdev12/draftleague/go/internal/models"
	"gopkg.in/yaml.v3"
)

// Draft holds draft session defaults.
type Draft struct {
	TotalPoints        int              `yaml:"total_points"`
	TotalRounds        int              `yaml:"total_rounds"`
	PickTimeLimitSec   int              `yaml:"pick_time_limit_sec"`
	DraftType          models.DraftType `yaml:"draft_type"`
	ShuffleTurnOrder   bool             `yaml:"shuffle_turn_order"`
	RequireDraftWindow bool             `yaml:"require_draft_window"`
}

// Roster holds the allowed roster size.
type Roster struct {
	MinSlots int `yaml:"min_slots"`
	MaxSlots int `yaml:"max_slots"`
}

// FreeAgency holds free-agency limits.
type FreeAgency struct {
	TransactionLimit int `yaml:"transaction_limit"`
}

// Rules is the full league configuration.
type Rules struct {
	Draft      Draft      `yaml:"draft"`
	Roster     Roster     `yaml:"roster"`
	FreeAgency FreeAgency `yaml:"free_agency"`
}

// Default returns the standard league rules.
func Default() Rules {
	return Rules{
		Draft: Draft{
			TotalPoints:      models.DefaultTotalPoints,
			TotalRounds:      11,
			PickTimeLimitSec: 45,
			DraftType:        models.DraftTypeSnake,
			ShuffleTurnOrder: false,
		},
		Roster: Roster{
			MinSlots: 8,
			MaxSlots: 10,
		},
		FreeAgency: FreeAgency{
			TransactionLimit: 10,
		},
	}
}

// Load reads rules from a YAML file on top of Default. A missing file yields
// the defaults.
func Load(path string) (Rules, error) {
	r := Default()
	if path == "" {
		return r, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return r, nil
		}
		return Rules{}, fmt.Errorf("failed to read rules file: %w", err)
	}

	if err := yaml.Unmarshal(data, &r); err != nil {
		return Rules{}, fmt.Errorf("failed to parse rules: %w", err)
	}

	if err := r.Validate(); err != nil {
		return Rules{}, fmt.Errorf("invalid rules in %s: %w", path, err)
	}
	return r, nil
}

// Validate checks the rules are internally consistent.
func (r Rules) Validate() error {
	if r.Draft.TotalPoints < 1 {
		return fmt.Errorf("draft.total_points must be at least 1")
	}
	if r.Draft.TotalRounds < 1 {
		return fmt.Errorf("draft.total_rounds must be at least 1")
	}
	if r.Draft.PickTimeLimitSec < 0 {
		return fmt.Errorf("draft.pick_time_limit_sec cannot be negative")
	}
	if !r.Draft.DraftType.Valid() {
		return fmt.Errorf("draft.draft_type %q is not supported", r.Draft.DraftType)
	}
	if r.Roster.MinSlots < 0 || r.Roster.MaxSlots < 1 {
		return fmt.Errorf("roster slots must be positive")
	}
	if r.Roster.MinSlots > r.Roster.MaxSlots {
		return fmt.Errorf("roster.min_slots (%d) exceeds roster.max_slots (%d)", r.Roster.MinSlots, r.Roster.MaxSlots)
	}
	if r.FreeAgency.TransactionLimit < 0 {
		return fmt.Errorf("free_agency.transaction_limit cannot be negative")
	}
	return nil
}
