package models

import (
	"time"

	"github.com/google/uuid"
)

// FreeAgencyRound marks roster records created by free agency rather than the draft.
const FreeAgencyRound = 99

// DraftPick is an immutable record of a candidate joining a team's roster.
type DraftPick struct {
	ID              uuid.UUID       `json:"id"`
	SessionID       *uuid.UUID      `json:"session_id,omitempty"`
	SeasonID        uuid.UUID       `json:"season_id"`
	TeamID          uuid.UUID       `json:"team_id"`
	CandidateID     uuid.UUID       `json:"candidate_id"`
	CandidateName   string          `json:"candidate_name"`
	Round           int             `json:"round"`
	PickNumber      int             `json:"pick_number"` // overall; 0 for free agency
	PointsCharged   int             `json:"points_charged"`
	AcquisitionType AcquisitionType `json:"acquisition_type"`
	PickedAt        time.Time       `json:"picked_at"`
}
