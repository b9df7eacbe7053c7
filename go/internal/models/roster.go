package models

import (
	"github.com/google/uuid"
)

// AcquisitionType represents how a candidate joined a roster
type AcquisitionType string

const (
	AcquisitionTypeDraft     AcquisitionType = "DRAFT"
	AcquisitionTypeFreeAgent AcquisitionType = "FREE_AGENT"
)

// RosterEntry is a candidate currently owned by a team.
type RosterEntry struct {
	CandidateID uuid.UUID `json:"candidate_id"`
	Name        string    `json:"name"`
	PointValue  int       `json:"point_value"`
}

// RosterFromCandidates converts owned candidates into roster entries.
func RosterFromCandidates(candidates []Candidate) []RosterEntry {
	entries := make([]RosterEntry, 0, len(candidates))
	for _, c := range candidates {
		entry := RosterEntry{CandidateID: c.ID, Name: c.Name}
		if c.PointValue != nil {
			entry.PointValue = *c.PointValue
		}
		entries = append(entries, entry)
	}
	return entries
}
