package models

import (
	"github.com/google/uuid"
)

// CandidateStatus is the ownership state of a pool entry within a season.
type CandidateStatus string

const (
	CandidateStatusAvailable CandidateStatus = "available"
	CandidateStatusBanned    CandidateStatus = "banned"
	CandidateStatusOwned     CandidateStatus = "owned"
)

// Candidate is a draftable entity in a season's pool.
type Candidate struct {
	ID          uuid.UUID       `json:"id"`
	SeasonID    uuid.UUID       `json:"season_id"`
	Name        string          `json:"name"`
	PointValue  *int            `json:"point_value,omitempty"` // nil when unpriced
	Generation  *int            `json:"generation,omitempty"`
	Status      CandidateStatus `json:"status"`
	OwnerTeamID *uuid.UUID      `json:"owner_team_id,omitempty"`
}

// Ownership returns the candidate's current compare-and-set value.
func (c *Candidate) Ownership() Ownership {
	return Ownership{Status: c.Status, TeamID: c.OwnerTeamID}
}

// OwnedBy reports whether the candidate is owned by team.
func (c *Candidate) OwnedBy(team uuid.UUID) bool {
	return c.Status == CandidateStatusOwned && c.OwnerTeamID != nil && *c.OwnerTeamID == team
}

// Clone returns a deep copy of the candidate.
func (c *Candidate) Clone() *Candidate {
	if c == nil {
		return nil
	}
	cp := *c
	if c.PointValue != nil {
		v := *c.PointValue
		cp.PointValue = &v
	}
	if c.Generation != nil {
		g := *c.Generation
		cp.Generation = &g
	}
	if c.OwnerTeamID != nil {
		id := *c.OwnerTeamID
		cp.OwnerTeamID = &id
	}
	return &cp
}

// Ownership is the (status, owner) pair guarded by ClaimIfStatus.
type Ownership struct {
	Status CandidateStatus
	TeamID *uuid.UUID
}

// Available is the ownership value of an unowned, unbanned candidate.
func Available() Ownership {
	return Ownership{Status: CandidateStatusAvailable}
}

// OwnedByTeam is the ownership value of a candidate held by team.
func OwnedByTeam(team uuid.UUID) Ownership {
	return Ownership{Status: CandidateStatusOwned, TeamID: &team}
}

// Equal compares status and owner.
func (o Ownership) Equal(other Ownership) bool {
	if o.Status != other.Status {
		return false
	}
	if o.TeamID == nil || other.TeamID == nil {
		return o.TeamID == nil && other.TeamID == nil
	}
	return *o.TeamID == *other.TeamID
}
