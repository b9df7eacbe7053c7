// Package ownership guards exclusive ownership of pool candidates within a
// season. Every state change goes through the repository's ClaimIfStatus, so
// two units racing for the same candidate cannot both win.
package ownership

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mcdev12/draftleague/go/internal/models"
	"github.com/mcdev12/draftleague/go/internal/store"
)

var (
	ErrNotInPool = errors.New("candidate is not in the pool")
	ErrBanned    = errors.New("candidate is banned")
	ErrOwned     = errors.New("candidate is already owned")
	ErrUnpriced  = errors.New("candidate has no point value")
	ErrNotOwned  = errors.New("candidate is not owned by team")
	ErrClaimLost = errors.New("candidate changed owner during claim")
)

// Repository is what the registry needs from a unit of work.
type Repository interface {
	GetCandidate(ctx context.Context, seasonID, candidateID uuid.UUID) (*models.Candidate, error)
	ClaimIfStatus(ctx context.Context, seasonID, candidateID uuid.UUID, expected, next models.Ownership) (bool, error)
}

// Registry applies ownership rules over a Repository.
type Registry struct {
	repo Repository
}

// New creates a Registry bound to repo.
func New(repo Repository) *Registry {
	return &Registry{repo: repo}
}

// Lookup returns the candidate or ErrNotInPool.
func (r *Registry) Lookup(ctx context.Context, seasonID, candidateID uuid.UUID) (*models.Candidate, error) {
	c, err := r.repo.GetCandidate(ctx, seasonID, candidateID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotInPool
		}
		return nil, fmt.Errorf("failed to get candidate: %w", err)
	}
	return c, nil
}

// RequireAvailable returns the candidate if it can be claimed right now:
// present, available and priced.
func (r *Registry) RequireAvailable(ctx context.Context, seasonID, candidateID uuid.UUID) (*models.Candidate, error) {
	c, err := r.Lookup(ctx, seasonID, candidateID)
	if err != nil {
		return nil, err
	}
	switch c.Status {
	case models.CandidateStatusOwned:
		return c, ErrOwned
	case models.CandidateStatusBanned:
		return c, ErrBanned
	}
	if c.PointValue == nil {
		return c, ErrUnpriced
	}
	return c, nil
}

// RequireOwnedBy returns the candidate if team owns it.
func (r *Registry) RequireOwnedBy(ctx context.Context, seasonID, candidateID, teamID uuid.UUID) (*models.Candidate, error) {
	c, err := r.Lookup(ctx, seasonID, candidateID)
	if err != nil {
		if errors.Is(err, ErrNotInPool) {
			return nil, ErrNotOwned
		}
		return nil, err
	}
	if !c.OwnedBy(teamID) {
		return c, ErrNotOwned
	}
	return c, nil
}

// Claim moves the candidate from available to owned by team.
func (r *Registry) Claim(ctx context.Context, seasonID, candidateID, teamID uuid.UUID) error {
	ok, err := r.repo.ClaimIfStatus(ctx, seasonID, candidateID, models.Available(), models.OwnedByTeam(teamID))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotInPool
		}
		return fmt.Errorf("failed to claim candidate: %w", err)
	}
	if !ok {
		return ErrClaimLost
	}
	return nil
}

// Release moves the candidate from owned by team back to available.
func (r *Registry) Release(ctx context.Context, seasonID, candidateID, teamID uuid.UUID) error {
	ok, err := r.repo.ClaimIfStatus(ctx, seasonID, candidateID, models.OwnedByTeam(teamID), models.Available())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotOwned
		}
		return fmt.Errorf("failed to release candidate: %w", err)
	}
	if !ok {
		return ErrNotOwned
	}
	return nil
}
