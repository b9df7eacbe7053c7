package pick

import (
	"context"

	"connectrpc.com/connect"
	"github.com/google/uuid"
	draftv1 "github.com/mcdev12/draftleague/go/internal/api/draft/v1"
	"github.com/mcdev12/draftleague/go/internal/api/draft/v1/draftv1connect"
	"github.com/mcdev12/draftleague/go/internal/authz"
	"github.com/mcdev12/draftleague/go/internal/drafterr"
	"github.com/mcdev12/draftleague/go/internal/models"
	"github.com/mcdev12/draftleague/go/internal/store"
)

// PickApp defines what the service layer needs from the pick application
type PickApp interface {
	MakePick(ctx context.Context, req MakePickRequest) (*MakePickResult, error)
	ListPicks(ctx context.Context, sessionID uuid.UUID) ([]models.DraftPick, error)
	ListAvailableCandidates(ctx context.Context, seasonID uuid.UUID, filter store.CandidateFilter) ([]models.Candidate, error)
	GetTeamStatus(ctx context.Context, teamID, seasonID uuid.UUID) (*TeamStatus, error)
}

// Service implements the PickService connect interface
type Service struct {
	app PickApp
}

// NewService creates a new pick service
func NewService(app PickApp) *Service {
	return &Service{app: app}
}

// Verify that Service implements the PickServiceHandler interface
var _ draftv1connect.PickServiceHandler = (*Service)(nil)

// MakePick makes a draft pick on behalf of the calling team
func (s *Service) MakePick(ctx context.Context, req *connect.Request[draftv1.MakePickRequest]) (*connect.Response[draftv1.MakePickResponse], error) {
	if err := authz.RequireTeam(ctx, req.Msg.TeamID); err != nil {
		return nil, drafterr.ToConnect(err)
	}

	result, err := s.app.MakePick(ctx, MakePickRequest{
		SessionID:     req.Msg.SessionID,
		TeamID:        req.Msg.TeamID,
		CandidateID:   req.Msg.CandidateID,
		CandidateName: req.Msg.CandidateName,
	})
	if err != nil {
		return nil, drafterr.ToConnect(err)
	}

	return connect.NewResponse(&draftv1.MakePickResponse{
		Pick:    result.Pick,
		Budget:  result.Budget,
		Session: result.Session,
	}), nil
}

// ListPicks lists the picks of a session
func (s *Service) ListPicks(ctx context.Context, req *connect.Request[draftv1.ListPicksRequest]) (*connect.Response[draftv1.ListPicksResponse], error) {
	picks, err := s.app.ListPicks(ctx, req.Msg.SessionID)
	if err != nil {
		return nil, drafterr.ToConnect(err)
	}
	return connect.NewResponse(&draftv1.ListPicksResponse{Picks: picks}), nil
}

// ListAvailableCandidates lists candidates still open to draft
func (s *Service) ListAvailableCandidates(ctx context.Context, req *connect.Request[draftv1.ListAvailableCandidatesRequest]) (*connect.Response[draftv1.ListAvailableCandidatesResponse], error) {
	candidates, err := s.app.ListAvailableCandidates(ctx, req.Msg.SeasonID, store.CandidateFilter{
		MinPoints:  req.Msg.MinPoints,
		MaxPoints:  req.Msg.MaxPoints,
		Generation: req.Msg.Generation,
		Search:     req.Msg.Search,
		Limit:      req.Msg.Limit,
	})
	if err != nil {
		return nil, drafterr.ToConnect(err)
	}
	return connect.NewResponse(&draftv1.ListAvailableCandidatesResponse{Candidates: candidates}), nil
}

// GetTeamDraftStatus returns a team's budget, roster and picks
func (s *Service) GetTeamDraftStatus(ctx context.Context, req *connect.Request[draftv1.GetTeamDraftStatusRequest]) (*connect.Response[draftv1.GetTeamDraftStatusResponse], error) {
	if err := authz.RequireTeam(ctx, req.Msg.TeamID); err != nil {
		return nil, drafterr.ToConnect(err)
	}

	status, err := s.app.GetTeamStatus(ctx, req.Msg.TeamID, req.Msg.SeasonID)
	if err != nil {
		return nil, drafterr.ToConnect(err)
	}
	return connect.NewResponse(&draftv1.GetTeamDraftStatusResponse{
		Budget: status.Budget,
		Roster: status.Roster,
		Picks:  status.Picks,
	}), nil
}
