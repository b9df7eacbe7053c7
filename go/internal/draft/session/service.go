package session

import (
	"context"

	"connectrpc.com/connect"
	"github.com/google/uuid"
	draftv1 "github.com/mcdev12/draftleague/go/internal/api/draft/v1"
	"github.com/mcdev12/draftleague/go/internal/api/draft/v1/draftv1connect"
	"github.com/mcdev12/draftleague/go/internal/authz"
	"github.com/mcdev12/draftleague/go/internal/draft/turnorder"
	"github.com/mcdev12/draftleague/go/internal/drafterr"
	"github.com/mcdev12/draftleague/go/internal/models"
)

// SessionApp defines what the service layer needs from the session application
type SessionApp interface {
	CreateSession(ctx context.Context, req CreateSessionRequest) (*CreateSessionResult, error)
	GetSession(ctx context.Context, id uuid.UUID) (*models.DraftSession, error)
	GetStatus(ctx context.Context, seasonID uuid.UUID) (*Status, error)
	CompleteSession(ctx context.Context, id uuid.UUID) (*models.DraftSession, error)
	CancelSession(ctx context.Context, id uuid.UUID, reason string) (*models.DraftSession, error)
}

// Service implements the SessionService connect interface
type Service struct {
	app SessionApp
}

// NewService creates a new session service
func NewService(app SessionApp) *Service {
	return &Service{app: app}
}

// Verify that Service implements the SessionServiceHandler interface
var _ draftv1connect.SessionServiceHandler = (*Service)(nil)

// CreateSession starts a draft. Admin only.
func (s *Service) CreateSession(ctx context.Context, req *connect.Request[draftv1.CreateSessionRequest]) (*connect.Response[draftv1.CreateSessionResponse], error) {
	if err := authz.RequireAdmin(ctx); err != nil {
		return nil, drafterr.ToConnect(err)
	}

	result, err := s.app.CreateSession(ctx, CreateSessionRequest{
		SeasonID:         req.Msg.SeasonID,
		TeamIDs:          req.Msg.TeamIDs,
		DraftType:        models.DraftType(req.Msg.DraftType),
		PickTimeLimitSec: req.Msg.PickTimeLimitSec,
		TotalRounds:      req.Msg.TotalRounds,
		TotalPoints:      req.Msg.TotalPoints,
		AutoDraftEnabled: req.Msg.AutoDraftEnabled,
		DraftWindow:      req.Msg.DraftWindow,
	})
	if err != nil {
		return nil, drafterr.ToConnect(err)
	}

	return connect.NewResponse(&draftv1.CreateSessionResponse{
		Session: result.Session,
		Created: result.Created,
	}), nil
}

// GetSession retrieves a session by ID
func (s *Service) GetSession(ctx context.Context, req *connect.Request[draftv1.GetSessionRequest]) (*connect.Response[draftv1.GetSessionResponse], error) {
	sess, err := s.app.GetSession(ctx, req.Msg.SessionID)
	if err != nil {
		return nil, drafterr.ToConnect(err)
	}
	return connect.NewResponse(&draftv1.GetSessionResponse{Session: sess}), nil
}

// GetDraftStatus returns the season's active session and whose turn it is
func (s *Service) GetDraftStatus(ctx context.Context, req *connect.Request[draftv1.GetDraftStatusRequest]) (*connect.Response[draftv1.GetDraftStatusResponse], error) {
	status, err := s.app.GetStatus(ctx, req.Msg.SeasonID)
	if err != nil {
		return nil, drafterr.ToConnect(err)
	}
	return connect.NewResponse(&draftv1.GetDraftStatusResponse{
		Session:     status.Session,
		CurrentTurn: turnToWire(status.CurrentTurn),
		NextTurn:    turnToWire(status.NextTurn),
	}), nil
}

// CompleteSession ends a session early. Admin only.
func (s *Service) CompleteSession(ctx context.Context, req *connect.Request[draftv1.CompleteSessionRequest]) (*connect.Response[draftv1.CompleteSessionResponse], error) {
	if err := authz.RequireAdmin(ctx); err != nil {
		return nil, drafterr.ToConnect(err)
	}
	sess, err := s.app.CompleteSession(ctx, req.Msg.SessionID)
	if err != nil {
		return nil, drafterr.ToConnect(err)
	}
	return connect.NewResponse(&draftv1.CompleteSessionResponse{Session: sess}), nil
}

// CancelSession aborts a session. Admin only.
func (s *Service) CancelSession(ctx context.Context, req *connect.Request[draftv1.CancelSessionRequest]) (*connect.Response[draftv1.CancelSessionResponse], error) {
	if err := authz.RequireAdmin(ctx); err != nil {
		return nil, drafterr.ToConnect(err)
	}
	sess, err := s.app.CancelSession(ctx, req.Msg.SessionID, req.Msg.Reason)
	if err != nil {
		return nil, drafterr.ToConnect(err)
	}
	return connect.NewResponse(&draftv1.CancelSessionResponse{Session: sess}), nil
}

func turnToWire(t *turnorder.Turn) *draftv1.Turn {
	if t == nil {
		return nil
	}
	return &draftv1.Turn{
		PickNumber: t.PickNumber,
		Round:      t.Round,
		TeamID:     t.TeamID,
	}
}
