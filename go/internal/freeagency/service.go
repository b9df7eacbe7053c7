package freeagency

import (
	"context"

	"connectrpc.com/connect"
	"github.com/google/uuid"
	freeagencyv1 "github.com/mcdev12/draftleague/go/internal/api/freeagency/v1"
	"github.com/mcdev12/draftleague/go/internal/api/freeagency/v1/freeagencyv1connect"
	"github.com/mcdev12/draftleague/go/internal/authz"
	"github.com/mcdev12/draftleague/go/internal/drafterr"
	"github.com/mcdev12/draftleague/go/internal/models"
	"github.com/mcdev12/draftleague/go/internal/store"
)

// FreeAgencyApp defines what the service layer needs from the free-agency application
type FreeAgencyApp interface {
	SubmitTransaction(ctx context.Context, req SubmitRequest) (*models.FreeAgencyTransaction, error)
	ApproveTransaction(ctx context.Context, id uuid.UUID) (*models.FreeAgencyTransaction, error)
	RejectTransaction(ctx context.Context, id uuid.UUID, notes string) (*models.FreeAgencyTransaction, error)
	ProcessTransaction(ctx context.Context, id uuid.UUID) (*CommitResult, error)
	Commit(ctx context.Context, req CommitRequest) (*CommitResult, error)
	GetTransaction(ctx context.Context, id uuid.UUID) (*models.FreeAgencyTransaction, error)
	ListTransactions(ctx context.Context, filter store.TransactionFilter) ([]models.FreeAgencyTransaction, error)
	GetTeamStatus(ctx context.Context, teamID, seasonID uuid.UUID) (*TeamStatus, error)
}

// Service implements the FreeAgencyService connect interface
type Service struct {
	app FreeAgencyApp
}

// NewService creates a new free-agency service
func NewService(app FreeAgencyApp) *Service {
	return &Service{app: app}
}

// Verify that Service implements the FreeAgencyServiceHandler interface
var _ freeagencyv1connect.FreeAgencyServiceHandler = (*Service)(nil)

func (s *Service) SubmitTransaction(ctx context.Context, req *connect.Request[freeagencyv1.SubmitTransactionRequest]) (*connect.Response[freeagencyv1.SubmitTransactionResponse], error) {
	if err := authz.RequireTeam(ctx, req.Msg.TeamID); err != nil {
		return nil, drafterr.ToConnect(err)
	}

	txn, err := s.app.SubmitTransaction(ctx, SubmitRequest{
		TeamID:          req.Msg.TeamID,
		SeasonID:        req.Msg.SeasonID,
		Type:            models.TransactionType(req.Msg.Type),
		AddCandidateID:  req.Msg.AddCandidateID,
		DropCandidateID: req.Msg.DropCandidateID,
		Notes:           req.Msg.Notes,
		CreatedBy:       createdBy(ctx),
	})
	if err != nil {
		return nil, drafterr.ToConnect(err)
	}
	return connect.NewResponse(&freeagencyv1.SubmitTransactionResponse{Transaction: txn}), nil
}

func (s *Service) ApproveTransaction(ctx context.Context, req *connect.Request[freeagencyv1.ApproveTransactionRequest]) (*connect.Response[freeagencyv1.ApproveTransactionResponse], error) {
	if err := authz.RequireAdmin(ctx); err != nil {
		return nil, drafterr.ToConnect(err)
	}
	txn, err := s.app.ApproveTransaction(ctx, req.Msg.TransactionID)
	if err != nil {
		return nil, drafterr.ToConnect(err)
	}
	return connect.NewResponse(&freeagencyv1.ApproveTransactionResponse{Transaction: txn}), nil
}

func (s *Service) RejectTransaction(ctx context.Context, req *connect.Request[freeagencyv1.RejectTransactionRequest]) (*connect.Response[freeagencyv1.RejectTransactionResponse], error) {
	if err := authz.RequireAdmin(ctx); err != nil {
		return nil, drafterr.ToConnect(err)
	}
	txn, err := s.app.RejectTransaction(ctx, req.Msg.TransactionID, req.Msg.Notes)
	if err != nil {
		return nil, drafterr.ToConnect(err)
	}
	return connect.NewResponse(&freeagencyv1.RejectTransactionResponse{Transaction: txn}), nil
}

func (s *Service) ProcessTransaction(ctx context.Context, req *connect.Request[freeagencyv1.ProcessTransactionRequest]) (*connect.Response[freeagencyv1.ProcessTransactionResponse], error) {
	if err := authz.RequireAdmin(ctx); err != nil {
		return nil, drafterr.ToConnect(err)
	}
	result, err := s.app.ProcessTransaction(ctx, req.Msg.TransactionID)
	if err != nil {
		return nil, drafterr.ToConnect(err)
	}
	return connect.NewResponse(&freeagencyv1.ProcessTransactionResponse{Result: resultToWire(result)}), nil
}

func (s *Service) CommitTransaction(ctx context.Context, req *connect.Request[freeagencyv1.CommitTransactionRequest]) (*connect.Response[freeagencyv1.CommitTransactionResponse], error) {
	if err := authz.RequireTeam(ctx, req.Msg.TeamID); err != nil {
		return nil, drafterr.ToConnect(err)
	}

	result, err := s.app.Commit(ctx, CommitRequest{
		SeasonID:        req.Msg.SeasonID,
		TeamID:          req.Msg.TeamID,
		DropCandidateID: req.Msg.DropCandidateID,
		AddCandidateID:  req.Msg.AddCandidateID,
		Notes:           req.Msg.Notes,
		CreatedBy:       createdBy(ctx),
	})
	if err != nil {
		return nil, drafterr.ToConnect(err)
	}
	return connect.NewResponse(&freeagencyv1.CommitTransactionResponse{Result: resultToWire(result)}), nil
}

func (s *Service) GetTransaction(ctx context.Context, req *connect.Request[freeagencyv1.GetTransactionRequest]) (*connect.Response[freeagencyv1.GetTransactionResponse], error) {
	txn, err := s.app.GetTransaction(ctx, req.Msg.TransactionID)
	if err != nil {
		return nil, drafterr.ToConnect(err)
	}
	if err := authz.RequireTeam(ctx, txn.TeamID); err != nil {
		return nil, drafterr.ToConnect(err)
	}
	return connect.NewResponse(&freeagencyv1.GetTransactionResponse{Transaction: txn}), nil
}

// ListTransactions lists a team's transactions. Only admins may list across teams.
func (s *Service) ListTransactions(ctx context.Context, req *connect.Request[freeagencyv1.ListTransactionsRequest]) (*connect.Response[freeagencyv1.ListTransactionsResponse], error) {
	if req.Msg.TeamID == nil {
		if err := authz.RequireAdmin(ctx); err != nil {
			return nil, drafterr.ToConnect(err)
		}
	} else if err := authz.RequireTeam(ctx, *req.Msg.TeamID); err != nil {
		return nil, drafterr.ToConnect(err)
	}

	filter := store.TransactionFilter{
		TeamID:   req.Msg.TeamID,
		SeasonID: req.Msg.SeasonID,
		Limit:    req.Msg.Limit,
	}
	if req.Msg.Status != "" {
		status := models.TransactionStatus(req.Msg.Status)
		filter.Status = &status
	}

	txns, err := s.app.ListTransactions(ctx, filter)
	if err != nil {
		return nil, drafterr.ToConnect(err)
	}
	return connect.NewResponse(&freeagencyv1.ListTransactionsResponse{Transactions: txns}), nil
}

func (s *Service) GetTeamStatus(ctx context.Context, req *connect.Request[freeagencyv1.GetTeamStatusRequest]) (*connect.Response[freeagencyv1.GetTeamStatusResponse], error) {
	if err := authz.RequireTeam(ctx, req.Msg.TeamID); err != nil {
		return nil, drafterr.ToConnect(err)
	}
	status, err := s.app.GetTeamStatus(ctx, req.Msg.TeamID, req.Msg.SeasonID)
	if err != nil {
		return nil, drafterr.ToConnect(err)
	}
	return connect.NewResponse(&freeagencyv1.GetTeamStatusResponse{
		Roster:                status.Roster,
		Budget:                status.Budget,
		TransactionCount:      status.TransactionCount,
		RemainingTransactions: status.RemainingTransactions,
	}), nil
}

func resultToWire(r *CommitResult) freeagencyv1.CommitResult {
	return freeagencyv1.CommitResult{
		TransactionID: r.TransactionID,
		DroppedPickID: r.DroppedPickID,
		AddedPickID:   r.AddedPickID,
		Budget:        r.Budget,
	}
}

// createdBy names the caller for the transaction record.
func createdBy(ctx context.Context) string {
	c, ok := authz.FromContext(ctx)
	if !ok {
		return ""
	}
	if c.TeamID != nil {
		return c.Role + ":" + c.TeamID.String()
	}
	return c.Role
}
