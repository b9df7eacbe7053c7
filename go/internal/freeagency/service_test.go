package freeagency

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"connectrpc.com/connect"
	"github.com/google/uuid"
	freeagencyv1 "github.com/mcdev12/draftleague/go/internal/api/freeagency/v1"
	"github.com/mcdev12/draftleague/go/internal/api/freeagency/v1/freeagencyv1connect"
	"github.com/mcdev12/draftleague/go/internal/authz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, f *fixture) *freeagencyv1connect.FreeAgencyServiceClient {
	t.Helper()
	mux := http.NewServeMux()
	mux.Handle(freeagencyv1connect.NewFreeAgencyServiceHandler(NewService(f.app), connect.WithInterceptors(authz.NewInterceptor())))
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return freeagencyv1connect.NewFreeAgencyServiceClient(srv.Client(), srv.URL)
}

func withCaller[T any](msg *T, role string, team *uuid.UUID) *connect.Request[T] {
	req := connect.NewRequest(msg)
	if role != "" {
		req.Header().Set(authz.HeaderRole, role)
	}
	if team != nil {
		req.Header().Set(authz.HeaderTeamID, team.String())
	}
	return req
}

func metaCode(t *testing.T, err error) (string, string) {
	t.Helper()
	var cerr *connect.Error
	require.True(t, errors.As(err, &cerr), "expected connect error, got %v", err)
	return cerr.Meta().Get("Error-Code"), cerr.Meta().Get("Error-Http-Status")
}

func TestServiceCommitTransaction(t *testing.T) {
	f := newFixture(t, nil)
	client := newTestClient(t, f)
	ctx := context.Background()

	resp, err := client.CommitTransaction(ctx, withCaller(&freeagencyv1.CommitTransactionRequest{
		SeasonID:        f.season,
		TeamID:          f.teamA,
		DropCandidateID: f.id("X"),
		AddCandidateID:  f.id("Y"),
	}, "", &f.teamA))
	require.NoError(t, err)
	assert.Equal(t, 55, resp.Msg.Result.Budget.PointsUsed)
	assert.Equal(t, 65, resp.Msg.Result.Budget.BudgetRemaining)

	txn, err := client.GetTransaction(ctx, withCaller(&freeagencyv1.GetTransactionRequest{TransactionID: resp.Msg.Result.TransactionID}, "", &f.teamA))
	require.NoError(t, err)
	assert.Equal(t, "coach:"+f.teamA.String(), txn.Msg.Transaction.CreatedBy)

	_, err = client.GetTransaction(ctx, withCaller(&freeagencyv1.GetTransactionRequest{TransactionID: resp.Msg.Result.TransactionID}, "", &f.teamB))
	require.Error(t, err)
	code, _ := metaCode(t, err)
	assert.Equal(t, "FORBIDDEN", code)
}

func TestServiceErrorMetadata(t *testing.T) {
	f := newFixture(t, nil)
	client := newTestClient(t, f)

	_, err := client.CommitTransaction(context.Background(), withCaller(&freeagencyv1.CommitTransactionRequest{
		SeasonID:       f.season,
		TeamID:         f.teamA,
		AddCandidateID: f.id("Big"),
	}, "", &f.teamA))
	require.Error(t, err)
	assert.Equal(t, connect.CodeFailedPrecondition, connect.CodeOf(err))
	code, status := metaCode(t, err)
	assert.Equal(t, "BUDGET_EXCEEDED", code)
	assert.Equal(t, "422", status)
}

func TestServiceQueueRequiresAdmin(t *testing.T) {
	f := newFixture(t, nil)
	client := newTestClient(t, f)
	ctx := context.Background()

	submitted, err := client.SubmitTransaction(ctx, withCaller(&freeagencyv1.SubmitTransactionRequest{
		TeamID:         f.teamA,
		SeasonID:       f.season,
		Type:           "addition",
		AddCandidateID: f.id("Z"),
	}, "", &f.teamA))
	require.NoError(t, err)
	id := submitted.Msg.Transaction.ID

	_, err = client.ProcessTransaction(ctx, withCaller(&freeagencyv1.ProcessTransactionRequest{TransactionID: id}, "", &f.teamA))
	require.Error(t, err)
	assert.Equal(t, connect.CodePermissionDenied, connect.CodeOf(err))

	_, err = client.ApproveTransaction(ctx, withCaller(&freeagencyv1.ApproveTransactionRequest{TransactionID: id}, authz.RoleAdmin, nil))
	require.NoError(t, err)
	processed, err := client.ProcessTransaction(ctx, withCaller(&freeagencyv1.ProcessTransactionRequest{TransactionID: id}, authz.RoleAdmin, nil))
	require.NoError(t, err)
	assert.Equal(t, 3, processed.Msg.Result.Budget.SlotsUsed)

	_, err = client.ListTransactions(ctx, withCaller(&freeagencyv1.ListTransactionsRequest{SeasonID: &f.season}, "", &f.teamA))
	require.Error(t, err)
	listed, err := client.ListTransactions(ctx, withCaller(&freeagencyv1.ListTransactionsRequest{TeamID: &f.teamA, Status: "processed"}, "", &f.teamA))
	require.NoError(t, err)
	assert.Len(t, listed.Msg.Transactions, 1)

	status, err := client.GetTeamStatus(ctx, withCaller(&freeagencyv1.GetTeamStatusRequest{TeamID: f.teamA, SeasonID: f.season}, "", &f.teamA))
	require.NoError(t, err)
	assert.Equal(t, 1, status.Msg.TransactionCount)
}
