// Package freeagencyv1connect wires the free-agency service onto connect handlers and clients.
package freeagencyv1connect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
	v1 "github.com/mcdev12/draftleague/go/internal/api/freeagency/v1"
	"github.com/mcdev12/draftleague/go/internal/rpcjson"
)

// FreeAgencyServiceName is the fully-qualified name of the FreeAgencyService service.
const FreeAgencyServiceName = "draftleague.freeagency.v1.FreeAgencyService"

const (
	FreeAgencyServiceSubmitTransactionProcedure  = "/draftleague.freeagency.v1.FreeAgencyService/SubmitTransaction"
	FreeAgencyServiceApproveTransactionProcedure = "/draftleague.freeagency.v1.FreeAgencyService/ApproveTransaction"
	FreeAgencyServiceRejectTransactionProcedure  = "/draftleague.freeagency.v1.FreeAgencyService/RejectTransaction"
	FreeAgencyServiceProcessTransactionProcedure = "/draftleague.freeagency.v1.FreeAgencyService/ProcessTransaction"
	FreeAgencyServiceCommitTransactionProcedure  = "/draftleague.freeagency.v1.FreeAgencyService/CommitTransaction"
	FreeAgencyServiceGetTransactionProcedure     = "/draftleague.freeagency.v1.FreeAgencyService/GetTransaction"
	FreeAgencyServiceListTransactionsProcedure   = "/draftleague.freeagency.v1.FreeAgencyService/ListTransactions"
	FreeAgencyServiceGetTeamStatusProcedure      = "/draftleague.freeagency.v1.FreeAgencyService/GetTeamStatus"
)

// FreeAgencyServiceHandler is implemented by the free-agency service.
type FreeAgencyServiceHandler interface {
	SubmitTransaction(context.Context, *connect.Request[v1.SubmitTransactionRequest]) (*connect.Response[v1.SubmitTransactionResponse], error)
	ApproveTransaction(context.Context, *connect.Request[v1.ApproveTransactionRequest]) (*connect.Response[v1.ApproveTransactionResponse], error)
	RejectTransaction(context.Context, *connect.Request[v1.RejectTransactionRequest]) (*connect.Response[v1.RejectTransactionResponse], error)
	ProcessTransaction(context.Context, *connect.Request[v1.ProcessTransactionRequest]) (*connect.Response[v1.ProcessTransactionResponse], error)
	CommitTransaction(context.Context, *connect.Request[v1.CommitTransactionRequest]) (*connect.Response[v1.CommitTransactionResponse], error)
	GetTransaction(context.Context, *connect.Request[v1.GetTransactionRequest]) (*connect.Response[v1.GetTransactionResponse], error)
	ListTransactions(context.Context, *connect.Request[v1.ListTransactionsRequest]) (*connect.Response[v1.ListTransactionsResponse], error)
	GetTeamStatus(context.Context, *connect.Request[v1.GetTeamStatusRequest]) (*connect.Response[v1.GetTeamStatusResponse], error)
}

// NewFreeAgencyServiceHandler returns the mount path and handler for svc.
func NewFreeAgencyServiceHandler(svc FreeAgencyServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{rpcjson.WithCodec()}, opts...)
	handlers := map[string]http.Handler{
		FreeAgencyServiceSubmitTransactionProcedure:  connect.NewUnaryHandler(FreeAgencyServiceSubmitTransactionProcedure, svc.SubmitTransaction, opts...),
		FreeAgencyServiceApproveTransactionProcedure: connect.NewUnaryHandler(FreeAgencyServiceApproveTransactionProcedure, svc.ApproveTransaction, opts...),
		FreeAgencyServiceRejectTransactionProcedure:  connect.NewUnaryHandler(FreeAgencyServiceRejectTransactionProcedure, svc.RejectTransaction, opts...),
		FreeAgencyServiceProcessTransactionProcedure: connect.NewUnaryHandler(FreeAgencyServiceProcessTransactionProcedure, svc.ProcessTransaction, opts...),
		FreeAgencyServiceCommitTransactionProcedure:  connect.NewUnaryHandler(FreeAgencyServiceCommitTransactionProcedure, svc.CommitTransaction, opts...),
		FreeAgencyServiceGetTransactionProcedure:     connect.NewUnaryHandler(FreeAgencyServiceGetTransactionProcedure, svc.GetTransaction, opts...),
		FreeAgencyServiceListTransactionsProcedure:   connect.NewUnaryHandler(FreeAgencyServiceListTransactionsProcedure, svc.ListTransactions, opts...),
		FreeAgencyServiceGetTeamStatusProcedure:      connect.NewUnaryHandler(FreeAgencyServiceGetTeamStatusProcedure, svc.GetTeamStatus, opts...),
	}
	return "/" + FreeAgencyServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h, ok := handlers[r.URL.Path]; ok {
			h.ServeHTTP(w, r)
			return
		}
		http.NotFound(w, r)
	})
}

// FreeAgencyServiceClient calls the free-agency service.
type FreeAgencyServiceClient struct {
	submitTransaction  *connect.Client[v1.SubmitTransactionRequest, v1.SubmitTransactionResponse]
	approveTransaction *connect.Client[v1.ApproveTransactionRequest, v1.ApproveTransactionResponse]
	rejectTransaction  *connect.Client[v1.RejectTransactionRequest, v1.RejectTransactionResponse]
	processTransaction *connect.Client[v1.ProcessTransactionRequest, v1.ProcessTransactionResponse]
	commitTransaction  *connect.Client[v1.CommitTransactionRequest, v1.CommitTransactionResponse]
	getTransaction     *connect.Client[v1.GetTransactionRequest, v1.GetTransactionResponse]
	listTransactions   *connect.Client[v1.ListTransactionsRequest, v1.ListTransactionsResponse]
	getTeamStatus      *connect.Client[v1.GetTeamStatusRequest, v1.GetTeamStatusResponse]
}

// NewFreeAgencyServiceClient creates a client for the service at baseURL.
func NewFreeAgencyServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *FreeAgencyServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{rpcjson.WithCodec()}, opts...)
	return &FreeAgencyServiceClient{
		submitTransaction:  connect.NewClient[v1.SubmitTransactionRequest, v1.SubmitTransactionResponse](httpClient, baseURL+FreeAgencyServiceSubmitTransactionProcedure, opts...),
		approveTransaction: connect.NewClient[v1.ApproveTransactionRequest, v1.ApproveTransactionResponse](httpClient, baseURL+FreeAgencyServiceApproveTransactionProcedure, opts...),
		rejectTransaction:  connect.NewClient[v1.RejectTransactionRequest, v1.RejectTransactionResponse](httpClient, baseURL+FreeAgencyServiceRejectTransactionProcedure, opts...),
		processTransaction: connect.NewClient[v1.ProcessTransactionRequest, v1.ProcessTransactionResponse](httpClient, baseURL+FreeAgencyServiceProcessTransactionProcedure, opts...),
		commitTransaction:  connect.NewClient[v1.CommitTransactionRequest, v1.CommitTransactionResponse](httpClient, baseURL+FreeAgencyServiceCommitTransactionProcedure, opts...),
		getTransaction:     connect.NewClient[v1.GetTransactionRequest, v1.GetTransactionResponse](httpClient, baseURL+FreeAgencyServiceGetTransactionProcedure, opts...),
		listTransactions:   connect.NewClient[v1.ListTransactionsRequest, v1.ListTransactionsResponse](httpClient, baseURL+FreeAgencyServiceListTransactionsProcedure, opts...),
		getTeamStatus:      connect.NewClient[v1.GetTeamStatusRequest, v1.GetTeamStatusResponse](httpClient, baseURL+FreeAgencyServiceGetTeamStatusProcedure, opts...),
	}
}

func (c *FreeAgencyServiceClient) SubmitTransaction(ctx context.Context, req *connect.Request[v1.SubmitTransactionRequest]) (*connect.Response[v1.SubmitTransactionResponse], error) {
	return c.submitTransaction.CallUnary(ctx, req)
}

func (c *FreeAgencyServiceClient) ApproveTransaction(ctx context.Context, req *connect.Request[v1.ApproveTransactionRequest]) (*connect.Response[v1.ApproveTransactionResponse], error) {
	return c.approveTransaction.CallUnary(ctx, req)
}

func (c *FreeAgencyServiceClient) RejectTransaction(ctx context.Context, req *connect.Request[v1.RejectTransactionRequest]) (*connect.Response[v1.RejectTransactionResponse], error) {
	return c.rejectTransaction.CallUnary(ctx, req)
}

func (c *FreeAgencyServiceClient) ProcessTransaction(ctx context.Context, req *connect.Request[v1.ProcessTransactionRequest]) (*connect.Response[v1.ProcessTransactionResponse], error) {
	return c.processTransaction.CallUnary(ctx, req)
}

func (c *FreeAgencyServiceClient) CommitTransaction(ctx context.Context, req *connect.Request[v1.CommitTransactionRequest]) (*connect.Response[v1.CommitTransactionResponse], error) {
	return c.commitTransaction.CallUnary(ctx, req)
}

func (c *FreeAgencyServiceClient) GetTransaction(ctx context.Context, req *connect.Request[v1.GetTransactionRequest]) (*connect.Response[v1.GetTransactionResponse], error) {
	return c.getTransaction.CallUnary(ctx, req)
}

func (c *FreeAgencyServiceClient) ListTransactions(ctx context.Context, req *connect.Request[v1.ListTransactionsRequest]) (*connect.Response[v1.ListTransactionsResponse], error) {
	return c.listTransactions.CallUnary(ctx, req)
}

func (c *FreeAgencyServiceClient) GetTeamStatus(ctx context.Context, req *connect.Request[v1.GetTeamStatusRequest]) (*connect.Response[v1.GetTeamStatusResponse], error) {
	return c.getTeamStatus.CallUnary(ctx, req)
}
