// Package draftv1connect wires the draft services onto connect handlers and clients.
package draftv1connect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
	v1 "github.com/mcdev12/draftleague/go/internal/api/draft/v1"
	"github.com/mcdev12/draftleague/go/internal/rpcjson"
)

const (
	// SessionServiceName is the fully-qualified name of the SessionService service.
	SessionServiceName = "draftleague.draft.v1.SessionService"
	// PickServiceName is the fully-qualified name of the PickService service.
	PickServiceName = "draftleague.draft.v1.PickService"
)

const (
	SessionServiceCreateSessionProcedure   = "/draftleague.draft.v1.SessionService/CreateSession"
	SessionServiceGetSessionProcedure      = "/draftleague.draft.v1.SessionService/GetSession"
	SessionServiceGetDraftStatusProcedure  = "/draftleague.draft.v1.SessionService/GetDraftStatus"
	SessionServiceCompleteSessionProcedure = "/draftleague.draft.v1.SessionService/CompleteSession"
	SessionServiceCancelSessionProcedure   = "/draftleague.draft.v1.SessionService/CancelSession"

	PickServiceMakePickProcedure                = "/draftleague.draft.v1.PickService/MakePick"
	PickServiceListPicksProcedure               = "/draftleague.draft.v1.PickService/ListPicks"
	PickServiceListAvailableCandidatesProcedure = "/draftleague.draft.v1.PickService/ListAvailableCandidates"
	PickServiceGetTeamDraftStatusProcedure      = "/draftleague.draft.v1.PickService/GetTeamDraftStatus"
)

// SessionServiceHandler is implemented by the session service.
type SessionServiceHandler interface {
	CreateSession(context.Context, *connect.Request[v1.CreateSessionRequest]) (*connect.Response[v1.CreateSessionResponse], error)
	GetSession(context.Context, *connect.Request[v1.GetSessionRequest]) (*connect.Response[v1.GetSessionResponse], error)
	GetDraftStatus(context.Context, *connect.Request[v1.GetDraftStatusRequest]) (*connect.Response[v1.GetDraftStatusResponse], error)
	CompleteSession(context.Context, *connect.Request[v1.CompleteSessionRequest]) (*connect.Response[v1.CompleteSessionResponse], error)
	CancelSession(context.Context, *connect.Request[v1.CancelSessionRequest]) (*connect.Response[v1.CancelSessionResponse], error)
}

// PickServiceHandler is implemented by the pick service.
type PickServiceHandler interface {
	MakePick(context.Context, *connect.Request[v1.MakePickRequest]) (*connect.Response[v1.MakePickResponse], error)
	ListPicks(context.Context, *connect.Request[v1.ListPicksRequest]) (*connect.Response[v1.ListPicksResponse], error)
	ListAvailableCandidates(context.Context, *connect.Request[v1.ListAvailableCandidatesRequest]) (*connect.Response[v1.ListAvailableCandidatesResponse], error)
	GetTeamDraftStatus(context.Context, *connect.Request[v1.GetTeamDraftStatusRequest]) (*connect.Response[v1.GetTeamDraftStatusResponse], error)
}

func handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{rpcjson.WithCodec()}, opts...)
}

func clientOptions(opts []connect.ClientOption) []connect.ClientOption {
	return append([]connect.ClientOption{rpcjson.WithCodec()}, opts...)
}

func route(handlers map[string]http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h, ok := handlers[r.URL.Path]; ok {
			h.ServeHTTP(w, r)
			return
		}
		http.NotFound(w, r)
	})
}

// NewSessionServiceHandler returns the mount path and handler for svc.
func NewSessionServiceHandler(svc SessionServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return "/" + SessionServiceName + "/", route(map[string]http.Handler{
		SessionServiceCreateSessionProcedure:   connect.NewUnaryHandler(SessionServiceCreateSessionProcedure, svc.CreateSession, opts...),
		SessionServiceGetSessionProcedure:      connect.NewUnaryHandler(SessionServiceGetSessionProcedure, svc.GetSession, opts...),
		SessionServiceGetDraftStatusProcedure:  connect.NewUnaryHandler(SessionServiceGetDraftStatusProcedure, svc.GetDraftStatus, opts...),
		SessionServiceCompleteSessionProcedure: connect.NewUnaryHandler(SessionServiceCompleteSessionProcedure, svc.CompleteSession, opts...),
		SessionServiceCancelSessionProcedure:   connect.NewUnaryHandler(SessionServiceCancelSessionProcedure, svc.CancelSession, opts...),
	})
}

// NewPickServiceHandler returns the mount path and handler for svc.
func NewPickServiceHandler(svc PickServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return "/" + PickServiceName + "/", route(map[string]http.Handler{
		PickServiceMakePickProcedure:                connect.NewUnaryHandler(PickServiceMakePickProcedure, svc.MakePick, opts...),
		PickServiceListPicksProcedure:               connect.NewUnaryHandler(PickServiceListPicksProcedure, svc.ListPicks, opts...),
		PickServiceListAvailableCandidatesProcedure: connect.NewUnaryHandler(PickServiceListAvailableCandidatesProcedure, svc.ListAvailableCandidates, opts...),
		PickServiceGetTeamDraftStatusProcedure:      connect.NewUnaryHandler(PickServiceGetTeamDraftStatusProcedure, svc.GetTeamDraftStatus, opts...),
	})
}

// SessionServiceClient calls the session service.
type SessionServiceClient struct {
	createSession   *connect.Client[v1.CreateSessionRequest, v1.CreateSessionResponse]
	getSession      *connect.Client[v1.GetSessionRequest, v1.GetSessionResponse]
	getDraftStatus  *connect.Client[v1.GetDraftStatusRequest, v1.GetDraftStatusResponse]
	completeSession *connect.Client[v1.CompleteSessionRequest, v1.CompleteSessionResponse]
	cancelSession   *connect.Client[v1.CancelSessionRequest, v1.CancelSessionResponse]
}

// NewSessionServiceClient creates a client for the service at baseURL.
func NewSessionServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *SessionServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &SessionServiceClient{
		createSession:   connect.NewClient[v1.CreateSessionRequest, v1.CreateSessionResponse](httpClient, baseURL+SessionServiceCreateSessionProcedure, opts...),
		getSession:      connect.NewClient[v1.GetSessionRequest, v1.GetSessionResponse](httpClient, baseURL+SessionServiceGetSessionProcedure, opts...),
		getDraftStatus:  connect.NewClient[v1.GetDraftStatusRequest, v1.GetDraftStatusResponse](httpClient, baseURL+SessionServiceGetDraftStatusProcedure, opts...),
		completeSession: connect.NewClient[v1.CompleteSessionRequest, v1.CompleteSessionResponse](httpClient, baseURL+SessionServiceCompleteSessionProcedure, opts...),
		cancelSession:   connect.NewClient[v1.CancelSessionRequest, v1.CancelSessionResponse](httpClient, baseURL+SessionServiceCancelSessionProcedure, opts...),
	}
}

func (c *SessionServiceClient) CreateSession(ctx context.Context, req *connect.Request[v1.CreateSessionRequest]) (*connect.Response[v1.CreateSessionResponse], error) {
	return c.createSession.CallUnary(ctx, req)
}

func (c *SessionServiceClient) GetSession(ctx context.Context, req *connect.Request[v1.GetSessionRequest]) (*connect.Response[v1.GetSessionResponse], error) {
	return c.getSession.CallUnary(ctx, req)
}

func (c *SessionServiceClient) GetDraftStatus(ctx context.Context, req *connect.Request[v1.GetDraftStatusRequest]) (*connect.Response[v1.GetDraftStatusResponse], error) {
	return c.getDraftStatus.CallUnary(ctx, req)
}

func (c *SessionServiceClient) CompleteSession(ctx context.Context, req *connect.Request[v1.CompleteSessionRequest]) (*connect.Response[v1.CompleteSessionResponse], error) {
	return c.completeSession.CallUnary(ctx, req)
}

func (c *SessionServiceClient) CancelSession(ctx context.Context, req *connect.Request[v1.CancelSessionRequest]) (*connect.Response[v1.CancelSessionResponse], error) {
	return c.cancelSession.CallUnary(ctx, req)
}

// PickServiceClient calls the pick service.
type PickServiceClient struct {
	makePick                *connect.Client[v1.MakePickRequest, v1.MakePickResponse]
	listPicks               *connect.Client[v1.ListPicksRequest, v1.ListPicksResponse]
	listAvailableCandidates *connect.Client[v1.ListAvailableCandidatesRequest, v1.ListAvailableCandidatesResponse]
	getTeamDraftStatus      *connect.Client[v1.GetTeamDraftStatusRequest, v1.GetTeamDraftStatusResponse]
}

// NewPickServiceClient creates a client for the service at baseURL.
func NewPickServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *PickServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &PickServiceClient{
		makePick:                connect.NewClient[v1.MakePickRequest, v1.MakePickResponse](httpClient, baseURL+PickServiceMakePickProcedure, opts...),
		listPicks:               connect.NewClient[v1.ListPicksRequest, v1.ListPicksResponse](httpClient, baseURL+PickServiceListPicksProcedure, opts...),
		listAvailableCandidates: connect.NewClient[v1.ListAvailableCandidatesRequest, v1.ListAvailableCandidatesResponse](httpClient, baseURL+PickServiceListAvailableCandidatesProcedure, opts...),
		getTeamDraftStatus:      connect.NewClient[v1.GetTeamDraftStatusRequest, v1.GetTeamDraftStatusResponse](httpClient, baseURL+PickServiceGetTeamDraftStatusProcedure, opts...),
	}
}

func (c *PickServiceClient) MakePick(ctx context.Context, req *connect.Request[v1.MakePickRequest]) (*connect.Response[v1.MakePickResponse], error) {
	return c.makePick.CallUnary(ctx, req)
}

func (c *PickServiceClient) ListPicks(ctx context.Context, req *connect.Request[v1.ListPicksRequest]) (*connect.Response[v1.ListPicksResponse], error) {
	return c.listPicks.CallUnary(ctx, req)
}

func (c *PickServiceClient) ListAvailableCandidates(ctx context.Context, req *connect.Request[v1.ListAvailableCandidatesRequest]) (*connect.Response[v1.ListAvailableCandidatesResponse], error) {
	return c.listAvailableCandidates.CallUnary(ctx, req)
}

func (c *PickServiceClient) GetTeamDraftStatus(ctx context.Context, req *connect.Request[v1.GetTeamDraftStatusRequest]) (*connect.Response[v1.GetTeamDraftStatusResponse], error) {
	return c.getTeamDraftStatus.CallUnary(ctx, req)
}
