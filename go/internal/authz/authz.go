// Package authz carries the caller identity asserted by the upstream gateway
// and checks it against the team a request acts for.
package authz

import (
	"context"
	"strings"

	"connectrpc.com/connect"
	"github.com/google/uuid"
	"github.com/mcdev12/draftleague/go/internal/drafterr"
)

const (
	HeaderTeamID = "X-Caller-Team-Id"
	HeaderRole   = "X-Caller-Role"

	RoleAdmin = "admin"
	RoleCoach = "coach"
)

// Caller is the authenticated principal of a request.
type Caller struct {
	TeamID *uuid.UUID
	Role   string
}

// IsAdmin reports whether the caller may act for any team.
func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdmin
}

type callerKey struct{}

// WithCaller returns a context carrying c.
func WithCaller(ctx context.Context, c Caller) context.Context {
	return context.WithValue(ctx, callerKey{}, c)
}

// FromContext returns the caller, if any.
func FromContext(ctx context.Context) (Caller, bool) {
	c, ok := ctx.Value(callerKey{}).(Caller)
	return c, ok
}

// RequireTeam allows admins and the coach of teamID.
func RequireTeam(ctx context.Context, teamID uuid.UUID) error {
	c, ok := FromContext(ctx)
	if !ok {
		return drafterr.New(drafterr.CodeForbidden, "no caller identity")
	}
	if c.IsAdmin() {
		return nil
	}
	if c.TeamID == nil || *c.TeamID != teamID {
		return drafterr.New(drafterr.CodeForbidden, "caller cannot act for team %s", teamID)
	}
	return nil
}

// RequireAdmin allows admins only.
func RequireAdmin(ctx context.Context) error {
	c, ok := FromContext(ctx)
	if !ok || !c.IsAdmin() {
		return drafterr.New(drafterr.CodeForbidden, "admin role required")
	}
	return nil
}

// CallerFromHeaders parses the gateway headers. A malformed team id is
// treated as absent.
func CallerFromHeaders(get func(string) string) Caller {
	c := Caller{Role: strings.ToLower(strings.TrimSpace(get(HeaderRole)))}
	if raw := strings.TrimSpace(get(HeaderTeamID)); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			c.TeamID = &id
		}
	}
	if c.Role == "" && c.TeamID != nil {
		c.Role = RoleCoach
	}
	return c
}

// NewInterceptor stores the caller from request headers in the handler context.
func NewInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if !req.Spec().IsClient {
				ctx = WithCaller(ctx, CallerFromHeaders(req.Header().Get))
			}
			return next(ctx, req)
		}
	}
}
