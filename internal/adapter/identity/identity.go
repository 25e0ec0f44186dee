package identity

import (
	"context"
	"strings"

	"vertex/internal/domain/model"
	"vertex/internal/domain/ports"
)

// Static always resolves to the same principal. An empty ID resolves to nobody.
type Static struct {
	principal model.Identity
}

var _ ports.IdentityResolver = (*Static)(nil)

// NewStatic creates a resolver for principal, trimming its ID.
func NewStatic(principal model.Identity) *Static {
	principal.ID = strings.TrimSpace(principal.ID)
	return &Static{principal: principal}
}

// Resolve returns the configured principal, or false when it has no ID.
func (s *Static) Resolve(context.Context) (model.Identity, bool) {
	if s == nil || s.principal.ID == "" {
		return model.Identity{}, false
	}
	return s.principal, true
}

type contextKey struct{}

// NewContext returns a copy of ctx carrying principal.
func NewContext(ctx context.Context, principal model.Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, principal)
}

// FromContext returns the principal stored by NewContext.
func FromContext(ctx context.Context) (model.Identity, bool) {
	principal, ok := ctx.Value(contextKey{}).(model.Identity)
	if !ok || principal.ID == "" {
		return model.Identity{}, false
	}
	return principal, true
}

// ContextResolver resolves the principal carried in the request context and
// otherwise defers to Fallback, when set.
type ContextResolver struct {
	Fallback ports.IdentityResolver
}

var _ ports.IdentityResolver = ContextResolver{}

// Resolve prefers the context principal over Fallback.
func (r ContextResolver) Resolve(ctx context.Context) (model.Identity, bool) {
	if principal, ok := FromContext(ctx); ok {
		return principal, true
	}
	if r.Fallback != nil {
		return r.Fallback.Resolve(ctx)
	}
	return model.Identity{}, false
}
