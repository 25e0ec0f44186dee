package ports

import (
	"context"

	"vertex/internal/domain/model"
)

// IdentityResolver returns the authenticated principal behind ctx, if any.
type IdentityResolver interface {
	Resolve(ctx context.Context) (model.Identity, bool)
}
