package ports

import "context"

// ViewInvalidator is told which of an owner's views went stale after a mutation.
type ViewInvalidator interface {
	Invalidate(ctx context.Context, ownerID string, views ...string)
}

// ViewCache holds computed read models per owner and view name.
type ViewCache interface {
	ViewInvalidator
	Get(ownerID, view string) (any, bool)
	Put(ownerID, view string, value any)
}
