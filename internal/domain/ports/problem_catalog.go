package ports

import (
	"context"

	"vertex/internal/domain/model"
)

// ProblemCatalog looks up canonical metadata for a problem on an external judge.
type ProblemCatalog interface {
	// Supports reports whether url points at a problem this catalog can resolve.
	Supports(url string) bool
	Lookup(ctx context.Context, url string) (model.QuestionDetails, error)
}
