package app

import "vertex/internal/usecase"

// Tracker groups the use cases behind the command line.
type Tracker struct {
	Sheets    *usecase.SheetService
	Dashboard *usecase.DashboardService
	Enricher  *usecase.Enricher
	Digest    *usecase.ProgressDigest
}

// NewTracker creates a Tracker from the wired use cases.
func NewTracker(
	sheets *usecase.SheetService,
	dashboard *usecase.DashboardService,
	enricher *usecase.Enricher,
	digest *usecase.ProgressDigest,
) *Tracker {
	return &Tracker{
		Sheets:    sheets,
		Dashboard: dashboard,
		Enricher:  enricher,
		Digest:    digest,
	}
}
