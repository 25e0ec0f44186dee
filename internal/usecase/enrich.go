package usecase

import (
	"context"
	"errors"
	"slices"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"vertex/internal/domain/model"
	"vertex/internal/domain/ports"
)

// DefaultEnrichConcurrency bounds catalog lookups when none is configured.
const DefaultEnrichConcurrency = 4

// Enricher fills in difficulty and topics of a sheet's questions from a
// problem catalog.
type Enricher struct {
	sheets      *SheetService
	catalog     ports.ProblemCatalog
	logger      ports.Logger
	concurrency int
}

// EnrichResult counts what happened to each question of the sheet.
type EnrichResult struct {
	Updated int
	Skipped int
	Failed  int
}

// NewEnricher constructs an Enricher.
func NewEnricher(sheets *SheetService, catalog ports.ProblemCatalog, logger ports.Logger, concurrency int) *Enricher {
	if concurrency <= 0 {
		concurrency = DefaultEnrichConcurrency
	}
	return &Enricher{sheets: sheets, catalog: catalog, logger: logger, concurrency: concurrency}
}

// EnrichSheet looks up every catalog-backed question and writes back the
// catalog's difficulty and topics. Title and URL are kept. Individual lookup
// failures are logged and counted, not returned.
func (e *Enricher) EnrichSheet(ctx context.Context, sheetID string) (EnrichResult, error) {
	sheet, err := e.sheets.GetSheet(ctx, sheetID)
	if err != nil {
		return EnrichResult{}, err
	}
	if sheet == nil {
		if _, ok := e.sheets.identity.Resolve(ctx); !ok {
			return EnrichResult{}, model.ErrUnauthorized
		}
		return EnrichResult{}, model.ErrSheetNotFound
	}

	var updated, skipped, failed atomic.Int32
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)

	for _, q := range sheet.Questions {
		if q.IsSectionHeader() || !e.catalog.Supports(q.URL) {
			skipped.Add(1)
			continue
		}
		q := q
		g.Go(func() error {
			found, err := e.catalog.Lookup(gctx, q.URL)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				e.logger.Warn(gctx, "catalog lookup failed", "question", q.ID, "url", q.URL, "error", err)
				failed.Add(1)
				return nil
			}

			details := mergeDetails(q.Details(), found)
			if detailsEqual(details, q.Details()) {
				skipped.Add(1)
				return nil
			}
			if err := e.sheets.UpdateQuestionDetails(gctx, sheetID, q.ID, details); err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				e.logger.Error(gctx, "failed to update question", "question", q.ID, "error", err)
				failed.Add(1)
				return nil
			}
			updated.Add(1)
			return nil
		})
	}

	err = g.Wait()
	result := EnrichResult{
		Updated: int(updated.Load()),
		Skipped: int(skipped.Load()),
		Failed:  int(failed.Load()),
	}
	e.logger.Info(ctx, "sheet enriched", "sheet", sheetID,
		"updated", result.Updated, "skipped", result.Skipped, "failed", result.Failed)
	return result, err
}

func mergeDetails(current, found model.QuestionDetails) model.QuestionDetails {
	merged := current
	if found.Difficulty != "" {
		merged.Difficulty = found.Difficulty
	}
	if len(found.Topics) > 0 {
		merged.Topics = append([]string(nil), found.Topics...)
	}
	return merged
}

func detailsEqual(a, b model.QuestionDetails) bool {
	return a.Title == b.Title && a.URL == b.URL && a.Difficulty == b.Difficulty && slices.Equal(a.Topics, b.Topics)
}
