package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"vertex/internal/domain/model"
	"vertex/internal/domain/ports"
)

const (
	maxListedSheets = 10
	maxListedSolved = 10
)

// ProgressDigest summarises the owner's practice progress and sends it to the
// configured notifier.
type ProgressDigest struct {
	sheets   ports.SheetRepository
	identity ports.IdentityResolver
	notifier ports.Notifier
	logger   ports.Logger
	upNext   int
	now      func() time.Time
}

// ProgressDigestConfig controls optional behaviours for the digest.
type ProgressDigestConfig struct {
	// UpNext is how many pending problems to suggest.
	UpNext int
}

// NewProgressDigest constructs a ProgressDigest use case.
func NewProgressDigest(
	sheets ports.SheetRepository,
	identity ports.IdentityResolver,
	notifier ports.Notifier,
	logger ports.Logger,
	cfg ProgressDigestConfig,
) *ProgressDigest {
	return &ProgressDigest{
		sheets:   sheets,
		identity: identity,
		notifier: notifier,
		logger:   logger,
		upNext:   cfg.UpNext,
		now:      time.Now,
	}
}

// Run builds and sends one digest.
func (d *ProgressDigest) Run(ctx context.Context) error {
	start := time.Now()
	principal, ok := d.identity.Resolve(ctx)
	if !ok {
		return model.ErrUnauthorized
	}
	d.logger.Info(ctx, "starting progress digest", "owner", principal.ID)

	sheets, err := d.sheets.FindByOwner(ctx, principal.ID)
	if err != nil {
		d.logger.Error(ctx, "failed to load sheets", "error", err)
		return err
	}

	notification := d.Build(sheets)
	if err := d.notifier.Send(ctx, notification); err != nil {
		d.logger.Error(ctx, "failed to send notification", "error", err)
		return err
	}

	d.logger.Info(ctx, "progress digest completed", "duration", time.Since(start))
	return nil
}

type queued struct {
	sheet    string
	question model.Question
}

// Build composes the digest for sheets as of now.
func (d *ProgressDigest) Build(sheets []model.Sheet) model.Notification {
	now := d.now()
	overview := BuildOverview(sheets, now, 1)

	notification := model.Notification{
		Title:       "Vertex Progress Digest",
		Description: describe(overview),
		Timestamp:   now,
	}
	if solved := solvedOn(sheets, now); len(solved) > 0 {
		notification.AddField(fmt.Sprintf("Solved today (%d)", len(solved)), formatSolved(solved))
	}
	notification.AddField("Up next", formatUpNext(d.pickUpNext(sheets)))
	notification.AddField("Sheets", formatSheets(overview.Sheets))
	return notification
}

func describe(o model.Overview) string {
	if len(o.Sheets) == 0 {
		return "No sheets yet. Import a problem sheet to start tracking."
	}
	return fmt.Sprintf("Solved %d of %d problems (%d%%) across %d sheet(s). %d still pending.",
		o.SolvedQuestions, o.TotalQuestions, o.Percent, len(o.Sheets), o.Pending)
}

func solvedOn(sheets []model.Sheet, now time.Time) []queued {
	today := now.Format(time.DateOnly)
	var out []queued
	for _, s := range sheets {
		for _, q := range s.Questions {
			if q.IsSolved() && q.SolvedAt != nil && q.SolvedAt.In(now.Location()).Format(time.DateOnly) == today {
				out = append(out, queued{sheet: s.Title, question: q})
			}
		}
	}
	return out
}

// pickUpNext returns pending problems, bookmarked ones first, otherwise in
// sheet order. Section headers and solved problems are skipped.
func (d *ProgressDigest) pickUpNext(sheets []model.Sheet) []queued {
	if d.upNext <= 0 {
		return nil
	}
	var candidates []queued
	for _, s := range sheets {
		for _, q := range s.Questions {
			if q.IsSolved() || q.IsSectionHeader() {
				continue
			}
			candidates = append(candidates, queued{sheet: s.Title, question: q})
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].question.IsBookmarked && !candidates[j].question.IsBookmarked
	})
	if len(candidates) > d.upNext {
		candidates = candidates[:d.upNext]
	}
	return candidates
}

func formatSolved(solved []queued) string {
	lines := make([]string, 0, maxListedSolved+1)
	for i, s := range solved {
		if i == maxListedSolved {
			lines = append(lines, fmt.Sprintf("... and %d more", len(solved)-maxListedSolved))
			break
		}
		lines = append(lines, fmt.Sprintf("• %s (%s)", s.question.Title, s.sheet))
	}
	return strings.Join(lines, "\n")
}

func formatUpNext(next []queued) string {
	lines := make([]string, 0, len(next))
	for i, n := range next {
		q := n.question
		marker := ""
		if q.IsBookmarked {
			marker = " ★"
		}
		lines = append(lines, fmt.Sprintf("%d. %s%s (%s, %s)\n   %s", i+1, q.Title, marker, q.Difficulty, n.sheet, q.URL))
	}
	return strings.Join(lines, "\n")
}

func formatSheets(sheets []model.SheetSummary) string {
	lines := make([]string, 0, maxListedSheets+1)
	for i, s := range sheets {
		if i == maxListedSheets {
			lines = append(lines, fmt.Sprintf("... and %d more", len(sheets)-maxListedSheets))
			break
		}
		lines = append(lines, fmt.Sprintf("• %s: %d/%d (%d%%)", trimText(s.Title, 80), s.Solved, s.Total, s.Percent))
	}
	return strings.Join(lines, "\n")
}

func trimText(content string, limit int) string {
	r := []rune(content)
	if len(r) <= limit {
		return content
	}
	trimmed := string(r[:limit])
	if lastSpace := strings.LastIndex(trimmed, " "); lastSpace > 0 {
		trimmed = trimmed[:lastSpace]
	}
	return trimmed + "..."
}
