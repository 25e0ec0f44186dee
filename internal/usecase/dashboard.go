package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"vertex/internal/domain/model"
	"vertex/internal/domain/ports"
)

// DefaultHeatmapWeeks is the heatmap width when none is configured.
const DefaultHeatmapWeeks = 26

// DashboardService computes the read models behind the dashboard and sheet
// views, caching them per owner until a mutation invalidates them.
type DashboardService struct {
	sheets   ports.SheetRepository
	identity ports.IdentityResolver
	cache    ports.ViewCache
	logger   ports.Logger
	weeks    int
	now      func() time.Time
}

// NewDashboardService constructs a DashboardService. weeks <= 0 selects
// DefaultHeatmapWeeks.
func NewDashboardService(
	sheets ports.SheetRepository,
	identity ports.IdentityResolver,
	cache ports.ViewCache,
	logger ports.Logger,
	weeks int,
) *DashboardService {
	if weeks <= 0 {
		weeks = DefaultHeatmapWeeks
	}
	return &DashboardService{
		sheets:   sheets,
		identity: identity,
		cache:    cache,
		logger:   logger,
		weeks:    weeks,
		now:      time.Now,
	}
}

// Overview aggregates progress across all of the caller's sheets. Without an
// identity it returns an empty overview.
func (d *DashboardService) Overview(ctx context.Context) (model.Overview, error) {
	principal, ok := d.identity.Resolve(ctx)
	if !ok {
		return model.Overview{Sheets: []model.SheetSummary{}}, nil
	}
	if cached, ok := d.cache.Get(principal.ID, model.DashboardView); ok {
		if overview, ok := cached.(model.Overview); ok {
			return overview, nil
		}
	}

	sheets, err := d.sheets.FindByOwner(ctx, principal.ID)
	if err != nil {
		return model.Overview{}, fmt.Errorf("load dashboard: %w", err)
	}
	overview := BuildOverview(sheets, d.now(), d.weeks)
	d.cache.Put(principal.ID, model.DashboardView, overview)
	d.logger.Debug(ctx, "dashboard computed", "owner", principal.ID, "sheets", len(sheets))
	return overview, nil
}

// SheetDetail returns the filtered rows of one sheet, or nil when the caller
// has no such sheet.
func (d *DashboardService) SheetDetail(ctx context.Context, sheetID string, filter model.DetailFilter) (*model.SheetDetail, error) {
	principal, ok := d.identity.Resolve(ctx)
	if !ok {
		return nil, nil
	}

	view := model.SheetView(sheetID)
	var sheet *model.Sheet
	if cached, ok := d.cache.Get(principal.ID, view); ok {
		sheet, _ = cached.(*model.Sheet)
	}
	if sheet == nil {
		loaded, err := d.sheets.FindOne(ctx, principal.ID, sheetID)
		if errors.Is(err, model.ErrNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("load sheet detail: %w", err)
		}
		sheet = loaded
		d.cache.Put(principal.ID, view, sheet)
	}

	detail := BuildSheetDetail(*sheet, filter)
	return &detail, nil
}

// BuildOverview sums counters over sheets and lays out the solve heatmap
// ending on the day of now.
func BuildOverview(sheets []model.Sheet, now time.Time, weeks int) model.Overview {
	overview := model.Overview{Sheets: make([]model.SheetSummary, 0, len(sheets))}
	var solvedAt []time.Time
	for _, s := range sheets {
		overview.TotalQuestions += s.TotalQuestions
		overview.SolvedQuestions += s.SolvedQuestions
		overview.Sheets = append(overview.Sheets, model.SheetSummary{
			ID:        s.ID,
			Title:     s.Title,
			Total:     s.TotalQuestions,
			Solved:    s.SolvedQuestions,
			Percent:   s.Percent(),
			CreatedAt: s.CreatedAt,
		})
		for _, q := range s.Questions {
			if q.IsSolved() && q.SolvedAt != nil {
				solvedAt = append(solvedAt, *q.SolvedAt)
			}
		}
	}
	overview.Pending = max(0, overview.TotalQuestions-overview.SolvedQuestions)
	overview.Percent = model.Percent(overview.SolvedQuestions, overview.TotalQuestions)
	overview.Heatmap = BuildHeatmap(solvedAt, now, weeks)
	return overview
}

func dayOf(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// BuildHeatmap counts solves per local day in week columns running Sunday to
// Saturday. The last column holds today; its later days are marked Future.
func BuildHeatmap(solvedAt []time.Time, now time.Time, weeks int) model.Heatmap {
	if weeks <= 0 {
		weeks = DefaultHeatmapWeeks
	}
	loc := now.Location()
	today := dayOf(now, loc)
	start := today.AddDate(0, 0, -int(today.Weekday())-7*(weeks-1))

	counts := make(map[string]int, len(solvedAt))
	for _, t := range solvedAt {
		counts[t.In(loc).Format(time.DateOnly)]++
	}

	hm := model.Heatmap{Start: start, End: today, Weeks: make([][]model.HeatCell, weeks)}
	for w := range hm.Weeks {
		column := make([]model.HeatCell, 7)
		for d := range column {
			date := start.AddDate(0, 0, w*7+d)
			cell := model.HeatCell{Date: date, Future: date.After(today)}
			if !cell.Future {
				cell.Count = counts[date.Format(time.DateOnly)]
				cell.Level = model.HeatLevel(cell.Count)
				hm.Total += cell.Count
			}
			column[d] = cell
		}
		hm.Weeks[w] = column
	}
	return hm
}

// BuildSheetDetail filters a sheet's questions by title substring and status.
// Row indexes are 1-based positions in the unfiltered sheet.
func BuildSheetDetail(sheet model.Sheet, filter model.DetailFilter) model.SheetDetail {
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	status := strings.ToUpper(strings.TrimSpace(filter.Status))

	solved := 0
	rows := make([]model.DetailRow, 0, len(sheet.Questions))
	for i, q := range sheet.Questions {
		if q.IsSolved() {
			solved++
		}
		if search != "" && !strings.Contains(strings.ToLower(q.Title), search) {
			continue
		}
		if status != "" && status != "ALL" && string(q.Status) != status {
			continue
		}
		rows = append(rows, model.DetailRow{Index: i + 1, Question: q, IsHeader: q.IsSectionHeader()})
	}

	return model.SheetDetail{
		Sheet:   sheet,
		Rows:    rows,
		Percent: model.Percent(solved, len(sheet.Questions)),
	}
}
