package model

import "time"

// Overview is the aggregate dashboard across all of an owner's sheets.
type Overview struct {
	TotalQuestions  int
	SolvedQuestions int
	Pending         int
	Percent         int
	Sheets          []SheetSummary
	Heatmap         Heatmap
}

// SheetSummary is the card-level view of a sheet.
type SheetSummary struct {
	ID        string
	Title     string
	Total     int
	Solved    int
	Percent   int
	CreatedAt time.Time
}

// Heatmap is a week-column grid of daily solve counts.
type Heatmap struct {
	Start time.Time
	End   time.Time
	Weeks [][]HeatCell
	Total int
}

// HeatCell is one day of the heatmap.
type HeatCell struct {
	Date   time.Time
	Count  int
	Level  int
	Future bool
}

// HeatLevel maps a daily count onto the 0-4 intensity scale.
func HeatLevel(count int) int {
	switch {
	case count <= 0:
		return 0
	case count <= 2:
		return 1
	case count <= 4:
		return 2
	case count <= 6:
		return 3
	default:
		return 4
	}
}

// DetailFilter narrows the rows of a sheet detail view.
type DetailFilter struct {
	Search string
	// Status is "ALL" (or empty) or a Status name.
	Status string
}

// DetailRow is one visible row of a sheet detail view.
type DetailRow struct {
	Index    int
	Question Question
	IsHeader bool
}

// SheetDetail is the filtered detail view of one sheet.
type SheetDetail struct {
	Sheet   Sheet
	Rows    []DetailRow
	Percent int
}
