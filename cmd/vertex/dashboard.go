package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"vertex/internal/domain/model"
)

const barWidth = 24

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8b949e"))
	boxStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#30363d")).
			Padding(0, 1)

	// heatColors follow the usual contribution-graph greens, index = level.
	heatColors = [5]lipgloss.Color{"#2d333b", "#0e4429", "#006d32", "#26a641", "#39d353"}
)

func (c *cli) dashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show overall progress and the solve heatmap",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tracker, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			overview, err := tracker.Dashboard.Overview(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderOverview(overview))
			return nil
		},
	}
}

func renderOverview(o model.Overview) string {
	var b strings.Builder

	stats := fmt.Sprintf("%s  %d/%d solved  %d pending  %s",
		titleStyle.Render("Progress"), o.SolvedQuestions, o.TotalQuestions, o.Pending, progressBar(o.Percent))
	b.WriteString(boxStyle.Render(stats))
	b.WriteString("\n\n")

	b.WriteString(titleStyle.Render("Sheets"))
	b.WriteString("\n")
	if len(o.Sheets) == 0 {
		b.WriteString(mutedStyle.Render("  none yet"))
		b.WriteString("\n")
	}
	for _, s := range o.Sheets {
		fmt.Fprintf(&b, "  %-32s %4d/%-4d %s\n", truncateTitle(s.Title, 32), s.Solved, s.Total, progressBar(s.Percent))
	}
	b.WriteString("\n")

	b.WriteString(renderHeatmap(o.Heatmap))
	return b.String()
}

func progressBar(percent int) string {
	filled := barWidth * min(max(percent, 0), 100) / 100
	bar := lipgloss.NewStyle().Foreground(heatColors[4]).Render(strings.Repeat("█", filled)) +
		mutedStyle.Render(strings.Repeat("░", barWidth-filled))
	return fmt.Sprintf("%s %3d%%", bar, percent)
}

var weekdayLabels = [7]string{"   ", "Mon", "   ", "Wed", "   ", "Fri", "   "}

func renderHeatmap(hm model.Heatmap) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", titleStyle.Render(fmt.Sprintf("%d solves", hm.Total)),
		mutedStyle.Render(fmt.Sprintf("%s to %s", hm.Start.Format("Jan 2, 2006"), hm.End.Format("Jan 2, 2006"))))

	for day := 0; day < 7; day++ {
		b.WriteString(mutedStyle.Render(weekdayLabels[day]))
		b.WriteString(" ")
		for _, week := range hm.Weeks {
			cell := week[day]
			if cell.Future {
				b.WriteString("  ")
				continue
			}
			b.WriteString(lipgloss.NewStyle().Foreground(heatColors[cell.Level]).Render("■"))
			b.WriteString(" ")
		}
		b.WriteString("\n")
	}

	b.WriteString(mutedStyle.Render("    Less "))
	for _, color := range heatColors {
		b.WriteString(lipgloss.NewStyle().Foreground(color).Render("■"))
		b.WriteString(" ")
	}
	b.WriteString(mutedStyle.Render("More"))
	return b.String()
}

func truncateTitle(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-1]) + "…"
}
