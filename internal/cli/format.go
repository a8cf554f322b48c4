package cli

import (
	"fmt"
	"strings"

	"github.com/SAP-F-2025/assessment-scheduler/internal/models"
	"github.com/SAP-F-2025/assessment-scheduler/internal/scheduler"
	"github.com/charmbracelet/lipgloss"
)

var (
	styleGreen  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8ec07c"))
	styleYellow = lipgloss.NewStyle().Foreground(lipgloss.Color("#fabd2f"))
	styleRed    = lipgloss.NewStyle().Foreground(lipgloss.Color("#fb4934"))
	styleDim    = lipgloss.NewStyle().Foreground(lipgloss.Color("#928374"))
	styleHeader = lipgloss.NewStyle().Foreground(lipgloss.Color("#fe8019")).Bold(true)
)

func levelStyle(level models.StressLevel) lipgloss.Style {
	switch level {
	case models.StressHigh:
		return styleRed
	case models.StressModerate:
		return styleYellow
	default:
		return styleGreen
	}
}

// scoreCell renders a score with its level, e.g. "5.4 Moderate".
func scoreCell(score float64) string {
	level := models.LevelFor(score)
	return levelStyle(level).Render(fmt.Sprintf("%.1f %s", score, level))
}

// renderTable pads columns to their widest visible cell.
func renderTable(headers []string, rows [][]string) string {
	const colGap = 2

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i := 0; i < len(headers) && i < len(row); i++ {
			widths[i] = max(widths[i], lipgloss.Width(row[i]))
		}
	}

	var b strings.Builder
	writeRow := func(cells []string, style *lipgloss.Style) {
		for i := range headers {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			pad := widths[i] - lipgloss.Width(cell)
			if style != nil {
				cell = style.Render(cell)
			}
			b.WriteString(cell)
			if i < len(headers)-1 {
				b.WriteString(strings.Repeat(" ", pad+colGap))
			}
		}
		b.WriteString("\n")
	}

	writeRow(headers, &styleHeader)
	separators := make([]string, len(widths))
	for i, w := range widths {
		separators[i] = strings.Repeat("─", w)
	}
	writeRow(separators, &styleDim)
	for _, row := range rows {
		writeRow(row, nil)
	}
	return b.String()
}

func formatBreakdown(b scheduler.Breakdown) string {
	rows := [][]string{
		{"Assessments", fmt.Sprintf("%d", b.Count)},
		{"Density", fmt.Sprintf("%.2f", b.Density)},
		{"Stakes", fmt.Sprintf("%.2f", b.Stakes)},
		{"Prep load", fmt.Sprintf("%.2f", b.PrepLoad)},
		{"Grade weight", fmt.Sprintf("%.2f", b.GradeWeight)},
		{"Composite", scoreCell(b.Composite)},
	}
	return renderTable([]string{"Component", "Value"}, rows)
}

func formatWindows(windows []models.WindowScore) string {
	rows := make([][]string, 0, len(windows))
	for _, w := range windows {
		rows = append(rows, []string{w.Label, fmt.Sprintf("%d", w.Count), scoreCell(w.Score)})
	}
	return renderTable([]string{"Window", "Count", "Score"}, rows)
}

func formatMoves(moves []models.Move) string {
	if len(moves) == 0 {
		return styleDim.Render("No moves: the schedule is already as calm as it can get.") + "\n"
	}
	rows := make([][]string, 0, len(moves))
	for _, m := range moves {
		rows = append(rows, []string{
			fmt.Sprintf("%d", m.AssessmentID),
			m.Title,
			m.FromDate.Format("2006-01-02"),
			m.ToDate.Format("2006-01-02"),
			fmt.Sprintf("%+d", m.Days()),
		})
	}
	return renderTable([]string{"ID", "Title", "From", "To", "Shift"}, rows)
}
