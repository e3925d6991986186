package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/lipgloss"

	"flowtrack/internal/stats"
	"flowtrack/internal/track"
)

// weekModel draws the current week as stacked focus/idle bars plus a
// per-day table.
type weekModel struct {
	tracker *track.Tracker
	width   int
	height  int

	chart barchart.Model
	week  stats.Stats
}

func newWeekModel(tr *track.Tracker) weekModel {
	return weekModel{
		tracker: tr,
		chart:   barchart.New(60, 12),
	}
}

func (m *weekModel) setSize(w, h int) {
	m.width = w
	m.height = h
	m.rebuild()
}

func (m *weekModel) rebuild() {
	chartWidth := m.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 12
	if m.height > 30 {
		chartHeight = 16
	}
	m.chart = barchart.New(chartWidth, chartHeight)

	now := time.Now().UTC()
	m.week = stats.Compute(m.tracker.Snapshot(), m.tracker.RunStart(), now)

	fStyle := lipgloss.NewStyle().Foreground(colorSuccess)
	iStyle := lipgloss.NewStyle().Foreground(colorWarning)

	var bars []barchart.BarData
	for i := 0; i < 7; i++ {
		day := m.week.WeekStart.AddDate(0, 0, i)
		ds := m.week.Daily[day.Format(stats.DateLayout)]
		bars = append(bars, barchart.BarData{
			Label: day.Format("Mon"),
			Values: []barchart.BarValue{
				{Name: "focus", Value: ds.TotalFocus.Hours(), Style: fStyle},
				{Name: "idle", Value: ds.TotalIdle.Hours(), Style: iStyle},
			},
		})
	}

	m.chart.PushAll(bars)
	m.chart.Draw()
}

func (m weekModel) view() string {
	w := m.width - 4

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Activity"), "  ",
		mutedStyle.Render(fmt.Sprintf("week of %s (hours per day)",
			m.week.WeekStart.Format(stats.DateLayout))),
	)

	legend := successStyle.Render("■ focus") + "  " + warningStyle.Render("■ idle")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", m.chart.View(), "", legend, "", m.renderTable(w),
		),
	)
}

func (m weekModel) renderTable(w int) string {
	var rows []string
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-12s %12s %12s %8s", "Date", "Focus", "Idle", "Breaks")))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", minInt(w-6, 48))))

	any := false
	for i := 0; i < 7; i++ {
		day := m.week.WeekStart.AddDate(0, 0, i)
		key := day.Format(stats.DateLayout)
		ds, ok := m.week.Daily[key]
		if !ok {
			continue
		}
		any = true
		rows = append(rows, fmt.Sprintf("  %-12s %12s %12s %8d",
			key, formatDuration(ds.TotalFocus), formatDuration(ds.TotalIdle), ds.IdleSessions))
	}
	if !any {
		return mutedStyle.Render("  No data for this week")
	}

	return strings.Join(rows, "\n")
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
