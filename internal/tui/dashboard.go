package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"flowtrack/internal/stats"
	"flowtrack/internal/track"
)

// dashboardModel shows the live picture: today's totals, the current
// state, and the session and week summaries.
type dashboardModel struct {
	tracker *track.Tracker
	width   int
	height  int
}

func newDashboardModel(tr *track.Tracker) dashboardModel {
	return dashboardModel{tracker: tr}
}

func (d *dashboardModel) setSize(w, h int) {
	d.width = w
	d.height = h
}

func (d dashboardModel) view() string {
	if d.width < 20 {
		return "Terminal too small"
	}
	contentWidth := d.width - 4

	now := time.Now().UTC()
	st := stats.Compute(d.tracker.Snapshot(), d.tracker.RunStart(), now)
	today := st.Daily[st.TodayKey]

	leftW := contentWidth / 2
	left := d.renderTotals(today, leftW)
	right := d.renderAverages(today, contentWidth-leftW)
	top := lipgloss.JoinHorizontal(lipgloss.Top, left, right)

	session := d.renderSummary("This Session", st.Session, contentWidth)
	week := d.renderSummary("This Week", st.Week, contentWidth)

	return lipgloss.JoinVertical(lipgloss.Left, top, session, week)
}

func (d dashboardModel) renderTotals(today stats.DayStats, w int) string {
	rows := []string{
		titleStyle.Render("Today"),
		fmt.Sprintf("  Focus Time:    %s", successStyle.Render(formatDuration(today.TotalFocus))),
		fmt.Sprintf("  Idle Time:     %s", warningStyle.Render(formatDuration(today.TotalIdle))),
		fmt.Sprintf("  Interruptions: %d", today.IdleSessions),
	}

	if _, seen := d.tracker.State(); seen {
		rows = append(rows, "")
		rows = append(rows, fmt.Sprintf("  Current State: %s",
			highlightStyle.Render(formatDuration(time.Since(d.tracker.StateStart())))))
	}

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (d dashboardModel) renderAverages(today stats.DayStats, w int) string {
	rows := []string{titleStyle.Render("Averages")}

	if today.FocusSessions > 0 {
		avg := today.TotalFocus / time.Duration(today.FocusSessions)
		rows = append(rows, fmt.Sprintf("  Avg Focus: %s", formatDuration(avg)))
	}
	if today.IdleSessions > 0 {
		avg := today.TotalIdle / time.Duration(today.IdleSessions)
		rows = append(rows, fmt.Sprintf("  Avg Idle:  %s", formatDuration(avg)))
	}
	if today.FocusSessions == 0 && today.IdleSessions == 0 {
		rows = append(rows, mutedStyle.Render("  Nothing recorded today"))
	}

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (d dashboardModel) renderSummary(title string, s stats.Summary, w int) string {
	var rows []string
	rows = append(rows, titleStyle.Render(title))
	rows = append(rows, fmt.Sprintf("  Focus: %s in %d intervals",
		successStyle.Render(formatDuration(s.TotalFocus)), s.FocusCount))
	if s.FocusCount > 0 {
		rows = append(rows, mutedStyle.Render(fmt.Sprintf("    longest %s, shortest %s",
			formatDuration(s.MaxFocus), formatDuration(s.MinFocus))))
	}
	rows = append(rows, fmt.Sprintf("  Idle:  %s in %d intervals",
		warningStyle.Render(formatDuration(s.TotalIdle)), s.IdleCount))
	if s.IdleCount > 0 {
		rows = append(rows, mutedStyle.Render(fmt.Sprintf("    longest %s, shortest %s",
			formatDuration(s.MaxIdle), formatDuration(s.MinIdle))))
	}

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
