// Package report renders the interval log as a styled text report for
// the terminal: daily bars for the current week plus a weekly summary.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"flowtrack/internal/stats"
)

const barWidth = 40

var (
	boldStyle  = lipgloss.NewStyle().Bold(true)
	focusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#2ECC71"))
	idleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F39C12"))
)

// Write renders the current week's daily breakdown and a weekly
// summary to w.
func Write(w io.Writer, st stats.Stats) {
	weekKey := st.WeekStart.Format(stats.DateLayout)

	var shown []string
	maxDur := time.Hour
	for _, d := range st.Dates() {
		if d < weekKey {
			continue
		}
		shown = append(shown, d)
		ds := st.Daily[d]
		if ds.TotalFocus > maxDur {
			maxDur = ds.TotalFocus
		}
		if ds.TotalIdle > maxDur {
			maxDur = ds.TotalIdle
		}
	}

	if len(shown) == 0 {
		fmt.Fprintln(w, "No data recorded yet.")
		return
	}

	fmt.Fprintln(w, boldStyle.Render("flowtrack report"))
	fmt.Fprintln(w, "================")

	var weekFocus, weekIdle time.Duration
	var weekFocusN, weekIdleN int

	for _, d := range shown {
		ds := st.Daily[d]
		label := d
		if d == st.TodayKey {
			label += " (today)"
		}
		fmt.Fprintf(w, "\n%s\n", boldStyle.Render("Date: "+label))
		fmt.Fprintf(w, "  Focus: %s %s\n",
			focusStyle.Render("["+bar(ds.TotalFocus, maxDur)+"]"), FormatDuration(ds.TotalFocus))
		fmt.Fprintf(w, "  Idle:  %s %s\n",
			idleStyle.Render("["+bar(ds.TotalIdle, maxDur)+"]"), FormatDuration(ds.TotalIdle))
		fmt.Fprintf(w, "  Interruptions: %d\n", ds.IdleSessions)
		if ds.FocusSessions > 0 {
			fmt.Fprintf(w, "  Avg Focus Session: %s\n", FormatDuration(ds.TotalFocus/time.Duration(ds.FocusSessions)))
		}
		if ds.IdleSessions > 0 {
			fmt.Fprintf(w, "  Avg Interruption:  %s\n", FormatDuration(ds.TotalIdle/time.Duration(ds.IdleSessions)))
		}

		weekFocus += ds.TotalFocus
		weekIdle += ds.TotalIdle
		weekFocusN += ds.FocusSessions
		weekIdleN += ds.IdleSessions
	}

	fmt.Fprintf(w, "\n%s\n", boldStyle.Render(fmt.Sprintf("Weekly Summary (starting Monday %s)", weekKey)))
	fmt.Fprintln(w, strings.Repeat("-", 43))

	weekMax := weekFocus
	if weekIdle > weekMax {
		weekMax = weekIdle
	}
	fmt.Fprintf(w, "Total Focus: %s %s\n",
		focusStyle.Render("["+bar(weekFocus, weekMax)+"]"), FormatDuration(weekFocus))
	fmt.Fprintf(w, "Total Idle:  %s %s\n",
		idleStyle.Render("["+bar(weekIdle, weekMax)+"]"), FormatDuration(weekIdle))
	fmt.Fprintf(w, "Total Interruptions: %d\n", weekIdleN)
	if weekFocusN > 0 {
		fmt.Fprintf(w, "Avg Focus Session:   %s\n", FormatDuration(weekFocus/time.Duration(weekFocusN)))
	}
	if weekIdleN > 0 {
		fmt.Fprintf(w, "Avg Interruption:    %s\n", FormatDuration(weekIdle/time.Duration(weekIdleN)))
	}
}

func bar(d, max time.Duration) string {
	ratio := 0.0
	if max > 0 {
		ratio = float64(d) / float64(max)
	}
	filled := int(ratio*float64(barWidth) + 0.5)
	if filled > barWidth {
		filled = barWidth
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
}

// FormatDuration renders a duration as compact "1d 2h 3m 4s" parts,
// omitting leading zero units.
func FormatDuration(d time.Duration) string {
	secs := int64(d.Seconds())
	if secs < 0 {
		secs = 0
	}
	days := secs / 86400
	hours := (secs % 86400) / 3600
	mins := (secs % 3600) / 60
	rem := secs % 60

	var parts []string
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if mins > 0 {
		parts = append(parts, fmt.Sprintf("%dm", mins))
	}
	if rem > 0 || len(parts) == 0 {
		parts = append(parts, fmt.Sprintf("%ds", rem))
	}
	return strings.Join(parts, " ")
}
