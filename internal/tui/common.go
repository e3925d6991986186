package tui

import (
	"fmt"
	"strings"
	"time"
)

// viewState represents the currently active view.
type viewState int

const (
	viewDashboard viewState = iota
	viewWeek
	viewSettings
)

var viewNames = []string{"Dashboard", "Week", "Settings"}

// --- Messages ---

type tickMsg time.Time

type statusMsg struct {
	text    string
	isError bool
}

type settingsSavedMsg struct {
	threshold time.Duration
}

// --- Helpers ---

// formatDuration renders a duration as compact "1d 2h 3m 4s" parts.
func formatDuration(d time.Duration) string {
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
