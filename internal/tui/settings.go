package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"flowtrack/internal/config"
	"flowtrack/internal/track"
)

// settingsModel edits the idle threshold and the tracking window,
// writing changes back to the config file. The threshold applies to the
// running session immediately; window changes take effect on the next
// run.
type settingsModel struct {
	tracker *track.Tracker
	cfgDir  string
	width   int
	height  int

	formActive bool
	form       *huh.Form

	// Form values as pointers so they survive value copies.
	thresholdMins *string
	startTime     *string
	endTime       *string
	timeout       *string
}

func newSettingsModel(tr *track.Tracker, cfgDir string) settingsModel {
	th, st, et, to := "", "", "", ""
	return settingsModel{
		tracker:       tr,
		cfgDir:        cfgDir,
		thresholdMins: &th,
		startTime:     &st,
		endTime:       &et,
		timeout:       &to,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		if key.Matches(msg, keys.Enter) {
			return s.showForm()
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	*s.thresholdMins = strconv.Itoa(int(s.tracker.Threshold().Minutes()))
	*s.startTime = clockString(s.tracker.StartAt())
	*s.endTime = clockString(s.tracker.EndAt())
	*s.timeout = ""
	if s.tracker.Timeout() > 0 {
		*s.timeout = s.tracker.Timeout().String()
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Idle threshold (min)").Value(s.thresholdMins),
			huh.NewInput().Title("Start time (HH:MM, blank = always)").Value(s.startTime),
			huh.NewInput().Title("End time (HH:MM, blank = never)").Value(s.endTime),
			huh.NewInput().Title("Timeout (e.g. 8h, blank = none)").Value(s.timeout),
		).Title("Tracking"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		return s, s.saveSettings()
	}

	return s, cmd
}

func (s settingsModel) saveSettings() tea.Cmd {
	cfg := config.Config{
		StartTime: strings.TrimSpace(*s.startTime),
		EndTime:   strings.TrimSpace(*s.endTime),
		Timeout:   strings.TrimSpace(*s.timeout),
	}

	mins, err := strconv.Atoi(strings.TrimSpace(*s.thresholdMins))
	if err != nil || mins <= 0 {
		return func() tea.Msg {
			return statusMsg{text: "Threshold must be a positive number of minutes", isError: true}
		}
	}
	cfg.ThresholdMinutes = mins

	// Validate the window fields the same way startup would.
	if _, err := cfg.Resolve(0, "", "", ""); err != nil {
		return func() tea.Msg {
			return statusMsg{text: fmt.Sprintf("Invalid settings: %v", err), isError: true}
		}
	}

	if err := config.Save(s.cfgDir, cfg); err != nil {
		return func() tea.Msg {
			return statusMsg{text: fmt.Sprintf("Save failed: %v", err), isError: true}
		}
	}

	threshold := time.Duration(mins) * time.Minute
	return func() tea.Msg { return settingsSavedMsg{threshold: threshold} }
}

func (s settingsModel) view() string {
	w := s.width - 4

	if s.formActive && s.form != nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render("Settings"), "", s.form.View()),
		)
	}

	rows := []string{
		titleStyle.Render("Settings"),
		"",
		fmt.Sprintf("  %s %s", label("Idle threshold"), highlightStyle.Render(formatDuration(s.tracker.Threshold()))),
		fmt.Sprintf("  %s %s", label("Start time"), highlightStyle.Render(orDash(clockString(s.tracker.StartAt())))),
		fmt.Sprintf("  %s %s", label("End time"), highlightStyle.Render(orDash(clockString(s.tracker.EndAt())))),
	}
	if s.tracker.Timeout() > 0 {
		rows = append(rows, fmt.Sprintf("  %s %s", label("Timeout"), highlightStyle.Render(formatDuration(s.tracker.Timeout()))))
	} else {
		rows = append(rows, fmt.Sprintf("  %s %s", label("Timeout"), highlightStyle.Render("-")))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  Press enter to edit. Window changes apply on the next run."))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func label(s string) string {
	return lipgloss.NewStyle().Width(18).Render(s)
}

func clockString(c *track.DayClock) string {
	if c == nil {
		return ""
	}
	return c.String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
