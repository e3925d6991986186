// Package tui is the live tracking dashboard. Its 1 Hz tick doubles as
// the scheduling loop: every tick samples the idle oracle, feeds the
// tracker, and checks the configured stop conditions.
package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"flowtrack/internal/idle"
	"flowtrack/internal/track"
)

// App is the root Bubble Tea model.
type App struct {
	tracker *track.Tracker
	idle    idle.Func

	width  int
	height int

	activeView viewState
	showHelp   bool

	dashboard dashboardModel
	week      weekModel
	settings  settingsModel

	help   help.Model
	status string
}

func NewApp(tr *track.Tracker, oracle idle.Func, cfgDir string) App {
	h := help.New()
	h.ShowAll = false

	return App{
		tracker:    tr,
		idle:       oracle,
		activeView: viewDashboard,
		dashboard:  newDashboardModel(tr),
		week:       newWeekModel(tr),
		settings:   newSettingsModel(tr, cfgDir),
		help:       h,
	}
}

func (a App) Init() tea.Cmd {
	return tickCmd()
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.dashboard.setSize(a.width, contentHeight)
		a.week.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		// The settings form captures all input while active.
		if a.settings.formActive {
			var cmd tea.Cmd
			a.settings, cmd = a.settings.update(msg)
			return a, cmd
		}

		switch {
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Reset):
			if err := a.tracker.Reset(); err != nil {
				a.status = fmt.Sprintf("Reset failed: %v", err)
			} else {
				a.status = "Interval log cleared"
			}
			return a, nil
		case key.Matches(msg, keys.Tab1):
			a.activeView = viewDashboard
			return a, nil
		case key.Matches(msg, keys.Tab2):
			a.activeView = viewWeek
			a.week.rebuild()
			return a, nil
		case key.Matches(msg, keys.Tab3):
			a.activeView = viewSettings
			return a, nil
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % 3
			if a.activeView == viewWeek {
				a.week.rebuild()
			}
			return a, nil
		}
		return a.updateActiveView(msg)

	case tickMsg:
		now := time.Now().UTC()
		if a.tracker.ShouldStop(now) {
			return a, tea.Quit
		}
		if a.tracker.ShouldTrack(now) {
			if err := a.tracker.Tick(a.idle(), now); err != nil {
				a.status = fmt.Sprintf("Save failed: %v", err)
			}
		}
		if a.activeView == viewWeek {
			a.week.rebuild()
		}
		return a, tickCmd()

	case statusMsg:
		a.status = msg.text
		return a, nil

	case settingsSavedMsg:
		a.tracker.SetThreshold(msg.threshold)
		a.status = fmt.Sprintf("Idle threshold set to %s", msg.threshold)
		return a, nil
	}

	return a.updateActiveView(msg)
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewDashboard:
		content = a.dashboard.view()
	case viewWeek:
		content = a.week.view()
	case viewSettings:
		content = a.settings.view()
	}

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}
	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("flowtrack")
	left := lipgloss.JoinHorizontal(lipgloss.Bottom, title, "  ", a.renderState())

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, tabRow),
	)
}

func (a App) renderState() string {
	now := time.Now().UTC()
	if !a.tracker.ShouldTrack(now) {
		return waitingStyle.Render(fmt.Sprintf("WAITING (starts %s)", a.tracker.StartAt()))
	}
	kind, seen := a.tracker.State()
	if !seen {
		return mutedStyle.Render("STARTING...")
	}
	if kind == track.Focus {
		return successStyle.Render("● IN FLOW")
	}
	return warningStyle.Render("● IDLE")
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)
	left := footerStyle.Render(helpView)

	right := ""
	if _, seen := a.tracker.State(); seen {
		right = highlightStyle.Render("● " + formatDuration(time.Since(a.tracker.StateStart())))
	}
	if a.status != "" {
		right += mutedStyle.Render("  " + a.status)
	}

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}
