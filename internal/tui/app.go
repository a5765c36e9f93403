package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stridehq/stride/internal/coach"
	"github.com/stridehq/stride/internal/export"
	"github.com/stridehq/stride/internal/store"
)

// App is the root Bubble Tea model.
type App struct {
	store  *store.Store
	width  int
	height int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	today    todayModel
	habits   habitsModel
	calendar calendarModel
	coach    coachModel
	pain     painModel
	settings settingsModel

	help   help.Model
	status string
}

func NewApp(s *store.Store, coachClient *coach.Client) App {
	h := help.New()
	h.ShowAll = false

	return App{
		store:      s,
		activeView: viewToday,
		today:      newTodayModel(s),
		habits:     newHabitsModel(s),
		calendar:   newCalendarModel(s),
		coach:      newCoachModel(s, coachClient),
		pain:       newPainModel(s),
		settings:   newSettingsModel(s),
		help:       h,
	}
}

func (a App) Init() tea.Cmd {
	return a.today.Init()
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.today.setSize(a.width, contentHeight)
		a.habits.setSize(a.width, contentHeight)
		a.calendar.setSize(a.width, contentHeight)
		a.coach.setSize(a.width, contentHeight)
		a.pain.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		// Export picker
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// If a child view is capturing input (e.g. form), delegate first.
		if a.isCapturingInput() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			if a.activeView != viewHabits {
				a.exportPicking = true
				a.exportCursor = 0
				return a, nil
			}
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			a.activeView = viewToday
			return a, a.today.loadData()
		case key.Matches(msg, keys.Tab2):
			a.activeView = viewHabits
			return a, a.habits.refresh()
		case key.Matches(msg, keys.Tab3):
			a.activeView = viewCalendar
			return a, a.calendar.refresh()
		case key.Matches(msg, keys.Tab4):
			a.activeView = viewCoach
			return a, a.coach.refresh()
		case key.Matches(msg, keys.Tab5):
			a.activeView = viewPain
			return a, a.pain.refresh()
		case key.Matches(msg, keys.Tab6):
			a.activeView = viewSettings
			return a, a.settings.refresh()
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % 6
			return a, a.refreshCurrentView()
		}

	case statusMsg:
		a.status = msg.text
		return a, nil

	case checkinToggledMsg:
		switch {
		case msg.undone:
			a.status = "Check-in undone"
		case msg.milestone:
			a.status = fmt.Sprintf("🎉 %d-day milestone reached!", msg.streakLen)
		default:
			a.status = fmt.Sprintf("Checked in. Streak: %s", plural(msg.streakLen, "day"))
		}
		return a, a.today.loadData()

	case painLoggedMsg:
		a.status = fmt.Sprintf("Logged %s pain (%d/10)", msg.log.BodyPart, msg.log.Severity)
		return a, a.pain.refresh()

	case coachReplyMsg:
		// The reply may land while another tab is active.
		var cmd tea.Cmd
		a.coach, cmd = a.coach.update(msg)
		return a, cmd

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.exportPicking = false
		return a, nil
	}

	return a.updateActiveView(msg)
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewToday:
		a.today, cmd = a.today.update(msg)
	case viewHabits:
		a.habits, cmd = a.habits.update(msg)
	case viewCalendar:
		a.calendar, cmd = a.calendar.update(msg)
	case viewCoach:
		a.coach, cmd = a.coach.update(msg)
	case viewPain:
		a.pain, cmd = a.pain.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isCapturingInput() bool {
	switch a.activeView {
	case viewHabits:
		return a.habits.formActive
	case viewCoach:
		return a.coach.available() && a.coach.input.Focused()
	case viewPain:
		return a.pain.formActive
	case viewSettings:
		return a.settings.formActive
	}
	return false
}

func (a App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewToday:
		return a.today.loadData()
	case viewHabits:
		return a.habits.refresh()
	case viewCalendar:
		return a.calendar.refresh()
	case viewCoach:
		return a.coach.refresh()
	case viewPain:
		return a.pain.refresh()
	case viewSettings:
		return a.settings.refresh()
	}
	return nil
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewToday:
		content = a.today.view()
	case viewHabits:
		content = a.habits.view()
	case viewCalendar:
		content = a.calendar.view()
	case viewCoach:
		content = a.coach.view()
	case viewPain:
		content = a.pain.view()
	case viewSettings:
		content = a.settings.view()
	}

	// Calculate available height for content
	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	// Show export picker overlay
	if a.exportPicking {
		content = a.renderExportPicker()
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

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("stride")
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		status = mutedStyle.Render(" " + a.status)
	}

	left := footerStyle.Render(helpView)

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(status) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, status)
}

var exportFormats = []string{"CSV", "JSON", "Reminder (.ics)"}

func (a App) renderExportPicker() string {
	title := titleStyle.Render("Export")
	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	for i, f := range exportFormats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < len(exportFormats)-1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(a.exportCursor)
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

func (a App) doExport(format int) tea.Cmd {
	settings := a.settings
	return func() tea.Msg {
		home, _ := os.UserHomeDir()
		dateStr := time.Now().Format("2006-01-02")

		if format == 2 {
			ev, err := settings.reminderEvent(time.Now())
			if err != nil {
				return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
			}
			path := filepath.Join(home, fmt.Sprintf("stride-reminder-%s.ics", dateStr))
			if err := export.WriteReminderICS(ev, path); err != nil {
				return statusMsg{text: fmt.Sprintf("ICS error: %v", err), isError: true}
			}
			return exportDoneMsg{path: path}
		}

		checkins, err := a.store.ListCheckIns(store.CheckInFilter{})
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}

		habits := make(map[int64]*store.Habit)
		hlist, _ := a.store.ListHabits(true)
		for i := range hlist {
			habits[hlist[i].ID] = &hlist[i]
		}

		var path string
		if format == 0 {
			path = filepath.Join(home, fmt.Sprintf("stride-export-%s.csv", dateStr))
			if err := export.ToCSV(checkins, habits, path); err != nil {
				return statusMsg{text: fmt.Sprintf("CSV error: %v", err), isError: true}
			}
		} else {
			path = filepath.Join(home, fmt.Sprintf("stride-export-%s.json", dateStr))
			if err := export.ToJSON(checkins, habits, path); err != nil {
				return statusMsg{text: fmt.Sprintf("JSON error: %v", err), isError: true}
			}
		}

		return exportDoneMsg{path: path}
	}
}
