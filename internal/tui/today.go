package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stridehq/stride/internal/store"
	"github.com/stridehq/stride/internal/streak"
)

type todayModel struct {
	store  *store.Store
	width  int
	height int

	habits    []store.Habit
	doneToday map[int64]int64 // habit ID -> today's check-in ID
	cursor    int

	current   int
	longest   int
	daysSince int
}

func newTodayModel(s *store.Store) todayModel {
	return todayModel{
		store:     s,
		doneToday: map[int64]int64{},
		daysSince: streak.Never,
	}
}

func (d todayModel) Init() tea.Cmd {
	return d.loadData()
}

func (d *todayModel) setSize(w, h int) {
	d.width = w
	d.height = h
}

type todayDataMsg struct {
	habits    []store.Habit
	doneToday map[int64]int64
	current   int
	longest   int
	daysSince int
}

func (d todayModel) loadData() tea.Cmd {
	return func() tea.Msg {
		habits, err := d.store.ListHabits(false)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}

		now := time.Now()
		times, err := d.store.CompletionTimes(nil)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}

		dayStart, dayEnd := dayBounds(now)
		todays, err := d.store.ListCheckIns(store.CheckInFilter{From: &dayStart, To: &dayEnd})
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		done := make(map[int64]int64, len(todays))
		for _, c := range todays {
			done[c.HabitID] = c.ID
		}

		return todayDataMsg{
			habits:    habits,
			doneToday: done,
			current:   streak.Current(times, now),
			longest:   streak.Longest(times, now.Location()),
			daysSince: streak.DaysSince(times, now),
		}
	}
}

func (d todayModel) update(msg tea.Msg) (todayModel, tea.Cmd) {
	switch msg := msg.(type) {
	case todayDataMsg:
		d.habits = msg.habits
		d.doneToday = msg.doneToday
		d.current = msg.current
		d.longest = msg.longest
		d.daysSince = msg.daysSince
		if d.cursor >= len(d.habits) {
			d.cursor = max(0, len(d.habits)-1)
		}
		return d, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if d.cursor > 0 {
				d.cursor--
			}
		case key.Matches(msg, keys.Down):
			if d.cursor < len(d.habits)-1 {
				d.cursor++
			}
		case key.Matches(msg, keys.CheckIn), key.Matches(msg, keys.Enter):
			if len(d.habits) == 0 {
				return d, func() tea.Msg {
					return statusMsg{text: "No habits yet. Press 2 to go to Habits and create one.", isError: true}
				}
			}
			return d, d.toggleCheckIn(d.habits[d.cursor].ID)
		}
	}
	return d, nil
}

// toggleCheckIn logs a check-in for the habit, or undoes today's if one
// already exists.
func (d todayModel) toggleCheckIn(habitID int64) tea.Cmd {
	checkinID, done := d.doneToday[habitID]
	return func() tea.Msg {
		if done {
			if err := d.store.DeleteCheckIn(checkinID); err != nil {
				return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
			}
			return checkinToggledMsg{undone: true}
		}

		if _, err := d.store.LogCheckIn(habitID, ""); err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}

		now := time.Now()
		times, err := d.store.CompletionTimes(nil)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		n := streak.Current(times, now)
		return checkinToggledMsg{streakLen: n, milestone: streak.Milestone(n)}
	}
}

func (d todayModel) view() string {
	if d.width < 20 {
		return "Terminal too small"
	}

	contentWidth := d.width - 4

	streakPanel := d.renderStreakPanel(contentWidth)
	habitsPanel := d.renderHabitsPanel(contentWidth)

	return lipgloss.JoinVertical(lipgloss.Left, streakPanel, habitsPanel)
}

func (d todayModel) renderStreakPanel(w int) string {
	style := streakStyle
	note := ""

	switch {
	case d.daysSince == streak.Never:
		note = mutedStyle.Render("No activity yet. Check in below to start your streak.")
	case d.current > 0 && d.daysSince == 0:
		style = streakHotStyle
		note = successStyle.Render("Checked in today. Keep it rolling!")
	case d.current > 0:
		style = streakColdStyle
		note = warningStyle.Render("Streak alive, but you haven't checked in today.")
	default:
		note = mutedStyle.Render(fmt.Sprintf("Streak broken. Last activity %s ago.", plural(d.daysSince, "day")))
	}

	flame := style.Width(w - 6).Render(fmt.Sprintf("🔥 %d", d.current))
	label := mutedStyle.Render(fmt.Sprintf("day streak  ·  best %d", d.longest))

	content := lipgloss.JoinVertical(lipgloss.Center, flame, label, note)
	if d.current > 0 && d.daysSince == 0 {
		return activePanelStyle.Width(w).Render(content)
	}
	return panelStyle.Width(w).Render(content)
}

func (d todayModel) renderHabitsPanel(w int) string {
	title := titleStyle.Render("Today's Check-in")

	if len(d.habits) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No habits yet. Press 2 to go to Habits and create one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	for i, h := range d.habits {
		colorDot := lipgloss.NewStyle().Foreground(lipgloss.Color(h.Color)).Render("●")
		mark := mutedStyle.Render("○")
		if _, ok := d.doneToday[h.ID]; ok {
			mark = successStyle.Render("✓")
		}
		cursor := "  "
		style := normalItemStyle
		if i == d.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s%s %s %-24s", cursor, mark, colorDot, h.Name))+
			mutedStyle.Render(h.Category))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  c/enter: toggle check-in  ↑/↓: move"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
