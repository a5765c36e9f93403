package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/stridehq/stride/internal/store"
	"github.com/stridehq/stride/internal/streak"
)

var habitColors = []string{"#2EC4B6", "#6C63FF", "#FF6B6B", "#F39C12", "#2ECC71", "#E74C3C", "#9B59B6", "#3498DB"}
var habitCategories = []string{"movement", "strength", "mobility", "recovery", "nutrition", "sleep"}

type habitsModel struct {
	store  *store.Store
	width  int
	height int

	habits  []store.Habit
	streaks map[int64]int // per-habit current streak
	cursor  int

	formActive bool
	form       *huh.Form
	formType   string // "habit", "edit_habit"

	// Form field pointers (survive value copies)
	formName     *string
	formColor    *string
	formCategory *string

	editingID int64
}

func newHabitsModel(s *store.Store) habitsModel {
	name, color, cat := "", habitColors[0], ""
	return habitsModel{
		store:        s,
		streaks:      map[int64]int{},
		formName:     &name,
		formColor:    &color,
		formCategory: &cat,
	}
}

func (m *habitsModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

type habitsDataMsg struct {
	habits  []store.Habit
	streaks map[int64]int
}

func (m habitsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		habits, err := m.store.ListHabits(false)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}

		now := time.Now()
		streaks := make(map[int64]int, len(habits))
		for i := range habits {
			times, err := m.store.CompletionTimes(&habits[i].ID)
			if err != nil {
				return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
			}
			streaks[habits[i].ID] = streak.Current(times, now)
		}
		return habitsDataMsg{habits: habits, streaks: streaks}
	}
}

func (m habitsModel) update(msg tea.Msg) (habitsModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case habitsDataMsg:
		m.habits = msg.habits
		m.streaks = msg.streaks
		if m.cursor >= len(m.habits) {
			m.cursor = max(0, len(m.habits)-1)
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.habits)-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.New):
			return m.showNewHabitForm()
		case key.Matches(msg, keys.Export):
			if len(m.habits) > 0 {
				return m.showEditHabitForm()
			}
		case key.Matches(msg, keys.Delete):
			if len(m.habits) > 0 {
				h := m.habits[m.cursor]
				m.store.ArchiveHabit(h.ID)
				return m, m.refresh()
			}
		}
	}
	return m, nil
}

func habitFormGroups(name, color, category *string) *huh.Form {
	colorOptions := make([]huh.Option[string], len(habitColors))
	for i, c := range habitColors {
		colorOptions[i] = huh.NewOption(fmt.Sprintf("● %s", c), c)
	}
	catOptions := make([]huh.Option[string], len(habitCategories))
	for i, c := range habitCategories {
		catOptions[i] = huh.NewOption(c, c)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Habit Name").Value(name),
			huh.NewSelect[string]().Title("Color").Options(colorOptions...).Value(color),
			huh.NewSelect[string]().Title("Category").Options(catOptions...).Value(category),
		),
	).WithShowHelp(true).WithShowErrors(true)
}

func (m habitsModel) showNewHabitForm() (habitsModel, tea.Cmd) {
	*m.formName = ""
	*m.formColor = habitColors[0]
	*m.formCategory = habitCategories[0]
	m.formType = "habit"
	m.form = habitFormGroups(m.formName, m.formColor, m.formCategory)
	m.formActive = true
	return m, m.form.Init()
}

func (m habitsModel) showEditHabitForm() (habitsModel, tea.Cmd) {
	h := m.habits[m.cursor]
	*m.formName = h.Name
	*m.formColor = h.Color
	*m.formCategory = h.Category
	m.formType = "edit_habit"
	m.editingID = h.ID
	m.form = habitFormGroups(m.formName, m.formColor, m.formCategory)
	m.formActive = true
	return m, m.form.Init()
}

func (m habitsModel) updateForm(msg tea.Msg) (habitsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			m.formActive = false
			m.form = nil
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.formActive = false
		switch m.formType {
		case "habit":
			if *m.formName != "" {
				m.store.CreateHabit(*m.formName, *m.formColor, *m.formCategory)
			}
		case "edit_habit":
			if *m.formName != "" {
				m.store.UpdateHabit(m.editingID, *m.formName, *m.formColor, *m.formCategory)
			}
		}
		return m, m.refresh()
	}

	return m, cmd
}

func (m habitsModel) view() string {
	w := m.width - 4

	if m.formActive && m.form != nil {
		title := titleStyle.Render("New Habit")
		if m.formType == "edit_habit" {
			title = titleStyle.Render("Edit Habit")
		} else if len(m.habits) == 0 {
			title = titleStyle.Render("Welcome to stride! Set up your first habit")
		}
		formView := m.form.View()
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", formView)
		return panelStyle.Width(w).Render(content)
	}

	title := titleStyle.Render("Habits")

	if len(m.habits) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No habits yet. Press n to create your first one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	header := mutedStyle.Render(fmt.Sprintf("  %-3s %-24s %-12s %s", "", "Name", "Category", "Streak"))
	rows = append(rows, header)

	for i, h := range m.habits {
		colorDot := lipgloss.NewStyle().Foreground(lipgloss.Color(h.Color)).Render("●")
		cursor := "  "
		style := normalItemStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		streakCol := mutedStyle.Render("—")
		if n := m.streaks[h.ID]; n > 0 {
			streakCol = successStyle.Render(fmt.Sprintf("🔥 %d", n))
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s%s %-24s %-12s", cursor, colorDot, h.Name, h.Category))+streakCol)
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  e: edit  d: archive"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
