package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/stridehq/stride/internal/store"
)

var bodyParts = []string{
	"neck", "shoulder", "upper back", "lower back", "elbow",
	"wrist", "hip", "knee", "ankle", "foot",
}

type painModel struct {
	store  *store.Store
	width  int
	height int

	logs   []store.PainLog
	cursor int

	formActive bool
	form       *huh.Form

	formBodyPart *string
	formSeverity *string
	formNote     *string
}

func newPainModel(s *store.Store) painModel {
	part, severity, note := bodyParts[0], "5", ""
	return painModel{
		store:        s,
		formBodyPart: &part,
		formSeverity: &severity,
		formNote:     &note,
	}
}

func (m *painModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

type painDataMsg struct {
	logs []store.PainLog
}

func (m painModel) refresh() tea.Cmd {
	return func() tea.Msg {
		logs, err := m.store.ListPainLogs(50)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		return painDataMsg{logs: logs}
	}
}

func (m painModel) update(msg tea.Msg) (painModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case painDataMsg:
		m.logs = msg.logs
		if m.cursor >= len(m.logs) {
			m.cursor = max(0, len(m.logs)-1)
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.logs)-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.New):
			return m.showForm()
		case key.Matches(msg, keys.Delete):
			if len(m.logs) > 0 {
				m.store.DeletePainLog(m.logs[m.cursor].ID)
				return m, m.refresh()
			}
		}
	}
	return m, nil
}

func (m painModel) showForm() (painModel, tea.Cmd) {
	*m.formBodyPart = bodyParts[0]
	*m.formSeverity = "5"
	*m.formNote = ""

	partOptions := make([]huh.Option[string], len(bodyParts))
	for i, p := range bodyParts {
		partOptions[i] = huh.NewOption(p, p)
	}
	severityOptions := make([]huh.Option[string], 10)
	for i := 1; i <= 10; i++ {
		severityOptions[i-1] = huh.NewOption(strconv.Itoa(i), strconv.Itoa(i))
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("Body Part").Options(partOptions...).Value(m.formBodyPart),
			huh.NewSelect[string]().Title("Severity (1-10)").Options(severityOptions...).Value(m.formSeverity),
			huh.NewInput().Title("Note (optional)").Value(m.formNote),
		),
	).WithShowHelp(true).WithShowErrors(true)
	m.formActive = true
	return m, m.form.Init()
}

func (m painModel) updateForm(msg tea.Msg) (painModel, tea.Cmd) {
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
		severity, _ := strconv.Atoi(*m.formSeverity)
		return m, func() tea.Msg {
			log, err := m.store.LogPain(*m.formBodyPart, severity, *m.formNote)
			if err != nil {
				return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
			}
			return painLoggedMsg{log: log}
		}
	}

	return m, cmd
}

func severityStyle(severity int) lipgloss.Style {
	switch {
	case severity >= 7:
		return errorStyle
	case severity >= 4:
		return warningStyle
	default:
		return successStyle
	}
}

func (m painModel) view() string {
	w := m.width - 4

	if m.formActive && m.form != nil {
		content := lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render("Log Pain"), "", m.form.View(),
		)
		return panelStyle.Width(w).Render(content)
	}

	title := titleStyle.Render("Pain Log")

	if len(m.logs) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title, "",
			mutedStyle.Render("No pain logged. That's the goal. Press n if something hurts."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-12s %-14s %-10s %s", "Date", "Body Part", "Severity", "Note")))

	for i, l := range m.logs {
		cursor := "  "
		style := normalItemStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		sev := severityStyle(l.Severity).Render(fmt.Sprintf("%2d/10", l.Severity))
		note := l.Note
		if len(note) > 40 {
			note = note[:37] + "..."
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s%-12s %-14s ", cursor, l.LoggedAt.Local().Format("Jan 02"), l.BodyPart))+
			sev+"     "+mutedStyle.Render(note))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: log pain  d: delete"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
