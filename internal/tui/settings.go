package tui

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/stridehq/stride/internal/calendar"
	"github.com/stridehq/stride/internal/store"
)

type settingsModel struct {
	store  *store.Store
	width  int
	height int

	settings   []store.Setting
	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	displayName  *string
	weeklyGoal   *string
	reminderHour *string
	tier         *string
	coachEnabled *string
}

func newSettingsModel(s *store.Store) settingsModel {
	dn, wg, rh, tr, ce := "", "", "", "", ""
	return settingsModel{
		store:        s,
		displayName:  &dn,
		weeklyGoal:   &wg,
		reminderHour: &rh,
		tier:         &tr,
		coachEnabled: &ce,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type settingsDataMsg struct {
	settings []store.Setting
}

func (s settingsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		settings, _ := s.store.GetAllSettings()
		return settingsDataMsg{settings: settings}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		s.settings = msg.settings
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.New):
			return s.showForm()
		case key.Matches(msg, keys.Link):
			return s, s.reminderLink()
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	// Load current values
	*s.displayName = s.getVal("display_name", "")
	*s.weeklyGoal = s.getVal("weekly_goal", "5")
	*s.reminderHour = s.getVal("reminder_hour", "7")
	*s.tier = s.getVal("subscription_tier", store.TierFree)
	*s.coachEnabled = s.getVal("coach_enabled", "true")

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Display name").Value(s.displayName),
			huh.NewInput().Title("Weekly goal (check-in days)").Value(s.weeklyGoal),
			huh.NewInput().Title("Reminder hour (0-23)").Value(s.reminderHour),
		).Title("Profile"),
		huh.NewGroup(
			huh.NewSelect[string]().Title("Subscription tier").
				Options(
					huh.NewOption("Free", store.TierFree),
					huh.NewOption("Pro", store.TierPro),
				).Value(s.tier),
			huh.NewSelect[string]().Title("AI coach").
				Options(
					huh.NewOption("Enabled", "true"),
					huh.NewOption("Disabled", "false"),
				).Value(s.coachEnabled),
		).Title("Coach"),
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
		s.saveSettings()
		return s, s.refresh()
	}

	return s, cmd
}

func (s settingsModel) saveSettings() {
	s.store.SetSetting("display_name", *s.displayName)
	if _, err := strconv.Atoi(*s.weeklyGoal); err == nil {
		s.store.SetSetting("weekly_goal", *s.weeklyGoal)
	}
	if h, err := strconv.Atoi(*s.reminderHour); err == nil && h >= 0 && h <= 23 {
		s.store.SetSetting("reminder_hour", *s.reminderHour)
	}
	s.store.SetSetting("subscription_tier", *s.tier)
	s.store.SetSetting("coach_enabled", *s.coachEnabled)
}

// reminderLink builds a Google Calendar URL for tomorrow's reminder at the
// configured hour and surfaces it in the status bar.
func (s settingsModel) reminderLink() tea.Cmd {
	return func() tea.Msg {
		ev, err := s.reminderEvent(time.Now())
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		u, err := calendar.GoogleURL(ev)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		return statusMsg{text: "Add to Google Calendar: " + u}
	}
}

func (s settingsModel) reminderEvent(now time.Time) (calendar.Event, error) {
	hour := 7
	if v, err := s.store.GetSetting("reminder_hour"); err == nil {
		if h, err := strconv.Atoi(v); err == nil && h >= 0 && h <= 23 {
			hour = h
		}
	}

	start := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
	return calendar.Event{
		Title:       "stride check-in",
		Description: "Daily habit check-in reminder",
		Start:       start,
		End:         start.Add(15 * time.Minute),
	}, nil
}

func (s settingsModel) getVal(k, fallback string) string {
	v, err := s.store.GetSetting(k)
	if err != nil {
		return fallback
	}
	return v
}

func (s settingsModel) view() string {
	w := s.width - 4

	if s.formActive && s.form != nil {
		title := titleStyle.Render("Settings")
		formView := s.form.View()
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", formView),
		)
	}

	title := titleStyle.Render("Settings")

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	for _, setting := range s.settings {
		label := lipgloss.NewStyle().Width(24).Render(setting.Key)
		value := highlightStyle.Render(formatSettingValue(setting.Key, setting.Value))
		rows = append(rows, fmt.Sprintf("  %s %s", label, value))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("Press enter to edit settings, g for a calendar reminder link"))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func formatSettingValue(k, v string) string {
	switch k {
	case "reminder_hour":
		if h, err := strconv.Atoi(v); err == nil {
			return fmt.Sprintf("%02d:00", h)
		}
	case "weekly_goal":
		if n, err := strconv.Atoi(v); err == nil {
			return fmt.Sprintf("%s / week", plural(n, "day"))
		}
	case "display_name":
		if v == "" {
			return mutedStyle.Render("(not set)")
		}
	}
	return v
}
