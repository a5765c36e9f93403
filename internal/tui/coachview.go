package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/stridehq/stride/internal/coach"
	"github.com/stridehq/stride/internal/store"
	"github.com/stridehq/stride/internal/streak"
)

type coachModel struct {
	store  *store.Store
	client *coach.Client
	width  int
	height int

	tier           string
	enabled        bool
	conversationID string
	messages       []store.ChatMessage
	input          textinput.Model
	thinking       bool
}

func newCoachModel(s *store.Store, client *coach.Client) coachModel {
	ti := textinput.New()
	ti.Placeholder = "Ask your coach..."
	ti.CharLimit = 500
	ti.Width = 60

	return coachModel{
		store:  s,
		client: client,
		tier:   store.TierFree,
		input:  ti,
	}
}

func (c *coachModel) setSize(w, h int) {
	c.width = w
	c.height = h
	c.input.Width = max(20, w-12)
}

type coachDataMsg struct {
	tier           string
	enabled        bool
	conversationID string
	messages       []store.ChatMessage
}

func (c coachModel) refresh() tea.Cmd {
	return func() tea.Msg {
		tier := c.store.SubscriptionTier()
		enabledVal, err := c.store.GetSetting("coach_enabled")
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}

		convID := c.conversationID
		if convID == "" {
			convID, err = c.store.LatestConversationID()
			if err != nil {
				return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
			}
		}

		var messages []store.ChatMessage
		if convID != "" {
			messages, err = c.store.ListMessages(convID)
			if err != nil {
				return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
			}
		}

		return coachDataMsg{
			tier:           tier,
			enabled:        enabledVal == "true",
			conversationID: convID,
			messages:       messages,
		}
	}
}

func (c coachModel) available() bool {
	return c.tier == store.TierPro && c.enabled && c.client != nil
}

func (c coachModel) update(msg tea.Msg) (coachModel, tea.Cmd) {
	switch msg := msg.(type) {
	case coachDataMsg:
		c.tier = msg.tier
		c.enabled = msg.enabled
		c.conversationID = msg.conversationID
		c.messages = msg.messages
		if c.available() && !c.input.Focused() {
			return c, c.input.Focus()
		}
		return c, nil

	case coachReplyMsg:
		c.thinking = false
		if msg.err != nil {
			return c, tea.Batch(c.refresh(), func() tea.Msg {
				return statusMsg{text: fmt.Sprintf("Coach error: %v", msg.err), isError: true}
			})
		}
		c.conversationID = msg.conversationID
		return c, c.refresh()

	case tea.KeyMsg:
		if !c.available() {
			if key.Matches(msg, keys.New) {
				c.conversationID = ""
				c.messages = nil
				return c, c.refresh()
			}
			return c, nil
		}

		switch {
		case msg.String() == "esc":
			c.input.Blur()
			return c, nil
		case key.Matches(msg, keys.Enter):
			if !c.input.Focused() {
				return c, c.input.Focus()
			}
			text := strings.TrimSpace(c.input.Value())
			if text == "" || c.thinking {
				return c, nil
			}
			c.input.SetValue("")
			c.thinking = true
			return c, c.send(text)
		case msg.String() == "ctrl+n":
			c.conversationID = ""
			c.messages = nil
			return c, nil
		}

		var cmd tea.Cmd
		c.input, cmd = c.input.Update(msg)
		return c, cmd
	}

	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	return c, cmd
}

// send persists the user's message and asks the model for a reply. The
// conversation history plus a system prompt built from current progress is
// what the model sees.
func (c coachModel) send(text string) tea.Cmd {
	convID := c.conversationID
	if convID == "" {
		convID = uuid.NewString()
	}

	return func() tea.Msg {
		if _, err := c.store.AppendMessage(convID, "user", text); err != nil {
			return coachReplyMsg{conversationID: convID, err: err}
		}

		history, err := c.store.ListMessages(convID)
		if err != nil {
			return coachReplyMsg{conversationID: convID, err: err}
		}

		system, err := c.systemPrompt()
		if err != nil {
			return coachReplyMsg{conversationID: convID, err: err}
		}

		conversation := make([]coach.Message, 0, len(history)+1)
		conversation = append(conversation, coach.Message{Role: "system", Content: system})
		for _, m := range history {
			conversation = append(conversation, coach.Message{Role: m.Role, Content: m.Content})
		}

		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		resp, err := c.client.Complete(ctx, conversation)
		if err != nil {
			return coachReplyMsg{conversationID: convID, err: err}
		}

		if _, err := c.store.AppendMessage(convID, "assistant", resp.Content); err != nil {
			return coachReplyMsg{conversationID: convID, err: err}
		}
		return coachReplyMsg{conversationID: convID}
	}
}

func (c coachModel) systemPrompt() (string, error) {
	name, err := c.store.GetSetting("display_name")
	if err != nil {
		return "", err
	}
	times, err := c.store.CompletionTimes(nil)
	if err != nil {
		return "", err
	}
	pain, err := c.store.ListPainLogs(5)
	if err != nil {
		return "", err
	}

	now := time.Now()
	return coach.BuildSystemPrompt(name, streak.Current(times, now), streak.DaysSince(times, now), pain), nil
}

func (c coachModel) view() string {
	w := c.width - 4

	title := titleStyle.Render("Coach")

	if !c.enabled {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title, "",
			mutedStyle.Render("The coach is turned off. Enable it in Settings."),
		)
		return panelStyle.Width(w).Render(content)
	}

	if c.tier != store.TierPro {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title, "",
			warningStyle.Render("Coaching is a Pro feature."),
			"",
			mutedStyle.Render("Upgrade your subscription tier in Settings to chat with"),
			mutedStyle.Render("an AI coach that knows your streak and recent pain logs."),
		)
		return panelStyle.Width(w).Render(content)
	}

	if c.client == nil {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title, "",
			mutedStyle.Render("No API key configured. Set coach.api_key in the config file."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	if len(c.messages) == 0 {
		rows = append(rows, mutedStyle.Render("No messages yet. Ask about your training, recovery or goals."))
	}

	wrap := lipgloss.NewStyle().Width(max(20, w-8))
	for _, m := range c.messages {
		label := chatUserStyle.Render("you")
		if m.Role == "assistant" {
			label = chatCoachStyle.Render("coach")
		}
		rows = append(rows, label)
		rows = append(rows, wrap.Render(m.Content))
		rows = append(rows, "")
	}

	if c.thinking {
		rows = append(rows, mutedStyle.Render("coach is typing..."))
		rows = append(rows, "")
	}

	rows = append(rows, c.input.View())
	rows = append(rows, mutedStyle.Render("  enter: send  ctrl+n: new conversation"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
