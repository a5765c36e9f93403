package tui

import (
	"fmt"
	"time"

	"github.com/stridehq/stride/internal/store"
)

// viewState represents the currently active view.
type viewState int

const (
	viewToday viewState = iota
	viewHabits
	viewCalendar
	viewCoach
	viewPain
	viewSettings
)

var viewNames = []string{"Today", "Habits", "Calendar", "Coach", "Pain", "Settings"}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

type checkinToggledMsg struct {
	undone    bool
	streakLen int
	milestone bool
}

type coachReplyMsg struct {
	conversationID string
	err            error
}

type painLoggedMsg struct {
	log *store.PainLog
}

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

// dayBounds returns local midnight of t's day and of the following day.
func dayBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
