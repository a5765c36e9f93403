package store

import "time"

type Habit struct {
	ID        int64
	Name      string
	Color     string
	Category  string
	Archived  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CheckIn is one completion of a habit. CompletedAt is the activity
// instant the streak math runs on; several check-ins may share a day.
type CheckIn struct {
	ID          int64
	HabitID     int64
	CompletedAt time.Time
	Note        string
	CreatedAt   time.Time
}

type PainLog struct {
	ID       int64
	BodyPart string
	Severity int // 1..10
	Note     string
	LoggedAt time.Time
}

type ChatMessage struct {
	ID             int64
	ConversationID string
	Role           string // user, assistant
	Content        string
	CreatedAt      time.Time
}

type Setting struct {
	Key   string
	Value string
}

// Subscription tiers. The tier is a local setting; there is no billing
// backend, the TUI just gates pro features on it.
const (
	TierFree = "free"
	TierPro  = "pro"
)

// CheckInFilter is used to filter check-ins in queries.
type CheckInFilter struct {
	HabitID *int64
	From    *time.Time
	To      *time.Time
	Limit   int
}
