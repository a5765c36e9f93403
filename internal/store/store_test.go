package store

import (
	"errors"
	"testing"
	"time"

	"github.com/stridehq/stride/internal/streak"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// insertCheckIn is a test helper that inserts a check-in at a fixed instant.
func insertCheckIn(t *testing.T, s *Store, habitID int64, completedAt time.Time) int64 {
	t.Helper()
	res, err := s.db.Exec(
		`INSERT INTO checkins (habit_id, completed_at) VALUES (?, ?)`,
		habitID, completedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		t.Fatalf("insert check-in: %v", err)
	}
	id, _ := res.LastInsertId()
	return id
}

// ============================================================
// Store initialization
// ============================================================

func TestNewMemory(t *testing.T) {
	s, err := NewMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	// Should have run migration v1
	var version int
	s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if version != 1 {
		t.Fatalf("expected user_version 1, got %d", version)
	}
}

func TestNewWithPath(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/sub/stride.db"
	s, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	s.Close()

	// Reopen — should succeed and not re-migrate
	s2, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	s2.Close()
}

func TestDefaultDBPath(t *testing.T) {
	path, err := DefaultDBPath()
	if err != nil {
		t.Fatal(err)
	}
	if path == "" {
		t.Fatal("empty path")
	}
}

func TestMigrationIdempotent(t *testing.T) {
	s := newTestStore(t)
	if err := s.migrate(); err != nil {
		t.Fatalf("second migration failed: %v", err)
	}
}

// ============================================================
// Habits
// ============================================================

func TestCreateAndGetHabit(t *testing.T) {
	s := newTestStore(t)
	h, err := s.CreateHabit("Morning walk", "#2EC4B6", "movement")
	if err != nil {
		t.Fatal(err)
	}
	if h.Name != "Morning walk" || h.Color != "#2EC4B6" || h.Category != "movement" {
		t.Fatalf("unexpected habit: %+v", h)
	}
	if h.ID == 0 {
		t.Fatal("expected non-zero ID")
	}
	if h.Archived {
		t.Fatal("new habit should not be archived")
	}
	if h.CreatedAt.IsZero() {
		t.Fatal("CreatedAt should be set")
	}
}

func TestCreateHabitDuplicateName(t *testing.T) {
	s := newTestStore(t)
	_, err := s.CreateHabit("Dup", "#111", "movement")
	if err != nil {
		t.Fatal(err)
	}
	_, err = s.CreateHabit("Dup", "#222", "strength")
	if err == nil {
		t.Fatal("expected error for duplicate habit name")
	}
}

func TestGetHabitNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetHabit(999)
	if err == nil {
		t.Fatal("expected error for missing habit")
	}
}

func TestListHabitsExcludesArchived(t *testing.T) {
	s := newTestStore(t)
	a, _ := s.CreateHabit("A", "#111", "movement")
	s.CreateHabit("B", "#222", "strength")
	s.ArchiveHabit(a.ID)

	habits, err := s.ListHabits(false)
	if err != nil {
		t.Fatal(err)
	}
	if len(habits) != 1 || habits[0].Name != "B" {
		t.Fatalf("unexpected habits: %+v", habits)
	}

	all, _ := s.ListHabits(true)
	if len(all) != 2 {
		t.Fatalf("expected 2 habits including archived, got %d", len(all))
	}
}

func TestUpdateHabit(t *testing.T) {
	s := newTestStore(t)
	h, _ := s.CreateHabit("Old", "#111", "movement")
	if err := s.UpdateHabit(h.ID, "New", "#333", "recovery"); err != nil {
		t.Fatal(err)
	}
	got, _ := s.GetHabit(h.ID)
	if got.Name != "New" || got.Color != "#333" || got.Category != "recovery" {
		t.Fatalf("update not applied: %+v", got)
	}
}

// ============================================================
// Check-ins
// ============================================================

func TestLogCheckIn(t *testing.T) {
	s := newTestStore(t)
	h, _ := s.CreateHabit("Run", "#111", "movement")

	c, err := s.LogCheckIn(h.ID, "5k easy")
	if err != nil {
		t.Fatal(err)
	}
	if c.HabitID != h.ID || c.Note != "5k easy" {
		t.Fatalf("unexpected check-in: %+v", c)
	}
	if c.CompletedAt.IsZero() {
		t.Fatal("CompletedAt should be set")
	}
}

func TestListCheckInsFilter(t *testing.T) {
	s := newTestStore(t)
	h1, _ := s.CreateHabit("Run", "#111", "movement")
	h2, _ := s.CreateHabit("Lift", "#222", "strength")

	base := time.Date(2024, 6, 10, 8, 0, 0, 0, time.UTC)
	insertCheckIn(t, s, h1.ID, base)
	insertCheckIn(t, s, h1.ID, base.AddDate(0, 0, 1))
	insertCheckIn(t, s, h2.ID, base.AddDate(0, 0, 2))

	byHabit, err := s.ListCheckIns(CheckInFilter{HabitID: &h1.ID})
	if err != nil {
		t.Fatal(err)
	}
	if len(byHabit) != 2 {
		t.Fatalf("expected 2 check-ins for habit, got %d", len(byHabit))
	}

	from := base.AddDate(0, 0, 1)
	to := base.AddDate(0, 0, 3)
	byRange, err := s.ListCheckIns(CheckInFilter{From: &from, To: &to})
	if err != nil {
		t.Fatal(err)
	}
	if len(byRange) != 2 {
		t.Fatalf("expected 2 check-ins in range, got %d", len(byRange))
	}

	limited, _ := s.ListCheckIns(CheckInFilter{Limit: 1})
	if len(limited) != 1 {
		t.Fatalf("expected 1 check-in with limit, got %d", len(limited))
	}
	// Newest first
	if !limited[0].CompletedAt.Equal(base.AddDate(0, 0, 2)) {
		t.Fatalf("expected newest check-in first, got %v", limited[0].CompletedAt)
	}
}

func TestDeleteCheckIn(t *testing.T) {
	s := newTestStore(t)
	h, _ := s.CreateHabit("Run", "#111", "movement")
	id := insertCheckIn(t, s, h.ID, time.Now().UTC())

	if err := s.DeleteCheckIn(id); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetCheckIn(id); err == nil {
		t.Fatal("expected error after delete")
	}
}

func TestCompletionTimes(t *testing.T) {
	s := newTestStore(t)
	h, _ := s.CreateHabit("Run", "#111", "movement")
	base := time.Date(2024, 6, 10, 8, 0, 0, 0, time.UTC)
	insertCheckIn(t, s, h.ID, base)
	insertCheckIn(t, s, h.ID, base.AddDate(0, 0, 1))

	times, err := s.CompletionTimes(nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(times) != 2 {
		t.Fatalf("expected 2 completion times, got %d", len(times))
	}
}

func TestCompletionTimesCorruptTimestamp(t *testing.T) {
	s := newTestStore(t)
	h, _ := s.CreateHabit("Run", "#111", "movement")
	if _, err := s.db.Exec(
		`INSERT INTO checkins (habit_id, completed_at) VALUES (?, ?)`, h.ID, "garbage",
	); err != nil {
		t.Fatal(err)
	}

	_, err := s.CompletionTimes(nil)
	if err == nil {
		t.Fatal("corrupt completed_at must surface as an error, not an empty streak")
	}
	if !errors.Is(err, streak.ErrInvalidTimestamp) {
		t.Fatalf("error should wrap streak.ErrInvalidTimestamp, got %v", err)
	}
}

// ============================================================
// Pain logs
// ============================================================

func TestLogPain(t *testing.T) {
	s := newTestStore(t)
	p, err := s.LogPain("left knee", 4, "after squats")
	if err != nil {
		t.Fatal(err)
	}
	if p.BodyPart != "left knee" || p.Severity != 4 || p.Note != "after squats" {
		t.Fatalf("unexpected pain log: %+v", p)
	}
	if p.LoggedAt.IsZero() {
		t.Fatal("LoggedAt should be set")
	}
}

func TestLogPainValidation(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.LogPain("", 4, ""); err == nil {
		t.Fatal("expected error for empty body part")
	}
	if _, err := s.LogPain("knee", 0, ""); err == nil {
		t.Fatal("expected error for severity below range")
	}
	if _, err := s.LogPain("knee", 11, ""); err == nil {
		t.Fatal("expected error for severity above range")
	}
}

func TestListPainLogsNewestFirst(t *testing.T) {
	s := newTestStore(t)
	s.LogPain("knee", 3, "")
	s.LogPain("shoulder", 5, "")

	logs, err := s.ListPainLogs(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(logs) != 2 {
		t.Fatalf("expected 2 pain logs, got %d", len(logs))
	}

	limited, _ := s.ListPainLogs(1)
	if len(limited) != 1 {
		t.Fatalf("expected 1 pain log with limit, got %d", len(limited))
	}
}

func TestDeletePainLog(t *testing.T) {
	s := newTestStore(t)
	p, _ := s.LogPain("knee", 3, "")
	if err := s.DeletePainLog(p.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetPainLog(p.ID); err == nil {
		t.Fatal("expected error after delete")
	}
}

// ============================================================
// Chat messages
// ============================================================

func TestChatMessages(t *testing.T) {
	s := newTestStore(t)

	latest, err := s.LatestConversationID()
	if err != nil {
		t.Fatal(err)
	}
	if latest != "" {
		t.Fatalf("expected empty conversation id, got %q", latest)
	}

	s.AppendMessage("conv-1", "user", "my knee hurts")
	s.AppendMessage("conv-1", "assistant", "ease off the squats this week")
	s.AppendMessage("conv-2", "user", "hello")

	msgs, err := s.ListMessages("conv-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if msgs[0].Role != "user" || msgs[1].Role != "assistant" {
		t.Fatalf("messages out of order: %+v", msgs)
	}

	latest, _ = s.LatestConversationID()
	if latest != "conv-2" {
		t.Fatalf("latest conversation = %q, want conv-2", latest)
	}
}

// ============================================================
// Settings
// ============================================================

func TestDefaultSettings(t *testing.T) {
	s := newTestStore(t)
	v, err := s.GetSetting("weekly_goal")
	if err != nil {
		t.Fatal(err)
	}
	if v != "5" {
		t.Fatalf("weekly_goal default = %q, want 5", v)
	}
}

func TestSetSettingUpsert(t *testing.T) {
	s := newTestStore(t)
	if err := s.SetSetting("weekly_goal", "3"); err != nil {
		t.Fatal(err)
	}
	v, _ := s.GetSetting("weekly_goal")
	if v != "3" {
		t.Fatalf("weekly_goal = %q, want 3", v)
	}

	all, err := s.GetAllSettings()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) < 5 {
		t.Fatalf("expected at least 5 settings, got %d", len(all))
	}
}

func TestSubscriptionTier(t *testing.T) {
	s := newTestStore(t)
	if tier := s.SubscriptionTier(); tier != TierFree {
		t.Fatalf("default tier = %q, want free", tier)
	}

	s.SetSetting("subscription_tier", TierPro)
	if tier := s.SubscriptionTier(); tier != TierPro {
		t.Fatalf("tier = %q, want pro", tier)
	}

	s.SetSetting("subscription_tier", "bogus")
	if tier := s.SubscriptionTier(); tier != TierFree {
		t.Fatalf("unrecognized tier should fall back to free, got %q", tier)
	}
}
