package store

import (
	"fmt"
	"time"

	"github.com/stridehq/stride/internal/streak"
)

// LogCheckIn records a completion of the habit at the current instant.
func (s *Store) LogCheckIn(habitID int64, note string) (*CheckIn, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(
		`INSERT INTO checkins (habit_id, completed_at, note, created_at) VALUES (?, ?, ?, ?)`,
		habitID, now, note, now,
	)
	if err != nil {
		return nil, fmt.Errorf("log check-in: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.GetCheckIn(id)
}

func (s *Store) GetCheckIn(id int64) (*CheckIn, error) {
	c := &CheckIn{}
	var completedAt, createdAt string
	err := s.db.QueryRow(
		`SELECT id, habit_id, completed_at, note, created_at FROM checkins WHERE id = ?`, id,
	).Scan(&c.ID, &c.HabitID, &completedAt, &c.Note, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("get check-in %d: %w", id, err)
	}
	if c.CompletedAt, err = parseTimestamp(completedAt); err != nil {
		return nil, fmt.Errorf("check-in %d: %w", id, err)
	}
	c.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return c, nil
}

func (s *Store) DeleteCheckIn(id int64) error {
	_, err := s.db.Exec(`DELETE FROM checkins WHERE id = ?`, id)
	return err
}

func (s *Store) ListCheckIns(f CheckInFilter) ([]CheckIn, error) {
	query := `SELECT id, habit_id, completed_at, note, created_at FROM checkins WHERE 1=1`
	var args []any

	if f.HabitID != nil {
		query += ` AND habit_id = ?`
		args = append(args, *f.HabitID)
	}
	// Timestamps are stored in UTC; normalize bounds so the string
	// comparison stays correct for callers passing local times.
	if f.From != nil {
		query += ` AND completed_at >= ?`
		args = append(args, f.From.UTC().Format(time.RFC3339))
	}
	if f.To != nil {
		query += ` AND completed_at < ?`
		args = append(args, f.To.UTC().Format(time.RFC3339))
	}
	query += ` ORDER BY completed_at DESC`
	if f.Limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, f.Limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list check-ins: %w", err)
	}
	defer rows.Close()

	var checkins []CheckIn
	for rows.Next() {
		var c CheckIn
		var completedAt, createdAt string
		if err := rows.Scan(&c.ID, &c.HabitID, &completedAt, &c.Note, &createdAt); err != nil {
			return nil, err
		}
		if c.CompletedAt, err = parseTimestamp(completedAt); err != nil {
			return nil, fmt.Errorf("check-in %d: %w", c.ID, err)
		}
		c.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		checkins = append(checkins, c)
	}
	return checkins, rows.Err()
}

// CompletionTimes returns every completion instant, newest first, optionally
// restricted to one habit. This is the input the streak package consumes.
func (s *Store) CompletionTimes(habitID *int64) ([]time.Time, error) {
	query := `SELECT completed_at FROM checkins`
	var args []any
	if habitID != nil {
		query += ` WHERE habit_id = ?`
		args = append(args, *habitID)
	}
	query += ` ORDER BY completed_at DESC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("completion times: %w", err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return streak.ParseTimes(values)
}

// parseTimestamp is strict: a completed_at value that does not parse is
// surfaced as an error rather than silently zeroed, so corrupt rows cannot
// read as a broken streak.
func parseTimestamp(v string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", streak.ErrInvalidTimestamp, v)
	}
	return t, nil
}
