package store

import (
	"fmt"
	"time"
)

func (s *Store) CreateHabit(name, color, category string) (*Habit, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(
		`INSERT INTO habits (name, color, category, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		name, color, category, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert habit: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.GetHabit(id)
}

func (s *Store) GetHabit(id int64) (*Habit, error) {
	h := &Habit{}
	var createdAt, updatedAt string
	var archived int
	err := s.db.QueryRow(
		`SELECT id, name, color, category, archived, created_at, updated_at FROM habits WHERE id = ?`, id,
	).Scan(&h.ID, &h.Name, &h.Color, &h.Category, &archived, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("get habit %d: %w", id, err)
	}
	h.Archived = archived == 1
	h.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	h.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return h, nil
}

func (s *Store) ListHabits(includeArchived bool) ([]Habit, error) {
	query := `SELECT id, name, color, category, archived, created_at, updated_at FROM habits`
	if !includeArchived {
		query += ` WHERE archived = 0`
	}
	query += ` ORDER BY name`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}
	defer rows.Close()

	var habits []Habit
	for rows.Next() {
		var h Habit
		var createdAt, updatedAt string
		var archived int
		if err := rows.Scan(&h.ID, &h.Name, &h.Color, &h.Category, &archived, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		h.Archived = archived == 1
		h.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		h.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
		habits = append(habits, h)
	}
	return habits, rows.Err()
}

func (s *Store) UpdateHabit(id int64, name, color, category string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`UPDATE habits SET name = ?, color = ?, category = ?, updated_at = ? WHERE id = ?`,
		name, color, category, now, id,
	)
	return err
}

func (s *Store) ArchiveHabit(id int64) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`UPDATE habits SET archived = 1, updated_at = ? WHERE id = ?`, now, id,
	)
	return err
}
