package store

import (
	"fmt"
	"time"
)

// LogPain records a body-pain entry. Severity must be within 1..10.
func (s *Store) LogPain(bodyPart string, severity int, note string) (*PainLog, error) {
	if bodyPart == "" {
		return nil, fmt.Errorf("log pain: empty body part")
	}
	if severity < 1 || severity > 10 {
		return nil, fmt.Errorf("log pain: severity %d out of range 1..10", severity)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(
		`INSERT INTO pain_logs (body_part, severity, note, logged_at) VALUES (?, ?, ?, ?)`,
		bodyPart, severity, note, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert pain log: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.GetPainLog(id)
}

func (s *Store) GetPainLog(id int64) (*PainLog, error) {
	p := &PainLog{}
	var loggedAt string
	err := s.db.QueryRow(
		`SELECT id, body_part, severity, note, logged_at FROM pain_logs WHERE id = ?`, id,
	).Scan(&p.ID, &p.BodyPart, &p.Severity, &p.Note, &loggedAt)
	if err != nil {
		return nil, fmt.Errorf("get pain log %d: %w", id, err)
	}
	p.LoggedAt, _ = time.Parse(time.RFC3339, loggedAt)
	return p, nil
}

func (s *Store) ListPainLogs(limit int) ([]PainLog, error) {
	query := `SELECT id, body_part, severity, note, logged_at FROM pain_logs ORDER BY logged_at DESC`
	if limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, limit)
	}

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("list pain logs: %w", err)
	}
	defer rows.Close()

	var logs []PainLog
	for rows.Next() {
		var p PainLog
		var loggedAt string
		if err := rows.Scan(&p.ID, &p.BodyPart, &p.Severity, &p.Note, &loggedAt); err != nil {
			return nil, err
		}
		p.LoggedAt, _ = time.Parse(time.RFC3339, loggedAt)
		logs = append(logs, p)
	}
	return logs, rows.Err()
}

func (s *Store) DeletePainLog(id int64) error {
	_, err := s.db.Exec(`DELETE FROM pain_logs WHERE id = ?`, id)
	return err
}
