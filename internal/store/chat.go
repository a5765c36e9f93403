package store

import (
	"database/sql"
	"fmt"
	"time"
)

// AppendMessage stores one coach chat message in a conversation.
func (s *Store) AppendMessage(conversationID, role, content string) (*ChatMessage, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(
		`INSERT INTO chat_messages (conversation_id, role, content, created_at) VALUES (?, ?, ?, ?)`,
		conversationID, role, content, now,
	)
	if err != nil {
		return nil, fmt.Errorf("append message: %w", err)
	}
	id, _ := res.LastInsertId()

	m := &ChatMessage{ID: id, ConversationID: conversationID, Role: role, Content: content}
	m.CreatedAt, _ = time.Parse(time.RFC3339, now)
	return m, nil
}

func (s *Store) ListMessages(conversationID string) ([]ChatMessage, error) {
	rows, err := s.db.Query(
		`SELECT id, conversation_id, role, content, created_at FROM chat_messages
		 WHERE conversation_id = ? ORDER BY id`, conversationID,
	)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var msgs []ChatMessage
	for rows.Next() {
		var m ChatMessage
		var createdAt string
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.Role, &m.Content, &createdAt); err != nil {
			return nil, err
		}
		m.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

// LatestConversationID returns the most recently used conversation, or ""
// when no coach chat has happened yet.
func (s *Store) LatestConversationID() (string, error) {
	var id string
	err := s.db.QueryRow(
		`SELECT conversation_id FROM chat_messages ORDER BY id DESC LIMIT 1`,
	).Scan(&id)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("latest conversation: %w", err)
	}
	return id, nil
}
