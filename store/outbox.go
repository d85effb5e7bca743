package store

import (
	"fmt"
	"time"
)

// OutboxMessage is a broker publication staged in the same transaction as
// the state change it announces. The drainer picks up unsent rows and
// publishes them, so a broker outage never loses a posting.
type OutboxMessage struct {
	ID        int64      `json:"id"`
	Topic     string     `json:"topic"`
	Payload   []byte     `json:"payload"`
	MsgType   string     `json:"msg_type"`
	RefID     string     `json:"ref_id"`
	Retries   int        `json:"retries"`
	CreatedAt time.Time  `json:"created_at"`
	SentAt    *time.Time `json:"sent_at,omitempty"`
}

func (db *DB) EnqueueOutbox(q Queryer, topic string, payload []byte, msgType, refID string) error {
	_, err := q.Exec(db.Q(`INSERT INTO outbox (topic, payload, msg_type, ref_id) VALUES (?, ?, ?, ?)`),
		topic, payload, msgType, refID)
	if err != nil {
		return fmt.Errorf("enqueue outbox: %w", err)
	}
	return nil
}

func (db *DB) PendingOutbox(limit int) ([]*OutboxMessage, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.Query(db.Q(`SELECT id, topic, payload, msg_type, ref_id, retries, created_at, sent_at FROM outbox WHERE sent_at IS NULL ORDER BY id LIMIT ?`), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []*OutboxMessage
	for rows.Next() {
		var m OutboxMessage
		var createdAt, sentAt any
		if err := rows.Scan(&m.ID, &m.Topic, &m.Payload, &m.MsgType, &m.RefID, &m.Retries, &createdAt, &sentAt); err != nil {
			return nil, err
		}
		m.CreatedAt = parseTime(createdAt)
		m.SentAt = parseTimePtr(sentAt)
		msgs = append(msgs, &m)
	}
	return msgs, rows.Err()
}

func (db *DB) MarkOutboxSent(id int64) error {
	_, err := db.Exec(db.Q(`UPDATE outbox SET sent_at=datetime('now','localtime') WHERE id=?`), id)
	return err
}

func (db *DB) BumpOutboxRetries(id int64) error {
	_, err := db.Exec(db.Q(`UPDATE outbox SET retries=retries+1 WHERE id=?`), id)
	return err
}
