package store

import (
	"fmt"
	"time"
)

type Incident struct {
	ID         int64     `json:"id"`
	DriverName string    `json:"driver_name"`
	RegNumber  string    `json:"reg_number"`
	Kind       string    `json:"kind"`
	Details    string    `json:"details"`
	CreatedAt  time.Time `json:"created_at"`
}

func (db *DB) CreateIncident(i *Incident) error {
	result, err := db.Exec(db.Q(`INSERT INTO incidents (driver_name, reg_number, kind, details) VALUES (?, ?, ?, ?)`),
		i.DriverName, i.RegNumber, i.Kind, i.Details)
	if err != nil {
		return fmt.Errorf("create incident: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("create incident last id: %w", err)
	}
	i.ID = id
	return nil
}

func (db *DB) ListIncidents(reg string, limit int) ([]*Incident, error) {
	if limit <= 0 {
		limit = 100
	}
	var query string
	var args []any
	if reg == "" {
		query = `SELECT id, driver_name, reg_number, kind, details, created_at FROM incidents ORDER BY id DESC LIMIT ?`
		args = []any{limit}
	} else {
		query = `SELECT id, driver_name, reg_number, kind, details, created_at FROM incidents WHERE reg_number=? ORDER BY id DESC LIMIT ?`
		args = []any{reg, limit}
	}
	rows, err := db.Query(db.Q(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var incidents []*Incident
	for rows.Next() {
		var i Incident
		var createdAt any
		if err := rows.Scan(&i.ID, &i.DriverName, &i.RegNumber, &i.Kind, &i.Details, &createdAt); err != nil {
			return nil, err
		}
		i.CreatedAt = parseTime(createdAt)
		incidents = append(incidents, &i)
	}
	return incidents, rows.Err()
}
