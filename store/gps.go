package store

import (
	"fmt"
	"time"
)

type GPSPing struct {
	ID            int64     `json:"id"`
	RegNumber     string    `json:"reg_number"`
	Latitude      float64   `json:"latitude"`
	Longitude     float64   `json:"longitude"`
	Speed         float64   `json:"speed"`
	Heading       float64   `json:"heading"`
	Ignition      bool      `json:"ignition"`
	SignalQuality float64   `json:"signal_quality"`
	Source        string    `json:"source"`
	RecordedAt    time.Time `json:"recorded_at"`
}

func (db *DB) InsertGPSPing(p *GPSPing) error {
	result, err := db.Exec(db.Q(`INSERT INTO gps_pings (reg_number, latitude, longitude, speed, heading, ignition, signal_quality, source) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
		p.RegNumber, p.Latitude, p.Longitude, p.Speed, p.Heading, p.Ignition, p.SignalQuality, p.Source)
	if err != nil {
		return fmt.Errorf("insert gps ping: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert gps ping last id: %w", err)
	}
	p.ID = id
	return nil
}

func (db *DB) RecentGPSPings(reg string, limit int) ([]*GPSPing, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.Query(db.Q(`SELECT id, reg_number, latitude, longitude, speed, heading, ignition, signal_quality, source, recorded_at FROM gps_pings WHERE reg_number=? ORDER BY id DESC LIMIT ?`),
		reg, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pings []*GPSPing
	for rows.Next() {
		var p GPSPing
		var recordedAt any
		if err := rows.Scan(&p.ID, &p.RegNumber, &p.Latitude, &p.Longitude, &p.Speed,
			&p.Heading, &p.Ignition, &p.SignalQuality, &p.Source, &recordedAt); err != nil {
			return nil, err
		}
		p.RecordedAt = parseTime(recordedAt)
		pings = append(pings, &p)
	}
	return pings, rows.Err()
}

// PruneGPSPings drops pings older than the retention window. Keeps the
// table from growing unbounded on a busy fleet.
func (db *DB) PruneGPSPings(olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)
	result, err := db.Exec(db.Q(`DELETE FROM gps_pings WHERE recorded_at < ?`), cutoff.Format("2006-01-02 15:04:05"))
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
