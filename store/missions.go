package store

import (
	"database/sql"
	"fmt"
	"time"
)

// MissionStatus tracks a vehicle deployment from staging through closure.
// Staged through Documentation mirror the depot trip; Active onward is the
// road leg.
type MissionStatus string

const (
	MissionStaged        MissionStatus = "Staged"
	MissionLoading       MissionStatus = "Loading"
	MissionWeighOut      MissionStatus = "WeighOut"
	MissionDocumentation MissionStatus = "Documentation"
	MissionActive        MissionStatus = "Active"
	MissionEnRoute       MissionStatus = "EnRoute"
	MissionAtSite        MissionStatus = "AtSite"
	MissionClosed        MissionStatus = "Closed"
)

type Mission struct {
	ID           int64         `json:"id"`
	MissionName  string        `json:"mission_name"`
	RegNumber    string        `json:"reg_number"`
	DriverName   string        `json:"driver_name"`
	Status       MissionStatus `json:"status"`
	Location     string        `json:"location"`
	PODRef       string        `json:"pod_ref"`
	PODSignatory string        `json:"pod_signatory"`
	StartTime    time.Time     `json:"start_time"`
	EndTime      *time.Time    `json:"end_time,omitempty"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

type MissionHistoryEntry struct {
	ID        int64     `json:"id"`
	MissionID int64     `json:"mission_id"`
	Status    string    `json:"status"`
	Detail    string    `json:"detail"`
	CreatedAt time.Time `json:"created_at"`
}

const missionSelectCols = `id, mission_name, reg_number, driver_name, status, location, pod_ref, pod_signatory, start_time, end_time, updated_at`

func scanMission(row interface{ Scan(...any) error }) (*Mission, error) {
	var m Mission
	var status string
	var startTime, endTime, updatedAt any

	err := row.Scan(&m.ID, &m.MissionName, &m.RegNumber, &m.DriverName, &status,
		&m.Location, &m.PODRef, &m.PODSignatory, &startTime, &endTime, &updatedAt)
	if err != nil {
		return nil, err
	}
	m.Status = MissionStatus(status)
	m.StartTime = parseTime(startTime)
	m.EndTime = parseTimePtr(endTime)
	m.UpdatedAt = parseTime(updatedAt)
	return &m, nil
}

func scanMissions(rows *sql.Rows) ([]*Mission, error) {
	var missions []*Mission
	for rows.Next() {
		m, err := scanMission(rows)
		if err != nil {
			return nil, err
		}
		missions = append(missions, m)
	}
	return missions, rows.Err()
}

func (db *DB) CreateMission(q Queryer, m *Mission) error {
	if m.Status == "" {
		m.Status = MissionStaged
	}
	result, err := q.Exec(db.Q(`INSERT INTO missions (mission_name, reg_number, driver_name, status, location) VALUES (?, ?, ?, ?, ?)`),
		m.MissionName, m.RegNumber, m.DriverName, string(m.Status), m.Location)
	if err != nil {
		return fmt.Errorf("create mission: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("create mission last id: %w", err)
	}
	m.ID = id
	return nil
}

func (db *DB) GetMission(id int64) (*Mission, error) {
	row := db.QueryRow(db.Q(fmt.Sprintf(`SELECT %s FROM missions WHERE id=?`, missionSelectCols)), id)
	return scanMission(row)
}

func (db *DB) ListMissions(status MissionStatus) ([]*Mission, error) {
	var rows *sql.Rows
	var err error
	if status == "" {
		rows, err = db.Query(db.Q(fmt.Sprintf(`SELECT %s FROM missions ORDER BY id DESC`, missionSelectCols)))
	} else {
		rows, err = db.Query(db.Q(fmt.Sprintf(`SELECT %s FROM missions WHERE status=? ORDER BY id DESC`, missionSelectCols)), string(status))
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMissions(rows)
}

func (db *DB) ListOpenMissionsForVehicle(reg string) ([]*Mission, error) {
	rows, err := db.Query(db.Q(fmt.Sprintf(`SELECT %s FROM missions WHERE reg_number=? AND status!=? ORDER BY id DESC`, missionSelectCols)),
		reg, string(MissionClosed))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMissions(rows)
}

// AdvanceMissionStatus moves a mission only when it still sits at the
// expected status.
func (db *DB) AdvanceMissionStatus(q Queryer, id int64, from, to MissionStatus) (bool, error) {
	result, err := q.Exec(db.Q(`UPDATE missions SET status=?, updated_at=datetime('now','localtime') WHERE id=? AND status=?`),
		string(to), id, string(from))
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (db *DB) SetMissionLocation(q Queryer, id int64, location string) error {
	_, err := q.Exec(db.Q(`UPDATE missions SET location=?, updated_at=datetime('now','localtime') WHERE id=?`), location, id)
	return err
}

// SetMissionDriver reassigns the driver only while the mission is still
// open. Returns false when the mission closed first.
func (db *DB) SetMissionDriver(q Queryer, id int64, driver string) (bool, error) {
	result, err := q.Exec(db.Q(`UPDATE missions SET driver_name=?, updated_at=datetime('now','localtime') WHERE id=? AND status!=?`),
		driver, id, string(MissionClosed))
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// CloseMission stamps the proof-of-delivery fields and closes the mission
// in one guarded update. Returns false when the mission left the expected
// status first.
func (db *DB) CloseMission(q Queryer, id int64, from MissionStatus, podRef, podSignatory string) (bool, error) {
	result, err := q.Exec(db.Q(`UPDATE missions SET status=?, pod_ref=?, pod_signatory=?, end_time=datetime('now','localtime'), updated_at=datetime('now','localtime') WHERE id=? AND status=?`),
		string(MissionClosed), podRef, podSignatory, id, string(from))
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (db *DB) AddMissionHistory(q Queryer, missionID int64, status MissionStatus, detail string) error {
	_, err := q.Exec(db.Q(`INSERT INTO mission_history (mission_id, status, detail) VALUES (?, ?, ?)`),
		missionID, string(status), detail)
	return err
}

func (db *DB) GetMissionHistory(missionID int64) ([]*MissionHistoryEntry, error) {
	rows, err := db.Query(db.Q(`SELECT id, mission_id, status, detail, created_at FROM mission_history WHERE mission_id=? ORDER BY id`), missionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*MissionHistoryEntry
	for rows.Next() {
		var e MissionHistoryEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.MissionID, &e.Status, &e.Detail, &createdAt); err != nil {
			return nil, err
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}
