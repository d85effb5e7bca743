package store

import (
	"database/sql"
	"fmt"
	"time"
)

// TripStatus follows the weighbridge flow at the depot gate. Stages advance
// one at a time and never reverse.
type TripStatus string

const (
	TripGateIn        TripStatus = "GATE_IN"
	TripLoading       TripStatus = "LOADING"
	TripWeighOut      TripStatus = "WEIGH_OUT"
	TripDocumentation TripStatus = "DOCUMENTATION"
	TripDispatched    TripStatus = "DISPATCHED"
)

type Trip struct {
	ID          int64      `json:"id"`
	TripRef     string     `json:"trip_ref"`
	RFQID       int64      `json:"rfq_id"`
	RegNumber   string     `json:"reg_number"`
	DriverName  string     `json:"driver_name"`
	Status      TripStatus `json:"status"`
	TareWeight  *float64   `json:"tare_weight,omitempty"`
	GrossWeight *float64   `json:"gross_weight,omitempty"`
	NetWeight   *float64   `json:"net_weight,omitempty"`
	TicketNo    string     `json:"ticket_no"`
	QuotedRate  float64    `json:"quoted_rate"`
	MissionID   *int64     `json:"mission_id,omitempty"`
	StartTime   time.Time  `json:"start_time"`
	EndTime     *time.Time `json:"end_time,omitempty"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type TripHistoryEntry struct {
	ID        int64     `json:"id"`
	TripID    int64     `json:"trip_id"`
	Status    string    `json:"status"`
	Detail    string    `json:"detail"`
	CreatedAt time.Time `json:"created_at"`
}

const tripSelectCols = `id, trip_ref, rfq_id, reg_number, driver_name, status, tare_weight, gross_weight, net_weight, ticket_no, quoted_rate, mission_id, start_time, end_time, updated_at`

func scanTrip(row interface{ Scan(...any) error }) (*Trip, error) {
	var t Trip
	var status string
	var tare, gross, net sql.NullFloat64
	var missionID sql.NullInt64
	var startTime, endTime, updatedAt any

	err := row.Scan(&t.ID, &t.TripRef, &t.RFQID, &t.RegNumber, &t.DriverName,
		&status, &tare, &gross, &net, &t.TicketNo, &t.QuotedRate, &missionID,
		&startTime, &endTime, &updatedAt)
	if err != nil {
		return nil, err
	}
	t.Status = TripStatus(status)
	if tare.Valid {
		t.TareWeight = &tare.Float64
	}
	if gross.Valid {
		t.GrossWeight = &gross.Float64
	}
	if net.Valid {
		t.NetWeight = &net.Float64
	}
	if missionID.Valid {
		t.MissionID = &missionID.Int64
	}
	t.StartTime = parseTime(startTime)
	t.EndTime = parseTimePtr(endTime)
	t.UpdatedAt = parseTime(updatedAt)
	return &t, nil
}

func scanTrips(rows *sql.Rows) ([]*Trip, error) {
	var trips []*Trip
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		trips = append(trips, t)
	}
	return trips, rows.Err()
}

func (db *DB) CreateTrip(q Queryer, t *Trip) error {
	if t.Status == "" {
		t.Status = TripGateIn
	}
	result, err := q.Exec(db.Q(`INSERT INTO trips (trip_ref, rfq_id, reg_number, driver_name, status, ticket_no, quoted_rate) VALUES (?, ?, ?, ?, ?, ?, ?)`),
		t.TripRef, t.RFQID, t.RegNumber, t.DriverName, string(t.Status), t.TicketNo, t.QuotedRate)
	if err != nil {
		return fmt.Errorf("create trip: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("create trip last id: %w", err)
	}
	t.ID = id
	return nil
}

func (db *DB) GetTrip(id int64) (*Trip, error) {
	row := db.QueryRow(db.Q(fmt.Sprintf(`SELECT %s FROM trips WHERE id=?`, tripSelectCols)), id)
	return scanTrip(row)
}

func (db *DB) GetTripByRef(ref string) (*Trip, error) {
	row := db.QueryRow(db.Q(fmt.Sprintf(`SELECT %s FROM trips WHERE trip_ref=?`, tripSelectCols)), ref)
	return scanTrip(row)
}

func (db *DB) ListTrips(status TripStatus) ([]*Trip, error) {
	var rows *sql.Rows
	var err error
	if status == "" {
		rows, err = db.Query(db.Q(fmt.Sprintf(`SELECT %s FROM trips ORDER BY id DESC`, tripSelectCols)))
	} else {
		rows, err = db.Query(db.Q(fmt.Sprintf(`SELECT %s FROM trips WHERE status=? ORDER BY id DESC`, tripSelectCols)), string(status))
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTrips(rows)
}

func (db *DB) ListOpenTripsForVehicle(reg string) ([]*Trip, error) {
	rows, err := db.Query(db.Q(fmt.Sprintf(`SELECT %s FROM trips WHERE reg_number=? AND status!=? ORDER BY id DESC`, tripSelectCols)),
		reg, string(TripDispatched))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTrips(rows)
}

// AdvanceTripStatus moves a trip to the next stage only when it still sits at
// the expected one. Returns false when the trip has already moved.
func (db *DB) AdvanceTripStatus(q Queryer, id int64, from, to TripStatus) (bool, error) {
	result, err := q.Exec(db.Q(`UPDATE trips SET status=?, updated_at=datetime('now','localtime') WHERE id=? AND status=?`),
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

func (db *DB) SetTripTare(q Queryer, id int64, tare float64) error {
	_, err := q.Exec(db.Q(`UPDATE trips SET tare_weight=?, updated_at=datetime('now','localtime') WHERE id=?`), tare, id)
	return err
}

func (db *DB) SetTripWeights(q Queryer, id int64, gross, net float64, ticketNo string) error {
	_, err := q.Exec(db.Q(`UPDATE trips SET gross_weight=?, net_weight=?, ticket_no=?, updated_at=datetime('now','localtime') WHERE id=?`),
		gross, net, ticketNo, id)
	return err
}

func (db *DB) SetTripMission(q Queryer, id, missionID int64) error {
	_, err := q.Exec(db.Q(`UPDATE trips SET mission_id=?, updated_at=datetime('now','localtime') WHERE id=?`), missionID, id)
	return err
}

func (db *DB) CloseTrip(q Queryer, id int64) error {
	_, err := q.Exec(db.Q(`UPDATE trips SET end_time=datetime('now','localtime'), updated_at=datetime('now','localtime') WHERE id=?`), id)
	return err
}

func (db *DB) AddTripHistory(q Queryer, tripID int64, status TripStatus, detail string) error {
	_, err := q.Exec(db.Q(`INSERT INTO trip_history (trip_id, status, detail) VALUES (?, ?, ?)`),
		tripID, string(status), detail)
	return err
}

func (db *DB) GetTripHistory(tripID int64) ([]*TripHistoryEntry, error) {
	rows, err := db.Query(db.Q(`SELECT id, trip_id, status, detail, created_at FROM trip_history WHERE trip_id=? ORDER BY id`), tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*TripHistoryEntry
	for rows.Next() {
		var e TripHistoryEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.TripID, &e.Status, &e.Detail, &createdAt); err != nil {
			return nil, err
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}
