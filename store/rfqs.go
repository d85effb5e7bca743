package store

import (
	"database/sql"
	"fmt"
	"time"
)

type RFQStatus string

const (
	RFQPending    RFQStatus = "Pending"
	RFQProcessing RFQStatus = "Processing"
	RFQDispatched RFQStatus = "Dispatched"
)

// RFQ is an inbound request for quotation. Each RFQ can back at most one
// trip; the Processing flip at trip creation is the guard.
type RFQ struct {
	ID             int64     `json:"id"`
	RFQRef         string    `json:"rfq_ref"`
	Client         string    `json:"client"`
	Commodity      string    `json:"commodity"`
	RequiresHazmat bool      `json:"requires_hazmat"`
	Tons           float64   `json:"tons"`
	Origin         string    `json:"origin"`
	Destination    string    `json:"destination"`
	Corridor       string    `json:"corridor"`
	Status         RFQStatus `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

const rfqSelectCols = `id, rfq_ref, client, commodity, requires_hazmat, tons, origin, destination, corridor, status, created_at, updated_at`

func scanRFQ(row interface{ Scan(...any) error }) (*RFQ, error) {
	var r RFQ
	var status string
	var createdAt, updatedAt any

	err := row.Scan(&r.ID, &r.RFQRef, &r.Client, &r.Commodity, &r.RequiresHazmat,
		&r.Tons, &r.Origin, &r.Destination, &r.Corridor, &status, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	r.Status = RFQStatus(status)
	r.CreatedAt = parseTime(createdAt)
	r.UpdatedAt = parseTime(updatedAt)
	return &r, nil
}

func scanRFQs(rows *sql.Rows) ([]*RFQ, error) {
	var rfqs []*RFQ
	for rows.Next() {
		r, err := scanRFQ(rows)
		if err != nil {
			return nil, err
		}
		rfqs = append(rfqs, r)
	}
	return rfqs, rows.Err()
}

func (db *DB) CreateRFQ(r *RFQ) error {
	if r.Status == "" {
		r.Status = RFQPending
	}
	result, err := db.Exec(db.Q(`INSERT INTO rfqs (rfq_ref, client, commodity, requires_hazmat, tons, origin, destination, corridor, status) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		r.RFQRef, r.Client, r.Commodity, r.RequiresHazmat, r.Tons,
		r.Origin, r.Destination, r.Corridor, string(r.Status))
	if err != nil {
		return fmt.Errorf("create rfq: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("create rfq last id: %w", err)
	}
	r.ID = id
	return nil
}

func (db *DB) GetRFQ(id int64) (*RFQ, error) {
	row := db.QueryRow(db.Q(fmt.Sprintf(`SELECT %s FROM rfqs WHERE id=?`, rfqSelectCols)), id)
	return scanRFQ(row)
}

func (db *DB) GetRFQByRef(ref string) (*RFQ, error) {
	row := db.QueryRow(db.Q(fmt.Sprintf(`SELECT %s FROM rfqs WHERE rfq_ref=?`, rfqSelectCols)), ref)
	return scanRFQ(row)
}

func (db *DB) ListRFQs(status RFQStatus) ([]*RFQ, error) {
	var rows *sql.Rows
	var err error
	if status == "" {
		rows, err = db.Query(db.Q(fmt.Sprintf(`SELECT %s FROM rfqs ORDER BY id DESC`, rfqSelectCols)))
	} else {
		rows, err = db.Query(db.Q(fmt.Sprintf(`SELECT %s FROM rfqs WHERE status=? ORDER BY id DESC`, rfqSelectCols)), string(status))
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRFQs(rows)
}

// ClaimRFQ flips an RFQ from one status to the next only if it still holds
// the expected status. Returns false when another dispatcher already moved
// it.
func (db *DB) ClaimRFQ(q Queryer, id int64, from, to RFQStatus) (bool, error) {
	result, err := q.Exec(db.Q(`UPDATE rfqs SET status=?, updated_at=datetime('now','localtime') WHERE id=? AND status=?`),
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

func (db *DB) SetRFQStatus(q Queryer, id int64, status RFQStatus) error {
	_, err := q.Exec(db.Q(`UPDATE rfqs SET status=?, updated_at=datetime('now','localtime') WHERE id=?`),
		string(status), id)
	return err
}
