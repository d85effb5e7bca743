package store

import (
	"database/sql"
	"fmt"
	"time"
)

// VehicleStatus is the closed set of fleet registry states. A vehicle in any
// state other than Idle or Maintenance has exactly one open trip and/or
// mission referencing it.
type VehicleStatus string

const (
	VehicleIdle        VehicleStatus = "Idle"
	VehicleActive      VehicleStatus = "Active"
	VehicleEnRoute     VehicleStatus = "EnRoute"
	VehicleAtSite      VehicleStatus = "AtSite"
	VehicleMaintenance VehicleStatus = "Maintenance"
)

type Vehicle struct {
	ID              int64         `json:"id"`
	RegNumber       string        `json:"reg_number"`
	TrailerType     string        `json:"trailer_type"`
	MakeModel       string        `json:"make_model"`
	FuelRating      float64       `json:"fuel_rating"`
	MaxTons         float64       `json:"max_tons"`
	HazmatCertified bool          `json:"hazmat_certified"`
	Status          VehicleStatus `json:"status"`
	DriverName      *string       `json:"driver_name,omitempty"`
	Location        string        `json:"location"`
	LastLat         float64       `json:"last_lat"`
	LastLon         float64       `json:"last_lon"`
	Active          bool          `json:"active"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

const vehicleSelectCols = `id, reg_number, trailer_type, make_model, fuel_rating, max_tons, hazmat_certified, status, driver_name, location, last_lat, last_lon, active, created_at, updated_at`

func scanVehicle(row interface{ Scan(...any) error }) (*Vehicle, error) {
	var v Vehicle
	var driver sql.NullString
	var status string
	var createdAt, updatedAt any

	err := row.Scan(&v.ID, &v.RegNumber, &v.TrailerType, &v.MakeModel, &v.FuelRating,
		&v.MaxTons, &v.HazmatCertified, &status, &driver, &v.Location,
		&v.LastLat, &v.LastLon, &v.Active, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	v.Status = VehicleStatus(status)
	if driver.Valid {
		v.DriverName = &driver.String
	}
	v.CreatedAt = parseTime(createdAt)
	v.UpdatedAt = parseTime(updatedAt)
	return &v, nil
}

func scanVehicles(rows *sql.Rows) ([]*Vehicle, error) {
	var vehicles []*Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, rows.Err()
}

func (db *DB) CreateVehicle(v *Vehicle) error {
	var driver any
	if v.DriverName != nil {
		driver = *v.DriverName
	}
	if v.Status == "" {
		v.Status = VehicleIdle
	}
	result, err := db.Exec(db.Q(`INSERT INTO vehicles (reg_number, trailer_type, make_model, fuel_rating, max_tons, hazmat_certified, status, driver_name, location, active) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		v.RegNumber, v.TrailerType, v.MakeModel, v.FuelRating, v.MaxTons,
		v.HazmatCertified, string(v.Status), driver, v.Location, v.Active)
	if err != nil {
		return fmt.Errorf("create vehicle: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("create vehicle last id: %w", err)
	}
	v.ID = id
	return nil
}

func (db *DB) GetVehicle(reg string) (*Vehicle, error) {
	row := db.QueryRow(db.Q(fmt.Sprintf(`SELECT %s FROM vehicles WHERE reg_number=?`, vehicleSelectCols)), reg)
	return scanVehicle(row)
}

func (db *DB) ListVehicles() ([]*Vehicle, error) {
	rows, err := db.Query(db.Q(fmt.Sprintf(`SELECT %s FROM vehicles WHERE active=%s ORDER BY reg_number`, vehicleSelectCols, db.dialect.BoolTrueLit())))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanVehicles(rows)
}

func (db *DB) ListVehiclesByStatus(status VehicleStatus) ([]*Vehicle, error) {
	rows, err := db.Query(db.Q(fmt.Sprintf(`SELECT %s FROM vehicles WHERE status=? AND active=%s ORDER BY reg_number`, vehicleSelectCols, db.dialect.BoolTrueLit())), string(status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanVehicles(rows)
}

func (db *DB) UpdateVehicle(v *Vehicle) error {
	var driver any
	if v.DriverName != nil {
		driver = *v.DriverName
	}
	_, err := db.Exec(db.Q(`UPDATE vehicles SET trailer_type=?, make_model=?, fuel_rating=?, max_tons=?, hazmat_certified=?, status=?, driver_name=?, location=?, active=?, updated_at=datetime('now','localtime') WHERE reg_number=?`),
		v.TrailerType, v.MakeModel, v.FuelRating, v.MaxTons, v.HazmatCertified,
		string(v.Status), driver, v.Location, v.Active, v.RegNumber)
	return err
}

// ReserveVehicle flips a vehicle from Idle to Active and assigns the driver
// in one guarded update. Returns false when the vehicle was not Idle, which
// is how a losing dispatcher learns it was beaten to the assignment.
func (db *DB) ReserveVehicle(q Queryer, reg, driver string) (bool, error) {
	result, err := q.Exec(db.Q(`UPDATE vehicles SET status=?, driver_name=?, updated_at=datetime('now','localtime') WHERE reg_number=? AND status=?`),
		string(VehicleActive), driver, reg, string(VehicleIdle))
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (db *DB) SetVehicleStatus(q Queryer, reg string, status VehicleStatus) error {
	_, err := q.Exec(db.Q(`UPDATE vehicles SET status=?, updated_at=datetime('now','localtime') WHERE reg_number=?`),
		string(status), reg)
	return err
}

func (db *DB) SetVehicleLocation(q Queryer, reg, location string) error {
	_, err := q.Exec(db.Q(`UPDATE vehicles SET location=?, updated_at=datetime('now','localtime') WHERE reg_number=?`),
		location, reg)
	return err
}

func (db *DB) SetVehicleDriver(q Queryer, reg string, driver *string) error {
	var d any
	if driver != nil {
		d = *driver
	}
	_, err := q.Exec(db.Q(`UPDATE vehicles SET driver_name=?, updated_at=datetime('now','localtime') WHERE reg_number=?`),
		d, reg)
	return err
}

// ReleaseVehicle returns a vehicle to the Idle pool and clears its driver.
func (db *DB) ReleaseVehicle(q Queryer, reg string) error {
	_, err := q.Exec(db.Q(`UPDATE vehicles SET status=?, driver_name=NULL, updated_at=datetime('now','localtime') WHERE reg_number=?`),
		string(VehicleIdle), reg)
	return err
}

func (db *DB) UpdateVehiclePosition(reg string, lat, lon float64, location string) error {
	if location != "" {
		_, err := db.Exec(db.Q(`UPDATE vehicles SET last_lat=?, last_lon=?, location=?, updated_at=datetime('now','localtime') WHERE reg_number=?`),
			lat, lon, location, reg)
		return err
	}
	_, err := db.Exec(db.Q(`UPDATE vehicles SET last_lat=?, last_lon=?, updated_at=datetime('now','localtime') WHERE reg_number=?`),
		lat, lon, reg)
	return err
}

// DeactivateVehicle removes a vehicle from the assignable fleet without
// deleting its history.
func (db *DB) DeactivateVehicle(reg string) error {
	_, err := db.Exec(db.Q(fmt.Sprintf(`UPDATE vehicles SET active=%s, updated_at=datetime('now','localtime') WHERE reg_number=?`, db.dialect.BoolFalseLit())), reg)
	return err
}
