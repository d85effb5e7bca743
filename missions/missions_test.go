package missions

import (
	"errors"
	"path/filepath"
	"testing"

	"fleetcore/config"
	"fleetcore/store"
)

func testManager(t *testing.T) (*Manager, *store.DB) {
	t.Helper()
	cfg := config.Defaults()
	cfg.Database.SQLite.Path = filepath.Join(t.TempDir(), "test.db")
	db, err := store.Open(&cfg.Database)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewManager(db), db
}

// activeMission seeds a vehicle already out on a dispatched mission.
func activeMission(t *testing.T, db *store.DB, reg string) *store.Mission {
	t.Helper()
	driver := "P. Moyo"
	v := &store.Vehicle{RegNumber: reg, TrailerType: "Interlink", MaxTons: 36, Status: store.VehicleActive, DriverName: &driver, Location: "Depot", Active: true}
	if err := db.CreateVehicle(v); err != nil {
		t.Fatalf("seed vehicle: %v", err)
	}
	m := &store.Mission{MissionName: "Acme | Chrome ore", RegNumber: reg, DriverName: driver, Status: store.MissionActive, Location: "Depot"}
	if err := db.CreateMission(db, m); err != nil {
		t.Fatalf("seed mission: %v", err)
	}
	return m
}

func allChecked() []ChecklistItem {
	items := DefaultChecklist()
	for i := range items {
		items[i].Checked = true
	}
	return items
}

func TestMissionRoadLeg(t *testing.T) {
	mgr, db := testManager(t)
	m := activeMission(t, db, "ND 200-001")

	got, err := mgr.MarkEnRoute(m.ID, "N3 Harrismith")
	if err != nil {
		t.Fatalf("mark en route: %v", err)
	}
	if got.Status != store.MissionEnRoute || got.Location != "N3 Harrismith" {
		t.Errorf("mission = %s @ %s, want EnRoute @ N3 Harrismith", got.Status, got.Location)
	}
	v, _ := db.GetVehicle("ND 200-001")
	if v.Status != store.VehicleEnRoute || v.Location != "N3 Harrismith" {
		t.Errorf("vehicle = %s @ %s, want EnRoute @ N3 Harrismith", v.Status, v.Location)
	}

	// AtSite straight from Active is not allowed; EnRoute first.
	if _, err := mgr.MarkEnRoute(m.ID, ""); !errors.Is(err, ErrInvalidStateTransition) {
		t.Errorf("second en route: err = %v, want ErrInvalidStateTransition", err)
	}

	got, err = mgr.MarkAtSite(m.ID, "JHB City Deep")
	if err != nil {
		t.Fatalf("mark at site: %v", err)
	}
	if got.Status != store.MissionAtSite {
		t.Errorf("status = %s, want AtSite", got.Status)
	}
	v, _ = db.GetVehicle("ND 200-001")
	if v.Status != store.VehicleAtSite {
		t.Errorf("vehicle status = %s, want AtSite", v.Status)
	}
}

func TestCloseMissionRequiresPOD(t *testing.T) {
	mgr, db := testManager(t)
	m := activeMission(t, db, "ND 200-002")
	if _, err := mgr.MarkEnRoute(m.ID, ""); err != nil {
		t.Fatal(err)
	}
	if _, err := mgr.MarkAtSite(m.ID, "Site"); err != nil {
		t.Fatal(err)
	}

	// No evidence: nothing moves.
	if _, err := mgr.CloseMission(m.ID, "", "J. van Wyk"); !errors.Is(err, ErrMissingProofOfDelivery) {
		t.Fatalf("err = %v, want ErrMissingProofOfDelivery", err)
	}
	got, _ := db.GetMission(m.ID)
	if got.Status != store.MissionAtSite {
		t.Errorf("status = %s, want AtSite unchanged", got.Status)
	}
	v, _ := db.GetVehicle("ND 200-002")
	if v.Status != store.VehicleAtSite {
		t.Errorf("vehicle status = %s, want AtSite unchanged", v.Status)
	}

	got, err := mgr.CloseMission(m.ID, "POD-77", "J. van Wyk")
	if err != nil {
		t.Fatalf("close: %v", err)
	}
	if got.Status != store.MissionClosed || got.PODRef != "POD-77" {
		t.Errorf("mission = %+v, want Closed with POD-77", got)
	}
	if got.EndTime == nil {
		t.Error("end_time not fixed")
	}
	v, _ = db.GetVehicle("ND 200-002")
	if v.Status != store.VehicleIdle || v.DriverName != nil {
		t.Errorf("vehicle = %s driver %v, want Idle with cleared driver", v.Status, v.DriverName)
	}
}

func TestCloseOnlyFromAtSite(t *testing.T) {
	mgr, db := testManager(t)
	m := activeMission(t, db, "ND 200-003")

	if _, err := mgr.CloseMission(m.ID, "POD-1", "X"); !errors.Is(err, ErrInvalidStateTransition) {
		t.Fatalf("close from Active: err = %v, want ErrInvalidStateTransition", err)
	}
}

func TestHandoverDriver(t *testing.T) {
	mgr, db := testManager(t)
	m := activeMission(t, db, "ND 200-004")

	got, err := mgr.HandoverDriver(m.ID, "T. Nkosi")
	if err != nil {
		t.Fatalf("handover: %v", err)
	}
	if got.DriverName != "T. Nkosi" || got.Status != store.MissionActive {
		t.Errorf("mission = %+v, want driver T. Nkosi, status unchanged", got)
	}
	v, _ := db.GetVehicle("ND 200-004")
	if v.DriverName == nil || *v.DriverName != "T. Nkosi" {
		t.Errorf("vehicle driver = %v, want T. Nkosi", v.DriverName)
	}

	// Closed missions reject handover.
	if _, err := mgr.MarkEnRoute(m.ID, ""); err != nil {
		t.Fatal(err)
	}
	if _, err := mgr.MarkAtSite(m.ID, "Site"); err != nil {
		t.Fatal(err)
	}
	if _, err := mgr.CloseMission(m.ID, "POD-1", "X"); err != nil {
		t.Fatal(err)
	}
	if _, err := mgr.HandoverDriver(m.ID, "Nobody"); !errors.Is(err, ErrMissionClosed) {
		t.Errorf("handover after close: err = %v, want ErrMissionClosed", err)
	}
}

func TestStartAdHocMission(t *testing.T) {
	mgr, db := testManager(t)
	v := &store.Vehicle{RegNumber: "CA 300-001", TrailerType: "Tipper", MaxTons: 34, Location: "Depot", Active: true}
	if err := db.CreateVehicle(v); err != nil {
		t.Fatal(err)
	}

	m, err := mgr.StartAdHocMission("S. Dlamini", "CA 300-001", "Quarry shuttle", allChecked())
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if m.Status != store.MissionActive {
		t.Errorf("status = %s, want Active", m.Status)
	}
	got, _ := db.GetVehicle("CA 300-001")
	if got.Status != store.VehicleActive || got.DriverName == nil || *got.DriverName != "S. Dlamini" {
		t.Errorf("vehicle = %s driver %v, want Active / S. Dlamini", got.Status, got.DriverName)
	}

	// Vehicle is taken now.
	if _, err := mgr.StartAdHocMission("M. Botha", "CA 300-001", "Second", allChecked()); !errors.Is(err, ErrVehicleBusy) {
		t.Errorf("err = %v, want ErrVehicleBusy", err)
	}
}

func TestPreTripBlockedOnCriticalItems(t *testing.T) {
	mgr, db := testManager(t)
	v := &store.Vehicle{RegNumber: "CA 300-002", TrailerType: "Tipper", MaxTons: 34, Location: "Depot", Active: true}
	if err := db.CreateVehicle(v); err != nil {
		t.Fatal(err)
	}

	items := allChecked()
	for i := range items {
		if items[i].Label == "Brakes" {
			items[i].Checked = false
		}
	}
	if _, err := mgr.StartAdHocMission("S. Dlamini", "CA 300-002", "Quarry", items); !errors.Is(err, ErrPreTripBlocked) {
		t.Fatalf("err = %v, want ErrPreTripBlocked", err)
	}

	// Blocked start leaves the vehicle untouched and an incident trail.
	got, _ := db.GetVehicle("CA 300-002")
	if got.Status != store.VehicleIdle {
		t.Errorf("vehicle status = %s, want Idle", got.Status)
	}
	incidents, err := db.ListIncidents("CA 300-002", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(incidents) != 1 || incidents[0].Kind != "PRETRIP_BLOCKED" {
		t.Fatalf("incidents = %+v, want one PRETRIP_BLOCKED", incidents)
	}
}

func TestPreTripExceptionsProceed(t *testing.T) {
	mgr, db := testManager(t)
	v := &store.Vehicle{RegNumber: "CA 300-003", TrailerType: "Tipper", MaxTons: 34, Location: "Depot", Active: true}
	if err := db.CreateVehicle(v); err != nil {
		t.Fatal(err)
	}

	items := allChecked()
	for i := range items {
		if items[i].Label == "Wipers" {
			items[i].Checked = false
		}
	}
	if _, err := mgr.StartAdHocMission("S. Dlamini", "CA 300-003", "Quarry", items); err != nil {
		t.Fatalf("non-critical miss should proceed: %v", err)
	}
	incidents, _ := db.ListIncidents("CA 300-003", 10)
	if len(incidents) != 1 || incidents[0].Kind != "PRETRIP_EXCEPTIONS" {
		t.Fatalf("incidents = %+v, want one PRETRIP_EXCEPTIONS", incidents)
	}
}

func TestMissingItems(t *testing.T) {
	items := []ChecklistItem{
		{Label: "Brakes", Critical: true, Checked: false},
		{Label: "Wipers", Critical: false, Checked: false},
		{Label: "Lights", Critical: true, Checked: true},
	}
	critical, noncritical := MissingItems(items)
	if len(critical) != 1 || critical[0] != "Brakes" {
		t.Errorf("critical = %v", critical)
	}
	if len(noncritical) != 1 || noncritical[0] != "Wipers" {
		t.Errorf("noncritical = %v", noncritical)
	}
}
