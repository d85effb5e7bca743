package store

import (
	"path/filepath"
	"testing"

	"fleetcore/config"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	cfg := config.Defaults()
	cfg.Database.SQLite.Path = filepath.Join(t.TempDir(), "test.db")
	db, err := Open(&cfg.Database)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func strPtr(s string) *string { return &s }

func TestVehicleCRUD(t *testing.T) {
	db := testDB(t)

	v := &Vehicle{
		RegNumber:       "ND 123-456",
		TrailerType:     "Interlink",
		MakeModel:       "Volvo FH 440",
		FuelRating:      52,
		MaxTons:         36,
		HazmatCertified: false,
		Location:        "Depot",
		Active:          true,
	}
	if err := db.CreateVehicle(v); err != nil {
		t.Fatalf("create vehicle: %v", err)
	}
	if v.ID == 0 {
		t.Fatal("expected vehicle id to be set")
	}

	got, err := db.GetVehicle("ND 123-456")
	if err != nil {
		t.Fatalf("get vehicle: %v", err)
	}
	if got.Status != VehicleIdle {
		t.Errorf("new vehicle status = %s, want Idle", got.Status)
	}
	if got.TrailerType != "Interlink" || got.MaxTons != 36 {
		t.Errorf("round-trip mismatch: %+v", got)
	}
	if got.DriverName != nil {
		t.Errorf("new vehicle should have no driver, got %q", *got.DriverName)
	}

	got.Status = VehicleMaintenance
	got.DriverName = strPtr("S. Dlamini")
	if err := db.UpdateVehicle(got); err != nil {
		t.Fatalf("update vehicle: %v", err)
	}
	again, err := db.GetVehicle("ND 123-456")
	if err != nil {
		t.Fatalf("get vehicle: %v", err)
	}
	if again.Status != VehicleMaintenance {
		t.Errorf("status = %s, want Maintenance", again.Status)
	}
	if again.DriverName == nil || *again.DriverName != "S. Dlamini" {
		t.Errorf("driver not persisted: %+v", again.DriverName)
	}
}

func TestReserveVehicleGuard(t *testing.T) {
	db := testDB(t)

	v := &Vehicle{RegNumber: "CA 99-001", TrailerType: "Tri-Axle", MaxTons: 28, Location: "Depot", Active: true}
	if err := db.CreateVehicle(v); err != nil {
		t.Fatalf("create vehicle: %v", err)
	}

	ok, err := db.ReserveVehicle(db, "CA 99-001", "T. Nkosi")
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if !ok {
		t.Fatal("first reservation should win")
	}

	ok, err = db.ReserveVehicle(db, "CA 99-001", "M. Botha")
	if err != nil {
		t.Fatalf("second reserve: %v", err)
	}
	if ok {
		t.Fatal("second reservation must lose, vehicle is already Active")
	}

	got, _ := db.GetVehicle("CA 99-001")
	if got.Status != VehicleActive {
		t.Errorf("status = %s, want Active", got.Status)
	}
	if got.DriverName == nil || *got.DriverName != "T. Nkosi" {
		t.Errorf("driver = %v, want T. Nkosi", got.DriverName)
	}

	if err := db.ReleaseVehicle(db, "CA 99-001"); err != nil {
		t.Fatalf("release: %v", err)
	}
	got, _ = db.GetVehicle("CA 99-001")
	if got.Status != VehicleIdle || got.DriverName != nil {
		t.Errorf("after release: status=%s driver=%v, want Idle/nil", got.Status, got.DriverName)
	}
}

func TestClaimRFQ(t *testing.T) {
	db := testDB(t)

	r := &RFQ{RFQRef: "RFQ-1001", Client: "Acme Mining", Commodity: "Chrome ore", Tons: 34, Corridor: "N3: Durban Port -> JHB City Deep"}
	if err := db.CreateRFQ(r); err != nil {
		t.Fatalf("create rfq: %v", err)
	}
	if r.Status != RFQPending {
		t.Fatalf("new rfq status = %s, want Pending", r.Status)
	}

	ok, err := db.ClaimRFQ(db, r.ID, RFQPending, RFQProcessing)
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if !ok {
		t.Fatal("claim of a Pending rfq should succeed")
	}

	ok, err = db.ClaimRFQ(db, r.ID, RFQPending, RFQProcessing)
	if err != nil {
		t.Fatalf("second claim: %v", err)
	}
	if ok {
		t.Fatal("second claim must fail, rfq is no longer Pending")
	}
}

func TestAdvanceTripStatusGuard(t *testing.T) {
	db := testDB(t)

	r := &RFQ{RFQRef: "RFQ-2001", Client: "Zambezi Traders", Tons: 20}
	if err := db.CreateRFQ(r); err != nil {
		t.Fatalf("create rfq: %v", err)
	}
	trip := &Trip{TripRef: "TRP-2001", RFQID: r.ID, RegNumber: "ND 123-456", DriverName: "P. Moyo"}
	if err := db.CreateTrip(db, trip); err != nil {
		t.Fatalf("create trip: %v", err)
	}
	if trip.Status != TripGateIn {
		t.Fatalf("new trip status = %s, want GATE_IN", trip.Status)
	}

	ok, err := db.AdvanceTripStatus(db, trip.ID, TripGateIn, TripLoading)
	if err != nil || !ok {
		t.Fatalf("advance GATE_IN->LOADING: ok=%v err=%v", ok, err)
	}

	// Stale expectation loses.
	ok, err = db.AdvanceTripStatus(db, trip.ID, TripGateIn, TripLoading)
	if err != nil {
		t.Fatalf("stale advance: %v", err)
	}
	if ok {
		t.Fatal("advance from a stale status must not apply")
	}

	got, err := db.GetTrip(trip.ID)
	if err != nil {
		t.Fatalf("get trip: %v", err)
	}
	if got.Status != TripLoading {
		t.Errorf("status = %s, want LOADING", got.Status)
	}
	if got.TareWeight != nil || got.GrossWeight != nil || got.NetWeight != nil {
		t.Errorf("weights should start unset: %+v", got)
	}

	if err := db.SetTripTare(db, trip.ID, 14.2); err != nil {
		t.Fatalf("set tare: %v", err)
	}
	if err := db.SetTripWeights(db, trip.ID, 48.6, 34.4, "WB-0042"); err != nil {
		t.Fatalf("set weights: %v", err)
	}
	got, _ = db.GetTrip(trip.ID)
	if got.TareWeight == nil || *got.TareWeight != 14.2 {
		t.Errorf("tare = %v, want 14.2", got.TareWeight)
	}
	if got.NetWeight == nil || *got.NetWeight != 34.4 {
		t.Errorf("net = %v, want 34.4", got.NetWeight)
	}
	if got.TicketNo != "WB-0042" {
		t.Errorf("ticket = %q, want WB-0042", got.TicketNo)
	}
}

func TestMissionCloseGuard(t *testing.T) {
	db := testDB(t)

	m := &Mission{MissionName: "N3 run", RegNumber: "ND 123-456", DriverName: "P. Moyo", Location: "Depot"}
	if err := db.CreateMission(db, m); err != nil {
		t.Fatalf("create mission: %v", err)
	}

	// Close is a guarded swap: the wrong expected status must not apply.
	ok, err := db.CloseMission(db, m.ID, MissionAtSite, "POD-77", "J. van Wyk")
	if err != nil {
		t.Fatalf("close from AtSite: %v", err)
	}
	if ok {
		t.Fatal("close must not apply while the mission sits at Staged")
	}

	ok, err = db.CloseMission(db, m.ID, MissionStaged, "POD-77", "J. van Wyk")
	if err != nil || !ok {
		t.Fatalf("close: ok=%v err=%v", ok, err)
	}

	// Driver handover after closure must not apply.
	ok, err = db.SetMissionDriver(db, m.ID, "New Driver")
	if err != nil {
		t.Fatalf("handover: %v", err)
	}
	if ok {
		t.Fatal("handover on a closed mission must not apply")
	}

	got, err := db.GetMission(m.ID)
	if err != nil {
		t.Fatalf("get mission: %v", err)
	}
	if got.Status != MissionClosed {
		t.Errorf("status = %s, want Closed", got.Status)
	}
	if got.PODRef != "POD-77" || got.PODSignatory != "J. van Wyk" {
		t.Errorf("pod not persisted: %+v", got)
	}
	if got.EndTime == nil {
		t.Error("end_time should be set on close")
	}
	if got.DriverName != "P. Moyo" {
		t.Errorf("driver = %q, want P. Moyo", got.DriverName)
	}
}

func TestOutboxLifecycle(t *testing.T) {
	db := testDB(t)

	if err := db.EnqueueOutbox(db, "fleet.finance", []byte(`{"trip_id":1}`), "finance_posting", "TRP-1"); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if err := db.EnqueueOutbox(db, "fleet.finance", []byte(`{"trip_id":2}`), "finance_posting", "TRP-2"); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	pending, err := db.PendingOutbox(10)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("pending = %d, want 2", len(pending))
	}

	if err := db.MarkOutboxSent(pending[0].ID); err != nil {
		t.Fatalf("mark sent: %v", err)
	}
	pending, err = db.PendingOutbox(10)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("pending after send = %d, want 1", len(pending))
	}
	if pending[0].RefID != "TRP-2" {
		t.Errorf("remaining ref = %s, want TRP-2", pending[0].RefID)
	}
}

func TestTripHistory(t *testing.T) {
	db := testDB(t)

	r := &RFQ{RFQRef: "RFQ-3001", Client: "Acme", Tons: 10}
	if err := db.CreateRFQ(r); err != nil {
		t.Fatalf("create rfq: %v", err)
	}
	trip := &Trip{TripRef: "TRP-3001", RFQID: r.ID, RegNumber: "CA 99-001", DriverName: "D"}
	if err := db.CreateTrip(db, trip); err != nil {
		t.Fatalf("create trip: %v", err)
	}

	for _, s := range []TripStatus{TripGateIn, TripLoading, TripWeighOut} {
		if err := db.AddTripHistory(db, trip.ID, s, "stage"); err != nil {
			t.Fatalf("add history: %v", err)
		}
	}
	entries, err := db.GetTripHistory(trip.ID)
	if err != nil {
		t.Fatalf("get history: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("history = %d entries, want 3", len(entries))
	}
	if entries[0].Status != string(TripGateIn) || entries[2].Status != string(TripWeighOut) {
		t.Errorf("history order wrong: %s .. %s", entries[0].Status, entries[2].Status)
	}
}
