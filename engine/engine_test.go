package engine

import (
	"path/filepath"
	"testing"

	"fleetcore/config"
	"fleetcore/pricing"
	"fleetcore/store"
)

func TestBusFiltersByKind(t *testing.T) {
	bus := NewBus()

	var created []TripCreatedEvent
	var all []Event
	bus.Subscribe(func(evt Event) {
		created = append(created, evt.(TripCreatedEvent))
	}, KindTripCreated)
	bus.Subscribe(func(evt Event) {
		all = append(all, evt)
	})

	bus.Publish(TripCreatedEvent{TripID: 1, TripRef: "TRIP-1"})
	bus.Publish(RFQReceivedEvent{RFQID: 9, RFQRef: "RFQ-9"})

	if len(created) != 1 || created[0].TripRef != "TRIP-1" {
		t.Errorf("filtered handler got %v, want one TRIP-1", created)
	}
	if len(all) != 2 {
		t.Errorf("catch-all handler got %d events, want 2", len(all))
	}
}

func TestBusUnsubscribe(t *testing.T) {
	bus := NewBus()

	count := 0
	id := bus.Subscribe(func(Event) { count++ }, KindMissionClosed)

	bus.Publish(MissionClosedEvent{MissionID: 1})
	bus.Unsubscribe(id)
	bus.Publish(MissionClosedEvent{MissionID: 2})

	if count != 1 {
		t.Errorf("handler ran %d times, want 1", count)
	}
}

func TestBusDeliversInSubscriptionOrder(t *testing.T) {
	bus := NewBus()

	var order []string
	bus.Subscribe(func(Event) { order = append(order, "first") }, KindConnection)
	bus.Subscribe(func(Event) { order = append(order, "second") }, KindConnection)

	bus.Publish(ConnectionEvent{Source: "messaging", Connected: true})

	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Errorf("delivery order = %v, want [first second]", order)
	}
}

func testEngine(t *testing.T) *Engine {
	t.Helper()
	cfg := config.Defaults()
	cfg.Database.SQLite.Path = filepath.Join(t.TempDir(), "test.db")
	db, err := store.Open(&cfg.Database)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	eng := New(Config{
		AppConfig: cfg,
		DB:        db,
		Pricing:   pricing.NewEngine(nil, 0, 0),
		LogFunc:   func(string, ...any) {},
	})
	eng.Start()
	t.Cleanup(eng.Stop)
	return eng
}

func TestWiringAuditsLifecycleEvents(t *testing.T) {
	eng := testEngine(t)

	eng.Events.Publish(TripCreatedEvent{TripID: 7, TripRef: "TRIP-7", RegNumber: "ND 100-001", Driver: "P. Moyo"})
	eng.Events.Publish(MissionClosedEvent{MissionID: 3, RegNumber: "ND 100-001", PODRef: "POD-1"})

	tripAudit, err := eng.DB().ListAudit("trip", 7, 10)
	if err != nil {
		t.Fatalf("list trip audit: %v", err)
	}
	if len(tripAudit) != 1 || tripAudit[0].Action != "created" {
		t.Errorf("trip audit = %+v, want one 'created' entry", tripAudit)
	}

	missionAudit, err := eng.DB().ListAudit("mission", 3, 10)
	if err != nil {
		t.Fatalf("list mission audit: %v", err)
	}
	if len(missionAudit) != 1 || missionAudit[0].NewValue != "POD-1" {
		t.Errorf("mission audit = %+v, want one entry carrying POD-1", missionAudit)
	}
}
