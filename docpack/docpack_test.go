package docpack

import (
	"strings"
	"testing"
	"time"

	"fleetcore/store"
)

func f(v float64) *float64 { return &v }

func TestBuildDispatchPack(t *testing.T) {
	b := NewTextBuilder("")
	b.now = func() time.Time { return time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC) }

	trip := &store.Trip{
		TripRef:     "TRP-AB12CD34",
		RegNumber:   "ND 100-001",
		DriverName:  "P. Moyo",
		TareWeight:  f(14.2),
		GrossWeight: f(48.6),
		NetWeight:   f(34.4),
		TicketNo:    "WB-0042",
	}
	rfq := &store.RFQ{RFQRef: "RFQ-100", Client: "Acme Mining", Origin: "Durban Port", Destination: "JHB City Deep", Corridor: "N3: Durban Port -> JHB City Deep"}
	mission := &store.Mission{ID: 7, MissionName: "Acme Mining | Chrome ore"}

	pack, err := b.BuildDispatchPack(trip, rfq, mission)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	text := string(pack)

	for _, want := range []string{
		"TRIP REF: TRP-AB12CD34",
		"DATE: 2026-03-14 09:30",
		"ASSET: ND 100-001 (P. Moyo)",
		"RFQ REF: RFQ-100",
		"ROUTE: Durban Port -> JHB City Deep [N3: Durban Port -> JHB City Deep]",
		"MISSION: #7 Acme Mining | Chrome ore",
		"TICKET NO:   WB-0042",
		"GROSS MASS:  48.60 t",
		"TARE MASS:   14.20 t",
		"NET PAYLOAD: 34.40 t",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("pack missing %q:\n%s", want, text)
		}
	}
}

func TestBuildPendingWeights(t *testing.T) {
	b := NewTextBuilder("ACME LOGISTICS")
	trip := &store.Trip{TripRef: "TRP-X", RegNumber: "CA 1"}

	pack, err := b.BuildDispatchPack(trip, nil, nil)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	text := string(pack)
	if !strings.HasPrefix(text, "ACME LOGISTICS") {
		t.Errorf("letterhead missing:\n%s", text)
	}
	if !strings.Contains(text, "NET PAYLOAD: Pending") {
		t.Errorf("unset weights should render Pending:\n%s", text)
	}
	if !strings.Contains(text, "ASSET: CA 1 (Unassigned)") {
		t.Errorf("missing driver should render Unassigned:\n%s", text)
	}
}
