package messaging

import (
	"path/filepath"
	"strings"
	"testing"

	"fleetcore/config"
	"fleetcore/dispatch"
	"fleetcore/store"
)

func TestDecodeRFQRoundTrip(t *testing.T) {
	req := &RFQRequest{
		RFQRef:         "RFQ-900",
		Client:         "Acme Mining",
		Commodity:      "Chrome ore",
		RequiresHazmat: true,
		Tons:           32.5,
		Origin:         "Durban Port",
		Destination:    "JHB City Deep",
		Corridor:       "N3: Durban Port -> JHB City Deep",
	}
	frame, err := NewRFQEnvelope("depot-main", req)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	got, err := DecodeRFQ(frame)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if *got != *req {
		t.Errorf("decoded = %+v, want %+v", got, req)
	}
}

func TestDecodeRFQRejectsWrongType(t *testing.T) {
	frame := []byte(`{"message_id":"m1","msg_type":"invoice_paid","depot_id":"depot-main","payload":{}}`)
	if _, err := DecodeRFQ(frame); err == nil {
		t.Fatal("expected error for msg_type invoice_paid")
	} else if !strings.Contains(err.Error(), "invoice_paid") {
		t.Errorf("error %q should name the offending msg_type", err)
	}
}

func TestDecodeRFQRejectsMalformedFrame(t *testing.T) {
	if _, err := DecodeRFQ([]byte(`{"msg_type": "rfq_request", "payload": `)); err == nil {
		t.Fatal("expected error for truncated frame")
	}
}

func testIntake(t *testing.T) (*Intake, *store.DB) {
	t.Helper()
	cfg := config.Defaults()
	cfg.Database.SQLite.Path = filepath.Join(t.TempDir(), "test.db")
	db, err := store.Open(&cfg.Database)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	o := dispatch.NewOrchestrator(db, nil, "fleet.finance")
	return NewIntake(o), db
}

func TestIntakeCreatesRFQ(t *testing.T) {
	intake, db := testIntake(t)

	intake.HandleRFQ(&RFQRequest{
		RFQRef:      "RFQ-501",
		Client:      "Acme Mining",
		Commodity:   "Chrome ore",
		Tons:        30,
		Origin:      "Durban Port",
		Destination: "JHB City Deep",
		Corridor:    "N3: Durban Port -> JHB City Deep",
	})

	rfq, err := db.GetRFQByRef("RFQ-501")
	if err != nil {
		t.Fatalf("rfq not stored: %v", err)
	}
	if rfq.Status != store.RFQPending {
		t.Errorf("status = %s, want Pending", rfq.Status)
	}
	if rfq.Tons != 30 {
		t.Errorf("tons = %v, want 30", rfq.Tons)
	}
}

func TestIntakeAssignsRefWhenMissing(t *testing.T) {
	intake, db := testIntake(t)

	intake.HandleRFQ(&RFQRequest{Client: "Acme Mining", Commodity: "Coal", Tons: 20,
		Origin: "Witbank", Destination: "Richards Bay", Corridor: "N2: Witbank -> Richards Bay"})

	rfqs, err := db.ListRFQs(store.RFQPending)
	if err != nil {
		t.Fatalf("list rfqs: %v", err)
	}
	if len(rfqs) != 1 {
		t.Fatalf("got %d rfqs, want 1", len(rfqs))
	}
	if !strings.HasPrefix(rfqs[0].RFQRef, "RFQ-") {
		t.Errorf("ref %q should be auto-assigned with RFQ- prefix", rfqs[0].RFQRef)
	}
}
