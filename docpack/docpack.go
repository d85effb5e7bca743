// Package docpack renders the dispatch document pack handed to the driver
// at the gate. The byte format is a collaborator seam; the default builder
// emits plain text.
package docpack

import (
	"bytes"
	"fmt"
	"time"

	"fleetcore/store"
)

// Builder renders a dispatch pack for a trip leaving the depot.
type Builder interface {
	BuildDispatchPack(trip *store.Trip, rfq *store.RFQ, mission *store.Mission) ([]byte, error)
}

// TextBuilder renders the trip authority and weight certificate as plain
// text.
type TextBuilder struct {
	// Letterhead is printed at the top of every pack.
	Letterhead string
	// now is swappable for deterministic tests.
	now func() time.Time
}

func NewTextBuilder(letterhead string) *TextBuilder {
	if letterhead == "" {
		letterhead = "FLEETCORE | TRIP AUTHORITY"
	}
	return &TextBuilder{Letterhead: letterhead, now: time.Now}
}

func (b *TextBuilder) BuildDispatchPack(trip *store.Trip, rfq *store.RFQ, mission *store.Mission) ([]byte, error) {
	if trip == nil {
		return nil, fmt.Errorf("docpack: nil trip")
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s\n", b.Letterhead)
	fmt.Fprintf(&buf, "TRIP REF: %s\n", trip.TripRef)
	fmt.Fprintf(&buf, "DATE: %s\n", b.now().Format("2006-01-02 15:04"))
	fmt.Fprintf(&buf, "ASSET: %s (%s)\n", trip.RegNumber, orDefault(trip.DriverName, "Unassigned"))
	if rfq != nil {
		fmt.Fprintf(&buf, "RFQ REF: %s\n", rfq.RFQRef)
		fmt.Fprintf(&buf, "CLIENT: %s\n", rfq.Client)
		fmt.Fprintf(&buf, "ROUTE: %s -> %s", rfq.Origin, rfq.Destination)
		if rfq.Corridor != "" {
			fmt.Fprintf(&buf, " [%s]", rfq.Corridor)
		}
		buf.WriteByte('\n')
	}
	if mission != nil {
		fmt.Fprintf(&buf, "MISSION: #%d %s\n", mission.ID, mission.MissionName)
	}

	buf.WriteString("\n--- OFFICIAL WEIGHT CERTIFICATE ---\n")
	fmt.Fprintf(&buf, "TICKET NO:   %s\n", orDefault(trip.TicketNo, "Pending"))
	fmt.Fprintf(&buf, "GROSS MASS:  %s\n", weight(trip.GrossWeight))
	fmt.Fprintf(&buf, "TARE MASS:   %s\n", weight(trip.TareWeight))
	fmt.Fprintf(&buf, "NET PAYLOAD: %s\n", weight(trip.NetWeight))

	return buf.Bytes(), nil
}

func weight(w *float64) string {
	if w == nil {
		return "Pending"
	}
	return fmt.Sprintf("%.2f t", *w)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
