package engine

import (
	"fleetcore/store"
)

// dispatchEmitter bridges the dispatch package's emitter interface to the
// bus.
type dispatchEmitter struct {
	bus *Bus
}

func (e *dispatchEmitter) RFQReceived(rfq *store.RFQ) {
	e.bus.Publish(RFQReceivedEvent{
		RFQID:  rfq.ID,
		RFQRef: rfq.RFQRef,
		Client: rfq.Client,
		Tons:   rfq.Tons,
	})
}

func (e *dispatchEmitter) TripCreated(trip *store.Trip, mission *store.Mission) {
	ev := TripCreatedEvent{
		TripID:    trip.ID,
		TripRef:   trip.TripRef,
		RegNumber: trip.RegNumber,
		Driver:    trip.DriverName,
	}
	if mission != nil {
		ev.MissionID = mission.ID
	}
	e.bus.Publish(ev)
}

func (e *dispatchEmitter) TripStageAdvanced(trip *store.Trip, missionStatus store.MissionStatus) {
	e.bus.Publish(TripStageAdvancedEvent{
		TripID:        trip.ID,
		TripRef:       trip.TripRef,
		Status:        string(trip.Status),
		MissionStatus: string(missionStatus),
		RegNumber:     trip.RegNumber,
	})
}

func (e *dispatchEmitter) TripDispatched(trip *store.Trip) {
	ev := TripDispatchedEvent{
		TripID:    trip.ID,
		TripRef:   trip.TripRef,
		RegNumber: trip.RegNumber,
		TicketNo:  trip.TicketNo,
	}
	if trip.NetWeight != nil {
		ev.NetWeight = *trip.NetWeight
	}
	e.bus.Publish(ev)
}

// missionEmitter bridges the missions package's emitter interface to the
// bus.
type missionEmitter struct {
	bus *Bus
}

func (e *missionEmitter) MissionStatusChanged(m *store.Mission) {
	e.bus.Publish(MissionStatusChangedEvent{
		MissionID: m.ID,
		RegNumber: m.RegNumber,
		Driver:    m.DriverName,
		Status:    string(m.Status),
		Location:  m.Location,
	})
}

func (e *missionEmitter) MissionClosed(m *store.Mission) {
	e.bus.Publish(MissionClosedEvent{
		MissionID: m.ID,
		RegNumber: m.RegNumber,
		PODRef:    m.PODRef,
	})
}

func (e *missionEmitter) IncidentLogged(i *store.Incident) {
	e.bus.Publish(IncidentLoggedEvent{
		IncidentID: i.ID,
		RegNumber:  i.RegNumber,
		Driver:     i.DriverName,
		Category:   i.Kind,
	})
}

// telematicsEmitter bridges tracker position updates to the bus.
type telematicsEmitter struct {
	bus *Bus
}

func (e *telematicsEmitter) VehiclePosition(p *store.GPSPing) {
	e.bus.Publish(VehiclePositionEvent{
		RegNumber: p.RegNumber,
		Latitude:  p.Latitude,
		Longitude: p.Longitude,
		Speed:     p.Speed,
		Ignition:  p.Ignition,
	})
}
