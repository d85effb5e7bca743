package engine

import (
	"context"
	"fmt"
	"time"
)

func (e *Engine) wireEventHandlers() {
	// Audit the dispatch lifecycle.
	e.Events.Subscribe(func(evt Event) {
		ev := evt.(RFQReceivedEvent)
		e.logFn("engine: rfq %s received from %s (%.1ft)", ev.RFQRef, ev.Client, ev.Tons)
		e.audit("rfq", ev.RFQID, "received", "", ev.Client)
	}, KindRFQReceived)

	e.Events.Subscribe(func(evt Event) {
		ev := evt.(TripCreatedEvent)
		e.logFn("engine: trip %s created on %s (%s)", ev.TripRef, ev.RegNumber, ev.Driver)
		e.audit("trip", ev.TripID, "created", "", fmt.Sprintf("%s / %s", ev.RegNumber, ev.Driver))
		e.refreshVehicle(ev.RegNumber)
	}, KindTripCreated)

	e.Events.Subscribe(func(evt Event) {
		ev := evt.(TripStageAdvancedEvent)
		e.audit("trip", ev.TripID, "stage", "", ev.Status)
	}, KindTripStageAdvanced)

	e.Events.Subscribe(func(evt Event) {
		ev := evt.(TripDispatchedEvent)
		e.logFn("engine: trip %s dispatched (%.1ft, ticket %s)", ev.TripRef, ev.NetWeight, ev.TicketNo)
		e.audit("trip", ev.TripID, "dispatched", "", ev.TicketNo)
		e.refreshVehicle(ev.RegNumber)
	}, KindTripDispatched)

	// Mission lifecycle: audit plus redis refresh, the vehicle's status
	// and location move with the mission.
	e.Events.Subscribe(func(evt Event) {
		ev := evt.(MissionStatusChangedEvent)
		e.audit("mission", ev.MissionID, "status", "", ev.Status)
		e.refreshVehicle(ev.RegNumber)
	}, KindMissionStatusChanged)

	e.Events.Subscribe(func(evt Event) {
		ev := evt.(MissionClosedEvent)
		e.logFn("engine: mission %d closed, %s back in pool", ev.MissionID, ev.RegNumber)
		e.audit("mission", ev.MissionID, "closed", "", ev.PODRef)
		e.refreshVehicle(ev.RegNumber)
	}, KindMissionClosed)

	e.Events.Subscribe(func(evt Event) {
		ev := evt.(IncidentLoggedEvent)
		e.logFn("engine: incident on %s by %s: %s", ev.RegNumber, ev.Driver, ev.Category)
		e.audit("incident", ev.IncidentID, "logged", "", ev.Category)
	}, KindIncidentLogged)

	// Position updates only touch the snapshot.
	e.Events.Subscribe(func(evt Event) {
		ev := evt.(VehiclePositionEvent)
		e.refreshVehicle(ev.RegNumber)
	}, KindVehiclePosition)

	// Connection health: log transitions.
	e.Events.Subscribe(func(evt Event) {
		ev := evt.(ConnectionEvent)
		state := "disconnected"
		if ev.Connected {
			state = "connected"
		}
		e.logFn("engine: %s %s", ev.Source, state)
	}, KindConnection)
}

func (e *Engine) audit(entityType string, entityID int64, action, oldValue, newValue string) {
	if err := e.db.AddAudit(entityType, entityID, action, oldValue, newValue, "system"); err != nil {
		e.logFn("engine: audit %s/%d %s: %v", entityType, entityID, action, err)
	}
}

func (e *Engine) refreshVehicle(regNumber string) {
	if e.fleetState == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := e.fleetState.RefreshVehicle(ctx, regNumber); err != nil {
		e.logFn("engine: refresh fleetstate %s: %v", regNumber, err)
	}
}
