// Package dispatch drives the weighbridge trip workflow: vehicle
// assignment against an RFQ, the staged weigh-in/weigh-out sequence, and
// final dispatch with document generation and a finance posting.
package dispatch

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"fleetcore/fleet"
	"fleetcore/store"
)

// Emitter receives dispatch lifecycle notifications after the backing
// transaction commits.
type Emitter interface {
	TripCreated(trip *store.Trip, mission *store.Mission)
	TripStageAdvanced(trip *store.Trip, missionStatus store.MissionStatus)
	TripDispatched(trip *store.Trip)
	RFQReceived(rfq *store.RFQ)
}

type noopEmitter struct{}

func (noopEmitter) TripCreated(*store.Trip, *store.Mission)            {}
func (noopEmitter) TripStageAdvanced(*store.Trip, store.MissionStatus) {}
func (noopEmitter) TripDispatched(*store.Trip)                         {}
func (noopEmitter) RFQReceived(*store.RFQ)                             {}

// DocBuilder renders the dispatch document pack. CloseAndDispatch will not
// move a trip to DISPATCHED until the pack builds.
type DocBuilder interface {
	BuildDispatchPack(trip *store.Trip, rfq *store.RFQ, mission *store.Mission) ([]byte, error)
}

// FinancePosting is the ledger event handed to the finance collaborator on
// dispatch. Posting is fire-and-forget through the outbox; dispatch never
// waits on the ledger.
type FinancePosting struct {
	TripID    int64   `json:"trip_id"`
	TripRef   string  `json:"trip_ref"`
	Vehicle   string  `json:"vehicle"`
	Route     string  `json:"route"`
	Cost      float64 `json:"cost"`
	TicketNo  string  `json:"ticket_no"`
	NetWeight float64 `json:"net_weight"`
}

type Orchestrator struct {
	db           *store.DB
	docs         DocBuilder
	emitter      Emitter
	financeTopic string
}

func NewOrchestrator(db *store.DB, docs DocBuilder, financeTopic string) *Orchestrator {
	return &Orchestrator{db: db, docs: docs, emitter: noopEmitter{}, financeTopic: financeTopic}
}

// SetEmitter wires lifecycle notifications. Call before serving traffic.
func (o *Orchestrator) SetEmitter(e Emitter) {
	if e != nil {
		o.emitter = e
	}
}

// IntakeRFQ registers an inbound freight request.
func (o *Orchestrator) IntakeRFQ(r *store.RFQ) error {
	if r.RFQRef == "" {
		r.RFQRef = newRef("RFQ")
	}
	if err := o.db.CreateRFQ(r); err != nil {
		return err
	}
	o.emitter.RFQReceived(r)
	return nil
}

// ListEligibleVehicles returns the Idle vehicles that pass the physics
// check for an RFQ. An empty list is a normal answer.
func (o *Orchestrator) ListEligibleVehicles(rfqID int64) ([]*store.Vehicle, error) {
	rfq, err := o.db.GetRFQ(rfqID)
	if err != nil {
		return nil, err
	}
	pool, err := o.db.ListVehiclesByStatus(store.VehicleIdle)
	if err != nil {
		return nil, err
	}
	return fleet.Eligible(pool, rfq.Tons, rfq.RequiresHazmat), nil
}

// CreateTrip assigns a vehicle and driver to a pending RFQ. The idle check
// and the flip to Active run as one guarded update inside a transaction, so
// of two racing dispatchers exactly one wins and the other gets
// ErrVehicleBusy.
func (o *Orchestrator) CreateTrip(rfqID int64, regNumber, driver string, quotedRate float64) (*store.Trip, *store.Mission, error) {
	rfq, err := o.db.GetRFQ(rfqID)
	if err != nil {
		return nil, nil, fmt.Errorf("load rfq: %w", err)
	}
	vehicle, err := o.db.GetVehicle(regNumber)
	if err != nil {
		return nil, nil, fmt.Errorf("load vehicle: %w", err)
	}

	if ok, reason := fleet.Validate(rfq.Tons, rfq.RequiresHazmat, vehicle); !ok {
		switch reason {
		case fleet.ReasonHazmatMismatch:
			return nil, nil, ErrHazmatMismatch
		default:
			return nil, nil, ErrCapacityExceeded
		}
	}

	tx, err := o.db.Begin()
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback()

	claimed, err := o.db.ClaimRFQ(tx, rfq.ID, store.RFQPending, store.RFQProcessing)
	if err != nil {
		return nil, nil, err
	}
	if !claimed {
		return nil, nil, ErrRFQNotPending
	}

	reserved, err := o.db.ReserveVehicle(tx, regNumber, driver)
	if err != nil {
		return nil, nil, err
	}
	if !reserved {
		return nil, nil, ErrVehicleBusy
	}

	trip := &store.Trip{
		TripRef:    newRef("TRP"),
		RFQID:      rfq.ID,
		RegNumber:  regNumber,
		DriverName: driver,
		QuotedRate: quotedRate,
	}
	if err := o.db.CreateTrip(tx, trip); err != nil {
		return nil, nil, err
	}

	mission := &store.Mission{
		MissionName: missionName(rfq),
		RegNumber:   regNumber,
		DriverName:  driver,
		Location:    rfq.Origin,
	}
	if err := o.db.CreateMission(tx, mission); err != nil {
		return nil, nil, err
	}
	if err := o.db.SetTripMission(tx, trip.ID, mission.ID); err != nil {
		return nil, nil, err
	}
	trip.MissionID = &mission.ID

	if err := o.db.AddTripHistory(tx, trip.ID, store.TripGateIn, fmt.Sprintf("assigned %s / %s", regNumber, driver)); err != nil {
		return nil, nil, err
	}
	if err := o.db.AddMissionHistory(tx, mission.ID, store.MissionStaged, "staged with trip "+trip.TripRef); err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, err
	}

	log.Printf("dispatch: trip %s created for rfq %s on %s", trip.TripRef, rfq.RFQRef, regNumber)
	o.emitter.TripCreated(trip, mission)
	return trip, mission, nil
}

// ConfirmTare records the empty weight at the gate and opens loading.
func (o *Orchestrator) ConfirmTare(tripID int64, tareWeight float64) (*store.Trip, error) {
	if tareWeight <= 0 {
		return nil, ErrInvalidWeightSequence
	}
	return o.advanceStage(tripID, store.TripGateIn, store.TripLoading, store.MissionLoading,
		func(tx store.Queryer, trip *store.Trip) error {
			return o.db.SetTripTare(tx, trip.ID, tareWeight)
		},
		fmt.Sprintf("tare %.1f", tareWeight))
}

// CompleteLoading moves a loaded trip to the outbound weighbridge queue.
func (o *Orchestrator) CompleteLoading(tripID int64) (*store.Trip, error) {
	return o.advanceStage(tripID, store.TripLoading, store.TripWeighOut, store.MissionWeighOut, nil, "loading complete")
}

// FinalizeWeights records the gross weight and weighbridge ticket. The net
// weight must come out non-negative; a negative figure is a data-entry
// error and nothing is persisted.
func (o *Orchestrator) FinalizeWeights(tripID int64, grossWeight float64, ticketNo string) (*store.Trip, error) {
	trip, err := o.db.GetTrip(tripID)
	if err != nil {
		return nil, err
	}
	if trip.Status != store.TripWeighOut {
		return nil, ErrInvalidStateTransition
	}
	if trip.TareWeight == nil {
		return nil, ErrInvalidWeightSequence
	}
	net := grossWeight - *trip.TareWeight
	if net < 0 {
		return nil, ErrInvalidWeightSequence
	}
	return o.advanceStage(tripID, store.TripWeighOut, store.TripDocumentation, store.MissionDocumentation,
		func(tx store.Queryer, t *store.Trip) error {
			return o.db.SetTripWeights(tx, t.ID, grossWeight, net, ticketNo)
		},
		fmt.Sprintf("gross %.1f net %.1f ticket %s", grossWeight, net, ticketNo))
}

// CloseAndDispatch builds the document pack, releases the vehicle to the
// road and posts the trip to finance. The trip only reaches DISPATCHED
// once the pack has built.
func (o *Orchestrator) CloseAndDispatch(tripID int64) (*store.Trip, []byte, error) {
	trip, err := o.db.GetTrip(tripID)
	if err != nil {
		return nil, nil, err
	}
	if trip.Status != store.TripDocumentation {
		return nil, nil, ErrInvalidStateTransition
	}
	rfq, err := o.db.GetRFQ(trip.RFQID)
	if err != nil {
		return nil, nil, err
	}
	var mission *store.Mission
	if trip.MissionID != nil {
		mission, err = o.db.GetMission(*trip.MissionID)
		if err != nil {
			return nil, nil, err
		}
	}

	var pack []byte
	if o.docs != nil {
		pack, err = o.docs.BuildDispatchPack(trip, rfq, mission)
		if err != nil {
			return nil, nil, fmt.Errorf("build dispatch pack: %w", err)
		}
	}

	posting := FinancePosting{
		TripID:   trip.ID,
		TripRef:  trip.TripRef,
		Vehicle:  trip.RegNumber,
		Route:    rfq.Corridor,
		Cost:     trip.QuotedRate,
		TicketNo: trip.TicketNo,
	}
	if trip.NetWeight != nil {
		posting.NetWeight = *trip.NetWeight
	}
	payload, err := json.Marshal(posting)
	if err != nil {
		return nil, nil, err
	}

	tx, err := o.db.Begin()
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback()

	moved, err := o.db.AdvanceTripStatus(tx, trip.ID, store.TripDocumentation, store.TripDispatched)
	if err != nil {
		return nil, nil, err
	}
	if !moved {
		return nil, nil, ErrInvalidStateTransition
	}
	if err := o.db.CloseTrip(tx, trip.ID); err != nil {
		return nil, nil, err
	}
	if mission != nil {
		mirrored, err := o.db.AdvanceMissionStatus(tx, mission.ID, store.MissionDocumentation, store.MissionActive)
		if err != nil {
			return nil, nil, err
		}
		if !mirrored {
			return nil, nil, fmt.Errorf("%w: mission %d not at %s", ErrInvalidStateTransition, mission.ID, store.MissionDocumentation)
		}
		if err := o.db.AddMissionHistory(tx, mission.ID, store.MissionActive, "trip dispatched"); err != nil {
			return nil, nil, err
		}
	}
	if err := o.db.SetVehicleStatus(tx, trip.RegNumber, store.VehicleActive); err != nil {
		return nil, nil, err
	}
	if err := o.db.SetRFQStatus(tx, rfq.ID, store.RFQDispatched); err != nil {
		return nil, nil, err
	}
	if err := o.db.AddTripHistory(tx, trip.ID, store.TripDispatched, "dispatched"); err != nil {
		return nil, nil, err
	}
	if o.financeTopic != "" {
		if err := o.db.EnqueueOutbox(tx, o.financeTopic, payload, "finance_posting", trip.TripRef); err != nil {
			return nil, nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, err
	}

	trip, err = o.db.GetTrip(trip.ID)
	if err != nil {
		return nil, nil, err
	}
	log.Printf("dispatch: trip %s dispatched on %s", trip.TripRef, trip.RegNumber)
	o.emitter.TripDispatched(trip)
	return trip, pack, nil
}

// advanceStage is the shared guarded transition for the intermediate
// weighbridge stages. The extra mutation runs in the same transaction as
// the status flip.
func (o *Orchestrator) advanceStage(tripID int64, from, to store.TripStatus, missionTo store.MissionStatus, mutate func(store.Queryer, *store.Trip) error, detail string) (*store.Trip, error) {
	trip, err := o.db.GetTrip(tripID)
	if err != nil {
		return nil, err
	}
	if trip.Status != from {
		return nil, ErrInvalidStateTransition
	}

	tx, err := o.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	moved, err := o.db.AdvanceTripStatus(tx, trip.ID, from, to)
	if err != nil {
		return nil, err
	}
	if !moved {
		return nil, ErrInvalidStateTransition
	}
	if mutate != nil {
		if err := mutate(tx, trip); err != nil {
			return nil, err
		}
	}
	if trip.MissionID != nil {
		// Mission stages mirror the trip 1:1 here, so the expected source
		// status is the mission twin of the trip's.
		var missionFrom store.MissionStatus
		switch to {
		case store.TripLoading:
			missionFrom = store.MissionStaged
		case store.TripWeighOut:
			missionFrom = store.MissionLoading
		case store.TripDocumentation:
			missionFrom = store.MissionWeighOut
		}
		mirrored, err := o.db.AdvanceMissionStatus(tx, *trip.MissionID, missionFrom, missionTo)
		if err != nil {
			return nil, err
		}
		if !mirrored {
			return nil, fmt.Errorf("%w: mission %d not at %s", ErrInvalidStateTransition, *trip.MissionID, missionFrom)
		}
		if err := o.db.AddMissionHistory(tx, *trip.MissionID, missionTo, detail); err != nil {
			return nil, err
		}
	}
	if err := o.db.AddTripHistory(tx, trip.ID, to, detail); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	trip, err = o.db.GetTrip(tripID)
	if err != nil {
		return nil, err
	}
	o.emitter.TripStageAdvanced(trip, missionTo)
	return trip, nil
}

func missionName(rfq *store.RFQ) string {
	parts := []string{}
	if rfq.Client != "" {
		parts = append(parts, rfq.Client)
	}
	if rfq.Commodity != "" {
		parts = append(parts, rfq.Commodity)
	}
	if len(parts) == 0 {
		return rfq.RFQRef
	}
	return strings.Join(parts, " | ")
}

func newRef(prefix string) string {
	id := uuid.NewString()
	return fmt.Sprintf("%s-%s", prefix, strings.ToUpper(id[:8]))
}
