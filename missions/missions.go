// Package missions drives field execution: the road leg of a dispatched
// vehicle from Active through EnRoute and AtSite to closure against proof
// of delivery, plus driver-initiated ad-hoc missions and incident logging.
package missions

import (
	"errors"
	"fmt"
	"log"

	"fleetcore/store"
)

var (
	ErrInvalidStateTransition = errors.New("operation not valid in current mission state")
	ErrMissingProofOfDelivery = errors.New("mission closure requires proof of delivery evidence")
	ErrMissionClosed          = errors.New("mission is already closed")
	ErrVehicleBusy            = errors.New("vehicle is no longer idle")
	ErrPreTripBlocked         = errors.New("mission blocked by missing critical pre-trip items")
)

// Emitter receives mission lifecycle notifications after commit.
type Emitter interface {
	MissionStatusChanged(m *store.Mission)
	MissionClosed(m *store.Mission)
	IncidentLogged(i *store.Incident)
}

type noopEmitter struct{}

func (noopEmitter) MissionStatusChanged(*store.Mission) {}
func (noopEmitter) MissionClosed(*store.Mission)        {}
func (noopEmitter) IncidentLogged(*store.Incident)      {}

type Manager struct {
	db      *store.DB
	emitter Emitter
}

func NewManager(db *store.DB) *Manager {
	return &Manager{db: db, emitter: noopEmitter{}}
}

func (m *Manager) SetEmitter(e Emitter) {
	if e != nil {
		m.emitter = e
	}
}

// MarkEnRoute records departure from the depot. Driver-initiated; only
// valid from Active.
func (m *Manager) MarkEnRoute(missionID int64, location string) (*store.Mission, error) {
	return m.advance(missionID, store.MissionActive, store.MissionEnRoute, store.VehicleEnRoute, location, "departed")
}

// MarkAtSite records arrival at the delivery site.
func (m *Manager) MarkAtSite(missionID int64, location string) (*store.Mission, error) {
	return m.advance(missionID, store.MissionEnRoute, store.MissionAtSite, store.VehicleAtSite, location, "arrived on site")
}

func (m *Manager) advance(missionID int64, from, to store.MissionStatus, vehicleStatus store.VehicleStatus, location, detail string) (*store.Mission, error) {
	mission, err := m.db.GetMission(missionID)
	if err != nil {
		return nil, err
	}
	if mission.Status != from {
		return nil, ErrInvalidStateTransition
	}

	tx, err := m.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	moved, err := m.db.AdvanceMissionStatus(tx, missionID, from, to)
	if err != nil {
		return nil, err
	}
	if !moved {
		return nil, ErrInvalidStateTransition
	}
	if location != "" {
		if err := m.db.SetMissionLocation(tx, missionID, location); err != nil {
			return nil, err
		}
		if err := m.db.SetVehicleLocation(tx, mission.RegNumber, location); err != nil {
			return nil, err
		}
	}
	if err := m.db.SetVehicleStatus(tx, mission.RegNumber, vehicleStatus); err != nil {
		return nil, err
	}
	if err := m.db.AddMissionHistory(tx, missionID, to, detail); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	mission, err = m.db.GetMission(missionID)
	if err != nil {
		return nil, err
	}
	m.emitter.MissionStatusChanged(mission)
	return mission, nil
}

// CloseMission ends a mission against proof of delivery and releases the
// vehicle back to the Idle pool. The only way a vehicle gets back to Idle.
func (m *Manager) CloseMission(missionID int64, podRef, podSignatory string) (*store.Mission, error) {
	if podRef == "" {
		return nil, ErrMissingProofOfDelivery
	}
	mission, err := m.db.GetMission(missionID)
	if err != nil {
		return nil, err
	}
	if mission.Status != store.MissionAtSite {
		return nil, ErrInvalidStateTransition
	}

	tx, err := m.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	moved, err := m.db.CloseMission(tx, missionID, store.MissionAtSite, podRef, podSignatory)
	if err != nil {
		return nil, err
	}
	if !moved {
		return nil, ErrInvalidStateTransition
	}
	if err := m.db.ReleaseVehicle(tx, mission.RegNumber); err != nil {
		return nil, err
	}
	if err := m.db.AddMissionHistory(tx, missionID, store.MissionClosed, "pod "+podRef); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	mission, err = m.db.GetMission(missionID)
	if err != nil {
		return nil, err
	}
	log.Printf("missions: mission %d closed, %s released", mission.ID, mission.RegNumber)
	m.emitter.MissionClosed(mission)
	return mission, nil
}

// HandoverDriver swaps the acting driver on an open mission. The guarded
// update loses cleanly against a racing CloseMission.
func (m *Manager) HandoverDriver(missionID int64, newDriver string) (*store.Mission, error) {
	mission, err := m.db.GetMission(missionID)
	if err != nil {
		return nil, err
	}
	if mission.Status == store.MissionClosed {
		return nil, ErrMissionClosed
	}

	tx, err := m.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	applied, err := m.db.SetMissionDriver(tx, missionID, newDriver)
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, ErrMissionClosed
	}
	if err := m.db.SetVehicleDriver(tx, mission.RegNumber, &newDriver); err != nil {
		return nil, err
	}
	if err := m.db.AddMissionHistory(tx, missionID, mission.Status, "handover to "+newDriver); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	mission, err = m.db.GetMission(missionID)
	if err != nil {
		return nil, err
	}
	m.emitter.MissionStatusChanged(mission)
	return mission, nil
}

// StartAdHocMission opens a driver-initiated mission without a backing
// trip, gated by the pre-trip inspection. Missing critical items block the
// start and leave an incident trail; missing non-critical items are logged
// as exceptions and the mission proceeds.
func (m *Manager) StartAdHocMission(driver, regNumber, missionName string, checklist []ChecklistItem) (*store.Mission, error) {
	critical, noncritical := MissingItems(checklist)

	if len(critical) > 0 {
		m.logPreTrip(driver, regNumber, missionName, "PRETRIP_BLOCKED", critical, noncritical)
		return nil, ErrPreTripBlocked
	}
	if len(noncritical) > 0 {
		m.logPreTrip(driver, regNumber, missionName, "PRETRIP_EXCEPTIONS", nil, noncritical)
	}

	tx, err := m.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	reserved, err := m.db.ReserveVehicle(tx, regNumber, driver)
	if err != nil {
		return nil, err
	}
	if !reserved {
		return nil, ErrVehicleBusy
	}

	mission := &store.Mission{
		MissionName: missionName,
		RegNumber:   regNumber,
		DriverName:  driver,
		Status:      store.MissionActive,
		Location:    "Depot",
	}
	if err := m.db.CreateMission(tx, mission); err != nil {
		return nil, err
	}
	if err := m.db.AddMissionHistory(tx, mission.ID, store.MissionActive, "ad-hoc start by "+driver); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	log.Printf("missions: ad-hoc mission %d started on %s by %s", mission.ID, regNumber, driver)
	m.emitter.MissionStatusChanged(mission)
	return mission, nil
}

// LogIncident records a driver-reported event against a vehicle.
func (m *Manager) LogIncident(driver, regNumber, kind, details string) (*store.Incident, error) {
	inc := &store.Incident{DriverName: driver, RegNumber: regNumber, Kind: kind, Details: details}
	if err := m.db.CreateIncident(inc); err != nil {
		return nil, err
	}
	m.emitter.IncidentLogged(inc)
	return inc, nil
}

func (m *Manager) logPreTrip(driver, reg, missionName, kind string, critical, noncritical []string) {
	details := fmt.Sprintf("mission %q critical missing: %s; non-critical missing: %s",
		missionName, joinOrNone(critical), joinOrNone(noncritical))
	if _, err := m.LogIncident(driver, reg, kind, details); err != nil {
		log.Printf("missions: log pre-trip incident: %v", err)
	}
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	out := items[0]
	for _, s := range items[1:] {
		out += ", " + s
	}
	return out
}
