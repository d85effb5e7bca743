package fleet

import (
	"time"

	"fleetcore/store"
)

// Availability is a coarse forecast of when a vehicle can take new work.
type Availability struct {
	Known bool          `json:"known"`
	ETA   time.Duration `json:"-"`
	Label string        `json:"label"`
}

// Forecast estimates when a vehicle returns to the assignable pool based on
// where it sits in the mission lifecycle.
func Forecast(status store.VehicleStatus) Availability {
	switch status {
	case store.VehicleIdle:
		return Availability{Known: true, ETA: 0, Label: "immediately"}
	case store.VehicleActive:
		return Availability{Known: true, ETA: 4 * time.Hour, Label: "+4 hours"}
	case store.VehicleEnRoute:
		return Availability{Known: true, ETA: 6 * time.Hour, Label: "+6 hours"}
	case store.VehicleAtSite:
		return Availability{Known: true, ETA: 2 * time.Hour, Label: "+2 hours"}
	case store.VehicleMaintenance:
		return Availability{Known: false, Label: "Awaiting workshop release"}
	default:
		return Availability{Known: false, Label: "unknown"}
	}
}
