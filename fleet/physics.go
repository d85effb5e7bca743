package fleet

import (
	"fmt"

	"fleetcore/store"
)

// Reason classifies why a vehicle cannot take a consignment.
type Reason string

const (
	ReasonOK               Reason = ""
	ReasonCapacityExceeded Reason = "capacity_exceeded"
	ReasonHazmatMismatch   Reason = "hazmat_mismatch"
)

// Validate checks whether a vehicle can physically take a consignment. Pure;
// hazmat is checked before capacity so the dispatcher sees the harder
// blocker first.
func Validate(requestedTons float64, requiresHazmat bool, v *store.Vehicle) (bool, Reason) {
	if requiresHazmat && !v.HazmatCertified {
		return false, ReasonHazmatMismatch
	}
	if requestedTons > EffectiveCapacity(v) {
		return false, ReasonCapacityExceeded
	}
	return true, ReasonOK
}

// EffectiveCapacity is the vehicle's registered payload rating, or the
// trailer configuration default when the registry has no figure.
func EffectiveCapacity(v *store.Vehicle) float64 {
	if v.MaxTons > 0 {
		return v.MaxTons
	}
	return CapabilityFor(v.TrailerType).MaxTons
}

// Eligible filters a vehicle pool down to the Idle vehicles that pass the
// physics check for the given consignment. An empty result is a normal
// outcome, not an error.
func Eligible(pool []*store.Vehicle, requestedTons float64, requiresHazmat bool) []*store.Vehicle {
	var out []*store.Vehicle
	for _, v := range pool {
		if v.Status != store.VehicleIdle {
			continue
		}
		if ok, _ := Validate(requestedTons, requiresHazmat, v); ok {
			out = append(out, v)
		}
	}
	return out
}

// Describe renders a rejection reason for operator display.
func Describe(reason Reason, requestedTons float64, v *store.Vehicle) string {
	switch reason {
	case ReasonCapacityExceeded:
		return fmt.Sprintf("%s rated for %.1ft, requested %.1ft", v.RegNumber, EffectiveCapacity(v), requestedTons)
	case ReasonHazmatMismatch:
		return fmt.Sprintf("%s is not hazmat certified", v.RegNumber)
	default:
		return ""
	}
}
