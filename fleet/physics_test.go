package fleet

import (
	"testing"

	"fleetcore/store"
)

func vehicle(reg, trailer string, maxTons float64, hazmat bool, status store.VehicleStatus) *store.Vehicle {
	return &store.Vehicle{
		RegNumber:       reg,
		TrailerType:     trailer,
		MaxTons:         maxTons,
		HazmatCertified: hazmat,
		Status:          status,
		Active:          true,
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name       string
		tons       float64
		hazmat     bool
		v          *store.Vehicle
		wantOK     bool
		wantReason Reason
	}{
		{"fits", 28, false, vehicle("A", "Interlink", 36, false, store.VehicleIdle), true, ReasonOK},
		{"exact capacity", 36, false, vehicle("A", "Interlink", 36, false, store.VehicleIdle), true, ReasonOK},
		{"over capacity", 37, false, vehicle("A", "Interlink", 36, false, store.VehicleIdle), false, ReasonCapacityExceeded},
		{"hazmat on certified", 20, true, vehicle("B", "Tautliner", 34, true, store.VehicleIdle), true, ReasonOK},
		{"hazmat on uncertified", 20, true, vehicle("C", "Tipper", 34, false, store.VehicleIdle), false, ReasonHazmatMismatch},
		{"hazmat reported before capacity", 40, true, vehicle("C", "Tipper", 34, false, store.VehicleIdle), false, ReasonHazmatMismatch},
		{"capacity falls back to trailer rating", 30, false, vehicle("D", "Tri-Axle", 0, false, store.VehicleIdle), false, ReasonCapacityExceeded},
		{"unknown trailer default", 15, false, vehicle("E", "Lowbed", 0, false, store.VehicleIdle), false, ReasonCapacityExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, reason := Validate(tt.tons, tt.hazmat, tt.v)
			if ok != tt.wantOK || reason != tt.wantReason {
				t.Errorf("Validate(%v, %v) = (%v, %q), want (%v, %q)",
					tt.tons, tt.hazmat, ok, reason, tt.wantOK, tt.wantReason)
			}
		})
	}
}

func TestEligible(t *testing.T) {
	pool := []*store.Vehicle{
		vehicle("BIG-NOHAZ", "Interlink", 34, false, store.VehicleIdle),
		vehicle("FIT-HAZ", "Tautliner", 30, true, store.VehicleIdle),
		vehicle("BUSY-HAZ", "Tautliner", 34, true, store.VehicleActive),
	}

	// 30t hazmat consignment: only the idle, certified, big-enough vehicle
	// qualifies.
	got := Eligible(pool, 30, true)
	if len(got) != 1 || got[0].RegNumber != "FIT-HAZ" {
		t.Fatalf("Eligible = %v, want exactly FIT-HAZ", regs(got))
	}

	// No candidate at all is a normal empty result.
	got = Eligible(pool, 50, false)
	if len(got) != 0 {
		t.Fatalf("Eligible for 50t = %v, want none", regs(got))
	}
}

func TestCapabilityFor(t *testing.T) {
	if c := CapabilityFor("Interlink"); c.MaxTons != 36 || c.Hazmat {
		t.Errorf("Interlink = %+v", c)
	}
	if c := CapabilityFor("Rigid"); c.MaxTons != 8 || !c.Hazmat {
		t.Errorf("Rigid = %+v", c)
	}
	if c := CapabilityFor("Does Not Exist"); c.MaxTons != 14 {
		t.Errorf("unknown trailer = %+v, want default 14t", c)
	}
}

func regs(vs []*store.Vehicle) []string {
	var out []string
	for _, v := range vs {
		out = append(out, v.RegNumber)
	}
	return out
}
