package fleet

import (
	"testing"
	"time"

	"fleetcore/store"
)

func TestForecast(t *testing.T) {
	tests := []struct {
		status    store.VehicleStatus
		wantKnown bool
		wantETA   time.Duration
		wantLabel string
	}{
		{store.VehicleIdle, true, 0, "immediately"},
		{store.VehicleActive, true, 4 * time.Hour, "+4 hours"},
		{store.VehicleEnRoute, true, 6 * time.Hour, "+6 hours"},
		{store.VehicleAtSite, true, 2 * time.Hour, "+2 hours"},
		{store.VehicleMaintenance, false, 0, "Awaiting workshop release"},
		{store.VehicleStatus("Decommissioned"), false, 0, "unknown"},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			got := Forecast(tt.status)
			if got.Known != tt.wantKnown {
				t.Errorf("known = %v, want %v", got.Known, tt.wantKnown)
			}
			if got.ETA != tt.wantETA {
				t.Errorf("eta = %v, want %v", got.ETA, tt.wantETA)
			}
			if got.Label != tt.wantLabel {
				t.Errorf("label = %q, want %q", got.Label, tt.wantLabel)
			}
		})
	}
}
