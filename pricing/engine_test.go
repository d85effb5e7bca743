package pricing

import (
	"reflect"
	"testing"
)

func testEngine() *Engine {
	return NewEngine(DefaultCatalog(), DefaultDieselPrice, DefaultBaseOpsPerKm)
}

func TestPriceN3PortCorridor(t *testing.T) {
	e := testEngine()
	// 570 km, Good road, Port congestion, Medium risk, Medium crime,
	// matching trailer, baseline payload.
	got := e.Price("N3: Durban Port -> JHB City Deep", 38, 28, &AssetProfile{TrailerType: "Interlink"})

	if got.DistanceKm != 570 {
		t.Errorf("distance = %v, want 570", got.DistanceKm)
	}
	// 570 x 1.00 road x 1.10 port congestion
	if got.EffectiveDistanceKm != 627 {
		t.Errorf("effective distance = %v, want 627", got.EffectiveDistanceKm)
	}
	// (627/100) x 38 l x 24.50
	if got.FuelCost != 5837.37 {
		t.Errorf("fuel = %v, want 5837.37", got.FuelCost)
	}
	if got.TollCost != 2850 {
		t.Errorf("tolls = %v, want 2850", got.TollCost)
	}
	// (5837.37 + 6840) x (0.08 + 0.03)
	if got.RiskLoading != 1394.51 {
		t.Errorf("risk loading = %v, want 1394.51", got.RiskLoading)
	}
	if got.PayloadFactor != 1.0 {
		t.Errorf("payload factor = %v, want 1.0", got.PayloadFactor)
	}
	if got.TrailerPenalty != 0 {
		t.Errorf("trailer penalty = %v, want 0", got.TrailerPenalty)
	}
	if got.TotalOpsCost != 14071.88 {
		t.Errorf("total ops = %v, want 14071.88", got.TotalOpsCost)
	}
	if got.SuggestedRate != 16182.66 {
		t.Errorf("suggested rate = %v, want 16182.66", got.SuggestedRate)
	}
}

func TestPriceDeterministic(t *testing.T) {
	e := testEngine()
	a := e.Price("N1: Cape Town -> JHB", 42, 30, &AssetProfile{TrailerType: "Interlink"})
	b := e.Price("N1: Cape Town -> JHB", 42, 30, &AssetProfile{TrailerType: "Interlink"})
	if !reflect.DeepEqual(a, b) {
		t.Errorf("repeated calls differ:\n%+v\n%+v", a, b)
	}
}

func TestPricePayloadSensitivity(t *testing.T) {
	e := testEngine()
	base := e.Price("N2: Richards Bay -> Durban", 38, 28, nil)
	heavy := e.Price("N2: Richards Bay -> Durban", 38, 34, nil)

	if heavy.PayloadFactor != 1.03 {
		t.Errorf("payload factor at 34t = %v, want 1.03", heavy.PayloadFactor)
	}
	if heavy.TotalOpsCost <= base.TotalOpsCost {
		t.Errorf("heavier load should cost more: %v vs %v", heavy.TotalOpsCost, base.TotalOpsCost)
	}

	// Below the 28t baseline the factor stays flat.
	light := e.Price("N2: Richards Bay -> Durban", 38, 10, nil)
	if light.PayloadFactor != 1.0 {
		t.Errorf("payload factor at 10t = %v, want 1.0", light.PayloadFactor)
	}
}

func TestPriceTrailerPenalty(t *testing.T) {
	e := testEngine()
	matched := e.Price("N1: Cape Town -> JHB", 38, 28, &AssetProfile{TrailerType: "Tautliner"})
	mismatched := e.Price("N1: Cape Town -> JHB", 38, 28, &AssetProfile{TrailerType: "Tipper"})

	if matched.TrailerPenalty != 0 {
		t.Errorf("matched penalty = %v, want 0", matched.TrailerPenalty)
	}
	if mismatched.TrailerPenalty != 0.03 {
		t.Errorf("mismatched penalty = %v, want 0.03", mismatched.TrailerPenalty)
	}
	if mismatched.SuggestedRate <= matched.SuggestedRate {
		t.Errorf("mismatch should price higher: %v vs %v", mismatched.SuggestedRate, matched.SuggestedRate)
	}

	// No asset profile means no penalty.
	none := e.Price("N1: Cape Town -> JHB", 38, 28, nil)
	if none.TrailerPenalty != 0 {
		t.Errorf("nil asset penalty = %v, want 0", none.TrailerPenalty)
	}
}

func TestPriceUnknownCorridor(t *testing.T) {
	e := testEngine()
	got := e.Price("R71: Nowhere -> Nowhere", 38, 28, nil)

	if got.DistanceKm != 0 || got.EffectiveDistanceKm != 0 {
		t.Errorf("unknown corridor should have zero distance: %+v", got)
	}
	if got.FuelCost != 0 || got.TotalOpsCost != 0 || got.SuggestedRate != 0 {
		t.Errorf("unknown corridor should cost nothing: %+v", got)
	}
	if got.Risk != "Unknown" {
		t.Errorf("risk = %q, want Unknown", got.Risk)
	}
}

func TestCatalogNames(t *testing.T) {
	c := DefaultCatalog()
	names := c.Names()
	if len(names) != 16 {
		t.Fatalf("catalog has %d corridors, want 16", len(names))
	}
	if _, ok := c.Get("N4: Maputo -> Witbank"); !ok {
		t.Error("expected N4 Maputo corridor in catalog")
	}
}
