package pricing

import (
	"math"
	"strings"
)

const (
	// DefaultDieselPrice is the national blended wholesale estimate per litre.
	DefaultDieselPrice = 24.50
	// DefaultBaseOpsPerKm covers tyres, maintenance, driver and admin per km.
	DefaultBaseOpsPerKm = 12.0

	marginFactor      = 1.15
	congestionFactor  = 1.10
	trailerPenalty    = 0.03
	payloadBaseline   = 28.0
	payloadPerTonStep = 0.005
)

var riskFactors = map[string]float64{
	"Low":    0.04,
	"Medium": 0.08,
	"High":   0.12,
}

var roadQualityFactors = map[string]float64{
	"Good": 1.00,
	"Fair": 1.05,
	"Poor": 1.12,
}

var crimeFactors = map[string]float64{
	"Low":    0.00,
	"Medium": 0.03,
	"High":   0.06,
}

// AssetProfile carries the vehicle attributes that affect lane pricing.
type AssetProfile struct {
	TrailerType string `json:"trailer_type"`
}

// PriceBreakdown is the itemised result of a lane costing. All monetary
// values are rounded to cents.
type PriceBreakdown struct {
	Corridor            string  `json:"corridor"`
	DistanceKm          float64 `json:"distance_km"`
	EffectiveDistanceKm float64 `json:"effective_distance_km"`
	FuelCost            float64 `json:"fuel_cost"`
	TollCost            float64 `json:"toll_cost"`
	RiskLoading         float64 `json:"risk_loading"`
	PayloadFactor       float64 `json:"payload_factor"`
	TrailerPenalty      float64 `json:"trailer_penalty"`
	TotalOpsCost        float64 `json:"total_ops_cost"`
	SuggestedRate       float64 `json:"suggested_rate"`
	Risk                string  `json:"risk"`
	Road                string  `json:"road"`
	Crime               string  `json:"crime"`
	CorridorType        string  `json:"corridor_type"`
}

// Engine prices lanes against a corridor catalog. Pure: no I/O, no clock,
// identical inputs give identical outputs.
type Engine struct {
	catalog      *Catalog
	dieselPrice  float64
	baseOpsPerKm float64
}

func NewEngine(catalog *Catalog, dieselPrice, baseOpsPerKm float64) *Engine {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	if dieselPrice <= 0 {
		dieselPrice = DefaultDieselPrice
	}
	if baseOpsPerKm <= 0 {
		baseOpsPerKm = DefaultBaseOpsPerKm
	}
	return &Engine{catalog: catalog, dieselPrice: dieselPrice, baseOpsPerKm: baseOpsPerKm}
}

func (e *Engine) Catalog() *Catalog { return e.catalog }

// Price costs a consignment of the given tonnage over a corridor for a
// vehicle burning efficiencyLPer100Km litres per 100 km.
func (e *Engine) Price(corridorName string, efficiencyLPer100Km, tons float64, asset *AssetProfile) PriceBreakdown {
	c, _ := e.catalog.Get(corridorName)

	roadFactor, ok := roadQualityFactors[c.Road]
	if !ok {
		roadFactor = 1.00
	}
	congestion := 1.00
	if c.CorridorType == "Port" || c.CorridorType == "Border" {
		congestion = congestionFactor
	}
	effectiveDistance := c.DistanceKm * roadFactor * congestion

	litersUsed := (effectiveDistance / 100) * efficiencyLPer100Km
	fuelCost := litersUsed * e.dieselPrice

	opsCost := e.baseOpsPerKm * c.DistanceKm

	// Risk labels may carry a qualifier after the level word.
	riskKey := c.Risk
	if i := strings.IndexByte(riskKey, ' '); i > 0 {
		riskKey = riskKey[:i]
	}
	riskFactor, ok := riskFactors[riskKey]
	if !ok {
		riskFactor = 0.06
	}
	crimeFactor := crimeFactors[c.Crime]

	riskLoading := (fuelCost + opsCost) * (riskFactor + crimeFactor)

	payloadFactor := 1.0 + payloadPerTonStep*math.Max(0, tons-payloadBaseline)

	penalty := 0.0
	if asset != nil && c.PreferredTrailer != "" && asset.TrailerType != "" && asset.TrailerType != c.PreferredTrailer {
		penalty = trailerPenalty
	}

	totalOpsCost := (fuelCost + opsCost + riskLoading) * payloadFactor * (1 + penalty)
	suggestedRate := totalOpsCost * marginFactor

	return PriceBreakdown{
		Corridor:            c.Name,
		DistanceKm:          c.DistanceKm,
		EffectiveDistanceKm: round2(effectiveDistance),
		FuelCost:            round2(fuelCost),
		TollCost:            round2(c.Tolls),
		RiskLoading:         round2(riskLoading),
		PayloadFactor:       round3(payloadFactor),
		TrailerPenalty:      penalty,
		TotalOpsCost:        round2(totalOpsCost),
		SuggestedRate:       round2(suggestedRate),
		Risk:                c.Risk,
		Road:                c.Road,
		Crime:               c.Crime,
		CorridorType:        c.CorridorType,
	}
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
