package www

import (
	"net/http"

	"fleetcore/pricing"
)

func (h *Handlers) apiListCorridors(w http.ResponseWriter, r *http.Request) {
	catalog := h.engine.Pricing().Catalog()
	names := catalog.Names()
	out := make([]pricing.Corridor, 0, len(names))
	for _, name := range names {
		c, _ := catalog.Get(name)
		out = append(out, c)
	}
	h.jsonOK(w, out)
}

// apiPriceQuote costs a lane. When reg_number is given the vehicle's fuel
// rating and trailer type are used; otherwise the caller supplies an
// efficiency and the trailer match is skipped.
func (h *Handlers) apiPriceQuote(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Corridor   string  `json:"corridor"`
		Tons       float64 `json:"tons"`
		Efficiency float64 `json:"efficiency"`
		RegNumber  string  `json:"reg_number"`
	}
	if err := decodeJSON(r, &req); err != nil {
		h.jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Corridor == "" || req.Tons <= 0 {
		h.jsonError(w, "corridor and a positive tonnage are required", http.StatusBadRequest)
		return
	}

	efficiency := req.Efficiency
	var asset *pricing.AssetProfile
	if req.RegNumber != "" {
		v, err := h.engine.DB().GetVehicle(req.RegNumber)
		if err != nil {
			h.domainError(w, err)
			return
		}
		efficiency = v.FuelRating
		asset = &pricing.AssetProfile{TrailerType: v.TrailerType}
	}

	h.jsonOK(w, h.engine.Pricing().Price(req.Corridor, efficiency, req.Tons, asset))
}
