package www

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"fleetcore/fleet"
	"fleetcore/store"
)

// apiListVehicles serves the roster from the redis snapshot when it is
// available and falls back to SQL otherwise.
func (h *Handlers) apiListVehicles(w http.ResponseWriter, r *http.Request) {
	if fs := h.engine.FleetState(); fs != nil && r.URL.Query().Get("source") != "sql" {
		if roster, err := fs.Roster(r.Context()); err == nil {
			h.jsonOK(w, roster)
			return
		}
	}

	var (
		vehicles []*store.Vehicle
		err      error
	)
	if status := r.URL.Query().Get("status"); status != "" {
		vehicles, err = h.engine.DB().ListVehiclesByStatus(store.VehicleStatus(status))
	} else {
		vehicles, err = h.engine.DB().ListVehicles()
	}
	if err != nil {
		h.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.jsonOK(w, vehicles)
}

func (h *Handlers) apiGetVehicle(w http.ResponseWriter, r *http.Request) {
	v, err := h.engine.DB().GetVehicle(chi.URLParam(r, "reg"))
	if err != nil {
		h.domainError(w, err)
		return
	}
	h.jsonOK(w, v)
}

func (h *Handlers) apiVehiclePings(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 {
			limit = n
		}
	}
	pings, err := h.engine.DB().RecentGPSPings(chi.URLParam(r, "reg"), limit)
	if err != nil {
		h.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.jsonOK(w, pings)
}

func (h *Handlers) apiVehicleAvailability(w http.ResponseWriter, r *http.Request) {
	v, err := h.engine.DB().GetVehicle(chi.URLParam(r, "reg"))
	if err != nil {
		h.domainError(w, err)
		return
	}
	fc := fleet.Forecast(v.Status)
	resp := map[string]any{
		"reg_number":   v.RegNumber,
		"status":       v.Status,
		"known":        fc.Known,
		"availability": fc.Label,
	}
	if fc.Known {
		resp["available_at"] = fc.ETA
	}
	h.jsonOK(w, resp)
}

// apiVehicleWorkload lists the open trips and missions holding a vehicle,
// so the planner can see why it is not Idle.
func (h *Handlers) apiVehicleWorkload(w http.ResponseWriter, r *http.Request) {
	reg := chi.URLParam(r, "reg")
	trips, err := h.engine.DB().ListOpenTripsForVehicle(reg)
	if err != nil {
		h.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	missions, err := h.engine.DB().ListOpenMissionsForVehicle(reg)
	if err != nil {
		h.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.jsonOK(w, map[string]any{"trips": trips, "missions": missions})
}

func (h *Handlers) apiCreateVehicle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RegNumber       string  `json:"reg_number"`
		TrailerType     string  `json:"trailer_type"`
		MakeModel       string  `json:"make_model"`
		FuelRating      float64 `json:"fuel_rating"`
		MaxTons         float64 `json:"max_tons"`
		HazmatCertified bool    `json:"hazmat_certified"`
		Location        string  `json:"location"`
	}
	if err := decodeJSON(r, &req); err != nil {
		h.jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.RegNumber == "" {
		h.jsonError(w, "reg_number is required", http.StatusBadRequest)
		return
	}

	v := &store.Vehicle{
		RegNumber:       req.RegNumber,
		TrailerType:     req.TrailerType,
		MakeModel:       req.MakeModel,
		FuelRating:      req.FuelRating,
		MaxTons:         req.MaxTons,
		HazmatCertified: req.HazmatCertified,
		Status:          store.VehicleIdle,
		Location:        req.Location,
		Active:          true,
	}
	if err := h.engine.DB().CreateVehicle(v); err != nil {
		h.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.refreshSnapshot(r, v.RegNumber)
	h.jsonOK(w, v)
}

func (h *Handlers) apiUpdateVehicle(w http.ResponseWriter, r *http.Request) {
	reg := chi.URLParam(r, "reg")
	v, err := h.engine.DB().GetVehicle(reg)
	if err != nil {
		h.domainError(w, err)
		return
	}

	var req struct {
		TrailerType     *string  `json:"trailer_type"`
		MakeModel       *string  `json:"make_model"`
		FuelRating      *float64 `json:"fuel_rating"`
		MaxTons         *float64 `json:"max_tons"`
		HazmatCertified *bool    `json:"hazmat_certified"`
		Location        *string  `json:"location"`
	}
	if err := decodeJSON(r, &req); err != nil {
		h.jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.TrailerType != nil {
		v.TrailerType = *req.TrailerType
	}
	if req.MakeModel != nil {
		v.MakeModel = *req.MakeModel
	}
	if req.FuelRating != nil {
		v.FuelRating = *req.FuelRating
	}
	if req.MaxTons != nil {
		v.MaxTons = *req.MaxTons
	}
	if req.HazmatCertified != nil {
		v.HazmatCertified = *req.HazmatCertified
	}
	if req.Location != nil {
		v.Location = *req.Location
	}

	if err := h.engine.DB().UpdateVehicle(v); err != nil {
		h.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.refreshSnapshot(r, reg)
	h.jsonOK(w, v)
}

func (h *Handlers) apiDeactivateVehicle(w http.ResponseWriter, r *http.Request) {
	reg := chi.URLParam(r, "reg")
	if err := h.engine.DB().DeactivateVehicle(reg); err != nil {
		h.domainError(w, err)
		return
	}
	if fs := h.engine.FleetState(); fs != nil {
		fs.Remove(r.Context(), reg)
	}
	h.jsonOK(w, map[string]string{"status": "deactivated"})
}

func (h *Handlers) refreshSnapshot(r *http.Request, reg string) {
	if fs := h.engine.FleetState(); fs != nil {
		fs.RefreshVehicle(r.Context(), reg)
	}
}
