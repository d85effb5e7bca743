package www

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"fleetcore/store"
)

func (h *Handlers) apiListRFQs(w http.ResponseWriter, r *http.Request) {
	if ref := r.URL.Query().Get("ref"); ref != "" {
		rfq, err := h.engine.DB().GetRFQByRef(ref)
		if err != nil {
			h.domainError(w, err)
			return
		}
		h.jsonOK(w, []*store.RFQ{rfq})
		return
	}
	rfqs, err := h.engine.DB().ListRFQs(store.RFQStatus(r.URL.Query().Get("status")))
	if err != nil {
		h.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.jsonOK(w, rfqs)
}

func (h *Handlers) apiGetRFQ(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.jsonError(w, "invalid id", http.StatusBadRequest)
		return
	}
	rfq, err := h.engine.DB().GetRFQ(id)
	if err != nil {
		h.domainError(w, err)
		return
	}
	h.jsonOK(w, rfq)
}

// apiCreateRFQ is the manual intake path for RFQs phoned or mailed in;
// the kafka topic is the usual route.
func (h *Handlers) apiCreateRFQ(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RFQRef         string  `json:"rfq_ref"`
		Client         string  `json:"client"`
		Commodity      string  `json:"commodity"`
		RequiresHazmat bool    `json:"requires_hazmat"`
		Tons           float64 `json:"tons"`
		Origin         string  `json:"origin"`
		Destination    string  `json:"destination"`
		Corridor       string  `json:"corridor"`
	}
	if err := decodeJSON(r, &req); err != nil {
		h.jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Client == "" || req.Tons <= 0 {
		h.jsonError(w, "client and a positive tonnage are required", http.StatusBadRequest)
		return
	}

	rfq := &store.RFQ{
		RFQRef:         req.RFQRef,
		Client:         req.Client,
		Commodity:      req.Commodity,
		RequiresHazmat: req.RequiresHazmat,
		Tons:           req.Tons,
		Origin:         req.Origin,
		Destination:    req.Destination,
		Corridor:       req.Corridor,
	}
	if err := h.engine.Orchestrator().IntakeRFQ(rfq); err != nil {
		h.domainError(w, err)
		return
	}
	h.jsonOK(w, rfq)
}

func (h *Handlers) apiEligibleVehicles(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.jsonError(w, "invalid id", http.StatusBadRequest)
		return
	}
	vehicles, err := h.engine.Orchestrator().ListEligibleVehicles(id)
	if err != nil {
		h.domainError(w, err)
		return
	}
	h.jsonOK(w, vehicles)
}

func (h *Handlers) apiListTrips(w http.ResponseWriter, r *http.Request) {
	if ref := r.URL.Query().Get("ref"); ref != "" {
		trip, err := h.engine.DB().GetTripByRef(ref)
		if err != nil {
			h.domainError(w, err)
			return
		}
		h.jsonOK(w, []*store.Trip{trip})
		return
	}
	trips, err := h.engine.DB().ListTrips(store.TripStatus(r.URL.Query().Get("status")))
	if err != nil {
		h.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.jsonOK(w, trips)
}

func (h *Handlers) apiGetTrip(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.jsonError(w, "invalid id", http.StatusBadRequest)
		return
	}
	trip, err := h.engine.DB().GetTrip(id)
	if err != nil {
		h.domainError(w, err)
		return
	}
	h.jsonOK(w, trip)
}

func (h *Handlers) apiTripHistory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.jsonError(w, "invalid id", http.StatusBadRequest)
		return
	}
	history, err := h.engine.DB().GetTripHistory(id)
	if err != nil {
		h.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.jsonOK(w, history)
}

func (h *Handlers) apiCreateTrip(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RFQID      int64   `json:"rfq_id"`
		RegNumber  string  `json:"reg_number"`
		Driver     string  `json:"driver"`
		QuotedRate float64 `json:"quoted_rate"`
	}
	if err := decodeJSON(r, &req); err != nil {
		h.jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.RFQID == 0 || req.RegNumber == "" || req.Driver == "" {
		h.jsonError(w, "rfq_id, reg_number and driver are required", http.StatusBadRequest)
		return
	}

	trip, mission, err := h.engine.Orchestrator().CreateTrip(req.RFQID, req.RegNumber, req.Driver, req.QuotedRate)
	if err != nil {
		h.domainError(w, err)
		return
	}
	h.jsonOK(w, map[string]any{"trip": trip, "mission": mission})
}

func (h *Handlers) apiTripTare(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.jsonError(w, "invalid id", http.StatusBadRequest)
		return
	}
	var req struct {
		TareWeight float64 `json:"tare_weight"`
	}
	if err := decodeJSON(r, &req); err != nil {
		h.jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	trip, err := h.engine.Orchestrator().ConfirmTare(id, req.TareWeight)
	if err != nil {
		h.domainError(w, err)
		return
	}
	h.jsonOK(w, trip)
}

func (h *Handlers) apiTripLoading(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.jsonError(w, "invalid id", http.StatusBadRequest)
		return
	}
	trip, err := h.engine.Orchestrator().CompleteLoading(id)
	if err != nil {
		h.domainError(w, err)
		return
	}
	h.jsonOK(w, trip)
}

func (h *Handlers) apiTripWeights(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.jsonError(w, "invalid id", http.StatusBadRequest)
		return
	}
	var req struct {
		GrossWeight float64 `json:"gross_weight"`
		TicketNo    string  `json:"ticket_no"`
	}
	if err := decodeJSON(r, &req); err != nil {
		h.jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	trip, err := h.engine.Orchestrator().FinalizeWeights(id, req.GrossWeight, req.TicketNo)
	if err != nil {
		h.domainError(w, err)
		return
	}
	h.jsonOK(w, trip)
}

func (h *Handlers) apiTripDispatch(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.jsonError(w, "invalid id", http.StatusBadRequest)
		return
	}
	trip, docs, err := h.engine.Orchestrator().CloseAndDispatch(id)
	if err != nil {
		h.domainError(w, err)
		return
	}
	h.jsonOK(w, map[string]any{"trip": trip, "documents": string(docs)})
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
