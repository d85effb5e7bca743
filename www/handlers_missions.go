package www

import (
	"net/http"
	"strconv"

	"fleetcore/missions"
	"fleetcore/store"
)

func (h *Handlers) apiListMissions(w http.ResponseWriter, r *http.Request) {
	list, err := h.engine.DB().ListMissions(store.MissionStatus(r.URL.Query().Get("status")))
	if err != nil {
		h.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.jsonOK(w, list)
}

func (h *Handlers) apiGetMission(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.jsonError(w, "invalid id", http.StatusBadRequest)
		return
	}
	m, err := h.engine.DB().GetMission(id)
	if err != nil {
		h.domainError(w, err)
		return
	}
	h.jsonOK(w, m)
}

func (h *Handlers) apiMissionHistory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.jsonError(w, "invalid id", http.StatusBadRequest)
		return
	}
	history, err := h.engine.DB().GetMissionHistory(id)
	if err != nil {
		h.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.jsonOK(w, history)
}

func (h *Handlers) apiMissionEnRoute(w http.ResponseWriter, r *http.Request) {
	h.missionMove(w, r, h.engine.Missions().MarkEnRoute)
}

func (h *Handlers) apiMissionAtSite(w http.ResponseWriter, r *http.Request) {
	h.missionMove(w, r, h.engine.Missions().MarkAtSite)
}

func (h *Handlers) missionMove(w http.ResponseWriter, r *http.Request, move func(int64, string) (*store.Mission, error)) {
	id, err := pathID(r)
	if err != nil {
		h.jsonError(w, "invalid id", http.StatusBadRequest)
		return
	}
	var req struct {
		Location string `json:"location"`
	}
	if err := decodeJSON(r, &req); err != nil {
		h.jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	m, err := move(id, req.Location)
	if err != nil {
		h.domainError(w, err)
		return
	}
	h.jsonOK(w, m)
}

func (h *Handlers) apiMissionClose(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.jsonError(w, "invalid id", http.StatusBadRequest)
		return
	}
	var req struct {
		PODRef       string `json:"pod_ref"`
		PODSignatory string `json:"pod_signatory"`
	}
	if err := decodeJSON(r, &req); err != nil {
		h.jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	m, err := h.engine.Missions().CloseMission(id, req.PODRef, req.PODSignatory)
	if err != nil {
		h.domainError(w, err)
		return
	}
	h.jsonOK(w, m)
}

func (h *Handlers) apiMissionHandover(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.jsonError(w, "invalid id", http.StatusBadRequest)
		return
	}
	var req struct {
		Driver string `json:"driver"`
	}
	if err := decodeJSON(r, &req); err != nil {
		h.jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Driver == "" {
		h.jsonError(w, "driver is required", http.StatusBadRequest)
		return
	}
	m, err := h.engine.Missions().HandoverDriver(id, req.Driver)
	if err != nil {
		h.domainError(w, err)
		return
	}
	h.jsonOK(w, m)
}

func (h *Handlers) apiStartAdHocMission(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Driver    string                   `json:"driver"`
		RegNumber string                   `json:"reg_number"`
		Name      string                   `json:"name"`
		Checklist []missions.ChecklistItem `json:"checklist"`
	}
	if err := decodeJSON(r, &req); err != nil {
		h.jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Driver == "" || req.RegNumber == "" {
		h.jsonError(w, "driver and reg_number are required", http.StatusBadRequest)
		return
	}
	m, err := h.engine.Missions().StartAdHocMission(req.Driver, req.RegNumber, req.Name, req.Checklist)
	if err != nil {
		h.domainError(w, err)
		return
	}
	h.jsonOK(w, m)
}

func (h *Handlers) apiChecklistTemplate(w http.ResponseWriter, r *http.Request) {
	h.jsonOK(w, missions.DefaultChecklist())
}

func (h *Handlers) apiListIncidents(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 {
			limit = n
		}
	}
	list, err := h.engine.DB().ListIncidents(r.URL.Query().Get("reg"), limit)
	if err != nil {
		h.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.jsonOK(w, list)
}

func (h *Handlers) apiLogIncident(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Driver    string `json:"driver"`
		RegNumber string `json:"reg_number"`
		Kind      string `json:"kind"`
		Details   string `json:"details"`
	}
	if err := decodeJSON(r, &req); err != nil {
		h.jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.RegNumber == "" || req.Kind == "" {
		h.jsonError(w, "reg_number and kind are required", http.StatusBadRequest)
		return
	}
	inc, err := h.engine.Missions().LogIncident(req.Driver, req.RegNumber, req.Kind, req.Details)
	if err != nil {
		h.domainError(w, err)
		return
	}
	h.jsonOK(w, inc)
}
