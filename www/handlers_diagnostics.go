package www

import (
	"net/http"
	"strconv"
)

func (h *Handlers) apiHealthCheck(w http.ResponseWriter, r *http.Request) {
	messaging := false
	if mc := h.engine.MsgClient(); mc != nil {
		messaging = mc.IsConnected()
	}
	h.jsonOK(w, map[string]any{
		"status":     "ok",
		"database":   h.engine.DB().Driver(),
		"messaging":  messaging,
		"fleetstate": h.engine.FleetState() != nil,
		"sse_peers":  h.eventHub.ClientCount(),
	})
}

func (h *Handlers) apiListAudit(w http.ResponseWriter, r *http.Request) {
	limit := 200
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 {
			limit = n
		}
	}
	var entityID int64
	if id := r.URL.Query().Get("entity_id"); id != "" {
		entityID, _ = strconv.ParseInt(id, 10, 64)
	}
	entries, err := h.engine.DB().ListAudit(r.URL.Query().Get("entity_type"), entityID, limit)
	if err != nil {
		h.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.jsonOK(w, entries)
}

func (h *Handlers) apiReconfigureMessaging(w http.ResponseWriter, r *http.Request) {
	if h.engine.MsgClient() == nil {
		h.jsonError(w, "messaging not configured", http.StatusConflict)
		return
	}
	h.engine.ReconfigureMessaging()
	h.jsonOK(w, map[string]any{"connected": h.engine.MsgClient().IsConnected()})
}
