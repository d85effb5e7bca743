package www

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"fleetcore/dispatch"
	"fleetcore/missions"
)

func (h *Handlers) jsonOK(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func (h *Handlers) jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// statusFor maps domain errors onto HTTP codes: stale-state conflicts are
// 409, requests that can never succeed as given are 422.
func statusFor(err error) int {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return http.StatusNotFound
	case errors.Is(err, dispatch.ErrInvalidStateTransition),
		errors.Is(err, dispatch.ErrVehicleBusy),
		errors.Is(err, dispatch.ErrRFQNotPending),
		errors.Is(err, missions.ErrInvalidStateTransition),
		errors.Is(err, missions.ErrVehicleBusy),
		errors.Is(err, missions.ErrMissionClosed):
		return http.StatusConflict
	case errors.Is(err, dispatch.ErrCapacityExceeded),
		errors.Is(err, dispatch.ErrHazmatMismatch),
		errors.Is(err, dispatch.ErrInvalidWeightSequence),
		errors.Is(err, missions.ErrMissingProofOfDelivery),
		errors.Is(err, missions.ErrPreTripBlocked):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handlers) domainError(w http.ResponseWriter, err error) {
	h.jsonError(w, err.Error(), statusFor(err))
}
