package www

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"

	"fleetcore/engine"
)

type Handlers struct {
	engine   *engine.Engine
	sessions *sessions.CookieStore
	eventHub *EventHub
}

func NewRouter(eng *engine.Engine) (http.Handler, func()) {
	hub := NewEventHub()
	hub.Start()
	hub.SetupEngineListeners(eng)

	h := &Handlers{
		engine:   eng,
		sessions: newSessionStore(eng.AppConfig().Web.SessionSecret),
		eventHub: hub,
	}

	h.ensureDefaultAdmin(eng.DB())

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	// SSE
	r.Get("/events", hub.SSEHandler)

	// Session
	r.Post("/login", h.handleLogin)
	r.Get("/logout", h.handleLogout)

	// API routes (no auth required for read)
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.apiHealthCheck)
		r.Get("/vehicles", h.apiListVehicles)
		r.Get("/vehicles/{reg}", h.apiGetVehicle)
		r.Get("/vehicles/{reg}/pings", h.apiVehiclePings)
		r.Get("/vehicles/{reg}/availability", h.apiVehicleAvailability)
		r.Get("/vehicles/{reg}/workload", h.apiVehicleWorkload)
		r.Get("/rfqs", h.apiListRFQs)
		r.Get("/rfqs/{id}", h.apiGetRFQ)
		r.Get("/rfqs/{id}/eligible", h.apiEligibleVehicles)
		r.Get("/trips", h.apiListTrips)
		r.Get("/trips/{id}", h.apiGetTrip)
		r.Get("/trips/{id}/history", h.apiTripHistory)
		r.Get("/missions", h.apiListMissions)
		r.Get("/missions/{id}", h.apiGetMission)
		r.Get("/missions/{id}/history", h.apiMissionHistory)
		r.Get("/incidents", h.apiListIncidents)
		r.Get("/corridors", h.apiListCorridors)
		r.Get("/checklist", h.apiChecklistTemplate)
		r.Get("/audit", h.apiListAudit)
	})

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(h.requireAuth)
		r.Post("/api/vehicles", h.apiCreateVehicle)
		r.Post("/api/vehicles/{reg}/update", h.apiUpdateVehicle)
		r.Post("/api/vehicles/{reg}/deactivate", h.apiDeactivateVehicle)
		r.Post("/api/rfqs", h.apiCreateRFQ)
		r.Post("/api/trips", h.apiCreateTrip)
		r.Post("/api/trips/{id}/tare", h.apiTripTare)
		r.Post("/api/trips/{id}/loading", h.apiTripLoading)
		r.Post("/api/trips/{id}/weights", h.apiTripWeights)
		r.Post("/api/trips/{id}/dispatch", h.apiTripDispatch)
		r.Post("/api/missions/{id}/enroute", h.apiMissionEnRoute)
		r.Post("/api/missions/{id}/atsite", h.apiMissionAtSite)
		r.Post("/api/missions/{id}/close", h.apiMissionClose)
		r.Post("/api/missions/{id}/handover", h.apiMissionHandover)
		r.Post("/api/missions/adhoc", h.apiStartAdHocMission)
		r.Post("/api/incidents", h.apiLogIncident)
		r.Post("/api/pricing/quote", h.apiPriceQuote)
		r.Post("/api/messaging/reconfigure", h.apiReconfigureMessaging)
	})

	stopFn := func() {
		hub.Stop()
	}

	return r, stopFn
}
