package www

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"fleetcore/engine"
)

type sseFrame struct {
	event string
	data  string
}

// EventHub fans engine events out to connected SSE clients. Slow clients
// drop frames rather than stall the hub.
type EventHub struct {
	mu        sync.RWMutex
	nextID    int
	clients   map[int]chan sseFrame
	broadcast chan sseFrame
	stopChan  chan struct{}
}

func NewEventHub() *EventHub {
	return &EventHub{
		clients:   make(map[int]chan sseFrame),
		broadcast: make(chan sseFrame, 256),
		stopChan:  make(chan struct{}),
	}
}

func (h *EventHub) Start() {
	go h.run()
}

func (h *EventHub) Stop() {
	select {
	case h.stopChan <- struct{}{}:
	default:
	}
}

func (h *EventHub) run() {
	keepalive := time.NewTicker(30 * time.Second)
	defer keepalive.Stop()

	for {
		select {
		case <-h.stopChan:
			return
		case frame := <-h.broadcast:
			h.fanOut(frame)
		case <-keepalive.C:
			h.fanOut(sseFrame{event: "keepalive", data: "ping"})
		}
	}
}

func (h *EventHub) fanOut(frame sseFrame) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.clients {
		select {
		case ch <- frame:
		default:
		}
	}
}

// Broadcast queues a frame for every client. v marshals to the data line;
// strings pass through as-is.
func (h *EventHub) Broadcast(event string, v any) {
	data, ok := v.(string)
	if !ok {
		b, err := json.Marshal(v)
		if err != nil {
			log.Printf("sse: marshal %s: %v", event, err)
			return
		}
		data = string(b)
	}
	select {
	case h.broadcast <- sseFrame{event: event, data: data}:
	default:
	}
}

func (h *EventHub) addClient() (int, chan sseFrame) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextID++
	ch := make(chan sseFrame, 64)
	h.clients[h.nextID] = ch
	return h.nextID, ch
}

func (h *EventHub) removeClient(id int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ch, ok := h.clients[id]; ok {
		delete(h.clients, id)
		close(ch)
	}
}

func (h *EventHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// SetupEngineListeners subscribes the hub to the lifecycle events the
// control board renders live.
func (h *EventHub) SetupEngineListeners(eng *engine.Engine) {
	eng.Events.Subscribe(func(evt engine.Event) {
		switch ev := evt.(type) {
		case engine.RFQReceivedEvent:
			h.Broadcast("rfq-update", map[string]any{"action": "received", "rfq_id": ev.RFQID, "rfq_ref": ev.RFQRef, "client": ev.Client})
		case engine.TripCreatedEvent:
			h.Broadcast("trip-update", map[string]any{"action": "created", "trip_id": ev.TripID, "trip_ref": ev.TripRef, "reg_number": ev.RegNumber})
		case engine.TripStageAdvancedEvent:
			h.Broadcast("trip-update", map[string]any{"action": "stage", "trip_id": ev.TripID, "status": ev.Status})
		case engine.TripDispatchedEvent:
			h.Broadcast("trip-update", map[string]any{"action": "dispatched", "trip_id": ev.TripID, "ticket_no": ev.TicketNo})
		}
	}, engine.KindRFQReceived, engine.KindTripCreated, engine.KindTripStageAdvanced, engine.KindTripDispatched)

	eng.Events.Subscribe(func(evt engine.Event) {
		switch ev := evt.(type) {
		case engine.MissionStatusChangedEvent:
			h.Broadcast("mission-update", map[string]any{"action": "status", "mission_id": ev.MissionID, "status": ev.Status, "reg_number": ev.RegNumber})
		case engine.MissionClosedEvent:
			h.Broadcast("mission-update", map[string]any{"action": "closed", "mission_id": ev.MissionID, "reg_number": ev.RegNumber})
		case engine.IncidentLoggedEvent:
			h.Broadcast("incident-update", map[string]any{"incident_id": ev.IncidentID, "reg_number": ev.RegNumber, "category": ev.Category})
		}
	}, engine.KindMissionStatusChanged, engine.KindMissionClosed, engine.KindIncidentLogged)

	eng.Events.Subscribe(func(evt engine.Event) {
		ev := evt.(engine.VehiclePositionEvent)
		h.Broadcast("vehicle-position", map[string]any{"reg_number": ev.RegNumber, "lat": ev.Latitude, "lon": ev.Longitude, "speed": ev.Speed})
	}, engine.KindVehiclePosition)

	eng.Events.Subscribe(func(evt engine.Event) {
		ev := evt.(engine.ConnectionEvent)
		state := "disconnected"
		if ev.Connected {
			state = "connected"
		}
		h.Broadcast("system-status", map[string]string{ev.Source: state})
	}, engine.KindConnection)
}

// SSEHandler serves the event stream.
func (h *EventHub) SSEHandler(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	id, ch := h.addClient()
	defer h.removeClient(id)

	for {
		select {
		case <-r.Context().Done():
			return
		case frame := <-ch:
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", frame.event, frame.data); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
