package engine

import "sync"

// Kind discriminates bus traffic. Every payload type reports its own Kind
// so a filtered handler can assert the concrete type without a second
// lookup.
type Kind int

const (
	KindRFQReceived Kind = iota + 1
	KindTripCreated
	KindTripStageAdvanced
	KindTripDispatched
	KindMissionStatusChanged
	KindMissionClosed
	KindVehiclePosition
	KindIncidentLogged
	KindConnection
)

// Event is implemented by every payload published on the bus.
type Event interface {
	Kind() Kind
}

type Handler func(Event)

type subscription struct {
	fn    Handler
	kinds map[Kind]struct{} // nil subscribes to everything
}

// Bus fans events out to subscribers synchronously, in subscription
// order. Publishers fire after their transaction commits, so a slow
// handler delays notification, never the commit.
type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]subscription
	order  []int
}

func NewBus() *Bus {
	return &Bus{subs: make(map[int]subscription)}
}

// Subscribe registers a handler. With no kinds listed it receives every
// event; otherwise only the listed kinds. Returns the subscription id.
func (b *Bus) Subscribe(fn Handler, kinds ...Kind) int {
	var filter map[Kind]struct{}
	if len(kinds) > 0 {
		filter = make(map[Kind]struct{}, len(kinds))
		for _, k := range kinds {
			filter[k] = struct{}{}
		}
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	b.subs[b.nextID] = subscription{fn: fn, kinds: filter}
	b.order = append(b.order, b.nextID)
	return b.nextID
}

func (b *Bus) Unsubscribe(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.subs, id)
	for i, sid := range b.order {
		if sid == id {
			b.order = append(b.order[:i], b.order[i+1:]...)
			return
		}
	}
}

// Publish delivers evt to every matching subscriber on the caller's
// goroutine. The subscriber set is snapshotted first so a handler may
// subscribe or unsubscribe without deadlocking.
func (b *Bus) Publish(evt Event) {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.order))
	for _, id := range b.order {
		s := b.subs[id]
		if s.kinds != nil {
			if _, ok := s.kinds[evt.Kind()]; !ok {
				continue
			}
		}
		handlers = append(handlers, s.fn)
	}
	b.mu.RUnlock()

	for _, fn := range handlers {
		fn(evt)
	}
}
