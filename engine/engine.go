// Package engine wires the depot together: it owns the event bus, builds
// the dispatch orchestrator and mission manager with their emitter
// adapters, and keeps background concerns (audit, redis refresh,
// connection health) subscribed to the bus.
package engine

import (
	"log"
	"sync"
	"time"

	"fleetcore/config"
	"fleetcore/dispatch"
	"fleetcore/docpack"
	"fleetcore/fleetstate"
	"fleetcore/messaging"
	"fleetcore/missions"
	"fleetcore/pricing"
	"fleetcore/store"
	"fleetcore/telematics"
)

type LogFunc func(format string, args ...any)

type Config struct {
	AppConfig  *config.Config
	ConfigPath string
	DB         *store.DB
	FleetState *fleetstate.Manager
	MsgClient  *messaging.Client
	Telematics *telematics.Subscriber
	Pricing    *pricing.Engine
	LogFunc    LogFunc
}

type Engine struct {
	cfg          *config.Config
	configPath   string
	db           *store.DB
	fleetState   *fleetstate.Manager
	msgClient    *messaging.Client
	telematics   *telematics.Subscriber
	pricing      *pricing.Engine
	orchestrator *dispatch.Orchestrator
	missions     *missions.Manager
	Events       *Bus
	logFn        LogFunc
	stopOnce     sync.Once
	stopChan     chan struct{}
	msgConnected bool
	gpsConnected bool
}

func New(c Config) *Engine {
	logFn := c.LogFunc
	if logFn == nil {
		logFn = log.Printf
	}
	return &Engine{
		cfg:        c.AppConfig,
		configPath: c.ConfigPath,
		db:         c.DB,
		fleetState: c.FleetState,
		msgClient:  c.MsgClient,
		telematics: c.Telematics,
		pricing:    c.Pricing,
		Events:     NewBus(),
		logFn:      logFn,
		stopChan:   make(chan struct{}),
	}
}

func (e *Engine) Start() {
	de := &dispatchEmitter{bus: e.Events}
	me := &missionEmitter{bus: e.Events}
	te := &telematicsEmitter{bus: e.Events}

	docs := docpack.NewTextBuilder("")
	e.orchestrator = dispatch.NewOrchestrator(e.db, docs, e.cfg.Messaging.FinanceTopic)
	e.orchestrator.SetEmitter(de)

	e.missions = missions.NewManager(e.db)
	e.missions.SetEmitter(me)

	if e.telematics != nil {
		e.telematics.SetEmitter(te)
	}

	e.wireEventHandlers()
	e.checkConnectionStatus()
	go e.connectionHealthLoop()
	go e.gpsRetentionLoop()

	e.logFn("engine: started")
}

func (e *Engine) Stop() {
	e.stopOnce.Do(func() { close(e.stopChan) })
	e.logFn("engine: stopped")
}

// Accessors
func (e *Engine) DB() *store.DB                        { return e.db }
func (e *Engine) AppConfig() *config.Config            { return e.cfg }
func (e *Engine) ConfigPath() string                   { return e.configPath }
func (e *Engine) Orchestrator() *dispatch.Orchestrator { return e.orchestrator }
func (e *Engine) Missions() *missions.Manager          { return e.missions }
func (e *Engine) FleetState() *fleetstate.Manager      { return e.fleetState }
func (e *Engine) MsgClient() *messaging.Client         { return e.msgClient }
func (e *Engine) Pricing() *pricing.Engine             { return e.pricing }

func (e *Engine) checkConnectionStatus() {
	if e.msgClient != nil {
		if e.msgClient.IsConnected() {
			if !e.msgConnected {
				e.msgConnected = true
				e.Events.Publish(ConnectionEvent{Source: "messaging", Connected: true})
			}
		} else if e.msgConnected {
			e.msgConnected = false
			e.Events.Publish(ConnectionEvent{Source: "messaging", Connected: false})
		}
	}

	if e.telematics != nil {
		if e.telematics.IsConnected() {
			if !e.gpsConnected {
				e.gpsConnected = true
				e.Events.Publish(ConnectionEvent{Source: "telematics", Connected: true})
			}
		} else if e.gpsConnected {
			e.gpsConnected = false
			e.Events.Publish(ConnectionEvent{Source: "telematics", Connected: false})
		}
	}
}

func (e *Engine) connectionHealthLoop() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-e.stopChan:
			return
		case <-ticker.C:
			e.checkConnectionStatus()
		}
	}
}

// gpsRetentionLoop trims the gps trail so the ping table stays bounded.
// Redis holds the live position; old rows only serve trip replay.
func (e *Engine) gpsRetentionLoop() {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-e.stopChan:
			return
		case <-ticker.C:
			n, err := e.db.PruneGPSPings(72 * time.Hour)
			if err != nil {
				e.logFn("engine: gps prune: %v", err)
			} else if n > 0 {
				e.logFn("engine: pruned %d gps pings", n)
			}
		}
	}
}

// ReconfigureMessaging reconnects messaging with current config.
func (e *Engine) ReconfigureMessaging() {
	if err := e.msgClient.Reconfigure(&e.cfg.Messaging); err != nil {
		e.logFn("engine: messaging reconfigure error: %v", err)
	} else {
		e.logFn("engine: messaging reconfigured")
	}
	e.checkConnectionStatus()
}
