// Package telematics ingests GPS pings from the in-cab tracker units over
// MQTT and keeps the fleet registry's last-known positions current.
package telematics

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"fleetcore/config"
	"fleetcore/store"
)

// Ping is the tracker wire format. The vehicle registration rides in the
// topic (fleet/gps/<reg>), not the payload.
type Ping struct {
	Latitude      float64 `json:"lat"`
	Longitude     float64 `json:"lon"`
	Speed         float64 `json:"speed"`
	Heading       float64 `json:"heading"`
	Ignition      bool    `json:"ignition"`
	SignalQuality float64 `json:"signal_quality"`
	Location      string  `json:"location,omitempty"`
	Source        string  `json:"source,omitempty"`
}

// Emitter receives position updates after they persist.
type Emitter interface {
	VehiclePosition(ping *store.GPSPing)
}

type noopEmitter struct{}

func (noopEmitter) VehiclePosition(*store.GPSPing) {}

type Subscriber struct {
	mu      sync.Mutex
	cfg     *config.TelematicsConfig
	db      *store.DB
	conn    mqtt.Client
	emitter Emitter
}

func NewSubscriber(cfg *config.TelematicsConfig, db *store.DB) *Subscriber {
	return &Subscriber{cfg: cfg, db: db, emitter: noopEmitter{}}
}

func (s *Subscriber) SetEmitter(e Emitter) {
	if e != nil {
		s.emitter = e
	}
}

// Connect dials the broker and subscribes to the tracker topic tree.
// Auto-reconnect keeps the feed alive across broker restarts.
func (s *Subscriber) Connect() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	broker := fmt.Sprintf("tcp://%s:%d", s.cfg.Broker, s.cfg.Port)
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(s.cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second)

	client := mqtt.NewClient(opts)
	token := client.Connect()
	token.Wait()
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt connect: %w", err)
	}
	s.conn = client

	sub := client.Subscribe(s.cfg.Topic, 1, func(_ mqtt.Client, msg mqtt.Message) {
		s.handle(msg.Topic(), msg.Payload())
	})
	sub.Wait()
	if err := sub.Error(); err != nil {
		return fmt.Errorf("mqtt subscribe %s: %w", s.cfg.Topic, err)
	}
	log.Printf("telematics: subscribed to %s on %s", s.cfg.Topic, broker)
	return nil
}

func (s *Subscriber) IsConnected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn != nil && s.conn.IsConnected()
}

func (s *Subscriber) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn != nil {
		s.conn.Disconnect(1000)
		s.conn = nil
	}
}

func (s *Subscriber) handle(topic string, payload []byte) {
	reg := RegFromTopic(topic)
	if reg == "" {
		log.Printf("telematics: drop ping on odd topic %s", topic)
		return
	}
	ping, location, err := DecodePing(reg, payload)
	if err != nil {
		log.Printf("telematics: drop ping for %s: %v", reg, err)
		return
	}
	if err := s.db.InsertGPSPing(ping); err != nil {
		log.Printf("telematics: store ping for %s: %v", reg, err)
		return
	}
	if err := s.db.UpdateVehiclePosition(reg, ping.Latitude, ping.Longitude, location); err != nil {
		log.Printf("telematics: update position for %s: %v", reg, err)
	}
	s.emitter.VehiclePosition(ping)
}

// RegFromTopic extracts the vehicle registration from a tracker topic,
// e.g. fleet/gps/ND%20100-001 -> ND 100-001.
func RegFromTopic(topic string) string {
	i := strings.LastIndexByte(topic, '/')
	if i < 0 || i == len(topic)-1 {
		return ""
	}
	return strings.ReplaceAll(topic[i+1:], "%20", " ")
}

// DecodePing parses a tracker payload into a storable ping plus the
// optional human-readable location string.
func DecodePing(reg string, payload []byte) (*store.GPSPing, string, error) {
	var p Ping
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, "", fmt.Errorf("decode ping: %w", err)
	}
	if p.Latitude == 0 && p.Longitude == 0 {
		return nil, "", fmt.Errorf("ping without coordinates")
	}
	source := p.Source
	if source == "" {
		source = "tracker"
	}
	return &store.GPSPing{
		RegNumber:     reg,
		Latitude:      p.Latitude,
		Longitude:     p.Longitude,
		Speed:         p.Speed,
		Heading:       p.Heading,
		Ignition:      p.Ignition,
		SignalQuality: p.SignalQuality,
		Source:        source,
	}, p.Location, nil
}
