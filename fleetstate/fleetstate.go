// Package fleetstate mirrors the live vehicle roster into redis so the
// operator surfaces can read fleet state without hitting SQL on every
// refresh. SQL stays the source of truth; redis is a disposable snapshot.
package fleetstate

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"fleetcore/config"
	"fleetcore/fleet"
	"fleetcore/store"
)

const (
	vehicleKeyPrefix = "fleetcore:vehicle:"
	vehicleSetKey    = "fleetcore:vehicles"
)

type Manager struct {
	db  *store.DB
	rdb *redis.Client
}

// New connects to redis. A nil return with error means the snapshot layer
// is unavailable; callers fall back to SQL reads.
func New(cfg *config.RedisConfig, db *store.DB) (*Manager, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &Manager{db: db, rdb: rdb}, nil
}

func (m *Manager) Close() {
	if m != nil && m.rdb != nil {
		m.rdb.Close()
	}
}

// SyncFromSQL rebuilds the whole snapshot from the registry. Run at boot
// and whenever drift is suspected.
func (m *Manager) SyncFromSQL(ctx context.Context) error {
	if m == nil {
		return nil
	}
	vehicles, err := m.db.ListVehicles()
	if err != nil {
		return fmt.Errorf("list vehicles: %w", err)
	}
	if err := m.rdb.Del(ctx, vehicleSetKey).Err(); err != nil {
		return err
	}
	for _, v := range vehicles {
		if err := m.writeVehicle(ctx, v); err != nil {
			return err
		}
	}
	log.Printf("fleetstate: synced %d vehicles to redis", len(vehicles))
	return nil
}

// RefreshVehicle re-mirrors one vehicle after a state change. Errors are
// returned for logging but never block the triggering operation.
func (m *Manager) RefreshVehicle(ctx context.Context, regNumber string) error {
	if m == nil {
		return nil
	}
	v, err := m.db.GetVehicle(regNumber)
	if err != nil {
		return fmt.Errorf("load vehicle %s: %w", regNumber, err)
	}
	return m.writeVehicle(ctx, v)
}

func (m *Manager) writeVehicle(ctx context.Context, v *store.Vehicle) error {
	driver := ""
	if v.DriverName != nil {
		driver = *v.DriverName
	}
	forecast := fleet.Forecast(v.Status)
	fields := map[string]any{
		"reg_number":   v.RegNumber,
		"trailer_type": v.TrailerType,
		"status":       string(v.Status),
		"driver":       driver,
		"location":     v.Location,
		"last_lat":     strconv.FormatFloat(v.LastLat, 'f', -1, 64),
		"last_lon":     strconv.FormatFloat(v.LastLon, 'f', -1, 64),
		"availability": forecast.Label,
	}
	key := vehicleKeyPrefix + v.RegNumber
	if err := m.rdb.HSet(ctx, key, fields).Err(); err != nil {
		return fmt.Errorf("hset %s: %w", key, err)
	}
	return m.rdb.SAdd(ctx, vehicleSetKey, v.RegNumber).Err()
}

// VehicleSnapshot is the redis view of one vehicle.
type VehicleSnapshot struct {
	RegNumber    string  `json:"reg_number"`
	TrailerType  string  `json:"trailer_type"`
	Status       string  `json:"status"`
	Driver       string  `json:"driver"`
	Location     string  `json:"location"`
	LastLat      float64 `json:"last_lat"`
	LastLon      float64 `json:"last_lon"`
	Availability string  `json:"availability"`
}

// Roster reads the whole snapshot.
func (m *Manager) Roster(ctx context.Context) ([]VehicleSnapshot, error) {
	if m == nil {
		return nil, fmt.Errorf("fleetstate unavailable")
	}
	regs, err := m.rdb.SMembers(ctx, vehicleSetKey).Result()
	if err != nil {
		return nil, err
	}
	out := make([]VehicleSnapshot, 0, len(regs))
	for _, reg := range regs {
		h, err := m.rdb.HGetAll(ctx, vehicleKeyPrefix+reg).Result()
		if err != nil {
			return nil, err
		}
		if len(h) == 0 {
			continue
		}
		lat, _ := strconv.ParseFloat(h["last_lat"], 64)
		lon, _ := strconv.ParseFloat(h["last_lon"], 64)
		out = append(out, VehicleSnapshot{
			RegNumber:    h["reg_number"],
			TrailerType:  h["trailer_type"],
			Status:       h["status"],
			Driver:       h["driver"],
			Location:     h["location"],
			LastLat:      lat,
			LastLon:      lon,
			Availability: h["availability"],
		})
	}
	return out, nil
}

// Remove drops a deactivated vehicle from the snapshot.
func (m *Manager) Remove(ctx context.Context, regNumber string) error {
	if m == nil {
		return nil
	}
	if err := m.rdb.Del(ctx, vehicleKeyPrefix+regNumber).Err(); err != nil {
		return err
	}
	return m.rdb.SRem(ctx, vehicleSetKey, regNumber).Err()
}
