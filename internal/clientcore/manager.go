package clientcore

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/eventura/client-gateway/internal/core/ports"
	"github.com/eventura/client-gateway/internal/infrastructure/rest"
)

const (
	defaultIdleTTL      = 30 * time.Minute
	evictionSweepPeriod = 5 * time.Minute
)

// StoreFactory builds the device store for one device id.
type StoreFactory func(deviceID string) ports.DeviceStore

// Manager hands out one Core per device and evicts cores that have been
// idle past the TTL. Durable device state outlives eviction; a returning
// device gets a fresh core restored from its store.
type Manager struct {
	stores  StoreFactory
	restCfg rest.Config
	log     zerolog.Logger
	idleTTL time.Duration

	mu    sync.Mutex
	cores map[string]*coreEntry
}

type coreEntry struct {
	core     *Core
	lastSeen time.Time
}

func NewManager(stores StoreFactory, restCfg rest.Config, idleTTL time.Duration, log zerolog.Logger) *Manager {
	if idleTTL <= 0 {
		idleTTL = defaultIdleTTL
	}
	return &Manager{
		stores:  stores,
		restCfg: restCfg,
		log:     log,
		idleTTL: idleTTL,
		cores:   make(map[string]*coreEntry),
	}
}

// Acquire returns the core for deviceID, creating and starting it on
// first sight.
func (m *Manager) Acquire(ctx context.Context, deviceID string) *Core {
	m.mu.Lock()
	entry, ok := m.cores[deviceID]
	if ok {
		entry.lastSeen = time.Now()
		m.mu.Unlock()
		return entry.core
	}

	core := NewCore(deviceID, m.stores(deviceID), m.restCfg, m.log)
	m.cores[deviceID] = &coreEntry{core: core, lastSeen: time.Now()}
	m.mu.Unlock()

	core.Start(ctx)
	return core
}

// Run sweeps idle cores until ctx is cancelled.
func (m *Manager) Run(ctx context.Context) {
	ticker := time.NewTicker(evictionSweepPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.evictIdle(time.Now())
		}
	}
}

func (m *Manager) evictIdle(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, entry := range m.cores {
		if now.Sub(entry.lastSeen) > m.idleTTL {
			delete(m.cores, id)
			m.log.Debug().Str("device_id", id).Msg("idle client core evicted")
		}
	}
}

// Size reports the number of live cores (used by the readiness probe).
func (m *Manager) Size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.cores)
}
