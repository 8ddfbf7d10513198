package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/eventura/client-gateway/internal/core/domain"
	"github.com/eventura/client-gateway/internal/core/ports"
)

// sessionReader is the slice of the session store the interest engine
// needs: just the current auth state.
type sessionReader interface {
	State() domain.AuthState
}

var _ ports.InterestService = (*InterestService)(nil)

// InterestService maintains the interested-events collection. The local
// collection always reflects the intended post-mutation state first; the
// device store is written immediately as a guest backup and cache; the
// backend is only consulted when a session is active.
type InterestService struct {
	api     ports.InterestAPI
	store   ports.DeviceStore
	session sessionReader
	log     zerolog.Logger

	mu    sync.RWMutex
	items []domain.InterestedEvent
	index map[string]struct{}

	// keyLocks serializes mutations per event id so a rapid toggle cannot
	// leave the final state dependent on response arrival order.
	keyLocks keyedLocks

	// refreshMu guards the in-flight flag and the auth state observed by
	// the last completed refresh.
	refreshMu      sync.Mutex
	refreshing     bool
	lastFetchState domain.AuthState
}

func NewInterestService(api ports.InterestAPI, store ports.DeviceStore, session sessionReader, log zerolog.Logger) *InterestService {
	return &InterestService{
		api:     api,
		store:   store,
		session: session,
		log:     log,
		index:   make(map[string]struct{}),
	}
}

// IsInterested is an O(1) membership check against the in-memory set.
func (s *InterestService) IsInterested(eventID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.index[eventID]
	return ok
}

// List returns a copy of the current collection in insertion order.
func (s *InterestService) List() []domain.InterestedEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.InterestedEvent, len(s.items))
	copy(out, s.items)
	return out
}

// Add bookmarks an event. Adding an event already present is a no-op. The
// optimistic entry is visible locally (memory and device store) before any
// network call; when the remote toggle fails or reports the event as not
// interested, the entry is rolled back.
func (s *InterestService) Add(ctx context.Context, event domain.InterestedEvent) error {
	unlock := s.keyLocks.lock(event.EventID)
	defer unlock()

	s.mu.Lock()
	if _, ok := s.index[event.EventID]; ok {
		s.mu.Unlock()
		return nil
	}
	snapshot := s.snapshotLocked()
	s.items = append(s.items, event)
	s.index[event.EventID] = struct{}{}
	s.mu.Unlock()

	s.persist(ctx)

	if s.session.State() != domain.AuthAuthenticated {
		return nil
	}

	interested, err := s.api.Add(ctx, event.EventID)
	if err != nil {
		s.rollback(ctx, snapshot)
		s.log.Warn().Err(err).Str("event_id", event.EventID).Msg("add interest rolled back")
		return fmt.Errorf("add interest: %w", err)
	}
	if !interested {
		s.rollback(ctx, snapshot)
		s.log.Warn().Str("event_id", event.EventID).Msg("server reported not interested after add")
		return domain.ErrInterestConflict
	}
	return nil
}

// Remove is the mirror of Add: the record is captured before removal so a
// failed or disagreeing remote toggle can re-insert it.
func (s *InterestService) Remove(ctx context.Context, eventID string) error {
	unlock := s.keyLocks.lock(eventID)
	defer unlock()

	s.mu.Lock()
	if _, ok := s.index[eventID]; !ok {
		s.mu.Unlock()
		return nil
	}
	snapshot := s.snapshotLocked()
	s.removeLocked(eventID)
	s.mu.Unlock()

	s.persist(ctx)

	if s.session.State() != domain.AuthAuthenticated {
		return nil
	}

	interested, err := s.api.Remove(ctx, eventID)
	if err != nil {
		s.rollback(ctx, snapshot)
		s.log.Warn().Err(err).Str("event_id", eventID).Msg("remove interest rolled back")
		return fmt.Errorf("remove interest: %w", err)
	}
	if interested {
		s.rollback(ctx, snapshot)
		s.log.Warn().Str("event_id", eventID).Msg("server still reports interested after remove")
		return domain.ErrInterestConflict
	}
	return nil
}

// Refresh re-derives the whole collection from the source of truth: the
// device store for guests, the backend listing for an active session. The
// fetch is skipped unless the auth state changed since the last one or
// force is set; overlapping refreshes coalesce into the first.
func (s *InterestService) Refresh(ctx context.Context, force bool) error {
	state := s.session.State()

	s.refreshMu.Lock()
	if s.refreshing || (!force && state == s.lastFetchState) {
		s.refreshMu.Unlock()
		return nil
	}
	s.refreshing = true
	s.refreshMu.Unlock()

	defer func() {
		s.refreshMu.Lock()
		s.refreshing = false
		s.refreshMu.Unlock()
	}()

	if state != domain.AuthAuthenticated {
		s.replace(s.loadCache(ctx))
		s.markFetched(state)
		return nil
	}

	events, err := s.api.Mine(ctx)
	if err != nil {
		// Degrade to the cached list rather than clearing the UI.
		s.log.Warn().Err(err).Msg("interest refresh failed, serving cached list")
		s.replace(s.loadCache(ctx))
		return nil
	}

	items := make([]domain.InterestedEvent, 0, len(events))
	for _, ev := range events {
		items = append(items, ev.ToInterested())
	}
	s.replace(items)
	s.persist(ctx)
	s.markFetched(state)

	s.log.Debug().Int("count", len(items)).Msg("interest collection refreshed")
	return nil
}

func (s *InterestService) markFetched(state domain.AuthState) {
	s.refreshMu.Lock()
	s.lastFetchState = state
	s.refreshMu.Unlock()
}

// snapshotLocked captures the collection for a later rollback. Callers
// hold s.mu.
func (s *InterestService) snapshotLocked() []domain.InterestedEvent {
	snap := make([]domain.InterestedEvent, len(s.items))
	copy(snap, s.items)
	return snap
}

func (s *InterestService) removeLocked(eventID string) {
	delete(s.index, eventID)
	for i, item := range s.items {
		if item.EventID == eventID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return
		}
	}
}

// rollback restores the pre-mutation snapshot in memory and in the device
// store.
func (s *InterestService) rollback(ctx context.Context, snapshot []domain.InterestedEvent) {
	s.replace(snapshot)
	s.persist(ctx)
}

func (s *InterestService) replace(items []domain.InterestedEvent) {
	index := make(map[string]struct{}, len(items))
	for _, item := range items {
		index[item.EventID] = struct{}{}
	}
	s.mu.Lock()
	s.items = items
	s.index = index
	s.mu.Unlock()
}

// persist writes the full collection to the device store. Storage errors
// are non-fatal: the in-memory collection stays authoritative for this
// process.
func (s *InterestService) persist(ctx context.Context) {
	data, err := json.Marshal(s.List())
	if err != nil {
		s.log.Error().Err(err).Msg("failed to encode interest cache")
		return
	}
	if err := s.store.Set(ctx, ports.KeyInterests, string(data)); err != nil {
		s.log.Warn().Err(err).Msg("failed to persist interest cache")
	}
}

// loadCache reads the device-store backup. A corrupt payload resets to an
// empty collection instead of failing.
func (s *InterestService) loadCache(ctx context.Context) []domain.InterestedEvent {
	raw, ok, err := s.store.Get(ctx, ports.KeyInterests)
	if err != nil || !ok || raw == "" {
		return []domain.InterestedEvent{}
	}
	var items []domain.InterestedEvent
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		s.log.Warn().Err(err).Msg("corrupt interest cache, resetting")
		if delErr := s.store.Delete(ctx, ports.KeyInterests); delErr != nil {
			s.log.Warn().Err(delErr).Msg("failed to drop corrupt interest cache")
		}
		return []domain.InterestedEvent{}
	}
	return items
}
