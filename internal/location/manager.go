// Package location owns the "current location" and the search history.
//
// Both are independent persisted aggregates: the current location lives
// under store.KeyCurrentLocation and the history under store.KeyHistory.
// Every mutation writes the affected aggregate through to the store; there
// is no atomicity across the two keys.
package location

import (
	"fmt"
	"slices"
	"sync"

	"github.com/rs/zerolog"

	"github.com/i474232898/weather-dashboard/internal/store"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

// DefaultPosition is the map position used when no current location is set.
var DefaultPosition = weather.Coordinates{51.505, -0.09}

// MapZoom is the zoom level of the location map.
const MapZoom = 13

// MapLink returns an OpenStreetMap link centered on pos.
func MapLink(pos weather.Coordinates) string {
	return fmt.Sprintf("https://www.openstreetmap.org/?mlat=%g&mlon=%g#map=%d/%g/%g",
		pos.Lat(), pos.Lon(), MapZoom, pos.Lat(), pos.Lon())
}

// Manager holds the current location and the newest-first search history.
type Manager struct {
	mu      sync.RWMutex
	current *weather.Reading
	history []weather.Reading

	store  store.Store
	limit  int // 0 = unbounded
	logger zerolog.Logger
}

// NewManager creates an empty Manager backed by s. limit caps the history
// length, dropping the oldest entries; zero keeps every search.
func NewManager(s store.Store, limit int, logger zerolog.Logger) *Manager {
	return &Manager{
		store:  s,
		limit:  limit,
		logger: logger,
	}
}

// Hydrate replaces the in-memory state with what the store holds.
func (m *Manager) Hydrate() error {
	var current weather.Reading
	hasCurrent, err := store.LoadJSON(m.store, store.KeyCurrentLocation, &current)
	if err != nil {
		return fmt.Errorf("hydrate current location: %w", err)
	}
	var history []weather.Reading
	if _, err := store.LoadJSON(m.store, store.KeyHistory, &history); err != nil {
		return fmt.Errorf("hydrate history: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = nil
	if hasCurrent {
		m.current = &current
	}
	m.history = nil
	if len(history) > 0 {
		m.history = history
	}
	m.logger.Debug().Bool("current", hasCurrent).Int("history", len(history)).Msg("location state hydrated")
	return nil
}

// RecordSearchResult makes r the current location and prepends it to the
// history. Repeated searches for the same place produce separate entries.
func (m *Manager) RecordSearchResult(r weather.Reading) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.current = &r
	history := make([]weather.Reading, 0, len(m.history)+1)
	history = append(history, r)
	history = append(history, m.history...)
	if m.limit > 0 && len(history) > m.limit {
		history = history[:m.limit]
	}
	m.history = history

	if err := m.persistCurrentLocked(); err != nil {
		return err
	}
	return m.persistHistoryLocked()
}

// DeleteHistoryEntry removes the entry with the given id. The current
// location is not affected, even when it is the deleted entry.
func (m *Manager) DeleteHistoryEntry(id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := slices.IndexFunc(m.history, func(r weather.Reading) bool { return r.ID == id })
	if idx < 0 {
		return nil
	}
	m.history = slices.Delete(slices.Clone(m.history), idx, idx+1)
	return m.persistHistoryLocked()
}

// ClearHistory empties the history. The current location is not affected.
func (m *Manager) ClearHistory() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.history = nil
	return m.persistHistoryLocked()
}

// SelectFromHistory makes a copy of the history entry with the given id the
// current location. It reports false when no entry has that id.
func (m *Manager) SelectFromHistory(id int64) (weather.Reading, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := slices.IndexFunc(m.history, func(r weather.Reading) bool { return r.ID == id })
	if idx < 0 {
		return weather.Reading{}, false, nil
	}
	selected := m.history[idx]
	m.current = &selected
	return selected, true, m.persistCurrentLocked()
}

// Current returns the current location, if any.
func (m *Manager) Current() (weather.Reading, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return weather.Reading{}, false
	}
	return *m.current, true
}

// History returns a copy of the history, newest first.
func (m *Manager) History() []weather.Reading {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.history)
}

// MapPosition returns where the map marker belongs.
func (m *Manager) MapPosition() weather.Coordinates {
	if r, ok := m.Current(); ok {
		return r.Coordinates
	}
	return DefaultPosition
}

func (m *Manager) persistCurrentLocked() error {
	if m.current == nil {
		return nil
	}
	if err := store.SaveJSON(m.store, store.KeyCurrentLocation, m.current); err != nil {
		m.logger.Error().Err(err).Msg("persist current location failed")
		return err
	}
	return nil
}

func (m *Manager) persistHistoryLocked() error {
	history := m.history
	if history == nil {
		history = []weather.Reading{}
	}
	if err := store.SaveJSON(m.store, store.KeyHistory, history); err != nil {
		m.logger.Error().Err(err).Msg("persist history failed")
		return err
	}
	return nil
}
