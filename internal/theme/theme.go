// Package theme resolves, toggles and persists the dark/light preference.
package theme

import (
	"errors"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/i474232898/weather-dashboard/internal/store"
)

// Attribute values applied to the presentation layer and stored under
// store.KeyTheme.
const (
	Dark  = "dark"
	Light = "light"
)

// DetectEnvironment reports the terminal's color-scheme preference by
// querying its background color.
func DetectEnvironment() bool {
	return lipgloss.HasDarkBackground()
}

// Manager holds the theme preference.
type Manager struct {
	mu    sync.Mutex
	dark  bool
	apply func(attr string)

	store  store.Store
	logger zerolog.Logger
}

// NewManager resolves the initial preference: the persisted value, else the
// environment preference reported by detect (nil means no preference), else
// light. apply is called with the resolved attribute and after every toggle;
// it may be nil.
func NewManager(s store.Store, detect func() bool, apply func(attr string), logger zerolog.Logger) (*Manager, error) {
	m := &Manager{store: s, apply: apply, logger: logger}

	raw, err := s.Get(store.KeyTheme)
	switch {
	case err == nil:
		m.dark = string(raw) == Dark
	case errors.Is(err, store.ErrNotFound):
		m.dark = detect != nil && detect()
	default:
		return nil, err
	}

	m.logger.Debug().Str("theme", m.attribute()).Msg("theme resolved")
	m.applyLocked()
	return m, nil
}

// Dark reports whether the dark theme is active.
func (m *Manager) Dark() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dark
}

// Attribute returns "dark" or "light".
func (m *Manager) Attribute() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.attribute()
}

// SetApply replaces the hook that applies the attribute to the presentation
// layer and applies the current value through it.
func (m *Manager) SetApply(apply func(attr string)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.apply = apply
	m.applyLocked()
}

// Toggle flips the preference, applies and persists it.
func (m *Manager) Toggle() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.dark = !m.dark
	attr := m.attribute()
	m.applyLocked()
	if err := m.store.Set(store.KeyTheme, []byte(attr)); err != nil {
		m.logger.Error().Err(err).Msg("persist theme failed")
		return attr, err
	}
	return attr, nil
}

func (m *Manager) attribute() string {
	if m.dark {
		return Dark
	}
	return Light
}

func (m *Manager) applyLocked() {
	if m.apply != nil {
		m.apply(m.attribute())
	}
}
