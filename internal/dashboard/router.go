package dashboard

import (
	"fmt"
	"slices"
	"sync"
)

// View identifies one of the dashboard tabs.
type View string

const (
	ViewWeather   View = "weather"
	ViewLocations View = "locations"
	ViewHistory   View = "history"
	ViewCalendar  View = "calendar"
)

// Views lists the tabs in display order.
var Views = []View{ViewWeather, ViewLocations, ViewHistory, ViewCalendar}

// Title returns the tab label.
func (v View) Title() string {
	switch v {
	case ViewWeather:
		return "Weather"
	case ViewLocations:
		return "Locations"
	case ViewHistory:
		return "History"
	case ViewCalendar:
		return "Calendar"
	default:
		return string(v)
	}
}

// ParseView validates a view name.
func ParseView(name string) (View, error) {
	v := View(name)
	if !slices.Contains(Views, v) {
		return "", fmt.Errorf("unknown view %q", name)
	}
	return v, nil
}

// Router tracks which view is visible. It starts on the weather view and
// only changes on explicit selection.
type Router struct {
	mu     sync.RWMutex
	active View
}

// NewRouter creates a Router showing the weather view.
func NewRouter() *Router {
	return &Router{active: ViewWeather}
}

// Active returns the visible view.
func (r *Router) Active() View {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.active
}

// Select makes v the visible view.
func (r *Router) Select(v View) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.active = v
}

// Next selects the following tab, wrapping around.
func (r *Router) Next() View { return r.step(1) }

// Prev selects the preceding tab, wrapping around.
func (r *Router) Prev() View { return r.step(-1) }

func (r *Router) step(delta int) View {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := slices.Index(Views, r.active)
	n := len(Views)
	r.active = Views[((i+delta)%n+n)%n]
	return r.active
}
