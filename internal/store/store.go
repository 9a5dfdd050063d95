package store

import (
	"errors"
	"fmt"
	"sync"

	json "github.com/goccy/go-json"

	"github.com/i474232898/weather-dashboard/internal/metrics"
)

// Keys under which the dashboard persists its aggregates. Each key holds one
// whole value and is written independently of the others.
const (
	KeyTheme           = "theme"
	KeyCurrentLocation = "currentLocation"
	KeyHistory         = "weatherSearchHistory"
	KeyEvents          = "weatherEvents"
)

var (
	// ErrNotFound is returned when no value is stored under a key.
	ErrNotFound = errors.New("no value stored for key")
)

// Store is a persistent key/value store. Writes overwrite the whole value of
// a key; the last writer wins.
type Store interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error
	// Subscribe registers fn to be called after every successful Set or
	// Delete of key, with the new value (nil after Delete). The returned
	// function cancels the subscription.
	Subscribe(key string, fn func(value []byte)) (cancel func())
}

// LoadJSON decodes the value stored under key into v. It reports false, with
// no error, when the key is absent.
func LoadJSON(s Store, key string, v any) (bool, error) {
	data, err := s.Get(key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// SaveJSON encodes v and stores it under key.
func SaveJSON(s Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.Set(key, data)
}

// notifier fans store changes out to subscribers. Callbacks run on the
// writer's goroutine after the write has completed and without any store
// lock held, so they may read the store.
type notifier struct {
	mu     sync.Mutex
	nextID int
	subs   map[string]map[int]func([]byte)
}

func (n *notifier) subscribe(key string, fn func([]byte)) func() {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.subs == nil {
		n.subs = make(map[string]map[int]func([]byte))
	}
	if n.subs[key] == nil {
		n.subs[key] = make(map[int]func([]byte))
	}
	id := n.nextID
	n.nextID++
	n.subs[key][id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			n.mu.Lock()
			defer n.mu.Unlock()
			delete(n.subs[key], id)
		})
	}
}

func (n *notifier) notify(key string, value []byte) {
	n.mu.Lock()
	fns := make([]func([]byte), 0, len(n.subs[key]))
	for _, fn := range n.subs[key] {
		fns = append(fns, fn)
	}
	n.mu.Unlock()

	for _, fn := range fns {
		var v []byte
		if value != nil {
			v = append([]byte(nil), value...)
		}
		fn(v)
	}
}

// instrumented counts writes of the wrapped store.
type instrumented struct {
	Store
	metrics *metrics.Metrics
}

// WithMetrics wraps s so that every Set and Delete is counted.
func WithMetrics(s Store, m *metrics.Metrics) Store {
	if m == nil {
		return s
	}
	return &instrumented{Store: s, metrics: m}
}

func (i *instrumented) Set(key string, value []byte) error {
	err := i.Store.Set(key, value)
	i.metrics.ObserveStoreWrite(key, err)
	return err
}

func (i *instrumented) Delete(key string) error {
	err := i.Store.Delete(key)
	i.metrics.ObserveStoreWrite(key, err)
	return err
}
