package common

import (
	"math"
	"strings"
	"sync"
	"time"
	"unicode"
	"unicode/utf8"
)

// HasAny returns true if s contains any of the substrings.
func HasAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// RoundHalfUp rounds x to the nearest integer, with halves rounded towards
// positive infinity (-2.5 becomes -2, 2.5 becomes 3).
func RoundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}

// CapitalizeFirst upper-cases the first letter of s and leaves the rest untouched.
func CapitalizeFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// IDSource hands out creation-time identifiers derived from the wall clock in
// milliseconds. Identifiers issued by one source are strictly increasing even
// when several are requested within the same millisecond.
type IDSource struct {
	mu   sync.Mutex
	now  func() time.Time
	last int64
}

// NewIDSource creates an IDSource reading time from now. A nil now uses time.Now.
func NewIDSource(now func() time.Time) *IDSource {
	if now == nil {
		now = time.Now
	}
	return &IDSource{now: now}
}

// Next returns the next identifier.
func (s *IDSource) Next() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.now().UnixMilli()
	if id <= s.last {
		id = s.last + 1
	}
	s.last = id
	return id
}
