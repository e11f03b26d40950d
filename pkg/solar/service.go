package solar

import (
	"log/slog"
	"sync"
	"time"
)

// Service caches the current subsolar point. Refresh is driven externally
// (once at startup, then on the scheduler's 10 minute cadence) so the
// estimator itself stays a pure function of wall-clock time.
type Service struct {
	mu      sync.RWMutex
	current Position
	updated time.Time
}

// NewService creates a Service primed with the current position.
func NewService() *Service {
	s := &Service{}
	s.Refresh()
	return s
}

// Refresh recomputes the subsolar point from wall-clock time.
func (s *Service) Refresh() {
	pos := Subsolar(time.Now())

	s.mu.Lock()
	s.current = pos
	s.updated = time.Now()
	s.mu.Unlock()

	slog.Debug("Solar: Subsolar point updated", "lat", pos.Lat, "lon", pos.Lon)
}

// Current returns the most recently computed subsolar point.
func (s *Service) Current() Position {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}
