package core

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"skydrift/pkg/geo"
)

// Drift latitudes stay clear of the poles, where the flat map view
// degenerates and the weather model has little to say.
const (
	driftLatRange = 80.0
	driftLonRange = 180.0
)

// RandomCoordinate picks a drift destination.
func RandomCoordinate() geo.Coordinate {
	return geo.Coordinate{
		Lat: rand.Float64()*2*driftLatRange - driftLatRange,
		Lon: rand.Float64()*2*driftLonRange - driftLonRange,
	}
}

// Drifter periodically submits a random coordinate while enabled.
type Drifter struct {
	pipeline *Pipeline
	interval time.Duration

	mu      sync.Mutex
	active  bool
	cancel  context.CancelFunc
	themeID string
}

// NewDrifter creates a stopped drifter.
func NewDrifter(p *Pipeline, interval time.Duration) *Drifter {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Drifter{
		pipeline: p,
		interval: interval,
	}
}

// Active reports whether auto-drift is running.
func (d *Drifter) Active() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.active
}

// SetTheme sets the theme used for drift reports.
func (d *Drifter) SetTheme(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.themeID = id
}

// Start begins drifting: one report immediately, then one per interval.
// Starting an active drifter is a no-op.
func (d *Drifter) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.active {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel
	d.active = true

	go d.loop(ctx)
	slog.Info("Drift: engaged", "interval", d.interval)
}

// Stop halts drifting. A report already generating finishes on its own.
func (d *Drifter) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.active {
		return
	}
	d.cancel()
	d.cancel = nil
	d.active = false
	slog.Info("Drift: disengaged")
}

// Toggle flips the drift state and returns the new value.
func (d *Drifter) Toggle() bool {
	if d.Active() {
		d.Stop()
		return false
	}
	d.Start()
	return true
}

func (d *Drifter) loop(ctx context.Context) {
	d.submit()

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.submit()
		}
	}
}

func (d *Drifter) submit() {
	d.mu.Lock()
	themeID := d.themeID
	d.mu.Unlock()

	coord := RandomCoordinate()
	if !d.pipeline.Submit(coord, themeID) {
		slog.Debug("Drift: pipeline busy, skipping tick", "coord", coord.String())
	}
}
