package core

import (
	"sync"
	"time"

	"skydrift/pkg/geo"
)

// runLogCapacity bounds the transmission history shown to the client.
const runLogCapacity = 5

// RunEntry records one step of a report run, or its outcome.
type RunEntry struct {
	RunID      string         `json:"runId"`
	Coordinate geo.Coordinate `json:"coordinate"`
	Theme      string         `json:"theme"`
	Outcome    string         `json:"outcome"` // "ok", "progress", or a failure category
	Message    string         `json:"message"`
	FinishedAt time.Time      `json:"finishedAt"`
}

// RunLog keeps the most recent report attempts, newest first.
type RunLog struct {
	mu      sync.RWMutex
	entries []RunEntry
}

// NewRunLog creates an empty run log.
func NewRunLog() *RunLog {
	return &RunLog{}
}

// Add prepends an entry, evicting the oldest past capacity.
func (l *RunLog) Add(e RunEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append([]RunEntry{e}, l.entries...)
	if len(l.entries) > runLogCapacity {
		l.entries = l.entries[:runLogCapacity]
	}
}

// Entries returns a copy of the log, newest first.
func (l *RunLog) Entries() []RunEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]RunEntry, len(l.entries))
	copy(out, l.entries)
	return out
}
