// Package registry tracks the number of currently active sessions per
// license, process-wide and in memory. It is consulted by the
// permission evaluator's admission check and updated exactly once per
// session on handshake success and exactly once on session close.
package registry

import (
	"sync"

	"github.com/google/uuid"
	"github.com/sage-x-project/licguard/internal/metrics"
)

// Registry is a mutex-guarded map from license ID to active session
// count, plus a running total across all licenses. The zero value is
// not usable; use New.
type Registry struct {
	mu     sync.Mutex
	counts map[uuid.UUID]int
	total  int
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{counts: make(map[uuid.UUID]int)}
}

// Count returns the current active session count for id (0 if absent).
func (r *Registry) Count(id uuid.UUID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counts[id]
}

// Total returns the running count of active sessions across all
// licenses, for health and diagnostics reporting.
func (r *Registry) Total() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.total
}

// Inc inserts the entry if absent with value 1, else increments it.
func (r *Registry) Inc(id uuid.UUID) {
	r.mu.Lock()
	r.counts[id]++
	r.total++
	total := r.total
	r.mu.Unlock()

	metrics.RegistryActiveSessions.Set(float64(total))
}

// Dec decrements the entry while strictly positive; it never goes
// negative.
func (r *Registry) Dec(id uuid.UUID) {
	r.mu.Lock()
	evicted := false
	if r.counts[id] > 0 {
		r.counts[id]--
		r.total--
		evicted = true
	}
	total := r.total
	r.mu.Unlock()

	metrics.RegistryActiveSessions.Set(float64(total))
	if evicted {
		metrics.RegistryEvictionsTotal.Inc()
	}
}
