package health

import (
	"time"

	"github.com/sage-x-project/licguard/registry"
	"github.com/sage-x-project/licguard/store"
)

// Checker performs health checks against the store and registry.
type Checker struct {
	store    store.Store
	registry *registry.Registry
}

// NewChecker creates a new health checker.
func NewChecker(st store.Store, reg *registry.Registry) *Checker {
	return &Checker{store: st, registry: reg}
}

// CheckAll performs all health checks.
func (c *Checker) CheckAll() *HealthStatus {
	status := &HealthStatus{
		Timestamp: time.Now(),
		Status:    StatusHealthy,
		Errors:    make([]string, 0),
	}

	status.StoreStatus = CheckStore(c.store)
	if status.StoreStatus.Status != StatusHealthy {
		status.Status = status.StoreStatus.Status
		if status.StoreStatus.Error != "" {
			status.Errors = append(status.Errors, "store: "+status.StoreStatus.Error)
		}
	}

	status.SessionStatus = &SessionHealth{
		Status:         StatusHealthy,
		ActiveSessions: c.registry.Total(),
	}

	status.SystemStatus = CheckSystem()
	if status.SystemStatus.Status != StatusHealthy {
		if status.Status == StatusHealthy {
			status.Status = status.SystemStatus.Status
		} else if status.SystemStatus.Status == StatusUnhealthy {
			status.Status = StatusUnhealthy
		}
		if status.SystemStatus.Error != "" {
			status.Errors = append(status.Errors, "system: "+status.SystemStatus.Error)
		}
	}

	return status
}
