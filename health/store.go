package health

import (
	"context"
	"fmt"
	"time"

	"github.com/sage-x-project/licguard/store"
)

// CheckStore checks connectivity to the license store.
func CheckStore(st store.Store) *StoreHealth {
	health := &StoreHealth{Connected: false, Status: StatusUnhealthy}

	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := st.Ping(ctx); err != nil {
		health.Error = fmt.Sprintf("ping failed: %v", err)
		return health
	}

	latency := time.Since(start)
	health.Latency = latency.String()
	health.Connected = true

	switch {
	case latency < 200*time.Millisecond:
		health.Status = StatusHealthy
	case latency < time.Second:
		health.Status = StatusDegraded
	default:
		health.Status = StatusUnhealthy
		health.Error = fmt.Sprintf("high latency: %v", latency)
	}

	return health
}
