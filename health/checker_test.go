package health

import (
	"testing"

	"github.com/google/uuid"
	"github.com/sage-x-project/licguard/registry"
	"github.com/sage-x-project/licguard/store/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckAllHealthyWhenStoreAndSystemOK(t *testing.T) {
	st := memory.NewStore()
	reg := registry.New()
	checker := NewChecker(st, reg)

	status := checker.CheckAll()
	require.NotNil(t, status.StoreStatus)
	assert.True(t, status.StoreStatus.Connected)
	assert.Equal(t, StatusHealthy, status.StoreStatus.Status)
	require.NotNil(t, status.SessionStatus)
	assert.Equal(t, 0, status.SessionStatus.ActiveSessions)
}

func TestCheckAllReportsActiveSessions(t *testing.T) {
	st := memory.NewStore()
	reg := registry.New()
	checker := NewChecker(st, reg)

	id := uuid.New()
	reg.Inc(id)
	defer reg.Dec(id)

	status := checker.CheckAll()
	assert.Equal(t, 1, status.SessionStatus.ActiveSessions)
}
