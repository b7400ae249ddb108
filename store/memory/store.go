package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/sage-x-project/licguard/store"
)

// Store is an in-memory store.Store, used by tests.
type Store struct {
	mu       sync.RWMutex
	licenses map[uuid.UUID]store.License
	apps     map[uuid.UUID]store.Application
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		licenses: make(map[uuid.UUID]store.License),
		apps:     make(map[uuid.UUID]store.Application),
	}
}

var _ store.Store = (*Store)(nil)

// PutLicense inserts or replaces a license.
func (s *Store) PutLicense(lic store.License) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.licenses[lic.ID] = lic
}

// PutApp inserts or replaces an application.
func (s *Store) PutApp(app store.Application) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apps[app.ID] = app
}

// FindLicenseByID retrieves a license by its ID.
func (s *Store) FindLicenseByID(ctx context.Context, id uuid.UUID) (*store.License, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lic, ok := s.licenses[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &lic, nil
}

// FindAppByID retrieves an application by its ID.
func (s *Store) FindAppByID(ctx context.Context, id uuid.UUID) (*store.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	app, ok := s.apps[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &app, nil
}

// Close is a no-op for the in-memory store.
func (s *Store) Close() error { return nil }

// Ping always succeeds for the in-memory store.
func (s *Store) Ping(ctx context.Context) error { return nil }
