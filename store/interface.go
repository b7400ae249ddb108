package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a License or Application lookup misses.
var ErrNotFound = errors.New("store: not found")

// Store is the persistence boundary the license authority is built
// against: lookup of licenses by ID and the application that issued
// them. Both the postgres and memory implementations satisfy this.
type Store interface {
	FindLicenseByID(ctx context.Context, id uuid.UUID) (*License, error)
	FindAppByID(ctx context.Context, id uuid.UUID) (*Application, error)

	Close() error
	Ping(ctx context.Context) error
}
