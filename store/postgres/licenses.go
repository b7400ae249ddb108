package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/sage-x-project/licguard/store"
)

// FindLicenseByID retrieves a license by its ID.
func (s *Store) FindLicenseByID(ctx context.Context, id uuid.UUID) (*store.License, error) {
	query := `
		SELECT id, app_id, holder, expiry, extra_data, max_connections, revoked
		FROM licenses
		WHERE id = $1
	`

	var lic store.License
	var extraData []byte
	var maxConn *int

	err := s.pool.QueryRow(ctx, query, id).Scan(
		&lic.ID,
		&lic.AppID,
		&lic.Holder,
		&lic.Expiry,
		&extraData,
		&maxConn,
		&lic.Revoked,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: find license %s: %w", id, err)
	}

	lic.ExtraData = extraData
	lic.MaxConnections = maxConn
	return &lic, nil
}

// FindAppByID retrieves an application by its ID, including its signing
// keypair.
func (s *Store) FindAppByID(ctx context.Context, id uuid.UUID) (*store.Application, error) {
	query := `
		SELECT id, name, public_key, private_key, data_schema
		FROM applications
		WHERE id = $1
	`

	var app store.Application
	var pub, priv, schema []byte

	err := s.pool.QueryRow(ctx, query, id).Scan(&app.ID, &app.Name, &pub, &priv, &schema)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: find application %s: %w", id, err)
	}
	if len(pub) != 32 || len(priv) != 32 {
		return nil, fmt.Errorf("postgres: application %s: malformed key material", id)
	}

	copy(app.PublicKey[:], pub)
	copy(app.PrivateKey[:], priv)
	app.DataSchema = schema
	return &app, nil
}
