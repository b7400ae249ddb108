package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sage-x-project/licguard/store"
	"github.com/stretchr/testify/require"
)

func TestFindLicenseByID(t *testing.T) {
	s := NewStore()
	id := uuid.New()
	s.PutLicense(store.License{ID: id, Holder: "acme", Expiry: time.Now().Add(time.Hour)})

	lic, err := s.FindLicenseByID(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, "acme", lic.Holder)

	_, err = s.FindLicenseByID(context.Background(), uuid.New())
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestFindAppByID(t *testing.T) {
	s := NewStore()
	id := uuid.New()
	s.PutApp(store.Application{ID: id, Name: "console"})

	app, err := s.FindAppByID(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, "console", app.Name)

	_, err = s.FindAppByID(context.Background(), uuid.New())
	require.ErrorIs(t, err, store.ErrNotFound)
}
