package session

import (
	"time"

	"github.com/sage-x-project/licguard/registry"
	"github.com/sage-x-project/licguard/store"
	"github.com/sage-x-project/licguard/wire"
)

// Check evaluates a license snapshot on its own, with no registry
// involvement: Expired if now is strictly past expiry, Revoked if the
// license has been revoked, else ok (nil).
func Check(lic *store.License, now time.Time) *wire.LicenseError {
	if lic.Revoked {
		e := wire.LicenseErrorRevoked
		return &e
	}
	if now.After(lic.Expiry) {
		e := wire.LicenseErrorExpired
		return &e
	}
	return nil
}

// CheckAdmission performs Check, then — if the license caps concurrent
// connections — consults the registry for room under that cap. It does
// not itself call registry.Inc; that happens after any other fallible
// step has succeeded, to keep the registry critical section free of I/O.
func CheckAdmission(lic *store.License, now time.Time, reg *registry.Registry) *wire.LicenseError {
	if err := Check(lic, now); err != nil {
		return err
	}
	if !reg.CheckAdmission(lic.ID, lic.MaxConnections) {
		e := wire.LicenseErrorTooManySessions
		return &e
	}
	return nil
}
