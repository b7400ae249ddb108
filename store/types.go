package store

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// License is an issued software license bound to a single Application.
type License struct {
	ID        uuid.UUID
	AppID     uuid.UUID
	Holder    string
	Expiry    time.Time
	ExtraData json.RawMessage

	// MaxConnections caps concurrent authenticated sessions for this
	// license. Nil means unlimited.
	MaxConnections *int

	Revoked bool
}

// Application owns the Ed25519 keypair the server signs responses with
// for all licenses issued under it.
type Application struct {
	ID         uuid.UUID
	Name       string
	PublicKey  [32]byte
	PrivateKey [32]byte // Ed25519 seed
	DataSchema json.RawMessage
}
