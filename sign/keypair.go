package sign

import (
	"crypto/ed25519"
	"fmt"
)

// Keypair wraps an application's Ed25519 signing key, reconstructed from
// the 32-byte seed stored alongside the Application record.
type Keypair struct {
	private ed25519.PrivateKey
	public  ed25519.PublicKey
}

// NewKeypairFromSeed reconstructs a Keypair from a 32-byte Ed25519 seed.
func NewKeypairFromSeed(seed [ed25519.SeedSize]byte) *Keypair {
	priv := ed25519.NewKeyFromSeed(seed[:])
	pub := priv.Public().(ed25519.PublicKey)
	return &Keypair{private: priv, public: pub}
}

// GenerateKeypair creates a fresh random Keypair, for use by the keygen
// CLI and in tests.
func GenerateKeypair() (*Keypair, error) {
	pub, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		return nil, fmt.Errorf("sign: generate keypair: %w", err)
	}
	return &Keypair{private: priv, public: pub}, nil
}

// PublicKey returns the Ed25519 public key.
func (k *Keypair) PublicKey() ed25519.PublicKey { return k.public }

// Seed returns the 32-byte seed the private key was derived from, for
// persistence.
func (k *Keypair) Seed() [ed25519.SeedSize]byte {
	var out [ed25519.SeedSize]byte
	copy(out[:], k.private.Seed())
	return out
}

// Sign signs payload bound to nonce with this keypair's private key.
func (k *Keypair) Sign(payload wireMessage, nonce uint64) ([]byte, error) {
	return Sign(payload, nonce, k.private)
}

// Verify verifies a signature over payload bound to nonce against this
// keypair's public key.
func (k *Keypair) Verify(payload wireMessage, nonce uint64, signature []byte) bool {
	return Verify(payload, nonce, k.public, signature)
}
