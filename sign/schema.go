// Package sign implements the nonce-bound signature codec: canonical
// payload encoding, concatenated with a little-endian nonce, signed and
// verified with Ed25519.
package sign

import (
	"crypto/ed25519"
	"encoding/binary"
)

// wireMessage is any of the wire package's message types with a
// deterministic Marshal method. Declared locally (instead of imported)
// to keep this package free of a dependency on wire's message set; any
// type satisfying it — Response, ServerHeartbeatData, or a caller's own
// message — can be signed.
type wireMessage interface {
	Marshal() ([]byte, error)
}

// Encode produces the canonical signed bytes for payload bound to nonce:
// the payload's canonical protobuf encoding followed by the nonce as 8
// bytes little-endian. The nonce is deliberately not a protobuf field of
// payload, so a replayed message with a stale nonce cannot be re-signed
// without the private key.
func Encode(payload wireMessage, nonce uint64) ([]byte, error) {
	data, err := payload.Marshal()
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(data)+8)
	copy(out, data)
	binary.LittleEndian.PutUint64(out[len(data):], nonce)
	return out, nil
}

// Sign signs payload bound to nonce with privateKey. Ed25519 signing is
// deterministic, so no randomness is introduced here.
func Sign(payload wireMessage, nonce uint64, privateKey ed25519.PrivateKey) ([]byte, error) {
	data, err := Encode(payload, nonce)
	if err != nil {
		return nil, err
	}
	return ed25519.Sign(privateKey, data), nil
}

// Verify reports whether signature is a valid, strict Ed25519 signature
// over payload bound to nonce under publicKey. A signature that is not
// exactly ed25519.SignatureSize bytes fails silently rather than
// panicking or erroring.
func Verify(payload wireMessage, nonce uint64, publicKey ed25519.PublicKey, signature []byte) bool {
	if len(signature) != ed25519.SignatureSize {
		return false
	}
	data, err := Encode(payload, nonce)
	if err != nil {
		return false
	}
	return ed25519.Verify(publicKey, data, signature)
}
