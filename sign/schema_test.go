package sign

import (
	"testing"
	"time"

	"github.com/sage-x-project/licguard/wire"
	"github.com/stretchr/testify/require"
)

func testResponse() *wire.Response {
	return &wire.Response{
		Expiry:    time.Date(2031, 6, 15, 0, 0, 0, 0, time.UTC),
		ExtraData: `{"seats":3}`,
	}
}

func TestSignVerifyRoundTrip(t *testing.T) {
	kp, err := GenerateKeypair()
	require.NoError(t, err)

	payload := testResponse()
	sig, err := kp.Sign(payload, 42)
	require.NoError(t, err)
	require.Len(t, sig, 64)

	require.True(t, kp.Verify(payload, 42, sig))
}

func TestVerifyRejectsWrongNonce(t *testing.T) {
	kp, err := GenerateKeypair()
	require.NoError(t, err)

	payload := testResponse()
	sig, err := kp.Sign(payload, 1)
	require.NoError(t, err)

	require.False(t, kp.Verify(payload, 2, sig))
}

func TestVerifyRejectsWrongPayload(t *testing.T) {
	kp, err := GenerateKeypair()
	require.NoError(t, err)

	sig, err := kp.Sign(testResponse(), 1)
	require.NoError(t, err)

	other := testResponse()
	other.ExtraData = `{"seats":99}`
	require.False(t, kp.Verify(other, 1, sig))
}

func TestVerifyRejectsWrongKey(t *testing.T) {
	kp1, err := GenerateKeypair()
	require.NoError(t, err)
	kp2, err := GenerateKeypair()
	require.NoError(t, err)

	payload := testResponse()
	sig, err := kp1.Sign(payload, 7)
	require.NoError(t, err)

	require.False(t, kp2.Verify(payload, 7, sig))
}

func TestVerifyRejectsMalformedSignatureLength(t *testing.T) {
	kp, err := GenerateKeypair()
	require.NoError(t, err)

	payload := testResponse()
	sig, err := kp.Sign(payload, 3)
	require.NoError(t, err)

	for _, bad := range [][]byte{
		nil,
		{},
		sig[:32],
		append(append([]byte{}, sig...), 0x00),
	} {
		require.False(t, kp.Verify(payload, 3, bad))
	}
}

func TestSeedRoundTrip(t *testing.T) {
	kp1, err := GenerateKeypair()
	require.NoError(t, err)

	kp2 := NewKeypairFromSeed(kp1.Seed())
	require.Equal(t, kp1.PublicKey(), kp2.PublicKey())

	payload := testResponse()
	sig, err := kp1.Sign(payload, 5)
	require.NoError(t, err)
	require.True(t, kp2.Verify(payload, 5, sig))
}
