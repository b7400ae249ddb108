package session

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sage-x-project/licguard/internal/logger"
	"github.com/sage-x-project/licguard/registry"
	"github.com/sage-x-project/licguard/sign"
	"github.com/sage-x-project/licguard/store"
	"github.com/sage-x-project/licguard/store/memory"
	"github.com/sage-x-project/licguard/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(kp *sign.Keypair, licenseKey string) *Client {
	return &Client{
		VerifyingKey:      kp.PublicKey(),
		LicenseKey:        licenseKey,
		HeartbeatInterval: 20 * time.Millisecond,
		ReplyTimeout:      500 * time.Millisecond,
	}
}

func runPairedServer(t *testing.T, st store.Store, reg *registry.Registry, ps *pairedStream) {
	t.Helper()
	srv := &Server{
		Store:       st,
		Registry:    reg,
		Log:         logger.NewDefaultLogger(),
		AuthTimeout: 500 * time.Millisecond,
		BeatTimeout: 500 * time.Millisecond,
	}
	go srv.Handle(context.Background(), ps.serverSide())
}

// TestClientAuthenticatesAndBeats exercises the full client FSM against
// a real server FSM over an in-process stream, and confirms the
// callback observes the expected license details.
func TestClientAuthenticatesAndBeats(t *testing.T) {
	st := memory.NewStore()
	reg := registry.New()
	_, lic, kp := seedAppAndLicense(t, st, time.Now().Add(time.Hour), false, nil)
	ps := newPairedStream()
	runPairedServer(t, st, reg, ps)

	var gotDetails LicenseDetails
	client := testClient(kp, lic.ID.String())
	client.OnAuthenticated = func(d LicenseDetails) { gotDetails = d }

	sessionErr := make(chan *SessionError, 1)
	go func() { sessionErr <- client.Connect(ps.clientSide()) }()

	time.Sleep(100 * time.Millisecond)
	assert.False(t, gotDetails.Expiry.IsZero())
	assert.JSONEq(t, `{"seats":5}`, string(gotDetails.ExtraData))

	ps.closeClient()
	select {
	case err := <-sessionErr:
		// Either a send/recv failure or a malformed reply is acceptable
		// here: once the stream is torn down mid-beat, which one
		// surfaces is a race between the client and server goroutines.
		require.NotNil(t, err)
	case <-time.After(time.Second):
		t.Fatal("client did not return after stream closed")
	}
}

// S4: a man-in-the-middle rewrites the nonce field on the auth reply
// without being able to recompute the signature. The client must
// reject it as an invalid signature rather than silently trusting the
// tampered nonce.
func TestClientRejectsTamperedNonce(t *testing.T) {
	st := memory.NewStore()
	reg := registry.New()
	_, lic, kp := seedAppAndLicense(t, st, time.Now().Add(time.Hour), false, nil)
	ps := newPairedStream()
	runPairedServer(t, st, reg, ps)

	mitm := &tamperingStream{inner: ps.clientSide()}
	client := testClient(kp, lic.ID.String())

	err := client.Connect(mitm)
	require.NotNil(t, err)
	assert.Equal(t, FailureInvalidSignature, err.Kind)
}

// TestClientRejectsExpiredLicense confirms a license error from the
// handshake surfaces as a FailureLicenseError carrying the wire code.
func TestClientRejectsExpiredLicense(t *testing.T) {
	st := memory.NewStore()
	reg := registry.New()
	_, lic, kp := seedAppAndLicense(t, st, time.Now().Add(-time.Hour), false, nil)
	ps := newPairedStream()
	runPairedServer(t, st, reg, ps)

	client := testClient(kp, lic.ID.String())
	err := client.Connect(ps.clientSide())
	require.NotNil(t, err)
	assert.Equal(t, FailureLicenseError, err.Kind)
	require.NotNil(t, err.License)
	assert.Equal(t, wire.LicenseErrorExpired, *err.License)
}

func TestClientRejectsUnknownKey(t *testing.T) {
	st := memory.NewStore()
	reg := registry.New()
	ps := newPairedStream()
	runPairedServer(t, st, reg, ps)

	kp, err := sign.GenerateKeypair()
	require.NoError(t, err)
	client := testClient(kp, uuid.New().String())
	sessErr := client.Connect(ps.clientSide())
	require.NotNil(t, sessErr)
	assert.Equal(t, FailureLicenseError, sessErr.Kind)
	assert.Equal(t, wire.LicenseErrorInvalidKey, *sessErr.License)
}

// tamperingStream wraps a ClientStream and rewrites the nonce on any
// received auth reply, simulating a man-in-the-middle that can modify
// wire bytes but not forge a signature.
type tamperingStream struct {
	inner ClientStream
}

func (t *tamperingStream) Send(m *wire.ClientMessage) error { return t.inner.Send(m) }

func (t *tamperingStream) Recv() (*wire.ServerMessage, error) {
	msg, err := t.inner.Recv()
	if err != nil {
		return msg, err
	}
	if msg.Auth != nil {
		msg.Auth.Nonce = msg.Auth.Nonce + 1
	}
	return msg, nil
}
