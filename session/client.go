package session

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sage-x-project/licguard/sign"
	"github.com/sage-x-project/licguard/wire"
)

// ClientStream is the minimal bidirectional message exchange a session
// needs from a grpc.BidiStreamingClient[wire.ClientMessage, wire.ServerMessage].
type ClientStream interface {
	Send(*wire.ClientMessage) error
	Recv() (*wire.ServerMessage, error)
}

// DataVerifier is a predicate over a license's JSON extra-data. A
// trivial always-true variant is AlwaysValid.
type DataVerifier func(json.RawMessage) bool

// AlwaysValid is the trivial DataVerifier: every payload passes.
func AlwaysValid(json.RawMessage) bool { return true }

// LicenseDetails is what the client surfaces to its GUI collaborator
// after a successful handshake.
type LicenseDetails struct {
	Expiry    time.Time
	ExtraData json.RawMessage
}

// Client runs one Heartbeat session on the license-holder side.
type Client struct {
	VerifyingKey ed25519.PublicKey
	LicenseKey   string
	DataVerifier DataVerifier

	// OnAuthenticated is called once with the verified license details
	// after a successful handshake, before entering the heartbeat loop.
	OnAuthenticated func(LicenseDetails)

	// HeartbeatNonce overrides nonce generation for tests; defaults to
	// crypto/rand.
	HeartbeatNonce func() (uint64, error)

	// HeartbeatInterval overrides the inter-heartbeat delay for tests;
	// defaults to wire.PingPeriod.
	HeartbeatInterval time.Duration

	// ReplyTimeout overrides the deadline for both the auth and
	// heartbeat replies for tests; defaults to wire.HandshakeTimeout.
	ReplyTimeout time.Duration
}

func (c *Client) heartbeatInterval() time.Duration {
	if c.HeartbeatInterval > 0 {
		return c.HeartbeatInterval
	}
	return wire.PingPeriod
}

func (c *Client) replyTimeout() time.Duration {
	if c.ReplyTimeout > 0 {
		return c.ReplyTimeout
	}
	return wire.HandshakeTimeout
}

func (c *Client) nonce() (uint64, error) {
	if c.HeartbeatNonce != nil {
		return c.HeartbeatNonce()
	}
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

// Connect runs the Authenticating handshake and then the Beating loop
// over stream until the session terminates; it takes no context of its
// own and returns once a Send or Recv on stream fails (for example
// because the stream's context was canceled). It is one-shot: the
// caller owns stream creation and teardown.
func (c *Client) Connect(stream ClientStream) *SessionError {
	authNonce, err := c.nonce()
	if err != nil {
		return &SessionError{Kind: FailureTransport, Err: err}
	}

	if err := stream.Send(&wire.ClientMessage{Auth: &wire.InfoRequest{
		Req:   &wire.InfoRequestPayload{KeyID: c.LicenseKey},
		Nonce: authNonce,
	}}); err != nil {
		return &SessionError{Kind: FailureTransport, Err: err}
	}

	reply, err := recvClientWithTimeout(stream, c.replyTimeout())
	if err != nil || reply == nil || reply.Auth == nil {
		return &SessionError{Kind: FailureInvalidResponse, Err: err}
	}

	if reply.Auth.Error != nil {
		return licenseErr(wire.NormalizeLicenseError(int32(*reply.Auth.Error)))
	}
	if reply.Auth.Ok == nil {
		return &SessionError{Kind: FailureInvalidResponse}
	}

	// The reply must echo authNonce and its signature must cover it: a
	// reply whose nonce field was rewritten, or a replayed reply carrying
	// a stale nonce, is rejected as an invalid signature.
	if reply.Auth.Nonce != authNonce {
		return &SessionError{Kind: FailureInvalidSignature}
	}
	if !sign.Verify(reply.Auth.Ok, authNonce, c.VerifyingKey, reply.Auth.Signature) {
		return &SessionError{Kind: FailureInvalidSignature}
	}

	extra := json.RawMessage(reply.Auth.Ok.ExtraData)
	if !json.Valid(extra) {
		return &SessionError{Kind: FailureDataVerification, Err: fmt.Errorf("session: extra_data is not valid JSON")}
	}
	verify := c.DataVerifier
	if verify == nil {
		verify = AlwaysValid
	}
	if !verify(extra) {
		return &SessionError{Kind: FailureDataVerification}
	}

	if c.OnAuthenticated != nil {
		c.OnAuthenticated(LicenseDetails{Expiry: reply.Auth.Ok.Expiry, ExtraData: extra})
	}

	return c.beat(stream)
}

func (c *Client) beat(stream ClientStream) *SessionError {
	for {
		time.Sleep(c.heartbeatInterval())

		n, err := c.nonce()
		if err != nil {
			return &SessionError{Kind: FailureTransport, Err: err}
		}

		if err := stream.Send(&wire.ClientMessage{Heartbeat: &wire.ClientHeartbeat{Nonce: n}}); err != nil {
			return &SessionError{Kind: FailureTransport, Err: err}
		}

		reply, err := recvClientWithTimeout(stream, c.replyTimeout())
		if err != nil || reply == nil || reply.Heartbeat == nil || reply.Heartbeat.Data == nil {
			return &SessionError{Kind: FailureInvalidResponse, Err: err}
		}
		if reply.Heartbeat.Nonce != n {
			return &SessionError{Kind: FailureInvalidSignature}
		}
		if !sign.Verify(reply.Heartbeat.Data, n, c.VerifyingKey, reply.Heartbeat.Signature) {
			return &SessionError{Kind: FailureInvalidSignature}
		}
		if reply.Heartbeat.Data.Error != nil {
			return licenseErr(wire.NormalizeLicenseError(int32(*reply.Heartbeat.Data.Error)))
		}
	}
}

func recvClientWithTimeout(stream ClientStream, d time.Duration) (*wire.ServerMessage, error) {
	msgCh := make(chan *wire.ServerMessage, 1)
	errCh := make(chan error, 1)
	go func() {
		msg, err := stream.Recv()
		if err != nil {
			errCh <- err
			return
		}
		msgCh <- msg
	}()

	select {
	case <-time.After(d):
		return nil, fmt.Errorf("session: timed out waiting for server reply")
	case err := <-errCh:
		return nil, err
	case msg := <-msgCh:
		return msg, nil
	}
}
