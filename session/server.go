package session

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/sage-x-project/licguard/internal/logger"
	"github.com/sage-x-project/licguard/internal/metrics"
	"github.com/sage-x-project/licguard/registry"
	"github.com/sage-x-project/licguard/sign"
	"github.com/sage-x-project/licguard/store"
	"github.com/sage-x-project/licguard/wire"
)

// ServerStream is the minimal bidirectional message exchange a session
// needs from a grpc.BidiStreamingServer[wire.ClientMessage, wire.ServerMessage].
type ServerStream interface {
	Send(*wire.ServerMessage) error
	Recv() (*wire.ClientMessage, error)
}

// Server runs one Heartbeat session on the authority side, from the
// first client message through the heartbeat loop to close.
type Server struct {
	Store    store.Store
	Registry *registry.Registry
	Log      logger.Logger
	Now      func() time.Time // overridable for tests; defaults to time.Now

	// AuthTimeout and BeatTimeout override the handshake and
	// beating-loop deadlines for tests; they default to
	// wire.HandshakeTimeout and wire.PingPeriod+wire.PingGrace.
	AuthTimeout time.Duration
	BeatTimeout time.Duration
}

func (s *Server) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Server) authTimeout() time.Duration {
	if s.AuthTimeout > 0 {
		return s.AuthTimeout
	}
	return wire.HandshakeTimeout
}

func (s *Server) beatTimeout() time.Duration {
	if s.BeatTimeout > 0 {
		return s.BeatTimeout
	}
	return wire.PingPeriod + wire.PingGrace
}

// Handle runs the full server FSM over stream until the session closes.
// Handshake malformations and timeouts, and infrastructural faults
// during signing, are returned as a gRPC status error for the caller to
// propagate to the RPC response; everything else (license faults,
// heartbeat-loop faults) is handled in-band or ends the loop silently,
// matching a spawned connection's fire-and-forget lifetime.
func (s *Server) Handle(ctx context.Context, stream ServerStream) error {
	request, nonce, err := s.awaitAuth(stream)
	if err != nil {
		return err
	}

	lic, licErr := s.resolve(request)
	if licErr != nil {
		s.sendAuthError(stream, nonce, *licErr)
		return nil
	}

	app, err := s.Store.FindAppByID(ctx, lic.AppID)
	if err != nil {
		return s.signingFault("server.signing.app_lookup_failed", err)
	}

	resp := &wire.Response{
		Expiry:    lic.Expiry,
		ExtraData: string(orEmptyJSON(lic.ExtraData)),
	}

	kp := sign.NewKeypairFromSeed(app.PrivateKey)
	sig, err := kp.Sign(resp, nonce)
	if err != nil {
		return s.signingFault("server.signing.failed", err)
	}

	if err := stream.Send(&wire.ServerMessage{Auth: &wire.InfoResponse{
		Nonce:     nonce,
		Signature: sig,
		Ok:        resp,
	}}); err != nil {
		return nil
	}
	metrics.AuthAttemptsTotal.WithLabelValues("ok").Inc()

	s.Registry.Inc(lic.ID)
	start := s.now()
	defer func() {
		s.Registry.Dec(lic.ID)
		metrics.SessionDuration.Observe(s.now().Sub(start).Seconds())
	}()

	s.beat(stream, lic, kp)
	return nil
}

// signingFault logs an infrastructural failure during the signing phase
// as a structured AuthorityError and turns it into the internal RPC
// status the caller closes the stream with.
func (s *Server) signingFault(event string, cause error) error {
	aerr := logger.NewAuthorityError(logger.ErrCodeInternal, "signing phase failed", cause)
	s.Log.Error(event, logger.Error(aerr))
	return status.Error(codes.Internal, aerr.Error())
}

// awaitAuth reads the first client message with the handshake deadline.
// On timeout it returns a deadline_exceeded status; on stream-end or a
// malformed first message it returns invalid_argument, per the
// handshake's "deadline/stream-end/malformed" failure modes. It writes
// nothing to stream itself — the status is reported by the RPC layer.
func (s *Server) awaitAuth(stream ServerStream) (*wire.InfoRequestPayload, uint64, error) {
	msgCh := make(chan *wire.ClientMessage, 1)
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
	case <-time.After(s.authTimeout()):
		aerr := logger.NewAuthorityError(logger.ErrCodeTimeout, "handshake timed out", nil)
		s.Log.Error("server.handshake.timeout", logger.Error(aerr))
		return nil, 0, status.Error(codes.DeadlineExceeded, aerr.Error())
	case err := <-errCh:
		aerr := logger.NewAuthorityError(logger.ErrCodeInvalidInput, "handshake stream ended before auth", err)
		s.Log.Error("server.handshake.recv_failed", logger.Error(aerr))
		return nil, 0, status.Error(codes.InvalidArgument, aerr.Error())
	case msg := <-msgCh:
		if msg.Auth == nil || msg.Auth.Req == nil {
			aerr := logger.NewAuthorityError(logger.ErrCodeInvalidInput, "malformed auth message", nil)
			s.Log.Error("server.handshake.malformed", logger.Error(aerr))
			return nil, 0, status.Error(codes.InvalidArgument, aerr.Error())
		}
		return msg.Auth.Req, msg.Auth.Nonce, nil
	}
}

// resolve parses the key ID, looks up the license, and evaluates
// admission. It returns the license on success or the license error to
// send on failure.
func (s *Server) resolve(req *wire.InfoRequestPayload) (*store.License, *wire.LicenseError) {
	id, err := uuid.Parse(req.KeyID)
	if err != nil {
		e := wire.LicenseErrorInvalidKey
		return nil, &e
	}

	lic, err := s.Store.FindLicenseByID(context.Background(), id)
	if errors.Is(err, store.ErrNotFound) {
		e := wire.LicenseErrorInvalidKey
		return nil, &e
	}
	if err != nil {
		e := wire.LicenseErrorInternal
		return nil, &e
	}

	if wireErr := CheckAdmission(lic, s.now(), s.Registry); wireErr != nil {
		return nil, wireErr
	}
	return lic, nil
}

func (s *Server) sendAuthError(stream ServerStream, nonce uint64, kind wire.LicenseError) {
	metrics.AuthAttemptsTotal.WithLabelValues(strings.ToLower(kind.String())).Inc()
	aerr := logger.NewAuthorityError(authorityErrorCode(kind), "handshake rejected", nil)
	s.Log.Error("server.handshake.rejected", logger.Error(aerr))
	_ = stream.Send(&wire.ServerMessage{Auth: &wire.InfoResponse{
		Nonce: nonce,
		Error: &kind,
	}})
}

// authorityErrorCode maps a wire.LicenseError to the matching
// AuthorityError code, for structured logging alongside the in-band
// wire response.
func authorityErrorCode(kind wire.LicenseError) string {
	switch kind {
	case wire.LicenseErrorExpired:
		return logger.ErrCodeExpiredLicense
	case wire.LicenseErrorInvalidKey:
		return logger.ErrCodeInvalidKey
	case wire.LicenseErrorTooManySessions:
		return logger.ErrCodeTooManySessions
	case wire.LicenseErrorRevoked:
		return logger.ErrCodeRevokedLicense
	default:
		return logger.ErrCodeInternal
	}
}

// beat runs the Beating loop until the client stops responding.
func (s *Server) beat(stream ServerStream, lic *store.License, kp *sign.Keypair) {
	for {
		msg, err := recvWithTimeout(stream, s.beatTimeout())
		if err != nil || msg == nil || msg.Heartbeat == nil {
			return
		}

		var kind *wire.LicenseError
		if e := Check(lic, s.now()); e != nil {
			kind = e
		}

		data := &wire.ServerHeartbeatData{Error: kind}
		sig, err := kp.Sign(data, msg.Heartbeat.Nonce)
		if err != nil {
			return
		}

		result := "ok"
		if kind != nil {
			result = strings.ToLower(kind.String())
		}
		metrics.HeartbeatsTotal.WithLabelValues(result).Inc()

		if err := stream.Send(&wire.ServerMessage{Heartbeat: &wire.ServerHeartbeat{
			Nonce:     msg.Heartbeat.Nonce,
			Signature: sig,
			Data:      data,
		}}); err != nil {
			return
		}
	}
}

func recvWithTimeout(stream ServerStream, d time.Duration) (*wire.ClientMessage, error) {
	msgCh := make(chan *wire.ClientMessage, 1)
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
		return nil, io.EOF
	case err := <-errCh:
		return nil, err
	case msg := <-msgCh:
		return msg, nil
	}
}

func orEmptyJSON(b json.RawMessage) json.RawMessage {
	if len(b) == 0 {
		return json.RawMessage("{}")
	}
	return b
}
