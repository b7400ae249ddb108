package client

import (
	"context"
	"crypto/ed25519"
	"encoding/json"
	"os"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/sage-x-project/licguard/internal/logger"
	"github.com/sage-x-project/licguard/session"
	"github.com/sage-x-project/licguard/wire"
)

// licenseFilePath is where a successfully entered license key is
// cached across restarts, never rewritten once created.
const licenseFilePath = "./license.data"

// Input configures Setup.
type Input struct {
	Addr         string
	VerifyingKey ed25519.PublicKey
	Verifier     session.DataVerifier
	GUI          GUIBackend
	Debug        bool
}

// Connector has no fields or methods; the license-key persisted state
// and the one-shot client FSM run are handled by the package functions
// LoadKey and Setup.
type Connector struct{}

func tryLoadKey() (string, bool) {
	b, err := os.ReadFile(licenseFilePath)
	if err != nil {
		return "", false
	}
	return strings.TrimSpace(string(b)), true
}

func promptAndSaveKey(gui GUIBackend) string {
	key := gui.PromptLicense()
	_ = os.WriteFile(licenseFilePath, []byte(key), 0o600)
	return key
}

// LoadKey returns the cached license key if ./license.data exists, else
// prompts through gui and persists the answer.
func LoadKey(gui GUIBackend) string {
	if key, ok := tryLoadKey(); ok {
		return key
	}
	return promptAndSaveKey(gui)
}

// Setup dials the authority server, authenticates, and runs the
// heartbeat loop to completion, routing any session failure through an
// ErrorDispatcher. Errors creating the connection or opening the stream
// are returned directly. It blocks for the lifetime of the session.
func Setup(ctx context.Context, input Input, log logger.Logger) error {
	conn, err := grpc.NewClient(input.Addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		wire.DialOption(),
	)
	if err != nil {
		return err
	}
	defer conn.Close()

	authCli := wire.NewAuthorityClient(conn)
	stream, err := authCli.Heartbeat(ctx)
	if err != nil {
		return err
	}

	gui := input.GUI
	if gui == nil {
		gui = TUI{}
	}
	licenseKey := LoadKey(gui)

	dispatcher := &ErrorDispatcher{GUI: gui, Debug: input.Debug}

	cl := &session.Client{
		VerifyingKey: input.VerifyingKey,
		LicenseKey:   licenseKey,
		DataVerifier: input.Verifier,
		OnAuthenticated: func(details session.LicenseDetails) {
			gui.ShowLicenseDetails(details)
		},
	}

	if sessErr := cl.Connect(stream); sessErr != nil {
		aerr := logger.NewAuthorityError(sessionErrorCode(sessErr), "session failed", sessErr.Unwrap())
		log.Error("client.session.failed", logger.Error(aerr))
		return dispatcher.Dispatch(sessErr)
	}
	return nil
}

// sessionErrorCode maps a session.SessionError to the matching
// AuthorityError code, for structured logging before the error reaches
// ErrorDispatcher.
func sessionErrorCode(err *session.SessionError) string {
	if err.License != nil {
		switch *err.License {
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
	switch err.Kind {
	case session.FailureInvalidResponse, session.FailureDataVerification:
		return logger.ErrCodeValidationError
	case session.FailureInvalidSignature:
		return logger.ErrCodeSignatureError
	case session.FailureTransport:
		return logger.ErrCodeNetworkError
	default:
		return logger.ErrCodeInternal
	}
}

// FuncVerifier builds a session.DataVerifier that unmarshals extra-data
// JSON into T before handing it to predicate.
func FuncVerifier[T any](predicate func(T) bool) session.DataVerifier {
	return func(raw json.RawMessage) bool {
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			return false
		}
		return predicate(v)
	}
}
