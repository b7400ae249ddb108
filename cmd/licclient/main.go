// Command licclient authenticates against a licensing authority and
// holds the heartbeat session open for the lifetime of the process.
package main

import (
	"context"
	"crypto/ed25519"
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sage-x-project/licguard/client"
	"github.com/sage-x-project/licguard/internal/logger"
	"github.com/sage-x-project/licguard/wire"
)

func main() {
	addr := flag.String("addr", fmt.Sprintf("127.0.0.1:%d", wire.DefaultPort), "authority address")
	verifyingKeyHex := flag.String("verifying-key", "", "hex-encoded Ed25519 verifying key for the authority's signatures")
	debug := flag.Bool("debug", false, "return session errors instead of terminating the process")
	flag.Parse()

	log := logger.NewDefaultLogger()

	verifyingKey, err := parseVerifyingKey(*verifyingKeyHex)
	if err != nil {
		log.Fatal("licclient.bad_verifying_key", logger.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	input := client.Input{
		Addr:         *addr,
		VerifyingKey: verifyingKey,
		Debug:        *debug,
	}

	if err := client.Setup(ctx, input, log); err != nil {
		log.Fatal("licclient.session_failed", logger.Error(err))
	}
}

func parseVerifyingKey(s string) (ed25519.PublicKey, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("decode hex: %w", err)
	}
	if len(b) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("expected %d bytes, got %d", ed25519.PublicKeySize, len(b))
	}
	return ed25519.PublicKey(b), nil
}
