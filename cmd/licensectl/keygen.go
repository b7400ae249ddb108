package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sage-x-project/licguard/sign"
)

var keygenOutFile string

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate a new application signing keypair",
	Long: `Generate a fresh Ed25519 keypair for an Application record.

The signing (private) key's 32-byte seed is stored in the Application
record as its private_key; the authority signs its auth and heartbeat
replies with it. The verifying (public) key is stored as the record's
public_key and is what the licensed client is given (licclient
-verifying-key) to check those signatures. Treat the signing key as a
secret: anyone holding it can impersonate the authority to clients.`,
	RunE: runKeygen,
}

func init() {
	rootCmd.AddCommand(keygenCmd)
	keygenCmd.Flags().StringVarP(&keygenOutFile, "out", "o", "", "write the signing seed to this file instead of stdout")
}

func runKeygen(cmd *cobra.Command, args []string) error {
	kp, err := sign.GenerateKeypair()
	if err != nil {
		return fmt.Errorf("keygen: %w", err)
	}

	seed := kp.Seed()
	verifyingHex := hex.EncodeToString(kp.PublicKey())
	signingHex := hex.EncodeToString(seed[:])

	fmt.Printf("Verifying: %s\n", verifyingHex)

	if keygenOutFile == "" {
		fmt.Printf("Signing: %s\n", signingHex)
		return nil
	}

	if err := os.WriteFile(keygenOutFile, []byte(signingHex+"\n"), 0o600); err != nil {
		return fmt.Errorf("keygen: write %s: %w", keygenOutFile, err)
	}
	fmt.Printf("Signing key written to: %s\n", keygenOutFile)
	return nil
}
