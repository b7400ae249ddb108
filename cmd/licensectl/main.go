package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "licensectl",
	Short: "licensectl - operator and key tooling for the licensing authority",
	Long: `licensectl is a command-line tool for operating a licguard authority
deployment. It currently has one command, keygen, which generates
application signing keys.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	// Commands are registered in their respective files:
	// - keygen.go: keygenCmd
}
