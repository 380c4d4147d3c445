// Package cmd provides the CLI commands for reviewctl.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/L1m-NguyenHai/Tauri-Product-Review-sub001/internal/config"
)

var cfgFile string
var statePath string

var rootCmd = &cobra.Command{
	Use:   "reviewctl",
	Short: "ReviewHub - product review platform client",
	Long: `reviewctl is the command-line client for the ReviewHub backend.

It manages a persisted login session: credentials are exchanged for a
bearer token, the profile is cached locally, and subsequent invocations
restore the session from disk without a network round-trip.

Quick start:
  1. reviewctl register --name "Alice" --email alice@example.com
  2. Verify the email, then: reviewctl login --email alice@example.com
  3. reviewctl whoami

Configuration:
  Config is loaded from reviewhub.yaml in the current directory,
  $HOME/.reviewhub/, or /etc/reviewhub/.

  Environment variables can override config values with the REVIEWHUB_ prefix.
  Example: REVIEWHUB_API_BASE_URL=https://api.example.com

Commands:
  login          Log in and persist the session
  logout         Discard the persisted session
  register       Create a new account
  whoami         Show the current session
  refresh        Re-fetch and persist the cached profile
  resend-verification  Request a fresh verification email
  profile        Update display name or avatar
  config         Print the effective configuration
  version        Print version information`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./reviewhub.yaml)")
	rootCmd.PersistentFlags().StringVar(&statePath, "state", "", "session snapshot file (default: ~/.reviewhub/session.json)")
}

func initConfig() {
	config.InitViper(cfgFile)
}
