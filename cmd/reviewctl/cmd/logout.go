package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Discard the persisted session",
	Long: `Discard the persisted session.

Removes the session snapshot file and its backup. Safe to run when
already logged out. The bearer token is not revoked server-side; it
simply ages out.`,
	RunE: runLogout,
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}

func runLogout(cmd *cobra.Command, args []string) error {
	svc, _, err := buildSession()
	if err != nil {
		return err
	}

	if err := svc.Logout(cmd.Context()); err != nil {
		return err
	}
	fmt.Println("Logged out.")
	return nil
}
