package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Re-fetch and persist the cached profile",
	Long: `Re-fetch the profile with the current credential and persist it.

Fails without touching the cached session when the backend is
unreachable; use whoami to inspect the cached state.`,
	RunE: runRefresh,
}

func init() {
	rootCmd.AddCommand(refreshCmd)
}

func runRefresh(cmd *cobra.Command, args []string) error {
	svc, _, err := buildSession()
	if err != nil {
		return err
	}
	defer svc.Wait()

	if err := svc.Restore(cmd.Context()); err != nil {
		return err
	}
	if !svc.IsAuthenticated() {
		fmt.Println("Not logged in. Run: reviewctl login --email <email>")
		return nil
	}

	if err := svc.RefreshIdentity(cmd.Context()); err != nil {
		return err
	}

	ident := svc.Identity()
	fmt.Printf("Profile refreshed: %s <%s> (%s)\n", ident.Name, ident.Email, ident.Role)
	return nil
}
