package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var whoamiRefresh bool

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current session",
	Long: `Show the identity of the current session.

By default the cached profile is shown: a fresh snapshot is printed
immediately while a background revalidation runs, and a stale one is
confirmed with the backend first. With --refresh the profile is always
re-fetched before printing.`,
	RunE: runWhoami,
}

func init() {
	whoamiCmd.Flags().BoolVar(&whoamiRefresh, "refresh", false, "re-fetch the profile before printing")
	rootCmd.AddCommand(whoamiCmd)
}

func runWhoami(cmd *cobra.Command, args []string) error {
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

	if whoamiRefresh {
		if err := svc.RefreshIdentity(cmd.Context()); err != nil {
			return err
		}
	}

	ident := svc.Identity()
	if ident == nil {
		fmt.Println("Not logged in. Run: reviewctl login --email <email>")
		return nil
	}

	fmt.Printf("Name:      %s\n", ident.Name)
	fmt.Printf("Email:     %s\n", ident.Email)
	fmt.Printf("Role:      %s\n", ident.Role)
	fmt.Printf("Verified:  %t\n", ident.EmailVerified)
	if ident.Avatar != "" {
		fmt.Printf("Avatar:    %s\n", ident.Avatar)
	}
	if svc.IsPrivileged() {
		fmt.Println("Access:    privileged")
	}
	if at := svc.CachedAt(); !at.IsZero() {
		fmt.Printf("Confirmed: %s ago\n", time.Since(at).Round(time.Second))
	}
	return nil
}
