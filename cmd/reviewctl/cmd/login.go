package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/L1m-NguyenHai/Tauri-Product-Review-sub001/internal/service"
)

var (
	loginEmail    string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and persist the session",
	Long: `Log in to the ReviewHub backend and persist the session.

The password is prompted interactively unless --password is given
(avoid --password in shared shells; it lands in shell history).

On success the bearer token and profile are written to the session
snapshot file, and later commands reuse them without logging in again.

Examples:
  reviewctl login --email alice@example.com
  echo "$PW" | reviewctl login --email alice@example.com`,
	RunE: runLogin,
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "account email address")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "account password (prompted if omitted)")
	_ = loginCmd.MarkFlagRequired("email")
	rootCmd.AddCommand(loginCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	svc, _, err := buildSession()
	if err != nil {
		return err
	}

	password := loginPassword
	if password == "" {
		password, err = promptPassword("Password: ")
		if err != nil {
			return err
		}
	}

	if err := svc.Login(cmd.Context(), loginEmail, password); err != nil {
		switch {
		case errors.Is(err, service.ErrEmailNotVerified):
			fmt.Fprintln(os.Stderr, "Email not verified. Run: reviewctl resend-verification --email", loginEmail)
		case errors.Is(err, service.ErrInvalidCredentials):
			fmt.Fprintln(os.Stderr, "Incorrect email or password.")
		case errors.Is(err, service.ErrAccountBlocked):
			fmt.Fprintln(os.Stderr, "This account has been blocked. Contact support.")
		}
		return err
	}

	ident := svc.Identity()
	fmt.Printf("Logged in as %s <%s> (%s)\n", ident.Name, ident.Email, ident.Role)
	return nil
}
