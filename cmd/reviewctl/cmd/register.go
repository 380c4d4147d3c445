package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	registerName     string
	registerEmail    string
	registerPassword string
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new account",
	Long: `Create a new ReviewHub account.

The backend sends a verification email; the account cannot log in
until the address is verified. Registration never logs you in.

Examples:
  reviewctl register --name "Alice" --email alice@example.com`,
	RunE: runRegister,
}

func init() {
	registerCmd.Flags().StringVar(&registerName, "name", "", "display name")
	registerCmd.Flags().StringVar(&registerEmail, "email", "", "account email address")
	registerCmd.Flags().StringVar(&registerPassword, "password", "", "account password, minimum 8 characters (prompted if omitted)")
	_ = registerCmd.MarkFlagRequired("name")
	_ = registerCmd.MarkFlagRequired("email")
	rootCmd.AddCommand(registerCmd)
}

func runRegister(cmd *cobra.Command, args []string) error {
	svc, _, err := buildSession()
	if err != nil {
		return err
	}

	password := registerPassword
	if password == "" {
		password, err = promptPassword("Password (min 8 characters): ")
		if err != nil {
			return err
		}
	}

	if err := svc.Register(cmd.Context(), registerName, registerEmail, password); err != nil {
		return err
	}

	fmt.Printf("Account created for %s. Check your inbox to verify the address, then run: reviewctl login --email %s\n",
		registerEmail, registerEmail)
	return nil
}
