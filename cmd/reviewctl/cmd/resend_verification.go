package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resendEmail string

var resendVerificationCmd = &cobra.Command{
	Use:   "resend-verification",
	Short: "Request a fresh verification email",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, _, err := buildSession()
		if err != nil {
			return err
		}
		if err := svc.ResendVerification(cmd.Context(), resendEmail); err != nil {
			return err
		}
		fmt.Printf("Verification email sent to %s.\n", resendEmail)
		return nil
	},
}

func init() {
	resendVerificationCmd.Flags().StringVar(&resendEmail, "email", "", "account email address")
	_ = resendVerificationCmd.MarkFlagRequired("email")
	rootCmd.AddCommand(resendVerificationCmd)
}
