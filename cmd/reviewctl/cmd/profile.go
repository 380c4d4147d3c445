package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	profileName   string
	profileAvatar string
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Update display name or avatar",
	Long: `Update the logged-in account's profile.

Set a new display name and/or avatar URL:
  reviewctl profile set --name "Alice B."
  reviewctl profile set --avatar https://example.com/me.png

Upload an avatar image file:
  reviewctl profile avatar ./me.png`,
}

var profileSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Set display name and/or avatar URL",
	RunE:  runProfileSet,
}

var profileAvatarCmd = &cobra.Command{
	Use:   "avatar <file>",
	Short: "Upload an avatar image",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfileAvatar,
}

func init() {
	profileSetCmd.Flags().StringVar(&profileName, "name", "", "new display name")
	profileSetCmd.Flags().StringVar(&profileAvatar, "avatar", "", "new avatar URL")
	profileCmd.AddCommand(profileSetCmd)
	profileCmd.AddCommand(profileAvatarCmd)
	rootCmd.AddCommand(profileCmd)
}

func runProfileSet(cmd *cobra.Command, args []string) error {
	if profileName == "" && profileAvatar == "" {
		return errors.New("nothing to update: pass --name and/or --avatar")
	}

	svc, _, err := buildSession()
	if err != nil {
		return err
	}
	defer svc.Wait()

	if err := svc.Restore(cmd.Context()); err != nil {
		return err
	}

	updated, err := svc.UpdateProfile(cmd.Context(), profileName, profileAvatar)
	if err != nil {
		return err
	}
	fmt.Printf("Profile updated: %s\n", updated.Name)
	return nil
}

func runProfileAvatar(cmd *cobra.Command, args []string) error {
	svc, _, err := buildSession()
	if err != nil {
		return err
	}
	defer svc.Wait()

	if err := svc.Restore(cmd.Context()); err != nil {
		return err
	}

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open avatar file: %w", err)
	}
	defer f.Close()

	updated, err := svc.UpdateAvatar(cmd.Context(), f.Name(), f)
	if err != nil {
		return err
	}
	fmt.Printf("Avatar updated: %s\n", updated.Avatar)
	return nil
}
