package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/authd/authd/pkg/audit"
	"github.com/authd/authd/pkg/config"
	"github.com/authd/authd/pkg/db"
	"github.com/authd/authd/pkg/password"
	"github.com/authd/authd/pkg/server/store"
	gormstore "github.com/authd/authd/pkg/server/store/gorm"
)

// userResetPasswordCmd represents the user reset-password command
var userResetPasswordCmd = &cobra.Command{
	Use:   "reset-password <username>",
	Short: "Reset a user's password",
	Long: `Reset a user's password.

A new random password is generated and printed to stdout. Existing access
tokens remain valid until they expire.

Example:
  authdctl user reset-password alice`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		username := args[0]

		newPassword, err := resetPassword(username)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to reset password for %s: %v\n", username, err)
			os.Exit(1)
		}
		fmt.Println(newPassword)
	},
}

func init() {
	userCmd.AddCommand(userResetPasswordCmd)
}

func resetPassword(username string) (string, error) {
	cfg, err := config.Load()
	if err != nil {
		return "", fmt.Errorf("failed to load configuration: %w", err)
	}

	database, err := db.Connect(db.Config{})
	if err != nil {
		return "", err
	}

	newPassword, err := generatePassword()
	if err != nil {
		return "", err
	}

	hashed, err := password.Hash(newPassword, cfg.BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	if err := gormstore.NewUsersStore(database).UpdatePassword(username, hashed); err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return "", fmt.Errorf("user not found: %s", username)
		}
		return "", err
	}

	audit.Log(audit.PasswordEvent{
		Username: username,
		Success:  true,
	})

	return newPassword, nil
}
