package main

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/authd/authd/pkg/audit"
	"github.com/authd/authd/pkg/config"
	"github.com/authd/authd/pkg/db"
	"github.com/authd/authd/pkg/model"
	"github.com/authd/authd/pkg/password"
	"github.com/authd/authd/pkg/server/store"
	gormstore "github.com/authd/authd/pkg/server/store/gorm"
)

// userCreateCmd represents the user create command
var userCreateCmd = &cobra.Command{
	Use:   "create <username> <email>",
	Short: "Create a user account",
	Long: `Create a user account.

If no password is provided with --password, a random one is generated and
printed to stdout. Use --admin to grant administrator privileges.

Example:
  authdctl user create alice alice@example.com
  authdctl user create admin admin@example.com --admin`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		username := args[0]
		email := args[1]
		plaintext, _ := cmd.Flags().GetString("password")
		admin, _ := cmd.Flags().GetBool("admin")

		generated, err := createUser(username, email, plaintext, admin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create user %s: %v\n", username, err)
			os.Exit(1)
		}

		fmt.Fprintf(os.Stderr, "Created user '%s'\n", username)
		if generated != "" {
			fmt.Printf("Password for %s: %s\n", username, generated)
		}
	},
}

func init() {
	userCmd.AddCommand(userCreateCmd)
	userCreateCmd.Flags().String("password", "", "Password for the user (default: generate a random one)")
	userCreateCmd.Flags().Bool("admin", false, "Grant administrator privileges")
}

func createUser(username, email, plaintext string, admin bool) (generated string, err error) {
	if plaintext == "" {
		plaintext, err = generatePassword()
		if err != nil {
			return "", err
		}
		generated = plaintext
	}

	cfg, err := config.Load()
	if err != nil {
		return "", fmt.Errorf("failed to load configuration: %w", err)
	}

	hashed, err := password.Hash(plaintext, cfg.BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	database, err := db.Connect(db.Config{})
	if err != nil {
		return "", err
	}

	user := &model.User{
		Username:       username,
		Email:          email,
		HashedPassword: hashed,
		IsActive:       true,
		IsAdmin:        admin,
	}

	if err := gormstore.NewUsersStore(database).CreateUser(user); err != nil {
		if errors.Is(err, store.ErrDuplicateUser) {
			return "", fmt.Errorf("user '%s' already exists", username)
		}
		return "", err
	}

	audit.Log(audit.SignupEvent{
		Username: username,
		Email:    email,
		Admin:    admin,
		Success:  true,
	})

	return generated, nil
}

func generatePassword() (string, error) {
	raw := make([]byte, 24)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to generate password: %w", err)
	}
	return base64.URLEncoding.EncodeToString(raw), nil
}
