package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/authd/authd/pkg/token"
)

// secretKeyGenerateCmd represents the secret-key > generate command
var secretKeyGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a token-signing secret",
	Long: `
Generate a token-signing secret

Use this command to generate a new Base64-encoded 256 bit secret. Once
generated, this secret should be placed into the environment of the authd
server. It is used to sign and verify all access tokens.

Example:

$ export AUTHD_SECRET_KEY="$(authdctl secret-key generate)"
`,
	Run: func(cmd *cobra.Command, args []string) {
		secret, err := token.GenerateSecret()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to generate secret: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("%s", secret)
	},
}

func init() {
	secretKeyCmd.AddCommand(secretKeyGenerateCmd)
}
