package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "authdctl",
	Short: "Run and manage the authd authentication server",
	Long:  `authdctl runs the authd authentication server and manages its database, users, and configuration.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func main() {
	Execute()
}
