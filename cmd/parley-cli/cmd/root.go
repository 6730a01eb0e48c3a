package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "parley-cli",
	Short: "Parley CLI tool",
	Long: `Parley CLI is a command-line companion for the Parley chat server.

Available commands:
  topics    Explore the pub/sub topics the server routes messages over
  version   Print the CLI version

Use "parley-cli [command] --help" for more information about a specific command.`,
}

// Execute executes the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
