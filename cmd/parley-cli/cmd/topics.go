package cmd

import (
	"github.com/spf13/cobra"

	// Imported for their topic definitions so the registry is populated.
	_ "github.com/parley-chat/parley/internal/presence"
	_ "github.com/parley-chat/parley/internal/rooms"
	_ "github.com/parley-chat/parley/internal/websocket"
)

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "Explore the pub/sub topics the server routes messages over",
	Long: `The topics command lists and inspects the named bus topics modules use for
event-driven communication.

Examples:
  # List all topics
  parley-cli topics list

  # List topics for one module
  parley-cli topics list --module rooms

  # Inspect one topic
  parley-cli topics get chat.global.send`,
}

func init() {
	rootCmd.AddCommand(topicsCmd)
}
