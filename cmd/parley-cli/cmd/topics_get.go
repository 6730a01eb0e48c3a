package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/parley-chat/parley/internal/topics"
)

var topicsGetCmd = &cobra.Command{
	Use:   "get <topic-name>",
	Short: "Show details for one registered topic",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, ok := topics.Default().Get(args[0])
		if !ok {
			return fmt.Errorf("topic %q is not registered", args[0])
		}

		fmt.Printf("Name:        %s\n", t.Name())
		fmt.Printf("Module:      %s\n", t.Module())
		fmt.Printf("Description: %s\n", t.Description())
		return nil
	},
}

func init() {
	topicsCmd.AddCommand(topicsGetCmd)
}
