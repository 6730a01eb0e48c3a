package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/parley-chat/parley/internal/topics"
)

var (
	listOutputFormat string
	listModuleFilter string
)

var topicsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all registered topics",
	Long: `List the topics registered by the server's packages, in table or JSON
format, optionally filtered by owning module.`,
	RunE: topicsListHandler,
}

type topicJSON struct {
	Name        string `json:"name"`
	Module      string `json:"module"`
	Description string `json:"description"`
}

func topicsListHandler(cmd *cobra.Command, args []string) error {
	var list []topics.Topic
	for _, t := range topics.Default().List() {
		if listModuleFilter != "" && t.Module() != listModuleFilter {
			continue
		}
		list = append(list, t)
	}

	if len(list) == 0 {
		if listModuleFilter != "" {
			fmt.Printf("No topics found for module %q\n", listModuleFilter)
		} else {
			fmt.Println("No topics found")
		}
		return nil
	}

	switch listOutputFormat {
	case "json":
		out := make([]topicJSON, 0, len(list))
		for _, t := range list {
			out = append(out, topicJSON{Name: t.Name(), Module: t.Module(), Description: t.Description()})
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	case "table":
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "TOPIC\tMODULE\tDESCRIPTION")
		for _, t := range list {
			fmt.Fprintf(w, "%s\t%s\t%s\n", t.Name(), t.Module(), t.Description())
		}
		return w.Flush()
	default:
		return fmt.Errorf("unsupported output format %q, use 'table' or 'json'", listOutputFormat)
	}
}

func init() {
	topicsCmd.AddCommand(topicsListCmd)

	topicsListCmd.Flags().StringVarP(&listOutputFormat, "format", "f", "table", "Output format (table, json)")
	topicsListCmd.Flags().StringVarP(&listModuleFilter, "module", "m", "", "Filter topics by module name")
}
