package cmd

import (
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/pipstats/pypinfo/internal/contract"
	"github.com/pipstats/pypinfo/schema"
)

// fieldsCmd lists the queryable field catalog.
var fieldsCmd = &cobra.Command{
	Use:   "fields",
	Short: "List all queryable output fields",
	Long: `Show the catalog of output fields that can be passed as positional
arguments after the project name.

Each entry shows the CLI name and the column it produces in the results.

Examples:
  # List all fields
  pypinfo fields

  # Query with two of them
  pypinfo requests country pyversion`,
	Run: func(_ *cobra.Command, _ []string) {
		table := tablewriter.NewWriter(os.Stdout)
		table.Header([]string{"Field", "Column", "Aggregate"})

		var data [][]string
		for _, key := range schema.FieldKeys {
			f, err := schema.LookupField(key)
			if err != nil {
				contract.LogFatal("Failed to load field catalog", err)
			}
			aggregate := ""
			if f.Aggregate {
				aggregate = "yes"
			}
			data = append(data, []string{key, f.Name, aggregate})
		}

		if err := table.Bulk(data); err != nil {
			contract.LogFatal("Failed to build fields table", err)
		}
		if err := table.Render(); err != nil {
			contract.LogFatal("Failed to render fields table", err)
		}
	},
}
