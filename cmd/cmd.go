// Package cmd defines the command-line interface for pypinfo.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pipstats/pypinfo/core"
	"github.com/pipstats/pypinfo/internal/contract"
	"github.com/pipstats/pypinfo/schema"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(fieldsCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(credsCmd)
	rootCmd.AddCommand(mcpCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheStatusCmd)
	cacheCmd.AddCommand(cacheClearCmd)

	// Add the creds subcommands to the parent creds command
	credsCmd.AddCommand(credsSetCmd)
	credsCmd.AddCommand(credsShowCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().StringP("start", "s", "", "Start of the date window: negative day offset, YYYY-MM, or YYYY-MM-DD")
	rootCmd.PersistentFlags().StringP("end", "e", "", "End of the date window: negative day offset, YYYY-MM, or YYYY-MM-DD")
	rootCmd.PersistentFlags().IntP("days", "d", 0, "Number of days in the window, counted back from the end date")
	rootCmd.PersistentFlags().IntP("limit", "l", core.DefaultLimit, "Maximum number of query results")
	rootCmd.PersistentFlags().String("where", "", "WHERE clause fragment, replaces the project and pip filters")
	rootCmd.PersistentFlags().String("order", "", "Column to order by descending (default download_count)")
	rootCmd.PersistentFlags().Bool("pip", false, "Only count downloads made by pip")
	rootCmd.PersistentFlags().BoolP("percent", "p", false, "Add a percent column")
	rootCmd.PersistentFlags().StringP("output", "o", string(schema.TextOut), "Output format: text, markdown, json, or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to (required for parquet)")
	rootCmd.PersistentFlags().IntP("indent", "i", 0, "JSON indentation level (0 = compact)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Print the generated query and execution statistics")
	rootCmd.PersistentFlags().String("creds-file", "", "Path to the BigQuery service account JSON file")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Result cache backend: sqlite, mysql, postgresql, or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("cache-ttl", "", "How long cached results stay fresh (e.g. 24h)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored messages on stderr (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}
}
