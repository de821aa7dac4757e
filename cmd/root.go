package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pipstats/pypinfo/core"
	"github.com/pipstats/pypinfo/internal/bigquery"
	"github.com/pipstats/pypinfo/internal/contract"
	"github.com/pipstats/pypinfo/internal/iocache"
	"github.com/pipstats/pypinfo/internal/outwriter"
	"github.com/pipstats/pypinfo/schema"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// resultCache is the query result cache, initialized during setup.
var resultCache *iocache.ResultCache

// newExecutor creates the BigQuery executor. Swapped out in tests.
var newExecutor = func(ctx context.Context, credsFile string) (contract.Executor, error) {
	return bigquery.NewExecutor(ctx, credsFile)
}

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:                "pypinfo [flags] PROJECT [FIELD]...",
	Short:              "View PyPI download statistics with ease.",
	Long:               `pypinfo queries the public PyPI download-log dataset on BigQuery and renders per-package download statistics.`,
	Version:            version,
	Args:               cobra.MinimumNArgs(1),
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := sharedSetup(args); err != nil {
			return err
		}
		defer closeCache()
		return runQuery()
	},
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// Check if a specific config file is provided
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		// Set config file name and paths
		viper.SetConfigName(".pypinfo") // Name of config file (without extension)
		viper.SetConfigType("yaml")     // We'll use YAML format
		viper.AddConfigPath(".")        // Look in the current directory
		viper.AddConfigPath("$HOME")    // Look in the home directory
	}

	// Set environment variable prefix
	viper.SetEnvPrefix("PYPINFO")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // Read in environment variables that match

	// Set defaults in Viper
	viper.SetDefault("limit", core.DefaultLimit)
	viper.SetDefault("output", schema.TextOut)
	viper.SetDefault("cache-backend", schema.SQLiteBackend)
	viper.SetDefault("cache-db-connect", "")
	viper.SetDefault("color", "yes")
}

// loadConfigFile handles config file loading logic common to all setup functions.
func loadConfigFile() error {
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Config file was found but another error was produced
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, which is fine; we'll use defaults/env/flags.
	}
	return nil
}

// sharedSetup unmarshals config, runs validation, and opens the cache.
func sharedSetup(args []string) error {
	// 1. Read config file. This merges defaults, file, env, and flags.
	if err := loadConfigFile(); err != nil {
		return err
	}

	// 2. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// 3. Handle positional arguments (which Viper doesn't do).
	if len(args) > 0 {
		input.ProjectStr = args[0]
		input.FieldNames = args[1:]
	}

	// 4. Run all validation and complex parsing.
	// This function now populates the global 'cfg' from 'input'.
	if err := contract.ProcessAndValidate(cfg, input); err != nil {
		return err
	}
	color.NoColor = color.NoColor || !cfg.UseColors

	// 5. Open the result cache with the validated config.
	cache, err := iocache.NewResultCache(cfg.CacheBackend, cfg.CacheDBConnect, cfg.CacheTTL)
	if err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}
	resultCache = cache

	return nil
}

// closeCache closes the result cache if it was opened.
func closeCache() {
	if resultCache != nil {
		_ = resultCache.Close()
		resultCache = nil
	}
}

// runQuery builds the query, fetches rows from the cache or BigQuery, and
// renders the shaped result.
func runQuery() error {
	query, err := core.NewBuilder(core.PyPIDownloads).Build(schema.QuerySpec{
		Project:   cfg.Project,
		Fields:    cfg.Fields,
		StartDate: cfg.StartDate,
		EndDate:   cfg.EndDate,
		Days:      cfg.Days,
		Limit:     cfg.Limit,
		Where:     cfg.Where,
		OrderBy:   cfg.OrderBy,
		Pip:       cfg.Pip,
	})
	if err != nil {
		return err
	}
	if cfg.Verbose {
		contract.LogInfo("Query:\n%s", query)
	}

	table, stats, err := fetchResults(query)
	if err != nil {
		return err
	}
	if len(table) == 0 {
		return fmt.Errorf("query returned no result schema")
	}

	shaped, err := shapeResults(table)
	if err != nil {
		return err
	}

	metadata := schema.QueryMetadata{"query": query}
	if stats != nil {
		metadata["cached"] = stats.CacheHit
		metadata["bytes_processed"] = stats.BytesProcessed
		metadata["bytes_billed"] = stats.BytesBilled
		metadata["estimated_cost"] = fmt.Sprintf("%.2f", stats.EstimatedCost)
	}

	if err := outwriter.NewOutWriter().WriteResults(shaped, cfg, metadata); err != nil {
		return err
	}

	if stats != nil && cfg.Verbose {
		contract.LogInfo("Served from BigQuery cache: %t", stats.CacheHit)
		contract.LogInfo("Data processed: %s", humanize.IBytes(uint64(stats.BytesProcessed)))
		contract.LogInfo("Data billed: %s", humanize.IBytes(uint64(stats.BytesBilled)))
		contract.LogInfo("Estimated cost: $%.2f", stats.EstimatedCost)
	}
	return nil
}

// fetchResults serves the query from the local cache when possible and runs
// it on BigQuery otherwise.
func fetchResults(query string) (schema.Table, *schema.QueryStats, error) {
	if table, ok := resultCache.GetTable(query); ok {
		if cfg.Verbose {
			contract.LogInfo("Results served from local cache")
		}
		return table, nil, nil
	}

	credsFile, err := resolveCredsFile()
	if err != nil {
		return nil, nil, err
	}
	executor, err := newExecutor(rootCtx, credsFile)
	if err != nil {
		return nil, nil, err
	}

	table, stats, err := executor.Run(rootCtx, query)
	if err != nil {
		return nil, nil, err
	}
	if err := resultCache.PutTable(query, table); err != nil {
		contract.LogWarn("Failed to cache results", err)
	}
	return table, stats, nil
}

// resolveCredsFile picks the credentials file from the flag, the stored
// setting, or the environment.
func resolveCredsFile() (string, error) {
	stored, _ := resultCache.GetCredentials()
	return bigquery.ResolveCredsFile(cfg.CredsFile, stored)
}

// shapeResults applies the percent and total transforms for the configured
// output.
func shapeResults(table schema.Table) (schema.Table, error) {
	shaped := table
	var err error

	if cfg.Percent {
		includeSign := cfg.Output != schema.JSONOut
		shaped, err = core.AddPercentages(shaped, includeSign)
		if err != nil {
			return nil, err
		}
	}

	// A total row only makes sense with more than one data row, and only
	// in the tabular formats.
	tabular := cfg.Output == schema.TextOut || cfg.Output == schema.MarkdownOut
	if tabular && len(shaped) > 2 {
		shaped, err = core.AddTotal(shaped)
		if err != nil {
			return nil, err
		}
	}
	return shaped, nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
