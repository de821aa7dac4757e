package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pipstats/pypinfo/internal/contract"
)

// credsCmd manages the stored BigQuery credentials path.
var credsCmd = &cobra.Command{
	Use:   "creds",
	Short: "Manage the stored BigQuery credentials file path",
	Long: `Remember the path to a Google service account JSON file so it does
not need to be passed on every run.

The path is stored in the cache database and survives 'pypinfo cache clear'.

Subcommands:
  set  - Store a credentials file path
  show - Print the stored path

Examples:
  # Store a credentials path
  pypinfo creds set ~/keys/pypinfo-sa.json

  # See what is stored
  pypinfo creds show`,
}

// credsSetCmd stores the credentials file path.
var credsSetCmd = &cobra.Command{
	Use:   "set PATH",
	Short: "Store the path to a service account JSON file",
	Long: `Validate that PATH exists and store it as the default credentials
file for future queries.

Examples:
  pypinfo creds set ~/keys/pypinfo-sa.json`,
	Args:    cobra.ExactArgs(1),
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		defer closeCache()
		path := args[0]
		if _, err := os.Stat(path); err != nil {
			contract.LogFatal("Credentials file is not readable", err)
		}
		if err := resultCache.SetCredentials(path); err != nil {
			contract.LogFatal("Failed to store credentials path", err)
		}
		fmt.Printf("Credentials file set to: %s\n", path)
	},
}

// credsShowCmd prints the stored credentials file path.
var credsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the stored credentials file path",
	Long: `Print the credentials file path stored with 'creds set', if any.

Examples:
  pypinfo creds show`,
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		defer closeCache()
		path, ok := resultCache.GetCredentials()
		if !ok {
			fmt.Println("No credentials file stored. Use 'pypinfo creds set PATH'.")
			return
		}
		fmt.Println(path)
	},
}
