package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"country-currency-api/pkg/logger"
)

var (
	// Global flags
	verbose    bool
	jsonOutput bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "countryctl",
	Short: "Operate the country currency service from the command line",
	Long: `countryctl runs maintenance tasks against the same store and upstreams
the API uses. Configuration is read from the environment (and .env if present).

Commands:
  migrate  - Create the countries table and indexes if missing
  refresh  - Fetch upstream data and upsert every country
  summary  - Render the summary PNG from the current table`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		_ = godotenv.Load()
		env := "production"
		if verbose {
			env = "development"
		}
		logger.Init(env)
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	rootCmd.AddCommand(migrateCmd, refreshCmd, summaryCmd)
}

// printResult in JSON khi --json, ngược lại dùng text
func printResult(cmd *cobra.Command, v interface{}, text string) error {
	if !jsonOutput {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), text)
		return err
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
