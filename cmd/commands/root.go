package commands

// Root command for the Cobra CLI.
// Running the binary without a subcommand builds the daily demand charts.

import (
	"demand-graphs/internal/config"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "demand-graphs",
	Short: "Customer demand graphs - hourly payment charts per day",
	Long: `demand-graphs reads a payments_captured spreadsheet and writes one bar chart
per calendar day showing captured payments per hour, with per-method totals,
the daily average and the daily total. Existing charts are never rewritten.`,
	Version:       "1.0.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.NoArgs,
	RunE:          runReport,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String(config.FlagConfig, "", "Config file (default ./config.yaml)")
	flags.String(config.FlagLogLevel, "info", "Log level: debug, info, warn, error")
	rootCmd.Flags().String(config.FlagInput, "", "Payments file; skips the file dialog (env: PAYMENTS_FILE)")
	rootCmd.Flags().String(config.FlagOutputDir, "customer-demand-graphs", "Directory for the charts (env: OUTPUT_DIR)")

	rootCmd.AddCommand(sampleCmd)
}
