package cmd

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rezonia/vat-invoice/internal/config"
	"github.com/rezonia/vat-invoice/internal/logging"
)

var (
	version = "1.0.0"

	// Global flags
	verbose      bool
	outputFormat string
	configFile   string
	logFormat    string

	// Set up before every command runs
	cfg    *config.Config
	logger zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "vat-invoice",
	Short: "Compute VAT and render PDF invoices from VAT-inclusive line items",
	Long: `VAT Invoice turns VAT-inclusive line items into a paginated PDF invoice.

For every item the tool derives the inclusive total, the exclusive amount and
the VAT amount, sums the document totals and lays them out under the issuer
letterhead.

Item input:
  - JSON: an array of items or {"items": [...]}
  - CSV / XLSX: a header row naming description, quantity, price and vat
  - XML: <Items><Item> elements with Description, Quantity, UnitPrice, VATRatePercent
  - Inline: --item "Milk;2;11.50;15"

Examples:
  # Generate an invoice from a file
  vat-invoice generate items.json

  # Generate from inline items into a directory
  vat-invoice generate --item "Milk;2;11.50" --item "Bread;1;18.99;0" -o out/

  # Show the computed amounts as a table
  vat-invoice compute items.csv -f table

  # Use a custom letterhead
  vat-invoice generate items.xlsx --config shop.yaml`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "json", "Output format (json, csv, table)")
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Letterhead config file (yaml, json, toml)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "console", "Log format (console, json)")
}

func setup(cmd *cobra.Command) error {
	level := "warn"
	if verbose {
		level = "debug"
	}
	logger = logging.NewLogger(cmd.ErrOrStderr(), logFormat, level)

	loaded, err := config.Load(configFile)
	if err != nil {
		return err
	}
	cfg = loaded

	if configFile != "" {
		printVerbose(cmd, "Loaded config from %s\n", configFile)
	}
	return nil
}

func printVerbose(cmd *cobra.Command, format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), format, args...)
	}
}
