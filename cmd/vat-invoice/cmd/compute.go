package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rezonia/vat-invoice/internal/calc"
	"github.com/rezonia/vat-invoice/internal/decimal"
	"github.com/rezonia/vat-invoice/internal/processor"
	"github.com/rezonia/vat-invoice/internal/server"
)

var computeItems []string

var computeCmd = &cobra.Command{
	Use:   "compute [item-files...]",
	Short: "Print computed amounts without rendering",
	Long: `Validate items and print the inclusive total, exclusive amount and VAT of
every line together with the document totals.

Examples:
  vat-invoice compute items.json
  vat-invoice compute items.csv -f table
  vat-invoice compute --item "Milk;2;11.50" -f csv`,
	RunE: runCompute,
}

func init() {
	rootCmd.AddCommand(computeCmd)

	computeCmd.Flags().StringArrayVar(&computeItems, "item", nil, `Inline item "description;quantity;price[;vat]" (repeatable)`)
}

func runCompute(cmd *cobra.Command, args []string) error {
	files, err := collectItemFiles(args)
	if err != nil {
		return err
	}

	sources, err := itemSources(files, computeItems)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	items, err := sources.Items(ctx)
	if err != nil {
		return err
	}

	pipeline := processor.NewPipeline(cfg.Letterhead(), processor.WithLogger(logger))
	result := pipeline.Compute(ctx, items)
	if result.Error != nil {
		return result.Error
	}

	return outputResult(cmd.OutOrStdout(), result.Computed)
}

func outputResult(w io.Writer, r *calc.Result) error {
	switch outputFormat {
	case "json":
		return outputJSON(w, r)
	case "table":
		return outputTable(w, r)
	case "csv":
		return outputCSV(w, r)
	default:
		return fmt.Errorf("unsupported output format: %s", outputFormat)
	}
}

func outputJSON(w io.Writer, r *calc.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(server.NewComputeResponse(cfg.CurrencySymbol, r))
}

func outputTable(w io.Writer, r *calc.Result) error {
	money := func(d decimal.Decimal) string {
		return decimal.FormatMoney(cfg.CurrencySymbol, d)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "DESCRIPTION\tQUANTITY\tINCL. PRICE\tVAT %\tEXCLUSIVE\tVAT\tTOTAL INCL.\t")
	fmt.Fprintln(tw, "-----------\t--------\t-----------\t-----\t---------\t---\t-----------\t")

	for _, it := range r.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			it.Description,
			decimal.FormatQuantity(it.Quantity),
			money(it.UnitPriceInclusive),
			decimal.FormatPercent(it.VATRatePercent),
			money(it.ExclusiveAmount),
			money(it.VATAmount),
			money(it.InclusiveTotal),
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nTotal Exclusive: %s\n", money(r.Totals.TotalExclusive))
	fmt.Fprintf(w, "Total VAT: %s\n", money(r.Totals.TotalVAT))
	fmt.Fprintf(w, "Total Due: %s\n", money(r.Totals.TotalDue))
	return nil
}

func outputCSV(w io.Writer, r *calc.Result) error {
	fmt.Fprintln(w, "description,quantity,unit_price_inclusive,vat_rate_percent,inclusive_total,exclusive_amount,vat_amount")

	for _, it := range r.Items {
		fmt.Fprintf(w, "%s,%s,%s,%s,%s,%s,%s\n",
			escapeCSV(it.Description),
			decimal.FormatQuantity(it.Quantity),
			it.UnitPriceInclusive.StringFixed(decimal.CentPlaces),
			it.VATRatePercent.String(),
			it.InclusiveTotal.StringFixed(decimal.CentPlaces),
			it.ExclusiveAmount.StringFixed(decimal.CentPlaces),
			it.VATAmount.StringFixed(decimal.CentPlaces),
		)
	}

	_, err := fmt.Fprintf(w, "TOTAL,,,,%s,%s,%s\n",
		r.Totals.TotalDue.StringFixed(decimal.CentPlaces),
		r.Totals.TotalExclusive.StringFixed(decimal.CentPlaces),
		r.Totals.TotalVAT.StringFixed(decimal.CentPlaces),
	)
	return err
}

func escapeCSV(s string) string {
	if strings.Contains(s, ",") || strings.Contains(s, "\"") || strings.Contains(s, "\n") {
		return "\"" + strings.ReplaceAll(s, "\"", "\"\"") + "\""
	}
	return s
}
