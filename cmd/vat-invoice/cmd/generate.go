package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/rezonia/vat-invoice/internal/export"
	"github.com/rezonia/vat-invoice/internal/itemsource"
	"github.com/rezonia/vat-invoice/internal/processor"
)

var (
	inlineItems []string
	outputPath  string
	noVerify    bool
	timeout     time.Duration
)

var generateCmd = &cobra.Command{
	Use:   "generate [item-files...]",
	Short: "Generate a PDF invoice",
	Long: `Generate a PDF invoice from item files and inline items.

Items from every file are read in order, followed by the --item values.
Nothing is written unless every item is valid and the document renders.

Output (-o):
  (empty)         write <BusinessName>_Invoice.pdf in the current directory
  dir/            write the configured file name into dir
  path/name.pdf   write exactly that file
  -               write the PDF to stdout

Examples:
  vat-invoice generate items.json
  vat-invoice generate --item "Milk;2;11.50;15" -o -  > invoice.pdf
  vat-invoice generate items.csv more.xlsx -o out/march.pdf`,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringArrayVar(&inlineItems, "item", nil, `Inline item "description;quantity;price[;vat]" (repeatable)`)
	generateCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output directory, PDF file path, or - for stdout")
	generateCmd.Flags().BoolVar(&noVerify, "no-verify", false, "Skip reading the generated PDF back")
	generateCmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "Generation timeout")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	files, err := collectItemFiles(args)
	if err != nil {
		return err
	}

	sources, err := itemSources(files, inlineItems)
	if err != nil {
		return err
	}

	sink, name, location := outputSink(cmd)
	printVerbose(cmd, "Reading %d item file(s) and %d inline item(s)\n", len(files), len(inlineItems))

	pipeline := processor.NewPipeline(cfg.Letterhead(),
		processor.WithLogger(logger),
		processor.WithVerification(!noVerify),
	)

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	result := pipeline.GenerateFrom(ctx, sources, name, sink)
	if result.Error != nil {
		return result.Error
	}

	printVerbose(cmd, "Generated in %s\n", result.Duration)

	// The PDF itself went to stdout
	if outputPath == "-" {
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ %s: %d item(s), %d page(s), %d bytes, total due %s%s\n",
		location,
		len(result.Computed.Items),
		result.Artifact.Pages,
		result.Artifact.Size,
		cfg.CurrencySymbol,
		result.Computed.Totals.TotalDue.StringFixed(2),
	)
	return nil
}

func collectItemFiles(args []string) ([]string, error) {
	if len(args) == 0 {
		return nil, nil
	}
	files, err := collectFiles(args, itemsource.Supported)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no item files found")
	}
	return files, nil
}

// outputSink maps -o to a sink, the artifact name and a display location
func outputSink(cmd *cobra.Command) (export.Sink, string, string) {
	switch {
	case outputPath == "-":
		return &export.WriterSink{W: cmd.OutOrStdout()}, cfg.OutputFilename, "stdout"
	case outputPath == "":
		sink := export.NewFileSink(".")
		return sink, cfg.OutputFilename, sink.Path(cfg.OutputFilename)
	case isPDF(outputPath):
		name := filepath.Base(outputPath)
		sink := export.NewFileSink(filepath.Dir(outputPath))
		return sink, name, sink.Path(name)
	default:
		sink := export.NewFileSink(outputPath)
		return sink, cfg.OutputFilename, sink.Path(cfg.OutputFilename)
	}
}
