package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rezonia/vat-invoice/internal/itemsource"
	"github.com/rezonia/vat-invoice/internal/model"
	"github.com/rezonia/vat-invoice/internal/processor"
)

var validateCmd = &cobra.Command{
	Use:   "validate [files...]",
	Short: "Validate item files",
	Long: `Validate one or more item files without generating anything.

Checks performed:
  - Every number parses as a decimal
  - Quantity and unit price are not negative
  - VAT rate is between 0 and 100

Examples:
  vat-invoice validate items.json
  vat-invoice validate items/ -f table`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	files, err := collectFiles(args, itemsource.Supported)
	if err != nil {
		return err
	}

	if len(files) == 0 {
		return fmt.Errorf("no files found to validate")
	}

	pipeline := processor.NewPipeline(cfg.Letterhead(), processor.WithLogger(logger))
	results := make([]*ValidationResult, 0, len(files))
	allValid := true

	for _, file := range files {
		result := validateFile(cmd, pipeline, file)
		results = append(results, result)

		if !result.Valid {
			allValid = false
		}
	}

	out := cmd.OutOrStdout()

	// Output results
	if outputFormat == "json" {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(results); err != nil {
			return err
		}
	} else {
		for _, r := range results {
			if r.Valid {
				fmt.Fprintf(out, "✓ %s: VALID (%d items)\n", r.File, r.Items)
				continue
			}
			fmt.Fprintf(out, "✗ %s: INVALID\n", r.File)
			for _, e := range r.Errors {
				fmt.Fprintf(out, "  - %s\n", e)
			}
		}
	}

	if !allValid {
		return fmt.Errorf("validation failed for some files")
	}

	return nil
}

func validateFile(cmd *cobra.Command, pipeline *processor.Pipeline, filePath string) *ValidationResult {
	result := &ValidationResult{
		File:   filePath,
		Valid:  true,
		Errors: []string{},
	}

	src, err := itemsource.Open(filePath, cfg.DefaultVATRatePercent)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	items, err := src.Items(cmd.Context())
	if err == nil {
		result.Items = len(items)
		err = pipeline.Compute(cmd.Context(), items).Error
	}
	if err == nil {
		return result
	}

	result.Valid = false
	var verr *model.ValidationError
	if errors.As(err, &verr) {
		for _, v := range verr.Violations {
			result.Errors = append(result.Errors, v.String())
		}
	} else {
		result.Errors = append(result.Errors, err.Error())
	}

	return result
}

// ValidationResult holds the result of validating a single file
type ValidationResult struct {
	File   string   `json:"file"`
	Valid  bool     `json:"valid"`
	Items  int      `json:"items"`
	Errors []string `json:"errors,omitempty"`
}
