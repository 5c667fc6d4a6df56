package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/rezonia/vat-invoice/internal/export"
)

var infoCmd = &cobra.Command{
	Use:   "info [files...]",
	Short: "Show information about generated PDF files",
	Long: `Display information about PDF files.

Shows:
  - File size and modification time
  - Page count, read with pdfcpu

Examples:
  vat-invoice info GrocerMax_Invoice.pdf
  vat-invoice info out/`,
	Args: cobra.MinimumNArgs(1),
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	files, err := collectFiles(args, isPDF)
	if err != nil {
		return err
	}

	if len(files) == 0 {
		return fmt.Errorf("no files found")
	}

	out := cmd.OutOrStdout()
	for _, file := range files {
		printFileInfo(out, file)
		fmt.Fprintln(out)
	}

	return nil
}

func printFileInfo(w io.Writer, filePath string) {
	fmt.Fprintf(w, "File: %s\n", filePath)

	// Get file info
	info, err := os.Stat(filePath)
	if err != nil {
		fmt.Fprintf(w, "  Error: %v\n", err)
		return
	}

	fmt.Fprintf(w, "  Size: %d bytes\n", info.Size())
	fmt.Fprintf(w, "  Modified: %s\n", info.ModTime().Format("2006-01-02 15:04:05"))

	data, err := os.ReadFile(filePath)
	if err != nil {
		fmt.Fprintf(w, "  Error reading file: %v\n", err)
		return
	}

	pages, err := export.PageCount(data)
	if err != nil {
		fmt.Fprintf(w, "  Format: not a readable PDF (%v)\n", err)
		return
	}
	fmt.Fprintf(w, "  Format: PDF\n")
	fmt.Fprintf(w, "  Pages: %d\n", pages)
}
