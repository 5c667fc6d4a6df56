package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rezonia/vat-invoice/internal/server"
)

var (
	serverAddr   string
	serverDebug  bool
	readTimeout  time.Duration
	writeTimeout time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start an HTTP API server for generating invoices.

The API provides endpoints for:
  - POST /api/v1/invoices          - Generate a PDF invoice
  - POST /api/v1/invoices/compute  - Compute amounts and totals as JSON
  - POST /api/v1/validate          - Validate items
  - GET  /health                   - Health check

Request bodies are a JSON array of items or {"items": [...]}.

Examples:
  # Start server on default port
  vat-invoice serve

  # Start on a custom port with a custom letterhead
  vat-invoice serve --address :9090 --config shop.yaml

  # Start in debug mode
  vat-invoice serve --debug`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serverAddr, "address", ":8080", "Server listen address")
	serveCmd.Flags().BoolVar(&serverDebug, "debug", false, "Enable debug mode")
	serveCmd.Flags().DurationVar(&readTimeout, "read-timeout", 30*time.Second, "HTTP read timeout")
	serveCmd.Flags().DurationVar(&writeTimeout, "write-timeout", time.Minute, "HTTP write timeout")
	serveCmd.Flags().BoolVar(&noVerify, "no-verify", false, "Skip reading generated PDFs back")
}

func runServe(cmd *cobra.Command, args []string) error {
	config := &server.Config{
		Address:      serverAddr,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		Debug:        serverDebug,
		Letterhead:   cfg.Letterhead(),
		Filename:     cfg.OutputFilename,
		Verify:       !noVerify,
		Logger:       logger.Level(serveLevel()),
	}

	srv := server.NewServer(config)

	// Handle graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		fmt.Fprintln(cmd.OutOrStdout(), "\nShutting down server...")
		os.Exit(0)
	}()

	fmt.Fprintf(cmd.OutOrStdout(), "Starting server on %s\n", serverAddr)
	fmt.Fprintf(cmd.OutOrStdout(), "Issuer: %s (default VAT %s%%)\n", cfg.BusinessName, cfg.DefaultVATRatePercent)

	return srv.Run()
}

// serveLevel keeps request logs visible without --verbose
func serveLevel() zerolog.Level {
	if verbose {
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}
