package invoicelib

import (
	"context"
	"io"

	"github.com/rs/zerolog"

	"github.com/rezonia/vat-invoice/internal/calc"
	"github.com/rezonia/vat-invoice/internal/config"
	"github.com/rezonia/vat-invoice/internal/export"
	"github.com/rezonia/vat-invoice/internal/processor"
)

// Options configures a Generator
type Options struct {
	Letterhead Letterhead
	Filename   string // artifact name used by GenerateFile
	Verify     bool   // read the PDF back and check its page count
	Logger     zerolog.Logger
}

// DefaultOptions returns the built-in letterhead with verification enabled
func DefaultOptions() Options {
	cfg := config.Default()
	return Options{
		Letterhead: cfg.Letterhead(),
		Filename:   cfg.OutputFilename,
		Verify:     true,
		Logger:     zerolog.Nop(),
	}
}

// OptionsFromConfig loads a letterhead config file (yaml, json or toml)
func OptionsFromConfig(path string) (Options, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return Options{}, err
	}
	opts := DefaultOptions()
	opts.Letterhead = cfg.Letterhead()
	opts.Filename = cfg.OutputFilename
	return opts, nil
}

// ComputeResult holds computed lines and document totals
type ComputeResult struct {
	Items  []ComputedLineItem
	Totals DocumentTotals
}

// Generator computes and renders invoices. It is safe for concurrent use.
type Generator struct {
	pipeline *processor.Pipeline
	options  Options
}

// NewGenerator creates a generator with the given options
func NewGenerator(opts Options) *Generator {
	pipeline := processor.NewPipeline(opts.Letterhead,
		processor.WithLogger(opts.Logger),
		processor.WithVerification(opts.Verify),
	)

	return &Generator{
		pipeline: pipeline,
		options:  opts,
	}
}

// NewDefaultGenerator creates a generator with default options
func NewDefaultGenerator() *Generator {
	return NewGenerator(DefaultOptions())
}

// Compute validates items and returns the derived amounts
func (g *Generator) Compute(ctx context.Context, items []LineItem) (*ComputeResult, error) {
	result := g.pipeline.Compute(ctx, items)
	if result.Error != nil {
		return nil, result.Error
	}
	return newComputeResult(result.Computed), nil
}

// Generate writes the complete PDF to w
func (g *Generator) Generate(ctx context.Context, items []LineItem, w io.Writer) (*Artifact, error) {
	result := g.pipeline.Generate(ctx, items, g.options.Filename, &export.WriterSink{W: w})
	if result.Error != nil {
		return nil, result.Error
	}
	return result.Artifact, nil
}

// GenerateBytes returns the PDF in memory
func (g *Generator) GenerateBytes(ctx context.Context, items []LineItem) ([]byte, error) {
	sink := &export.MemorySink{}
	result := g.pipeline.Generate(ctx, items, g.options.Filename, sink)
	if result.Error != nil {
		return nil, result.Error
	}
	return sink.Bytes(), nil
}

// GenerateFile writes the PDF into dir under the configured file name and returns its path.
// A failed run leaves no file behind.
func (g *Generator) GenerateFile(ctx context.Context, items []LineItem, dir string) (string, error) {
	sink := export.NewFileSink(dir)
	result := g.pipeline.Generate(ctx, items, g.options.Filename, sink)
	if result.Error != nil {
		return "", result.Error
	}
	return sink.Path(result.Artifact.Name), nil
}

// GenerateBatch generates one PDF per item list concurrently.
// Results keep input order; the first error is returned.
func (g *Generator) GenerateBatch(ctx context.Context, batches [][]LineItem) ([][]byte, error) {
	results := make([][]byte, len(batches))
	errCh := make(chan error, len(batches))

	for i, items := range batches {
		go func(idx int, items []LineItem) {
			data, err := g.GenerateBytes(ctx, items)
			if err != nil {
				errCh <- err
				return
			}
			results[idx] = data
			errCh <- nil
		}(i, items)
	}

	// Wait for all goroutines
	var firstErr error
	for range batches {
		if err := <-errCh; err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return results, firstErr
}

func newComputeResult(r *calc.Result) *ComputeResult {
	return &ComputeResult{
		Items:  r.Items,
		Totals: r.Totals,
	}
}
