// Package processor chains validation, computation, rendering and export
// into one generation request.
package processor

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/rezonia/vat-invoice/internal/calc"
	"github.com/rezonia/vat-invoice/internal/export"
	"github.com/rezonia/vat-invoice/internal/itemsource"
	"github.com/rezonia/vat-invoice/internal/model"
	"github.com/rezonia/vat-invoice/internal/render"
	"github.com/rezonia/vat-invoice/internal/validate"
)

// Stage names a pipeline step
type Stage string

const (
	StageRead     Stage = "read"
	StageValidate Stage = "validate"
	StageCompute  Stage = "compute"
	StageRender   Stage = "render"
	StageExport   Stage = "export"
)

// Result is the outcome of one request.
// Stage is the last stage attempted; when Error is set it is the failed one.
type Result struct {
	Computed *calc.Result
	Document *render.Document
	Artifact *export.Artifact
	Stage    Stage
	Duration time.Duration
	Error    error
}

// Pipeline runs generation requests. It holds no per-request state and is
// safe for concurrent use.
type Pipeline struct {
	letterhead model.Letterhead
	layout     render.Layout
	validator  *validate.Validator
	exporter   *export.Exporter
	verify     bool
	logger     zerolog.Logger
}

// PipelineOption configures the pipeline
type PipelineOption func(*Pipeline)

// WithLayout overrides the page layout
func WithLayout(layout render.Layout) PipelineOption {
	return func(p *Pipeline) {
		p.layout = layout
	}
}

// WithLogger sets the logger
func WithLogger(logger zerolog.Logger) PipelineOption {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithVerification toggles the read-back check of generated PDFs
func WithVerification(enabled bool) PipelineOption {
	return func(p *Pipeline) {
		p.verify = enabled
	}
}

// WithExporter replaces the exporter; WithVerification is then ignored
func WithExporter(e *export.Exporter) PipelineOption {
	return func(p *Pipeline) {
		p.exporter = e
	}
}

// NewPipeline creates a pipeline for one issuer
func NewPipeline(letterhead model.Letterhead, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		letterhead: letterhead,
		layout:     render.DefaultLayout(),
		validator:  validate.New(),
		verify:     true,
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.exporter == nil {
		p.exporter = export.NewExporter(
			export.WithVerification(p.verify),
			export.WithLogger(p.logger),
		)
	}
	return p
}

// Letterhead returns the issuer block
func (p *Pipeline) Letterhead() model.Letterhead {
	return p.letterhead
}

// Compute validates items and derives the amounts and totals
func (p *Pipeline) Compute(ctx context.Context, items []model.LineItem) *Result {
	start := time.Now()
	result := &Result{}
	p.compute(ctx, items, result)
	return p.finish(result, start)
}

// Render validates, computes and lays out items without serializing
func (p *Pipeline) Render(ctx context.Context, items []model.LineItem) *Result {
	start := time.Now()
	result := &Result{}
	if p.compute(ctx, items, result) {
		p.render(result)
	}
	return p.finish(result, start)
}

// Generate runs every stage and delivers the PDF to sink under name.
// Nothing reaches the sink unless every earlier stage succeeded.
func (p *Pipeline) Generate(ctx context.Context, items []model.LineItem, name string, sink export.Sink) *Result {
	start := time.Now()
	result := &Result{}
	if p.compute(ctx, items, result) && p.render(result) {
		p.export(ctx, name, sink, result)
	}
	return p.finish(result, start)
}

// GenerateFrom reads items from src and then behaves like Generate
func (p *Pipeline) GenerateFrom(ctx context.Context, src itemsource.Source, name string, sink export.Sink) *Result {
	start := time.Now()

	result := &Result{Stage: StageRead}
	items, err := src.Items(ctx)
	if err != nil {
		result.Error = err
		return p.finish(result, start)
	}

	if p.compute(ctx, items, result) && p.render(result) {
		p.export(ctx, name, sink, result)
	}
	return p.finish(result, start)
}

func (p *Pipeline) compute(ctx context.Context, items []model.LineItem, result *Result) bool {
	result.Stage = StageValidate
	if err := ctx.Err(); err != nil {
		result.Error = err
		return false
	}

	snapshot := make([]model.LineItem, len(items))
	copy(snapshot, items)

	valid, err := p.validator.Validate(snapshot)
	if err != nil {
		result.Error = err
		return false
	}

	result.Stage = StageCompute
	result.Computed = calc.Compute(valid)

	p.logger.Debug().
		Str("stage", string(StageCompute)).
		Int("items", len(valid)).
		Str("total_due", result.Computed.Totals.TotalDue.StringFixed(2)).
		Msg("items computed")
	return true
}

func (p *Pipeline) render(result *Result) bool {
	result.Stage = StageRender

	r := render.NewRenderer(p.letterhead, p.layout, render.WithTextWidth(export.TextWidth))
	doc, err := r.Render(result.Computed.Items, result.Computed.Totals)
	if err != nil {
		result.Error = err
		return false
	}
	result.Document = doc

	p.logger.Debug().
		Str("stage", string(StageRender)).
		Int("pages", doc.PageCount()).
		Msg("document rendered")
	return true
}

func (p *Pipeline) export(ctx context.Context, name string, sink export.Sink, result *Result) bool {
	result.Stage = StageExport

	artifact, err := p.exporter.Export(ctx, result.Document, name, sink)
	if err != nil {
		result.Error = err
		return false
	}
	result.Artifact = artifact
	return true
}

func (p *Pipeline) finish(result *Result, start time.Time) *Result {
	result.Duration = time.Since(start)
	if result.Error != nil {
		p.logger.Error().
			Err(result.Error).
			Str("stage", string(result.Stage)).
			Msg("invoice generation failed")
	}
	return result
}
