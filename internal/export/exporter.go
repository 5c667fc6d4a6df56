// Package export serializes a rendered document to PDF and delivers it to a sink.
package export

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/rs/zerolog"
	"golang.org/x/text/encoding/charmap"

	"github.com/rezonia/vat-invoice/internal/model"
	"github.com/rezonia/vat-invoice/internal/render"
)

const (
	fontFamily = "Helvetica"
	creator    = "vat-invoice"
)

// DefaultCreationDate is stamped into every document so output never depends on the clock
var DefaultCreationDate = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// headerFill is the table header background (light grey)
var headerFill = [3]int{220, 220, 220}

// Artifact describes a delivered document
type Artifact struct {
	Name  string `json:"name"`
	Size  int    `json:"size"`
	Pages int    `json:"pages"`
}

// Exporter turns a render.Document into PDF bytes and hands them to a Sink
type Exporter struct {
	verify       bool
	creationDate time.Time
	logger       zerolog.Logger
}

// Option configures the exporter
type Option func(*Exporter)

// WithVerification toggles the pdfcpu read-back check after serialization
func WithVerification(enabled bool) Option {
	return func(e *Exporter) {
		e.verify = enabled
	}
}

// WithCreationDate overrides the fixed creation and modification date
func WithCreationDate(t time.Time) Option {
	return func(e *Exporter) {
		e.creationDate = t
	}
}

// WithLogger sets the logger
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Exporter) {
		e.logger = logger
	}
}

// NewExporter creates an exporter; verification is on by default
func NewExporter(opts ...Option) *Exporter {
	e := &Exporter{
		verify:       true,
		creationDate: DefaultCreationDate,
		logger:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Export serializes doc and delivers it under name.
// The sink receives the complete document or nothing.
func (e *Exporter) Export(ctx context.Context, doc *render.Document, name string, sink Sink) (*Artifact, error) {
	data, err := e.Serialize(doc)
	if err != nil {
		return nil, err
	}

	if e.verify {
		pages, err := PageCount(data)
		if err != nil {
			return nil, model.NewExportError(model.ExportStageVerify, "generated PDF cannot be read back", err)
		}
		if pages != doc.PageCount() {
			return nil, model.NewExportError(model.ExportStageVerify,
				fmt.Sprintf("generated PDF has %d pages, rendered document has %d", pages, doc.PageCount()), nil)
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, model.NewExportError(model.ExportStageDeliver, "request cancelled before delivery", err)
	}

	if err := sink.Deliver(ctx, name, data); err != nil {
		return nil, model.NewExportError(model.ExportStageDeliver, "sink rejected "+name, err)
	}

	e.logger.Debug().
		Str("name", name).
		Int("bytes", len(data)).
		Int("pages", doc.PageCount()).
		Msg("document delivered")

	return &Artifact{
		Name:  name,
		Size:  len(data),
		Pages: doc.PageCount(),
	}, nil
}

// Serialize draws every instruction of doc into a PDF
func (e *Exporter) Serialize(doc *render.Document) ([]byte, error) {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           gofpdf.SizeType{Wd: doc.PageWidth, Ht: doc.PageHeight},
	})
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreationDate(e.creationDate)
	pdf.SetModificationDate(e.creationDate)
	pdf.SetCatalogSort(true)
	pdf.SetTitle(doc.Title, true)
	pdf.SetAuthor(doc.Author, true)
	pdf.SetCreator(creator, false)
	pdf.SetFillColor(headerFill[0], headerFill[1], headerFill[2])

	for _, page := range doc.Pages {
		pdf.AddPage()
		for i, ins := range page.Instructions {
			if err := drawInstruction(pdf, ins); err != nil {
				return nil, model.NewExportError(model.ExportStageSerialize,
					fmt.Sprintf("page %d instruction %d", page.Number, i+1), err)
			}
		}
	}

	if err := pdf.Error(); err != nil {
		return nil, model.NewExportError(model.ExportStageSerialize, "pdf generation failed", err)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, model.NewExportError(model.ExportStageSerialize, "pdf output failed", err)
	}
	return buf.Bytes(), nil
}

func drawInstruction(pdf *gofpdf.Fpdf, ins render.Instruction) error {
	text, err := encodeText(ins.Text)
	if err != nil {
		return err
	}

	style := ""
	if ins.Bold {
		style = "B"
	}
	pdf.SetFont(fontFamily, style, ins.FontSize)

	switch ins.Kind {
	case render.KindText:
		pdf.Text(ins.X, ins.Y, text)
	case render.KindCell:
		border := ""
		if ins.Border {
			border = "1"
		}
		pdf.SetXY(ins.X, ins.Y)
		pdf.CellFormat(ins.W, ins.H, text, border, 0, ins.Align, ins.Fill, 0, "")
	default:
		return fmt.Errorf("unsupported instruction kind %q", ins.Kind)
	}
	return nil
}

// encodeText converts UTF-8 to the Windows-1252 bytes the core fonts expect
func encodeText(s string) (string, error) {
	out, err := charmap.Windows1252.NewEncoder().String(s)
	if err != nil {
		return "", fmt.Errorf("text %q has characters the document font cannot represent: %w", s, err)
	}
	return out, nil
}
