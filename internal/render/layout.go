package render

import (
	"fmt"

	"github.com/rezonia/vat-invoice/internal/model"
)

// Column is one table column
type Column struct {
	Header string
	Width  float64
	Align  string // L, C, R
}

// Layout holds every position and size the renderer uses, in millimetres and points.
type Layout struct {
	PageWidth    float64
	PageHeight   float64
	MarginLeft   float64
	MarginTop    float64
	MarginBottom float64

	// Header block, first page only
	TitleY            float64
	HeaderLineY       float64
	HeaderLineSpacing float64
	HeaderTableGap    float64 // minimum distance between last header line and the table

	// Table
	TableTop    float64
	RowHeight   float64
	CellPadding float64 // horizontal inset of cell text on each side
	Columns     []Column

	// Footer offsets measured from the table end
	FooterGap         float64
	FooterLineSpacing float64
	DueOffset         float64

	// Font sizes in points
	TitleSize float64
	BodySize  float64
	TableSize float64
	DueSize   float64
}

// Table column indexes
const (
	ColDescription = iota
	ColQuantity
	ColInclPrice
	ColVATRate
	ColExclusive
	ColTotalIncl
	columnCount
)

// DefaultLayout returns an A4 portrait layout
func DefaultLayout() Layout {
	return Layout{
		PageWidth:    210,
		PageHeight:   297,
		MarginLeft:   14,
		MarginTop:    14,
		MarginBottom: 14,

		TitleY:            20,
		HeaderLineY:       30,
		HeaderLineSpacing: 6,
		HeaderTableGap:    13,

		TableTop:    55,
		RowHeight:   8,
		CellPadding: 1,
		Columns: []Column{
			{Header: "Description", Width: 52, Align: "L"},
			{Header: "Quantity", Width: 22, Align: "R"},
			{Header: "Incl. Price", Width: 28, Align: "R"},
			{Header: "VAT %", Width: 20, Align: "R"},
			{Header: "Exclusive", Width: 30, Align: "R"},
			{Header: "Total Incl.", Width: 30, Align: "R"},
		},

		FooterGap:         10,
		FooterLineSpacing: 6,
		DueOffset:         24,

		TitleSize: 18,
		BodySize:  12,
		TableSize: 10,
		DueSize:   13,
	}
}

// ContentBottom is the lowest y any block may reach
func (l Layout) ContentBottom() float64 {
	return l.PageHeight - l.MarginBottom
}

// TableWidth is the sum of the column widths
func (l Layout) TableWidth() float64 {
	var w float64
	for _, c := range l.Columns {
		w += c.Width
	}
	return w
}

// Validate reports a RenderError when the layout cannot hold the blocks it must place
func (l Layout) Validate() error {
	if l.PageWidth <= 0 || l.PageHeight <= 0 {
		return model.NewRenderError("page", fmt.Sprintf("invalid page size %gx%g", l.PageWidth, l.PageHeight))
	}
	if l.RowHeight <= 0 {
		return model.NewRenderError("table", "row height must be positive")
	}
	if len(l.Columns) != columnCount {
		return model.NewRenderError("table", fmt.Sprintf("expected %d columns, got %d", columnCount, len(l.Columns)))
	}
	if l.MarginLeft+l.TableWidth() > l.PageWidth {
		return model.NewRenderError("table", fmt.Sprintf("table width %g does not fit page width %g", l.TableWidth(), l.PageWidth))
	}

	bottom := l.ContentBottom()
	if l.TableTop+2*l.RowHeight > bottom {
		return model.NewRenderError("table", "first page cannot hold the header row and one item row")
	}
	if l.MarginTop+2*l.RowHeight > bottom {
		return model.NewRenderError("table", "continuation page cannot hold the header row and one item row")
	}
	if l.MarginTop+l.DueOffset > bottom {
		return model.NewRenderError("footer", "totals footer does not fit on an empty page")
	}
	return nil
}
