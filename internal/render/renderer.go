// Package render lays out computed invoice lines into paginated draw instructions.
//
// Rendering is a pure function of the computed items, the totals, the
// letterhead and the layout: the same inputs always give the same pages and
// coordinates.
package render

import (
	"strings"

	"github.com/rezonia/vat-invoice/internal/decimal"
	"github.com/rezonia/vat-invoice/internal/model"
)

// TextWidthFunc returns the drawn width of text in millimetres
type TextWidthFunc func(text string, size float64, bold bool) float64

// Ellipsis marks a cell text cut to fit its column
const Ellipsis = "..."

// Renderer turns computed lines into a Document
type Renderer struct {
	letterhead model.Letterhead
	layout     Layout
	textWidth  TextWidthFunc
}

// Option configures a Renderer
type Option func(*Renderer)

// WithTextWidth enables fitting cell text to its column.
// Without it cell text is placed as is.
func WithTextWidth(fn TextWidthFunc) Option {
	return func(r *Renderer) {
		r.textWidth = fn
	}
}

// NewRenderer creates a renderer for the given letterhead and layout
func NewRenderer(letterhead model.Letterhead, layout Layout, opts ...Option) *Renderer {
	r := &Renderer{
		letterhead: letterhead,
		layout:     layout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Title returns the document title printed at the top of the first page
func Title(lh model.Letterhead) string {
	return strings.ToUpper(strings.TrimSpace(lh.BusinessName)) + " INVOICE"
}

// HeaderLines returns the letterhead lines below the title, skipping empty ones
func HeaderLines(lh model.Letterhead) []string {
	lines := make([]string, 0, len(lh.AddressLines)+2)
	for _, l := range lh.AddressLines {
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}
	if lh.VATRegistrationNumber != "" {
		lines = append(lines, "VAT No: "+lh.VATRegistrationNumber)
	}
	if lh.ContactLine != "" {
		lines = append(lines, lh.ContactLine)
	}
	return lines
}

// layoutState tracks the page being filled and the next free y
type layoutState struct {
	doc  *Document
	page *Page
	y    float64
}

func (s *layoutState) newPage() {
	s.doc.Pages = append(s.doc.Pages, Page{Number: len(s.doc.Pages) + 1})
	s.page = &s.doc.Pages[len(s.doc.Pages)-1]
}

func (s *layoutState) add(ins Instruction) {
	s.page.Instructions = append(s.page.Instructions, ins)
}

// Render lays out the header, the table and the totals footer
func (r *Renderer) Render(items []model.ComputedLineItem, totals model.DocumentTotals) (*Document, error) {
	l := r.layout
	if err := l.Validate(); err != nil {
		return nil, err
	}

	st := &layoutState{
		doc: &Document{
			Title:      Title(r.letterhead),
			Author:     r.letterhead.BusinessName,
			PageWidth:  l.PageWidth,
			PageHeight: l.PageHeight,
		},
	}
	st.newPage()

	tableTop, err := r.header(st)
	if err != nil {
		return nil, err
	}

	bottom := l.ContentBottom()
	st.y = tableTop
	r.tableHeader(st)

	for _, item := range items {
		if st.y+l.RowHeight > bottom {
			st.newPage()
			st.y = l.MarginTop
			r.tableHeader(st)
		}
		r.row(st, item)
	}

	// The footer is never split: move it whole when it does not fit
	if st.y+l.DueOffset > bottom {
		st.newPage()
		st.y = l.MarginTop
	}
	r.footer(st, totals)

	return st.doc, nil
}

func (r *Renderer) header(st *layoutState) (float64, error) {
	l := r.layout
	x := l.MarginLeft

	st.add(Instruction{Kind: KindText, X: x, Y: l.TitleY, Text: Title(r.letterhead), FontSize: l.TitleSize, Bold: true})

	last := l.TitleY
	y := l.HeaderLineY
	for _, line := range HeaderLines(r.letterhead) {
		st.add(Instruction{Kind: KindText, X: x, Y: y, Text: line, FontSize: l.BodySize})
		last = y
		y += l.HeaderLineSpacing
	}

	tableTop := l.TableTop
	if below := last + l.HeaderTableGap; below > tableTop {
		tableTop = below
	}
	if tableTop+2*l.RowHeight > l.ContentBottom() {
		return 0, model.NewRenderError("header", "letterhead leaves no room for the table on the first page")
	}
	return tableTop, nil
}

func (r *Renderer) tableHeader(st *layoutState) {
	l := r.layout
	x := l.MarginLeft
	for _, col := range l.Columns {
		st.add(Instruction{
			Kind: KindCell, X: x, Y: st.y, W: col.Width, H: l.RowHeight,
			Text: col.Header, FontSize: l.TableSize, Bold: true,
			Align: "C", Border: true, Fill: true,
		})
		x += col.Width
	}
	st.y += l.RowHeight
}

// Cells formats one computed line into the table's column texts
func Cells(item model.ComputedLineItem, currency string) []string {
	cells := make([]string, columnCount)
	cells[ColDescription] = item.Description
	cells[ColQuantity] = decimal.FormatQuantity(item.Quantity)
	cells[ColInclPrice] = decimal.FormatMoney(currency, item.UnitPriceInclusive)
	cells[ColVATRate] = decimal.FormatPercent(item.VATRatePercent)
	cells[ColExclusive] = decimal.FormatMoney(currency, item.ExclusiveAmount)
	cells[ColTotalIncl] = decimal.FormatMoney(currency, item.InclusiveTotal)
	return cells
}

func (r *Renderer) row(st *layoutState, item model.ComputedLineItem) {
	l := r.layout
	x := l.MarginLeft
	for i, text := range Cells(item, r.letterhead.CurrencySymbol) {
		col := l.Columns[i]
		st.add(Instruction{
			Kind: KindCell, X: x, Y: st.y, W: col.Width, H: l.RowHeight,
			Text: r.fit(text, col.Width-2*l.CellPadding, l.TableSize), FontSize: l.TableSize,
			Align: col.Align, Border: true,
		})
		x += col.Width
	}
	st.y += l.RowHeight
}

// fit cuts text at a rune boundary and appends Ellipsis until it fits width
func (r *Renderer) fit(text string, width, size float64) string {
	if r.textWidth == nil || r.textWidth(text, size, false) <= width {
		return text
	}

	runes := []rune(text)
	for n := len(runes) - 1; n > 0; n-- {
		cut := strings.TrimRight(string(runes[:n]), " ") + Ellipsis
		if r.textWidth(cut, size, false) <= width {
			return cut
		}
	}
	return Ellipsis
}

// FooterLines returns the three totals lines
func FooterLines(totals model.DocumentTotals, currency string) []string {
	return []string{
		"Total Exclusive: " + decimal.FormatMoney(currency, totals.TotalExclusive),
		"Total VAT: " + decimal.FormatMoney(currency, totals.TotalVAT),
		"Total Due: " + decimal.FormatMoney(currency, totals.TotalDue),
	}
}

func (r *Renderer) footer(st *layoutState, totals model.DocumentTotals) {
	l := r.layout
	x := l.MarginLeft
	lines := FooterLines(totals, r.letterhead.CurrencySymbol)

	st.add(Instruction{Kind: KindText, X: x, Y: st.y + l.FooterGap, Text: lines[0], FontSize: l.BodySize})
	st.add(Instruction{Kind: KindText, X: x, Y: st.y + l.FooterGap + l.FooterLineSpacing, Text: lines[1], FontSize: l.BodySize})
	st.add(Instruction{Kind: KindText, X: x, Y: st.y + l.DueOffset, Text: lines[2], FontSize: l.DueSize, Bold: true})

	st.page.HasFooter = true
	st.y += l.DueOffset
}
