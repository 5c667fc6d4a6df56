package render_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/vat-invoice/internal/calc"
	"github.com/rezonia/vat-invoice/internal/model"
	"github.com/rezonia/vat-invoice/internal/render"
)

func testLetterhead() model.Letterhead {
	return model.Letterhead{
		BusinessName:          "GrocerMax",
		AddressLines:          []string{"21 Ebonywood Avenue, Heuweloord, Pretoria"},
		VATRegistrationNumber: "4290318221",
		ContactLine:           "Email: your@email.com | Phone: [Your Phone]",
		CurrencySymbol:        "R",
		DefaultVATRatePercent: decimal.NewFromInt(15),
	}
}

func items(n int) []model.LineItem {
	out := make([]model.LineItem, n)
	for i := range out {
		out[i] = model.NewLineItem(fmt.Sprintf("Item %d", i+1),
			decimal.NewFromInt(1), decimal.RequireFromString("11.50"), decimal.NewFromInt(15))
	}
	return out
}

func renderItems(t *testing.T, in []model.LineItem) *render.Document {
	t.Helper()
	result := calc.Compute(in)
	doc, err := render.NewRenderer(testLetterhead(), render.DefaultLayout()).Render(result.Items, result.Totals)
	require.NoError(t, err)
	return doc
}

func TestRender_EmptyList(t *testing.T) {
	doc := renderItems(t, nil)

	require.Equal(t, 1, doc.PageCount())
	page := doc.Pages[0]
	assert.True(t, page.HasFooter)
	assert.Equal(t, 1, page.Number)

	assert.Equal(t, []string{
		"GROCERMAX INVOICE",
		"21 Ebonywood Avenue, Heuweloord, Pretoria",
		"VAT No: 4290318221",
		"Email: your@email.com | Phone: [Your Phone]",
		"Description", "Quantity", "Incl. Price", "VAT %", "Exclusive", "Total Incl.",
		"Total Exclusive: R0.00",
		"Total VAT: R0.00",
		"Total Due: R0.00",
	}, page.Texts())
}

func TestRender_HeaderPositions(t *testing.T) {
	doc := renderItems(t, nil)
	ins := doc.Pages[0].Instructions

	assert.Equal(t, render.Instruction{Kind: render.KindText, X: 14, Y: 20, Text: "GROCERMAX INVOICE", FontSize: 18, Bold: true}, ins[0])
	assert.Equal(t, 30.0, ins[1].Y)
	assert.Equal(t, 36.0, ins[2].Y)
	assert.Equal(t, 42.0, ins[3].Y)
	assert.Equal(t, 12.0, ins[3].FontSize)

	// Table header row at the table top
	assert.Equal(t, 55.0, ins[4].Y)
	assert.True(t, ins[4].Fill)
}

func TestRender_MilkRowAndFooter(t *testing.T) {
	in := []model.LineItem{model.NewLineItem("Milk",
		decimal.NewFromInt(2), decimal.RequireFromString("11.50"), decimal.NewFromInt(15))}
	doc := renderItems(t, in)

	require.Equal(t, 1, doc.PageCount())
	texts := doc.Pages[0].Texts()
	assert.Equal(t, []string{"Milk", "2", "R11.50", "15%", "R20.00", "R23.00"}, texts[10:16])
	assert.Equal(t, []string{"Total Exclusive: R20.00", "Total VAT: R3.00", "Total Due: R23.00"}, texts[16:])

	ins := doc.Pages[0].Instructions
	// Row at 63, table ends at 71
	assert.Equal(t, 63.0, ins[10].Y)
	assert.Equal(t, 81.0, ins[16].Y)
	assert.Equal(t, 87.0, ins[17].Y)
	assert.Equal(t, 12.0, ins[17].FontSize)
	assert.Equal(t, 95.0, ins[18].Y)
	assert.Equal(t, 13.0, ins[18].FontSize)
	assert.True(t, ins[18].Bold)
}

func TestRender_OverflowRepeatsTableHeader(t *testing.T) {
	doc := renderItems(t, items(40))

	require.Equal(t, 2, doc.PageCount())
	assert.False(t, doc.Pages[0].HasFooter)
	assert.True(t, doc.Pages[1].HasFooter)

	second := doc.Pages[1].Instructions
	require.GreaterOrEqual(t, len(second), 6)
	for i, header := range []string{"Description", "Quantity", "Incl. Price", "VAT %", "Exclusive", "Total Incl."} {
		assert.Equal(t, header, second[i].Text)
		assert.Equal(t, 14.0, second[i].Y)
		assert.True(t, second[i].Bold)
	}

	// 27 rows on the first page, the remaining 13 continue on the second
	assert.Equal(t, "Item 28", second[6].Text)
	assert.Equal(t, 22.0, second[6].Y)

	// No row crosses the bottom margin
	for _, page := range doc.Pages {
		for _, ins := range page.Instructions {
			assert.LessOrEqual(t, ins.Y+ins.H, 283.0)
		}
	}
}

func TestRender_FooterMovesWhole(t *testing.T) {
	// 25 rows leave less than the footer height on the first page
	doc := renderItems(t, items(25))

	require.Equal(t, 2, doc.PageCount())
	assert.False(t, doc.Pages[0].HasFooter)

	second := doc.Pages[1]
	assert.True(t, second.HasFooter)
	require.Len(t, second.Instructions, 3)
	assert.Equal(t, "Total Exclusive: R250.00", second.Instructions[0].Text)
	assert.Equal(t, 24.0, second.Instructions[0].Y)
	assert.Equal(t, 38.0, second.Instructions[2].Y)
}

func TestRender_FooterStaysWhenItFits(t *testing.T) {
	doc := renderItems(t, items(24))

	require.Equal(t, 1, doc.PageCount())
	assert.True(t, doc.Pages[0].HasFooter)
}

func TestRender_Deterministic(t *testing.T) {
	first := renderItems(t, items(60))
	second := renderItems(t, items(60))

	assert.Equal(t, first, second)
}

func TestRender_BlankDescription(t *testing.T) {
	in := []model.LineItem{model.NewLineItem("",
		decimal.NewFromInt(1), decimal.NewFromInt(100), decimal.Zero)}
	doc := renderItems(t, in)

	texts := doc.Pages[0].Texts()
	assert.Equal(t, []string{"", "1", "R100.00", "0%", "R100.00", "R100.00"}, texts[10:16])
}

// twoMillimetresPerRune is a fixed-pitch stand-in for real font metrics
func twoMillimetresPerRune(text string, size float64, bold bool) float64 {
	return 2 * float64(len([]rune(text)))
}

func renderFitted(t *testing.T, in []model.LineItem) *render.Document {
	t.Helper()
	result := calc.Compute(in)
	r := render.NewRenderer(testLetterhead(), render.DefaultLayout(), render.WithTextWidth(twoMillimetresPerRune))
	doc, err := r.Render(result.Items, result.Totals)
	require.NoError(t, err)
	return doc
}

func TestRender_LongDescriptionIsCut(t *testing.T) {
	in := []model.LineItem{model.NewLineItem("A very long product description that cannot fit",
		decimal.NewFromInt(2), decimal.RequireFromString("11.50"), decimal.NewFromInt(15))}
	doc := renderFitted(t, in)

	texts := doc.Pages[0].Texts()
	// Description column is 52mm with 1mm padding each side: 25 runes at 2mm
	assert.Equal(t, "A very long product de...", texts[10])
	assert.Equal(t, []string{"2", "R11.50", "15%", "R20.00", "R23.00"}, texts[11:16])
}

func TestRender_TextThatFitsIsKept(t *testing.T) {
	exact := "Twenty five runes exactly"
	require.Len(t, []rune(exact), 25)

	in := []model.LineItem{model.NewLineItem(exact,
		decimal.NewFromInt(1), decimal.NewFromInt(1), decimal.Zero)}
	doc := renderFitted(t, in)

	assert.Equal(t, exact, doc.Pages[0].Texts()[10])
}

func TestRender_NoTextWidthKeepsText(t *testing.T) {
	long := "A very long product description that cannot fit"
	in := []model.LineItem{model.NewLineItem(long,
		decimal.NewFromInt(1), decimal.NewFromInt(1), decimal.Zero)}
	doc := renderItems(t, in)

	assert.Equal(t, long, doc.Pages[0].Texts()[10])
}

func TestRender_ImpossibleLayout(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*render.Layout)
		block  string
	}{
		{"page too short", func(l *render.Layout) { l.PageHeight = 60 }, "table"},
		{"table too wide", func(l *render.Layout) { l.Columns[0].Width = 150 }, "table"},
		{"zero row height", func(l *render.Layout) { l.RowHeight = 0 }, "table"},
		{"footer taller than page", func(l *render.Layout) { l.DueOffset = 300; l.PageHeight = 310; l.TableTop = 20 }, "footer"},
		{"missing column", func(l *render.Layout) { l.Columns = l.Columns[:5] }, "table"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			layout := render.DefaultLayout()
			tt.mutate(&layout)

			_, err := render.NewRenderer(testLetterhead(), layout).Render(nil, model.DocumentTotals{})
			require.Error(t, err)

			var rerr *model.RenderError
			require.True(t, errors.As(err, &rerr))
			assert.Equal(t, tt.block, rerr.Block)
		})
	}
}

func TestRender_LetterheadTooTall(t *testing.T) {
	lh := testLetterhead()
	for i := 0; i < 50; i++ {
		lh.AddressLines = append(lh.AddressLines, fmt.Sprintf("Line %d", i))
	}

	_, err := render.NewRenderer(lh, render.DefaultLayout()).Render(nil, model.DocumentTotals{})
	require.Error(t, err)

	var rerr *model.RenderError
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, "header", rerr.Block)
}

func TestRender_LongLetterheadPushesTable(t *testing.T) {
	lh := testLetterhead()
	lh.AddressLines = []string{"Line 1", "Line 2", "Line 3", "Line 4"}

	doc, err := render.NewRenderer(lh, render.DefaultLayout()).Render(nil, model.DocumentTotals{})
	require.NoError(t, err)

	// Header lines at 30..60, table 13mm below the last one
	ins := doc.Pages[0].Instructions
	assert.Equal(t, 60.0, ins[6].Y)
	assert.Equal(t, "Description", ins[7].Text)
	assert.Equal(t, 73.0, ins[7].Y)
}

func BenchmarkRender(b *testing.B) {
	result := calc.Compute(items(200))
	r := render.NewRenderer(testLetterhead(), render.DefaultLayout())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = r.Render(result.Items, result.Totals)
	}
}
