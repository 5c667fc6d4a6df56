package invoicelib

import (
	"context"
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"github.com/rezonia/vat-invoice/internal/itemsource"
)

// Format identifies an item document format
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatXML  Format = "xml"
)

// ParseItems reads line items in the given format.
// Items without a VAT rate get defaultVAT.
func ParseItems(ctx context.Context, r io.Reader, format Format, defaultVAT decimal.Decimal) ([]LineItem, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read items: %w", err)
	}

	var src itemsource.Source
	switch format {
	case FormatJSON:
		src = &itemsource.JSONSource{Data: data, DefaultVAT: defaultVAT}
	case FormatCSV:
		src = &itemsource.CSVSource{Data: data, DefaultVAT: defaultVAT}
	case FormatXLSX:
		src = &itemsource.XLSXSource{Data: data, DefaultVAT: defaultVAT}
	case FormatXML:
		src = &itemsource.XMLSource{Data: data, DefaultVAT: defaultVAT}
	default:
		return nil, fmt.Errorf("unsupported item format: %s", format)
	}

	return src.Items(ctx)
}

// ParseInline parses "description;quantity;price[;vat]" specs
func ParseInline(ctx context.Context, specs []string, defaultVAT decimal.Decimal) ([]LineItem, error) {
	src := &itemsource.InlineSource{Specs: specs, DefaultVAT: defaultVAT}
	return src.Items(ctx)
}
