package itemsource

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rezonia/vat-invoice/internal/model"
)

// XML structures. Both a bare <Items> root and an <Invoice> wrapping <Items> are accepted.
type xmlInvoice struct {
	Items xmlItems `xml:"Items"`
}

type xmlItems struct {
	Items []xmlItem `xml:"Item"`
}

type xmlItem struct {
	Description    string `xml:"Description"`
	ItemName       string `xml:"ItemName"`
	Quantity       string `xml:"Quantity"`
	UnitPrice      string `xml:"UnitPrice"`
	VATRatePercent string `xml:"VATRatePercent"`
	TaxRatePercent string `xml:"TaxRatePercent"`
}

// XMLSource reads <Item> elements with VAT-inclusive unit prices
type XMLSource struct {
	Data       []byte
	DefaultVAT decimal.Decimal
}

// Items implements Source
func (s *XMLSource) Items(ctx context.Context) ([]model.LineItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := s.decode()
	if err != nil {
		return nil, err
	}

	list := model.NewItemList(s.DefaultVAT)
	verr := &model.ValidationError{}

	for _, it := range raw {
		idx := list.Append()

		desc := it.Description
		if strings.TrimSpace(desc) == "" {
			desc = it.ItemName
		}
		rate := it.VATRatePercent
		if strings.TrimSpace(rate) == "" {
			rate = it.TaxRatePercent
		}

		cells := []struct {
			field model.Field
			value string
		}{
			{model.FieldDescription, strings.TrimSpace(desc)},
			{model.FieldQuantity, it.Quantity},
			{model.FieldUnitPrice, it.UnitPrice},
			{model.FieldVATRate, rate},
		}
		for _, c := range cells {
			if c.field != model.FieldDescription && strings.TrimSpace(c.value) == "" {
				continue
			}
			if err := list.Update(idx, c.field, c.value); err != nil {
				var fieldErr *model.ValidationError
				if !errors.As(err, &fieldErr) {
					return nil, err
				}
				verr.Violations = append(verr.Violations, fieldErr.Violations...)
			}
		}
	}

	if len(verr.Violations) > 0 {
		return nil, verr
	}
	return list.Snapshot(), nil
}

func (s *XMLSource) decode() ([]xmlItem, error) {
	dec := xml.NewDecoder(bytes.NewReader(s.Data))
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("parse xml: no root element: %w", err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		switch start.Name.Local {
		case "Items":
			var items xmlItems
			if err := dec.DecodeElement(&items, &start); err != nil {
				return nil, fmt.Errorf("parse xml: %w", err)
			}
			return items.Items, nil
		case "Invoice":
			var inv xmlInvoice
			if err := dec.DecodeElement(&inv, &start); err != nil {
				return nil, fmt.Errorf("parse xml: %w", err)
			}
			return inv.Items.Items, nil
		default:
			return nil, fmt.Errorf("parse xml: unexpected root <%s>, want <Items> or <Invoice>", start.Name.Local)
		}
	}
}
