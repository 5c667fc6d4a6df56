package itemsource

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rezonia/vat-invoice/internal/model"
)

// JSONItem is the wire form of a line item.
// Missing numbers take the same defaults as a freshly appended row.
type JSONItem struct {
	Description        string           `json:"description"`
	Quantity           *decimal.Decimal `json:"quantity,omitempty"`
	UnitPriceInclusive *decimal.Decimal `json:"unit_price_inclusive,omitempty"`
	VATRatePercent     *decimal.Decimal `json:"vat_rate_percent,omitempty"`
}

// Document is the object form: {"items": [...]}
type Document struct {
	Items []JSONItem `json:"items"`
}

// JSONSource reads either a bare array of items or a Document
type JSONSource struct {
	Data       []byte
	DefaultVAT decimal.Decimal
}

// Items implements Source
func (s *JSONSource) Items(ctx context.Context) ([]model.LineItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return DecodeJSON(s.Data, s.DefaultVAT)
}

// DecodeJSON decodes an item array or a Document
func DecodeJSON(data []byte, defaultVAT decimal.Decimal) ([]model.LineItem, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty item document")
	}

	var raw []JSONItem
	switch trimmed[0] {
	case '[':
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return nil, fmt.Errorf("decode item array: %w", err)
		}
	case '{':
		var doc Document
		if err := json.Unmarshal(trimmed, &doc); err != nil {
			return nil, fmt.Errorf("decode item document: %w", err)
		}
		raw = doc.Items
	default:
		return nil, fmt.Errorf("item document must be a JSON array or object")
	}

	return Convert(raw, defaultVAT), nil
}

// Convert fills defaults and returns plain line items
func Convert(raw []JSONItem, defaultVAT decimal.Decimal) []model.LineItem {
	items := make([]model.LineItem, 0, len(raw))
	for _, r := range raw {
		item := model.LineItem{
			Description:        r.Description,
			Quantity:           decimal.NewFromInt(1),
			UnitPriceInclusive: decimal.Zero,
			VATRatePercent:     defaultVAT,
		}
		if r.Quantity != nil {
			item.Quantity = *r.Quantity
		}
		if r.UnitPriceInclusive != nil {
			item.UnitPriceInclusive = *r.UnitPriceInclusive
		}
		if r.VATRatePercent != nil {
			item.VATRatePercent = *r.VATRatePercent
		}
		items = append(items, item)
	}
	return items
}
