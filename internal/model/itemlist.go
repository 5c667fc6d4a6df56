package model

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	money "github.com/rezonia/vat-invoice/internal/decimal"
)

// Field identifies an editable LineItem field
type Field int

const (
	FieldDescription Field = iota
	FieldQuantity
	FieldUnitPrice
	FieldVATRate
)

var fieldNames = map[Field]string{
	FieldDescription: "description",
	FieldQuantity:    "quantity",
	FieldUnitPrice:   "unit_price_inclusive",
	FieldVATRate:     "vat_rate_percent",
}

func (f Field) String() string {
	if name, ok := fieldNames[f]; ok {
		return name
	}
	return "unknown"
}

// ParseField maps a column or form name to a Field
func ParseField(name string) (Field, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "description", "desc":
		return FieldDescription, nil
	case "quantity", "qty":
		return FieldQuantity, nil
	case "price", "unit_price", "unit_price_inclusive", "incl price", "incl. price":
		return FieldUnitPrice, nil
	case "vat", "vat %", "vat_rate", "vat_rate_percent":
		return FieldVATRate, nil
	default:
		return 0, fmt.Errorf("unknown field %q", name)
	}
}

var maxVATRate = money.FromInt(100)

// ItemList is the editable line item list owned by an input provider.
// The pipeline only ever sees a Snapshot.
type ItemList struct {
	items      []LineItem
	defaultVAT decimal.Decimal
}

// NewItemList creates an empty list whose new rows carry defaultVAT
func NewItemList(defaultVAT decimal.Decimal) *ItemList {
	return &ItemList{defaultVAT: defaultVAT}
}

// Len returns the number of rows
func (l *ItemList) Len() int {
	return len(l.items)
}

// Append adds a blank row (quantity 1, price 0, default VAT) and returns its index
func (l *ItemList) Append() int {
	l.items = append(l.items, LineItem{
		Quantity:           money.FromInt(1),
		UnitPriceInclusive: money.Zero,
		VATRatePercent:     l.defaultVAT,
	})
	return len(l.items) - 1
}

// Add appends a fully formed row
func (l *ItemList) Add(item LineItem) {
	l.items = append(l.items, item)
}

// Update sets one field of one row from its raw text form.
// Numeric fields must parse as decimals and be in range; nothing is coerced.
func (l *ItemList) Update(index int, field Field, raw string) error {
	if index < 0 || index >= len(l.items) {
		return fmt.Errorf("item index %d out of range [0,%d)", index, len(l.items))
	}

	item := &l.items[index]
	if field == FieldDescription {
		item.Description = raw
		return nil
	}

	value, err := money.FromString(raw)
	if err != nil {
		return NewValidationError(index, field.String(), raw, "decimal", "not a number")
	}
	if !money.IsNonNegative(value) {
		return NewValidationError(index, field.String(), raw, "gte", "must be greater than or equal to 0")
	}

	switch field {
	case FieldQuantity:
		item.Quantity = value
	case FieldUnitPrice:
		item.UnitPriceInclusive = value
	case FieldVATRate:
		if !money.InRange(value, money.Zero, maxVATRate) {
			return NewValidationError(index, field.String(), raw, "lte", "must be less than or equal to 100")
		}
		item.VATRatePercent = value
	default:
		return fmt.Errorf("unknown field %d", field)
	}
	return nil
}

// Snapshot returns an independent copy of the rows
func (l *ItemList) Snapshot() []LineItem {
	out := make([]LineItem, len(l.items))
	copy(out, l.items)
	return out
}
