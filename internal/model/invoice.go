package model

import (
	"github.com/shopspring/decimal"
)

// LineItem is one billable row as handed over by the input provider
type LineItem struct {
	Description        string          `json:"description"`
	Quantity           decimal.Decimal `json:"quantity" validate:"dgte=0"`
	UnitPriceInclusive decimal.Decimal `json:"unit_price_inclusive" validate:"dgte=0"`
	VATRatePercent     decimal.Decimal `json:"vat_rate_percent" validate:"dgte=0,dlte=100"`
}

// ComputedLineItem is a LineItem with its derived amounts
type ComputedLineItem struct {
	LineItem

	// Calculated
	InclusiveTotal  decimal.Decimal `json:"inclusive_total"`  // Quantity * UnitPriceInclusive
	ExclusiveAmount decimal.Decimal `json:"exclusive_amount"` // InclusiveTotal / (1 + VATRatePercent/100)
	VATAmount       decimal.Decimal `json:"vat_amount"`       // InclusiveTotal - ExclusiveAmount
}

// DocumentTotals holds the document level sums
type DocumentTotals struct {
	TotalExclusive decimal.Decimal `json:"total_exclusive"`
	TotalVAT       decimal.Decimal `json:"total_vat"`
	TotalDue       decimal.Decimal `json:"total_due"`
}

// Letterhead is the static issuer block printed on the first page
type Letterhead struct {
	BusinessName          string          `json:"business_name"`
	AddressLines          []string        `json:"address_lines"`
	VATRegistrationNumber string          `json:"vat_registration_number"`
	ContactLine           string          `json:"contact_line"`
	CurrencySymbol        string          `json:"currency_symbol"`
	DefaultVATRatePercent decimal.Decimal `json:"default_vat_rate_percent"`
}

// NewLineItem builds an item from plain values
func NewLineItem(description string, quantity, unitPriceInclusive, vatRatePercent decimal.Decimal) LineItem {
	return LineItem{
		Description:        description,
		Quantity:           quantity,
		UnitPriceInclusive: unitPriceInclusive,
		VATRatePercent:     vatRatePercent,
	}
}
