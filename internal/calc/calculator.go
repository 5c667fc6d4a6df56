// Package calc derives exclusive and VAT amounts from VAT-inclusive prices
// and aggregates them into document totals.
package calc

import (
	"github.com/rezonia/vat-invoice/internal/decimal"
	"github.com/rezonia/vat-invoice/internal/model"
)

// Result is the calculator output for one generation request
type Result struct {
	Items  []model.ComputedLineItem `json:"items"`
	Totals model.DocumentTotals     `json:"totals"`
}

// Line computes the derived amounts of a single item.
//
// InclusiveTotal is exact. With a zero rate the exclusive amount is the
// inclusive total itself; otherwise it is rounded to cents and the VAT
// amount takes the remainder, so Exclusive + VAT == Inclusive exactly.
func Line(item model.LineItem) model.ComputedLineItem {
	inclusive := item.Quantity.Mul(item.UnitPriceInclusive)

	exclusive := inclusive
	if !item.VATRatePercent.IsZero() {
		exclusive = decimal.ExclusiveOf(inclusive, item.VATRatePercent)
	}

	return model.ComputedLineItem{
		LineItem:        item,
		InclusiveTotal:  inclusive,
		ExclusiveAmount: exclusive,
		VATAmount:       inclusive.Sub(exclusive),
	}
}

// Compute computes every item in input order and sums the totals.
// Input must already be validated; this stage cannot fail.
func Compute(items []model.LineItem) *Result {
	computed := make([]model.ComputedLineItem, 0, len(items))
	exclusive := make([]decimal.Decimal, 0, len(items))
	vat := make([]decimal.Decimal, 0, len(items))
	due := make([]decimal.Decimal, 0, len(items))

	for _, item := range items {
		line := Line(item)
		computed = append(computed, line)

		exclusive = append(exclusive, line.ExclusiveAmount)
		vat = append(vat, line.VATAmount)
		due = append(due, line.InclusiveTotal)
	}

	return &Result{
		Items: computed,
		Totals: model.DocumentTotals{
			TotalExclusive: decimal.Sum(exclusive),
			TotalVAT:       decimal.Sum(vat),
			TotalDue:       decimal.Sum(due),
		},
	}
}
