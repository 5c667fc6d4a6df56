package server

import (
	"github.com/rezonia/vat-invoice/internal/calc"
	"github.com/rezonia/vat-invoice/internal/decimal"
	"github.com/rezonia/vat-invoice/internal/model"
)

// ComputedItemResponse is one computed line; amounts are 2-decimal strings
type ComputedItemResponse struct {
	Description        string `json:"description"`
	Quantity           string `json:"quantity"`
	UnitPriceInclusive string `json:"unit_price_inclusive"`
	VATRatePercent     string `json:"vat_rate_percent"`
	InclusiveTotal     string `json:"inclusive_total"`
	ExclusiveAmount    string `json:"exclusive_amount"`
	VATAmount          string `json:"vat_amount"`
}

// TotalsResponse holds the document totals
type TotalsResponse struct {
	TotalExclusive string `json:"total_exclusive"`
	TotalVAT       string `json:"total_vat"`
	TotalDue       string `json:"total_due"`
}

// ComputeResponse is the response for the compute endpoint
type ComputeResponse struct {
	Currency string                 `json:"currency"`
	Items    []ComputedItemResponse `json:"items"`
	Totals   TotalsResponse         `json:"totals"`
}

// ValidationResponse is the response for validate endpoint
type ValidationResponse struct {
	Valid      bool              `json:"valid"`
	Items      int               `json:"items"`
	Violations []model.Violation `json:"violations,omitempty"`
}

// ErrorResponse is the standard error response
type ErrorResponse struct {
	Error      string            `json:"error"`
	Stage      string            `json:"stage,omitempty"`
	Violations []model.Violation `json:"violations,omitempty"`
}

// NewComputeResponse converts a calculator result
func NewComputeResponse(currency string, r *calc.Result) ComputeResponse {
	resp := ComputeResponse{
		Currency: currency,
		Items:    make([]ComputedItemResponse, 0, len(r.Items)),
		Totals: TotalsResponse{
			TotalExclusive: r.Totals.TotalExclusive.StringFixed(decimal.CentPlaces),
			TotalVAT:       r.Totals.TotalVAT.StringFixed(decimal.CentPlaces),
			TotalDue:       r.Totals.TotalDue.StringFixed(decimal.CentPlaces),
		},
	}

	for _, it := range r.Items {
		resp.Items = append(resp.Items, ComputedItemResponse{
			Description:        it.Description,
			Quantity:           decimal.FormatQuantity(it.Quantity),
			UnitPriceInclusive: it.UnitPriceInclusive.StringFixed(decimal.CentPlaces),
			VATRatePercent:     it.VATRatePercent.String(),
			InclusiveTotal:     it.InclusiveTotal.StringFixed(decimal.CentPlaces),
			ExclusiveAmount:    it.ExclusiveAmount.StringFixed(decimal.CentPlaces),
			VATAmount:          it.VATAmount.StringFixed(decimal.CentPlaces),
		})
	}
	return resp
}
