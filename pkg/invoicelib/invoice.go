// Package invoicelib provides a public API for generating VAT invoices.
//
// This package exposes the core types and a Generator that validates
// VAT-inclusive line items, derives exclusive and VAT amounts, and renders
// them into a PDF invoice.
//
// Example usage:
//
//	gen := invoicelib.NewDefaultGenerator()
//	items := []invoicelib.LineItem{
//	    invoicelib.NewLineItem("Milk", decimal.NewFromInt(2), decimal.RequireFromString("11.50"), decimal.NewFromInt(15)),
//	}
//	artifact, err := gen.Generate(ctx, items, w)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(artifact.Pages)
package invoicelib

import (
	"github.com/rezonia/vat-invoice/internal/export"
	"github.com/rezonia/vat-invoice/internal/model"
)

// Re-export core types for public API
type (
	LineItem         = model.LineItem
	ComputedLineItem = model.ComputedLineItem
	DocumentTotals   = model.DocumentTotals
	Letterhead       = model.Letterhead
	ItemList         = model.ItemList
	Field            = model.Field
	Artifact         = export.Artifact
)

// Re-export item fields
const (
	FieldDescription = model.FieldDescription
	FieldQuantity    = model.FieldQuantity
	FieldUnitPrice   = model.FieldUnitPrice
	FieldVATRate     = model.FieldVATRate
)

// Re-export export stages
const (
	ExportStageSerialize = model.ExportStageSerialize
	ExportStageVerify    = model.ExportStageVerify
	ExportStageDeliver   = model.ExportStageDeliver
)

// Re-export error types
type (
	Violation       = model.Violation
	ValidationError = model.ValidationError
	RenderError     = model.RenderError
	ExportError     = model.ExportError
)

// Re-export constructors
var (
	NewLineItem = model.NewLineItem
	NewItemList = model.NewItemList
	ParseField  = model.ParseField
)
