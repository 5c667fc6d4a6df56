package invoicelib_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/vat-invoice/pkg/invoicelib"
)

func milk() invoicelib.LineItem {
	return invoicelib.NewLineItem("Milk",
		decimal.NewFromInt(2), decimal.RequireFromString("11.50"), decimal.NewFromInt(15))
}

func TestNewGenerator(t *testing.T) {
	opts := invoicelib.DefaultOptions()
	opts.Verify = false

	gen := invoicelib.NewGenerator(opts)
	require.NotNil(t, gen)
}

func TestNewDefaultGenerator(t *testing.T) {
	gen := invoicelib.NewDefaultGenerator()
	require.NotNil(t, gen)
}

func TestDefaultOptions(t *testing.T) {
	opts := invoicelib.DefaultOptions()

	assert.Equal(t, "GrocerMax", opts.Letterhead.BusinessName)
	assert.Equal(t, "R", opts.Letterhead.CurrencySymbol)
	assert.Equal(t, "GrocerMax_Invoice.pdf", opts.Filename)
	assert.True(t, opts.Verify)
}

func TestOptionsFromConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shop.yaml")
	require.NoError(t, os.WriteFile(path, []byte("business_name: Corner Deli\n"), 0o644))

	opts, err := invoicelib.OptionsFromConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "Corner Deli", opts.Letterhead.BusinessName)
	assert.Equal(t, "CornerDeli_Invoice.pdf", opts.Filename)
}

func TestGeneratorCompute(t *testing.T) {
	gen := invoicelib.NewDefaultGenerator()

	result, err := gen.Compute(context.Background(), []invoicelib.LineItem{milk()})
	require.NoError(t, err)

	require.Len(t, result.Items, 1)
	assert.Equal(t, "20.00", result.Items[0].ExclusiveAmount.StringFixed(2))
	assert.Equal(t, "3.00", result.Totals.TotalVAT.StringFixed(2))
	assert.Equal(t, "23.00", result.Totals.TotalDue.StringFixed(2))
}

func TestGeneratorCompute_Invalid(t *testing.T) {
	gen := invoicelib.NewDefaultGenerator()
	bad := milk()
	bad.VATRatePercent = decimal.NewFromInt(101)

	_, err := gen.Compute(context.Background(), []invoicelib.LineItem{bad})
	require.Error(t, err)

	var verr *invoicelib.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "vat_rate_percent", verr.Violations[0].Field)
}

func TestGeneratorCompute_RateJustAboveHundred(t *testing.T) {
	gen := invoicelib.NewDefaultGenerator()
	items, err := invoicelib.ParseItems(context.Background(),
		strings.NewReader(`[{"description":"Milk","quantity":"1","unit_price_inclusive":"1","vat_rate_percent":"100.000000000000000001"}]`),
		invoicelib.FormatJSON, decimal.NewFromInt(15))
	require.NoError(t, err)

	_, err = gen.Compute(context.Background(), items)
	var verr *invoicelib.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "lte", verr.Violations[0].Rule)
}

func TestGeneratorGenerate(t *testing.T) {
	gen := invoicelib.NewDefaultGenerator()

	var buf bytes.Buffer
	artifact, err := gen.Generate(context.Background(), []invoicelib.LineItem{milk()}, &buf)
	require.NoError(t, err)

	assert.Equal(t, "GrocerMax_Invoice.pdf", artifact.Name)
	assert.Equal(t, 1, artifact.Pages)
	assert.Equal(t, artifact.Size, buf.Len())
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestGeneratorGenerateFile(t *testing.T) {
	dir := t.TempDir()
	gen := invoicelib.NewDefaultGenerator()

	path, err := gen.GenerateFile(context.Background(), []invoicelib.LineItem{milk()}, dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "GrocerMax_Invoice.pdf"), path)
	assert.FileExists(t, path)
}

func TestGeneratorGenerateFile_InvalidLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	gen := invoicelib.NewDefaultGenerator()
	bad := milk()
	bad.Quantity = decimal.NewFromInt(-1)

	_, err := gen.GenerateFile(context.Background(), []invoicelib.LineItem{bad}, dir)
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestGeneratorGenerateBatch(t *testing.T) {
	gen := invoicelib.NewDefaultGenerator()

	results, err := gen.GenerateBatch(context.Background(), [][]invoicelib.LineItem{
		{milk()},
		{milk(), milk()},
		nil,
	})
	require.NoError(t, err)
	require.Len(t, results, 3)
	for _, data := range results {
		assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
	}
}

func TestParseItems(t *testing.T) {
	ctx := context.Background()
	vat := decimal.NewFromInt(15)

	items, err := invoicelib.ParseItems(ctx, strings.NewReader(`[{"description":"Milk","quantity":2,"unit_price_inclusive":"11.50"}]`), invoicelib.FormatJSON, vat)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, vat.Equal(items[0].VATRatePercent))

	items, err = invoicelib.ParseItems(ctx, strings.NewReader("description,quantity,price\nBread,1,18.99\n"), invoicelib.FormatCSV, vat)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Bread", items[0].Description)

	items, err = invoicelib.ParseItems(ctx, strings.NewReader("<Items><Item><Description>Eggs</Description><UnitPrice>42</UnitPrice></Item></Items>"), invoicelib.FormatXML, vat)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Eggs", items[0].Description)

	_, err = invoicelib.ParseItems(ctx, strings.NewReader("x"), invoicelib.Format("yaml"), vat)
	require.Error(t, err)
}

func TestParseInline(t *testing.T) {
	items, err := invoicelib.ParseInline(context.Background(), []string{"Milk;2;11.50;15"}, decimal.NewFromInt(15))
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Milk", items[0].Description)
}

// Test re-exported types
func TestReExportedTypes(t *testing.T) {
	list := invoicelib.NewItemList(decimal.NewFromInt(15))
	idx := list.Append()
	require.NoError(t, list.Update(idx, invoicelib.FieldDescription, "Eggs"))
	require.NoError(t, list.Update(idx, invoicelib.FieldUnitPrice, "42.00"))

	items := list.Snapshot()
	require.Len(t, items, 1)
	assert.Equal(t, "Eggs", items[0].Description)

	field, err := invoicelib.ParseField("vat")
	require.NoError(t, err)
	assert.Equal(t, invoicelib.FieldVATRate, field)

	assert.Equal(t, "serialize", invoicelib.ExportStageSerialize)
	assert.Equal(t, "verify", invoicelib.ExportStageVerify)
	assert.Equal(t, "deliver", invoicelib.ExportStageDeliver)
}
