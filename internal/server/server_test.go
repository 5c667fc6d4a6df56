package server_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/vat-invoice/internal/export"
	"github.com/rezonia/vat-invoice/internal/model"
	"github.com/rezonia/vat-invoice/internal/server"
)

func newTestServer() *server.Server {
	config := &server.Config{
		Address: ":8080",
		Debug:   true,
		Letterhead: model.Letterhead{
			BusinessName:          "GrocerMax",
			AddressLines:          []string{"21 Ebonywood Avenue, Heuweloord, Pretoria"},
			VATRegistrationNumber: "4290318221",
			ContactLine:           "Email: your@email.com | Phone: [Your Phone]",
			CurrencySymbol:        "R",
			DefaultVATRatePercent: decimal.NewFromInt(15),
		},
		Filename: "GrocerMax_Invoice.pdf",
		Verify:   true,
		Logger:   zerolog.Nop(),
	}
	return server.NewServer(config)
}

func post(srv *server.Server, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

const milk = `{"items":[{"description":"Milk","quantity":"2","unit_price_inclusive":"11.50","vat_rate_percent":"15"}]}`

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, "ok", response["status"])
	assert.NotEmpty(t, response["time"])
}

func TestGenerateEndpoint(t *testing.T) {
	srv := newTestServer()

	w := post(srv, "/api/v1/invoices", milk)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="GrocerMax_Invoice.pdf"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "1", w.Header().Get("X-Invoice-Pages"))

	pages, err := export.PageCount(w.Body.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 1, pages)
}

func TestGenerateEndpoint_Deterministic(t *testing.T) {
	srv := newTestServer()

	first := post(srv, "/api/v1/invoices", milk)
	second := post(srv, "/api/v1/invoices", milk)

	require.Equal(t, http.StatusOK, first.Code)
	assert.True(t, bytes.Equal(first.Body.Bytes(), second.Body.Bytes()))
}

func TestGenerateEndpoint_BareArray(t *testing.T) {
	srv := newTestServer()

	w := post(srv, "/api/v1/invoices", `[{"description":"Bread","quantity":1,"unit_price_inclusive":18.99}]`)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGenerateEndpoint_EmptyBody(t *testing.T) {
	srv := newTestServer()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/invoices", nil)
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGenerateEndpoint_MalformedJSON(t *testing.T) {
	srv := newTestServer()

	w := post(srv, "/api/v1/invoices", `{"items":[`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGenerateEndpoint_InvalidItems(t *testing.T) {
	srv := newTestServer()

	w := post(srv, "/api/v1/invoices", `{"items":[{"description":"Milk","quantity":"-2","unit_price_inclusive":"11.50","vat_rate_percent":"150"}]}`)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.NotEqual(t, "application/pdf", w.Header().Get("Content-Type"))

	var response server.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "validate", response.Stage)
	require.Len(t, response.Violations, 2)
	assert.Equal(t, "quantity", response.Violations[0].Field)
	assert.Equal(t, "vat_rate_percent", response.Violations[1].Field)
}

func TestGenerateEndpoint_UnrepresentableText(t *testing.T) {
	srv := newTestServer()

	w := post(srv, "/api/v1/invoices", `[{"description":"Rice 米","quantity":1,"unit_price_inclusive":40}]`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var response server.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "export", response.Stage)
	assert.Contains(t, response.Error, "serialize")
}

func TestComputeEndpoint(t *testing.T) {
	srv := newTestServer()

	w := post(srv, "/api/v1/invoices/compute", `{"items":[
		{"description":"Milk","quantity":"2","unit_price_inclusive":"11.50","vat_rate_percent":"15"},
		{"description":"Bread","quantity":"1","unit_price_inclusive":"18.99","vat_rate_percent":"0"},
		{"description":"Eggs","quantity":"1","unit_price_inclusive":"100"}
	]}`)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var response server.ComputeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	assert.Equal(t, "R", response.Currency)
	require.Len(t, response.Items, 3)

	assert.Equal(t, server.ComputedItemResponse{
		Description:        "Milk",
		Quantity:           "2",
		UnitPriceInclusive: "11.50",
		VATRatePercent:     "15",
		InclusiveTotal:     "23.00",
		ExclusiveAmount:    "20.00",
		VATAmount:          "3.00",
	}, response.Items[0])
	assert.Equal(t, "18.99", response.Items[1].ExclusiveAmount)
	assert.Equal(t, "0.00", response.Items[1].VATAmount)

	// Missing VAT rate takes the configured default
	assert.Equal(t, "15", response.Items[2].VATRatePercent)
	assert.Equal(t, "86.96", response.Items[2].ExclusiveAmount)
	assert.Equal(t, "13.04", response.Items[2].VATAmount)

	assert.Equal(t, server.TotalsResponse{
		TotalExclusive: "125.95",
		TotalVAT:       "16.04",
		TotalDue:       "141.99",
	}, response.Totals)
}

func TestComputeEndpoint_Empty(t *testing.T) {
	srv := newTestServer()

	w := post(srv, "/api/v1/invoices/compute", `{"items":[]}`)
	require.Equal(t, http.StatusOK, w.Code)

	var response server.ComputeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Empty(t, response.Items)
	assert.Equal(t, "0.00", response.Totals.TotalDue)
}

func TestValidateEndpoint(t *testing.T) {
	srv := newTestServer()

	w := post(srv, "/api/v1/validate", milk)

	assert.Equal(t, http.StatusOK, w.Code)

	var response server.ValidationResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.True(t, response.Valid)
	assert.Equal(t, 1, response.Items)
	assert.Empty(t, response.Violations)
}

func TestValidateEndpoint_Invalid(t *testing.T) {
	srv := newTestServer()

	w := post(srv, "/api/v1/validate", `[{"description":"Milk","quantity":"1","unit_price_inclusive":"-5"}]`)

	assert.Equal(t, http.StatusOK, w.Code)

	var response server.ValidationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.False(t, response.Valid)
	require.Len(t, response.Violations, 1)
	assert.Equal(t, "unit_price_inclusive", response.Violations[0].Field)
	assert.Equal(t, "gte", response.Violations[0].Rule)
}

// Benchmark tests

func BenchmarkGenerate(b *testing.B) {
	srv := newTestServer()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		post(srv, "/api/v1/invoices", milk)
	}
}

func BenchmarkHealth(b *testing.B) {
	srv := newTestServer()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, req)
	}
}
