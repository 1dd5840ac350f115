package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/mstgnz/perfectmoney/infra/invoice"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postNotification(h *ResultHandler, component string, fields map[string]string) *httptest.ResponseRecorder {
	form := url.Values{}
	for k, v := range fields {
		form.Set(k, v)
	}

	req := httptest.NewRequest(http.MethodPost, "/callback/"+component, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req = withURLParams(req, map[string]string{"component": component})

	rr := httptest.NewRecorder()
	h.HandleResult(rr, req)
	return rr
}

func createInvoice(t *testing.T, env *testEnv) *invoice.Invoice {
	t.Helper()
	inv, err := env.store.Create(context.Background(), invoice.Invoice{
		Component:    "shop",
		Amount:       decimal.RequireFromString("10.00"),
		Currency:     "USD",
		PayeeAccount: "U1234567",
	})
	require.NoError(t, err)
	return inv
}

func TestResultHandler_Accepted(t *testing.T) {
	env := newTestEnv(t, "")
	inv := createInvoice(t, env)
	h := NewResultHandler(env.gateways, false, "")

	rr := postNotification(h, "shop", signedNotification(inv.ID, "U1234567", "10.00", "USD"))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "OK", rr.Body.String())

	loaded, err := env.store.Get(context.Background(), inv.ID)
	require.NoError(t, err)
	assert.Equal(t, invoice.StatusPaid, loaded.Status)
}

func TestResultHandler_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(n map[string]string)
		expected int
		body     string
	}{
		{
			name:     "tampered_amount",
			mutate:   func(n map[string]string) { n["PAYMENT_AMOUNT"] = "1.00" },
			expected: http.StatusForbidden,
			body:     "Hash error",
		},
		{
			name:     "missing_hash",
			mutate:   func(n map[string]string) { delete(n, "V2_HASH") },
			expected: http.StatusForbidden,
			body:     "Hash error",
		},
		{
			name:     "unknown_invoice",
			mutate:   nil,
			expected: http.StatusServiceUnavailable,
			body:     "Error processing request",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, "")
			inv := createInvoice(t, env)
			h := NewResultHandler(env.gateways, false, "")

			n := signedNotification(inv.ID, "U1234567", "10.00", "USD")
			if tt.mutate != nil {
				tt.mutate(n)
			} else {
				n = signedNotification("missing", "U1234567", "10.00", "USD")
			}

			rr := postNotification(h, "shop", n)

			assert.Equal(t, tt.expected, rr.Code)
			assert.Contains(t, rr.Body.String(), tt.body)

			loaded, err := env.store.Get(context.Background(), inv.ID)
			require.NoError(t, err)
			assert.Equal(t, invoice.StatusPending, loaded.Status)
		})
	}
}

func TestResultHandler_Silent(t *testing.T) {
	env := newTestEnv(t, "")
	h := NewResultHandler(env.gateways, true, "")

	rr := postNotification(h, "shop", map[string]string{"PAYMENT_ID": "x", "V2_HASH": "bad"})

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "OK", rr.Body.String())
}

func TestResultHandler_RedirectAfterProcessing(t *testing.T) {
	env := newTestEnv(t, "")
	inv := createInvoice(t, env)
	h := NewResultHandler(env.gateways, false, "/thanks")

	rr := postNotification(h, "shop", signedNotification(inv.ID, "U1234567", "10.00", "USD"))

	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/thanks", rr.Header().Get("Location"))
}

func TestResultHandler_RejectedNotRedirected(t *testing.T) {
	env := newTestEnv(t, "")
	h := NewResultHandler(env.gateways, false, "/thanks")

	rr := postNotification(h, "shop", map[string]string{"PAYMENT_ID": "x"})

	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Empty(t, rr.Header().Get("Location"))
}

func TestResultHandler_UnknownComponent(t *testing.T) {
	env := newTestEnv(t, "")
	h := NewResultHandler(env.gateways, false, "")

	rr := postNotification(h, "other", map[string]string{})

	assert.Equal(t, http.StatusNotFound, rr.Code)
}
