package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mstgnz/perfectmoney/infra/invoice"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getCheckout(h *CheckoutHandler, component, invoiceID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/checkout/"+component+"/"+invoiceID, nil)
	req = withURLParams(req, map[string]string{"component": component, "invoiceID": invoiceID})

	rr := httptest.NewRecorder()
	h.Checkout(rr, req)
	return rr
}

func TestCheckoutHandler_RendersForm(t *testing.T) {
	env := newTestEnv(t, "")
	inv, err := env.store.Create(context.Background(), invoice.Invoice{
		Component:    "shop",
		Amount:       decimal.RequireFromString("7.5"),
		Currency:     "USD",
		PayeeAccount: "U1234567",
		Description:  `Order <#1> & "gift"`,
	})
	require.NoError(t, err)

	rr := getCheckout(NewCheckoutHandler(env.gateways, env.store), "shop", inv.ID)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/html; charset=utf-8", rr.Header().Get("Content-Type"))

	body := rr.Body.String()
	assert.Contains(t, body, `action="https://perfectmoney.is/api/step1.asp"`)
	assert.Contains(t, body, `method="POST"`)
	assert.Contains(t, body, "Now you will be redirected to the payment system.")
	assert.Contains(t, body, `name="PAYEE_ACCOUNT" value="U1234567"`)
	assert.Contains(t, body, `name="PAYMENT_ID" value="`+inv.ID+`"`)
	assert.Contains(t, body, `name="PAYMENT_AMOUNT" value="7.50"`)
	assert.Contains(t, body, `name="PAYMENT_UNITS" value="USD"`)
	assert.Contains(t, body, `name="STATUS_URL" value="https://shop.example.com/callback/shop"`)
	assert.Contains(t, body, `name="SUGGESTED_MEMO" value="Order &lt;#1&gt; &amp; &#34;gift&#34;"`)
	assert.NotContains(t, body, "<#1>", "description is escaped")
}

func TestCheckoutHandler_Errors(t *testing.T) {
	env := newTestEnv(t, "")
	ctx := context.Background()

	paid, err := env.store.Create(ctx, invoice.Invoice{
		Component: "shop", Amount: decimal.NewFromInt(1), Currency: "USD", PayeeAccount: "U1234567",
	})
	require.NoError(t, err)
	require.NoError(t, env.store.MarkPaid(ctx, paid.ID, "1", "U7654321"))

	foreign, err := env.store.Create(ctx, invoice.Invoice{
		Component: "other", Amount: decimal.NewFromInt(1), Currency: "USD", PayeeAccount: "U1234567",
	})
	require.NoError(t, err)

	h := NewCheckoutHandler(env.gateways, env.store)

	tests := []struct {
		name      string
		component string
		invoiceID string
		expected  int
	}{
		{"unknown_component", "nope", paid.ID, http.StatusNotFound},
		{"unknown_invoice", "shop", "missing", http.StatusNotFound},
		{"other_component_invoice", "shop", foreign.ID, http.StatusNotFound},
		{"already_paid", "shop", paid.ID, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := getCheckout(h, tt.component, tt.invoiceID)
			assert.Equal(t, tt.expected, rr.Code)
		})
	}
}
