package handler

import (
	"context"
	"errors"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mstgnz/perfectmoney/infra/invoice"
	"github.com/mstgnz/perfectmoney/infra/logger"
	"github.com/mstgnz/perfectmoney/infra/response"
)

// InvoiceStore is the part of the invoice store the HTTP layer uses
type InvoiceStore interface {
	Create(ctx context.Context, inv invoice.Invoice) (*invoice.Invoice, error)
	Get(ctx context.Context, id string) (*invoice.Invoice, error)
}

var checkoutTemplate = template.Must(template.New("checkout").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Redirecting…</title></head>
<body>
<p>{{.Message}}</p>
<form id="pm-checkout" action="{{.Action}}" method="{{.Method}}">
{{- range .Fields}}
<input type="hidden" name="{{.Name}}" value="{{.Value}}">
{{- end}}
<noscript><button type="submit">Continue</button></noscript>
</form>
<script>document.getElementById("pm-checkout").submit();</script>
</body>
</html>
`))

// CheckoutHandler renders the auto-submitting checkout form for an invoice
type CheckoutHandler struct {
	gateways GatewayLookup
	invoices InvoiceStore
}

// NewCheckoutHandler creates a checkout handler
func NewCheckoutHandler(gateways GatewayLookup, invoices InvoiceStore) *CheckoutHandler {
	return &CheckoutHandler{
		gateways: gateways,
		invoices: invoices,
	}
}

// Checkout serves GET /checkout/{component}/{invoiceID}
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	gw, ok := gatewayFromURL(w, r, h.gateways)
	if !ok {
		return
	}

	inv, err := h.invoices.Get(r.Context(), chi.URLParam(r, "invoiceID"))
	if errors.Is(err, invoice.ErrNotFound) || (err == nil && inv.Component != gw.Name()) {
		response.Error(w, http.StatusNotFound, "Invoice not found", nil)
		return
	}
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Failed to load invoice", err)
		return
	}
	if inv.Status != invoice.StatusPending {
		response.Error(w, http.StatusConflict, "Invoice is already paid", nil)
		return
	}

	form, err := gw.RedirectForm(inv.ID, inv.Amount, inv.Description)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Cannot build checkout form", err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := checkoutTemplate.Execute(w, form); err != nil {
		logger.Error("Failed to render checkout form", err, logger.LogContext{
			Component: gw.Name(),
			Fields:    map[string]any{"invoice_id": inv.ID},
		})
	}
}
