package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/mstgnz/perfectmoney/infra/invoice"
	"github.com/mstgnz/perfectmoney/infra/response"
	"github.com/mstgnz/perfectmoney/infra/validate"
	"github.com/shopspring/decimal"
)

// CreateInvoiceRequest is the body of POST /v1/invoices
type CreateInvoiceRequest struct {
	ID          string `json:"id" validate:"omitempty,max=50"`
	Component   string `json:"component" validate:"required"`
	Amount      string `json:"amount" validate:"required,decimal_gt0"`
	Description string `json:"description" validate:"max=255"`
}

// InvoiceResponse adds the checkout link to a stored invoice
type InvoiceResponse struct {
	*invoice.Invoice
	CheckoutURL string `json:"checkoutUrl"`
}

// InvoiceHandler manages merchant invoices
type InvoiceHandler struct {
	gateways GatewayLookup
	invoices InvoiceStore
	appURL   string
}

// NewInvoiceHandler creates an invoice handler; appURL prefixes checkout links
func NewInvoiceHandler(gateways GatewayLookup, invoices InvoiceStore, appURL string) *InvoiceHandler {
	return &InvoiceHandler{
		gateways: gateways,
		invoices: invoices,
		appURL:   strings.TrimRight(appURL, "/"),
	}
}

// Create serves POST /v1/invoices
func (h *InvoiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateInvoiceRequest
	if err := response.ReadJSON(w, r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := validate.Struct(req); err != nil {
		response.Error(w, http.StatusBadRequest, "Validation failed", err)
		return
	}

	gw, err := h.gateways.Get(req.Component)
	if err != nil {
		response.Error(w, http.StatusNotFound, "Unknown component", err)
		return
	}

	conf := gw.Config()
	created, err := h.invoices.Create(r.Context(), invoice.Invoice{
		ID:           req.ID,
		Component:    gw.Name(),
		Amount:       decimal.RequireFromString(req.Amount),
		Currency:     conf.WalletCurrency,
		PayeeAccount: conf.WalletNumber,
		Description:  req.Description,
	})
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Failed to create invoice", err)
		return
	}

	response.Success(w, http.StatusCreated, "Invoice created", h.toResponse(created))
}

// Get serves GET /v1/invoices/{invoiceID}
func (h *InvoiceHandler) Get(w http.ResponseWriter, r *http.Request) {
	inv, err := h.invoices.Get(r.Context(), chi.URLParam(r, "invoiceID"))
	if errors.Is(err, invoice.ErrNotFound) {
		response.Error(w, http.StatusNotFound, "Invoice not found", nil)
		return
	}
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Failed to load invoice", err)
		return
	}

	response.Success(w, http.StatusOK, "Invoice retrieved", h.toResponse(inv))
}

func (h *InvoiceHandler) toResponse(inv *invoice.Invoice) InvoiceResponse {
	return InvoiceResponse{
		Invoice:     inv,
		CheckoutURL: h.appURL + "/checkout/" + inv.Component + "/" + inv.ID,
	}
}
