package handler

import (
	"net/http"

	"github.com/mstgnz/perfectmoney/infra/response"
	"github.com/mstgnz/perfectmoney/infra/validate"
	"github.com/mstgnz/perfectmoney/provider/perfectmoney"
	"github.com/shopspring/decimal"
)

// TransferRequest is the body of POST /v1/accounts/{component}/transfer
type TransferRequest struct {
	Target    string `json:"target" validate:"required,pm_wallet"`
	Amount    string `json:"amount" validate:"required,decimal_gt0"`
	PaymentID string `json:"paymentId" validate:"max=50"`
	Memo      string `json:"memo" validate:"max=100"`
}

// AccountHandler exposes the provider account API of a component
type AccountHandler struct {
	gateways GatewayLookup
}

// NewAccountHandler creates an account handler
func NewAccountHandler(gateways GatewayLookup) *AccountHandler {
	return &AccountHandler{gateways: gateways}
}

// Balance serves GET /v1/accounts/{component}/balance
func (h *AccountHandler) Balance(w http.ResponseWriter, r *http.Request) {
	gw, ok := gatewayFromURL(w, r, h.gateways)
	if !ok {
		return
	}

	values, err := gw.Balance(r.Context())
	writeValues(w, "Balance retrieved", values, err)
}

// Transfer serves POST /v1/accounts/{component}/transfer
func (h *AccountHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	gw, ok := gatewayFromURL(w, r, h.gateways)
	if !ok {
		return
	}

	var req TransferRequest
	if err := response.ReadJSON(w, r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := validate.Struct(req); err != nil {
		response.Error(w, http.StatusBadRequest, "Validation failed", err)
		return
	}

	values, err := gw.Transfer(r.Context(), req.Target, decimal.RequireFromString(req.Amount), req.PaymentID, req.Memo)
	writeValues(w, "Transfer completed", values, err)
}

// writeValues maps a provider result onto the JSON envelope
func writeValues(w http.ResponseWriter, message string, values *perfectmoney.Values, err error) {
	if err != nil {
		response.Error(w, perfectmoney.HTTPStatus(err), "Provider call failed", err)
		return
	}
	if perr := values.ProviderError(); perr != nil {
		response.Error(w, perfectmoney.HTTPStatus(perr), "Provider rejected the request", perr)
		return
	}

	response.Success(w, http.StatusOK, message, values)
}
