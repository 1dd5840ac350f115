package perfectmoney

import (
	"context"

	"github.com/shopspring/decimal"
)

// Event names
const (
	EventPaymentRequest = "eventPaymentRequest"
	EventPaymentSuccess = "eventPaymentSuccess"
)

// GatewayEvent is passed to handlers while a callback is processed. The
// same event travels from the authorize phase into the settle phase, so an
// Invoice attached during authorization is visible when settling.
type GatewayEvent struct {
	Name        string
	Component   string
	GatewayData map[string]string
	// Invoice is owned by the merchant handler; the gateway never reads it
	Invoice any
	// Handled must be set by a handler to accept the payment request
	Handled bool
}

func (e *GatewayEvent) PaymentID() string { return e.GatewayData[FieldPaymentID] }

func (e *GatewayEvent) BatchNum() string { return e.GatewayData[FieldPaymentBatchNum] }

func (e *GatewayEvent) PayerAccount() string { return e.GatewayData[FieldPayerAccount] }

func (e *GatewayEvent) PayeeAccount() string { return e.GatewayData[FieldPayeeAccount] }

func (e *GatewayEvent) Currency() string { return e.GatewayData[FieldPaymentUnits] }

// Amount parses PAYMENT_AMOUNT
func (e *GatewayEvent) Amount() (decimal.Decimal, error) {
	return decimal.NewFromString(e.GatewayData[FieldPaymentAmount])
}

// EventHandler is implemented by merchant code. OnPaymentRequest confirms
// the payment may be accepted by setting Handled; OnPaymentSuccess runs
// inside the unit of work and fails the settlement by returning an error.
type EventHandler interface {
	OnPaymentRequest(ctx context.Context, event *GatewayEvent) error
	OnPaymentSuccess(ctx context.Context, event *GatewayEvent) error
}

// HandlerFuncs adapts plain functions to EventHandler; nil funcs are skipped
type HandlerFuncs struct {
	PaymentRequest func(ctx context.Context, event *GatewayEvent) error
	PaymentSuccess func(ctx context.Context, event *GatewayEvent) error
}

func (h HandlerFuncs) OnPaymentRequest(ctx context.Context, event *GatewayEvent) error {
	if h.PaymentRequest == nil {
		return nil
	}
	return h.PaymentRequest(ctx, event)
}

func (h HandlerFuncs) OnPaymentSuccess(ctx context.Context, event *GatewayEvent) error {
	if h.PaymentSuccess == nil {
		return nil
	}
	return h.PaymentSuccess(ctx, event)
}
