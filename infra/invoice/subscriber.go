package invoice

import (
	"context"
	"errors"
	"fmt"

	"github.com/mstgnz/perfectmoney/provider/perfectmoney"
)

// ErrMismatch reports a notification that does not match the stored invoice
var ErrMismatch = errors.New("payment does not match invoice")

// Subscriber connects the invoice store to gateway events. Authorization
// accepts a notification only for a pending invoice of the same component
// whose amount, currency and payee agree; settlement marks it paid.
type Subscriber struct {
	store *Store
}

// NewSubscriber creates a subscriber backed by store
func NewSubscriber(store *Store) *Subscriber {
	return &Subscriber{store: store}
}

// OnPaymentRequest implements perfectmoney.EventHandler
func (s *Subscriber) OnPaymentRequest(ctx context.Context, event *perfectmoney.GatewayEvent) error {
	inv, err := s.store.Get(ctx, event.PaymentID())
	if err != nil {
		return err
	}

	if inv.Status != StatusPending {
		return fmt.Errorf("%w: %s", ErrAlreadyPaid, inv.ID)
	}
	if inv.Component != event.Component {
		return fmt.Errorf("%w: component %q, invoice belongs to %q", ErrMismatch, event.Component, inv.Component)
	}

	amount, err := event.Amount()
	if err != nil {
		return fmt.Errorf("%w: malformed amount %q", ErrMismatch, event.GatewayData[perfectmoney.FieldPaymentAmount])
	}
	if !amount.Equal(inv.Amount) {
		return fmt.Errorf("%w: amount %s, expected %s", ErrMismatch, amount, inv.Amount)
	}
	if event.Currency() != inv.Currency {
		return fmt.Errorf("%w: currency %s, expected %s", ErrMismatch, event.Currency(), inv.Currency)
	}
	if event.PayeeAccount() != inv.PayeeAccount {
		return fmt.Errorf("%w: payee %s, expected %s", ErrMismatch, event.PayeeAccount(), inv.PayeeAccount)
	}

	event.Invoice = inv
	event.Handled = true
	return nil
}

// OnPaymentSuccess implements perfectmoney.EventHandler
func (s *Subscriber) OnPaymentSuccess(ctx context.Context, event *perfectmoney.GatewayEvent) error {
	inv, ok := event.Invoice.(*Invoice)
	if !ok {
		return fmt.Errorf("event for payment %s carries no invoice", event.PaymentID())
	}

	return s.store.MarkPaid(ctx, inv.ID, event.BatchNum(), event.PayerAccount())
}

var _ perfectmoney.EventHandler = (*Subscriber)(nil)
