package perfectmoney

import (
	"context"
	"fmt"
	"sync"

	"github.com/mstgnz/perfectmoney/infra/logger"
	"github.com/mstgnz/perfectmoney/provider"
)

// Callback outcomes reported to the CallbackRecorder
const (
	OutcomeAccepted         = "accepted"
	OutcomeHashError        = "hash_error"
	OutcomeUnhandled        = "unhandled"
	OutcomeSettlementFailed = "settlement_failed"
)

// ResultProcessor turns a provider callback into handler events.
// Handlers must be registered before callbacks are served.
type ResultProcessor struct {
	component string
	signer    *Signer
	uow       UnitOfWork
	logger    Logger
	recorder  provider.CallbackRecorder

	mu       sync.RWMutex
	handlers []EventHandler
}

func newResultProcessor(component string, signer *Signer, o *options) *ResultProcessor {
	return &ResultProcessor{
		component: component,
		signer:    signer,
		uow:       o.unitOfWork,
		logger:    o.logger,
		recorder:  o.callbackRecorder,
	}
}

// On registers a handler; handlers run in registration order
func (p *ResultProcessor) On(h EventHandler) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.handlers = append(p.handlers, h)
}

func (p *ResultProcessor) registered() []EventHandler {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]EventHandler(nil), p.handlers...)
}

// ProcessResult verifies a callback, asks handlers to authorize it and
// settles it inside the unit of work. It returns *VerificationError,
// *AuthorizationError or *SettlementError on rejection; in every rejected
// case nothing the handlers did during settlement is kept.
func (p *ResultProcessor) ProcessResult(ctx context.Context, data map[string]string) (*GatewayEvent, error) {
	logCtx := logger.LogContext{
		Component: p.component,
		Provider:  "perfectmoney",
		Fields: map[string]any{
			"payment_id": data[FieldPaymentID],
			"batch_num":  data[FieldPaymentBatchNum],
		},
	}

	if !p.signer.Verify(data) {
		p.logger.Warn("Callback hash mismatch", logger.LogContext{
			Component: p.component,
			Provider:  "perfectmoney",
			Fields:    signedFieldsForLog(data),
		})
		p.recorder.RecordCallback(ctx, p.component, OutcomeHashError)
		return nil, &VerificationError{PaymentID: data[FieldPaymentID]}
	}

	handlers := p.registered()
	event := &GatewayEvent{
		Name:        EventPaymentRequest,
		Component:   p.component,
		GatewayData: data,
	}

	if err := p.authorize(ctx, handlers, event); err != nil || !event.Handled {
		if err != nil {
			p.logger.Error("Payment request handler failed", err, logCtx)
		} else {
			p.logger.Warn("Payment request was not handled", logCtx)
		}
		p.recorder.RecordCallback(ctx, p.component, OutcomeUnhandled)
		return nil, &AuthorizationError{PaymentID: event.PaymentID(), Err: err}
	}

	event.Name = EventPaymentSuccess
	err := p.uow.WithinTransaction(ctx, func(txCtx context.Context) error {
		for _, h := range handlers {
			if err := callHandler(txCtx, h.OnPaymentSuccess, event); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		p.logger.Error("Payment settlement rolled back", err, logCtx)
		p.recorder.RecordCallback(ctx, p.component, OutcomeSettlementFailed)
		return nil, &SettlementError{PaymentID: event.PaymentID(), Err: err}
	}

	p.logger.Info("Payment settled", logCtx)
	p.recorder.RecordCallback(ctx, p.component, OutcomeAccepted)
	return event, nil
}

// authorize offers the request to handlers in registration order. The first
// handler that sets Handled claims the payment and later handlers are not
// asked; a handler error stops dispatch and rejects the payment.
func (p *ResultProcessor) authorize(ctx context.Context, handlers []EventHandler, event *GatewayEvent) error {
	for _, h := range handlers {
		if err := callHandler(ctx, h.OnPaymentRequest, event); err != nil {
			event.Handled = false
			return err
		}
		if event.Handled {
			return nil
		}
	}
	return nil
}

// callHandler turns a handler panic into an error
func callHandler(ctx context.Context, fn func(context.Context, *GatewayEvent) error, event *GatewayEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("perfectmoney: %s handler panicked: %v", event.Name, r)
		}
	}()
	return fn(ctx, event)
}

// signedFieldsForLog copies the received signed fields and V2_HASH
func signedFieldsForLog(data map[string]string) map[string]any {
	fields := make(map[string]any, len(signedFields)+1)
	for _, field := range signedFields {
		fields[field] = data[field]
	}
	fields[FieldV2Hash] = data[FieldV2Hash]
	return fields
}
