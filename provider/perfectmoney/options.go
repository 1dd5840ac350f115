package perfectmoney

import (
	"context"
	"net/http"

	"github.com/mstgnz/perfectmoney/infra/logger"
	"github.com/mstgnz/perfectmoney/provider"
)

// Logger is the subset of *logger.SystemLogger the gateway writes to
type Logger interface {
	Debug(message string, ctx ...logger.LogContext)
	Info(message string, ctx ...logger.LogContext)
	Warn(message string, ctx ...logger.LogContext)
	Error(message string, err error, ctx ...logger.LogContext)
}

// UnitOfWork runs fn atomically: every change fn makes through ctx is
// committed when fn returns nil and rolled back otherwise.
type UnitOfWork interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// UnitOfWorkFunc adapts a function to UnitOfWork
type UnitOfWorkFunc func(ctx context.Context, fn func(ctx context.Context) error) error

// WithinTransaction implements UnitOfWork
func (f UnitOfWorkFunc) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return f(ctx, fn)
}

type options struct {
	logger           Logger
	unitOfWork       UnitOfWork
	callRecorder     provider.CallRecorder
	callbackRecorder provider.CallbackRecorder
	transport        http.RoundTripper
}

// Option configures a Gateway
type Option func(*options)

// WithLogger replaces the global system logger
func WithLogger(l Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithUnitOfWork sets the transaction boundary used while settling callbacks
func WithUnitOfWork(uow UnitOfWork) Option {
	return func(o *options) {
		o.unitOfWork = uow
	}
}

// WithCallRecorder receives every finished outbound call
func WithCallRecorder(r provider.CallRecorder) Option {
	return func(o *options) {
		o.callRecorder = r
	}
}

// WithCallbackRecorder receives the outcome of every processed callback
func WithCallbackRecorder(r provider.CallbackRecorder) Option {
	return func(o *options) {
		o.callbackRecorder = r
	}
}

// WithTransport overrides the HTTP transport used for outbound calls
func WithTransport(t http.RoundTripper) Option {
	return func(o *options) {
		o.transport = t
	}
}

func buildOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = logger.GetGlobalLogger()
	}
	if o.callRecorder == nil {
		o.callRecorder = provider.NopRecorder
	}
	if o.callbackRecorder == nil {
		o.callbackRecorder = provider.NopRecorder
	}
	return o
}
