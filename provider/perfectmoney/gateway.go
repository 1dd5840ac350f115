package perfectmoney

import (
	"context"

	"github.com/shopspring/decimal"
)

// Gateway is one configured Perfect Money integration. It is safe for
// concurrent use once its handlers are registered.
type Gateway struct {
	name      string
	config    *Config
	signer    *Signer
	client    *Client
	processor *ResultProcessor
}

// New configures a gateway named name from conf (see ParseConfig). A unit of
// work is required.
func New(name string, conf map[string]string, opts ...Option) (*Gateway, error) {
	o := buildOptions(opts)
	if o.unitOfWork == nil {
		return nil, &ConfigurationError{Reason: "unit of work is required"}
	}

	config, err := ParseConfig(conf)
	if err != nil {
		return nil, err
	}

	signer := NewSigner(config.AlternateSecret)
	return &Gateway{
		name:      name,
		config:    config,
		signer:    signer,
		client:    newClient(name, config, o),
		processor: newResultProcessor(name, signer, o),
	}, nil
}

func (g *Gateway) Name() string { return g.name }

// Config returns a copy of the gateway configuration
func (g *Gateway) Config() Config { return *g.config }

func (g *Gateway) Signer() *Signer { return g.signer }

func (g *Gateway) Client() *Client { return g.client }

func (g *Gateway) Processor() *ResultProcessor { return g.processor }

// On registers a callback event handler
func (g *Gateway) On(h EventHandler) { g.processor.On(h) }

// Verify checks the V2_HASH of a callback
func (g *Gateway) Verify(notification map[string]string) bool {
	return g.signer.Verify(notification)
}

func (g *Gateway) Call(ctx context.Context, script string, params map[string]string) (*Values, error) {
	return g.client.Call(ctx, script, params)
}

func (g *Gateway) Balance(ctx context.Context) (*Values, error) {
	return g.client.Balance(ctx)
}

func (g *Gateway) Transfer(ctx context.Context, target string, amount decimal.Decimal, paymentID, memo string) (*Values, error) {
	return g.client.Transfer(ctx, target, amount, paymentID, memo)
}

func (g *Gateway) ProcessResult(ctx context.Context, data map[string]string) (*GatewayEvent, error) {
	return g.processor.ProcessResult(ctx, data)
}

// RedirectForm builds the checkout form for an invoice
func (g *Gateway) RedirectForm(invoiceID string, amount decimal.Decimal, description string) (*RedirectForm, error) {
	return BuildRedirectForm(g.config, invoiceID, amount, description)
}
