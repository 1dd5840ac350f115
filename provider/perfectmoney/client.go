package perfectmoney

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"time"

	"github.com/mstgnz/perfectmoney/infra/logger"
	"github.com/mstgnz/perfectmoney/provider"
	"github.com/shopspring/decimal"
)

// Provider scripts under /acct
const (
	ScriptBalance = "balance"
	ScriptConfirm = "confirm"
)

// hiddenInputPattern matches the provider's response format exactly:
// single-quoted attributes in this order, one tag per field.
var hiddenInputPattern = regexp.MustCompile(`<input name='(.*?)' type='hidden' value='(.*?)'>`)

// Client issues authenticated calls to the provider's account API
type Client struct {
	component string
	config    *Config
	http      *provider.ProviderHTTPClient
	logger    Logger
	recorder  provider.CallRecorder
}

func newClient(component string, config *Config, o *options) *Client {
	httpConfig := provider.CreateHTTPClientConfig(config.APIURL, config.Timeout)
	httpConfig.Transport = o.transport

	return &Client{
		component: component,
		config:    config,
		http:      provider.NewProviderHTTPClient(httpConfig),
		logger:    o.logger,
		recorder:  o.callRecorder,
	}
}

// Call posts params to /acct/<script>.asp and returns the hidden-input fields
// of the answer. AccountID and PassPhrase are sent first; params override them.
// Every failure matches ErrCallFailed; *TransportError and *StatusError tell
// network and HTTP failures apart from an empty answer.
func (c *Client) Call(ctx context.Context, script string, params map[string]string) (*Values, error) {
	form := map[string]string{
		"AccountID":  c.config.AccountID,
		"PassPhrase": c.config.AccountPassword,
	}
	for key, value := range params {
		form[key] = value
	}

	endpoint := "/acct/" + script + ".asp"
	call := provider.APICall{
		Component: c.component,
		Script:    script,
		Endpoint:  c.http.URL(endpoint),
		Params:    params,
	}
	logCtx := logger.LogContext{
		Component: c.component,
		Provider:  "perfectmoney",
		Fields:    map[string]any{"script": script},
	}

	start := time.Now()
	values, err := c.send(ctx, endpoint, form, &call)
	call.Duration = time.Since(start)
	call.Err = err
	c.recorder.RecordCall(ctx, call)

	if err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) {
			logCtx.Fields["status_code"] = statusErr.StatusCode
		}
		c.logger.Error("Perfect Money API call failed", err, logCtx)
		return nil, err
	}

	if values.ProviderError() != nil {
		logCtx.Fields["provider_error"] = values.Get(FieldProviderError)
		c.logger.Warn("Perfect Money rejected the request", logCtx)
	}

	return values, nil
}

func (c *Client) send(ctx context.Context, endpoint string, form map[string]string, call *provider.APICall) (*Values, error) {
	resp, err := c.http.SendForm(ctx, &provider.HTTPRequest{
		Method:   http.MethodPost,
		Endpoint: endpoint,
		FormData: form,
	})
	if err != nil {
		call.Result = provider.ResultTransportError
		return nil, &TransportError{Script: call.Script, Err: err}
	}

	call.StatusCode = resp.StatusCode
	if !resp.IsSuccess() {
		call.Result = provider.ResultStatusError
		return nil, &StatusError{Script: call.Script, StatusCode: resp.StatusCode}
	}

	values := parseHiddenInputs(resp.RawBody)
	if values.Len() == 0 {
		call.Result = provider.ResultEmptyResponse
		return nil, fmt.Errorf("perfectmoney: %s returned no fields: %w", call.Script, ErrCallFailed)
	}

	call.Result = provider.ResultSuccess
	if values.ProviderError() != nil {
		call.Result = provider.ResultProviderError
	}
	return values, nil
}

// parseHiddenInputs collects every hidden input in order; a repeated name
// keeps its first position and its last value.
func parseHiddenInputs(body string) *Values {
	values := NewValues()
	for _, match := range hiddenInputPattern.FindAllStringSubmatch(body, -1) {
		values.Set(match[1], match[2])
	}
	return values
}

// Balance returns one field per wallet, keyed by wallet number
func (c *Client) Balance(ctx context.Context) (*Values, error) {
	return c.Call(ctx, ScriptBalance, nil)
}

// Transfer sends amount from the configured wallet to target. paymentID and
// memo are only sent when non-empty.
func (c *Client) Transfer(ctx context.Context, target string, amount decimal.Decimal, paymentID, memo string) (*Values, error) {
	params := map[string]string{
		"Payer_Account": c.config.WalletNumber,
		"Payee_Account": target,
		"Amount":        amount.String(),
		"PAY_IN":        "1",
	}
	if paymentID != "" {
		params["PAYMENT_ID"] = paymentID
	}
	if memo != "" {
		params["Memo"] = memo
	}

	return c.Call(ctx, ScriptConfirm, params)
}
