package provider

import (
	"context"
	"time"
)

// Call results reported to recorders
const (
	ResultSuccess        = "success"
	ResultProviderError  = "provider_error"
	ResultStatusError    = "status_error"
	ResultTransportError = "transport_error"
	ResultEmptyResponse  = "empty_response"
)

// APICall describes one outbound provider request once it has finished
type APICall struct {
	Component  string
	Script     string
	Endpoint   string
	Params     map[string]string
	Result     string
	StatusCode int
	Duration   time.Duration
	Err        error
}

// CallRecorder receives every finished outbound call
type CallRecorder interface {
	RecordCall(ctx context.Context, call APICall)
}

// CallbackRecorder receives the outcome of every processed callback
type CallbackRecorder interface {
	RecordCallback(ctx context.Context, component, outcome string)
}

// CallRecorders fans a call out to several recorders
type CallRecorders []CallRecorder

// RecordCall implements CallRecorder
func (rs CallRecorders) RecordCall(ctx context.Context, call APICall) {
	for _, r := range rs {
		if r != nil {
			r.RecordCall(ctx, call)
		}
	}
}

type nopRecorder struct{}

func (nopRecorder) RecordCall(context.Context, APICall) {}

func (nopRecorder) RecordCallback(context.Context, string, string) {}

// NopRecorder discards everything it receives
var NopRecorder = nopRecorder{}
