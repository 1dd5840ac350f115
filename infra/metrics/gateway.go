package metrics

import (
	"context"

	"github.com/mstgnz/perfectmoney/provider"
	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		apiCallsTotal,
		apiCallDuration,
		callbacksTotal,
	)
}

var (
	apiCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "perfectmoney_api_calls_total",
			Help: "Outbound account API calls by component, script and result.",
		},
		[]string{"component", "script", "result"},
	)

	apiCallDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "perfectmoney_api_call_duration_seconds",
			Help:    "Outbound account API call latency.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"component", "script"},
	)

	callbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "perfectmoney_callbacks_total",
			Help: "Payment result callbacks by component and outcome (accepted/hash_error/unhandled/settlement_failed).",
		},
		[]string{"component", "outcome"},
	)
)

// Recorder feeds gateway activity into the Prometheus collectors.
// It satisfies provider.CallRecorder and provider.CallbackRecorder.
type Recorder struct{}

// NewRecorder returns a recorder bound to the package collectors
func NewRecorder() *Recorder {
	return &Recorder{}
}

// RecordCall counts an outbound call and observes its latency
func (Recorder) RecordCall(_ context.Context, call provider.APICall) {
	apiCallsTotal.WithLabelValues(norm(call.Component), norm(call.Script), norm(call.Result)).Inc()
	apiCallDuration.WithLabelValues(norm(call.Component), norm(call.Script)).Observe(call.Duration.Seconds())
}

// RecordCallback counts a processed payment notification
func (Recorder) RecordCallback(_ context.Context, component, outcome string) {
	callbacksTotal.WithLabelValues(norm(component), norm(outcome)).Inc()
}

var (
	_ provider.CallRecorder     = Recorder{}
	_ provider.CallbackRecorder = Recorder{}
)
