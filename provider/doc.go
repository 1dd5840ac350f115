// Package provider holds the plumbing shared by gateway integrations.
//
//   - Registry: named, concurrency-safe lookup of configured gateways
//   - ProviderHTTPClient: form-encoded requests against a provider API
//   - ValidateStruct: validates configuration structs by their conf tags
//   - CallRecorder and CallbackRecorder: hooks for metrics and audit logs
//
// # Registry
//
//	gateways := provider.NewRegistry[*perfectmoney.Gateway]()
//	if err := gateways.Register("shop", gw); err != nil {
//	    return err
//	}
//	gw, err := gateways.Get("shop")
//
// Names are matched exactly and listed in sorted order.
//
// # Recorders
//
// Integrations report each finished outbound call as an APICall and each
// processed callback as an outcome string. CallRecorders fans one call out
// to several recorders:
//
//	recorder := provider.CallRecorders{metricsRecorder, openSearchLogger}
//	recorder.RecordCall(ctx, provider.APICall{Component: "shop", Script: "balance"})
//
// NopRecorder is used when nothing is configured.
package provider
