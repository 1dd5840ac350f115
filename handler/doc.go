// Package handler provides the HTTP handlers of the Perfect Money gateway service.
//
// Handlers look up configured gateways by component name through
// GatewayLookup, so one process can serve several Perfect Money accounts.
//
// # Core Handlers
//
//   - ResultHandler: receives payment notifications posted by Perfect Money
//   - CheckoutHandler: renders the auto-submitting form that sends a buyer to the provider
//   - InvoiceHandler: creates and reads merchant invoices
//   - AccountHandler: account balance and transfers through the provider API
//   - LogsHandler: callback audit trail stored in OpenSearch
//   - HealthHandler: liveness and dependency status
//
// # Payment Notifications
//
//	resultHandler := handler.NewResultHandler(gateways, silent, redirectURL)
//	r.Post("/callback/{component}", resultHandler.HandleResult)
//
// The notification is answered in plain text because the provider does not
// read JSON. Accepted notifications get "OK" (or a redirect when one is
// configured). Rejections use the gateway's error status:
//
//   - 403 Forbidden: V2_HASH did not verify ("Hash error")
//   - 503 Service Unavailable: no handler accepted the payment, or settlement failed
//
// In silent mode every notification is answered as accepted and rejections
// are only logged.
//
// # Checkout
//
//	POST /v1/invoices
//	Authorization: Bearer your-api-key
//	Content-Type: application/json
//
//	{"component": "perfectmoney", "amount": "10.00", "description": "Order #1"}
//
// The response carries a checkoutUrl pointing at
// /checkout/{component}/{invoiceID}, which renders the provider form.
//
// # Account API
//
//	GET  /v1/accounts/{component}/balance
//	POST /v1/accounts/{component}/transfer
//
//	{"target": "U1234567", "amount": "5.00", "paymentId": "P-1", "memo": "payout"}
//
// Provider values are returned in the order the provider sent them. An
// ERROR value from the provider is answered with 422, an unreachable or
// failing provider with 502.
//
// # Error Handling
//
// JSON endpoints share the envelope of the response package:
//
//	{"code": 404, "success": false, "message": "Unknown component", "error": "..."}
package handler
