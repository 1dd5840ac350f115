// Package perfectmoney is a payment gateway service for the Perfect Money
// payment system. It sits between merchant applications and Perfect Money,
// turning invoices into checkout forms and provider notifications into
// settled invoices.
//
// # Overview
//
// The payment flow follows this pattern:
//
//	┌─────────────────┐    ┌─────────────────┐    ┌─────────────────┐
//	│                 │    │                 │    │                 │
//	│   Your Apps     │◄──►│   Gateway       │◄──►│  Perfect Money  │
//	│                 │    │   Service       │    │                 │
//	└─────────────────┘    └─────────────────┘    └─────────────────┘
//
//  1. The application creates an invoice: POST /v1/invoices
//  2. The buyer opens the returned checkoutUrl and is forwarded to Perfect Money
//  3. Perfect Money posts the payment notification to /callback/{component}
//  4. The notification is verified (V2_HASH), matched against the invoice and
//     the invoice is marked paid in one transaction
//
// # Components
//
// One process can serve several Perfect Money wallets. Each wallet is a
// component with its own credentials and callback URL:
//
//	PERFECTMONEY_COMPONENTS=shop,donations
//	SHOP_ACCOUNT_ID=1234567
//	SHOP_ACCOUNT_PASSWORD=passphrase
//	SHOP_WALLET_NUMBER=U1234567
//	SHOP_ALTERNATE_SECRET=alternate passphrase
//	SHOP_MERCHANT_NAME=My Shop
//	SHOP_RESULT_URL=/callback/shop
//	SHOP_SUCCESS_URL=/payment/success
//	SHOP_FAILURE_URL=/payment/failure
//
// Relative URLs are resolved against APP_URL.
//
// # HTTP API
//
//	# Create an invoice
//	POST /v1/invoices
//	Authorization: Bearer your-api-key
//	{"component": "shop", "amount": "10.00", "description": "Order #1"}
//
//	# Read an invoice
//	GET /v1/invoices/{invoiceID}
//
//	# Account API
//	GET  /v1/accounts/{component}/balance
//	POST /v1/accounts/{component}/transfer
//
//	# Callback audit trail (OpenSearch)
//	GET /v1/logs/{component}/callbacks
//	GET /v1/logs/{component}/callbacks/{paymentID}
//
// Public endpoints are /health, /metrics, /checkout/{component}/{invoiceID}
// and /callback/{component}.
//
// # Logging and Metrics
//
// System logs go to the console and, when ENABLE_OPENSEARCH_LOGGING is set,
// to OpenSearch together with every callback and account API call.
// Prometheus metrics are served on /metrics.
//
// # Security Features
//
//   - API key authentication for /v1
//   - Rate limiting per client IP
//   - Callback IP whitelisting (CALLBACK_IP_WHITELIST)
//   - V2_HASH verification of every notification
//   - Proxy headers are only trusted with TRUST_PROXY_HEADERS
//
// The provider integration itself lives in provider/perfectmoney and can be
// used without the HTTP service.
package perfectmoney
