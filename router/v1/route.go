package v1

import (
	"github.com/go-chi/chi/v5"
	"github.com/mstgnz/perfectmoney/handler"
)

// Handlers groups the handlers served under /v1
type Handlers struct {
	Invoices *handler.InvoiceHandler
	Accounts *handler.AccountHandler
	Logs     *handler.LogsHandler
}

// Routes registers all API routes
func Routes(r chi.Router, h Handlers) {
	r.Route("/invoices", func(r chi.Router) {
		r.Post("/", h.Invoices.Create)
		r.Get("/{invoiceID}", h.Invoices.Get)
	})

	r.Route("/accounts/{component}", func(r chi.Router) {
		r.Get("/balance", h.Accounts.Balance)
		r.Post("/transfer", h.Accounts.Transfer)
	})

	// audit queries need OpenSearch
	if h.Logs != nil {
		r.Route("/logs/{component}/callbacks", func(r chi.Router) {
			r.Get("/", h.Logs.RecentCallbacks)
			r.Get("/{paymentID}", h.Logs.PaymentCallbacks)
		})
	}
}
