package router

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/mstgnz/perfectmoney/handler"
	"github.com/mstgnz/perfectmoney/infra/config"
	"github.com/mstgnz/perfectmoney/infra/invoice"
	"github.com/mstgnz/perfectmoney/infra/middle"
	"github.com/mstgnz/perfectmoney/infra/opensearch"
	"github.com/mstgnz/perfectmoney/infra/response"
	v1 "github.com/mstgnz/perfectmoney/router/v1"
)

// AuditLog writes and reads the callback audit trail
type AuditLog interface {
	LogCallback(ctx context.Context, entry opensearch.CallbackLog) error
	handler.CallbackLogReader
}

// Dependencies are the services the HTTP surface is built on
type Dependencies struct {
	Config      *config.AppConfig
	Gateways    handler.GatewayLookup
	Invoices    *invoice.Store
	AuditLog    AuditLog
	Metrics     http.Handler
	RateLimiter *middle.RateLimiter
	// CheckoutOrigin is where checkout forms are posted, allowed by the CSP
	CheckoutOrigin string
}

// New builds the service router
func New(deps Dependencies) http.Handler {
	cfg := deps.Config
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middle.PanicRecoveryMiddleware())
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middle.SecurityHeadersMiddleware(deps.CheckoutOrigin))
	r.Use(middle.RequestValidationMiddleware())

	health := handler.NewHealthHandler(deps.Invoices, deps.Gateways, cfg.EnableLogging)
	r.Get("/health", health.CheckHealth)
	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics)
	}

	checkout := handler.NewCheckoutHandler(deps.Gateways, deps.Invoices)
	r.Get("/checkout/{component}/{invoiceID}", checkout.Checkout)

	// Perfect Money posts payment notifications here; no API key
	result := handler.NewResultHandler(deps.Gateways, cfg.ResultSilent, cfg.ResultRedirectURL)
	r.Group(func(r chi.Router) {
		r.Use(middle.IPWhitelistMiddleware(cfg.CallbackIPWhitelist, cfg.TrustProxyHeaders))
		if deps.AuditLog != nil {
			r.With(middle.CallbackLoggingMiddleware(deps.AuditLog, cfg.TrustProxyHeaders)).
				Post("/callback/{component}", result.HandleResult)
			return
		}
		r.Post("/callback/{component}", result.HandleResult)
	})

	r.Route("/v1", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"Content-Length"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
		if deps.RateLimiter != nil {
			r.Use(middle.RateLimitMiddleware(deps.RateLimiter, cfg.TrustProxyHeaders))
		}
		r.Use(middle.AuthMiddleware(cfg.APIKey))

		handlers := v1.Handlers{
			Invoices: handler.NewInvoiceHandler(deps.Gateways, deps.Invoices, cfg.AppURL),
			Accounts: handler.NewAccountHandler(deps.Gateways),
		}
		if deps.AuditLog != nil {
			handlers.Logs = handler.NewLogsHandler(deps.AuditLog)
		}
		v1.Routes(r, handlers)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusNotFound, "Not Found", nil)
	})

	return r
}
