package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mstgnz/perfectmoney/infra/config"
	"github.com/mstgnz/perfectmoney/infra/invoice"
	"github.com/mstgnz/perfectmoney/infra/logger"
	"github.com/mstgnz/perfectmoney/infra/metrics"
	"github.com/mstgnz/perfectmoney/infra/middle"
	"github.com/mstgnz/perfectmoney/infra/opensearch"
	"github.com/mstgnz/perfectmoney/infra/validate"
	"github.com/mstgnz/perfectmoney/provider"
	"github.com/mstgnz/perfectmoney/provider/perfectmoney"
	"github.com/mstgnz/perfectmoney/router"
)

var openSearchLogger *opensearch.Logger

func init() {
	// Load Env; a missing .env is fine when the environment is set directly
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("Load Env Error: %v", err)
	}
	// init conf
	_ = config.App()
	validate.CustomValidate()

	cfg := config.GetAppConfig()
	if cfg.EnableLogging {
		osClient, err := opensearch.NewClient(cfg)
		if err != nil {
			log.Printf("Failed to initialize OpenSearch client: %v", err)
			log.Println("Continuing without OpenSearch logging...")
		} else {
			openSearchLogger = opensearch.NewLogger(osClient)
			log.Println("OpenSearch logging initialized successfully")
		}
	} else {
		log.Println("OpenSearch logging is disabled")
	}

	logger.InitGlobalLogger(openSearchLogger)
	metrics.MustRegister()
}

func main() {
	cfg := config.GetAppConfig()

	store, err := invoice.NewStore(cfg.DBPath)
	if err != nil {
		logger.Fatal("Failed to open invoice store", err)
	}
	defer store.Close()

	gateways, origins := loadGateways(store)
	if gateways.Len() == 0 {
		logger.Warn("No Perfect Money component configured; only health and metrics are served")
	}

	rateLimiter := middle.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute)
	defer rateLimiter.Stop()

	deps := router.Dependencies{
		Config:         cfg,
		Gateways:       gateways,
		Invoices:       store,
		Metrics:        metrics.Handler(),
		RateLimiter:    rateLimiter,
		CheckoutOrigin: strings.Join(origins, " "),
	}
	if openSearchLogger != nil {
		deps.AuditLog = openSearchLogger
	}

	// Create a context that listens for interrupt and terminate signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           router.New(deps),
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server stopped", err)
		}
	}()

	logger.Info("API is running", logger.LogContext{Fields: map[string]any{
		"port":       cfg.Port,
		"components": gateways.Names(),
	}})

	// Block until a signal is received
	<-ctx.Done()

	logger.Info("Shutting down gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", err)
	}
}

// loadGateways reads the component configuration from the environment and
// builds the gateways. Any invalid component stops startup.
func loadGateways(store *invoice.Store) (*provider.Registry[*perfectmoney.Gateway], []string) {
	gatewayConfig := config.NewGatewayConfig()
	if err := gatewayConfig.LoadFromEnv(); err != nil {
		logger.Fatal("Invalid component configuration", err)
	}

	recorder := metrics.NewRecorder()
	calls := provider.CallRecorders{recorder}
	if openSearchLogger != nil {
		calls = append(calls, openSearchLogger)
	}

	gateways, origins, err := buildGateways(gatewayConfig, store,
		perfectmoney.WithCallRecorder(calls),
		perfectmoney.WithCallbackRecorder(recorder),
	)
	if err != nil {
		logger.Fatal("Failed to configure gateways", err)
	}
	return gateways, origins
}

// buildGateways creates one gateway per configured component, each settling
// invoices in store, and returns the distinct checkout origins their payment
// forms post to. The first component that cannot be built is returned as an
// error.
func buildGateways(gatewayConfig *config.GatewayConfig, store *invoice.Store, opts ...perfectmoney.Option) (*provider.Registry[*perfectmoney.Gateway], []string, error) {
	gateways := provider.NewRegistry[*perfectmoney.Gateway]()
	seen := make(map[string]bool)
	var origins []string

	for _, component := range gatewayConfig.Components() {
		conf, err := gatewayConfig.GetConfig(component)
		if err != nil {
			return nil, nil, err
		}

		gw, err := perfectmoney.New(component, conf, append([]perfectmoney.Option{perfectmoney.WithUnitOfWork(store)}, opts...)...)
		if err != nil {
			return nil, nil, fmt.Errorf("component %s: %w", component, err)
		}
		gw.On(invoice.NewSubscriber(store))

		if err := gateways.Register(component, gw); err != nil {
			return nil, nil, fmt.Errorf("component %s: %w", component, err)
		}

		if u, err := url.Parse(gw.Config().CheckoutURL); err == nil && u.Host != "" {
			origin := u.Scheme + "://" + u.Host
			if !seen[origin] {
				seen[origin] = true
				origins = append(origins, origin)
			}
		}
	}

	return gateways, origins, nil
}
