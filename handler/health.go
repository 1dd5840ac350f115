package handler

import (
	"context"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/mstgnz/perfectmoney/infra/config"
	"github.com/mstgnz/perfectmoney/infra/response"
)

// Pinger checks a backing store
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles health check requests
type HealthHandler struct {
	store          Pinger
	gateways       GatewayLookup
	loggingEnabled bool
	startTime      time.Time
}

// HealthStatus represents overall system health
type HealthStatus struct {
	Status      string                    `json:"status"`
	Version     string                    `json:"version"`
	Timestamp   time.Time                 `json:"timestamp"`
	Uptime      string                    `json:"uptime"`
	Environment string                    `json:"environment"`
	Database    *DatabaseHealth           `json:"database"`
	Components  []string                  `json:"components"`
	System      *SystemHealth             `json:"system"`
	Services    map[string]*ServiceHealth `json:"services"`
}

// DatabaseHealth represents invoice store health
type DatabaseHealth struct {
	Status       string `json:"status"`
	Connected    bool   `json:"connected"`
	ResponseTime string `json:"response_time"`
	Error        string `json:"error,omitempty"`
}

// SystemHealth represents system resource health
type SystemHealth struct {
	Memory     *MemoryHealth `json:"memory"`
	GoRoutines int           `json:"goroutines"`
}

// MemoryHealth represents memory usage
type MemoryHealth struct {
	Alloc      string `json:"alloc"`
	TotalAlloc string `json:"total_alloc"`
	Sys        string `json:"sys"`
	GCRuns     uint32 `json:"gc_runs"`
}

// ServiceHealth represents individual service health
type ServiceHealth struct {
	Status      string `json:"status"`
	Healthy     bool   `json:"healthy"`
	Description string `json:"description,omitempty"`
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(store Pinger, gateways GatewayLookup, loggingEnabled bool) *HealthHandler {
	return &HealthHandler{
		store:          store,
		gateways:       gateways,
		loggingEnabled: loggingEnabled,
		startTime:      time.Now(),
	}
}

// CheckHealth serves GET /health
func (h *HealthHandler) CheckHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	health := &HealthStatus{
		Version:     "1.0.0",
		Timestamp:   time.Now().UTC(),
		Uptime:      time.Since(h.startTime).String(),
		Environment: config.GetEnv("ENVIRONMENT", "development"),
		Database:    h.checkDatabaseHealth(ctx),
		Components:  h.gateways.Names(),
		System:      checkSystemHealth(),
		Services:    h.checkServicesHealth(),
	}
	health.Status = determineOverallStatus(health)

	statusCode := http.StatusOK
	if health.Status == "unhealthy" {
		statusCode = http.StatusServiceUnavailable
	}

	_ = response.WriteJSON(w, statusCode, response.Response{
		Code:    statusCode,
		Success: health.Status != "unhealthy",
		Message: fmt.Sprintf("Service is %s", health.Status),
		Data:    health,
	})
}

func (h *HealthHandler) checkDatabaseHealth(ctx context.Context) *DatabaseHealth {
	dbHealth := &DatabaseHealth{Status: "unknown"}

	if h.store == nil {
		dbHealth.Status = "not_configured"
		dbHealth.Error = "Invoice store not configured"
		return dbHealth
	}

	start := time.Now()
	err := h.store.Ping(ctx)
	elapsed := time.Since(start)
	dbHealth.ResponseTime = fmt.Sprintf("%.0fms", float64(elapsed.Nanoseconds())/1e6)

	switch {
	case err != nil:
		dbHealth.Status = "unhealthy"
		dbHealth.Error = err.Error()
	case elapsed > time.Second:
		dbHealth.Status = "degraded"
		dbHealth.Connected = true
	default:
		dbHealth.Status = "healthy"
		dbHealth.Connected = true
	}

	return dbHealth
}

func (h *HealthHandler) checkServicesHealth() map[string]*ServiceHealth {
	services := map[string]*ServiceHealth{
		"gateways": {
			Status:      "healthy",
			Healthy:     true,
			Description: "Perfect Money components configured",
		},
		"opensearch_logger": {
			Status:      "healthy",
			Healthy:     true,
			Description: "Callback and API call audit logging",
		},
	}

	if len(h.gateways.Names()) == 0 {
		services["gateways"].Status = "unhealthy"
		services["gateways"].Healthy = false
		services["gateways"].Description = "No Perfect Money component is configured"
	}

	if !h.loggingEnabled {
		services["opensearch_logger"].Status = "not_configured"
		services["opensearch_logger"].Description = "OpenSearch logging disabled"
	}

	return services
}

func checkSystemHealth() *SystemHealth {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	return &SystemHealth{
		Memory: &MemoryHealth{
			Alloc:      formatBytes(memStats.Alloc),
			TotalAlloc: formatBytes(memStats.TotalAlloc),
			Sys:        formatBytes(memStats.Sys),
			GCRuns:     memStats.NumGC,
		},
		GoRoutines: runtime.NumGoroutine(),
	}
}

func determineOverallStatus(health *HealthStatus) string {
	if health.Database != nil && health.Database.Status == "unhealthy" {
		return "unhealthy"
	}
	if gw, ok := health.Services["gateways"]; ok && !gw.Healthy {
		return "unhealthy"
	}
	if health.Database != nil && health.Database.Status == "degraded" {
		return "degraded"
	}
	return "healthy"
}

func formatBytes(bytes uint64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
