package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/mstgnz/perfectmoney/infra/opensearch"
	"github.com/mstgnz/perfectmoney/infra/response"
)

// CallbackLogReader reads the callback audit trail
type CallbackLogReader interface {
	GetPaymentCallbacks(ctx context.Context, component, paymentID string) ([]opensearch.CallbackLog, error)
	GetRecentCallbacks(ctx context.Context, component string, hours int) ([]opensearch.CallbackLog, error)
}

// LogsHandler handles callback audit queries
type LogsHandler struct {
	logger CallbackLogReader
}

// NewLogsHandler creates a new logs handler
func NewLogsHandler(logger CallbackLogReader) *LogsHandler {
	return &LogsHandler{
		logger: logger,
	}
}

// PaymentCallbacks serves GET /v1/logs/{component}/callbacks/{paymentID}
func (h *LogsHandler) PaymentCallbacks(w http.ResponseWriter, r *http.Request) {
	component := chi.URLParam(r, "component")
	paymentID := chi.URLParam(r, "paymentID")
	if component == "" || paymentID == "" {
		response.Error(w, http.StatusBadRequest, "Component and payment ID are required", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	logs, err := h.logger.GetPaymentCallbacks(ctx, component, paymentID)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Failed to retrieve callback logs", err)
		return
	}

	response.Success(w, http.StatusOK, "Callback logs retrieved", map[string]any{
		"component": component,
		"paymentId": paymentID,
		"count":     len(logs),
		"logs":      logs,
	})
}

// RecentCallbacks serves GET /v1/logs/{component}/callbacks?hours=N
func (h *LogsHandler) RecentCallbacks(w http.ResponseWriter, r *http.Request) {
	component := chi.URLParam(r, "component")
	if component == "" {
		response.Error(w, http.StatusBadRequest, "Component parameter is required", nil)
		return
	}

	hours := 24
	if hoursStr := r.URL.Query().Get("hours"); hoursStr != "" {
		h, err := strconv.Atoi(hoursStr)
		if err != nil || h <= 0 || h > 720 {
			response.Error(w, http.StatusBadRequest, "hours must be between 1 and 720", nil)
			return
		}
		hours = h
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	logs, err := h.logger.GetRecentCallbacks(ctx, component, hours)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Failed to retrieve callback logs", err)
		return
	}

	response.Success(w, http.StatusOK, "Callback logs retrieved", map[string]any{
		"component": component,
		"hours":     hours,
		"count":     len(logs),
		"logs":      logs,
	})
}
