package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mstgnz/perfectmoney/infra/logger"
	"github.com/mstgnz/perfectmoney/provider/perfectmoney"
)

// ResultHandler receives Perfect Money payment notifications
type ResultHandler struct {
	gateways    GatewayLookup
	silent      bool
	redirectURL string
}

// NewResultHandler creates a result handler. With silent set, rejected
// notifications are answered like accepted ones. A non-empty redirectURL
// sends the caller there after processing instead of answering "OK".
func NewResultHandler(gateways GatewayLookup, silent bool, redirectURL string) *ResultHandler {
	return &ResultHandler{
		gateways:    gateways,
		silent:      silent,
		redirectURL: redirectURL,
	}
}

// HandleResult processes POST /callback/{component}
func (h *ResultHandler) HandleResult(w http.ResponseWriter, r *http.Request) {
	component := chi.URLParam(r, "component")

	gw, err := h.gateways.Get(component)
	if err != nil {
		http.Error(w, "Unknown component", http.StatusNotFound)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Malformed notification", http.StatusBadRequest)
		return
	}

	data := make(map[string]string, len(r.PostForm))
	for key := range r.PostForm {
		data[key] = r.PostForm.Get(key)
	}

	if _, err := gw.ProcessResult(r.Context(), data); err != nil {
		if !h.silent {
			http.Error(w, err.Error(), perfectmoney.HTTPStatus(err))
			return
		}
		logger.Debug("Rejected notification answered silently", logger.LogContext{
			Component: component,
			Provider:  "perfectmoney",
			Fields:    map[string]any{"error": err.Error()},
		})
	}

	if h.redirectURL != "" {
		http.Redirect(w, r, h.redirectURL, http.StatusFound)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
