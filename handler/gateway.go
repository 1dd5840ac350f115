package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mstgnz/perfectmoney/infra/response"
	"github.com/mstgnz/perfectmoney/provider/perfectmoney"
)

// GatewayLookup finds a configured gateway by component name.
// *provider.Registry[*perfectmoney.Gateway] satisfies it.
type GatewayLookup interface {
	Get(name string) (*perfectmoney.Gateway, error)
	Names() []string
}

// gatewayFromURL resolves the {component} URL param, writing a JSON 404 when unknown
func gatewayFromURL(w http.ResponseWriter, r *http.Request, gateways GatewayLookup) (*perfectmoney.Gateway, bool) {
	component := chi.URLParam(r, "component")
	if component == "" {
		response.Error(w, http.StatusBadRequest, "Component parameter is required", nil)
		return nil, false
	}

	gw, err := gateways.Get(component)
	if err != nil {
		response.Error(w, http.StatusNotFound, "Unknown component", err)
		return nil, false
	}
	return gw, true
}
