package perfectmoney

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"nil", nil, http.StatusOK},
		{"configuration", &ConfigurationError{Reason: "x"}, http.StatusInternalServerError},
		{"verification", &VerificationError{}, http.StatusForbidden},
		{"authorization", &AuthorizationError{}, http.StatusServiceUnavailable},
		{"settlement", &SettlementError{Err: errors.New("x")}, http.StatusServiceUnavailable},
		{"transport", &TransportError{Script: "balance", Err: errors.New("refused")}, http.StatusBadGateway},
		{"status", &StatusError{Script: "balance", StatusCode: 500}, http.StatusBadGateway},
		{"empty_response", fmt.Errorf("no fields: %w", ErrCallFailed), http.StatusBadGateway},
		{"provider", &ProviderError{Message: "Invalid"}, http.StatusUnprocessableEntity},
		{"invalid_request", fmt.Errorf("%w: amount", ErrInvalidRequest), http.StatusBadRequest},
		{"wrapped_verification", fmt.Errorf("callback: %w", &VerificationError{}), http.StatusForbidden},
		{"unknown", errors.New("other"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HTTPStatus(tt.err))
		})
	}
}

func TestErrors_CallFailedFamily(t *testing.T) {
	transport := &TransportError{Script: "confirm", Err: errors.New("connection refused")}
	status := &StatusError{Script: "confirm", StatusCode: 503}

	assert.ErrorIs(t, transport, ErrCallFailed)
	assert.ErrorIs(t, status, ErrCallFailed)
	assert.NotErrorIs(t, transport, ErrServiceUnavailable)

	assert.Equal(t, "perfectmoney: confirm request failed: connection refused", transport.Error())
	assert.Equal(t, "perfectmoney: confirm returned HTTP 503", status.Error())
}

func TestConfigurationError_Message(t *testing.T) {
	err := &ConfigurationError{Reason: "unit of work is required"}
	assert.Equal(t, "perfectmoney: invalid configuration: unit of work is required", err.Error())
}
