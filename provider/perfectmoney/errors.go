package perfectmoney

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/mstgnz/perfectmoney/provider"
)

var (
	// ErrCallFailed matches every failed outbound call: unreachable provider,
	// non-2xx status, or a response without hidden-input fields.
	ErrCallFailed = errors.New("perfectmoney: call failed")

	// ErrServiceUnavailable matches callback rejections the provider should
	// retry later.
	ErrServiceUnavailable = errors.New("perfectmoney: service unavailable")

	// ErrInvalidRequest is returned for caller input the gateway refuses to send.
	ErrInvalidRequest = errors.New("perfectmoney: invalid request")
)

const (
	msgHashError       = "Hash error"
	msgProcessingError = "Error processing request"
)

// ConfigurationError reports missing or malformed gateway configuration
type ConfigurationError struct {
	Fields []provider.FieldError
	Reason string
}

func (e *ConfigurationError) Error() string {
	if len(e.Fields) > 0 {
		return "perfectmoney: invalid configuration: " + provider.DescribeFieldErrors(e.Fields)
	}
	return "perfectmoney: invalid configuration: " + e.Reason
}

func (e *ConfigurationError) HTTPStatus() int { return http.StatusInternalServerError }

// VerificationError rejects a callback whose V2_HASH does not match
type VerificationError struct {
	PaymentID string
}

func (e *VerificationError) Error() string { return msgHashError }

func (e *VerificationError) HTTPStatus() int { return http.StatusForbidden }

// AuthorizationError rejects a callback no handler accepted
type AuthorizationError struct {
	PaymentID string
	Err       error
}

func (e *AuthorizationError) Error() string { return msgProcessingError }

func (e *AuthorizationError) Unwrap() error { return e.Err }

func (e *AuthorizationError) Is(target error) bool { return target == ErrServiceUnavailable }

func (e *AuthorizationError) HTTPStatus() int { return http.StatusServiceUnavailable }

// SettlementError rejects a callback whose settlement was rolled back
type SettlementError struct {
	PaymentID string
	Err       error
}

func (e *SettlementError) Error() string { return msgProcessingError }

func (e *SettlementError) Unwrap() error { return e.Err }

func (e *SettlementError) Is(target error) bool { return target == ErrServiceUnavailable }

func (e *SettlementError) HTTPStatus() int { return http.StatusServiceUnavailable }

// TransportError means the provider could not be reached at all
type TransportError struct {
	Script string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("perfectmoney: %s request failed: %v", e.Script, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == ErrCallFailed }

func (e *TransportError) HTTPStatus() int { return http.StatusBadGateway }

// StatusError means the provider answered with a non-2xx status
type StatusError struct {
	Script     string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("perfectmoney: %s returned HTTP %d", e.Script, e.StatusCode)
}

func (e *StatusError) Is(target error) bool { return target == ErrCallFailed }

func (e *StatusError) HTTPStatus() int { return http.StatusBadGateway }

// ProviderError carries the provider's own ERROR field
type ProviderError struct {
	Message string
}

func (e *ProviderError) Error() string { return "perfectmoney: provider error: " + e.Message }

func (e *ProviderError) HTTPStatus() int { return http.StatusUnprocessableEntity }

// HTTPStatus maps an error returned by this package to an HTTP status code
func HTTPStatus(err error) int {
	var withStatus interface{ HTTPStatus() int }
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &withStatus):
		return withStatus.HTTPStatus()
	case errors.Is(err, ErrCallFailed):
		return http.StatusBadGateway
	case errors.Is(err, ErrInvalidRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
