package perfectmoney

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
)

const redirectMessage = "Now you will be redirected to the payment system."

// FormField is one hidden input of the checkout form
type FormField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// RedirectForm describes the form that sends a browser to the provider's
// hosted checkout. Rendering it is up to the caller.
type RedirectForm struct {
	Action  string      `json:"action"`
	Method  string      `json:"method"`
	Message string      `json:"message"`
	Fields  []FormField `json:"fields"`
}

// Get returns the value of a field or ""
func (f *RedirectForm) Get(name string) string {
	for _, field := range f.Fields {
		if field.Name == name {
			return field.Value
		}
	}
	return ""
}

// Encode returns the fields as a form-encoded body
func (f *RedirectForm) Encode() string {
	values := url.Values{}
	for _, field := range f.Fields {
		values.Set(field.Name, field.Value)
	}
	return values.Encode()
}

// BuildRedirectForm produces the checkout form for an invoice. The amount is
// always written with two decimals and a dot. SUGGESTED_MEMO is only added
// for a non-empty description.
func BuildRedirectForm(config *Config, invoiceID string, amount decimal.Decimal, description string) (*RedirectForm, error) {
	if strings.TrimSpace(invoiceID) == "" {
		return nil, fmt.Errorf("%w: invoice id is required", ErrInvalidRequest)
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidRequest)
	}

	fields := []FormField{
		{Name: "PAYEE_ACCOUNT", Value: config.WalletNumber},
		{Name: "PAYEE_NAME", Value: config.MerchantName},
		{Name: FieldPaymentID, Value: invoiceID},
		{Name: FieldPaymentAmount, Value: amount.StringFixed(2)},
		{Name: FieldPaymentUnits, Value: config.WalletCurrency},
		{Name: "STATUS_URL", Value: config.ResultURL},
		{Name: "PAYMENT_URL", Value: config.SuccessURL},
		{Name: "NOPAYMENT_URL", Value: config.FailureURL},
	}
	if description != "" {
		fields = append(fields, FormField{Name: "SUGGESTED_MEMO", Value: description})
	}

	return &RedirectForm{
		Action:  config.CheckoutURL,
		Method:  "POST",
		Message: redirectMessage,
		Fields:  fields,
	}, nil
}
