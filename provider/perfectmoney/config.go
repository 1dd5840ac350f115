package perfectmoney

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mstgnz/perfectmoney/provider"
)

const (
	defaultAPIURL      = "https://perfectmoney.is"
	defaultCheckoutURL = "https://perfectmoney.is/api/step1.asp"
	defaultCurrency    = "USD"
	defaultTimeout     = 30 * time.Second
)

// Config holds one component's Perfect Money settings
type Config struct {
	AccountID       string        `conf:"accountId" validate:"required"`
	AccountPassword string        `conf:"accountPassword" validate:"required"`
	WalletNumber    string        `conf:"walletNumber" validate:"required"`
	WalletCurrency  string        `conf:"walletCurrency" validate:"required"`
	AlternateSecret string        `conf:"alternateSecret" validate:"required"`
	MerchantName    string        `conf:"merchantName" validate:"required"`
	ResultURL       string        `conf:"resultUrl" validate:"required,url"`
	SuccessURL      string        `conf:"successUrl" validate:"required,url"`
	FailureURL      string        `conf:"failureUrl" validate:"required,url"`
	APIURL          string        `conf:"apiUrl" validate:"required,url"`
	CheckoutURL     string        `conf:"checkoutUrl" validate:"required,url"`
	BaseURL         string        `conf:"baseUrl" validate:"omitempty,url"`
	Timeout         time.Duration `conf:"timeout" validate:"gt=0"`
}

// ParseConfig builds a Config from the keys used by the config loader:
// accountId, accountPassword, walletNumber, walletCurrency, alternateSecret,
// merchantName, resultUrl, successUrl, failureUrl, apiUrl, checkoutUrl,
// timeout and baseUrl. Relative URLs are resolved against baseUrl.
func ParseConfig(conf map[string]string) (*Config, error) {
	c := &Config{
		AccountID:       strings.TrimSpace(conf["accountId"]),
		AccountPassword: conf["accountPassword"],
		WalletNumber:    strings.TrimSpace(conf["walletNumber"]),
		WalletCurrency:  strings.TrimSpace(conf["walletCurrency"]),
		AlternateSecret: conf["alternateSecret"],
		MerchantName:    conf["merchantName"],
		ResultURL:       strings.TrimSpace(conf["resultUrl"]),
		SuccessURL:      strings.TrimSpace(conf["successUrl"]),
		FailureURL:      strings.TrimSpace(conf["failureUrl"]),
		APIURL:          strings.TrimSpace(conf["apiUrl"]),
		CheckoutURL:     strings.TrimSpace(conf["checkoutUrl"]),
		BaseURL:         strings.TrimSpace(conf["baseUrl"]),
		Timeout:         defaultTimeout,
	}

	if c.WalletCurrency == "" {
		c.WalletCurrency = defaultCurrency
	}
	if c.APIURL == "" {
		c.APIURL = defaultAPIURL
	}
	if c.CheckoutURL == "" {
		c.CheckoutURL = defaultCheckoutURL
	}

	if raw := strings.TrimSpace(conf["timeout"]); raw != "" {
		timeout, err := parseTimeout(raw)
		if err != nil {
			return nil, &ConfigurationError{Reason: fmt.Sprintf("timeout %q: %v", raw, err)}
		}
		c.Timeout = timeout
	}

	for _, u := range []*string{&c.ResultURL, &c.SuccessURL, &c.FailureURL} {
		resolved, err := c.absoluteURL(*u)
		if err != nil {
			return nil, err
		}
		*u = resolved
	}

	fields, err := provider.ValidateStruct(c)
	if err != nil {
		return nil, &ConfigurationError{Reason: err.Error()}
	}
	if len(fields) > 0 {
		return nil, &ConfigurationError{Fields: fields}
	}

	return c, nil
}

func parseTimeout(raw string) (time.Duration, error) {
	if d, err := time.ParseDuration(raw); err == nil {
		return d, nil
	}
	seconds, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("not a duration")
	}
	return time.Duration(seconds) * time.Second, nil
}

// absoluteURL keeps absolute URLs and resolves relative ones against BaseURL
func (c *Config) absoluteURL(raw string) (string, error) {
	if raw == "" {
		return "", nil
	}

	ref, err := url.Parse(raw)
	if err != nil {
		return "", &ConfigurationError{Reason: fmt.Sprintf("url %q: %v", raw, err)}
	}
	if ref.IsAbs() && ref.Host != "" {
		return raw, nil
	}

	if c.BaseURL == "" {
		return "", &ConfigurationError{Reason: fmt.Sprintf("url %q is relative and baseUrl is not set", raw)}
	}
	base, err := url.Parse(c.BaseURL)
	if err != nil || !base.IsAbs() {
		return "", &ConfigurationError{Reason: fmt.Sprintf("baseUrl %q is not an absolute url", c.BaseURL)}
	}

	return base.ResolveReference(ref).String(), nil
}
