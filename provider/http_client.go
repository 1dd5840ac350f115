package provider

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultHTTPTimeout = 30 * time.Second
	// account API answers are small HTML pages
	defaultMaxResponseBytes = 1 << 20
)

// ErrResponseTooLarge reports a response body above MaxResponseBytes
var ErrResponseTooLarge = errors.New("response body exceeds size limit")

// HTTPClientConfig represents configuration for HTTP client
type HTTPClientConfig struct {
	BaseURL            string
	Timeout            time.Duration
	InsecureSkipVerify bool
	DefaultHeaders     map[string]string
	// MaxResponseBytes caps how much of a response body is read
	MaxResponseBytes int64
	// Transport overrides the default transport, mainly for tests
	Transport http.RoundTripper
}

// HTTPRequest is one form post to the provider
type HTTPRequest struct {
	Method   string
	Endpoint string
	Headers  map[string]string
	FormData map[string]string
}

// HTTPResponse is the provider's raw answer
type HTTPResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	RawBody    string
}

// IsSuccess reports whether the provider answered with a 2xx status
func (r *HTTPResponse) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// ProviderHTTPClient posts forms to a provider API
type ProviderHTTPClient struct {
	config *HTTPClientConfig
	client *http.Client
}

// NewProviderHTTPClient creates a new provider HTTP client
func NewProviderHTTPClient(config *HTTPClientConfig) *ProviderHTTPClient {
	if config.Timeout == 0 {
		config.Timeout = defaultHTTPTimeout
	}
	if config.MaxResponseBytes <= 0 {
		config.MaxResponseBytes = defaultMaxResponseBytes
	}

	transport := config.Transport
	if transport == nil {
		transport = &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			TLSHandshakeTimeout: 10 * time.Second,
			MaxIdleConnsPerHost: 4,
			TLSClientConfig: &tls.Config{
				MinVersion:         tls.VersionTLS12,
				InsecureSkipVerify: config.InsecureSkipVerify,
			},
		}
	}

	return &ProviderHTTPClient{
		config: config,
		client: &http.Client{
			Timeout:   config.Timeout,
			Transport: transport,
		},
	}
}

// SendForm posts req.FormData url-encoded. Any HTTP status is returned as a
// response; the error is reserved for failures to reach the provider.
func (c *ProviderHTTPClient) SendForm(ctx context.Context, req *HTTPRequest) (*HTTPResponse, error) {
	method := req.Method
	if method == "" {
		method = http.MethodPost
	}

	form := make(url.Values, len(req.FormData))
	for key, value := range req.FormData {
		form.Set(key, value)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.URL(req.Endpoint), strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}

	for key, value := range c.config.DefaultHeaders {
		httpReq.Header.Set(key, value)
	}
	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	// one byte past the cap tells a full body from a truncated one
	body, err := io.ReadAll(io.LimitReader(resp.Body, c.config.MaxResponseBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(body)) > c.config.MaxResponseBytes {
		return nil, fmt.Errorf("%w (%d bytes)", ErrResponseTooLarge, c.config.MaxResponseBytes)
	}

	return &HTTPResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       body,
		RawBody:    string(body),
	}, nil
}

// URL resolves endpoint against the base URL; absolute endpoints are kept
func (c *ProviderHTTPClient) URL(endpoint string) string {
	if strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://") {
		return endpoint
	}
	return strings.TrimRight(c.config.BaseURL, "/") + "/" + strings.TrimLeft(endpoint, "/")
}

// CreateHTTPClientConfig returns the settings used for account API calls
func CreateHTTPClientConfig(baseURL string, timeout time.Duration) *HTTPClientConfig {
	return &HTTPClientConfig{
		BaseURL: baseURL,
		Timeout: timeout,
		DefaultHeaders: map[string]string{
			"Accept":     "text/html",
			"User-Agent": "PerfectMoney-Go/1.0",
		},
	}
}
