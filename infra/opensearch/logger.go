package opensearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mstgnz/perfectmoney/provider"
	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"
)

// CallbackLog is the audit record of one inbound provider callback
type CallbackLog struct {
	Timestamp        time.Time         `json:"timestamp"`
	Component        string            `json:"component"`
	RequestID        string            `json:"request_id"`
	ClientIP         string            `json:"client_ip,omitempty"`
	UserAgent        string            `json:"user_agent,omitempty"`
	Method           string            `json:"method"`
	Path             string            `json:"path"`
	StatusCode       int               `json:"status_code"`
	ProcessingTimeMs int64             `json:"processing_time_ms"`
	PaymentID        string            `json:"payment_id,omitempty"`
	BatchNum         string            `json:"batch_num,omitempty"`
	PayerAccount     string            `json:"payer_account,omitempty"`
	Amount           string            `json:"amount,omitempty"`
	Currency         string            `json:"currency,omitempty"`
	Fields           map[string]string `json:"fields,omitempty"`
	Error            string            `json:"error,omitempty"`
}

// APICallLog is the audit record of one outbound account API call
type APICallLog struct {
	Timestamp        time.Time         `json:"timestamp"`
	Component        string            `json:"component"`
	RequestID        string            `json:"request_id"`
	Script           string            `json:"script"`
	Endpoint         string            `json:"endpoint"`
	Result           string            `json:"result"`
	StatusCode       int               `json:"status_code,omitempty"`
	ProcessingTimeMs int64             `json:"processing_time_ms"`
	Params           map[string]string `json:"params,omitempty"`
	Error            string            `json:"error,omitempty"`
}

// Logger handles OpenSearch logging operations
type Logger struct {
	client *Client
}

// NewLogger creates a new OpenSearch logger
func NewLogger(client *Client) *Logger {
	return &Logger{
		client: client,
	}
}

// LogCallback indexes a callback audit record
func (l *Logger) LogCallback(ctx context.Context, entry CallbackLog) error {
	if !l.client.IsEnabled() {
		return nil
	}

	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	if entry.RequestID == "" {
		entry.RequestID = uuid.New().String()
	}
	entry.Fields = SanitizeFields(entry.Fields)

	return l.index(ctx, l.client.GetLogIndexName(KindCallback), entry)
}

// LogAPICall indexes an outbound call record
func (l *Logger) LogAPICall(ctx context.Context, entry APICallLog) error {
	if !l.client.IsEnabled() {
		return nil
	}

	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	if entry.RequestID == "" {
		entry.RequestID = uuid.New().String()
	}
	entry.Params = SanitizeFields(entry.Params)

	return l.index(ctx, l.client.GetLogIndexName(KindAPI), entry)
}

// RecordCall implements provider.CallRecorder. Indexing runs in the
// background so outbound calls are never slowed down by the audit log.
func (l *Logger) RecordCall(_ context.Context, call provider.APICall) {
	if !l.client.IsEnabled() {
		return
	}

	entry := APICallLog{
		Timestamp:        time.Now().Add(-call.Duration),
		Component:        call.Component,
		Script:           call.Script,
		Endpoint:         call.Endpoint,
		Result:           call.Result,
		StatusCode:       call.StatusCode,
		ProcessingTimeMs: call.Duration.Milliseconds(),
		Params:           call.Params,
	}
	if call.Err != nil {
		entry.Error = call.Err.Error()
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := l.LogAPICall(ctx, entry); err != nil {
			log.Printf("Failed to log API call to OpenSearch: %v", err)
		}
	}()
}

// LogSystemEvent logs a system event to OpenSearch
func (l *Logger) LogSystemEvent(ctx context.Context, entry any) error {
	if !l.client.IsEnabled() {
		return nil
	}

	return l.index(ctx, l.client.GetLogIndexName(KindSystem), entry)
}

func (l *Logger) index(ctx context.Context, indexName string, doc any) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal log: %w", err)
	}

	req := opensearchapi.IndexRequest{
		Index: indexName,
		Body:  bytes.NewReader(body),
	}

	res, err := req.Do(ctx, l.client.GetClient())
	if err != nil {
		return fmt.Errorf("failed to index log: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("opensearch error: %s", res.String())
	}

	return nil
}

// SearchCallbacks returns the newest callback records matching query
func (l *Logger) SearchCallbacks(ctx context.Context, query map[string]any, size int) ([]CallbackLog, error) {
	if !l.client.IsEnabled() {
		return nil, fmt.Errorf("logging is disabled")
	}
	if size <= 0 || size > 100 {
		size = 100
	}

	searchQuery := map[string]any{
		"query": query,
		"sort": []map[string]any{
			{"timestamp": map[string]string{"order": "desc"}},
		},
		"size": size,
	}

	queryJSON, err := json.Marshal(searchQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal query: %w", err)
	}

	req := opensearchapi.SearchRequest{
		Index: []string{l.client.GetLogIndexName(KindCallback)},
		Body:  bytes.NewReader(queryJSON),
	}

	res, err := req.Do(ctx, l.client.GetClient())
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("opensearch search error: %s", res.String())
	}

	var searchResult struct {
		Hits struct {
			Hits []struct {
				Source CallbackLog `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}

	if err := json.NewDecoder(res.Body).Decode(&searchResult); err != nil {
		return nil, fmt.Errorf("failed to decode search results: %w", err)
	}

	logs := make([]CallbackLog, len(searchResult.Hits.Hits))
	for i, hit := range searchResult.Hits.Hits {
		logs[i] = hit.Source
	}

	return logs, nil
}

// GetPaymentCallbacks returns every callback recorded for a payment of a component
func (l *Logger) GetPaymentCallbacks(ctx context.Context, component, paymentID string) ([]CallbackLog, error) {
	query := map[string]any{
		"bool": map[string]any{
			"must": []map[string]any{
				{"term": map[string]any{"component": component}},
				{"term": map[string]any{"payment_id": paymentID}},
			},
		},
	}

	return l.SearchCallbacks(ctx, query, 100)
}

// GetRecentCallbacks returns callbacks of a component from the last hours
func (l *Logger) GetRecentCallbacks(ctx context.Context, component string, hours int) ([]CallbackLog, error) {
	query := map[string]any{
		"bool": map[string]any{
			"must": []map[string]any{
				{"term": map[string]any{"component": component}},
				{"range": map[string]any{
					"timestamp": map[string]any{"gte": fmt.Sprintf("now-%dh", hours)},
				}},
			},
		},
	}

	return l.SearchCallbacks(ctx, query, 100)
}

const redacted = "***REDACTED***"

// sensitiveKeys are compared case-insensitively
var sensitiveKeys = []string{
	"PassPhrase", "AccountID", "accountPassword", "alternateSecret",
	"password", "secret", "api_key", "apiKey", "x-api-key", "authorization", "token",
}

var sensitivePatterns = func() []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, 0, len(sensitiveKeys)*2)
	for _, key := range sensitiveKeys {
		quoted := regexp.QuoteMeta(key)
		patterns = append(patterns,
			regexp.MustCompile(`(?i)("`+quoted+`"\s*:\s*)"[^"]*"`),
			regexp.MustCompile(`(?i)\b(`+quoted+`=)[^&\s]*`),
		)
	}
	return patterns
}()

// SanitizeForLog redacts credentials from JSON or form-encoded text
func SanitizeForLog(data string) string {
	result := data
	for i, re := range sensitivePatterns {
		if i%2 == 0 {
			result = re.ReplaceAllString(result, `${1}"`+redacted+`"`)
		} else {
			result = re.ReplaceAllString(result, `${1}`+redacted)
		}
	}
	return result
}

// SanitizeFields returns a copy of fields with credentials redacted
func SanitizeFields(fields map[string]string) map[string]string {
	if fields == nil {
		return nil
	}

	clean := make(map[string]string, len(fields))
	for key, value := range fields {
		if isSensitiveKey(key) {
			value = redacted
		}
		clean[key] = value
	}
	return clean
}

func isSensitiveKey(key string) bool {
	for _, s := range sensitiveKeys {
		if strings.EqualFold(key, s) {
			return true
		}
	}
	return false
}
