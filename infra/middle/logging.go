package middle

import (
	"bytes"
	"context"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mstgnz/perfectmoney/infra/opensearch"
)

// CallbackSink stores callback audit records
type CallbackSink interface {
	LogCallback(ctx context.Context, entry opensearch.CallbackLog) error
}

// responseWriter wraps http.ResponseWriter to capture the status and body
type responseWriter struct {
	http.ResponseWriter
	body       *bytes.Buffer
	statusCode int
	startTime  time.Time
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		body:           &bytes.Buffer{},
		statusCode:     http.StatusOK,
		startTime:      time.Now(),
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	rw.body.Write(b)
	return rw.ResponseWriter.Write(b)
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	rw.statusCode = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}

// CallbackLoggingMiddleware audits every payment callback. It must be
// mounted on the callback route so the {component} URL param is resolved.
func CallbackLoggingMiddleware(sink CallbackSink, trustProxy bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var requestBody []byte
			if r.Body != nil {
				requestBody, _ = io.ReadAll(r.Body)
				r.Body = io.NopCloser(bytes.NewReader(requestBody))
			}

			rw := newResponseWriter(w)
			next.ServeHTTP(rw, r)

			fields := make(map[string]string)
			if form, err := url.ParseQuery(string(requestBody)); err == nil {
				for key := range form {
					fields[key] = form.Get(key)
				}
			}

			entry := opensearch.CallbackLog{
				Timestamp:        rw.startTime,
				Component:        chi.URLParam(r, "component"),
				RequestID:        middleware.GetReqID(r.Context()),
				ClientIP:         ClientIP(r, trustProxy),
				UserAgent:        r.UserAgent(),
				Method:           r.Method,
				Path:             r.URL.Path,
				StatusCode:       rw.statusCode,
				ProcessingTimeMs: time.Since(rw.startTime).Milliseconds(),
				PaymentID:        fields["PAYMENT_ID"],
				BatchNum:         fields["PAYMENT_BATCH_NUM"],
				PayerAccount:     fields["PAYER_ACCOUNT"],
				Amount:           fields["PAYMENT_AMOUNT"],
				Currency:         fields["PAYMENT_UNITS"],
				Fields:           fields,
			}
			if rw.statusCode >= http.StatusBadRequest {
				entry.Error = http.StatusText(rw.statusCode)
			}

			// never block the provider's request on the audit log
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()

				if err := sink.LogCallback(ctx, entry); err != nil {
					log.Printf("Failed to log callback to OpenSearch: %v", err)
				}
			}()
		})
	}
}
