package middle

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/mstgnz/perfectmoney/infra/logger"
	"github.com/mstgnz/perfectmoney/infra/response"
)

// PanicRecoveryMiddleware handles panics and converts them to HTTP 500 errors
func PanicRecoveryMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				// the server aborts the response itself
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				logger.Error("Panic recovered", fmt.Errorf("%v", rec), logger.LogContext{
					RequestID: middleware.GetReqID(r.Context()),
					Fields: map[string]any{
						"method": r.Method,
						"path":   r.URL.Path,
						"stack":  string(debug.Stack()),
					},
				})

				w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
				w.Header().Set("Pragma", "no-cache")
				w.Header().Set("Expires", "0")

				response.Error(w, http.StatusInternalServerError, "Internal server error", fmt.Errorf("an unexpected error occurred"))
			}()

			next.ServeHTTP(w, r)
		})
	}
}
