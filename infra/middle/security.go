package middle

import (
	"net"
	"net/http"
	"strings"

	"github.com/mstgnz/perfectmoney/infra/logger"
	"github.com/mstgnz/perfectmoney/infra/response"
)

// SecurityHeadersMiddleware adds security headers to responses. The
// checkout page posts a form to the provider, so form-action allows it.
func SecurityHeadersMiddleware(checkoutOrigin string) func(http.Handler) http.Handler {
	formAction := "'self'"
	if checkoutOrigin != "" {
		formAction += " " + checkoutOrigin
	}
	csp := "default-src 'self'; script-src 'self' 'unsafe-inline'; style-src 'self' 'unsafe-inline'; form-action " + formAction

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("X-XSS-Protection", "1; mode=block")
			w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			w.Header().Set("Content-Security-Policy", csp)
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

			next.ServeHTTP(w, r)
		})
	}
}

// IPWhitelistMiddleware restricts access to the given IPs or CIDR ranges.
// An empty list allows everyone.
func IPWhitelistMiddleware(allowed []string, trustProxy bool) func(http.Handler) http.Handler {
	var nets []*net.IPNet
	for _, entry := range allowed {
		if !strings.Contains(entry, "/") {
			if ip := net.ParseIP(entry); ip != nil && ip.To4() != nil {
				entry += "/32"
			} else {
				entry += "/128"
			}
		}
		_, ipNet, err := net.ParseCIDR(entry)
		if err != nil {
			logger.Warn("Ignoring invalid whitelist entry", logger.LogContext{
				Fields: map[string]any{"entry": entry},
			})
			continue
		}
		nets = append(nets, ipNet)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(allowed) == 0 {
				next.ServeHTTP(w, r)
				return
			}

			clientIP := ClientIP(r, trustProxy)
			ip := net.ParseIP(clientIP)
			for _, n := range nets {
				if ip != nil && n.Contains(ip) {
					next.ServeHTTP(w, r)
					return
				}
			}

			logger.Warn("Rejected request from non-whitelisted IP", logger.LogContext{
				Fields: map[string]any{"client_ip": clientIP, "path": r.URL.Path},
			})
			response.Error(w, http.StatusForbidden, "IP not whitelisted", nil)
		})
	}
}

// RequestValidationMiddleware validates common request properties
func RequestValidationMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch {
				contentType := r.Header.Get("Content-Type")

				// the provider posts callbacks form-urlencoded
				isCallbackEndpoint := strings.HasPrefix(r.URL.Path, "/callback")

				switch {
				case isCallbackEndpoint:
					if contentType != "" && !strings.Contains(contentType, "application/x-www-form-urlencoded") &&
						!strings.Contains(contentType, "multipart/form-data") {
						response.Error(w, http.StatusUnsupportedMediaType, "Content-Type must be application/x-www-form-urlencoded", nil)
						return
					}
				case contentType == "":
					response.Error(w, http.StatusBadRequest, "Content-Type header is required", nil)
					return
				case !strings.Contains(contentType, "application/json"):
					response.Error(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json", nil)
					return
				}
			}

			// 10MB
			if r.ContentLength > 10*1024*1024 {
				response.Error(w, http.StatusRequestEntityTooLarge, "Request body too large", nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
