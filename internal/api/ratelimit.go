package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/lionbidapp/lionbid-server/internal/ratelimit"
)

// rateLimitMiddleware throttles the two abuse-prone endpoints by client
// IP: admin login attempts and bid submissions. Everything else passes
// through untouched.
func rateLimitMiddleware(login, bids *ratelimit.KeyedRateLimiter, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var limiter *ratelimit.KeyedRateLimiter
			switch limiterFor(r) {
			case limiterLogin:
				limiter = login
			case limiterBids:
				limiter = bids
			default:
				next.ServeHTTP(w, r)
				return
			}

			key := getClientIP(r)
			if !limiter.Allow(key) {
				logger.Warn("rate limit exceeded",
					"ip", key,
					"path", r.URL.Path,
				)
				w.Header().Set("Content-Type", "application/json; charset=utf-8")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"v":1,"success":false,"error":"Too many requests. Please try again later."}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

type limiterKind int

const (
	limiterNone limiterKind = iota
	limiterLogin
	limiterBids
)

func limiterFor(r *http.Request) limiterKind {
	if r.Method != http.MethodPost {
		return limiterNone
	}
	if r.URL.Path == "/api/v1/admin/login" {
		return limiterLogin
	}
	if strings.HasPrefix(r.URL.Path, "/api/v1/lions/") && strings.HasSuffix(r.URL.Path, "/bids") {
		return limiterBids
	}
	return limiterNone
}

// getClientIP extracts the client IP from the request.
// Checks X-Forwarded-For and X-Real-IP headers before falling back to RemoteAddr.
func getClientIP(r *http.Request) string {
	// Check X-Forwarded-For (may contain multiple IPs, first is client).
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// Take first IP in the chain.
		for i := 0; i < len(xff); i++ {
			if xff[i] == ',' {
				return xff[:i]
			}
		}
		return xff
	}

	// Check X-Real-IP.
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	// Fall back to RemoteAddr (strip port).
	ip := r.RemoteAddr
	for i := len(ip) - 1; i >= 0; i-- {
		if ip[i] == ':' {
			return ip[:i]
		}
	}
	return ip
}
