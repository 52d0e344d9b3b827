package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"eventpages/internal/adapters/ratelimit"
	h "eventpages/internal/delivery/http/helpers"
)

// RateLimit returns a wrapper that checks the limiter for the given route
// class before calling next. Over-limit requests get 429 with a Retry-After
// header. A limiter outage fails open: public pages keep serving.
func RateLimit(limiter ratelimit.Limiter, routeClass string, logger *slog.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			result, err := limiter.Allow(r.Context(), routeClass, clientID(r))
			if err != nil {
				logger.WarnContext(r.Context(), "rate limiter unavailable", "route_class", routeClass, "err", err)
				next(w, r)
				return
			}
			if !result.Allowed {
				retryAfter := int(time.Until(result.ResetAt).Seconds())
				if retryAfter < 1 {
					retryAfter = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				h.WriteJSONError(w, http.StatusTooManyRequests, h.ErrCodeRateLimited, "too many requests, retry later")
				return
			}
			next(w, r)
		}
	}
}

// clientID identifies the caller for rate limiting. Behind a proxy the first
// X-Forwarded-For hop is the client; otherwise the connection's remote host.
func clientID(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if i := strings.IndexByte(xff, ','); i >= 0 {
			return strings.TrimSpace(xff[:i])
		}
		return strings.TrimSpace(xff)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
