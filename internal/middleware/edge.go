// Package middleware provides the request-intercepting edge guard and
// supporting HTTP middleware: security headers, per-IP rate limiting,
// content-type enforcement, path denylisting, structured request
// logging and panic recovery.
package middleware

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/dantemoss/moss/internal/config"
)

// apiPathPrefix selects the paths subject to rate limiting and
// content-type enforcement.
const apiPathPrefix = "/api/"

// EdgeGuard intercepts every request ahead of business logic. Order of
// enforcement: security headers, API rate limit, JSON content type for
// API POSTs, then the unconditional path denylist.
type EdgeGuard struct {
	security config.SecurityConfig
	limiter  *RateLimiter
	blocked  map[string]bool
}

// NewEdgeGuard creates an EdgeGuard
func NewEdgeGuard(security config.SecurityConfig, limiter *RateLimiter) *EdgeGuard {
	blocked := make(map[string]bool, len(security.BlockedPaths))
	for _, p := range security.BlockedPaths {
		blocked[p] = true
	}
	return &EdgeGuard{security: security, limiter: limiter, blocked: blocked}
}

// Handler returns the edge guard middleware
func (g *EdgeGuard) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for key, value := range g.security.Headers {
			w.Header().Set(key, value)
		}

		isAPI := strings.HasPrefix(r.URL.Path, apiPathPrefix)

		if isAPI && g.limiter != nil {
			allowed, remaining := g.limiter.Allow(r.Context(), clientIP(r))
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(g.limiter.limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			if !allowed {
				g.limiter.reject(w)
				return
			}
		}

		if isAPI && r.Method == http.MethodPost {
			contentType := r.Header.Get("Content-Type")
			if !strings.Contains(contentType, "application/json") {
				writeJSONError(w, http.StatusBadRequest, "Content-Type must be application/json")
				return
			}
		}

		if g.blocked[r.URL.Path] {
			writeJSONError(w, http.StatusNotFound, "Route not available")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// writeJSONError writes a flat JSON error body
func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// clientIP extracts the client IP, preferring proxy headers
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		ips := strings.Split(xff, ",")
		if ip := strings.TrimSpace(ips[0]); ip != "" {
			return ip
		}
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	return r.RemoteAddr
}
