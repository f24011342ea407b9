package server

import (
	"net/http"
	"strings"
)

// SecurityConfig holds the HTTP hardening settings and request limits.
type SecurityConfig struct {
	EnableCORS     bool
	AllowedOrigins []string
	AllowedMethods []string

	// MaxSizeValue caps a single input size in an analyze request.
	MaxSizeValue int
	// MaxSizes caps the number of sizes in an analyze request.
	MaxSizes int
	// MaxIterations caps the timed batches per size.
	MaxIterations int
	// MaxBodyBytes caps the request body.
	MaxBodyBytes int64
}

// DefaultSecurityConfig returns the settings used by `bigocalc serve`.
func DefaultSecurityConfig() SecurityConfig {
	return SecurityConfig{
		EnableCORS:     true,
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		MaxSizeValue:   1_000_000,
		MaxSizes:       32,
		MaxIterations:  100,
		MaxBodyBytes:   64 << 10,
	}
}

// SecurityMiddleware sets security headers, applies CORS and answers
// preflight requests.
func SecurityMiddleware(config SecurityConfig, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("X-XSS-Protection", "1; mode=block")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")

		if config.EnableCORS {
			if origin, ok := allowedOrigin(config.AllowedOrigins, r.Header.Get("Origin")); ok {
				h.Set("Access-Control-Allow-Origin", origin)
				h.Set("Access-Control-Allow-Methods", strings.Join(config.AllowedMethods, ", "))
				h.Set("Access-Control-Allow-Headers", "Content-Type")
				h.Set("Access-Control-Max-Age", "86400")
			}
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next(w, r)
	}
}

// allowedOrigin returns the value of Access-Control-Allow-Origin for the
// request origin. A wildcard entry matches every request.
func allowedOrigin(allowed []string, origin string) (string, bool) {
	for _, o := range allowed {
		if o == "*" {
			return "*", true
		}
		if origin != "" && o == origin {
			return origin, true
		}
	}
	return "", false
}
