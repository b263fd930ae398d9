package middleware

import (
	"net/http"

	"github.com/helperly/helperly/internal/api"
)

// MaxBodyBytes caps request body size at maxBytes. Declared lengths over the
// cap are rejected up front; chunked bodies are cut off by MaxBytesReader
// once they exceed it. A non-positive cap disables the check.
func MaxBodyBytes(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if maxBytes <= 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > maxBytes {
				api.Error(w, http.StatusRequestEntityTooLarge, "request body too large")
				return
			}

			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			}
			next.ServeHTTP(w, r)
		})
	}
}
