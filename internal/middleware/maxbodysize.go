package middleware

import "net/http"

// NewMaxBodySize returns a middleware that limits incoming request body
// sizes to limit bytes. Requests that declare an oversized Content-Length up
// front are rejected with 413 before reaching the next handler; for the
// rest the body is wrapped with http.MaxBytesReader, so a handler reading
// past the limit gets an error instead of an unbounded read.
func NewMaxBodySize(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > limit {
				http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}
