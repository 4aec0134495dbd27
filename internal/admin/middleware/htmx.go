package middleware

import (
	"context"
	"net/http"
	"strings"
)

type htmxKey struct{}

// HTMX marks requests sent by htmx so handlers can answer redirects with
// HX-Redirect instead of a 303.
func HTMX() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			isHTMX := strings.EqualFold(r.Header.Get("HX-Request"), "true")
			if isHTMX {
				w.Header().Add("Vary", "HX-Request")
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), htmxKey{}, isHTMX)))
		})
	}
}

// IsHTMXRequest reports whether the current request was initiated by htmx.
func IsHTMXRequest(ctx context.Context) bool {
	v, _ := ctx.Value(htmxKey{}).(bool)
	return v
}
