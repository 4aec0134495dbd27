package middleware

import (
	"context"
	"net/http"
	"strings"
)

// DefaultEnvironment labels consoles started without an environment name.
const DefaultEnvironment = "Development"

type consoleKey struct{}

// ConsoleInfo describes the admin console serving the current request.
type ConsoleInfo struct {
	BasePath    string
	Environment string
}

// Console records the admin base path and environment label for handlers
// and templates further down the chain.
func Console(basePath, environment string) func(http.Handler) http.Handler {
	info := ConsoleInfo{
		BasePath:    NormalizeBasePath(basePath),
		Environment: strings.TrimSpace(environment),
	}
	if info.Environment == "" {
		info.Environment = DefaultEnvironment
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), consoleKey{}, info)))
		})
	}
}

// ConsoleFromContext returns the console info, falling back to a root base
// path and the default environment outside the admin routes.
func ConsoleFromContext(ctx context.Context) ConsoleInfo {
	if info, ok := ctx.Value(consoleKey{}).(ConsoleInfo); ok {
		return info
	}
	return ConsoleInfo{BasePath: "/", Environment: DefaultEnvironment}
}

// NormalizeBasePath returns base with a leading slash and no trailing slash.
func NormalizeBasePath(base string) string {
	base = strings.Trim(strings.TrimSpace(base), "/")
	if base == "" {
		return "/"
	}
	return "/" + base
}
