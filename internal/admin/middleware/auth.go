package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"finitefield.org/portfolio/internal/platform/observability"
)

// RequireAdmin lets authenticated sessions through and sends everyone else to
// the login page. htmx requests get a 401 with HX-Redirect instead of a 302.
func RequireAdmin(loginPath string) func(http.Handler) http.Handler {
	if loginPath == "" {
		loginPath = "/login"
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := SessionFromContext(r.Context())
			if ok && sess.Authenticated() {
				next.ServeHTTP(w, r)
				return
			}
			observability.FromContext(r.Context()).Debug("admin request without session")
			handleUnauthorized(w, r, loginPath)
		})
	}
}

func handleUnauthorized(w http.ResponseWriter, r *http.Request, loginPath string) {
	if IsHTMXRequest(r.Context()) {
		w.Header().Set("HX-Redirect", loginPath)
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	redirectURL := loginPath
	if r.Method == http.MethodGet {
		if u, err := url.Parse(loginPath); err == nil {
			q := u.Query()
			q.Set("next", r.URL.RequestURI())
			u.RawQuery = q.Encode()
			redirectURL = u.String()
		}
	}
	http.Redirect(w, r, redirectURL, http.StatusFound)
}

// SafeNext returns target when it is a local path under base, otherwise base.
func SafeNext(target, base string) string {
	target = strings.TrimSpace(target)
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.Contains(target, "\\") {
		return base
	}
	u, err := url.Parse(target)
	if err != nil || u.IsAbs() || u.Host != "" {
		return base
	}
	if u.Path != base && !strings.HasPrefix(u.Path, strings.TrimRight(base, "/")+"/") {
		return base
	}
	return target
}
