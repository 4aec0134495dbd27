package middleware

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"net/http"
	"time"

	"go.uber.org/zap"

	"finitefield.org/portfolio/internal/platform/observability"
)

type csrfKey struct{}

// CSRFConfig names the cookie, header and form field that carry the admin
// form token. Zero values fall back to admin_csrf, X-CSRF-Token, csrf_token,
// the root path and a 24h cookie.
type CSRFConfig struct {
	CookieName string
	CookiePath string
	HeaderName string
	FieldName  string
	MaxAge     time.Duration
	Secure     bool
}

type csrfGuard struct {
	cookie http.Cookie
	header string
	field  string
}

func newCSRFGuard(cfg CSRFConfig) *csrfGuard {
	g := &csrfGuard{
		cookie: http.Cookie{
			Name:     cfg.CookieName,
			Path:     cfg.CookiePath,
			HttpOnly: true,
			Secure:   cfg.Secure,
			SameSite: http.SameSiteStrictMode,
			MaxAge:   int(cfg.MaxAge.Seconds()),
		},
		header: cfg.HeaderName,
		field:  cfg.FieldName,
	}
	if g.cookie.Name == "" {
		g.cookie.Name = "admin_csrf"
	}
	if g.cookie.Path == "" {
		g.cookie.Path = "/"
	}
	if g.cookie.MaxAge <= 0 {
		g.cookie.MaxAge = int((24 * time.Hour).Seconds())
	}
	if g.header == "" {
		g.header = "X-CSRF-Token"
	}
	if g.field == "" {
		g.field = "csrf_token"
	}
	return g
}

// CSRF guards every admin form post with a double-submit token. Reads get the
// token cookie issued when it is missing; writes must echo the cookie value in
// the header (htmx) or in the hidden form field (plain forms).
func CSRF(cfg CSRFConfig) func(http.Handler) http.Handler {
	guard := newCSRFGuard(cfg)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := guard.token(w, r)
			if err != nil {
				observability.FromContext(r.Context()).Error("csrf token unavailable", zap.Error(err))
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}
			if changesState(r.Method) && !guard.echoed(r, token) {
				observability.FromContext(r.Context()).Warn("admin form rejected: csrf token mismatch")
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), csrfKey{}, token)))
		})
	}
}

// CSRFTokenFromContext returns the token admin templates embed in forms.
func CSRFTokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(csrfKey{}).(string)
	return token
}

// token returns the browser's current token, issuing a new cookie when the
// request carries none.
func (g *csrfGuard) token(w http.ResponseWriter, r *http.Request) (string, error) {
	if c, err := r.Cookie(g.cookie.Name); err == nil && c.Value != "" {
		return c.Value, nil
	}
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	issued := g.cookie
	issued.Value = base64.RawURLEncoding.EncodeToString(raw)
	issued.Secure = issued.Secure || r.TLS != nil
	http.SetCookie(w, &issued)
	return issued.Value, nil
}

func (g *csrfGuard) echoed(r *http.Request, token string) bool {
	submitted := r.Header.Get(g.header)
	if submitted == "" {
		submitted = r.PostFormValue(g.field)
	}
	return submitted != "" && subtle.ConstantTimeCompare([]byte(submitted), []byte(token)) == 1
}

func changesState(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return false
	default:
		return true
	}
}
