package testutil

import (
	"net/http/httptest"
	"testing"
	"time"

	"finitefield.org/portfolio/internal/admin/session"
	"finitefield.org/portfolio/internal/admin/ui"
	"finitefield.org/portfolio/internal/content"
	"finitefield.org/portfolio/internal/editor"
	"finitefield.org/portfolio/internal/httpserver"
	"finitefield.org/portfolio/internal/site"
	"finitefield.org/portfolio/internal/store"
)

// TestPassword is the admin password accepted by servers built with NewServer.
const TestPassword = "test-password"

type serverOptions struct {
	cfg    httpserver.Config
	remote store.Remote
	local  store.Local
	seed   content.Document
}

// ServerOption customises the HTTP server configuration for tests.
type ServerOption func(*serverOptions)

// WithBasePath sets a custom base path for the admin routes.
func WithBasePath(path string) ServerOption {
	return func(o *serverOptions) {
		o.cfg.BasePath = path
	}
}

// WithLoginPath overrides the admin login route. It must live under the base path.
func WithLoginPath(path string) ServerOption {
	return func(o *serverOptions) {
		o.cfg.LoginPath = path
	}
}

// WithPassword overrides the admin password. An empty value disables login.
func WithPassword(password string) ServerOption {
	return func(o *serverOptions) {
		o.cfg.Passwords = ui.NewPasswordChecker(password)
	}
}

// WithRemote replaces the default unavailable remote store.
func WithRemote(remote store.Remote) ServerOption {
	return func(o *serverOptions) {
		o.remote = remote
	}
}

// WithLocal replaces the default in-memory local mirror.
func WithLocal(local store.Local) ServerOption {
	return func(o *serverOptions) {
		o.local = local
	}
}

// WithSeed sets the document served when neither store has data.
func WithSeed(doc content.Document) ServerOption {
	return func(o *serverOptions) {
		o.seed = doc
	}
}

// WithEnvironment sets the environment label shown in the admin header.
func WithEnvironment(env string) ServerOption {
	return func(o *serverOptions) {
		o.cfg.Environment = env
	}
}

// NewServer constructs an httptest server running the full HTTP stack with sensible defaults.
func NewServer(t testing.TB, opts ...ServerOption) *httptest.Server {
	t.Helper()
	o := serverOptions{
		cfg: httpserver.Config{
			Address:        ":0",
			BasePath:       "/admin",
			Environment:    "Test",
			Passwords:      ui.NewPasswordChecker(TestPassword),
			CSRFCookieName: "csrf_token",
			CSRFHeaderName: "X-CSRF-Token",
		},
		remote: store.Nop{},
		local:  store.NewMemoryLocal(),
		seed:   content.Empty(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	client := store.NewClient(o.remote, o.local, store.WithSeed(o.seed))
	svc := editor.NewService(client)
	siteHandlers, err := site.New(site.Config{
		Documents:   client,
		Submissions: svc,
		CacheTTL:    time.Minute,
	})
	if err != nil {
		t.Fatalf("site handlers: %v", err)
	}
	svc.OnSave(siteHandlers.Refresh)

	sessions, err := session.NewManager(session.Config{
		HashKey:    session.GenerateKey(32),
		BlockKey:   session.GenerateKey(32),
		CookiePath: "/",
	})
	if err != nil {
		t.Fatalf("session manager: %v", err)
	}

	o.cfg.Site = siteHandlers
	o.cfg.Editor = svc
	o.cfg.Sessions = sessions
	srv, err := httpserver.New(o.cfg)
	if err != nil {
		t.Fatalf("http server: %v", err)
	}

	ts := httptest.NewServer(srv.Handler)
	t.Cleanup(ts.Close)
	return ts
}
