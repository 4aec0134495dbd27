// Package httpserver assembles the public site and the admin panel behind one
// chi router.
package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	custommw "finitefield.org/portfolio/internal/admin/middleware"
	"finitefield.org/portfolio/internal/admin/ui"
	"finitefield.org/portfolio/internal/platform/observability"
	"finitefield.org/portfolio/internal/site"
	"finitefield.org/portfolio/public"
)

// Config holds runtime options for the HTTP server.
type Config struct {
	Address     string
	BasePath    string
	LoginPath   string
	Environment string
	Logger      *zap.Logger

	Site      *site.Handlers
	Editor    ui.Editor
	Passwords ui.PasswordChecker
	Sessions  custommw.SessionStore

	CSRFCookieName   string
	CSRFCookiePath   string
	CSRFCookieSecure bool
	CSRFHeaderName   string

	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	RequestTimeout time.Duration
	Now            func() time.Time
}

// New constructs the HTTP server with middleware stack and embedded assets.
func New(cfg Config) (*http.Server, error) {
	if cfg.Site == nil {
		return nil, errors.New("httpserver: site handlers are required")
	}
	if cfg.Sessions == nil {
		return nil, errors.New("httpserver: session store is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	basePath := normalizeBasePath(cfg.BasePath)
	loginPath := resolveLoginPath(basePath, cfg.LoginPath)

	router := chi.NewRouter()
	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(observability.InjectLoggerMiddleware(logger))
	router.Use(observability.RequestLoggerMiddleware(observability.ClassifyPaths(basePath)))
	router.Use(observability.RecoveryMiddleware(logger))
	router.Use(chimw.Compress(5))
	router.Use(chimw.Timeout(durationOr(cfg.RequestTimeout, 60*time.Second)))

	staticContent, err := public.StaticFS()
	if err != nil {
		return nil, fmt.Errorf("httpserver: embed static: %w", err)
	}
	router.Handle("/public/static/*", http.StripPrefix("/public/static/", http.FileServer(http.FS(staticContent))))
	router.Get("/healthz", site.Healthz)
	cfg.Site.Routes(router)

	admin, err := ui.NewHandlers(ui.Dependencies{
		Editor:    cfg.Editor,
		Passwords: cfg.Passwords,
		BasePath:  basePath,
		LoginPath: loginPath,
		Logger:    logger,
		Now:       cfg.Now,
	})
	if err != nil {
		return nil, fmt.Errorf("httpserver: admin handlers: %w", err)
	}

	csrfCfg := custommw.CSRFConfig{
		CookieName: cfg.CSRFCookieName,
		CookiePath: firstNonEmpty(cfg.CSRFCookiePath, basePath),
		HeaderName: cfg.CSRFHeaderName,
		Secure:     cfg.CSRFCookieSecure,
	}

	mountAdminRoutes(router, basePath, routeOptions{
		Admin:       admin,
		Sessions:    cfg.Sessions,
		LoginPath:   loginPath,
		Environment: cfg.Environment,
		CSRF:        csrfCfg,
	})

	return &http.Server{
		Addr:         cfg.Address,
		Handler:      router,
		ReadTimeout:  durationOr(cfg.ReadTimeout, 10*time.Second),
		WriteTimeout: durationOr(cfg.WriteTimeout, 30*time.Second),
		IdleTimeout:  durationOr(cfg.IdleTimeout, 60*time.Second),
	}, nil
}

type routeOptions struct {
	Admin       *ui.Handlers
	Sessions    custommw.SessionStore
	LoginPath   string
	Environment string
	CSRF        custommw.CSRFConfig
}

func mountAdminRoutes(router chi.Router, base string, opts routeOptions) {
	router.Route(base, func(r chi.Router) {
		r.Use(custommw.HTMX())
		r.Use(custommw.NoStore())
		r.Use(custommw.Console(base, opts.Environment))
		r.Use(custommw.Session(opts.Sessions))
		r.Use(custommw.CSRF(opts.CSRF))

		loginSuffix := strings.TrimPrefix(opts.LoginPath, base)
		r.Get(loginSuffix, opts.Admin.LoginForm)
		r.Post(loginSuffix, opts.Admin.LoginSubmit)

		r.Group(func(r chi.Router) {
			r.Use(custommw.RequireAdmin(opts.LoginPath))
			opts.Admin.Mount(r)
		})
	})
}

func normalizeBasePath(path string) string {
	if strings.TrimSpace(path) == "" {
		return "/admin"
	}
	return custommw.NormalizeBasePath(path)
}

// resolveLoginPath returns override when it lives under base. The login
// routes share the admin session and CSRF middleware.
func resolveLoginPath(base string, override string) string {
	if o := strings.TrimSpace(override); o != "" && strings.HasPrefix(o, strings.TrimRight(base, "/")+"/") {
		return o
	}
	if base == "/" {
		return "/login"
	}
	return base + "/login"
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func durationOr(d, fallback time.Duration) time.Duration {
	if d > 0 {
		return d
	}
	return fallback
}
