package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"finitefield.org/portfolio/internal/admin/session"
	"finitefield.org/portfolio/internal/admin/ui"
	"finitefield.org/portfolio/internal/editor"
	"finitefield.org/portfolio/internal/httpserver"
	"finitefield.org/portfolio/internal/site"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the public site and the admin panel",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr != "" {
				a.cfg.Server.Address = addr
			}
			return a.serve(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides HTTP_ADDR)")
	return cmd
}

func (a *app) serve(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer closeQuietly(a.logger, closeStore)

	svc := editor.NewService(client, editor.WithLogger(a.logger))
	siteHandlers, err := site.New(site.Config{
		Documents:            client,
		Submissions:          svc,
		CacheTTL:             a.cfg.Site.CacheTTL,
		ContactRatePerMinute: a.cfg.Site.ContactRatePerMinute,
		CORSAllowedOrigins:   a.cfg.Site.CORSAllowedOrigins,
		Logger:               a.logger,
	})
	if err != nil {
		return err
	}
	svc.OnSave(siteHandlers.Refresh)

	sessions, err := session.NewManager(session.Config{
		CookieName:   "portfolio_admin",
		HashKey:      a.sessionKey("SESSION_HASH_KEY", a.cfg.Admin.SessionHashKey, 32),
		BlockKey:     a.sessionKey("SESSION_BLOCK_KEY", a.cfg.Admin.SessionBlockKey, 32),
		CookiePath:   a.cfg.Admin.BasePath,
		CookieSecure: a.cfg.Admin.CookieSecure,
		Lifetime:     a.cfg.Admin.SessionLifetime,
	})
	if err != nil {
		return err
	}

	srv, err := httpserver.New(httpserver.Config{
		Address:          a.cfg.Server.Address,
		BasePath:         a.cfg.Admin.BasePath,
		Environment:      a.cfg.Admin.Environment,
		Logger:           a.logger,
		Site:             siteHandlers,
		Editor:           svc,
		Passwords:        ui.NewPasswordChecker(a.cfg.Admin.Password),
		Sessions:         sessions,
		CSRFCookieSecure: a.cfg.Admin.CookieSecure,
		ReadTimeout:      a.cfg.Server.ReadTimeout,
		WriteTimeout:     a.cfg.Server.WriteTimeout,
		IdleTimeout:      a.cfg.Server.IdleTimeout,
	})
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("portfolio server listening",
			zap.String("addr", a.cfg.Server.Address),
			zap.String("admin_base_path", a.cfg.Admin.BasePath),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("graceful shutdown failed", zap.Error(err))
			return err
		}
		return nil
	})
	return g.Wait()
}

// sessionKey returns the configured key, or a random one with a warning.
// Random keys sign out every admin on restart.
func (a *app) sessionKey(name, configured string, length int) []byte {
	if configured != "" {
		return []byte(configured)
	}
	a.logger.Warn("session key not configured; generated an ephemeral key", zap.String("env", name))
	return session.GenerateKey(length)
}
