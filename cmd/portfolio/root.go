package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"finitefield.org/portfolio/internal/content"
	"finitefield.org/portfolio/internal/platform/config"
	"finitefield.org/portfolio/internal/platform/observability"
	"finitefield.org/portfolio/internal/store"
)

// app carries state shared by every subcommand once configuration is loaded.
type app struct {
	envFile string
	cfg     config.Config
	logger  *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "portfolio",
		Short:         "Video editor portfolio site with an admin panel",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "dotenv file layered under the process environment (empty to disable)")

	root.AddCommand(newServeCmd(a), newSeedCmd(a), newExportCmd(a), newImportLegacyCmd(a))
	return root
}

func (a *app) init() error {
	cfg, err := config.Load(config.WithEnvFile(a.envFile))
	if err != nil {
		return err
	}
	logger, err := observability.NewLogger(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	a.cfg = cfg
	a.logger = logger
	return nil
}

// openStore builds the store client from configuration. The returned close
// function releases every backend that was opened.
func (a *app) openStore(ctx context.Context) (*store.Client, func() error, error) {
	seed, err := content.LoadSeed(a.cfg.Site.SeedFile)
	if err != nil {
		return nil, nil, err
	}

	remote, remoteCloser, err := store.OpenRemote(ctx, store.RemoteConfig{
		Driver: a.cfg.Remote.Driver,
		JSONBin: store.JSONBinConfig{
			BaseURL:   a.cfg.Remote.JSONBinBaseURL,
			BinID:     a.cfg.Remote.JSONBinBinID,
			MasterKey: a.cfg.Remote.JSONBinMasterKey,
		},
		Firestore: store.FirestoreConfig{
			ProjectID:       a.cfg.Remote.FirestoreProjectID,
			CredentialsFile: a.cfg.Remote.FirestoreCredentialsFile,
			Collection:      a.cfg.Remote.FirestoreCollection,
			Document:        a.cfg.Remote.FirestoreDocument,
		},
	})
	if err != nil {
		return nil, nil, fmt.Errorf("open remote store: %w", err)
	}

	local, localCloser, err := store.OpenLocal(store.LocalConfig{
		Driver:     a.cfg.Local.Driver,
		Dir:        a.cfg.Local.Dir,
		SQLitePath: a.cfg.Local.SQLitePath,
	})
	if err != nil {
		_ = remoteCloser.Close()
		return nil, nil, fmt.Errorf("open local store: %w", err)
	}

	a.logger.Info("store configured",
		zap.String("remote", a.cfg.Remote.Driver),
		zap.String("local", a.cfg.Local.Driver),
	)

	client := store.NewClient(remote, local,
		store.WithSeed(seed),
		store.WithRemoteTimeout(a.cfg.Remote.Timeout),
		store.WithLogger(a.logger),
	)
	closeAll := func() error {
		return errors.Join(remoteCloser.Close(), localCloser.Close())
	}
	return client, closeAll, nil
}

func closeQuietly(logger *zap.Logger, closeFn func() error) {
	if err := closeFn(); err != nil {
		logger.Warn("store close failed", zap.Error(err))
	}
}
