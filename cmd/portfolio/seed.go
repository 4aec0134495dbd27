package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"finitefield.org/portfolio/internal/content"
	"finitefield.org/portfolio/internal/store"
)

func newSeedCmd(a *app) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Write the seed content as the stored document",
		Long: `seed stores the configured seed document (SEED_FILE, or the built-in
defaults) in the remote store and the local mirror. It refuses to overwrite
existing content unless --force is given.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			client, closeStore, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer closeQuietly(a.logger, closeStore)

			current := client.FetchDocument(ctx)
			if source := client.Status().Source; source != store.SourceSeed && !blank(current) && !force {
				return fmt.Errorf("content already stored (%s); rerun with --force to replace it", source)
			}

			doc, err := content.LoadSeed(a.cfg.Site.SeedFile)
			if err != nil {
				return err
			}
			remoteOK, err := client.SaveDocument(ctx, doc)
			if err != nil {
				return fmt.Errorf("seed: %w", err)
			}
			a.logger.Info("seed written",
				zap.Bool("remote_synced", remoteOK),
				zap.Int("videos", len(doc.Videos)),
				zap.Int("testimonials", len(doc.Testimonials)),
				zap.Int("services", len(doc.Services)),
			)
			out := cmd.OutOrStdout()
			if remoteOK {
				fmt.Fprintln(out, "seed content stored remotely and locally")
			} else {
				fmt.Fprintln(out, "seed content stored locally only; remote store unavailable")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "replace content that is already stored")
	return cmd
}

// blank reports whether doc holds no content an admin would have entered.
func blank(doc content.Document) bool {
	return len(doc.Videos) == 0 && len(doc.Testimonials) == 0 && len(doc.Services) == 0 &&
		len(doc.Submissions) == 0 && doc.About == (content.About{}) && doc.Contact == (content.Contact{})
}
