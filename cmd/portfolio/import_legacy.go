package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"finitefield.org/portfolio/internal/content"
	"finitefield.org/portfolio/internal/editor"
)

// legacySubmission is a contact entry as the old browser-local store kept it.
// Ids were millisecond timestamps, so they may be JSON numbers.
type legacySubmission struct {
	ID        json.RawMessage `json:"id"`
	Name      string          `json:"name"`
	Email     string          `json:"email"`
	Phone     string          `json:"phone"`
	Message   string          `json:"message"`
	Timestamp string          `json:"timestamp"`
	Status    string          `json:"status"`
}

func (l legacySubmission) submission() content.Submission {
	id := strings.Trim(strings.TrimSpace(string(l.ID)), `"`)
	if id == "null" {
		id = ""
	}
	return content.Submission{
		ID:        id,
		Name:      l.Name,
		Email:     l.Email,
		Phone:     l.Phone,
		Message:   l.Message,
		Timestamp: l.Timestamp,
		Status:    content.SubmissionStatus(l.Status),
	}
}

func decodeLegacySubmissions(r io.Reader) ([]content.Submission, error) {
	var raw []legacySubmission
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode legacy submissions: %w", err)
	}
	subs := make([]content.Submission, 0, len(raw))
	for _, l := range raw {
		subs = append(subs, l.submission())
	}
	return subs, nil
}

func newImportLegacyCmd(a *app) *cobra.Command {
	var migrate bool
	cmd := &cobra.Command{
		Use:   "import-legacy <file|->",
		Short: "Queue contact submissions saved by the old browser-local store",
		Long: `import-legacy reads a JSON array of contact submissions (the old
contactSubmissions entry) and adds it to the local legacy slot. The admin
dashboard folds the slot into the document while the document has no
submissions; --migrate does that immediately.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var raw []byte
			var err error
			if args[0] == "-" {
				raw, err = io.ReadAll(cmd.InOrStdin())
			} else {
				raw, err = os.ReadFile(args[0])
			}
			if err != nil {
				return fmt.Errorf("import-legacy: read: %w", err)
			}
			subs, err := decodeLegacySubmissions(bytes.NewReader(raw))
			if err != nil {
				return fmt.Errorf("import-legacy: %w", err)
			}

			client, closeStore, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer closeQuietly(a.logger, closeStore)

			fallback := client.Fallback()
			queued, err := fallback.LegacySubmissions(ctx)
			if err != nil {
				return fmt.Errorf("import-legacy: %w", err)
			}
			queued = append(queued, subs...)
			if err := fallback.PutLegacySubmissions(ctx, queued); err != nil {
				return fmt.Errorf("import-legacy: %w", err)
			}
			a.logger.Info("legacy submissions queued", zap.Int("imported", len(subs)), zap.Int("queued", len(queued)))

			out := cmd.OutOrStdout()
			if !migrate {
				fmt.Fprintf(out, "queued %d legacy submissions\n", len(queued))
				return nil
			}
			n, err := editor.NewService(client, editor.WithLogger(a.logger)).MigrateLegacySubmissions(ctx)
			if err != nil {
				return fmt.Errorf("import-legacy: migrate: %w", err)
			}
			if n == 0 && len(queued) > 0 {
				fmt.Fprintf(out, "document already has submissions; %d legacy submissions stay queued\n", len(queued))
				return nil
			}
			fmt.Fprintf(out, "migrated %d legacy submissions\n", n)
			return nil
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "fold the queued submissions into the document now")
	return cmd
}
