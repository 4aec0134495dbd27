package main

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newExportCmd(a *app) *cobra.Command {
	var output string
	var public bool
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print or save the stored document as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			client, closeStore, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer closeQuietly(a.logger, closeStore)

			doc := client.FetchDocument(ctx)
			if public {
				doc = doc.Public()
			}
			var buf bytes.Buffer
			enc := json.NewEncoder(&buf)
			enc.SetIndent("", "  ")
			if err := enc.Encode(doc); err != nil {
				return fmt.Errorf("export: encode: %w", err)
			}

			status := client.Status()
			a.logger.Info("document exported", zap.String("source", string(status.Source)), zap.String("output", output))
			if output == "" || output == "-" {
				_, err := cmd.OutOrStdout().Write(buf.Bytes())
				return err
			}
			if err := atomic.WriteFile(output, &buf); err != nil {
				return fmt.Errorf("export: write %s: %w", output, err)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to this file instead of stdout")
	cmd.Flags().BoolVar(&public, "public", false, "omit contact submissions")
	return cmd
}
