package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

func newSyncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Register application directories in the metadata store",
		Long: `Scan the configured applications directory and upsert one application row
per subdirectory. Existing rows keep their status, version, and hash; only
the stored path is refreshed. Rows are never deleted by sync.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := os.ReadDir(cfg.ApplicationsDir)
			if err != nil {
				return fmt.Errorf("applications directory %s: %w", cfg.ApplicationsDir, err)
			}

			var registered []string
			for _, e := range entries {
				if !e.IsDir() {
					continue
				}
				path := filepath.Join(cfg.ApplicationsDir, e.Name())
				_, created, err := globalStore.UpsertApplication(e.Name(), path)
				if err != nil {
					return err
				}
				if created {
					logger.Info("registered application", "app", e.Name(), "path", path)
					registered = append(registered, e.Name())
				} else {
					logger.Debug("application already registered", "app", e.Name())
				}
			}

			if len(registered) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No new applications found; store is in sync.")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registered %d new application(s):\n", len(registered))
			for _, name := range registered {
				fmt.Fprintf(cmd.OutOrStdout(), "  - %s\n", name)
			}
			return nil
		},
	}
}
