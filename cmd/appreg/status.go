package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/repkit/appreg/pkg/store"
)

// appStatus is the serializable view of one application row for status output.
type appStatus struct {
	Name        string    `json:"name" yaml:"name"`
	Status      string    `json:"status" yaml:"status"`
	Version     int       `json:"version" yaml:"version"`
	ContentHash string    `json:"contentHash,omitempty" yaml:"contentHash,omitempty"`
	Artifact    string    `json:"artifact,omitempty" yaml:"artifact,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt" yaml:"updatedAt"`
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status [app]",
		Short: "Show status, version, and fingerprint of applications",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseOutputFormat(outputFlag)
			if err != nil {
				return err
			}
			apps, err := selectApplications(args)
			if err != nil {
				return err
			}

			statuses := make([]appStatus, 0, len(apps))
			rows := make([][]string, 0, len(apps))
			for _, app := range apps {
				statuses = append(statuses, appStatus{
					Name:        app.Name,
					Status:      string(app.Status),
					Version:     app.Version,
					ContentHash: app.ContentHash.String(),
					Artifact:    app.ArtifactPath,
					UpdatedAt:   app.UpdatedAt,
				})
				rows = append(rows, []string{
					app.Name,
					string(app.Status),
					fmt.Sprintf("%d", app.Version),
					truncate(app.ContentHash.String(), 19),
					app.UpdatedAt.Format(time.RFC3339),
				})
			}
			return printOutput(cmd.OutOrStdout(), format, statuses,
				[]string{"name", "status", "version", "hash", "updated"}, rows)
		},
	}
}

func newSetStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-status <app> <status>",
		Short: "Force-set an application's lifecycle status",
		Long: `Set an application's status field directly. The value must be one of the
known lifecycle statuses; out-of-order transitions are allowed by design.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, status := args[0], store.Status(args[1])
			if err := globalStore.SetStatus(name, status); err != nil {
				return err
			}
			logger.Info("status updated", "app", name, "status", status)
			fmt.Fprintf(cmd.OutOrStdout(), "%s: status set to %s\n", name, status)
			return nil
		},
	}
}
