package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/repkit/appreg/pkg/archive"
	"github.com/repkit/appreg/pkg/fingerprint"
	"github.com/repkit/appreg/pkg/track"
)

func newPackageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "package [app]",
		Short: "Archive applications into timestamped tar.gz artifacts",
		Long: `Package one application, or all registered applications when no name is
given. The tree is fingerprinted, staged into a temporary copy, and archived
as <app>-<timestamp>.tar.gz in the configured output directory. The source
tree is never modified. On success the row records the new hash, version,
artifact path, and the packaged status; a failed run leaves the row untouched.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			apps, err := selectApplications(args)
			if err != nil {
				return err
			}

			packager := archive.New(cfg.OutputDir, cfg.StagingDir)
			for i := range apps {
				app := &apps[i]
				digest, err := fingerprint.Tree(cmd.Context(), app.Path)
				if err != nil {
					return err
				}
				kind := track.Detect(app.ContentHash, digest)
				ver := track.NextVersion(kind, app.Version)

				artifact, err := packager.Package(cmd.Context(), app.Name, app.Path)
				if err != nil {
					return fmt.Errorf("package %q: %w", app.Name, err)
				}
				if err := globalStore.RecordPackage(app.Name, digest, ver, artifact); err != nil {
					return err
				}
				logger.Info("packaged application", "app", app.Name, "version", ver, "artifact", artifact)
				fmt.Fprintf(cmd.OutOrStdout(), "%s: version %d -> %s\n", app.Name, ver, artifact)
			}
			return nil
		},
	}
}
