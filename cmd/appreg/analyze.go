package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/repkit/appreg/pkg/analyze"
	"github.com/repkit/appreg/pkg/fingerprint"
	"github.com/repkit/appreg/pkg/store"
	"github.com/repkit/appreg/pkg/track"
)

func newAnalyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze [app]",
		Short: "Fingerprint applications and record discrepancies",
		Long: `Analyze one application, or all registered applications when no name is
given. Each pass fingerprints the application tree, bumps the version if the
contents changed, runs the structural checks, appends one discrepancy row per
finding, and sets the status to analyzed. An unchanged tree keeps its version
and hash untouched.

The per-run report is printed and written to the configured report path.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			apps, err := selectApplications(args)
			if err != nil {
				return err
			}

			report := analyze.Report{RanAt: time.Now()}
			for i := range apps {
				res, err := analyzeOne(cmd.Context(), &apps[i])
				if err != nil {
					return err
				}
				report.Results = append(report.Results, *res)
			}

			if err := report.Render(cmd.OutOrStdout()); err != nil {
				return err
			}
			if err := report.WriteFile(cfg.ReportPath); err != nil {
				return err
			}
			logger.Info("analysis complete", "apps", len(apps), "report", cfg.ReportPath)
			return nil
		},
	}
}

// analyzeOne runs one full analysis pass for app: change detection first, the
// structural checks second, both persisted before the result is reported.
func analyzeOne(ctx context.Context, app *store.Application) (*analyze.AppResult, error) {
	digest, err := fingerprint.Tree(ctx, app.Path)
	if err != nil {
		return nil, err
	}

	kind := track.Detect(app.ContentHash, digest)
	ver := track.NextVersion(kind, app.Version)
	logger.Debug("change detection", "app", app.Name, "kind", kind, "version", ver)

	if kind == track.Unchanged {
		// No hash or version mutation on an unchanged tree.
		if err := globalStore.SetStatus(app.Name, store.StatusAnalyzed); err != nil {
			return nil, err
		}
	} else {
		if err := globalStore.RecordAnalysis(app.Name, digest, ver, store.StatusAnalyzed); err != nil {
			return nil, err
		}
	}

	findings, err := analyze.Inspect(app.Path)
	if err != nil {
		return nil, err
	}
	for _, f := range findings {
		if _, err := globalStore.AppendDiscrepancy(app.Name, f.Kind, f.Detail); err != nil {
			return nil, err
		}
	}

	return &analyze.AppResult{
		Name:     app.Name,
		Version:  ver,
		Change:   string(kind),
		Findings: findings,
	}, nil
}

// selectApplications resolves the optional [app] argument to one row or all.
func selectApplications(args []string) ([]store.Application, error) {
	if len(args) == 1 {
		app, err := globalStore.GetApplication(args[0])
		if err != nil {
			return nil, err
		}
		return []store.Application{*app}, nil
	}
	apps, err := globalStore.ListApplications()
	if err != nil {
		return nil, err
	}
	if len(apps) == 0 {
		return nil, fmt.Errorf("no applications registered; run sync first")
	}
	return apps, nil
}
