// Package main provides the appreg CLI: a local bookkeeping tool that tracks,
// analyzes, and packages a directory of independent applications through a
// SQLite metadata store.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/repkit/appreg/pkg/config"
	"github.com/repkit/appreg/pkg/store"
)

var (
	version = "dev"

	// Global flags
	configPath  string
	outputFlag  string
	verboseFlag bool

	// Command-scoped state, set up in PersistentPreRunE and torn down in main.
	cfg         *config.Config
	globalStore *store.Store
	logger      *slog.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "appreg",
		Short: "Track, analyze, and package application directories",
		Long: `appreg keeps a local metadata store over a directory of applications.

It discovers application directories, fingerprints their contents to detect
change, assigns monotonically increasing versions, records lifecycle status,
and produces immutable tar.gz artifacts of fingerprinted states.

The store is opened once per invocation and released on exit; concurrent
invocations against the same store are refused.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(configPath)
			if err != nil {
				return err
			}
			if verboseFlag {
				cfg.Verbose = true
			}

			level := slog.LevelInfo
			if cfg.Verbose {
				level = slog.LevelDebug
			}
			logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
			slog.SetDefault(logger)

			globalStore, err = store.Open(cfg.StorePath)
			if err != nil {
				return err
			}
			logger.Debug("opened metadata store", "path", cfg.StorePath)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "Path to the appreg config file")
	rootCmd.PersistentFlags().StringVarP(&outputFlag, "output", "o", "table", "Output format: table, json, yaml")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(newSyncCmd())
	rootCmd.AddCommand(newAnalyzeCmd())
	rootCmd.AddCommand(newPackageCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newSetStatusCmd())
	rootCmd.AddCommand(newNoteCmd())
	rootCmd.AddCommand(newShowNotesCmd())
	rootCmd.AddCommand(newStepsCmd())
	rootCmd.AddCommand(newAddStepCmd())

	err := rootCmd.Execute()
	// PersistentPostRunE is skipped on command failure, so the store is
	// released here to cover both paths.
	if globalStore != nil {
		if cerr := globalStore.Close(); cerr != nil {
			fmt.Fprintln(os.Stderr, "Error: closing store:", cerr)
		}
	}
	if err != nil {
		os.Exit(1)
	}
}
