// Package config loads the typed appreg configuration. Values come from a
// YAML file, overridden per-field by APPREG_* environment variables; a
// missing file yields the documented defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file consulted when --config is not given.
const DefaultPath = "appreg.yaml"

// Config holds every recognized option.
type Config struct {
	// ApplicationsDir is scanned by sync; each subdirectory is one application.
	ApplicationsDir string `yaml:"applications_dir"`
	// OutputDir receives one tar.gz per packaging run.
	OutputDir string `yaml:"output_dir"`
	// StorePath is the SQLite metadata store file.
	StorePath string `yaml:"store_path"`
	// ReportPath receives the analysis report text.
	ReportPath string `yaml:"report_path"`
	// StagingDir roots packaging staging copies; empty means os.TempDir.
	StagingDir string `yaml:"staging_dir"`
	// Verbose enables debug logging.
	Verbose bool `yaml:"verbose"`
}

// Default returns the documented default configuration.
func Default() *Config {
	return &Config{
		ApplicationsDir: "applications",
		OutputDir:       "dist",
		StorePath:       filepath.Join("metadata", "appreg.db"),
		ReportPath:      filepath.Join("metadata", "analysis-report.txt"),
	}
}

// Load reads the config at path, falling back to defaults when the file does
// not exist, then applies environment overrides and validates.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Defaults apply.
	case err != nil:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides individual fields from APPREG_* variables.
func (c *Config) applyEnv() {
	if v := os.Getenv("APPREG_APPLICATIONS_DIR"); v != "" {
		c.ApplicationsDir = v
	}
	if v := os.Getenv("APPREG_OUTPUT_DIR"); v != "" {
		c.OutputDir = v
	}
	if v := os.Getenv("APPREG_STORE_PATH"); v != "" {
		c.StorePath = v
	}
	if v := os.Getenv("APPREG_REPORT_PATH"); v != "" {
		c.ReportPath = v
	}
	if v := os.Getenv("APPREG_STAGING_DIR"); v != "" {
		c.StagingDir = v
	}
	if v := os.Getenv("APPREG_VERBOSE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Verbose = b
		}
	}
}

// Validate rejects configurations that cannot name their working files.
func (c *Config) Validate() error {
	if c.ApplicationsDir == "" {
		return fmt.Errorf("applications_dir must not be empty")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output_dir must not be empty")
	}
	if c.StorePath == "" {
		return fmt.Errorf("store_path must not be empty")
	}
	return nil
}
