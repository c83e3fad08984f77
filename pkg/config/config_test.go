package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadParsesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "appreg.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
applications_dir: /srv/apps
output_dir: /srv/dist
store_path: /srv/meta/appreg.db
verbose: true
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/apps", cfg.ApplicationsDir)
	assert.Equal(t, "/srv/dist", cfg.OutputDir)
	assert.Equal(t, "/srv/meta/appreg.db", cfg.StorePath)
	assert.True(t, cfg.Verbose)
	// Unset keys keep their defaults.
	assert.Equal(t, Default().ReportPath, cfg.ReportPath)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "appreg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("applications_dir: /from/file\n"), 0o644))
	t.Setenv("APPREG_APPLICATIONS_DIR", "/from/env")
	t.Setenv("APPREG_VERBOSE", "true")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/from/env", cfg.ApplicationsDir)
	assert.True(t, cfg.Verbose)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "appreg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("applications_dir: [\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidateRejectsEmptyPaths(t *testing.T) {
	cfg := Default()
	cfg.StorePath = ""
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.ApplicationsDir = ""
	assert.Error(t, cfg.Validate())

	assert.NoError(t, Default().Validate())
}
