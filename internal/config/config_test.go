package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/open-agent-tools/codenav/internal/errors"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return dir
}

func TestDefaults(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 2_000_000, cfg.MaxSourceBytes)
	assert.Empty(t, cfg.DefaultLanguage)
	assert.True(t, cfg.Suggestions.Enabled)
	assert.InDelta(t, 0.85, cfg.Suggestions.Threshold, 1e-9)
	assert.Equal(t, 3, cfg.Suggestions.Max)
	assert.GreaterOrEqual(t, cfg.Scan.Workers, 1)
	assert.Equal(t, []string{"**/*"}, cfg.Scan.Include)
	assert.Contains(t, cfg.Scan.Exclude, "**/node_modules/**")
	assert.NoError(t, cfg.Validate())
}

func TestLoadKDL(t *testing.T) {
	dir := writeConfig(t, KDLFileName, `
max-source-bytes 4096
default-language "python"

suggestions {
    enabled false
    threshold 0.9
    max 5
}

scan {
    workers 2
    include "src/**/*.py"
}
`)

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, 4096, cfg.MaxSourceBytes)
	assert.Equal(t, "python", cfg.DefaultLanguage)
	assert.False(t, cfg.Suggestions.Enabled)
	assert.InDelta(t, 0.9, cfg.Suggestions.Threshold, 1e-9)
	assert.Equal(t, 5, cfg.Suggestions.Max)
	assert.Equal(t, 2, cfg.Scan.Workers)
	assert.Equal(t, []string{"src/**/*.py"}, cfg.Scan.Include)
	// Untouched sections keep their defaults.
	assert.Contains(t, cfg.Scan.Exclude, "**/.git/**")
}

func TestLoadTOML(t *testing.T) {
	dir := writeConfig(t, TOMLFileName, `
max_source_bytes = 8192
default_language = "rust"

[suggestions]
threshold = 0.7

[scan]
workers = 4
exclude = ["**/target/**"]
`)

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, 8192, cfg.MaxSourceBytes)
	assert.Equal(t, "rust", cfg.DefaultLanguage)
	assert.InDelta(t, 0.7, cfg.Suggestions.Threshold, 1e-9)
	assert.Equal(t, 4, cfg.Scan.Workers)
	assert.Equal(t, []string{"**/target/**"}, cfg.Scan.Exclude)
}

func TestKDLPreferredOverTOML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, KDLFileName), []byte("max-source-bytes 4096\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, TOMLFileName), []byte("max_source_bytes = 8192\n"), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 4096, cfg.MaxSourceBytes)
}

func TestLoadMissingUsesDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestExcludeNodesReplaceDefaults(t *testing.T) {
	dir := writeConfig(t, KDLFileName, `
scan {
    exclude "**/dist/**"
    exclude "**/*.min.js"
}
`)

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"**/dist/**", "**/*.min.js"}, cfg.Scan.Exclude)
	assert.NotContains(t, cfg.Scan.Exclude, "**/node_modules/**")
}

func TestDefaultKDLTemplateParses(t *testing.T) {
	cfg := Default()
	require.NoError(t, parseKDL(DefaultKDL, cfg))
	assert.Equal(t, 2_000_000, cfg.MaxSourceBytes)
	assert.Equal(t, 8, cfg.Scan.Workers)
	assert.Equal(t, []string{"**/node_modules/**", "**/.git/**"}, cfg.Scan.Exclude)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFileRejectsUnknownFormat(t *testing.T) {
	dir := writeConfig(t, "codenav.yaml", "max_source_bytes: 1\n")
	_, err := LoadFile(filepath.Join(dir, "codenav.yaml"))
	require.Error(t, err)
	assert.Equal(t, errors.ErrorTypeConfig, errors.Kind(err))
}

func TestLoadFileRejectsBrokenKDL(t *testing.T) {
	dir := writeConfig(t, KDLFileName, `scan { workers`)
	_, err := LoadFile(filepath.Join(dir, KDLFileName))
	require.Error(t, err)
	assert.Equal(t, errors.ErrorTypeConfig, errors.Kind(err))
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"tiny source limit", func(c *Config) { c.MaxSourceBytes = 100 }},
		{"zero workers", func(c *Config) { c.Scan.Workers = 0 }},
		{"threshold above one", func(c *Config) { c.Suggestions.Threshold = 1.5 }},
		{"zero suggestion cap", func(c *Config) { c.Suggestions.Max = 0 }},
		{"unknown language", func(c *Config) { c.DefaultLanguage = "cobol" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Equal(t, errors.ErrorTypeConfig, errors.Kind(err))
		})
	}
}

func TestValidateAcceptsLanguageAlias(t *testing.T) {
	cfg := Default()
	cfg.DefaultLanguage = "py"
	assert.NoError(t, cfg.Validate())
}
