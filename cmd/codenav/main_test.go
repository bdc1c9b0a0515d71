package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-agent-tools/codenav/internal/version"
)

const goSrc = "package calc\n\n// Add sums two operands.\nfunc Add(a, b int) int {\n\treturn a + b\n}\n"

// runApp executes the CLI in-process with captured stdout and the given
// stdin, returning whatever the command printed.
func runApp(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	app := newApp()
	var buf bytes.Buffer
	app.Writer = &buf
	if stdin != "" {
		app.Reader = strings.NewReader(stdin)
	}

	err := app.Run(append([]string{"codenav"}, args...))
	return buf.String(), err
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	oldDir, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Chdir(oldDir) })
	require.NoError(t, os.Chdir(dir))
}

func TestQueryFromStdin(t *testing.T) {
	out, err := runApp(t, goSrc, "query", "locate_function", "--lang", "go", "--function", "Add")
	require.NoError(t, err)

	var rec map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &rec))
	assert.Equal(t, "Add", rec["name"])
	assert.Equal(t, "4", rec["start_line"])
	assert.Equal(t, "go", rec["language"])
}

func TestQueryCompactOutput(t *testing.T) {
	out, err := runApp(t, goSrc, "query", "locate_function", "-l", "go", "-F", "Add", "--compact")
	require.NoError(t, err)

	assert.Contains(t, out, "name=Add\n")
	assert.Contains(t, out, "start_line=4\n")
	assert.NotContains(t, out, "{")

	// Keys come out sorted, so the output is stable across runs.
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.True(t, sort.StringsAreSorted(lines))
}

func TestQueryLanguageFromExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "util.py")
	require.NoError(t, os.WriteFile(path, []byte("def helper():\n    pass\n"), 0o644))

	out, err := runApp(t, "", "query", "list_functions", "--file", path)
	require.NoError(t, err)

	var rec map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &rec))
	assert.Equal(t, "1", rec["count"])
	assert.Equal(t, "python", rec["language"])
}

func TestQueryErrors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{
			name:    "missing operation argument",
			args:    []string{"query"},
			wantErr: "usage:",
		},
		{
			name:    "unknown operation",
			args:    []string{"query", "summon_demons", "--lang", "go"},
			wantErr: "unknown operation",
		},
		{
			name:    "missing function flag",
			args:    []string{"query", "locate_function", "--lang", "go"},
			wantErr: "function_name",
		},
		{
			name:    "missing language for stdin source",
			args:    []string{"query", "list_functions"},
			wantErr: "language",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runApp(t, goSrc, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMaxSourceBytesFlagOverride(t *testing.T) {
	var src strings.Builder
	src.WriteString("package big\n")
	for src.Len() < 2048 {
		src.WriteString("func F() {}\n")
	}

	_, err := runApp(t, src.String(), "--max-source-bytes", "1024", "query", "module_overview", "--lang", "go")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds 1024 byte limit")
}

func TestOverviewCommand(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.go"), []byte(goSrc), 0o644))

	out, err := runApp(t, "", "overview", dir)
	require.NoError(t, err)

	var report struct {
		Files []struct {
			Path     string `json:"path"`
			Language string `json:"language"`
		} `json:"files"`
		Summary struct {
			Files     int `json:"files"`
			Functions int `json:"functions"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.Len(t, report.Files, 1)
	assert.Equal(t, "go", report.Files[0].Language)
	assert.Equal(t, 1, report.Summary.Files)
	assert.Equal(t, 1, report.Summary.Functions)
}

func TestOverviewRequiresPaths(t *testing.T) {
	_, err := runApp(t, "", "overview")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "usage:")
}

func TestWatchRejectsMissingPath(t *testing.T) {
	_, err := runApp(t, "", "watch", filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
}

func TestLanguagesCommand(t *testing.T) {
	out, err := runApp(t, "", "languages")
	require.NoError(t, err)

	var langs []struct {
		Tag        string   `json:"tag"`
		Extensions []string `json:"extensions"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &langs))
	require.Len(t, langs, 11)

	byTag := make(map[string][]string, len(langs))
	for _, l := range langs {
		byTag[l.Tag] = l.Extensions
	}
	assert.Contains(t, byTag["go"], ".go")
	assert.Contains(t, byTag["typescript"], ".tsx")
}

func TestConfigLifecycle(t *testing.T) {
	chdir(t, t.TempDir())

	out, err := runApp(t, "", "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, ".codenav.kdl")
	_, err = os.Stat(".codenav.kdl")
	require.NoError(t, err)

	_, err = runApp(t, "", "config", "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	out, err = runApp(t, "", "config", "show")
	require.NoError(t, err)
	var cfg struct {
		MaxSourceBytes int `json:"max_source_bytes"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &cfg))
	assert.Equal(t, 2000000, cfg.MaxSourceBytes)

	out, err = runApp(t, "", "config", "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "configuration ok")
}

func TestConfigValidateReportsBadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "codenav.toml")
	require.NoError(t, os.WriteFile(path, []byte("[scan]\nworkers = 0\n"), 0o644))

	_, err := runApp(t, "", "--config", path, "config", "validate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "workers")
}

func TestVersionCommand(t *testing.T) {
	out, err := runApp(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "codenav")
	assert.Contains(t, out, version.Version)
}
