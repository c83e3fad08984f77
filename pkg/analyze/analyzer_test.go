package analyze

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, rel, content string) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func kinds(findings []Finding) []string {
	out := make([]string, len(findings))
	for i, f := range findings {
		out[i] = f.Kind
	}
	return out
}

func TestInspectCleanApplication(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "README.md", "# alpha")
	writeFile(t, dir, "requirements.txt", "flask\n")
	writeFile(t, dir, "app.py", "print('hi')\n")

	findings, err := Inspect(dir)
	require.NoError(t, err)
	assert.Empty(t, findings)
}

func TestInspectMissingReadmeAndManifest(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "app.py", "print('hi')\n")

	findings, err := Inspect(dir)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{KindMissingReadme, KindMissingManifest}, kinds(findings))
}

func TestInspectAcceptsAnyManifest(t *testing.T) {
	for _, manifest := range []string{"requirements.txt", "go.mod", "package.json"} {
		t.Run(manifest, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, "README.md", "# alpha")
			writeFile(t, dir, manifest, "")

			findings, err := Inspect(dir)
			require.NoError(t, err)
			assert.Empty(t, findings)
		})
	}
}

func TestInspectFindsTodoComments(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "README.md", "# alpha")
	writeFile(t, dir, "go.mod", "module alpha\n")
	writeFile(t, dir, "main.go", "package main\n// TODO wire retries\n")

	findings, err := Inspect(dir)
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, KindTodoComment, findings[0].Kind)
	assert.Contains(t, findings[0].Detail, "main.go:2")
}

func TestInspectCapsTodoFindings(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "README.md", "# alpha")
	writeFile(t, dir, "go.mod", "module alpha\n")
	writeFile(t, dir, "big.go", strings.Repeat("// TODO later\n", maxTodoFindings*2))

	findings, err := Inspect(dir)
	require.NoError(t, err)
	assert.Len(t, findings, maxTodoFindings)
}

func TestInspectSkipsBinaryExtensions(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "README.md", "# alpha")
	writeFile(t, dir, "go.mod", "module alpha\n")
	writeFile(t, dir, "blob.bin", "TODO hidden in a binary\n")

	findings, err := Inspect(dir)
	require.NoError(t, err)
	assert.Empty(t, findings)
}

func TestInspectMissingDirectory(t *testing.T) {
	findings, err := Inspect(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, "missing_directory", findings[0].Kind)
}

func TestReportRender(t *testing.T) {
	r := Report{
		Results: []AppResult{
			{Name: "alpha", Version: 2, Change: "changed", Findings: []Finding{
				{Kind: KindMissingReadme, Detail: "no README.md at application root"},
			}},
			{Name: "beta", Version: 1, Change: "unchanged"},
		},
	}

	var sb strings.Builder
	require.NoError(t, r.Render(&sb))
	out := sb.String()

	assert.Contains(t, out, "--- Analysis Report ---")
	assert.Contains(t, out, "Application: alpha (version 2, changed)")
	assert.Contains(t, out, "[missing_readme] no README.md at application root")
	assert.Contains(t, out, "Application: beta (version 1, unchanged)")
	assert.Contains(t, out, "No discrepancies found.")
}

func TestReportWriteFile(t *testing.T) {
	r := Report{Results: []AppResult{{Name: "alpha", Version: 1, Change: "new"}}}
	path := filepath.Join(t.TempDir(), "meta", "report.txt")

	require.NoError(t, r.WriteFile(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Application: alpha")
}
