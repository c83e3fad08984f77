// Package analyze runs fixed structural checks against application
// directories and renders a human-readable report. Inspection is strictly
// read-only; findings are returned to the caller for persistence.
package analyze

import (
	"bufio"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Finding kinds.
const (
	KindMissingReadme   = "missing_readme"
	KindMissingManifest = "missing_manifest"
	KindTodoComment     = "todo_comment"
)

// manifestNames are the dependency manifests any one of which satisfies the
// manifest check.
var manifestNames = []string{"requirements.txt", "go.mod", "package.json"}

// textExtensions bounds the TODO scan to files that are plausibly text.
var textExtensions = map[string]bool{
	".go": true, ".py": true, ".js": true, ".ts": true,
	".md": true, ".txt": true, ".yaml": true, ".yml": true,
	".sh": true, ".toml": true, ".cfg": true, ".ini": true,
}

// maxTodoFindings caps TODO findings per application so a vendored tree
// cannot flood the discrepancy log.
const maxTodoFindings = 20

// Finding is one failed check against an application directory.
type Finding struct {
	Kind   string
	Detail string
}

// Inspect runs all checks against dir and returns the findings. A missing
// directory is itself reported as a finding rather than an error: analysis is
// a lint pass, and an absent tree is the most severe lint result there is.
func Inspect(dir string) ([]Finding, error) {
	if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
		return []Finding{{Kind: "missing_directory", Detail: fmt.Sprintf("application directory %s not found", dir)}}, nil
	}

	var findings []Finding
	if _, err := os.Stat(filepath.Join(dir, "README.md")); err != nil {
		findings = append(findings, Finding{Kind: KindMissingReadme, Detail: "no README.md at application root"})
	}
	if !hasManifest(dir) {
		findings = append(findings, Finding{
			Kind:   KindMissingManifest,
			Detail: "no dependency manifest (" + strings.Join(manifestNames, ", ") + ") at application root",
		})
	}

	todos, err := scanTodos(dir)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}
	return append(findings, todos...), nil
}

func hasManifest(dir string) bool {
	for _, name := range manifestNames {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}

func scanTodos(dir string) ([]Finding, error) {
	var findings []Finding
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if len(findings) >= maxTodoFindings {
			return fs.SkipAll
		}
		if !d.Type().IsRegular() || !textExtensions[filepath.Ext(path)] {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		found, err := todosInFile(path, filepath.ToSlash(rel), maxTodoFindings-len(findings))
		if err != nil {
			// Unreadable file during a lint pass is not fatal.
			return nil
		}
		findings = append(findings, found...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return findings, nil
}

func todosInFile(path, rel string, limit int) ([]Finding, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var findings []Finding
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for line := 1; sc.Scan() && len(findings) < limit; line++ {
		if strings.Contains(sc.Text(), "TODO") {
			findings = append(findings, Finding{
				Kind:   KindTodoComment,
				Detail: fmt.Sprintf("%s:%d: %s", rel, line, strings.TrimSpace(sc.Text())),
			})
		}
	}
	return findings, sc.Err()
}
