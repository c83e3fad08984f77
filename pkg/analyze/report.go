package analyze

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// AppResult is one application's analysis outcome for the report.
type AppResult struct {
	Name     string
	Version  int
	Change   string
	Findings []Finding
}

// Report is a human-readable summary of one analysis run.
type Report struct {
	RanAt   time.Time
	Results []AppResult
}

// Render writes the report in the plain text layout operators read.
func (r *Report) Render(w io.Writer) error {
	fmt.Fprintln(w, "--- Analysis Report ---")
	fmt.Fprintf(w, "Run at: %s\n", r.RanAt.Format(time.RFC3339))
	for _, res := range r.Results {
		fmt.Fprintf(w, "Application: %s (version %d, %s)\n", res.Name, res.Version, res.Change)
		if len(res.Findings) == 0 {
			fmt.Fprintln(w, "  No discrepancies found.")
			continue
		}
		fmt.Fprintln(w, "  Discrepancies found:")
		for _, f := range res.Findings {
			fmt.Fprintf(w, "    - [%s] %s\n", f.Kind, f.Detail)
		}
	}
	fmt.Fprintln(w, "-----------------------")
	return nil
}

// WriteFile renders the report to path, creating parent directories.
func (r *Report) WriteFile(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create report dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	defer f.Close()
	if err := r.Render(f); err != nil {
		return err
	}
	return f.Close()
}
