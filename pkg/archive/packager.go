// Package archive produces immutable tar.gz snapshots of application trees.
// The source tree is first copied into a throwaway staging directory and the
// archive is built from that copy, so packaging never locks, moves, or
// mutates the source. The copy is best-effort, not a transactional snapshot:
// files changing mid-copy may land in either state.
package archive

import (
	"archive/tar"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/gzip"
)

// ErrSourceNotFound indicates the application directory to package is missing.
var ErrSourceNotFound = errors.New("source directory not found")

// timestampLayout names archives down to the second; one packaging run per
// application per second is plenty for an operator-driven tool.
const timestampLayout = "20060102T150405"

// Packager builds timestamped archives under OutputDir, staging copies under
// StagingRoot (os.TempDir when empty).
type Packager struct {
	OutputDir   string
	StagingRoot string

	// now is swappable for tests.
	now func() time.Time
}

// New returns a Packager writing archives to outputDir.
func New(outputDir, stagingRoot string) *Packager {
	return &Packager{OutputDir: outputDir, StagingRoot: stagingRoot, now: time.Now}
}

// ArchiveName returns the artifact file name for an application packaged at t.
func ArchiveName(app string, t time.Time) string {
	return fmt.Sprintf("%s-%s.tar.gz", app, t.Format(timestampLayout))
}

// Package snapshots srcDir into <OutputDir>/<app>-<timestamp>.tar.gz and
// returns the archive path. The staging copy is removed on success and on
// every failure path; a partially written archive is removed as well.
func (p *Packager) Package(ctx context.Context, app, srcDir string) (string, error) {
	fi, err := os.Stat(srcDir)
	if errors.Is(err, fs.ErrNotExist) || (err == nil && !fi.IsDir()) {
		return "", fmt.Errorf("%w: %s", ErrSourceNotFound, srcDir)
	}
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", srcDir, err)
	}

	stagingRoot := p.StagingRoot
	if stagingRoot == "" {
		stagingRoot = os.TempDir()
	}
	staging := filepath.Join(stagingRoot, "appreg-stage-"+uuid.NewString())
	if err := os.MkdirAll(staging, 0o755); err != nil {
		return "", fmt.Errorf("create staging dir: %w", err)
	}
	defer os.RemoveAll(staging)

	staged := filepath.Join(staging, app)
	if err := copyTree(ctx, srcDir, staged); err != nil {
		return "", fmt.Errorf("stage %s: %w", srcDir, err)
	}

	if err := os.MkdirAll(p.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	now := time.Now
	if p.now != nil {
		now = p.now
	}
	archivePath := filepath.Join(p.OutputDir, ArchiveName(app, now()))
	if err := writeArchive(ctx, archivePath, staging, app); err != nil {
		os.Remove(archivePath)
		return "", err
	}
	return archivePath, nil
}

// copyTree copies the tree at src to dst, preserving file modes and mtimes.
// Symlinks are recreated as symlinks; other non-regular entries are skipped.
func copyTree(ctx context.Context, src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		switch {
		case d.IsDir():
			return os.MkdirAll(target, 0o755)
		case d.Type()&fs.ModeSymlink != 0:
			link, err := os.Readlink(path)
			if err != nil {
				return err
			}
			return os.Symlink(link, target)
		case d.Type().IsRegular():
			return copyFile(path, target)
		default:
			return nil
		}
	})
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	fi, err := in.Stat()
	if err != nil {
		return err
	}
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, fi.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Chtimes(dst, fi.ModTime(), fi.ModTime())
}

// writeArchive tars the staged copy rooted at <stagingDir>/<app> into a gzip
// stream at archivePath. Entry names are relative to the staging dir, so the
// archive unpacks to a single <app>/ directory.
func writeArchive(ctx context.Context, archivePath, stagingDir, app string) (err error) {
	f, err := os.Create(archivePath)
	if err != nil {
		return fmt.Errorf("create archive: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close archive: %w", cerr)
		}
	}()

	gw := gzip.NewWriter(f)
	tw := tar.NewWriter(gw)

	root := filepath.Join(stagingDir, app)
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, werr error) error {
		if werr != nil {
			return werr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		rel, err := filepath.Rel(stagingDir, path)
		if err != nil {
			return err
		}
		fi, err := d.Info()
		if err != nil {
			return err
		}
		link := ""
		if d.Type()&fs.ModeSymlink != 0 {
			if link, err = os.Readlink(path); err != nil {
				return err
			}
		}
		hdr, err := tar.FileInfoHeader(fi, link)
		if err != nil {
			return err
		}
		hdr.Name = filepath.ToSlash(rel)
		if d.IsDir() {
			hdr.Name += "/"
		}
		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		src, err := os.Open(path)
		if err != nil {
			return err
		}
		defer src.Close()
		_, err = io.Copy(tw, src)
		return err
	})
	if err != nil {
		return fmt.Errorf("write archive: %w", err)
	}
	if err := tw.Close(); err != nil {
		return fmt.Errorf("finish tar stream: %w", err)
	}
	if err := gw.Close(); err != nil {
		return fmt.Errorf("finish gzip stream: %w", err)
	}
	return nil
}
