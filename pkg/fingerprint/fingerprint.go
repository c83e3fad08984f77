// Package fingerprint computes stable content digests for application
// directory trees. A tree digest is deterministic in the relative paths and
// byte contents of all regular files under the root; enumeration order,
// directory entries, and symlinks do not contribute.
package fingerprint

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

var (
	// ErrNotFound indicates the requested root directory does not exist.
	ErrNotFound = errors.New("directory not found")
	// ErrRead indicates an I/O failure while reading a file mid-scan.
	ErrRead = errors.New("read failure")
)

// Tree computes the digest of the directory tree rooted at dir.
//
// Relative paths are slash-normalized and sorted lexicographically before
// hashing, so the same file set and contents always produce the same digest
// regardless of filesystem enumeration order. Each file contributes its
// relative path, a NUL separator, and its bytes to one running hash; renaming
// a file therefore changes the digest even when contents are unchanged.
func Tree(ctx context.Context, dir string) (Digest, error) {
	fi, err := os.Stat(dir)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return Digest{}, fmt.Errorf("%w: %s", ErrNotFound, dir)
	case err != nil:
		return Digest{}, fmt.Errorf("%w: stat %s: %v", ErrRead, dir, err)
	case !fi.IsDir():
		return Digest{}, fmt.Errorf("%w: %s is not a directory", ErrNotFound, dir)
	}

	var files []string
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("%w: walk %s: %v", ErrRead, path, err)
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrRead, err)
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return Digest{}, err
	}
	sort.Strings(files)

	h := sha256.New()
	for _, rel := range files {
		if err := ctx.Err(); err != nil {
			return Digest{}, err
		}
		h.Write([]byte(rel))
		h.Write([]byte{0})
		if err := hashFile(h, filepath.Join(dir, filepath.FromSlash(rel))); err != nil {
			return Digest{}, err
		}
	}
	var sum [sha256.Size]byte
	h.Sum(sum[:0])
	return sumDigest(sum), nil
}

func hashFile(w io.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: open %s: %v", ErrRead, path, err)
	}
	defer f.Close()
	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("%w: read %s: %v", ErrRead, path, err)
	}
	return nil
}
