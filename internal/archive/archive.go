// Package archive packs a filtered directory tree into a gzip-compressed
// tar container and performs the inverse extraction. It also lists a
// container's entries without extracting content, which is how the
// file-tree view inspects a template.
package archive

import (
	"archive/tar"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/papapumpkin/stencil/internal/ignore"
)

// Entry describes one container member for structural introspection.
type Entry struct {
	Path  string // slash-separated path relative to the captured root
	Dir   bool
	Depth int // number of path components; the root "." is 0
}

// Pack walks srcDir in lexical order and writes every non-excluded
// path into a tar.gz stream on w — directories as structural entries,
// regular files by content — under a path relative to srcDir. The
// filter sees the full walked path, so patterns can match any part of
// it. Excluded directories are still descended: exclusion is decided
// per path, not per subtree.
func Pack(srcDir string, w io.Writer, filter *ignore.Filter) error {
	gz := gzip.NewWriter(w)
	tw := tar.NewWriter(gz)

	err := filepath.WalkDir(srcDir, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if filter.Match(p) {
			return nil
		}
		if !d.IsDir() && !d.Type().IsRegular() {
			return nil // sockets, devices, symlinks are not captured
		}

		rel, err := filepath.Rel(srcDir, p)
		if err != nil {
			return fmt.Errorf("relativize %s: %w", p, err)
		}
		return appendEntry(tw, p, filepath.ToSlash(rel), d)
	})
	if err != nil {
		return fmt.Errorf("archive: pack %s: %w", srcDir, err)
	}

	if err := tw.Close(); err != nil {
		return fmt.Errorf("archive: finalize tar: %w", err)
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("archive: finalize gzip: %w", err)
	}
	return nil
}

// appendEntry writes a single header (and file content for regular
// files) to the tar stream. Names carry a "./" prefix and directories
// a trailing slash, matching conventional tar output.
func appendEntry(tw *tar.Writer, fullPath, rel string, d fs.DirEntry) error {
	info, err := d.Info()
	if err != nil {
		return fmt.Errorf("stat %s: %w", fullPath, err)
	}

	hdr, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return fmt.Errorf("header for %s: %w", fullPath, err)
	}
	hdr.Name = containerName(rel, d.IsDir())

	if err := tw.WriteHeader(hdr); err != nil {
		return fmt.Errorf("write header %s: %w", hdr.Name, err)
	}
	if d.IsDir() {
		return nil
	}

	f, err := os.Open(fullPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", fullPath, err)
	}
	defer f.Close()

	if _, err := io.Copy(tw, f); err != nil {
		return fmt.Errorf("append %s: %w", fullPath, err)
	}
	return nil
}

// containerName builds the stored tar name for a relative path.
func containerName(rel string, dir bool) string {
	if rel == "." {
		return "./"
	}
	name := "./" + rel
	if dir {
		name += "/"
	}
	return name
}

// Unpack extracts every entry from a tar.gz stream into dest,
// recreating the relative structure and file modes. Entries that would
// escape dest are rejected.
func Unpack(r io.Reader, dest string) error {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return fmt.Errorf("archive: open gzip stream: %w", err)
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("archive: read entry: %w", err)
		}

		rel := cleanName(hdr.Name)
		if rel == "." {
			continue
		}
		if rel == ".." || strings.HasPrefix(rel, "../") {
			return fmt.Errorf("archive: entry %q escapes destination", hdr.Name)
		}

		target := filepath.Join(dest, filepath.FromSlash(rel))
		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, hdr.FileInfo().Mode().Perm()); err != nil {
				return fmt.Errorf("archive: create directory %s: %w", target, err)
			}
		case tar.TypeReg:
			if err := extractFile(tr, target, hdr.FileInfo().Mode().Perm()); err != nil {
				return fmt.Errorf("archive: extract %s: %w", rel, err)
			}
		default:
			// Other entry types are never produced by Pack; skip them.
		}
	}
}

// extractFile writes one regular file, creating parent directories for
// containers whose directory entries were excluded at capture time.
func extractFile(tr *tar.Reader, target string, mode fs.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, tr); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// List enumerates a container's entries in stored order without
// extracting content.
func List(r io.Reader) ([]Entry, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("archive: open gzip stream: %w", err)
	}
	defer gz.Close()

	var entries []Entry
	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return entries, nil
		}
		if err != nil {
			return nil, fmt.Errorf("archive: read entry: %w", err)
		}

		rel := cleanName(hdr.Name)
		entries = append(entries, Entry{
			Path:  rel,
			Dir:   hdr.Typeflag == tar.TypeDir,
			Depth: pathDepth(rel),
		})
	}
}

// cleanName normalizes a stored tar name to a clean relative slash path.
func cleanName(name string) string {
	return path.Clean(strings.TrimPrefix(name, "./"))
}

// pathDepth counts path components; the root "." has depth zero.
func pathDepth(rel string) int {
	if rel == "." {
		return 0
	}
	return strings.Count(rel, "/") + 1
}
