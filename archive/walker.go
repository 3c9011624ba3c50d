// Package archive reads source bundles packed with "archive/zip".
package archive

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/maruel/natural"
)

// MaxEntrySize limits amount of data read from a single archive entry.
const MaxEntrySize = 16 << 20

// WalkFunc is called for every accepted entry with its name inside archive
// and complete content. If an error is returned, processing stops.
type WalkFunc func(name string, data []byte) error

// Walk visits files in archive whose names start with prefix and are
// accepted by match (nil accepts everything), in natural name order.
// Archives with absolute entry names or path traversal components are
// rejected as a whole.
func Walk(ctx context.Context, archive, prefix string, match func(name string) bool, walkFn WalkFunc) error {
	r, err := zip.OpenReader(archive)
	if err != nil {
		return err
	}
	defer r.Close()

	files := make(map[string]*zip.File, len(r.File))
	names := make([]string, 0, len(r.File))
	for _, f := range r.File {
		name := f.FileHeader.Name
		if !isSafePath(name) {
			return fmt.Errorf("zip entry %q: unsafe path (absolute or contains path traversal)", name)
		}
		if f.FileInfo().IsDir() || !strings.HasPrefix(name, prefix) || (match != nil && !match(name)) {
			continue
		}
		if _, ok := files[name]; !ok {
			names = append(names, name)
		}
		files[name] = f
	}
	sort.Sort(natural.StringSlice(names))

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return err
		}
		data, err := read(files[name])
		if err != nil {
			return fmt.Errorf("zip entry %q: %w", name, err)
		}
		if err := walkFn(name, data); err != nil {
			return err
		}
	}
	return nil
}

func read(f *zip.File) ([]byte, error) {
	if f.UncompressedSize64 > MaxEntrySize {
		return nil, fmt.Errorf("entry is too large (%d bytes)", f.UncompressedSize64)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(io.LimitReader(rc, MaxEntrySize))
}

// isSafePath returns false for absolute paths and those containing ".."
// components.
func isSafePath(name string) bool {
	if path.IsAbs(name) || strings.HasPrefix(name, "/") || strings.HasPrefix(name, `\`) {
		return false
	}
	for _, part := range strings.Split(name, "/") {
		if part == ".." {
			return false
		}
	}
	return true
}
