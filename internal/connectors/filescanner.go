package connectors

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrNoFiles is returned when a directory holds no matching data files.
var ErrNoFiles = errors.New("no matching files found")

type FileMeta struct {
	Path     string
	Size     int64
	Modified time.Time
}

type DiscoveryOptions struct {
	Recursive      bool
	MinSize        int64
	MaxSize        int64
	ModifiedAfter  time.Time
	ModifiedBefore time.Time
}

func (o DiscoveryOptions) accepts(info fs.FileInfo) bool {
	if o.MinSize > 0 && info.Size() < o.MinSize {
		return false
	}
	if o.MaxSize > 0 && info.Size() > o.MaxSize {
		return false
	}
	if !o.ModifiedAfter.IsZero() && info.ModTime().Before(o.ModifiedAfter) {
		return false
	}
	if !o.ModifiedBefore.IsZero() && info.ModTime().After(o.ModifiedBefore) {
		return false
	}
	return true
}

// DiscoverFiles walks root and returns the files whose extension matches any
// of exts, in lexical order, along with their count.
func DiscoverFiles(root string, exts []string, options DiscoveryOptions) ([]FileMeta, int, error) {
	// Validate root directory
	if root == "" {
		return nil, 0, fmt.Errorf("root directory cannot be empty")
	}

	stat, err := os.Stat(root)
	if os.IsNotExist(err) {
		return nil, 0, fmt.Errorf("directory does not exist: %s", root)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("failed to stat %s: %w", root, err)
	}
	if !stat.IsDir() {
		return nil, 0, fmt.Errorf("path is not a directory: %s", root)
	}

	wanted := make(map[string]bool, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext != "" {
			wanted["."+ext] = true
		}
	}
	if len(wanted) == 0 {
		return nil, 0, fmt.Errorf("file extension cannot be empty")
	}

	var files []FileMeta
	walkFunc := func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("error accessing path %s: %w", path, err)
		}

		if d.IsDir() {
			if path != root && !options.Recursive {
				return filepath.SkipDir
			}
			return nil
		}

		if !wanted[strings.ToLower(filepath.Ext(path))] {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return fmt.Errorf("error getting file info for %s: %w", path, err)
		}
		if !info.Mode().IsRegular() || !options.accepts(info) {
			return nil
		}

		files = append(files, FileMeta{
			Path:     path,
			Size:     info.Size(),
			Modified: info.ModTime(),
		})
		return nil
	}

	if err := filepath.WalkDir(root, walkFunc); err != nil {
		return nil, 0, fmt.Errorf("directory walk error: %w", err)
	}

	if len(files) == 0 {
		return nil, 0, fmt.Errorf("%w in %s", ErrNoFiles, root)
	}

	return files, len(files), nil
}
