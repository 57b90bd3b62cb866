package internal

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

// ScanOptions limits a media scan.
type ScanOptions struct {
	// MaxDepth is how many directory levels below root are visited;
	// 0 means no limit.
	MaxDepth      int
	IncludeHidden bool
}

// ScanMediaFiles scans root recursively for media files based on extensions.
// Results are in lexical order.
func ScanMediaFiles(root string, cfg *Config, opts ScanOptions) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path != root && !opts.IncludeHidden && isHidden(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if opts.MaxDepth > 0 && path != root && depth(root, path) > opts.MaxDepth {
				return filepath.SkipDir
			}
			return nil
		}
		if cfg.IsMedia(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error scanning files: %w", err)
	}
	return files, nil
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}

// depth counts path elements of path below root.
func depth(root, path string) int {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." {
		return 0
	}
	return strings.Count(rel, string(filepath.Separator)) + 1
}
