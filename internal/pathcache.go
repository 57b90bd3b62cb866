package internal

import (
	"path/filepath"
	"slices"

	"github.com/maypok86/otter/v2"

	"exfix/internal/dating"
)

type dirScan struct {
	candidates []dating.Candidate
	rejections []dating.Rejection
}

// PathCache memoizes directory-segment candidates per directory. Files in
// the same folder share the same path evidence, so a batch run scans each
// directory once.
type PathCache struct {
	scanner *dating.Scanner
	cache   *otter.Cache[string, dirScan]
}

func NewPathCache(scanner *dating.Scanner, size int) *PathCache {
	if size <= 0 {
		size = 10_000
	}
	return &PathCache{
		scanner: scanner,
		cache: otter.Must(&otter.Options[string, dirScan]{
			MaximumSize: size,
		}),
	}
}

// ScanPath returns copies so callers may modify the slices.
func (c *PathCache) ScanPath(path string) ([]dating.Candidate, []dating.Rejection) {
	dir := filepath.Dir(path)
	entry, ok := c.cache.GetIfPresent(dir)
	if !ok {
		entry.candidates, entry.rejections = c.scanner.ScanPath(path)
		c.cache.Set(dir, entry)
	}
	return slices.Clone(entry.candidates), slices.Clone(entry.rejections)
}

// Len reports the approximate number of cached directories.
func (c *PathCache) Len() int {
	return c.cache.EstimatedSize()
}
