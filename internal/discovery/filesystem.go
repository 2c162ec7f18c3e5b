package discovery

import (
	"errors"
	"io/fs"
	"iter"
	"os"
	"path"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultTestFilePatternConstant matches TypeScript test files at any depth.
const DefaultTestFilePatternConstant = "**/*.test.ts"

var errDiscoveryStopped = errors.New("discovery stopped")

// FileSystemProvider opens a root directory as an fs.FS.
type FileSystemProvider func(root string) fs.FS

// TestFileDiscoverer locates test files beneath root directories using a doublestar pattern.
type TestFileDiscoverer struct {
	pattern            string
	fileSystemProvider FileSystemProvider
}

// NewTestFileDiscoverer constructs a discoverer backed by os.DirFS.
func NewTestFileDiscoverer(pattern string) (*TestFileDiscoverer, error) {
	return NewTestFileDiscovererWithProvider(pattern, os.DirFS)
}

// NewTestFileDiscovererWithProvider constructs a discoverer over caller supplied file systems.
func NewTestFileDiscovererWithProvider(pattern string, provider FileSystemProvider) (*TestFileDiscoverer, error) {
	if len(pattern) == 0 {
		pattern = DefaultTestFilePatternConstant
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, doublestar.ErrBadPattern
	}
	if provider == nil {
		provider = os.DirFS
	}
	return &TestFileDiscoverer{pattern: pattern, fileSystemProvider: provider}, nil
}

// Pattern returns the glob applied relative to each root.
func (discoverer *TestFileDiscoverer) Pattern() string {
	return discoverer.pattern
}

// Discover lazily yields matching files as root-prefixed paths. Roots that are
// missing or are not directories are skipped, as are unreadable subdirectories.
// Symlinked directories below a root are not descended into.
func (discoverer *TestFileDiscoverer) Discover(roots []string) iter.Seq[string] {
	return func(yield func(string) bool) {
		stopped := false
		for _, root := range roots {
			rootInfo, statError := os.Stat(root)
			if statError != nil || !rootInfo.IsDir() {
				continue
			}

			rootFileSystem := discoverer.fileSystemProvider(root)
			walkError := doublestar.GlobWalk(rootFileSystem, discoverer.pattern, func(matchedPath string, directoryEntry fs.DirEntry) error {
				if stopped {
					return errDiscoveryStopped
				}
				if directoryEntry != nil && directoryEntry.IsDir() {
					return nil
				}
				if !yield(filepath.Join(root, filepath.FromSlash(path.Clean(matchedPath)))) {
					stopped = true
					return errDiscoveryStopped
				}
				return nil
			}, doublestar.WithFilesOnly(), doublestar.WithNoFollow())
			if stopped || errors.Is(walkError, errDiscoveryStopped) {
				return
			}
		}
	}
}
