package testsupport

import (
	"io/fs"
	"iter"
	"os"
	"time"
)

// DiscovererStub yields a fixed list of files for tests.
type DiscovererStub struct {
	Files         []string
	ReceivedRoots []string
}

// Discover records the requested roots and yields the configured files in order.
func (discoverer *DiscovererStub) Discover(roots []string) iter.Seq[string] {
	discoverer.ReceivedRoots = append([]string{}, roots...)
	files := append([]string{}, discoverer.Files...)
	return func(yield func(string) bool) {
		for _, filePath := range files {
			if !yield(filePath) {
				return
			}
		}
	}
}

// WriteRecord captures a single WriteFile invocation.
type WriteRecord struct {
	Path        string
	Content     string
	Permissions fs.FileMode
}

// FileSystemStub serves file contents from memory and injects per-path failures.
type FileSystemStub struct {
	Files       map[string]string
	Permissions map[string]fs.FileMode
	ReadErrors  map[string]error
	WriteErrors map[string]error
	Writes      []WriteRecord
}

// NewFileSystemStub constructs a FileSystemStub seeded with the provided contents.
func NewFileSystemStub(files map[string]string) *FileSystemStub {
	seededFiles := make(map[string]string, len(files))
	for filePath, content := range files {
		seededFiles[filePath] = content
	}
	return &FileSystemStub{
		Files:       seededFiles,
		Permissions: map[string]fs.FileMode{},
		ReadErrors:  map[string]error{},
		WriteErrors: map[string]error{},
	}
}

// ReadFile returns the stored content or the configured failure.
func (fileSystem *FileSystemStub) ReadFile(path string) ([]byte, error) {
	if readError, exists := fileSystem.ReadErrors[path]; exists {
		return nil, readError
	}
	content, exists := fileSystem.Files[path]
	if !exists {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	return []byte(content), nil
}

// WriteFile stores the content unless a failure is configured for the path.
func (fileSystem *FileSystemStub) WriteFile(path string, data []byte, permissions fs.FileMode) error {
	if writeError, exists := fileSystem.WriteErrors[path]; exists {
		return writeError
	}
	fileSystem.Writes = append(fileSystem.Writes, WriteRecord{Path: path, Content: string(data), Permissions: permissions})
	fileSystem.Files[path] = string(data)
	return nil
}

// Stat reports a regular file with the configured permissions (0o644 by default).
func (fileSystem *FileSystemStub) Stat(path string) (fs.FileInfo, error) {
	content, exists := fileSystem.Files[path]
	if !exists {
		return nil, &fs.PathError{Op: "stat", Path: path, Err: fs.ErrNotExist}
	}
	permissions, configured := fileSystem.Permissions[path]
	if !configured {
		permissions = 0o644
	}
	return stubFileInfo{name: path, size: int64(len(content)), mode: permissions}, nil
}

// WrittenPaths lists written paths in write order.
func (fileSystem *FileSystemStub) WrittenPaths() []string {
	paths := make([]string, 0, len(fileSystem.Writes))
	for _, record := range fileSystem.Writes {
		paths = append(paths, record.Path)
	}
	return paths
}

type stubFileInfo struct {
	name string
	size int64
	mode fs.FileMode
}

func (info stubFileInfo) Name() string       { return info.name }
func (info stubFileInfo) Size() int64        { return info.size }
func (info stubFileInfo) Mode() fs.FileMode  { return info.mode }
func (info stubFileInfo) ModTime() time.Time { return time.Time{} }
func (info stubFileInfo) IsDir() bool        { return false }
func (info stubFileInfo) Sys() any           { return nil }

var _ fs.FileInfo = stubFileInfo{}

// ErrPermissionDenied mimics an operating system permission failure.
var ErrPermissionDenied = &fs.PathError{Op: "open", Path: "", Err: os.ErrPermission}
