package filesystem

import (
	"io/fs"
	"os"
)

// OSFileSystem reads and rewrites test files using the operating system primitives.
type OSFileSystem struct{}

// NewOSFileSystem constructs an OSFileSystem.
func NewOSFileSystem() OSFileSystem {
	return OSFileSystem{}
}

// Stat retrieves file metadata.
func (OSFileSystem) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// ReadFile reads the whole file into memory.
func (OSFileSystem) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// WriteFile truncates the file and writes data in place with the supplied permissions.
func (OSFileSystem) WriteFile(path string, data []byte, permissions fs.FileMode) error {
	fileHandle, openError := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, permissions)
	if openError != nil {
		return openError
	}
	defer fileHandle.Close()

	if _, writeError := fileHandle.Write(data); writeError != nil {
		return writeError
	}
	return fileHandle.Close()
}
