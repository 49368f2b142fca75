package filesystem

import (
	"fmt"
	"io/fs"
	"path/filepath"
)

// FileSystem is the file access surface used by slnchain. Solutions and
// project files are always read and written through it so that tests can run
// against an in-memory tree.
type FileSystem interface {
	// File operations
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte, perm fs.FileMode) error
	Rename(oldPath, newPath string) error
	Remove(path string) error

	// Path operations
	Stat(path string) (fs.FileInfo, error)
	Exists(path string) bool
	Getwd() (string, error)

	// File walking
	WalkDir(root string, fn fs.WalkDirFunc) error
}

// IsFile reports whether path names an existing regular file.
func IsFile(fsys FileSystem, path string) bool {
	if path == "" {
		return false
	}
	info, err := fsys.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// Abs resolves path against the working directory reported by fsys.
func Abs(fsys FileSystem, path string) (string, error) {
	if filepath.IsAbs(path) {
		return filepath.Clean(path), nil
	}
	wd, err := fsys.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	return filepath.Join(wd, path), nil
}
