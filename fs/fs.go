// Package fs provides the filesystem abstraction shared by the catalog,
// publisher, and cleanup components. It is backed by go-billy so the same
// code paths run against the OS filesystem in production and an in-memory
// filesystem in tests.
package fs

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
)

// FS wraps a billy.Filesystem with the operations this project needs.
type FS struct {
	fs billy.Filesystem
}

// NewFS wraps an existing billy filesystem.
func NewFS(fsys billy.Filesystem) *FS {
	return &FS{fs: fsys}
}

// NewOSFS creates a filesystem rooted at the given OS path.
func NewOSFS(root string) *FS {
	return &FS{fs: osfs.New(root)}
}

// NewInMemoryFS creates an in-memory filesystem for tests.
func NewInMemoryFS() *FS {
	return &FS{fs: memfs.New()}
}

// Raw returns the underlying billy filesystem. Git storage setup needs
// direct billy access for chroot operations.
func (f *FS) Raw() billy.Filesystem {
	return f.fs
}

// Exists reports whether the named file or directory exists.
func (f *FS) Exists(path string) (bool, error) {
	_, err := f.fs.Stat(path)
	switch {
	case err == nil:
		return true, nil
	case os.IsNotExist(err):
		return false, nil
	default:
		return false, fmt.Errorf("fs: stat %q: %w", path, err)
	}
}

// ReadDir lists the named directory in the backend's natural order.
func (f *FS) ReadDir(dirname string) ([]os.FileInfo, error) {
	list, err := f.fs.ReadDir(dirname)
	if err != nil {
		return nil, fmt.Errorf("fs: readdir %q: %w", dirname, err)
	}
	return list, nil
}

// ReadFile reads the named file.
func (f *FS) ReadFile(path string) ([]byte, error) {
	bts, err := util.ReadFile(f.fs, path)
	if err != nil {
		return nil, fmt.Errorf("fs: readfile %q: %w", path, err)
	}
	return bts, nil
}

// WriteFile writes data to the named file, creating parent directories as
// needed.
func (f *FS) WriteFile(path string, data []byte, perm os.FileMode) error {
	if dir := filepath.Dir(path); dir != "." && dir != "/" {
		if err := f.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("fs: mkdirall %q: %w", dir, err)
		}
	}
	if err := util.WriteFile(f.fs, path, data, perm); err != nil {
		return fmt.Errorf("fs: writefile %q: %w", path, err)
	}
	return nil
}

// MkdirAll creates the named directory and any missing parents.
func (f *FS) MkdirAll(path string, perm os.FileMode) error {
	if err := f.fs.MkdirAll(path, perm); err != nil {
		return fmt.Errorf("fs: mkdirall %q: %w", path, err)
	}
	return nil
}

// Remove removes the named file.
func (f *FS) Remove(path string) error {
	if err := f.fs.Remove(path); err != nil {
		return fmt.Errorf("fs: remove %q: %w", path, err)
	}
	return nil
}

// RemoveAll removes the named path and everything beneath it. A missing
// path is not an error.
func (f *FS) RemoveAll(path string) error {
	if err := util.RemoveAll(f.fs, path); err != nil {
		return fmt.Errorf("fs: removeall %q: %w", path, err)
	}
	return nil
}

// Glob returns the names matching pattern, relative to the filesystem root.
func (f *FS) Glob(pattern string) ([]string, error) {
	matches, err := util.Glob(f.fs, pattern)
	if err != nil {
		return nil, fmt.Errorf("fs: glob %q: %w", pattern, err)
	}
	return matches, nil
}
