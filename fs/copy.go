package fs

import (
	"fmt"
	"io"
	"path"
)

// CopyFile copies a single file from src to dst within the filesystem,
// creating dst's parent directories as needed.
func (f *FS) CopyFile(src, dst string) error {
	return CopyFileBetween(f, src, f, dst)
}

// CopyDir recursively copies the directory tree rooted at src to dst.
// dst is created if it does not exist; existing files under dst are
// overwritten.
func (f *FS) CopyDir(src, dst string) error {
	return CopyTree(f, src, f, dst)
}

// CopyFileBetween copies a single file from src's filesystem to dst's,
// creating parent directories on the destination as needed. The two
// handles may be the same filesystem.
func CopyFileBetween(src *FS, srcPath string, dst *FS, dstPath string) error {
	in, err := src.fs.Open(srcPath)
	if err != nil {
		return fmt.Errorf("fs: open %q: %w", srcPath, err)
	}
	defer in.Close()

	if dir := path.Dir(dstPath); dir != "." && dir != "/" {
		if err := dst.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("fs: mkdirall %q: %w", dir, err)
		}
	}

	out, err := dst.fs.Create(dstPath)
	if err != nil {
		return fmt.Errorf("fs: create %q: %w", dstPath, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("fs: copy %q -> %q: %w", srcPath, dstPath, err)
	}
	return nil
}

// CopyTree recursively copies srcDir on src into dstDir on dst. The
// destination is created if missing; existing destination files are
// overwritten.
func CopyTree(src *FS, srcDir string, dst *FS, dstDir string) error {
	entries, err := src.ReadDir(srcDir)
	if err != nil {
		return err
	}

	if err := dst.MkdirAll(dstDir, 0o755); err != nil {
		return err
	}

	for _, entry := range entries {
		srcPath := path.Join(srcDir, entry.Name())
		dstPath := path.Join(dstDir, entry.Name())

		if entry.IsDir() {
			if err := CopyTree(src, srcPath, dst, dstPath); err != nil {
				return err
			}
			continue
		}
		if err := CopyFileBetween(src, srcPath, dst, dstPath); err != nil {
			return err
		}
	}
	return nil
}
