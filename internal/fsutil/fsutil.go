// Package fsutil provides the filesystem primitives used by the provisioning
// pipeline: atomic writes, guarded symlinks, and file copies.
package fsutil

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// WriteFileAtomic writes data to dir/name through a temp file in the same
// directory followed by a rename, so a crash mid-write never leaves a
// half-written config or script at the final path.
func WriteFileAtomic(dir, name string, data []byte, perm os.FileMode) error {
	target := filepath.Join(dir, name)
	tmp := filepath.Join(dir, "."+name+".partial")

	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	defer os.Remove(tmp)

	_, err = f.Write(data)
	if err == nil {
		err = f.Sync()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	return os.Rename(tmp, target)
}

// CopyFile copies src to dst with the given permissions, truncating dst if it
// exists. The parent directory of dst must already exist.
func CopyFile(src, dst string, perm os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("fsutil: open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return fmt.Errorf("fsutil: create %s: %w", dst, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("fsutil: copy %s to %s: %w", src, dst, err)
	}
	return nil
}

// EnsureSymlink creates link pointing at target unless link already exists.
// An existing link is left untouched regardless of its current target, so
// repeated provisioning runs never fail here.
func EnsureSymlink(target, link string) (created bool, err error) {
	if _, err := os.Lstat(link); err == nil {
		return false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("fsutil: lstat %s: %w", link, err)
	}
	if err := os.MkdirAll(filepath.Dir(link), 0o755); err != nil {
		return false, fmt.Errorf("fsutil: create link directory: %w", err)
	}
	if err := os.Symlink(target, link); err != nil {
		return false, fmt.Errorf("fsutil: symlink %s to %s: %w", link, target, err)
	}
	return true, nil
}
