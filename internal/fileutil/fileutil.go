// Package fileutil moves and copies files through an afero filesystem
// without overwriting existing destinations.
package fileutil

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"golang.org/x/sys/unix"
)

// ErrDestinationExists is returned when a move or copy target is already
// present, whether as a file or a directory.
var ErrDestinationExists = errors.New("destination already exists")

// Move renames src to dst, creating dst's parent directories first. An
// existing dst is never replaced. When src and dst live on different
// devices the file is copied with verification and src removed afterwards.
func Move(fsys afero.Fs, src, dst string) error {
	if err := prepareTarget(fsys, dst); err != nil {
		return err
	}
	if err := rename(fsys, src, dst); err != nil {
		if !IsCrossDevice(err) {
			return fmt.Errorf("move file: %w", err)
		}
		if err := CopyFileVerified(fsys, src, dst); err != nil {
			return fmt.Errorf("copy file across devices: %w", err)
		}
		if err := fsys.Remove(src); err != nil {
			return fmt.Errorf("remove source after copy: %w", err)
		}
	}
	return nil
}

// errNoReplaceUnsupported means the kernel or filesystem cannot rename
// without replacing, so the caller relies on the earlier existence check.
var errNoReplaceUnsupported = errors.New("rename without replace unsupported")

// rename refuses to replace dst on the host filesystem even when dst
// appears after prepareTarget checked for it.
func rename(fsys afero.Fs, src, dst string) error {
	if _, ok := fsys.(*afero.OsFs); ok {
		err := renameNoReplace(src, dst)
		if !errors.Is(err, errNoReplaceUnsupported) {
			return err
		}
	}
	return fsys.Rename(src, dst)
}

// Copy copies src to dst with verification, creating dst's parent
// directories first. An existing dst is never replaced.
func Copy(fsys afero.Fs, src, dst string) error {
	if err := prepareTarget(fsys, dst); err != nil {
		return err
	}
	if err := CopyFileVerified(fsys, src, dst); err != nil {
		return fmt.Errorf("copy file: %w", err)
	}
	return nil
}

func prepareTarget(fsys afero.Fs, dst string) error {
	if err := fsys.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("create target directory: %w", err)
	}
	exists, err := Exists(fsys, dst)
	if err != nil {
		return fmt.Errorf("stat target: %w", err)
	}
	if exists {
		return fmt.Errorf("%s: %w", dst, ErrDestinationExists)
	}
	return nil
}

// Exists reports whether path is present. Symlinks are not followed when
// the filesystem supports lstat.
func Exists(fsys afero.Fs, path string) (bool, error) {
	var err error
	if lstater, ok := fsys.(afero.Lstater); ok {
		_, _, err = lstater.LstatIfPossible(path)
	} else {
		_, err = fsys.Stat(path)
	}
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// CopyFileVerified streams src to dst with SHA256 + size integrity verification.
// dst must not exist; it is created with src's permissions and removed on mismatch.
func CopyFileVerified(fsys afero.Fs, src, dst string) error {
	in, err := fsys.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	srcInfo, err := in.Stat()
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}
	if !srcInfo.Mode().IsRegular() {
		return fmt.Errorf("copy %s: not a regular file", src)
	}
	srcSize := srcInfo.Size()

	out, err := fsys.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, srcInfo.Mode().Perm())
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%s: %w", dst, ErrDestinationExists)
		}
		return err
	}
	defer func() {
		_ = out.Close()
	}()

	srcHasher := sha256.New()
	dstHasher := sha256.New()
	tee := io.TeeReader(in, srcHasher)
	multi := io.MultiWriter(out, dstHasher)

	written, err := io.Copy(multi, tee)
	if err != nil {
		_ = fsys.Remove(dst)
		return err
	}
	if err := out.Sync(); err != nil {
		_ = fsys.Remove(dst)
		return fmt.Errorf("sync destination: %w", err)
	}
	if err := out.Close(); err != nil {
		_ = fsys.Remove(dst)
		return err
	}

	if written != srcSize {
		_ = fsys.Remove(dst)
		return fmt.Errorf("copy size mismatch: source %d bytes, copied %d bytes", srcSize, written)
	}

	if !bytes.Equal(srcHasher.Sum(nil), dstHasher.Sum(nil)) {
		_ = fsys.Remove(dst)
		return fmt.Errorf("copy hash mismatch: file corrupted during copy")
	}

	return nil
}

// IsCrossDevice reports whether err comes from renaming across filesystems.
func IsCrossDevice(err error) bool {
	return errors.Is(err, unix.EXDEV)
}

// Writable reports whether the current user may create entries in dir. It
// asks the kernel, so it only applies to the host filesystem.
func Writable(dir string) bool {
	return unix.Access(dir, unix.W_OK|unix.X_OK) == nil
}
