package fs

import (
	"errors"
	"fmt"
	"io"
	iofs "io/fs"
	"os"
	"path/filepath"
)

// ErrEmptyFile is returned when a write finished but produced zero bytes.
var ErrEmptyFile = errors.New("file is empty after writing")

// EnsureDir creates dir and its parents when absent.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// Exists reports whether path exists. Stat errors other than "not exist" are
// returned so callers never overwrite a file they could not inspect.
func Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, iofs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("failed to stat %s: %w", path, err)
}

// WriteFileAtomic streams write into a temporary file next to path and renames
// it into place. A zero-byte result is removed and reported as ErrEmptyFile.
// It returns the final file size.
func WriteFileAtomic(path string, write func(w io.Writer) error) (int64, error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return 0, fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpPath := tmp.Name()

	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		_ = os.Remove(tmpPath)
		return 0, fmt.Errorf("failed to chmod temporary file: %w", err)
	}
	if err := write(tmp); err != nil {
		tmp.Close()
		_ = os.Remove(tmpPath)
		return 0, err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return 0, fmt.Errorf("failed to close temporary file: %w", err)
	}

	info, err := os.Stat(tmpPath)
	if err != nil {
		_ = os.Remove(tmpPath)
		return 0, fmt.Errorf("failed to stat temporary file: %w", err)
	}
	if info.Size() == 0 {
		_ = os.Remove(tmpPath)
		return 0, fmt.Errorf("%s: %w", path, ErrEmptyFile)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return 0, fmt.Errorf("failed to rename temporary file to %s: %w", path, err)
	}
	return info.Size(), nil
}
