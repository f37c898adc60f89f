package utils

import (
	"fmt"
	"os"
	"path/filepath"
)

// AtomicWriteFile replaces filePath with data via a temporary sibling and a
// rename, so readers see either the old or the new content. The parent
// directory must already exist.
func AtomicWriteFile(filePath string, data []byte, perm os.FileMode) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(filePath), "."+filepath.Base(filePath)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", filePath, err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err = tmp.Chmod(perm); err != nil {
		return fmt.Errorf("chmod %s: %w", tmp.Name(), err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err = os.Rename(tmp.Name(), filePath); err != nil {
		return fmt.Errorf("replace %s: %w", filePath, err)
	}
	return nil
}

// EnsureDir creates dir and any missing parents.
func EnsureDir(dir string, perm os.FileMode) error {
	if err := os.MkdirAll(dir, perm); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}
