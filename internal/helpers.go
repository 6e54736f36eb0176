package internal

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
)

// Writes data to path through a temporary file in the same directory.
// The target is replaced only once everything was written and flushed, so a
// failed run never leaves a half written artifact behind.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return fmt.Errorf("could not create output directory '%s': %w", dir, err)
	}

	if err := renameio.WriteFile(path, data, perm); err != nil {
		return fmt.Errorf("could not write '%s': %w", path, err)
	}
	return nil
}
