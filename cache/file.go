package cache

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// writeFile replaces the file at path with what write produces.
//
// The content goes to a temporary file in the same folder first, then renamed,
// so that readers never see a partial file.
func writeFile(path string, write func(io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("persist error: cannot create folder %q: %w", dir, err)
	}
	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("persist error: cannot create temporary file: %w", err)
	}
	defer func() {
		if err != nil {
			os.Remove(f.Name())
		}
	}()

	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("persist error: cannot write %q: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("persist error: cannot write %q: %w", path, err)
	}
	if err := os.Rename(f.Name(), path); err != nil {
		return fmt.Errorf("persist error: cannot replace %q: %w", path, err)
	}
	return nil
}
