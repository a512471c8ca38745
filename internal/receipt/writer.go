package receipt

import (
	"fmt"
	"os"
	"path/filepath"
)

// Writer stores rendered tickets under a fixed output directory.
type Writer struct {
	dir string
}

// NewWriter builds a writer rooted at dir.
func NewWriter(dir string) (*Writer, error) {
	if dir == "" {
		return nil, fmt.Errorf("receipt directory required")
	}
	return &Writer{dir: dir}, nil
}

// Store renders the receipt and writes it to its ticket file, creating the
// output directory on first use. It returns the written path.
func (w *Writer) Store(r Receipt) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("creating receipt directory: %w", err)
	}
	path := filepath.Join(w.dir, r.FileName())
	if err := os.WriteFile(path, []byte(r.Render()), 0o644); err != nil {
		return "", fmt.Errorf("writing ticket file: %w", err)
	}
	return path, nil
}
