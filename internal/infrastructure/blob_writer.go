package infrastructure

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// BlobWriter writes synthetic zero-filled files standing in for real media
type BlobWriter struct {
	dir string
}

// NewBlobWriter creates a writer targeting dir
func NewBlobWriter(dir string) *BlobWriter {
	return &BlobWriter{dir: dir}
}

// Dir returns the output directory
func (w *BlobWriter) Dir() string {
	return w.dir
}

// Write creates dir/filename holding size zero bytes and returns its path.
// An existing file of the same name is replaced.
func (w *BlobWriter) Write(filename string, size int64) (string, error) {
	if filename == "" || filename != filepath.Base(filename) {
		return "", fmt.Errorf("invalid file name: %q", filename)
	}
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(w.dir, filename)
	tmp, err := os.CreateTemp(w.dir, ".blob-*")
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.CopyN(tmp, zeroReader{}, size); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("failed to move file into place: %w", err)
	}

	return path, nil
}

type zeroReader struct{}

func (zeroReader) Read(p []byte) (int, error) {
	clear(p)
	return len(p), nil
}
