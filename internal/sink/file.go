// Package sink provides append-only line outputs.
package sink

import (
	"context"
	"os"
	"sync"

	"github.com/go-faster/errors"
)

// File appends lines to a text file, creating it on first write.
type File struct {
	path string
	mu   sync.Mutex
}

// NewFile returns a File sink writing to path.
func NewFile(path string) *File {
	return &File{path: path}
}

// Path returns the file path.
func (f *File) Path() string {
	return f.path
}

// WriteLine appends line followed by a newline.
func (f *File) WriteLine(_ context.Context, line string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	file, err := os.OpenFile(f.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.Wrapf(err, "open %s", f.path)
	}
	if _, err := file.WriteString(line + "\n"); err != nil {
		_ = file.Close()
		return errors.Wrapf(err, "write %s", f.path)
	}
	if err := file.Close(); err != nil {
		return errors.Wrapf(err, "close %s", f.path)
	}
	return nil
}
