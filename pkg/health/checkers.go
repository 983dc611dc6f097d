package health

import (
	"context"
	"os"
	"path/filepath"
	"runtime"

	"github.com/go-faster/errors"
)

// GoroutineCountCheck fails when more than threshold goroutines are running,
// which usually means a leak.
func GoroutineCountCheck(threshold int) CheckFunc {
	return func(_ context.Context) error {
		if n := runtime.NumGoroutine(); n > threshold {
			return errors.Errorf("goroutine count %d exceeds threshold %d", n, threshold)
		}
		return nil
	}
}

// DirCheck fails when the directory containing path is missing or is not a
// directory. Use it for file-backed stores and sinks.
func DirCheck(path string) CheckFunc {
	dir := filepath.Dir(path)
	return func(_ context.Context) error {
		fi, err := os.Stat(dir)
		if err != nil {
			return errors.Wrapf(err, "stat %s", dir)
		}
		if !fi.IsDir() {
			return errors.Errorf("%s is not a directory", dir)
		}
		return nil
	}
}
