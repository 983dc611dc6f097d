// Package file implements an order store kept in a single JSON document.
//
// Every Append reads the whole document, appends the order and rewrites the
// document. The rewrite goes to a temporary file that is renamed over the
// store, and a mutex serializes Append calls within the process. Paths ending
// in ".gz" are gzip-compressed.
package file

import (
	"bytes"
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-faster/errors"
	"github.com/klauspost/pgzip"

	"github.com/xenking/order-processor/internal/domain/order"
)

var _ order.Store = (*Store)(nil)

// Store persists orders as an indented JSON array in a file.
type Store struct {
	path string
	mu   sync.Mutex
}

// New returns a Store backed by path. The file is created on first Append.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the store file path.
func (s *Store) Path() string {
	return s.path
}

// Append adds o to the end of the stored collection.
func (s *Store) Append(_ context.Context, o *order.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	orders, err := Load(s.path)
	if err != nil {
		return err
	}
	orders = append(orders, *o)
	return s.write(orders)
}

// List returns every stored order in insertion order.
func (s *Store) List(_ context.Context) ([]order.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Load(s.path)
}

// Load reads all orders from the store file at path. A missing or empty file
// yields an empty collection.
func Load(path string) ([]order.Order, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "read %s", path)
	}
	if compressed(path) && len(data) > 0 {
		if data, err = gunzip(data); err != nil {
			return nil, errors.Wrapf(err, "decompress %s", path)
		}
	}
	orders, err := order.UnmarshalOrders(data)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	return orders, nil
}

func (s *Store) write(orders []order.Order) error {
	data := order.MarshalOrders(orders)
	if compressed(s.path) {
		var err error
		if data, err = gzip(data); err != nil {
			return errors.Wrapf(err, "compress %s", s.path)
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "create temp file")
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return errors.Wrapf(err, "write %s", tmp.Name())
	}
	if err := tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		return errors.Wrapf(err, "chmod %s", tmp.Name())
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "close %s", tmp.Name())
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return errors.Wrapf(err, "replace %s", s.path)
	}
	return nil
}

func compressed(path string) bool {
	return strings.HasSuffix(path, ".gz")
}

func gunzip(data []byte) ([]byte, error) {
	gz, err := pgzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer func() { _ = gz.Close() }()
	return io.ReadAll(gz)
}

func gzip(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	gz := pgzip.NewWriter(&buf)
	if _, err := gz.Write(data); err != nil {
		return nil, err
	}
	if err := gz.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
