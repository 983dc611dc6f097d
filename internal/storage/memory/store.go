// Package memory implements an in-memory order store.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/xenking/order-processor/internal/domain/order"
)

var _ order.Store = (*Store)(nil)

// Store keeps processed orders in insertion order.
type Store struct {
	mu     sync.RWMutex
	orders []order.Order
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{}
}

// Append stores a copy of the order.
func (s *Store) Append(_ context.Context, o *order.Order) error {
	c := *o
	c.Items = slices.Clone(o.Items)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders = append(s.orders, c)
	return nil
}

// List returns all stored orders.
func (s *Store) List(_ context.Context) ([]order.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.orders), nil
}
