// Package notify delivers order notifications to customers.
package notify

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/go-faster/errors"

	"github.com/xenking/order-processor/internal/domain/order"
)

var _ order.Notifier = (*Console)(nil)

// Console simulates an email by printing "Email sent to <email>" to w.
type Console struct {
	mu sync.Mutex
	w  io.Writer
}

// NewConsole returns a Console notifier writing to w, usually os.Stdout.
func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

// Notify prints the notification line for o.
func (c *Console) Notify(_ context.Context, o *order.Order) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := fmt.Fprintf(c.w, "Email sent to %s\n", o.Email); err != nil {
		return errors.Wrap(err, "write notification")
	}
	return nil
}
