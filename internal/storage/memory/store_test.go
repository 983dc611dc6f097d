package memory

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/order-processor/internal/domain/order"
)

func TestStore(t *testing.T) {
	ctx := context.Background()
	s := New()

	orders, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, orders)

	o := order.New("A", "a@example.com", order.CustomerOther, order.OrderItem{
		ProductName: "A",
		Price:       decimal.NewFromInt(1),
		Quantity:    1,
	})
	require.NoError(t, s.Append(ctx, o))
	require.NoError(t, s.Append(ctx, o))

	// Mutating the caller's order must not affect stored copies.
	o.Email = "changed@example.com"
	o.Items[0].Quantity = 99

	orders, err = s.List(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "a@example.com", orders[0].Email)
	assert.Equal(t, 1, orders[0].Items[0].Quantity)
	assert.Equal(t, orders[0].ID, orders[1].ID)
}
