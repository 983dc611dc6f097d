//go:build integration

package postgres

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/xenking/order-processor/internal/domain/order"
)

func startPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:17-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "orders",
				"POSTGRES_PASSWORD": "orders",
				"POSTGRES_DB":       "orders",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	host, err := c.Host(ctx)
	require.NoError(t, err)
	port, err := c.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	pool, err := NewPool(ctx, fmt.Sprintf("postgres://orders:orders@%s:%s/orders?sslmode=disable", host, port.Port()))
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, RunMigrations(ctx, pool))
	// Migrations are idempotent.
	require.NoError(t, RunMigrations(ctx, pool))
	return pool
}

func TestOrderStore(t *testing.T) {
	ctx := context.Background()
	s := NewOrderStore(startPostgres(t))

	orders, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, orders)

	first := order.New("A", "a@example.com", order.CustomerPremium, order.OrderItem{
		ProductName: "Item1",
		Price:       decimal.RequireFromString("0.10"),
		Quantity:    3,
	})
	first.Total = order.Total(first.CustomerType, first.Items)
	second := order.New("B", "b@example.com", order.CustomerOther, order.OrderItem{
		ProductName: "Item2",
		Price:       decimal.NewFromInt(5),
		Quantity:    1,
	})
	second.Total = order.Total(second.CustomerType, second.Items)

	require.NoError(t, s.Append(ctx, first))
	require.NoError(t, s.Append(ctx, second))
	// The same order value processed twice is stored twice.
	require.NoError(t, s.Append(ctx, second))

	orders, err = s.List(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 3)

	assert.Equal(t, first.ID, orders[0].ID)
	assert.Equal(t, order.CustomerPremium, orders[0].CustomerType)
	assert.True(t, decimal.RequireFromString("0.24").Equal(orders[0].Total), "got %s", orders[0].Total)
	require.Len(t, orders[0].Items, 1)
	assert.True(t, decimal.RequireFromString("0.1").Equal(orders[0].Items[0].Price))
	assert.Equal(t, 3, orders[0].Items[0].Quantity)
	assert.Equal(t, second.ID, orders[1].ID)
	assert.Equal(t, second.ID, orders[2].ID)
}

func TestOrderStore_ConcurrentAppends(t *testing.T) {
	ctx := context.Background()
	s := NewOrderStore(startPostgres(t))

	const n = 25
	var wg sync.WaitGroup
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			o := order.New("C", "c@example.com", order.CustomerRegular, order.OrderItem{
				ProductName: "Item",
				Price:       decimal.NewFromInt(1),
				Quantity:    1,
			})
			assert.NoError(t, s.Append(ctx, o))
		}()
	}
	wg.Wait()

	orders, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, orders, n)
}
