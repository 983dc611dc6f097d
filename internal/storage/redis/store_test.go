package redis

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/order-processor/internal/domain/order"
)

// fakeClient keeps lists in memory.
type fakeClient struct {
	lists map[string][]string
	err   error
}

func newFakeClient() *fakeClient {
	return &fakeClient{lists: make(map[string][]string)}
}

func (f *fakeClient) RPush(_ context.Context, key string, values ...any) *redis.IntCmd {
	if f.err != nil {
		return redis.NewIntResult(0, f.err)
	}
	for _, v := range values {
		switch v := v.(type) {
		case []byte:
			f.lists[key] = append(f.lists[key], string(v))
		case string:
			f.lists[key] = append(f.lists[key], v)
		}
	}
	return redis.NewIntResult(int64(len(f.lists[key])), nil)
}

func (f *fakeClient) LRange(_ context.Context, key string, _, _ int64) *redis.StringSliceCmd {
	return redis.NewStringSliceResult(f.lists[key], f.err)
}

func TestStore_AppendList(t *testing.T) {
	ctx := context.Background()
	c := newFakeClient()
	s := newStore(c, "")

	first := order.New("A", "a@example.com", order.CustomerPremium, order.OrderItem{
		ProductName: "A",
		Price:       decimal.RequireFromString("12.50"),
		Quantity:    2,
	})
	first.Total = decimal.NewFromInt(20)
	second := order.New("B", "b@example.com", order.CustomerOther)

	require.NoError(t, s.Append(ctx, first))
	require.NoError(t, s.Append(ctx, second))
	assert.Len(t, c.lists[DefaultKey], 2)

	orders, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, first.ID, orders[0].ID)
	assert.Equal(t, order.CustomerPremium, orders[0].CustomerType)
	assert.True(t, decimal.NewFromInt(20).Equal(orders[0].Total))
	assert.True(t, decimal.RequireFromString("12.5").Equal(orders[0].Items[0].Price))
	assert.Equal(t, second.ID, orders[1].ID)
}

func TestStore_Errors(t *testing.T) {
	ctx := context.Background()
	c := newFakeClient()
	c.err = errors.New("connection refused")
	s := newStore(c, "custom")

	err := s.Append(ctx, order.New("A", "a@example.com", order.CustomerOther))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rpush custom")

	_, err = s.List(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lrange custom")
}

func TestStore_CorruptEntry(t *testing.T) {
	c := newFakeClient()
	c.lists[DefaultKey] = []string{`{"Id": "a"}`, `not json`}
	s := newStore(c, DefaultKey)

	_, err := s.List(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "orders[1]")
}

func TestNewClient(t *testing.T) {
	c, err := NewClient("localhost:6379")
	require.NoError(t, err)
	assert.Equal(t, "localhost:6379", c.Options().Addr)
	require.NoError(t, c.Close())

	c, err = NewClient("redis://:secret@cache:6380/2")
	require.NoError(t, err)
	assert.Equal(t, "cache:6380", c.Options().Addr)
	assert.Equal(t, 2, c.Options().DB)
	require.NoError(t, c.Close())

	_, err = NewClient("redis://cache:notaport/x")
	require.Error(t, err)
}
