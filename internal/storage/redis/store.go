// Package redis implements an order store on top of a Redis list.
package redis

import (
	"context"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/redis/go-redis/v9"

	"github.com/xenking/order-processor/internal/domain/order"
)

// DefaultKey is the list key used when none is configured.
const DefaultKey = "orders"

var _ order.Store = (*Store)(nil)

// client is the subset of redis.Cmdable used by Store.
type client interface {
	RPush(ctx context.Context, key string, values ...any) *redis.IntCmd
	LRange(ctx context.Context, key string, start, stop int64) *redis.StringSliceCmd
}

// Store appends one JSON document per order to a Redis list. RPUSH is atomic,
// so concurrent appends from any number of processes are never lost.
type Store struct {
	rdb client
	key string
}

// New returns a Store using the list at key.
func New(rdb redis.Cmdable, key string) *Store {
	return newStore(rdb, key)
}

func newStore(rdb client, key string) *Store {
	if key == "" {
		key = DefaultKey
	}
	return &Store{rdb: rdb, key: key}
}

// NewClient connects to Redis. addr is either host:port or a redis:// URL.
func NewClient(addr string) (*redis.Client, error) {
	opts := &redis.Options{Addr: addr}
	if strings.Contains(addr, "://") {
		var err error
		if opts, err = redis.ParseURL(addr); err != nil {
			return nil, errors.Wrap(err, "parse redis url")
		}
	}
	opts.ReadTimeout = 2 * time.Second
	opts.WriteTimeout = 2 * time.Second
	return redis.NewClient(opts), nil
}

// Append pushes o onto the end of the list.
func (s *Store) Append(ctx context.Context, o *order.Order) error {
	data, err := o.MarshalJSON()
	if err != nil {
		return errors.Wrap(err, "encode order")
	}
	if err := s.rdb.RPush(ctx, s.key, data).Err(); err != nil {
		return errors.Wrapf(err, "rpush %s", s.key)
	}
	return nil
}

// List returns every order in the list, oldest first.
func (s *Store) List(ctx context.Context) ([]order.Order, error) {
	vals, err := s.rdb.LRange(ctx, s.key, 0, -1).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "lrange %s", s.key)
	}
	orders := make([]order.Order, 0, len(vals))
	for i, v := range vals {
		var o order.Order
		if err := o.UnmarshalJSON([]byte(v)); err != nil {
			return nil, errors.Wrapf(err, "decode %s[%d]", s.key, i)
		}
		orders = append(orders, o)
	}
	return orders, nil
}
