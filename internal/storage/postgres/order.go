package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/xenking/order-processor/internal/domain/order"
)

const (
	insertOrderSQL = `INSERT INTO orders (id, customer_name, email, customer_type, total, items)
	VALUES ($1, $2, $3, $4, $5, $6)`
	listOrdersSQL = `SELECT id, customer_name, email, customer_type, total, items
	FROM orders ORDER BY seq`
)

var _ order.Store = (*OrderStore)(nil)

// OrderStore implements order.Store backed by PostgreSQL. Each Append is a
// single INSERT, so concurrent writers do not overwrite each other.
type OrderStore struct {
	pool *pgxpool.Pool
}

// NewOrderStore returns an OrderStore that uses the given pool.
func NewOrderStore(pool *pgxpool.Pool) *OrderStore {
	return &OrderStore{pool: pool}
}

// Append inserts o. Items are stored as JSONB in the wire format.
func (s *OrderStore) Append(ctx context.Context, o *order.Order) error {
	var e jx.Encoder
	order.EncodeItems(&e, o.Items)

	_, err := s.pool.Exec(ctx, insertOrderSQL,
		o.ID, o.CustomerName, o.Email, o.CustomerType.String(), o.Total, e.Bytes(),
	)
	if err != nil {
		return errors.Wrapf(err, "insert order %q", o.ID)
	}
	return nil
}

// List returns all orders in insertion order.
func (s *OrderStore) List(ctx context.Context) ([]order.Order, error) {
	rows, err := s.pool.Query(ctx, listOrdersSQL)
	if err != nil {
		return nil, errors.Wrap(err, "query orders")
	}
	defer rows.Close()

	var orders []order.Order
	for rows.Next() {
		var (
			o            order.Order
			customerType string
			total        decimal.Decimal
			items        []byte
		)
		if err := rows.Scan(&o.ID, &o.CustomerName, &o.Email, &customerType, &total, &items); err != nil {
			return nil, errors.Wrap(err, "scan order")
		}
		o.CustomerType, _ = order.ParseCustomerType(customerType)
		o.Total = total
		if o.Items, err = order.DecodeItems(jx.DecodeBytes(items)); err != nil {
			return nil, errors.Wrapf(err, "decode items of %q", o.ID)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate orders")
	}
	return orders, nil
}
