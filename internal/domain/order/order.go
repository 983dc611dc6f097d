package order

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order represents a customer order. Total is derived by the Processor and
// overwritten on every processing call.
type Order struct {
	ID           string
	CustomerName string
	Email        string
	CustomerType CustomerType
	Total        decimal.Decimal
	Items        []OrderItem
}

// OrderItem represents a single line item in an order.
type OrderItem struct {
	ProductName string
	Price       decimal.Decimal
	Quantity    int
}

// New creates an Order with a freshly assigned identity.
func New(customerName, email string, customerType CustomerType, items ...OrderItem) *Order {
	return &Order{
		ID:           uuid.New().String(),
		CustomerName: customerName,
		Email:        email,
		CustomerType: customerType,
		Items:        items,
	}
}

// Store persists processed orders.
type Store interface {
	Append(ctx context.Context, o *Order) error
	List(ctx context.Context) ([]Order, error)
}

// Notifier tells the customer that their order was processed.
type Notifier interface {
	Notify(ctx context.Context, o *Order) error
}

// Sink is an append-only line output, used for the processing log.
type Sink interface {
	WriteLine(ctx context.Context, line string) error
}
