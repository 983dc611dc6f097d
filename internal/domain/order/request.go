package order

import "github.com/go-faster/errors"

// Request is an inbound order document. CustomerType holds the raw text as
// supplied by the caller.
type Request struct {
	CustomerName string
	Email        string
	CustomerType string
	Items        []OrderItem
}

// Order builds a new Order from the request. When strict is set, customer
// types that are neither empty nor known are rejected with a ValidationError;
// otherwise they fall back to CustomerOther.
func (r Request) Order(strict bool) (*Order, error) {
	ct, err := ParseCustomerType(r.CustomerType)
	if err != nil && strict && errors.Is(err, ErrUnknownCustomerType) {
		return nil, unknownCustomerTypeError(r.CustomerType)
	}
	return New(r.CustomerName, r.Email, ct, r.Items...), nil
}
