package order

import "fmt"

// ValidationError reports an order that cannot be processed. Its message is
// fixed at construction.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

// ErrEmptyItems is returned when an order has no items.
var ErrEmptyItems = &ValidationError{msg: "Order must contain at least one item"}

func unknownCustomerTypeError(raw string) *ValidationError {
	return &ValidationError{msg: fmt.Sprintf("unknown customer type %q", raw)}
}
