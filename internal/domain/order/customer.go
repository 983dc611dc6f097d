package order

import (
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// CustomerType classifies a customer for discount purposes.
type CustomerType uint8

const (
	// CustomerOther receives no discount. It is the zero value.
	CustomerOther CustomerType = iota
	// CustomerPremium receives 20% off the subtotal.
	CustomerPremium
	// CustomerRegular receives 10% off the subtotal.
	CustomerRegular
)

// ErrUnknownCustomerType is reported by ParseCustomerType for non-empty
// values that do not name a known customer type.
var ErrUnknownCustomerType = errors.New("unknown customer type")

var (
	premiumMultiplier = decimal.RequireFromString("0.80")
	regularMultiplier = decimal.RequireFromString("0.90")
	noDiscount        = decimal.NewFromInt(1)
)

// ParseCustomerType maps raw customer type text to a CustomerType. Matching
// is exact and case-sensitive. Anything other than "Premium" or "Regular"
// yields CustomerOther; non-empty unrecognized values also return
// ErrUnknownCustomerType so the caller can decide whether to reject them.
func ParseCustomerType(s string) (CustomerType, error) {
	switch s {
	case "Premium":
		return CustomerPremium, nil
	case "Regular":
		return CustomerRegular, nil
	case "", "Other":
		return CustomerOther, nil
	default:
		return CustomerOther, errors.Wrapf(ErrUnknownCustomerType, "%q", s)
	}
}

func (t CustomerType) String() string {
	switch t {
	case CustomerPremium:
		return "Premium"
	case CustomerRegular:
		return "Regular"
	default:
		return "Other"
	}
}

// Multiplier returns the factor applied to the subtotal for this tier.
func (t CustomerType) Multiplier() decimal.Decimal {
	switch t {
	case CustomerPremium:
		return premiumMultiplier
	case CustomerRegular:
		return regularMultiplier
	default:
		return noDiscount
	}
}
