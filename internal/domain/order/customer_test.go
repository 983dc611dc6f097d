package order

import (
	"testing"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCustomerType(t *testing.T) {
	tests := []struct {
		input   string
		want    CustomerType
		wantErr bool
	}{
		{input: "Premium", want: CustomerPremium},
		{input: "Regular", want: CustomerRegular},
		{input: "Other", want: CustomerOther},
		{input: "", want: CustomerOther},
		{input: "premium", want: CustomerOther, wantErr: true},
		{input: "REGULAR", want: CustomerOther, wantErr: true},
		{input: " Premium", want: CustomerOther, wantErr: true},
		{input: "Gold", want: CustomerOther, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseCustomerType(tt.input)
			assert.Equal(t, tt.want, got)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrUnknownCustomerType))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCustomerType_Multiplier(t *testing.T) {
	assert.True(t, decimal.RequireFromString("0.8").Equal(CustomerPremium.Multiplier()))
	assert.True(t, decimal.RequireFromString("0.9").Equal(CustomerRegular.Multiplier()))
	assert.True(t, decimal.NewFromInt(1).Equal(CustomerOther.Multiplier()))
	assert.True(t, decimal.NewFromInt(1).Equal(CustomerType(42).Multiplier()))
}

func TestCustomerType_String(t *testing.T) {
	assert.Equal(t, "Premium", CustomerPremium.String())
	assert.Equal(t, "Regular", CustomerRegular.String())
	assert.Equal(t, "Other", CustomerOther.String())
	assert.Equal(t, "Other", CustomerType(42).String())
}

func TestSubtotal(t *testing.T) {
	assert.True(t, decimal.Zero.Equal(Subtotal(nil)))
	assert.True(t, decimal.RequireFromString("120").Equal(Subtotal([]OrderItem{
		item("A", "10", 2),
		item("B", "25", 4),
	})))
}

func TestRequest_Order(t *testing.T) {
	items := []OrderItem{item("A", "1", 1)}

	o, err := Request{CustomerType: "Gold", Items: items}.Order(false)
	require.NoError(t, err)
	assert.Equal(t, CustomerOther, o.CustomerType)
	assert.NotEmpty(t, o.ID)

	_, err = Request{CustomerType: "Gold", Items: items}.Order(true)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, `unknown customer type "Gold"`, verr.Error())

	o, err = Request{CustomerType: "Premium", Items: items}.Order(true)
	require.NoError(t, err)
	assert.Equal(t, CustomerPremium, o.CustomerType)

	o, err = Request{Items: items}.Order(true)
	require.NoError(t, err)
	assert.Equal(t, CustomerOther, o.CustomerType)
}
