package order

import (
	"bytes"
	"io"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"
)

// Encode writes o as a JSON object.
func (o *Order) Encode(e *jx.Encoder) {
	e.ObjStart()
	e.FieldStart("Id")
	e.Str(o.ID)
	e.FieldStart("CustomerName")
	e.Str(o.CustomerName)
	e.FieldStart("Email")
	e.Str(o.Email)
	e.FieldStart("CustomerType")
	e.Str(o.CustomerType.String())
	e.FieldStart("Total")
	encodeDecimal(e, o.Total)
	e.FieldStart("Items")
	EncodeItems(e, o.Items)
	e.ObjEnd()
}

// Decode reads o from a JSON object. Keys are matched case-insensitively and
// unknown customer types decode as CustomerOther.
func (o *Order) Decode(d *jx.Decoder) error {
	var doc document
	if err := doc.decode(d); err != nil {
		return err
	}
	ct, _ := ParseCustomerType(doc.customerType)
	*o = Order{
		ID:           doc.id,
		CustomerName: doc.customerName,
		Email:        doc.email,
		CustomerType: ct,
		Total:        doc.total,
		Items:        doc.items,
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (o Order) MarshalJSON() ([]byte, error) {
	var e jx.Encoder
	o.Encode(&e)
	return e.Bytes(), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (o *Order) UnmarshalJSON(data []byte) error {
	d := jx.DecodeBytes(data)
	if err := o.Decode(d); err != nil {
		return err
	}
	return ensureEnd(d)
}

// Decode reads an inbound order document. Id and Total are ignored.
func (r *Request) Decode(d *jx.Decoder) error {
	var doc document
	if err := doc.decode(d); err != nil {
		return err
	}
	*r = Request{
		CustomerName: doc.customerName,
		Email:        doc.email,
		CustomerType: doc.customerType,
		Items:        doc.items,
	}
	return nil
}

// UnmarshalJSON decodes a complete request document.
func (r *Request) UnmarshalJSON(data []byte) error {
	d := jx.DecodeBytes(data)
	if err := r.Decode(d); err != nil {
		return err
	}
	return ensureEnd(d)
}

// DecodeRequests decodes a single request object or an array of them.
func DecodeRequests(data []byte) ([]Request, error) {
	d := jx.DecodeBytes(data)
	var reqs []Request
	if d.Next() == jx.Array {
		if err := d.Arr(func(d *jx.Decoder) error {
			var req Request
			if err := req.Decode(d); err != nil {
				return errors.Wrapf(err, "order %d", len(reqs))
			}
			reqs = append(reqs, req)
			return nil
		}); err != nil {
			return nil, err
		}
	} else {
		var req Request
		if err := req.Decode(d); err != nil {
			return nil, err
		}
		reqs = append(reqs, req)
	}
	if err := ensureEnd(d); err != nil {
		return nil, err
	}
	return reqs, nil
}

// Encode writes the item as a JSON object.
func (i OrderItem) Encode(e *jx.Encoder) {
	e.ObjStart()
	e.FieldStart("ProductName")
	e.Str(i.ProductName)
	e.FieldStart("Price")
	encodeDecimal(e, i.Price)
	e.FieldStart("Quantity")
	e.Int(i.Quantity)
	e.ObjEnd()
}

// Decode reads the item from a JSON object.
func (i *OrderItem) Decode(d *jx.Decoder) error {
	return d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch strings.ToLower(key) {
		case "productname":
			i.ProductName, err = decodeString(d)
		case "price":
			i.Price, err = decodeDecimal(d)
		case "quantity":
			i.Quantity, err = decodeInt(d)
		default:
			err = d.Skip()
		}
		if err != nil {
			return errors.Wrapf(err, "decode %q", key)
		}
		return nil
	})
}

// EncodeItems writes items as a JSON array.
func EncodeItems(e *jx.Encoder, items []OrderItem) {
	e.ArrStart()
	for _, item := range items {
		item.Encode(e)
	}
	e.ArrEnd()
}

// DecodeItems reads a JSON array of items. JSON null yields nil.
func DecodeItems(d *jx.Decoder) ([]OrderItem, error) {
	if d.Next() == jx.Null {
		return nil, d.Null()
	}
	items := []OrderItem{}
	err := d.Arr(func(d *jx.Decoder) error {
		var item OrderItem
		if err := item.Decode(d); err != nil {
			return err
		}
		items = append(items, item)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// MarshalOrders encodes a collection of orders as an indented JSON array.
func MarshalOrders(orders []Order) []byte {
	var e jx.Encoder
	e.SetIdent(2)
	e.ArrStart()
	for i := range orders {
		orders[i].Encode(&e)
	}
	e.ArrEnd()
	return e.Bytes()
}

// UnmarshalOrders decodes a JSON array of orders. Empty input and JSON null
// both yield an empty collection.
func UnmarshalOrders(data []byte) ([]Order, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	d := jx.DecodeBytes(data)
	var orders []Order
	if d.Next() == jx.Null {
		if err := d.Null(); err != nil {
			return nil, errors.Wrap(err, "decode orders")
		}
	} else {
		err := d.Arr(func(d *jx.Decoder) error {
			var o Order
			if err := o.Decode(d); err != nil {
				return errors.Wrapf(err, "order %d", len(orders))
			}
			orders = append(orders, o)
			return nil
		})
		if err != nil {
			return nil, errors.Wrap(err, "decode orders")
		}
	}
	if err := ensureEnd(d); err != nil {
		return nil, errors.Wrap(err, "decode orders")
	}
	return orders, nil
}

// ensureEnd fails unless only whitespace remains in d.
func ensureEnd(d *jx.Decoder) error {
	if err := d.Skip(); !errors.Is(err, io.EOF) {
		return errors.New("unexpected trailing data")
	}
	return nil
}

// document is the union of the Order and Request wire fields.
type document struct {
	id           string
	customerName string
	email        string
	customerType string
	total        decimal.Decimal
	items        []OrderItem
}

func (doc *document) decode(d *jx.Decoder) error {
	return d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch strings.ToLower(key) {
		case "id":
			doc.id, err = decodeString(d)
		case "customername":
			doc.customerName, err = decodeString(d)
		case "email":
			doc.email, err = decodeString(d)
		case "customertype":
			doc.customerType, err = decodeString(d)
		case "total":
			doc.total, err = decodeDecimal(d)
		case "items":
			doc.items, err = DecodeItems(d)
		default:
			err = d.Skip()
		}
		if err != nil {
			return errors.Wrapf(err, "decode %q", key)
		}
		return nil
	})
}

func encodeDecimal(e *jx.Encoder, v decimal.Decimal) {
	e.Num(jx.Num(v.String()))
}

func decodeDecimal(d *jx.Decoder) (decimal.Decimal, error) {
	switch tt := d.Next(); tt {
	case jx.Number:
		n, err := d.Num()
		if err != nil {
			return decimal.Zero, err
		}
		return decimal.NewFromString(string(n))
	case jx.String:
		s, err := d.Str()
		if err != nil {
			return decimal.Zero, err
		}
		return decimal.NewFromString(s)
	case jx.Null:
		return decimal.Zero, d.Null()
	default:
		return decimal.Zero, errors.Errorf("unexpected %v, want number", tt)
	}
}

func decodeString(d *jx.Decoder) (string, error) {
	if d.Next() == jx.Null {
		return "", d.Null()
	}
	return d.Str()
}

func decodeInt(d *jx.Decoder) (int, error) {
	if d.Next() == jx.Null {
		return 0, d.Null()
	}
	return d.Int()
}
