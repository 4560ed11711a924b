package order

import (
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
)

// Decode reads {"customer","product","quantity","coupon"} from d. Unknown
// fields are skipped and a null coupon is treated as absent.
func (r *Request) Decode(d *jx.Decoder) error {
	if r == nil {
		return errors.New("invalid: unable to decode Request to nil")
	}
	return d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		var err error
		switch string(key) {
		case "customer":
			r.Customer, err = d.Str()
		case "product":
			r.Product, err = d.Str()
		case "quantity":
			r.Quantity, err = d.Int()
		case "coupon":
			if d.Next() == jx.Null {
				r.Coupon = ""
				return d.Null()
			}
			r.Coupon, err = d.Str()
		default:
			return d.Skip()
		}
		if err != nil {
			return errors.Wrapf(err, "decode field %q", key)
		}
		return nil
	})
}

// Encode writes r as a JSON object. Prices are written as numbers with two
// decimal places.
func (r Result) Encode(e *jx.Encoder) {
	e.ObjStart()
	if r.ID != "" {
		e.FieldStart("id")
		e.Str(r.ID)
	}
	e.FieldStart("success")
	e.Bool(r.Success)
	e.FieldStart("customer")
	e.Str(r.Customer)
	e.FieldStart("product")
	e.Str(r.Product)
	e.FieldStart("quantity")
	e.Int(r.Quantity)
	e.FieldStart("price")
	e.Num(jx.Num(r.Price.StringFixed(2)))
	e.FieldStart("message")
	e.Str(r.Message)
	if r.Reason != "" {
		e.FieldStart("reason")
		e.Str(string(r.Reason))
	}
	if len(r.Warnings) > 0 {
		e.FieldStart("warnings")
		e.ArrStart()
		for _, w := range r.Warnings {
			e.Str(w)
		}
		e.ArrEnd()
	}
	e.ObjEnd()
}

// Encode writes a recorded order as a JSON object.
func (o Order) Encode(e *jx.Encoder) {
	e.ObjStart()
	e.FieldStart("id")
	e.Str(o.ID)
	e.FieldStart("customer")
	e.Str(o.Customer)
	e.FieldStart("product")
	e.Str(o.Product.Code())
	e.FieldStart("quantity")
	e.Int(o.Quantity)
	if o.HasCoupon() {
		e.FieldStart("coupon")
		e.Str(o.Coupon.Code())
	}
	e.FieldStart("price")
	e.Num(jx.Num(o.Price.StringFixed(2)))
	e.FieldStart("createdAt")
	e.Str(o.CreatedAt.UTC().Format(time.RFC3339))
	e.ObjEnd()
}
