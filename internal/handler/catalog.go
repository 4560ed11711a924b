package handler

import (
	"net/http"

	"github.com/go-faster/jx"

	"github.com/xenking/petrobahia/internal/domain/coupon"
	"github.com/xenking/petrobahia/internal/domain/product"
)

var couponDescriptions = map[coupon.Type]string{
	coupon.Mega10: "10% off any product",
	coupon.Novo5:  "5% off any product",
	coupon.Lub2:   "2.00 off lubricant orders",
}

// ListProducts returns every product with its base unit price.
func (h *Handler) ListProducts(w http.ResponseWriter, _ *http.Request) {
	var e jx.Encoder
	e.ArrStart()
	for _, p := range product.All() {
		e.ObjStart()
		e.FieldStart("code")
		e.Str(p.Type.Code())
		e.FieldStart("basePrice")
		e.Num(jx.Num(p.BasePrice.StringFixed(2)))
		e.ObjEnd()
	}
	e.ArrEnd()
	writeJSON(w, http.StatusOK, &e)
}

// ListCoupons returns the accepted coupon codes.
func (h *Handler) ListCoupons(w http.ResponseWriter, _ *http.Request) {
	var e jx.Encoder
	e.ArrStart()
	for _, c := range coupon.All() {
		e.ObjStart()
		e.FieldStart("code")
		e.Str(c.Code())
		e.FieldStart("description")
		e.Str(couponDescriptions[c])
		e.ObjEnd()
	}
	e.ArrEnd()
	writeJSON(w, http.StatusOK, &e)
}
