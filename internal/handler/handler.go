// Package handler exposes the pricing and customer services over HTTP/JSON.
package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/go-faster/jx"

	"github.com/xenking/petrobahia/internal/domain/customer"
	"github.com/xenking/petrobahia/internal/domain/order"
)

const maxBodyBytes = 1 << 20

// OrderLister lists recorded orders of a customer.
type OrderLister interface {
	ListByCustomer(ctx context.Context, customer string) ([]order.Order, error)
}

// Handler serves the /api routes.
type Handler struct {
	orders    *order.Service
	customers *customer.Service
	history   OrderLister
}

// NewHandler constructs a Handler. history may be nil, in which case the
// order history route is not registered.
func NewHandler(orders *order.Service, customers *customer.Service, history OrderLister) *Handler {
	return &Handler{
		orders:    orders,
		customers: customers,
		history:   history,
	}
}

// Register mounts the API routes on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/product", h.ListProducts)
	mux.HandleFunc("GET /api/coupon", h.ListCoupons)
	mux.HandleFunc("POST /api/order", h.PlaceOrder)
	mux.HandleFunc("POST /api/order/batch", h.PlaceOrders)
	mux.HandleFunc("POST /api/customer", h.RegisterCustomer)
	if h.history != nil {
		mux.HandleFunc("GET /api/customer/{customer}/orders", h.ListOrders)
	}
}

func readBody(w http.ResponseWriter, r *http.Request) (*jx.Decoder, bool) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "read body: "+err.Error())
		return nil, false
	}
	return jx.DecodeBytes(data), true
}

func writeJSON(w http.ResponseWriter, status int, e *jx.Encoder) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(e.Bytes())
}

func writeError(w http.ResponseWriter, status int, msg string) {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("code")
	e.Int(status)
	e.FieldStart("message")
	e.Str(msg)
	e.ObjEnd()
	writeJSON(w, status, &e)
}
