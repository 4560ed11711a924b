package handler

import (
	"net/http"

	"github.com/go-faster/jx"
	"github.com/samber/lo"

	"github.com/xenking/petrobahia/internal/domain/order"
)

// PlaceOrder prices a single order. Pricing failures are answered with 422
// and the failed result; malformed bodies with 400.
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	d, ok := readBody(w, r)
	if !ok {
		return
	}
	var req order.Request
	if err := req.Decode(d); err != nil {
		writeError(w, http.StatusBadRequest, "invalid order: "+err.Error())
		return
	}

	res := h.orders.Process(r.Context(), req)

	status := http.StatusOK
	if !res.Success {
		status = http.StatusUnprocessableEntity
	}
	var e jx.Encoder
	res.Encode(&e)
	writeJSON(w, status, &e)
}

// PlaceOrders prices a batch of orders. Individual failures are reported
// per result; the batch itself succeeds unless the body is malformed.
func (h *Handler) PlaceOrders(w http.ResponseWriter, r *http.Request) {
	d, ok := readBody(w, r)
	if !ok {
		return
	}

	var reqs []order.Request
	err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		if string(key) != "orders" {
			return d.Skip()
		}
		return d.Arr(func(d *jx.Decoder) error {
			var req order.Request
			if err := req.Decode(d); err != nil {
				return err
			}
			reqs = append(reqs, req)
			return nil
		})
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid batch: "+err.Error())
		return
	}

	batch := h.orders.ProcessBatch(r.Context(), reqs)

	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("results")
	e.ArrStart()
	for _, res := range batch.Results {
		res.Encode(&e)
	}
	e.ArrEnd()
	e.FieldStart("succeeded")
	e.Int(batch.Succeeded)
	e.FieldStart("failed")
	e.Int(batch.Failed)
	e.FieldStart("total")
	e.Num(jx.Num(batch.Total.StringFixed(2)))
	e.ObjEnd()
	writeJSON(w, http.StatusOK, &e)
}

// ListOrders returns the recorded orders of a customer.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.history.ListByCustomer(r.Context(), r.PathValue("customer"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "list orders")
		return
	}

	var e jx.Encoder
	e.ArrStart()
	lo.ForEach(orders, func(o order.Order, _ int) { o.Encode(&e) })
	e.ArrEnd()
	writeJSON(w, http.StatusOK, &e)
}
