package handler

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/xenking/petrobahia/internal/domain/customer"
)

// RegisterCustomer registers a customer from {"name","email","cnpj"}.
func (h *Handler) RegisterCustomer(w http.ResponseWriter, r *http.Request) {
	d, ok := readBody(w, r)
	if !ok {
		return
	}

	var c customer.Customer
	err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		var err error
		switch string(key) {
		case "name":
			c.Name, err = d.Str()
		case "email":
			c.Email, err = d.Str()
		case "cnpj":
			c.CNPJ, err = d.Str()
		default:
			err = d.Skip()
		}
		return err
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid customer: "+err.Error())
		return
	}

	res := h.customers.Register(r.Context(), c)

	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("success")
	e.Bool(res.Success)
	e.FieldStart("name")
	e.Str(res.Name)
	e.FieldStart("email")
	e.Str(res.Email)
	e.FieldStart("cnpj")
	e.Str(res.CNPJ)
	e.FieldStart("message")
	e.Str(res.Message)
	e.ObjEnd()
	writeJSON(w, registerStatus(res), &e)
}

func registerStatus(res customer.RegisterResult) int {
	if res.Success {
		return http.StatusCreated
	}
	var vErr *customer.ValidationError
	switch {
	case errors.As(res.Err, &vErr):
		return http.StatusUnprocessableEntity
	case errors.Is(res.Err, customer.ErrAlreadyRegistered):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
