package coupon

import "strings"

// Type enumerates the coupons accepted at checkout. The zero value None
// means the order carries no coupon.
type Type int

const (
	None Type = iota
	// Mega10 takes 10% off any product.
	Mega10
	// Novo5 takes 5% off any product.
	Novo5
	// Lub2 takes a fixed 2.00 off lubricant orders and is ignored otherwise.
	Lub2
)

// Code returns the wire code of the coupon, or "" for None.
func (t Type) Code() string {
	switch t {
	case Mega10:
		return "MEGA10"
	case Novo5:
		return "NOVO5"
	case Lub2:
		return "LUB2"
	default:
		return ""
	}
}

func (t Type) String() string {
	if t == None {
		return "none"
	}
	return t.Code()
}

// Parse resolves a coupon code case-insensitively. An empty code yields
// (None, true); an unrecognized code yields (None, false).
func Parse(code string) (Type, bool) {
	switch strings.ToUpper(strings.TrimSpace(code)) {
	case "":
		return None, true
	case "MEGA10":
		return Mega10, true
	case "NOVO5":
		return Novo5, true
	case "LUB2":
		return Lub2, true
	default:
		return None, false
	}
}

// All returns every real coupon, excluding None.
func All() []Type {
	return []Type{Mega10, Novo5, Lub2}
}
