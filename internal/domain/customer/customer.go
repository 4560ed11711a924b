// Package customer registers the distributor's customers. Registration is
// validation followed by persistence and a welcome notification.
package customer

import (
	"context"
	"regexp"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-playground/validator/v10"
)

var (
	// ErrNotFound is returned by Repository.FindByEmail when no customer matches.
	ErrNotFound = errors.New("customer not found")
	// ErrAlreadyRegistered is returned when the email is already taken.
	ErrAlreadyRegistered = errors.New("customer already registered")
)

// Customer is a registered buyer.
type Customer struct {
	Name  string `validate:"required"`
	Email string `validate:"required,email"`
	CNPJ  string `validate:"required,cnpj"`
}

// Normalize trims whitespace and lowercases the email.
func (c Customer) Normalize() Customer {
	return Customer{
		Name:  strings.TrimSpace(c.Name),
		Email: strings.ToLower(strings.TrimSpace(c.Email)),
		CNPJ:  strings.TrimSpace(c.CNPJ),
	}
}

// Repository persists customers.
type Repository interface {
	Save(ctx context.Context, c Customer) error
	FindByEmail(ctx context.Context, email string) (*Customer, error)
}

// Notifier delivers customer notifications.
type Notifier interface {
	Welcome(ctx context.Context, c Customer) error
}

var cnpjPattern = regexp.MustCompile(`^[0-9./-]{1,18}$`)

// NewValidator returns a validator with the customer rules registered.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("cnpj", func(fl validator.FieldLevel) bool {
		return cnpjPattern.MatchString(fl.Field().String())
	})
	return v
}

// ValidationError lists the fields of a customer that failed validation.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString("invalid customer:")
	for _, f := range []string{"Name", "Email", "CNPJ"} {
		if tag, ok := e.Fields[f]; ok {
			b.WriteString(" ")
			b.WriteString(strings.ToLower(f))
			b.WriteString(" ")
			b.WriteString(describe(tag))
			b.WriteString(";")
		}
	}
	return strings.TrimSuffix(b.String(), ";")
}

func describe(tag string) string {
	switch tag {
	case "required":
		return "is required"
	case "email":
		return "is not a valid email"
	case "cnpj":
		return "is not a valid CNPJ"
	default:
		return "failed " + tag
	}
}

// Validate checks c against the customer rules.
func Validate(v *validator.Validate, c Customer) error {
	err := v.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errors.Wrap(err, "validate customer")
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Tag()
	}
	return &ValidationError{Fields: fields}
}
