package customer

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const msgRegistered = "customer registered"

// RegisterResult is the outcome of a registration. Failures are reported
// here rather than as errors, with Err holding the cause.
type RegisterResult struct {
	Success bool
	Name    string
	Email   string
	CNPJ    string
	Message string
	Err     error
}

// Service registers customers.
type Service struct {
	repo     Repository
	notifier Notifier
	validate *validator.Validate
}

// NewService creates a customer Service.
func NewService(repo Repository, notifier Notifier) *Service {
	return &Service{
		repo:     repo,
		notifier: notifier,
		validate: NewValidator(),
	}
}

// Register validates c, rejects duplicate emails, persists c and sends a
// welcome notification. A failed notification does not undo registration.
func (s *Service) Register(ctx context.Context, c Customer) RegisterResult {
	c = c.Normalize()
	lg := zctx.From(ctx).With(zap.String("email", c.Email))

	if err := s.register(ctx, c); err != nil {
		lg.Info("Customer rejected", zap.Error(err))
		return RegisterResult{
			Name:    c.Name,
			Email:   c.Email,
			CNPJ:    c.CNPJ,
			Message: err.Error(),
			Err:     err,
		}
	}

	if err := s.notifier.Welcome(ctx, c); err != nil {
		lg.Warn("Welcome notification failed", zap.Error(err))
	}

	lg.Info("Customer registered", zap.String("name", c.Name))
	return RegisterResult{
		Success: true,
		Name:    c.Name,
		Email:   c.Email,
		CNPJ:    c.CNPJ,
		Message: msgRegistered,
	}
}

func (s *Service) register(ctx context.Context, c Customer) error {
	if err := Validate(s.validate, c); err != nil {
		return err
	}

	_, err := s.repo.FindByEmail(ctx, c.Email)
	switch {
	case err == nil:
		return errors.Wrapf(ErrAlreadyRegistered, "%s", c.Email)
	case !errors.Is(err, ErrNotFound):
		return errors.Wrap(err, "lookup customer")
	}

	if err := s.repo.Save(ctx, c); err != nil {
		return errors.Wrap(err, "save customer")
	}
	return nil
}

// RegisterAll registers customers in order and returns one result each.
func (s *Service) RegisterAll(ctx context.Context, cs []Customer) []RegisterResult {
	out := make([]RegisterResult, len(cs))
	for i, c := range cs {
		out[i] = s.Register(ctx, c)
	}
	return out
}
