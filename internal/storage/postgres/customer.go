package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/petrobahia/internal/domain/customer"
)

const uniqueViolation = "23505"

var _ customer.Repository = (*CustomerRepository)(nil)

// CustomerRepository implements customer.Repository backed by PostgreSQL.
type CustomerRepository struct {
	pool *pgxpool.Pool
}

// NewCustomerRepository returns a CustomerRepository that uses the given pool.
func NewCustomerRepository(pool *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{pool: pool}
}

// Save inserts c. A second customer with the same email is rejected with
// customer.ErrAlreadyRegistered.
func (r *CustomerRepository) Save(ctx context.Context, c customer.Customer) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO customers (email, name, cnpj) VALUES ($1, $2, $3)`,
		c.Email, c.Name, c.CNPJ,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return customer.ErrAlreadyRegistered
		}
		return errors.Wrapf(err, "inserting customer %q", c.Email)
	}
	return nil
}

// FindByEmail looks up a customer by email.
// Returns customer.ErrNotFound when no row matches.
func (r *CustomerRepository) FindByEmail(ctx context.Context, email string) (*customer.Customer, error) {
	var c customer.Customer
	err := r.pool.QueryRow(ctx,
		`SELECT name, email, cnpj FROM customers WHERE email = $1`,
		email,
	).Scan(&c.Name, &c.Email, &c.CNPJ)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, customer.ErrNotFound
		}
		return nil, errors.Wrapf(err, "finding customer by email %q", email)
	}
	return &c, nil
}

// Upsert inserts or updates c by email.
func (r *CustomerRepository) Upsert(ctx context.Context, c customer.Customer) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO customers (email, name, cnpj) VALUES ($1, $2, $3)
		 ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name, cnpj = EXCLUDED.cnpj`,
		c.Email, c.Name, c.CNPJ,
	)
	if err != nil {
		return errors.Wrapf(err, "upserting customer %q", c.Email)
	}
	return nil
}
