package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"

	"github.com/xenking/petrobahia/internal/domain/customer"
	"github.com/xenking/petrobahia/internal/storage/postgres"
)

type customerJSON struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	CNPJ  string `json:"cnpj"`
}

func main() {
	var (
		databaseURL   string
		customersFile string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&customersFile, "customers-file", "db/seed/customers.json", "path to customers JSON file")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, customersFile); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, customersFile string) error {
	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	if err := seedCustomers(ctx, postgres.NewCustomerRepository(pool), customersFile); err != nil {
		return errors.Wrap(err, "seed customers")
	}

	return nil
}

func seedCustomers(ctx context.Context, repo *postgres.CustomerRepository, customersFile string) error {
	slog.Info("reading customers file", slog.String("path", customersFile))

	data, err := os.ReadFile(customersFile)
	if err != nil {
		return errors.Wrap(err, "read customers file")
	}

	var records []customerJSON
	if err := json.Unmarshal(data, &records); err != nil {
		return errors.Wrap(err, "parse customers JSON")
	}

	slog.Info("upserting customers", slog.Int("count", len(records)))

	v := customer.NewValidator()
	for _, r := range records {
		c := customer.Customer{Name: r.Name, Email: r.Email, CNPJ: r.CNPJ}.Normalize()
		if err := customer.Validate(v, c); err != nil {
			return errors.Wrapf(err, "customer %s", r.Email)
		}
		if err := repo.Upsert(ctx, c); err != nil {
			return errors.Wrapf(err, "upsert customer %s", c.Email)
		}

		slog.Info("upserted customer", slog.String("email", c.Email), slog.String("name", c.Name))
	}

	return nil
}
