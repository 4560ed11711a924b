// Command process-orders prices order batches from JSON-lines files and
// writes one result per order.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"

	"github.com/xenking/petrobahia/internal/domain/order"
	"github.com/xenking/petrobahia/internal/orderfile"
	"github.com/xenking/petrobahia/internal/storage/postgres"
)

func main() {
	var (
		output      string
		databaseURL string
		concurrency int
	)

	flag.StringVar(&output, "output", "", "write results to this file instead of stdout (.gz compresses)")
	flag.StringVar(&databaseURL, "database-url", "", "record processed orders in PostgreSQL (or DATABASE_URL env)")
	flag.IntVar(&concurrency, "concurrency", 8, "orders priced in parallel")
	flag.Parse()

	if flag.NArg() == 0 {
		slog.Error("usage: process-orders [flags] orders.jsonl[.gz]...")
		os.Exit(2)
	}
	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, flag.Args(), output, databaseURL, concurrency); err != nil {
		slog.Error("processing failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, files []string, output, databaseURL string, concurrency int) error {
	reqs, err := orderfile.ReadFiles(ctx, files)
	if err != nil {
		return errors.Wrap(err, "read orders")
	}
	slog.Info("orders loaded", slog.Int("files", len(files)), slog.Int("orders", len(reqs)))

	var history order.Repository
	if databaseURL != "" {
		pool, err := postgres.NewPool(ctx, databaseURL)
		if err != nil {
			return errors.Wrap(err, "connect to database")
		}
		defer pool.Close()
		if err := postgres.RunMigrations(ctx, pool); err != nil {
			return errors.Wrap(err, "run migrations")
		}
		history = postgres.NewOrderRepository(pool)
	}

	svc, err := order.NewService(history, order.WithBatchConcurrency(concurrency))
	if err != nil {
		return errors.Wrap(err, "create order service")
	}

	batch := svc.ProcessBatch(ctx, reqs)

	if output == "" {
		err = orderfile.Encode(os.Stdout, batch.Results)
	} else {
		err = orderfile.WriteFile(output, batch.Results)
	}
	if err != nil {
		return errors.Wrap(err, "write results")
	}

	slog.Info("batch processed",
		slog.Int("succeeded", batch.Succeeded),
		slog.Int("failed", batch.Failed),
		slog.String("total", batch.Total.StringFixed(2)),
	)
	return nil
}
