package order

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/go-faster/sdk/zctx"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/petrobahia/internal/domain/coupon"
	"github.com/xenking/petrobahia/internal/domain/product"
	"github.com/xenking/petrobahia/internal/pricing"
)

const (
	defaultBatchConcurrency = 8
	msgProcessed            = "order processed"
)

// Option configures a Service.
type Option func(*Service)

// WithTracerProvider sets the tracer provider used for per-order spans.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *Service) { s.tracer = tp.Tracer("petrobahia/order") }
}

// WithMeterProvider sets the meter provider for the processed orders counter.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(s *Service) { s.meter = mp.Meter("petrobahia/order") }
}

// WithBatchConcurrency bounds the number of orders ProcessBatch runs at once.
func WithBatchConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// Service runs the order pricing pipeline:
// parse, validate, calculate, discount, round.
// It holds no per-order state and is safe for concurrent use.
type Service struct {
	history     Repository
	tracer      trace.Tracer
	meter       metric.Meter
	processed   metric.Int64Counter
	concurrency int

	calculate  func(product.Type, int) (decimal.Decimal, error)
	now        func() time.Time
	guardTrips atomic.Int64
}

// NewService creates an order Service. history may be nil, in which case
// completed orders are not recorded.
func NewService(history Repository, opts ...Option) (*Service, error) {
	s := &Service{
		history:     history,
		tracer:      tracenoop.NewTracerProvider().Tracer("petrobahia/order"),
		meter:       metricnoop.NewMeterProvider().Meter("petrobahia/order"),
		concurrency: defaultBatchConcurrency,
		calculate:   pricing.Calculate,
		now:         time.Now,
	}
	for _, o := range opts {
		o(s)
	}

	processed, err := s.meter.Int64Counter("orders.processed",
		metric.WithDescription("Orders run through the pricing pipeline"),
	)
	if err != nil {
		return nil, fmt.Errorf("create orders counter: %w", err)
	}
	s.processed = processed

	return s, nil
}

// GuardTrips returns how many times a negative calculated price was clamped
// to zero. Under the current rule table it must stay at zero.
func (s *Service) GuardTrips() int64 {
	return s.guardTrips.Load()
}

// Process prices a single order. It never returns an error: every failure
// is reported through a Result with Success=false and a zero price.
func (s *Service) Process(ctx context.Context, req Request) Result {
	ctx, span := s.tracer.Start(ctx, "order.Process",
		trace.WithAttributes(
			attribute.String("order.product", req.Product),
			attribute.Int("order.quantity", req.Quantity),
		),
	)
	defer span.End()

	res := s.process(ctx, req)

	outcome, productAttr := "success", res.Product
	if res.Reason == ReasonInvalidProduct {
		productAttr = "invalid"
	}
	if !res.Success {
		outcome = string(res.Reason)
		span.SetStatus(codes.Error, res.Message)
	}
	span.SetAttributes(attribute.String("order.outcome", outcome))
	s.processed.Add(ctx, 1, metric.WithAttributes(
		attribute.String("product", productAttr),
		attribute.String("outcome", outcome),
	))

	return res
}

func (s *Service) process(ctx context.Context, req Request) Result {
	lg := zctx.From(ctx).With(zap.String("customer", req.Customer))

	p, err := product.Parse(req.Product)
	if err != nil {
		return s.fail(lg, req, ReasonInvalidProduct, &InvalidProductError{Code: req.Product})
	}

	var warnings []string
	c, ok := coupon.Parse(req.Coupon)
	if !ok {
		w := fmt.Sprintf("unknown coupon %q ignored", req.Coupon)
		warnings = append(warnings, w)
		lg.Warn("Unknown coupon ignored", zap.String("coupon", req.Coupon))
	}

	o, err := NewOrder(req.Customer, p, req.Quantity, c)
	if err != nil {
		return s.fail(lg, req, ReasonInvalidQuantity, err)
	}
	lg.Debug("Order parsed",
		zap.Stringer("product", o.Product),
		zap.Int("quantity", o.Quantity),
		zap.Stringer("coupon", o.Coupon),
	)

	price, err := s.calculate(o.Product, o.Quantity)
	if err != nil {
		return s.fail(lg, req, ReasonUnknownProduct, &UnknownProductError{Product: o.Product, Err: err})
	}
	if price.IsNegative() {
		s.guardTrips.Add(1)
		lg.Error("Negative calculated price clamped to zero",
			zap.Stringer("product", o.Product),
			zap.Int("quantity", o.Quantity),
			zap.Stringer("price", price),
		)
		price = pricing.FloorAtZero(price)
	}
	lg.Debug("Order priced", zap.Stringer("price", price))

	price = pricing.ApplyDiscount(price, o.Product, o.Quantity, o.Coupon)
	lg.Debug("Discount applied", zap.Stringer("coupon", o.Coupon), zap.Stringer("price", price))

	price = pricing.Normalize(price, o.Product)
	lg.Debug("Price rounded", zap.Stringer("price", price))

	o.ID = uuid.New().String()
	o.Price = price
	o.CreatedAt = s.now()

	if s.history != nil {
		if err := s.history.Create(ctx, o); err != nil {
			lg.Error("Record order", zap.String("order_id", o.ID), zap.Error(err))
		}
	}

	lg.Info("Order processed",
		zap.String("order_id", o.ID),
		zap.Stringer("product", o.Product),
		zap.Int("quantity", o.Quantity),
		zap.Stringer("price", price),
	)

	return Result{
		ID:       o.ID,
		Success:  true,
		Customer: o.Customer,
		Product:  o.Product.Code(),
		Quantity: o.Quantity,
		Price:    price,
		Message:  msgProcessed,
		Warnings: warnings,
	}
}

func (s *Service) fail(lg *zap.Logger, req Request, reason Reason, err error) Result {
	lg.Info("Order rejected", zap.String("reason", string(reason)), zap.Error(err))
	return Result{
		Customer: req.Customer,
		Product:  req.Product,
		Quantity: req.Quantity,
		Price:    decimal.Zero,
		Message:  err.Error(),
		Reason:   reason,
		Err:      err,
	}
}

// BatchResult aggregates a batch of processed orders. Results keep the
// order of the input requests.
type BatchResult struct {
	Results   []Result
	Total     decimal.Decimal
	Succeeded int
	Failed    int
}

// ProcessBatch prices orders concurrently. Orders are independent, so no
// coordination is needed beyond collecting results.
func (s *Service) ProcessBatch(ctx context.Context, reqs []Request) BatchResult {
	results := make([]Result, len(reqs))

	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, req := range reqs {
		g.Go(func() error {
			results[i] = s.Process(ctx, req)
			return nil
		})
	}
	_ = g.Wait()

	out := BatchResult{Results: results, Total: decimal.Zero}
	for _, r := range results {
		if r.Success {
			out.Succeeded++
			out.Total = out.Total.Add(r.Price)
			continue
		}
		out.Failed++
	}
	return out
}
