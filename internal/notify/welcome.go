// Package notify delivers customer notifications.
package notify

import (
	"context"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/petrobahia/internal/domain/customer"
)

var _ customer.Notifier = (*LogNotifier)(nil)

// LogNotifier "sends" notifications by writing them to the context logger.
// Real email delivery is out of scope.
type LogNotifier struct {
	from string
}

// NewLogNotifier returns a LogNotifier that signs messages as from.
func NewLogNotifier(from string) *LogNotifier {
	return &LogNotifier{from: from}
}

// Welcome logs a welcome message addressed to c.
func (n *LogNotifier) Welcome(ctx context.Context, c customer.Customer) error {
	zctx.From(ctx).Info("Sending welcome email",
		zap.String("from", n.from),
		zap.String("to", c.Email),
		zap.String("name", c.Name),
	)
	return nil
}
