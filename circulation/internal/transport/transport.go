// Package transport delivers composed notifications to the outside world.
package transport

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-circulation/circulation/internal/model"
	"github.com/Astemirdum/library-circulation/pkg/circuit_breaker"
)

// Deliverer sends one notification. Every error is treated as transient by the worker.
type Deliverer interface {
	Deliver(ctx context.Context, n model.Notification) error
}

var ErrInvalidConfig = errors.New("invalid transport config")

const (
	KindPostmark = "postmark"
	KindKafka    = "kafka"
	KindLog      = "log"
)

type Log struct {
	log *zap.Logger
}

// NewLog returns a deliverer that only writes the message to the log.
func NewLog(log *zap.Logger) *Log {
	return &Log{log: log.Named("transport")}
}

func (l *Log) Deliver(_ context.Context, n model.Notification) error {
	l.log.Info("deliver",
		zap.Stringer("id", n.ID),
		zap.String("type", string(n.EmailType)),
		zap.String("to", n.RecipientAddress),
		zap.String("subject", n.Subject))
	return nil
}

type Breaker struct {
	next Deliverer
	cb   circuit_breaker.CircuitBreaker
	log  *zap.Logger
}

// WithBreaker stops calling next while it keeps failing. Calls rejected by the open
// breaker fail like any other delivery and are rescheduled.
func WithBreaker(next Deliverer, cb circuit_breaker.CircuitBreaker, log *zap.Logger) *Breaker {
	return &Breaker{next: next, cb: cb, log: log.Named("breaker")}
}

func (b *Breaker) Deliver(ctx context.Context, n model.Notification) error {
	before := b.cb.State()
	err := b.cb.Call(func() error {
		return b.next.Deliver(ctx, n)
	})
	if after := b.cb.State(); after != before {
		b.log.Warn("circuit breaker state changed",
			zap.Stringer("from", before), zap.Stringer("to", after))
	}
	return err
}
