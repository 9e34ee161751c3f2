package worker

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-circulation/circulation/internal/model"
	"github.com/Astemirdum/library-circulation/circulation/internal/repository"
	"github.com/Astemirdum/library-circulation/circulation/internal/transport"
)

const (
	baseBackoff = 5 * time.Minute
	lockKey     = "circulation:worker:process-batch"
)

// Backoff is the delay before the retryCount-th redelivery: 5·2^retryCount minutes.
func Backoff(retryCount int) time.Duration {
	return baseBackoff << uint(retryCount)
}

type Config struct {
	BatchSize uint64
	Retention time.Duration
	LockTTL   time.Duration
}

type Option func(w *Worker)

func WithClock(now func() time.Time) Option {
	return func(w *Worker) { w.now = now }
}

// WithLocker adds a cross-instance lock on top of the in-process running flag.
func WithLocker(l Locker) Option {
	return func(w *Worker) { w.locker = l }
}

type Worker struct {
	log       *zap.Logger
	repo      repository.NotificationRepository
	transport transport.Deliverer
	cfg       Config
	now       func() time.Time
	locker    Locker

	running atomic.Bool
}

func New(repo repository.NotificationRepository, tr transport.Deliverer, log *zap.Logger, cfg Config, opts ...Option) *Worker {
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 50
	}
	w := &Worker{
		log:       log.Named("worker"),
		repo:      repo,
		transport: tr,
		cfg:       cfg,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *Worker) Running() bool {
	return w.running.Load()
}

// ProcessBatch delivers up to BatchSize due notifications. A call made while another
// batch is in flight returns at once with Skipped set.
func (w *Worker) ProcessBatch(ctx context.Context) (model.BatchResult, error) {
	if !w.running.CompareAndSwap(false, true) {
		w.log.Debug("batch already running, skipped")
		return model.BatchResult{Skipped: true}, nil
	}
	defer w.running.Store(false)

	if w.locker != nil {
		unlock, ok, err := w.locker.TryLock(ctx, lockKey, w.cfg.LockTTL)
		if err != nil {
			return model.BatchResult{}, errors.Wrap(err, "worker lock")
		}
		if !ok {
			w.log.Debug("batch is running on another instance, skipped")
			return model.BatchResult{Skipped: true}, nil
		}
		defer unlock()
	}

	items, err := w.repo.DueNotifications(ctx, w.now(), w.cfg.BatchSize)
	if err != nil {
		return model.BatchResult{}, errors.Wrap(err, "DueNotifications")
	}

	res := model.BatchResult{Selected: len(items)}
	for _, n := range items {
		if ctx.Err() != nil {
			break
		}
		w.deliver(ctx, n, &res)
	}
	if res.Selected > 0 {
		w.log.Info("batch processed",
			zap.Int("selected", res.Selected),
			zap.Int("sent", res.Sent),
			zap.Int("retried", res.Retried),
			zap.Int("failed", res.Failed))
	}
	return res, ctx.Err()
}

func (w *Worker) deliver(ctx context.Context, n model.Notification, res *model.BatchResult) {
	log := w.log.With(zap.Stringer("id", n.ID), zap.String("type", string(n.EmailType)))

	deliverErr := w.transport.Deliver(ctx, n)
	at := w.now()
	if deliverErr == nil {
		if err := w.repo.MarkSent(ctx, n.ID, at); err != nil {
			log.Error("mark sent", zap.Error(err))
			return
		}
		res.Sent++
		return
	}

	retry := n.RetryCount + 1
	if retry >= n.MaxRetries {
		if err := w.repo.MarkFailed(ctx, n.ID, retry, deliverErr.Error(), at); err != nil {
			log.Error("mark failed", zap.Error(err))
			return
		}
		log.Warn("delivery failed permanently", zap.Int("retries", retry), zap.Error(deliverErr))
		res.Failed++
		return
	}

	next := at.Add(Backoff(retry))
	if err := w.repo.ScheduleRetry(ctx, n.ID, retry, next, deliverErr.Error(), at); err != nil {
		log.Error("schedule retry", zap.Error(err))
		return
	}
	log.Info("delivery failed, rescheduled",
		zap.Int("retry", retry), zap.Time("next", next), zap.Error(deliverErr))
	res.Retried++
}

// Cleanup purges sent notifications older than the retention window.
func (w *Worker) Cleanup(ctx context.Context) (int64, error) {
	n, err := w.repo.DeleteSentBefore(ctx, w.now().Add(-w.cfg.Retention))
	if err != nil {
		return 0, errors.Wrap(err, "DeleteSentBefore")
	}
	w.log.Info("sent notifications purged", zap.Int64("count", n))
	return n, nil
}
