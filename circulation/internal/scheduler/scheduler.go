package scheduler

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var ErrDuplicateJob = errors.New("job already registered")

type Job func(ctx context.Context) error

type entry struct {
	name     string
	schedule Schedule
	job      Job
	next     time.Time
	running  atomic.Bool
}

// Scheduler runs registered jobs on their schedules. A job still running when it comes
// due again is skipped for that occurrence.
type Scheduler struct {
	log        *zap.Logger
	now        func() time.Time
	resolution time.Duration

	mu      sync.Mutex
	entries []*entry
	jobs    sync.WaitGroup
	cancel  context.CancelFunc
	done    chan struct{}
}

type Option func(s *Scheduler)

func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) {
		s.now = now
	}
}

// WithResolution sets how often Start checks for due jobs.
func WithResolution(d time.Duration) Option {
	return func(s *Scheduler) {
		s.resolution = d
	}
}

func New(log *zap.Logger, opts ...Option) *Scheduler {
	s := &Scheduler{
		log:        log.Named("scheduler"),
		now:        time.Now,
		resolution: time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Scheduler) Add(name string, schedule Schedule, job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.entries {
		if e.name == name {
			return errors.Wrap(ErrDuplicateJob, name)
		}
	}
	s.entries = append(s.entries, &entry{name: name, schedule: schedule, job: job})
	s.log.Info("job registered", zap.String("job", name), zap.Stringer("schedule", schedule))
	return nil
}

// Tick starts every job due at now. The first tick only arms the schedules.
func (s *Scheduler) Tick(ctx context.Context, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.entries {
		if e.next.IsZero() {
			if f, ok := e.schedule.(first); ok {
				e.next = f.First(now)
			} else {
				e.next = e.schedule.Next(now)
			}
			s.log.Debug("job armed", zap.String("job", e.name), zap.Time("next", e.next))
			continue
		}
		if now.Before(e.next) {
			continue
		}
		e.next = e.schedule.Next(now)
		if !e.running.CompareAndSwap(false, true) {
			s.log.Warn("job still running, skipped", zap.String("job", e.name))
			continue
		}
		s.jobs.Add(1)
		go s.run(ctx, e)
	}
}

func (s *Scheduler) run(ctx context.Context, e *entry) {
	defer s.jobs.Done()
	defer e.running.Store(false)
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("job panicked", zap.String("job", e.name), zap.Error(fmt.Errorf("%v", r)))
		}
	}()

	start := s.now()
	if err := e.job(ctx); err != nil {
		s.log.Error("job failed", zap.String("job", e.name), zap.Error(err))
		return
	}
	s.log.Debug("job done", zap.String("job", e.name), zap.Duration("took", s.now().Sub(start)))
}

// Wait blocks until all started jobs return.
func (s *Scheduler) Wait() {
	s.jobs.Wait()
}

func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.cancel != nil {
		s.mu.Unlock()
		return errors.New("scheduler already started")
	}
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	s.mu.Unlock()

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.resolution)
		defer ticker.Stop()

		s.Tick(ctx, s.now())
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Tick(ctx, s.now())
			}
		}
	}()
	s.log.Info("scheduler started")
	return nil
}

// Stop cancels running jobs and waits for them to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel = nil
	s.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
	s.Wait()
	s.log.Info("scheduler stopped")
}
