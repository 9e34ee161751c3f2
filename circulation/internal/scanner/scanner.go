package scanner

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Astemirdum/library-circulation/circulation/internal/model"
	"github.com/Astemirdum/library-circulation/circulation/internal/repository"
)

//go:generate go run github.com/golang/mock/mockgen -source=scanner.go -destination=mocks/mock.go

type Notifier interface {
	Enqueue(ctx context.Context, req model.EnqueueRequest) (model.Notification, error)
	RecentlyNotified(ctx context.Context, patronID int64, emailType model.EmailType, itemCopyID int64, window time.Duration) (bool, error)
}

type Config struct {
	OverdueDedup    time.Duration
	DueSoonWindow   time.Duration
	DueSoonDedup    time.Duration
	FinePerDayCents int64
}

type Scanner struct {
	log      *zap.Logger
	loans    repository.LoanRepository
	notifier Notifier
	cfg      Config
	now      func() time.Time
}

func New(loans repository.LoanRepository, notifier Notifier, log *zap.Logger, cfg Config, now func() time.Time) *Scanner {
	if now == nil {
		now = time.Now
	}
	return &Scanner{
		log:      log.Named("scanner"),
		loans:    loans,
		notifier: notifier,
		cfg:      cfg,
		now:      now,
	}
}

// DaysOverdue counts started days past due, so one hour late is one day.
func DaysOverdue(due, now time.Time) int {
	late := now.Sub(due)
	if late <= 0 {
		return 0
	}
	days := int(late / (24 * time.Hour))
	if late%(24*time.Hour) != 0 {
		days++
	}
	return days
}

// ScanOverdue queues an overdue reminder for every late loan that has not had one within
// the dedup window. It returns the number of reminders queued.
func (s *Scanner) ScanOverdue(ctx context.Context) (int, error) {
	now := s.now()
	loans, err := s.loans.OverdueLoans(ctx, now)
	if err != nil {
		return 0, errors.Wrap(err, "OverdueLoans")
	}
	return s.remind(ctx, loans, model.EmailOverdueReminder, s.cfg.OverdueDedup, model.PriorityHigh, func(l model.LoanDue) (model.Facts, map[string]any) {
		days := DaysOverdue(l.DueDate, now)
		fine := int64(days) * s.cfg.FinePerDayCents
		f := facts(l)
		f.DaysOverdue = days
		f.FineCents = fine
		return f, map[string]any{"days_overdue": days, "fine_cents": fine}
	})
}

// ScanDueSoon queues a due-date reminder for loans due within the configured window.
func (s *Scanner) ScanDueSoon(ctx context.Context) (int, error) {
	now := s.now()
	loans, err := s.loans.DueSoonLoans(ctx, now, now.Add(s.cfg.DueSoonWindow))
	if err != nil {
		return 0, errors.Wrap(err, "DueSoonLoans")
	}
	return s.remind(ctx, loans, model.EmailDueDateReminder, s.cfg.DueSoonDedup, model.PriorityNormal, func(l model.LoanDue) (model.Facts, map[string]any) {
		return facts(l), map[string]any{"due_date": l.DueDate.Format(time.RFC3339)}
	})
}

type ScanResult struct {
	Overdue int `json:"overdue"`
	DueSoon int `json:"dueSoon"`
}

// ScanAll runs both scans; a failing scan does not stop the other.
func (s *Scanner) ScanAll(ctx context.Context) (ScanResult, error) {
	var (
		res                    ScanResult
		overdueErr, dueSoonErr error
		g                      errgroup.Group
	)
	g.Go(func() error {
		res.Overdue, overdueErr = s.ScanOverdue(ctx)
		return nil
	})
	g.Go(func() error {
		res.DueSoon, dueSoonErr = s.ScanDueSoon(ctx)
		return nil
	})
	_ = g.Wait()
	err := multierr.Combine(overdueErr, dueSoonErr)
	if err != nil {
		s.log.Error("scan", zap.Error(err))
	}
	return res, err
}

func (s *Scanner) remind(
	ctx context.Context,
	loans []model.LoanDue,
	t model.EmailType,
	dedup time.Duration,
	priority int,
	build func(l model.LoanDue) (model.Facts, map[string]any),
) (int, error) {
	queued := 0
	for _, l := range loans {
		if ctx.Err() != nil {
			return queued, ctx.Err()
		}
		log := s.log.With(zap.Int64("loan", l.TransactionID), zap.String("type", string(t)))

		recent, err := s.notifier.RecentlyNotified(ctx, l.PatronID, t, l.ItemCopyID, dedup)
		if err != nil {
			log.Error("dedup check", zap.Error(err))
			continue
		}
		if recent {
			continue
		}

		f, metadata := build(l)
		copyID, loanID := l.ItemCopyID, l.TransactionID
		if _, err := s.notifier.Enqueue(ctx, model.EnqueueRequest{
			PatronID:         l.PatronID,
			EmailType:        t,
			RecipientAddress: l.PatronEmail,
			Facts:            f,
			Priority:         priority,
			ItemCopyID:       &copyID,
			TransactionID:    &loanID,
			Metadata:         metadata,
		}); err != nil {
			log.Error("enqueue", zap.Error(err))
			continue
		}
		queued++
	}
	s.log.Info("scan finished", zap.String("type", string(t)), zap.Int("loans", len(loans)), zap.Int("queued", queued))
	return queued, nil
}

func facts(l model.LoanDue) model.Facts {
	return model.Facts{
		PatronName:   l.PatronName(),
		ItemTitle:    l.Title,
		ItemType:     l.ItemType,
		BranchName:   l.BranchName,
		CheckoutDate: l.CheckoutDate,
		DueDate:      l.DueDate,
	}
}
