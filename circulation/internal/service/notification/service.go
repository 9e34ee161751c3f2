package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-circulation/circulation/internal/composer"
	"github.com/Astemirdum/library-circulation/circulation/internal/errs"
	"github.com/Astemirdum/library-circulation/circulation/internal/model"
	"github.com/Astemirdum/library-circulation/circulation/internal/repository"
)

type Service struct {
	log  *zap.Logger
	repo repository.NotificationRepository
	now  func() time.Time
}

func NewService(repo repository.NotificationRepository, log *zap.Logger, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		log:  log.Named("notification"),
		repo: repo,
		now:  now,
	}
}

// Build turns an enqueue request into a pending notification, composing the subject and
// bodies from the facts when the caller did not supply them.
func Build(req model.EnqueueRequest, now time.Time) (model.Notification, error) {
	if !req.EmailType.Valid() {
		return model.Notification{}, errs.ErrInvalidEmailType
	}
	n := model.Notification{
		ID:               uuid.New(),
		PatronID:         req.PatronID,
		EmailType:        req.EmailType,
		RecipientAddress: req.RecipientAddress,
		Subject:          req.Subject,
		BodyText:         req.BodyText,
		BodyHTML:         req.BodyHTML,
		Status:           model.NotificationPending,
		Priority:         req.Priority,
		ScheduledFor:     now,
		MaxRetries:       req.MaxRetries,
		ItemCopyID:       req.ItemCopyID,
		TransactionID:    req.TransactionID,
		ReservationID:    req.ReservationID,
		FineID:           req.FineID,
		Metadata:         req.Metadata,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if n.Subject == "" {
		msg, err := composer.Compose(req.EmailType, req.Facts)
		if err != nil {
			return model.Notification{}, err
		}
		n.Subject, n.BodyText, n.BodyHTML = msg.Subject, msg.BodyText, msg.BodyHTML
	}
	if n.Priority == 0 {
		n.Priority = model.DefaultPriority
	}
	if n.MaxRetries == 0 {
		n.MaxRetries = model.DefaultMaxRetries
	}
	if req.ScheduledFor != nil {
		n.ScheduledFor = *req.ScheduledFor
	}
	return n, nil
}

func (s *Service) Enqueue(ctx context.Context, req model.EnqueueRequest) (model.Notification, error) {
	n, err := Build(req, s.now())
	if err != nil {
		return model.Notification{}, err
	}
	if err := s.repo.InsertNotification(ctx, n); err != nil {
		return model.Notification{}, errors.Wrap(err, "Enqueue")
	}
	s.log.Debug("enqueued",
		zap.Stringer("id", n.ID),
		zap.String("type", string(n.EmailType)),
		zap.Int64("patron", n.PatronID))
	return n, nil
}

// RecentlyNotified reports whether a notification of emailType about the copy was created
// for the patron within the window ending now.
func (s *Service) RecentlyNotified(ctx context.Context, patronID int64, emailType model.EmailType, itemCopyID int64, window time.Duration) (bool, error) {
	return s.repo.ExistsRecent(ctx, patronID, emailType, itemCopyID, s.now().Add(-window))
}

// Retry resets a permanently failed notification so the worker picks it up again.
func (s *Service) Retry(ctx context.Context, id uuid.UUID) (model.Notification, error) {
	n, err := s.repo.ResetForRetry(ctx, id, s.now())
	if err != nil {
		return model.Notification{}, err
	}
	s.log.Info("manual retry", zap.Stringer("id", id))
	return n, nil
}

func (s *Service) CancelPending(ctx context.Context, f model.CancelFilter) (int64, error) {
	if f.Empty() {
		return 0, errors.Wrap(errs.ErrInvalidRequest, "at least one filter is required")
	}
	if f.EmailType != nil && !f.EmailType.Valid() {
		return 0, errs.ErrInvalidEmailType
	}
	n, err := s.repo.CancelPending(ctx, f, s.now())
	if err != nil {
		return 0, err
	}
	s.log.Info("cancelled pending notifications", zap.Int64("count", n))
	return n, nil
}

func (s *Service) Stats(ctx context.Context) (model.NotificationStats, error) {
	return s.repo.Stats(ctx, s.now())
}
