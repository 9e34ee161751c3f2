package reservation

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-circulation/circulation/internal/errs"
	"github.com/Astemirdum/library-circulation/circulation/internal/holds"
	"github.com/Astemirdum/library-circulation/circulation/internal/model"
	"github.com/Astemirdum/library-circulation/circulation/internal/repository"
	"github.com/Astemirdum/library-circulation/circulation/internal/service/notification"
)

type Service struct {
	log  *zap.Logger
	repo repository.ReservationRepository
	hold time.Duration
	now  func() time.Time
}

func NewService(repo repository.ReservationRepository, log *zap.Logger, hold time.Duration, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		log:  log.Named("reservation"),
		repo: repo,
		hold: hold,
		now:  now,
	}
}

func (s *Service) CreateReservation(ctx context.Context, req model.CreateReservationRequest) (model.Reservation, error) {
	var created model.Reservation
	err := s.repo.Atomic(ctx, func(tx repository.ReservationRepository) error {
		patron, err := tx.GetPatron(ctx, req.PatronID)
		if err != nil {
			return err
		}
		if !patron.IsActive {
			return errs.ErrPatronInactive
		}
		q, err := s.loadQueue(ctx, tx, req.ItemCopyID)
		if err != nil {
			return err
		}
		now := s.now()
		if _, err := q.Add(req.PatronID, now); err != nil {
			return err
		}
		added, err := s.persist(ctx, tx, q, now)
		if err != nil {
			return err
		}
		created = *added
		return nil
	})
	if err != nil {
		return model.Reservation{}, err
	}
	s.log.Info("reservation created",
		zap.Int64("id", created.ID),
		zap.Int64("copy", created.ItemCopyID),
		zap.Int64("patron", created.PatronID),
		zap.String("status", string(created.Status)),
		zap.Int("position", created.QueuePosition))
	return created, nil
}

// Fulfill promotes the head reservation of a copy that has just become available.
func (s *Service) Fulfill(ctx context.Context, id int64) (model.Reservation, error) {
	var out model.Reservation
	err := s.onReservation(ctx, id, func(q *holds.Queue, now time.Time) (err error) {
		out, err = q.Fulfill(id, now)
		return err
	})
	return out, err
}

func (s *Service) Cancel(ctx context.Context, id int64) (model.Reservation, error) {
	var out model.Reservation
	err := s.onReservation(ctx, id, func(q *holds.Queue, now time.Time) (err error) {
		out, err = q.Cancel(id, now)
		return err
	})
	return out, err
}

func (s *Service) onReservation(ctx context.Context, id int64, fn func(q *holds.Queue, now time.Time) error) error {
	return s.repo.Atomic(ctx, func(tx repository.ReservationRepository) error {
		res, err := tx.GetReservation(ctx, id)
		if err != nil {
			return err
		}
		if !res.Status.IsActive() {
			return errs.ErrConflict
		}
		q, err := s.loadQueue(ctx, tx, res.ItemCopyID)
		if err != nil {
			return err
		}
		now := s.now()
		if err := fn(q, now); err != nil {
			return err
		}
		_, err = s.persist(ctx, tx, q, now)
		return err
	})
}

// PromoteNext runs when a copy is checked in: the copy goes back on the shelf and the
// waiting head, if any, becomes ready.
func (s *Service) PromoteNext(ctx context.Context, copyID int64) (*model.Reservation, error) {
	var promoted *model.Reservation
	err := s.repo.Atomic(ctx, func(tx repository.ReservationRepository) error {
		q, err := s.loadQueue(ctx, tx, copyID)
		if err != nil {
			return err
		}
		now := s.now()
		if promoted, err = q.Checkin(now); err != nil {
			return err
		}
		_, err = s.persist(ctx, tx, q, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	if promoted != nil {
		s.log.Info("reservation promoted on check-in",
			zap.Int64("id", promoted.ID), zap.Int64("copy", copyID))
	}
	return promoted, nil
}

// ExpireSweep expires every ready reservation whose pickup window has closed. Each copy
// is handled in its own unit of work; a failing copy does not stop the sweep.
func (s *Service) ExpireSweep(ctx context.Context) (int, error) {
	now := s.now()
	copyIDs, err := s.repo.ExpiredCopyIDs(ctx, now)
	if err != nil {
		return 0, errors.Wrap(err, "ExpiredCopyIDs")
	}

	var (
		count    int
		sweepErr error
	)
	for _, copyID := range copyIDs {
		expired := false
		err := s.repo.Atomic(ctx, func(tx repository.ReservationRepository) error {
			q, err := s.loadQueue(ctx, tx, copyID)
			if err != nil {
				return err
			}
			r, err := q.Expire(now)
			if err != nil || r == nil {
				return err
			}
			expired = true
			_, err = s.persist(ctx, tx, q, now)
			return err
		})
		if err != nil {
			s.log.Error("expire copy queue", zap.Int64("copy", copyID), zap.Error(err))
			sweepErr = multierr.Append(sweepErr, errors.Wrapf(err, "copy %d", copyID))
			continue
		}
		if expired {
			count++
		}
	}
	if count > 0 {
		s.log.Info("expired reservations", zap.Int("count", count))
	}
	return count, sweepErr
}

func (s *Service) GetQueue(ctx context.Context, copyID int64) (model.QueueView, error) {
	c, err := s.repo.GetCopy(ctx, copyID)
	if err != nil {
		return model.QueueView{}, err
	}
	active, err := s.repo.ActiveReservations(ctx, copyID)
	if err != nil {
		return model.QueueView{}, err
	}
	if active == nil {
		active = []model.Reservation{}
	}
	return model.QueueView{ItemCopyID: c.ID, CopyStatus: c.Status, Reservations: active}, nil
}

func (s *Service) ListPatronReservations(ctx context.Context, patronID int64) ([]model.Reservation, error) {
	if _, err := s.repo.GetPatron(ctx, patronID); err != nil {
		return nil, err
	}
	items, err := s.repo.ListPatronReservations(ctx, patronID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.Reservation{}
	}
	return items, nil
}

func (s *Service) QueueStats(ctx context.Context) (model.QueueStats, error) {
	return s.repo.QueueStats(ctx, s.now())
}

func (s *Service) loadQueue(ctx context.Context, tx repository.ReservationRepository, copyID int64) (*holds.Queue, error) {
	c, err := tx.LockCopy(ctx, copyID)
	if err != nil {
		return nil, err
	}
	active, err := tx.ActiveReservations(ctx, copyID)
	if err != nil {
		return nil, err
	}
	return holds.New(c, active, s.hold), nil
}

// persist writes the queue diff and enqueues the notifications it implies. It returns the
// inserted reservation, if the diff had one.
func (s *Service) persist(ctx context.Context, tx repository.ReservationRepository, q *holds.Queue, now time.Time) (*model.Reservation, error) {
	ch := q.Changes()

	var added *model.Reservation
	if ch.Added != nil {
		inserted, err := tx.InsertReservation(ctx, *ch.Added)
		if err != nil {
			return nil, err
		}
		added = &inserted
	}
	for _, r := range ch.Updated {
		if err := tx.UpdateReservation(ctx, r); err != nil {
			return nil, err
		}
	}
	if ch.CopyStatus != nil {
		if err := tx.SetCopyStatus(ctx, q.CopyID(), *ch.CopyStatus); err != nil {
			return nil, err
		}
	}

	if len(ch.Events) == 0 {
		return added, nil
	}
	details, err := tx.GetCopyDetails(ctx, q.CopyID())
	if err != nil {
		return nil, err
	}
	for _, ev := range ch.Events {
		r := ev.Reservation
		if added != nil && r.ReservationUid == added.ReservationUid {
			r.ID = added.ID
		}
		if err := s.notify(ctx, tx, ev.Type, r, details, now); err != nil {
			return nil, err
		}
	}
	return added, nil
}

func (s *Service) notify(ctx context.Context, tx repository.ReservationRepository, t model.EmailType, r model.Reservation, d model.CopyDetails, now time.Time) error {
	patron, err := tx.GetPatron(ctx, r.PatronID)
	if err != nil {
		return err
	}
	if patron.Email == "" {
		s.log.Debug("patron has no email, notification skipped",
			zap.Int64("patron", patron.ID), zap.String("type", string(t)))
		return nil
	}

	facts := model.Facts{
		PatronName:    patron.FullName(),
		ItemTitle:     d.Title,
		ItemType:      d.ItemType,
		Author:        d.Author,
		BranchName:    d.BranchName,
		QueuePosition: r.QueuePosition,
	}
	if r.ExpiryDate != nil {
		facts.ExpiryDate = *r.ExpiryDate
	}
	priority := model.PriorityNormal
	if t == model.EmailReservationReady {
		priority = model.PriorityHigh
	}
	copyID, resID := r.ItemCopyID, r.ID
	n, err := notification.Build(model.EnqueueRequest{
		PatronID:         patron.ID,
		EmailType:        t,
		RecipientAddress: patron.Email,
		Facts:            facts,
		Priority:         priority,
		ItemCopyID:       &copyID,
		ReservationID:    &resID,
		Metadata: map[string]any{
			"reservation_uid": r.ReservationUid.String(),
			"status":          string(r.Status),
		},
	}, now)
	if err != nil {
		return err
	}
	return tx.InsertNotification(ctx, n)
}
