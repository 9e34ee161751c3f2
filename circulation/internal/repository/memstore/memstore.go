// Package memstore is an in-memory implementation of the repository interfaces with the
// same error contract as the Postgres one. Atomic serializes callers and rolls back on error.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Astemirdum/library-circulation/circulation/internal/errs"
	"github.com/Astemirdum/library-circulation/circulation/internal/model"
	"github.com/Astemirdum/library-circulation/circulation/internal/repository"
)

var (
	_ repository.ReservationRepository  = (*Store)(nil)
	_ repository.NotificationRepository = (*Store)(nil)
	_ repository.LoanRepository         = (*Store)(nil)
)

type data struct {
	copies        map[int64]model.ItemCopy
	details       map[int64]model.CopyDetails
	patrons       map[int64]model.Patron
	reservations  map[int64]model.Reservation
	nextID        int64
	notifications map[uuid.UUID]model.Notification
	loans         []model.LoanDue
}

func (d *data) clone() *data {
	c := &data{
		copies:        make(map[int64]model.ItemCopy, len(d.copies)),
		details:       d.details,
		patrons:       d.patrons,
		reservations:  make(map[int64]model.Reservation, len(d.reservations)),
		nextID:        d.nextID,
		notifications: make(map[uuid.UUID]model.Notification, len(d.notifications)),
		loans:         d.loans,
	}
	for k, v := range d.copies {
		c.copies[k] = v
	}
	for k, v := range d.reservations {
		c.reservations[k] = v
	}
	for k, v := range d.notifications {
		c.notifications[k] = v
	}
	return c
}

type Store struct {
	mu   *sync.Mutex
	d    **data
	inTx bool

	// InsertNotificationErr, when set, is returned by every InsertNotification call.
	InsertNotificationErr error
}

func New() *Store {
	d := &data{
		copies:        make(map[int64]model.ItemCopy),
		details:       make(map[int64]model.CopyDetails),
		patrons:       make(map[int64]model.Patron),
		reservations:  make(map[int64]model.Reservation),
		nextID:        1,
		notifications: make(map[uuid.UUID]model.Notification),
	}
	return &Store{mu: &sync.Mutex{}, d: &d}
}

func (s *Store) lock() func() {
	if s.inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *Store) Atomic(ctx context.Context, fn func(tx repository.ReservationRepository) error) error {
	if s.inTx {
		return fn(s)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := (*s.d).clone()
	tx := &Store{mu: s.mu, d: s.d, inTx: true, InsertNotificationErr: s.InsertNotificationErr}
	if err := fn(tx); err != nil {
		*s.d = snapshot
		return err
	}
	if err := ctx.Err(); err != nil {
		*s.d = snapshot
		return err
	}
	return nil
}

// Seeding and inspection helpers.

func (s *Store) AddCopy(c model.ItemCopy, details model.CopyDetails) {
	defer s.lock()()
	(*s.d).copies[c.ID] = c
	details.ItemCopyID = c.ID
	(*s.d).details[c.ID] = details
}

func (s *Store) AddPatron(p model.Patron) {
	defer s.lock()()
	(*s.d).patrons[p.ID] = p
}

func (s *Store) AddLoan(l model.LoanDue) {
	defer s.lock()()
	(*s.d).loans = append((*s.d).loans, l)
}

func (s *Store) PutNotification(n model.Notification) {
	defer s.lock()()
	(*s.d).notifications[n.ID] = n
}

func (s *Store) Copy(id int64) model.ItemCopy {
	defer s.lock()()
	return (*s.d).copies[id]
}

func (s *Store) Reservations() []model.Reservation {
	defer s.lock()()
	out := make([]model.Reservation, 0, len((*s.d).reservations))
	for _, r := range (*s.d).reservations {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) Notifications() []model.Notification {
	defer s.lock()()
	out := make([]model.Notification, 0, len((*s.d).notifications))
	for _, n := range (*s.d).notifications {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}

// ReservationRepository

func (s *Store) LockCopy(ctx context.Context, copyID int64) (model.ItemCopy, error) {
	return s.GetCopy(ctx, copyID)
}

func (s *Store) GetCopy(_ context.Context, copyID int64) (model.ItemCopy, error) {
	defer s.lock()()
	c, ok := (*s.d).copies[copyID]
	if !ok {
		return model.ItemCopy{}, errs.ErrCopyNotFound
	}
	return c, nil
}

func (s *Store) SetCopyStatus(_ context.Context, copyID int64, status model.CopyStatus) error {
	defer s.lock()()
	c, ok := (*s.d).copies[copyID]
	if !ok {
		return errs.ErrCopyNotFound
	}
	c.Status = status
	(*s.d).copies[copyID] = c
	return nil
}

func (s *Store) GetCopyDetails(_ context.Context, copyID int64) (model.CopyDetails, error) {
	defer s.lock()()
	if _, ok := (*s.d).copies[copyID]; !ok {
		return model.CopyDetails{}, errs.ErrCopyNotFound
	}
	return (*s.d).details[copyID], nil
}

func (s *Store) GetPatron(_ context.Context, patronID int64) (model.Patron, error) {
	defer s.lock()()
	p, ok := (*s.d).patrons[patronID]
	if !ok {
		return model.Patron{}, errs.ErrPatronNotFound
	}
	return p, nil
}

func (s *Store) GetReservation(_ context.Context, id int64) (model.Reservation, error) {
	defer s.lock()()
	r, ok := (*s.d).reservations[id]
	if !ok {
		return model.Reservation{}, errs.ErrNotFound
	}
	return r, nil
}

func (s *Store) ActiveReservations(_ context.Context, copyID int64) ([]model.Reservation, error) {
	defer s.lock()()
	var out []model.Reservation
	for _, r := range (*s.d).reservations {
		if r.ItemCopyID == copyID && r.Status.IsActive() {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].QueuePosition != out[j].QueuePosition {
			return out[i].QueuePosition < out[j].QueuePosition
		}
		return out[i].ReservationDate.Before(out[j].ReservationDate)
	})
	return out, nil
}

func (s *Store) InsertReservation(_ context.Context, r model.Reservation) (model.Reservation, error) {
	defer s.lock()()
	d := *s.d
	for _, other := range d.reservations {
		if other.ItemCopyID == r.ItemCopyID && other.PatronID == r.PatronID && other.Status.IsActive() {
			return model.Reservation{}, errs.ErrAlreadyReserved
		}
	}
	r.ID = d.nextID
	d.nextID++
	d.reservations[r.ID] = r
	return r, nil
}

func (s *Store) UpdateReservation(_ context.Context, r model.Reservation) error {
	defer s.lock()()
	cur, ok := (*s.d).reservations[r.ID]
	if !ok {
		return errs.ErrNotFound
	}
	cur.Status = r.Status
	cur.QueuePosition = r.QueuePosition
	cur.ExpiryDate = r.ExpiryDate
	cur.UpdatedAt = r.UpdatedAt
	(*s.d).reservations[r.ID] = cur
	return nil
}

func (s *Store) ListPatronReservations(_ context.Context, patronID int64) ([]model.Reservation, error) {
	defer s.lock()()
	var out []model.Reservation
	for _, r := range (*s.d).reservations {
		if r.PatronID == patronID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ReservationDate.After(out[j].ReservationDate) })
	return out, nil
}

func (s *Store) ExpiredCopyIDs(_ context.Context, now time.Time) ([]int64, error) {
	defer s.lock()()
	seen := make(map[int64]struct{})
	var out []int64
	for _, r := range (*s.d).reservations {
		if r.Status != model.ReservationReady || r.ExpiryDate == nil || !r.ExpiryDate.Before(now) {
			continue
		}
		if _, ok := seen[r.ItemCopyID]; !ok {
			seen[r.ItemCopyID] = struct{}{}
			out = append(out, r.ItemCopyID)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

func (s *Store) QueueStats(_ context.Context, now time.Time) (model.QueueStats, error) {
	defer s.lock()()
	stats := model.QueueStats{ByStatus: make(map[model.ReservationStatus]int)}
	perCopy := make(map[int64]int)
	for _, r := range (*s.d).reservations {
		stats.ByStatus[r.Status]++
		if r.Status.IsActive() {
			perCopy[r.ItemCopyID]++
		}
		if r.Status == model.ReservationReady && r.ExpiryDate != nil &&
			!r.ExpiryDate.Before(now) && r.ExpiryDate.Before(now.Add(24*time.Hour)) {
			stats.ExpiringSoon++
		}
	}
	stats.ActiveQueues = len(perCopy)
	if len(perCopy) > 0 {
		total := 0
		for _, n := range perCopy {
			total += n
		}
		stats.AvgQueueLength = float64(total) / float64(len(perCopy))
	}
	return stats, nil
}

// NotificationRepository

func (s *Store) InsertNotification(_ context.Context, n model.Notification) error {
	defer s.lock()()
	if s.InsertNotificationErr != nil {
		return s.InsertNotificationErr
	}
	(*s.d).notifications[n.ID] = n
	return nil
}

func (s *Store) GetNotification(_ context.Context, id uuid.UUID) (model.Notification, error) {
	defer s.lock()()
	n, ok := (*s.d).notifications[id]
	if !ok {
		return model.Notification{}, errs.ErrNotFound
	}
	return n, nil
}

func (s *Store) DueNotifications(_ context.Context, now time.Time, limit uint64) ([]model.Notification, error) {
	defer s.lock()()
	var out []model.Notification
	for _, n := range (*s.d).notifications {
		if n.Status == model.NotificationPending && !n.ScheduledFor.After(now) {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority < out[j].Priority
		}
		return out[i].ScheduledFor.Before(out[j].ScheduledFor)
	})
	if uint64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) updatePending(id uuid.UUID, fn func(n *model.Notification)) error {
	defer s.lock()()
	n, ok := (*s.d).notifications[id]
	if !ok || n.Status != model.NotificationPending {
		return errs.ErrNotFound
	}
	fn(&n)
	(*s.d).notifications[id] = n
	return nil
}

func (s *Store) MarkSent(_ context.Context, id uuid.UUID, at time.Time) error {
	return s.updatePending(id, func(n *model.Notification) {
		n.Status = model.NotificationSent
		n.SentAt = &at
		n.UpdatedAt = at
	})
}

func (s *Store) ScheduleRetry(_ context.Context, id uuid.UUID, retryCount int, next time.Time, errMsg string, at time.Time) error {
	return s.updatePending(id, func(n *model.Notification) {
		n.RetryCount = retryCount
		n.ScheduledFor = next
		n.ErrorMessage = &errMsg
		n.UpdatedAt = at
	})
}

func (s *Store) MarkFailed(_ context.Context, id uuid.UUID, retryCount int, errMsg string, at time.Time) error {
	return s.updatePending(id, func(n *model.Notification) {
		n.Status = model.NotificationFailed
		n.RetryCount = retryCount
		n.ErrorMessage = &errMsg
		n.UpdatedAt = at
	})
}

func (s *Store) ResetForRetry(_ context.Context, id uuid.UUID, now time.Time) (model.Notification, error) {
	defer s.lock()()
	n, ok := (*s.d).notifications[id]
	if !ok {
		return model.Notification{}, errs.ErrNotFound
	}
	if n.Status != model.NotificationFailed {
		return model.Notification{}, errs.ErrNotRetryable
	}
	n.Status = model.NotificationPending
	n.RetryCount = 0
	n.ScheduledFor = now
	n.ErrorMessage = nil
	n.UpdatedAt = now
	(*s.d).notifications[id] = n
	return n, nil
}

func (s *Store) CancelPending(_ context.Context, f model.CancelFilter, now time.Time) (int64, error) {
	defer s.lock()()
	var count int64
	for id, n := range (*s.d).notifications {
		if n.Status != model.NotificationPending || !matches(n, f) {
			continue
		}
		n.Status = model.NotificationCancelled
		n.UpdatedAt = now
		(*s.d).notifications[id] = n
		count++
	}
	return count, nil
}

func matches(n model.Notification, f model.CancelFilter) bool {
	eq := func(want, got *int64) bool { return want == nil || (got != nil && *got == *want) }
	return (f.PatronID == nil || *f.PatronID == n.PatronID) &&
		(f.EmailType == nil || *f.EmailType == n.EmailType) &&
		eq(f.ItemCopyID, n.ItemCopyID) &&
		eq(f.ReservationID, n.ReservationID) &&
		eq(f.TransactionID, n.TransactionID)
}

func (s *Store) DeleteSentBefore(_ context.Context, before time.Time) (int64, error) {
	defer s.lock()()
	var count int64
	for id, n := range (*s.d).notifications {
		if n.Status == model.NotificationSent && n.SentAt != nil && n.SentAt.Before(before) {
			delete((*s.d).notifications, id)
			count++
		}
	}
	return count, nil
}

func (s *Store) ExistsRecent(_ context.Context, patronID int64, emailType model.EmailType, itemCopyID int64, since time.Time) (bool, error) {
	defer s.lock()()
	for _, n := range (*s.d).notifications {
		if n.PatronID == patronID && n.EmailType == emailType &&
			n.ItemCopyID != nil && *n.ItemCopyID == itemCopyID && !n.CreatedAt.Before(since) {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) Stats(_ context.Context, now time.Time) (model.NotificationStats, error) {
	defer s.lock()()
	stats := model.NotificationStats{
		ByStatus: make(map[model.NotificationStatus]int),
		ByType:   make(map[model.EmailType]int),
	}
	retries := 0
	for _, n := range (*s.d).notifications {
		stats.ByStatus[n.Status]++
		stats.ByType[n.EmailType]++
		retries += n.RetryCount
		if n.Status != model.NotificationPending {
			continue
		}
		if !n.ScheduledFor.After(now) {
			stats.DuePending++
		}
		if stats.OldestPending == nil || n.ScheduledFor.Before(*stats.OldestPending) {
			at := n.ScheduledFor
			stats.OldestPending = &at
		}
	}
	if total := len((*s.d).notifications); total > 0 {
		stats.AvgRetries = float64(retries) / float64(total)
	}
	return stats, nil
}

// LoanRepository

func (s *Store) OverdueLoans(_ context.Context, now time.Time) ([]model.LoanDue, error) {
	return s.loansWhere(func(l model.LoanDue) bool { return l.DueDate.Before(now) }), nil
}

func (s *Store) DueSoonLoans(_ context.Context, now, until time.Time) ([]model.LoanDue, error) {
	return s.loansWhere(func(l model.LoanDue) bool {
		return !l.DueDate.Before(now) && !l.DueDate.After(until)
	}), nil
}

func (s *Store) loansWhere(pred func(model.LoanDue) bool) []model.LoanDue {
	defer s.lock()()
	var out []model.LoanDue
	for _, l := range (*s.d).loans {
		if l.PatronEmail != "" && pred(l) {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DueDate.Before(out[j].DueDate) })
	return out
}
