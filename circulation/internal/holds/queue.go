// Package holds keeps the FIFO hold queue of one item copy together with the copy's
// status, so a queue transition and the copy flip it implies are computed as one unit.
package holds

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/Astemirdum/library-circulation/circulation/internal/errs"
	"github.com/Astemirdum/library-circulation/circulation/internal/model"
)

// Event is a queue transition a patron must hear about.
type Event struct {
	Type        model.EmailType
	Reservation model.Reservation
}

// Changes is the diff a Queue accumulated since it was loaded.
type Changes struct {
	CopyStatus *model.CopyStatus
	Added      *model.Reservation
	Updated    []model.Reservation
	Events     []Event
}

func (c Changes) Empty() bool {
	return c.CopyStatus == nil && c.Added == nil && len(c.Updated) == 0
}

type Queue struct {
	copyID     int64
	copyStatus model.CopyStatus
	origStatus model.CopyStatus
	hold       time.Duration

	active  []model.Reservation
	closed  []model.Reservation
	touched map[int64]struct{}
	added   *uuid.UUID
	events  []Event
}

// New builds the queue of copy from its active reservations.
func New(copy model.ItemCopy, active []model.Reservation, hold time.Duration) *Queue {
	rs := make([]model.Reservation, 0, len(active))
	for _, r := range active {
		if r.Status.IsActive() {
			rs = append(rs, r)
		}
	}
	sort.SliceStable(rs, func(i, j int) bool {
		if rs[i].QueuePosition != rs[j].QueuePosition {
			return rs[i].QueuePosition < rs[j].QueuePosition
		}
		return rs[i].ReservationDate.Before(rs[j].ReservationDate)
	})
	return &Queue{
		copyID:     copy.ID,
		copyStatus: copy.Status,
		origStatus: copy.Status,
		hold:       hold,
		active:     rs,
		touched:    make(map[int64]struct{}),
	}
}

func (q *Queue) CopyID() int64 { return q.copyID }

func (q *Queue) CopyStatus() model.CopyStatus { return q.copyStatus }

func (q *Queue) Len() int { return len(q.active) }

func (q *Queue) Active() []model.Reservation {
	out := make([]model.Reservation, len(q.active))
	copy(out, q.active)
	return out
}

// Head returns the reservation at position 1.
func (q *Queue) Head() (model.Reservation, bool) {
	if len(q.active) == 0 {
		return model.Reservation{}, false
	}
	return q.active[0], true
}

// Add appends a reservation for patronID. It becomes ready at once only when the copy is
// on the shelf and nobody else is waiting for it.
func (q *Queue) Add(patronID int64, now time.Time) (model.Reservation, error) {
	if !q.copyStatus.Reservable() {
		return model.Reservation{}, errs.ErrCopyNotReservable
	}
	for _, r := range q.active {
		if r.PatronID == patronID {
			return model.Reservation{}, errs.ErrAlreadyReserved
		}
	}

	r := model.Reservation{
		ReservationUid:  uuid.New(),
		ItemCopyID:      q.copyID,
		PatronID:        patronID,
		Status:          model.ReservationWaiting,
		QueuePosition:   len(q.active) + 1,
		ReservationDate: now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if q.copyStatus == model.CopyAvailable && len(q.active) == 0 {
		r.Status = model.ReservationReady
		r.QueuePosition = 1
		exp := now.Add(q.hold)
		r.ExpiryDate = &exp
		q.copyStatus = model.CopyReserved
		q.events = append(q.events, Event{Type: model.EmailReservationReady, Reservation: r})
	}
	q.active = append(q.active, r)
	uid := r.ReservationUid
	q.added = &uid
	return r, nil
}

// Fulfill promotes the head reservation onto the copy that just became available.
func (q *Queue) Fulfill(reservationID int64, now time.Time) (model.Reservation, error) {
	idx := q.indexOf(reservationID)
	if idx < 0 {
		return model.Reservation{}, errs.ErrConflict
	}
	if idx != 0 {
		return model.Reservation{}, errs.ErrNotQueueHead
	}
	if q.copyStatus != model.CopyAvailable {
		return model.Reservation{}, errs.ErrCopyNotAvailable
	}
	if err := q.promoteHead(now); err != nil {
		return model.Reservation{}, err
	}
	q.renumber(now)
	return q.active[0], nil
}

// Checkin marks the copy as returned and, when the head is waiting, promotes it.
// It returns the promoted reservation, if any.
func (q *Queue) Checkin(now time.Time) (*model.Reservation, error) {
	switch q.copyStatus {
	case model.CopyCheckedOut, model.CopyUnshelved:
		q.copyStatus = model.CopyAvailable
	case model.CopyAvailable:
	default:
		return nil, nil
	}
	head, ok := q.Head()
	if !ok || head.Status != model.ReservationWaiting {
		return nil, nil
	}
	r, err := q.Fulfill(head.ID, now)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// Cancel removes an active reservation. Cancelling the ready holder hands the copy to the
// next waiting patron, or releases it when the queue is empty.
func (q *Queue) Cancel(reservationID int64, now time.Time) (model.Reservation, error) {
	idx := q.indexOf(reservationID)
	if idx < 0 {
		return model.Reservation{}, errs.ErrConflict
	}
	wasReady := q.active[idx].Status == model.ReservationReady
	r, err := q.close(idx, model.ReservationCancelled, now)
	if err != nil {
		return model.Reservation{}, err
	}
	q.events = append(q.events, Event{Type: model.EmailReservationCancelled, Reservation: r})
	if wasReady {
		if err := q.handOff(now); err != nil {
			return model.Reservation{}, err
		}
	}
	q.renumber(now)
	return r, nil
}

// Expire ends a ready reservation whose pickup window closed before now.
func (q *Queue) Expire(now time.Time) (*model.Reservation, error) {
	head, ok := q.Head()
	if !ok || head.Status != model.ReservationReady || head.ExpiryDate == nil || !head.ExpiryDate.Before(now) {
		return nil, nil
	}
	r, err := q.close(0, model.ReservationExpired, now)
	if err != nil {
		return nil, err
	}
	q.events = append(q.events, Event{Type: model.EmailReservationExpired, Reservation: r})
	if err := q.handOff(now); err != nil {
		return nil, err
	}
	q.renumber(now)
	return &r, nil
}

// Changes returns everything that must be persisted.
func (q *Queue) Changes() Changes {
	var ch Changes
	if q.copyStatus != q.origStatus {
		st := q.copyStatus
		ch.CopyStatus = &st
	}
	for _, r := range q.active {
		if q.added != nil && r.ReservationUid == *q.added {
			added := r
			ch.Added = &added
			continue
		}
		if _, ok := q.touched[r.ID]; ok {
			ch.Updated = append(ch.Updated, r)
		}
	}
	ch.Updated = append(ch.Updated, q.closed...)
	ch.Events = append(ch.Events, q.events...)
	return ch
}

// Validate checks the queue invariants: positions are exactly 1..N in reservation order,
// only the head may be ready, a ready head means the copy is Reserved, and no patron
// appears twice.
func (q *Queue) Validate() error {
	patrons := make(map[int64]struct{}, len(q.active))
	for i, r := range q.active {
		if !r.Status.IsActive() {
			return fmt.Errorf("reservation %d: inactive status %s in queue", r.ID, r.Status)
		}
		if r.QueuePosition != i+1 {
			return fmt.Errorf("reservation %d: position %d, want %d", r.ID, r.QueuePosition, i+1)
		}
		if i > 0 && r.ReservationDate.Before(q.active[i-1].ReservationDate) {
			return fmt.Errorf("reservation %d: out of reservation order", r.ID)
		}
		if r.Status == model.ReservationReady && i != 0 {
			return fmt.Errorf("reservation %d: ready at position %d", r.ID, r.QueuePosition)
		}
		if _, dup := patrons[r.PatronID]; dup {
			return fmt.Errorf("patron %d: more than one active reservation", r.PatronID)
		}
		patrons[r.PatronID] = struct{}{}
	}
	if head, ok := q.Head(); ok && head.Status == model.ReservationReady && q.copyStatus != model.CopyReserved {
		return fmt.Errorf("copy %d: ready holder but copy is %s", q.copyID, q.copyStatus)
	}
	return nil
}

func (q *Queue) indexOf(reservationID int64) int {
	for i, r := range q.active {
		if r.ID == reservationID {
			return i
		}
	}
	return -1
}

// transition rejects status changes the reservation lifecycle does not allow.
func transition(r model.Reservation, to model.ReservationStatus) error {
	if !r.Status.CanTransition(to) {
		return fmt.Errorf("%w: reservation %d %s -> %s", errs.ErrConflict, r.ID, r.Status, to)
	}
	return nil
}

func (q *Queue) close(idx int, status model.ReservationStatus, now time.Time) (model.Reservation, error) {
	r := q.active[idx]
	if err := transition(r, status); err != nil {
		return model.Reservation{}, err
	}
	r.Status = status
	r.QueuePosition = 0
	r.UpdatedAt = now
	q.active = append(q.active[:idx], q.active[idx+1:]...)
	q.closed = append(q.closed, r)
	return r, nil
}

// handOff gives the copy to the next waiting reservation or releases it.
func (q *Queue) handOff(now time.Time) error {
	if head, ok := q.Head(); ok && head.Status == model.ReservationWaiting {
		return q.promoteHead(now)
	}
	if q.copyStatus == model.CopyReserved {
		q.copyStatus = model.CopyAvailable
	}
	return nil
}

func (q *Queue) promoteHead(now time.Time) error {
	head := &q.active[0]
	if err := transition(*head, model.ReservationReady); err != nil {
		return err
	}
	exp := now.Add(q.hold)
	head.Status = model.ReservationReady
	head.ExpiryDate = &exp
	head.UpdatedAt = now
	q.copyStatus = model.CopyReserved
	q.touch(*head)
	q.events = append(q.events, Event{Type: model.EmailReservationReady, Reservation: *head})
	return nil
}

func (q *Queue) renumber(now time.Time) {
	for i := range q.active {
		if q.active[i].QueuePosition != i+1 {
			q.active[i].QueuePosition = i + 1
			q.active[i].UpdatedAt = now
			q.touch(q.active[i])
		}
	}
	for i := range q.events {
		if idx := q.indexOf(q.events[i].Reservation.ID); idx >= 0 && q.events[i].Reservation.Status.IsActive() {
			q.events[i].Reservation.QueuePosition = q.active[idx].QueuePosition
		}
	}
}

func (q *Queue) touch(r model.Reservation) {
	if q.added != nil && r.ReservationUid == *q.added {
		return
	}
	q.touched[r.ID] = struct{}{}
}
