package holds

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Astemirdum/library-circulation/circulation/internal/errs"
	"github.com/Astemirdum/library-circulation/circulation/internal/model"
)

const hold = 5 * 24 * time.Hour

var t0 = time.Date(2024, 5, 6, 10, 0, 0, 0, time.UTC)

// store mimics the load/mutate/persist cycle of the reservation service for one copy.
type store struct {
	copy   model.ItemCopy
	rows   map[int64]model.Reservation
	nextID int64
}

func newStore(status model.CopyStatus) *store {
	return &store{
		copy:   model.ItemCopy{ID: 7, ItemID: 1, Status: status},
		rows:   make(map[int64]model.Reservation),
		nextID: 1,
	}
}

func (s *store) load() *Queue {
	var active []model.Reservation
	for _, r := range s.rows {
		if r.Status.IsActive() {
			active = append(active, r)
		}
	}
	return New(s.copy, active, hold)
}

func (s *store) save(t *testing.T, q *Queue) Changes {
	t.Helper()
	ch := q.Changes()
	if ch.CopyStatus != nil {
		s.copy.Status = *ch.CopyStatus
	}
	if ch.Added != nil {
		r := *ch.Added
		r.ID = s.nextID
		s.nextID++
		s.rows[r.ID] = r
	}
	for _, r := range ch.Updated {
		_, ok := s.rows[r.ID]
		require.True(t, ok, "update of unknown reservation %d", r.ID)
		s.rows[r.ID] = r
	}
	require.NoError(t, s.load().Validate())
	return ch
}

func (s *store) byPatron(patronID int64) model.Reservation {
	var out model.Reservation
	for _, r := range s.rows {
		if r.PatronID == patronID && (r.Status.IsActive() || out.ID == 0) {
			out = r
		}
	}
	return out
}

func TestQueue_AddOnAvailableCopy(t *testing.T) {
	s := newStore(model.CopyAvailable)

	q := s.load()
	r1, err := q.Add(1, t0)
	require.NoError(t, err)
	require.Equal(t, model.ReservationReady, r1.Status)
	require.Equal(t, 1, r1.QueuePosition)
	require.Equal(t, t0.Add(hold), *r1.ExpiryDate)
	ch := s.save(t, q)
	require.Equal(t, model.CopyReserved, s.copy.Status)
	require.Len(t, ch.Events, 1)
	require.Equal(t, model.EmailReservationReady, ch.Events[0].Type)

	q = s.load()
	r2, err := q.Add(2, t0.Add(time.Minute))
	require.NoError(t, err)
	require.Equal(t, model.ReservationWaiting, r2.Status)
	require.Equal(t, 2, r2.QueuePosition)
	require.Nil(t, r2.ExpiryDate)
	ch = s.save(t, q)
	require.Nil(t, ch.CopyStatus)
	require.Empty(t, ch.Events)
}

func TestQueue_CancelReadyPromotesNext(t *testing.T) {
	s := newStore(model.CopyAvailable)
	q := s.load()
	_, err := q.Add(1, t0)
	require.NoError(t, err)
	s.save(t, q)
	q = s.load()
	_, err = q.Add(2, t0.Add(time.Minute))
	require.NoError(t, err)
	s.save(t, q)

	cancelAt := t0.Add(2 * time.Hour)
	q = s.load()
	_, err = q.Cancel(s.byPatron(1).ID, cancelAt)
	require.NoError(t, err)
	ch := s.save(t, q)

	p2 := s.byPatron(2)
	require.Equal(t, model.ReservationReady, p2.Status)
	require.Equal(t, 1, p2.QueuePosition)
	require.Equal(t, cancelAt.Add(hold), *p2.ExpiryDate)
	require.Equal(t, model.CopyReserved, s.copy.Status)
	require.Nil(t, ch.CopyStatus, "copy never passes through Available")

	var types []model.EmailType
	for _, ev := range ch.Events {
		types = append(types, ev.Type)
	}
	require.ElementsMatch(t, []model.EmailType{model.EmailReservationCancelled, model.EmailReservationReady}, types)
}

func TestCancel_lastHolderReleasesCopy(t *testing.T) {
	s := newStore(model.CopyAvailable)
	q := s.load()
	_, err := q.Add(1, t0)
	require.NoError(t, err)
	s.save(t, q)

	q = s.load()
	r, err := q.Cancel(s.byPatron(1).ID, t0.Add(time.Hour))
	require.NoError(t, err)
	require.Equal(t, model.ReservationCancelled, r.Status)
	require.Equal(t, 0, r.QueuePosition)
	s.save(t, q)
	require.Equal(t, model.CopyAvailable, s.copy.Status)

	q = s.load()
	_, err = q.Cancel(r.ID, t0.Add(2*time.Hour))
	require.ErrorIs(t, err, errs.ErrConflict)
}

func TestAdd_rejects(t *testing.T) {
	s := newStore(model.CopyDamaged)
	_, err := s.load().Add(1, t0)
	require.ErrorIs(t, err, errs.ErrCopyNotReservable)

	s = newStore(model.CopyCheckedOut)
	q := s.load()
	_, err = q.Add(1, t0)
	require.NoError(t, err)
	s.save(t, q)
	_, err = s.load().Add(1, t0.Add(time.Minute))
	require.ErrorIs(t, err, errs.ErrAlreadyReserved)
}

func TestFulfill(t *testing.T) {
	s := newStore(model.CopyCheckedOut)
	for i := int64(1); i <= 3; i++ {
		q := s.load()
		r, err := q.Add(i, t0.Add(time.Duration(i)*time.Minute))
		require.NoError(t, err)
		require.Equal(t, model.ReservationWaiting, r.Status)
		s.save(t, q)
	}

	_, err := s.load().Fulfill(s.byPatron(1).ID, t0.Add(time.Hour))
	require.ErrorIs(t, err, errs.ErrCopyNotAvailable)

	s.copy.Status = model.CopyAvailable
	_, err = s.load().Fulfill(s.byPatron(2).ID, t0.Add(time.Hour))
	require.ErrorIs(t, err, errs.ErrNotQueueHead)

	q := s.load()
	r, err := q.Fulfill(s.byPatron(1).ID, t0.Add(time.Hour))
	require.NoError(t, err)
	require.Equal(t, model.ReservationReady, r.Status)
	require.Equal(t, t0.Add(time.Hour+hold), *r.ExpiryDate)
	s.save(t, q)
	require.Equal(t, model.CopyReserved, s.copy.Status)
}

func TestFulfill_readyHeadRejected(t *testing.T) {
	exp := t0.Add(hold)
	q := New(model.ItemCopy{ID: 7, Status: model.CopyAvailable}, []model.Reservation{
		{ID: 1, ItemCopyID: 7, PatronID: 1, Status: model.ReservationReady, QueuePosition: 1, ReservationDate: t0, ExpiryDate: &exp},
	}, hold)

	_, err := q.Fulfill(1, t0.Add(time.Hour))
	require.ErrorIs(t, err, errs.ErrConflict)
	require.True(t, q.Changes().Empty())
	require.Equal(t, t0.Add(hold), *q.Active()[0].ExpiryDate)
}

func TestCheckin(t *testing.T) {
	s := newStore(model.CopyCheckedOut)
	q := s.load()
	_, err := q.Add(4, t0)
	require.NoError(t, err)
	s.save(t, q)

	q = s.load()
	promoted, err := q.Checkin(t0.Add(time.Hour))
	require.NoError(t, err)
	require.NotNil(t, promoted)
	require.Equal(t, int64(4), promoted.PatronID)
	s.save(t, q)
	require.Equal(t, model.CopyReserved, s.copy.Status)

	empty := newStore(model.CopyCheckedOut)
	q = empty.load()
	promoted, err = q.Checkin(t0)
	require.NoError(t, err)
	require.Nil(t, promoted)
	empty.save(t, q)
	require.Equal(t, model.CopyAvailable, empty.copy.Status)
}

func TestExpire_idempotent(t *testing.T) {
	s := newStore(model.CopyAvailable)
	q := s.load()
	_, err := q.Add(1, t0)
	require.NoError(t, err)
	s.save(t, q)

	q = s.load()
	r, err := q.Expire(t0.Add(hold - time.Second))
	require.NoError(t, err)
	require.Nil(t, r)

	sweepAt := t0.Add(hold + time.Second)
	q = s.load()
	r, err = q.Expire(sweepAt)
	require.NoError(t, err)
	require.NotNil(t, r)
	require.Equal(t, model.ReservationExpired, r.Status)
	s.save(t, q)
	require.Equal(t, model.CopyAvailable, s.copy.Status)

	q = s.load()
	r, err = q.Expire(sweepAt)
	require.NoError(t, err)
	require.Nil(t, r)
	require.True(t, q.Changes().Empty())
}

// TestQueue_randomOperations drives random create/fulfill/cancel/expire/checkin sequences
// and checks the invariants after every step.
func TestQueue_randomOperations(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	statuses := []model.CopyStatus{model.CopyAvailable, model.CopyCheckedOut, model.CopyUnshelved}

	for run := 0; run < 200; run++ {
		s := newStore(statuses[rnd.Intn(len(statuses))])
		now := t0
		for step := 0; step < 40; step++ {
			now = now.Add(time.Duration(rnd.Intn(72)) * time.Hour)
			q := s.load()
			active := q.Active()

			var err error
			switch op := rnd.Intn(5); op {
			case 0, 1:
				patron := int64(rnd.Intn(6) + 1)
				_, err = q.Add(patron, now)
				if err != nil {
					require.ErrorIs(t, err, errs.ErrAlreadyReserved)
				}
			case 2:
				if len(active) == 0 {
					continue
				}
				_, err = q.Cancel(active[rnd.Intn(len(active))].ID, now)
				require.NoError(t, err)
			case 3:
				_, err = q.Expire(now)
				require.NoError(t, err)
			case 4:
				if rnd.Intn(2) == 0 && q.CopyStatus() == model.CopyReserved {
					continue
				}
				_, err = q.Checkin(now)
				require.NoError(t, err)
			}
			require.NoError(t, q.Validate(), "run %d step %d", run, step)
			s.save(t, q)

			ready := 0
			for _, r := range s.rows {
				if r.Status == model.ReservationReady {
					ready++
					require.Equal(t, 1, r.QueuePosition)
				}
			}
			require.LessOrEqual(t, ready, 1)
		}
	}
}
