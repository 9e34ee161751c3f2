package notification

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-circulation/circulation/internal/errs"
	"github.com/Astemirdum/library-circulation/circulation/internal/model"
	"github.com/Astemirdum/library-circulation/circulation/internal/repository/memstore"
)

var now = time.Date(2024, 4, 2, 9, 0, 0, 0, time.UTC)

func newService() (*Service, *memstore.Store) {
	store := memstore.New()
	return NewService(store, zap.NewNop(), func() time.Time { return now }), store
}

func TestBuild_defaultsAndCompose(t *testing.T) {
	copyID := int64(11)
	n, err := Build(model.EnqueueRequest{
		PatronID:         3,
		EmailType:        model.EmailReservationReady,
		RecipientAddress: "p3@example.com",
		Facts:            model.Facts{PatronName: "Pat", ItemTitle: "Dune"},
		ItemCopyID:       &copyID,
	}, now)
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, n.ID)
	require.Equal(t, model.NotificationPending, n.Status)
	require.Equal(t, model.DefaultPriority, n.Priority)
	require.Equal(t, model.DefaultMaxRetries, n.MaxRetries)
	require.Equal(t, now, n.ScheduledFor)
	require.Equal(t, 0, n.RetryCount)
	require.Equal(t, "Your reservation is ready: Dune", n.Subject)
	require.NotEmpty(t, n.BodyText)
	require.NotEmpty(t, n.BodyHTML)

	later := now.Add(time.Hour)
	n, err = Build(model.EnqueueRequest{
		PatronID:         3,
		EmailType:        model.EmailFineNotice,
		RecipientAddress: "p3@example.com",
		Subject:          "custom",
		BodyText:         "body",
		Priority:         1,
		MaxRetries:       5,
		ScheduledFor:     &later,
	}, now)
	require.NoError(t, err)
	require.Equal(t, "custom", n.Subject)
	require.Equal(t, "body", n.BodyText)
	require.Equal(t, 1, n.Priority)
	require.Equal(t, 5, n.MaxRetries)
	require.Equal(t, later, n.ScheduledFor)

	_, err = Build(model.EnqueueRequest{EmailType: "newsletter"}, now)
	require.ErrorIs(t, err, errs.ErrInvalidEmailType)
}

func TestService_EnqueueAndRecentlyNotified(t *testing.T) {
	svc, store := newService()
	ctx := context.Background()
	copyID := int64(9)

	n, err := svc.Enqueue(ctx, model.EnqueueRequest{
		PatronID:         1,
		EmailType:        model.EmailOverdueReminder,
		RecipientAddress: "a@example.com",
		Facts:            model.Facts{ItemTitle: "Dune", DaysOverdue: 2},
		ItemCopyID:       &copyID,
	})
	require.NoError(t, err)
	require.Len(t, store.Notifications(), 1)
	require.Equal(t, n.ID, store.Notifications()[0].ID)

	ok, err := svc.RecentlyNotified(ctx, 1, model.EmailOverdueReminder, copyID, time.Hour)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = svc.RecentlyNotified(ctx, 1, model.EmailOverdueReminder, copyID+1, time.Hour)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestService_Retry(t *testing.T) {
	svc, store := newService()
	ctx := context.Background()
	msg := "smtp down"

	failed := model.Notification{
		ID: uuid.New(), PatronID: 1, EmailType: model.EmailFineNotice, Status: model.NotificationFailed,
		RetryCount: 3, MaxRetries: 3, ErrorMessage: &msg, CreatedAt: now.Add(-time.Hour),
	}
	sent := model.Notification{
		ID: uuid.New(), PatronID: 1, EmailType: model.EmailFineNotice, Status: model.NotificationSent,
		MaxRetries: 3, CreatedAt: now.Add(-time.Hour),
	}
	store.PutNotification(failed)
	store.PutNotification(sent)

	n, err := svc.Retry(ctx, failed.ID)
	require.NoError(t, err)
	require.Equal(t, model.NotificationPending, n.Status)
	require.Equal(t, 0, n.RetryCount)
	require.Equal(t, now, n.ScheduledFor)
	require.Nil(t, n.ErrorMessage)

	_, err = svc.Retry(ctx, sent.ID)
	require.ErrorIs(t, err, errs.ErrNotRetryable)

	_, err = svc.Retry(ctx, uuid.New())
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestService_CancelPending(t *testing.T) {
	svc, store := newService()
	ctx := context.Background()

	resID := int64(5)
	for i := 0; i < 3; i++ {
		req := model.EnqueueRequest{
			PatronID: int64(i%2 + 1), EmailType: model.EmailReservationReady,
			RecipientAddress: "x@example.com", Subject: "s",
		}
		if i == 0 {
			req.ReservationID = &resID
		}
		_, err := svc.Enqueue(ctx, req)
		require.NoError(t, err)
	}

	_, err := svc.CancelPending(ctx, model.CancelFilter{})
	require.ErrorIs(t, err, errs.ErrInvalidRequest)

	n, err := svc.CancelPending(ctx, model.CancelFilter{ReservationID: &resID})
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	patron := int64(2)
	n, err = svc.CancelPending(ctx, model.CancelFilter{PatronID: &patron})
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, stats.ByStatus[model.NotificationCancelled])
	require.Equal(t, 1, stats.ByStatus[model.NotificationPending])
	require.Equal(t, 1, stats.DuePending)
	require.Len(t, store.Notifications(), 3)
}
