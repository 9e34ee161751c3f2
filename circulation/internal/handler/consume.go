package handler

import (
	"context"
	"encoding/json"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-circulation/circulation/internal/errs"
	"github.com/Astemirdum/library-circulation/pkg/kafka"
)

type checkin func(ctx context.Context, event kafka.CheckinEvent) error

// Consumer turns check-in events into PromoteNext calls.
type Consumer struct {
	checkinHandler checkin
	log            *zap.Logger
	ready          chan bool
}

func NewConsumer(svc ReservationService, log *zap.Logger) *Consumer {
	return &Consumer{
		checkinHandler: func(ctx context.Context, event kafka.CheckinEvent) error {
			_, err := svc.PromoteNext(ctx, event.ItemCopyID)
			return err
		},
		log:   log.Named("consumer"),
		ready: make(chan bool),
	}
}

// Ready is closed once the first session is set up.
func (consumer *Consumer) Ready() <-chan bool {
	return consumer.ready
}

func (consumer *Consumer) Setup(sarama.ConsumerGroupSession) error {
	select {
	case <-consumer.ready:
	default:
		close(consumer.ready)
	}
	return nil
}

func (consumer *Consumer) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

func (consumer *Consumer) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				consumer.log.Warn("message channel was closed")
				return nil
			}
			var event kafka.CheckinEvent
			if err := json.Unmarshal(message.Value, &event); err != nil || event.ItemCopyID <= 0 {
				consumer.log.Error("bad checkin event", zap.ByteString("value", message.Value), zap.Error(err))
				session.MarkMessage(message, "")
				continue
			}

			if err := consumer.checkinHandler(session.Context(), event); err != nil {
				consumer.log.Error("consumer.checkinHandler", zap.Int64("copy", event.ItemCopyID), zap.Error(err))
				if errs.IsValidation(err) || errs.IsConflict(err) {
					session.MarkMessage(message, "")
				}
				continue
			}

			consumer.log.Debug("message claimed",
				zap.Int64("copy", event.ItemCopyID),
				zap.Time("timestamp", message.Timestamp),
				zap.String("topic", message.Topic))
			session.MarkMessage(message, "")
		case <-session.Context().Done():
			return nil
		}
	}
}
