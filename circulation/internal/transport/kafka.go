package transport

import (
	"context"
	"encoding/json"
	"time"

	"github.com/IBM/sarama"
	"github.com/pkg/errors"

	"github.com/Astemirdum/library-circulation/circulation/internal/model"
)

// Message is the payload relayed to the notifications topic for an external mailer.
type Message struct {
	ID               string          `json:"id"`
	PatronID         int64           `json:"patronId"`
	EmailType        model.EmailType `json:"emailType"`
	RecipientAddress string          `json:"recipientAddress"`
	Subject          string          `json:"subject"`
	BodyText         string          `json:"bodyText"`
	BodyHTML         string          `json:"bodyHtml"`
	Priority         int             `json:"priority"`
	CreatedAt        time.Time       `json:"createdAt"`
}

type Kafka struct {
	producer sarama.SyncProducer
	topic    string
}

func NewKafka(producer sarama.SyncProducer, topic string) *Kafka {
	return &Kafka{producer: producer, topic: topic}
}

func (k *Kafka) Deliver(_ context.Context, n model.Notification) error {
	b, err := json.Marshal(Message{
		ID:               n.ID.String(),
		PatronID:         n.PatronID,
		EmailType:        n.EmailType,
		RecipientAddress: n.RecipientAddress,
		Subject:          n.Subject,
		BodyText:         n.BodyText,
		BodyHTML:         n.BodyHTML,
		Priority:         n.Priority,
		CreatedAt:        n.CreatedAt,
	})
	if err != nil {
		return err
	}
	_, _, err = k.producer.SendMessage(&sarama.ProducerMessage{
		Topic: k.topic,
		Key:   sarama.StringEncoder(n.ID.String()),
		Value: sarama.ByteEncoder(b),
		Headers: []sarama.RecordHeader{
			{Key: []byte("email_type"), Value: []byte(n.EmailType)},
		},
	})
	return errors.Wrap(err, "kafka send")
}
