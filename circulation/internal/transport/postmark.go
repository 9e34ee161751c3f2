package transport

import (
	"context"
	"fmt"

	"github.com/mrz1836/postmark"
	"github.com/pkg/errors"

	"github.com/Astemirdum/library-circulation/circulation/internal/model"
)

type PostmarkConfig struct {
	ServerToken  string
	AccountToken string
	From         string
	ReplyTo      string
}

type Postmark struct {
	client *postmark.Client
	cfg    PostmarkConfig
}

func NewPostmark(cfg PostmarkConfig) (*Postmark, error) {
	if cfg.ServerToken == "" {
		return nil, errors.Wrap(ErrInvalidConfig, "postmark server token is required")
	}
	if cfg.From == "" {
		return nil, errors.Wrap(ErrInvalidConfig, "sender address is required")
	}
	return &Postmark{
		client: postmark.NewClient(cfg.ServerToken, cfg.AccountToken),
		cfg:    cfg,
	}, nil
}

func (p *Postmark) Deliver(ctx context.Context, n model.Notification) error {
	resp, err := p.client.SendEmail(ctx, postmarkEmail(p.cfg, n))
	if err != nil {
		return errors.Wrap(err, "postmark send")
	}
	if resp.ErrorCode > 0 {
		return fmt.Errorf("postmark error: %d - %s", resp.ErrorCode, resp.Message)
	}
	return nil
}

func postmarkEmail(cfg PostmarkConfig, n model.Notification) postmark.Email {
	return postmark.Email{
		From:       cfg.From,
		ReplyTo:    cfg.ReplyTo,
		To:         n.RecipientAddress,
		Subject:    n.Subject,
		Tag:        string(n.EmailType),
		TextBody:   n.BodyText,
		HTMLBody:   n.BodyHTML,
		TrackOpens: true,
		Metadata: map[string]string{
			"notification_id": n.ID.String(),
			"patron_id":       fmt.Sprint(n.PatronID),
		},
	}
}
