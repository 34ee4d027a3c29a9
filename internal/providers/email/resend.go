package email

import (
	"context"
	"errors"
	"strings"

	"github.com/resend/resend-go/v2"
)

// ResendEmails is the subset of the Resend client used for delivery.
type ResendEmails interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

type ResendSender struct {
	emails ResendEmails
}

func NewResend(emails ResendEmails) *ResendSender {
	return &ResendSender{emails: emails}
}

func (s *ResendSender) Name() string { return ProviderResend }

func (s *ResendSender) Send(ctx context.Context, msg Message) error {
	req := &resend.SendEmailRequest{
		From:    fromHeader(msg.FromName, msg.From),
		To:      msg.To,
		Subject: msg.Subject,
		Html:    msg.HTML,
		Text:    msg.Text,
	}
	for _, a := range msg.Attachments {
		req.Attachments = append(req.Attachments, &resend.Attachment{
			Filename:    a.Filename,
			Content:     a.Content,
			ContentType: a.ContentType,
		})
	}

	resp, err := s.emails.SendWithContext(ctx, req)
	if err != nil {
		return classifyResend(err)
	}
	if resp == nil || strings.TrimSpace(resp.Id) == "" {
		return classified(ProviderResend, ErrDeliveryFailed, errors.New("provider returned no message id"))
	}
	return nil
}

func fromHeader(name, addr string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return addr
	}
	return name + " <" + addr + ">"
}
