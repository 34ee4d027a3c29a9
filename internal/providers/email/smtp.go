package email

import (
	"bytes"
	"context"
	"fmt"
	"net/smtp"

	"github.com/domodwyer/mailyak/v3"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
}

type SMTPSender struct {
	cfg SMTPConfig
}

func NewSMTP(cfg SMTPConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

func (s *SMTPSender) Name() string { return ProviderSMTP }

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return classified(ProviderSMTP, ErrDeliveryFailed, err)
	}
	if err := s.compose(msg).Send(); err != nil {
		return classifySMTP(err)
	}
	return nil
}

func (s *SMTPSender) compose(msg Message) *mailyak.MailYak {
	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	mail := mailyak.New(fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port), auth)
	mail.To(msg.To...)
	mail.From(msg.From)
	mail.FromName(msg.FromName)
	mail.Subject(msg.Subject)
	mail.HTML().Set(msg.HTML)
	if msg.Text != "" {
		mail.Plain().Set(msg.Text)
	}
	for _, a := range msg.Attachments {
		if a.ContentType != "" {
			mail.AttachWithMimeType(a.Filename, bytes.NewReader(a.Content), a.ContentType)
			continue
		}
		mail.Attach(a.Filename, bytes.NewReader(a.Content))
	}
	return mail
}
