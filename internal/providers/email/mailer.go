package email

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
	"time"

	obsmetrics "github.com/smallbiznis/clubhouse/internal/observability/metrics"
	"go.uber.org/zap"
)

//go:embed templates/*
var templateFS embed.FS

var (
	confirmationHTML = htmltemplate.Must(htmltemplate.ParseFS(templateFS, "templates/booking_confirmation.html"))
	confirmationText = texttemplate.Must(texttemplate.ParseFS(templateFS, "templates/booking_confirmation.txt"))
)

// Confirmation is the template data of a booking confirmation email.
type Confirmation struct {
	To               string
	Organization     string
	Name             string
	School           string
	Email            string
	Phone            string
	ParentsPhone     string
	RegistrationCode string
	BookingID        string
	EventTitle       string
	EventDate        string
	EventTime        string
	Venue            string
	VerificationURL  string
	ArtifactURL      string

	// Attachment is the rendered certificate; omitted when empty.
	Attachment []byte
}

type Mailer interface {
	SendConfirmation(ctx context.Context, c Confirmation) error
}

type MailerConfig struct {
	From     string
	FromName string
	// Subject may contain one %s for the event title.
	Subject string
}

type ConfirmationMailer struct {
	sender  Sender
	cfg     MailerConfig
	metrics *obsmetrics.SagaMetrics
	log     *zap.Logger
}

func NewMailer(sender Sender, cfg MailerConfig, metrics *obsmetrics.SagaMetrics, log *zap.Logger) *ConfirmationMailer {
	if log == nil {
		log = zap.NewNop()
	}
	return &ConfirmationMailer{
		sender:  sender,
		cfg:     cfg,
		metrics: metrics,
		log:     log.Named("email"),
	}
}

func (m *ConfirmationMailer) SendConfirmation(ctx context.Context, c Confirmation) error {
	msg, err := m.compose(c)
	if err != nil {
		return err
	}

	start := time.Now()
	err = m.sender.Send(ctx, msg)
	m.metrics.RecordEmailSend(m.sender.Name(), err)
	if err != nil {
		m.log.Warn("confirmation email failed",
			zap.String("provider", m.sender.Name()),
			zap.String("to", MaskAddress(c.To)),
			zap.String("booking_id", c.BookingID),
			zap.Error(err),
		)
		return err
	}

	m.log.Info("confirmation email sent",
		zap.String("provider", m.sender.Name()),
		zap.String("to", MaskAddress(c.To)),
		zap.String("booking_id", c.BookingID),
		zap.Duration("duration", time.Since(start)),
	)
	return nil
}

func (m *ConfirmationMailer) compose(c Confirmation) (Message, error) {
	if strings.TrimSpace(m.cfg.From) == "" {
		return Message{}, classified(m.sender.Name(), ErrInvalidConfiguration, fmt.Errorf("sender address is not set"))
	}
	if strings.TrimSpace(c.To) == "" {
		return Message{}, classified(m.sender.Name(), ErrDeliveryFailed, fmt.Errorf("recipient is required"))
	}

	var html, text bytes.Buffer
	if err := confirmationHTML.Execute(&html, c); err != nil {
		return Message{}, fmt.Errorf("render confirmation html: %w", err)
	}
	if err := confirmationText.Execute(&text, c); err != nil {
		return Message{}, fmt.Errorf("render confirmation text: %w", err)
	}

	msg := Message{
		To:       []string{c.To},
		From:     m.cfg.From,
		FromName: m.cfg.FromName,
		Subject:  m.subject(c.EventTitle),
		HTML:     html.String(),
		Text:     text.String(),
	}
	if len(c.Attachment) > 0 {
		msg.Attachments = append(msg.Attachments, Attachment{
			Filename:    "booking-" + c.RegistrationCode + ".pdf",
			ContentType: "application/pdf",
			Content:     c.Attachment,
		})
	}
	return msg, nil
}

func (m *ConfirmationMailer) subject(title string) string {
	subject := m.cfg.Subject
	if subject == "" {
		subject = "Your registration for %s is confirmed"
	}
	if strings.Contains(subject, "%s") {
		return fmt.Sprintf(subject, title)
	}
	return subject
}

// unconfigured fails every send so a missing provider surfaces as a
// registration failure instead of a silent drop.
type unconfigured struct {
	reason string
}

func (u unconfigured) Name() string { return "unconfigured" }

func (u unconfigured) Send(context.Context, Message) error {
	return classified(u.Name(), ErrInvalidConfiguration, fmt.Errorf("%s", u.reason))
}
