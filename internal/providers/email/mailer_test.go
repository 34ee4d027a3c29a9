package email

import (
	"context"
	"errors"
	"testing"

	"github.com/resend/resend-go/v2"
	"github.com/smallbiznis/clubhouse/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingSender struct {
	sent []Message
	err  error
}

func (r *recordingSender) Name() string { return "recording" }

func (r *recordingSender) Send(_ context.Context, msg Message) error {
	r.sent = append(r.sent, msg)
	return r.err
}

func sampleConfirmation() Confirmation {
	return Confirmation{
		To:               "ada@example.com",
		Organization:     "Clubhouse",
		Name:             "Ada",
		School:           "Tech High",
		Email:            "ada@example.com",
		ParentsPhone:     "01712345678",
		RegistrationCode: "REG-20261018-AB12C",
		BookingID:        "1849",
		EventTitle:       "Science Fair",
		EventDate:        "19 Oct 2026",
		Venue:            "Main Hall",
		VerificationURL:  "https://club.example/verify-booking?registrationId=REG-20261018-AB12C&bookingId=1849",
		ArtifactURL:      "https://cdn.example/booking.pdf",
		Attachment:       []byte("%PDF-1.3"),
	}
}

func TestSendConfirmationComposesMessage(t *testing.T) {
	sender := &recordingSender{}
	mailer := NewMailer(sender, MailerConfig{From: "events@club.example", FromName: "Clubhouse"}, nil, zap.NewNop())

	require.NoError(t, mailer.SendConfirmation(context.Background(), sampleConfirmation()))
	require.Len(t, sender.sent, 1)

	msg := sender.sent[0]
	assert.Equal(t, []string{"ada@example.com"}, msg.To)
	assert.Equal(t, "Your registration for Science Fair is confirmed", msg.Subject)
	assert.Contains(t, msg.HTML, "REG-20261018-AB12C")
	assert.Contains(t, msg.HTML, "Main Hall")
	assert.Contains(t, msg.HTML, "https://cdn.example/booking.pdf")
	assert.Contains(t, msg.HTML, "registrationId=REG-20261018-AB12C&amp;bookingId=1849")
	assert.NotContains(t, msg.HTML, "Time</strong>")
	assert.Contains(t, msg.Text, "Registration code: REG-20261018-AB12C")
	require.Len(t, msg.Attachments, 1)
	assert.Equal(t, "booking-REG-20261018-AB12C.pdf", msg.Attachments[0].Filename)
	assert.Equal(t, "application/pdf", msg.Attachments[0].ContentType)
}

func TestSendConfirmationEscapesHTML(t *testing.T) {
	sender := &recordingSender{}
	mailer := NewMailer(sender, MailerConfig{From: "events@club.example"}, nil, nil)

	c := sampleConfirmation()
	c.Name = "<script>alert(1)</script>"
	require.NoError(t, mailer.SendConfirmation(context.Background(), c))
	assert.NotContains(t, sender.sent[0].HTML, "<script>")
}

func TestSendConfirmationCustomSubject(t *testing.T) {
	sender := &recordingSender{}
	mailer := NewMailer(sender, MailerConfig{From: "events@club.example", Subject: "Booking received"}, nil, nil)

	c := sampleConfirmation()
	c.Attachment = nil
	require.NoError(t, mailer.SendConfirmation(context.Background(), c))
	assert.Equal(t, "Booking received", sender.sent[0].Subject)
	assert.Empty(t, sender.sent[0].Attachments)
}

func TestSendConfirmationMissingFrom(t *testing.T) {
	sender := &recordingSender{}
	mailer := NewMailer(sender, MailerConfig{}, nil, nil)

	err := mailer.SendConfirmation(context.Background(), sampleConfirmation())
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
	assert.Empty(t, sender.sent)
}

func TestSendConfirmationPropagatesClassifiedError(t *testing.T) {
	sender := &recordingSender{err: classifyResend(errors.New("The club.example domain is not verified"))}
	mailer := NewMailer(sender, MailerConfig{From: "events@club.example"}, nil, nil)

	err := mailer.SendConfirmation(context.Background(), sampleConfirmation())
	assert.ErrorIs(t, err, ErrDomainNotVerified)
}

func TestNewFromConfigWithoutCredentials(t *testing.T) {
	mailer := NewFromConfig(Params{
		Config: config.Config{Email: config.EmailConfig{Provider: config.EmailProviderResend, From: "events@club.example"}},
		Log:    zap.NewNop(),
	})

	err := mailer.SendConfirmation(context.Background(), sampleConfirmation())
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}

type fakeResend struct {
	req  *resend.SendEmailRequest
	resp *resend.SendEmailResponse
	err  error
}

func (f *fakeResend) SendWithContext(_ context.Context, req *resend.SendEmailRequest) (*resend.SendEmailResponse, error) {
	f.req = req
	return f.resp, f.err
}

func TestResendSender(t *testing.T) {
	api := &fakeResend{resp: &resend.SendEmailResponse{Id: "re_123"}}
	sender := NewResend(api)

	err := sender.Send(context.Background(), Message{
		To:          []string{"ada@example.com"},
		From:        "events@club.example",
		FromName:    "Clubhouse",
		Subject:     "hi",
		HTML:        "<p>hi</p>",
		Attachments: []Attachment{{Filename: "a.pdf", Content: []byte("x")}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Clubhouse <events@club.example>", api.req.From)
	require.Len(t, api.req.Attachments, 1)
	assert.Equal(t, "a.pdf", api.req.Attachments[0].Filename)
}

func TestResendSenderClassifiesFailure(t *testing.T) {
	sender := NewResend(&fakeResend{err: errors.New("[ERROR]: API key is invalid")})
	err := sender.Send(context.Background(), Message{To: []string{"a@b.c"}})
	assert.ErrorIs(t, err, ErrInvalidConfiguration)

	sender = NewResend(&fakeResend{resp: &resend.SendEmailResponse{}})
	err = sender.Send(context.Background(), Message{To: []string{"a@b.c"}})
	assert.ErrorIs(t, err, ErrDeliveryFailed)
}
