package email

import (
	"context"
	"strings"
)

const (
	ProviderResend = "resend"
	ProviderSMTP   = "smtp"
)

// Attachment is a file sent alongside the message body.
type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

type Message struct {
	To          []string
	From        string
	FromName    string
	Subject     string
	HTML        string
	Text        string
	Attachments []Attachment
}

// Sender delivers one composed message. Implementations return a
// *DeliveryError on failure.
type Sender interface {
	Name() string
	Send(ctx context.Context, msg Message) error
}

// MaskAddress keeps the first character of the local part and the domain.
func MaskAddress(addr string) string {
	at := strings.LastIndex(addr, "@")
	if at <= 0 {
		return "***"
	}
	return addr[:1] + "***" + addr[at:]
}
