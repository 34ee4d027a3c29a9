package email

import (
	"errors"
	"net"
	"net/textproto"
	"strings"
)

var (
	ErrDomainNotVerified    = errors.New("email_domain_not_verified")
	ErrAccessDenied         = errors.New("email_access_denied")
	ErrInvalidConfiguration = errors.New("email_invalid_configuration")
	ErrDeliveryFailed       = errors.New("email_delivery_failed")
)

var userMessages = map[error]string{
	ErrDomainNotVerified:    "We could not send your confirmation email because the sender domain is not verified with our email provider. Please contact the organizers.",
	ErrAccessDenied:         "We could not send your confirmation email because our email provider denied access. Please contact the organizers.",
	ErrInvalidConfiguration: "We could not send your confirmation email because the email service is not configured correctly. Please contact the organizers.",
	ErrDeliveryFailed:       "We could not send your confirmation email. Please try again later.",
}

// DeliveryError is a classified send failure. errors.Is matches both the
// class sentinel and the provider error.
type DeliveryError struct {
	Kind     error
	Provider string
	Err      error
}

func (e *DeliveryError) Error() string {
	msg := e.Provider + ": " + e.Kind.Error()
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DeliveryError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// UserMessage is safe to show to the registrant.
func (e *DeliveryError) UserMessage() string {
	if msg, ok := userMessages[e.Kind]; ok {
		return msg
	}
	return userMessages[ErrDeliveryFailed]
}

func (e *DeliveryError) MetricReason() string {
	return e.Kind.Error()
}

// UserMessage returns the registrant-facing text for a mail failure, or ""
// when err is not one.
func UserMessage(err error) string {
	var de *DeliveryError
	if errors.As(err, &de) {
		return de.UserMessage()
	}
	for kind, msg := range userMessages {
		if errors.Is(err, kind) {
			return msg
		}
	}
	return ""
}

func classified(provider string, kind, err error) error {
	return &DeliveryError{Kind: kind, Provider: provider, Err: err}
}

// classifyResend inspects the message text of a Resend API error.
func classifyResend(err error) error {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "domain") && strings.Contains(msg, "not verified"),
		strings.Contains(msg, "verify a domain"):
		return classified(ProviderResend, ErrDomainNotVerified, err)
	case strings.Contains(msg, "api key is invalid"),
		strings.Contains(msg, "missing api key"),
		strings.Contains(msg, "invalid `from`"),
		strings.Contains(msg, "invalid from"),
		strings.Contains(msg, "401"):
		return classified(ProviderResend, ErrInvalidConfiguration, err)
	case strings.Contains(msg, "403"),
		strings.Contains(msg, "forbidden"),
		strings.Contains(msg, "not authorized"),
		strings.Contains(msg, "only send testing emails"),
		strings.Contains(msg, "restricted"):
		return classified(ProviderResend, ErrAccessDenied, err)
	default:
		return classified(ProviderResend, ErrDeliveryFailed, err)
	}
}

// classifySMTP maps SMTP reply codes and dial failures onto the same classes.
func classifySMTP(err error) error {
	if err == nil {
		return nil
	}

	var protoErr *textproto.Error
	if errors.As(err, &protoErr) {
		msg := strings.ToLower(protoErr.Msg)
		switch protoErr.Code {
		case 530, 534, 535:
			return classified(ProviderSMTP, ErrInvalidConfiguration, err)
		case 550, 551, 553, 554:
			if strings.Contains(msg, "domain") && (strings.Contains(msg, "verif") || strings.Contains(msg, "not allowed")) {
				return classified(ProviderSMTP, ErrDomainNotVerified, err)
			}
			return classified(ProviderSMTP, ErrAccessDenied, err)
		}
		return classified(ProviderSMTP, ErrDeliveryFailed, err)
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return classified(ProviderSMTP, ErrInvalidConfiguration, err)
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return classified(ProviderSMTP, ErrInvalidConfiguration, err)
	}
	return classified(ProviderSMTP, ErrDeliveryFailed, err)
}
