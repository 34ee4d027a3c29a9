package email

import (
	"errors"
	"fmt"
	"net"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyResend(t *testing.T) {
	cases := []struct {
		msg  string
		want error
	}{
		{"[ERROR]: The example.org domain is not verified. Please, add and verify your domain on https://resend.com/domains", ErrDomainNotVerified},
		{"[ERROR]: API key is invalid", ErrInvalidConfiguration},
		{"[ERROR]: Missing API key in the authorization header.", ErrInvalidConfiguration},
		{"[ERROR]: You can only send testing emails to your own email address", ErrAccessDenied},
		{"[ERROR]: 403 Forbidden", ErrAccessDenied},
		{"[ERROR]: internal server error", ErrDeliveryFailed},
	}
	for _, tc := range cases {
		err := classifyResend(errors.New(tc.msg))
		assert.ErrorIs(t, err, tc.want, tc.msg)
	}
	assert.NoError(t, classifyResend(nil))
}

func TestClassifySMTP(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want error
	}{
		{"auth", &textproto.Error{Code: 535, Msg: "5.7.8 Username and Password not accepted"}, ErrInvalidConfiguration},
		{"domain", &textproto.Error{Code: 550, Msg: "5.7.1 Sender domain is not verified"}, ErrDomainNotVerified},
		{"relay", &textproto.Error{Code: 554, Msg: "5.7.1 Relay access denied"}, ErrAccessDenied},
		{"busy", &textproto.Error{Code: 451, Msg: "try again later"}, ErrDeliveryFailed},
		{"dial", &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}, ErrInvalidConfiguration},
		{"wrapped", fmt.Errorf("send: %w", &textproto.Error{Code: 535, Msg: "bad"}), ErrInvalidConfiguration},
		{"other", errors.New("eof"), ErrDeliveryFailed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, classifySMTP(tc.err), tc.want)
		})
	}
}

func TestDeliveryErrorUnwrapsBoth(t *testing.T) {
	cause := errors.New("boom")
	err := classified(ProviderSMTP, ErrAccessDenied, cause)

	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "smtp: email_access_denied: boom", err.Error())

	var de *DeliveryError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "email_access_denied", de.MetricReason())
}

func TestUserMessageIsDistinctPerClass(t *testing.T) {
	seen := map[string]bool{}
	for _, kind := range []error{ErrDomainNotVerified, ErrAccessDenied, ErrInvalidConfiguration, ErrDeliveryFailed} {
		msg := UserMessage(fmt.Errorf("mail: %w", classified(ProviderResend, kind, nil)))
		require.NotEmpty(t, msg)
		assert.False(t, seen[msg], "duplicate message for %v", kind)
		seen[msg] = true
	}
	assert.Contains(t, UserMessage(ErrDomainNotVerified), "not verified")
	assert.Empty(t, UserMessage(errors.New("unrelated")))
}

func TestMaskAddress(t *testing.T) {
	assert.Equal(t, "a***@example.com", MaskAddress("ada@example.com"))
	assert.Equal(t, "***", MaskAddress("not-an-address"))
	assert.Equal(t, "***", MaskAddress("@example.com"))
}
