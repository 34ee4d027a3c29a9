package qrcode

import (
	"bytes"
	"encoding/base64"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const verifyURL = "https://club.example.com/verify-booking?registrationId=REG-20261018-AB12C&bookingId=42"

func TestPNGDecodes(t *testing.T) {
	enc := NewEncoder()

	buf, err := enc.PNG(verifyURL)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(buf))
	require.NoError(t, err)
	assert.Equal(t, DefaultSize, img.Bounds().Dx())
}

func TestDataURLWrapsSamePNG(t *testing.T) {
	enc := NewEncoder()

	url, err := enc.DataURL(verifyURL)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "data:image/png;base64,"))

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(url, "data:image/png;base64,"))
	require.NoError(t, err)

	direct, err := enc.PNG(verifyURL)
	require.NoError(t, err)
	assert.Equal(t, direct, raw)
}

func TestEmptyContent(t *testing.T) {
	_, err := NewEncoder().PNG("   ")
	assert.ErrorIs(t, err, ErrEmptyContent)
}
