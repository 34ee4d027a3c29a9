// Package qrcode renders verification URLs into PNG images.
package qrcode

import (
	"encoding/base64"
	"errors"
	"strings"

	goqrcode "github.com/skip2/go-qrcode"
)

const DefaultSize = 256

var ErrEmptyContent = errors.New("qrcode_empty_content")

type Encoder struct {
	Size  int
	Level goqrcode.RecoveryLevel
}

func NewEncoder() *Encoder {
	return &Encoder{Size: DefaultSize, Level: goqrcode.Medium}
}

// PNG returns the QR image as an in-memory PNG buffer.
func (e *Encoder) PNG(content string) ([]byte, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyContent
	}
	size := e.Size
	if size <= 0 {
		size = DefaultSize
	}
	return goqrcode.Encode(content, e.Level, size)
}

// DataURL returns the QR image as a base64 data URL for inline display.
func (e *Encoder) DataURL(content string) (string, error) {
	png, err := e.PNG(content)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
