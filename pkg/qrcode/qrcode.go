package qrcode

import (
	"encoding/base64"
	"errors"

	"github.com/skip2/go-qrcode"
)

// ErrEmptyContent is returned when content is empty.
var ErrEmptyContent = errors.New("qrcode: content must not be empty")

const defaultSize = 256

// Generate encodes content as a PNG QR code at size x size pixels using
// medium error correction. size <= 0 uses defaultSize.
func Generate(content string, size int) ([]byte, error) {
	if content == "" {
		return nil, ErrEmptyContent
	}
	if size <= 0 {
		size = defaultSize
	}
	return qrcode.Encode(content, qrcode.Medium, size)
}

// GenerateBase64Image encodes content as a QR code and returns it as a
// data: URI suitable for direct use in an HTML <img> src attribute.
func GenerateBase64Image(content string, size int) (string, error) {
	png, err := Generate(content, size)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
