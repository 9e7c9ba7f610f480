package render

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/png"
	"strings"
)

const pngDataURIPrefix = "data:image/png;base64,"

// ErrNotPNGDataURI is returned when decoding a string that is not a base64
// PNG data URI.
var ErrNotPNGDataURI = errors.New("not a png data uri")

// EncodeDataURI wraps PNG bytes into a data URI.
func EncodeDataURI(data []byte) string {
	return pngDataURIPrefix + base64.StdEncoding.EncodeToString(data)
}

// DecodeDataURI returns the PNG bytes of a data URI.
func DecodeDataURI(uri string) ([]byte, error) {
	if !strings.HasPrefix(uri, pngDataURIPrefix) {
		return nil, ErrNotPNGDataURI
	}

	data, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, pngDataURIPrefix))
	if err != nil {
		return nil, fmt.Errorf("decoding base64 payload: %w", err)
	}
	return data, nil
}

// DecodeImage decodes the image held by a PNG data URI.
func DecodeImage(uri string) (image.Image, error) {
	data, err := DecodeDataURI(uri)
	if err != nil {
		return nil, err
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding png: %w", err)
	}
	return img, nil
}
