// Package signature handles captured signature images: inline-encoded
// canvas bitmaps arrive as data URLs and are downscaled to small JPEGs
// before they are stored or written into the sheet. The domain treats
// signature references as opaque strings; all image work lives here.
package signature

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image/jpeg"
	"strings"

	"github.com/disintegration/imaging"
)

const (
	// Target dimensions match what the capture canvas produced; keeping
	// them fixed keeps sheet cell payloads small.
	targetWidth  = 200
	targetHeight = 100

	jpegQuality = 30

	// MaxEncodedSize caps inline payloads before decode.
	MaxEncodedSize = 5 * 1024 * 1024
)

var (
	// ErrNotDataURL indicates the payload is not an inline-encoded image.
	ErrNotDataURL = errors.New("not an inline image data URL")
	// ErrTooLarge indicates the inline payload exceeds MaxEncodedSize.
	ErrTooLarge = errors.New("signature payload too large")
)

// IsDataURL reports whether the reference is an inline-encoded image
// rather than a stored-file URL.
func IsDataURL(ref string) bool {
	return strings.HasPrefix(ref, "data:image/")
}

// DecodeDataURL extracts the raw image bytes from a data URL.
func DecodeDataURL(dataURL string) ([]byte, error) {
	if !IsDataURL(dataURL) {
		return nil, ErrNotDataURL
	}
	if len(dataURL) > MaxEncodedSize {
		return nil, ErrTooLarge
	}
	_, payload, found := strings.Cut(dataURL, ",")
	if !found || payload == "" {
		return nil, ErrNotDataURL
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode base64 payload: %w", err)
	}
	return data, nil
}

// Downscale re-encodes an inline signature as a low-resolution JPEG data
// URL. References that are not data URLs (already-stored file URLs) pass
// through untouched.
func Downscale(ref string) (string, error) {
	if !IsDataURL(ref) {
		return ref, nil
	}

	data, err := DecodeDataURL(ref)
	if err != nil {
		return "", err
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("decode signature image: %w", err)
	}

	resized := imaging.Resize(img, targetWidth, targetHeight, imaging.Lanczos)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return "", fmt.Errorf("encode jpeg: %w", err)
	}

	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
