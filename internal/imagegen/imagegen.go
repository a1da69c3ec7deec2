// Package imagegen turns a visual prompt into an image.
package imagegen

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
)

const DefaultMIMEType = "image/png"

var (
	// ErrDisabled is returned when no image provider is configured.
	ErrDisabled = errors.New("image generation disabled")
	// ErrNoImage is returned when the provider answers without image bytes.
	ErrNoImage = errors.New("no image generated")
)

// Image is one generated picture.
type Image struct {
	Bytes    []byte
	MIMEType string
}

// Generator produces an image for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (Image, error)
	Model() string
}

// Disabled is the generator used when the provider key is missing.
type Disabled struct{}

func (Disabled) Generate(ctx context.Context, prompt string) (Image, error) {
	return Image{}, ErrDisabled
}

func (Disabled) Model() string { return "" }

// IsDisabled reports whether g can never produce an image.
func IsDisabled(g Generator) bool {
	if g == nil {
		return true
	}
	_, ok := g.(Disabled)
	return ok
}

// MIME returns the image MIME type, defaulting to PNG.
func (img Image) MIME() string {
	if m := strings.TrimSpace(img.MIMEType); m != "" {
		return m
	}
	return DefaultMIMEType
}

// DataURI renders img as a base64 data URI usable as a CSS background.
func DataURI(img Image) string {
	return "data:" + img.MIME() + ";base64," + base64.StdEncoding.EncodeToString(img.Bytes)
}

// Extension maps the image MIME type to a file extension.
func Extension(img Image) string {
	switch img.MIME() {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	default:
		return ".png"
	}
}

// ParseDataURI decodes a base64 data URI produced by DataURI.
func ParseDataURI(uri string) (Image, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return Image{}, errors.New("not a data URI")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return Image{}, errors.New("data URI without payload")
	}
	mime, ok := strings.CutSuffix(meta, ";base64")
	if !ok {
		return Image{}, errors.New("data URI is not base64 encoded")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return Image{}, err
	}
	return Image{Bytes: data, MIMEType: mime}, nil
}
