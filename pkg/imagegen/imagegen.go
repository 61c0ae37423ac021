package imagegen

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"citystyle-be/pkg/utils"
)

// Unavailable is the single entry of an ImageSet when generation failed.
const Unavailable = "unavailable"

const (
	MaxPromptLength  = 1000
	truncatedPrompt  = 980
	truncationSuffix = "..."
)

var (
	ErrImageUnavailable = errors.New("image unavailable")
	ErrInvalidSize      = errors.New("unsupported image size")
	ErrInvalidCount     = errors.New("image count must be at least 1")
	ErrShortResult      = errors.New("provider returned fewer images than requested")
)

type Size string

const (
	Size256       Size = "256x256"
	Size512       Size = "512x512"
	Size1024      Size = "1024x1024"
	SizeLandscape Size = "1792x1024"
	SizePortrait  Size = "1024x1792"
)

func ParseSize(s string) (Size, error) {
	size := Size(strings.TrimSpace(s))
	if !size.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}
	return size, nil
}

func (s Size) Valid() bool {
	switch s {
	case Size256, Size512, Size1024, SizeLandscape, SizePortrait:
		return true
	}
	return false
}

// AspectRatio maps a pixel size onto the ratios image models accept.
func (s Size) AspectRatio() string {
	switch s {
	case SizeLandscape:
		return "16:9"
	case SizePortrait:
		return "9:16"
	default:
		return "1:1"
	}
}

// Image is one generated picture. Providers fill either Data or URL.
type Image struct {
	Data     []byte
	MIMEType string
	URL      string
}

type Provider interface {
	Generate(ctx context.Context, prompt string, count int, size Size) ([]Image, error)
}

// Publisher turns raw image bytes into a URL a browser can load.
type Publisher interface {
	Publish(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// InlinePublisher encodes images as data URIs. Used when no object storage is configured.
type InlinePublisher struct{}

func (InlinePublisher) Publish(_ context.Context, _ string, data []byte, contentType string) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty image data")
	}
	if contentType == "" {
		contentType = "image/png"
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// ImageSet is either exactly the requested number of URLs or the single
// Unavailable sentinel.
type ImageSet []string

func UnavailableSet() ImageSet {
	return ImageSet{Unavailable}
}

func (s ImageSet) Available() bool {
	return len(s) > 0 && !(len(s) == 1 && s[0] == Unavailable)
}

// TruncatePrompt keeps prompts within the provider limit.
func TruncatePrompt(prompt string) string {
	return utils.Truncate(prompt, MaxPromptLength, truncatedPrompt, truncationSuffix)
}

func extension(mimeType string) string {
	switch mimeType {
	case "image/jpeg":
		return "jpg"
	case "image/webp":
		return "webp"
	default:
		return "png"
	}
}
