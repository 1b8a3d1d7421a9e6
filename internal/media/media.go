// Package media sniffs image bytes and stores profile images.
package media

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

var ErrNotImage = errors.New("data is not an image")

// DetectImage returns the MIME type of data, or ErrNotImage.
func DetectImage(data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrNotImage
	}
	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return "", ErrNotImage
	}
	return mt.String(), nil
}

// ImageStore keeps a profile image and hands back the URL that refers to it.
// Remove takes a URL returned by Put and ignores URLs the store did not issue.
type ImageStore interface {
	Put(ctx context.Context, key string, data []byte) (string, error)
	Remove(ctx context.Context, url string) error
}

// InlineStore embeds the image in a data: URL, so the profile record carries
// the bytes itself and nothing needs removing.
type InlineStore struct{}

func (InlineStore) Put(_ context.Context, _ string, data []byte) (string, error) {
	contentType, err := DetectImage(data)
	if err != nil {
		return "", err
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

func (InlineStore) Remove(context.Context, string) error { return nil }

// DecodeDataURL returns the bytes of a base64 data: URL.
func DecodeDataURL(url string) ([]byte, string, error) {
	rest, ok := strings.CutPrefix(url, "data:")
	if !ok {
		return nil, "", errors.New("not a data URL")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, "", errors.New("malformed data URL")
	}
	contentType, isBase64 := strings.CutSuffix(meta, ";base64")
	if !isBase64 {
		return nil, "", errors.New("data URL is not base64")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", err
	}
	return data, contentType, nil
}
