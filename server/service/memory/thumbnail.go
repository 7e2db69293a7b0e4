package memory

import (
	"bytes"
	"context"
	"encoding/base64"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	"golang.org/x/sync/semaphore"
)

const (
	thumbnailSize = 320
	// maxConcurrentResizes bounds memory use: decoded images are large and
	// the list endpoint can ask for many at once.
	maxConcurrentResizes = 4
)

// Thumbnailer downscales memory art for list views. Input and output are
// base64 data URLs, the format memory images are stored in.
type Thumbnailer struct {
	sem *semaphore.Weighted
}

func NewThumbnailer() *Thumbnailer {
	return &Thumbnailer{
		sem: semaphore.NewWeighted(maxConcurrentResizes),
	}
}

// Thumbnail returns a JPEG data URL at most thumbnailSize pixels on the
// longest side. The aspect ratio is preserved.
func (t *Thumbnailer) Thumbnail(ctx context.Context, dataURL string) (string, error) {
	if err := t.sem.Acquire(ctx, 1); err != nil {
		return "", errors.Wrap(err, "failed to acquire resize slot")
	}
	defer t.sem.Release(1)

	raw, err := decodeDataURL(dataURL)
	if err != nil {
		return "", err
	}

	src, err := imaging.Decode(bytes.NewReader(raw))
	if err != nil {
		return "", errors.Wrap(err, "failed to decode image")
	}

	thumb := imaging.Fit(src, thumbnailSize, thumbnailSize, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG, imaging.JPEGQuality(80)); err != nil {
		return "", errors.Wrap(err, "failed to encode thumbnail")
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func decodeDataURL(dataURL string) ([]byte, error) {
	_, payload, ok := strings.Cut(dataURL, ";base64,")
	if !ok {
		return nil, errors.New("not a base64 data URL")
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode data URL payload")
	}
	return raw, nil
}
