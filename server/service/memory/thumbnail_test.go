package memory

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngDataURL(t *testing.T, width, height int) string {
	t.Helper()
	img := imaging.New(width, height, color.NRGBA{R: 200, G: 100, B: 50, A: 255})
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, imaging.PNG))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestThumbnailDownscales(t *testing.T) {
	tn := NewThumbnailer()

	out, err := tn.Thumbnail(context.Background(), pngDataURL(t, 1024, 768))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "data:image/jpeg;base64,"))

	raw, err := decodeDataURL(out)
	require.NoError(t, err)
	thumb, _, err := image.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.LessOrEqual(t, thumb.Bounds().Dx(), thumbnailSize)
	assert.LessOrEqual(t, thumb.Bounds().Dy(), thumbnailSize)
}

func TestThumbnailRejectsBadInput(t *testing.T) {
	tn := NewThumbnailer()

	_, err := tn.Thumbnail(context.Background(), "not a data url")
	assert.Error(t, err)

	_, err = tn.Thumbnail(context.Background(), "data:image/png;base64,!!!!")
	assert.Error(t, err)
}
