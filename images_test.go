package erasite

import (
	"bytes"
	"image"
	"image/color/palette"
	"image/gif"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessUploadKeepsSmallImages(t *testing.T) {
	raw := testPNG(t, 40, 20)
	out, err := processUpload(bytes.NewReader(raw), ".png", 100)
	require.NoError(t, err)
	assert.Equal(t, raw, out)
}

func TestProcessUploadShrinksWideImages(t *testing.T) {
	var src bytes.Buffer
	require.NoError(t, jpeg.Encode(&src, image.NewRGBA(image.Rect(0, 0, 400, 200)), nil))

	out, err := processUpload(&src, ".jpg", 100)
	require.NoError(t, err)

	cfg, format, err := image.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 100, cfg.Width)
	assert.Equal(t, 50, cfg.Height)
}

func TestProcessUploadPassesGIFThrough(t *testing.T) {
	var src bytes.Buffer
	require.NoError(t, gif.Encode(&src, image.NewPaletted(image.Rect(0, 0, 500, 10), palette.Plan9), nil))
	raw := src.Bytes()

	out, err := processUpload(bytes.NewReader(raw), ".gif", 100)
	require.NoError(t, err)
	assert.Equal(t, raw, out)
}

func TestProcessUploadRejectsNonImages(t *testing.T) {
	_, err := processUpload(bytes.NewReader([]byte("not an image")), ".png", 100)
	assert.Error(t, err)

	_, err = processUpload(bytes.NewReader([]byte("GIF89a?")), ".gif", 100)
	assert.Error(t, err)
}

func TestWritePlaceholderImages(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WritePlaceholderImages(dir))

	for name := range placeholderImages {
		f, err := os.Open(filepath.Join(dir, imagesSubdir, name))
		require.NoError(t, err, name)
		_, format, err := image.DecodeConfig(f)
		f.Close()
		require.NoError(t, err, name)
		assert.Equal(t, "jpeg", format, name)
	}

	// existing files are left alone
	custom := filepath.Join(dir, imagesSubdir, "arcade.jpg")
	require.NoError(t, os.WriteFile(custom, []byte("mine"), 0o644))
	require.NoError(t, WritePlaceholderImages(dir))
	got, err := os.ReadFile(custom)
	require.NoError(t, err)
	assert.Equal(t, "mine", string(got))
}
