package erasite

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/xid"
	"golang.org/x/image/draw"

	"github.com/eringen/erasite/apperror"
)

const (
	jpegQuality   = 85
	maxUploadSize = 10 << 20 // 10MB
	imagesSubdir  = "images"
)

var allowedImageExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

// saveUpload stores the optional "image" file of a multipart request under
// <static>/images and returns its public URL. It returns "" when the request
// carries no file.
func (a *App) saveUpload(c echo.Context) (string, error) {
	if !strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		return "", nil
	}
	file, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", nil
		}
		return "", apperror.ValidationFailed("image", msgBadRequest)
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageExt[ext] {
		return "", apperror.ValidationFailed("image", msgOnlyImages)
	}
	if file.Size > maxUploadSize {
		return "", apperror.ValidationFailed("image", msgImageTooLarge)
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	data, err := processUpload(src, ext, a.Config.MaxImageWidth)
	if err != nil {
		c.Logger().Warnf("rejected upload %q: %v", file.Filename, err)
		return "", apperror.ValidationFailed("image", msgOnlyImages)
	}

	dir := filepath.Join(a.Config.StaticDir, imagesSubdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create images dir: %w", err)
	}
	name := xid.New().String() + ext
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}
	return "/" + imagesSubdir + "/" + name, nil
}

// processUpload checks that src really is an image of the kind ext claims
// and shrinks JPEG and PNG files wider than maxWidth. GIFs are kept as is so
// animations survive.
func processUpload(src io.Reader, ext string, maxWidth int) ([]byte, error) {
	raw, err := io.ReadAll(io.LimitReader(src, maxUploadSize+1))
	if err != nil {
		return nil, err
	}
	if len(raw) > maxUploadSize {
		return nil, fmt.Errorf("image exceeds %d bytes", maxUploadSize)
	}

	if ext == ".gif" {
		if _, err := gif.DecodeConfig(bytes.NewReader(raw)); err != nil {
			return nil, fmt.Errorf("decode gif: %w", err)
		}
		return raw, nil
	}

	img, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	if format != "jpeg" && format != "png" {
		return nil, fmt.Errorf("unexpected format %s", format)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if maxWidth <= 0 || w <= maxWidth {
		return raw, nil
	}

	newH := h * maxWidth / w
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	switch format {
	case "png":
		err = png.Encode(&buf, dst)
	default:
		err = jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality})
	}
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", format, err)
	}
	return buf.Bytes(), nil
}

// placeholderImages are written by init-db so the seeded eras have pictures.
var placeholderImages = map[string]color.RGBA{
	"default.jpg": {R: 0x44, G: 0x44, B: 0x55, A: 0xff},
	"arcade.jpg":  {R: 0xc0, G: 0x39, B: 0x2b, A: 0xff},
	"console.jpg": {R: 0x29, G: 0x80, B: 0xb9, A: 0xff},
	"modern.jpg":  {R: 0x27, G: 0xae, B: 0x60, A: 0xff},
}

// WritePlaceholderImages creates solid colour JPEGs under <staticDir>/images
// for every placeholder that does not exist yet.
func WritePlaceholderImages(staticDir string) error {
	dir := filepath.Join(staticDir, imagesSubdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for name, fill := range placeholderImages {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			continue
		}
		img := image.NewRGBA(image.Rect(0, 0, 800, 450))
		draw.Draw(img, img.Bounds(), &image.Uniform{C: fill}, image.Point{}, draw.Src)
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
			return fmt.Errorf("encode %s: %w", name, err)
		}
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
	}
	return nil
}
