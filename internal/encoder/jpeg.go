// Package encoder содержит примитив повторного кодирования.
package encoder

import (
	"bytes"
	"image"
	"image/jpeg"

	"github.com/artemshloyda/imgconvert/internal/catalog"
)

// jpegEncoder кодирует в JPEG стандартной библиотекой.
type jpegEncoder struct{}

func (e *jpegEncoder) MimeType() string  { return catalog.MimeJPEG }
func (e *jpegEncoder) Extension() string { return "jpg" }
func (e *jpegEncoder) Available() bool   { return true }

func (e *jpegEncoder) Encode(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: clampQuality(quality)}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
