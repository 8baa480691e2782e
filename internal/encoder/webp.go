// Package encoder содержит примитив повторного кодирования.
package encoder

import (
	"bytes"
	"image"

	"github.com/chai2010/webp"

	"github.com/artemshloyda/imgconvert/internal/catalog"
)

// webpEncoder кодирует в WebP через chai2010/webp.
// golang.org/x/image/webp умеет только декодировать.
type webpEncoder struct{}

func (e *webpEncoder) MimeType() string  { return catalog.MimeWebP }
func (e *webpEncoder) Extension() string { return "webp" }
func (e *webpEncoder) Available() bool   { return true }

func (e *webpEncoder) Encode(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	opts := &webp.Options{Quality: float32(clampQuality(quality))}
	if err := webp.Encode(&buf, img, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
