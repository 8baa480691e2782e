// Package encoder содержит примитив повторного кодирования.
package encoder

import (
	"bytes"
	"image"
	"image/png"

	"github.com/artemshloyda/imgconvert/internal/catalog"
)

// pngEncoder кодирует в PNG стандартной библиотекой.
// PNG без потерь: качество игнорируется.
type pngEncoder struct{}

func (e *pngEncoder) MimeType() string  { return catalog.MimePNG }
func (e *pngEncoder) Extension() string { return "png" }
func (e *pngEncoder) Available() bool   { return true }

func (e *pngEncoder) Encode(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
