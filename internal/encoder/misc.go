// Package encoder содержит примитив повторного кодирования.
package encoder

import (
	"bytes"
	"image"
	"image/gif"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/artemshloyda/imgconvert/internal/catalog"
)

// gifEncoder кодирует в GIF стандартной библиотекой.
// Палитровый формат: качество игнорируется.
type gifEncoder struct{}

func (e *gifEncoder) MimeType() string  { return catalog.MimeGIF }
func (e *gifEncoder) Extension() string { return "gif" }
func (e *gifEncoder) Available() bool   { return true }

func (e *gifEncoder) Encode(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := gif.Encode(&buf, img, nil); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// tiffEncoder кодирует в TIFF с deflate-сжатием.
type tiffEncoder struct{}

func (e *tiffEncoder) MimeType() string  { return catalog.MimeTIFF }
func (e *tiffEncoder) Extension() string { return "tiff" }
func (e *tiffEncoder) Available() bool   { return true }

func (e *tiffEncoder) Encode(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	opts := &tiff.Options{Compression: tiff.Deflate}
	if err := tiff.Encode(&buf, img, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// bmpEncoder кодирует в BMP.
type bmpEncoder struct{}

func (e *bmpEncoder) MimeType() string  { return catalog.MimeBMP }
func (e *bmpEncoder) Extension() string { return "bmp" }
func (e *bmpEncoder) Available() bool   { return true }

func (e *bmpEncoder) Encode(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := bmp.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
