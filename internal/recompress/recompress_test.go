package recompress

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/disintegration/imaging"
)

// encodePNG возвращает PNG-байты синтетического изображения w x h.
func encodePNG(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode() error = %v", err)
	}
	return buf.Bytes()
}

func TestRecompress_FitsLongestSide(t *testing.T) {
	r := New()

	// 400x100 с ограничением 200px по большей стороне -> 200x50.
	data := encodePNG(t, 400, 100, color.NRGBA{R: 200, A: 255})

	res, err := r.Recompress(context.Background(), data, 1, 200)
	if err != nil {
		t.Fatalf("Recompress() error = %v", err)
	}

	if res.Width != 200 || res.Height != 50 {
		t.Errorf("размеры = %dx%d, want 200x50", res.Width, res.Height)
	}
}

func TestRecompress_SmallImageNotUpscaled(t *testing.T) {
	r := New()

	data := encodePNG(t, 40, 30, color.NRGBA{G: 120, A: 255})

	res, err := r.Recompress(context.Background(), data, 1, 1920)
	if err != nil {
		t.Fatalf("Recompress() error = %v", err)
	}

	if res.Width != 40 || res.Height != 30 {
		t.Errorf("размеры = %dx%d, want 40x30 (без растягивания)", res.Width, res.Height)
	}
}

func TestRecompress_OpaqueProducesJPEG(t *testing.T) {
	r := New()

	data := encodePNG(t, 64, 64, color.NRGBA{B: 255, A: 255})

	res, err := r.Recompress(context.Background(), data, 1, 1920)
	if err != nil {
		t.Fatalf("Recompress() error = %v", err)
	}

	if res.Mime != "image/jpeg" {
		t.Errorf("Mime = %q, want image/jpeg", res.Mime)
	}
	if res.Quality < floorQuality || res.Quality > startQuality {
		t.Errorf("Quality = %d вне диапазона [%d, %d]", res.Quality, floorQuality, startQuality)
	}

	// Промежуточное изображение должно декодироваться обратно.
	img, err := r.Decode(res.Data)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if img.Bounds().Dx() != 64 {
		t.Errorf("ширина после Decode = %d, want 64", img.Bounds().Dx())
	}
}

func TestRecompress_AlphaProducesPNG(t *testing.T) {
	r := New()

	data := encodePNG(t, 64, 64, color.NRGBA{R: 255, A: 128})

	res, err := r.Recompress(context.Background(), data, 1, 1920)
	if err != nil {
		t.Fatalf("Recompress() error = %v", err)
	}

	if res.Mime != "image/png" {
		t.Errorf("Mime = %q, want image/png (альфа-канал)", res.Mime)
	}
}

func TestRecompress_ByteCapLowersQuality(t *testing.T) {
	r := New()

	// Шумное изображение плохо сжимается: крошечный лимит заставляет
	// спуститься по качеству до пола.
	img := image.NewNRGBA(image.Rect(0, 0, 256, 256))
	for y := 0; y < 256; y++ {
		for x := 0; x < 256; x++ {
			img.Set(x, y, color.NRGBA{
				R: uint8(x * 7 % 251),
				G: uint8(y * 13 % 239),
				B: uint8((x + y) * 31 % 233),
				A: 255,
			})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode() error = %v", err)
	}

	res, err := r.Recompress(context.Background(), buf.Bytes(), 0.001, 0)
	if err != nil {
		t.Fatalf("Recompress() error = %v", err)
	}

	if res.Quality != floorQuality {
		t.Errorf("Quality = %d, want %d (пол качества)", res.Quality, floorQuality)
	}
}

func TestRecompress_InvalidInput(t *testing.T) {
	r := New()

	_, err := r.Recompress(context.Background(), []byte("not an image"), 1, 1920)
	if err == nil {
		t.Error("Recompress() с мусором на входе должен вернуть ошибку")
	}
}

func TestRecompress_NotReady(t *testing.T) {
	var r Recompressor // нулевое значение - не инициализирован

	_, err := r.Recompress(context.Background(), nil, 1, 1920)
	if !errors.Is(err, ErrNotReady) {
		t.Errorf("Recompress() error = %v, want ErrNotReady", err)
	}
}

func TestRecompress_CancelledContext(t *testing.T) {
	r := New()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Recompress(ctx, encodePNG(t, 8, 8, color.NRGBA{A: 255}), 1, 1920)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Recompress() error = %v, want context.Canceled", err)
	}
}

func TestDecode_RoundTripThroughImaging(t *testing.T) {
	r := New()

	// Промежуточное JPEG, закодированное imaging, читается Decode.
	src := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, src, imaging.JPEG, imaging.JPEGQuality(80)); err != nil {
		t.Fatalf("imaging.Encode() error = %v", err)
	}

	img, err := r.Decode(buf.Bytes())
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if img.Bounds().Dx() != 10 || img.Bounds().Dy() != 10 {
		t.Errorf("размеры = %v, want 10x10", img.Bounds())
	}
}
