package encoder

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/artemshloyda/imgconvert/internal/catalog"
)

// testImage возвращает маленькое непрозрачное изображение.
func testImage() image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x * 16), G: uint8(y * 16), B: 100, A: 255})
		}
	}
	return img
}

func TestRegistry_CoversStandardCatalog(t *testing.T) {
	// Каждый формат стандартного каталога должен иметь энкодер:
	// иначе каталог предлагал бы недостижимые цели.
	r := NewRegistry()

	for _, e := range catalog.Standard().Entries() {
		if !r.Supports(e.Mime) {
			t.Errorf("нет энкодера для формата каталога %s", e.Mime)
		}
	}
}

func TestRegistry_Encode(t *testing.T) {
	r := NewRegistry()
	img := testImage()

	// Сигнатуры форматов для проверки, что вывод действительно
	// в запрошенном формате, а не подменён.
	signatures := map[string][]byte{
		catalog.MimeJPEG: {0xff, 0xd8},
		catalog.MimePNG:  []byte("\x89PNG"),
		catalog.MimeWebP: []byte("RIFF"),
		catalog.MimeGIF:  []byte("GIF8"),
		catalog.MimeBMP:  []byte("BM"),
	}

	for _, mime := range r.SupportedMimes() {
		t.Run(mime, func(t *testing.T) {
			data, err := r.Encode(img, mime, 80)
			if err != nil {
				t.Fatalf("Encode(%s) error = %v", mime, err)
			}
			if len(data) == 0 {
				t.Fatalf("Encode(%s) вернул пустой результат", mime)
			}

			if sig, ok := signatures[mime]; ok {
				if !bytes.HasPrefix(data, sig) {
					t.Errorf("вывод %s не начинается с сигнатуры % x: % x", mime, sig, data[:8])
				}
			}
		})
	}
}

func TestRegistry_UnsupportedTarget(t *testing.T) {
	r := NewRegistry()

	tests := []string{"image/avif", "image/jxl", "application/pdf", ""}

	for _, mime := range tests {
		t.Run(mime, func(t *testing.T) {
			_, err := r.Encode(testImage(), mime, 80)
			if !errors.Is(err, ErrUnsupportedTarget) {
				t.Errorf("Encode(%q) error = %v, want ErrUnsupportedTarget", mime, err)
			}
		})
	}
}

func TestRegistry_QualityAffectsJPEGSize(t *testing.T) {
	r := NewRegistry()
	img := testImage()

	low, err := r.Encode(img, catalog.MimeJPEG, 10)
	if err != nil {
		t.Fatalf("Encode(q=10) error = %v", err)
	}
	high, err := r.Encode(img, catalog.MimeJPEG, 95)
	if err != nil {
		t.Fatalf("Encode(q=95) error = %v", err)
	}

	if len(low) >= len(high) {
		t.Errorf("JPEG q=10 (%d байт) не меньше q=95 (%d байт)", len(low), len(high))
	}
}

func TestRegistry_QualityClamped(t *testing.T) {
	r := NewRegistry()

	// Качество вне диапазона не должно ронять энкодеры.
	for _, q := range []int{-10, 0, 101, 500} {
		if _, err := r.Encode(testImage(), catalog.MimeJPEG, q); err != nil {
			t.Errorf("Encode(q=%d) error = %v", q, err)
		}
	}
}

func TestClampQuality(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{-5, 1},
		{0, 1},
		{1, 1},
		{80, 80},
		{100, 100},
		{150, 100},
	}

	for _, tt := range tests {
		if got := clampQuality(tt.in); got != tt.want {
			t.Errorf("clampQuality(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
