package heic

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/artemshloyda/imgconvert/internal/catalog"
)

func TestConverter_Supports(t *testing.T) {
	c := NewConverter()

	tests := []struct {
		mime string
		want bool
	}{
		{catalog.MimeJPEG, true},
		{catalog.MimePNG, true},
		{catalog.MimeWebP, false},
		{catalog.MimeTIFF, false},
		{"image/avif", false},
	}

	for _, tt := range tests {
		t.Run(tt.mime, func(t *testing.T) {
			if got := c.Supports(tt.mime); got != tt.want {
				t.Errorf("Supports(%q) = %v, want %v", tt.mime, got, tt.want)
			}
		})
	}
}

func TestConverter_UnsupportedTarget(t *testing.T) {
	c := NewConverter()

	_, err := c.Convert(context.Background(), []byte("not a heic"), catalog.MimeWebP, 80)
	if !errors.Is(err, ErrUnsupportedTarget) {
		t.Errorf("Convert(webp) error = %v, want ErrUnsupportedTarget", err)
	}
}

func TestConverter_NotReady(t *testing.T) {
	var c Converter // нулевое значение - не инициализирован

	_, err := c.Convert(context.Background(), nil, catalog.MimeJPEG, 80)
	if !errors.Is(err, ErrNotReady) {
		t.Errorf("Convert() error = %v, want ErrNotReady", err)
	}
}

func TestConverter_InvalidInput(t *testing.T) {
	c := NewConverter()

	// Валидный целевой формат, но мусор на входе: декодер должен
	// вернуть ошибку, а не упасть.
	_, err := c.Convert(context.Background(), []byte("garbage bytes"), catalog.MimeJPEG, 80)
	if err == nil {
		t.Error("Convert() с мусором на входе должен вернуть ошибку")
	}
	if errors.Is(err, ErrUnsupportedTarget) {
		t.Error("ошибка декодирования не должна классифицироваться как ErrUnsupportedTarget")
	}
}

func TestConverter_CancelledContext(t *testing.T) {
	c := NewConverter()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Convert(ctx, []byte("data"), catalog.MimeJPEG, 80)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Convert() error = %v, want context.Canceled", err)
	}
}

func TestWriterExif(t *testing.T) {
	tests := []struct {
		name string
		exif []byte
	}{
		{"без exif", nil},
		{"с exif", []byte("Exif\x00\x00MM")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			w, err := newWriterExif(&buf, tt.exif)
			if err != nil {
				t.Fatalf("newWriterExif() error = %v", err)
			}

			// Имитируем вывод jpeg.Encode: SOI + данные.
			payload := []byte{0xff, 0xd8, 0x01, 0x02, 0x03}
			if _, err := w.Write(payload); err != nil {
				t.Fatalf("Write() error = %v", err)
			}

			out := buf.Bytes()

			// Поток должен начинаться с единственного SOI.
			if out[0] != 0xff || out[1] != 0xd8 {
				t.Fatalf("поток не начинается с SOI: % x", out[:2])
			}
			if bytes.Count(out, []byte{0xff, 0xd8}) != 1 {
				t.Errorf("SOI встречается больше одного раза: % x", out)
			}

			if tt.exif != nil {
				// APP1-маркер сразу после SOI.
				if out[2] != 0xff || out[3] != 0xe1 {
					t.Errorf("ожидался APP1-маркер после SOI, получено: % x", out[2:4])
				}
				if !bytes.Contains(out, tt.exif) {
					t.Error("EXIF-данные отсутствуют в выводе")
				}
			}

			// Полезная нагрузка (без SOI) должна сохраниться в хвосте.
			if !bytes.HasSuffix(out, payload[2:]) {
				t.Errorf("полезная нагрузка повреждена: % x", out)
			}
		})
	}
}

func TestWriterExif_SplitWrites(t *testing.T) {
	var buf bytes.Buffer
	w, err := newWriterExif(&buf, nil)
	if err != nil {
		t.Fatalf("newWriterExif() error = %v", err)
	}

	// SOI приходит по одному байту: оба должны быть пропущены.
	if _, err := w.Write([]byte{0xff}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if _, err := w.Write([]byte{0xd8}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if _, err := w.Write([]byte{0xaa, 0xbb}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	want := []byte{0xff, 0xd8, 0xaa, 0xbb}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("вывод = % x, want % x", buf.Bytes(), want)
	}
}
