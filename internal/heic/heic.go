// Package heic содержит сервис конвертации HEIC в стандартные форматы.
package heic

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/jpeg"
	"image/png"
	"time"

	"github.com/adrium/goheif"

	"github.com/artemshloyda/imgconvert/internal/catalog"
)

// ErrUnsupportedTarget возвращается при запросе формата вне
// ограниченного набора HEIC-пути. Ошибка всегда доводится до
// пользователя, формат никогда не подменяется молча.
var ErrUnsupportedTarget = errors.New("формат не поддерживается HEIC-путём конвертации")

// ErrNotReady возвращается, когда конвертер не инициализирован.
var ErrNotReady = errors.New("HEIC-конвертер не инициализирован")

// Result содержит результат конвертации.
type Result struct {
	// Data - байты результата.
	Data []byte

	// Mime - MIME-тип результата.
	Mime string

	// Duration - время конвертации.
	Duration time.Duration
}

// Converter конвертирует HEIC в ограниченный набор целевых форматов.
// Декодирование выполняется через goheif, повторное кодирование -
// стандартными энкодерами jpeg/png.
type Converter struct {
	// ready - прошла ли инициализация.
	ready bool
}

// NewConverter создаёт инициализированный Converter.
func NewConverter() *Converter {
	return &Converter{ready: true}
}

// Ready возвращает true, если конвертер готов к работе.
func (c *Converter) Ready() bool {
	return c != nil && c.ready
}

// SupportedTargets возвращает MIME-типы, доступные из HEIC.
func (c *Converter) SupportedTargets() []string {
	return []string{catalog.MimeJPEG, catalog.MimePNG}
}

// Supports проверяет, поддерживается ли целевой MIME-тип.
func (c *Converter) Supports(mime string) bool {
	for _, m := range c.SupportedTargets() {
		if m == mime {
			return true
		}
	}
	return false
}

// Convert декодирует HEIC и кодирует результат в targetMime.
// quality - качество 0-100, учитывается только для JPEG.
// Для JPEG исходные EXIF-метаданные переносятся в результат.
func (c *Converter) Convert(ctx context.Context, data []byte, targetMime string, quality int) (*Result, error) {
	start := time.Now()

	if !c.Ready() {
		return nil, ErrNotReady
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if !c.Supports(targetMime) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedTarget, targetMime)
	}

	// EXIF опционален: его отсутствие не должно ломать конвертацию.
	exif, _ := goheif.ExtractExif(bytes.NewReader(data))

	img, err := goheif.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("не удалось декодировать HEIC: %w", err)
	}

	var buf bytes.Buffer

	switch targetMime {
	case catalog.MimeJPEG:
		w, err := newWriterExif(&buf, exif)
		if err != nil {
			return nil, fmt.Errorf("не удалось подготовить EXIF: %w", err)
		}
		if err := jpeg.Encode(w, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, fmt.Errorf("не удалось закодировать JPEG: %w", err)
		}
	case catalog.MimePNG:
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("не удалось закодировать PNG: %w", err)
		}
	}

	return &Result{
		Data:     buf.Bytes(),
		Mime:     targetMime,
		Duration: time.Since(start),
	}, nil
}

/*
Возможные расширения:
- Добавить перенос ICC-профиля
- Добавить выбор кадра для HEIC-последовательностей (live photo)
*/
