// Package recompress содержит сервис нормализации растровых изображений.
//
// Сервис приводит произвольный растровый вход к нормализованному
// промежуточному представлению: не длиннее maxDimensionPx по большей
// стороне и не тяжелее maxSizeMB. Дальнейшее кодирование в целевой
// формат выполняет пакет encoder.
package recompress

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/disintegration/imaging"

	// Регистрация WebP-декодера. BMP, GIF и TIFF регистрируются
	// транзитивно самим imaging.
	_ "golang.org/x/image/webp"
)

// ErrNotReady возвращается, когда сервис не инициализирован.
var ErrNotReady = errors.New("сервис нормализации не инициализирован")

// Шаги подбора качества промежуточного JPEG под ограничение размера.
const (
	startQuality = 85
	qualityStep  = 5
	floorQuality = 30
)

// Result содержит нормализованное промежуточное изображение.
type Result struct {
	// Data - байты промежуточного изображения (JPEG или PNG).
	Data []byte

	// Mime - MIME-тип промежуточного изображения.
	Mime string

	// Width, Height - размеры после нормализации.
	Width  int
	Height int

	// Quality - качество, на котором уложились в ограничение
	// (0 для PNG-промежуточного).
	Quality int

	// Duration - время нормализации.
	Duration time.Duration
}

// Recompressor нормализует растровые изображения.
type Recompressor struct {
	// ready - прошла ли инициализация.
	ready bool
}

// New создаёт инициализированный Recompressor.
func New() *Recompressor {
	return &Recompressor{ready: true}
}

// Ready возвращает true, если сервис готов к работе.
func (r *Recompressor) Ready() bool {
	return r != nil && r.ready
}

// Recompress декодирует data и возвращает нормализованное
// промежуточное изображение.
//
// maxSizeMB - ограничение размера в мегабайтах (0 = без ограничения),
// действует только для непрозрачных изображений (JPEG-промежуточное).
// Изображения с альфа-каналом нормализуются в PNG без подбора
// качества, иначе прозрачность была бы потеряна до целевого
// кодирования.
//
// maxDimensionPx - ограничение большей стороны (0 = без ограничения).
func (r *Recompressor) Recompress(ctx context.Context, data []byte, maxSizeMB float64, maxDimensionPx int) (*Result, error) {
	start := time.Now()

	if !r.Ready() {
		return nil, ErrNotReady
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("не удалось декодировать изображение: %w", err)
	}

	img = fitToDimension(img, maxDimensionPx)
	bounds := img.Bounds()

	if hasAlpha(img) {
		var buf bytes.Buffer
		if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
			return nil, fmt.Errorf("не удалось закодировать промежуточный PNG: %w", err)
		}
		return &Result{
			Data:     buf.Bytes(),
			Mime:     "image/png",
			Width:    bounds.Dx(),
			Height:   bounds.Dy(),
			Duration: time.Since(start),
		}, nil
	}

	maxBytes := int(maxSizeMB * 1024 * 1024)

	var buf bytes.Buffer
	quality := startQuality
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		buf.Reset()
		if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
			return nil, fmt.Errorf("не удалось закодировать промежуточный JPEG: %w", err)
		}

		if maxBytes <= 0 || buf.Len() <= maxBytes || quality <= floorQuality {
			break
		}
		quality -= qualityStep
	}

	return &Result{
		Data:     buf.Bytes(),
		Mime:     "image/jpeg",
		Width:    bounds.Dx(),
		Height:   bounds.Dy(),
		Quality:  quality,
		Duration: time.Since(start),
	}, nil
}

// Decode декодирует промежуточное (или любое поддерживаемое)
// изображение в растровую поверхность для повторного кодирования.
func (r *Recompressor) Decode(data []byte) (image.Image, error) {
	if !r.Ready() {
		return nil, ErrNotReady
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("не удалось декодировать промежуточное изображение: %w", err)
	}
	return img, nil
}

// fitToDimension вписывает изображение в квадрат maxPx x maxPx
// с сохранением пропорций. Маленькие изображения не растягиваются.
func fitToDimension(img image.Image, maxPx int) image.Image {
	if maxPx <= 0 {
		return img
	}

	bounds := img.Bounds()
	if bounds.Dx() <= maxPx && bounds.Dy() <= maxPx {
		return img
	}

	return imaging.Fit(img, maxPx, maxPx, imaging.Lanczos)
}

// hasAlpha проверяет наличие полупрозрачных пикселей.
func hasAlpha(img image.Image) bool {
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return !o.Opaque()
	}
	return false
}

/*
Возможные расширения:
- Добавить бинарный поиск качества вместо линейного спуска
- Добавить выбор фильтра ресэмплинга через конфигурацию
*/
