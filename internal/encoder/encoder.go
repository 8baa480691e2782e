// Package encoder содержит примитив повторного кодирования растровой
// поверхности в целевой формат.
//
// Набор поддерживаемых форматов перечислен явно через реестр: запрос
// незарегистрированного MIME-типа - отдельная ошибка ErrUnsupportedTarget,
// подмена формата по умолчанию невозможна по построению (каждый энкодер
// знает ровно один формат).
package encoder

import (
	"errors"
	"fmt"
	"image"
)

// ErrUnsupportedTarget возвращается при запросе MIME-типа,
// для которого нет зарегистрированного энкодера.
var ErrUnsupportedTarget = errors.New("формат не поддерживается примитивом кодирования")

// Encoder кодирует растровую поверхность в один конкретный формат.
type Encoder interface {
	// MimeType возвращает MIME-тип выходного формата.
	MimeType() string

	// Extension возвращает расширение файла без точки.
	Extension() string

	// Available возвращает true, если энкодер готов к использованию.
	Available() bool

	// Encode кодирует изображение с заданным качеством (0-100).
	// Lossless-форматы игнорируют качество.
	Encode(img image.Image, quality int) ([]byte, error)
}

// Registry - реестр энкодеров по MIME-типу.
type Registry struct {
	// encoders - зарегистрированные энкодеры по MIME-типу.
	encoders map[string]Encoder

	// order - порядок регистрации (для стабильного вывода).
	order []string
}

// NewRegistry создаёт реестр со всеми встроенными энкодерами.
func NewRegistry() *Registry {
	r := &Registry{encoders: map[string]Encoder{}}

	r.register(&jpegEncoder{})
	r.register(&pngEncoder{})
	r.register(&webpEncoder{})
	r.register(&gifEncoder{})
	r.register(&tiffEncoder{})
	r.register(&bmpEncoder{})

	return r
}

// register добавляет энкодер в реестр.
func (r *Registry) register(e Encoder) {
	mime := e.MimeType()
	if _, exists := r.encoders[mime]; !exists {
		r.order = append(r.order, mime)
	}
	r.encoders[mime] = e
}

// Supports проверяет, доступен ли энкодер для MIME-типа.
func (r *Registry) Supports(mime string) bool {
	e, ok := r.encoders[mime]
	return ok && e.Available()
}

// SupportedMimes возвращает MIME-типы доступных энкодеров
// в порядке регистрации.
func (r *Registry) SupportedMimes() []string {
	var out []string
	for _, mime := range r.order {
		if r.encoders[mime].Available() {
			out = append(out, mime)
		}
	}
	return out
}

// Encode кодирует изображение в запрошенный MIME-тип.
// Качество приводится к допустимому диапазону самим энкодером.
func (r *Registry) Encode(img image.Image, mime string, quality int) ([]byte, error) {
	e, ok := r.encoders[mime]
	if !ok || !e.Available() {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedTarget, mime)
	}

	data, err := e.Encode(img, quality)
	if err != nil {
		return nil, fmt.Errorf("не удалось закодировать %s: %w", mime, err)
	}
	return data, nil
}

// clampQuality приводит качество к диапазону [1, 100] для энкодеров,
// которые не принимают ноль.
func clampQuality(q int) int {
	if q < 1 {
		return 1
	}
	if q > 100 {
		return 100
	}
	return q
}

/*
Возможные расширения:
- Добавить AVIF-энкодер при появлении стабильной чистой реализации
- Добавить параметры interlace/progressive для JPEG и PNG
*/
