// Package workflow содержит контроллер процесса конвертации.
package workflow

import (
	"context"
	"image"

	"github.com/artemshloyda/imgconvert/internal/heic"
	"github.com/artemshloyda/imgconvert/internal/recompress"
)

// Внешние сервисы контроллера. Контроллер принимает интерфейсы и
// проверяет готовность перед каждым вызовом: сервис с асинхронной
// инициализацией может быть ещё не готов.

// Classifier классифицирует входной файл (HEIC или нет).
type Classifier interface {
	// Ready возвращает true, если классификатор готов к работе.
	Ready() bool

	// IsHeicLikeBytes определяет, является ли содержимое HEIC.
	IsHeicLikeBytes(data []byte) (bool, error)
}

// HeicService конвертирует HEIC в ограниченный набор форматов.
type HeicService interface {
	// Ready возвращает true, если сервис готов к работе.
	Ready() bool

	// Supports проверяет, поддерживается ли целевой MIME-тип.
	Supports(mime string) bool

	// Convert конвертирует HEIC-байты в targetMime с качеством 0-100.
	Convert(ctx context.Context, data []byte, targetMime string, quality int) (*heic.Result, error)
}

// RecompressService нормализует растровые изображения.
type RecompressService interface {
	// Ready возвращает true, если сервис готов к работе.
	Ready() bool

	// Recompress возвращает нормализованное промежуточное изображение.
	Recompress(ctx context.Context, data []byte, maxSizeMB float64, maxDimensionPx int) (*recompress.Result, error)

	// Decode декодирует промежуточное изображение в растровую поверхность.
	Decode(data []byte) (image.Image, error)
}

// EncodeService кодирует растровую поверхность в целевой формат.
type EncodeService interface {
	// Supports проверяет, есть ли энкодер для MIME-типа.
	Supports(mime string) bool

	// Encode кодирует изображение с качеством 0-100.
	Encode(img image.Image, mime string, quality int) ([]byte, error)
}

// Saver сохраняет результат конвертации на диск.
type Saver interface {
	// Save записывает данные под производным именем и возвращает путь.
	Save(originalName, mime string, data []byte) (string, error)
}

// StageFunc вызывается при входе в очередной этап конвертации.
// Используется прогресс-баром; nil отключает отчёты.
type StageFunc func(stage string)

// Названия этапов для отчётов о прогрессе.
const (
	StageClassify  = "классификация"
	StageHeic      = "HEIC-конвертация"
	StageNormalize = "нормализация"
	StageDecode    = "декодирование"
	StageEncode    = "кодирование"
	StagePreview   = "предпросмотр"
)
