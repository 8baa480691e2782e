// Package config содержит конфигурацию приложения.
package config

import (
	"fmt"

	"github.com/artemshloyda/imgconvert/internal/catalog"
)

// Ограничения качества для lossy форматов.
const (
	// MinQuality - минимальное значение качества.
	MinQuality = 0
	// MaxQuality - максимальное значение качества.
	MaxQuality = 100
	// DefaultQuality - качество по умолчанию.
	DefaultQuality = 80
)

// Config содержит все настройки для конвертации одного файла.
type Config struct {
	// InputPath - путь к исходному файлу.
	InputPath string

	// TargetMime - целевой MIME-тип (из каталога форматов).
	TargetMime string

	// Quality - качество для lossy форматов (0-100).
	Quality int

	// OutputDir - директория для сохранения результата.
	// Пустая строка = директория исходного файла.
	OutputDir string

	// Preset - профиль качества (web, print, archive, thumbnail).
	Preset string

	// WatchSource - следить за исходным файлом и сбрасывать
	// устаревший результат при его изменении.
	WatchSource bool

	// Verbose - подробный вывод.
	Verbose bool

	// NoProgress - отключить прогресс-бар.
	NoProgress bool
}

// DefaultConfig возвращает конфигурацию по умолчанию.
func DefaultConfig() *Config {
	return &Config{
		TargetMime: catalog.DefaultMime,
		Quality:    DefaultQuality,
	}
}

// ClampQuality приводит значение качества к диапазону [0, 100].
func ClampQuality(q int) int {
	if q < MinQuality {
		return MinQuality
	}
	if q > MaxQuality {
		return MaxQuality
	}
	return q
}

// Validate проверяет корректность конфигурации.
// Качество не проверяется, а приводится к допустимому диапазону.
func (c *Config) Validate() error {
	if c.InputPath == "" {
		return fmt.Errorf("исходный файл не указан (--file)")
	}
	if c.TargetMime == "" {
		return fmt.Errorf("целевой формат не указан (--to)")
	}

	// Членство в каталоге, применимом к конкретному файлу, проверяет
	// контроллер после классификации. Здесь отсекаем только MIME-типы,
	// которых нет ни в одном каталоге.
	if !catalog.Standard().Contains(c.TargetMime) {
		return fmt.Errorf("неизвестный целевой формат: %s (см. команду formats)", c.TargetMime)
	}

	c.Quality = ClampQuality(c.Quality)

	return nil
}

/*
Возможные расширения:
- Добавить флаг сохранения метаданных для не-HEIC путей
- Добавить ограничение размеров результата (--max-width/--max-height)
*/
