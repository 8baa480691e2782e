// Package config содержит конфигурацию приложения.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileConfig представляет структуру конфигурационного файла YAML.
// Все поля опциональны - если не указаны, используются значения по умолчанию.
type FileConfig struct {
	// Output - настройки выходных данных.
	Output *OutputConfig `yaml:"output,omitempty"`

	// Processing - настройки обработки.
	Processing *ProcessingConfig `yaml:"processing,omitempty"`
}

// OutputConfig содержит настройки выходных данных.
type OutputConfig struct {
	// Mime - целевой MIME-тип (например, image/webp).
	Mime string `yaml:"mime,omitempty"`

	// Quality - качество для lossy форматов (0-100).
	Quality *int `yaml:"quality,omitempty"`

	// Dir - директория для сохранения результата.
	Dir string `yaml:"dir,omitempty"`
}

// ProcessingConfig содержит настройки обработки.
type ProcessingConfig struct {
	// WatchSource - следить за исходным файлом.
	WatchSource bool `yaml:"watch_source,omitempty"`

	// Verbose - подробный вывод.
	Verbose bool `yaml:"verbose,omitempty"`

	// NoProgress - отключить прогресс-бар.
	NoProgress bool `yaml:"no_progress,omitempty"`
}

// LoadFromFile загружает конфигурацию из YAML-файла.
func LoadFromFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("не удалось прочитать файл конфигурации: %w", err)
	}

	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("не удалось разобрать YAML: %w", err)
	}

	return &fc, nil
}

// SaveToFile сохраняет конфигурацию в YAML-файл.
func (fc *FileConfig) SaveToFile(path string) error {
	data, err := yaml.Marshal(fc)
	if err != nil {
		return fmt.Errorf("не удалось сериализовать конфигурацию: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("не удалось создать директорию: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("не удалось записать файл: %w", err)
	}

	return nil
}

// ApplyTo применяет значения из файла к конфигурации.
// Применяются только заданные поля.
func (fc *FileConfig) ApplyTo(cfg *Config) {
	if fc.Output != nil {
		if fc.Output.Mime != "" {
			cfg.TargetMime = fc.Output.Mime
		}
		if fc.Output.Quality != nil {
			cfg.Quality = ClampQuality(*fc.Output.Quality)
		}
		if fc.Output.Dir != "" {
			cfg.OutputDir = fc.Output.Dir
		}
	}

	if fc.Processing != nil {
		if fc.Processing.WatchSource {
			cfg.WatchSource = true
		}
		if fc.Processing.Verbose {
			cfg.Verbose = true
		}
		if fc.Processing.NoProgress {
			cfg.NoProgress = true
		}
	}
}

// FromConfig создаёт FileConfig из текущей конфигурации.
func FromConfig(cfg *Config) *FileConfig {
	quality := cfg.Quality

	return &FileConfig{
		Output: &OutputConfig{
			Mime:    cfg.TargetMime,
			Quality: &quality,
			Dir:     cfg.OutputDir,
		},
		Processing: &ProcessingConfig{
			WatchSource: cfg.WatchSource,
			Verbose:     cfg.Verbose,
			NoProgress:  cfg.NoProgress,
		},
	}
}

/*
Возможные расширения:
- Добавить поиск конфигурации в текущей директории (.imgconvert.yaml)
- Добавить переопределение через переменные окружения
*/
