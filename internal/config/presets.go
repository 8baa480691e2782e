// Package config содержит конфигурацию приложения.
package config

import "github.com/artemshloyda/imgconvert/internal/catalog"

// Preset определяет профиль качества.
type Preset string

const (
	// PresetWeb - оптимизация для веба: webp, качество 75.
	PresetWeb Preset = "web"
	// PresetPrint - высокое качество для печати: jpeg, качество 95.
	PresetPrint Preset = "print"
	// PresetArchive - архивное качество: png, без потерь.
	PresetArchive Preset = "archive"
	// PresetThumbnail - превью: webp, качество 60.
	PresetThumbnail Preset = "thumbnail"
)

// PresetConfig содержит настройки для пресета.
type PresetConfig struct {
	// Mime - целевой MIME-тип.
	Mime string
	// Quality - качество (0-100).
	Quality int
}

// Presets содержит все доступные пресеты.
var Presets = map[Preset]PresetConfig{
	PresetWeb: {
		Mime:    catalog.MimeWebP,
		Quality: 75,
	},
	PresetPrint: {
		Mime:    catalog.MimeJPEG,
		Quality: 95,
	},
	PresetArchive: {
		Mime:    catalog.MimePNG,
		Quality: 100,
	},
	PresetThumbnail: {
		Mime:    catalog.MimeWebP,
		Quality: 60,
	},
}

// ApplyPreset применяет пресет к конфигурации.
// Возвращает true, если пресет был применён.
func (c *Config) ApplyPreset(preset string) bool {
	p, ok := Presets[Preset(preset)]
	if !ok {
		return false
	}

	c.TargetMime = p.Mime
	c.Quality = p.Quality

	return true
}

// ValidPresets возвращает список доступных пресетов.
func ValidPresets() []string {
	return []string{
		string(PresetWeb),
		string(PresetPrint),
		string(PresetArchive),
		string(PresetThumbnail),
	}
}

/*
Возможные расширения:
- Добавить пресет для социальных сетей (instagram, telegram)
- Добавить пресет для email (ограничение по размеру файла)
*/
