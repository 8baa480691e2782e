// Package catalog содержит статические каталоги целевых форматов.
package catalog

// MIME-типы поддерживаемых целевых форматов.
const (
	MimeJPEG = "image/jpeg"
	MimePNG  = "image/png"
	MimeWebP = "image/webp"
	MimeGIF  = "image/gif"
	MimeTIFF = "image/tiff"
	MimeBMP  = "image/bmp"
)

// DefaultMime - формат по умолчанию. Валиден в обоих каталогах.
const DefaultMime = MimeJPEG

// Entry описывает один целевой формат в каталоге.
type Entry struct {
	// Mime - MIME-тип формата (например, "image/webp").
	Mime string

	// Extension - расширение файла без точки (например, "webp").
	Extension string

	// Label - человекочитаемое название для меню.
	Label string

	// Category - категория для группировки в меню.
	Category string
}

// Catalog - неизменяемый упорядоченный список целевых форматов.
type Catalog struct {
	// name - название каталога (для вывода).
	name string

	// entries - упорядоченный список форматов.
	entries []Entry
}

// standard - каталог для обычных растровых файлов.
var standard = &Catalog{
	name: "стандартный",
	entries: []Entry{
		{Mime: MimeJPEG, Extension: "jpg", Label: "JPEG", Category: "Веб-форматы"},
		{Mime: MimePNG, Extension: "png", Label: "PNG", Category: "Веб-форматы"},
		{Mime: MimeWebP, Extension: "webp", Label: "WebP", Category: "Веб-форматы"},
		{Mime: MimeGIF, Extension: "gif", Label: "GIF", Category: "Веб-форматы"},
		{Mime: MimeTIFF, Extension: "tiff", Label: "TIFF", Category: "Без потерь"},
		{Mime: MimeBMP, Extension: "bmp", Label: "BMP", Category: "Без потерь"},
	},
}

// heicRestricted - каталог для HEIC-входа.
// HEIC-путь конвертации поддерживает только JPEG и PNG.
var heicRestricted = &Catalog{
	name: "HEIC",
	entries: []Entry{
		{Mime: MimeJPEG, Extension: "jpg", Label: "JPEG", Category: "Веб-форматы"},
		{Mime: MimePNG, Extension: "png", Label: "PNG", Category: "Веб-форматы"},
	},
}

// ForSource возвращает каталог, применимый к классификации входного файла.
func ForSource(isHeic bool) *Catalog {
	if isHeic {
		return heicRestricted
	}
	return standard
}

// Standard возвращает каталог для обычных растровых файлов.
func Standard() *Catalog {
	return standard
}

// HeicRestricted возвращает каталог для HEIC-входа.
func HeicRestricted() *Catalog {
	return heicRestricted
}

// Name возвращает название каталога.
func (c *Catalog) Name() string {
	return c.name
}

// Entries возвращает копию списка форматов (каталог неизменяем).
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Contains проверяет, входит ли MIME-тип в каталог.
func (c *Catalog) Contains(mime string) bool {
	for _, e := range c.entries {
		if e.Mime == mime {
			return true
		}
	}
	return false
}

// Lookup возвращает запись каталога по MIME-типу.
func (c *Catalog) Lookup(mime string) (Entry, bool) {
	for _, e := range c.entries {
		if e.Mime == mime {
			return e, true
		}
	}
	return Entry{}, false
}

// Default возвращает формат по умолчанию для каталога.
func (c *Catalog) Default() Entry {
	e, _ := c.Lookup(DefaultMime)
	return e
}

// Categories возвращает категории каталога в порядке первого появления.
func (c *Catalog) Categories() []string {
	var out []string
	seen := map[string]bool{}
	for _, e := range c.entries {
		if !seen[e.Category] {
			seen[e.Category] = true
			out = append(out, e.Category)
		}
	}
	return out
}

// ExtensionFor возвращает расширение файла для MIME-типа.
// Ищет по обоим каталогам, так как результат конвертации может
// относиться к любому из них.
func ExtensionFor(mime string) (string, bool) {
	if e, ok := standard.Lookup(mime); ok {
		return e.Extension, true
	}
	if e, ok := heicRestricted.Lookup(mime); ok {
		return e.Extension, true
	}
	return "", false
}

/*
Возможные расширения:
- Добавить AVIF и JXL при появлении стабильных энкодеров
- Добавить описание сильных сторон формата для вывода в меню
*/
