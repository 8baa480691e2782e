// Package save содержит примитив сохранения результата на диск.
package save

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/artemshloyda/imgconvert/internal/catalog"
)

// FallbackBaseName используется, когда имя исходного файла неизвестно.
const FallbackBaseName = "converted"

// Saver записывает результат конвертации на диск.
type Saver struct {
	// dir - директория для сохранения.
	dir string
}

// New создаёт Saver для директории dir.
func New(dir string) *Saver {
	return &Saver{dir: dir}
}

// DeriveFileName строит имя выходного файла: базовое имя исходника
// без расширения плюс расширение по MIME-типу результата.
func DeriveFileName(originalName, mime string) (string, error) {
	ext, ok := catalog.ExtensionFor(mime)
	if !ok {
		return "", fmt.Errorf("неизвестный MIME-тип результата: %s", mime)
	}

	base := strings.TrimSpace(filepath.Base(originalName))
	if base == "." || base == string(filepath.Separator) {
		base = ""
	}
	if idx := strings.LastIndex(base, "."); idx > 0 {
		base = base[:idx]
	}
	if base == "" || base == "." {
		base = FallbackBaseName
	}

	return base + "." + ext, nil
}

// Save записывает data под именем, производным от originalName и mime.
// Запись атомарная: сначала во временный файл, затем переименование.
// Возвращает путь к записанному файлу.
func (s *Saver) Save(originalName, mime string, data []byte) (string, error) {
	fileName, err := DeriveFileName(originalName, mime)
	if err != nil {
		return "", err
	}

	dir := s.dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("не удалось создать директорию %s: %w", dir, err)
	}

	dstPath := filepath.Join(dir, fileName)
	tmpPath := dstPath + ".saving"

	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return "", fmt.Errorf("не удалось записать %s: %w", tmpPath, err)
	}

	if err := os.Rename(tmpPath, dstPath); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("не удалось переименовать %s -> %s: %w", tmpPath, dstPath, err)
	}

	return dstPath, nil
}

/*
Возможные расширения:
- Добавить защиту от перезаписи (--no-clobber с суффиксом -1, -2, ...)
- Добавить копирование времени модификации исходника
*/
