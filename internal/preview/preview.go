// Package preview управляет временными файлами предпросмотра.
//
// Каждый принятый файл и каждый результат конвертации получают
// транзитный хэндл предпросмотра. Хэндл, вытесненный новым, обязан
// освобождаться, иначе временные файлы копятся в течение сессии.
package preview

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Handle - транзитный файл предпросмотра.
type Handle struct {
	// path - путь к временному файлу.
	path string

	// mu защищает released.
	mu sync.Mutex

	// released - был ли хэндл освобождён.
	released bool
}

// Path возвращает путь к файлу предпросмотра.
// После Release путь недействителен.
func (h *Handle) Path() string {
	return h.path
}

// Released возвращает true, если хэндл уже освобождён.
func (h *Handle) Released() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.released
}

// Release удаляет файл предпросмотра. Повторный вызов безопасен.
func (h *Handle) Release() {
	if h == nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.released {
		return
	}
	h.released = true
	_ = os.Remove(h.path)
}

// Store создаёт хэндлы предпросмотра в сессионной temp-директории.
type Store struct {
	// dir - сессионная директория для предпросмотров.
	dir string

	// mu защищает seq.
	mu sync.Mutex

	// seq - счётчик для уникальных имён файлов.
	seq int
}

// NewStore создаёт Store со свежей temp-директорией.
func NewStore() (*Store, error) {
	dir, err := os.MkdirTemp("", "imgconvert-preview-*")
	if err != nil {
		return nil, fmt.Errorf("не удалось создать директорию предпросмотра: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir возвращает сессионную директорию предпросмотров.
func (s *Store) Dir() string {
	return s.dir
}

// Materialize записывает данные во временный файл и возвращает хэндл.
// ext - расширение без точки (для удобства внешних просмотрщиков).
func (s *Store) Materialize(data []byte, ext string) (*Handle, error) {
	s.mu.Lock()
	s.seq++
	seq := s.seq
	s.mu.Unlock()

	name := fmt.Sprintf("preview_%04d", seq)
	if ext != "" {
		name += "." + ext
	}
	path := filepath.Join(s.dir, name)

	if err := os.WriteFile(path, data, 0644); err != nil {
		return nil, fmt.Errorf("не удалось записать предпросмотр: %w", err)
	}

	return &Handle{path: path}, nil
}

// Close удаляет сессионную директорию со всеми предпросмотрами.
func (s *Store) Close() error {
	if s == nil || s.dir == "" {
		return nil
	}
	return os.RemoveAll(s.dir)
}

/*
Возможные расширения:
- Добавить уменьшенные превью вместо полноразмерных копий
- Добавить лимит суммарного размера с вытеснением старых хэндлов
*/
