// Package sourcewatch следит за принятым исходным файлом на диске.
//
// Если файл изменился или исчез после принятия, копия в памяти и
// полученный из неё результат устарели: слежение дёргает колбэк,
// по которому контроллер сбрасывает результат.
package sourcewatch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher следит за одним файлом и сообщает об его изменении.
type Watcher struct {
	// path - абсолютный путь к файлу.
	path string

	// onChange вызывается после дебаунса при изменении файла.
	onChange func()

	// watcher - fsnotify watcher.
	watcher *fsnotify.Watcher

	// debounceTime - время ожидания перед уведомлением.
	// Нужно, чтобы файл успел полностью перезаписаться.
	debounceTime time.Duration

	// pendingAt - время последнего события (нулевое = нет ожидающих).
	pendingAt time.Time
	mu        sync.Mutex
}

// New создаёт Watcher для файла path.
// onChange будет вызываться из фоновой горутины.
func New(path string, onChange func()) (*Watcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("не удалось получить абсолютный путь: %w", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("не удалось создать watcher: %w", err)
	}

	return &Watcher{
		path:         absPath,
		onChange:     onChange,
		watcher:      w,
		debounceTime: 500 * time.Millisecond,
	}, nil
}

// SetDebounceTime устанавливает время debounce.
func (w *Watcher) SetDebounceTime(d time.Duration) {
	w.debounceTime = d
}

// Watch запускает слежение. Возвращает управление сразу,
// обработка событий идёт в фоне до отмены контекста.
//
// Следим за директорией, а не за самим файлом: редакторы и камеры
// часто заменяют файл через rename, и watch на inode теряется.
func (w *Watcher) Watch(ctx context.Context) error {
	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("не удалось добавить директорию в watcher: %w", err)
	}

	go w.processEvents(ctx)
	go w.processPending(ctx)

	return nil
}

// processEvents обрабатывает события от fsnotify.
func (w *Watcher) processEvents(ctx context.Context) {
	defer w.watcher.Close()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			// Интересует только наш файл.
			if filepath.Clean(event.Name) != w.path {
				continue
			}

			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			w.mu.Lock()
			w.pendingAt = time.Now()
			w.mu.Unlock()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			fmt.Fprintf(os.Stderr, "Ошибка watcher: %v\n", err)
		}
	}
}

// processPending вызывает onChange после выдержки debounce.
func (w *Watcher) processPending(ctx context.Context) {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.mu.Lock()
			fire := !w.pendingAt.IsZero() && time.Since(w.pendingAt) >= w.debounceTime
			if fire {
				w.pendingAt = time.Time{}
			}
			w.mu.Unlock()

			if fire {
				w.onChange()
			}
		}
	}
}

// Close закрывает watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

/*
Возможные расширения:
- Добавить автоматическое повторное принятие файла после изменения
- Добавить обработку переноса файла в другую директорию
*/
