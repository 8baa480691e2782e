package sourcewatch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestWatcher_FiresOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "photo.png")
	if err := os.WriteFile(path, []byte("v1"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	var fired int32
	w, err := New(path, func() { atomic.AddInt32(&fired, 1) })
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	w.SetDebounceTime(50 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := w.Watch(ctx); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	// Даём watcher-у подняться, затем меняем файл.
	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(path, []byte("v2"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if atomic.LoadInt32(&fired) > 0 {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("onChange не вызван после изменения файла")
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "photo.png")
	other := filepath.Join(dir, "other.png")
	if err := os.WriteFile(path, []byte("v1"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	var fired int32
	w, err := New(path, func() { atomic.AddInt32(&fired, 1) })
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	w.SetDebounceTime(50 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := w.Watch(ctx); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}

	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(other, []byte("x"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	time.Sleep(500 * time.Millisecond)
	if atomic.LoadInt32(&fired) != 0 {
		t.Error("onChange вызван для чужого файла")
	}
}

func TestWatcher_MissingDir(t *testing.T) {
	w, err := New(filepath.Join(t.TempDir(), "no-such-dir", "f.png"), func() {})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := w.Watch(ctx); err == nil {
		t.Error("Watch() по несуществующей директории должен вернуть ошибку")
	}
	_ = w.Close()
}
