package preview

import (
	"os"
	"strings"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := NewStore()
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_Materialize(t *testing.T) {
	s := newTestStore(t)

	h, err := s.Materialize([]byte("payload"), "jpg")
	if err != nil {
		t.Fatalf("Materialize() error = %v", err)
	}

	if !strings.HasSuffix(h.Path(), ".jpg") {
		t.Errorf("Path() = %q, ожидалось расширение .jpg", h.Path())
	}

	data, err := os.ReadFile(h.Path())
	if err != nil {
		t.Fatalf("файл предпросмотра не читается: %v", err)
	}
	if string(data) != "payload" {
		t.Errorf("содержимое = %q, want %q", data, "payload")
	}
}

func TestHandle_Release(t *testing.T) {
	s := newTestStore(t)

	h, err := s.Materialize([]byte("data"), "png")
	if err != nil {
		t.Fatalf("Materialize() error = %v", err)
	}

	h.Release()

	if !h.Released() {
		t.Error("Released() = false после Release()")
	}
	if _, err := os.Stat(h.Path()); !os.IsNotExist(err) {
		t.Error("файл предпросмотра не удалён после Release()")
	}

	// Повторный Release безопасен.
	h.Release()
}

func TestHandle_ReleaseNil(t *testing.T) {
	var h *Handle
	h.Release() // не должно паниковать
}

func TestStore_UniquePaths(t *testing.T) {
	s := newTestStore(t)

	h1, err := s.Materialize([]byte("a"), "jpg")
	if err != nil {
		t.Fatalf("Materialize() error = %v", err)
	}
	h2, err := s.Materialize([]byte("b"), "jpg")
	if err != nil {
		t.Fatalf("Materialize() error = %v", err)
	}

	if h1.Path() == h2.Path() {
		t.Errorf("хэндлы получили одинаковый путь: %q", h1.Path())
	}
}

func TestStore_Close(t *testing.T) {
	s, err := NewStore()
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	if _, err := s.Materialize([]byte("x"), ""); err != nil {
		t.Fatalf("Materialize() error = %v", err)
	}

	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	if _, err := os.Stat(s.Dir()); !os.IsNotExist(err) {
		t.Error("директория предпросмотров не удалена после Close()")
	}
}
