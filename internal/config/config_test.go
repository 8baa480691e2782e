package config

import (
	"testing"

	"github.com/artemshloyda/imgconvert/internal/catalog"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg == nil {
		t.Fatal("DefaultConfig() returned nil")
	}

	// Проверяем значения по умолчанию
	if cfg.TargetMime != catalog.MimeJPEG {
		t.Errorf("TargetMime = %v, want %v", cfg.TargetMime, catalog.MimeJPEG)
	}

	if cfg.Quality != 80 {
		t.Errorf("Quality = %d, want 80", cfg.Quality)
	}

	if cfg.WatchSource {
		t.Error("WatchSource должен быть выключен по умолчанию")
	}
}

func TestClampQuality(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{-1, 0},
		{-100, 0},
		{0, 0},
		{50, 50},
		{100, 100},
		{101, 100},
		{1000, 100},
	}

	for _, tt := range tests {
		if got := ClampQuality(tt.in); got != tt.want {
			t.Errorf("ClampQuality(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *Config
		wantErr bool
	}{
		{
			name: "valid config",
			cfg: &Config{
				InputPath:  "/photos/photo.png",
				TargetMime: catalog.MimeWebP,
				Quality:    85,
			},
			wantErr: false,
		},
		{
			name: "missing input",
			cfg: &Config{
				TargetMime: catalog.MimeWebP,
				Quality:    85,
			},
			wantErr: true,
		},
		{
			name: "missing target",
			cfg: &Config{
				InputPath: "/photos/photo.png",
				Quality:   85,
			},
			wantErr: true,
		},
		{
			name: "unknown target mime",
			cfg: &Config{
				InputPath:  "/photos/photo.png",
				TargetMime: "image/avif",
				Quality:    85,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_ValidateClampsQuality(t *testing.T) {
	cfg := &Config{
		InputPath:  "/photos/photo.png",
		TargetMime: catalog.MimeJPEG,
		Quality:    150,
	}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	if cfg.Quality != 100 {
		t.Errorf("Quality после Validate() = %d, want 100", cfg.Quality)
	}
}
