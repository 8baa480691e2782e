// Package cli содержит CLI интерфейс приложения.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/artemshloyda/imgconvert/internal/catalog"
	"github.com/artemshloyda/imgconvert/internal/classify"
	"github.com/artemshloyda/imgconvert/internal/config"
	"github.com/artemshloyda/imgconvert/internal/encoder"
	"github.com/artemshloyda/imgconvert/internal/heic"
	"github.com/artemshloyda/imgconvert/internal/preview"
	"github.com/artemshloyda/imgconvert/internal/progress"
	"github.com/artemshloyda/imgconvert/internal/recompress"
	"github.com/artemshloyda/imgconvert/internal/save"
	"github.com/artemshloyda/imgconvert/internal/sourcewatch"
	"github.com/artemshloyda/imgconvert/internal/workflow"
)

var (
	// Version будет установлена при сборке.
	Version = "dev"

	// BuildTime будет установлена при сборке.
	BuildTime = "unknown"
)

// cfg содержит глобальную конфигурацию.
var cfg = config.DefaultConfig()

// Флаги, обрабатываемые отдельно от cfg.
var (
	flagConfigFile string
	flagSavePreset string
	flagLoadPreset string
)

// NewRootCmd создаёт корневую команду CLI.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "imgconvert",
		Short: "Утилита для конвертации одного изображения",
		Long: `ImgConvert - CLI утилита для конвертации одного изображения.

HEIC-файлы распознаются по содержимому и конвертируются напрямую
(JPEG или PNG, EXIF сохраняется). Остальные растровые форматы проходят
нормализацию (не больше 1 МБ и 1920 px по большей стороне) и повторное
кодирование в целевой формат.

Примеры:
  # HEIC в JPEG с качеством 85
  imgconvert --file photo.heic --to jpg --quality 85

  # PNG в WebP для веба
  imgconvert --file photo.png --preset web

  # Следить за исходником и переконвертировать при изменении
  imgconvert --file photo.png --to webp --watch-source

  # Список целевых форматов
  imgconvert formats`,
		RunE: runConvert,
	}

	// Флаги
	flags := rootCmd.Flags()

	// Входные параметры
	flags.StringVar(&cfg.InputPath, "file", "", "Исходный файл (обязательно)")
	flags.StringVar(&cfg.OutputDir, "out", "", "Директория для результата (по умолчанию - директория исходника)")

	// Выходные параметры
	flags.StringVar(&cfg.TargetMime, "to", cfg.TargetMime,
		"Целевой формат: MIME-тип или расширение (jpg, png, webp, gif, tiff, bmp)")
	flags.IntVar(&cfg.Quality, "quality", cfg.Quality, "Качество для lossy форматов (0-100)")
	flags.StringVar(&cfg.Preset, "preset", "", "Профиль качества: web, print, archive, thumbnail")

	// Режим работы
	flags.BoolVar(&cfg.WatchSource, "watch-source", cfg.WatchSource,
		"Следить за исходником и переконвертировать при изменении")

	// Конфигурация
	flags.StringVar(&flagConfigFile, "config", "", "Путь к YAML-файлу конфигурации")
	flags.StringVar(&flagSavePreset, "save-preset", "", "Сохранить текущие настройки как именованный пресет")
	flags.StringVar(&flagLoadPreset, "load-preset", "", "Загрузить настройки из именованного пресета")

	// Вывод
	flags.BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Подробный вывод")
	flags.BoolVar(&cfg.NoProgress, "no-progress", cfg.NoProgress, "Отключить прогресс-бар")

	// Обязательные флаги
	_ = rootCmd.MarkFlagRequired("file")

	// Подкоманды
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newFormatsCmd())
	rootCmd.AddCommand(newPresetsCmd())

	return rootCmd
}

// applyConfigSources применяет файл конфигурации и именованный пресет.
// Явно заданные флаги имеют приоритет над значениями из файлов.
func applyConfigSources(cmd *cobra.Command) error {
	base := config.DefaultConfig()
	loaded := false

	if flagConfigFile != "" {
		fc, err := config.LoadFromFile(flagConfigFile)
		if err != nil {
			return err
		}
		fc.ApplyTo(base)
		loaded = true
	}

	if flagLoadPreset != "" {
		fc, path, err := config.LoadPreset(flagLoadPreset)
		if err != nil {
			return err
		}
		fc.ApplyTo(base)
		loaded = true

		if cfg.Verbose {
			fmt.Printf("📦 Загружен пресет: %s (%s)\n", flagLoadPreset, path)
		}
	}

	if !loaded {
		return nil
	}

	// Переносим значения из файлов только там, где флаг не задан явно.
	flags := cmd.Flags()
	if !flags.Changed("to") {
		cfg.TargetMime = base.TargetMime
	}
	if !flags.Changed("quality") {
		cfg.Quality = base.Quality
	}
	if !flags.Changed("out") && base.OutputDir != "" {
		cfg.OutputDir = base.OutputDir
	}
	if !flags.Changed("watch-source") && base.WatchSource {
		cfg.WatchSource = true
	}
	if !flags.Changed("verbose") && base.Verbose {
		cfg.Verbose = true
	}
	if !flags.Changed("no-progress") && base.NoProgress {
		cfg.NoProgress = true
	}

	return nil
}

// resolveTargetMime принимает MIME-тип или расширение и возвращает
// MIME-тип из стандартного каталога.
func resolveTargetMime(target string) (string, error) {
	t := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(target), "."))

	if strings.Contains(t, "/") {
		if catalog.Standard().Contains(t) {
			return t, nil
		}
		return "", fmt.Errorf("неизвестный целевой формат: %s (см. команду formats)", target)
	}

	// jpeg и jpg указывают на один формат.
	if t == "jpeg" {
		t = "jpg"
	}
	if t == "tif" {
		t = "tiff"
	}

	for _, e := range catalog.Standard().Entries() {
		if e.Extension == t {
			return e.Mime, nil
		}
	}

	return "", fmt.Errorf("неизвестный целевой формат: %s (см. команду formats)", target)
}

// runConvert выполняет основную логику конвертации.
func runConvert(cmd *cobra.Command, args []string) error {
	startTime := time.Now()

	if err := applyConfigSources(cmd); err != nil {
		return fmt.Errorf("ошибка конфигурации: %w", err)
	}

	// Профиль качества применяется после файлов конфигурации,
	// но до явных флагов.
	if cfg.Preset != "" {
		if !cfg.ApplyPreset(cfg.Preset) {
			return fmt.Errorf("неизвестный профиль: %s (доступны: %s)",
				cfg.Preset, strings.Join(config.ValidPresets(), ", "))
		}
		if cmd.Flags().Changed("to") {
			mime, err := resolveTargetMime(cmd.Flag("to").Value.String())
			if err != nil {
				return err
			}
			cfg.TargetMime = mime
		}
		if cmd.Flags().Changed("quality") {
			q, _ := cmd.Flags().GetInt("quality")
			cfg.Quality = config.ClampQuality(q)
		}
	} else {
		mime, err := resolveTargetMime(cfg.TargetMime)
		if err != nil {
			return err
		}
		cfg.TargetMime = mime
	}

	// Валидация конфигурации
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("ошибка конфигурации: %w", err)
	}

	// Сохраняем пресет до конвертации: настройки полезны даже если
	// конвертация не удалась.
	if flagSavePreset != "" {
		path, err := config.SavePreset(flagSavePreset, cfg)
		if err != nil {
			return fmt.Errorf("не удалось сохранить пресет: %w", err)
		}
		fmt.Printf("💾 Пресет '%s' сохранён: %s\n", flagSavePreset, path)
	}

	// Создаём контекст с обработкой сигналов
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\n⚠️  Получен сигнал завершения, останавливаем...")
		cancel()
	}()

	// Читаем исходный файл
	data, err := os.ReadFile(cfg.InputPath)
	if err != nil {
		return fmt.Errorf("не удалось прочитать исходный файл: %w", err)
	}

	outDir := cfg.OutputDir
	if outDir == "" {
		outDir = filepath.Dir(cfg.InputPath)
	}

	// Хранилище предпросмотров живёт до конца команды.
	previews, err := preview.NewStore()
	if err != nil {
		return fmt.Errorf("не удалось создать хранилище предпросмотров: %w", err)
	}
	defer func() { _ = previews.Close() }()

	// Прогресс-бар подключается после классификации, когда известно
	// число этапов выбранного пути.
	var bar *progress.StepBar

	ctrl := workflow.New(workflow.Options{
		Classifier: classify.NewDetector(),
		Heic:       heic.NewConverter(),
		Recompress: recompress.New(),
		Encode:     encoder.NewRegistry(),
		Saver:      save.New(outDir),
		Previews:   previews,
		OnStage: func(stage string) {
			if bar != nil {
				bar.Step(stage)
			}
		},
	})

	// Принимаем файл (классификация внутри)
	cand := workflow.Candidate{
		Name: filepath.Base(cfg.InputPath),
		Path: cfg.InputPath,
		Data: data,
	}
	if err := ctrl.AcceptFile(ctx, cand); err != nil {
		return fmt.Errorf("не удалось принять файл: %w", err)
	}

	src := ctrl.Source()
	fmt.Printf("📄 Файл: %s (%s)\n", src.Name, formatSize(int64(len(src.Data))))
	if src.IsHeic {
		fmt.Println("🔍 Классификация: HEIC (доступны JPEG и PNG)")
	} else if cfg.Verbose {
		fmt.Println("🔍 Классификация: стандартный растровый формат")
	}

	// Целевой формат и качество
	if err := ctrl.SetTargetFormat(cfg.TargetMime); err != nil {
		return err
	}
	ctrl.SetQuality(cfg.Quality)

	entry, _ := ctrl.ActiveCatalog().Lookup(cfg.TargetMime)
	fmt.Printf("🚀 Конвертация в %s (качество: %d)\n", entry.Label, ctrl.Quality())

	// Этапы после классификации: HEIC-путь - конвертация и предпросмотр;
	// generic-путь - нормализация, декодирование, кодирование, предпросмотр.
	makeBar := func(isHeic bool) {
		totalSteps := 4
		if isHeic {
			totalSteps = 2
		}
		bar = progress.New(progress.Options{
			TotalSteps:  totalSteps,
			Description: "Конвертация",
			Disabled:    cfg.NoProgress,
		})
	}
	makeBar(src.IsHeic)

	convertAndSave := func() error {
		if err := ctrl.Convert(ctx); err != nil {
			return err
		}

		res := ctrl.Result()
		if res == nil {
			// Результат не опубликован (исходник сменился в полёте).
			return nil
		}

		path, err := ctrl.Download()
		if err != nil {
			return fmt.Errorf("не удалось сохранить результат: %w", err)
		}

		bar.Finish()
		fmt.Printf("✅ Сохранено: %s (%s)\n", path, formatSize(int64(len(res.Data))))
		if cfg.Verbose && res.Preview != nil {
			fmt.Printf("🖼  Предпросмотр: %s\n", res.Preview.Path())
		}

		return nil
	}

	if err := convertAndSave(); err != nil {
		return err
	}

	fmt.Printf("⏱  Время: %s\n", time.Since(startTime).Round(time.Millisecond))

	// Режим слежения: при изменении исходника на диске результат
	// устаревает, файл перечитывается и конвертируется заново.
	if cfg.WatchSource {
		return watchAndReconvert(ctx, ctrl, makeBar, convertAndSave)
	}

	return nil
}

// watchAndReconvert следит за исходником и переконвертирует при изменении.
func watchAndReconvert(ctx context.Context, ctrl *workflow.Controller, makeBar func(isHeic bool), convertAndSave func() error) error {
	changes := make(chan struct{}, 1)

	w, err := sourcewatch.New(cfg.InputPath, func() {
		ctrl.InvalidateResult()
		select {
		case changes <- struct{}{}:
		default:
		}
	})
	if err != nil {
		return fmt.Errorf("не удалось создать watcher: %w", err)
	}
	defer func() { _ = w.Close() }()

	if err := w.Watch(ctx); err != nil {
		return err
	}

	fmt.Printf("👀 Слежение за %s (Ctrl+C для выхода)\n", cfg.InputPath)

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-changes:
			fmt.Println("🔄 Исходник изменился, переконвертируем...")

			data, err := os.ReadFile(cfg.InputPath)
			if err != nil {
				fmt.Fprintf(os.Stderr, "⚠️  Не удалось перечитать исходник: %v\n", err)
				continue
			}

			cand := workflow.Candidate{
				Name: filepath.Base(cfg.InputPath),
				Path: cfg.InputPath,
				Data: data,
			}
			if err := ctrl.AcceptFile(ctx, cand); err != nil {
				fmt.Fprintf(os.Stderr, "⚠️  Не удалось принять файл: %v\n", err)
				continue
			}

			// Классификация могла измениться вместе с содержимым,
			// целевой формат восстанавливаем из конфигурации.
			if err := ctrl.SetTargetFormat(cfg.TargetMime); err != nil {
				fmt.Fprintf(os.Stderr, "⚠️  %v\n", err)
				continue
			}
			ctrl.SetQuality(cfg.Quality)
			makeBar(ctrl.Source().IsHeic)

			if err := convertAndSave(); err != nil {
				fmt.Fprintf(os.Stderr, "⚠️  Ошибка конвертации: %v\n", err)
			}
		}
	}
}

// formatSize форматирует размер в человекочитаемый вид.
func formatSize(size int64) string {
	const (
		kb = 1024
		mb = 1024 * kb
	)

	switch {
	case size >= mb:
		return fmt.Sprintf("%.1f МБ", float64(size)/mb)
	case size >= kb:
		return fmt.Sprintf("%.1f КБ", float64(size)/kb)
	default:
		return fmt.Sprintf("%d Б", size)
	}
}

// newVersionCmd создаёт команду version.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Показать версию",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("imgconvert %s (built %s)\n", Version, BuildTime)
		},
	}
}

// Execute запускает CLI.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		// Не выводим ошибку, cobra уже вывела
		os.Exit(1)
	}
}

/*
Возможные расширения:
- Добавить вывод разницы размеров (исходник против результата)
- Добавить флаг --stdout для записи результата в поток
- Добавить интерактивный выбор формата из каталога
*/
