// Package cli содержит CLI команды приложения.
package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/artemshloyda/imgconvert/internal/config"
)

// newPresetsCmd создаёт команду для управления пресетами.
func newPresetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "presets",
		Short: "Управление именованными пресетами конфигурации",
		Long: `Управление именованными пресетами конфигурации.

Пресеты хранятся в ~/.config/imgconvert/presets/ и позволяют
сохранять и загружать настройки для разных задач.

Примеры:
  # Сохранить текущие настройки как пресет
  imgconvert --file photo.png --to webp --quality 70 --save-preset my-site

  # Загрузить пресет и запустить конвертацию
  imgconvert --file photo.png --load-preset my-site

  # Список пресетов
  imgconvert presets list

  # Удалить пресет
  imgconvert presets delete my-site`,
	}

	cmd.AddCommand(newPresetsListCmd())
	cmd.AddCommand(newPresetsDeleteCmd())
	cmd.AddCommand(newPresetsShowCmd())

	return cmd
}

// newPresetsListCmd создаёт команду для списка пресетов.
func newPresetsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Показать список сохранённых пресетов",
		RunE: func(cmd *cobra.Command, args []string) error {
			presets, err := config.ListPresets()
			if err != nil {
				return fmt.Errorf("ошибка получения списка пресетов: %w", err)
			}

			if len(presets) == 0 {
				fmt.Println("Пресеты не найдены.")
				fmt.Println()
				fmt.Println("Сохраните пресет командой:")
				fmt.Println("  imgconvert --file photo.png --to webp --save-preset my-site")
				return nil
			}

			fmt.Printf("📦 Сохранённые пресеты (%d):\n\n", len(presets))

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ИМЯ\tФОРМАТ\tКАЧЕСТВО\tПУТЬ")
			fmt.Fprintln(w, "---\t------\t--------\t----")

			for _, p := range presets {
				mime := "-"
				quality := "-"
				if p.Config != nil && p.Config.Output != nil {
					if p.Config.Output.Mime != "" {
						mime = p.Config.Output.Mime
					}
					if p.Config.Output.Quality != nil {
						quality = fmt.Sprintf("%d", *p.Config.Output.Quality)
					}
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.Name, mime, quality, p.Path)
			}
			w.Flush()

			return nil
		},
	}
}

// newPresetsDeleteCmd создаёт команду для удаления пресета.
func newPresetsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [name]",
		Short: "Удалить пресет",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

			if err := config.DeletePreset(name); err != nil {
				return err
			}

			fmt.Printf("✅ Пресет '%s' удалён\n", name)
			return nil
		},
	}
}

// newPresetsShowCmd создаёт команду для отображения пресета.
func newPresetsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [name]",
		Short: "Показать содержимое пресета",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

			fc, path, err := config.LoadPreset(name)
			if err != nil {
				return err
			}

			fmt.Printf("📦 Пресет: %s\n", name)
			fmt.Printf("📁 Путь: %s\n\n", path)

			if fc.Output != nil {
				fmt.Println("Output:")
				if fc.Output.Mime != "" {
					fmt.Printf("  mime: %s\n", fc.Output.Mime)
				}
				if fc.Output.Quality != nil {
					fmt.Printf("  quality: %d\n", *fc.Output.Quality)
				}
				if fc.Output.Dir != "" {
					fmt.Printf("  dir: %s\n", fc.Output.Dir)
				}
			}

			if fc.Processing != nil {
				fmt.Println("Processing:")
				if fc.Processing.WatchSource {
					fmt.Println("  watch_source: true")
				}
				if fc.Processing.Verbose {
					fmt.Println("  verbose: true")
				}
				if fc.Processing.NoProgress {
					fmt.Println("  no_progress: true")
				}
			}

			return nil
		},
	}
}

/*
Возможные расширения:
- Добавить команду 'presets export' для экспорта в файл
- Добавить команду 'presets import' для импорта из файла
- Добавить команду 'presets copy' для копирования пресета
*/
