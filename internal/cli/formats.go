// Package cli содержит CLI команды приложения.
package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/artemshloyda/imgconvert/internal/catalog"
)

// newFormatsCmd создаёт команду для списка целевых форматов.
func newFormatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "Показать доступные целевые форматы",
		Long: `Показать доступные целевые форматы.

Для обычных растровых файлов доступен стандартный каталог.
Для HEIC-входа набор ограничен: HEIC-путь конвертации
поддерживает только JPEG и PNG.`,
		Run: func(cmd *cobra.Command, args []string) {
			printCatalog(catalog.Standard())
			fmt.Println()
			printCatalog(catalog.HeicRestricted())
		},
	}
}

// printCatalog выводит один каталог, сгруппированный по категориям.
func printCatalog(c *catalog.Catalog) {
	fmt.Printf("📋 Каталог: %s\n\n", c.Name())

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

	for _, category := range c.Categories() {
		fmt.Fprintf(w, "%s:\t\t\n", category)
		for _, e := range c.Entries() {
			if e.Category != category {
				continue
			}
			marker := " "
			if e.Mime == catalog.DefaultMime {
				marker = "*"
			}
			fmt.Fprintf(w, "  %s %s\t%s\t.%s\n", marker, e.Label, e.Mime, e.Extension)
		}
	}
	w.Flush()

	fmt.Println("\n  * - формат по умолчанию")
}
