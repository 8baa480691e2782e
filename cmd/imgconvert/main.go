// Команда imgconvert - CLI утилита для конвертации одного изображения.
package main

import "github.com/artemshloyda/imgconvert/internal/cli"

func main() {
	cli.Execute()
}
