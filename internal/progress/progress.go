// Package progress предоставляет прогресс-бар по этапам конвертации.
package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
)

// StepBar представляет прогресс-бар с фиксированным числом именованных этапов.
type StepBar struct {
	// bar - внутренний progressbar.
	bar *progressbar.ProgressBar

	// mu защищает доступ к bar и счётчикам.
	mu sync.Mutex

	// disabled - флаг отключения прогресс-бара.
	disabled bool

	// total - общее количество этапов.
	total int

	// done - пройденных этапов.
	done int

	// startTime - время начала обработки.
	startTime time.Time

	// writer - куда выводить (по умолчанию os.Stderr).
	writer io.Writer
}

// Options содержит настройки для прогресс-бара.
type Options struct {
	// TotalSteps - общее количество этапов конвертации.
	TotalSteps int

	// Description - описание задачи.
	Description string

	// Disabled - отключить прогресс-бар (только текстовый вывод).
	Disabled bool

	// Writer - куда выводить (по умолчанию os.Stderr).
	Writer io.Writer
}

// New создаёт новый прогресс-бар по этапам.
func New(opts Options) *StepBar {
	writer := opts.Writer
	if writer == nil {
		writer = os.Stderr
	}

	b := &StepBar{
		disabled:  opts.Disabled,
		total:     opts.TotalSteps,
		startTime: time.Now(),
		writer:    writer,
	}

	if !opts.Disabled && opts.TotalSteps > 0 {
		description := opts.Description
		if description == "" {
			description = "Конвертация"
		}

		b.bar = progressbar.NewOptions(
			opts.TotalSteps,
			progressbar.OptionSetWriter(writer),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionShowBytes(false),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionSetDescription(description),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "[green]█[reset]",
				SaucerHead:    "[green]▓[reset]",
				SaucerPadding: "░",
				BarStart:      "[",
				BarEnd:        "]",
			}),
			progressbar.OptionOnCompletion(func() {
				fmt.Fprintln(writer)
			}),
			progressbar.OptionSetPredictTime(false),
			progressbar.OptionFullWidth(),
		)
	}

	return b
}

// Step отмечает вход в очередной этап и показывает его название.
func (b *StepBar) Step(name string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.done++

	if b.bar != nil {
		b.bar.Describe(name)
		_ = b.bar.Add(1)
	}
}

// Finish завершает прогресс-бар.
func (b *StepBar) Finish() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.bar != nil {
		_ = b.bar.Finish()
	}
}

// Clear очищает прогресс-бар (для вывода сообщений).
func (b *StepBar) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.bar != nil {
		_ = b.bar.Clear()
	}
}

// Done возвращает количество пройденных этапов.
func (b *StepBar) Done() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.done
}

// Duration возвращает время с начала обработки.
func (b *StepBar) Duration() time.Duration {
	return time.Since(b.startTime)
}

// IsDisabled возвращает true, если прогресс-бар отключён.
func (b *StepBar) IsDisabled() bool {
	return b.disabled
}

// WriteMessage выводит сообщение, временно скрывая прогресс-бар.
func (b *StepBar) WriteMessage(format string, args ...interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.bar != nil {
		_ = b.bar.Clear()
	}

	fmt.Fprintf(b.writer, format, args...)

	if b.bar != nil {
		_ = b.bar.RenderBlank()
	}
}

/*
Возможные расширения:
- Добавить спиннер для этапов без известной длительности
- Добавить вывод длительности каждого этапа в verbose-режиме
*/
