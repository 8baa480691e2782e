// Package workflow содержит контроллер процесса конвертации.
package workflow

import "errors"

// Таксономия ошибок контроллера. Все ошибки перехватываются на границе
// операций (AcceptFile, Convert) и никогда не уходят паникой.
var (
	// ErrClassificationUnavailable - сервис классификации недоступен
	// или завершился ошибкой. Операция принятия файла прерывается,
	// предыдущее состояние не меняется.
	ErrClassificationUnavailable = errors.New("сервис классификации недоступен")

	// ErrConversionFailed - любая ошибка HEIC-сервиса, сервиса
	// нормализации или примитива кодирования. Состояние возвращается
	// к FileSelected, частичный результат не публикуется.
	ErrConversionFailed = errors.New("конвертация завершилась ошибкой")

	// ErrUnsupportedTarget - запрошенный MIME-тип не поддерживается
	// активным путём конвертации. Отдельное условие: формат никогда
	// не подменяется молча.
	ErrUnsupportedTarget = errors.New("целевой формат не поддерживается")

	// ErrBusy - конвертация уже выполняется. Повторный вызов
	// отклоняется, а не ставится в очередь.
	ErrBusy = errors.New("конвертация уже выполняется")

	// ErrNoCandidate - в AcceptFile не передано ни одного файла.
	ErrNoCandidate = errors.New("файл не передан")
)
