// Package classify отвечает за классификацию входного файла (HEIC или нет).
package classify

import (
	"bytes"
	"errors"
	"fmt"
	"io"
)

// ErrNotReady возвращается, когда классификатор не инициализирован.
// Контроллер обязан проверять готовность до вызова классификации.
var ErrNotReady = errors.New("классификатор не инициализирован")

// sniffLen - количество байт, достаточное для распознавания ftyp-бокса.
const sniffLen = 32

// heicBrands - брэнды ISO-BMFF, указывающие на HEIC/HEIF контейнер.
// Список соответствует брэндам, которые принимает HEIC-декодер.
var heicBrands = [][]byte{
	[]byte("heic"),
	[]byte("heix"),
	[]byte("heim"),
	[]byte("heis"),
	[]byte("hevc"),
	[]byte("hevx"),
	[]byte("mif1"),
	[]byte("msf1"),
}

// Detector классифицирует входной файл по сигнатуре содержимого.
//
// Готовность выражена явно: Detector, полученный не через NewDetector
// (например, нулевое значение в составе другой структуры), считается
// неинициализированным и возвращает ErrNotReady.
type Detector struct {
	// ready - прошла ли инициализация.
	ready bool
}

// NewDetector создаёт инициализированный Detector.
func NewDetector() *Detector {
	return &Detector{ready: true}
}

// Ready возвращает true, если классификатор готов к работе.
func (d *Detector) Ready() bool {
	return d != nil && d.ready
}

// IsHeicLike определяет, является ли содержимое HEIC/HEIF контейнером.
// Читает не больше sniffLen байт из r.
func (d *Detector) IsHeicLike(r io.Reader) (bool, error) {
	if !d.Ready() {
		return false, ErrNotReady
	}

	header := make([]byte, sniffLen)
	n, err := io.ReadFull(r, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("не удалось прочитать заголовок файла: %w", err)
	}
	header = header[:n]

	return sniffHeader(header), nil
}

// IsHeicLikeBytes - вариант IsHeicLike для содержимого в памяти.
func (d *Detector) IsHeicLikeBytes(data []byte) (bool, error) {
	return d.IsHeicLike(bytes.NewReader(data))
}

// sniffHeader проверяет сигнатуру ISO-BMFF ftyp.
// Структура: [4 байта размер бокса]["ftyp"][4 байта major brand]...
func sniffHeader(header []byte) bool {
	if len(header) < 12 {
		return false
	}

	if !bytes.Equal(header[4:8], []byte("ftyp")) {
		return false
	}

	majorBrand := header[8:12]
	for _, brand := range heicBrands {
		if bytes.Equal(majorBrand, brand) {
			return true
		}
	}

	// Major brand может быть нейтральным (isom и т.п.), тогда HEIC
	// заявлен в compatible brands после версии.
	for off := 16; off+4 <= len(header); off += 4 {
		for _, brand := range heicBrands {
			if bytes.Equal(header[off:off+4], brand) {
				return true
			}
		}
	}

	return false
}

/*
Возможные расширения:
- Различать HEIC и AVIF (брэнды avif/avis) для отдельного каталога
- Добавить проверку расширения файла как подсказку при пустом заголовке
*/
