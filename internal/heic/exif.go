// Package heic содержит сервис конвертации HEIC в стандартные форматы.
package heic

import "io"

// writerSkipper пропускает первые bytesToSkip байт потока.
// Нужен, чтобы вырезать SOI-маркер, который jpeg.Encode пишет сам:
// мы уже записали SOI и APP1-сегмент с EXIF до начала кодирования.
type writerSkipper struct {
	w           io.Writer
	bytesToSkip int
}

// Write реализует io.Writer с пропуском первых байт.
func (w *writerSkipper) Write(data []byte) (int, error) {
	if w.bytesToSkip <= 0 {
		return w.w.Write(data)
	}

	if dataLen := len(data); dataLen < w.bytesToSkip {
		w.bytesToSkip -= dataLen
		return dataLen, nil
	}

	n, err := w.w.Write(data[w.bytesToSkip:])
	if err == nil {
		n += w.bytesToSkip
		w.bytesToSkip = 0
	}
	return n, err
}

// newWriterExif оборачивает w так, чтобы JPEG-поток начинался с
// SOI + APP1(EXIF). При exif == nil записывается только SOI.
func newWriterExif(w io.Writer, exif []byte) (io.Writer, error) {
	writer := &writerSkipper{w: w, bytesToSkip: 2}

	soi := []byte{0xff, 0xd8}
	if _, err := w.Write(soi); err != nil {
		return nil, err
	}

	if exif != nil {
		const app1Marker = 0xe1
		markerLen := 2 + len(exif)
		marker := []byte{0xff, app1Marker, uint8(markerLen >> 8), uint8(markerLen & 0xff)}
		if _, err := w.Write(marker); err != nil {
			return nil, err
		}

		if _, err := w.Write(exif); err != nil {
			return nil, err
		}
	}

	return writer, nil
}
