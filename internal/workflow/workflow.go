// Package workflow содержит контроллер процесса конвертации.
//
// Контроллер - единственный владелец состояния сессии: принятого файла,
// параметров запроса и результата. Все мутации проходят через его
// операции; инварианты из доков пакета:
//
//   - живут максимум один SourceFile и один ConversionResult;
//   - результат всегда получен из текущего SourceFile - при смене файла
//     устаревший результат сбрасывается;
//   - целевой формат всегда принадлежит каталогу, применимому к
//     классификации текущего файла.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/artemshloyda/imgconvert/internal/catalog"
	"github.com/artemshloyda/imgconvert/internal/config"
	"github.com/artemshloyda/imgconvert/internal/heic"
	"github.com/artemshloyda/imgconvert/internal/preview"
)

// State определяет состояние контроллера.
type State string

const (
	// StateEmpty - файл не выбран.
	StateEmpty State = "empty"
	// StateFileSelected - файл принят, конвертация не запущена.
	StateFileSelected State = "file_selected"
	// StateConverting - конвертация выполняется.
	StateConverting State = "converting"
	// StateConverted - результат готов.
	StateConverted State = "converted"
)

// Политика нормализации generic-пути: ограничения промежуточного
// изображения, чтобы повторное кодирование оставалось быстрым.
const (
	// RecompressMaxSizeMB - потолок размера промежуточного изображения.
	RecompressMaxSizeMB = 1.0
	// RecompressMaxDimensionPx - потолок большей стороны.
	RecompressMaxDimensionPx = 1920
)

// Candidate - кандидат на принятие (выбранный пользователем файл).
type Candidate struct {
	// Name - заявленное имя файла.
	Name string

	// Path - путь на диске, если известен (для слежения за исходником).
	Path string

	// Data - содержимое файла.
	Data []byte
}

// SourceFile - принятый исходный файл.
type SourceFile struct {
	// Name - заявленное имя файла.
	Name string

	// Path - путь на диске, если известен.
	Path string

	// Data - содержимое файла.
	Data []byte

	// IsHeic - классификация файла.
	IsHeic bool

	// Preview - хэндл предпросмотра неизменённого входа.
	Preview *preview.Handle
}

// ConversionResult - результат успешной конвертации.
type ConversionResult struct {
	// Data - байты результата.
	Data []byte

	// Mime - MIME-тип результата.
	Mime string

	// Preview - хэндл предпросмотра результата.
	Preview *preview.Handle
}

// Controller реализует процесс конвертации одного файла.
type Controller struct {
	// mu защищает всё состояние ниже.
	mu sync.Mutex

	// state - текущее состояние.
	state State

	// converting - флаг единственной конвертации в полёте.
	converting bool

	// generation растёт при каждой смене исходника; конвертация,
	// пережившая смену, сбрасывает свой результат как устаревший.
	generation uint64

	// source - принятый файл (максимум один).
	source *SourceFile

	// targetMime - целевой формат запроса.
	targetMime string

	// quality - качество запроса (0-100).
	quality int

	// result - результат конвертации (максимум один).
	result *ConversionResult

	// Внешние сервисы.
	classifier    Classifier
	heicSvc       HeicService
	recompressSvc RecompressService
	encodeSvc     EncodeService
	saver         Saver

	// previews - хранилище хэндлов предпросмотра.
	previews *preview.Store

	// onStage - отчёт о этапах (опционально).
	onStage StageFunc
}

// Options содержит зависимости контроллера.
type Options struct {
	// Classifier - сервис классификации.
	Classifier Classifier

	// Heic - HEIC-путь конвертации.
	Heic HeicService

	// Recompress - сервис нормализации generic-пути.
	Recompress RecompressService

	// Encode - примитив кодирования generic-пути.
	Encode EncodeService

	// Saver - примитив сохранения на диск.
	Saver Saver

	// Previews - хранилище предпросмотров.
	Previews *preview.Store

	// OnStage - отчёт о этапах (опционально).
	OnStage StageFunc
}

// New создаёт контроллер в состоянии StateEmpty.
func New(opts Options) *Controller {
	return &Controller{
		state:         StateEmpty,
		targetMime:    catalog.DefaultMime,
		quality:       config.DefaultQuality,
		classifier:    opts.Classifier,
		heicSvc:       opts.Heic,
		recompressSvc: opts.Recompress,
		encodeSvc:     opts.Encode,
		saver:         opts.Saver,
		previews:      opts.Previews,
		onStage:       opts.OnStage,
	}
}

// State возвращает текущее состояние контроллера.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Source возвращает принятый файл (nil, если файла нет).
func (c *Controller) Source() *SourceFile {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.source
}

// Result возвращает результат конвертации (nil, если результата нет).
func (c *Controller) Result() *ConversionResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result
}

// TargetMime возвращает текущий целевой формат.
func (c *Controller) TargetMime() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.targetMime
}

// Quality возвращает текущее качество.
func (c *Controller) Quality() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.quality
}

// ActiveCatalog возвращает каталог, применимый к текущему файлу.
// Без принятого файла активен стандартный каталог.
func (c *Controller) ActiveCatalog() *catalog.Catalog {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activeCatalogLocked()
}

func (c *Controller) activeCatalogLocked() *catalog.Catalog {
	if c.source != nil {
		return catalog.ForSource(c.source.IsHeic)
	}
	return catalog.Standard()
}

// stage отправляет отчёт о входе в этап.
func (c *Controller) stage(name string) {
	if c.onStage != nil {
		c.onStage(name)
	}
}

// AcceptFile принимает ровно один файл. При передаче нескольких
// кандидатов рассматривается только первый, остальные молча
// отбрасываются.
//
// При ошибке классификации операция прерывается, предыдущее состояние
// (включая ранее принятый файл и результат) не меняется.
//
// При успехе: исходник замещается целиком, целевой формат сбрасывается
// на значение по умолчанию нового каталога, устаревший результат
// сбрасывается, создаётся предпросмотр неизменённого входа, а
// вытесненные хэндлы предпросмотра освобождаются.
func (c *Controller) AcceptFile(ctx context.Context, candidates ...Candidate) error {
	if len(candidates) == 0 {
		return ErrNoCandidate
	}
	first := candidates[0]

	if err := ctx.Err(); err != nil {
		return err
	}

	c.stage(StageClassify)

	if c.classifier == nil || !c.classifier.Ready() {
		return ErrClassificationUnavailable
	}

	isHeic, err := c.classifier.IsHeicLikeBytes(first.Data)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrClassificationUnavailable, err)
	}

	// Предпросмотр создаётся до замещения состояния: если он не
	// удался, предыдущее состояние остаётся нетронутым.
	var ph *preview.Handle
	if c.previews != nil {
		ph, err = c.previews.Materialize(first.Data, extensionHint(first.Name))
		if err != nil {
			return fmt.Errorf("не удалось создать предпросмотр: %w", err)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Освобождаем вытесненные хэндлы.
	if c.source != nil {
		c.source.Preview.Release()
	}
	if c.result != nil {
		c.result.Preview.Release()
	}

	c.generation++
	c.source = &SourceFile{
		Name:    first.Name,
		Path:    first.Path,
		Data:    first.Data,
		IsHeic:  isHeic,
		Preview: ph,
	}
	c.result = nil
	c.targetMime = catalog.ForSource(isHeic).Default().Mime
	c.state = StateFileSelected

	return nil
}

// SetTargetFormat устанавливает целевой формат запроса.
// Значение вне активного каталога отклоняется (не приводится к
// допустимому): возвращается ошибка, состояние не меняется.
func (c *Controller) SetTargetFormat(mime string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	cat := c.activeCatalogLocked()
	if !cat.Contains(mime) {
		return fmt.Errorf("%w: %s (каталог: %s)", ErrUnsupportedTarget, mime, cat.Name())
	}

	c.targetMime = mime
	return nil
}

// SetQuality устанавливает качество запроса.
// Значение приводится к диапазону [0, 100], вне диапазона не хранится.
func (c *Controller) SetQuality(q int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.quality = config.ClampQuality(q)
}

// Convert запускает конвертацию текущего файла.
//
// Без принятого файла - no-op без ошибки, состояние не меняется.
// Повторный вызов при конвертации в полёте возвращает ErrBusy и не
// влияет на выполняющуюся операцию.
//
// При успехе публикуется результат и состояние становится
// StateConverted. При ошибке состояние возвращается к StateFileSelected,
// результат остаётся отсутствующим.
func (c *Controller) Convert(ctx context.Context) error {
	c.mu.Lock()
	if c.converting {
		c.mu.Unlock()
		return ErrBusy
	}
	if c.source == nil {
		// Нечего конвертировать: no-op по контракту.
		c.mu.Unlock()
		return nil
	}

	c.converting = true
	c.state = StateConverting

	// Новая конвертация сбрасывает предыдущий результат.
	if c.result != nil {
		c.result.Preview.Release()
		c.result = nil
	}

	gen := c.generation
	src := c.source
	targetMime := c.targetMime
	quality := c.quality
	c.mu.Unlock()

	data, mime, err := c.runConversion(ctx, src, targetMime, quality)
	if err != nil {
		c.mu.Lock()
		c.converting = false
		if c.generation == gen {
			c.state = StateFileSelected
		}
		c.mu.Unlock()
		return err
	}

	// Предпросмотр результата.
	c.stage(StagePreview)
	var ph *preview.Handle
	if c.previews != nil {
		ext, _ := catalog.ExtensionFor(mime)
		ph, err = c.previews.Materialize(data, ext)
		if err != nil {
			c.mu.Lock()
			c.converting = false
			if c.generation == gen {
				c.state = StateFileSelected
			}
			c.mu.Unlock()
			return fmt.Errorf("%w: не удалось создать предпросмотр: %w", ErrConversionFailed, err)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.converting = false

	// Исходник сменился, пока шла конвертация: результат устарел
	// и не публикуется.
	if c.generation != gen {
		ph.Release()
		return nil
	}

	c.result = &ConversionResult{
		Data:    data,
		Mime:    mime,
		Preview: ph,
	}
	c.state = StateConverted

	return nil
}

// runConversion выполняет выбранный путь конвертации без удержания
// блокировки контроллера.
func (c *Controller) runConversion(ctx context.Context, src *SourceFile, targetMime string, quality int) ([]byte, string, error) {
	if src.IsHeic {
		return c.runHeicPath(ctx, src, targetMime, quality)
	}
	return c.runGenericPath(ctx, src, targetMime, quality)
}

// runHeicPath - HEIC-путь: один вызов HEIC-сервиса.
func (c *Controller) runHeicPath(ctx context.Context, src *SourceFile, targetMime string, quality int) ([]byte, string, error) {
	if c.heicSvc == nil || !c.heicSvc.Ready() {
		return nil, "", fmt.Errorf("%w: HEIC-сервис не готов", ErrConversionFailed)
	}

	c.stage(StageHeic)

	res, err := c.heicSvc.Convert(ctx, src.Data, targetMime, quality)
	if err != nil {
		if errors.Is(err, heic.ErrUnsupportedTarget) {
			return nil, "", fmt.Errorf("%w: %w", ErrUnsupportedTarget, err)
		}
		return nil, "", fmt.Errorf("%w: %w", ErrConversionFailed, err)
	}

	return res.Data, res.Mime, nil
}

// runGenericPath - generic-путь: нормализация, затем повторное
// кодирование растровой поверхности в целевой формат.
func (c *Controller) runGenericPath(ctx context.Context, src *SourceFile, targetMime string, quality int) ([]byte, string, error) {
	if c.recompressSvc == nil || !c.recompressSvc.Ready() {
		return nil, "", fmt.Errorf("%w: сервис нормализации не готов", ErrConversionFailed)
	}
	if c.encodeSvc == nil {
		return nil, "", fmt.Errorf("%w: примитив кодирования не готов", ErrConversionFailed)
	}

	// Набор энкодеров перечислен заранее: неподдерживаемый формат
	// отклоняется до начала работы, молчаливая подмена невозможна.
	if !c.encodeSvc.Supports(targetMime) {
		return nil, "", fmt.Errorf("%w: %s", ErrUnsupportedTarget, targetMime)
	}

	c.stage(StageNormalize)

	inter, err := c.recompressSvc.Recompress(ctx, src.Data, RecompressMaxSizeMB, RecompressMaxDimensionPx)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrConversionFailed, err)
	}

	c.stage(StageDecode)

	img, err := c.recompressSvc.Decode(inter.Data)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrConversionFailed, err)
	}

	c.stage(StageEncode)

	data, err := c.encodeSvc.Encode(img, targetMime, quality)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrConversionFailed, err)
	}

	return data, targetMime, nil
}

// Download сохраняет результат на диск под производным именем.
// Без результата - no-op: возвращается пустой путь без ошибки.
func (c *Controller) Download() (string, error) {
	c.mu.Lock()
	res := c.result
	var name string
	if c.source != nil {
		name = c.source.Name
	}
	saver := c.saver
	c.mu.Unlock()

	if res == nil {
		return "", nil
	}
	if saver == nil {
		return "", fmt.Errorf("примитив сохранения не настроен")
	}

	return saver.Save(name, res.Mime, res.Data)
}

// InvalidateResult сбрасывает результат как устаревший (например,
// исходный файл изменился на диске). Конвертация в полёте после
// этого не опубликует свой результат.
func (c *Controller) InvalidateResult() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.generation++

	if c.result != nil {
		c.result.Preview.Release()
		c.result = nil
	}
	if c.state == StateConverted {
		c.state = StateFileSelected
	}
}

// extensionHint извлекает расширение имени файла для предпросмотра.
func extensionHint(name string) string {
	if idx := strings.LastIndex(name, "."); idx >= 0 && idx < len(name)-1 {
		return strings.ToLower(name[idx+1:])
	}
	return "bin"
}

/*
Возможные расширения:
- Добавить отмену конвертации в полёте через контекст с cancel
- Добавить таймаут на внешние сервисы
*/
