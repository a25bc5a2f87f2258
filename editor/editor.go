package editor

import (
	"context"
	"errors"
	"image"
	"io"
	"log/slog"
	"slices"
	"sync"

	"github.com/chaos-io/transpalentor/api"
)

// Backend 处理服务端的三个交换
type Backend interface {
	Upload(ctx context.Context, filename, contentType string, r io.Reader) (*api.UploadResponse, error)
	Process(ctx context.Context, req *api.ProcessRequest) (*api.ProcessResponse, error)
	Erase(ctx context.Context, req *api.EraseRequest) (*api.EraseResponse, error)
}

// View 渲染层。Editor 持锁调用这些方法，实现里不能再回调 Editor。
type View interface {
	RenderColors(colors []Color)
	SetSubmitEnabled(enabled bool)
	ShowBrushPicker(visible bool)
	SetSurfaceActive(active bool)
	SetBrushSize(size int)
	ShowOriginal(url string)
	ShowProcessed(url string)
	RevealTools()
	DisablePicker(reason string)
	SetBusy(busy bool)
	ShowError(msg string)
	ClearError()
}

// ColorPicker 平台取色能力，取消时返回 ErrPickCancelled
type ColorPicker interface {
	Supported() bool
	Pick(ctx context.Context) (string, error)
}

type Option func(*Editor)

func WithPicker(p ColorPicker) Option { return func(e *Editor) { e.picker = p } }

func WithLogger(l *slog.Logger) Option { return func(e *Editor) { e.log = l } }

func WithMessages(m Messages) Option { return func(e *Editor) { e.msgs = m } }

// WithBrushPresets 替换可选笔刷；默认笔刷不在其中时取第一个
func WithBrushPresets(sizes ...int) Option {
	return func(e *Editor) { e.presets = append([]int(nil), sizes...) }
}

// WithDispatcher 手势结束后的消除请求通过 fn 执行；默认在当前 goroutine 同步执行
func WithDispatcher(fn func(func())) Option { return func(e *Editor) { e.dispatch = fn } }

// Editor 唯一持有会话状态的控制器
type Editor struct {
	mu      sync.Mutex
	state   State
	mapper  Mapper
	strokes *StrokeCollector

	backend  Backend
	view     View
	surface  Surface
	picker   ColorPicker
	log      *slog.Logger
	msgs     Messages
	presets  []int
	dispatch func(func())

	transfer
}

func New(backend Backend, view View, surface Surface, opts ...Option) *Editor {
	e := &Editor{
		state:    newState(),
		backend:  backend,
		view:     view,
		surface:  surface,
		log:      slog.Default(),
		msgs:     English,
		presets:  DefaultBrushPresets,
		dispatch: func(f func()) { f() },
	}
	for _, o := range opts {
		o(e)
	}
	if e.view == nil {
		e.view = NopView{}
	}
	if e.surface == nil {
		e.surface = nopSurface{}
	}
	if len(e.presets) > 0 && !slices.Contains(e.presets, e.state.BrushSize) {
		e.state.BrushSize = e.presets[0]
	}
	e.strokes = NewStrokeCollector(&e.mapper, e.surface)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.picker == nil || !e.picker.Supported() {
		e.view.DisablePicker(e.msgs.PickerUnavailable)
	}
	e.renderColors()
	e.renderTool()
	e.view.SetBrushSize(e.state.BrushSize)
	return e
}

// Snapshot 当前状态的深拷贝
func (e *Editor) Snapshot() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Clone()
}

// Stroke 正在进行的手势已收集的坐标
func (e *Editor) Stroke() []image.Point {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.strokes.Points()
}

func (e *Editor) notice(err error) {
	e.view.ShowError(e.msgs.Notice(err))
}

func (e *Editor) renderColors() {
	e.view.RenderColors(e.state.Colors.Colors())
	e.view.SetSubmitEnabled(e.state.SubmitEnabled())
}

func (e *Editor) renderTool() {
	erase := e.state.Tool == ToolErase
	e.view.ShowBrushPicker(erase)
	e.view.SetSurfaceActive(erase)
}

// AddColor 追加颜色；满 3 个或重复时提示并返回错误，集合不变
func (e *Editor) AddColor(c Color) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.state.Colors.Add(c); err != nil {
		e.notice(err)
		return err
	}
	e.renderColors()
	return nil
}

// AddColorRGB 手动输入的 RGB
func (e *Editor) AddColorRGB(r, g, b int) error {
	c, err := ColorFromInts(r, g, b)
	if err != nil {
		e.mu.Lock()
		e.notice(err)
		e.mu.Unlock()
		return err
	}
	return e.AddColor(c)
}

// RemoveColor 越界时什么也不做
func (e *Editor) RemoveColor(i int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.state.Colors.Remove(i); err != nil {
		return err
	}
	e.renderColors()
	return nil
}

// PickColor 调用平台取色器并把结果加入颜色集合，用户取消时静默返回
func (e *Editor) PickColor(ctx context.Context) error {
	if e.picker == nil || !e.picker.Supported() {
		e.mu.Lock()
		e.notice(ErrPickerUnavailable)
		e.mu.Unlock()
		return ErrPickerUnavailable
	}

	hex, err := e.picker.Pick(ctx)
	if errors.Is(err, ErrPickCancelled) {
		return nil
	}
	if err == nil {
		var c Color
		if c, err = ParseHex(hex); err == nil {
			return e.AddColor(c)
		}
	}

	e.log.Warn("pick color", "error", err)
	e.mu.Lock()
	e.view.ShowError(e.msgs.PickFailed)
	e.mu.Unlock()
	return err
}

// SetTool 切换模式；不影响正在收集的笔画
func (e *Editor) SetTool(mode ToolMode) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.state.Tool = mode
	e.renderTool()
}

func (e *Editor) SetBrushSize(size int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !slices.Contains(e.presets, size) {
		e.notice(ErrBrushSize)
		return ErrBrushSize
	}
	e.state.BrushSize = size
	e.view.SetBrushSize(size)
	return nil
}

// SetThreshold 范围由页面控件限制，这里不校验
func (e *Editor) SetThreshold(threshold int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.Threshold = threshold
}

// ArtifactLoaded 处理后图像加载完成时调用，传入图像的 natural 尺寸
func (e *Editor) ArtifactLoaded(width, height int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.mapper.SetIntrinsic(width, height)
	e.surface.Resize(width, height)
}

// HandlePointer 处理统一后的指针事件
func (e *Editor) HandlePointer(ctx context.Context, ev PointerEvent) {
	e.mu.Lock()

	switch ev.Phase {
	case PointerStart:
		if e.state.Tool == ToolErase && e.state.Artifact != nil {
			if e.strokes.Begin(ev, e.state.BrushSize) {
				e.failed = nil
			}
		}
	case PointerMove:
		if e.state.Tool == ToolErase {
			e.strokes.Move(ev, e.state.BrushSize)
		}
	case PointerEnd:
		if pts := e.strokes.End(); len(pts) > 0 {
			job := eraseJob{points: pts, brush: e.state.BrushSize}
			e.mu.Unlock()
			e.dispatch(func() { _ = e.submitErase(ctx, job) })
			return
		}
	}
	e.mu.Unlock()
}

// NopView 丢弃所有渲染调用，无界面运行时使用
type NopView struct{}

func (NopView) RenderColors([]Color) {}
func (NopView) SetSubmitEnabled(bool) {}
func (NopView) ShowBrushPicker(bool) {}
func (NopView) SetSurfaceActive(bool) {}
func (NopView) SetBrushSize(int) {}
func (NopView) ShowOriginal(string) {}
func (NopView) ShowProcessed(string) {}
func (NopView) RevealTools() {}
func (NopView) DisablePicker(string) {}
func (NopView) SetBusy(bool) {}
func (NopView) ShowError(string) {}
func (NopView) ClearError() {}

type nopSurface struct{}

func (nopSurface) Resize(int, int) {}
func (nopSurface) Clear() {}
func (nopSurface) DrawPreview(image.Point, int, []image.Point) {}
