package editor

import (
	"context"
	"image"
	"io"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chaos-io/transpalentor/api"
)

type viewState struct {
	colors         []Color
	submit         bool
	brushPicker    bool
	surfaceActive  bool
	brush          int
	original       string
	processed      string
	revealed       bool
	pickerDisabled string
	busy           bool
	busyCalls      []bool
	shown          string
	errs           []string
}

type fakeView struct {
	mu sync.Mutex
	st viewState
}

func (v *fakeView) RenderColors(c []Color) { v.mu.Lock(); v.st.colors = c; v.mu.Unlock() }
func (v *fakeView) SetSubmitEnabled(on bool) { v.mu.Lock(); v.st.submit = on; v.mu.Unlock() }
func (v *fakeView) ShowBrushPicker(on bool) { v.mu.Lock(); v.st.brushPicker = on; v.mu.Unlock() }
func (v *fakeView) SetSurfaceActive(on bool) { v.mu.Lock(); v.st.surfaceActive = on; v.mu.Unlock() }
func (v *fakeView) SetBrushSize(n int) { v.mu.Lock(); v.st.brush = n; v.mu.Unlock() }
func (v *fakeView) ShowOriginal(u string) { v.mu.Lock(); v.st.original = u; v.mu.Unlock() }
func (v *fakeView) ShowProcessed(u string) { v.mu.Lock(); v.st.processed = u; v.mu.Unlock() }
func (v *fakeView) RevealTools() { v.mu.Lock(); v.st.revealed = true; v.mu.Unlock() }
func (v *fakeView) DisablePicker(reason string) { v.mu.Lock(); v.st.pickerDisabled = reason; v.mu.Unlock() }

func (v *fakeView) SetBusy(on bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.st.busy = on
	v.st.busyCalls = append(v.st.busyCalls, on)
}

func (v *fakeView) ShowError(msg string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.st.shown = msg
	v.st.errs = append(v.st.errs, msg)
}

func (v *fakeView) ClearError() { v.mu.Lock(); v.st.shown = ""; v.mu.Unlock() }

func (v *fakeView) snapshot() viewState {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := v.st
	out.colors = append([]Color(nil), v.st.colors...)
	out.busyCalls = append([]bool(nil), v.st.busyCalls...)
	out.errs = append([]string(nil), v.st.errs...)
	return out
}

type fakeSurface struct {
	mu       sync.Mutex
	width    int
	height   int
	clears   int
	previews int
	at       image.Point
	diameter int
	stroke   []image.Point
}

func (s *fakeSurface) Resize(w, h int) { s.mu.Lock(); s.width, s.height = w, h; s.mu.Unlock() }
func (s *fakeSurface) Clear() { s.mu.Lock(); s.clears++; s.mu.Unlock() }

func (s *fakeSurface) cleared() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clears
}

func (s *fakeSurface) DrawPreview(at image.Point, diameter int, stroke []image.Point) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.previews++
	s.at, s.diameter = at, diameter
	s.stroke = append([]image.Point(nil), stroke...)
}

// fakeBackend 默认直接成功；设置对应函数可以阻塞或返回错误
type fakeBackend struct {
	mu sync.Mutex

	upload  func(filename string) (*api.UploadResponse, error)
	process func(req *api.ProcessRequest) (*api.ProcessResponse, error)
	erase   func(req *api.EraseRequest) (*api.EraseResponse, error)

	uploads     []string
	processReqs []*api.ProcessRequest
	eraseReqs   []*api.EraseRequest
}

func (b *fakeBackend) Upload(_ context.Context, filename, _ string, r io.Reader) (*api.UploadResponse, error) {
	_, _ = io.Copy(io.Discard, r)
	b.mu.Lock()
	b.uploads = append(b.uploads, filename)
	fn := b.upload
	b.mu.Unlock()
	if fn != nil {
		return fn(filename)
	}
	return &api.UploadResponse{
		SessionID: "sid-" + filename,
		Filename:  filename,
		ImageURL:  "/api/images/sid-" + filename + "/" + filename,
	}, nil
}

func (b *fakeBackend) Process(_ context.Context, req *api.ProcessRequest) (*api.ProcessResponse, error) {
	b.mu.Lock()
	b.processReqs = append(b.processReqs, req)
	fn := b.process
	b.mu.Unlock()
	if fn != nil {
		return fn(req)
	}
	stem := strings.TrimSuffix(req.Filename, ".png")
	return &api.ProcessResponse{
		SessionID:    req.SessionID,
		Filename:     stem + "_processed.png",
		ProcessedURL: "/api/images/" + req.SessionID + "/" + stem + "_processed.png",
	}, nil
}

func (b *fakeBackend) Erase(_ context.Context, req *api.EraseRequest) (*api.EraseResponse, error) {
	b.mu.Lock()
	b.eraseReqs = append(b.eraseReqs, req)
	n := len(b.eraseReqs)
	fn := b.erase
	b.mu.Unlock()
	if fn != nil {
		return fn(req)
	}
	return &api.EraseResponse{
		SessionID:    req.SessionID,
		Filename:     req.Filename,
		ProcessedURL: "/api/images/" + req.SessionID + "/" + req.Filename + "?t=" + strconv.Itoa(n),
	}, nil
}

func (b *fakeBackend) counts() (uploads, processes, erases int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.uploads), len(b.processReqs), len(b.eraseReqs)
}

func (b *fakeBackend) erases() []*api.EraseRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]*api.EraseRequest(nil), b.eraseReqs...)
}

type fakePicker struct {
	supported bool
	hex       string
	err       error
}

func (p fakePicker) Supported() bool { return p.supported }

func (p fakePicker) Pick(context.Context) (string, error) { return p.hex, p.err }

func newTestEditor(t *testing.T, b Backend, opts ...Option) (*Editor, *fakeView, *fakeSurface) {
	t.Helper()
	v := &fakeView{}
	s := &fakeSurface{}
	return New(b, v, s, opts...), v, s
}

// bounds 显示尺寸为图像的一半
var halfBounds = Rect{Left: 10, Top: 20, Width: 100, Height: 50}

// readyEditor 已上传、已处理、处于消除模式，处理结果为 200x100
func readyEditor(t *testing.T, b *fakeBackend, opts ...Option) (*Editor, *fakeView, *fakeSurface) {
	t.Helper()
	e, v, s := newTestEditor(t, b, opts...)
	ctx := t.Context()
	require.NoError(t, e.Upload(ctx, "a.png", "image/png", strings.NewReader("png")))
	require.NoError(t, e.AddColor(Color{R: 255, G: 255, B: 255}))
	require.NoError(t, e.Process(ctx))
	e.ArtifactLoaded(200, 100)
	e.SetTool(ToolErase)
	return e, v, s
}

// gesture 在 halfBounds 上依次发送 start、move...、end
func gesture(ctx context.Context, e *Editor, pts ...[2]float64) {
	for i, p := range pts {
		phase := PointerMove
		if i == 0 {
			phase = PointerStart
		}
		e.HandlePointer(ctx, PointerEvent{Phase: phase, ClientX: p[0], ClientY: p[1], Bounds: halfBounds})
	}
	e.HandlePointer(ctx, PointerEvent{Phase: PointerEnd, Bounds: halfBounds})
}
