package editor

import (
	"errors"
	"image"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chaos-io/transpalentor/api"
	"github.com/chaos-io/transpalentor/client"
)

func TestNew_InitialRender(t *testing.T) {
	t.Parallel()

	e, v, _ := newTestEditor(t, &fakeBackend{}, WithPicker(fakePicker{supported: true}))
	st := v.snapshot()

	assert.False(t, st.submit)
	assert.False(t, st.brushPicker)
	assert.False(t, st.surfaceActive)
	assert.Equal(t, DefaultBrushSize, st.brush)
	assert.Empty(t, st.pickerDisabled)

	snap := e.Snapshot()
	assert.Nil(t, snap.Session)
	assert.Nil(t, snap.Artifact)
	assert.Equal(t, ToolColorPick, snap.Tool)
	assert.Equal(t, DefaultThreshold, snap.Threshold)
}

func TestNew_Defaults(t *testing.T) {
	t.Parallel()

	e := New(&fakeBackend{}, nil, nil, WithBrushPresets(3, 7), WithMessages(Japanese))
	assert.Equal(t, 3, e.Snapshot().BrushSize)
	assert.NoError(t, e.SetBrushSize(7))
	assert.ErrorIs(t, e.SetBrushSize(10), ErrBrushSize)
}

func TestEditor_UploadResetsSession(t *testing.T) {
	t.Parallel()

	b := &fakeBackend{}
	e, v, s := readyEditor(t, b)
	ctx := t.Context()
	require.NotNil(t, e.Snapshot().Artifact)

	require.NoError(t, e.Upload(ctx, "b.png", "image/png", strings.NewReader("png")))

	snap := e.Snapshot()
	require.NotNil(t, snap.Session)
	assert.Equal(t, "sid-b.png", snap.Session.ID)
	assert.Equal(t, "b.png", snap.Session.Filename)
	assert.Zero(t, snap.Colors.Len())
	assert.Nil(t, snap.Artifact)

	st := v.snapshot()
	assert.Equal(t, "/api/images/sid-b.png/b.png", st.original)
	assert.Empty(t, st.colors)
	assert.False(t, st.submit)
	assert.False(t, st.busy)
	assert.Equal(t, 2, s.cleared())

	// 处理结果没了，消除手势不会发请求
	gesture(ctx, e, [2]float64{20, 30}, [2]float64{30, 30})
	_, _, erases := b.counts()
	assert.Zero(t, erases)
}

func TestEditor_UploadRejectsNonImage(t *testing.T) {
	t.Parallel()

	b := &fakeBackend{}
	e, v, _ := newTestEditor(t, b)

	err := e.Upload(t.Context(), "notes.txt", "text/plain", strings.NewReader("hi"))
	assert.ErrorIs(t, err, ErrNotImage)

	uploads, _, _ := b.counts()
	assert.Zero(t, uploads)
	assert.Equal(t, English.NotImage, v.snapshot().shown)
	assert.Nil(t, e.Snapshot().Session)
}

func TestEditor_UploadFailureShowsGenericMessage(t *testing.T) {
	t.Parallel()

	b := &fakeBackend{upload: func(string) (*api.UploadResponse, error) {
		return nil, errors.New("connection refused")
	}}
	e, v, _ := newTestEditor(t, b)

	err := e.Upload(t.Context(), "a.png", "image/png", strings.NewReader("png"))
	require.Error(t, err)

	st := v.snapshot()
	assert.Equal(t, English.UploadFailed, st.shown)
	assert.Equal(t, []bool{true, false}, st.busyCalls)
	assert.Nil(t, e.Snapshot().Session)
}

func TestEditor_Colors(t *testing.T) {
	t.Parallel()

	e, v, _ := newTestEditor(t, &fakeBackend{})
	ctx := t.Context()
	require.NoError(t, e.Upload(ctx, "a.png", "image/png", strings.NewReader("png")))
	assert.False(t, v.snapshot().submit)

	require.NoError(t, e.AddColor(white))
	assert.True(t, v.snapshot().submit)

	assert.ErrorIs(t, e.AddColor(white), ErrDuplicateColor)
	assert.Equal(t, English.DuplicateColor, v.snapshot().shown)

	require.NoError(t, e.AddColorRGB(0, 0, 0))
	require.NoError(t, e.AddColor(red))
	assert.ErrorIs(t, e.AddColor(green), ErrColorLimit)
	assert.Equal(t, English.ColorLimit, v.snapshot().shown)

	assert.ErrorIs(t, e.AddColorRGB(300, 0, 0), ErrColorRange)
	assert.Equal(t, English.ColorRange, v.snapshot().shown)

	require.NoError(t, e.RemoveColor(0))
	assert.Equal(t, []Color{black, red}, v.snapshot().colors)

	errCount := len(v.snapshot().errs)
	assert.ErrorIs(t, e.RemoveColor(5), ErrColorIndex)
	assert.Len(t, v.snapshot().errs, errCount)
	assert.Equal(t, []Color{black, red}, e.Snapshot().Colors.Colors())
}

func TestEditor_ProcessNotReady(t *testing.T) {
	t.Parallel()

	b := &fakeBackend{}
	e, v, _ := newTestEditor(t, b)
	ctx := t.Context()

	assert.ErrorIs(t, e.Process(ctx), ErrNotReady)

	require.NoError(t, e.Upload(ctx, "a.png", "image/png", strings.NewReader("png")))
	assert.ErrorIs(t, e.Process(ctx), ErrNotReady)

	_, processes, _ := b.counts()
	assert.Zero(t, processes)
	assert.Equal(t, English.NotReady, v.snapshot().shown)
}

func TestEditor_ProcessSuccess(t *testing.T) {
	t.Parallel()

	e, v, _ := readyEditor(t, &fakeBackend{})

	a := e.Snapshot().Artifact
	require.NotNil(t, a)
	assert.Equal(t, "a_processed.png", a.Filename)
	assert.True(t, strings.HasPrefix(a.URL, "/api/images/sid-a.png/a_processed.png?t="), a.URL)

	st := v.snapshot()
	assert.Equal(t, a.URL, st.processed)
	assert.True(t, st.revealed)
	assert.False(t, st.busy)
}

func TestEditor_ProcessFailureShowsDetail(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/upload":
			_, _ = w.Write([]byte(`{"session_id":"sid","filename":"a.png","image_url":"/api/images/sid/a.png"}`))
		default:
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"detail":"Color not specified","error_code":"COLOR_NOT_SPECIFIED"}`))
		}
	}))
	defer srv.Close()

	e, v, _ := newTestEditor(t, client.New(srv.URL))
	ctx := t.Context()
	require.NoError(t, e.Upload(ctx, "a.png", "image/png", strings.NewReader("png")))
	require.NoError(t, e.AddColor(white))

	require.Error(t, e.Process(ctx))
	assert.Equal(t, "Failed to process the image: Color not specified", v.snapshot().shown)
	assert.Nil(t, e.Snapshot().Artifact)
}

// 请求体经过真实的 HTTP 客户端编码
func TestEditor_ProcessRequestBody(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		colors    []Color
		threshold int
		want      string
	}{
		{
			name:      "two colors",
			colors:    []Color{white, black},
			threshold: 40,
			want:      `{"session_id":"sid","filename":"a.png","rgb":[[255,255,255],[0,0,0]],"threshold":40}`,
		},
		{
			name:      "single color default threshold",
			colors:    []Color{white},
			threshold: DefaultThreshold,
			want:      `{"session_id":"sid","filename":"a.png","rgb":[255,255,255],"threshold":30}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var mu sync.Mutex
			var body string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				switch r.URL.Path {
				case "/api/upload":
					_, _ = w.Write([]byte(`{"session_id":"sid","filename":"a.png","image_url":"/api/images/sid/a.png"}`))
				case "/api/process":
					data, _ := io.ReadAll(r.Body)
					mu.Lock()
					body = string(data)
					mu.Unlock()
					_, _ = w.Write([]byte(`{"session_id":"sid","filename":"a_processed.png","processed_url":"/api/images/sid/a_processed.png"}`))
				default:
					w.WriteHeader(http.StatusNotFound)
				}
			}))
			defer srv.Close()

			e, _, _ := newTestEditor(t, client.New(srv.URL))
			ctx := t.Context()
			require.NoError(t, e.Upload(ctx, "a.png", "image/png", strings.NewReader("png")))
			for _, c := range tt.colors {
				require.NoError(t, e.AddColor(c))
			}
			e.SetThreshold(tt.threshold)
			require.NoError(t, e.Process(ctx))

			mu.Lock()
			defer mu.Unlock()
			assert.JSONEq(t, tt.want, body)
		})
	}
}

func TestEditor_ToolMode(t *testing.T) {
	t.Parallel()

	e, v, _ := newTestEditor(t, &fakeBackend{})

	e.SetTool(ToolErase)
	st := v.snapshot()
	assert.True(t, st.brushPicker)
	assert.True(t, st.surfaceActive)
	assert.Equal(t, ToolErase, e.Snapshot().Tool)

	e.SetTool(ToolColorPick)
	st = v.snapshot()
	assert.False(t, st.brushPicker)
	assert.False(t, st.surfaceActive)
}

func TestEditor_GestureSubmitsStroke(t *testing.T) {
	t.Parallel()

	b := &fakeBackend{}
	e, v, s := readyEditor(t, b)
	ctx := t.Context()
	require.NoError(t, e.SetBrushSize(20))
	before := s.cleared()

	e.HandlePointer(ctx, PointerEvent{Phase: PointerStart, ClientX: 20, ClientY: 30, Bounds: halfBounds})
	e.HandlePointer(ctx, PointerEvent{Phase: PointerMove, ClientX: 30, ClientY: 30, Bounds: halfBounds})
	e.HandlePointer(ctx, PointerEvent{Phase: PointerMove, ClientX: 40.7, ClientY: 45.2, Bounds: halfBounds})

	want := []image.Point{{20, 20}, {40, 20}, {61, 50}}
	assert.Equal(t, want, e.Stroke())

	e.HandlePointer(ctx, PointerEvent{Phase: PointerEnd, Bounds: halfBounds})
	assert.Empty(t, e.Stroke())

	reqs := b.erases()
	require.Len(t, reqs, 1)
	assert.Equal(t, "sid-a.png", reqs[0].SessionID)
	assert.Equal(t, "a_processed.png", reqs[0].Filename)
	assert.Equal(t, [][]int{{20, 20}, {40, 20}, {61, 50}}, reqs[0].Strokes)
	assert.Equal(t, 20, reqs[0].BrushSize)

	a := e.Snapshot().Artifact
	assert.Equal(t, "/api/images/sid-a.png/a_processed.png?t=1", a.URL)
	assert.Equal(t, a.URL, v.snapshot().processed)
	assert.Equal(t, before+1, s.cleared())
	assert.Nil(t, e.FailedStroke())
}

func TestEditor_GestureIgnoredOutsideEraseMode(t *testing.T) {
	t.Parallel()

	b := &fakeBackend{}
	e, _, s := readyEditor(t, b)
	e.SetTool(ToolColorPick)

	gesture(t.Context(), e, [2]float64{20, 30}, [2]float64{30, 30})

	_, _, erases := b.counts()
	assert.Zero(t, erases)
	assert.Zero(t, s.previews)
}

func TestEditor_EraseWithoutArtifact(t *testing.T) {
	t.Parallel()

	b := &fakeBackend{}
	e, _, _ := newTestEditor(t, b)
	ctx := t.Context()
	require.NoError(t, e.Upload(ctx, "a.png", "image/png", strings.NewReader("png")))
	e.ArtifactLoaded(200, 100)
	e.SetTool(ToolErase)

	gesture(ctx, e, [2]float64{20, 30}, [2]float64{30, 30})

	_, _, erases := b.counts()
	assert.Zero(t, erases)
	assert.Empty(t, e.Stroke())
}

func TestEditor_ModeSwitchMidGesture(t *testing.T) {
	t.Parallel()

	b := &fakeBackend{}
	e, _, _ := readyEditor(t, b)
	ctx := t.Context()

	e.HandlePointer(ctx, PointerEvent{Phase: PointerStart, ClientX: 20, ClientY: 30, Bounds: halfBounds})
	e.SetTool(ToolColorPick)
	e.HandlePointer(ctx, PointerEvent{Phase: PointerMove, ClientX: 30, ClientY: 30, Bounds: halfBounds})
	e.HandlePointer(ctx, PointerEvent{Phase: PointerEnd, Bounds: halfBounds})

	reqs := b.erases()
	require.Len(t, reqs, 1)
	assert.Equal(t, [][]int{{20, 20}}, reqs[0].Strokes)
}

func TestEditor_ArtifactLoaded(t *testing.T) {
	t.Parallel()

	e, _, s := newTestEditor(t, &fakeBackend{})
	e.ArtifactLoaded(640, 480)

	assert.Equal(t, 640, s.width)
	assert.Equal(t, 480, s.height)
	w, h := e.mapper.Intrinsic()
	assert.Equal(t, 640, w)
	assert.Equal(t, 480, h)
}

func TestEditor_PickColor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		picker     ColorPicker
		wantErr    error
		wantColors []Color
		wantShown  string
	}{
		{
			name:       "picked",
			picker:     fakePicker{supported: true, hex: "#ff0000"},
			wantColors: []Color{red},
		},
		{
			name:   "cancelled is silent",
			picker: fakePicker{supported: true, err: ErrPickCancelled},
		},
		{
			name:      "failure",
			picker:    fakePicker{supported: true, err: errors.New("denied")},
			wantErr:   errors.New("denied"),
			wantShown: English.PickFailed,
		},
		{
			name:      "bad hex",
			picker:    fakePicker{supported: true, hex: "red"},
			wantErr:   ErrInvalidHex,
			wantShown: English.PickFailed,
		},
		{
			name:      "unsupported",
			picker:    fakePicker{},
			wantErr:   ErrPickerUnavailable,
			wantShown: English.PickerUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			e, v, _ := newTestEditor(t, &fakeBackend{}, WithPicker(tt.picker))
			err := e.PickColor(t.Context())
			switch {
			case tt.wantErr == nil:
				assert.NoError(t, err)
			case errors.Is(tt.wantErr, ErrInvalidHex) || errors.Is(tt.wantErr, ErrPickerUnavailable):
				assert.ErrorIs(t, err, tt.wantErr)
			default:
				assert.EqualError(t, err, tt.wantErr.Error())
			}
			assert.Equal(t, tt.wantShown, v.snapshot().shown)
			assert.Equal(t, len(tt.wantColors), e.Snapshot().Colors.Len())
			if len(tt.wantColors) > 0 {
				assert.Equal(t, tt.wantColors, e.Snapshot().Colors.Colors())
			}
		})
	}
}

func TestEditor_PickerUnsupportedDisablesControl(t *testing.T) {
	t.Parallel()

	_, v, _ := newTestEditor(t, &fakeBackend{}, WithMessages(Japanese))
	assert.Equal(t, Japanese.PickerUnavailable, v.snapshot().pickerDisabled)
}
