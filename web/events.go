//go:build js && wasm

package main

import (
	"bytes"
	"context"
	"log/slog"
	"strconv"
	"syscall/js"

	"github.com/chaos-io/transpalentor/editor"
)

// on 注册事件监听；页面生命周期内不释放
func on(el js.Value, event string, fn func(ev js.Value), opts ...any) {
	cb := js.FuncOf(func(_ js.Value, args []js.Value) any {
		fn(args[0])
		return nil
	})
	el.Call("addEventListener", append([]any{event, cb}, opts...)...)
}

func pointerAt(phase editor.PointerPhase, surface js.Value, x, y float64) editor.PointerEvent {
	r := surface.Call("getBoundingClientRect")
	return editor.PointerEvent{
		Phase:   phase,
		ClientX: x,
		ClientY: y,
		Bounds: editor.Rect{
			Left:   r.Get("left").Float(),
			Top:    r.Get("top").Float(),
			Width:  r.Get("width").Float(),
			Height: r.Get("height").Float(),
		},
	}
}

func bind(ctx context.Context, e *editor.Editor, v *domView, syncRetry func()) {
	on(v.fileInput, "change", func(js.Value) {
		files := v.fileInput.Get("files")
		if files.Length() == 0 {
			return
		}
		file := files.Index(0)
		v.fileInput.Set("value", "")
		go func() {
			data, err := readFile(ctx, file)
			if err != nil {
				slog.Error("read file", "error", err)
				return
			}
			_ = e.Upload(ctx, file.Get("name").String(), file.Get("type").String(), bytes.NewReader(data))
			syncRetry()
		}()
	})

	on(v.pickButton, "click", func(js.Value) {
		go func() { _ = e.PickColor(ctx) }()
	})

	on(v.addRGBButton, "click", func(js.Value) {
		var rgb [3]int
		for i, in := range v.rgbInputs {
			n, err := strconv.Atoi(in.Get("value").String())
			if err != nil {
				n = -1
			}
			rgb[i] = n
		}
		_ = e.AddColorRGB(rgb[0], rgb[1], rgb[2])
	})

	on(v.colorList, "click", func(ev js.Value) {
		target := ev.Get("target").Call("closest", "[data-index]")
		if target.IsNull() {
			return
		}
		if i, err := strconv.Atoi(attr(target, "data-index")); err == nil {
			_ = e.RemoveColor(i)
		}
	})

	on(v.threshold, "input", func(js.Value) {
		n, err := strconv.Atoi(v.threshold.Get("value").String())
		if err != nil {
			return
		}
		v.thresholdValue.Set("textContent", strconv.Itoa(n))
		e.SetThreshold(n)
	})

	on(v.processButton, "click", func(js.Value) {
		go func() {
			_ = e.Process(ctx)
			syncRetry()
		}()
	})

	on(v.eyedropperButton, "click", func(js.Value) { e.SetTool(editor.ToolColorPick) })
	on(v.eraserButton, "click", func(js.Value) { e.SetTool(editor.ToolErase) })

	on(v.brushPicker, "click", func(ev js.Value) {
		target := ev.Get("target").Call("closest", "[data-size]")
		if target.IsNull() {
			return
		}
		if n, err := strconv.Atoi(attr(target, "data-size")); err == nil {
			_ = e.SetBrushSize(n)
		}
	})

	on(v.retryButton, "click", func(js.Value) {
		go func() {
			_ = e.RetryErase(ctx)
			syncRetry()
		}()
	})

	on(v.processedImage, "load", func(js.Value) {
		e.ArtifactLoaded(v.processedImage.Get("naturalWidth").Int(), v.processedImage.Get("naturalHeight").Int())
	})

	bindPointer(ctx, e, v.surface)
}

// bindPointer 鼠标和触摸统一成 PointerEvent；离开绘图面等同于抬起
func bindPointer(ctx context.Context, e *editor.Editor, surface js.Value) {
	mouse := func(phase editor.PointerPhase) func(ev js.Value) {
		return func(ev js.Value) {
			e.HandlePointer(ctx, pointerAt(phase, surface, ev.Get("clientX").Float(), ev.Get("clientY").Float()))
		}
	}
	on(surface, "mousedown", mouse(editor.PointerStart))
	on(surface, "mousemove", mouse(editor.PointerMove))
	on(surface, "mouseup", mouse(editor.PointerEnd))
	on(surface, "mouseleave", mouse(editor.PointerEnd))

	notPassive := map[string]any{"passive": false}
	touch := func(phase editor.PointerPhase) func(ev js.Value) {
		return func(ev js.Value) {
			ev.Call("preventDefault")
			touches := ev.Get("touches")
			if touches.Length() == 0 {
				e.HandlePointer(ctx, pointerAt(phase, surface, 0, 0))
				return
			}
			t := touches.Index(0)
			e.HandlePointer(ctx, pointerAt(phase, surface, t.Get("clientX").Float(), t.Get("clientY").Float()))
		}
	}
	on(surface, "touchstart", touch(editor.PointerStart), notPassive)
	on(surface, "touchmove", touch(editor.PointerMove), notPassive)
	on(surface, "touchend", touch(editor.PointerEnd), notPassive)
	on(surface, "touchcancel", touch(editor.PointerEnd), notPassive)
}
