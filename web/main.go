//go:build js && wasm

// Command web 浏览器端，编译为 wasm 后由首页加载
//
//	GOOS=js GOARCH=wasm go build -o web/static/transpalentor.wasm ./web
package main

import (
	"context"
	"syscall/js"

	"github.com/chaos-io/transpalentor/canvas"
	"github.com/chaos-io/transpalentor/client"
	"github.com/chaos-io/transpalentor/editor"
)

func main() {
	doc := js.Global().Get("document")
	view := newDOMView(doc)
	surface := canvas.New(canvas.WithOnChange(blitter(view.surface)))

	var e *editor.Editor
	syncRetry := func() { view.showRetry(e.FailedStroke() != nil) }

	e = editor.New(
		client.New(attr(doc.Get("body"), "data-api-base")),
		view,
		surface,
		editor.WithPicker(eyeDropper{}),
		editor.WithMessages(editor.MessagesFor(attr(doc.Get("documentElement"), "lang"))),
		editor.WithDispatcher(func(f func()) {
			go func() {
				f()
				syncRetry()
			}()
		}),
	)

	bind(context.Background(), e, view, syncRetry)
	select {}
}

// attr 属性不存在时返回空字符串
func attr(el js.Value, name string) string {
	v := el.Call("getAttribute", name)
	if v.IsNull() || v.IsUndefined() {
		return ""
	}
	return v.String()
}
