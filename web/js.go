//go:build js && wasm

package main

import (
	"context"
	"image"
	"syscall/js"
)

type jsError struct {
	name    string
	message string
}

func (e *jsError) Error() string {
	return e.name + ": " + e.message
}

func toError(v js.Value) error {
	if v.Type() != js.TypeObject {
		return &jsError{name: "Error", message: v.String()}
	}
	return &jsError{name: v.Get("name").String(), message: v.Get("message").String()}
}

// await 等待 Promise 完成。ctx 只在开始前检查，Promise 本身无法取消。
func await(ctx context.Context, p js.Value) (js.Value, error) {
	if err := ctx.Err(); err != nil {
		return js.Undefined(), err
	}

	type result struct {
		v   js.Value
		err error
	}
	ch := make(chan result, 1)
	then := js.FuncOf(func(_ js.Value, args []js.Value) any {
		ch <- result{v: args[0]}
		return nil
	})
	catch := js.FuncOf(func(_ js.Value, args []js.Value) any {
		ch <- result{err: toError(args[0])}
		return nil
	})
	defer then.Release()
	defer catch.Release()

	p.Call("then", then, catch)
	r := <-ch
	return r.v, r.err
}

// readFile 读取 <input type=file> 选中的 File
func readFile(ctx context.Context, file js.Value) ([]byte, error) {
	ab, err := await(ctx, file.Call("arrayBuffer"))
	if err != nil {
		return nil, err
	}
	u8 := js.Global().Get("Uint8Array").New(ab)
	buf := make([]byte, u8.Get("length").Int())
	js.CopyBytesToGo(buf, u8)
	return buf, nil
}

// blitter 把预览缓冲写到 canvas，尺寸不同时先调整 canvas
func blitter(el js.Value) func(*image.RGBA) {
	ctx2d := el.Call("getContext", "2d")
	return func(img *image.RGBA) {
		w, h := img.Rect.Dx(), img.Rect.Dy()
		if el.Get("width").Int() != w {
			el.Set("width", w)
		}
		if el.Get("height").Int() != h {
			el.Set("height", h)
		}
		if w == 0 || h == 0 {
			return
		}
		arr := js.Global().Get("Uint8ClampedArray").New(len(img.Pix))
		js.CopyBytesToJS(arr, img.Pix)
		ctx2d.Call("putImageData", js.Global().Get("ImageData").New(arr, w, h), 0, 0)
	}
}
