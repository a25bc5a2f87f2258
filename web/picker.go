//go:build js && wasm

package main

import (
	"context"
	"errors"
	"syscall/js"

	"github.com/chaos-io/transpalentor/editor"
)

// eyeDropper 浏览器的 EyeDropper API，Chromium 系才有
type eyeDropper struct{}

func (eyeDropper) Supported() bool {
	return js.Global().Get("EyeDropper").Truthy()
}

func (eyeDropper) Pick(ctx context.Context) (string, error) {
	res, err := await(ctx, js.Global().Get("EyeDropper").New().Call("open"))
	if err != nil {
		var jerr *jsError
		if errors.As(err, &jerr) && jerr.name == "AbortError" {
			return "", editor.ErrPickCancelled
		}
		return "", err
	}
	return res.Get("sRGBHex").String(), nil
}
