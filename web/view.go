//go:build js && wasm

package main

import (
	"strconv"
	"syscall/js"

	"github.com/chaos-io/transpalentor/editor"
)

// domView 把 editor 的渲染调用落到页面元素上
type domView struct {
	doc js.Value

	fileInput        js.Value
	originalImage    js.Value
	pickButton       js.Value
	rgbInputs        [3]js.Value
	addRGBButton     js.Value
	colorList        js.Value
	threshold        js.Value
	thresholdValue   js.Value
	processButton    js.Value
	processedSection js.Value
	processedImage   js.Value
	surface          js.Value
	eyedropperButton js.Value
	eraserButton     js.Value
	brushPicker      js.Value
	retryButton      js.Value
	downloadLink     js.Value
	loading          js.Value
	errorBox         js.Value
}

func newDOMView(doc js.Value) *domView {
	byID := func(id string) js.Value { return doc.Call("getElementById", id) }
	return &domView{
		doc:              doc,
		fileInput:        byID("file-input"),
		originalImage:    byID("original-image"),
		pickButton:       byID("pick-color-btn"),
		rgbInputs:        [3]js.Value{byID("rgb-r"), byID("rgb-g"), byID("rgb-b")},
		addRGBButton:     byID("add-rgb-btn"),
		colorList:        byID("color-list"),
		threshold:        byID("threshold"),
		thresholdValue:   byID("threshold-value"),
		processButton:    byID("process-btn"),
		processedSection: byID("processed-section"),
		processedImage:   byID("processed-image"),
		surface:          byID("erase-canvas"),
		eyedropperButton: byID("eyedropper-btn"),
		eraserButton:     byID("eraser-btn"),
		brushPicker:      byID("brush-picker"),
		retryButton:      byID("retry-erase-btn"),
		downloadLink:     byID("download-link"),
		loading:          byID("loading"),
		errorBox:         byID("error-message"),
	}
}

func (v *domView) RenderColors(colors []editor.Color) {
	v.colorList.Set("innerHTML", "")
	for i, c := range colors {
		li := v.doc.Call("createElement", "li")

		swatch := v.doc.Call("createElement", "span")
		swatch.Set("className", "swatch")
		swatch.Get("style").Set("background", c.Hex())
		li.Call("appendChild", swatch)

		label := v.doc.Call("createElement", "span")
		label.Set("textContent", c.String())
		li.Call("appendChild", label)

		remove := v.doc.Call("createElement", "button")
		remove.Set("type", "button")
		remove.Set("textContent", "×")
		remove.Call("setAttribute", "data-index", strconv.Itoa(i))
		li.Call("appendChild", remove)

		v.colorList.Call("appendChild", li)
	}
}

func (v *domView) SetSubmitEnabled(enabled bool) {
	v.processButton.Set("disabled", !enabled)
}

func (v *domView) ShowBrushPicker(visible bool) {
	v.brushPicker.Set("hidden", !visible)
	v.eraserButton.Get("classList").Call("toggle", "active", visible)
	v.eyedropperButton.Get("classList").Call("toggle", "active", !visible)
}

func (v *domView) SetSurfaceActive(active bool) {
	v.surface.Get("classList").Call("toggle", "active", active)
}

func (v *domView) SetBrushSize(size int) {
	buttons := v.brushPicker.Call("querySelectorAll", "button[data-size]")
	for i := 0; i < buttons.Length(); i++ {
		b := buttons.Index(i)
		b.Get("classList").Call("toggle", "active", attr(b, "data-size") == strconv.Itoa(size))
	}
}

func (v *domView) ShowOriginal(url string) {
	v.originalImage.Set("src", url)
	v.originalImage.Set("hidden", false)
	v.processedSection.Set("hidden", true)
	v.processedImage.Call("removeAttribute", "src")
	v.showRetry(false)
}

func (v *domView) ShowProcessed(url string) {
	v.processedImage.Set("src", url)
	v.downloadLink.Set("href", url)
}

func (v *domView) RevealTools() {
	v.processedSection.Set("hidden", false)
}

func (v *domView) DisablePicker(reason string) {
	v.pickButton.Set("disabled", true)
	v.pickButton.Set("title", reason)
}

func (v *domView) SetBusy(busy bool) {
	v.loading.Set("hidden", !busy)
}

func (v *domView) ShowError(msg string) {
	v.errorBox.Set("textContent", msg)
	v.errorBox.Set("hidden", false)
}

func (v *domView) ClearError() {
	v.errorBox.Set("textContent", "")
	v.errorBox.Set("hidden", true)
}

func (v *domView) showRetry(visible bool) {
	v.retryButton.Set("hidden", !visible)
}
