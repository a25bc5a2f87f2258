package editor

import (
	"errors"
	"strings"
)

// Messages 面向用户的提示文本
type Messages struct {
	NotImage          string
	ColorLimit        string
	DuplicateColor    string
	ColorRange        string
	NotReady          string
	Busy              string
	BrushSize         string
	PickerUnavailable string
	PickFailed        string
	UploadFailed      string
	ProcessFailed     string
	EraseFailed       string
}

var English = Messages{
	NotImage:          "Please choose an image file.",
	ColorLimit:        "You can select up to 3 colors.",
	DuplicateColor:    "This color is already selected.",
	ColorRange:        "RGB values must be between 0 and 255.",
	NotReady:          "Upload an image and select a color first.",
	Busy:              "Processing is already running.",
	BrushSize:         "This brush size is not available.",
	PickerUnavailable: "Your browser does not support the EyeDropper API.",
	PickFailed:        "Failed to pick a color.",
	UploadFailed:      "Failed to upload the image",
	ProcessFailed:     "Failed to process the image",
	EraseFailed:       "Failed to erase",
}

var Japanese = Messages{
	NotImage:          "画像ファイルを選択してください",
	ColorLimit:        "色は最大3つまで選択できます",
	DuplicateColor:    "この色は既に選択されています",
	ColorRange:        "RGB値は0から255の範囲で指定してください",
	NotReady:          "画像をアップロードし、色を選択してください",
	Busy:              "透過処理を実行中です",
	BrushSize:         "このブラシサイズは選択できません",
	PickerUnavailable: "お使いのブラウザはEyeDropper APIをサポートしていません",
	PickFailed:        "スポイトツールの使用に失敗しました",
	UploadFailed:      "画像のアップロードに失敗しました",
	ProcessFailed:     "透過処理に失敗しました",
	EraseFailed:       "消しゴム処理に失敗しました",
}

// MessagesFor 按页面 lang 选择，未知语言用英文
func MessagesFor(lang string) Messages {
	if strings.HasPrefix(strings.ToLower(lang), "ja") {
		return Japanese
	}
	return English
}

// Notice 本地拒绝的输入对应的提示
func (m Messages) Notice(err error) string {
	switch {
	case errors.Is(err, ErrNotImage):
		return m.NotImage
	case errors.Is(err, ErrColorLimit):
		return m.ColorLimit
	case errors.Is(err, ErrDuplicateColor):
		return m.DuplicateColor
	case errors.Is(err, ErrColorRange):
		return m.ColorRange
	case errors.Is(err, ErrNotReady):
		return m.NotReady
	case errors.Is(err, ErrBusy):
		return m.Busy
	case errors.Is(err, ErrBrushSize):
		return m.BrushSize
	case errors.Is(err, ErrPickerUnavailable):
		return m.PickerUnavailable
	default:
		return err.Error()
	}
}

// Failure 网络失败的提示，服务端有 detail 时附在后面
func (m Messages) Failure(generic, detail string) string {
	if detail == "" {
		return generic
	}
	return generic + ": " + detail
}
