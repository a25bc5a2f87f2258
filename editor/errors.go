package editor

import (
	"errors"
	"fmt"

	"github.com/chaos-io/transpalentor/api"
)

// Input rejected locally; these never reach the network.
var (
	ErrNotImage       = errors.New("file is not an image")
	ErrColorLimit     = fmt.Errorf("at most %d colors can be selected", api.MaxColors)
	ErrDuplicateColor = errors.New("color already selected")
	ErrColorIndex     = errors.New("color index out of range")
	ErrColorRange     = errors.New("color component out of range")
	ErrInvalidHex     = errors.New("invalid hex color")
	ErrNotReady       = errors.New("upload an image and select a color first")
	ErrBusy           = errors.New("request already in flight")
	ErrBrushSize      = errors.New("brush size is not a preset")
)

var (
	ErrPickerUnavailable = errors.New("color picker not supported")
	// ErrPickCancelled 用户取消取色，不是错误，不提示
	ErrPickCancelled = errors.New("color pick cancelled")
	// ErrSuperseded 响应到达时已有更新的同类请求或会话已更换，结果被丢弃
	ErrSuperseded = errors.New("response superseded by a newer request")
)
