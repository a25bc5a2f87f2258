package editor

import (
	"image"

	"github.com/chaos-io/transpalentor/api"
)

const (
	DefaultThreshold = 30
	DefaultBrushSize = 10
)

// DefaultBrushPresets 页面上可选的笔刷直径（图像像素）
var DefaultBrushPresets = []int{5, 10, 20, 50}

// Session 一次上传建立的会话，只会被新的上传整体替换
type Session struct {
	ID       string
	Filename string
	ImageURL string
}

// Artifact 最近一次服务端生成的透明图
type Artifact struct {
	Filename string
	URL      string
}

// State 客户端会话状态
type State struct {
	Session   *Session
	Colors    ColorSet
	Artifact  *Artifact
	Tool      ToolMode
	BrushSize int
	Threshold int
}

func newState() State {
	return State{
		Tool:      ToolColorPick,
		BrushSize: DefaultBrushSize,
		Threshold: DefaultThreshold,
	}
}

// SubmitEnabled 有会话且至少选了一个颜色
func (s *State) SubmitEnabled() bool {
	return s.Session != nil && s.Colors.Len() > 0
}

// ReplaceSession 新上传成功：替换会话，清空颜色和处理结果
func (s *State) ReplaceSession(sess Session) {
	s.Session = &sess
	s.Colors.Reset()
	s.Artifact = nil
}

// SetArtifact 替换（不合并）当前处理结果
func (s *State) SetArtifact(a Artifact) {
	s.Artifact = &a
}

// ProcessRequest 构造处理请求；前置条件不满足返回 ErrNotReady
func (s *State) ProcessRequest() (*api.ProcessRequest, error) {
	if !s.SubmitEnabled() {
		return nil, ErrNotReady
	}
	return &api.ProcessRequest{
		SessionID: s.Session.ID,
		Filename:  s.Session.Filename,
		RGB:       s.Colors.Payload(),
		Threshold: s.Threshold,
	}, nil
}

// EraseRequest 构造消除请求；缺少会话、处理结果或笔画时返回 false
func (s *State) EraseRequest(points []image.Point, brush int) (*api.EraseRequest, bool) {
	if s.Session == nil || s.Artifact == nil || len(points) == 0 {
		return nil, false
	}
	strokes := make([][]int, len(points))
	for i, p := range points {
		strokes[i] = []int{p.X, p.Y}
	}
	return &api.EraseRequest{
		SessionID: s.Session.ID,
		Filename:  s.Artifact.Filename,
		Strokes:   strokes,
		BrushSize: brush,
	}, true
}

// Clone 深拷贝，给渲染层用
func (s *State) Clone() State {
	out := *s
	out.Colors = s.Colors.Clone()
	if s.Session != nil {
		sess := *s.Session
		out.Session = &sess
	}
	if s.Artifact != nil {
		a := *s.Artifact
		out.Artifact = &a
	}
	return out
}
