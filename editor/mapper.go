package editor

import (
	"image"
	"math"
)

// Rect 绘图面在屏幕上的位置和显示尺寸（CSS 像素）
type Rect struct {
	Left, Top     float64
	Width, Height float64
}

// Mapper 把屏幕坐标换算成图像像素坐标
//
// 内部分辨率取自处理后图像的 natural 尺寸，不是显示尺寸，
// 所以笔画坐标和笔刷大小总是以真实像素为单位。
type Mapper struct {
	width, height int
}

func (m *Mapper) SetIntrinsic(width, height int) {
	m.width, m.height = width, height
}

func (m *Mapper) Intrinsic() (int, int) {
	return m.width, m.height
}

// Map 每个事件都要传入当时的 bounds，显示尺寸随时可能变化
// 尺寸未知或为 0 时返回 false。
func (m *Mapper) Map(bounds Rect, clientX, clientY float64) (image.Point, bool) {
	if m.width <= 0 || m.height <= 0 || bounds.Width <= 0 || bounds.Height <= 0 {
		return image.Point{}, false
	}
	scaleX := float64(m.width) / bounds.Width
	scaleY := float64(m.height) / bounds.Height
	return image.Pt(
		int(math.Floor((clientX-bounds.Left)*scaleX)),
		int(math.Floor((clientY-bounds.Top)*scaleY)),
	), true
}
