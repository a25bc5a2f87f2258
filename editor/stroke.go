package editor

import "image"

// PointerPhase 鼠标和触摸统一成 start/move/end 三种
type PointerPhase int

const (
	PointerStart PointerPhase = iota
	PointerMove
	PointerEnd
)

// PointerEvent 一次指针事件；Bounds 是事件发生时绘图面的 getBoundingClientRect
type PointerEvent struct {
	Phase   PointerPhase
	ClientX float64
	ClientY float64
	Bounds  Rect
}

// Surface 绘图面像素缓冲，只由 StrokeCollector 的预览写入
type Surface interface {
	Resize(width, height int)
	Clear()
	// DrawPreview 清空后在 at 处画笔刷轮廓，并在 stroke 的每个点填充半透明圆
	DrawPreview(at image.Point, diameter int, stroke []image.Point)
}

// StrokeCollector 收集一次手势的像素坐标并驱动预览
type StrokeCollector struct {
	mapper  *Mapper
	surface Surface

	drawing bool
	points  []image.Point
}

func NewStrokeCollector(mapper *Mapper, surface Surface) *StrokeCollector {
	return &StrokeCollector{mapper: mapper, surface: surface}
}

// Begin 开始新手势：丢弃旧笔画，记录第一个点
func (c *StrokeCollector) Begin(ev PointerEvent, brush int) bool {
	pt, ok := c.mapper.Map(ev.Bounds, ev.ClientX, ev.ClientY)
	if !ok {
		return false
	}
	c.points = []image.Point{pt}
	c.drawing = true
	c.surface.DrawPreview(pt, brush, c.points)
	return true
}

// Move 绘制中则追加坐标，否则只在当前位置显示笔刷大小
func (c *StrokeCollector) Move(ev PointerEvent, brush int) {
	pt, ok := c.mapper.Map(ev.Bounds, ev.ClientX, ev.ClientY)
	if !ok {
		return
	}
	if c.drawing {
		c.points = append(c.points, pt)
	}
	c.surface.DrawPreview(pt, brush, c.points)
}

// End 结束手势并交出本次笔画，之后收集器为空；未在绘制时返回 nil
func (c *StrokeCollector) End() []image.Point {
	if !c.drawing {
		return nil
	}
	c.drawing = false
	pts := c.points
	c.points = nil
	return pts
}

func (c *StrokeCollector) Drawing() bool {
	return c.drawing
}

// Points 当前手势已收集的坐标副本
func (c *StrokeCollector) Points() []image.Point {
	out := make([]image.Point, len(c.points))
	copy(out, c.points)
	return out
}

func (c *StrokeCollector) Reset() {
	c.drawing = false
	c.points = nil
}
