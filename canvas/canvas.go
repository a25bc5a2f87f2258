package canvas

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/vector"
)

// kappa 用 4 段三次贝塞尔近似圆时的控制点系数
const kappa = 0.5522847498

// Style 预览的颜色和线宽
type Style struct {
	Outline      color.Color
	OutlineWidth float32
	Fill         color.Color
}

// DefaultStyle 红色半透明轮廓，黑色 30% 覆盖
func DefaultStyle() Style {
	return Style{
		Outline:      color.NRGBA{R: 255, A: 204},
		OutlineWidth: 2,
		Fill:         color.NRGBA{A: 77},
	}
}

type Option func(*Surface)

func WithStyle(s Style) Option { return func(c *Surface) { c.style = s } }

// WithOnChange 每次像素变化后回调，用于把缓冲区提交到屏幕
func WithOnChange(fn func(*image.RGBA)) Option { return func(c *Surface) { c.onChange = fn } }

// Surface 笔刷预览的像素缓冲，尺寸与处理后图像的像素尺寸一致
type Surface struct {
	img      *image.RGBA
	raster   *vector.Rasterizer
	style    Style
	onChange func(*image.RGBA)
}

func New(opts ...Option) *Surface {
	s := &Surface{
		img:    image.NewRGBA(image.Rectangle{}),
		raster: vector.NewRasterizer(0, 0),
		style:  DefaultStyle(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Image 当前缓冲区，调用方不要修改
func (s *Surface) Image() *image.RGBA {
	return s.img
}

func (s *Surface) Resize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	s.img = image.NewRGBA(image.Rect(0, 0, width, height))
	s.notify()
}

func (s *Surface) Clear() {
	clear(s.img.Pix)
	s.notify()
}

// DrawPreview 清空后在 at 画直径为 diameter 的轮廓，再在 stroke 的每个点填充同样大小的圆
func (s *Surface) DrawPreview(at image.Point, diameter int, stroke []image.Point) {
	clear(s.img.Pix)
	b := s.img.Bounds()
	if b.Empty() || diameter <= 0 {
		s.notify()
		return
	}

	r := float32(diameter) / 2
	half := s.style.OutlineWidth / 2

	z := s.raster
	z.Reset(b.Dx(), b.Dy())
	z.DrawOp = draw.Over
	addCircle(z, float32(at.X), float32(at.Y), r+half, false)
	if inner := r - half; inner > 0 {
		addCircle(z, float32(at.X), float32(at.Y), inner, true)
	}
	z.Draw(s.img, b, image.NewUniform(s.style.Outline), image.Point{})

	if len(stroke) > 0 {
		z.Reset(b.Dx(), b.Dy())
		z.DrawOp = draw.Over
		for _, p := range stroke {
			addCircle(z, float32(p.X), float32(p.Y), r, false)
		}
		z.Draw(s.img, b, image.NewUniform(s.style.Fill), image.Point{})
	}
	s.notify()
}

func (s *Surface) notify() {
	if s.onChange != nil {
		s.onChange(s.img)
	}
}

// addCircle reverse 为 true 时逆向绕行，和外圆组合成环
func addCircle(z *vector.Rasterizer, cx, cy, r float32, reverse bool) {
	k := r * kappa
	z.MoveTo(cx+r, cy)
	if !reverse {
		z.CubeTo(cx+r, cy+k, cx+k, cy+r, cx, cy+r)
		z.CubeTo(cx-k, cy+r, cx-r, cy+k, cx-r, cy)
		z.CubeTo(cx-r, cy-k, cx-k, cy-r, cx, cy-r)
		z.CubeTo(cx+k, cy-r, cx+r, cy-k, cx+r, cy)
	} else {
		z.CubeTo(cx+r, cy-k, cx+k, cy-r, cx, cy-r)
		z.CubeTo(cx-k, cy-r, cx-r, cy-k, cx-r, cy)
		z.CubeTo(cx-r, cy+k, cx-k, cy+r, cx, cy+r)
		z.CubeTo(cx+k, cy+r, cx+r, cy+k, cx+r, cy)
	}
	z.ClosePath()
}
