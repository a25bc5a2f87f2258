package chroma

import (
	"errors"
	"image"
	"image/draw"

	"github.com/chaos-io/transpalentor/api"
)

var ErrNoColor = errors.New("target color not specified")

// MakeTransparent 把与任一目标色的欧氏距离 <= threshold 的像素设为完全透明
// threshold 为 0 时只匹配完全相同的颜色。返回新图，不修改输入。
func MakeTransparent(input image.Image, colors []api.RGB, threshold int) (*image.NRGBA, error) {
	if len(colors) == 0 {
		return nil, ErrNoColor
	}

	img := cloneNRGBA(input)
	limit := threshold * threshold
	w, h := img.Bounds().Dx(), img.Bounds().Dy()

	for y := 0; y < h; y++ {
		row := y * img.Stride
		for x := 0; x < w; x++ {
			i := row + x*4
			r, g, b := int(img.Pix[i]), int(img.Pix[i+1]), int(img.Pix[i+2])
			if matchesAny(r, g, b, colors, limit) {
				img.Pix[i+3] = 0
			}
		}
	}
	return img, nil
}

func matchesAny(r, g, b int, colors []api.RGB, limit int) bool {
	for _, c := range colors {
		dr, dg, db := r-c[0], g-c[1], b-c[2]
		if dr*dr+dg*dg+db*db <= limit {
			return true
		}
	}
	return false
}

// EraseAt 消しゴム：以每个笔画点为圆心、brushSize/2 为半径的圆内像素全部透明
// 长度不为 2 的点会被跳过，超出图像范围的部分忽略。
func EraseAt(input image.Image, strokes [][]int, brushSize int) *image.NRGBA {
	img := cloneNRGBA(input)
	b := img.Bounds()
	radius := brushSize / 2

	for _, p := range strokes {
		if len(p) != 2 {
			continue
		}
		cx, cy := p[0]+b.Min.X, p[1]+b.Min.Y
		for dy := -radius; dy <= radius; dy++ {
			for dx := -radius; dx <= radius; dx++ {
				if dx*dx+dy*dy > radius*radius {
					continue
				}
				pt := image.Pt(cx+dx, cy+dy)
				if !pt.In(b) {
					continue
				}
				img.Pix[img.PixOffset(pt.X, pt.Y)+3] = 0
			}
		}
	}
	return img
}

// cloneNRGBA 转为 NRGBA 并复制，保证不会改到调用方的图
// NRGBA 输入按行直接复制，避免经过预乘 alpha 转换丢失半透明像素的精度
func cloneNRGBA(img image.Image) *image.NRGBA {
	b := img.Bounds()
	dst := image.NewNRGBA(b)
	src, ok := img.(*image.NRGBA)
	if !ok {
		draw.Draw(dst, b, img, b.Min, draw.Src)
		return dst
	}
	rowBytes := b.Dx() * 4
	for y := 0; y < b.Dy(); y++ {
		copy(dst.Pix[y*dst.Stride:y*dst.Stride+rowBytes], src.Pix[src.PixOffset(b.Min.X, b.Min.Y+y):])
	}
	return dst
}
