package editor

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/chaos-io/transpalentor/api"
)

// Color 一个透过对象色，按分量比较相等
type Color struct {
	R, G, B uint8
}

// ColorFromInts 手动输入 RGB 时使用，分量必须在 0-255
func ColorFromInts(r, g, b int) (Color, error) {
	for _, v := range [3]int{r, g, b} {
		if v < 0 || v > 255 {
			return Color{}, ErrColorRange
		}
	}
	return Color{R: uint8(r), G: uint8(g), B: uint8(b)}, nil
}

// ParseHex 解析取色器返回的 "#rrggbb"
func ParseHex(s string) (Color, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidHex, s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidHex, s)
	}
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func (c Color) String() string {
	return fmt.Sprintf("RGB(%d, %d, %d)", c.R, c.G, c.B)
}

func (c Color) Triple() api.RGB {
	return api.RGB{int(c.R), int(c.G), int(c.B)}
}

// ColorSet 有序、去重、最多 api.MaxColors 个颜色
type ColorSet struct {
	colors []Color
}

// Add 追加到末尾；已满或重复时不修改并返回错误
func (s *ColorSet) Add(c Color) error {
	if len(s.colors) >= api.MaxColors {
		return ErrColorLimit
	}
	if s.Contains(c) {
		return ErrDuplicateColor
	}
	s.colors = append(s.colors, c)
	return nil
}

// Remove 删除指定位置，其余颜色保持相对顺序
func (s *ColorSet) Remove(i int) error {
	if i < 0 || i >= len(s.colors) {
		return ErrColorIndex
	}
	s.colors = append(s.colors[:i:i], s.colors[i+1:]...)
	return nil
}

func (s ColorSet) Contains(c Color) bool {
	for _, have := range s.colors {
		if have == c {
			return true
		}
	}
	return false
}

func (s ColorSet) Len() int {
	return len(s.colors)
}

func (s *ColorSet) Reset() {
	s.colors = nil
}

// Colors 返回副本
func (s ColorSet) Colors() []Color {
	out := make([]Color, len(s.colors))
	copy(out, s.colors)
	return out
}

func (s ColorSet) Clone() ColorSet {
	return ColorSet{colors: s.Colors()}
}

// Payload 按选择顺序转成请求里的 rgb 字段
func (s ColorSet) Payload() api.Colors {
	out := make(api.Colors, len(s.colors))
	for i, c := range s.colors {
		out[i] = c.Triple()
	}
	return out
}
