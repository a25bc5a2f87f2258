package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// MaxColors 一次处理最多指定的颜色数
const MaxColors = 3

var errColorShape = errors.New("rgb must be [r,g,b] or [[r,g,b], ...]")

// RGB 单个颜色 [r, g, b]
type RGB [3]int

// Valid 各分量都在 0-255 之间
func (c RGB) Valid() bool {
	for _, v := range c {
		if v < 0 || v > 255 {
			return false
		}
	}
	return true
}

// Colors 透过对象色列表，顺序有意义。
//
// 只有 1 色时编码为扁平的 [r,g,b]（兼容旧客户端），2 色以上编码为 [[r,g,b], ...]。
// 解码时两种形式都接受。
type Colors []RGB

func (c Colors) MarshalJSON() ([]byte, error) {
	if len(c) == 1 {
		return json.Marshal(c[0])
	}
	if c == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]RGB(c))
}

func (c *Colors) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode rgb: %w", err)
	}

	if len(raw) > 0 && !isArray(raw[0]) {
		one, err := decodeTriple(data)
		if err != nil {
			return err
		}
		*c = Colors{one}
		return nil
	}

	out := make(Colors, 0, len(raw))
	for _, item := range raw {
		one, err := decodeTriple(item)
		if err != nil {
			return err
		}
		out = append(out, one)
	}
	*c = out
	return nil
}

func decodeTriple(data []byte) (RGB, error) {
	var vals []int
	if err := json.Unmarshal(data, &vals); err != nil {
		return RGB{}, fmt.Errorf("decode rgb: %w", err)
	}
	if len(vals) != 3 {
		return RGB{}, errColorShape
	}
	return RGB{vals[0], vals[1], vals[2]}, nil
}

func isArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}
