package editor

import "fmt"

// ToolMode 当前的交互模式，同一时刻只有一个
type ToolMode int

const (
	ToolColorPick ToolMode = iota
	ToolErase
)

func (m ToolMode) String() string {
	switch m {
	case ToolColorPick:
		return "eyedropper"
	case ToolErase:
		return "eraser"
	default:
		return fmt.Sprintf("ToolMode(%d)", int(m))
	}
}

// ParseToolMode 接受页面上按钮使用的名字
func ParseToolMode(s string) (ToolMode, error) {
	switch s {
	case "eyedropper", "colorpick":
		return ToolColorPick, nil
	case "eraser", "erase":
		return ToolErase, nil
	}
	return 0, fmt.Errorf("unknown tool %q", s)
}
