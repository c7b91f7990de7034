// Package mode 输入模式状态机：禁用、书写、整笔擦除、按点擦除、直线
package mode

import "fmt"

// Mode 当前输入模式
type Mode int

const (
	Disabled       Mode = iota // 锁定，不接收输入
	Ink                        // 自由书写
	EraserByStroke             // 整笔擦除
	EraserByPoint              // 按点擦除
	Line                       // 直线
)

// ModeName 模式显示名称
var ModeName = map[Mode]string{
	Disabled:       "disabled",
	Ink:            "ink",
	EraserByStroke: "eraser-by-stroke",
	EraserByPoint:  "eraser-by-point",
	Line:           "line",
}

func (m Mode) String() string {
	if name, ok := ModeName[m]; ok {
		return name
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// EraseCycle 橡皮擦循环状态，只按 None -> Eraser -> EraserByPoint -> None 前进
type EraseCycle int

const (
	EraseNone EraseCycle = iota
	EraseEraser
	EraseByPoint
)

func (e EraseCycle) String() string {
	switch e {
	case EraseNone:
		return "none"
	case EraseEraser:
		return "eraser"
	case EraseByPoint:
		return "eraser-by-point"
	}
	return fmt.Sprintf("EraseCycle(%d)", int(e))
}

// Next 循环中的下一个状态
func (e EraseCycle) Next() EraseCycle {
	switch e {
	case EraseNone:
		return EraseEraser
	case EraseEraser:
		return EraseByPoint
	default:
		return EraseNone
	}
}

// 状态栏常驻提示
const (
	InfoEnabled       = "LiveDraw"
	InfoLocked        = "Locked"
	InfoEraser        = "Eraser Mode"
	InfoEraserByPoint = "Eraser Mode (Point)"
	InfoLine          = "LineMode"
)
