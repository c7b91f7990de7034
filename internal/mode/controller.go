package mode

import (
	"livedraw/internal/ink"
	"livedraw/internal/logging"
)

// Canvas 模式控制器驱动的绘图表面能力
type Canvas interface {
	SetAcceptInput(v bool)
	SetEditing(e ink.Editing)
	SetEraserSize(size float64)
	SetBrushSize(size float64)
	BrushSize() float64
}

// StatusSink 接收常驻提示文本
type StatusSink interface {
	SetStaticInfo(info string)
}

// Controller 输入模式状态机，Mode 是唯一的状态来源
type Controller struct {
	canvas    Canvas
	status    StatusSink
	mode      Mode
	enabled   bool // 最近一次 SetEnabled 的值
	cycle     EraseCycle
	observers []func(Mode)
}

// NewController 创建控制器，初始为 Disabled
func NewController(canvas Canvas, status StatusSink) *Controller {
	c := &Controller{
		canvas: canvas,
		status: status,
	}
	c.SetEnabled(false)
	return c
}

// OnChange 注册模式变化回调
func (c *Controller) OnChange(fn func(Mode)) {
	c.observers = append(c.observers, fn)
}

// Mode 当前模式
func (c *Controller) Mode() Mode {
	return c.mode
}

// Enabled 最近一次 SetEnabled 的值
func (c *Controller) Enabled() bool {
	return c.enabled
}

// EraseCycle 当前橡皮擦循环状态
func (c *Controller) EraseCycle() EraseCycle {
	return c.cycle
}

// SetEnabled 启用（书写）或锁定
func (c *Controller) SetEnabled(v bool) {
	c.enabled = v
	c.completeCycle()

	if v {
		c.canvas.SetAcceptInput(true)
		c.canvas.SetEditing(ink.EditInk)
		c.set(Ink, InfoEnabled)
	} else {
		c.canvas.SetAcceptInput(false)
		c.canvas.SetEditing(ink.EditNone)
		c.set(Disabled, InfoLocked)
	}
}

// SetEraserMode 进入整笔擦除；false 时按最近的启用状态恢复
func (c *Controller) SetEraserMode(v bool) {
	if !v {
		c.SetEnabled(c.enabled)
		return
	}

	// 沿循环前进到 Eraser，使循环状态与模式一致
	for c.cycle != EraseEraser {
		c.cycle = c.cycle.Next()
	}
	c.canvas.SetAcceptInput(true)
	c.canvas.SetEditing(ink.EditEraseByStroke)
	c.set(EraserByStroke, InfoEraser)
}

// CycleEraser 橡皮擦三态循环，锁定时无效
func (c *Controller) CycleEraser() {
	if c.mode == Disabled {
		return
	}
	if c.mode == Line {
		c.SetLineMode(false)
	}

	switch c.cycle {
	case EraseNone:
		c.cycle = c.cycle.Next()
		c.SetEraserMode(true)
	case EraseEraser:
		c.canvas.SetEraserSize(c.canvas.BrushSize())
		c.canvas.SetAcceptInput(true)
		c.canvas.SetEditing(ink.EditEraseByPoint)
		c.cycle = c.cycle.Next()
		c.set(EraserByPoint, InfoEraserByPoint)
	case EraseByPoint:
		c.cycle = c.cycle.Next()
		c.SetEraserMode(false)
	}
}

// SetLineMode 进入或退出直线模式，锁定时无效
func (c *Controller) SetLineMode(v bool) {
	if c.mode == Disabled {
		return
	}
	if !v {
		c.SetEnabled(true)
		return
	}

	c.cycle = EraseByPoint
	c.completeCycle()
	c.canvas.SetAcceptInput(true)
	c.canvas.SetEditing(ink.EditNone)
	c.set(Line, InfoLine)
}

// SetBrushSize 按点擦除时调整橡皮大小，否则调整笔刷
func (c *Controller) SetBrushSize(size float64) {
	if c.mode == EraserByPoint {
		c.canvas.SetEraserSize(size)
		return
	}
	c.canvas.SetBrushSize(size)
}

// completeCycle 沿循环前进回到 None
func (c *Controller) completeCycle() {
	for c.cycle != EraseNone {
		c.cycle = c.cycle.Next()
	}
}

func (c *Controller) set(m Mode, info string) {
	c.mode = m
	if c.status != nil {
		c.status.SetStaticInfo(info)
	}
	logging.Logger().Debug("模式切换", "mode", m, "cycle", c.cycle)
	for _, fn := range c.observers {
		fn(m)
	}
}
