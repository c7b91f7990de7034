// Package command 定义热键层调用的抽象命令
package command

import (
	"fmt"
	"strings"

	"livedraw/internal/logging"
)

// Command 抽象命令，无参数无返回值
type Command int

const (
	ToggleEnabled     Command = iota // 启用/锁定
	Undo                             // 撤销
	Redo                             // 重做
	Clear                            // 清空
	ToggleEraserCycle                // 橡皮擦循环
	ToggleLineMode                   // 直线模式
	Ink                              // 回到画笔
	BrushUp                          // 下一个笔刷尺寸
	BrushDown                        // 上一个笔刷尺寸
)

// CommandName 配置文件中使用的命令名
var CommandName = map[Command]string{
	ToggleEnabled:     "toggle",
	Undo:              "undo",
	Redo:              "redo",
	Clear:             "clear",
	ToggleEraserCycle: "eraser",
	ToggleLineMode:    "line",
	Ink:               "ink",
	BrushUp:           "brush_up",
	BrushDown:         "brush_down",
}

func (c Command) String() string {
	if name, ok := CommandName[c]; ok {
		return name
	}
	return fmt.Sprintf("Command(%d)", int(c))
}

// All 所有命令，按定义顺序
func All() []Command {
	return []Command{ToggleEnabled, Undo, Redo, Clear, ToggleEraserCycle, ToggleLineMode, Ink, BrushUp, BrushDown}
}

// Parse 按名称解析命令
func Parse(name string) (Command, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for c, n := range CommandName {
		if n == name {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown command %q", name)
}

// Secondary 是否为次级命令（只在启用时生效）
func (c Command) Secondary() bool {
	return c != ToggleEnabled
}

// Handler 命令处理者
type Handler interface {
	Invoke(cmd Command)
}

// HandlerFunc 函数形式的 Handler
type HandlerFunc func(cmd Command)

// Invoke 调用函数
func (f HandlerFunc) Invoke(cmd Command) {
	f(cmd)
}

// Dispatcher 按热键策略转发命令：总开关始终有效，其余命令只在启用时转发
type Dispatcher struct {
	handler Handler
	enabled func() bool
}

// NewDispatcher 创建分发器
func NewDispatcher(handler Handler, enabled func() bool) *Dispatcher {
	return &Dispatcher{
		handler: handler,
		enabled: enabled,
	}
}

// Invoke 分发命令
func (d *Dispatcher) Invoke(cmd Command) {
	if cmd.Secondary() && !d.enabled() {
		logging.Logger().Debug("锁定中，忽略命令", "command", cmd)
		return
	}
	d.handler.Invoke(cmd)
}
