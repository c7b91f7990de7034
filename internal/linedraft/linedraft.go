// Package linedraft 直线模式：拖拽期间只保留一条预览笔画，结束时记录一次历史
package linedraft

import (
	"livedraw/internal/history"
	"livedraw/internal/ink"
	"livedraw/internal/logging"
)

// AttributesSource 提供当前默认绘制属性
type AttributesSource interface {
	DefaultAttributes() ink.Attributes
}

// Engine 直线草稿引擎
type Engine struct {
	hist    *history.History
	surface history.Surface
	attrs   AttributesSource

	active  bool
	start   ink.Point
	last    ink.Point
	preview *ink.Stroke
	release func()
}

// New 创建直线草稿引擎
func New(hist *history.History, surface history.Surface, attrs AttributesSource) *Engine {
	return &Engine{
		hist:    hist,
		surface: surface,
		attrs:   attrs,
	}
}

// Active 是否正在拖拽
func (e *Engine) Active() bool {
	return e.active
}

// Preview 当前预览笔画
func (e *Engine) Preview() *ink.Stroke {
	return e.preview
}

// StartLine 开始拖拽，整个手势期间保持抑制
func (e *Engine) StartLine(p ink.Point) {
	if e.active {
		e.Finish()
	}

	e.release = e.hist.Suppress()
	e.active = true
	e.start = p
	e.last = p
	e.preview = nil
}

// MakeLine 用起点到 p 的新直线替换预览
func (e *Engine) MakeLine(p ink.Point) {
	if !e.active {
		return
	}

	attrs := e.attrs.DefaultAttributes().Clone()
	attrs.Tip = ink.TipEllipse
	attrs.IgnorePressure = true
	line := ink.NewLine(e.start, p, attrs)

	if e.preview != nil {
		e.surface.Remove(e.preview)
	}
	e.surface.Add(line)

	e.preview = line
	e.last = p
}

// EndLine 结束拖拽。有预览时记录唯一一条 Added 变更
func (e *Engine) EndLine(p ink.Point) {
	if !e.active {
		return
	}
	defer e.reset()

	if e.preview == nil {
		return
	}
	if p != e.last {
		e.MakeLine(p)
	}

	e.hist.Record(&history.Mutation{
		Kind:    history.Added,
		Strokes: []*ink.Stroke{e.preview},
	})
	logging.Logger().Debug("直线提交", "stroke", e.preview.String())
}

// Finish 以最后位置结束当前拖拽（模式切换时使用）
func (e *Engine) Finish() {
	e.EndLine(e.last)
}

func (e *Engine) reset() {
	e.active = false
	e.preview = nil
	if e.release != nil {
		e.release()
		e.release = nil
	}
}
