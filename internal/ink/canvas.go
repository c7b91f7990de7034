package ink

import (
	"slices"

	"livedraw/internal/logging"
)

// Editing 画布对指针输入的处理方式
type Editing int

const (
	EditNone          Editing = iota // 不处理指针（直线模式由外部接管）
	EditInk                          // 自由书写
	EditEraseByStroke                // 整笔擦除
	EditEraseByPoint                 // 按点擦除
)

var editingName = map[Editing]string{
	EditNone:          "none",
	EditInk:           "ink",
	EditEraseByStroke: "erase-by-stroke",
	EditEraseByPoint:  "erase-by-point",
}

func (e Editing) String() string {
	return editingName[e]
}

// ChangeListener 笔画集合变化回调，added 和 removed 来自同一次变更
type ChangeListener func(added, removed []*Stroke)

// Canvas 内存中的笔画集合，对应绘图表面
type Canvas struct {
	strokes    []*Stroke
	listeners  []ChangeListener
	accept     bool
	editing    Editing
	defaults   Attributes
	eraserSize float64

	pending []Point // 正在书写的点
	drawing bool
}

// NewCanvas 创建画布，初始拒绝所有输入
func NewCanvas() *Canvas {
	attrs := DefaultAttributes()
	return &Canvas{
		strokes:    make([]*Stroke, 0),
		defaults:   attrs,
		eraserSize: attrs.Size(),
	}
}

// OnChange 注册变化回调
func (c *Canvas) OnChange(fn ChangeListener) {
	c.listeners = append(c.listeners, fn)
}

func (c *Canvas) emit(added, removed []*Stroke) {
	if len(added) == 0 && len(removed) == 0 {
		return
	}
	for _, fn := range c.listeners {
		fn(added, removed)
	}
}

// Strokes 当前笔画（副本）
func (c *Canvas) Strokes() []*Stroke {
	return slices.Clone(c.strokes)
}

// Len 笔画数量
func (c *Canvas) Len() int {
	return len(c.strokes)
}

// Contains 是否包含该笔画（按身份）
func (c *Canvas) Contains(s *Stroke) bool {
	return slices.Contains(c.strokes, s)
}

// Add 添加笔画，已存在的忽略
func (c *Canvas) Add(strokes ...*Stroke) {
	added := make([]*Stroke, 0, len(strokes))
	for _, s := range strokes {
		if s == nil || c.Contains(s) || slices.Contains(added, s) {
			continue
		}
		added = append(added, s)
	}
	c.strokes = append(c.strokes, added...)
	c.emit(added, nil)
}

// Remove 移除笔画，不存在的忽略
func (c *Canvas) Remove(strokes ...*Stroke) {
	targets := slices.Clone(strokes)
	removed := make([]*Stroke, 0, len(targets))
	c.strokes = slices.DeleteFunc(c.strokes, func(s *Stroke) bool {
		if slices.Contains(targets, s) {
			removed = append(removed, s)
			return true
		}
		return false
	})
	c.emit(nil, removed)
}

// Replace 整体替换笔画集合（加载文件时使用）
func (c *Canvas) Replace(strokes []*Stroke) {
	removed := c.strokes
	c.strokes = slices.Clone(strokes)
	c.emit(slices.Clone(c.strokes), removed)
}

// Clear 清空画布
func (c *Canvas) Clear() {
	removed := c.strokes
	c.strokes = make([]*Stroke, 0)
	c.emit(nil, removed)
}

// SetAcceptInput 设置是否接收指针输入
func (c *Canvas) SetAcceptInput(v bool) {
	c.accept = v
	if !v {
		c.drawing = false
		c.pending = nil
	}
}

// AcceptsInput 是否接收指针输入
func (c *Canvas) AcceptsInput() bool {
	return c.accept
}

// SetEditing 设置编辑方式
func (c *Canvas) SetEditing(e Editing) {
	if c.editing != e {
		c.drawing = false
		c.pending = nil
	}
	c.editing = e
}

// Editing 当前编辑方式
func (c *Canvas) Editing() Editing {
	return c.editing
}

// DefaultAttributes 新笔画使用的属性
func (c *Canvas) DefaultAttributes() Attributes {
	return c.defaults
}

// SetDefaultAttributes 设置新笔画属性
func (c *Canvas) SetDefaultAttributes(a Attributes) {
	c.defaults = a
}

// SetBrushSize 设置笔刷尺寸
func (c *Canvas) SetBrushSize(size float64) {
	c.defaults.Width = size
	c.defaults.Height = size
}

// BrushSize 当前笔刷尺寸
func (c *Canvas) BrushSize() float64 {
	return c.defaults.Size()
}

// SetEraserSize 设置圆形橡皮擦直径
func (c *Canvas) SetEraserSize(size float64) {
	c.eraserSize = size
}

// EraserSize 橡皮擦直径
func (c *Canvas) EraserSize() float64 {
	return c.eraserSize
}

// PointerDown 指针按下
func (c *Canvas) PointerDown(p Point) {
	if !c.accept {
		return
	}

	switch c.editing {
	case EditInk:
		c.drawing = true
		c.pending = []Point{p}
	case EditEraseByStroke, EditEraseByPoint:
		c.drawing = true
		c.eraseAt(p)
	}
}

// PointerMove 指针移动
func (c *Canvas) PointerMove(p Point) {
	if !c.accept || !c.drawing {
		return
	}

	switch c.editing {
	case EditInk:
		c.pending = append(c.pending, p)
	case EditEraseByStroke, EditEraseByPoint:
		c.eraseAt(p)
	}
}

// PointerUp 指针抬起，书写模式下提交笔画
func (c *Canvas) PointerUp(p Point) {
	if !c.accept || !c.drawing {
		return
	}
	c.drawing = false

	if c.editing != EditInk {
		return
	}

	pts := c.pending
	c.pending = nil
	if pts[len(pts)-1] != p {
		pts = append(pts, p)
	}
	s := NewStroke(pts, c.defaults.Clone())
	logging.Logger().Debug("笔画提交", "stroke", s.String())
	c.Add(s)
}

func (c *Canvas) eraseAt(p Point) {
	radius := c.eraserSize / 2

	if c.editing == EditEraseByStroke {
		hit := make([]*Stroke, 0)
		for _, s := range c.strokes {
			if HitTest(s, p, radius) {
				hit = append(hit, s)
			}
		}
		c.Remove(hit...)
		return
	}

	// 按点擦除：被命中的笔画拆成剩余片段，一次变更里同时报告新增和移除
	var added, removed []*Stroke
	next := make([]*Stroke, 0, len(c.strokes))
	for _, s := range c.strokes {
		pieces, hit := ErasePoints(s, p, radius)
		if !hit {
			next = append(next, s)
			continue
		}
		removed = append(removed, s)
		added = append(added, pieces...)
		next = append(next, pieces...)
	}
	if len(removed) == 0 {
		return
	}
	c.strokes = next
	c.emit(added, removed)
}
