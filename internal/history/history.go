// Package history 记录笔画变更，提供撤销/重做
package history

import (
	"livedraw/internal/ink"
	"livedraw/internal/logging"
)

// Surface 历史回放时操作的绘图表面
type Surface interface {
	Add(strokes ...*ink.Stroke)
	Remove(strokes ...*ink.Stroke)
}

// History 撤销/重做管理器
type History struct {
	surface    Surface
	undoStack  Stack
	redoStack  Stack
	suppressed int
	saved      bool
	maxHistory int
}

// New 创建历史记录管理器，maxHistory <= 0 表示不限制深度
func New(surface Surface, maxHistory int) *History {
	return &History{
		surface:    surface,
		saved:      true,
		maxHistory: maxHistory,
	}
}

// Push 向指定栈压入记录
func (h *History) Push(stack *Stack, m *Mutation) {
	stack.Push(m)
	if stack == &h.undoStack {
		stack.dropOldest(h.maxHistory)
	}
}

// Pop 从指定栈弹出记录
func (h *History) Pop(stack *Stack) (*Mutation, bool) {
	return stack.Pop()
}

// UndoStack 撤销栈
func (h *History) UndoStack() *Stack {
	return &h.undoStack
}

// RedoStack 重做栈
func (h *History) RedoStack() *Stack {
	return &h.redoStack
}

// CanUndo 是否可以撤销
func (h *History) CanUndo() bool {
	return h.undoStack.Len() > 0
}

// CanRedo 是否可以重做
func (h *History) CanRedo() bool {
	return h.redoStack.Len() > 0
}

// Undo 撤销上一步操作，返回是否执行
func (h *History) Undo() bool {
	if !h.CanUndo() {
		return false
	}
	last, ok := h.Pop(&h.undoStack)
	if !ok {
		return false
	}

	h.apply(last, last.Kind == Added)
	h.Push(&h.redoStack, last)

	logging.Logger().Debug("撤销", "kind", last.Kind, "strokes", len(last.Strokes), "undo", h.undoStack.Len(), "redo", h.redoStack.Len())
	return true
}

// Redo 重做上一步撤销，返回是否执行
func (h *History) Redo() bool {
	if !h.CanRedo() {
		return false
	}
	last, ok := h.Pop(&h.redoStack)
	if !ok {
		return false
	}

	h.apply(last, last.Kind == Removed)
	h.Push(&h.undoStack, last)

	logging.Logger().Debug("重做", "kind", last.Kind, "strokes", len(last.Strokes), "undo", h.undoStack.Len(), "redo", h.redoStack.Len())
	return true
}

// apply 在抑制范围内回放，remove 为 true 时移除笔画否则加回
func (h *History) apply(m *Mutation, remove bool) {
	release := h.Suppress()
	defer release()

	if remove {
		h.surface.Remove(m.Strokes...)
	} else {
		h.surface.Add(m.Strokes...)
	}
}

// OnSurfaceChanged 表面变化通知，抑制期间忽略
func (h *History) OnSurfaceChanged(added, removed []*ink.Stroke) {
	if h.Suppressed() {
		return
	}
	h.commit(ChangeSet{Added: added, Removed: removed}.Mutations()...)
}

// Record 直接记录一条新的用户变更（绕过表面通知）
func (h *History) Record(m *Mutation) {
	if m == nil || len(m.Strokes) == 0 {
		return
	}
	h.commit(m)
}

// commit 新用户操作：压入撤销栈，清空重做栈，标记未保存
func (h *History) commit(ms ...*Mutation) {
	for _, m := range ms {
		h.Push(&h.undoStack, m)
	}
	h.redoStack.Clear()
	h.saved = false
}

// ClearAll 清空所有历史
func (h *History) ClearAll() {
	h.undoStack.Clear()
	h.redoStack.Clear()
}

// Saved 当前内容是否已保存
func (h *History) Saved() bool {
	return h.saved
}

// MarkSaved 标记为已保存
func (h *History) MarkSaved() {
	h.saved = true
}

// Depth 撤销栈和重做栈深度
func (h *History) Depth() (undo, redo int) {
	return h.undoStack.Len(), h.redoStack.Len()
}
