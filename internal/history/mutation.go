package history

import (
	"fmt"

	"livedraw/internal/ink"
)

// Kind 变更类型
type Kind int

const (
	Added   Kind = iota // 添加笔画
	Removed             // 移除笔画
)

func (k Kind) String() string {
	switch k {
	case Added:
		return "added"
	case Removed:
		return "removed"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Mutation 一个可撤销单元
type Mutation struct {
	Kind    Kind
	Strokes []*ink.Stroke
}

// ChangeSet 一次表面变更事件。最多产生两条记录，顺序固定为先 Added 后 Removed
type ChangeSet struct {
	Added   []*ink.Stroke
	Removed []*ink.Stroke
}

// Mutations 按固定顺序返回非空的变更记录
func (c ChangeSet) Mutations() []*Mutation {
	out := make([]*Mutation, 0, 2)
	if len(c.Added) != 0 {
		out = append(out, &Mutation{Kind: Added, Strokes: c.Added})
	}
	if len(c.Removed) != 0 {
		out = append(out, &Mutation{Kind: Removed, Strokes: c.Removed})
	}
	return out
}

// Stack 后进先出的变更栈
type Stack struct {
	items []*Mutation
}

// Push 压栈
func (s *Stack) Push(m *Mutation) {
	s.items = append(s.items, m)
}

// Pop 出栈，空栈返回 false
func (s *Stack) Pop() (*Mutation, bool) {
	if len(s.items) == 0 {
		return nil, false
	}
	m := s.items[len(s.items)-1]
	s.items[len(s.items)-1] = nil
	s.items = s.items[:len(s.items)-1]
	return m, true
}

// Peek 查看栈顶
func (s *Stack) Peek() (*Mutation, bool) {
	if len(s.items) == 0 {
		return nil, false
	}
	return s.items[len(s.items)-1], true
}

// Len 栈深度
func (s *Stack) Len() int {
	return len(s.items)
}

// Clear 清空
func (s *Stack) Clear() {
	clear(s.items)
	s.items = s.items[:0]
}

// dropOldest 丢弃最早的记录直到不超过 limit
func (s *Stack) dropOldest(limit int) {
	if limit <= 0 || len(s.items) <= limit {
		return
	}
	n := len(s.items) - limit
	clear(s.items[:n])
	s.items = append(s.items[:0], s.items[n:]...)
}
