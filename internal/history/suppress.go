package history

// Suppress 进入抑制范围，期间表面变化不记入历史。
// 返回的 release 必须在所有退出路径上调用（通常 defer），重复调用无效。
// 可嵌套：直线拖拽期间的撤销不会提前解除外层抑制。
func (h *History) Suppress() (release func()) {
	h.suppressed++
	released := false
	return func() {
		if released {
			return
		}
		released = true
		h.suppressed--
	}
}

// Suppressed 当前是否处于抑制范围
func (h *History) Suppressed() bool {
	return h.suppressed > 0
}
