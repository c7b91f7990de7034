package notify

import "time"

// DefaultInfoDelay 临时提示显示时长
const DefaultInfoDelay = 2000 * time.Millisecond

// Banner 状态提示：常驻文本 + 临时文本。
// 临时文本到时后恢复常驻文本；多个临时文本重叠时不取消旧定时器，最后触发的定时器生效
type Banner struct {
	post      func(func())
	after     func(time.Duration, func())
	delay     time.Duration
	static    string
	text      string
	showing   bool
	listeners []func(string)
}

// BannerOption Banner 选项
type BannerOption func(*Banner)

// WithDelay 设置临时文本显示时长
func WithDelay(d time.Duration) BannerOption {
	return func(b *Banner) {
		if d > 0 {
			b.delay = d
		}
	}
}

// WithScheduler 替换定时器（测试用）
func WithScheduler(after func(time.Duration, func())) BannerOption {
	return func(b *Banner) {
		b.after = after
	}
}

// NewBanner 创建提示栏。post 把定时回调投递回事件循环，为 nil 时直接执行
func NewBanner(post func(func()), opts ...BannerOption) *Banner {
	b := &Banner{
		post:  post,
		delay: DefaultInfoDelay,
		after: func(d time.Duration, fn func()) {
			time.AfterFunc(d, fn)
		},
	}
	if b.post == nil {
		b.post = func(fn func()) { fn() }
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// OnChange 注册文本变化回调
func (b *Banner) OnChange(fn func(string)) {
	b.listeners = append(b.listeners, fn)
}

// Text 当前显示文本
func (b *Banner) Text() string {
	return b.text
}

// Static 常驻文本
func (b *Banner) Static() string {
	return b.static
}

// Show 显示临时文本，到时恢复常驻文本
func (b *Banner) Show(info string) {
	b.showing = true
	b.setText(info)
	b.after(b.delay, func() {
		b.post(func() {
			b.showing = false
			b.setText(b.static)
		})
	})
}

// SetStaticInfo 设置常驻文本，临时文本显示期间不覆盖
func (b *Banner) SetStaticInfo(info string) {
	b.static = info
	if !b.showing {
		b.setText(info)
	}
}

func (b *Banner) setText(s string) {
	if s == b.text {
		return
	}
	b.text = s
	for _, fn := range b.listeners {
		fn(s)
	}
}
