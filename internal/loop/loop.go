// Package loop 单线程事件循环：所有核心状态只在 Run 所在的 goroutine 上修改
package loop

import "context"

// Loop 事件循环
type Loop struct {
	tasks chan func()
	done  chan struct{}
}

// New 创建事件循环，buffer 为待处理任务队列长度
func New(buffer int) *Loop {
	if buffer <= 0 {
		buffer = 64
	}
	return &Loop{
		tasks: make(chan func(), buffer),
		done:  make(chan struct{}),
	}
}

// Post 投递任务，循环结束后投递的任务被丢弃。可在任意 goroutine 调用
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}

	select {
	case l.tasks <- fn:
		return true
	case <-l.done:
		return false
	}
}

// Run 依次执行任务直到 ctx 结束
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.done)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.tasks:
			fn()
		}
	}
}

// Done 循环结束时关闭
func (l *Loop) Done() <-chan struct{} {
	return l.done
}
