//go:build !windows

package notify

import "livedraw/internal/logging"

// logNotifier 没有系统通知时写日志
type logNotifier struct{}

// NewNotifier 创建通知器
func NewNotifier() Notifier {
	return logNotifier{}
}

// Show 记录通知内容
func (logNotifier) Show(title, message string) error {
	logging.Logger().Info(title, "message", message)
	return nil
}
