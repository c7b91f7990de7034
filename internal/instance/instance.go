// Package instance 进程单实例锁
package instance

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrAlreadyRunning 已有实例持有锁
var ErrAlreadyRunning = errors.New("another instance is already running")

// Lock 已获取的单实例锁
type Lock struct {
	fl *flock.Flock
}

// LockPath 锁文件路径（系统临时目录下）
func LockPath(name string) string {
	return filepath.Join(os.TempDir(), name+".lock")
}

// Acquire 非阻塞获取名为 name 的系统级锁
func Acquire(name string) (*Lock, error) {
	return AcquirePath(LockPath(name))
}

// AcquirePath 在指定文件上获取锁
func AcquirePath(path string) (*Lock, error) {
	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", path, err)
	}
	if !ok {
		return nil, ErrAlreadyRunning
	}
	return &Lock{fl: fl}, nil
}

// Release 释放锁
func (l *Lock) Release() error {
	if l == nil || l.fl == nil {
		return nil
	}
	return l.fl.Unlock()
}
