//go:build windows

package main

import (
	"golang.org/x/sys/windows"

	"livedraw/internal/logging"
)

// dpiAttempt 一次设置 DPI 感知的尝试；ok 判断返回值是否成功
type dpiAttempt struct {
	dll, proc string
	arg       []uintptr
	ok        func(r uintptr) bool
}

var dpiAttempts = []dpiAttempt{
	// DPI_AWARENESS_CONTEXT_PER_MONITOR_AWARE_V2 = -4, Windows 10 1703+
	{"user32.dll", "SetProcessDpiAwarenessContext", []uintptr{^uintptr(3)}, nonZero},
	// DPI_AWARENESS_CONTEXT_PER_MONITOR_AWARE = -3
	{"user32.dll", "SetProcessDpiAwarenessContext", []uintptr{^uintptr(2)}, nonZero},
	// PROCESS_PER_MONITOR_DPI_AWARE, Windows 8.1+
	{"shcore.dll", "SetProcessDpiAwareness", []uintptr{2}, isSOK},
	// PROCESS_SYSTEM_DPI_AWARE
	{"shcore.dll", "SetProcessDpiAwareness", []uintptr{1}, isSOK},
	// Vista+
	{"user32.dll", "SetProcessDPIAware", nil, nonZero},
}

func nonZero(r uintptr) bool { return r != 0 }
func isSOK(r uintptr) bool   { return r == 0 }

// enableDPIAwareness 托盘图标在高 DPI 屏幕上不被拉伸，必须在任何窗口创建前调用
func enableDPIAwareness() {
	for _, a := range dpiAttempts {
		proc := windows.NewLazySystemDLL(a.dll).NewProc(a.proc)
		if proc.Find() != nil {
			continue
		}
		r, _, _ := proc.Call(a.arg...)
		if a.ok(r) {
			logging.Logger().Debug("DPI 感知已设置", "api", a.proc, "arg", a.arg)
			return
		}
	}
	logging.Logger().Debug("无法设置 DPI 感知")
}
