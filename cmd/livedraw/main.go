package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image/color"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"livedraw/internal/board"
	"livedraw/internal/command"
	"livedraw/internal/config"
	"livedraw/internal/hotkey"
	"livedraw/internal/ink"
	"livedraw/internal/instance"
	"livedraw/internal/logging"
	"livedraw/internal/loop"
	"livedraw/internal/mode"
	"livedraw/internal/notify"
	"livedraw/internal/storage"
	"livedraw/internal/tray"
)

const appVersion = "v1.0.0"

var (
	cfg      *config.Config
	store    *storage.Storage
	notifier notify.Notifier
	hkMgr    *hotkey.Manager
)

func main() {
	// 命令行参数
	setHotkeyFlag := flag.String("set-hotkey", "", "设置快捷键，格式：undo=ctrl+z")
	showConfig := flag.Bool("config", false, "显示配置文件路径")
	version := flag.Bool("version", false, "显示版本信息")
	debug := flag.Bool("debug", false, "在程序目录写入 livedraw_debug.log")
	prune := flag.Bool("prune", false, "按 keep_days 清理旧墨迹文件后退出")
	flag.Parse()

	if *version {
		fmt.Println("LiveDraw " + appVersion)
		fmt.Println("屏幕实时标注工具")
		return
	}

	if *showConfig {
		fmt.Println("配置文件路径:", config.GetConfigPath())
		return
	}

	closeLog := setupLogging(*debug)
	defer closeLog()

	if *setHotkeyFlag != "" {
		if err := updateHotkey(*setHotkeyFlag); err != nil {
			fmt.Println("设置快捷键失败:", err)
			os.Exit(1)
		}
		fmt.Println("快捷键已设置为:", *setHotkeyFlag)
		return
	}

	if *prune {
		if err := pruneSaves(); err != nil {
			fmt.Println("清理失败:", err)
			os.Exit(1)
		}
		return
	}

	// 只允许一个实例
	lock, err := instance.Acquire("livedraw")
	if errors.Is(err, instance.ErrAlreadyRunning) {
		fmt.Println("LiveDraw 已在运行")
		return
	}
	if err != nil {
		fmt.Println("获取实例锁失败:", err)
		os.Exit(1)
	}
	defer lock.Release()

	enableDPIAwareness()

	// 使用 mainthread 确保热键在主线程运行
	hotkey.Run(run)
}

func setupLogging(debug bool) func() {
	var w io.Writer = os.Stderr
	closer := func() {}

	if debug {
		if exePath, err := os.Executable(); err == nil {
			logPath := filepath.Join(filepath.Dir(exePath), "livedraw_debug.log")
			if f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644); err == nil {
				w = io.MultiWriter(os.Stderr, f)
				closer = func() { f.Close() }
			}
		}
	}

	logging.SetLogger(logging.New(w, debug))
	return closer
}

func loadConfig() *config.Config {
	c, err := config.Load()
	if err != nil {
		fmt.Println("加载配置失败:", err)
	}
	if err := c.EnsureStorageDir(); err != nil {
		logging.Logger().Warn("无法创建存储目录", "dir", c.Storage.Directory, "error", err)
	}
	return c
}

func run() {
	cfg = loadConfig()
	store = storage.NewStorage(cfg.Storage.Directory, ink.NewCodec())
	notifier = notify.NewNotifier()

	if cfg.Storage.KeepDays > 0 {
		if n, err := store.Cleanup(keepDuration(cfg.Storage.KeepDays)); err != nil {
			logging.Logger().Warn("清理旧墨迹失败", "error", err)
		} else if n > 0 {
			logging.Logger().Info("已清理旧墨迹", "count", n)
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	lp := loop.New(0)
	t := tray.NewTray()

	banner := notify.NewBanner(func(fn func()) { lp.Post(fn) },
		notify.WithDelay(time.Duration(cfg.Behavior.InfoDelayMs)*time.Millisecond))
	banner.OnChange(t.SetStatus)

	brushColor, err := ink.ParseHexColor(cfg.Brush.Color)
	if err != nil {
		brushColor = ink.DefaultColors[0]
	}
	b := board.New(ink.NewCanvas(), store, banner, notifier, board.Options{
		BrushSizes:       cfg.Brush.Sizes,
		BrushIndex:       cfg.Brush.Index,
		Color:            brushColor,
		HistoryLimit:     cfg.Behavior.HistoryLimit,
		ShowNotification: cfg.Behavior.ShowNotification,
		AutoSaveOnExit:   cfg.Behavior.AutoSaveOnExit,
	})
	dispatcher := command.NewDispatcher(b, b.Enabled)

	invoke := func(cmd command.Command) {
		lp.Post(func() { dispatcher.Invoke(cmd) })
	}

	// 创建并注册热键
	hkMgr = hotkey.NewManager(invoke)
	for _, cmd := range command.All() {
		hk := cfg.Hotkeys[cmd.String()]
		binding := hotkey.Binding{Command: cmd, Modifiers: hk.Modifiers, Key: hk.Key}
		if err := hkMgr.Register(binding); err != nil {
			if !cmd.Secondary() {
				fmt.Println("注册热键失败:", err)
				fmt.Println("请检查快捷键是否被其他程序占用")
				fmt.Println("提示: 可以通过 --set-hotkey toggle=ctrl+alt+d 设置其他快捷键")
				os.Exit(1)
			}
			logging.Logger().Warn("跳过热键", "command", cmd, "error", err)
		}
	}
	defer hkMgr.Unregister()

	// 启用时注册次级热键，同步托盘状态
	b.OnModeChange(func(m mode.Mode) {
		t.SetMode(m)
		if err := hkMgr.SetSecondaryActive(m != mode.Disabled); err != nil {
			logging.Logger().Warn("次级热键注册失败", "error", err)
		}
	})

	fmt.Println("LiveDraw " + appVersion + " 已启动")
	fmt.Printf("启用/锁定: %s\n", cfg.GetHotkeyString(command.ToggleEnabled))
	fmt.Printf("墨迹保存到: %s\n", store.GetDirectory())

	loopCtx, stopLoop := context.WithCancel(context.Background())
	defer stopLoop()
	go lp.Run(loopCtx)

	shutdown := func() {
		lp.Post(func() {
			if err := b.Exit(); err != nil && !errors.Is(err, storage.ErrNothingToSave) {
				logging.Logger().Error("退出自动保存失败", "error", err)
			}
			stopLoop()
		})
		select {
		case <-lp.Done():
		case <-time.After(5 * time.Second):
			logging.Logger().Warn("事件循环未及时退出")
		}
	}

	for _, cmd := range command.All() {
		t.SetHotkeyText(cmd, cfg.GetHotkeyString(cmd))
	}
	t.SetOnCommand(invoke)
	t.SetOnSelectColor(func(c color.RGBA) {
		lp.Post(func() { b.SelectColor(c) })
	})
	t.SetOnSave(func() {
		lp.Post(func() { b.Save() })
	})
	t.SetOnLoadLatest(func() {
		lp.Post(func() { b.LoadLatest(board.SaveYes) })
	})
	t.SetOnOpenDir(openSaveDir)
	t.SetOnQuit(shutdown)

	go func() {
		<-ctx.Done()
		shutdown()
		t.Quit()
	}()

	// 运行托盘（阻塞）
	t.Run()
}

func keepDuration(days int) time.Duration {
	return time.Duration(days) * 24 * time.Hour
}

func pruneSaves() error {
	c := loadConfig()
	if c.Storage.KeepDays <= 0 {
		fmt.Println("keep_days 未设置，不清理")
		return nil
	}

	n, err := storage.NewStorage(c.Storage.Directory, nil).Cleanup(keepDuration(c.Storage.KeepDays))
	if err != nil {
		return err
	}
	fmt.Printf("已清理 %d 个墨迹文件\n", n)
	return nil
}

func openSaveDir() {
	dir := cfg.Storage.Directory

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("explorer.exe", dir)
	case "darwin":
		cmd = exec.Command("open", dir)
	default:
		cmd = exec.Command("xdg-open", dir)
	}

	if err := cmd.Start(); err != nil {
		fmt.Println("打开目录失败:", err)
	}
}

// updateHotkey 解析 "undo=ctrl+z"，不带命令名时设置总开关
func updateHotkey(s string) error {
	name, keys, ok := strings.Cut(s, "=")
	if !ok {
		name, keys = command.ToggleEnabled.String(), s
	}

	cmd, err := command.Parse(name)
	if err != nil {
		return err
	}
	binding, err := hotkey.ParseBinding(cmd, keys)
	if err != nil {
		return fmt.Errorf("无效的快捷键格式: %w", err)
	}

	// 配置文件损坏时不覆盖
	c, err := config.Load()
	if err != nil {
		return err
	}
	return c.SetHotkey(cmd, binding.Modifiers, binding.Key)
}
