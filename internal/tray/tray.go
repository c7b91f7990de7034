package tray

import (
	"image/color"
	"sync"

	"github.com/getlantern/systray"

	"livedraw/internal/command"
	"livedraw/internal/ink"
	"livedraw/internal/mode"
)

const appTitle = "LiveDraw"

// menuTitle 菜单中各命令的显示名称
var menuTitle = map[command.Command]string{
	command.ToggleEnabled:     "启用绘制",
	command.Ink:               "画笔",
	command.ToggleEraserCycle: "橡皮擦",
	command.ToggleLineMode:    "直线",
	command.Undo:              "撤销",
	command.Redo:              "重做",
	command.Clear:             "清空",
	command.BrushUp:           "笔刷加粗",
	command.BrushDown:         "笔刷变细",
}

// Tray 系统托盘
type Tray struct {
	mu      sync.Mutex
	ready   bool
	hotkeys map[command.Command]string
	items   map[command.Command]*systray.MenuItem
	status  string
	mode    mode.Mode

	onCommand    func(command.Command)
	onColor      func(color.RGBA)
	onSave       func()
	onLoadLatest func()
	onOpenDir    func()
	onQuit       func()
}

// NewTray 创建系统托盘
func NewTray() *Tray {
	return &Tray{
		hotkeys: make(map[command.Command]string),
		items:   make(map[command.Command]*systray.MenuItem),
		status:  mode.InfoLocked,
	}
}

// SetHotkeyText 设置某个命令在菜单中显示的快捷键
func (t *Tray) SetHotkeyText(cmd command.Command, text string) {
	t.hotkeys[cmd] = text
}

// SetOnCommand 设置命令回调
func (t *Tray) SetOnCommand(fn func(command.Command)) {
	t.onCommand = fn
}

// SetOnSelectColor 设置选择颜色回调
func (t *Tray) SetOnSelectColor(fn func(color.RGBA)) {
	t.onColor = fn
}

// SetOnSave 设置保存回调
func (t *Tray) SetOnSave(fn func()) {
	t.onSave = fn
}

// SetOnLoadLatest 设置加载最近墨迹回调
func (t *Tray) SetOnLoadLatest(fn func()) {
	t.onLoadLatest = fn
}

// SetOnOpenDir 设置打开目录回调
func (t *Tray) SetOnOpenDir(fn func()) {
	t.onOpenDir = fn
}

// SetOnQuit 设置退出回调
func (t *Tray) SetOnQuit(fn func()) {
	t.onQuit = fn
}

// SetStatus 托盘提示显示当前提示文本
func (t *Tray) SetStatus(text string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status = text
	if t.ready {
		systray.SetTooltip(tooltip(text))
	}
}

// SetMode 更新图标与菜单勾选状态
func (t *Tray) SetMode(m mode.Mode) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.mode = m
	if t.ready {
		t.applyMode()
	}
}

// Run 运行系统托盘，阻塞直到退出
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// Quit 退出托盘
func (t *Tray) Quit() {
	systray.Quit()
}

func (t *Tray) onReady() {
	systray.SetTitle(appTitle)

	toggle := t.addCommand(command.ToggleEnabled)
	systray.AddSeparator()
	inkItem := t.addCommand(command.Ink)
	eraser := t.addCommand(command.ToggleEraserCycle)
	line := t.addCommand(command.ToggleLineMode)
	systray.AddSeparator()
	undo := t.addCommand(command.Undo)
	redo := t.addCommand(command.Redo)
	clr := t.addCommand(command.Clear)
	systray.AddSeparator()
	brushUp := t.addCommand(command.BrushUp)
	brushDown := t.addCommand(command.BrushDown)
	t.addColors(systray.AddMenuItem("颜色", "选择画笔颜色"))
	systray.AddSeparator()

	mSave := systray.AddMenuItem("保存墨迹", "保存到存储目录")
	mLoad := systray.AddMenuItem("加载最近墨迹", "加载存储目录中最新的墨迹文件")
	mOpenDir := systray.AddMenuItem("打开存储目录", "打开墨迹保存位置")
	systray.AddSeparator()

	// 退出
	mQuit := systray.AddMenuItem("退出", "退出程序")

	t.mu.Lock()
	t.ready = true
	systray.SetTooltip(tooltip(t.status))
	t.applyMode()
	t.mu.Unlock()

	go func() {
		for {
			select {
			case <-toggle.ClickedCh:
				t.invoke(command.ToggleEnabled)
			case <-inkItem.ClickedCh:
				t.invoke(command.Ink)
			case <-eraser.ClickedCh:
				t.invoke(command.ToggleEraserCycle)
			case <-line.ClickedCh:
				t.invoke(command.ToggleLineMode)
			case <-undo.ClickedCh:
				t.invoke(command.Undo)
			case <-redo.ClickedCh:
				t.invoke(command.Redo)
			case <-clr.ClickedCh:
				t.invoke(command.Clear)
			case <-brushUp.ClickedCh:
				t.invoke(command.BrushUp)
			case <-brushDown.ClickedCh:
				t.invoke(command.BrushDown)
			case <-mSave.ClickedCh:
				call(t.onSave)
			case <-mLoad.ClickedCh:
				call(t.onLoadLatest)
			case <-mOpenDir.ClickedCh:
				call(t.onOpenDir)
			case <-mQuit.ClickedCh:
				call(t.onQuit)
				systray.Quit()
				return
			}
		}
	}()
}

func (t *Tray) addCommand(cmd command.Command) *systray.MenuItem {
	item := systray.AddMenuItemCheckbox(menuLabel(menuTitle[cmd], t.hotkeys[cmd]), "", false)
	t.items[cmd] = item
	return item
}

// addColors 每个预设颜色一个子菜单项，各自一个监听 goroutine
func (t *Tray) addColors(parent *systray.MenuItem) {
	for _, c := range ink.DefaultColors {
		item := parent.AddSubMenuItem(colorLabel(c), "")
		go func(c color.RGBA) {
			for range item.ClickedCh {
				if t.onColor != nil {
					t.onColor(c)
				}
			}
		}(c)
	}
}

// applyMode 需持有 t.mu
func (t *Tray) applyMode() {
	enabled := t.mode != mode.Disabled
	systray.SetIcon(getIcon(enabled))

	checked := checkedCommands(t.mode)
	for cmd, item := range t.items {
		if checked[cmd] {
			item.Check()
		} else {
			item.Uncheck()
		}
		if cmd.Secondary() {
			if enabled {
				item.Enable()
			} else {
				item.Disable()
			}
		}
	}
}

func (t *Tray) invoke(cmd command.Command) {
	if t.onCommand != nil {
		t.onCommand(cmd)
	}
}

func (t *Tray) onExit() {
	t.mu.Lock()
	t.ready = false
	t.mu.Unlock()
}

func call(fn func()) {
	if fn != nil {
		fn()
	}
}

func tooltip(status string) string {
	if status == "" || status == appTitle {
		return appTitle
	}
	return appTitle + " - " + status
}

func menuLabel(title, hotkey string) string {
	if hotkey == "" {
		return title
	}
	return title + " (" + hotkey + ")"
}

func colorLabel(c color.RGBA) string {
	return ink.HexColor(c)[:7]
}

// checkedCommands 当前模式对应的勾选项
func checkedCommands(m mode.Mode) map[command.Command]bool {
	checked := map[command.Command]bool{}
	switch m {
	case mode.Disabled:
		return checked
	case mode.Ink:
		checked[command.Ink] = true
	case mode.EraserByStroke, mode.EraserByPoint:
		checked[command.ToggleEraserCycle] = true
	case mode.Line:
		checked[command.ToggleLineMode] = true
	}
	checked[command.ToggleEnabled] = true
	return checked
}
