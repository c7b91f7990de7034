// Package board 把画布、历史、模式和直线草稿组装成一个可由命令驱动的绘图板
package board

import (
	"errors"
	"fmt"
	"image/color"

	"livedraw/internal/command"
	"livedraw/internal/history"
	"livedraw/internal/ink"
	"livedraw/internal/linedraft"
	"livedraw/internal/logging"
	"livedraw/internal/mode"
	"livedraw/internal/notify"
	"livedraw/internal/storage"
)

// 临时提示文本
const (
	InfoCleared       = "Cleared"
	InfoSaved         = "Ink saved"
	InfoNothingToSave = "Nothing to save"
	InfoSaveFailed    = "Fail to save"
	InfoLoaded        = "Ink loaded"
	InfoLoadFailed    = "Fail to load"
)

// ErrCanceled 用户取消了加载
var ErrCanceled = errors.New("canceled")

// SaveChoice 有未保存内容时加载前的选择
type SaveChoice int

const (
	SaveYes    SaveChoice = iota // 先快速保存再加载
	SaveNo                       // 直接加载
	SaveCancel                   // 放弃加载
)

// Options 绘图板选项
type Options struct {
	BrushSizes       []float64
	BrushIndex       int
	Color            color.RGBA
	HistoryLimit     int
	ShowNotification bool
	AutoSaveOnExit   bool
}

// DefaultOptions 默认选项
func DefaultOptions() Options {
	return Options{
		BrushSizes:       append([]float64(nil), ink.DefaultBrushSizes...),
		BrushIndex:       ink.DefaultBrushIndex,
		Color:            ink.DefaultColors[0],
		ShowNotification: true,
		AutoSaveOnExit:   true,
	}
}

// Board 绘图板，所有方法必须在同一个 goroutine（事件循环）中调用
type Board struct {
	canvas   *ink.Canvas
	hist     *history.History
	modes    *mode.Controller
	line     *linedraft.Engine
	store    *storage.Storage
	banner   *notify.Banner
	notifier notify.Notifier
	opts     Options

	brushIndex int
}

// New 创建绘图板，初始为锁定状态
func New(canvas *ink.Canvas, store *storage.Storage, banner *notify.Banner, notifier notify.Notifier, opts Options) *Board {
	if len(opts.BrushSizes) == 0 {
		opts.BrushSizes = append([]float64(nil), ink.DefaultBrushSizes...)
	}
	if opts.BrushIndex < 0 || opts.BrushIndex >= len(opts.BrushSizes) {
		opts.BrushIndex = 0
	}
	if opts.Color == (color.RGBA{}) {
		opts.Color = ink.DefaultColors[0]
	}

	b := &Board{
		canvas:     canvas,
		store:      store,
		banner:     banner,
		notifier:   notifier,
		opts:       opts,
		brushIndex: opts.BrushIndex,
	}

	b.hist = history.New(canvas, opts.HistoryLimit)
	canvas.OnChange(b.hist.OnSurfaceChanged)

	attrs := canvas.DefaultAttributes()
	attrs.Color = opts.Color
	canvas.SetDefaultAttributes(attrs)

	b.modes = mode.NewController(canvas, banner)
	b.modes.SetBrushSize(opts.BrushSizes[b.brushIndex])
	b.line = linedraft.New(b.hist, canvas, canvas)

	// 离开直线模式时结束未完成的拖拽
	b.modes.OnChange(func(m mode.Mode) {
		if m != mode.Line && b.line.Active() {
			b.line.Finish()
		}
	})
	return b
}

// OnModeChange 注册模式变化回调
func (b *Board) OnModeChange(fn func(mode.Mode)) {
	b.modes.OnChange(fn)
}

// Mode 当前模式
func (b *Board) Mode() mode.Mode {
	return b.modes.Mode()
}

// Enabled 是否处于可绘制状态
func (b *Board) Enabled() bool {
	return b.modes.Mode() != mode.Disabled
}

// Canvas 画布
func (b *Board) Canvas() *ink.Canvas {
	return b.canvas
}

// History 历史记录
func (b *Board) History() *history.History {
	return b.hist
}

// Storage 存储
func (b *Board) Storage() *storage.Storage {
	return b.store
}

// Invoke 执行命令
func (b *Board) Invoke(cmd command.Command) {
	switch cmd {
	case command.ToggleEnabled:
		b.modes.SetEnabled(!b.modes.Enabled())
	case command.Undo:
		b.hist.Undo()
	case command.Redo:
		b.hist.Redo()
	case command.Clear:
		b.Clear()
	case command.ToggleEraserCycle:
		b.modes.CycleEraser()
	case command.ToggleLineMode:
		b.modes.SetLineMode(b.modes.Mode() != mode.Line)
	case command.Ink:
		b.modes.SetEnabled(true)
	case command.BrushUp:
		b.NextBrush()
	case command.BrushDown:
		b.PrevBrush()
	default:
		logging.Logger().Warn("未知命令", "command", cmd)
	}
}

// PointerDown 指针按下，直线模式交给草稿引擎，其余交给画布
func (b *Board) PointerDown(p ink.Point) {
	if b.modes.Mode() == mode.Line {
		b.line.StartLine(p)
		return
	}
	b.canvas.PointerDown(p)
}

// PointerMove 指针移动
func (b *Board) PointerMove(p ink.Point) {
	if b.modes.Mode() == mode.Line {
		b.line.MakeLine(p)
		return
	}
	b.canvas.PointerMove(p)
}

// PointerUp 指针抬起
func (b *Board) PointerUp(p ink.Point) {
	if b.modes.Mode() == mode.Line {
		b.line.EndLine(p)
		return
	}
	b.canvas.PointerUp(p)
}

// Clear 清空画布和历史，不可撤销
func (b *Board) Clear() {
	b.line.Finish()
	b.canvas.Clear()
	b.hist.ClearAll()
	b.banner.Show(InfoCleared)
}

// SelectColor 设置画笔颜色，处于橡皮擦循环时回到书写
func (b *Board) SelectColor(c color.RGBA) {
	attrs := b.canvas.DefaultAttributes()
	attrs.Color = c
	b.canvas.SetDefaultAttributes(attrs)

	switch b.modes.Mode() {
	case mode.EraserByStroke, mode.EraserByPoint:
		b.modes.SetEraserMode(false)
	}
}

// NextBrush 下一个笔刷尺寸，循环
func (b *Board) NextBrush() {
	b.setBrush((b.brushIndex + 1) % len(b.opts.BrushSizes))
}

// PrevBrush 上一个笔刷尺寸，循环
func (b *Board) PrevBrush() {
	b.setBrush((b.brushIndex - 1 + len(b.opts.BrushSizes)) % len(b.opts.BrushSizes))
}

// BrushSize 当前笔刷尺寸
func (b *Board) BrushSize() float64 {
	return b.opts.BrushSizes[b.brushIndex]
}

func (b *Board) setBrush(i int) {
	b.brushIndex = i
	b.modes.SetBrushSize(b.opts.BrushSizes[i])
}

// IsUnsaved 画布有内容且未保存
func (b *Board) IsUnsaved() bool {
	return b.canvas.Len() > 0 && !b.hist.Saved()
}

// Save 快速保存到存储目录
func (b *Board) Save() (string, error) {
	return b.quickSave(storage.QuickSavePrefix)
}

func (b *Board) quickSave(prefix string) (string, error) {
	b.line.Finish()

	strokes := b.canvas.Strokes()
	if len(strokes) == 0 {
		b.banner.Show(InfoNothingToSave)
		return "", storage.ErrNothingToSave
	}

	path, err := b.store.Save(prefix, strokes)
	if err != nil {
		b.fail(InfoSaveFailed, err)
		return "", err
	}

	b.hist.MarkSaved()
	b.banner.Show(InfoSaved)
	logging.Logger().Info("墨迹已保存", "path", path, "strokes", len(strokes))
	return path, nil
}

// Load 加载墨迹文件。有未保存内容时按 choice 处理；
// 读取失败时画布和历史保持不变
func (b *Board) Load(path string, choice SaveChoice) error {
	if b.IsUnsaved() {
		switch choice {
		case SaveCancel:
			return ErrCanceled
		case SaveYes:
			if _, err := b.Save(); err != nil {
				return fmt.Errorf("save before load: %w", err)
			}
		}
	}

	strokes, err := b.store.Load(path)
	if err != nil {
		b.fail(InfoLoadFailed, err)
		return err
	}

	b.line.Finish()
	release := b.hist.Suppress()
	defer release()

	b.canvas.Replace(strokes)
	b.hist.ClearAll()
	b.hist.MarkSaved()
	b.banner.Show(InfoLoaded)
	logging.Logger().Info("墨迹已加载", "path", path, "strokes", len(strokes))
	return nil
}

// LoadLatest 加载存储目录中最新的墨迹文件
func (b *Board) LoadLatest(choice SaveChoice) error {
	path, err := b.store.Latest()
	if err != nil {
		b.fail(InfoLoadFailed, err)
		return err
	}
	return b.Load(path, choice)
}

// Exit 退出前调用，未保存时自动保存
func (b *Board) Exit() error {
	b.line.Finish()
	if !b.opts.AutoSaveOnExit || !b.IsUnsaved() {
		return nil
	}
	_, err := b.quickSave(storage.ExitAutoSavePrefix)
	return err
}

func (b *Board) fail(info string, err error) {
	logging.Logger().Error(info, "error", err)
	b.banner.Show(info)
	if b.opts.ShowNotification && b.notifier != nil {
		if nerr := b.notifier.Show("LiveDraw", info+": "+err.Error()); nerr != nil {
			logging.Logger().Warn("通知失败", "error", nerr)
		}
	}
}
