package board

import (
	"errors"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"livedraw/internal/command"
	"livedraw/internal/ink"
	"livedraw/internal/mode"
	"livedraw/internal/notify"
	"livedraw/internal/storage"
)

type fakeNotifier struct {
	messages []string
}

func (n *fakeNotifier) Show(title, message string) error {
	n.messages = append(n.messages, message)
	return nil
}

type fixture struct {
	board    *Board
	banner   *notify.Banner
	notifier *fakeNotifier
	dir      string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	store := storage.NewStorage(dir, nil)
	store.SetClock(func() time.Time { return time.Date(2024, 3, 9, 14, 5, 7, 0, time.Local) })

	// 定时器不触发，临时提示保持可见
	banner := notify.NewBanner(nil, notify.WithScheduler(func(time.Duration, func()) {}))
	n := &fakeNotifier{}
	b := New(ink.NewCanvas(), store, banner, n, DefaultOptions())
	return &fixture{board: b, banner: banner, notifier: n, dir: dir}
}

func draw(b *Board, from, to ink.Point) {
	b.PointerDown(from)
	b.PointerMove(ink.Pt((from.X+to.X)/2, (from.Y+to.Y)/2))
	b.PointerUp(to)
}

func TestStartsLocked(t *testing.T) {
	f := newFixture(t)
	b := f.board

	require.Equal(t, mode.Disabled, b.Mode())
	require.False(t, b.Enabled())
	require.Equal(t, mode.InfoLocked, f.banner.Text())

	draw(b, ink.Pt(0, 0), ink.Pt(50, 50))
	require.Zero(t, b.Canvas().Len())
	require.False(t, b.History().CanUndo())
}

func TestDrawUndoRedo(t *testing.T) {
	f := newFixture(t)
	b := f.board

	b.Invoke(command.ToggleEnabled)
	require.Equal(t, mode.Ink, b.Mode())
	require.Equal(t, mode.InfoEnabled, f.banner.Text())

	draw(b, ink.Pt(0, 0), ink.Pt(50, 50))
	require.Equal(t, 1, b.Canvas().Len())
	require.True(t, b.IsUnsaved())

	stroke := b.Canvas().Strokes()[0]
	require.Equal(t, ink.DefaultBrushSizes[ink.DefaultBrushIndex], stroke.Attributes.Size())

	b.Invoke(command.Undo)
	require.Zero(t, b.Canvas().Len())
	b.Invoke(command.Redo)
	require.Equal(t, []*ink.Stroke{stroke}, b.Canvas().Strokes())
}

func TestEraseByStrokeIsUndoable(t *testing.T) {
	f := newFixture(t)
	b := f.board

	b.Invoke(command.ToggleEnabled)
	draw(b, ink.Pt(0, 0), ink.Pt(100, 0))
	stroke := b.Canvas().Strokes()[0]

	b.Invoke(command.ToggleEraserCycle)
	require.Equal(t, mode.EraserByStroke, b.Mode())
	b.PointerDown(ink.Pt(50, 0))
	b.PointerUp(ink.Pt(50, 0))
	require.Zero(t, b.Canvas().Len())

	b.Invoke(command.Undo)
	require.Equal(t, []*ink.Stroke{stroke}, b.Canvas().Strokes())
}

func TestLineGesture(t *testing.T) {
	f := newFixture(t)
	b := f.board

	b.Invoke(command.ToggleEnabled)
	b.Invoke(command.ToggleLineMode)
	require.Equal(t, mode.Line, b.Mode())
	require.Equal(t, mode.InfoLine, f.banner.Text())

	b.PointerDown(ink.Pt(0, 0))
	b.PointerMove(ink.Pt(10, 10))
	b.PointerMove(ink.Pt(20, 5))
	b.PointerUp(ink.Pt(30, 0))

	require.Equal(t, 1, b.Canvas().Len())
	line := b.Canvas().Strokes()[0]
	require.Equal(t, []ink.Point{ink.Pt(0, 0), ink.Pt(30, 0)}, line.Points)

	undo, redo := b.History().Depth()
	require.Equal(t, 1, undo)
	require.Zero(t, redo)

	b.Invoke(command.Undo)
	require.Zero(t, b.Canvas().Len())

	b.Invoke(command.ToggleLineMode)
	require.Equal(t, mode.Ink, b.Mode())
}

func TestLeavingLineModeFinishesGesture(t *testing.T) {
	f := newFixture(t)
	b := f.board

	b.Invoke(command.ToggleEnabled)
	b.Invoke(command.ToggleLineMode)
	b.PointerDown(ink.Pt(0, 0))
	b.PointerMove(ink.Pt(40, 40))

	b.Invoke(command.Ink)
	require.Equal(t, mode.Ink, b.Mode())
	require.False(t, b.History().Suppressed())
	require.Equal(t, 1, b.Canvas().Len())

	draw(b, ink.Pt(100, 100), ink.Pt(120, 120))
	undo, _ := b.History().Depth()
	require.Equal(t, 2, undo)
}

func TestClear(t *testing.T) {
	f := newFixture(t)
	b := f.board

	b.Invoke(command.ToggleEnabled)
	draw(b, ink.Pt(0, 0), ink.Pt(50, 50))
	draw(b, ink.Pt(0, 50), ink.Pt(50, 0))

	b.Invoke(command.Clear)
	require.Zero(t, b.Canvas().Len())
	require.False(t, b.History().CanUndo())
	require.False(t, b.History().CanRedo())
	require.Equal(t, InfoCleared, f.banner.Text())
	require.False(t, b.IsUnsaved())
}

func TestSaveEmptyCanvas(t *testing.T) {
	f := newFixture(t)

	_, err := f.board.Save()
	require.ErrorIs(t, err, storage.ErrNothingToSave)
	require.Equal(t, InfoNothingToSave, f.banner.Text())
	require.Empty(t, f.notifier.messages)
}

func TestSaveThenLoad(t *testing.T) {
	f := newFixture(t)
	b := f.board

	b.Invoke(command.ToggleEnabled)
	draw(b, ink.Pt(0, 0), ink.Pt(50, 50))

	path, err := b.Save()
	require.NoError(t, err)
	require.Equal(t, "QuickSave_20240309-140507.fdw", filepath.Base(path))
	require.Equal(t, InfoSaved, f.banner.Text())
	require.False(t, b.IsUnsaved())

	b.Invoke(command.Clear)
	require.NoError(t, b.Load(path, SaveNo))

	require.Equal(t, 1, b.Canvas().Len())
	require.Equal(t, InfoLoaded, f.banner.Text())
	require.False(t, b.History().CanUndo())
	require.False(t, b.History().Suppressed())
	require.False(t, b.IsUnsaved())
}

func TestLoadCancelKeepsCanvas(t *testing.T) {
	f := newFixture(t)
	b := f.board

	b.Invoke(command.ToggleEnabled)
	draw(b, ink.Pt(0, 0), ink.Pt(50, 50))
	path, err := b.Save()
	require.NoError(t, err)

	draw(b, ink.Pt(0, 50), ink.Pt(50, 0))
	require.True(t, b.IsUnsaved())

	err = b.Load(path, SaveCancel)
	require.ErrorIs(t, err, ErrCanceled)
	require.Equal(t, 2, b.Canvas().Len())
}

func TestLoadYesSavesFirst(t *testing.T) {
	f := newFixture(t)
	b := f.board

	b.Invoke(command.ToggleEnabled)
	draw(b, ink.Pt(0, 0), ink.Pt(50, 50))
	path, err := b.Save()
	require.NoError(t, err)
	draw(b, ink.Pt(0, 50), ink.Pt(50, 0))

	b.Storage().SetClock(func() time.Time { return time.Date(2024, 3, 9, 14, 6, 0, 0, time.Local) })
	require.NoError(t, b.Load(path, SaveYes))
	require.Equal(t, 1, b.Canvas().Len())

	second := filepath.Join(f.dir, "QuickSave_20240309-140600.fdw")
	require.FileExists(t, second)
	strokes, err := b.Storage().Load(second)
	require.NoError(t, err)
	require.Len(t, strokes, 2)
}

func TestLoadFailureLeavesState(t *testing.T) {
	f := newFixture(t)
	b := f.board

	b.Invoke(command.ToggleEnabled)
	draw(b, ink.Pt(0, 0), ink.Pt(50, 50))
	before := b.Canvas().Strokes()

	bad := filepath.Join(f.dir, "bad.fdw")
	require.NoError(t, os.WriteFile(bad, []byte("not ink"), 0644))

	err := b.Load(bad, SaveNo)
	require.Error(t, err)
	require.True(t, errors.Is(err, ink.ErrInvalidInk))
	require.Equal(t, before, b.Canvas().Strokes())
	require.True(t, b.History().CanUndo())
	require.True(t, b.IsUnsaved())
	require.Equal(t, InfoLoadFailed, f.banner.Text())
	require.Len(t, f.notifier.messages, 1)
	require.True(t, strings.HasPrefix(f.notifier.messages[0], InfoLoadFailed))
}

func TestLoadLatestWithoutFiles(t *testing.T) {
	f := newFixture(t)

	err := f.board.LoadLatest(SaveNo)
	require.ErrorIs(t, err, os.ErrNotExist)
	require.Equal(t, InfoLoadFailed, f.banner.Text())
}

func TestExitAutoSave(t *testing.T) {
	f := newFixture(t)
	b := f.board

	require.NoError(t, b.Exit())
	entries, err := os.ReadDir(f.dir)
	require.NoError(t, err)
	require.Empty(t, entries)

	b.Invoke(command.ToggleEnabled)
	draw(b, ink.Pt(0, 0), ink.Pt(50, 50))
	require.NoError(t, b.Exit())
	require.FileExists(t, filepath.Join(f.dir, "ExitingAutoSave_20240309-140507.fdw"))
	require.False(t, b.IsUnsaved())
}

func TestSelectColorLeavesEraser(t *testing.T) {
	f := newFixture(t)
	b := f.board
	red := color.RGBA{R: 255, A: 255}

	b.Invoke(command.ToggleEnabled)
	b.Invoke(command.ToggleEraserCycle)
	b.Invoke(command.ToggleEraserCycle)
	require.Equal(t, mode.EraserByPoint, b.Mode())

	b.SelectColor(red)
	require.Equal(t, mode.Ink, b.Mode())
	require.Equal(t, mode.EraseNone, b.modes.EraseCycle())
	require.Equal(t, red, b.Canvas().DefaultAttributes().Color)
}

func TestBrushCycle(t *testing.T) {
	f := newFixture(t)
	b := f.board
	sizes := ink.DefaultBrushSizes

	require.Equal(t, sizes[1], b.BrushSize())
	b.PrevBrush()
	b.PrevBrush()
	require.Equal(t, sizes[len(sizes)-1], b.BrushSize())
	require.Equal(t, sizes[len(sizes)-1], b.Canvas().BrushSize())

	b.NextBrush()
	require.Equal(t, sizes[0], b.BrushSize())
}

func TestBrushResizesPointEraser(t *testing.T) {
	f := newFixture(t)
	b := f.board

	b.Invoke(command.ToggleEnabled)
	b.Invoke(command.ToggleEraserCycle)
	b.Invoke(command.ToggleEraserCycle)
	require.Equal(t, b.BrushSize(), b.Canvas().EraserSize())

	brush := b.Canvas().BrushSize()
	b.NextBrush()
	require.Equal(t, b.BrushSize(), b.Canvas().EraserSize())
	require.Equal(t, brush, b.Canvas().BrushSize())
}

func TestBrushCommands(t *testing.T) {
	f := newFixture(t)
	b := f.board
	sizes := ink.DefaultBrushSizes

	b.Invoke(command.ToggleEnabled)
	b.Invoke(command.BrushUp)
	require.Equal(t, sizes[2], b.BrushSize())
	b.Invoke(command.BrushDown)
	b.Invoke(command.BrushDown)
	require.Equal(t, sizes[0], b.BrushSize())

	draw(b, ink.Pt(0, 0), ink.Pt(50, 50))
	require.Equal(t, sizes[0], b.Canvas().Strokes()[0].Attributes.Size())
}

func TestPointEraserCutsStraightLine(t *testing.T) {
	f := newFixture(t)
	b := f.board

	b.Invoke(command.ToggleEnabled)
	b.Invoke(command.ToggleLineMode)
	b.PointerDown(ink.Pt(0, 0))
	b.PointerMove(ink.Pt(100, 0))
	b.PointerUp(ink.Pt(100, 0))
	line := b.Canvas().Strokes()[0]

	b.Invoke(command.ToggleEraserCycle)
	b.Invoke(command.ToggleEraserCycle)
	require.Equal(t, mode.EraserByPoint, b.Mode())

	b.PointerDown(ink.Pt(50, -20))
	b.PointerMove(ink.Pt(50, 0))
	b.PointerUp(ink.Pt(50, 20))

	strokes := b.Canvas().Strokes()
	require.Len(t, strokes, 2)
	require.False(t, b.Canvas().Contains(line))
	for _, s := range strokes {
		for _, p := range s.Points {
			require.Greater(t, math.Abs(p.X-50), 1.0)
		}
	}

	// 拆分记为 Added 与 Removed 两条历史
	b.Invoke(command.Undo)
	b.Invoke(command.Undo)
	require.Equal(t, []*ink.Stroke{line}, b.Canvas().Strokes())
}
