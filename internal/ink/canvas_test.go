package ink

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type change struct {
	added, removed []*Stroke
}

func recordChanges(c *Canvas) *[]change {
	var got []change
	c.OnChange(func(added, removed []*Stroke) {
		got = append(got, change{added: added, removed: removed})
	})
	return &got
}

func line(x0, y0, x1, y1 float64) *Stroke {
	return NewLine(Pt(x0, y0), Pt(x1, y1), DefaultAttributes())
}

func TestCanvasAddRemoveNotifies(t *testing.T) {
	c := NewCanvas()
	got := recordChanges(c)

	s1, s2 := line(0, 0, 10, 10), line(0, 10, 10, 0)
	c.Add(s1, s2)
	c.Add(s1) // 已存在，不再通知
	c.Remove(s1)
	c.Remove(s1) // 不存在，不再通知

	require.Equal(t, 1, c.Len())
	require.True(t, c.Contains(s2))
	require.Len(t, *got, 2)
	require.Equal(t, []*Stroke{s1, s2}, (*got)[0].added)
	require.Equal(t, []*Stroke{s1}, (*got)[1].removed)
}

func TestCanvasRemoveAllOwnStrokes(t *testing.T) {
	c := NewCanvas()
	c.Add(line(0, 0, 1, 1), line(2, 2, 3, 3), line(4, 4, 5, 5))

	c.Remove(c.Strokes()...)

	require.Zero(t, c.Len())
}

func TestCanvasIdentityNotGeometry(t *testing.T) {
	c := NewCanvas()
	a, b := line(0, 0, 5, 5), line(0, 0, 5, 5)
	c.Add(a, b)

	c.Remove(a)

	require.True(t, c.Contains(b))
	require.False(t, c.Contains(a))
}

func TestCanvasRejectsInputWhenLocked(t *testing.T) {
	c := NewCanvas()
	got := recordChanges(c)
	c.SetEditing(EditInk)

	c.PointerDown(Pt(0, 0))
	c.PointerMove(Pt(5, 5))
	c.PointerUp(Pt(10, 10))

	require.Zero(t, c.Len())
	require.Empty(t, *got)
}

func TestCanvasInkCapture(t *testing.T) {
	c := NewCanvas()
	got := recordChanges(c)
	c.SetAcceptInput(true)
	c.SetEditing(EditInk)

	c.PointerDown(Pt(0, 0))
	c.PointerMove(Pt(1, 1))
	c.PointerMove(Pt(2, 3))
	c.PointerUp(Pt(4, 4))

	require.Equal(t, 1, c.Len())
	require.Equal(t, []Point{{0, 0}, {1, 1}, {2, 3}, {4, 4}}, c.Strokes()[0].Points)
	require.Len(t, *got, 1)
}

func TestCanvasEraseByStroke(t *testing.T) {
	c := NewCanvas()
	keep, hit := line(0, 100, 100, 100), line(0, 0, 100, 0)
	c.Add(keep, hit)
	got := recordChanges(c)
	c.SetAcceptInput(true)
	c.SetEditing(EditEraseByStroke)
	c.SetEraserSize(4)

	c.PointerDown(Pt(50, 1))
	c.PointerUp(Pt(50, 1))

	require.Equal(t, []*Stroke{keep}, c.Strokes())
	require.Len(t, *got, 1)
	require.Equal(t, []*Stroke{hit}, (*got)[0].removed)
	require.Empty(t, (*got)[0].added)
}

func TestCanvasEraseByPointSplitsInOneChange(t *testing.T) {
	c := NewCanvas()
	pts := []Point{{0, 0}, {10, 0}, {20, 0}, {30, 0}, {40, 0}}
	s := NewStroke(pts, DefaultAttributes())
	c.Add(s)
	got := recordChanges(c)
	c.SetAcceptInput(true)
	c.SetEditing(EditEraseByPoint)
	c.SetEraserSize(4)

	c.PointerDown(Pt(20, 0))

	require.Len(t, *got, 1)
	require.Equal(t, []*Stroke{s}, (*got)[0].removed)
	require.Len(t, (*got)[0].added, 2)
	// 橡皮半径 2 加线宽一半 2.5
	requirePoints(t, []Point{{0, 0}, {10, 0}, {15.5, 0}}, (*got)[0].added[0].Points)
	requirePoints(t, []Point{{24.5, 0}, {30, 0}, {40, 0}}, (*got)[0].added[1].Points)
	require.Equal(t, 2, c.Len())
	require.False(t, c.Contains(s))
}

func requirePoints(t *testing.T, want, got []Point) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		require.InDelta(t, want[i].X, got[i].X, 1e-9)
		require.InDelta(t, want[i].Y, got[i].Y, 1e-9)
	}
}

func TestCanvasEraseByPointCutsLineBetweenEndpoints(t *testing.T) {
	c := NewCanvas()
	s := line(0, 0, 100, 0)
	c.Add(s)
	got := recordChanges(c)
	c.SetAcceptInput(true)
	c.SetEditing(EditEraseByPoint)
	c.SetEraserSize(4)

	c.PointerDown(Pt(50, 0))

	require.Len(t, *got, 1)
	require.Equal(t, []*Stroke{s}, (*got)[0].removed)
	require.Len(t, (*got)[0].added, 2)
	requirePoints(t, []Point{{0, 0}, {45.5, 0}}, (*got)[0].added[0].Points)
	requirePoints(t, []Point{{54.5, 0}, {100, 0}}, (*got)[0].added[1].Points)
}

func TestErasePointsAgreesWithHitTest(t *testing.T) {
	s := line(0, 0, 100, 0)
	s.Attributes.Width, s.Attributes.Height = 2, 2

	// 中心距线 3，半径 2.5 + 线宽 1 可及
	pieces, hit := ErasePoints(s, Pt(50, 3), 2.5)
	require.True(t, hit)
	require.True(t, HitTest(s, Pt(50, 3), 2.5))
	require.Len(t, pieces, 2)

	pieces, hit = ErasePoints(s, Pt(50, 10), 2.5)
	require.False(t, hit)
	require.Nil(t, pieces)

	// 擦到端点只留下一段
	pieces, hit = ErasePoints(s, Pt(0, 0), 2.5)
	require.True(t, hit)
	require.Len(t, pieces, 1)
	requirePoints(t, []Point{{3.5, 0}, {100, 0}}, pieces[0].Points)

	// 整条被覆盖
	short := line(0, 0, 1, 0)
	pieces, hit = ErasePoints(short, Pt(0.5, 0), 5)
	require.True(t, hit)
	require.Empty(t, pieces)
}

func TestHitTestUsesSegments(t *testing.T) {
	s := line(0, 0, 100, 0)
	s.Attributes.Width, s.Attributes.Height = 2, 2

	require.True(t, HitTest(s, Pt(50, 3), 2.5))
	require.False(t, HitTest(s, Pt(50, 10), 2.5))
	require.False(t, HitTest(s, Pt(110, 0), 2))
}

func TestCodecRoundTrip(t *testing.T) {
	attrs := DefaultAttributes()
	attrs.IgnorePressure = true
	in := []*Stroke{
		NewStroke([]Point{{1, 2}, {3.5, 4.25}, {5, 6}}, attrs),
		line(0, 0, 9, 9),
	}

	var buf bytes.Buffer
	codec := NewCodec()
	require.NoError(t, codec.Encode(&buf, in))

	out, err := codec.Decode(&buf)
	require.NoError(t, err)
	require.Len(t, out, 2)
	for i := range in {
		require.Equal(t, in[i].ID, out[i].ID)
		require.Equal(t, in[i].Points, out[i].Points)
		require.Equal(t, in[i].Attributes, out[i].Attributes)
		require.NotSame(t, in[i], out[i])
	}
}

func TestCodecRejectsForeignData(t *testing.T) {
	_, err := NewCodec().Decode(bytes.NewReader([]byte("definitely not ink")))
	require.True(t, errors.Is(err, ErrInvalidInk))
}

func TestParseHexColor(t *testing.T) {
	c, err := ParseHexColor("#ff8000")
	require.NoError(t, err)
	require.Equal(t, "#ff8000ff", HexColor(c))

	_, err = ParseHexColor("orange")
	require.Error(t, err)
}
