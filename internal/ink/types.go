package ink

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Tip 笔尖形状
type Tip int

const (
	TipEllipse   Tip = iota // 圆形
	TipRectangle            // 方形
)

// TipName 笔尖显示名称
var TipName = map[Tip]string{
	TipEllipse:   "ellipse",
	TipRectangle: "rectangle",
}

func (t Tip) String() string {
	if name, ok := TipName[t]; ok {
		return name
	}
	return fmt.Sprintf("Tip(%d)", int(t))
}

// Point 画布坐标
type Point struct {
	X float64
	Y float64
}

// Pt 构造坐标点
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Dist 两点距离
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Attributes 笔画绘制属性
type Attributes struct {
	Color          color.RGBA
	Width          float64
	Height         float64
	Tip            Tip
	IgnorePressure bool
}

// Clone 复制属性
func (a Attributes) Clone() Attributes {
	return a
}

// Size 笔画尺寸（取宽高较大者）
func (a Attributes) Size() float64 {
	return math.Max(a.Width, a.Height)
}

// Stroke 单条笔画。提交到历史后不再修改，按指针比较身份
type Stroke struct {
	ID         uuid.UUID
	Points     []Point
	Attributes Attributes
}

// NewStroke 创建笔画，复制点序列
func NewStroke(points []Point, attrs Attributes) *Stroke {
	pts := make([]Point, len(points))
	copy(pts, points)
	return &Stroke{
		ID:         uuid.New(),
		Points:     pts,
		Attributes: attrs,
	}
}

// NewLine 创建两点直线笔画
func NewLine(from, to Point, attrs Attributes) *Stroke {
	return NewStroke([]Point{from, to}, attrs)
}

// Bounds 笔画边界 (minX, minY, maxX, maxY)，已按线宽扩展
func (s *Stroke) Bounds() (Point, Point) {
	if len(s.Points) == 0 {
		return Point{}, Point{}
	}

	lo, hi := s.Points[0], s.Points[0]
	for _, p := range s.Points[1:] {
		lo.X = math.Min(lo.X, p.X)
		lo.Y = math.Min(lo.Y, p.Y)
		hi.X = math.Max(hi.X, p.X)
		hi.Y = math.Max(hi.Y, p.Y)
	}

	pad := s.Attributes.Size() / 2
	return Pt(lo.X-pad, lo.Y-pad), Pt(hi.X+pad, hi.Y+pad)
}

func (s *Stroke) String() string {
	return fmt.Sprintf("stroke(%s, %d pts)", s.ID.String()[:8], len(s.Points))
}

// DefaultColors 预设颜色
var DefaultColors = []color.RGBA{
	{255, 82, 82, 255},   // 红色
	{255, 193, 7, 255},   // 黄色
	{76, 175, 80, 255},   // 绿色
	{33, 150, 243, 255},  // 蓝色
	{156, 39, 176, 255},  // 紫色
	{255, 255, 255, 255}, // 白色
	{0, 0, 0, 255},       // 黑色
}

// DefaultBrushSizes 预设笔刷尺寸
var DefaultBrushSizes = []float64{3, 5, 8, 13, 20}

// DefaultBrushIndex 默认笔刷尺寸下标
const DefaultBrushIndex = 1

// DefaultAttributes 默认绘制属性
func DefaultAttributes() Attributes {
	size := DefaultBrushSizes[DefaultBrushIndex]
	return Attributes{
		Color:  DefaultColors[0],
		Width:  size,
		Height: size,
		Tip:    TipEllipse,
	}
}

// ParseHexColor 解析 #RRGGBB 或 #RRGGBBAA
func ParseHexColor(s string) (color.RGBA, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 && len(s) != 8 {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}
	if len(s) == 6 {
		s += "ff"
	}

	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// HexColor 颜色转 #RRGGBBAA
func HexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}
