package ink

import (
	"errors"
	"fmt"
	"image/color"
	"io"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
)

// ErrInvalidInk 数据不是 livedraw 墨迹文件
var ErrInvalidInk = errors.New("not a livedraw ink file")

const (
	inkMagic   = "LDINK"
	inkVersion = 1
)

// Codec 墨迹序列化接口
type Codec interface {
	Encode(w io.Writer, strokes []*Stroke) error
	Decode(r io.Reader) ([]*Stroke, error)
}

type inkFile struct {
	Magic   string         `cbor:"1,keyasint"`
	Version int            `cbor:"2,keyasint"`
	Strokes []strokeRecord `cbor:"3,keyasint"`
}

type strokeRecord struct {
	ID             []byte       `cbor:"1,keyasint"`
	Points         [][2]float64 `cbor:"2,keyasint"`
	Color          [4]uint8     `cbor:"3,keyasint"`
	Width          float64      `cbor:"4,keyasint"`
	Height         float64      `cbor:"5,keyasint"`
	Tip            int          `cbor:"6,keyasint"`
	IgnorePressure bool         `cbor:"7,keyasint,omitempty"`
}

// CBORCodec 基于 CBOR 的墨迹编码
type CBORCodec struct{}

// NewCodec 创建默认编码器
func NewCodec() Codec {
	return CBORCodec{}
}

// Encode 写入笔画
func (CBORCodec) Encode(w io.Writer, strokes []*Stroke) error {
	f := inkFile{
		Magic:   inkMagic,
		Version: inkVersion,
		Strokes: make([]strokeRecord, 0, len(strokes)),
	}
	for _, s := range strokes {
		rec := strokeRecord{
			ID:             s.ID[:],
			Points:         make([][2]float64, len(s.Points)),
			Color:          [4]uint8{s.Attributes.Color.R, s.Attributes.Color.G, s.Attributes.Color.B, s.Attributes.Color.A},
			Width:          s.Attributes.Width,
			Height:         s.Attributes.Height,
			Tip:            int(s.Attributes.Tip),
			IgnorePressure: s.Attributes.IgnorePressure,
		}
		for i, p := range s.Points {
			rec.Points[i] = [2]float64{p.X, p.Y}
		}
		f.Strokes = append(f.Strokes, rec)
	}

	if err := cbor.NewEncoder(w).Encode(f); err != nil {
		return fmt.Errorf("encode ink: %w", err)
	}
	return nil
}

// Decode 读取笔画
func (CBORCodec) Decode(r io.Reader) ([]*Stroke, error) {
	var f inkFile
	if err := cbor.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decode ink: %w: %w", ErrInvalidInk, err)
	}
	if f.Magic != inkMagic {
		return nil, ErrInvalidInk
	}
	if f.Version > inkVersion {
		return nil, fmt.Errorf("ink version %d: %w", f.Version, ErrInvalidInk)
	}

	strokes := make([]*Stroke, 0, len(f.Strokes))
	for _, rec := range f.Strokes {
		id, err := uuid.FromBytes(rec.ID)
		if err != nil {
			id = uuid.New()
		}
		pts := make([]Point, len(rec.Points))
		for i, p := range rec.Points {
			pts[i] = Pt(p[0], p[1])
		}
		strokes = append(strokes, &Stroke{
			ID:     id,
			Points: pts,
			Attributes: Attributes{
				Color:          color.RGBA{R: rec.Color[0], G: rec.Color[1], B: rec.Color[2], A: rec.Color[3]},
				Width:          rec.Width,
				Height:         rec.Height,
				Tip:            Tip(rec.Tip),
				IgnorePressure: rec.IgnorePressure,
			},
		})
	}
	return strokes, nil
}
