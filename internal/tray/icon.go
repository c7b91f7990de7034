package tray

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"math"
	"runtime"
)

const iconSize = 32

var (
	activeTint = color.RGBA{R: 0xff, G: 0x52, B: 0x52, A: 0xff}
	lockedTint = color.RGBA{R: 0x90, G: 0x90, B: 0x90, A: 0xff}
)

// drawIcon 画一支斜放的笔和一道笔迹
func drawIcon(tint color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, iconSize, iconSize))

	// 笔迹：左下角的一段正弦曲线
	for x := 2; x < 18; x++ {
		y := 26 + int(math.Round(2*math.Sin(float64(x)/2.5)))
		for dy := -1; dy <= 1; dy++ {
			img.SetRGBA(x, y+dy, tint)
		}
	}

	// 笔杆：从右上到笔尖的粗线
	body := color.RGBA{R: 0x30, G: 0x30, B: 0x30, A: 0xff}
	for i := 0; i < 20; i++ {
		cx, cy := 27-i, 4+i
		for d := -2; d <= 2; d++ {
			c := body
			if i < 4 {
				c = tint
			}
			img.SetRGBA(cx+d, cy, c)
		}
	}
	// 笔尖
	for i := 0; i < 4; i++ {
		for d := -1 + i/2; d <= 1-i/2; d++ {
			img.SetRGBA(7-i+d, 24+i, tint)
		}
	}
	return img
}

// encodeIcon Windows 托盘需要 ICO，其它平台直接使用 PNG
func encodeIcon(img image.Image) []byte {
	var pngBuf bytes.Buffer
	if err := png.Encode(&pngBuf, img); err != nil {
		return nil
	}
	if runtime.GOOS != "windows" {
		return pngBuf.Bytes()
	}
	return wrapICO(pngBuf.Bytes(), img.Bounds().Dx(), img.Bounds().Dy())
}

// wrapICO 以 PNG 作为图像数据的单图 ICO（Vista 及以上支持）
func wrapICO(pngData []byte, width, height int) []byte {
	var buf bytes.Buffer
	le := binary.LittleEndian

	// ICONDIR
	binary.Write(&buf, le, uint16(0)) // reserved
	binary.Write(&buf, le, uint16(1)) // type: icon
	binary.Write(&buf, le, uint16(1)) // count

	// ICONDIRENTRY，256 像素记为 0
	buf.WriteByte(byte(width % 256))
	buf.WriteByte(byte(height % 256))
	buf.WriteByte(0)                   // palette
	buf.WriteByte(0)                   // reserved
	binary.Write(&buf, le, uint16(1))  // planes
	binary.Write(&buf, le, uint16(32)) // bpp
	binary.Write(&buf, le, uint32(len(pngData)))
	binary.Write(&buf, le, uint32(6+16))

	buf.Write(pngData)
	return buf.Bytes()
}

var iconCache = map[bool][]byte{}

// getIcon 启用时为红色，锁定时为灰色
func getIcon(enabled bool) []byte {
	if data, ok := iconCache[enabled]; ok {
		return data
	}
	tint := lockedTint
	if enabled {
		tint = activeTint
	}
	data := encodeIcon(drawIcon(tint))
	iconCache[enabled] = data
	return data
}
