//go:build linux

package hotkey

import "golang.design/x/hotkey"

// X11: Mod1 通常是 Alt，Mod4 通常是 Super
var modifierTable = map[string]hotkey.Modifier{
	"ctrl":    hotkey.ModCtrl,
	"control": hotkey.ModCtrl,
	"alt":     hotkey.Mod1,
	"option":  hotkey.Mod1,
	"shift":   hotkey.ModShift,
	"win":     hotkey.Mod4,
	"cmd":     hotkey.Mod4,
	"command": hotkey.Mod4,
	"super":   hotkey.Mod4,
}
