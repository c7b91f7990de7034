//go:build darwin

package hotkey

import "golang.design/x/hotkey"

var modifierTable = map[string]hotkey.Modifier{
	"ctrl":    hotkey.ModCtrl,
	"control": hotkey.ModCtrl,
	"alt":     hotkey.ModOption,
	"option":  hotkey.ModOption,
	"shift":   hotkey.ModShift,
	"win":     hotkey.ModCmd,
	"cmd":     hotkey.ModCmd,
	"command": hotkey.ModCmd,
	"super":   hotkey.ModCmd,
}
