package hotkey

import "golang.design/x/hotkey"

// keyTable 支持的主键：a-z, 0-9, f1-f12 和少量功能键
var keyTable = map[string]hotkey.Key{
	"A": hotkey.KeyA, "B": hotkey.KeyB, "C": hotkey.KeyC, "D": hotkey.KeyD,
	"E": hotkey.KeyE, "F": hotkey.KeyF, "G": hotkey.KeyG, "H": hotkey.KeyH,
	"I": hotkey.KeyI, "J": hotkey.KeyJ, "K": hotkey.KeyK, "L": hotkey.KeyL,
	"M": hotkey.KeyM, "N": hotkey.KeyN, "O": hotkey.KeyO, "P": hotkey.KeyP,
	"Q": hotkey.KeyQ, "R": hotkey.KeyR, "S": hotkey.KeyS, "T": hotkey.KeyT,
	"U": hotkey.KeyU, "V": hotkey.KeyV, "W": hotkey.KeyW, "X": hotkey.KeyX,
	"Y": hotkey.KeyY, "Z": hotkey.KeyZ,

	"0": hotkey.Key0, "1": hotkey.Key1, "2": hotkey.Key2, "3": hotkey.Key3,
	"4": hotkey.Key4, "5": hotkey.Key5, "6": hotkey.Key6, "7": hotkey.Key7,
	"8": hotkey.Key8, "9": hotkey.Key9,

	"F1": hotkey.KeyF1, "F2": hotkey.KeyF2, "F3": hotkey.KeyF3, "F4": hotkey.KeyF4,
	"F5": hotkey.KeyF5, "F6": hotkey.KeyF6, "F7": hotkey.KeyF7, "F8": hotkey.KeyF8,
	"F9": hotkey.KeyF9, "F10": hotkey.KeyF10, "F11": hotkey.KeyF11, "F12": hotkey.KeyF12,

	"SPACE":  hotkey.KeySpace,
	"RETURN": hotkey.KeyReturn,
	"ENTER":  hotkey.KeyReturn,
	"ESCAPE": hotkey.KeyEscape,
	"ESC":    hotkey.KeyEscape,
	"TAB":    hotkey.KeyTab,
	"DELETE": hotkey.KeyDelete,
	"DEL":    hotkey.KeyDelete,
	"UP":     hotkey.KeyUp,
	"DOWN":   hotkey.KeyDown,
	"LEFT":   hotkey.KeyLeft,
	"RIGHT":  hotkey.KeyRight,
}
