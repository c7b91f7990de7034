package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"

	"livedraw/internal/command"
	"livedraw/internal/ink"
	"livedraw/internal/storage"
)

// Hotkey 快捷键配置
type Hotkey struct {
	Modifiers []string `mapstructure:"modifiers"` // ctrl, alt, shift, win(windows)/cmd(mac)，可为空
	Key       string   `mapstructure:"key"`       // 主键，如 z, r, f1
}

// Storage 存储配置
type Storage struct {
	Directory string `mapstructure:"directory"` // 保存目录
	KeepDays  int    `mapstructure:"keep_days"` // 启动时清理早于该天数的墨迹文件，0 为不清理
}

// Brush 笔刷配置
type Brush struct {
	Sizes []float64 `mapstructure:"sizes"` // 笔刷尺寸循环
	Index int       `mapstructure:"index"` // 初始尺寸下标
	Color string    `mapstructure:"color"` // 初始颜色 #RRGGBB
}

// Behavior 行为配置
type Behavior struct {
	ShowNotification bool `mapstructure:"show_notification"` // 保存/加载失败时弹出系统通知
	AutoSaveOnExit   bool `mapstructure:"auto_save_on_exit"` // 退出时自动保存未保存的内容
	InfoDelayMs      int  `mapstructure:"info_delay_ms"`     // 临时提示显示时长
	HistoryLimit     int  `mapstructure:"history_limit"`     // 撤销深度，0 为不限
}

// Config 主配置结构
type Config struct {
	Hotkeys  map[string]Hotkey `mapstructure:"hotkeys"`
	Storage  Storage           `mapstructure:"storage"`
	Brush    Brush             `mapstructure:"brush"`
	Behavior Behavior          `mapstructure:"behavior"`
}

// DefaultHotkeys 默认快捷键：总开关 Alt+Shift+R，其余为单键
func DefaultHotkeys() map[string]Hotkey {
	return map[string]Hotkey{
		command.ToggleEnabled.String():     {Modifiers: []string{"alt", "shift"}, Key: "r"},
		command.Undo.String():              {Key: "z"},
		command.Redo.String():              {Key: "y"},
		command.Clear.String():             {Key: "c"},
		command.Ink.String():               {Key: "b"},
		command.ToggleEraserCycle.String(): {Key: "e"},
		command.ToggleLineMode.String():    {Key: "l"},
		command.BrushUp.String():           {Key: "up"},
		command.BrushDown.String():         {Key: "down"},
	}
}

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	// 获取 exe 所在目录
	exePath, _ := os.Executable()
	exeDir := filepath.Dir(exePath)

	return &Config{
		Hotkeys: DefaultHotkeys(),
		Storage: Storage{
			Directory: filepath.Join(exeDir, storage.DefaultDirectoryName),
			KeepDays:  0,
		},
		Brush: Brush{
			Sizes: append([]float64(nil), ink.DefaultBrushSizes...),
			Index: ink.DefaultBrushIndex,
			Color: ink.HexColor(ink.DefaultColors[0])[:7],
		},
		Behavior: Behavior{
			ShowNotification: true,
			AutoSaveOnExit:   true,
			InfoDelayMs:      2000,
			HistoryLimit:     0,
		},
	}
}

// GetConfigPath 获取配置文件路径，LIVEDRAW_CONFIG 优先
func GetConfigPath() string {
	if p := os.Getenv("LIVEDRAW_CONFIG"); p != "" {
		return p
	}

	var configDir string
	if runtime.GOOS == "windows" {
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			homeDir, _ := os.UserHomeDir()
			configDir = filepath.Join(homeDir, "AppData", "Roaming")
		}
	} else {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}

	return filepath.Join(configDir, "livedraw", "config.json")
}

func setDefaults(v *viper.Viper, cfg *Config) {
	for name, hk := range cfg.Hotkeys {
		v.SetDefault("hotkeys."+name+".modifiers", hk.Modifiers)
		v.SetDefault("hotkeys."+name+".key", hk.Key)
	}
	v.SetDefault("storage.directory", cfg.Storage.Directory)
	v.SetDefault("storage.keep_days", cfg.Storage.KeepDays)
	v.SetDefault("brush.sizes", cfg.Brush.Sizes)
	v.SetDefault("brush.index", cfg.Brush.Index)
	v.SetDefault("brush.color", cfg.Brush.Color)
	v.SetDefault("behavior.show_notification", cfg.Behavior.ShowNotification)
	v.SetDefault("behavior.auto_save_on_exit", cfg.Behavior.AutoSaveOnExit)
	v.SetDefault("behavior.info_delay_ms", cfg.Behavior.InfoDelayMs)
	v.SetDefault("behavior.history_limit", cfg.Behavior.HistoryLimit)
}

// Load 加载配置。文件不存在时写入默认配置；环境变量前缀 LIVEDRAW_
func Load() (*Config, error) {
	configPath := GetConfigPath()

	v := viper.New()
	setDefaults(v, DefaultConfig())
	v.SetConfigFile(configPath)
	v.SetConfigType("json")
	v.SetEnvPrefix("LIVEDRAW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return DefaultConfig(), fmt.Errorf("read config: %w", err)
		}
		// 保存默认配置
		_ = DefaultConfig().Save()
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("unmarshal config: %w", err)
	}

	// 验证并修正配置
	cfg.Validate()

	return &cfg, nil
}

// Validate 验证并修正配置值
func (c *Config) Validate() {
	defaults := DefaultConfig()

	// 防止路径遍历
	if c.Storage.Directory == "" || strings.Contains(c.Storage.Directory, "..") {
		c.Storage.Directory = defaults.Storage.Directory
	}
	if c.Storage.KeepDays < 0 {
		c.Storage.KeepDays = 0
	}

	sizes := c.Brush.Sizes[:0:0]
	for _, s := range c.Brush.Sizes {
		if s > 0 {
			sizes = append(sizes, s)
		}
	}
	if len(sizes) == 0 {
		sizes = defaults.Brush.Sizes
	}
	c.Brush.Sizes = sizes
	if c.Brush.Index < 0 || c.Brush.Index >= len(c.Brush.Sizes) {
		c.Brush.Index = 0
		if len(c.Brush.Sizes) > ink.DefaultBrushIndex {
			c.Brush.Index = ink.DefaultBrushIndex
		}
	}
	if _, err := ink.ParseHexColor(c.Brush.Color); err != nil {
		c.Brush.Color = defaults.Brush.Color
	}

	if c.Behavior.InfoDelayMs <= 0 {
		c.Behavior.InfoDelayMs = defaults.Behavior.InfoDelayMs
	}
	if c.Behavior.HistoryLimit < 0 {
		c.Behavior.HistoryLimit = 0
	}

	c.validateHotkeys(defaults.Hotkeys)
}

// validateHotkeys 丢弃未知命令和非法修饰键；总开关必须带修饰键
func (c *Config) validateHotkeys(defaults map[string]Hotkey) {
	validMods := map[string]bool{"ctrl": true, "alt": true, "shift": true, "win": true, "cmd": true, "control": true, "option": true, "super": true, "command": true}

	hotkeys := make(map[string]Hotkey, len(defaults))
	for name, hk := range c.Hotkeys {
		cmd, err := command.Parse(name)
		if err != nil || strings.TrimSpace(hk.Key) == "" {
			continue
		}

		mods := []string{}
		valid := true
		for _, mod := range hk.Modifiers {
			mod = strings.ToLower(strings.TrimSpace(mod))
			if !validMods[mod] {
				valid = false
				break
			}
			mods = append(mods, mod)
		}
		if !valid || (cmd == command.ToggleEnabled && len(mods) == 0) {
			continue
		}
		hotkeys[cmd.String()] = Hotkey{Modifiers: mods, Key: strings.ToLower(strings.TrimSpace(hk.Key))}
	}

	for name, hk := range defaults {
		if _, ok := hotkeys[name]; !ok {
			hotkeys[name] = hk
		}
	}
	c.Hotkeys = hotkeys
}

// Save 保存配置
func (c *Config) Save() error {
	configPath := GetConfigPath()

	// 确保目录存在
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("json")
	for name, hk := range c.Hotkeys {
		v.Set("hotkeys."+name+".modifiers", hk.Modifiers)
		v.Set("hotkeys."+name+".key", hk.Key)
	}
	v.Set("storage.directory", c.Storage.Directory)
	v.Set("storage.keep_days", c.Storage.KeepDays)
	v.Set("brush.sizes", c.Brush.Sizes)
	v.Set("brush.index", c.Brush.Index)
	v.Set("brush.color", c.Brush.Color)
	v.Set("behavior.show_notification", c.Behavior.ShowNotification)
	v.Set("behavior.auto_save_on_exit", c.Behavior.AutoSaveOnExit)
	v.Set("behavior.info_delay_ms", c.Behavior.InfoDelayMs)
	v.Set("behavior.history_limit", c.Behavior.HistoryLimit)

	if err := v.WriteConfigAs(configPath); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// SetHotkey 设置某个命令的快捷键并保存
func (c *Config) SetHotkey(cmd command.Command, modifiers []string, key string) error {
	if c.Hotkeys == nil {
		c.Hotkeys = DefaultHotkeys()
	}
	c.Hotkeys[cmd.String()] = Hotkey{Modifiers: modifiers, Key: key}
	return c.Save()
}

// String 快捷键的字符串表示，如 alt+shift+r
func (h Hotkey) String() string {
	parts := append(append([]string{}, h.Modifiers...), h.Key)
	return strings.Join(parts, "+")
}

// GetHotkeyString 获取某个命令快捷键的字符串表示
func (c *Config) GetHotkeyString(cmd command.Command) string {
	hk, ok := c.Hotkeys[cmd.String()]
	if !ok {
		return ""
	}
	return hk.String()
}

// EnsureStorageDir 确保存储目录存在
func (c *Config) EnsureStorageDir() error {
	c.Storage.Directory = storage.ExpandHome(c.Storage.Directory)
	return os.MkdirAll(c.Storage.Directory, 0755)
}
