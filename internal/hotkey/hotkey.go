package hotkey

import (
	"fmt"
	"strings"
	"sync"

	"golang.design/x/hotkey"
	"golang.design/x/hotkey/mainthread"

	"livedraw/internal/command"
	"livedraw/internal/logging"
)

// Binding 命令与按键组合
type Binding struct {
	Command   command.Command
	Modifiers []string
	Key       string
}

func (b Binding) String() string {
	return strings.Join(append(append([]string{}, b.Modifiers...), b.Key), "+")
}

type entry struct {
	binding    Binding
	hk         *hotkey.Hotkey
	registered bool
	stop       chan struct{}
}

// Manager 热键管理器。总开关始终注册；其余热键只在启用绘制时注册，
// 锁定时不占用这些按键
type Manager struct {
	mu        sync.Mutex
	sink      func(command.Command)
	master    *entry
	secondary []*entry
	active    bool
}

// NewManager 创建热键管理器，按下热键时调用 sink（在监听 goroutine 中）
func NewManager(sink func(command.Command)) *Manager {
	return &Manager{sink: sink}
}

// parseKey 解析主键
func parseKey(key string) (hotkey.Key, error) {
	key = strings.ToUpper(strings.TrimSpace(key))
	if k, ok := keyTable[key]; ok {
		return k, nil
	}
	return 0, fmt.Errorf("unsupported key %q", key)
}

// parseModifiers 解析修饰键
func parseModifiers(mods []string) ([]hotkey.Modifier, error) {
	var result []hotkey.Modifier
	for _, mod := range mods {
		m, ok := modifierTable[strings.ToLower(strings.TrimSpace(mod))]
		if !ok {
			return nil, fmt.Errorf("unsupported modifier %q", mod)
		}
		result = append(result, m)
	}
	return result, nil
}

// ParseBinding 解析 "ctrl+alt+s" 形式的快捷键
func ParseBinding(cmd command.Command, s string) (Binding, error) {
	var parts []string
	for _, p := range strings.Split(strings.ToLower(s), "+") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return Binding{}, fmt.Errorf("invalid binding %q", s)
	}

	b := Binding{Command: cmd, Modifiers: parts[:len(parts)-1], Key: parts[len(parts)-1]}
	if err := Validate(b); err != nil {
		return Binding{}, err
	}
	return b, nil
}

// Validate 检查按键能否被当前平台识别；总开关必须带修饰键
func Validate(b Binding) error {
	if _, err := parseModifiers(b.Modifiers); err != nil {
		return err
	}
	if _, err := parseKey(b.Key); err != nil {
		return err
	}
	if !b.Command.Secondary() && len(b.Modifiers) == 0 {
		return fmt.Errorf("%s needs at least one modifier", b.Command)
	}
	return nil
}

// Register 登记热键。总开关立即注册，次级热键等待 SetSecondaryActive(true)
func (m *Manager) Register(b Binding) error {
	mods, err := parseModifiers(b.Modifiers)
	if err != nil {
		return err
	}
	k, err := parseKey(b.Key)
	if err != nil {
		return err
	}

	e := &entry{binding: b, hk: hotkey.New(mods, k)}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !b.Command.Secondary() {
		if err := m.register(e); err != nil {
			return err
		}
		m.master = e
		return nil
	}

	m.secondary = append(m.secondary, e)
	if m.active {
		return m.register(e)
	}
	return nil
}

// SetSecondaryActive 注册或注销次级热键
func (m *Manager) SetSecondaryActive(v bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active == v {
		return nil
	}
	m.active = v

	var firstErr error
	for _, e := range m.secondary {
		var err error
		if v {
			err = m.register(e)
		} else {
			err = m.unregister(e)
		}
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Unregister 注销所有热键
func (m *Manager) Unregister() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var firstErr error
	for _, e := range append([]*entry{m.master}, m.secondary...) {
		if e == nil {
			continue
		}
		if err := m.unregister(e); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	m.active = false
	return firstErr
}

func (m *Manager) register(e *entry) error {
	if e.registered {
		return nil
	}
	if err := e.hk.Register(); err != nil {
		return fmt.Errorf("无法注册热键 %s: %w", e.binding, err)
	}
	e.registered = true
	e.stop = make(chan struct{})
	go m.listen(e.binding.Command, e.hk.Keydown(), e.stop)

	logging.Logger().Debug("注册热键", "command", e.binding.Command, "binding", e.binding.String())
	return nil
}

func (m *Manager) unregister(e *entry) error {
	if !e.registered {
		return nil
	}
	close(e.stop)
	e.registered = false
	if err := e.hk.Unregister(); err != nil {
		return fmt.Errorf("无法注销热键 %s: %w", e.binding, err)
	}
	return nil
}

// listen 监听按下事件直到 stop 关闭
func (m *Manager) listen(cmd command.Command, keydown <-chan hotkey.Event, stop <-chan struct{}) {
	for {
		select {
		case _, ok := <-keydown:
			if !ok {
				return
			}
			if m.sink != nil {
				m.sink(cmd)
			}
		case <-stop:
			return
		}
	}
}

// Run 在主线程中运行（某些平台需要）
func Run(fn func()) {
	mainthread.Init(fn)
}

// GetSupportedModifiers 获取支持的修饰键列表
func GetSupportedModifiers() []string {
	mods := make([]string, 0, len(modifierTable))
	for name := range modifierTable {
		mods = append(mods, name)
	}
	return mods
}
