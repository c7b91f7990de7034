package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"livedraw/internal/command"
	"livedraw/internal/config"
)

func TestUpdateHotkeyWritesConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	t.Setenv("LIVEDRAW_CONFIG", path)

	require.NoError(t, updateHotkey("undo=ctrl+z"))
	require.NoError(t, updateHotkey("ctrl+alt+d"))

	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, "ctrl+z", cfg.GetHotkeyString(command.Undo))
	require.Equal(t, "ctrl+alt+d", cfg.GetHotkeyString(command.ToggleEnabled))
}

func TestUpdateHotkeyKeepsMalformedConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	t.Setenv("LIVEDRAW_CONFIG", path)
	raw := []byte(`{"brush": {"color": "#00ff00",`)
	require.NoError(t, os.WriteFile(path, raw, 0644))

	require.Error(t, updateHotkey("undo=ctrl+z"))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, raw, got)
}

func TestUpdateHotkeyRejectsBadInput(t *testing.T) {
	t.Setenv("LIVEDRAW_CONFIG", filepath.Join(t.TempDir(), "config.json"))

	require.Error(t, updateHotkey("paint=ctrl+p"))
	require.Error(t, updateHotkey("toggle=r"))
}
