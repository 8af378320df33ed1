package autostart

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"codeberg.org/mutker/dpmsctl/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) *DesktopManager {
	t.Helper()
	m, err := NewDesktopManager(filepath.Join(t.TempDir(), "autostart"))
	require.NoError(t, err)
	return m
}

func TestDesktopEnable(t *testing.T) {
	m := newTestManager(t)

	require.NoError(t, m.Enable("dpmsctl", "/opt/dpms ctl/dpmsctl"))
	assert.True(t, m.IsEnabled("dpmsctl"))

	data, err := os.ReadFile(filepath.Join(m.Dir, "dpmsctl.desktop"))
	require.NoError(t, err)

	content := string(data)
	assert.Contains(t, content, "[Desktop Entry]")
	assert.Contains(t, content, "Type=Application")
	assert.Contains(t, content, "Name=dpmsctl")
	assert.Contains(t, content, `Exec="/opt/dpms ctl/dpmsctl" --autostart`)
	assert.Contains(t, content, "X-GNOME-Autostart-enabled=true")
}

func TestDesktopEnableOverwrites(t *testing.T) {
	m := newTestManager(t)

	require.NoError(t, m.Enable("dpmsctl", "/usr/bin/old"))
	require.NoError(t, m.Enable("dpmsctl", "/usr/bin/new"))

	data, err := os.ReadFile(filepath.Join(m.Dir, "dpmsctl.desktop"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `Exec="/usr/bin/new" --autostart`)
	assert.NotContains(t, string(data), "old")
}

func TestDesktopDisable(t *testing.T) {
	m := newTestManager(t)

	require.NoError(t, m.Enable("dpmsctl", "/usr/bin/dpmsctl"))
	require.NoError(t, m.Disable("dpmsctl"))
	assert.False(t, m.IsEnabled("dpmsctl"))

	// Already absent.
	require.NoError(t, m.Disable("dpmsctl"))
}

func TestDesktopIsEnabledHonorsEntryFlags(t *testing.T) {
	tests := []struct {
		name  string
		entry string
		want  bool
	}{
		{"plain", "[Desktop Entry]\nType=Application\nExec=/usr/bin/dpmsctl\n", true},
		{"hidden", "[Desktop Entry]\nExec=/usr/bin/dpmsctl\nHidden=true\n", false},
		{"gnome disabled", "[Desktop Entry]\nExec=/usr/bin/dpmsctl\nX-GNOME-Autostart-enabled=false\n", false},
		{"gnome enabled", "[Desktop Entry]\nExec=/usr/bin/dpmsctl\nX-GNOME-Autostart-enabled=true\n", true},
		{"no desktop section", "[Other]\nKey=Value\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestManager(t)
			require.NoError(t, os.MkdirAll(m.Dir, 0o755))
			require.NoError(t, os.WriteFile(filepath.Join(m.Dir, "dpmsctl.desktop"), []byte(tt.entry), 0o644))
			assert.Equal(t, tt.want, m.IsEnabled("dpmsctl"))
		})
	}
}

func TestDesktopMissingEntry(t *testing.T) {
	m := newTestManager(t)
	assert.False(t, m.IsEnabled("dpmsctl"))
}

func TestDesktopRejectsBadNames(t *testing.T) {
	m := newTestManager(t)

	for _, name := range []string{"", "../evil", `a\b`} {
		err := m.Enable(name, "/usr/bin/dpmsctl")
		require.Error(t, err, name)
		assert.True(t, errors.HasCode(err, errors.ErrInvalidArgument))
		assert.Error(t, m.Disable(name))
		assert.False(t, m.IsEnabled(name))
	}
}

func TestDesktopEnableUnwritableDir(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	m, err := NewDesktopManager(filepath.Join(file, "autostart"))
	require.NoError(t, err)

	err = m.Enable("dpmsctl", "/usr/bin/dpmsctl")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, ErrWriteEntry))
}

func TestDefaultDesktopDir(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG config home only applies on Linux")
	}
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	m, err := NewDesktopManager("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "autostart"), m.Dir)
}
