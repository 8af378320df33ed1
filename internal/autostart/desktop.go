package autostart

import (
	"os"
	"path/filepath"
	"strconv"

	"codeberg.org/mutker/dpmsctl/internal/errors"
	"gopkg.in/ini.v1"
)

const desktopSection = "Desktop Entry"

func init() {
	// Desktop entries are written as Key=Value without alignment padding.
	ini.PrettyFormat = false
}

// DesktopManager writes XDG autostart entries (<dir>/<appName>.desktop).
type DesktopManager struct {
	Dir string
}

// NewDesktopManager returns a manager for dir. An empty dir resolves to
// $XDG_CONFIG_HOME/autostart, falling back to ~/.config/autostart.
func NewDesktopManager(dir string) (*DesktopManager, error) {
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, errors.New().Wrap(ErrNoAutostartDir, err)
		}
		dir = filepath.Join(base, "autostart")
	}
	return &DesktopManager{Dir: dir}, nil
}

func (m *DesktopManager) path(appName string) string {
	return filepath.Join(m.Dir, appName+".desktop")
}

func (m *DesktopManager) Enable(appName, appPath string) error {
	errFactory := errors.New()

	if err := validateName(appName); err != nil {
		return err
	}
	if err := os.MkdirAll(m.Dir, 0o755); err != nil {
		return errFactory.Wrap(ErrWriteEntry, err)
	}

	entry := ini.Empty(ini.LoadOptions{IgnoreInlineComment: true})
	sec := entry.Section(desktopSection)
	sec.Key("Type").SetValue("Application")
	sec.Key("Name").SetValue(appName)
	sec.Key("Exec").SetValue(commandLine(appPath))
	sec.Key("X-GNOME-Autostart-enabled").SetValue("true")

	if err := entry.SaveTo(m.path(appName)); err != nil {
		return errFactory.Wrap(ErrWriteEntry, err)
	}

	return nil
}

func (m *DesktopManager) Disable(appName string) error {
	if err := validateName(appName); err != nil {
		return err
	}
	if err := os.Remove(m.path(appName)); err != nil && !os.IsNotExist(err) {
		return errors.New().Wrap(ErrRemoveEntry, err)
	}
	return nil
}

// IsEnabled reports whether an entry exists and is not hidden or disabled
// for GNOME.
func (m *DesktopManager) IsEnabled(appName string) bool {
	if validateName(appName) != nil {
		return false
	}

	entry, err := ini.LoadSources(ini.LoadOptions{IgnoreInlineComment: true}, m.path(appName))
	if err != nil {
		return false
	}

	sec, err := entry.GetSection(desktopSection)
	if err != nil {
		return false
	}
	if hidden, _ := strconv.ParseBool(sec.Key("Hidden").String()); hidden {
		return false
	}
	if sec.HasKey("X-GNOME-Autostart-enabled") {
		enabled, err := sec.Key("X-GNOME-Autostart-enabled").Bool()
		return err == nil && enabled
	}

	return true
}
