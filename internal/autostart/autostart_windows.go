//go:build windows

package autostart

import (
	"codeberg.org/mutker/dpmsctl/internal/errors"
	"golang.org/x/sys/windows/registry"
)

const runKey = `Software\Microsoft\Windows\CurrentVersion\Run`

// registryManager stores the command line under the per-user Run key.
type registryManager struct{}

func newPlatformManager() (Manager, error) {
	return registryManager{}, nil
}

func (registryManager) Enable(appName, appPath string) error {
	errFactory := errors.New()

	if err := validateName(appName); err != nil {
		return err
	}

	key, _, err := registry.CreateKey(registry.CURRENT_USER, runKey, registry.SET_VALUE)
	if err != nil {
		return errFactory.Wrap(ErrOpenRegistry, err)
	}
	defer key.Close()

	if err := key.SetStringValue(appName, commandLine(appPath)); err != nil {
		return errFactory.Wrap(ErrWriteEntry, err)
	}
	return nil
}

func (registryManager) Disable(appName string) error {
	errFactory := errors.New()

	if err := validateName(appName); err != nil {
		return err
	}

	key, err := registry.OpenKey(registry.CURRENT_USER, runKey, registry.SET_VALUE)
	if err != nil {
		if errors.Is(err, registry.ErrNotExist) {
			return nil
		}
		return errFactory.Wrap(ErrOpenRegistry, err)
	}
	defer key.Close()

	if err := key.DeleteValue(appName); err != nil && !errors.Is(err, registry.ErrNotExist) {
		return errFactory.Wrap(ErrRemoveEntry, err)
	}
	return nil
}

func (registryManager) IsEnabled(appName string) bool {
	if validateName(appName) != nil {
		return false
	}

	key, err := registry.OpenKey(registry.CURRENT_USER, runKey, registry.QUERY_VALUE)
	if err != nil {
		return false
	}
	defer key.Close()

	_, _, err = key.GetStringValue(appName)
	return err == nil
}
