// Package autostart registers the application to run at user login.
package autostart

import (
	"strings"

	"codeberg.org/mutker/dpmsctl/internal/errors"
)

// AutostartFlag is appended to the registered command line so a login
// launch can be told apart from a manual one.
const AutostartFlag = "--autostart"

// Manager enables or disables launch at login for an application name.
type Manager interface {
	Enable(appName, appPath string) error
	Disable(appName string) error
	IsEnabled(appName string) bool
}

// New returns the Manager for the running platform.
func New() (Manager, error) {
	return newPlatformManager()
}

// commandLine quotes appPath and appends AutostartFlag.
func commandLine(appPath string) string {
	return `"` + appPath + `" ` + AutostartFlag
}

func validateName(appName string) error {
	if appName == "" || strings.ContainsAny(appName, `/\`) {
		return errors.New().WithData(errors.ErrInvalidArgument, "app name: "+appName)
	}
	return nil
}

// unsupported is used where no login mechanism is implemented.
type unsupported struct{}

func (unsupported) Enable(string, string) error {
	return errors.New().New(errors.ErrNotImplemented)
}

func (unsupported) Disable(string) error {
	return nil
}

func (unsupported) IsEnabled(string) bool {
	return false
}
