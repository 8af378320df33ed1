//go:build windows

package display

import (
	"context"
	"unsafe"

	"codeberg.org/mutker/dpmsctl/internal/errors"
	"golang.org/x/sys/windows"
)

const (
	hwndBroadcast   = 0xFFFF
	wmSysCommand    = 0x0112
	scMonitorPower  = 0xF170
	smtoAbortIfHung = 0x0002

	monitorOff = 2
	// monitorOn is -1 passed through an unsigned lParam.
	monitorOn = ^uintptr(0)

	// broadcastTimeoutMs bounds each top-level window's reply.
	broadcastTimeoutMs = 500
)

var (
	user32                  = windows.NewLazySystemDLL("user32.dll")
	procSendMessageTimeoutW = user32.NewProc("SendMessageTimeoutW")
)

// monitorPower broadcasts SC_MONITORPOWER to all top-level windows.
type monitorPower struct{}

func newPlatformController() Controller {
	return monitorPower{}
}

func (monitorPower) Name() string {
	return "SC_MONITORPOWER"
}

func (monitorPower) Off(ctx context.Context) error {
	if err := broadcastContext(ctx, monitorOff); err != nil {
		return errors.New().Wrap(ErrPowerOff, err)
	}
	return nil
}

func (monitorPower) On(ctx context.Context) error {
	if err := broadcastContext(ctx, monitorOn); err != nil {
		return errors.New().Wrap(ErrPowerOn, err)
	}
	return nil
}

// broadcastContext bounds the whole broadcast by ctx. The per-window timeout
// adds up over every top-level window, so the call itself has no useful
// upper bound.
func broadcastContext(ctx context.Context, lParam uintptr) error {
	return bounded(ctx, func(context.Context) error {
		return broadcast(lParam)
	})
}

func broadcast(lParam uintptr) error {
	var result uintptr
	ret, _, err := procSendMessageTimeoutW.Call(
		hwndBroadcast,
		wmSysCommand,
		scMonitorPower,
		lParam,
		smtoAbortIfHung,
		broadcastTimeoutMs,
		uintptr(unsafe.Pointer(&result)),
	)
	// A broadcast returns zero when any recipient timed out; the message
	// still reached the shell, so only a zero with a real error counts.
	if ret == 0 && err != nil && err != windows.ERROR_SUCCESS && err != windows.ERROR_TIMEOUT {
		return err
	}
	return nil
}
