//go:build windows

package idle

import (
	"context"
	"time"
	"unsafe"

	"codeberg.org/mutker/dpmsctl/internal/errors"
	"golang.org/x/sys/windows"
)

var (
	user32               = windows.NewLazySystemDLL("user32.dll")
	kernel32             = windows.NewLazySystemDLL("kernel32.dll")
	procGetLastInputInfo = user32.NewProc("GetLastInputInfo")
	procGetTickCount     = kernel32.NewProc("GetTickCount")
)

type lastInputInfo struct {
	cbSize uint32
	dwTime uint32
}

// win32Probe uses GetLastInputInfo, which covers keyboard and mouse input
// for the whole session.
type win32Probe struct{}

func newPlatformProbe() Probe {
	return win32Probe{}
}

func (win32Probe) Name() string {
	return "GetLastInputInfo"
}

func (win32Probe) IdleTime(context.Context) (time.Duration, error) {
	var info lastInputInfo
	info.cbSize = uint32(unsafe.Sizeof(info))

	ret, _, err := procGetLastInputInfo.Call(uintptr(unsafe.Pointer(&info)))
	if ret == 0 {
		return 0, errors.New().Wrap(ErrQueryFailed, err)
	}

	// GetTickCount shares dwTime's 32-bit wrapping clock.
	tick, _, _ := procGetTickCount.Call()

	return elapsedMillis(uint32(tick), info.dwTime), nil
}
