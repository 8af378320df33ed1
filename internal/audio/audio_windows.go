//go:build windows

package audio

import (
	"context"
	"runtime"

	"codeberg.org/mutker/dpmsctl/internal/errors"
	"github.com/go-ole/go-ole"
	"github.com/moutend/go-wca/pkg/wca"
)

// sFalse is returned by CoInitializeEx when the thread already joined the
// apartment.
const sFalse = 0x00000001

type peakResult struct {
	peak float64
	err  error
}

// wasapiMeter reads IAudioMeterInformation on the default render endpoint.
// COM objects are owned by a single goroutine locked to its OS thread;
// Peak calls are forwarded to it.
type wasapiMeter struct {
	device   string
	requests chan chan peakResult
}

func newPlatformMeter(ctx context.Context) (Meter, error) {
	m := &wasapiMeter{requests: make(chan chan peakResult)}
	ready := make(chan error, 1)

	go m.serve(ready)

	select {
	case err := <-ready:
		if err != nil {
			return nil, err
		}
	case <-ctx.Done():
		return nil, errors.New().Wrap(ErrNoDefaultDevice, ctx.Err())
	}

	return m, nil
}

func (m *wasapiMeter) Device() string {
	return m.device
}

func (m *wasapiMeter) Peak(ctx context.Context) (float64, error) {
	reply := make(chan peakResult, 1)

	select {
	case m.requests <- reply:
	case <-ctx.Done():
		return 0, errors.New().Wrap(ErrMeterFailed, ctx.Err())
	}

	select {
	case res := <-reply:
		return res.peak, res.err
	case <-ctx.Done():
		return 0, errors.New().Wrap(ErrMeterFailed, ctx.Err())
	}
}

func (m *wasapiMeter) serve(ready chan<- error) {
	errFactory := errors.New()

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := ole.CoInitializeEx(0, ole.COINIT_MULTITHREADED); err != nil {
		var oleErr *ole.OleError
		if !errors.As(err, &oleErr) || oleErr.Code() != sFalse {
			ready <- errFactory.Wrap(ErrMeterFailed, err)
			return
		}
	}
	defer ole.CoUninitialize()

	var enumerator *wca.IMMDeviceEnumerator
	if err := wca.CoCreateInstance(
		wca.CLSID_MMDeviceEnumerator, 0, wca.CLSCTX_ALL,
		wca.IID_IMMDeviceEnumerator, &enumerator,
	); err != nil {
		ready <- errFactory.Wrap(ErrNoDefaultDevice, err)
		return
	}
	defer enumerator.Release()

	var device *wca.IMMDevice
	if err := enumerator.GetDefaultAudioEndpoint(wca.ERender, wca.EConsole, &device); err != nil {
		ready <- errFactory.Wrap(ErrNoDefaultDevice, err)
		return
	}
	defer device.Release()

	var id string
	if err := device.GetId(&id); err == nil {
		m.device = id
	}

	var meter *wca.IAudioMeterInformation
	if err := device.Activate(wca.IID_IAudioMeterInformation, wca.CLSCTX_ALL, nil, &meter); err != nil {
		ready <- errFactory.Wrap(ErrNoDefaultDevice, err)
		return
	}
	defer meter.Release()

	ready <- nil

	for reply := range m.requests {
		var peak float32
		if err := meter.GetPeakValue(&peak); err != nil {
			reply <- peakResult{err: errFactory.Wrap(ErrMeterFailed, err)}
			continue
		}
		reply <- peakResult{peak: float64(peak)}
	}
}
