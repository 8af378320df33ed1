package idle

import (
	"context"
	"sync"
	"time"

	"codeberg.org/mutker/dpmsctl/internal/errors"
	"github.com/godbus/dbus/v5"
)

// caller invokes a method on the session bus and stores its single return
// value in out.
type caller interface {
	Call(ctx context.Context, dest, path, method string, out any) error
}

// DBusProbe reads idle time from a session bus service. Two services are
// known: GNOME Mutter's IdleMonitor (milliseconds) and the freedesktop
// ScreenSaver API (whole seconds).
type DBusProbe struct {
	name   string
	dest   string
	path   string
	method string
	millis bool
	bus    caller
}

// NewMutterProbe queries org.gnome.Mutter.IdleMonitor, which also works
// under Wayland.
func NewMutterProbe(bus caller) *DBusProbe {
	return &DBusProbe{
		name:   "mutter",
		dest:   "org.gnome.Mutter.IdleMonitor",
		path:   "/org/gnome/Mutter/IdleMonitor/Core",
		method: "org.gnome.Mutter.IdleMonitor.GetIdletime",
		millis: true,
		bus:    bus,
	}
}

// NewFreedesktopProbe queries org.freedesktop.ScreenSaver (KDE and others).
// Its resolution is one second.
func NewFreedesktopProbe(bus caller) *DBusProbe {
	return &DBusProbe{
		name:   "freedesktop",
		dest:   "org.freedesktop.ScreenSaver",
		path:   "/org/freedesktop/ScreenSaver",
		method: "org.freedesktop.ScreenSaver.GetSessionIdleTime",
		bus:    bus,
	}
}

func (p *DBusProbe) Name() string {
	return p.name
}

func (p *DBusProbe) IdleTime(ctx context.Context) (time.Duration, error) {
	errFactory := errors.New()

	if p.millis {
		var ms uint64
		if err := p.bus.Call(ctx, p.dest, p.path, p.method, &ms); err != nil {
			return 0, errFactory.Wrap(ErrQueryFailed, err)
		}
		return fromMillis(ms)
	}

	var seconds uint32
	if err := p.bus.Call(ctx, p.dest, p.path, p.method, &seconds); err != nil {
		return 0, errFactory.Wrap(ErrQueryFailed, err)
	}
	return time.Duration(seconds) * time.Second, nil
}

// SessionBus is a caller backed by a shared session bus connection. The
// connection is made on first use; a failed connect is retried next call.
type SessionBus struct {
	mu   sync.Mutex
	conn *dbus.Conn
}

func (b *SessionBus) Call(ctx context.Context, dest, path, method string, out any) error {
	b.mu.Lock()
	if b.conn == nil {
		conn, err := dbus.SessionBus()
		if err != nil {
			b.mu.Unlock()
			return err
		}
		b.conn = conn
	}
	conn := b.conn
	b.mu.Unlock()

	return conn.Object(dest, dbus.ObjectPath(path)).CallWithContext(ctx, method, 0).Store(out)
}
