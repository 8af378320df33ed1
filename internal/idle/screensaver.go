package idle

import (
	"context"
	"sync"
	"time"

	"codeberg.org/mutker/dpmsctl/internal/errors"
	"github.com/jezek/xgb"
	"github.com/jezek/xgb/screensaver"
	"github.com/jezek/xgb/xproto"
)

// ScreenSaverProbe asks the X server through the MIT-SCREEN-SAVER extension.
// The connection is opened on first use and reopened after a failure. mu
// guards conn only; round trips run unlocked so Close never waits on them.
type ScreenSaverProbe struct {
	mu   sync.Mutex
	conn *xgb.Conn
	root xproto.Window
}

func NewScreenSaverProbe() *ScreenSaverProbe {
	return &ScreenSaverProbe{}
}

func (*ScreenSaverProbe) Name() string {
	return "xscreensaver"
}

func (p *ScreenSaverProbe) IdleTime(context.Context) (time.Duration, error) {
	errFactory := errors.New()

	p.mu.Lock()
	if p.conn == nil {
		if err := p.connect(); err != nil {
			p.mu.Unlock()
			return 0, errFactory.Wrap(ErrQueryFailed, err)
		}
	}
	conn, root := p.conn, p.root
	p.mu.Unlock()

	info, err := screensaver.QueryInfo(conn, xproto.Drawable(root)).Reply()
	if err != nil {
		p.drop(conn)
		return 0, errFactory.Wrap(ErrQueryFailed, err)
	}

	return time.Duration(info.MsSinceUserInput) * time.Millisecond, nil
}

// drop closes conn unless it has already been replaced.
func (p *ScreenSaverProbe) drop(conn *xgb.Conn) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.conn == conn {
		p.close()
	}
}

func (p *ScreenSaverProbe) connect() error {
	conn, err := xgb.NewConn()
	if err != nil {
		return err
	}
	if err := screensaver.Init(conn); err != nil {
		conn.Close()
		return err
	}

	p.conn = conn
	p.root = xproto.Setup(conn).DefaultScreen(conn).Root
	return nil
}

func (p *ScreenSaverProbe) close() {
	if p.conn != nil {
		p.conn.Close()
		p.conn = nil
	}
}

// Close releases the X connection. A query in flight fails with a
// connection error.
func (p *ScreenSaverProbe) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.close()
}
