package display

import (
	"context"
	"sync"

	"codeberg.org/mutker/dpmsctl/internal/errors"
	"github.com/jezek/xgb"
	"github.com/jezek/xgb/dpms"
)

// DPMSController forces the power level through the X11 DPMS extension.
// DPMS is enabled first if the server has it switched off. The connection
// is opened on first use and reopened after a failure. mu guards conn only.
type DPMSController struct {
	mu   sync.Mutex
	conn *xgb.Conn
}

func NewDPMSController() *DPMSController {
	return &DPMSController{}
}

func (*DPMSController) Name() string {
	return "dpms"
}

func (c *DPMSController) Off(context.Context) error {
	if err := c.force(dpms.DPMSModeOff); err != nil {
		return errors.New().Wrap(ErrPowerOff, err)
	}
	return nil
}

func (c *DPMSController) On(context.Context) error {
	if err := c.force(dpms.DPMSModeOn); err != nil {
		return errors.New().Wrap(ErrPowerOn, err)
	}
	return nil
}

func (c *DPMSController) force(level uint16) error {
	c.mu.Lock()
	if c.conn == nil {
		if err := c.connect(); err != nil {
			c.mu.Unlock()
			return err
		}
	}
	conn := c.conn
	c.mu.Unlock()

	err := dpms.EnableChecked(conn).Check()
	if err == nil {
		err = dpms.ForceLevelChecked(conn, level).Check()
	}
	if err != nil {
		c.drop(conn)
	}
	return err
}

// drop closes conn unless it has already been replaced.
func (c *DPMSController) drop(conn *xgb.Conn) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == conn {
		c.close()
	}
}

func (c *DPMSController) connect() error {
	conn, err := xgb.NewConn()
	if err != nil {
		return err
	}
	if err := dpms.Init(conn); err != nil {
		conn.Close()
		return err
	}

	capable, err := dpms.Capable(conn).Reply()
	if err != nil {
		conn.Close()
		return err
	}
	if !capable.Capable {
		conn.Close()
		return errors.New().New(ErrNotCapable)
	}

	c.conn = conn
	return nil
}

func (c *DPMSController) close() {
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
}

// Close releases the X connection.
func (c *DPMSController) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.close()
}
