package compositor

import (
	"errors"
	"fmt"

	"github.com/godbus/dbus/v5"

	"go2tv.app/displaycap/displaycap"
	"go2tv.app/displaycap/internal/bufstream"
	"go2tv.app/displaycap/internal/convert"
)

var (
	ErrNotConnected  = errors.New("compositor connection is down")
	ErrCancelled     = errors.New("compositor request was cancelled")
	ErrForeignOutput = errors.New("output handle belongs to another composer")
)

// Client is a session handle to the compositing service. It implements
// displaycap.Composer.
type Client struct {
	conn *dbus.Conn
}

var _ displaycap.Composer = (*Client)(nil)

// NewClient obtains a session handle to the compositing service on the
// shared connection. StartDispatcher must have been called first.
func NewClient() (*Client, error) {
	conn, err := sharedConn()
	if err != nil {
		return nil, err
	}
	return &Client{conn: conn}, nil
}

func (c *Client) InitCheck() error {
	if c.conn == nil || !c.conn.Connected() {
		return ErrNotConnected
	}
	return nil
}

// DisplayInfo queries the real geometry and physical metrics of a
// display.
func (c *Client) DisplayInfo(displayID int32) (displaycap.DisplayInfo, error) {
	call, err := c.call(ObjectPath, getDisplayInfoName, displayID)
	if err != nil {
		return displaycap.DisplayInfo{}, err
	}

	var (
		width, height            uint32
		orientation              uint8
		fps, density, xdpi, ydpi float64
		secure                   bool
	)
	if err := call.Store(&width, &height, &orientation, &fps, &density, &xdpi, &ydpi, &secure); err != nil {
		return displaycap.DisplayInfo{}, fmt.Errorf("decode display info: %w", err)
	}
	return displaycap.NewDisplayInfo(width, height, orientation, fps, density, xdpi, ydpi, secure), nil
}

// CreateOutput asks the compositor for a new virtual output. The call
// is asynchronous in the portal style: it returns a request handle and
// the output handle arrives on the Response signal.
func (c *Client) CreateOutput(name string, secure bool) (displaycap.Output, error) {
	data := map[string]dbus.Variant{
		"handle_token": generateToken(),
		"secure":       convert.FromBool(secure),
	}

	call, err := c.call(ObjectPath, createOutputName, name, data)
	if err != nil {
		return nil, err
	}

	var requestPath dbus.ObjectPath
	if err := call.Store(&requestPath); err != nil {
		return nil, fmt.Errorf("decode create request: %w", err)
	}

	status, results, err := c.onSignalResponse(requestPath)
	if err != nil {
		return nil, err
	}
	if status >= Cancelled {
		return nil, ErrCancelled
	}

	handle, ok := results["output_handle"].Value().(string)
	if !ok {
		return nil, ErrUnexpectedResponse
	}
	return &output{client: c, path: dbus.ObjectPath(handle), name: name}, nil
}

func (c *Client) DestroyOutput(o displaycap.Output) error {
	out, ok := o.(*output)
	if !ok {
		return ErrForeignOutput
	}
	out.stopPump()
	_, err := c.call(out.path, destroyOutputName)
	return err
}

// Commit publishes a virtual output: one Apply call carries the
// surface binding, the display projection and the layer stack, so the
// compositor sees the configuration all-or-nothing. On success the
// output's frame stream starts feeding the transaction's surface.
func (c *Client) Commit(t *displaycap.Transaction) error {
	out, ok := t.Output.(*output)
	if !ok {
		return ErrForeignOutput
	}
	if t.Surface == nil {
		return errors.New("transaction has no surface")
	}

	props := map[string]dbus.Variant{
		"orientation":      convert.FromByte(t.Orientation),
		"layer_stack":      convert.FromUint32(t.LayerStack),
		"layer_stack_rect": convert.FromRect(t.LayerStackRect),
		"visible_rect":     convert.FromRect(t.VisibleRect),
	}
	if _, err := c.call(out.path, applyOutputName, props); err != nil {
		return err
	}
	return out.startPump(t.Surface)
}

// output is the compositor-side virtual output handle.
type output struct {
	client *Client
	path   dbus.ObjectPath
	name   string
	pump   *framePump
}

func (o *output) Name() string {
	return o.name
}

func (o *output) startPump(surface *bufstream.Producer) error {
	signal, err := o.client.listenOnSignal(o.path, outputInterface, frameMember)
	if err != nil {
		return err
	}
	o.pump = newFramePump(o, surface, signal)
	return nil
}

func (o *output) stopPump() {
	if o.pump != nil {
		o.pump.stop()
		o.client.removeSignal(o.path, outputInterface, frameMember, o.pump.signals)
		o.pump = nil
	}
}
