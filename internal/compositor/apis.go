// Package compositor is the dbus client for the compositor control
// service: display-info queries, virtual-output lifecycle, and the
// per-output frame stream feeding a buffer queue.
package compositor

import (
	"errors"
	"sync"

	"github.com/godbus/dbus/v5"
)

const (
	ObjectName                 = "app.go2tv.Compositor"
	ObjectPath dbus.ObjectPath = "/app/go2tv/Compositor"

	CallBaseName = "app.go2tv.Compositor"

	displayInterface = CallBaseName + ".Display"
	outputInterface  = CallBaseName + ".VirtualOutput"

	getDisplayInfoName = displayInterface + ".GetInfo"
	createOutputName   = outputInterface + ".Create"
	destroyOutputName  = outputInterface + ".Destroy"
	applyOutputName    = outputInterface + ".Apply"

	frameMember = "Frame"
)

// ErrDispatcherNotStarted reports a client call before the
// process-wide StartDispatcher.
var ErrDispatcherNotStarted = errors.New("compositor dispatcher is not started")

var (
	dispatchMu   sync.Mutex
	dispatchConn *dbus.Conn
)

// StartDispatcher connects the process-wide session-bus connection and
// starts its signal dispatch. It must be called once per process
// before any client is usable; there is no teardown.
func StartDispatcher() error {
	dispatchMu.Lock()
	defer dispatchMu.Unlock()

	if dispatchConn != nil {
		return nil
	}
	conn, err := dbus.SessionBus()
	if err != nil {
		return err
	}
	dispatchConn = conn
	return nil
}

func sharedConn() (*dbus.Conn, error) {
	dispatchMu.Lock()
	defer dispatchMu.Unlock()

	if dispatchConn == nil {
		return nil, ErrDispatcherNotStarted
	}
	return dispatchConn, nil
}

func (c *Client) call(path dbus.ObjectPath, callName string, args ...any) (*dbus.Call, error) {
	obj := c.conn.Object(ObjectName, path)
	call := obj.Call(callName, 0, args...)
	return call, call.Err
}

func (c *Client) listenOnSignal(path dbus.ObjectPath, iface, member string) (chan *dbus.Signal, error) {
	if err := c.conn.AddMatchSignal(
		dbus.WithMatchObjectPath(path),
		dbus.WithMatchInterface(iface),
		dbus.WithMatchMember(member),
	); err != nil {
		return nil, err
	}

	signal := make(chan *dbus.Signal, 16)
	c.conn.Signal(signal)
	return signal, nil
}

func (c *Client) removeSignal(path dbus.ObjectPath, iface, member string, signal chan *dbus.Signal) {
	_ = c.conn.RemoveMatchSignal(
		dbus.WithMatchObjectPath(path),
		dbus.WithMatchInterface(iface),
		dbus.WithMatchMember(member),
	)
	c.conn.RemoveSignal(signal)
}
