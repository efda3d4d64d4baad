package compositor

import (
	"errors"

	"github.com/godbus/dbus/v5"
)

var ErrUnexpectedResponse = errors.New("unexpected response from compositor")

const (
	requestInterface = CallBaseName + ".Request"
	responseMember   = "Response"
)

type ResponseStatus = uint32

const (
	Success   ResponseStatus = 0
	Cancelled ResponseStatus = 1
	Ended     ResponseStatus = 2
)

// onSignalResponse waits for the Response signal of an asynchronous
// compositor request and returns its status and results.
func (c *Client) onSignalResponse(path dbus.ObjectPath) (ResponseStatus, map[string]dbus.Variant, error) {
	signal, err := c.listenOnSignal(path, requestInterface, responseMember)
	if err != nil {
		return Ended, nil, err
	}
	defer c.removeSignal(path, requestInterface, responseMember, signal)

	response := <-signal
	if response == nil || len(response.Body) != 2 {
		return Ended, nil, ErrUnexpectedResponse
	}

	status, ok := response.Body[0].(ResponseStatus)
	if !ok {
		return Ended, nil, ErrUnexpectedResponse
	}
	results, ok := response.Body[1].(map[string]dbus.Variant)
	if !ok {
		return Ended, nil, ErrUnexpectedResponse
	}
	return status, results, nil
}
