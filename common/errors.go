package common

import (
	"errors"
	"fmt"
	"time"
)

const (
	// DefaultPort is the TCP port bulbs listen on for control connections
	DefaultPort = 55443
	// DefaultTimeout is the default duration to wait for a response to a
	// command before giving up on it
	DefaultTimeout = 5 * time.Second
	// DefaultConnectTimeout is the default duration allowed for establishing
	// the control connection
	DefaultConnectTimeout = 5 * time.Second
	// DefaultMusicTimeout is the default duration to wait for the bulb to
	// dial back during music mode establishment
	DefaultMusicTimeout = 10 * time.Second
)

var (
	// ErrConnectTimeout is returned when the control connection can not be
	// established within the configured timeout
	ErrConnectTimeout = errors.New(`timed out connecting to bulb`)
	// ErrConnectRefused is returned when the bulb actively refuses the
	// control connection
	ErrConnectRefused = errors.New(`bulb refused connection`)
	// ErrTimeout is returned when a command receives no response within the
	// configured timeout.  Only the affected request fails, the connection
	// remains usable.
	ErrTimeout = errors.New(`timed out waiting for response`)
	// ErrConnectionClosed is returned to every pending request when the
	// connection to the bulb dies.  The session is unusable afterwards.
	ErrConnectionClosed = errors.New(`connection closed`)
	// ErrMalformedFrame is returned when a frame on the wire is not valid
	// JSON, or matches neither the response nor the notification shape
	ErrMalformedFrame = errors.New(`malformed frame`)
	// ErrMusicModeTimeout is returned when the bulb does not dial back
	// within the accept window during music mode establishment
	ErrMusicModeTimeout = errors.New(`timed out waiting for music mode connection`)
	// ErrClosed is returned on operations against a closed session or
	// subscription
	ErrClosed = errors.New(`closed`)
	// ErrNotFound is returned when a lookup fails
	ErrNotFound = errors.New(`not found`)
)

// DeviceError is an error response from the bulb, carrying the code and
// message from the wire verbatim
type DeviceError struct {
	Code    int
	Message string
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("bulb response error: %s (code %d)", e.Message, e.Code)
}
