// Package yeelight provides a Go interface to the Yeelight LAN control
// protocol for smart lighting devices.
//
// A Bulb is one session with a device: typed commands are correlated with
// their responses by id, so several goroutines may issue commands
// concurrently, and unsolicited state change notifications are delivered on
// independent subscriptions.  The discovery package locates bulbs on the
// local network, and music mode lets the bulb dial back to the controller
// to bypass its command rate limit.
//
// Also included in cmd/yeelight is a small CLI utility that allows
// interacting with your bulbs on the LAN.
package yeelight

import (
	"time"

	"github.com/Leixb/yeelight/common"
	"github.com/Leixb/yeelight/discovery"
)

const (
	// VERSION of this library
	VERSION = `0.1.0`
)

// SetLogger allows assigning a custom levelled logger that conforms to the
// common.Logger interface.  To capture logs generated during connection
// setup, this should be called before creating a Bulb.  Defaults to
// common.StubLogger, which does no logging at all.
func SetLogger(logger common.Logger) {
	common.SetLogger(logger)
}

// Discover scans the local network for bulbs, collecting replies until the
// window elapses.  Connect to a result with ConnectDiscovered.
func Discover(window time.Duration) ([]*discovery.Device, error) {
	return discovery.Discover(window)
}
