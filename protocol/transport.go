// Package protocol implements the Yeelight LAN control protocol: a line
// oriented TCP transport, the per-connection session engine that correlates
// commands with their responses and fans out notifications, and the music
// mode connection handoff.
//
// This package is not designed to be accessed by end users, all interaction
// should occur via the Bulb in the yeelight package.
package protocol

import (
	"bufio"
	"errors"
	"net"
	"os"
	"sync"
	"syscall"
	"time"

	"github.com/Leixb/yeelight/common"
)

// maxFrameSize bounds a single frame on the wire.  Property notifications
// and get_prop responses fit comfortably; anything larger is a broken peer.
const maxFrameSize = 64 * 1024

// Transport owns one TCP stream to a bulb.  Writes are serialized, the
// protocol has no interleave marker beyond line framing.  Reads run in a
// background loop that splits the stream on frame boundaries and delivers
// raw frames on Frames().
type Transport struct {
	conn    net.Conn
	writeMu sync.Mutex
	frames  chan []byte

	closeOnce sync.Once
	closeErr  error
}

// Dial establishes a control connection to addr within timeout.  It returns
// common.ErrConnectTimeout when no connection establishes in time and
// common.ErrConnectRefused when the remote actively refuses.
func Dial(addr string, timeout time.Duration) (*Transport, error) {
	conn, err := net.DialTimeout(`tcp`, addr, timeout)
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return nil, common.ErrConnectTimeout
		}
		if errors.Is(err, syscall.ECONNREFUSED) {
			return nil, common.ErrConnectRefused
		}
		return nil, err
	}
	common.Log.Debugf(`connected to %v`, addr)
	return Attach(conn), nil
}

// Attach wraps an already-established connection.  Used by the music mode
// handoff and by callers that manage their own sockets.
func Attach(conn net.Conn) *Transport {
	t := &Transport{
		conn:   conn,
		frames: make(chan []byte, 8),
	}
	go t.readLoop()
	return t
}

// Send writes one encoded frame.  The frame must already carry its line
// terminator.  A write failure is fatal for the owning session.
func (t *Transport) Send(frame []byte) error {
	t.writeMu.Lock()
	defer t.writeMu.Unlock()
	common.Log.Debugf(`send -> %s`, frame)
	if _, err := t.conn.Write(frame); err != nil {
		return err
	}
	return nil
}

// Frames returns the channel of raw incoming frames.  The channel is closed
// when the peer closes the connection or a read error occurs.
func (t *Transport) Frames() <-chan []byte {
	return t.frames
}

// RemoteAddr returns the address of the connected bulb
func (t *Transport) RemoteAddr() net.Addr {
	return t.conn.RemoteAddr()
}

// Close tears down the connection.  The read loop terminates and Frames()
// is closed as a consequence.  Closing twice is a no-op.
func (t *Transport) Close() error {
	t.closeOnce.Do(func() {
		t.closeErr = t.conn.Close()
	})
	return t.closeErr
}

func (t *Transport) readLoop() {
	defer close(t.frames)

	scanner := bufio.NewScanner(t.conn)
	scanner.Buffer(make([]byte, 4096), maxFrameSize)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		common.Log.Debugf(`recv <- %s`, line)
		frame := make([]byte, len(line))
		copy(frame, line)
		t.frames <- frame
	}
	if err := scanner.Err(); err != nil && !errors.Is(err, net.ErrClosed) && !errors.Is(err, os.ErrClosed) {
		common.Log.Debugf(`read loop ended: %v`, err)
	}
}
