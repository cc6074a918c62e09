package protocol

import (
	"net"
	"time"

	"github.com/Leixb/yeelight/common"
)

// MusicConfig configures the music mode handoff.
type MusicConfig struct {
	// Host is the address advertised to the bulb.  It must be reachable
	// from the bulb on the local network.  When empty, the local address of
	// the current control connection is used.
	Host string
	// Listen is the local bind address for the one-shot listener.  Defaults
	// to an ephemeral port on all interfaces.
	Listen string
	// AcceptTimeout bounds the wait for the bulb to dial back.  Defaults to
	// common.DefaultMusicTimeout.
	AcceptTimeout time.Duration
}

// musicOn is the set_music action instructing the bulb to open a music mode
// connection.
const musicOn = 1

// StartMusic reverses the connection roles to bypass the bulb's command
// rate limit: it opens a local listener, instructs the bulb over the
// current connection to dial it, waits for exactly one inbound connection,
// and promotes that connection to the session's active transport.  The
// previous transport is closed on success.
//
// On common.ErrMusicModeTimeout the listener is closed and the original
// transport remains fully usable.
func (s *Session) StartMusic(cfg MusicConfig) error {
	if cfg.AcceptTimeout == 0 {
		cfg.AcceptTimeout = common.DefaultMusicTimeout
	}
	listen := cfg.Listen
	if listen == `` {
		listen = `:0`
	}

	ln, err := net.Listen(`tcp`, listen)
	if err != nil {
		return err
	}
	port := ln.Addr().(*net.TCPAddr).Port

	host := cfg.Host
	if host == `` {
		s.mu.Lock()
		local := s.transport.conn.LocalAddr()
		s.mu.Unlock()
		if host, _, err = net.SplitHostPort(local.String()); err != nil {
			_ = ln.Close()
			return err
		}
	}

	common.Log.Debugf(`requesting music mode connection to %s:%d`, host, port)
	if _, err := s.Send(`set_music`, musicOn, host, port); err != nil {
		_ = ln.Close()
		return err
	}

	tcpLn := ln.(*net.TCPListener)
	if err := tcpLn.SetDeadline(time.Now().Add(cfg.AcceptTimeout)); err != nil {
		_ = ln.Close()
		return err
	}
	conn, err := tcpLn.Accept()
	_ = ln.Close()
	if err != nil {
		if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
			return common.ErrMusicModeTimeout
		}
		return err
	}

	// Exactly one inbound connection is expected; the listener is gone and
	// the accepted socket becomes the session transport.
	s.Promote(Attach(conn))
	return nil
}
