// Package discovery locates Yeelight bulbs on the local network.
//
// Bulbs answer an SSDP style search probe multicast to a well-known group
// with a block of `key: value` headers advertising their address and
// capabilities.  A scan collects replies for a bounded window, deduplicates
// them by bulb id, and returns a snapshot per reply.
package discovery

import (
	"bufio"
	"net"
	"strings"
	"time"

	"github.com/Leixb/yeelight/common"
)

const (
	// MulticastAddr is the protocol's well-known discovery group and port
	MulticastAddr = `239.255.255.250:1982`
	// DefaultWindow is the default duration replies are collected for
	DefaultWindow = 3 * time.Second

	searchTarget = `wifi_bulb`
	statusLine   = `HTTP/1.1 200 OK`
	readBufSize  = 2048
)

// Device is a snapshot of one discovery reply, not a live handle.  Upgrade
// it to a control connection via its Location or the yeelight package.
type Device struct {
	// ID is the unique bulb identifier from the reply headers
	ID string
	// Addr is the source address the reply arrived from
	Addr *net.UDPAddr
	// Location is the advertised control endpoint, `yeelight://host:port`
	Location string
	// Properties holds every advertised header of the reply
	Properties map[string]string
}

// ControlAddr returns the host:port to dial for control, from the Location
// header
func (d *Device) ControlAddr() string {
	return strings.TrimPrefix(d.Location, `yeelight://`)
}

// Discoverer performs multicast scans.  The zero value scans the protocol's
// well-known group with the default window.
type Discoverer struct {
	// Addr overrides the probe destination, for tests or unusual networks
	Addr string
	// Window bounds how long replies are collected
	Window time.Duration
}

// Discover sends one search probe and collects replies until the window
// elapses.  Replies are deduplicated by bulb id, a later duplicate updates
// the stored metadata of the existing entry.  Malformed replies are skipped.
// Results are ordered by first arrival; a silent window yields an empty,
// non-error result.  Each call re-probes.
func (d *Discoverer) Discover() ([]*Device, error) {
	addr := d.Addr
	if addr == `` {
		addr = MulticastAddr
	}
	window := d.Window
	if window == 0 {
		window = DefaultWindow
	}

	target, err := net.ResolveUDPAddr(`udp4`, addr)
	if err != nil {
		return nil, err
	}
	socket, err := net.ListenUDP(`udp4`, &net.UDPAddr{IP: net.IPv4zero})
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := socket.Close(); err != nil {
			common.Log.Warnf(`failed closing discovery socket: %v`, err)
		}
	}()

	if _, err := socket.WriteToUDP(probePayload(addr), target); err != nil {
		return nil, err
	}
	if err := socket.SetReadDeadline(time.Now().Add(window)); err != nil {
		return nil, err
	}

	var devices []*Device
	index := make(map[string]*Device)
	buf := make([]byte, readBufSize)
	for {
		n, src, err := socket.ReadFromUDP(buf)
		if err != nil {
			if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
				break
			}
			return nil, err
		}
		dev := parseReply(buf[:n], src)
		if dev == nil {
			common.Log.Debugf(`skipping malformed discovery reply from %v`, src)
			continue
		}
		if known, ok := index[dev.ID]; ok {
			// Same bulb answering again, keep the latest metadata.
			known.Addr = dev.Addr
			known.Location = dev.Location
			known.Properties = dev.Properties
			continue
		}
		common.Log.Debugf(`discovered bulb %s at %v`, dev.ID, src)
		index[dev.ID] = dev
		devices = append(devices, dev)
	}

	return devices, nil
}

// Discover scans with the default settings
func Discover(window time.Duration) ([]*Device, error) {
	d := &Discoverer{Window: window}
	return d.Discover()
}

func probePayload(addr string) []byte {
	payload := strings.Join([]string{
		`M-SEARCH * HTTP/1.1`,
		`HOST: ` + addr,
		`MAN: "ssdp:discover"`,
		`ST: ` + searchTarget,
	}, "\r\n") + "\r\n"
	return []byte(payload)
}

// parseReply parses one reply datagram into a Device, or nil when the reply
// is not a valid header block
func parseReply(data []byte, src *net.UDPAddr) *Device {
	scanner := bufio.NewScanner(strings.NewReader(string(data)))
	if !scanner.Scan() || strings.TrimSpace(scanner.Text()) != statusLine {
		return nil
	}

	properties := make(map[string]string)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == `` {
			continue
		}
		key, value, ok := strings.Cut(line, `: `)
		if !ok {
			continue
		}
		properties[key] = value
	}

	id, ok := properties[`id`]
	if !ok {
		return nil
	}
	return &Device{
		ID:         id,
		Addr:       src,
		Location:   properties[`Location`],
		Properties: properties,
	}
}
