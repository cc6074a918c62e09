package yeelight

import (
	"net"
	"strconv"
	"time"

	"github.com/Leixb/yeelight/common"
	"github.com/Leixb/yeelight/discovery"
	"github.com/Leixb/yeelight/protocol"
	"github.com/Leixb/yeelight/protocol/packet"
)

// Notification is an unsolicited property change pushed by the bulb,
// delivered on subscriptions obtained via Bulb.NewSubscription
type Notification = packet.Notification

// MusicConfig configures the music mode handoff, see
// protocol.MusicConfig
type MusicConfig = protocol.MusicConfig

// Bulb is one session with a bulb.  It owns the underlying connection
// exclusively; concurrent use by multiple goroutines is supported, each
// caller blocks only on its own command.
type Bulb struct {
	addr    string
	session *protocol.Session
}

// Connect establishes a control connection to the bulb at host.  A port of
// 0 selects the protocol default (55443).
func Connect(host string, port int) (*Bulb, error) {
	return ConnectTimeout(host, port, common.DefaultConnectTimeout)
}

// ConnectTimeout is Connect with an explicit connection timeout
func ConnectTimeout(host string, port int, timeout time.Duration) (*Bulb, error) {
	if port == 0 {
		port = common.DefaultPort
	}
	addr := net.JoinHostPort(host, strconv.Itoa(port))
	transport, err := protocol.Dial(addr, timeout)
	if err != nil {
		return nil, err
	}
	return &Bulb{
		addr:    addr,
		session: protocol.NewSession(transport),
	}, nil
}

// Attach wraps an already-established connection
func Attach(conn net.Conn) *Bulb {
	return &Bulb{
		addr:    conn.RemoteAddr().String(),
		session: protocol.NewSession(protocol.Attach(conn)),
	}
}

// ConnectDiscovered upgrades a discovery snapshot to a live session by
// dialing its advertised control endpoint
func ConnectDiscovered(dev *discovery.Device) (*Bulb, error) {
	addr := dev.ControlAddr()
	if addr == `` {
		return nil, common.ErrNotFound
	}
	transport, err := protocol.Dial(addr, common.DefaultConnectTimeout)
	if err != nil {
		return nil, err
	}
	return &Bulb{
		addr:    addr,
		session: protocol.NewSession(transport),
	}, nil
}

// Addr returns the remote control address of this bulb
func (b *Bulb) Addr() string {
	return b.addr
}

// SetTimeout sets the per-command response timeout, zero disables it
func (b *Bulb) SetTimeout(timeout time.Duration) {
	b.session.SetTimeout(timeout)
}

// NoResponse switches the bulb to fire-and-forget: commands are written
// without waiting for a reply and return a nil result.  Useful on lossy
// links or in music mode where the bulb does not reply.  Returns the bulb
// for chaining.
func (b *Bulb) NoResponse() *Bulb {
	b.session.SetAwaitReply(false)
	return b
}

// GetResponse reverses NoResponse
func (b *Bulb) GetResponse() *Bulb {
	b.session.SetAwaitReply(true)
	return b
}

// NewSubscription returns a subscription delivering every Notification
// from this point onward.  Each subscription is independent; close it when
// done.
func (b *Bulb) NewSubscription() (*common.Subscription, error) {
	return b.session.NewSubscription()
}

// StartMusic reverses the connection roles so that subsequent commands
// bypass the bulb's rate limit: the bulb dials back to host and the
// accepted connection replaces the session transport.  See
// protocol.MusicConfig for fine-grained control via StartMusicConfig.
func (b *Bulb) StartMusic(host string) error {
	return b.session.StartMusic(protocol.MusicConfig{Host: host})
}

// StartMusicConfig is StartMusic with explicit listener configuration
func (b *Bulb) StartMusicConfig(cfg MusicConfig) error {
	return b.session.StartMusic(cfg)
}

// Close terminates the session.  Pending commands fail with
// common.ErrConnectionClosed and all subscriptions end.
func (b *Bulb) Close() error {
	return b.session.Close()
}

// GetProp retrieves the current values of the requested properties.  The
// answer follows the request order.
func (b *Bulb) GetProp(properties ...Property) ([]string, error) {
	params := make([]interface{}, len(properties))
	for i, p := range properties {
		params[i] = string(p)
	}
	return b.session.Send(`get_prop`, params...)
}

// SetPower switches the bulb on or off.  duration only applies with
// EffectSmooth, and mode selects the mode the bulb turns on into
// (ModeNormal keeps the current one).
func (b *Bulb) SetPower(power Power, effect Effect, duration time.Duration, mode Mode) error {
	_, err := b.session.Send(`set_power`, string(power), string(effect), duration.Milliseconds(), int(mode))
	return err
}

// BgSetPower is SetPower for the background light
func (b *Bulb) BgSetPower(power Power, effect Effect, duration time.Duration, mode Mode) error {
	_, err := b.session.Send(`bg_set_power`, string(power), string(effect), duration.Milliseconds(), int(mode))
	return err
}

// On switches the bulb on immediately
func (b *Bulb) On() error {
	return b.SetPower(PowerOn, EffectSudden, 0, ModeNormal)
}

// Off switches the bulb off immediately
func (b *Bulb) Off() error {
	return b.SetPower(PowerOff, EffectSudden, 0, ModeNormal)
}

// BgOn switches the background light on immediately
func (b *Bulb) BgOn() error {
	return b.BgSetPower(PowerOn, EffectSudden, 0, ModeNormal)
}

// BgOff switches the background light off immediately
func (b *Bulb) BgOff() error {
	return b.BgSetPower(PowerOff, EffectSudden, 0, ModeNormal)
}

// Toggle flips the power state
func (b *Bulb) Toggle() error {
	_, err := b.session.Send(`toggle`)
	return err
}

// BgToggle flips the background light power state
func (b *Bulb) BgToggle() error {
	_, err := b.session.Send(`bg_toggle`)
	return err
}

// DevToggle flips both the main and the background light power state
func (b *Bulb) DevToggle() error {
	_, err := b.session.Send(`dev_toggle`)
	return err
}

// SetCTAbx sets the color temperature in Kelvin (1700 to 6500, varies
// between models)
func (b *Bulb) SetCTAbx(ct uint16, effect Effect, duration time.Duration) error {
	_, err := b.session.Send(`set_ct_abx`, ct, string(effect), duration.Milliseconds())
	return err
}

// BgSetCTAbx is SetCTAbx for the background light
func (b *Bulb) BgSetCTAbx(ct uint16, effect Effect, duration time.Duration) error {
	_, err := b.session.Send(`bg_set_ct_abx`, ct, string(effect), duration.Milliseconds())
	return err
}

// SetRGB sets the color (0x000000 to 0xffffff)
func (b *Bulb) SetRGB(rgb uint32, effect Effect, duration time.Duration) error {
	_, err := b.session.Send(`set_rgb`, rgb, string(effect), duration.Milliseconds())
	return err
}

// BgSetRGB is SetRGB for the background light
func (b *Bulb) BgSetRGB(rgb uint32, effect Effect, duration time.Duration) error {
	_, err := b.session.Send(`bg_set_rgb`, rgb, string(effect), duration.Milliseconds())
	return err
}

// SetHSV sets the color by hue (0 to 359) and saturation (0 to 100)
func (b *Bulb) SetHSV(hue uint16, sat uint8, effect Effect, duration time.Duration) error {
	_, err := b.session.Send(`set_hsv`, hue, sat, string(effect), duration.Milliseconds())
	return err
}

// BgSetHSV is SetHSV for the background light
func (b *Bulb) BgSetHSV(hue uint16, sat uint8, effect Effect, duration time.Duration) error {
	_, err := b.session.Send(`bg_set_hsv`, hue, sat, string(effect), duration.Milliseconds())
	return err
}

// SetBright sets the brightness percentage (1 to 100)
func (b *Bulb) SetBright(brightness uint8, effect Effect, duration time.Duration) error {
	_, err := b.session.Send(`set_bright`, brightness, string(effect), duration.Milliseconds())
	return err
}

// BgSetBright is SetBright for the background light
func (b *Bulb) BgSetBright(brightness uint8, effect Effect, duration time.Duration) error {
	_, err := b.session.Send(`bg_set_bright`, brightness, string(effect), duration.Milliseconds())
	return err
}

// SetScene sets color, brightness and more in one command, regardless of
// the current power state.  The meaning of the values depends on class.
func (b *Bulb) SetScene(class Class, val1, val2, val3 uint64) error {
	_, err := b.session.Send(`set_scene`, string(class), val1, val2, val3)
	return err
}

// BgSetScene is SetScene for the background light
func (b *Bulb) BgSetScene(class Class, val1, val2, val3 uint64) error {
	_, err := b.session.Send(`bg_set_scene`, string(class), val1, val2, val3)
	return err
}

// StartColorFlow starts a color flow.  count is the number of steps to run
// before action applies, 0 means run forever.
func (b *Bulb) StartColorFlow(count uint8, action FlowAction, expression FlowExpression) error {
	_, err := b.session.Send(`start_cf`, count, int(action), expression.String())
	return err
}

// BgStartColorFlow is StartColorFlow for the background light
func (b *Bulb) BgStartColorFlow(count uint8, action FlowAction, expression FlowExpression) error {
	_, err := b.session.Send(`bg_start_cf`, count, int(action), expression.String())
	return err
}

// StopColorFlow stops the running color flow
func (b *Bulb) StopColorFlow() error {
	_, err := b.session.Send(`stop_cf`)
	return err
}

// BgStopColorFlow stops the running background color flow
func (b *Bulb) BgStopColorFlow() error {
	_, err := b.session.Send(`bg_stop_cf`)
	return err
}

// SetAdjust changes brightness, color temperature or color without knowing
// the current value.  When prop is AdjustPropColor the only valid action is
// AdjustActionCircle.
func (b *Bulb) SetAdjust(action AdjustAction, prop AdjustProp) error {
	_, err := b.session.Send(`set_adjust`, string(action), string(prop))
	return err
}

// BgSetAdjust is SetAdjust for the background light
func (b *Bulb) BgSetAdjust(action AdjustAction, prop AdjustProp) error {
	_, err := b.session.Send(`bg_set_adjust`, string(action), string(prop))
	return err
}

// AdjustBright adjusts brightness by percentage (-100 to 100)
func (b *Bulb) AdjustBright(percentage int8, duration time.Duration) error {
	_, err := b.session.Send(`adjust_bright`, percentage, duration.Milliseconds())
	return err
}

// BgAdjustBright is AdjustBright for the background light
func (b *Bulb) BgAdjustBright(percentage int8, duration time.Duration) error {
	_, err := b.session.Send(`bg_adjust_bright`, percentage, duration.Milliseconds())
	return err
}

// AdjustCT adjusts color temperature by percentage (-100 to 100)
func (b *Bulb) AdjustCT(percentage int8, duration time.Duration) error {
	_, err := b.session.Send(`adjust_ct`, percentage, duration.Milliseconds())
	return err
}

// BgAdjustCT is AdjustCT for the background light
func (b *Bulb) BgAdjustCT(percentage int8, duration time.Duration) error {
	_, err := b.session.Send(`bg_adjust_ct`, percentage, duration.Milliseconds())
	return err
}

// AdjustColor adjusts color by percentage (-100 to 100)
func (b *Bulb) AdjustColor(percentage int8, duration time.Duration) error {
	_, err := b.session.Send(`adjust_color`, percentage, duration.Milliseconds())
	return err
}

// BgAdjustColor is AdjustColor for the background light
func (b *Bulb) BgAdjustColor(percentage int8, duration time.Duration) error {
	_, err := b.session.Send(`bg_adjust_color`, percentage, duration.Milliseconds())
	return err
}

// SetDefault saves the current state to persistent memory, it becomes the
// power-on state after a hard power reset.  Only accepted while the bulb
// is on.
func (b *Bulb) SetDefault() error {
	_, err := b.session.Send(`set_default`)
	return err
}

// BgSetDefault is SetDefault for the background light
func (b *Bulb) BgSetDefault() error {
	_, err := b.session.Send(`bg_set_default`)
	return err
}

// SetName stores a name on the bulb, reported in discovery replies
func (b *Bulb) SetName(name string) error {
	_, err := b.session.Send(`set_name`, name)
	return err
}

// CronAdd starts a timer job, value is in minutes
func (b *Bulb) CronAdd(cronType CronType, value uint64) error {
	_, err := b.session.Send(`cron_add`, int(cronType), value)
	return err
}

// CronDel stops the current timer job
func (b *Bulb) CronDel(cronType CronType) error {
	_, err := b.session.Send(`cron_del`, int(cronType))
	return err
}

// CronGet reports the remaining minutes of the current timer job.  The
// cron_get response shape is awkward to parse, so the delayoff property is
// queried instead, which carries the same value.
func (b *Bulb) CronGet(cronType CronType) ([]string, error) {
	return b.GetProp(PropertyDelayOff)
}
