package yeelight_test

import (
	"bufio"
	"fmt"
	"net"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Leixb/yeelight"
	"github.com/Leixb/yeelight/common"
)

// fakeBulb answers the device end of an in-memory connection, asserting the
// exact bytes each command puts on the wire.
type fakeBulb struct {
	conn    net.Conn
	scanner *bufio.Scanner
}

func newFakeBulb() (*yeelight.Bulb, *fakeBulb) {
	client, device := net.Pipe()
	return yeelight.Attach(client), &fakeBulb{conn: device, scanner: bufio.NewScanner(device)}
}

// expect reads one frame and asserts its exact wire form, then answers with
// an ok result.
func (b *fakeBulb) expect(frame string) {
	b.expectReply(frame, `{"id":%d,"result":["ok"]}`)
}

func (b *fakeBulb) expectReply(frame, replyFormat string) {
	Expect(b.scanner.Scan()).To(BeTrue())
	Expect(b.scanner.Text()).To(Equal(frame))

	var id uint64
	_, err := fmt.Sscanf(frame, `{"id":%d,`, &id)
	Expect(err).NotTo(HaveOccurred())
	b.write(fmt.Sprintf(replyFormat, id))
}

func (b *fakeBulb) write(frame string) {
	_, err := b.conn.Write([]byte(frame + "\r\n"))
	Expect(err).NotTo(HaveOccurred())
}

var _ = Describe(`Bulb`, func() {
	var (
		bulb   *yeelight.Bulb
		device *fakeBulb
	)

	BeforeEach(func() {
		bulb, device = newFakeBulb()
	})

	AfterEach(func() {
		_ = bulb.Close()
		_ = device.conn.Close()
	})

	// run issues the command in the background while the device side scripts
	// the conversation on the main goroutine.
	run := func(command func() error) chan error {
		errs := make(chan error, 1)
		go func() {
			defer GinkgoRecover()
			errs <- command()
		}()
		return errs
	}

	Describe(`command wire format`, func() {
		It(`encodes get_prop with the property names in request order`, func() {
			results := make(chan []string, 1)
			go func() {
				defer GinkgoRecover()
				values, err := bulb.GetProp(yeelight.PropertyName, yeelight.PropertyPower)
				Expect(err).NotTo(HaveOccurred())
				results <- values
			}()

			device.expectReply(
				`{"id":1,"method":"get_prop","params":["name","power"]}`,
				`{"id":%d,"result":["desk","on"]}`,
			)
			Eventually(results).Should(Receive(Equal([]string{`desk`, `on`})))
		})

		It(`encodes set_power with effect, duration in ms and mode`, func() {
			errs := run(func() error {
				return bulb.SetPower(yeelight.PowerOn, yeelight.EffectSmooth, 500*time.Millisecond, yeelight.ModeNormal)
			})
			device.expect(`{"id":1,"method":"set_power","params":["on","smooth",500,0]}`)
			Eventually(errs).Should(Receive(BeNil()))
		})

		It(`encodes toggle with empty params`, func() {
			errs := run(bulb.Toggle)
			device.expect(`{"id":1,"method":"toggle","params":[]}`)
			Eventually(errs).Should(Receive(BeNil()))
		})

		It(`encodes set_rgb with the color as a number`, func() {
			errs := run(func() error {
				return bulb.SetRGB(0xff0000, yeelight.EffectSudden, 0)
			})
			device.expect(`{"id":1,"method":"set_rgb","params":[16711680,"sudden",0]}`)
			Eventually(errs).Should(Receive(BeNil()))
		})

		It(`encodes set_hsv with hue and saturation`, func() {
			errs := run(func() error {
				return bulb.SetHSV(320, 70, yeelight.EffectSmooth, time.Second)
			})
			device.expect(`{"id":1,"method":"set_hsv","params":[320,70,"smooth",1000]}`)
			Eventually(errs).Should(Receive(BeNil()))
		})

		It(`encodes background light variants with the bg_ prefix`, func() {
			errs := run(func() error {
				return bulb.BgSetBright(25, yeelight.EffectSudden, 0)
			})
			device.expect(`{"id":1,"method":"bg_set_bright","params":[25,"sudden",0]}`)
			Eventually(errs).Should(Receive(BeNil()))
		})

		It(`encodes a color flow expression as a single string parameter`, func() {
			expression := yeelight.FlowExpression{
				yeelight.FlowRGB(500*time.Millisecond, 0xff0000, 100),
				yeelight.FlowSleep(time.Second),
			}
			errs := run(func() error {
				return bulb.StartColorFlow(4, yeelight.FlowActionRecover, expression)
			})
			device.expect(`{"id":1,"method":"start_cf","params":[4,0,"500,1,16711680,100,1000,7,0,-1"]}`)
			Eventually(errs).Should(Receive(BeNil()))
		})

		It(`encodes set_scene with its class and values`, func() {
			errs := run(func() error {
				return bulb.SetScene(yeelight.ClassColor, 65280, 70, 0)
			})
			device.expect(`{"id":1,"method":"set_scene","params":["color",65280,70,0]}`)
			Eventually(errs).Should(Receive(BeNil()))
		})

		It(`encodes set_adjust with action and property`, func() {
			errs := run(func() error {
				return bulb.SetAdjust(yeelight.AdjustActionCircle, yeelight.AdjustPropColor)
			})
			device.expect(`{"id":1,"method":"set_adjust","params":["circle","color"]}`)
			Eventually(errs).Should(Receive(BeNil()))
		})

		It(`encodes cron_add with the timer type and minutes`, func() {
			errs := run(func() error {
				return bulb.CronAdd(yeelight.CronTypeOff, 15)
			})
			device.expect(`{"id":1,"method":"cron_add","params":[0,15]}`)
			Eventually(errs).Should(Receive(BeNil()))
		})

		It(`queries the delayoff property for cron_get`, func() {
			results := make(chan []string, 1)
			go func() {
				defer GinkgoRecover()
				values, err := bulb.CronGet(yeelight.CronTypeOff)
				Expect(err).NotTo(HaveOccurred())
				results <- values
			}()

			device.expectReply(
				`{"id":1,"method":"get_prop","params":["delayoff"]}`,
				`{"id":%d,"result":["15"]}`,
			)
			Eventually(results).Should(Receive(Equal([]string{`15`})))
		})
	})

	It(`surfaces a bulb error as a DeviceError`, func() {
		errs := run(bulb.SetDefault)
		device.expectReply(
			`{"id":1,"method":"set_default","params":[]}`,
			`{"id":%d,"error":{"code":-5000,"message":"general error"}}`,
		)

		var err error
		Eventually(errs).Should(Receive(&err))
		var devErr *common.DeviceError
		Expect(err).To(BeAssignableToTypeOf(devErr))
		Expect(err.Error()).To(Equal(`bulb response error: general error (code -5000)`))
	})

	It(`returns immediately in fire-and-forget mode`, func() {
		errs := run(bulb.NoResponse().Toggle)
		Expect(device.scanner.Scan()).To(BeTrue())
		Expect(device.scanner.Text()).To(Equal(`{"id":1,"method":"toggle","params":[]}`))
		Eventually(errs).Should(Receive(BeNil()))

		// GetResponse reverses it.
		errs = run(bulb.GetResponse().Toggle)
		device.expect(`{"id":2,"method":"toggle","params":[]}`)
		Eventually(errs).Should(Receive(BeNil()))
	})

	It(`delivers property notifications independently of commands`, func() {
		sub, err := bulb.NewSubscription()
		Expect(err).NotTo(HaveOccurred())

		errs := run(func() error {
			return bulb.SetPower(yeelight.PowerOn, yeelight.EffectSudden, 0, yeelight.ModeNormal)
		})

		// The state change notification may arrive before the command
		// response; neither interferes with the other.
		Expect(device.scanner.Scan()).To(BeTrue())
		Expect(device.scanner.Text()).To(Equal(`{"id":1,"method":"set_power","params":["on","sudden",0,0]}`))
		device.write(`{"method":"props","params":{"power":"on"}}`)
		device.write(`{"id":1,"result":["ok"]}`)

		Eventually(errs).Should(Receive(BeNil()))
		var event interface{}
		Eventually(sub.Events()).Should(Receive(&event))
		Expect(event.(yeelight.Notification).Params).To(HaveKeyWithValue(`power`, `on`))
	})

	It(`fails commands after Close`, func() {
		Expect(bulb.Close()).To(Succeed())
		Eventually(func() error {
			return bulb.Toggle()
		}).Should(MatchError(common.ErrConnectionClosed))
	})
})
