package yeelight_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Leixb/yeelight"
)

var _ = Describe(`FlowExpression`, func() {
	It(`serializes one step as duration, mode, value, brightness`, func() {
		Expect(yeelight.FlowRGB(500*time.Millisecond, 0x00ff00, 100).String()).
			To(Equal(`500,1,65280,100`))
		Expect(yeelight.FlowCT(2*time.Second, 2700, 50).String()).
			To(Equal(`2000,2,2700,50`))
	})

	It(`keeps the previous brightness while sleeping`, func() {
		Expect(yeelight.FlowSleep(time.Second).String()).To(Equal(`1000,7,0,-1`))
	})

	It(`joins steps into a single flat expression`, func() {
		expression := yeelight.FlowExpression{
			yeelight.FlowRGB(time.Second, 0xff0000, 100),
			yeelight.FlowSleep(500 * time.Millisecond),
			yeelight.FlowCT(time.Second, 5000, 1),
		}
		Expect(expression.String()).To(Equal(`1000,1,16711680,100,500,7,0,-1,1000,2,5000,1`))
	})

	It(`serializes an empty expression to an empty string`, func() {
		Expect(yeelight.FlowExpression{}.String()).To(Equal(``))
	})
})
