package packet_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Leixb/yeelight/common"
	"github.com/Leixb/yeelight/protocol/packet"
)

var _ = Describe("Packet", func() {
	Describe("encoding requests", func() {
		It("should serialize id, method and params on one terminated line", func() {
			req := &packet.Request{ID: 1, Method: `set_power`, Params: []interface{}{`on`, `smooth`, 500, 0}}
			Expect(string(req.Encode())).To(Equal(
				"{\"id\":1,\"method\":\"set_power\",\"params\":[\"on\",\"smooth\",500,0]}\r\n"))
		})

		It("should serialize an empty parameter list as an empty array", func() {
			req := &packet.Request{ID: 3, Method: `toggle`}
			Expect(string(req.Encode())).To(Equal(
				"{\"id\":3,\"method\":\"toggle\",\"params\":[]}\r\n"))
		})
	})

	Describe("decoding frames", func() {
		It("should classify a frame with an id as a response", func() {
			frame, err := packet.Decode([]byte(`{"id":1, "result":["ok"]}`))
			Expect(err).NotTo(HaveOccurred())
			Expect(frame.IsResponse()).To(BeTrue())
			Expect(frame.ID).To(Equal(uint64(1)))
			Expect(frame.Result).To(Equal([]string{`ok`}))
			Expect(frame.Err).To(BeNil())
		})

		It("should decode an error response", func() {
			frame, err := packet.Decode([]byte(`{"id":2, "error":{"code":-1, "message":"unsupported method"}}`))
			Expect(err).NotTo(HaveOccurred())
			Expect(frame.IsResponse()).To(BeTrue())
			Expect(frame.Err).NotTo(BeNil())
			Expect(frame.Err.Code).To(Equal(-1))
			Expect(frame.Err.Message).To(Equal(`unsupported method`))
		})

		It("should classify a frame without an id as a notification", func() {
			frame, err := packet.Decode([]byte(`{"method":"props","params":{"power":"on","bright":"10"}}`))
			Expect(err).NotTo(HaveOccurred())
			Expect(frame.IsResponse()).To(BeFalse())
			n := frame.Notification()
			Expect(n).NotTo(BeNil())
			Expect(n.Method).To(Equal(`props`))
			Expect(n.Params).To(HaveKeyWithValue(`power`, `on`))
			Expect(n.Params).To(HaveKeyWithValue(`bright`, `10`))
		})

		It("should render numeric values as their literal text", func() {
			frame, err := packet.Decode([]byte(`{"method":"props","params":{"bright":42}}`))
			Expect(err).NotTo(HaveOccurred())
			Expect(frame.Notification().Params).To(HaveKeyWithValue(`bright`, `42`))
		})

		It("should tolerate the line terminator", func() {
			frame, err := packet.Decode([]byte("{\"id\":7, \"result\":[\"ok\"]}\r\n"))
			Expect(err).NotTo(HaveOccurred())
			Expect(frame.ID).To(Equal(uint64(7)))
		})

		It("should reject invalid JSON", func() {
			_, err := packet.Decode([]byte(`{"empty"}`))
			Expect(err).To(MatchError(common.ErrMalformedFrame))
		})

		It("should reject a response with neither result nor error", func() {
			_, err := packet.Decode([]byte(`{"id":1}`))
			Expect(err).To(MatchError(common.ErrMalformedFrame))
		})

		It("should reject a notification without params", func() {
			_, err := packet.Decode([]byte(`{"method":"props"}`))
			Expect(err).To(MatchError(common.ErrMalformedFrame))
		})

		It("should reject a notification without a method", func() {
			_, err := packet.Decode([]byte(`{"params":{"power":"on"}}`))
			Expect(err).To(MatchError(common.ErrMalformedFrame))
		})
	})

	Describe("round-tripping", func() {
		It("should classify an encoded request echoed back as a response shape by its id alone", func() {
			req := &packet.Request{ID: 9, Method: `get_prop`, Params: []interface{}{`power`}}
			frame, err := packet.Decode(req.Encode())
			// A request has an id but no result or error, so it must not
			// pass response validation.
			Expect(err).To(MatchError(common.ErrMalformedFrame))
			Expect(frame).To(BeNil())
		})
	})
})
