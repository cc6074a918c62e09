package discovery_test

import (
	"net"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Leixb/yeelight/discovery"
)

// reply renders a discovery reply datagram from header pairs.
func reply(headers ...string) []byte {
	lines := append([]string{`HTTP/1.1 200 OK`}, headers...)
	return []byte(strings.Join(lines, "\r\n") + "\r\n")
}

// startResponder binds a loopback UDP socket that answers the first search
// probe it receives with the given datagrams, sent in order.
func startResponder(replies ...[]byte) *net.UDPAddr {
	socket, err := net.ListenUDP(`udp4`, &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	Expect(err).NotTo(HaveOccurred())

	go func() {
		defer GinkgoRecover()
		defer socket.Close()

		buf := make([]byte, 2048)
		n, src, err := socket.ReadFromUDP(buf)
		Expect(err).NotTo(HaveOccurred())
		probe := string(buf[:n])
		Expect(probe).To(HavePrefix(`M-SEARCH * HTTP/1.1`))
		Expect(probe).To(ContainSubstring(`ST: wifi_bulb`))

		for _, datagram := range replies {
			_, err := socket.WriteToUDP(datagram, src)
			Expect(err).NotTo(HaveOccurred())
		}
	}()

	return socket.LocalAddr().(*net.UDPAddr)
}

var _ = Describe(`Discover`, func() {
	It(`collects one device per replying bulb`, func() {
		addr := startResponder(
			reply(`id: 0x0000000002dfb19a`, `Location: yeelight://192.168.1.239:55443`, `model: color`, `power: on`),
			reply(`id: 0x0000000004eb27c1`, `Location: yeelight://192.168.1.240:55443`, `model: mono`),
		)

		d := &discovery.Discoverer{Addr: addr.String(), Window: 300 * time.Millisecond}
		devices, err := d.Discover()
		Expect(err).NotTo(HaveOccurred())
		Expect(devices).To(HaveLen(2))

		Expect(devices[0].ID).To(Equal(`0x0000000002dfb19a`))
		Expect(devices[0].ControlAddr()).To(Equal(`192.168.1.239:55443`))
		Expect(devices[0].Properties).To(HaveKeyWithValue(`model`, `color`))
		Expect(devices[0].Properties).To(HaveKeyWithValue(`power`, `on`))
		Expect(devices[1].ID).To(Equal(`0x0000000004eb27c1`))
		Expect(devices[1].ControlAddr()).To(Equal(`192.168.1.240:55443`))
	})

	It(`collapses duplicate replies onto one entry with the latest metadata`, func() {
		addr := startResponder(
			reply(`id: 0x1`, `Location: yeelight://192.168.1.239:55443`, `bright: 20`),
			reply(`id: 0x2`, `Location: yeelight://192.168.1.240:55443`),
			reply(`id: 0x1`, `Location: yeelight://192.168.1.239:55443`, `bright: 80`),
		)

		d := &discovery.Discoverer{Addr: addr.String(), Window: 300 * time.Millisecond}
		devices, err := d.Discover()
		Expect(err).NotTo(HaveOccurred())
		Expect(devices).To(HaveLen(2))

		// First arrival keeps its position, later metadata wins.
		Expect(devices[0].ID).To(Equal(`0x1`))
		Expect(devices[0].Properties).To(HaveKeyWithValue(`bright`, `80`))
		Expect(devices[1].ID).To(Equal(`0x2`))
	})

	It(`skips malformed replies`, func() {
		addr := startResponder(
			[]byte("NOTIFY * HTTP/1.1\r\nid: 0xbad\r\n"),
			reply(`Location: yeelight://192.168.1.239:55443`),
			reply(`id: 0x1`, `Location: yeelight://192.168.1.239:55443`),
		)

		d := &discovery.Discoverer{Addr: addr.String(), Window: 300 * time.Millisecond}
		devices, err := d.Discover()
		Expect(err).NotTo(HaveOccurred())
		Expect(devices).To(HaveLen(1))
		Expect(devices[0].ID).To(Equal(`0x1`))
	})

	It(`returns empty without error when nothing answers`, func() {
		addr := startResponder()

		d := &discovery.Discoverer{Addr: addr.String(), Window: 100 * time.Millisecond}
		devices, err := d.Discover()
		Expect(err).NotTo(HaveOccurred())
		Expect(devices).To(BeEmpty())
	})
})
