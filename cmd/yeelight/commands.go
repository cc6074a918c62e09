package main

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Leixb/yeelight"
)

var (
	flagEffect   string
	flagDuration time.Duration

	cmdDiscover = &cobra.Command{
		Use:   `discover`,
		Short: "list bulbs found on the local network",
		Run:   discover,
	}

	cmdOn = &cobra.Command{
		Use:     `on`,
		Short:   "turn the bulb on",
		PreRun:  setupBulb,
		PostRun: closeBulb,
		Run: func(c *cobra.Command, args []string) {
			run(bulb.SetPower(yeelight.PowerOn, effect(), flagDuration, yeelight.ModeNormal))
		},
	}

	cmdOff = &cobra.Command{
		Use:     `off`,
		Short:   "turn the bulb off",
		PreRun:  setupBulb,
		PostRun: closeBulb,
		Run: func(c *cobra.Command, args []string) {
			run(bulb.SetPower(yeelight.PowerOff, effect(), flagDuration, yeelight.ModeNormal))
		},
	}

	cmdToggle = &cobra.Command{
		Use:     `toggle`,
		Short:   "toggle the bulb power state",
		PreRun:  setupBulb,
		PostRun: closeBulb,
		Run: func(c *cobra.Command, args []string) {
			run(bulb.Toggle())
		},
	}

	cmdProp = &cobra.Command{
		Use:     `prop <name> [name...]`,
		Short:   "query bulb properties, e.g. power bright ct rgb",
		PreRun:  setupBulb,
		PostRun: closeBulb,
		Run:     prop,
	}

	cmdRGB = &cobra.Command{
		Use:     `rgb <color>`,
		Short:   "set the color, hex (ff0000) or decimal",
		PreRun:  setupBulb,
		PostRun: closeBulb,
		Run:     rgb,
	}

	cmdHSV = &cobra.Command{
		Use:     `hsv <hue> <sat>`,
		Short:   "set the color by hue (0-359) and saturation (0-100)",
		PreRun:  setupBulb,
		PostRun: closeBulb,
		Run:     hsv,
	}

	cmdCT = &cobra.Command{
		Use:     `ct <kelvin>`,
		Short:   "set the color temperature (1700-6500)",
		PreRun:  setupBulb,
		PostRun: closeBulb,
		Run:     ct,
	}

	cmdBright = &cobra.Command{
		Use:     `bright <percent>`,
		Short:   "set the brightness (1-100)",
		PreRun:  setupBulb,
		PostRun: closeBulb,
		Run:     bright,
	}

	cmdName = &cobra.Command{
		Use:     `name <name>`,
		Short:   "store a name on the bulb",
		PreRun:  setupBulb,
		PostRun: closeBulb,
		Run:     name,
	}

	cmdListen = &cobra.Command{
		Use:     `listen`,
		Short:   "print state change notifications until interrupted",
		PreRun:  setupBulb,
		PostRun: closeBulb,
		Run:     listen,
	}

	cmdMusic = &cobra.Command{
		Use:     `music <color> [color...]`,
		Short:   "enter music mode and cycle colors until interrupted",
		PreRun:  setupBulb,
		PostRun: closeBulb,
		Run:     music,
	}
)

func init() {
	for _, c := range []*cobra.Command{cmdOn, cmdOff, cmdRGB, cmdHSV, cmdCT, cmdBright, cmdMusic} {
		c.Flags().StringVarP(&flagEffect, `effect`, `e`, `smooth`, `transition effect, sudden or smooth`)
		c.Flags().DurationVarP(&flagDuration, `duration`, `d`, 500*time.Millisecond, `smooth transition duration`)
	}
}

func run(err error) {
	if err != nil {
		logger.WithField(`error`, err).Fatalln(`Command failed`)
	}
}

func effect() yeelight.Effect {
	if flagEffect == `sudden` {
		return yeelight.EffectSudden
	}
	return yeelight.EffectSmooth
}

func discover(c *cobra.Command, args []string) {
	devices, err := yeelight.Discover(flagTimeout)
	if err != nil {
		logger.WithField(`error`, err).Fatalln(`Discovery failed`)
	}
	for _, dev := range devices {
		fmt.Printf("%s\t%s\t%s\t%s\n", dev.ID, dev.ControlAddr(), dev.Properties[`model`], dev.Properties[`power`])
	}
}

func prop(c *cobra.Command, args []string) {
	if len(args) == 0 {
		_ = c.Usage()
		logger.Fatalln(`Missing property names`)
	}

	properties := make([]yeelight.Property, len(args))
	for i, arg := range args {
		properties[i] = yeelight.Property(arg)
	}
	values, err := bulb.GetProp(properties...)
	if err != nil {
		logger.WithField(`error`, err).Fatalln(`Query failed`)
	}
	for i, value := range values {
		fmt.Printf("%s: %s\n", args[i], value)
	}
}

func rgb(c *cobra.Command, args []string) {
	if len(args) != 1 {
		_ = c.Usage()
		logger.Fatalln(`Missing color`)
	}
	run(bulb.SetRGB(parseColor(args[0]), effect(), flagDuration))
}

func hsv(c *cobra.Command, args []string) {
	if len(args) != 2 {
		_ = c.Usage()
		logger.Fatalln(`Expected hue and saturation`)
	}
	hue, err := strconv.ParseUint(args[0], 10, 16)
	if err != nil || hue > 359 {
		logger.Fatalln(`Hue must be 0-359`)
	}
	sat, err := strconv.ParseUint(args[1], 10, 8)
	if err != nil || sat > 100 {
		logger.Fatalln(`Saturation must be 0-100`)
	}
	run(bulb.SetHSV(uint16(hue), uint8(sat), effect(), flagDuration))
}

func ct(c *cobra.Command, args []string) {
	if len(args) != 1 {
		_ = c.Usage()
		logger.Fatalln(`Missing color temperature`)
	}
	kelvin, err := strconv.ParseUint(args[0], 10, 16)
	if err != nil {
		logger.Fatalln(`Color temperature must be a number`)
	}
	run(bulb.SetCTAbx(uint16(kelvin), effect(), flagDuration))
}

func bright(c *cobra.Command, args []string) {
	if len(args) != 1 {
		_ = c.Usage()
		logger.Fatalln(`Missing brightness`)
	}
	percent, err := strconv.ParseUint(args[0], 10, 8)
	if err != nil || percent == 0 || percent > 100 {
		logger.Fatalln(`Brightness must be 1-100`)
	}
	run(bulb.SetBright(uint8(percent), effect(), flagDuration))
}

func name(c *cobra.Command, args []string) {
	if len(args) != 1 {
		_ = c.Usage()
		logger.Fatalln(`Missing name`)
	}
	run(bulb.SetName(args[0]))
}

func listen(c *cobra.Command, args []string) {
	sub, err := bulb.NewSubscription()
	if err != nil {
		logger.WithField(`error`, err).Fatalln(`Failed subscribing`)
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	logger.Infof(`Listening for notifications from %s`, bulb.Addr())

	for {
		select {
		case event, ok := <-sub.Events():
			if !ok {
				logger.Fatalln(`Connection closed`)
			}
			notification, ok := event.(yeelight.Notification)
			if !ok {
				continue
			}
			for key, value := range notification.Params {
				fmt.Printf("%s: %s\n", key, value)
			}
		case <-interrupt:
			return
		}
	}
}

func music(c *cobra.Command, args []string) {
	if len(args) == 0 {
		_ = c.Usage()
		logger.Fatalln(`Missing colors`)
	}

	colors := make([]uint32, len(args))
	for i, arg := range args {
		colors[i] = parseColor(arg)
	}

	if err := bulb.StartMusic(``); err != nil {
		logger.WithField(`error`, err).Fatalln(`Failed entering music mode`)
	}
	logger.Infoln(`Music mode active, cycling colors`)

	// The bulb does not answer over the music connection.
	bulb.NoResponse()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	ticker := time.NewTicker(flagDuration)
	defer ticker.Stop()

	for i := 0; ; i++ {
		select {
		case <-ticker.C:
			run(bulb.SetRGB(colors[i%len(colors)], effect(), flagDuration))
		case <-interrupt:
			return
		}
	}
}

func parseColor(arg string) uint32 {
	arg = strings.TrimPrefix(strings.ToLower(arg), `0x`)
	if value, err := strconv.ParseUint(arg, 16, 32); err == nil && value <= 0xffffff {
		return uint32(value)
	}
	if value, err := strconv.ParseUint(arg, 10, 32); err == nil && value <= 0xffffff {
		return uint32(value)
	}
	logger.WithField(`color`, arg).Fatalln(`Invalid color`)
	return 0
}
