// Command yeelight allows performing basic operations on Yeelight bulbs over
// the LAN
package main

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"github.com/Leixb/yeelight"
	"github.com/Leixb/yeelight/common"
)

var (
	bulb *yeelight.Bulb

	flagTimeout  time.Duration
	flagLogLevel string
	flagHost     string
	flagPort     int

	logger = logrus.New()
	app    = &cobra.Command{
		Use: `yeelight`,
		PersistentPreRun: func(c *cobra.Command, args []string) {
			setLogger()
		},
	}

	cmdGenerateBashComp = &cobra.Command{
		Use:   `bashcomp <filename>`,
		Short: "generate bash completion at <file>",
		Run:   generateBashComp,
	}

	cmdGenerateDocs = &cobra.Command{
		Use:   `docs <path>`,
		Short: "generate markdown documentation at <path>",
		Run:   generateDocs,
	}
)

func init() {
	yeelight.SetLogger(logger)

	app.PersistentFlags().DurationVarP(&flagTimeout, `timeout`, `t`, common.DefaultTimeout, `timeout for all operations`)
	app.PersistentFlags().StringVarP(&flagLogLevel, `log-level`, `L`, `info`, `log level, one of: [debug,info,warn,error]`)
	app.PersistentFlags().StringVarP(&flagHost, `host`, `H`, ``, `bulb address (skips discovery)`)
	app.PersistentFlags().IntVarP(&flagPort, `port`, `p`, common.DefaultPort, `bulb control port`)

	app.AddCommand(cmdDiscover)
	app.AddCommand(cmdOn)
	app.AddCommand(cmdOff)
	app.AddCommand(cmdToggle)
	app.AddCommand(cmdProp)
	app.AddCommand(cmdRGB)
	app.AddCommand(cmdHSV)
	app.AddCommand(cmdCT)
	app.AddCommand(cmdBright)
	app.AddCommand(cmdName)
	app.AddCommand(cmdListen)
	app.AddCommand(cmdMusic)
	app.AddCommand(cmdGenerateBashComp)
	app.AddCommand(cmdGenerateDocs)
}

func main() {
	if err := app.Execute(); err != nil {
		os.Exit(1)
	}
}

// setupBulb connects to the bulb given by --host, or to the first bulb found
// on the network when no host is set.
func setupBulb(c *cobra.Command, args []string) {
	var err error

	if flagHost != `` {
		bulb, err = yeelight.ConnectTimeout(flagHost, flagPort, flagTimeout)
		if err != nil {
			logger.WithField(`error`, err).Fatalln(`Failed connecting to bulb`)
		}
		bulb.SetTimeout(flagTimeout)
		return
	}

	devices, err := yeelight.Discover(flagTimeout)
	if err != nil {
		logger.WithField(`error`, err).Fatalln(`Discovery failed`)
	}
	if len(devices) == 0 {
		logger.Fatalln(`No bulbs found, use --host to target one directly`)
	}
	bulb, err = yeelight.ConnectDiscovered(devices[0])
	if err != nil {
		logger.WithField(`error`, err).Fatalln(`Failed connecting to bulb`)
	}
	bulb.SetTimeout(flagTimeout)
}

func closeBulb(c *cobra.Command, args []string) {
	if err := bulb.Close(); err != nil {
		logger.WithField(`error`, err).Fatalln(`Failed closing bulb`)
	}
}

func generateBashComp(c *cobra.Command, args []string) {
	if len(args) != 1 {
		_ = c.Usage()
		fmt.Println()
		logger.Fatalln(`Missing filename`)
	}

	buf := new(bytes.Buffer)
	f, err := os.Create(args[0])
	if err != nil {
		logger.WithFields(logrus.Fields{
			`filename`: args[0],
			`error`:    err,
		}).Fatalln(`Could not open file`)
	}
	_ = app.GenBashCompletion(buf)
	_, _ = buf.WriteTo(f)
}

func generateDocs(c *cobra.Command, args []string) {
	if len(args) != 1 {
		_ = c.Usage()
		fmt.Println()
		logger.Fatalln(`Missing output path`)
	}

	path := args[0]
	if path[len(path)-1] != os.PathSeparator {
		path += string(os.PathSeparator)
	}
	_ = doc.GenMarkdownTree(app, path)
}

func setLogger() {
	switch flagLogLevel {
	case `debug`:
		logger.Level = logrus.DebugLevel
	case `info`:
		logger.Level = logrus.InfoLevel
	case `warn`:
		logger.Level = logrus.WarnLevel
	case `error`:
		logger.Level = logrus.ErrorLevel
	default:
		logger.Level = logrus.InfoLevel
	}
}
