// Command jstz is the runtime's CLI: sandbox lifecycle, bridge
// deposits, and log tailing, wired together the way the teacher's
// cmd/geth main.go assembles an urfave/cli.v1 App from subcommands.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/ethereum/go-ethereum/log"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"gopkg.in/urfave/cli.v1"

	"github.com/jstz-dev/jstz/cli/bridge"
	"github.com/jstz-dev/jstz/cli/logs"
	"github.com/jstz-dev/jstz/cli/sandboxcmd"
)

var app = cli.NewApp()

func init() {
	app.Name = "jstz"
	app.Usage = "command-line interface for the jstz rollup runtime"
	app.Commands = []cli.Command{
		bridgeCommand,
		logsCommand,
		sandboxCommand,
	}
	app.Flags = []cli.Flag{
		cli.BoolFlag{Name: "verbose", Usage: "enable debug logging"},
	}
	app.Before = func(c *cli.Context) error {
		level := log.LvlInfo
		if c.GlobalBool("verbose") {
			level = log.LvlDebug
		}
		usesColor := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
		output := io.Writer(os.Stderr)
		if usesColor {
			output = colorable.NewColorableStderr()
		}
		log.Root().SetHandler(log.LvlFilterHandler(level, log.StreamHandler(output, log.TerminalFormat(usesColor))))
		return nil
	}
}

var bridgeCommand = cli.Command{
	Name:  "bridge",
	Usage: "Move funds between Layer 1 and the rollup",
	Subcommands: []cli.Command{
		bridge.DepositCommand(),
	},
}

var logsCommand = cli.Command{
	Name:  "logs",
	Usage: "Inspect rollup log output",
	Subcommands: []cli.Command{
		logs.TraceCommand(),
	},
}

var sandboxCommand = cli.Command{
	Name:  "sandbox",
	Usage: "Manage the local development sandbox",
	Subcommands: []cli.Command{
		sandboxcmd.StartCommand(),
	},
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
