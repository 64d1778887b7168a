// Package sandboxcmd implements the CLI's `jstz sandbox start`
// subcommand, a thin wrapper handing off to the sandbox package's
// process orchestrator.
//
// Grounded on original_source/crates/jstz_cli/src/sandbox/daemon.rs.
package sandboxcmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"gopkg.in/urfave/cli.v1"

	"github.com/jstz-dev/jstz/sandbox"
)

// StartCommand returns the `jstz sandbox start` subcommand.
func StartCommand() cli.Command {
	return cli.Command{
		Name:  "start",
		Usage: "Start the local sandbox (octez-node and a baking loop)",
		Flags: []cli.Flag{
			cli.StringFlag{Name: "data-dir", Value: ".jstz-sandbox", Usage: "sandbox data directory"},
			cli.StringFlag{Name: "baker", Usage: "account alias to bake with"},
		},
		Action: func(c *cli.Context) error {
			return run(c.String("data-dir"), c.String("baker"))
		},
	}
}

func run(dataDir, baker string) error {
	sb, err := sandbox.New(sandbox.Options{DataDir: dataDir, BakerAddress: baker})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	return sb.Run(ctx)
}
