// Package bridge implements the CLI's bridge subcommands, which move
// funds between Layer 1 and the rollup via octez-client contract calls
// rather than through the kernel's own message dispatch.
//
// Grounded on original_source/crates/jstz_cli/src/bridge/{mod,deposit}.rs.
package bridge

import (
	"encoding/hex"
	"fmt"

	"github.com/ethereum/go-ethereum/log"
	"gopkg.in/urfave/cli.v1"

	"github.com/jstz-dev/jstz/config"
	"github.com/jstz-dev/jstz/octez"
)

const bridgeContractAlias = "jstz_bridge"

// DepositCommand returns the `jstz bridge deposit` subcommand.
func DepositCommand() cli.Command {
	return cli.Command{
		Name:  "deposit",
		Usage: "Deposit CTEZ from a Layer 1 account into a rollup account",
		Flags: []cli.Flag{
			cli.StringFlag{Name: "from", Usage: "Layer 1 source account alias"},
			cli.StringFlag{Name: "to", Usage: "rollup destination address or alias"},
			cli.Uint64Flag{Name: "amount", Usage: "amount in mutez"},
		},
		Action: func(c *cli.Context) error {
			return runDeposit(c.String("from"), c.String("to"), c.Uint64("amount"))
		},
	}
}

func runDeposit(from, to string, amount uint64) error {
	path, err := config.DefaultPath()
	if err != nil {
		return err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("bridge: loading config: %w", err)
	}

	addr, err := cfg.ResolveAddress(to)
	if err != nil {
		return fmt.Errorf("bridge: resolving %q: %w", to, err)
	}
	log.Debug("resolved deposit destination", "to", addr)

	endpoint := "http://127.0.0.1:8732"
	if net := cfg.ActiveNetwork(); net != nil {
		endpoint = net.OctezNodeRPC
	} else if cfg.Sandbox != nil {
		endpoint = fmt.Sprintf("http://127.0.0.1:%d", cfg.Sandbox.OctezNodePort)
	}

	client := octez.New(endpoint)
	arg := fmt.Sprintf("(Pair %d 0x%s)", amount, hex.EncodeToString([]byte(addr)))
	if err := client.CallContract(from, bridgeContractAlias, "deposit", arg); err != nil {
		return fmt.Errorf("bridge: deposit call failed: %w", err)
	}

	log.Info("deposited", "amount", amount, "to", addr)
	return nil
}
