// Command jstz-node runs the HTTP-facing companion service: the SSE
// log stream and operation-receipt lookup described in package node.
package main

import (
	"context"
	"flag"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/log"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"

	"github.com/jstz-dev/jstz/node"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:8933", "listen address")
	kernelLog := flag.String("kernel-log", "logs/kernel.log", "path to the kernel's debug log")
	flag.Parse()

	usesColor := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	output := io.Writer(os.Stderr)
	if usesColor {
		output = colorable.NewColorableStderr()
	}
	log.Root().SetHandler(log.LvlFilterHandler(log.LvlInfo, log.StreamHandler(output, log.TerminalFormat(usesColor))))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	broadcaster := node.NewBroadcaster()
	go func() {
		if err := broadcaster.TailKernelLog(ctx, *kernelLog); err != nil {
			log.Warn("kernel log tailer stopped", "err", err)
		}
	}()

	receipts := newMemReceiptStore()
	srv := node.New(broadcaster, receipts)

	log.Info("jstz-node listening", "addr", *addr)
	if err := node.ListenAndServe(ctx, *addr, srv); err != nil {
		log.Crit("jstz-node exited", "err", err)
	}
}
