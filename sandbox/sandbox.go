// Package sandbox orchestrates a local development environment: an
// octez-node in sandbox mode, run as a supervised child process, and a
// baking loop, run as a goroutine. It does not start a rollup node or
// this runtime's HTTP node. It is glue around os/exec and the octez
// package, not part of the transactional engine.
//
// Grounded on original_source/crates/jstz_cli/src/sandbox/daemon.rs.
package sandbox

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/log"

	"github.com/jstz-dev/jstz/octez"
)

const (
	octezNodePort    = 18731
	octezNodeRPCPort = 18732
	rollupPort       = 18733
	jstzNodePort     = 8933

	bakeInterval = time.Second
)

// Options configures a sandbox run.
type Options struct {
	DataDir       string
	OctezBinary   string // defaults to "octez-node" on PATH if empty
	BakerAddress  string
	OperatorAlias string
}

// Sandbox supervises the sandbox's child processes for the lifetime of
// one run.
type Sandbox struct {
	opts   Options
	client *octez.Client

	mu       sync.Mutex
	node     *exec.Cmd
	rollup   *exec.Cmd
	bakeDone chan struct{}
}

// New prepares a Sandbox against opts, creating its data and log
// directories.
func New(opts Options) (*Sandbox, error) {
	if opts.OctezBinary == "" {
		opts.OctezBinary = "octez-node"
	}
	if err := os.MkdirAll(filepath.Join(opts.DataDir, "logs"), 0o755); err != nil {
		return nil, fmt.Errorf("sandbox: creating log directory: %w", err)
	}
	client := octez.New(fmt.Sprintf("http://127.0.0.1:%d", octezNodeRPCPort))
	return &Sandbox{opts: opts, client: client, bakeDone: make(chan struct{})}, nil
}

func (s *Sandbox) logFile(name string) (*os.File, error) {
	return os.Create(filepath.Join(s.opts.DataDir, "logs", name))
}

// initNode runs octez-node config-init in sandbox mode, mirroring
// init_node in the original.
func (s *Sandbox) initNode() error {
	log.Info("initializing octez-node configuration")
	cmd := exec.Command(s.opts.OctezBinary, "config", "init",
		"--data-dir", s.opts.DataDir,
		"--network", "sandbox",
		"--net-addr", fmt.Sprintf("127.0.0.1:%d", octezNodePort),
		"--rpc-addr", fmt.Sprintf("127.0.0.1:%d", octezNodeRPCPort))
	return cmd.Run()
}

// startNode launches octez-node as a long-lived background process,
// returning once it has been started (not once it is ready — callers
// poll waitForBootstrap).
func (s *Sandbox) startNode(ctx context.Context) error {
	logFile, err := s.logFile("node.log")
	if err != nil {
		return err
	}
	cmd := exec.CommandContext(ctx, s.opts.OctezBinary, "run",
		"--data-dir", s.opts.DataDir,
		"--synchronisation-threshold", "0",
		"--network", "sandbox")
	cmd.Stdout = logFile
	cmd.Stderr = logFile

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("sandbox: starting octez-node: %w", err)
	}
	s.mu.Lock()
	s.node = cmd
	s.mu.Unlock()
	return nil
}

// waitForBootstrap polls the node's RPC endpoint until it answers,
// mirroring wait_for_node_to_initialize.
func (s *Sandbox) waitForBootstrap(ctx context.Context) error {
	log.Info("waiting for node to bootstrap")
	for {
		if s.client.IsBootstrapped() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
		}
	}
}

// runBakeLoop repeatedly bakes blocks until ctx is canceled, the Go
// equivalent of client_bake run inside an OctezThread loop. Bake
// failures are logged and ignored, matching the original's comment
// that a transient baking failure should not kill the sandbox.
func (s *Sandbox) runBakeLoop(ctx context.Context, bakerAlias string) {
	defer close(s.bakeDone)
	ticker := time.NewTicker(bakeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.client.Bake(bakerAlias); err != nil {
				log.Debug("bake attempt failed, retrying", "err", err)
			}
		}
	}
}

// Run starts the node, waits for it to bootstrap, then starts the
// baking loop, blocking until ctx is canceled.
func (s *Sandbox) Run(ctx context.Context) error {
	if err := s.initNode(); err != nil {
		return err
	}
	if err := s.startNode(ctx); err != nil {
		return err
	}
	if err := s.waitForBootstrap(ctx); err != nil {
		return err
	}

	go s.runBakeLoop(ctx, s.opts.BakerAddress)
	log.Info("sandbox started")

	<-ctx.Done()
	<-s.bakeDone
	return s.shutdown()
}

func (s *Sandbox) shutdown() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.node != nil && s.node.Process != nil {
		_ = s.node.Process.Kill()
	}
	if s.rollup != nil && s.rollup.Process != nil {
		_ = s.rollup.Process.Kill()
	}
	return nil
}
