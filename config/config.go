// Package config loads the CLI's TOML configuration file: known
// accounts, the sandbox's RPC endpoints, and the active network.
//
// Grounded on the teacher's cmd/geth config-loading convention (a TOML
// file unmarshaled with github.com/naoina/toml, one struct per config
// section) and original_source's jstz_cli config (cfg.load(),
// cfg.accounts, cfg.sandbox()?.jstz_node_port, referenced from
// logs/trace.rs and bridge/deposit.rs).
package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/naoina/toml"

	"github.com/jstz-dev/jstz/account"
)

// ErrUnknownAlias is returned by ResolveAddress for an empty alias or
// address that has no registered entry.
var ErrUnknownAlias = errors.New("config: unknown account alias")

// Sandbox holds the local sandbox's service ports.
type Sandbox struct {
	OctezNodePort int    `toml:"octez_node_port"`
	JstzNodePort  int    `toml:"jstz_node_port"`
	DataDir       string `toml:"data_dir"`
}

// Network names a remote octez-node/jstz-node pair the CLI can target
// instead of the local sandbox.
type Network struct {
	Name         string `toml:"name"`
	OctezNodeRPC string `toml:"octez_node_rpc"`
	JstzNodeRPC  string `toml:"jstz_node_rpc"`
}

// Config is the root of the CLI's persisted configuration.
type Config struct {
	Accounts map[string]string `toml:"accounts"` // alias -> base58 address
	Sandbox  *Sandbox          `toml:"sandbox"`
	Networks []Network         `toml:"networks"`
	Active   string            `toml:"active_network"`
}

// DefaultPath returns the config file path under the user's home
// directory, $HOME/.jstz/config.toml, the same layout octez-client uses
// for its own base directory.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".jstz", "config.toml"), nil
}

// Load reads and decodes the config file at path. A missing file
// yields an empty, writable Config rather than an error, so first runs
// of the CLI do not require pre-seeding one.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &Config{Accounts: map[string]string{}}, nil
	}
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if cfg.Accounts == nil {
		cfg.Accounts = map[string]string{}
	}
	return cfg, nil
}

// Save writes cfg back to path as TOML, creating parent directories as
// needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// ResolveAddress maps an alias or literal address to an account
// address: if aliasOrAddress matches a registered alias it resolves
// through the table, otherwise it is treated as a literal address. An
// empty string with no registered entry yields ErrUnknownAlias.
func (c *Config) ResolveAddress(aliasOrAddress string) (account.Address, error) {
	if addr, ok := c.Accounts[aliasOrAddress]; ok {
		return account.Address(addr), nil
	}
	if aliasOrAddress == "" {
		return "", ErrUnknownAlias
	}
	return account.Address(aliasOrAddress), nil
}

// ActiveNetwork returns the network matching c.Active, or nil if the
// active network is the local sandbox (Active == "").
func (c *Config) ActiveNetwork() *Network {
	for i := range c.Networks {
		if c.Networks[i].Name == c.Active {
			return &c.Networks[i]
		}
	}
	return nil
}
