// Package octez wraps the octez-client binary as a thin os/exec shim:
// a collaborator process this runtime drives but does not implement,
// the same role node and sandbox play for the rollup and baker
// binaries.
//
// Grounded on original_source/crates/octez/src/client.rs.
package octez

import (
	"bytes"
	"fmt"
	"os/exec"
	"regexp"

	"github.com/ethereum/go-ethereum/log"
)

const binaryName = "octez-client"

// Client drives the octez-client binary against a configured endpoint.
type Client struct {
	Endpoint          string
	BaseDir           string // empty uses octez-client's default (~/.tezos-client)
	DisableDisclaimer bool
}

// New returns a Client targeting endpoint.
func New(endpoint string) *Client {
	return &Client{Endpoint: endpoint}
}

func (c *Client) command(args ...string) *exec.Cmd {
	full := []string{}
	if c.BaseDir != "" {
		full = append(full, "--base-dir", c.BaseDir)
	}
	full = append(full, "--endpoint", c.Endpoint)
	full = append(full, args...)

	cmd := exec.Command(binaryName, full...)
	if c.DisableDisclaimer {
		cmd.Env = append(cmd.Env, "TEZOS_CLIENT_UNSAFE_DISABLE_DISCLAIMER=Y")
	}
	return cmd
}

func (c *Client) run(args ...string) (string, error) {
	cmd := c.command(args...)
	log.Debug("running octez-client", "args", args)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("octez-client %v: %w: %s", args, err, stderr.String())
	}
	return stdout.String(), nil
}

// GenKeys generates a new key pair under alias.
func (c *Client) GenKeys(alias string) error {
	_, err := c.run("gen", "keys", alias, "--force")
	return err
}

// OriginateContract originates a Michelson contract, returning the
// resulting KT1 address.
func (c *Client) OriginateContract(name, source, script, storage string) (string, error) {
	out, err := c.run("originate", "contract", name,
		"transferring", "0", "from", source,
		"running", script, "--init", storage, "--burn-cap", "2", "--force")
	if err != nil {
		return "", err
	}
	return extractAddress(out)
}

var contractAddrPattern = regexp.MustCompile(`New contract (\w+) originated`)

func extractAddress(output string) (string, error) {
	m := contractAddrPattern.FindStringSubmatch(output)
	if m == nil {
		return "", fmt.Errorf("octez: unexpected output from octez-client")
	}
	return m[1], nil
}

// CallContract invokes entrypoint on the contract registered under
// alias, passing arg as the Michelson parameter, mirroring
// OctezClient::call_contract used by the bridge deposit flow.
func (c *Client) CallContract(from, alias, entrypoint, arg string) error {
	_, err := c.run("transfer", "0", "from", from, "to", alias,
		"--entrypoint", entrypoint, "--arg", arg, "--burn-cap", "2")
	return err
}

// IsBootstrapped reports whether the node answers RPC requests yet,
// mirroring `octez-client rpc get /chains/main/blocks/head/hash`'s use
// as a liveness probe in the original's wait_for_node_to_initialize.
func (c *Client) IsBootstrapped() bool {
	_, err := c.run("rpc", "get", "/chains/main/blocks/head/hash")
	return err == nil
}

// Bake bakes a block for bakerAlias, mirroring
// `octez-client bake for <alias> --minimal-timestamp`. Bake failures are
// expected to be transient (no block ready to bake yet) and are left for
// the caller to retry, matching the original's "silently ignore and try
// again later" baking loop.
func (c *Client) Bake(bakerAlias string) error {
	_, err := c.run("bake", "for", bakerAlias, "--minimal-timestamp")
	return err
}

// AliasInfo holds the address and key pair registered under an alias.
type AliasInfo struct {
	Address   string
	PublicKey string
	SecretKey string
}

// ShowAddress returns the alias' registered address and keys.
func (c *Client) ShowAddress(alias string) (AliasInfo, error) {
	out, err := c.run("show", "address", alias, "--show-secret")
	if err != nil {
		return AliasInfo{}, err
	}
	return parseShowAddress(out)
}

var (
	hashPattern   = regexp.MustCompile(`Hash:\s+(\w+)`)
	pubKeyPattern = regexp.MustCompile(`Public Key:\s+(\w+)`)
	secKeyPattern = regexp.MustCompile(`Secret Key:\s+(\S+)`)
)

func parseShowAddress(output string) (AliasInfo, error) {
	info := AliasInfo{}
	if m := hashPattern.FindStringSubmatch(output); m != nil {
		info.Address = m[1]
	}
	if m := pubKeyPattern.FindStringSubmatch(output); m != nil {
		info.PublicKey = m[1]
	}
	if m := secKeyPattern.FindStringSubmatch(output); m != nil {
		info.SecretKey = m[1]
	}
	if info.Address == "" {
		return AliasInfo{}, fmt.Errorf("octez: unexpected output from octez-client")
	}
	return info, nil
}
