// Package logs implements `jstz logs trace`, which tails a running
// node's server-sent-events log stream for one address.
//
// Grounded on original_source/crates/jstz_cli/src/logs/trace.rs,
// adapted from the original's reqwest_eventsource client to a plain
// bufio.Scanner over net/http's streamed response body, since SSE
// framing here is just "data: <json>\n\n" lines.
package logs

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/ethereum/go-ethereum/log"
	"gopkg.in/urfave/cli.v1"

	"github.com/jstz-dev/jstz/config"
)

// Level mirrors the node's log severities, ordered from most to least
// severe so a LogLevel filter admits anything at or above it.
type Level int

const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
)

func parseLevel(s string) Level {
	switch strings.ToUpper(s) {
	case "ERROR":
		return LevelError
	case "WARN":
		return LevelWarn
	case "DEBUG":
		return LevelDebug
	default:
		return LevelInfo
	}
}

func (l Level) symbol() string {
	switch l {
	case LevelError:
		return "ERROR"
	case LevelWarn:
		return "WARN"
	case LevelDebug:
		return "DEBUG"
	default:
		return "INFO"
	}
}

// record is the JSON payload of one SSE log event.
type record struct {
	Level string `json:"level"`
	Text  string `json:"text"`
}

// TraceCommand returns the `jstz logs trace` subcommand.
func TraceCommand() cli.Command {
	return cli.Command{
		Name:  "trace",
		Usage: "Stream logs for an address",
		Flags: []cli.Flag{
			cli.StringFlag{Name: "level", Value: "info", Usage: "minimum log level to display"},
		},
		Action: func(c *cli.Context) error {
			addr := c.Args().First()
			if addr == "" {
				return cli.NewExitError("logs trace: an address or alias is required", 1)
			}
			return Trace(addr, parseLevel(c.String("level")))
		},
	}
}

// Trace opens the log stream for addr and prints each event at or
// above minLevel until the connection closes or errors.
func Trace(addrOrAlias string, minLevel Level) error {
	path, err := config.DefaultPath()
	if err != nil {
		return err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	addr, err := cfg.ResolveAddress(addrOrAlias)
	if err != nil {
		return err
	}

	port := 8933
	if cfg.Sandbox != nil {
		port = cfg.Sandbox.JstzNodePort
	}
	url := fmt.Sprintf("http://127.0.0.1:%d/logs/%s/stream", port, addr)

	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("logs trace: %w", err)
	}
	defer resp.Body.Close()

	fmt.Printf("Connection open with %s\n", url)

	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Text()
		data, ok := strings.CutPrefix(line, "data: ")
		if !ok {
			continue
		}
		var rec record
		if err := json.Unmarshal([]byte(data), &rec); err != nil {
			log.Debug("logs trace: skipping malformed event", "err", err)
			continue
		}
		if level := parseLevel(rec.Level); level <= minLevel {
			fmt.Printf("[%s]: %s\n", level.symbol(), rec.Text)
		}
	}
	return scanner.Err()
}
