// Package node implements the HTTP-facing companion service: an SSE
// log stream per address, fed from the kernel's debug-log file, and an
// operation-by-hash lookup over a ReceiptStore. It is presentation glue
// around the kv/kernel/inbox machinery, not part of it.
//
// Grounded on original_source/crates/jstz_node/src/lib.rs (services:
// LogsService, OperationsService) — adapted from actix-web +
// tokio_util::CancellationToken to net/http + context.Context, since
// no actix-equivalent framework appears anywhere in the pack.
package node

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/log"
)

// ErrUnknownOperation is returned when an operation hash has no
// recorded receipt.
var ErrUnknownOperation = errors.New("node: unknown operation hash")

// LogRecord is one line of the kernel's debug log, attributed to the
// address whose operation produced it.
type LogRecord struct {
	Address string `json:"address"`
	Level   string `json:"level"`
	Text    string `json:"text"`
}

// Broadcaster fans kernel log lines out to any number of SSE
// subscribers, one goroutine-safe channel per open connection.
type Broadcaster struct {
	mu   sync.Mutex
	subs map[string]map[chan LogRecord]struct{}
}

// NewBroadcaster returns an empty Broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[string]map[chan LogRecord]struct{})}
}

// Subscribe registers a new channel for address's log records. Callers
// must call the returned cancel function when done to avoid leaking
// the channel.
func (b *Broadcaster) Subscribe(address string) (ch chan LogRecord, cancel func()) {
	ch = make(chan LogRecord, 16)

	b.mu.Lock()
	if b.subs[address] == nil {
		b.subs[address] = make(map[chan LogRecord]struct{})
	}
	b.subs[address][ch] = struct{}{}
	b.mu.Unlock()

	return ch, func() {
		b.mu.Lock()
		delete(b.subs[address], ch)
		b.mu.Unlock()
		close(ch)
	}
}

// Publish delivers rec to every subscriber of rec.Address, dropping it
// for any subscriber whose channel is full rather than blocking the
// kernel's log tailer.
func (b *Broadcaster) Publish(rec LogRecord) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs[rec.Address] {
		select {
		case ch <- rec:
		default:
			log.Debug("node: dropping log record, subscriber not keeping up", "address", rec.Address)
		}
	}
}

// TailKernelLog reads path, the kernel's debug-log file, decoding each
// "[address] level: text" line and publishing it, until it reaches the
// end of the file or ctx is canceled. It returns nil at end of file: it
// does not wait for lines appended after that point.
func (b *Broadcaster) TailKernelLog(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("node: opening kernel log: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		rec, ok := parseLogLine(scanner.Text())
		if ok {
			b.Publish(rec)
		}
	}
	return scanner.Err()
}

func parseLogLine(line string) (LogRecord, bool) {
	addr, rest, ok := strings.Cut(line, " ")
	if !ok {
		return LogRecord{}, false
	}
	level, text, ok := strings.Cut(rest, ": ")
	if !ok {
		return LogRecord{}, false
	}
	return LogRecord{Address: strings.Trim(addr, "[]"), Level: level, Text: text}, true
}

// Receipt is the durable record of one processed operation, keyed by
// its hash for the operations-lookup endpoint.
type Receipt struct {
	Hash    string `json:"hash"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// ReceiptStore is the minimal read-only persistence the operations
// endpoint needs. Nothing in the kernel package writes receipts.
type ReceiptStore interface {
	Receipt(hash string) (Receipt, bool)
}

// Server is the HTTP-facing companion service.
type Server struct {
	broadcaster *Broadcaster
	receipts    ReceiptStore
}

// New returns a Server publishing from broadcaster and answering
// operation lookups from receipts.
func New(broadcaster *Broadcaster, receipts ReceiptStore) *Server {
	return &Server{broadcaster: broadcaster, receipts: receipts}
}

// Handler returns the server's http.Handler, routing
// /logs/{address}/stream and /operations/{hash}.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/logs/", s.handleLogStream)
	mux.HandleFunc("/operations/", s.handleOperation)
	return mux
}

func (s *Server) handleLogStream(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) != 3 || parts[2] != "stream" {
		http.NotFound(w, r)
		return
	}
	address := parts[1]

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.broadcaster.Subscribe(address)
	defer cancel()

	for {
		select {
		case <-r.Context().Done():
			return
		case rec, ok := <-ch:
			if !ok {
				return
			}
			payload, err := json.Marshal(rec)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", payload)
			flusher.Flush()
		}
	}
}

func (s *Server) handleOperation(w http.ResponseWriter, r *http.Request) {
	hash := strings.TrimPrefix(r.URL.Path, "/operations/")
	if hash == "" {
		http.NotFound(w, r)
		return
	}
	receipt, found := s.receipts.Receipt(hash)
	if !found {
		http.Error(w, ErrUnknownOperation.Error(), http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(receipt)
}

// ListenAndServe starts the HTTP server on addr, blocking until ctx is
// canceled or the server fails.
func ListenAndServe(ctx context.Context, addr string, s *Server) error {
	srv := &http.Server{Addr: addr, Handler: s.Handler()}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case <-ctx.Done():
		return srv.Close()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
