// Package kernel implements the message loop: for each inbox message,
// begin a transaction, dispatch to the matching domain operation, and
// commit or roll back depending on the outcome. It is the one place
// kv.Transaction, inbox.Operation, and account.Account all meet.
//
// Grounded on original_source/jstz_kernel/src/lib.rs (entry/handle_message)
// and original_source/jstz_kernel/src/apply.rs.
package kernel

import (
	"fmt"

	"github.com/ethereum/go-ethereum/log"

	"github.com/jstz-dev/jstz/account"
	"github.com/jstz-dev/jstz/host"
	"github.com/jstz-dev/jstz/inbox"
	"github.com/jstz-dev/jstz/kv"
	"github.com/jstz-dev/jstz/kv/store"
)

// Kernel ties together a backing store and host runtime and runs the
// message-handling loop against them.
type Kernel struct {
	host  host.Runtime
	store store.BackingStore
}

// New returns a Kernel that dispatches messages against store using rt
// for host-facing side effects (debug logs, raw reads when store is a
// store.HostStore).
func New(rt host.Runtime, backing store.BackingStore) *Kernel {
	return &Kernel{host: rt, store: backing}
}

// HandleOperation runs a single decoded operation to completion: begin
// a transaction, apply the operation's effect, and commit. Any error
// from the domain operation rolls the transaction back instead of
// committing partial effects, mirroring the original's
// unwrap_or_else(|err| rt.write_debug(...)) — the message is dropped,
// not retried.
func (k *Kernel) HandleOperation(op inbox.Operation) error {
	tx := kv.New()
	tx.Begin()

	var err error
	switch op.Kind {
	case inbox.KindDeposit:
		err = account.Deposit(tx, k.store, k.host, op.Deposit.Receiver, op.Deposit.Amount)
	case inbox.KindTransfer:
		err = applyTransfer(tx, k.store, k.host, op.Transfer)
	default:
		err = fmt.Errorf("kernel: unrecognized operation kind %d", op.Kind)
	}

	if err != nil {
		log.Warn("operation dropped", "kind", op.Kind, "err", err)
		if rerr := kv.Rollback(tx); rerr != nil {
			return rerr
		}
		return err
	}

	return kv.Commit(tx, k.store)
}

// applyTransfer checks the sender's nonce before moving funds and
// increments it after the transfer succeeds, rejecting replayed or
// out-of-order operations. The check applies only when the sender's
// account already exists.
func applyTransfer(tx *kv.Transaction, h store.BackingStore, rt host.Runtime, t inbox.Transfer) error {
	acc, found, err := account.Get(tx, h, t.From)
	if err != nil {
		return err
	}
	if found && uint64(acc.Nonce) != t.Nonce {
		return fmt.Errorf("kernel: nonce mismatch for %s: have %d, got %d", t.From, acc.Nonce, t.Nonce)
	}

	if err := account.Transfer(tx, h, rt, t.From, t.To, t.Amount); err != nil {
		return err
	}
	return account.IncrementNonce(tx, h, rt, t.From)
}

// Entry is the top-level loop body run once per inbox message: decode
// the raw frame passed in by the caller and dispatch it. A decode
// failure is written to the host's debug log and ends the tick with no
// transaction opened at all, the same as the original's `read_message`
// returning None.
func Entry(rt host.Runtime, backing store.BackingStore, raw []byte) error {
	op, err := inbox.DecodeExternal(raw)
	if err != nil {
		rt.WriteDebug(fmt.Sprintf("failed to parse message: %v", err))
		return nil
	}
	return New(rt, backing).HandleOperation(op)
}
