// Package account implements the application-level account record stored
// under /jstz_account/<pkh> (spec §6), layered as ordinary domain code on
// top of the kv package's Entry API — it adds no new kv operations.
//
// Grounded on original_source/crates/jstz_proto/src/context/account.rs.
package account

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/log"

	"github.com/jstz-dev/jstz/host"
	"github.com/jstz-dev/jstz/kv"
	"github.com/jstz-dev/jstz/kv/store"
	"github.com/jstz-dev/jstz/kv/value"
)

// ErrInsufficientFunds is a domain error distinct from the kv package's
// error taxonomy: it signals a failed balance check, not an engine
// invariant violation.
var ErrInsufficientFunds = errors.New("account: insufficient funds")

// Address is a Tezos-style public key hash, base58-encoded.
type Address string

// Nonce is a strictly increasing per-account sequence number, used to
// order and deduplicate signed operations.
type Nonce uint64

// Next returns the nonce following n.
func (n Nonce) Next() Nonce { return n + 1 }

// Account is the record stored at /jstz_account/<pkh>.
type Account struct {
	Nonce        Nonce
	Amount       uint64
	ContractCode string // empty means "no deployed contract"
}

func init() {
	value.Register[Account]("jstz.account")
}

const accountsPath = "jstz_account"

// Path returns the backing-store key for addr's account record.
func Path(addr Address) (kv.Key, error) {
	return kv.NewKey(accountsPath, string(addr))
}

// TicketerPath is the well-known key holding the bridge's ticketer
// address, set once at deployment time.
func TicketerPath() kv.Key {
	return kv.MustParseKey("/ticketer")
}

// Get returns addr's account record if it exists.
func Get(tx *kv.Transaction, h store.BackingStore, addr Address) (Account, bool, error) {
	path, err := Path(addr)
	if err != nil {
		return Account{}, false, err
	}
	return kv.Get[Account](tx, h, path)
}

// getOrCreate returns a mutable pointer to addr's account, inserting a
// zero-value record if absent — the Go equivalent of the original's
// `tx.entry::<Account>(hrt, path).or_insert_default()`.
func getOrCreate(tx *kv.Transaction, h store.BackingStore, rt host.Runtime, addr Address) (*Account, error) {
	path, err := Path(addr)
	if err != nil {
		return nil, err
	}
	rt.WriteDebug("get mut.")
	entry, err := kv.GetEntry[Account](tx, h, path)
	if err != nil {
		return nil, err
	}
	return kv.OrInsertDefault[Account](entry)
}

// Deposit credits amount to addr's account, creating the account if it
// does not yet exist. Used by the bridge deposit handler.
func Deposit(tx *kv.Transaction, h store.BackingStore, rt host.Runtime, addr Address, amount uint64) error {
	acc, err := getOrCreate(tx, h, rt, addr)
	if err != nil {
		return err
	}
	acc.Amount += amount
	rt.WriteDebug(fmt.Sprintf("deposited %d to %s", amount, addr))
	return nil
}

// Debit deducts amount from addr's account, failing with
// ErrInsufficientFunds if the balance would go negative. Used by
// transfer operations decoded from the inbox.
func Debit(tx *kv.Transaction, h store.BackingStore, rt host.Runtime, addr Address, amount uint64) error {
	acc, err := getOrCreate(tx, h, rt, addr)
	if err != nil {
		return err
	}
	if acc.Amount < amount {
		log.Warn("insufficient funds", "address", addr, "balance", acc.Amount, "requested", amount)
		return ErrInsufficientFunds
	}
	acc.Amount -= amount
	return nil
}

// Transfer moves amount from src to dst within one transaction, so a
// failed debit leaves no partial credit applied by the caller's commit.
func Transfer(tx *kv.Transaction, h store.BackingStore, rt host.Runtime, src, dst Address, amount uint64) error {
	if err := Debit(tx, h, rt, src, amount); err != nil {
		return err
	}
	return Deposit(tx, h, rt, dst, amount)
}

// IncrementNonce advances addr's nonce by one, used by the kernel to
// reject replayed operations.
func IncrementNonce(tx *kv.Transaction, h store.BackingStore, rt host.Runtime, addr Address) error {
	acc, err := getOrCreate(tx, h, rt, addr)
	if err != nil {
		return err
	}
	acc.Nonce = acc.Nonce.Next()
	return nil
}
