// Package inbox decodes the raw byte frames delivered by the rollup's
// message queue into typed Operations the kernel can dispatch. It is
// deliberately thin: parsing wire bytes and recognizing a handful of
// message shapes, not part of the transactional engine itself.
//
// Grounded on original_source/crates/jstz_kernel/src/inbox.rs, adapted
// from Michelson/bincode framing to RLP since that is this runtime's
// wire codec (see kv/value.Envelope).
package inbox

import (
	"errors"

	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/jstz-dev/jstz/account"
)

// ErrMalformedMessage is returned when a frame's bytes do not decode
// into any recognized message shape.
var ErrMalformedMessage = errors.New("inbox: malformed message")

// ErrWrongTicketer is returned for a deposit frame whose ticketer does
// not match the configured native ticketer, mirroring
// is_valid_native_deposit in the original.
var ErrWrongTicketer = errors.New("inbox: deposit from unrecognized ticketer")

// Kind distinguishes the operation shapes a Message can carry.
type Kind uint8

const (
	// KindDeposit credits an account from an L1 bridge transfer.
	KindDeposit Kind = iota
	// KindTransfer moves funds between two L2 accounts.
	KindTransfer
)

// Deposit is an internal message originating from a Layer 1 ticket
// transfer into the rollup, carrying no signature since its
// authenticity comes from the inbox itself.
type Deposit struct {
	Receiver account.Address
	Amount   uint64
}

// Transfer is an external message moving funds between two accounts.
// The frame carries no signature. The kernel creates the receiving
// account if it does not exist yet.
type Transfer struct {
	From   account.Address
	To     account.Address
	Amount uint64
	Nonce  uint64
}

// Operation is a decoded inbox message ready for dispatch, carrying
// exactly one of Deposit or Transfer depending on Kind.
type Operation struct {
	Kind     Kind
	Deposit  Deposit
	Transfer Transfer
}

// wireOperation is the RLP-serializable frame shape; Deposit and
// Transfer are both always present but only one is meaningful per Kind,
// matching the fixed-shape encoding RLP requires for structs.
type wireOperation struct {
	Kind     uint8
	Deposit  Deposit
	Transfer Transfer
}

// DecodeExternal parses an external operation frame, the
// counterpart of read_external_message in the original (there,
// bincode; here, RLP).
func DecodeExternal(raw []byte) (Operation, error) {
	var w wireOperation
	if err := rlp.DecodeBytes(raw, &w); err != nil {
		return Operation{}, ErrMalformedMessage
	}
	op := Operation{Kind: Kind(w.Kind), Deposit: w.Deposit, Transfer: w.Transfer}
	if op.Kind != KindDeposit && op.Kind != KindTransfer {
		return Operation{}, ErrMalformedMessage
	}
	return op, nil
}

// DecodeDeposit builds a Deposit operation from an L1 ticket transfer,
// failing with ErrWrongTicketer unless ticketer equals wantTicketer.
// The raw Michelson ticket parsing that yields these fields is left to
// the caller (the sandbox/node layer).
func DecodeDeposit(receiver account.Address, amount uint64, ticketer, wantTicketer string) (Operation, error) {
	if ticketer != wantTicketer {
		log.Debug("deposit ignored: ticketer mismatch", "got", ticketer, "want", wantTicketer)
		return Operation{}, ErrWrongTicketer
	}
	return Operation{
		Kind:    KindDeposit,
		Deposit: Deposit{Receiver: receiver, Amount: amount},
	}, nil
}

// EncodeExternal is the inverse of DecodeExternal, used by CLI and test
// tooling that needs to submit operations against a running sandbox.
func EncodeExternal(op Operation) ([]byte, error) {
	w := wireOperation{Kind: uint8(op.Kind), Deposit: op.Deposit, Transfer: op.Transfer}
	return rlp.EncodeToBytes(w)
}
