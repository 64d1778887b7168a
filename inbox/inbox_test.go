package inbox

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeDepositRoundTrip(t *testing.T) {
	op := Operation{Kind: KindDeposit, Deposit: Deposit{Receiver: "tz1alice", Amount: 42}}

	raw, err := EncodeExternal(op)
	require.NoError(t, err)

	got, err := DecodeExternal(raw)
	require.NoError(t, err)
	require.Equal(t, op, got)
}

func TestEncodeDecodeTransferRoundTrip(t *testing.T) {
	op := Operation{
		Kind:     KindTransfer,
		Transfer: Transfer{From: "tz1alice", To: "tz1bob", Amount: 10, Nonce: 3},
	}

	raw, err := EncodeExternal(op)
	require.NoError(t, err)

	got, err := DecodeExternal(raw)
	require.NoError(t, err)
	require.Equal(t, op, got)
}

func TestDecodeExternalMalformed(t *testing.T) {
	_, err := DecodeExternal([]byte{0xff, 0x00})
	require.ErrorIs(t, err, ErrMalformedMessage)
}

func TestDecodeDepositTicketerMismatch(t *testing.T) {
	_, err := DecodeDeposit("tz1alice", 10, "KT1other", "KT1native")
	require.ErrorIs(t, err, ErrWrongTicketer)
}

func TestDecodeDepositAccepted(t *testing.T) {
	op, err := DecodeDeposit("tz1alice", 10, "KT1native", "KT1native")
	require.NoError(t, err)
	require.Equal(t, KindDeposit, op.Kind)
	require.Equal(t, uint64(10), op.Deposit.Amount)
}
