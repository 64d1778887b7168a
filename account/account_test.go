package account

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jstz-dev/jstz/host"
	"github.com/jstz-dev/jstz/kv"
	"github.com/jstz-dev/jstz/kv/store"
)

func TestDepositCreatesAccount(t *testing.T) {
	h := store.NewMemStore()
	rt := host.NewMock()
	tx := kv.New()
	tx.Begin()

	require.NoError(t, Deposit(tx, h, rt, "tz1alice", 100))
	require.NoError(t, kv.Commit(tx, h))

	tx.Begin()
	acc, found, err := Get(tx, h, "tz1alice")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, uint64(100), acc.Amount)
}

func TestDebitInsufficientFunds(t *testing.T) {
	h := store.NewMemStore()
	rt := host.NewMock()
	tx := kv.New()
	tx.Begin()

	require.NoError(t, Deposit(tx, h, rt, "tz1alice", 10))
	err := Debit(tx, h, rt, "tz1alice", 50)
	require.ErrorIs(t, err, ErrInsufficientFunds)
}

func TestTransferMovesFunds(t *testing.T) {
	h := store.NewMemStore()
	rt := host.NewMock()
	tx := kv.New()
	tx.Begin()

	require.NoError(t, Deposit(tx, h, rt, "tz1alice", 100))
	require.NoError(t, Transfer(tx, h, rt, "tz1alice", "tz1bob", 40))

	alice, _, err := Get(tx, h, "tz1alice")
	require.NoError(t, err)
	require.Equal(t, uint64(60), alice.Amount)

	bob, _, err := Get(tx, h, "tz1bob")
	require.NoError(t, err)
	require.Equal(t, uint64(40), bob.Amount)
}

func TestTransferFailureLeavesSenderUntouched(t *testing.T) {
	h := store.NewMemStore()
	rt := host.NewMock()
	tx := kv.New()
	tx.Begin()

	require.NoError(t, Deposit(tx, h, rt, "tz1alice", 10))
	err := Transfer(tx, h, rt, "tz1alice", "tz1bob", 50)
	require.ErrorIs(t, err, ErrInsufficientFunds)

	alice, _, err := Get(tx, h, "tz1alice")
	require.NoError(t, err)
	require.Equal(t, uint64(10), alice.Amount)

	_, found, err := Get(tx, h, "tz1bob")
	require.NoError(t, err)
	require.False(t, found)
}

func TestIncrementNonce(t *testing.T) {
	h := store.NewMemStore()
	rt := host.NewMock()
	tx := kv.New()
	tx.Begin()

	require.NoError(t, IncrementNonce(tx, h, rt, "tz1alice"))
	require.NoError(t, IncrementNonce(tx, h, rt, "tz1alice"))

	acc, found, err := Get(tx, h, "tz1alice")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, Nonce(2), acc.Nonce)
}
