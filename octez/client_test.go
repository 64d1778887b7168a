package octez

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractAddress(t *testing.T) {
	out := "Waiting for the node to be bootstrapped...\nNew contract KT1VqarPDicMFn1ejmQqqshUkUXTCTXwmkCN originated.\n"
	addr, err := extractAddress(out)
	require.NoError(t, err)
	require.Equal(t, "KT1VqarPDicMFn1ejmQqqshUkUXTCTXwmkCN", addr)
}

func TestExtractAddressUnexpectedOutput(t *testing.T) {
	_, err := extractAddress("nothing useful here")
	require.Error(t, err)
}

func TestParseShowAddress(t *testing.T) {
	out := "Hash: tz1KqTpEZ7Yob7QbPE4Hy4Wo8fHG8LhKxZSx\n" +
		"Public Key: edpkuBknW28nW72KG6RoHtYW7p12T6GKc7nAbwYX5m8Wd9sDVC9yav\n" +
		"Secret Key: unencrypted:edsk3gUfUPyBSfrS9CCgmCiQsTCHGkviBDusMxDJstFtojtc1zcpsh\n"

	info, err := parseShowAddress(out)
	require.NoError(t, err)
	require.Equal(t, "tz1KqTpEZ7Yob7QbPE4Hy4Wo8fHG8LhKxZSx", info.Address)
	require.Equal(t, "edpkuBknW28nW72KG6RoHtYW7p12T6GKc7nAbwYX5m8Wd9sDVC9yav", info.PublicKey)
}

func TestParseShowAddressMissing(t *testing.T) {
	_, err := parseShowAddress("garbage")
	require.Error(t, err)
}
