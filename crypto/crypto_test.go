package crypto

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSecretKeyBase58RoundTrip(t *testing.T) {
	sk, err := GenerateSecretKey()
	require.NoError(t, err)

	encoded := sk.ToBase58()
	decoded, err := SecretKeyFromBase58(encoded)
	require.NoError(t, err)

	require.Equal(t, sk.PublicKeyHash(), decoded.PublicKeyHash())
}

func TestSecretKeyFromBase58Invalid(t *testing.T) {
	_, err := SecretKeyFromBase58("not valid base58!!")
	require.ErrorIs(t, err, ErrInvalidKey)
}

func TestSignAndVerify(t *testing.T) {
	sk, err := GenerateSecretKey()
	require.NoError(t, err)

	msg := []byte("deposit 100 to tz1alice")
	sig, err := sk.Sign(msg)
	require.NoError(t, err)
	require.NoError(t, Verify(sk.inner.PublicKey, msg, sig))
}

func TestVerifyRejectsTamperedMessage(t *testing.T) {
	sk, err := GenerateSecretKey()
	require.NoError(t, err)

	sig, err := sk.Sign([]byte("original"))
	require.NoError(t, err)
	err = Verify(sk.inner.PublicKey, []byte("tampered"), sig)
	require.ErrorIs(t, err, ErrSignatureMismatch)
}

func TestPublicKeyHashToAccountAddress(t *testing.T) {
	sk, err := GenerateSecretKey()
	require.NoError(t, err)

	addr := sk.PublicKeyHash().Address()
	require.NotEmpty(t, addr)
}
