// Package crypto wraps key generation, signing, and address derivation
// behind a small stable API, the same role as the teacher's crypto
// package plays for block sealing: a thin adapter over a real signature
// library rather than a hand-rolled implementation.
//
// Grounded on original_source/crates/jstz_crypto/src/secret_key.rs and
// signature.rs (public_key_hash derivation and base58-check encoding).
package crypto

import (
	"crypto/ecdsa"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/mr-tron/base58"

	"github.com/jstz-dev/jstz/account"
)

// ErrInvalidKey is returned when a base58-encoded key fails to decode or
// is not a valid secp256k1 private key.
var ErrInvalidKey = errors.New("crypto: invalid key encoding")

// ErrSignatureMismatch is returned by Verify when a signature does not
// match the given message and public key.
var ErrSignatureMismatch = errors.New("crypto: signature mismatch")

const keyPrefix = "jstz1"

// SecretKey is a signing key, analogous to the original's
// `SecretKey::Bls` variant; this runtime signs with secp256k1 instead
// since that is the curve the pack's dependency graph actually
// supplies.
type SecretKey struct {
	inner *ecdsa.PrivateKey
}

// PublicKeyHash is the address derived from a public key: the "jstz1"
// prefix followed by the plain base58 encoding (no checksum) of the
// key's 20-byte address, used as the account.Address stored in
// backing-store keys.
type PublicKeyHash string

// GenerateSecretKey creates a new random signing key.
func GenerateSecretKey() (SecretKey, error) {
	k, err := crypto.GenerateKey()
	if err != nil {
		return SecretKey{}, fmt.Errorf("crypto: generate key: %w", err)
	}
	return SecretKey{inner: k}, nil
}

// SecretKeyFromBase58 decodes a base58 secret key, mirroring
// SecretKey::from_base58 in the original.
func SecretKeyFromBase58(s string) (SecretKey, error) {
	raw, err := base58.Decode(s)
	if err != nil {
		return SecretKey{}, ErrInvalidKey
	}
	k, err := crypto.ToECDSA(raw)
	if err != nil {
		return SecretKey{}, ErrInvalidKey
	}
	return SecretKey{inner: k}, nil
}

// ToBase58 encodes sk in the same base58 form accepted by
// SecretKeyFromBase58.
func (sk SecretKey) ToBase58() string {
	return base58.Encode(crypto.FromECDSA(sk.inner))
}

// Sign produces a signature over message's Keccak256 digest.
func (sk SecretKey) Sign(message []byte) ([]byte, error) {
	digest := crypto.Keccak256(message)
	sig, err := crypto.Sign(digest, sk.inner)
	if err != nil {
		return nil, fmt.Errorf("crypto: sign: %w", err)
	}
	return sig, nil
}

// PublicKeyHash derives the address for sk's public key.
func (sk SecretKey) PublicKeyHash() PublicKeyHash {
	addr := crypto.PubkeyToAddress(sk.inner.PublicKey)
	return PublicKeyHash(keyPrefix + base58.Encode(addr.Bytes()))
}

// Address adapts a PublicKeyHash to the account package's Address type,
// the join point between the signature layer and the ledger.
func (h PublicKeyHash) Address() account.Address {
	return account.Address(h)
}

// Verify checks that sig is a valid signature over message's digest by
// the holder of pub.
func Verify(pub ecdsa.PublicKey, message, sig []byte) error {
	digest := crypto.Keccak256(message)
	if len(sig) < 65 {
		return ErrSignatureMismatch
	}
	recovered, err := crypto.SigToPub(digest, sig)
	if err != nil {
		return ErrSignatureMismatch
	}
	if crypto.PubkeyToAddress(*recovered) != crypto.PubkeyToAddress(pub) {
		return ErrSignatureMismatch
	}
	return nil
}
