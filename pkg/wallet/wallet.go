// Package wallet derives the provider's marketplace identity from its
// secret key and resolves it to a registered provider row.
//
// The identity scheme is Ethereum-style: the address is the last 20 bytes of
// the legacy Keccak-256 hash of the uncompressed secp256k1 public key,
// rendered as lowercase 0x-prefixed hex. The secret never leaves this
// package; only the derived address is persisted.
package wallet

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"golang.org/x/crypto/sha3"
)

// ErrInvalidSecret is returned when the configured secret is not a valid
// secp256k1 private key.
var ErrInvalidSecret = errors.New("invalid provider secret")

// AddressLength is the length of a rendered address, including the 0x prefix.
const AddressLength = 42

// Wallet holds a parsed provider key pair.
type Wallet struct {
	priv    *secp256k1.PrivateKey
	address string
}

// New parses a hex-encoded secret key and derives the provider address.
//
// The secret may carry an optional 0x prefix and must decode to exactly
// 32 bytes. Zero keys and keys at or above the curve order are rejected.
func New(secret string) (*Wallet, error) {
	raw := strings.TrimPrefix(strings.TrimSpace(secret), "0x")
	if len(raw) != 64 {
		return nil, fmt.Errorf("%w: expected 64 hex characters, got %d", ErrInvalidSecret, len(raw))
	}

	keyBytes, err := hex.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: not valid hex", ErrInvalidSecret)
	}

	var scalar secp256k1.ModNScalar
	if overflow := scalar.SetByteSlice(keyBytes); overflow {
		return nil, fmt.Errorf("%w: key exceeds curve order", ErrInvalidSecret)
	}
	if scalar.IsZero() {
		return nil, fmt.Errorf("%w: key is zero", ErrInvalidSecret)
	}

	priv := secp256k1.NewPrivateKey(&scalar)
	return &Wallet{
		priv:    priv,
		address: pubkeyToAddress(priv.PubKey()),
	}, nil
}

// Address returns the lowercase 0x-prefixed provider address.
func (w *Wallet) Address() string {
	return w.address
}

// ShortAddress returns the leading characters of the address used for
// display names and logs, e.g. "0x7e5f".
func (w *Wallet) ShortAddress() string {
	return w.address[:6]
}

func pubkeyToAddress(pub *secp256k1.PublicKey) string {
	// Keccak over the 64-byte uncompressed point, dropping the 0x04 tag.
	hasher := sha3.NewLegacyKeccak256()
	hasher.Write(pub.SerializeUncompressed()[1:])
	hash := hasher.Sum(nil)

	return "0x" + hex.EncodeToString(hash[12:])
}
