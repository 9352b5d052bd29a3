// Package address implements deterministic addressing for passbook records.
//
// Every record lives at an address derived purely from a namespace tag and a
// key tuple; there is no separate registry. The derivation also yields a
// capability proof that the ledger substrate checks before accepting a write.
package address

import (
	"bytes"
	"encoding/hex"
	"fmt"
)

// Size is the byte length of an Address.
const Size = 32

// Address identifies a record, an identity, a settlement asset or a token
// account. The zero Address denotes the native settlement asset.
type Address [Size]byte

// Native is the settlement asset paid directly to owner addresses.
var Native Address

// FromBytes copies b into an Address.
func FromBytes(b []byte) (Address, error) {
	var a Address
	if len(b) != Size {
		return a, fmt.Errorf("%w: got %d bytes", ErrInvalidLength, len(b))
	}
	copy(a[:], b)
	return a, nil
}

// FromHex parses a hex-encoded Address.
func FromHex(s string) (Address, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return Address{}, fmt.Errorf("%w: %w", ErrInvalidHex, err)
	}
	return FromBytes(b)
}

// Bytes returns a copy of the address bytes.
func (a Address) Bytes() []byte {
	out := make([]byte, Size)
	copy(out, a[:])
	return out
}

// IsZero reports whether a is the zero (native) address.
func (a Address) IsZero() bool { return a == Native }

// String returns the hex encoding of a.
func (a Address) String() string { return hex.EncodeToString(a[:]) }

// Short returns the first eight hex characters, for log lines.
func (a Address) Short() string { return hex.EncodeToString(a[:4]) }

// Compare orders addresses bytewise.
func (a Address) Compare(b Address) int { return bytes.Compare(a[:], b[:]) }
