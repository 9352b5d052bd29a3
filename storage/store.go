// Package storage provides the ledger substrate that passbook records live in.
//
// Records are addressed by their derived address. Writes must present the
// derivation's capability proof, and a slot keeps the byte size it was first
// allocated with until it is deleted. Every Update is all-or-nothing and
// updates are serialized.
package storage

import (
	"context"
	"fmt"

	"github.com/bitfsorg/passbook-go/address"
)

// Reader reads committed or staged records.
type Reader interface {
	// Get returns a copy of the record at addr, or ErrNotFound.
	Get(addr address.Address) ([]byte, error)

	// Has reports whether a record exists at addr.
	Has(addr address.Address) (bool, error)
}

// Txn is a read-write view of the store inside Update.
type Txn interface {
	Reader

	// Put writes data to slot. The slot's capability proof must verify and,
	// if a record already exists, data must keep its size.
	Put(slot address.Slot, data []byte) error

	// Delete removes the record at slot, freeing its allocation.
	Delete(slot address.Slot) error
}

// Store is an atomic key-value store of fixed-size records.
type Store interface {
	// View runs fn against a consistent snapshot.
	View(ctx context.Context, fn func(r Reader) error) error

	// Update runs fn in a serialized transaction. Staged writes are committed
	// only if fn returns nil.
	Update(ctx context.Context, fn func(tx Txn) error) error

	// Close releases resources held by the store.
	Close() error
}

// Verifier checks capability proofs. *address.Deriver implements it.
type Verifier interface {
	Verify(slot address.Slot) bool
}

// checkWrite validates a write against the verifier and the existing size.
// existing is nil when the slot is free.
func checkWrite(v Verifier, slot address.Slot, existing []byte, data []byte) error {
	if !v.Verify(slot) {
		return ErrInvalidCapability
	}
	if len(data) == 0 {
		return ErrEmptyRecord
	}
	if existing != nil && len(existing) != len(data) {
		return ErrSizeMismatch
	}
	return nil
}

func beginErr(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrAborted, err)
	}
	return nil
}
