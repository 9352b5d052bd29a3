package storage

import (
	"context"
	"sync"

	"github.com/bitfsorg/passbook-go/address"
)

// MemStore is an in-memory Store. Update holds an exclusive lock for the
// whole transaction, so conflicting transactions are serialized.
type MemStore struct {
	mu       sync.RWMutex
	verifier Verifier
	records  map[address.Address][]byte
	closed   bool
}

// Compile-time interface check.
var _ Store = (*MemStore)(nil)

// NewMemStore creates an empty in-memory store.
func NewMemStore(v Verifier) *MemStore {
	return &MemStore{
		verifier: v,
		records:  make(map[address.Address][]byte),
	}
}

// View runs fn against the committed records.
func (s *MemStore) View(ctx context.Context, fn func(r Reader) error) error {
	if err := beginErr(ctx); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}
	return fn(&memTxn{store: s})
}

// Update runs fn and commits its staged writes if it returns nil.
func (s *MemStore) Update(ctx context.Context, fn func(tx Txn) error) error {
	if err := beginErr(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	txn := &memTxn{store: s, staged: make(map[address.Address]stagedRecord)}
	if err := fn(txn); err != nil {
		return err
	}
	for addr, rec := range txn.staged {
		if rec.deleted {
			delete(s.records, addr)
			continue
		}
		s.records[addr] = rec.data
	}
	return nil
}

// Len returns the number of committed records.
func (s *MemStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Close marks the store closed.
func (s *MemStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

type stagedRecord struct {
	data    []byte
	deleted bool
}

// memTxn reads through staged writes to the committed map. staged is nil
// for read-only views.
type memTxn struct {
	store  *MemStore
	staged map[address.Address]stagedRecord
}

func (t *memTxn) lookup(addr address.Address) []byte {
	if rec, ok := t.staged[addr]; ok {
		if rec.deleted {
			return nil
		}
		return rec.data
	}
	return t.store.records[addr]
}

func (t *memTxn) Get(addr address.Address) ([]byte, error) {
	data := t.lookup(addr)
	if data == nil {
		return nil, ErrNotFound
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (t *memTxn) Has(addr address.Address) (bool, error) {
	return t.lookup(addr) != nil, nil
}

func (t *memTxn) Put(slot address.Slot, data []byte) error {
	if err := checkWrite(t.store.verifier, slot, t.lookup(slot.Address), data); err != nil {
		return err
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	t.staged[slot.Address] = stagedRecord{data: buf}
	return nil
}

func (t *memTxn) Delete(slot address.Slot) error {
	if !t.store.verifier.Verify(slot) {
		return ErrInvalidCapability
	}
	if t.lookup(slot.Address) == nil {
		return ErrNotFound
	}
	t.staged[slot.Address] = stagedRecord{deleted: true}
	return nil
}
