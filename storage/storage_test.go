package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitfsorg/passbook-go/address"
)

// --- Helper functions ---

func testDeriver(t *testing.T) *address.Deriver {
	t.Helper()
	var program address.Address
	program[0] = 0x01
	d, err := address.NewDeriver(program, []byte("storage-test"))
	require.NoError(t, err)
	return d
}

func ownerAddr(seed byte) address.Address {
	var a address.Address
	for i := range a {
		a[i] = seed
	}
	return a
}

// eachStore runs fn against a MemStore and a BoltStore sharing one deriver.
func eachStore(t *testing.T, fn func(t *testing.T, d *address.Deriver, s Store)) {
	t.Run("mem", func(t *testing.T) {
		d := testDeriver(t)
		s := NewMemStore(d)
		defer s.Close()
		fn(t, d, s)
	})
	t.Run("bolt", func(t *testing.T) {
		d := testDeriver(t)
		s, err := OpenBoltStore(filepath.Join(t.TempDir(), "ledger.db"), d)
		require.NoError(t, err)
		defer s.Close()
		fn(t, d, s)
	})
}

func put(t *testing.T, s Store, slot address.Slot, data []byte) {
	t.Helper()
	err := s.Update(context.Background(), func(tx Txn) error {
		return tx.Put(slot, data)
	})
	require.NoError(t, err)
}

func get(t *testing.T, s Store, addr address.Address) ([]byte, error) {
	t.Helper()
	var out []byte
	err := s.View(context.Background(), func(r Reader) error {
		var err error
		out, err = r.Get(addr)
		return err
	})
	return out, err
}

// --- Store behaviour ---

func TestStore_PutGet(t *testing.T) {
	eachStore(t, func(t *testing.T, d *address.Deriver, s Store) {
		slot := d.Store(ownerAddr(0xAA))
		put(t, s, slot, []byte("hello"))

		got, err := get(t, s, slot.Address)
		require.NoError(t, err)
		assert.Equal(t, []byte("hello"), got)

		err = s.View(context.Background(), func(r Reader) error {
			ok, err := r.Has(slot.Address)
			assert.True(t, ok)
			return err
		})
		require.NoError(t, err)
	})
}

func TestStore_GetMissing(t *testing.T) {
	eachStore(t, func(t *testing.T, d *address.Deriver, s Store) {
		_, err := get(t, s, d.Store(ownerAddr(0x01)).Address)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestStore_RollbackOnError(t *testing.T) {
	eachStore(t, func(t *testing.T, d *address.Deriver, s Store) {
		a := d.Store(ownerAddr(0x01))
		b := d.PassBook(ownerAddr(0x02))
		put(t, s, a, []byte{1, 1, 1})

		boom := errors.New("boom")
		err := s.Update(context.Background(), func(tx Txn) error {
			require.NoError(t, tx.Put(a, []byte{9, 9, 9}))
			require.NoError(t, tx.Put(b, []byte{7}))
			return boom
		})
		assert.ErrorIs(t, err, boom)

		got, err := get(t, s, a.Address)
		require.NoError(t, err)
		assert.Equal(t, []byte{1, 1, 1}, got)

		_, err = get(t, s, b.Address)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestStore_ReadYourWrites(t *testing.T) {
	eachStore(t, func(t *testing.T, d *address.Deriver, s Store) {
		slot := d.Payout(ownerAddr(0x01), address.Native)
		err := s.Update(context.Background(), func(tx Txn) error {
			if err := tx.Put(slot, []byte{1, 2}); err != nil {
				return err
			}
			got, err := tx.Get(slot.Address)
			if err != nil {
				return err
			}
			assert.Equal(t, []byte{1, 2}, got)
			return nil
		})
		require.NoError(t, err)
	})
}

func TestStore_InvalidCapability(t *testing.T) {
	eachStore(t, func(t *testing.T, d *address.Deriver, s Store) {
		slot := d.Store(ownerAddr(0x01))
		forged := slot
		forged.Address = ownerAddr(0x55)

		err := s.Update(context.Background(), func(tx Txn) error {
			return tx.Put(forged, []byte{1})
		})
		assert.ErrorIs(t, err, ErrInvalidCapability)

		other, err := address.NewDeriver(d.ProgramID(), []byte("another-secret"))
		require.NoError(t, err)
		err = s.Update(context.Background(), func(tx Txn) error {
			return tx.Put(other.Store(ownerAddr(0x01)), []byte{1})
		})
		assert.ErrorIs(t, err, ErrInvalidCapability)
	})
}

func TestStore_SizeMismatch(t *testing.T) {
	eachStore(t, func(t *testing.T, d *address.Deriver, s Store) {
		slot := d.TradeHistory(ownerAddr(0x01), ownerAddr(0x02))
		put(t, s, slot, make([]byte, 8))

		err := s.Update(context.Background(), func(tx Txn) error {
			return tx.Put(slot, make([]byte, 9))
		})
		assert.ErrorIs(t, err, ErrSizeMismatch)

		put(t, s, slot, []byte{1, 2, 3, 4, 5, 6, 7, 8})
	})
}

func TestStore_EmptyRecord(t *testing.T) {
	eachStore(t, func(t *testing.T, d *address.Deriver, s Store) {
		err := s.Update(context.Background(), func(tx Txn) error {
			return tx.Put(d.Store(ownerAddr(0x01)), nil)
		})
		assert.ErrorIs(t, err, ErrEmptyRecord)
	})
}

func TestStore_DeleteFreesAllocation(t *testing.T) {
	eachStore(t, func(t *testing.T, d *address.Deriver, s Store) {
		slot := d.PassBook(ownerAddr(0x03))
		put(t, s, slot, make([]byte, 4))

		err := s.Update(context.Background(), func(tx Txn) error {
			return tx.Delete(slot)
		})
		require.NoError(t, err)

		_, err = get(t, s, slot.Address)
		assert.ErrorIs(t, err, ErrNotFound)

		// A freed slot may be reallocated at a different size.
		put(t, s, slot, make([]byte, 16))

		err = s.Update(context.Background(), func(tx Txn) error {
			if err := tx.Delete(slot); err != nil {
				return err
			}
			return tx.Delete(slot)
		})
		assert.ErrorIs(t, err, ErrNotFound)

		got, err := get(t, s, slot.Address)
		require.NoError(t, err)
		assert.Len(t, got, 16)
	})
}

func TestStore_DeleteInvalidCapability(t *testing.T) {
	eachStore(t, func(t *testing.T, d *address.Deriver, s Store) {
		slot := d.Store(ownerAddr(0x01))
		put(t, s, slot, []byte{1})

		bad := slot
		bad.Proof[0] ^= 0xFF
		err := s.Update(context.Background(), func(tx Txn) error {
			return tx.Delete(bad)
		})
		assert.ErrorIs(t, err, ErrInvalidCapability)
	})
}

func TestStore_CanceledContext(t *testing.T) {
	eachStore(t, func(t *testing.T, d *address.Deriver, s Store) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		called := false
		err := s.Update(ctx, func(tx Txn) error {
			called = true
			return nil
		})
		assert.ErrorIs(t, err, ErrAborted)
		assert.ErrorIs(t, err, context.Canceled)
		assert.False(t, called)

		err = s.View(ctx, func(r Reader) error { return nil })
		assert.ErrorIs(t, err, ErrAborted)
	})
}

func TestStore_GetReturnsCopy(t *testing.T) {
	eachStore(t, func(t *testing.T, d *address.Deriver, s Store) {
		slot := d.Store(ownerAddr(0x01))
		put(t, s, slot, []byte{1, 2, 3})

		got, err := get(t, s, slot.Address)
		require.NoError(t, err)
		got[0] = 0xFF

		again, err := get(t, s, slot.Address)
		require.NoError(t, err)
		assert.Equal(t, []byte{1, 2, 3}, again)
	})
}

// --- Implementation specifics ---

func TestMemStore_Closed(t *testing.T) {
	s := NewMemStore(testDeriver(t))
	require.NoError(t, s.Close())

	err := s.Update(context.Background(), func(tx Txn) error { return nil })
	assert.ErrorIs(t, err, ErrClosed)
	err = s.View(context.Background(), func(r Reader) error { return nil })
	assert.ErrorIs(t, err, ErrClosed)
}

func TestMemStore_Len(t *testing.T) {
	d := testDeriver(t)
	s := NewMemStore(d)
	put(t, s, d.Store(ownerAddr(0x01)), []byte{1})
	put(t, s, d.Store(ownerAddr(0x02)), []byte{1})
	assert.Equal(t, 2, s.Len())
}

func TestOpenBoltStore_EmptyPath(t *testing.T) {
	_, err := OpenBoltStore("", testDeriver(t))
	assert.ErrorIs(t, err, ErrInvalidPath)
}

func TestBoltStore_Persistence(t *testing.T) {
	d := testDeriver(t)
	path := filepath.Join(t.TempDir(), "nested", "ledger.db")

	s, err := OpenBoltStore(path, d)
	require.NoError(t, err)
	slot := d.Membership(ownerAddr(0x01), ownerAddr(0x02))
	put(t, s, slot, []byte("persisted"))
	require.NoError(t, s.Close())

	s2, err := OpenBoltStore(path, d)
	require.NoError(t, err)
	defer s2.Close()

	got, err := get(t, s2, slot.Address)
	require.NoError(t, err)
	assert.Equal(t, []byte("persisted"), got)

	err = s2.Update(context.Background(), func(tx Txn) error {
		return tx.Put(slot, []byte("short"))
	})
	assert.ErrorIs(t, err, ErrSizeMismatch)
}
