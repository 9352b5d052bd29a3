package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.etcd.io/bbolt"

	"github.com/bitfsorg/passbook-go/address"
)

var bucketRecords = []byte("records")

// BoltStore persists records in a bbolt database. bbolt allows one writer at
// a time, which gives Update its serialization.
type BoltStore struct {
	db       *bbolt.DB
	verifier Verifier
}

// Compile-time interface check.
var _ Store = (*BoltStore)(nil)

// OpenBoltStore opens or creates the bbolt database at dbPath.
// The parent directory is created if it does not exist.
func OpenBoltStore(dbPath string, v Verifier) (*BoltStore, error) {
	if dbPath == "" {
		return nil, ErrInvalidPath
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("storage: create directory: %w", err)
	}
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("storage: open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketRecords); err != nil {
			return fmt.Errorf("boltstore: create bucket %q: %w", bucketRecords, err)
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("storage: create buckets: %w", err)
	}

	return &BoltStore{db: db, verifier: v}, nil
}

// View runs fn in a read-only bbolt transaction.
func (s *BoltStore) View(ctx context.Context, fn func(r Reader) error) error {
	if err := beginErr(ctx); err != nil {
		return err
	}
	return s.db.View(func(tx *bbolt.Tx) error {
		return fn(&boltTxn{bucket: tx.Bucket(bucketRecords), verifier: s.verifier})
	})
}

// Update runs fn in a read-write bbolt transaction; bbolt rolls back when fn
// returns an error.
func (s *BoltStore) Update(ctx context.Context, fn func(tx Txn) error) error {
	if err := beginErr(ctx); err != nil {
		return err
	}
	err := s.db.Update(func(tx *bbolt.Tx) error {
		return fn(&boltTxn{bucket: tx.Bucket(bucketRecords), verifier: s.verifier})
	})
	if err == bbolt.ErrDatabaseNotOpen {
		return ErrClosed
	}
	return err
}

// Close closes the underlying database.
func (s *BoltStore) Close() error { return s.db.Close() }

type boltTxn struct {
	bucket   *bbolt.Bucket
	verifier Verifier
}

func (t *boltTxn) Get(addr address.Address) ([]byte, error) {
	data := t.bucket.Get(addr[:])
	if data == nil {
		return nil, ErrNotFound
	}
	// bbolt memory is only valid for the life of the transaction.
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (t *boltTxn) Has(addr address.Address) (bool, error) {
	return t.bucket.Get(addr[:]) != nil, nil
}

func (t *boltTxn) Put(slot address.Slot, data []byte) error {
	if err := checkWrite(t.verifier, slot, t.bucket.Get(slot.Address[:]), data); err != nil {
		return err
	}
	if err := t.bucket.Put(slot.Address.Bytes(), data); err != nil {
		return fmt.Errorf("boltstore: put record: %w", err)
	}
	return nil
}

func (t *boltTxn) Delete(slot address.Slot) error {
	if !t.verifier.Verify(slot) {
		return ErrInvalidCapability
	}
	if t.bucket.Get(slot.Address[:]) == nil {
		return ErrNotFound
	}
	if err := t.bucket.Delete(slot.Address[:]); err != nil {
		return fmt.Errorf("boltstore: delete record: %w", err)
	}
	return nil
}
