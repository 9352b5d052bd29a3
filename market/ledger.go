package market

import (
	"errors"
	"fmt"

	"github.com/bitfsorg/passbook-go/address"
	"github.com/bitfsorg/passbook-go/record"
	"github.com/bitfsorg/passbook-go/storage"
	"github.com/bitfsorg/passbook-go/token"
)

type marshaler interface {
	Marshal() ([]byte, error)
}

func put(tx storage.Txn, slot address.Slot, rec marshaler) error {
	data, err := rec.Marshal()
	if err != nil {
		return err
	}
	return tx.Put(slot, data)
}

// get reads addr, mapping a missing record to notFound.
func get(r storage.Reader, addr address.Address, notFound error) ([]byte, error) {
	data, err := r.Get(addr)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", notFound, addr.Short())
	}
	return data, err
}

// loadPassBook reads the pass book at addr and checks that addr is the
// address derived from its mint.
func (e *Engine) loadPassBook(r storage.Reader, addr address.Address) (*record.PassBook, address.Slot, error) {
	data, err := get(r, addr, ErrPassBookNotFound)
	if err != nil {
		return nil, address.Slot{}, err
	}
	pb, err := record.UnmarshalPassBook(data)
	if err != nil {
		return nil, address.Slot{}, fmt.Errorf("pass book %s: %w", addr.Short(), err)
	}
	slot := e.deriver.PassBook(pb.Mint)
	if slot.Address != addr {
		return nil, address.Slot{}, fmt.Errorf("%w: %s", ErrInvalidPassBookKey, addr.Short())
	}
	return pb, slot, nil
}

// loadStore reads the store at addr and checks that addr is the address
// derived from its authority.
func (e *Engine) loadStore(r storage.Reader, addr address.Address) (*record.Store, address.Slot, error) {
	data, err := get(r, addr, ErrStoreNotFound)
	if err != nil {
		return nil, address.Slot{}, err
	}
	s, err := record.UnmarshalStore(data)
	if err != nil {
		return nil, address.Slot{}, fmt.Errorf("store %s: %w", addr.Short(), err)
	}
	slot := e.deriver.Store(s.Authority)
	if slot.Address != addr {
		return nil, address.Slot{}, fmt.Errorf("%w: %s", ErrInvalidStoreKey, addr.Short())
	}
	return s, slot, nil
}

// storeFor returns authority's store, creating it if absent.
func (e *Engine) storeFor(r storage.Reader, authority address.Address) (*record.Store, address.Slot, error) {
	slot := e.deriver.Store(authority)
	ok, err := r.Has(slot.Address)
	if err != nil {
		return nil, slot, err
	}
	if !ok {
		return &record.Store{Authority: authority}, slot, nil
	}
	s, _, err := e.loadStore(r, slot.Address)
	return s, slot, err
}

// historyFor returns buyer's trade history for passBook, creating it if absent.
func (e *Engine) historyFor(r storage.Reader, passBook, buyer address.Address) (*record.TradeHistory, address.Slot, error) {
	slot := e.deriver.TradeHistory(passBook, buyer)
	data, err := r.Get(slot.Address)
	if errors.Is(err, storage.ErrNotFound) {
		return &record.TradeHistory{PassBook: passBook, Buyer: buyer}, slot, nil
	}
	if err != nil {
		return nil, slot, err
	}
	h, err := record.UnmarshalTradeHistory(data)
	if err != nil {
		return nil, slot, err
	}
	if h.PassBook != passBook || h.Buyer != buyer {
		return nil, slot, ErrInvalidTradeHistoryKey
	}
	return h, slot, nil
}

// membershipFor returns owner's membership in store and whether it was
// created by this call.
func (e *Engine) membershipFor(r storage.Reader, store, owner address.Address) (*record.Membership, address.Slot, bool, error) {
	slot := e.deriver.Membership(store, owner)
	data, err := r.Get(slot.Address)
	if errors.Is(err, storage.ErrNotFound) {
		return &record.Membership{Store: store, Owner: owner}, slot, true, nil
	}
	if err != nil {
		return nil, slot, false, err
	}
	m, err := e.decodeMembership(data, store, owner)
	return m, slot, false, err
}

func (e *Engine) decodeMembership(data []byte, store, owner address.Address) (*record.Membership, error) {
	m, err := record.UnmarshalMembership(data)
	if err != nil {
		return nil, err
	}
	if m.Store != store || m.Owner != owner {
		return nil, ErrInvalidMembershipKey
	}
	return m, nil
}

// payoutSet caches the payout records one operation touches so repeated
// credits to the same recipient accumulate on one record.
type payoutSet struct {
	e       *Engine
	r       storage.Reader
	batch   *token.Batch
	entries map[address.Address]*payoutEntry
	order   []address.Address
}

type payoutEntry struct {
	slot address.Slot
	rec  *record.Payout
}

func (e *Engine) newPayoutSet(r storage.Reader, batch *token.Batch) *payoutSet {
	return &payoutSet{e: e, r: r, batch: batch, entries: make(map[address.Address]*payoutEntry)}
}

// get returns recipient's payout record for asset, creating it if absent.
// A new record for a non-native asset gets a treasury account opened in the
// batch; native payouts settle to the recipient directly.
func (s *payoutSet) get(recipient, asset address.Address) (*record.Payout, error) {
	slot := s.e.deriver.Payout(recipient, asset)
	if entry, ok := s.entries[slot.Address]; ok {
		return entry.rec, nil
	}

	data, err := s.r.Get(slot.Address)
	var rec *record.Payout
	switch {
	case errors.Is(err, storage.ErrNotFound):
		rec = &record.Payout{Authority: recipient, Asset: asset, Treasury: recipient}
		if !asset.IsZero() {
			rec.Treasury = s.e.deriver.Treasury(slot.Address).Address
			s.batch.Open(rec.Treasury, recipient, asset)
		}
	case err != nil:
		return nil, err
	default:
		if rec, err = record.UnmarshalPayout(data); err != nil {
			return nil, err
		}
		if rec.Authority != recipient || rec.Asset != asset {
			return nil, ErrInvalidPayoutKey
		}
	}

	s.entries[slot.Address] = &payoutEntry{slot: slot, rec: rec}
	s.order = append(s.order, slot.Address)
	return rec, nil
}

// flush writes every touched payout record.
func (s *payoutSet) flush(tx storage.Txn) error {
	for _, addr := range s.order {
		entry := s.entries[addr]
		if err := put(tx, entry.slot, entry.rec); err != nil {
			return fmt.Errorf("payout %s: %w", addr.Short(), err)
		}
	}
	return nil
}
