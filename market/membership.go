package market

import (
	"context"
	"fmt"

	"github.com/bitfsorg/passbook-go/address"
	"github.com/bitfsorg/passbook-go/record"
	"github.com/bitfsorg/passbook-go/storage"
	"github.com/bitfsorg/passbook-go/wallet"
)

// loadMembership reads owner's membership in the store at storeAddr.
func (e *Engine) loadMembership(r storage.Reader, storeAddr, owner address.Address) (*record.Membership, address.Slot, error) {
	slot := e.deriver.Membership(storeAddr, owner)
	data, err := get(r, slot.Address, ErrMembershipNotFound)
	if err != nil {
		return nil, slot, err
	}
	m, err := e.decodeMembership(data, storeAddr, owner)
	return m, slot, err
}

// UseMembership redeems one use of owner's membership and counts the
// redemption on the store. Either the owner or the store authority may
// sign.
func (e *Engine) UseMembership(ctx context.Context, auth *wallet.Authorization, storeAddr, owner address.Address) (m *record.Membership, err error) {
	start := e.clock()
	defer func() { e.observe("use_membership", start, err) }()

	now := e.now()
	err = e.store.Update(ctx, func(tx storage.Txn) error {
		store, storeSlot, err := e.loadStore(tx, storeAddr)
		if err != nil {
			return err
		}
		if !auth.Signed(owner) && !auth.Signed(store.Authority) {
			return fmt.Errorf("%w: owner %s", ErrMissingSignature, owner.Short())
		}
		membership, slot, err := e.loadMembership(tx, storeAddr, owner)
		if err != nil {
			return err
		}
		if err := membership.Use(now); err != nil {
			return err
		}
		if err := store.AddRedemption(); err != nil {
			return err
		}
		if err := put(tx, slot, membership); err != nil {
			return err
		}
		m = membership
		return put(tx, storeSlot, store)
	})
	if err != nil {
		return nil, err
	}

	attrs := []any{"store", storeAddr.String(), "owner", owner.String()}
	if m.Uses != nil {
		attrs = append(attrs, "remaining", m.Uses.Remaining)
	}
	e.logger.InfoContext(ctx, "membership used", attrs...)
	return m, nil
}

// ExpireMembership records that owner's membership has lapsed. Anyone may
// call it once the expiry has passed.
func (e *Engine) ExpireMembership(ctx context.Context, storeAddr, owner address.Address) (err error) {
	start := e.clock()
	defer func() { e.observe("expire_membership", start, err) }()

	now := e.now()
	err = e.store.Update(ctx, func(tx storage.Txn) error {
		membership, slot, err := e.loadMembership(tx, storeAddr, owner)
		if err != nil {
			return err
		}
		if err := membership.Expire(now); err != nil {
			return err
		}
		return put(tx, slot, membership)
	})
	if err != nil {
		return err
	}
	e.logger.InfoContext(ctx, "membership expired", "store", storeAddr.String(), "owner", owner.String())
	return nil
}
