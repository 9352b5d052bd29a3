package market

import (
	"context"

	"github.com/bitfsorg/passbook-go/address"
	"github.com/bitfsorg/passbook-go/record"
	"github.com/bitfsorg/passbook-go/storage"
)

// PassBookAddress returns the pass book address of mint.
func (e *Engine) PassBookAddress(mint address.Address) address.Address {
	return e.deriver.PassBook(mint).Address
}

// StoreAddress returns the store address of authority.
func (e *Engine) StoreAddress(authority address.Address) address.Address {
	return e.deriver.Store(authority).Address
}

// PayoutAddress returns the payout record address of recipient in asset.
func (e *Engine) PayoutAddress(recipient, asset address.Address) address.Address {
	return e.deriver.Payout(recipient, asset).Address
}

// TradeHistoryAddress returns buyer's trade history address for passBook.
func (e *Engine) TradeHistoryAddress(passBook, buyer address.Address) address.Address {
	return e.deriver.TradeHistory(passBook, buyer).Address
}

// MembershipAddress returns owner's membership address in store.
func (e *Engine) MembershipAddress(store, owner address.Address) address.Address {
	return e.deriver.Membership(store, owner).Address
}

// PassBook returns the pass book at addr.
func (e *Engine) PassBook(ctx context.Context, addr address.Address) (*record.PassBook, error) {
	var pb *record.PassBook
	err := e.store.View(ctx, func(r storage.Reader) error {
		var err error
		pb, _, err = e.loadPassBook(r, addr)
		return err
	})
	return pb, err
}

// Store returns the store at addr.
func (e *Engine) Store(ctx context.Context, addr address.Address) (*record.Store, error) {
	var s *record.Store
	err := e.store.View(ctx, func(r storage.Reader) error {
		var err error
		s, _, err = e.loadStore(r, addr)
		return err
	})
	return s, err
}

// Payout returns recipient's payout record for asset.
func (e *Engine) Payout(ctx context.Context, recipient, asset address.Address) (*record.Payout, error) {
	var p *record.Payout
	err := e.store.View(ctx, func(r storage.Reader) error {
		data, err := get(r, e.PayoutAddress(recipient, asset), storage.ErrNotFound)
		if err != nil {
			return err
		}
		if p, err = record.UnmarshalPayout(data); err != nil {
			return err
		}
		if p.Authority != recipient || p.Asset != asset {
			return ErrInvalidPayoutKey
		}
		return nil
	})
	return p, err
}

// TradeHistory returns buyer's trade history for passBook. A buyer who has
// not bought yet gets an empty history.
func (e *Engine) TradeHistory(ctx context.Context, passBook, buyer address.Address) (*record.TradeHistory, error) {
	var h *record.TradeHistory
	err := e.store.View(ctx, func(r storage.Reader) error {
		var err error
		h, _, err = e.historyFor(r, passBook, buyer)
		return err
	})
	return h, err
}

// Membership returns owner's membership in store.
func (e *Engine) Membership(ctx context.Context, store, owner address.Address) (*record.Membership, error) {
	var m *record.Membership
	err := e.store.View(ctx, func(r storage.Reader) error {
		var err error
		m, _, err = e.loadMembership(r, store, owner)
		return err
	})
	return m, err
}
