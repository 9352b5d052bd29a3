package market

import (
	"context"
	"fmt"

	"github.com/bitfsorg/passbook-go/address"
	"github.com/bitfsorg/passbook-go/record"
	"github.com/bitfsorg/passbook-go/revshare"
	"github.com/bitfsorg/passbook-go/storage"
	"github.com/bitfsorg/passbook-go/token"
	"github.com/bitfsorg/passbook-go/wallet"
)

// InitPassBookRequest describes a new pass book.
type InitPassBookRequest struct {
	Authority address.Address
	Mint      address.Address // master collectible
	// MasterAccount is the authority's token account holding the master
	// collectible. It moves into the pass book's vault.
	MasterAccount address.Address

	Name        string
	Description string
	URI         string
	BlurHash    *string
	Mutable     bool

	Access   *uint64 // days
	Duration *uint64 // minutes

	MaxSupply         *uint64
	PiecesInOneWallet *uint64
	MaxUses           *uint64

	Price      uint64
	PriceAsset address.Address

	Creators []record.Creator

	// MarketAuthority is the market operator; it must sign the request.
	MarketAuthority *address.Address

	// Referrer becomes the store's referrer if the store has none yet.
	Referrer        *address.Address
	ReferralEndDate *int64
}

func (r *InitPassBookRequest) validate(auth *wallet.Authorization) error {
	if !auth.Signed(r.Authority) {
		return fmt.Errorf("%w: authority %s", ErrMissingSignature, r.Authority.Short())
	}
	if r.MarketAuthority != nil && !auth.Signed(*r.MarketAuthority) {
		return ErrInvalidMarketAuthority
	}
	if err := record.ValidateText(r.Name, r.Description, r.URI, r.BlurHash); err != nil {
		return err
	}
	if r.Duration != nil && *r.Duration == 0 {
		return ErrWrongDuration
	}
	if r.Access != nil && *r.Access == 0 {
		return ErrWrongValidityPeriod
	}
	if r.MaxSupply != nil && *r.MaxSupply == 0 {
		return ErrWrongMaxSupply
	}
	if r.PiecesInOneWallet != nil && *r.PiecesInOneWallet == 0 {
		return ErrWrongBuyLimit
	}
	if r.MaxUses != nil && *r.MaxUses == 0 {
		return ErrWrongMaxUses
	}
	if len(r.Creators) > record.MaxCreators {
		return fmt.Errorf("%w: %d", record.ErrTooManyCreators, len(r.Creators))
	}
	return revshare.ValidateShares(targets(r.Creators))
}

// InitPassBook creates a pass book for req.Mint and returns its address. The
// authority's store is created on first use, the master collectible moves
// into the pass book's vault, and payout records are opened for every
// creator, the seller, the operator and the store's referrer.
func (e *Engine) InitPassBook(ctx context.Context, auth *wallet.Authorization, req InitPassBookRequest) (addr address.Address, err error) {
	start := e.clock()
	defer func() { e.observe("init_pass_book", start, err) }()
	if err := req.validate(auth); err != nil {
		return address.Address{}, err
	}

	slot := e.deriver.PassBook(req.Mint)
	vault := e.deriver.Vault(slot.Address).Address

	err = e.store.Update(ctx, func(tx storage.Txn) error {
		exists, err := tx.Has(slot.Address)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("%w: mint %s", ErrPassBookExists, req.Mint.Short())
		}

		master, err := e.tokens.Account(ctx, req.MasterAccount)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidMasterAccount, err)
		}
		if master.Owner != req.Authority || master.Asset != req.Mint {
			return ErrInvalidMasterAccount
		}

		store, storeSlot, err := e.storeFor(tx, req.Authority)
		if err != nil {
			return err
		}
		if req.Referrer != nil {
			switch {
			case store.Referrer == nil:
				ref := *req.Referrer
				store.Referrer = &ref
				store.ReferralEndDate = req.ReferralEndDate
			case *store.Referrer != *req.Referrer:
				return ErrReferrerAlreadySet
			}
		}
		if err := store.AddPassBook(); err != nil {
			return err
		}

		batch := token.NewBatch()
		batch.Open(vault, slot.Address, req.Mint)
		batch.Transfer(req.Mint, req.MasterAccount, vault, 1)

		payouts := e.newPayoutSet(tx, batch)
		for _, recipient := range payoutRecipients(&req, store) {
			if _, err := payouts.get(recipient, req.PriceAsset); err != nil {
				return err
			}
		}

		pb := &record.PassBook{
			Authority:         req.Authority,
			Mint:              req.Mint,
			Name:              req.Name,
			Description:       req.Description,
			URI:               req.URI,
			Mutable:           req.Mutable,
			State:             record.PassNotActivated,
			Access:            req.Access,
			Duration:          req.Duration,
			MaxSupply:         req.MaxSupply,
			BlurHash:          req.BlurHash,
			CreatedAt:         e.now(),
			Price:             req.Price,
			PriceAsset:        req.PriceAsset,
			MarketAuthority:   req.MarketAuthority,
			Vault:             vault,
			Creators:          req.Creators,
			PiecesInOneWallet: req.PiecesInOneWallet,
			MaxUses:           req.MaxUses,
		}
		if err := put(tx, slot, pb); err != nil {
			return err
		}
		if err := put(tx, storeSlot, store); err != nil {
			return err
		}
		if err := payouts.flush(tx); err != nil {
			return err
		}
		return e.tokens.Execute(ctx, batch)
	})
	if err != nil {
		return address.Address{}, err
	}

	e.logger.InfoContext(ctx, "pass book created",
		"passbook", slot.Address.String(),
		"authority", req.Authority.String(),
		"price", req.Price,
	)
	return slot.Address, nil
}

// payoutRecipients lists each payout recipient of a new pass book once.
func payoutRecipients(req *InitPassBookRequest, store *record.Store) []address.Address {
	seen := make(map[address.Address]bool)
	var out []address.Address
	add := func(a address.Address) {
		if !seen[a] {
			seen[a] = true
			out = append(out, a)
		}
	}
	for _, c := range req.Creators {
		add(c.Address)
	}
	add(req.Authority)
	if req.MarketAuthority != nil {
		add(*req.MarketAuthority)
	}
	if store.Referrer != nil {
		add(*store.Referrer)
	}
	return out
}

func targets(creators []record.Creator) []revshare.Target {
	out := make([]revshare.Target, len(creators))
	for i, c := range creators {
		out[i] = revshare.Target{Address: c.Address, Share: c.Share}
	}
	return out
}

// updatePassBook loads the pass book at addr, checks the authority signed,
// applies fn and writes the result.
func (e *Engine) updatePassBook(ctx context.Context, auth *wallet.Authorization, addr address.Address, fn func(pb *record.PassBook) error) (*record.PassBook, error) {
	var out *record.PassBook
	err := e.store.Update(ctx, func(tx storage.Txn) error {
		pb, slot, err := e.loadPassBook(tx, addr)
		if err != nil {
			return err
		}
		if !auth.Signed(pb.Authority) {
			return fmt.Errorf("%w: authority %s", ErrMissingSignature, pb.Authority.Short())
		}
		if err := fn(pb); err != nil {
			return err
		}
		out = pb
		return put(tx, slot, pb)
	})
	return out, err
}

// ActivatePassBook opens a pass book for sale.
func (e *Engine) ActivatePassBook(ctx context.Context, auth *wallet.Authorization, passBook address.Address) (err error) {
	start := e.clock()
	defer func() { e.observe("activate_pass_book", start, err) }()
	if _, err = e.updatePassBook(ctx, auth, passBook, (*record.PassBook).Activate); err != nil {
		return err
	}
	e.logger.InfoContext(ctx, "pass book activated", "passbook", passBook.String())
	return nil
}

// DeactivatePassBook stops sales of an activated pass book.
func (e *Engine) DeactivatePassBook(ctx context.Context, auth *wallet.Authorization, passBook address.Address) (err error) {
	start := e.clock()
	defer func() { e.observe("deactivate_pass_book", start, err) }()
	if _, err = e.updatePassBook(ctx, auth, passBook, (*record.PassBook).Deactivate); err != nil {
		return err
	}
	e.logger.InfoContext(ctx, "pass book deactivated", "passbook", passBook.String())
	return nil
}

// EditPassBook changes the fields named by edit. The pass book must be
// mutable and not activated, and every named field must change.
func (e *Engine) EditPassBook(ctx context.Context, auth *wallet.Authorization, passBook address.Address, edit record.Edit) (pb *record.PassBook, err error) {
	start := e.clock()
	defer func() { e.observe("edit_pass_book", start, err) }()
	pb, err = e.updatePassBook(ctx, auth, passBook, func(pb *record.PassBook) error {
		return pb.ApplyEdit(edit)
	})
	if err != nil {
		return nil, err
	}
	e.logger.InfoContext(ctx, "pass book edited", "passbook", passBook.String(), "fields", edit.Fields())
	return pb, nil
}

// DeletePassBook moves whatever the vault still holds to refund and removes
// the pass book.
func (e *Engine) DeletePassBook(ctx context.Context, auth *wallet.Authorization, passBook, refund address.Address) (err error) {
	start := e.clock()
	defer func() { e.observe("delete_pass_book", start, err) }()
	var residual uint64
	err = e.store.Update(ctx, func(tx storage.Txn) error {
		pb, slot, err := e.loadPassBook(tx, passBook)
		if err != nil {
			return err
		}
		if !auth.Signed(pb.Authority) {
			return fmt.Errorf("%w: authority %s", ErrMissingSignature, pb.Authority.Short())
		}
		if err := tx.Delete(slot); err != nil {
			return err
		}

		residual, err = e.tokens.Balance(ctx, pb.Vault)
		if err != nil {
			return err
		}
		if residual == 0 {
			return nil
		}
		batch := token.NewBatch()
		batch.Transfer(pb.Mint, pb.Vault, refund, residual)
		return e.tokens.Execute(ctx, batch)
	})
	if err != nil {
		return err
	}
	e.logger.InfoContext(ctx, "pass book deleted",
		"passbook", passBook.String(),
		"refund", refund.String(),
		"residual", residual,
	)
	return nil
}
