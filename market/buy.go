package market

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/bitfsorg/passbook-go/address"
	"github.com/bitfsorg/passbook-go/record"
	"github.com/bitfsorg/passbook-go/revshare"
	"github.com/bitfsorg/passbook-go/storage"
	"github.com/bitfsorg/passbook-go/token"
	"github.com/bitfsorg/passbook-go/wallet"
)

const secondsPerDay = 86400

// BuyPassRequest is one purchase of a pass.
type BuyPassRequest struct {
	PassBook address.Address
	Store    address.Address // the pass book authority's store
	Buyer    address.Address
	// BuyerAccount pays the price. It must be the buyer's account in the
	// pass book's price asset; for the native asset it is the buyer itself.
	BuyerAccount address.Address
	Rates        revshare.Rates
}

// Receipt describes a committed purchase.
type Receipt struct {
	BatchID   uuid.UUID
	Plan      *revshare.Plan
	Strategy  string
	Supply    uint64
	ExpiresAt *int64
	Ended     bool // the purchase sold the last piece
}

// BuyPass sells one pass to req.Buyer. Validation, membership renewal, the
// fee split, counter updates and the buyer's transfers commit together or
// not at all.
func (e *Engine) BuyPass(ctx context.Context, auth *wallet.Authorization, req BuyPassRequest) (receipt *Receipt, err error) {
	start := e.clock()
	defer func() { e.observe("buy_pass", start, err) }()

	receipt, err = e.buyPass(ctx, auth, req)
	if err != nil {
		e.logger.WarnContext(ctx, "purchase rejected",
			"passbook", req.PassBook.String(),
			"buyer", req.Buyer.String(),
			"category", string(CategoryOf(err)),
			"error", err,
		)
		return nil, err
	}

	e.metrics.IncrementPassesSold()
	for _, p := range receipt.Plan.Payments {
		e.metrics.AddDistributed(p.Role.String(), p.Amount)
	}
	e.metrics.AddUndisbursed(receipt.Plan.Undisbursed)

	e.logger.InfoContext(ctx, "pass sold",
		"passbook", req.PassBook.String(),
		"buyer", req.Buyer.String(),
		"batch", receipt.BatchID.String(),
		"strategy", receipt.Strategy,
		"payments", len(receipt.Plan.Payments),
		"undisbursed", receipt.Plan.Undisbursed,
		"supply", receipt.Supply,
	)
	return receipt, nil
}

func (e *Engine) buyPass(ctx context.Context, auth *wallet.Authorization, req BuyPassRequest) (*Receipt, error) {
	if err := req.Rates.Validate(); err != nil {
		return nil, err
	}
	if req.Rates.MarketFeeBPS > e.maxMarketFeeBPS {
		return nil, fmt.Errorf("%w: %d > %d", ErrWrongMarketSellerBasisPoint, req.Rates.MarketFeeBPS, e.maxMarketFeeBPS)
	}
	if !auth.Signed(req.Buyer) {
		return nil, fmt.Errorf("%w: buyer %s", ErrMissingSignature, req.Buyer.Short())
	}

	now := e.now()
	var receipt *Receipt
	err := e.store.Update(ctx, func(tx storage.Txn) error {
		pb, pbSlot, err := e.loadPassBook(tx, req.PassBook)
		if err != nil {
			return err
		}
		store, storeSlot, err := e.loadStore(tx, req.Store)
		if err != nil {
			return err
		}
		if store.Authority != pb.Authority {
			return fmt.Errorf("%w: %s", ErrInvalidStoreKey, req.Store.Short())
		}
		if pb.Exhausted() {
			return record.ErrSupplyIsGtThanMaxSupply
		}
		if pb.State != record.PassActivated {
			return fmt.Errorf("%w: state %s", record.ErrPassNotActivated, pb.State)
		}

		account, err := e.tokens.Account(ctx, req.BuyerAccount)
		if err != nil {
			return err
		}
		if account.Asset != pb.PriceAsset {
			return ErrPriceTokenMismatch
		}
		if account.Owner != req.Buyer {
			return ErrUserWalletMustMatchUserTokenAccount
		}

		history, historySlot, err := e.historyFor(tx, req.PassBook, req.Buyer)
		if err != nil {
			return err
		}
		if history.Reached(pb.PiecesInOneWallet) {
			return fmt.Errorf("%w: bought %d", ErrUserReachBuyLimit, history.AlreadyBought)
		}

		membership, membershipSlot, created, err := e.membershipFor(tx, req.Store, req.Buyer)
		if err != nil {
			return err
		}
		if pb.Access != nil && membership.IsActive(now) {
			return ErrUserHasActiveMembership
		}
		expiresAt, err := expiry(now, pb.Access)
		if err != nil {
			return err
		}
		activated := membership.Renew(req.PassBook, expiresAt, pb.MaxUses, now)

		primarySale, err := e.tokens.PrimarySaleHappened(ctx, pb.Mint)
		if err != nil {
			return err
		}
		strategy := revshare.StrategyFor(primarySale, e.royaltyBPS)
		plan, err := revshare.Compute(revshare.Params{
			Price:        pb.Price,
			Rates:        req.Rates,
			Creators:     targets(pb.Creators),
			Seller:       pb.Authority,
			Operator:     pb.MarketAuthority,
			Referrer:     store.Referrer,
			ReferralOpen: store.ReferralOpen(now),
			Strategy:     strategy,
		})
		if err != nil {
			return err
		}

		batch := token.NewBatch()
		payouts := e.newPayoutSet(tx, batch)
		for _, p := range plan.Payments {
			payout, err := payouts.get(p.Recipient, pb.PriceAsset)
			if err != nil {
				return err
			}
			if err := payout.Credit(p.Amount); err != nil {
				return fmt.Errorf("payout %s: %w", p.Recipient.Short(), err)
			}
			batch.Transfer(pb.PriceAsset, req.BuyerAccount, payout.Treasury, p.Amount)
		}

		if err := store.AddPassSold(); err != nil {
			return err
		}
		if created {
			if err := store.AddMembership(); err != nil {
				return err
			}
		}
		if activated {
			if err := store.AddActiveMembership(); err != nil {
				return err
			}
		}
		if err := history.AddPurchase(); err != nil {
			return err
		}
		if err := pb.RecordSale(); err != nil {
			return err
		}

		if err := put(tx, pbSlot, pb); err != nil {
			return err
		}
		if err := put(tx, storeSlot, store); err != nil {
			return err
		}
		if err := put(tx, historySlot, history); err != nil {
			return err
		}
		if err := put(tx, membershipSlot, membership); err != nil {
			return err
		}
		if err := payouts.flush(tx); err != nil {
			return err
		}
		if err := e.tokens.Execute(ctx, batch); err != nil {
			return err
		}

		receipt = &Receipt{
			BatchID:   batch.ID,
			Plan:      plan,
			Strategy:  strategy.String(),
			Supply:    pb.Supply,
			ExpiresAt: expiresAt,
			Ended:     pb.State == record.PassEnded,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return receipt, nil
}

// expiry returns now plus access days, or nil for passes without an access
// period.
func expiry(now int64, accessDays *uint64) (*int64, error) {
	if accessDays == nil {
		return nil, nil
	}
	if *accessDays > math.MaxInt64/secondsPerDay {
		return nil, fmt.Errorf("%w: access %d days", ErrMathOverflow, *accessDays)
	}
	secs := int64(*accessDays) * secondsPerDay
	if now > math.MaxInt64-secs {
		return nil, fmt.Errorf("%w: expiry", ErrMathOverflow)
	}
	at := now + secs
	return &at, nil
}
