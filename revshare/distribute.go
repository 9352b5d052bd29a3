// Package revshare computes how the price of a pass sale is split between
// creators, the seller, the market operator and the referrer.
//
// Compute is pure: it returns a Plan and leaves applying it to the caller.
// All rates use integer arithmetic with truncating division, and whatever
// the plan does not pay out is reported as Undisbursed.
package revshare

import (
	"fmt"

	"github.com/bitfsorg/passbook-go/address"
)

// Compute builds the distribution plan for one sale.
//
//	market_pool  = floor(price * fee_bps / 10000)
//	creator_pool = price - market_pool            (split by Strategy)
//	referral     = floor(market_pool * share / 100) if the referral is open
//	operator     = market_pool - floor(market_pool * share / 100)
//	kickback     = floor(referral * kickback / 100) (split by creator share)
//	referrer     = referral - kickback
func Compute(p Params) (*Plan, error) {
	if err := p.Rates.Validate(); err != nil {
		return nil, err
	}
	if err := ValidateShares(p.Creators); err != nil {
		return nil, err
	}
	strategy := p.Strategy
	if strategy == nil {
		strategy = FlatSplit{}
	}

	plan := &Plan{}
	var err error

	plan.MarketPool, err = mulDiv(p.Price, uint64(p.Rates.MarketFeeBPS), BasisPointsDenominator)
	if err != nil {
		return nil, err
	}
	plan.CreatorPool, err = sub(p.Price, plan.MarketPool)
	if err != nil {
		return nil, err
	}

	creatorsPaid, err := strategy.split(plan, plan.CreatorPool, p.Creators, &p)
	if err != nil {
		return nil, fmt.Errorf("%s split: %w", strategy, err)
	}
	if err := plan.leave(plan.CreatorPool, creatorsPaid); err != nil {
		return nil, err
	}

	referral, err := mulDiv(plan.MarketPool, uint64(p.Rates.ReferralShare), PercentDenominator)
	if err != nil {
		return nil, err
	}
	operator, err := sub(plan.MarketPool, referral)
	if err != nil {
		return nil, err
	}
	if p.Operator != nil {
		plan.pay(*p.Operator, RoleOperator, operator)
	} else if plan.Undisbursed, err = add(plan.Undisbursed, operator); err != nil {
		return nil, err
	}

	if p.Referrer != nil && p.ReferralOpen {
		err = plan.payReferral(*p.Referrer, referral, p.Rates.ReferralKickback, p.Creators)
	} else {
		plan.Undisbursed, err = add(plan.Undisbursed, referral)
	}
	if err != nil {
		return nil, err
	}

	if err := ValidateConservation(plan, p.Price); err != nil {
		return nil, err
	}
	return plan, nil
}

// payReferral returns the kickback part of referral to the creators and pays
// the rest to the referrer.
func (p *Plan) payReferral(referrer address.Address, referral uint64, kickbackPct uint8, creators []Target) error {
	kickback, err := mulDiv(referral, uint64(kickbackPct), PercentDenominator)
	if err != nil {
		return err
	}
	kickbackPaid, err := splitByShare(p, kickback, creators, RoleKickback)
	if err != nil {
		return err
	}
	if err := p.leave(kickback, kickbackPaid); err != nil {
		return err
	}
	toReferrer, err := sub(referral, kickback)
	if err != nil {
		return err
	}
	p.pay(referrer, RoleReferrer, toReferrer)
	return nil
}

// leave adds the unpaid part of pool to Undisbursed.
func (p *Plan) leave(pool, paid uint64) error {
	dust, err := sub(pool, paid)
	if err != nil {
		return err
	}
	p.Undisbursed, err = add(p.Undisbursed, dust)
	return err
}
