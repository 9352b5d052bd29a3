package revshare

import "fmt"

// Strategy splits the creator pool between creators and, for secondary
// sales, the seller.
type Strategy interface {
	fmt.Stringer

	split(plan *Plan, pool uint64, creators []Target, p *Params) (paid uint64, err error)
}

// FlatSplit pays each creator its share of the whole creator pool. It applies
// until the collectible's primary sale has happened.
type FlatSplit struct{}

func (FlatSplit) String() string { return "flat" }

func (FlatSplit) split(plan *Plan, pool uint64, creators []Target, _ *Params) (uint64, error) {
	return splitByShare(plan, pool, creators, RoleCreator)
}

// RoyaltySplit pays creators their share of a royalty cut of the creator
// pool and routes the rest to the seller. It applies once the primary sale
// has happened.
type RoyaltySplit struct {
	BasisPoints uint16
}

func (s RoyaltySplit) String() string { return fmt.Sprintf("royalty(%dbps)", s.BasisPoints) }

func (s RoyaltySplit) split(plan *Plan, pool uint64, creators []Target, p *Params) (uint64, error) {
	if s.BasisPoints > BasisPointsDenominator {
		return 0, fmt.Errorf("%w: %d", ErrWrongRoyalty, s.BasisPoints)
	}
	royalty, err := mulDiv(pool, uint64(s.BasisPoints), BasisPointsDenominator)
	if err != nil {
		return 0, err
	}
	paid, err := splitByShare(plan, royalty, creators, RoleCreator)
	if err != nil {
		return 0, err
	}
	rest, err := sub(pool, royalty)
	if err != nil {
		return 0, err
	}
	plan.pay(p.Seller, RoleSeller, rest)
	return add(paid, rest)
}

// StrategyFor returns RoyaltySplit once the primary sale happened and
// FlatSplit before.
func StrategyFor(primarySaleHappened bool, royaltyBPS uint16) Strategy {
	if primarySaleHappened {
		return RoyaltySplit{BasisPoints: royaltyBPS}
	}
	return FlatSplit{}
}

// splitByShare pays floor(amount*share/100) to every target and returns the
// total paid. The truncation remainder is left to the caller.
func splitByShare(plan *Plan, amount uint64, targets []Target, role Role) (uint64, error) {
	var paid uint64
	for _, t := range targets {
		v, err := mulDiv(amount, uint64(t.Share), PercentDenominator)
		if err != nil {
			return 0, err
		}
		plan.pay(t.Address, role, v)
		if paid, err = add(paid, v); err != nil {
			return 0, err
		}
	}
	return paid, nil
}
