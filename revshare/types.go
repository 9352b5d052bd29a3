package revshare

import (
	"fmt"

	"github.com/bitfsorg/passbook-go/address"
)

// Rate denominators.
const (
	BasisPointsDenominator = 10000
	PercentDenominator     = 100
)

// Role says why a recipient is paid.
type Role uint8

const (
	RoleCreator Role = iota + 1
	RoleSeller
	RoleOperator
	RoleReferrer
	RoleKickback
)

func (r Role) String() string {
	switch r {
	case RoleCreator:
		return "creator"
	case RoleSeller:
		return "seller"
	case RoleOperator:
		return "operator"
	case RoleReferrer:
		return "referrer"
	case RoleKickback:
		return "kickback"
	default:
		return fmt.Sprintf("role(%d)", uint8(r))
	}
}

// Target is a creator payout target with its percentage share.
type Target struct {
	Address address.Address
	Share   uint8
}

// Rates are the caller-supplied fee parameters of a sale.
type Rates struct {
	MarketFeeBPS     uint16 // basis points of the price kept by the market
	ReferralShare    uint8  // percent of the market pool owed to the referrer
	ReferralKickback uint8  // percent of the referral amount returned to creators
}

// Validate rejects rates outside their ranges.
func (r Rates) Validate() error {
	if r.MarketFeeBPS > BasisPointsDenominator {
		return fmt.Errorf("%w: %d", ErrWrongMarketFee, r.MarketFeeBPS)
	}
	if r.ReferralShare > PercentDenominator || r.ReferralKickback > PercentDenominator {
		return fmt.Errorf("%w: share=%d kickback=%d", ErrWrongReferralShare, r.ReferralShare, r.ReferralKickback)
	}
	return nil
}

// Params is the input of Compute.
type Params struct {
	Price uint64
	Rates Rates

	Creators []Target
	Seller   address.Address // receives the non-royalty part under RoyaltySplit
	Operator *address.Address
	Referrer *address.Address

	// ReferralOpen is false once the referrer's window has elapsed.
	ReferralOpen bool

	// Strategy selects the creator split. Nil means FlatSplit.
	Strategy Strategy
}

// Payment is one transfer of a distribution plan.
type Payment struct {
	Recipient address.Address
	Role      Role
	Amount    uint64
}

// Plan is the result of Compute. Payments never carry a zero amount.
type Plan struct {
	Payments    []Payment
	Undisbursed uint64 // lapsed referral, operator-less market pool and truncation dust

	CreatorPool uint64
	MarketPool  uint64
}

// Paid returns the sum of all payments.
func (p *Plan) Paid() (uint64, error) {
	var sum uint64
	for _, pay := range p.Payments {
		var err error
		if sum, err = add(sum, pay.Amount); err != nil {
			return 0, err
		}
	}
	return sum, nil
}

// AmountTo returns the total paid to recipient across roles.
func (p *Plan) AmountTo(recipient address.Address) uint64 {
	var sum uint64
	for _, pay := range p.Payments {
		if pay.Recipient == recipient {
			sum += pay.Amount
		}
	}
	return sum
}

// AmountFor returns the total paid under role.
func (p *Plan) AmountFor(role Role) uint64 {
	var sum uint64
	for _, pay := range p.Payments {
		if pay.Role == role {
			sum += pay.Amount
		}
	}
	return sum
}

func (p *Plan) pay(recipient address.Address, role Role, amount uint64) {
	if amount == 0 {
		return
	}
	p.Payments = append(p.Payments, Payment{Recipient: recipient, Role: role, Amount: amount})
}
