package market

import (
	"errors"

	"github.com/bitfsorg/passbook-go/record"
	"github.com/bitfsorg/passbook-go/revshare"
)

// Validation errors.
var (
	// ErrMissingSignature indicates a required identity did not sign the request.
	ErrMissingSignature = errors.New("market: required signature missing")

	// ErrInvalidMarketAuthority indicates the market authority did not sign an init.
	ErrInvalidMarketAuthority = errors.New("market: market authority must sign")

	// ErrInvalidPassBookKey indicates a pass book address that is not derived from its mint.
	ErrInvalidPassBookKey = errors.New("market: invalid pass book key")

	// ErrInvalidStoreKey indicates a store address that is not the pass book authority's store.
	ErrInvalidStoreKey = errors.New("market: invalid store key")

	// ErrInvalidPayoutKey indicates a payout record owned by another recipient or asset.
	ErrInvalidPayoutKey = errors.New("market: invalid payout key")

	// ErrInvalidTradeHistoryKey indicates a trade history of another pass book or buyer.
	ErrInvalidTradeHistoryKey = errors.New("market: invalid trade history key")

	// ErrInvalidMembershipKey indicates a membership of another store or owner.
	ErrInvalidMembershipKey = errors.New("market: invalid membership key")

	// ErrPriceTokenMismatch indicates a buyer account in another asset than the price.
	ErrPriceTokenMismatch = errors.New("market: buyer account asset does not match price asset")

	// ErrUserWalletMustMatchUserTokenAccount indicates a buyer account owned by someone else.
	ErrUserWalletMustMatchUserTokenAccount = errors.New("market: buyer must own the paying token account")

	// ErrInvalidMasterAccount indicates a master account that is not the authority's collectible.
	ErrInvalidMasterAccount = errors.New("market: master account must hold the authority's collectible")

	// ErrPassBookNotFound indicates no pass book at the address.
	ErrPassBookNotFound = errors.New("market: pass book not found")

	// ErrStoreNotFound indicates no store at the address.
	ErrStoreNotFound = errors.New("market: store not found")

	// ErrMembershipNotFound indicates no membership for the store and owner.
	ErrMembershipNotFound = errors.New("market: membership not found")
)

// State errors.
var (
	// ErrPassBookExists indicates an init for a mint that already has a pass book.
	ErrPassBookExists = errors.New("market: pass book already exists")

	// ErrReferrerAlreadySet indicates an init naming a different referrer than the store's.
	ErrReferrerAlreadySet = errors.New("market: store referrer is already set")
)

// Limit errors.
var (
	// ErrUserReachBuyLimit indicates the buyer used up the per-wallet cap.
	ErrUserReachBuyLimit = errors.New("market: user reached buy limit")

	// ErrUserHasActiveMembership indicates a repurchase while a membership is active.
	ErrUserHasActiveMembership = errors.New("market: user has an active membership")
)

// Parameter errors.
var (
	// ErrWrongDuration indicates a zero duration.
	ErrWrongDuration = errors.New("market: duration must be greater than zero")

	// ErrWrongValidityPeriod indicates a zero access period.
	ErrWrongValidityPeriod = errors.New("market: validity period must be greater than zero")

	// ErrWrongMaxSupply indicates a zero max supply.
	ErrWrongMaxSupply = errors.New("market: max supply must be greater than zero")

	// ErrWrongBuyLimit indicates a zero per-wallet cap.
	ErrWrongBuyLimit = errors.New("market: pieces in one wallet must be greater than zero")

	// ErrWrongMaxUses indicates a zero use count.
	ErrWrongMaxUses = errors.New("market: max uses must be greater than zero")

	// ErrWrongMarketSellerBasisPoint indicates a market fee above the configured cap.
	ErrWrongMarketSellerBasisPoint = errors.New("market: market fee exceeds the configured maximum")
)

// Arithmetic errors.
var (
	// ErrMathOverflow indicates an overflow outside the distribution engine.
	ErrMathOverflow = errors.New("market: math overflow")
)

// Category classifies an error for callers that branch on kind.
type Category string

const (
	CategoryNone       Category = ""
	CategoryValidation Category = "validation"
	CategoryState      Category = "state"
	CategoryArithmetic Category = "arithmetic"
	CategoryLimit      Category = "limit"
	CategoryParameter  Category = "parameter"
	CategoryInternal   Category = "internal"
)

var categories = []struct {
	category Category
	errs     []error
}{
	{CategoryLimit, []error{
		ErrUserReachBuyLimit, ErrUserHasActiveMembership,
		record.ErrSupplyIsGtThanMaxSupply, record.ErrNoUsesRemaining,
	}},
	{CategoryArithmetic, []error{
		ErrMathOverflow, record.ErrOverflow, revshare.ErrMathOverflow, revshare.ErrConservationViolated,
	}},
	{CategoryParameter, []error{
		ErrWrongDuration, ErrWrongValidityPeriod, ErrWrongMaxSupply, ErrWrongBuyLimit,
		ErrWrongMaxUses, ErrWrongMarketSellerBasisPoint,
		revshare.ErrWrongMarketFee, revshare.ErrWrongReferralShare, revshare.ErrWrongRoyalty,
		revshare.ErrInvalidShares, revshare.ErrNoCreators,
		record.ErrNameTooLong, record.ErrDescriptionTooLong, record.ErrURITooLong,
		record.ErrBlurHashTooLong, record.ErrTooManyCreators, record.ErrEmptyEdit,
	}},
	{CategoryState, []error{
		ErrPassBookExists, ErrReferrerAlreadySet,
		record.ErrPassBookAlreadyActivated, record.ErrPassBookAlreadyDeactivated,
		record.ErrPassNotActivated, record.ErrPassBookEnded, record.ErrImmutablePassBook,
		record.ErrWrongPassState, record.ErrCantSetTheSameValue,
		record.ErrMembershipNotActive, record.ErrMembershipNotExpired,
	}},
	{CategoryValidation, []error{
		ErrMissingSignature, ErrInvalidMarketAuthority, ErrInvalidPassBookKey, ErrInvalidStoreKey,
		ErrInvalidPayoutKey, ErrInvalidTradeHistoryKey, ErrInvalidMembershipKey,
		ErrPriceTokenMismatch, ErrUserWalletMustMatchUserTokenAccount, ErrInvalidMasterAccount,
		ErrPassBookNotFound, ErrStoreNotFound, ErrMembershipNotFound,
		record.ErrWrongAccountType,
	}},
}

// CategoryOf reports the category of err. Errors the engine does not
// recognize, such as storage or token service failures, are internal.
func CategoryOf(err error) Category {
	if err == nil {
		return CategoryNone
	}
	for _, c := range categories {
		for _, target := range c.errs {
			if errors.Is(err, target) {
				return c.category
			}
		}
	}
	return CategoryInternal
}
