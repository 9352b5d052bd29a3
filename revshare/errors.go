package revshare

import "errors"

var (
	// ErrWrongMarketFee indicates a market fee above 10000 basis points.
	ErrWrongMarketFee = errors.New("revshare: market fee must be at most 10000 basis points")

	// ErrWrongReferralShare indicates a referral share or kickback above 100 percent.
	ErrWrongReferralShare = errors.New("revshare: referral share and kickback must be at most 100 percent")

	// ErrWrongRoyalty indicates a royalty above 10000 basis points.
	ErrWrongRoyalty = errors.New("revshare: royalty must be at most 10000 basis points")

	// ErrInvalidShares indicates creator shares that do not sum to 100.
	ErrInvalidShares = errors.New("revshare: creator shares must sum to 100")

	// ErrNoCreators indicates a distribution without creator targets.
	ErrNoCreators = errors.New("revshare: no creator targets")

	// ErrMathOverflow indicates an arithmetic step overflowed uint64.
	ErrMathOverflow = errors.New("revshare: math overflow")

	// ErrConservationViolated indicates payments and undisbursed value do not sum to the price.
	ErrConservationViolated = errors.New("revshare: value conservation violated")
)
