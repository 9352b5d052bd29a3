package revshare

import "fmt"

// ValidateShares checks that creator shares sum to exactly 100.
func ValidateShares(creators []Target) error {
	if len(creators) == 0 {
		return ErrNoCreators
	}
	var total int
	for _, c := range creators {
		total += int(c.Share)
	}
	if total != PercentDenominator {
		return fmt.Errorf("%w: got %d", ErrInvalidShares, total)
	}
	return nil
}

// ValidateConservation checks that the plan pays out and leaves undisbursed
// exactly price.
func ValidateConservation(plan *Plan, price uint64) error {
	paid, err := plan.Paid()
	if err != nil {
		return err
	}
	total, err := add(paid, plan.Undisbursed)
	if err != nil {
		return err
	}
	if total != price {
		return fmt.Errorf("%w: paid=%d undisbursed=%d price=%d", ErrConservationViolated, paid, plan.Undisbursed, price)
	}
	return nil
}
