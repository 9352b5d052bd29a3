package record

import "errors"

var (
	// ErrInvalidData indicates a record's bytes are malformed.
	ErrInvalidData = errors.New("record: invalid record data")

	// ErrWrongAccountType indicates bytes of one record kind decoded as another.
	ErrWrongAccountType = errors.New("record: wrong account type")

	// ErrOverflow indicates a counter would exceed uint64.
	ErrOverflow = errors.New("record: counter overflow")

	// ErrTooManyCreators indicates more creators than a pass book can hold.
	ErrTooManyCreators = errors.New("record: too many creators")

	// Text field limits.
	ErrNameTooLong        = errors.New("record: name too long")
	ErrDescriptionTooLong = errors.New("record: description too long")
	ErrURITooLong         = errors.New("record: uri too long")
	ErrBlurHashTooLong    = errors.New("record: blur hash too long")

	// ErrPassBookAlreadyActivated indicates Activate on an activated pass book.
	ErrPassBookAlreadyActivated = errors.New("record: pass book is already activated")

	// ErrPassBookAlreadyDeactivated indicates Deactivate on a deactivated pass book.
	ErrPassBookAlreadyDeactivated = errors.New("record: pass book is already deactivated")

	// ErrPassNotActivated indicates an operation that needs an activated pass book.
	ErrPassNotActivated = errors.New("record: pass book is not activated")

	// ErrPassBookEnded indicates a pass book whose supply is sold out for good.
	ErrPassBookEnded = errors.New("record: pass book has ended")

	// ErrImmutablePassBook indicates an edit of a pass book created immutable.
	ErrImmutablePassBook = errors.New("record: pass book is immutable")

	// ErrWrongPassState indicates an edit of an activated pass book.
	ErrWrongPassState = errors.New("record: pass book cannot be edited while activated")

	// ErrCantSetTheSameValue indicates an edit that sets a field to its current value.
	ErrCantSetTheSameValue = errors.New("record: can't set the same value")

	// ErrEmptyEdit indicates an edit that names no field.
	ErrEmptyEdit = errors.New("record: edit changes nothing")

	// ErrSupplyIsGtThanMaxSupply indicates a sale past the pass book's max supply.
	ErrSupplyIsGtThanMaxSupply = errors.New("record: supply would exceed max supply")

	// ErrMembershipNotActive indicates a use of an inactive or lapsed membership.
	ErrMembershipNotActive = errors.New("record: membership is not active")

	// ErrNoUsesRemaining indicates a membership whose uses are spent.
	ErrNoUsesRemaining = errors.New("record: membership has no uses remaining")

	// ErrMembershipNotExpired indicates Expire on a membership that has not lapsed.
	ErrMembershipNotExpired = errors.New("record: membership has not expired")
)
