package token

import "errors"

var (
	// ErrAccountNotFound indicates no token account exists at the address.
	ErrAccountNotFound = errors.New("token: account not found")

	// ErrAccountExists indicates an Open for an address that already has an account.
	ErrAccountExists = errors.New("token: account already exists")

	// ErrAssetMismatch indicates a transfer touching an account of another asset.
	ErrAssetMismatch = errors.New("token: account asset does not match transfer asset")

	// ErrInsufficientFunds indicates the source balance is below the transfer amount.
	ErrInsufficientFunds = errors.New("token: insufficient funds")

	// ErrOverflow indicates a balance would exceed uint64.
	ErrOverflow = errors.New("token: balance overflow")

	// ErrZeroAmount indicates a transfer of zero units.
	ErrZeroAmount = errors.New("token: transfer amount is zero")

	// ErrNativeAccount indicates an Open for the native asset, whose accounts are implicit.
	ErrNativeAccount = errors.New("token: native accounts cannot be opened")
)
