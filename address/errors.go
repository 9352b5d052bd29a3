package address

import "errors"

var (
	// ErrInvalidLength indicates a byte slice is not 32 bytes long.
	ErrInvalidLength = errors.New("address: must be 32 bytes")

	// ErrInvalidHex indicates the address string is not valid hex.
	ErrInvalidHex = errors.New("address: invalid hex")

	// ErrInvalidSecret indicates the capability secret cannot be used.
	ErrInvalidSecret = errors.New("address: invalid capability secret")
)
