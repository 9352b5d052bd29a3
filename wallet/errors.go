package wallet

import "errors"

var (
	// ErrInvalidMnemonic indicates the mnemonic fails BIP39 validation.
	ErrInvalidMnemonic = errors.New("wallet: invalid BIP39 mnemonic")

	// ErrInvalidEntropy indicates entropy bits is not 128 or 256.
	ErrInvalidEntropy = errors.New("wallet: entropy bits must be 128 or 256")

	// ErrInvalidSeed indicates the seed is empty or invalid.
	ErrInvalidSeed = errors.New("wallet: invalid seed")

	// ErrDerivationFailed indicates BIP32 key derivation failed.
	ErrDerivationFailed = errors.New("wallet: key derivation failed")

	// ErrIndexOutOfRange indicates a key index exceeds the BIP32 non-hardened max.
	ErrIndexOutOfRange = errors.New("wallet: key index exceeds maximum (2^31-1)")

	// ErrInvalidPublicKey indicates public key bytes could not be parsed.
	ErrInvalidPublicKey = errors.New("wallet: invalid public key")

	// ErrInvalidSignature indicates a signature does not verify for its key.
	ErrInvalidSignature = errors.New("wallet: invalid signature")

	// ErrNilKey indicates a nil key pair was supplied.
	ErrNilKey = errors.New("wallet: key pair is nil")
)
