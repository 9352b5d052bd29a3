package wallet

import (
	"fmt"

	bip32 "github.com/bsv-blockchain/go-sdk/compat/bip32"
	chaincfg "github.com/bsv-blockchain/go-sdk/transaction/chaincfg"
)

const (
	// BIP44 path constants.
	PurposeBIP44     = 44
	CoinTypePassBook = 236

	// MaxIndex is the largest non-hardened BIP32 child index.
	MaxIndex = 1<<31 - 1

	// Hardened is the BIP32 hardened offset.
	Hardened = 0x80000000
)

// Role selects the BIP44 account a participant key is derived under.
type Role uint32

const (
	RoleAuthority Role = iota
	RoleBuyer
	RoleCreator
	RoleOperator
	RoleReferrer
)

func (r Role) String() string {
	switch r {
	case RoleAuthority:
		return "authority"
	case RoleBuyer:
		return "buyer"
	case RoleCreator:
		return "creator"
	case RoleOperator:
		return "operator"
	case RoleReferrer:
		return "referrer"
	default:
		return fmt.Sprintf("role(%d)", uint32(r))
	}
}

// Wallet derives marketplace participant keys from one BIP32 master.
//
// Key hierarchy: m/44'/236'/{role}'/0/{index}
type Wallet struct {
	masterKey *bip32.ExtendedKey
}

// NewWallet creates a Wallet from a BIP39 seed.
func NewWallet(seed []byte) (*Wallet, error) {
	if len(seed) == 0 {
		return nil, ErrInvalidSeed
	}
	masterKey, err := bip32.NewMaster(seed, &chaincfg.MainNet)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDerivationFailed, err)
	}
	return &Wallet{masterKey: masterKey}, nil
}

// DeriveKey derives the index-th key for role.
//
//	Path: m/44'/236'/role'/0/index
func (w *Wallet) DeriveKey(role Role, index uint32) (*KeyPair, error) {
	if index > MaxIndex || uint32(role) > MaxIndex {
		return nil, ErrIndexOutOfRange
	}

	key := w.masterKey
	steps := []struct {
		name  string
		child uint32
	}{
		{"purpose", PurposeBIP44 + Hardened},
		{"coin type", CoinTypePassBook + Hardened},
		{"role", uint32(role) + Hardened},
		{"chain", 0},
		{"index", index},
	}
	for _, step := range steps {
		next, err := key.Child(step.child)
		if err != nil {
			return nil, fmt.Errorf("%w: %s derivation: %w", ErrDerivationFailed, step.name, err)
		}
		key = next
	}

	priv, err := key.ECPrivKey()
	if err != nil {
		return nil, fmt.Errorf("%w: extract EC private key: %w", ErrDerivationFailed, err)
	}
	kp, err := newKeyPair(priv)
	if err != nil {
		return nil, err
	}
	kp.Path = fmt.Sprintf("m/44'/%d'/%d'/0/%d", CoinTypePassBook, uint32(role), index)
	return kp, nil
}
