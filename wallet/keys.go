// Package wallet holds the keys of marketplace participants and turns their
// signatures into the Authorization the market engine checks signers against.
//
// A participant's identity is the address.Address SHA256(compressed pubkey).
package wallet

import (
	"crypto/sha256"
	"fmt"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"

	"github.com/bitfsorg/passbook-go/address"
)

// KeyPair holds a participant's private and public key.
type KeyPair struct {
	PrivateKey *ec.PrivateKey `json:"-"`
	PublicKey  *ec.PublicKey  `json:"public_key"`
	Path       string         `json:"path,omitempty"` // empty for random keys
}

// NewKeyPair generates a random key pair.
func NewKeyPair() (*KeyPair, error) {
	priv, err := ec.NewPrivateKey()
	if err != nil {
		return nil, fmt.Errorf("wallet: generate key: %w", err)
	}
	return newKeyPair(priv)
}

func newKeyPair(priv *ec.PrivateKey) (*KeyPair, error) {
	pub := priv.PubKey()
	if pub == nil {
		return nil, fmt.Errorf("%w: failed to derive public key", ErrDerivationFailed)
	}
	return &KeyPair{PrivateKey: priv, PublicKey: pub}, nil
}

// Address returns the participant identity of kp.
func (kp *KeyPair) Address() address.Address {
	return AddressOf(kp.PublicKey)
}

// Sign signs SHA256(msg) and returns the DER-encoded signature.
func (kp *KeyPair) Sign(msg []byte) ([]byte, error) {
	if kp == nil || kp.PrivateKey == nil {
		return nil, ErrNilKey
	}
	digest := sha256.Sum256(msg)
	sig, err := kp.PrivateKey.Sign(digest[:])
	if err != nil {
		return nil, fmt.Errorf("wallet: sign: %w", err)
	}
	return sig.Serialize(), nil
}

// AddressOf maps a public key to its participant identity.
func AddressOf(pub *ec.PublicKey) address.Address {
	return address.Address(sha256.Sum256(pub.Compressed()))
}

// VerifySignature checks a DER signature over SHA256(msg) against pub.
func VerifySignature(pub *ec.PublicKey, msg, sig []byte) error {
	parsed, err := ec.ParseDERSignature(sig)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	}
	digest := sha256.Sum256(msg)
	if !parsed.Verify(digest[:], pub) {
		return ErrInvalidSignature
	}
	return nil
}
