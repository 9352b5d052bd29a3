package wallet

import (
	"fmt"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"

	"github.com/bitfsorg/passbook-go/address"
)

// Signature is one participant's signature over a request message.
type Signature struct {
	PublicKey []byte // compressed
	Sig       []byte // DER
}

// Authorization is the set of identities whose signatures over a request were
// verified. The market engine only asks whether an identity signed.
type Authorization struct {
	signers map[address.Address]struct{}
}

// Authorize verifies every signature over msg. Any invalid signature fails
// the whole authorization.
func Authorize(msg []byte, sigs ...Signature) (*Authorization, error) {
	auth := &Authorization{signers: make(map[address.Address]struct{}, len(sigs))}
	for i, s := range sigs {
		pub, err := ec.PublicKeyFromBytes(s.PublicKey)
		if err != nil {
			return nil, fmt.Errorf("%w: signature %d: %w", ErrInvalidPublicKey, i, err)
		}
		if err := VerifySignature(pub, msg, s.Sig); err != nil {
			return nil, fmt.Errorf("signature %d: %w", i, err)
		}
		auth.signers[AddressOf(pub)] = struct{}{}
	}
	return auth, nil
}

// SignAll signs msg with every key and verifies the result.
func SignAll(msg []byte, keys ...*KeyPair) (*Authorization, error) {
	sigs := make([]Signature, 0, len(keys))
	for _, kp := range keys {
		if kp == nil {
			return nil, ErrNilKey
		}
		sig, err := kp.Sign(msg)
		if err != nil {
			return nil, err
		}
		sigs = append(sigs, Signature{PublicKey: kp.PublicKey.Compressed(), Sig: sig})
	}
	return Authorize(msg, sigs...)
}

// Signed reports whether addr signed. A nil Authorization has no signers.
func (a *Authorization) Signed(addr address.Address) bool {
	if a == nil {
		return false
	}
	_, ok := a.signers[addr]
	return ok
}

// Signers returns the number of verified signers.
func (a *Authorization) Signers() int {
	if a == nil {
		return 0
	}
	return len(a.signers)
}
