package address

import (
	"crypto/hmac"
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

const (
	// Prefix is mixed into every derivation.
	Prefix = "passbook"

	// HKDFCapabilityInfo is the HKDF info string for the capability key.
	HKDFCapabilityInfo = "passbook-capability"

	// ProofSize is the byte length of a capability proof.
	ProofSize = sha256.Size
)

// Namespace tags the kind of record an address belongs to.
type Namespace string

const (
	NamespaceStore      Namespace = "store"
	NamespacePassBook   Namespace = "passbook"
	NamespacePayout     Namespace = "payout"
	NamespaceHistory    Namespace = "history"
	NamespaceMembership Namespace = "membership"
	NamespaceVault      Namespace = "vault"
	NamespaceTreasury   Namespace = "treasury"
)

// Slot is a derived address together with the proof that authorizes writes
// to it on behalf of its namespace.
type Slot struct {
	Namespace Namespace
	Address   Address
	Proof     [ProofSize]byte
}

// Deriver maps (namespace, owner, discriminants...) tuples to slots.
// It is safe for concurrent use.
type Deriver struct {
	programID Address
	capKey    []byte
}

// NewDeriver creates a Deriver for programID. The capability key is derived
// from secret with HKDF-SHA256, salted by the program id.
func NewDeriver(programID Address, secret []byte) (*Deriver, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("%w: secret is empty", ErrInvalidSecret)
	}
	r := hkdf.New(sha256.New, secret, programID[:], []byte(HKDFCapabilityInfo))
	key := make([]byte, sha256.Size)
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSecret, err)
	}
	return &Deriver{programID: programID, capKey: key}, nil
}

// ProgramID returns the program id the deriver was created for.
func (d *Deriver) ProgramID() Address { return d.programID }

// Derive returns the canonical slot for the tuple.
//
//	address = SHA256("passbook" || programID || owner || discriminants... || ns)
//	proof   = HMAC-SHA256(capKey, address || ns)
func (d *Deriver) Derive(ns Namespace, owner Address, discriminants ...Address) Slot {
	h := sha256.New()
	h.Write([]byte(Prefix))
	h.Write(d.programID[:])
	h.Write(owner[:])
	for _, disc := range discriminants {
		h.Write(disc[:])
	}
	h.Write([]byte(ns))

	slot := Slot{Namespace: ns}
	copy(slot.Address[:], h.Sum(nil))
	copy(slot.Proof[:], d.proof(ns, slot.Address))
	return slot
}

// Verify reports whether slot carries a valid proof for its address.
func (d *Deriver) Verify(slot Slot) bool {
	return hmac.Equal(slot.Proof[:], d.proof(slot.Namespace, slot.Address))
}

func (d *Deriver) proof(ns Namespace, addr Address) []byte {
	mac := hmac.New(sha256.New, d.capKey)
	mac.Write(addr[:])
	mac.Write([]byte(ns))
	return mac.Sum(nil)
}

// Store derives the slot of the store owned by authority.
func (d *Deriver) Store(authority Address) Slot {
	return d.Derive(NamespaceStore, authority)
}

// PassBook derives the slot of the pass book for a master collectible mint.
func (d *Deriver) PassBook(mint Address) Slot {
	return d.Derive(NamespacePassBook, mint)
}

// Payout derives the slot of the payout record of recipient in asset.
func (d *Deriver) Payout(recipient, asset Address) Slot {
	return d.Derive(NamespacePayout, recipient, asset)
}

// TradeHistory derives the slot of buyer's history for a pass book.
func (d *Deriver) TradeHistory(passBook, buyer Address) Slot {
	return d.Derive(NamespaceHistory, passBook, buyer)
}

// Membership derives the slot of buyer's membership in a store.
func (d *Deriver) Membership(store, buyer Address) Slot {
	return d.Derive(NamespaceMembership, store, buyer)
}

// Vault derives the token account holding a pass book's master collectible.
func (d *Deriver) Vault(passBook Address) Slot {
	return d.Derive(NamespaceVault, passBook)
}

// Treasury derives the token account that receives a payout record's funds.
func (d *Deriver) Treasury(payout Address) Slot {
	return d.Derive(NamespaceTreasury, payout)
}
