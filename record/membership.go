package record

import "github.com/bitfsorg/passbook-go/address"

// MembershipSize is the byte size of every marshaled Membership.
const MembershipSize = 1 + 2*address.Size + optAddrSize + optU64Size + 1 + optU64Size + usesSize

// Uses tracks how many redemptions a membership has left.
type Uses struct {
	Remaining uint64
	Total     uint64
}

// Membership is one buyer's access window with one store.
type Membership struct {
	Store       address.Address
	Owner       address.Address
	PassBook    *address.Address
	ExpiresAt   *int64
	State       MembershipState
	ActivatedAt *int64
	Uses        *Uses
}

// Marshal encodes the membership into MembershipSize bytes.
func (m *Membership) Marshal() ([]byte, error) {
	e := newEncoder(MembershipSize, TypeMembership)
	e.addr(m.Store)
	e.addr(m.Owner)
	e.optAddr(m.PassBook)
	e.optI64(m.ExpiresAt)
	e.u8(uint8(m.State))
	e.optI64(m.ActivatedAt)
	e.flag(m.Uses != nil)
	if m.Uses != nil {
		e.u64(m.Uses.Remaining)
		e.u64(m.Uses.Total)
	}
	return e.bytes()
}

// UnmarshalMembership decodes a Membership written by Marshal.
func UnmarshalMembership(data []byte) (*Membership, error) {
	d, err := newDecoder(data, MembershipSize, TypeMembership)
	if err != nil {
		return nil, err
	}
	m := &Membership{
		Store:       d.addr(),
		Owner:       d.addr(),
		PassBook:    d.optAddr(),
		ExpiresAt:   d.optI64(),
		State:       MembershipState(d.u8()),
		ActivatedAt: d.optI64(),
	}
	if d.flag() {
		m.Uses = &Uses{Remaining: d.u64(), Total: d.u64()}
	}
	if d.err != nil {
		return nil, d.err
	}
	return m, nil
}

// Expired reports whether the access window closed before now. A membership
// without an expiry never expires.
func (m *Membership) Expired(now int64) bool {
	return m.ExpiresAt != nil && now > *m.ExpiresAt
}

// IsActive reports whether the membership grants access at now. A lapsed
// expiry wins over the stored state.
func (m *Membership) IsActive(now int64) bool {
	return m.State == MembershipActivated && !m.Expired(now)
}

// Renew points the membership at passBook with a new expiry and refreshed
// uses, and activates it. It reports whether the membership was not active
// in stored state before, so the caller can count the activation.
func (m *Membership) Renew(passBook address.Address, expiresAt *int64, maxUses *uint64, now int64) bool {
	pb := passBook
	m.PassBook = &pb
	m.ExpiresAt = expiresAt
	m.Uses = nil
	if maxUses != nil {
		m.Uses = &Uses{Remaining: *maxUses, Total: *maxUses}
	}

	if m.State == MembershipActivated {
		return false
	}
	m.State = MembershipActivated
	at := now
	m.ActivatedAt = &at
	return true
}

// Use consumes one use. Memberships without a use counter are unlimited.
func (m *Membership) Use(now int64) error {
	if !m.IsActive(now) {
		return ErrMembershipNotActive
	}
	if m.Uses == nil {
		return nil
	}
	if m.Uses.Remaining == 0 {
		return ErrNoUsesRemaining
	}
	m.Uses.Remaining--
	return nil
}

// Expire marks a lapsed activated membership as Expired.
func (m *Membership) Expire(now int64) error {
	if m.State != MembershipActivated || !m.Expired(now) {
		return ErrMembershipNotExpired
	}
	m.State = MembershipExpired
	return nil
}
