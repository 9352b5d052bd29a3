package record

import "github.com/bitfsorg/passbook-go/address"

// StoreSize is the byte size of every marshaled Store.
const StoreSize = 1 + address.Size + 5*u64Size + optAddrSize + optU64Size

// Store aggregates one selling authority's lifetime counters and its
// referral configuration.
type Store struct {
	Authority             address.Address
	RedemptionsCount      uint64
	MembershipCount       uint64
	ActiveMembershipCount uint64
	PassCount             uint64 // passes sold
	PassBookCount         uint64

	Referrer        *address.Address
	ReferralEndDate *int64
}

// Marshal encodes the store into StoreSize bytes.
func (s *Store) Marshal() ([]byte, error) {
	e := newEncoder(StoreSize, TypeStore)
	e.addr(s.Authority)
	e.u64(s.RedemptionsCount)
	e.u64(s.MembershipCount)
	e.u64(s.ActiveMembershipCount)
	e.u64(s.PassCount)
	e.u64(s.PassBookCount)
	e.optAddr(s.Referrer)
	e.optI64(s.ReferralEndDate)
	return e.bytes()
}

// UnmarshalStore decodes a Store written by Marshal.
func UnmarshalStore(data []byte) (*Store, error) {
	d, err := newDecoder(data, StoreSize, TypeStore)
	if err != nil {
		return nil, err
	}
	s := &Store{
		Authority:             d.addr(),
		RedemptionsCount:      d.u64(),
		MembershipCount:       d.u64(),
		ActiveMembershipCount: d.u64(),
		PassCount:             d.u64(),
		PassBookCount:         d.u64(),
		Referrer:              d.optAddr(),
		ReferralEndDate:       d.optI64(),
	}
	if d.err != nil {
		return nil, d.err
	}
	return s, nil
}

// ReferralOpen reports whether a referrer is set and its window has not
// elapsed at now. A referrer without an end date never lapses.
func (s *Store) ReferralOpen(now int64) bool {
	if s.Referrer == nil {
		return false
	}
	return s.ReferralEndDate == nil || now <= *s.ReferralEndDate
}

func (s *Store) AddPassBook() error   { return increment(&s.PassBookCount, 1) }
func (s *Store) AddPassSold() error   { return increment(&s.PassCount, 1) }
func (s *Store) AddRedemption() error { return increment(&s.RedemptionsCount, 1) }
func (s *Store) AddMembership() error { return increment(&s.MembershipCount, 1) }

func (s *Store) AddActiveMembership() error {
	return increment(&s.ActiveMembershipCount, 1)
}
