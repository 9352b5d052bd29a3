// Package record defines the fixed-size ledger records of the pass
// marketplace and their state transitions.
//
// Every record kind marshals to a constant number of bytes. Text is
// zero-padded to its field maximum and optional values are a presence byte
// followed by the value's full slot, so a record never changes size after it
// is allocated. The first byte of every record is its AccountType.
package record

import "fmt"

// Field limits, in bytes.
const (
	MaxNameLength        = 32
	MaxDescriptionLength = 500
	MaxURILength         = 200
	MaxBlurHashLength    = 90
	MaxCreators          = 5
)

// AccountType tags the kind of record stored in a slot.
type AccountType uint8

const (
	TypeUninitialized AccountType = iota
	TypePassBook
	TypeStore
	TypePayout
	TypeTradeHistory
	TypeMembership
)

func (t AccountType) String() string {
	switch t {
	case TypeUninitialized:
		return "uninitialized"
	case TypePassBook:
		return "passbook"
	case TypeStore:
		return "store"
	case TypePayout:
		return "payout"
	case TypeTradeHistory:
		return "trade_history"
	case TypeMembership:
		return "membership"
	default:
		return fmt.Sprintf("account_type(%d)", uint8(t))
	}
}

// PassState is the lifecycle state of a pass book.
type PassState uint8

const (
	PassNotActivated PassState = iota
	PassActivated
	PassDeactivated
	PassEnded
)

func (s PassState) String() string {
	switch s {
	case PassNotActivated:
		return "not_activated"
	case PassActivated:
		return "activated"
	case PassDeactivated:
		return "deactivated"
	case PassEnded:
		return "ended"
	default:
		return fmt.Sprintf("pass_state(%d)", uint8(s))
	}
}

// MembershipState is the stored state of a membership.
type MembershipState uint8

const (
	MembershipNotActivated MembershipState = iota
	MembershipActivated
	MembershipExpired
)

func (s MembershipState) String() string {
	switch s {
	case MembershipNotActivated:
		return "not_activated"
	case MembershipActivated:
		return "activated"
	case MembershipExpired:
		return "expired"
	default:
		return fmt.Sprintf("membership_state(%d)", uint8(s))
	}
}

// increment adds by to *v, failing without change on overflow.
func increment(v *uint64, by uint64) error {
	if *v+by < *v {
		return ErrOverflow
	}
	*v += by
	return nil
}
