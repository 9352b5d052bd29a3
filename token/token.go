// Package token is the value-moving collaborator of the market engine.
//
// Every token account is an address.Address holding a balance of one asset.
// The native settlement asset is address.Native; its accounts are implicit
// and addressed by their owner. Other assets need an explicit account opened
// for an owner.
package token

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/bitfsorg/passbook-go/address"
)

// Account describes one token account.
type Account struct {
	Address address.Address
	Owner   address.Address
	Asset   address.Address
}

// Service moves value between token accounts.
type Service interface {
	// Account returns the account at addr, or ErrAccountNotFound.
	Account(ctx context.Context, addr address.Address) (*Account, error)

	// Balance returns the balance of the account at addr.
	Balance(ctx context.Context, addr address.Address) (uint64, error)

	// PrimarySaleHappened reports whether the collectible minted as mint has
	// already changed hands once.
	PrimarySaleHappened(ctx context.Context, mint address.Address) (bool, error)

	// Execute applies every op of the batch, or none of them.
	Execute(ctx context.Context, b *Batch) error
}

// OpKind is the kind of a batch operation.
type OpKind uint8

const (
	OpOpen OpKind = iota + 1
	OpTransfer
)

func (k OpKind) String() string {
	switch k {
	case OpOpen:
		return "open"
	case OpTransfer:
		return "transfer"
	default:
		return fmt.Sprintf("op(%d)", uint8(k))
	}
}

// Op is one step of a Batch.
type Op struct {
	Kind OpKind

	// Open
	Account address.Address
	Owner   address.Address

	// Open and Transfer
	Asset address.Address

	// Transfer
	From   address.Address
	To     address.Address
	Amount uint64
}

// Batch is an ordered list of operations executed atomically.
type Batch struct {
	ID  uuid.UUID
	Ops []Op
}

// NewBatch returns an empty batch with a fresh id.
func NewBatch() *Batch {
	return &Batch{ID: uuid.New()}
}

// Open appends the creation of a token account of asset owned by owner.
func (b *Batch) Open(account, owner, asset address.Address) {
	b.Ops = append(b.Ops, Op{Kind: OpOpen, Account: account, Owner: owner, Asset: asset})
}

// Transfer appends a transfer of amount units of asset.
func (b *Batch) Transfer(asset, from, to address.Address, amount uint64) {
	b.Ops = append(b.Ops, Op{Kind: OpTransfer, Asset: asset, From: from, To: to, Amount: amount})
}

// Len returns the number of queued operations.
func (b *Batch) Len() int { return len(b.Ops) }

// Total returns the sum of all transfers into to.
func (b *Batch) Total(to address.Address) uint64 {
	var sum uint64
	for _, op := range b.Ops {
		if op.Kind == OpTransfer && op.To == to {
			sum += op.Amount
		}
	}
	return sum
}
