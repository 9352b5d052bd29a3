package token

import (
	"context"
	"fmt"
	"maps"
	"sync"

	"github.com/bitfsorg/passbook-go/address"
)

// MemService is an in-memory Service.
type MemService struct {
	mu          sync.RWMutex
	accounts    map[address.Address]Account
	balances    map[address.Address]uint64
	primarySold map[address.Address]bool
}

// Compile-time interface check.
var _ Service = (*MemService)(nil)

// NewMemService creates an empty in-memory token service.
func NewMemService() *MemService {
	return &MemService{
		accounts:    make(map[address.Address]Account),
		balances:    make(map[address.Address]uint64),
		primarySold: make(map[address.Address]bool),
	}
}

// CreateAccount opens a non-native account outside of a batch.
func (s *MemService) CreateAccount(account, owner, asset address.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return open(s.accounts, Op{Account: account, Owner: owner, Asset: asset})
}

// Mint credits amount to the account at addr. Native accounts need no prior
// Open.
func (s *MemService) Mint(addr address.Address, amount uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := lookup(s.accounts, addr); err != nil {
		return err
	}
	bal := s.balances[addr]
	if bal+amount < bal {
		return ErrOverflow
	}
	s.balances[addr] = bal + amount
	return nil
}

// SetPrimarySaleHappened records whether mint has changed hands once.
func (s *MemService) SetPrimarySaleHappened(mint address.Address, happened bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.primarySold[mint] = happened
}

func (s *MemService) Account(ctx context.Context, addr address.Address) (*Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acct, err := lookup(s.accounts, addr)
	if err != nil {
		return nil, err
	}
	return &acct, nil
}

func (s *MemService) Balance(ctx context.Context, addr address.Address) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, err := lookup(s.accounts, addr); err != nil {
		return 0, err
	}
	return s.balances[addr], nil
}

func (s *MemService) PrimarySaleHappened(ctx context.Context, mint address.Address) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.primarySold[mint], nil
}

// Execute applies the batch to copies of the account and balance maps and
// swaps them in only when every op succeeded.
func (s *MemService) Execute(ctx context.Context, b *Batch) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	accounts := maps.Clone(s.accounts)
	balances := maps.Clone(s.balances)
	for i, op := range b.Ops {
		var err error
		switch op.Kind {
		case OpOpen:
			err = open(accounts, op)
		case OpTransfer:
			err = transfer(accounts, balances, op)
		default:
			err = fmt.Errorf("token: unknown op kind %d", op.Kind)
		}
		if err != nil {
			return fmt.Errorf("batch %s op %d (%s): %w", b.ID, i, op.Kind, err)
		}
	}
	s.accounts = accounts
	s.balances = balances
	return nil
}

// lookup resolves explicit accounts first, then the implicit native account.
func lookup(accounts map[address.Address]Account, addr address.Address) (Account, error) {
	if acct, ok := accounts[addr]; ok {
		return acct, nil
	}
	if addr.IsZero() {
		return Account{}, ErrAccountNotFound
	}
	return Account{Address: addr, Owner: addr, Asset: address.Native}, nil
}

func open(accounts map[address.Address]Account, op Op) error {
	if op.Asset.IsZero() {
		return ErrNativeAccount
	}
	if _, ok := accounts[op.Account]; ok {
		return ErrAccountExists
	}
	accounts[op.Account] = Account{Address: op.Account, Owner: op.Owner, Asset: op.Asset}
	return nil
}

func transfer(accounts map[address.Address]Account, balances map[address.Address]uint64, op Op) error {
	if op.Amount == 0 {
		return ErrZeroAmount
	}
	for _, addr := range []address.Address{op.From, op.To} {
		acct, err := lookup(accounts, addr)
		if err != nil {
			return err
		}
		if acct.Asset != op.Asset {
			return fmt.Errorf("%w: %s", ErrAssetMismatch, addr.Short())
		}
	}
	if balances[op.From] < op.Amount {
		return ErrInsufficientFunds
	}
	if balances[op.To]+op.Amount < balances[op.To] {
		return ErrOverflow
	}
	balances[op.From] -= op.Amount
	balances[op.To] += op.Amount
	return nil
}
