package record

import (
	"fmt"

	"github.com/bitfsorg/passbook-go/address"
)

const creatorSize = address.Size + 1 // address(32) + share(1)

// PassBookSize is the byte size of every marshaled PassBook.
const PassBookSize = 1 + // account type
	2*address.Size + // authority, mint
	MaxNameLength + MaxDescriptionLength + MaxURILength +
	1 + 1 + // mutable, state
	optU64Size + optU64Size + // access, duration
	u64Size + optU64Size + // supply, max supply
	1 + MaxBlurHashLength +
	u64Size + // created at
	u64Size + address.Size + // price, price asset
	optAddrSize + // market authority
	address.Size + // vault
	1 + MaxCreators*creatorSize +
	optU64Size + optU64Size // pieces in one wallet, max uses

// Creator is one creator payout target and its percentage share.
type Creator struct {
	Address address.Address
	Share   uint8
}

// PassBook is a sellable pass definition.
type PassBook struct {
	Authority   address.Address
	Mint        address.Address // master collectible
	Name        string
	Description string
	URI         string
	Mutable     bool
	State       PassState

	Access   *uint64 // validity period in days
	Duration *uint64 // session length in minutes

	Supply    uint64
	MaxSupply *uint64
	BlurHash  *string
	CreatedAt int64

	Price      uint64
	PriceAsset address.Address

	MarketAuthority *address.Address
	Vault           address.Address
	Creators        []Creator

	PiecesInOneWallet *uint64
	MaxUses           *uint64
}

// Marshal encodes the pass book into PassBookSize bytes.
func (p *PassBook) Marshal() ([]byte, error) {
	if len(p.Creators) > MaxCreators {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyCreators, len(p.Creators), MaxCreators)
	}
	e := newEncoder(PassBookSize, TypePassBook)
	e.addr(p.Authority)
	e.addr(p.Mint)
	e.text(p.Name, MaxNameLength, ErrNameTooLong)
	e.text(p.Description, MaxDescriptionLength, ErrDescriptionTooLong)
	e.text(p.URI, MaxURILength, ErrURITooLong)
	e.flag(p.Mutable)
	e.u8(uint8(p.State))
	e.optU64(p.Access)
	e.optU64(p.Duration)
	e.u64(p.Supply)
	e.optU64(p.MaxSupply)
	e.optText(p.BlurHash, MaxBlurHashLength, ErrBlurHashTooLong)
	e.i64(p.CreatedAt)
	e.u64(p.Price)
	e.addr(p.PriceAsset)
	e.optAddr(p.MarketAuthority)
	e.addr(p.Vault)
	e.u8(uint8(len(p.Creators)))
	for i := 0; i < MaxCreators; i++ {
		if i < len(p.Creators) {
			e.addr(p.Creators[i].Address)
			e.u8(p.Creators[i].Share)
		} else {
			e.off += creatorSize
		}
	}
	e.optU64(p.PiecesInOneWallet)
	e.optU64(p.MaxUses)
	return e.bytes()
}

// UnmarshalPassBook decodes a PassBook written by Marshal.
func UnmarshalPassBook(data []byte) (*PassBook, error) {
	d, err := newDecoder(data, PassBookSize, TypePassBook)
	if err != nil {
		return nil, err
	}
	p := &PassBook{}
	p.Authority = d.addr()
	p.Mint = d.addr()
	p.Name = d.text(MaxNameLength)
	p.Description = d.text(MaxDescriptionLength)
	p.URI = d.text(MaxURILength)
	p.Mutable = d.flag()
	p.State = PassState(d.u8())
	p.Access = d.optU64()
	p.Duration = d.optU64()
	p.Supply = d.u64()
	p.MaxSupply = d.optU64()
	p.BlurHash = d.optText(MaxBlurHashLength)
	p.CreatedAt = d.i64()
	p.Price = d.u64()
	p.PriceAsset = d.addr()
	p.MarketAuthority = d.optAddr()
	p.Vault = d.addr()
	n := int(d.u8())
	if n > MaxCreators {
		return nil, fmt.Errorf("%w: %d creators", ErrInvalidData, n)
	}
	for i := 0; i < MaxCreators; i++ {
		if i < n {
			c := Creator{Address: d.addr()}
			c.Share = d.u8()
			p.Creators = append(p.Creators, c)
		} else {
			d.off += creatorSize
		}
	}
	p.PiecesInOneWallet = d.optU64()
	p.MaxUses = d.optU64()
	if p.State > PassEnded {
		return nil, fmt.Errorf("%w: pass state %d", ErrInvalidData, p.State)
	}
	if d.err != nil {
		return nil, d.err
	}
	return p, nil
}

// ValidateText checks the text fields against their limits.
func ValidateText(name, description, uri string, blurHash *string) error {
	switch {
	case len(name) > MaxNameLength:
		return ErrNameTooLong
	case len(description) > MaxDescriptionLength:
		return ErrDescriptionTooLong
	case len(uri) > MaxURILength:
		return ErrURITooLong
	case blurHash != nil && len(*blurHash) > MaxBlurHashLength:
		return ErrBlurHashTooLong
	}
	return nil
}

// Activate moves the pass book to Activated.
func (p *PassBook) Activate() error {
	switch p.State {
	case PassNotActivated, PassDeactivated:
		p.State = PassActivated
		return nil
	case PassActivated:
		return ErrPassBookAlreadyActivated
	default:
		return ErrPassBookEnded
	}
}

// Deactivate moves an activated pass book to Deactivated.
func (p *PassBook) Deactivate() error {
	switch p.State {
	case PassActivated:
		p.State = PassDeactivated
		return nil
	case PassDeactivated:
		return ErrPassBookAlreadyDeactivated
	case PassNotActivated:
		return ErrPassNotActivated
	default:
		return ErrPassBookEnded
	}
}

// Exhausted reports whether every piece of a capped pass book is sold.
func (p *PassBook) Exhausted() bool {
	return p.MaxSupply != nil && p.Supply >= *p.MaxSupply
}

// RecordSale increments supply. Selling the last piece ends the pass book.
func (p *PassBook) RecordSale() error {
	if p.Exhausted() {
		return ErrSupplyIsGtThanMaxSupply
	}
	if err := increment(&p.Supply, 1); err != nil {
		return err
	}
	if p.Exhausted() {
		p.State = PassEnded
	}
	return nil
}

// Edit names the pass book fields to change. Nil fields are left alone.
type Edit struct {
	Name        *string
	Description *string
	URI         *string
	BlurHash    *string
	Price       *uint64
	PriceAsset  *address.Address
	Mutable     *bool
}

// Fields returns the names of the fields the edit sets.
func (e Edit) Fields() []string {
	var out []string
	if e.Name != nil {
		out = append(out, "name")
	}
	if e.Description != nil {
		out = append(out, "description")
	}
	if e.URI != nil {
		out = append(out, "uri")
	}
	if e.BlurHash != nil {
		out = append(out, "blur_hash")
	}
	if e.Price != nil {
		out = append(out, "price")
	}
	if e.PriceAsset != nil {
		out = append(out, "price_asset")
	}
	if e.Mutable != nil {
		out = append(out, "mutable")
	}
	return out
}

// ApplyEdit applies e. The pass book must be mutable and not activated, and
// every named field must differ from its current value. On error p is
// unchanged.
func (p *PassBook) ApplyEdit(e Edit) error {
	if !p.Mutable {
		return ErrImmutablePassBook
	}
	if p.State == PassActivated {
		return ErrWrongPassState
	}
	if len(e.Fields()) == 0 {
		return ErrEmptyEdit
	}

	next := *p
	if err := setChanged(&next.Name, e.Name, "name"); err != nil {
		return err
	}
	if err := setChanged(&next.Description, e.Description, "description"); err != nil {
		return err
	}
	if err := setChanged(&next.URI, e.URI, "uri"); err != nil {
		return err
	}
	if e.BlurHash != nil {
		if p.BlurHash != nil && *p.BlurHash == *e.BlurHash {
			return fmt.Errorf("%w: blur_hash", ErrCantSetTheSameValue)
		}
		v := *e.BlurHash
		next.BlurHash = &v
	}
	if err := setChanged(&next.Price, e.Price, "price"); err != nil {
		return err
	}
	if err := setChanged(&next.PriceAsset, e.PriceAsset, "price_asset"); err != nil {
		return err
	}
	if err := setChanged(&next.Mutable, e.Mutable, "mutable"); err != nil {
		return err
	}
	if err := ValidateText(next.Name, next.Description, next.URI, next.BlurHash); err != nil {
		return err
	}
	*p = next
	return nil
}

func setChanged[T comparable](field *T, v *T, name string) error {
	if v == nil {
		return nil
	}
	if *field == *v {
		return fmt.Errorf("%w: %s", ErrCantSetTheSameValue, name)
	}
	*field = *v
	return nil
}
