package record

import "github.com/bitfsorg/passbook-go/address"

// PayoutSize is the byte size of every marshaled Payout.
const PayoutSize = 1 + 3*address.Size + 2*u64Size

// Payout accumulates what one recipient has been paid in one asset.
type Payout struct {
	Authority address.Address // recipient
	Asset     address.Address
	Treasury  address.Address // settlement destination, fixed at creation
	CashIn    uint64
	CashOut   uint64
}

// Marshal encodes the payout into PayoutSize bytes.
func (p *Payout) Marshal() ([]byte, error) {
	e := newEncoder(PayoutSize, TypePayout)
	e.addr(p.Authority)
	e.addr(p.Asset)
	e.addr(p.Treasury)
	e.u64(p.CashIn)
	e.u64(p.CashOut)
	return e.bytes()
}

// UnmarshalPayout decodes a Payout written by Marshal.
func UnmarshalPayout(data []byte) (*Payout, error) {
	d, err := newDecoder(data, PayoutSize, TypePayout)
	if err != nil {
		return nil, err
	}
	return &Payout{
		Authority: d.addr(),
		Asset:     d.addr(),
		Treasury:  d.addr(),
		CashIn:    d.u64(),
		CashOut:   d.u64(),
	}, nil
}

// Credit adds amount to CashIn.
func (p *Payout) Credit(amount uint64) error { return increment(&p.CashIn, amount) }
