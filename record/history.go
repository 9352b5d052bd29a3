package record

import "github.com/bitfsorg/passbook-go/address"

// TradeHistorySize is the byte size of every marshaled TradeHistory.
const TradeHistorySize = 1 + 2*address.Size + u64Size

// TradeHistory counts one buyer's purchases from one pass book.
type TradeHistory struct {
	PassBook      address.Address
	Buyer         address.Address
	AlreadyBought uint64
}

// Marshal encodes the history into TradeHistorySize bytes.
func (h *TradeHistory) Marshal() ([]byte, error) {
	e := newEncoder(TradeHistorySize, TypeTradeHistory)
	e.addr(h.PassBook)
	e.addr(h.Buyer)
	e.u64(h.AlreadyBought)
	return e.bytes()
}

// UnmarshalTradeHistory decodes a TradeHistory written by Marshal.
func UnmarshalTradeHistory(data []byte) (*TradeHistory, error) {
	d, err := newDecoder(data, TradeHistorySize, TypeTradeHistory)
	if err != nil {
		return nil, err
	}
	return &TradeHistory{
		PassBook:      d.addr(),
		Buyer:         d.addr(),
		AlreadyBought: d.u64(),
	}, nil
}

// Reached reports whether the buyer has used up a per-wallet cap. A nil cap
// never limits.
func (h *TradeHistory) Reached(limit *uint64) bool {
	return limit != nil && h.AlreadyBought >= *limit
}

// AddPurchase increments AlreadyBought.
func (h *TradeHistory) AddPurchase() error { return increment(&h.AlreadyBought, 1) }
