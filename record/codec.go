package record

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/bitfsorg/passbook-go/address"
)

const (
	u64Size     = 8
	optU64Size  = 1 + u64Size
	optAddrSize = 1 + address.Size
	usesSize    = 1 + 2*u64Size
)

// encoder writes a fixed layout front to back. The first error sticks.
type encoder struct {
	buf []byte
	off int
	err error
}

func newEncoder(size int, t AccountType) *encoder {
	e := &encoder{buf: make([]byte, size)}
	e.u8(uint8(t))
	return e
}

func (e *encoder) u8(v uint8) {
	e.buf[e.off] = v
	e.off++
}

func (e *encoder) flag(v bool) {
	if v {
		e.u8(1)
	} else {
		e.u8(0)
	}
}

func (e *encoder) u64(v uint64) {
	binary.BigEndian.PutUint64(e.buf[e.off:e.off+u64Size], v)
	e.off += u64Size
}

func (e *encoder) i64(v int64) { e.u64(uint64(v)) }

func (e *encoder) addr(a address.Address) {
	copy(e.buf[e.off:e.off+address.Size], a[:])
	e.off += address.Size
}

// text writes s zero-padded to width bytes.
func (e *encoder) text(s string, width int, tooLong error) {
	if len(s) > width {
		if e.err == nil {
			e.err = fmt.Errorf("%w: %d > %d bytes", tooLong, len(s), width)
		}
		s = ""
	}
	copy(e.buf[e.off:e.off+width], s)
	e.off += width
}

func (e *encoder) optU64(v *uint64) {
	e.flag(v != nil)
	if v != nil {
		e.u64(*v)
	} else {
		e.off += u64Size
	}
}

func (e *encoder) optI64(v *int64) {
	if v == nil {
		e.optU64(nil)
		return
	}
	u := uint64(*v)
	e.optU64(&u)
}

func (e *encoder) optAddr(v *address.Address) {
	e.flag(v != nil)
	if v != nil {
		e.addr(*v)
	} else {
		e.off += address.Size
	}
}

func (e *encoder) optText(v *string, width int, tooLong error) {
	e.flag(v != nil)
	if v != nil {
		e.text(*v, width, tooLong)
	} else {
		e.off += width
	}
}

func (e *encoder) bytes() ([]byte, error) {
	if e.err != nil {
		return nil, e.err
	}
	return e.buf, nil
}

// decoder reads a layout written by encoder. The first error sticks.
type decoder struct {
	buf []byte
	off int
	err error
}

func newDecoder(data []byte, size int, t AccountType) (*decoder, error) {
	if len(data) != size {
		return nil, fmt.Errorf("%w: %s expected %d bytes, got %d", ErrInvalidData, t, size, len(data))
	}
	if got := AccountType(data[0]); got != t {
		return nil, fmt.Errorf("%w: expected %s, got %s", ErrWrongAccountType, t, got)
	}
	return &decoder{buf: data, off: 1}, nil
}

func (d *decoder) u8() uint8 {
	v := d.buf[d.off]
	d.off++
	return v
}

func (d *decoder) flag() bool {
	v := d.u8()
	if v > 1 && d.err == nil {
		d.err = fmt.Errorf("%w: flag byte %d at offset %d", ErrInvalidData, v, d.off-1)
	}
	return v == 1
}

func (d *decoder) u64() uint64 {
	v := binary.BigEndian.Uint64(d.buf[d.off : d.off+u64Size])
	d.off += u64Size
	return v
}

func (d *decoder) i64() int64 { return int64(d.u64()) }

func (d *decoder) addr() address.Address {
	var a address.Address
	copy(a[:], d.buf[d.off:d.off+address.Size])
	d.off += address.Size
	return a
}

func (d *decoder) text(width int) string {
	raw := d.buf[d.off : d.off+width]
	d.off += width
	return string(bytes.TrimRight(raw, "\x00"))
}

func (d *decoder) optU64() *uint64 {
	if !d.flag() {
		d.off += u64Size
		return nil
	}
	v := d.u64()
	return &v
}

func (d *decoder) optI64() *int64 {
	u := d.optU64()
	if u == nil {
		return nil
	}
	v := int64(*u)
	return &v
}

func (d *decoder) optAddr() *address.Address {
	if !d.flag() {
		d.off += address.Size
		return nil
	}
	a := d.addr()
	return &a
}

func (d *decoder) optText(width int) *string {
	if !d.flag() {
		d.off += width
		return nil
	}
	s := d.text(width)
	return &s
}
