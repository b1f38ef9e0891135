/*
Package codec provides deterministic protobuf wire encoding for models and
messages.

Types implement Marshal and Unmarshal by hand, writing their fields in a
fixed order with an Encoder and reading them back with a Decoder. Zero
values are omitted, as proto3 does, so equal values always produce equal
bytes and can safely be hashed or used as store values.
*/
package codec

import (
	"github.com/domainlend/loom/errors"
	"github.com/gogo/protobuf/proto"
)

// Protobuf wire types used by the encoding.
const (
	WireVarint  = proto.WireVarint
	WireBytes   = proto.WireBytes
	WireFixed64 = proto.WireFixed64
	WireFixed32 = proto.WireFixed32
)

// Marshaller is implemented by every type that can be serialized.
type Marshaller interface {
	Marshal() ([]byte, error)
}

// Unmarshaller is implemented by every type that can be deserialized.
type Unmarshaller interface {
	Unmarshal([]byte) error
}

// Encoder appends protobuf encoded fields to a buffer.
type Encoder struct {
	buf *proto.Buffer
	err error
}

// NewEncoder returns an encoder with an empty buffer.
func NewEncoder() *Encoder {
	return &Encoder{buf: proto.NewBuffer(nil)}
}

func (e *Encoder) key(field int, wire int) {
	if e.err != nil {
		return
	}
	e.err = e.buf.EncodeVarint(uint64(field)<<3 | uint64(wire))
}

// Uint64 writes a varint field. Zero is omitted.
func (e *Encoder) Uint64(field int, v uint64) {
	if v == 0 || e.err != nil {
		return
	}
	e.key(field, WireVarint)
	if e.err == nil {
		e.err = e.buf.EncodeVarint(v)
	}
}

// Uint32 writes a varint field. Zero is omitted.
func (e *Encoder) Uint32(field int, v uint32) {
	e.Uint64(field, uint64(v))
}

// Int32 writes a varint field. Zero is omitted. Negative values are
// sign extended as protobuf requires.
func (e *Encoder) Int32(field int, v int32) {
	e.Uint64(field, uint64(int64(v)))
}

// Bool writes a varint field. False is omitted.
func (e *Encoder) Bool(field int, v bool) {
	if v {
		e.Uint64(field, 1)
	}
}

// Bytes writes a length delimited field. Empty values are omitted.
func (e *Encoder) Bytes(field int, b []byte) {
	if len(b) == 0 || e.err != nil {
		return
	}
	e.key(field, WireBytes)
	if e.err == nil {
		e.err = e.buf.EncodeRawBytes(b)
	}
}

// String writes a length delimited field. Empty values are omitted.
func (e *Encoder) String(field int, s string) {
	if s == "" || e.err != nil {
		return
	}
	e.key(field, WireBytes)
	if e.err == nil {
		e.err = e.buf.EncodeStringBytes(s)
	}
}

// Message writes a nested message. A nil message is omitted.
func (e *Encoder) Message(field int, m Marshaller) {
	if m == nil || e.err != nil || isNil(m) {
		return
	}
	raw, err := m.Marshal()
	if err != nil {
		e.err = err
		return
	}
	e.key(field, WireBytes)
	if e.err == nil {
		e.err = e.buf.EncodeRawBytes(raw)
	}
}

// Result returns the encoded bytes or the first error that happened.
func (e *Encoder) Result() ([]byte, error) {
	if e.err != nil {
		return nil, errors.Wrap(errors.ErrInput, e.err.Error())
	}
	return e.buf.Bytes(), nil
}

// Decoder reads protobuf encoded fields one by one.
//
//	d := codec.NewDecoder(raw)
//	for d.Next() {
//	    switch d.Field() {
//	    case 1:
//	        m.Nonce = d.Uint64()
//	    default:
//	        d.Skip()
//	    }
//	}
//	return d.Err()
type Decoder struct {
	raw   []byte
	pos   int
	field int
	wire  int
	err   error
}

// NewDecoder returns a decoder reading the given bytes.
func NewDecoder(raw []byte) *Decoder {
	return &Decoder{raw: raw}
}

// Next reads the key of the next field. It returns false when the input is
// consumed or a decoding error happened.
func (d *Decoder) Next() bool {
	if d.err != nil || d.pos >= len(d.raw) {
		return false
	}
	k := d.varint()
	if d.err != nil {
		return false
	}
	d.field = int(k >> 3)
	d.wire = int(k & 7)
	if d.field <= 0 {
		d.err = errors.Wrapf(errors.ErrInput, "invalid field number %d", d.field)
		return false
	}
	return true
}

// Field returns the number of the field read by the last Next call.
func (d *Decoder) Field() int {
	return d.field
}

// Err returns the first decoding error.
func (d *Decoder) Err() error {
	return d.err
}

func (d *Decoder) varint() uint64 {
	x, n := proto.DecodeVarint(d.raw[d.pos:])
	if n == 0 {
		d.err = errors.Wrap(errors.ErrInput, "malformed varint")
		return 0
	}
	d.pos += n
	return x
}

func (d *Decoder) expect(wire int) bool {
	if d.err != nil {
		return false
	}
	if d.wire != wire {
		d.err = errors.Wrapf(errors.ErrInput, "field %d: wire type %d, want %d", d.field, d.wire, wire)
		return false
	}
	return true
}

// Uint64 reads a varint value of the current field.
func (d *Decoder) Uint64() uint64 {
	if !d.expect(WireVarint) {
		return 0
	}
	return d.varint()
}

// Uint32 reads a varint value of the current field, failing on overflow.
func (d *Decoder) Uint32() uint32 {
	v := d.Uint64()
	if v > 1<<32-1 {
		d.err = errors.Wrapf(errors.ErrOverflow, "field %d", d.field)
		return 0
	}
	return uint32(v)
}

// Int32 reads a varint value of the current field.
func (d *Decoder) Int32() int32 {
	return int32(d.Uint64())
}

// Bool reads a varint value of the current field.
func (d *Decoder) Bool() bool {
	return d.Uint64() != 0
}

// Bytes reads a length delimited value of the current field. The returned
// slice is a copy.
func (d *Decoder) Bytes() []byte {
	if !d.expect(WireBytes) {
		return nil
	}
	n := d.varint()
	if d.err != nil {
		return nil
	}
	if n > uint64(len(d.raw)-d.pos) {
		d.err = errors.Wrapf(errors.ErrInput, "field %d: truncated", d.field)
		return nil
	}
	b := make([]byte, n)
	copy(b, d.raw[d.pos:])
	d.pos += int(n)
	return b
}

// String reads a length delimited value of the current field.
func (d *Decoder) String() string {
	return string(d.Bytes())
}

// Message reads a nested message into m.
func (d *Decoder) Message(m Unmarshaller) {
	raw := d.Bytes()
	if d.err != nil {
		return
	}
	if err := m.Unmarshal(raw); err != nil {
		d.err = errors.Wrapf(err, "field %d", d.field)
	}
}

// Skip ignores the value of the current field. Unknown fields are skipped
// to allow adding new fields without breaking old readers.
func (d *Decoder) Skip() {
	switch d.wire {
	case WireVarint:
		d.varint()
	case WireBytes:
		d.Bytes()
	case WireFixed64:
		d.advance(8)
	case WireFixed32:
		d.advance(4)
	default:
		d.err = errors.Wrapf(errors.ErrInput, "field %d: unsupported wire type %d", d.field, d.wire)
	}
}

func (d *Decoder) advance(n int) {
	if len(d.raw)-d.pos < n {
		d.err = errors.Wrapf(errors.ErrInput, "field %d: truncated", d.field)
		return
	}
	d.pos += n
}
