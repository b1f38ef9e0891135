package codec

import (
	"testing"

	"github.com/domainlend/loom/errors"
	"github.com/domainlend/loom/loomtest/assert"
)

type inner struct {
	Name string
}

func (i *inner) Marshal() ([]byte, error) {
	e := NewEncoder()
	e.String(1, i.Name)
	return e.Result()
}

func (i *inner) Unmarshal(raw []byte) error {
	d := NewDecoder(raw)
	for d.Next() {
		switch d.Field() {
		case 1:
			i.Name = d.String()
		default:
			d.Skip()
		}
	}
	return d.Err()
}

type outer struct {
	Nonce   uint64
	Version uint32
	Enabled bool
	Key     []byte
	Inner   *inner
}

func (o *outer) Marshal() ([]byte, error) {
	e := NewEncoder()
	e.Uint64(1, o.Nonce)
	e.Uint32(2, o.Version)
	e.Bool(3, o.Enabled)
	e.Bytes(4, o.Key)
	e.Message(5, o.Inner)
	return e.Result()
}

func (o *outer) Unmarshal(raw []byte) error {
	d := NewDecoder(raw)
	for d.Next() {
		switch d.Field() {
		case 1:
			o.Nonce = d.Uint64()
		case 2:
			o.Version = d.Uint32()
		case 3:
			o.Enabled = d.Bool()
		case 4:
			o.Key = d.Bytes()
		case 5:
			o.Inner = &inner{}
			d.Message(o.Inner)
		default:
			d.Skip()
		}
	}
	return d.Err()
}

func TestEncodingIsCanonical(t *testing.T) {
	o := outer{
		Nonce:   300,
		Version: 1,
		Enabled: true,
		Key:     []byte{0xaa, 0xbb},
		Inner:   &inner{Name: "loom"},
	}
	raw, err := o.Marshal()
	assert.Nil(t, err)
	want := []byte{
		0x08, 0xac, 0x02, // 1: 300
		0x10, 0x01, // 2: 1
		0x18, 0x01, // 3: true
		0x22, 0x02, 0xaa, 0xbb, // 4: key
		0x2a, 0x06, 0x0a, 0x04, 'l', 'o', 'o', 'm', // 5: inner
	}
	assert.Equal(t, want, raw)

	var got outer
	assert.Nil(t, got.Unmarshal(raw))
	assert.Equal(t, o, got)
}

func TestZeroValuesAreOmitted(t *testing.T) {
	raw, err := (&outer{}).Marshal()
	assert.Nil(t, err)
	assert.Equal(t, 0, len(raw))
}

func TestUnknownFieldsAreSkipped(t *testing.T) {
	e := NewEncoder()
	e.Uint64(1, 7)
	e.String(9, "from the future")
	e.Uint64(10, 1)
	raw, err := e.Result()
	assert.Nil(t, err)

	var o outer
	assert.Nil(t, o.Unmarshal(raw))
	assert.Equal(t, uint64(7), o.Nonce)
}

func TestMalformedInput(t *testing.T) {
	cases := map[string][]byte{
		"truncated bytes":   {0x22, 0x05, 0xaa},
		"truncated varint":  {0x08, 0xff},
		"wrong wire type":   {0x0a, 0x01, 0x00},
		"zero field number": {0x00, 0x01},
		"uint32 overflow":   {0x10, 0x80, 0x80, 0x80, 0x80, 0x10},
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			var o outer
			err := o.Unmarshal(raw)
			if !errors.ErrInput.Is(err) && !errors.ErrOverflow.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
		})
	}
}
