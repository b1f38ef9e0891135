package loom

import (
	"github.com/domainlend/loom/codec"
	"github.com/domainlend/loom/errors"
)

// Metadata is embedded in every model and message. Schema is the version of
// the layout, see the migration package.
type Metadata struct {
	Schema uint32 `json:"schema"`
}

// Validate ensures a schema version is declared.
func (m *Metadata) Validate() error {
	if m == nil {
		return errors.Wrap(errors.ErrMetadata, "missing")
	}
	if m.Schema < 1 {
		return errors.Wrap(errors.ErrMetadata, "schema version must be at least 1")
	}
	return nil
}

// Copy returns a copy of this object.
func (m *Metadata) Copy() *Metadata {
	if m == nil {
		return nil
	}
	cpy := *m
	return &cpy
}

func (m *Metadata) Marshal() ([]byte, error) {
	e := codec.NewEncoder()
	e.Uint32(1, m.Schema)
	return e.Result()
}

func (m *Metadata) Unmarshal(raw []byte) error {
	d := codec.NewDecoder(raw)
	for d.Next() {
		switch d.Field() {
		case 1:
			m.Schema = d.Uint32()
		default:
			d.Skip()
		}
	}
	return d.Err()
}
