package migration

import (
	"testing"

	"github.com/domainlend/loom"
	"github.com/domainlend/loom/codec"
	"github.com/domainlend/loom/errors"
	"github.com/domainlend/loom/loomtest/assert"
	"github.com/domainlend/loom/orm"
	"github.com/domainlend/loom/store"
)

type counter struct {
	Metadata *loom.Metadata
	Owner    []byte
	Cnt      uint64
}

var _ orm.Model = (*counter)(nil)

func (c *counter) GetMetadata() *loom.Metadata { return c.Metadata }

func (c *counter) Validate() error {
	if err := c.Metadata.Validate(); err != nil {
		return err
	}
	if c.Cnt > 1000 {
		return errors.Wrap(errors.ErrModel, "counter too big")
	}
	return nil
}

func (c *counter) Marshal() ([]byte, error) {
	e := codec.NewEncoder()
	e.Message(1, c.Metadata)
	e.Bytes(2, c.Owner)
	e.Uint64(3, c.Cnt)
	return e.Result()
}

func (c *counter) Unmarshal(raw []byte) error {
	*c = counter{}
	d := codec.NewDecoder(raw)
	for d.Next() {
		switch d.Field() {
		case 1:
			c.Metadata = &loom.Metadata{}
			d.Message(c.Metadata)
		case 2:
			c.Owner = d.Bytes()
		case 3:
			c.Cnt = d.Uint64()
		default:
			d.Skip()
		}
	}
	return d.Err()
}

func double(db loom.ReadOnlyKVStore, m Migratable) error {
	c := m.(*counter)
	c.Cnt *= 2
	return nil
}

func TestRegisterApply(t *testing.T) {
	r := newRegister()
	r.MustRegister(1, &counter{}, NoModification)
	r.MustRegister(2, &counter{}, double)
	r.MustRegister(3, &counter{}, double)

	db := store.MemStore()

	c := &counter{Metadata: &loom.Metadata{Schema: 1}, Cnt: 5}
	assert.Nil(t, r.Apply(db, c, 3))
	assert.Equal(t, uint32(3), c.Metadata.Schema)
	assert.Equal(t, uint64(20), c.Cnt)

	// Already migrated models are not modified.
	assert.Nil(t, r.Apply(db, c, 3))
	assert.Equal(t, uint64(20), c.Cnt)

	c = &counter{Metadata: &loom.Metadata{Schema: 2}, Cnt: 5}
	assert.Nil(t, r.Apply(db, c, 3))
	assert.Equal(t, uint64(10), c.Cnt)

	// Migration to a version that was never registered.
	c = &counter{Metadata: &loom.Metadata{Schema: 3}, Cnt: 5}
	assert.IsErr(t, ErrSchema, r.Apply(db, c, 4))

	// Final version must be valid.
	c = &counter{Metadata: &loom.Metadata{Schema: 1}, Cnt: 600}
	assert.IsErr(t, errors.ErrModel, r.Apply(db, c, 2))

	assert.IsErr(t, errors.ErrMetadata, r.Apply(db, &counter{}, 2))
}

func TestRegisterRejects(t *testing.T) {
	r := newRegister()
	assert.Nil(t, r.Register(1, &counter{}, NoModification))
	assert.IsErr(t, errors.ErrDuplicate, r.Register(1, &counter{}, NoModification))
	assert.IsErr(t, errors.ErrInput, r.Register(0, &counter{}, NoModification))
	assert.Panics(t, func() { r.MustRegister(1, &counter{}, NoModification) })
}
