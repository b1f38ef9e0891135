package orm

import (
	"bytes"
	"sort"

	"github.com/domainlend/loom"
	"github.com/domainlend/loom/codec"
	"github.com/domainlend/loom/errors"
)

// IndexerFunc calculates the secondary index value of a model. A nil value
// means the model is not indexed.
type IndexerFunc func(Model) ([]byte, error)

// index maintains a mapping from an index value to the primary keys of all
// models having this value. It is stored under
//
//	_i.<bucket>_<name>:<value>
type index struct {
	name   string
	prefix []byte
	fn     IndexerFunc
	unique bool
}

func newIndex(bucket, name string, fn IndexerFunc, unique bool) *index {
	return &index{
		name:   name,
		prefix: []byte("_i." + bucket + "_" + name + ":"),
		fn:     fn,
		unique: unique,
	}
}

func (i *index) dbKey(value []byte) []byte {
	out := make([]byte, len(i.prefix)+len(value))
	copy(out, i.prefix)
	copy(out[len(i.prefix):], value)
	return out
}

func (i *index) value(m Model) ([]byte, error) {
	if m == nil {
		return nil, nil
	}
	v, err := i.fn(m)
	if err != nil {
		return nil, errors.Wrapf(err, "index %q", i.name)
	}
	return v, nil
}

// keys returns all primary keys referenced by given index value.
func (i *index) keys(db loom.ReadOnlyKVStore, value []byte) ([][]byte, error) {
	raw, err := db.Get(i.dbKey(value))
	if err != nil {
		return nil, errors.Wrap(err, "cannot load index")
	}
	if raw == nil {
		return nil, nil
	}
	var r refs
	if err := r.Unmarshal(raw); err != nil {
		return nil, errors.Wrapf(err, "index %q", i.name)
	}
	return r.Keys, nil
}

// update moves the primary key from the index value of prev to the index
// value of next. Either of the models can be nil.
func (i *index) update(db loom.KVStore, pk []byte, prev, next Model) error {
	pv, err := i.value(prev)
	if err != nil {
		return err
	}
	nv, err := i.value(next)
	if err != nil {
		return err
	}
	if prev != nil && next != nil && bytes.Equal(pv, nv) {
		return nil
	}
	if prev != nil && pv != nil {
		if err := i.remove(db, pv, pk); err != nil {
			return err
		}
	}
	if next != nil && nv != nil {
		if err := i.add(db, nv, pk); err != nil {
			return err
		}
	}
	return nil
}

func (i *index) add(db loom.KVStore, value, pk []byte) error {
	keys, err := i.keys(db, value)
	if err != nil {
		return err
	}
	pos := sort.Search(len(keys), func(n int) bool { return bytes.Compare(keys[n], pk) >= 0 })
	if pos < len(keys) && bytes.Equal(keys[pos], pk) {
		return nil
	}
	if i.unique && len(keys) > 0 {
		return errors.Wrapf(errors.ErrDuplicate, "unique index %q", i.name)
	}
	keys = append(keys, nil)
	copy(keys[pos+1:], keys[pos:])
	keys[pos] = pk
	return i.store(db, value, keys)
}

func (i *index) remove(db loom.KVStore, value, pk []byte) error {
	keys, err := i.keys(db, value)
	if err != nil {
		return err
	}
	pos := sort.Search(len(keys), func(n int) bool { return bytes.Compare(keys[n], pk) >= 0 })
	if pos == len(keys) || !bytes.Equal(keys[pos], pk) {
		return errors.Wrapf(errors.ErrHuman, "index %q does not reference %X", i.name, pk)
	}
	keys = append(keys[:pos], keys[pos+1:]...)
	if len(keys) == 0 {
		return db.Delete(i.dbKey(value))
	}
	return i.store(db, value, keys)
}

func (i *index) store(db loom.KVStore, value []byte, keys [][]byte) error {
	raw, err := (&refs{Keys: keys}).Marshal()
	if err != nil {
		return err
	}
	return db.Set(i.dbKey(value), raw)
}

// refs is the serialized, sorted list of primary keys of an index entry.
type refs struct {
	Keys [][]byte
}

func (r *refs) Marshal() ([]byte, error) {
	e := codec.NewEncoder()
	for _, k := range r.Keys {
		e.Bytes(1, k)
	}
	return e.Result()
}

func (r *refs) Unmarshal(raw []byte) error {
	d := codec.NewDecoder(raw)
	for d.Next() {
		switch d.Field() {
		case 1:
			r.Keys = append(r.Keys, d.Bytes())
		default:
			d.Skip()
		}
	}
	return d.Err()
}
